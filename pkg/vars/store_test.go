package vars

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreBasics(t *testing.T) {
	store := New()
	assert.Equal(t, 0, store.Len())
	assert.False(t, store.Exists("k"))

	store.Set("k", "v")
	assert.True(t, store.Exists("k"))
	assert.Equal(t, "v", store.Get("k"))

	v, ok := store.Lookup("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	// nil is a stored value, not an absence.
	store.Set("null-key", nil)
	assert.True(t, store.Exists("null-key"))
	assert.Nil(t, store.Get("null-key"))

	store.Delete("k")
	assert.False(t, store.Exists("k"))
	store.Delete("k") // deleting twice is fine
}

func TestStoreKeysSorted(t *testing.T) {
	store := New()
	store.Set("zulu", 1)
	store.Set("alpha", 2)
	store.Set("mike", 3)
	assert.Equal(t, []string{"alpha", "mike", "zulu"}, store.Keys())
}

func TestStoreSnapshotIndependent(t *testing.T) {
	store := New()
	store.Set("k", "v")
	snap := store.Snapshot()
	store.Set("k", "changed")
	assert.Equal(t, "v", snap["k"])
}

func TestStoreSetPair(t *testing.T) {
	store := New()
	require.NoError(t, store.SetPair("region=eu-west-1"))
	assert.Equal(t, "eu-west-1", store.Get("region"))

	require.NoError(t, store.SetPair("empty="))
	assert.Equal(t, "", store.Get("empty"))

	require.NoError(t, store.SetPair("url=http://h?a=b"))
	assert.Equal(t, "http://h?a=b", store.Get("url"))

	assert.Error(t, store.SetPair("no-equals"))
	assert.Error(t, store.SetPair("=value"))
}

func TestStoreFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globals.yaml")

	store := New()
	store.Set("region", "eu-west-1")
	store.Set("replicas", 3)
	require.NoError(t, store.WriteFile(path))

	loaded := New()
	require.NoError(t, loaded.LoadFile(path))
	assert.Equal(t, "eu-west-1", loaded.Get("region"))
	assert.Equal(t, 3, loaded.Get("replicas"))
}

func TestStoreLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "globals.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"k": "v"}`), 0o644))

	store := New()
	require.NoError(t, store.LoadFile(path))
	assert.Equal(t, "v", store.Get("k"))
}

func TestStoreLoadFileMissing(t *testing.T) {
	store := New()
	err := store.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestStoreConcurrentAccess(t *testing.T) {
	store := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Set("k", n)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				store.Lookup("k")
				store.Exists("k")
				store.Keys()
			}
		}()
	}
	wg.Wait()
	assert.True(t, store.Exists("k"))
}
