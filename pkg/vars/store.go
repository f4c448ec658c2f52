// Package vars implements the process-wide global variable scope.
//
// A Store is owned by the host process and shared by every substitution
// call: the engine consults it after the per-call local scopes miss.
// All accessors are safe for concurrent use; the engine performs one
// lookup per key and never holds the store's lock across recursion.
package vars

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Store is a thread-safe key→value map with process lifetime.
type Store struct {
	mu     sync.RWMutex
	values map[string]any
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// Exists reports whether key is present, even when mapped to nil.
func (s *Store) Exists(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.values[key]
	return ok
}

// Lookup returns the value for key and whether it is present.
func (s *Store) Lookup(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Get returns the value for key, or nil when absent.
func (s *Store) Get(key string) any {
	v, _ := s.Lookup(key)
	return v
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Delete removes key. Removing an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Keys returns all keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of the current contents.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Merge copies every entry of m into the store, overwriting existing
// keys.
func (s *Store) Merge(m map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range m {
		s.values[k] = v
	}
}

// SetPair parses a "key=value" assignment and stores it. Values are
// kept as strings; coercion happens at substitution time.
func (s *Store) SetPair(pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	if !ok || key == "" {
		return fmt.Errorf("invalid assignment %q, want key=value", pair)
	}
	s.Set(key, value)
	return nil
}

// LoadFile merges variables from a YAML or JSON file. YAML is a
// superset of JSON, so one decoder covers both.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load globals: %w", err)
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("load globals %s: %w", filepath.Base(path), err)
	}
	s.Merge(m)
	return nil
}

// WriteFile saves the current contents as YAML, keys sorted.
func (s *Store) WriteFile(path string) error {
	data, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("save globals: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save globals: %w", err)
	}
	return nil
}
