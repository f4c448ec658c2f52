package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseXML(t *testing.T) {
	src := `<config env="prod">
  <host>db1</host>
  <port>5432</port>
  <replica>r1</replica>
  <replica>r2</replica>
  <auth>
    <user>admin</user>
  </auth>
</config>`

	doc, err := ParseXML([]byte(src))
	require.NoError(t, err)
	require.Equal(t, []string{"config"}, doc.Keys())

	config, ok := doc.Value("config").(*Document)
	require.True(t, ok)

	assert.Equal(t, "prod", config.Value("@env"))
	assert.Equal(t, "db1", config.Value("host"))
	assert.Equal(t, []string{"r1", "r2"}, config.Value("replica"))

	auth, ok := config.Value("auth").(*Document)
	require.True(t, ok)
	assert.Equal(t, "admin", auth.Value("user"))
}

func TestParseXMLRepeatedDocuments(t *testing.T) {
	src := `<servers>
  <server><name>a</name></server>
  <server><name>b</name></server>
</servers>`

	doc, err := ParseXML([]byte(src))
	require.NoError(t, err)
	servers := doc.Value("servers").(*Document)
	list, ok := servers.Value("server").([]*Document)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[1].Value("name"))
}

func TestParseXMLErrors(t *testing.T) {
	_, err := ParseXML([]byte(``))
	assert.Error(t, err)

	_, err = ParseXML([]byte(`<open>`))
	assert.Error(t, err)
}

func TestXMLRoundTrip(t *testing.T) {
	src := `<config env="prod"><host>db1</host><replica>r1</replica><replica>r2</replica></config>`
	doc, err := ParseXML([]byte(src))
	require.NoError(t, err)

	data, err := EncodeXML(doc, "document")
	require.NoError(t, err)

	again, err := ParseXML(data)
	require.NoError(t, err)
	assert.True(t, doc.Equal(again), "round trip changed the document:\n%s", data)
}
