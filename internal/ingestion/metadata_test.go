package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetadata_HashIsDeterministic(t *testing.T) {
	content := []byte(`[{"name": "Figure"}]`)

	a := NewMetadata(content, "a.json")
	b := NewMetadata(content, "b.json")
	c := NewMetadata([]byte(`[{"name": "Figure 02"}]`), "c.json")

	assert.Equal(t, a.Hash, b.Hash, "hash depends on content, not path")
	assert.NotEqual(t, a.Hash, c.Hash)
	assert.Len(t, a.Hash, 64, "SHA256 hex digest")
}

func TestNewMetadata_TimestampIsRFC3339(t *testing.T) {
	meta := NewMetadata([]byte("x"), "x.json")

	_, err := time.Parse(time.RFC3339, meta.Timestamp)
	assert.NoError(t, err)
}

func TestMetadata_ToJSON(t *testing.T) {
	meta := NewMetadata([]byte(`[]`), "batch.json")
	meta.Records = 7

	data, err := meta.ToJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "batch.json", decoded["path"])
	assert.Equal(t, float64(7), decoded["records"])
	assert.NotEmpty(t, decoded["hash"])
}
