package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

func TestReadProducts_ValidFile(t *testing.T) {
	products := []*types.Product{
		{ID: "1", Name: "Perplexity", Website: "https://perplexity.ai", HotScore: 85},
		{ID: "2", Name: "Hume Voice", Website: "https://hume.ai", HotScore: 60},
	}
	content, err := json.Marshal(products)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	loaded, err := readProducts(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "Perplexity", loaded[0].Name)
	assert.Equal(t, 85, loaded[0].HotScore)
}

func TestReadProducts_MissingFile(t *testing.T) {
	_, err := readProducts(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read products file")
}

func TestReadProducts_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"`), 0o644))

	_, err := readProducts(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse products file")
}

func TestWriteJSON_CreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "out.json")

	require.NoError(t, writeJSON(path, map[string]int{"products": 3}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, 3, decoded["products"])
}

func TestWriteJSON_RoundTripsProducts(t *testing.T) {
	products := []*types.Product{{ID: "1", Name: "Atlas Wearable", IsHardware: true}}
	path := filepath.Join(t.TempDir(), "products.json")

	require.NoError(t, writeJSON(path, products))

	loaded, err := readProducts(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Atlas Wearable", loaded[0].Name)
	assert.True(t, loaded[0].IsHardware)
}

func TestTopByHot_SortsWithoutMutatingInput(t *testing.T) {
	products := []*types.Product{
		{Name: "low", HotScore: 10},
		{Name: "high", HotScore: 90},
		{Name: "mid", HotScore: 50},
	}

	top := topByHot(products, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].Name)
	assert.Equal(t, "mid", top[1].Name)
	assert.Equal(t, "low", products[0].Name, "input order should be preserved")
}

func TestTopByHot_NLargerThanInput(t *testing.T) {
	products := []*types.Product{{Name: "only", HotScore: 5}}

	top := topByHot(products, 10)
	require.Len(t, top, 1)
	assert.Equal(t, "only", top[0].Name)
}
