package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/schemas"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var schemaFiles = []string{
	"candidates.schema.json",
	"view.schema.json",
}

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err, "should be able to read schema file")

			var v interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
		})
	}
}

func TestSchemaFiles_ValidJSONSchema(t *testing.T) {
	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := os.ReadFile(filepath.Join(".", schemaFile))
			require.NoError(t, err)

			var schemaObj map[string]interface{}
			err = json.Unmarshal(data, &schemaObj)
			require.NoError(t, err)

			_, hasType := schemaObj["type"]
			_, hasSchema := schemaObj["$schema"]
			_, hasProps := schemaObj["properties"]

			assert.True(t, hasType || hasSchema || hasProps,
				"schema should have at least type, $schema, or properties")
		})
	}
}

func TestCandidatesSchema_AcceptsRealisticBatch(t *testing.T) {
	schemaData, err := os.ReadFile("candidates.schema.json")
	require.NoError(t, err)

	batch := `[
		{
			"name": "Perplexity",
			"website": "https://perplexity.ai",
			"source": "technews",
			"categories": ["search", "llm"],
			"weekly_users": 1200000,
			"llm_score": 4,
			"extra": {"stars": 18000, "prev_stars": 15000}
		},
		{
			"website": "https://hu.ma.ne",
			"is_hardware": true,
			"hardware_category": "wearable",
			"funding_total": "$230M"
		}
	]`

	err = schemas.ValidateJSONString(string(schemaData), batch)
	assert.NoError(t, err)
}

func TestCandidatesSchema_ToleratesUnknownKeys(t *testing.T) {
	schemaData, err := os.ReadFile("candidates.schema.json")
	require.NoError(t, err)

	// Upstream scrapers ship stray keys; the schema checks types of known
	// fields without rejecting the rest of the record.
	batch := `[{"name": "Rabbit", "scraper_version": "2.3", "raw_html_hash": "abc"}]`

	err = schemas.ValidateJSONString(string(schemaData), batch)
	assert.NoError(t, err)
}

func TestCandidatesSchema_RejectsWrongTypes(t *testing.T) {
	schemaData, err := os.ReadFile("candidates.schema.json")
	require.NoError(t, err)

	batch := `[{"name": "Rabbit", "weekly_users": "lots", "categories": "hardware"}]`

	err = schemas.ValidateJSONString(string(schemaData), batch)
	require.Error(t, err)

	var ve *schemas.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}

func TestViewSchema_AcceptsSerializedViewOutput(t *testing.T) {
	out := &types.ViewOutput{
		Name:        "dark_horses",
		GeneratedAt: "2025-08-20T12:00:00Z",
		Products: []*types.Product{
			{
				ID:             "1",
				CanonicalKey:   "humane.com",
				Name:           "Humane",
				Website:        "https://hu.ma.ne",
				Source:         "technews",
				Categories:     []string{"wearable"},
				HotScore:       62,
				TopScore:       58,
				TreasureScore:  71,
				FinalScore:     58,
				DarkHorseIndex: 4,
			},
		},
	}
	doc, err := json.Marshal(out)
	require.NoError(t, err)

	schemaData, err := os.ReadFile("view.schema.json")
	require.NoError(t, err)

	err = schemas.ValidateJSONString(string(schemaData), string(doc))
	assert.NoError(t, err)
}

func TestViewSchema_RejectsUnknownViewName(t *testing.T) {
	schemaData, err := os.ReadFile("view.schema.json")
	require.NoError(t, err)

	doc := `{"name": "weekly_flop", "generated_at": "2025-08-20T12:00:00Z", "products": []}`

	err = schemas.ValidateJSONString(string(schemaData), doc)
	require.Error(t, err)

	var ve *schemas.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestResolveSchemaPath_FindsShippedSchemas(t *testing.T) {
	// Tests run from this package directory, so the shipped files are one
	// level up from the "schemas/..." relative form.
	path := schemas.ResolveSchemaPath(schemas.CandidatesSchema)
	require.NotEmpty(t, path)

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestValidateBytes_UsesResolvedSchemaFile(t *testing.T) {
	path := schemas.ResolveSchemaPath(schemas.CandidatesSchema)
	require.NotEmpty(t, path)

	err := schemas.ValidateBytes(path, []byte(`[{"name": "Figure"}]`))
	assert.NoError(t, err)

	err = schemas.ValidateBytes(path, []byte(`{"name": "not an array"}`))
	require.Error(t, err)
	var ve *schemas.ValidationError
	assert.ErrorAs(t, err, &ve)
}
