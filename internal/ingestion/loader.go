// Package ingestion loads raw candidate records from JSON files and prepares
// them for the merge stage.
package ingestion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/schemas"
	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// Result holds the outcome of loading one or more candidate files.
type Result struct {
	Candidates []types.Candidate
	Files      []*Metadata
	// NoIdentity counts records carrying neither a name nor a website.
	// They are passed through here and dropped (and counted) by the merge;
	// the early count lets callers warn before the pipeline runs.
	NoIdentity int
}

// Loader reads candidate JSON files, validating each against the shipped
// candidates schema when one can be located.
type Loader struct {
	// SchemaPath is the resolved path of the candidates schema. Empty
	// disables validation (the binary may run far from the repo tree).
	SchemaPath string
}

// NewLoader returns a Loader with the shipped candidates schema resolved
// relative to the working directory.
func NewLoader() *Loader {
	return &Loader{SchemaPath: schemas.ResolveSchemaPath(schemas.CandidatesSchema)}
}

// LoadCandidates reads candidates from a JSON file or a directory of JSON
// files using the default loader.
func LoadCandidates(path string) (*Result, error) {
	return NewLoader().Load(path)
}

// Load reads candidates from path, which may be a single JSON file or a
// directory whose *.json files are read in name order. Schema violations and
// malformed JSON are fatal: a batch loads whole or not at all.
func (l *Loader) Load(path string) (*Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input path: %w", err)
	}

	files := []string{path}
	if info.IsDir() {
		files, err = filepath.Glob(filepath.Join(path, "*.json"))
		if err != nil {
			return nil, fmt.Errorf("failed to list candidate files: %w", err)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no *.json candidate files under %s", path)
		}
		sort.Strings(files)
	}

	result := &Result{}
	for _, file := range files {
		if err := l.loadFile(file, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (l *Loader) loadFile(path string, result *Result) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if l.SchemaPath != "" {
		if err := schemas.ValidateBytes(l.SchemaPath, data); err != nil {
			return fmt.Errorf("candidate file %s: %w", path, err)
		}
	}

	var batch []types.Candidate
	if err := json.Unmarshal(data, &batch); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	meta := NewMetadata(data, path)
	meta.Records = len(batch)
	result.Files = append(result.Files, meta)

	for i := range batch {
		if !batch[i].HasIdentity() {
			result.NoIdentity++
		}
	}
	result.Candidates = append(result.Candidates, batch...)
	return nil
}
