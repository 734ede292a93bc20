package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Junpapadiamond/weeklyai-sub000/internal/types"
)

// readProducts loads a product snapshot written by an earlier stage.
func readProducts(path string) ([]*types.Product, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read products file %s: %w", path, err)
	}

	var products []*types.Product
	if err := json.Unmarshal(content, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products file %s: %w", path, err)
	}
	return products, nil
}

// writeJSON marshals v with indentation and writes it to path, creating
// parent directories as needed. An empty path or "-" writes to stdout.
func writeJSON(path string, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	if path == "" || path == "-" {
		_, err := fmt.Fprintln(os.Stdout, string(output))
		return err
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, output, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
