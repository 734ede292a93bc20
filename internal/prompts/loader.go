// Package prompts embeds the LLM prompt templates shipped with the binary.
// Each JSON file maps prompt keys to template strings carrying {{.Key}}
// placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var files embed.FS

var (
	mu     sync.RWMutex
	parsed = make(map[string]map[string]string)
)

// Get returns the template stored under key in the named embedded file.
func Get(filename, key string) (string, error) {
	templates, err := load(filename)
	if err != nil {
		return "", err
	}
	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return template, nil
}

// MustGet is Get for prompts the program cannot run without.
func MustGet(filename, key string) string {
	template, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return template
}

// Format substitutes {{.Key}} placeholders with the values in data. Keys
// absent from data leave their placeholders in place.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// List returns the sorted prompt keys available in the named file.
func List(filename string) ([]string, error) {
	templates, err := load(filename)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// ClearCache drops the parsed-file cache.
func ClearCache() {
	mu.Lock()
	parsed = make(map[string]map[string]string)
	mu.Unlock()
}

// load parses an embedded prompt file once and caches the result.
func load(filename string) (map[string]string, error) {
	mu.RLock()
	templates, ok := parsed[filename]
	mu.RUnlock()
	if ok {
		return templates, nil
	}

	data, err := files.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	mu.Lock()
	parsed[filename] = templates
	mu.Unlock()
	return templates, nil
}
