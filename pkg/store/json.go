package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/japaniel/wordbook/pkg/vocab"
)

// JSONStore is the full-fidelity record store: one pretty-printed JSON array.
type JSONStore struct {
	path string
}

// NewJSONStore returns a store backed by the file at path.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Name identifies the sink in logs and errors.
func (s *JSONStore) Name() string { return "json" }

// Path returns the backing file path.
func (s *JSONStore) Path() string { return s.path }

// Load reads the collection. A missing file yields an empty collection.
func (s *JSONStore) Load() ([]vocab.Entry, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []vocab.Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var entries []vocab.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	if entries == nil {
		entries = []vocab.Entry{}
	}
	return entries, nil
}

// Write replaces the file with entries. Non-ASCII text is written as-is.
func (s *JSONStore) Write(_ context.Context, entries []vocab.Entry) error {
	if entries == nil {
		entries = []vocab.Entry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}

	return writeFile(s.path, buf.Bytes())
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
