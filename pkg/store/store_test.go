package store

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/japaniel/wordbook/pkg/vocab"
)

func sampleEntries() []vocab.Entry {
	return []vocab.Entry{
		{
			Word:         "run",
			PartOfSpeech: "verb",
			Meaning:      "走る",
			Examples:     []string{"I run.", "He ran."},
			Synonyms:     []string{"jog", "sprint"},
			Tags:         []string{},
			Notes:        "a < b & c",
			Mastery:      2,
			CreatedAt:    "2024-05-01T09:30:00.123456+00:00",
			SourceIssue:  "#1",
		},
	}
}

func TestJSONStoreLoadMissingFile(t *testing.T) {
	s := NewJSONStore(filepath.Join(t.TempDir(), "data", "words.json"))
	entries, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty collection, got %#v", entries)
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "words.json")
	s := NewJSONStore(path)
	if err := s.Write(context.Background(), sampleEntries()); err != nil {
		t.Fatalf("write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	text := string(raw)
	for _, want := range []string{`"meaning": "走る"`, `"notes": "a < b & c"`, `"tags": []`, "\n  {\n    \"word\": \"run\","} {
		if !strings.Contains(text, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, text)
		}
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(sampleEntries(), got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStoreWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	if err := NewJSONStore(path).Write(context.Background(), nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if strings.TrimSpace(string(raw)) != "[]" {
		t.Fatalf("expected [], got %q", raw)
	}
}

func TestJSONStoreLoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewJSONStore(path).Load(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCSVExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "words.csv")
	if err := NewCSVExport(path).Write(context.Background(), sampleEntries()); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected header + 1 row, got %d records", len(records))
	}
	if diff := cmp.Diff(Columns, records[0]); diff != "" {
		t.Fatalf("header mismatch (-want +got):\n%s", diff)
	}
	row := records[1]
	if row[5] != "I run. | He ran." {
		t.Errorf("examples cell = %q", row[5])
	}
	if row[6] != "jog | sprint" {
		t.Errorf("synonyms cell = %q", row[6])
	}
	if row[7] != "" {
		t.Errorf("tags cell = %q", row[7])
	}
	if row[9] != "2" {
		t.Errorf("mastery cell = %q", row[9])
	}

	raw, _ := os.ReadFile(path)
	if !strings.HasPrefix(string(raw), strings.Join(Columns, ",")+"\r\n") {
		t.Errorf("unexpected header line: %q", strings.SplitN(string(raw), "\n", 2)[0])
	}
}
