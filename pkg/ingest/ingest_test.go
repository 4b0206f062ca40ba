package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/japaniel/wordbook/pkg/store"
	"github.com/japaniel/wordbook/pkg/vocab"
	"go.uber.org/zap/zaptest"
)

const newWordBody = `### Word

Serendipity

### Part of speech

noun

### Meaning (Japanese)

思いがけない幸運

### Examples (one per line)

I run.
He ran.

### Tags (comma-separated)

a, b`

type fixture struct {
	ig       *Ingester
	jsonPath string
	csvPath  string
}

func setup(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "data", "words.json")
	csvPath := filepath.Join(dir, "data", "words.csv")
	js := store.NewJSONStore(jsonPath)
	ig := NewIngester(js, zaptest.NewLogger(t), js, store.NewCSVExport(csvPath))
	clock := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	ig.Now = func() time.Time {
		clock = clock.Add(time.Hour)
		return clock
	}
	return fixture{ig: ig, jsonPath: jsonPath, csvPath: csvPath}
}

func TestIngestAddThenUpdate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	status, err := f.ig.Ingest(ctx, Submission{Body: newWordBody, Number: "7"})
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	if status != vocab.StatusAdded {
		t.Fatalf("expected added, got %q", status)
	}
	first, _ := os.ReadFile(f.jsonPath)

	status, err = f.ig.Ingest(ctx, Submission{Body: newWordBody, Number: "8", URL: "https://github.com/o/r/issues/8"})
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if status != vocab.StatusUpdated {
		t.Fatalf("expected updated, got %q", status)
	}
	second, _ := os.ReadFile(f.jsonPath)

	want := bytes.Replace(first, []byte(`"source_issue": "#7"`), []byte(`"source_issue": "https://github.com/o/r/issues/8"`), 1)
	if !bytes.Equal(want, second) {
		t.Fatalf("resubmission changed more than source_issue:\nbefore:\n%s\nafter:\n%s", first, second)
	}

	csvData, err := os.ReadFile(f.csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if !strings.Contains(string(csvData), "I run. | He ran.") {
		t.Fatalf("csv missing joined examples:\n%s", csvData)
	}
}

func TestIngestPartialUpdateKeepsTags(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.ig.Ingest(ctx, Submission{Body: newWordBody, Number: "1"}); err != nil {
		t.Fatal(err)
	}

	omitted := "### Word\n\nserendipity\n\n### Tags (comma-separated)\n\n_No response_\n"
	if _, err := f.ig.Ingest(ctx, Submission{Body: omitted, Number: "2"}); err != nil {
		t.Fatal(err)
	}
	entries, err := store.NewJSONStore(f.jsonPath).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one entry, got %d", len(entries))
	}
	if strings.Join(entries[0].Tags, ",") != "a,b" {
		t.Fatalf("tags changed: %q", entries[0].Tags)
	}
	if entries[0].Word != "serendipity" {
		t.Fatalf("expected latest casing, got %q", entries[0].Word)
	}

	set := "### Word\n\nSerendipity\n\n### Tags\n\nc\n"
	if _, err := f.ig.Ingest(ctx, Submission{Body: set, Number: "3"}); err != nil {
		t.Fatal(err)
	}
	entries, _ = store.NewJSONStore(f.jsonPath).Load()
	if strings.Join(entries[0].Tags, ",") != "c" {
		t.Fatalf("tags not replaced: %q", entries[0].Tags)
	}
}

func TestIngestNewWordWithoutMeaningWritesNothing(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.ig.Ingest(ctx, Submission{Body: newWordBody, Number: "1"}); err != nil {
		t.Fatal(err)
	}
	jsonBefore, _ := os.ReadFile(f.jsonPath)
	csvBefore, _ := os.ReadFile(f.csvPath)

	body := "### Word\n\nzephyr\n\n### Meaning (Japanese)\n\n_No response_\n"
	status, err := f.ig.Ingest(ctx, Submission{Body: body, Number: "2"})
	if !errors.Is(err, vocab.ErrMissingMeaning) {
		t.Fatalf("expected ErrMissingMeaning, got %v", err)
	}
	if status != "" {
		t.Fatalf("expected no status, got %q", status)
	}
	jsonAfter, _ := os.ReadFile(f.jsonPath)
	csvAfter, _ := os.ReadFile(f.csvPath)
	if !bytes.Equal(jsonBefore, jsonAfter) || !bytes.Equal(csvBefore, csvAfter) {
		t.Fatalf("outputs modified on rejected submission")
	}
}

type countingLoader struct{ calls int }

func (c *countingLoader) Load() ([]vocab.Entry, error) {
	c.calls++
	return nil, nil
}

type recordingSink struct {
	name    string
	err     error
	written [][]vocab.Entry
}

func (r *recordingSink) Name() string { return r.name }

func (r *recordingSink) Write(_ context.Context, entries []vocab.Entry) error {
	r.written = append(r.written, entries)
	return r.err
}

func TestIngestMissingWordSkipsLoad(t *testing.T) {
	loader := &countingLoader{}
	sink := &recordingSink{name: "rec"}
	ig := NewIngester(loader, zaptest.NewLogger(t), sink)

	_, err := ig.Ingest(context.Background(), Submission{Body: "### Meaning\n\n猫\n", Number: "1"})
	if !errors.Is(err, vocab.ErrMissingWord) {
		t.Fatalf("expected ErrMissingWord, got %v", err)
	}
	if err.Error() != "Word is required but missing." {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if loader.calls != 0 || len(sink.written) != 0 {
		t.Fatalf("expected no load or write, got %d loads %d writes", loader.calls, len(sink.written))
	}
}

func TestIngestSinkErrorStopsLaterSinks(t *testing.T) {
	boom := errors.New("disk full")
	failing := &recordingSink{name: "csv", err: boom}
	after := &recordingSink{name: "sqlite"}
	ig := NewIngester(&countingLoader{}, nil, failing, after)

	_, err := ig.Ingest(context.Background(), Submission{Body: newWordBody, Number: "1"})
	var se *SinkError
	if !errors.As(err, &se) || se.Sink != "csv" {
		t.Fatalf("expected SinkError from csv, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if len(after.written) != 0 {
		t.Fatalf("later sink should not run")
	}
}

func TestIngestSortsCollection(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	for i, w := range []string{"pear", "Apple", "banana", "apricot"} {
		body := "### Word\n\n" + w + "\n\n### Meaning\n\nx\n"
		if _, err := f.ig.Ingest(ctx, Submission{Body: body, Number: string(rune('1' + i))}); err != nil {
			t.Fatal(err)
		}
	}
	entries, _ := store.NewJSONStore(f.jsonPath).Load()
	for i := 1; i < len(entries); i++ {
		if strings.ToLower(entries[i-1].Word) > strings.ToLower(entries[i].Word) {
			t.Fatalf("not sorted: %q before %q", entries[i-1].Word, entries[i].Word)
		}
	}
}

func TestExportRegeneratesSinks(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	if _, err := f.ig.Ingest(ctx, Submission{Body: newWordBody, Number: "1"}); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(f.csvPath); err != nil {
		t.Fatal(err)
	}
	n, err := f.ig.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 entry exported, got %d", n)
	}
	if _, err := os.Stat(f.csvPath); err != nil {
		t.Fatalf("csv not regenerated: %v", err)
	}
}
