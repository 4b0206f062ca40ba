package store

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/japaniel/wordbook/pkg/vocab"
)

// ListSeparator joins list fields into a single CSV cell.
const ListSeparator = " | "

// Columns is the CSV header. Spreadsheets and scripts read these by
// position, so new columns go at the end.
var Columns = []string{
	"word", "part_of_speech",
	"other_spelling",
	"pronunciation", "meaning",
	"examples", "synonyms", "tags", "notes",
	"mastery", "last_reviewed", "created_at", "source_issue",
}

// CSVExport writes a flattened, spreadsheet-friendly copy of the collection.
type CSVExport struct {
	path string
}

// NewCSVExport returns an export writing to path.
func NewCSVExport(path string) *CSVExport {
	return &CSVExport{path: path}
}

func (c *CSVExport) Name() string { return "csv" }

// Write replaces the export with entries.
func (c *CSVExport) Write(_ context.Context, entries []vocab.Entry) error {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	if err := w.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := w.Write(Row(e)); err != nil {
			return fmt.Errorf("write row %q: %w", e.Word, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return writeFile(c.path, buf.Bytes())
}

// Row flattens an entry in Columns order.
func Row(e vocab.Entry) []string {
	return []string{
		e.Word,
		e.PartOfSpeech,
		e.OtherSpelling,
		e.Pronunciation,
		e.Meaning,
		strings.Join(e.Examples, ListSeparator),
		strings.Join(e.Synonyms, ListSeparator),
		strings.Join(e.Tags, ListSeparator),
		e.Notes,
		strconv.Itoa(e.Mastery),
		e.LastReviewed,
		e.CreatedAt,
		e.SourceIssue,
	}
}
