package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/japaniel/wordbook/pkg/vocab"
)

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Reader turns a meaning into its kana reading. nil leaves meaning_reading empty.
type Reader interface {
	Reading(text string) string
}

// Mirror keeps a SQLite copy of the word list for flashcard tools.
type Mirror struct {
	conn     *sql.DB
	path     string
	reader   Reader
	migrated bool
}

// Open prepares a mirror at path. The file is created and migrated on the
// first Write, so a run that fails before writing leaves no database behind.
func Open(path string, reader Reader) (*Mirror, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Mirror{conn: conn, path: path, reader: reader}, nil
}

// NewMirror wraps an already migrated connection.
func NewMirror(conn *sql.DB, reader Reader) *Mirror {
	return &Mirror{conn: conn, reader: reader, migrated: true}
}

func (m *Mirror) Name() string { return "sqlite" }

// Close closes the underlying connection.
func (m *Mirror) Close() error { return m.conn.Close() }

// Write replaces the mirrored words with entries in a single transaction.
func (m *Mirror) Write(ctx context.Context, entries []vocab.Entry) error {
	if !m.migrated {
		if m.path != "" {
			if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
				return fmt.Errorf("create data dir: %w", err)
			}
		}
		if err := InitDB(m.conn); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		m.migrated = true
	}

	tx, err := m.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if err := ReplaceWords(ctx, tx, entries, m.reader); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %d words: %w", len(entries), err)
	}
	return nil
}

// ReplaceWords deletes every row and inserts entries in order.
func ReplaceWords(ctx context.Context, db DBExecutor, entries []vocab.Entry, reader Reader) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM words`); err != nil {
		return fmt.Errorf("clear words: %w", err)
	}

	for i, e := range entries {
		examples, err := jsonList(e.Examples)
		if err != nil {
			return err
		}
		synonyms, err := jsonList(e.Synonyms)
		if err != nil {
			return err
		}
		tags, err := jsonList(e.Tags)
		if err != nil {
			return err
		}
		meaningReading := ""
		if reader != nil && e.Meaning != "" {
			meaningReading = reader.Reading(e.Meaning)
		}

		_, err = db.ExecContext(ctx, `INSERT INTO words (word, part_of_speech, other_spelling, pronunciation, meaning, meaning_reading,
			examples, synonyms, tags, notes, mastery, last_reviewed, created_at, source_issue, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.Word, e.PartOfSpeech, e.OtherSpelling, e.Pronunciation, e.Meaning, meaningReading,
			examples, synonyms, tags, e.Notes, e.Mastery, e.LastReviewed, e.CreatedAt, e.SourceIssue, i)
		if err != nil {
			return fmt.Errorf("insert word %q: %w", e.Word, err)
		}
	}
	return nil
}

// jsonList encodes a list column; nil is stored as [].
func jsonList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", fmt.Errorf("encode list: %w", err)
	}
	return string(b), nil
}
