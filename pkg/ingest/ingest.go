package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/japaniel/wordbook/pkg/issueform"
	"github.com/japaniel/wordbook/pkg/vocab"
	"go.uber.org/zap"
)

// Loader reads the current word list.
type Loader interface {
	Load() ([]vocab.Entry, error)
}

// Submission is one issue-form submission.
type Submission struct {
	Body   string
	Number string
	URL    string
}

// Source identifies the submission in source_issue.
func (s Submission) Source() string {
	return vocab.SourceID(s.URL, s.Number)
}

// Ingester applies submissions to the word list.
type Ingester struct {
	Store  Loader
	Sinks  []Sink
	Labels issueform.Labels
	// Logger is used for step and outcome messages. nil means no logging.
	Logger *zap.Logger
	// Now returns the creation timestamp for new entries.
	Now func() time.Time
}

// NewIngester creates an Ingester that loads from store and writes to sinks in order.
func NewIngester(store Loader, logger *zap.Logger, sinks ...Sink) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{
		Store:  store,
		Sinks:  sinks,
		Labels: issueform.DefaultLabels(),
		Logger: logger,
		Now:    time.Now,
	}
}

// Ingest runs one load, upsert and store cycle. Nothing is written when the
// submission lacks a word, or names a new word without a meaning.
func (ig *Ingester) Ingest(ctx context.Context, sub Submission) (vocab.Status, error) {
	log := ig.logger()

	fields := issueform.Parse(sub.Body, ig.Labels)
	if fields.Word == "" {
		return "", vocab.ErrMissingWord
	}
	log.Debug("parsed submission",
		zap.String("word", fields.Word),
		zap.Bool("has_meaning", fields.Meaning != ""),
		zap.Int("examples", len(fields.Examples)),
		zap.Int("synonyms", len(fields.Synonyms)),
		zap.Int("tags", len(fields.Tags)))

	entries, err := ig.Store.Load()
	if err != nil {
		return "", fmt.Errorf("load word list: %w", err)
	}
	log.Debug("loaded word list", zap.Int("entries", len(entries)))

	source := sub.Source()
	entries, status, err := vocab.Upsert(entries, fields, source, ig.now())
	if err != nil {
		var fe *vocab.FieldError
		if errors.As(err, &fe) {
			log.Warn("submission rejected", zap.String("word", fields.Word), zap.String("field", fe.Field))
		}
		return "", err
	}
	vocab.Sort(entries)

	if err := ig.write(ctx, entries); err != nil {
		return "", err
	}

	log.Info("word list updated",
		zap.String("word", fields.Word),
		zap.String("status", string(status)),
		zap.String("source", source),
		zap.Int("entries", len(entries)))
	return status, nil
}

// Export rewrites every sink from the stored word list, sorted.
func (ig *Ingester) Export(ctx context.Context) (int, error) {
	entries, err := ig.Store.Load()
	if err != nil {
		return 0, fmt.Errorf("load word list: %w", err)
	}
	vocab.Sort(entries)
	if err := ig.write(ctx, entries); err != nil {
		return 0, err
	}
	ig.logger().Info("word list exported", zap.Int("entries", len(entries)))
	return len(entries), nil
}

func (ig *Ingester) logger() *zap.Logger {
	if ig.Logger == nil {
		return zap.NewNop()
	}
	return ig.Logger
}

func (ig *Ingester) now() time.Time {
	if ig.Now == nil {
		return time.Now()
	}
	return ig.Now()
}
