package ingest

import (
	"context"
	"fmt"

	"github.com/japaniel/wordbook/pkg/vocab"
	"go.uber.org/zap"
)

// Sink is one persisted representation of the word list. Every sink is
// regenerated in full from the sorted collection.
type Sink interface {
	Name() string
	Write(ctx context.Context, entries []vocab.Entry) error
}

// SinkError reports which sink failed.
type SinkError struct {
	Sink string
	Err  error
}

func (e *SinkError) Error() string { return fmt.Sprintf("write %s: %v", e.Sink, e.Err) }

func (e *SinkError) Unwrap() error { return e.Err }

// write runs the sinks in order and stops at the first failure.
func (ig *Ingester) write(ctx context.Context, entries []vocab.Entry) error {
	for _, s := range ig.Sinks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Write(ctx, entries); err != nil {
			return &SinkError{Sink: s.Name(), Err: err}
		}
		ig.logger().Debug("sink written", zap.String("sink", s.Name()), zap.Int("entries", len(entries)))
	}
	return nil
}
