// Package audit records one row per handled scheduling request. Writes are
// best effort: the mediation service logs sink failures and never lets them
// reach the user path.
package audit

import (
	"context"
	"errors"
	"time"
)

// Record is one audit row. Start and End are zero when the intent carried no
// bounds; Error is empty on success.
type Record struct {
	ID        string
	Timestamp time.Time
	UserID    string
	Mode      string
	Intent    string
	Start     time.Time
	End       time.Time
	Status    string
	Message   string
	Error     string
}

// Sink persists audit records.
type Sink interface {
	Append(ctx context.Context, rec Record) error
}

// MultiSink fans a record out to every sink and joins their failures so one
// broken sink cannot starve the others.
type MultiSink []Sink

// Append writes the record to all sinks.
func (m MultiSink) Append(ctx context.Context, rec Record) error {
	var errs []error
	for _, sink := range m {
		if err := sink.Append(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func formatInstant(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
