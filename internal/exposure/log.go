// Package exposure implements the append-only exposure log (C11): every
// decision the orchestrator makes, spoken or silent, is recorded for
// later analysis. Patterned after the same projectstore dual-mode
// pattern as internal/history, but append-only with no read-modify-write
// path: each record is immutable once written.
package exposure

import (
	"context"
	"sync"

	"narrator/internal/domain"
	"narrator/internal/obslog"
)

// Durable is the optional persistent sink for exposure records.
type Durable interface {
	Append(ctx context.Context, rec domain.ExposureRecord) error
}

// Log is the process-wide exposure log. Writes never block the caller on
// durable failures: a failed durable append is logged and the in-memory
// copy is kept regardless, consistent with history.Store's degrade-to-
// memory behavior.
type Log struct {
	mu      sync.Mutex
	records []domain.ExposureRecord
	durable Durable
}

// New creates a Log. durable may be nil.
func New(durable Durable) *Log {
	return &Log{durable: durable}
}

// Append records a single decision outcome.
func (l *Log) Append(ctx context.Context, rec domain.ExposureRecord) {
	l.mu.Lock()
	l.records = append(l.records, rec)
	l.mu.Unlock()

	if l.durable != nil {
		if err := l.durable.Append(ctx, rec); err != nil {
			obslog.FromCtx(ctx).Warn().Err(err).Str("user_key", rec.UserKey).Msg("exposure: durable append failed")
		}
	}
}

// Recent returns up to n most-recently appended records, newest first.
// It only ever reflects the in-memory tail, not full durable history.
func (l *Log) Recent(n int) []domain.ExposureRecord {
	l.mu.Lock()
	defer l.mu.Unlock()

	if n <= 0 || n > len(l.records) {
		n = len(l.records)
	}
	out := make([]domain.ExposureRecord, n)
	for i := 0; i < n; i++ {
		out[i] = l.records[len(l.records)-1-i]
	}
	return out
}
