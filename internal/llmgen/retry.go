package llmgen

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"narrator/internal/obslog"
)

// Permanent wraps an error to mark it as non-retryable, grounded on the
// the prior internal/llm/middleware_retry.go distinction between
// transient and permanent failures.
type Permanent struct{ Err error }

func (p Permanent) Error() string { return p.Err.Error() }
func (p Permanent) Unwrap() error  { return p.Err }

// IsPermanent reports whether err (or anything it wraps) was marked
// non-retryable.
func IsPermanent(err error) bool {
	var p Permanent
	return errors.As(err, &p)
}

type retryingGenerator struct {
	next        Generator
	maxAttempts int
	baseDelay   time.Duration
}

// WithRetry wraps next with exponential-backoff retry: baseDelay,
// baseDelay*2, baseDelay*4, ... up to maxAttempts total tries. A
// Permanent error short-circuits retrying immediately.
func WithRetry(next Generator, maxAttempts int, baseDelay time.Duration) Generator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &retryingGenerator{next: next, maxAttempts: maxAttempts, baseDelay: baseDelay}
}

func (r *retryingGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	var out string
	err := r.run(ctx, "generate_text", func() error {
		var err error
		out, err = r.next.GenerateText(ctx, prompt)
		return err
	})
	return out, err
}

func (r *retryingGenerator) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	var out json.RawMessage
	err := r.run(ctx, "generate_json", func() error {
		var err error
		out, err = r.next.GenerateJSON(ctx, prompt)
		return err
	})
	return out, err
}

func (r *retryingGenerator) run(ctx context.Context, op string, call func() error) error {
	var lastErr error
	for attempt := 0; attempt < r.maxAttempts; attempt++ {
		if err := call(); err != nil {
			lastErr = err
			if IsPermanent(err) {
				return err
			}
			obslog.FromCtx(ctx).Warn().Err(err).Str("op", op).Int("attempt", attempt+1).Msg("llmgen: attempt failed, retrying")
			if attempt < r.maxAttempts-1 {
				delay := r.baseDelay << attempt
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			continue
		}
		return nil
	}
	return lastErr
}
