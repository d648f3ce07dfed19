package llmgen

import (
	"context"
	"encoding/json"
	"time"
)

// rpsLimiter is a token-bucket limiter throttling to at most rps events
// per second with a burst capacity, patterned after an
// internal/llm/ratelimit.go rpsLimiter.
type rpsLimiter struct {
	tokens chan struct{}
	stopCh chan struct{}
}

func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &rpsLimiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.tokens <- struct{}{}:
				default:
				}
			case <-l.stopCh:
				return
			}
		}
	}()
	return l
}

func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	close(l.stopCh)
}

type rateLimitedGenerator struct {
	next Generator
	rl   *rpsLimiter
}

// WithRateLimit wraps next so that at most rps calls per second (with
// burst capacity) reach it. rps <= 0 disables limiting entirely.
func WithRateLimit(next Generator, rps float64, burst int) Generator {
	return &rateLimitedGenerator{next: next, rl: newRPSLimiter(rps, burst)}
}

func (r *rateLimitedGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if err := r.rl.Acquire(ctx); err != nil {
		return "", err
	}
	return r.next.GenerateText(ctx, prompt)
}

func (r *rateLimitedGenerator) GenerateJSON(ctx context.Context, prompt string) (json.RawMessage, error) {
	if err := r.rl.Acquire(ctx); err != nil {
		return nil, err
	}
	return r.next.GenerateJSON(ctx, prompt)
}

// Stop releases the limiter's refill goroutine, if any.
func (r *rateLimitedGenerator) Stop() {
	r.rl.Stop()
}
