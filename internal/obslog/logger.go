// Package obslog provides the context-carried structured logger used
// throughout the pipeline, grounded on the pack's tuskbot example
// (pkg/log/logger.go): one zerolog logger built at startup, attached to
// context.Context, retrieved with FromCtx everywhere else instead of
// touching the zerolog global.
package obslog

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the root logger. debug raises the level to capture adapter
// timing and prompt-construction detail useful while iterating locally.
func New(debug bool) zerolog.Logger {
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

type ctxKey struct{}

// WithContext attaches logger to ctx.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, &logger)
}

// FromCtx returns the logger attached to ctx, or a disabled logger if none
// was attached (e.g. in a test that didn't bother).
func FromCtx(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
		return l
	}
	fallback := zerolog.Nop()
	return &fallback
}

// WithRequestFields returns a child context whose logger carries fields
// common to every pipeline stage for a single decision request.
func WithRequestFields(ctx context.Context, userKey, lang string, lat, lng float64) context.Context {
	l := FromCtx(ctx).With().
		Str("user_key", userKey).
		Str("lang", lang).
		Float64("lat", lat).
		Float64("lng", lng).
		Logger()
	return WithContext(ctx, l)
}

// Elapsed is a small helper for logging stage timings: it returns the
// duration since the given start time.
func Elapsed(since time.Time) time.Duration {
	return time.Since(since)
}
