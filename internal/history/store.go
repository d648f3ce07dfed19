// Package history implements the per-user exposure store (C3): an
// in-memory HeardSet backed by an optional durable tier. Patterned
// after an internal/gateway/repository/projectstore dual-mode store
// (memory map + lazy-initialized database/sql backend, upsert-on-conflict
// writes), adapted so both tiers stay active at once ("on first read for
// a user, load durable rows into memory; subsequent reads serve from
// memory") rather than an either/or backend selection.
package history

import (
	"context"
	"sync"
	"time"

	"narrator/internal/obslog"
)

// Durable is the optional persistent tier. A nil Durable means in-memory
// only operation.
type Durable interface {
	LoadHeard(ctx context.Context, userKey string) ([]string, error)
	MarkHeard(ctx context.Context, userKey, poiKey string, firstSeenAt time.Time) error
}

// Store is the process-wide history store; it is safe for concurrent use
// across requests.
type Store struct {
	mu      sync.Mutex
	heard   map[string]map[string]struct{}
	loaded  map[string]bool
	durable Durable
}

// New creates a Store. durable may be nil.
func New(durable Durable) *Store {
	return &Store{
		heard:   make(map[string]map[string]struct{}),
		loaded:  make(map[string]bool),
		durable: durable,
	}
}

// HeardSet returns the set of POI keys userKey has already been told
// stories about. The first call for a given user loads durable rows into
// memory; later calls are served purely from memory.
func (s *Store) HeardSet(ctx context.Context, userKey string) map[string]struct{} {
	s.mu.Lock()
	if s.loaded[userKey] {
		out := cloneSet(s.heard[userKey])
		s.mu.Unlock()
		return out
	}
	s.mu.Unlock()

	var rows []string
	if s.durable != nil {
		var err error
		rows, err = s.durable.LoadHeard(ctx, userKey)
		if err != nil {
			obslog.FromCtx(ctx).Warn().Err(err).Str("user_key", userKey).Msg("history: durable load failed, continuing in-memory-only")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[userKey] {
		return cloneSet(s.heard[userKey])
	}
	set := make(map[string]struct{}, len(rows))
	for _, poiKey := range rows {
		set[poiKey] = struct{}{}
	}
	s.heard[userKey] = set
	s.loaded[userKey] = true
	return cloneSet(set)
}

// MarkHeard records that userKey has now heard a story about poiKey.
// Idempotent: marking the same pair twice is a no-op the second time.
func (s *Store) MarkHeard(ctx context.Context, userKey, poiKey string) {
	now := time.Now()

	s.mu.Lock()
	set, ok := s.heard[userKey]
	if !ok {
		set = make(map[string]struct{})
		s.heard[userKey] = set
	}
	_, already := set[poiKey]
	set[poiKey] = struct{}{}
	s.loaded[userKey] = true
	s.mu.Unlock()

	if already {
		return
	}
	if s.durable != nil {
		if err := s.durable.MarkHeard(ctx, userKey, poiKey, now); err != nil {
			obslog.FromCtx(ctx).Warn().Err(err).Str("user_key", userKey).Str("poi_key", poiKey).Msg("history: durable write failed, memory state remains authoritative")
		}
	}
}

func cloneSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
