// Package taste implements the per-user taste profile store backing
// prompt personalization and the /api/taste/set and /api/taste/feedback
// endpoints. Patterned after the same dual-mode store as internal/history,
// with domain.DefaultTasteProfile supplied whenever a user has no stored
// profile yet.
package taste

import (
	"context"
	"sync"
	"time"

	"narrator/internal/domain"
	"narrator/internal/obslog"
)

// Durable is the optional persistent tier for taste profiles.
type Durable interface {
	Load(ctx context.Context, userKey string) (domain.TasteProfile, bool, error)
	Save(ctx context.Context, userKey string, profile domain.TasteProfile) error
}

// Store holds taste profiles in memory, backed by an optional durable
// tier loaded lazily on first access per user.
type Store struct {
	mu       sync.Mutex
	profiles map[string]domain.TasteProfile
	loaded   map[string]bool
	durable  Durable
}

func New(durable Durable) *Store {
	return &Store{
		profiles: make(map[string]domain.TasteProfile),
		loaded:   make(map[string]bool),
		durable:  durable,
	}
}

// Get returns userKey's taste profile, or domain.DefaultTasteProfile if
// none has ever been set.
func (s *Store) Get(ctx context.Context, userKey string) domain.TasteProfile {
	s.mu.Lock()
	if s.loaded[userKey] {
		p := s.profiles[userKey]
		s.mu.Unlock()
		return p
	}
	s.mu.Unlock()

	profile := domain.DefaultTasteProfile()
	profile.ID = userKey
	if s.durable != nil {
		if stored, ok, err := s.durable.Load(ctx, userKey); err != nil {
			obslog.FromCtx(ctx).Warn().Err(err).Str("user_key", userKey).Msg("taste: durable load failed, using default profile")
		} else if ok {
			profile = stored
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded[userKey] {
		return s.profiles[userKey]
	}
	s.profiles[userKey] = profile
	s.loaded[userKey] = true
	return profile
}

// Set overwrites userKey's taste profile outright (POST /api/taste/set).
func (s *Store) Set(ctx context.Context, userKey string, profile domain.TasteProfile) {
	profile.ID = userKey
	profile.UpdatedAt = time.Now()

	s.mu.Lock()
	s.profiles[userKey] = profile
	s.loaded[userKey] = true
	s.mu.Unlock()

	s.persist(ctx, userKey, profile)
}

// Nudge applies a small signed adjustment to one axis of userKey's
// profile, clamped to [0, 1] (POST /api/taste/feedback). axis must be one
// of "humor", "nerdy", "dramatic", "shortness"; unknown axes are no-ops.
func (s *Store) Nudge(ctx context.Context, userKey, axis string, delta float64) domain.TasteProfile {
	current := s.Get(ctx, userKey)

	switch axis {
	case "humor":
		current.Humor = clamp01(current.Humor + delta)
	case "nerdy":
		current.Nerdy = clamp01(current.Nerdy + delta)
	case "dramatic":
		current.Dramatic = clamp01(current.Dramatic + delta)
	case "shortness":
		current.Shortness = clamp01(current.Shortness + delta)
	default:
		return current
	}
	current.UpdatedAt = time.Now()

	s.mu.Lock()
	s.profiles[userKey] = current
	s.loaded[userKey] = true
	s.mu.Unlock()

	s.persist(ctx, userKey, current)
	return current
}

func (s *Store) persist(ctx context.Context, userKey string, profile domain.TasteProfile) {
	if s.durable == nil {
		return
	}
	if err := s.durable.Save(ctx, userKey, profile); err != nil {
		obslog.FromCtx(ctx).Warn().Err(err).Str("user_key", userKey).Msg("taste: durable save failed, memory state remains authoritative")
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
