// Package poi implements the POI normalizer (C5): it takes the raw union
// of every source adapter's output and turns it into the deduplicated,
// distance-annotated candidate list the scorer (C7) consumes. Grounded on
// the prior internal/cache/project cache-wrapping-a-store idiom:
// resolution results are cached by a derived key with a TTL, read-through
// on miss.
package poi

import (
	"context"
	"sort"
	"time"

	"narrator/internal/domain"
	"narrator/internal/geo"
	"narrator/internal/sources"
	"narrator/internal/ttlcache"
)

// Normalize merges raw adapter output into a deduplicated slice with
// DistanceMeters populated, in the source-priority order OSM, then graph,
// then places, dropping structurally invalid POIs.
func Normalize(raw []domain.POI, lat, lng float64) []domain.POI {
	bySource := map[domain.Source][]domain.POI{}
	for _, p := range raw {
		if !p.Valid() {
			continue
		}
		p.DistanceMeters = geo.HaversineMeters(lat, lng, p.Lat, p.Lng)
		bySource[p.Source] = append(bySource[p.Source], p)
	}

	seen := make(map[string]struct{})
	var out []domain.POI
	for _, src := range []domain.Source{domain.SourceOSM, domain.SourceGraph, domain.SourcePlaces, domain.SourceAnchor} {
		for _, p := range bySource[src] {
			key := p.DedupeKey()
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, p)
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].DistanceMeters < out[j].DistanceMeters })
	return out
}

// Resolver fetches, normalizes, and caches POI results per geo bucket.
// fallback adapters (the commercial places API) are only queried when
// primary adapters yield nothing, per the documented fallback-only role.
type Resolver struct {
	primary  []sources.Adapter
	fallback []sources.Adapter
	cache    *ttlcache.Cache[[]domain.POI]
	ttl      time.Duration
	perCall  time.Duration
}

// NewResolver builds a Resolver. primary adapters always run; fallback
// adapters only run when primary yields zero POIs. ttl governs how long
// a bucket's normalized result is reused; perCallTimeout bounds each
// individual adapter call.
func NewResolver(primary, fallback []sources.Adapter, ttl, perCallTimeout time.Duration) *Resolver {
	return &Resolver{
		primary:  primary,
		fallback: fallback,
		cache:    ttlcache.New[[]domain.POI](),
		ttl:      ttl,
		perCall:  perCallTimeout,
	}
}

// Resolve returns the normalized POI list near (lat, lng), serving from
// cache when the geo bucket key for this radius was resolved recently.
func (r *Resolver) Resolve(ctx context.Context, lat, lng float64, radiusMeters int, lang string) []domain.POI {
	key := geo.BucketKey(lat, lng, radiusMeters)
	if cached, ok := r.cache.Get(key); ok {
		return cached
	}

	raw := sources.FetchAll(ctx, r.primary, lat, lng, radiusMeters, lang, r.perCall)
	if len(raw) == 0 && len(r.fallback) > 0 {
		raw = sources.FetchAll(ctx, r.fallback, lat, lng, radiusMeters, lang, r.perCall)
	}
	normalized := Normalize(raw, lat, lng)
	r.cache.Set(key, normalized, r.ttl)
	return normalized
}
