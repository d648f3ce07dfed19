// Package sources implements the proximity adapters of C4: each adapter
// turns a (lat, lng, radius) query into a slice of candidate POIs from
// one external catalog. Patterned after internal/wordidx fan-
// out idiom (a fixed-size slice filled by a sync.WaitGroup of goroutines)
// for running every adapter concurrently and settling all of them before
// continuing, and on requirement that a failing or slow
// adapter degrades to an empty result rather than aborting the request.
package sources

import (
	"context"
	"sync"
	"time"

	"narrator/internal/domain"
	"narrator/internal/obslog"
)

// Adapter fetches candidate POIs near (lat, lng) from one catalog.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, lat, lng float64, radiusMeters int, lang string) ([]domain.POI, error)
}

// FetchAll runs every adapter concurrently, each under its own per-call
// timeout, and concatenates their results in adapter order regardless of
// completion order. An adapter that errors or times out contributes no
// POIs and does not fail the overall call.
func FetchAll(ctx context.Context, adapters []Adapter, lat, lng float64, radiusMeters int, lang string, perCallTimeout time.Duration) []domain.POI {
	results := make([][]domain.POI, len(adapters))

	var wg sync.WaitGroup
	wg.Add(len(adapters))
	for i, adapter := range adapters {
		go func(i int, adapter Adapter) {
			defer wg.Done()
			callCtx, cancel := context.WithTimeout(ctx, perCallTimeout)
			defer cancel()

			pois, err := adapter.Fetch(callCtx, lat, lng, radiusMeters, lang)
			if err != nil {
				obslog.FromCtx(ctx).Warn().Err(err).Str("adapter", adapter.Name()).Msg("sources: adapter fetch failed, contributing zero candidates")
				return
			}
			results[i] = pois
		}(i, adapter)
	}
	wg.Wait()

	var out []domain.POI
	for _, pois := range results {
		out = append(out, pois...)
	}
	return out
}
