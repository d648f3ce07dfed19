package poi

import (
	"context"
	"testing"
	"time"

	"narrator/internal/domain"
	"narrator/internal/sources"
)

func TestNormalizeDedupesAcrossSourcesPreferringOSMFirst(t *testing.T) {
	raw := []domain.POI{
		{Key: "places:1", Source: domain.SourcePlaces, Label: "Old Mill", Lat: 51.5007, Lng: -0.1246},
		{Key: "node:1", Source: domain.SourceOSM, Label: "Old Mill", Lat: 51.50071, Lng: -0.12461},
	}
	out := Normalize(raw, 51.5007, -0.1246)
	if len(out) != 1 {
		t.Fatalf("expected 1 deduped POI, got %d", len(out))
	}
	if out[0].Source != domain.SourceOSM {
		t.Fatalf("expected OSM entry to win the dedupe, got source %q", out[0].Source)
	}
}

func TestNormalizeDropsInvalidPOIs(t *testing.T) {
	raw := []domain.POI{
		{Key: "bad", Source: domain.SourceOSM, Lat: 999, Lng: 0},
		{Key: "good", Source: domain.SourceOSM, Label: "Good Place", Lat: 51.5, Lng: -0.1},
	}
	out := Normalize(raw, 51.5, -0.1)
	if len(out) != 1 || out[0].Key != "good" {
		t.Fatalf("expected only the valid POI to survive, got %+v", out)
	}
}

func TestNormalizeSortsByDistance(t *testing.T) {
	raw := []domain.POI{
		{Key: "far", Source: domain.SourceOSM, Label: "Far", Lat: 51.52, Lng: -0.1},
		{Key: "near", Source: domain.SourceOSM, Label: "Near", Lat: 51.5001, Lng: -0.1},
	}
	out := Normalize(raw, 51.5, -0.1)
	if len(out) != 2 || out[0].Key != "near" || out[1].Key != "far" {
		t.Fatalf("expected [near, far] in ascending distance order, got %+v", out)
	}
}

type fakeAdapter struct {
	name string
	pois []domain.POI
}

func (f *fakeAdapter) Name() string { return f.name }
func (f *fakeAdapter) Fetch(ctx context.Context, lat, lng float64, radiusMeters int, lang string) ([]domain.POI, error) {
	return f.pois, nil
}

func TestResolverCachesByGeoBucket(t *testing.T) {
	calls := 0
	adapter := &countingAdapter{fakeAdapter: fakeAdapter{name: "a", pois: []domain.POI{{Key: "x", Source: domain.SourceOSM, Label: "X", Lat: 51.5, Lng: -0.1}}}, calls: &calls}
	r := NewResolver([]sources.Adapter{adapter}, nil, time.Minute, time.Second)

	r.Resolve(context.Background(), 51.5, -0.1, 500, "en")
	r.Resolve(context.Background(), 51.5, -0.1, 500, "en")

	if calls != 1 {
		t.Fatalf("expected adapter to be called once due to caching, got %d calls", calls)
	}
}

func TestResolverOnlyCallsFallbackWhenPrimaryYieldsNothing(t *testing.T) {
	primaryCalls, fallbackCalls := 0, 0
	primary := &countingAdapter{fakeAdapter: fakeAdapter{name: "primary"}, calls: &primaryCalls}
	fallback := &countingAdapter{
		fakeAdapter: fakeAdapter{name: "fallback", pois: []domain.POI{{Key: "p", Source: domain.SourcePlaces, Label: "P", Lat: 51.5, Lng: -0.1}}},
		calls:       &fallbackCalls,
	}

	r := NewResolver([]sources.Adapter{primary}, []sources.Adapter{fallback}, time.Minute, time.Second)
	out := r.Resolve(context.Background(), 51.5, -0.1, 500, "en")

	if primaryCalls != 1 {
		t.Fatalf("expected primary adapter called once, got %d", primaryCalls)
	}
	if fallbackCalls != 1 {
		t.Fatalf("expected fallback adapter called once when primary yielded nothing, got %d", fallbackCalls)
	}
	if len(out) != 1 || out[0].Key != "p" {
		t.Fatalf("expected the fallback POI to surface, got %+v", out)
	}
}

func TestResolverSkipsFallbackWhenPrimaryYieldsResults(t *testing.T) {
	primaryCalls, fallbackCalls := 0, 0
	primary := &countingAdapter{
		fakeAdapter: fakeAdapter{name: "primary", pois: []domain.POI{{Key: "o", Source: domain.SourceOSM, Label: "O", Lat: 51.5, Lng: -0.1}}},
		calls:       &primaryCalls,
	}
	fallback := &countingAdapter{fakeAdapter: fakeAdapter{name: "fallback"}, calls: &fallbackCalls}

	r := NewResolver([]sources.Adapter{primary}, []sources.Adapter{fallback}, time.Minute, time.Second)
	r.Resolve(context.Background(), 51.5, -0.1, 500, "en")

	if fallbackCalls != 0 {
		t.Fatalf("expected fallback adapter skipped when primary yielded results, got %d calls", fallbackCalls)
	}
}

type countingAdapter struct {
	fakeAdapter
	calls *int
}

func (c *countingAdapter) Fetch(ctx context.Context, lat, lng float64, radiusMeters int, lang string) ([]domain.POI, error) {
	*c.calls++
	return c.fakeAdapter.pois, nil
}
