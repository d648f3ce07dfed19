// Package orchestrator implements C10: the end-to-end decision pipeline
// that turns a location into a Decision, binding C1-C9, C11, and
// C13-C16 together. Patterned after internal/wordidx fan-out
// idiom for the per-candidate fact-fetching step, and on the
// expanding-radius search loop used to widen a stalled nearby-POI search.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"narrator/internal/domain"
	"narrator/internal/facts"
	"narrator/internal/geo"
	"narrator/internal/llmgen"
	"narrator/internal/obslog"
	"narrator/internal/scoring"
	"narrator/internal/storytelling"
)

// RadiusSteps is the expanding-radius search sequence : each step widens the search net
// until a candidate clears the story-potential gate or the steps run
// out.
var RadiusSteps = []int{500, 900, 1500, 2400}

// POIResolver resolves the deduplicated, distance-annotated candidate
// list near a point. Satisfied by *internal/poi.Resolver.
type POIResolver interface {
	Resolve(ctx context.Context, lat, lng float64, radiusMeters int, lang string) []domain.POI
}

// GraphFactFetcher fetches structured-query facts for a graph entity.
// Satisfied by *internal/facts.GraphFetcher.
type GraphFactFetcher interface {
	Fetch(ctx context.Context, graphID, lang string) ([]domain.Fact, error)
}

// EncyclopediaFactFetcher extracts facts from an encyclopedia article.
// Satisfied by *internal/facts.EncyclopediaFetcher.
type EncyclopediaFactFetcher interface {
	Fetch(ctx context.Context, ref domain.EncyclopediaRef) ([]domain.Fact, []domain.SourceDoc, error)
}

// HistoryStore tracks which POIs a user has already heard about.
// Satisfied by *internal/history.Store.
type HistoryStore interface {
	HeardSet(ctx context.Context, userKey string) map[string]struct{}
	MarkHeard(ctx context.Context, userKey, poiKey string)
}

// ExposureLog records every decision outcome. Satisfied by
// *internal/exposure.Log.
type ExposureLog interface {
	Append(ctx context.Context, rec domain.ExposureRecord)
}

// TasteStore supplies a user's taste profile. Satisfied by
// *internal/taste.Store.
type TasteStore interface {
	Get(ctx context.Context, userKey string) domain.TasteProfile
}

// Synthesizer turns validated story text into narratable audio,
// optionally cached. Satisfied by *internal/audio.Cache.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (audioBytes []byte, contentType string, err error)
}

// Orchestrator holds every collaborator C10 binds together.
type Orchestrator struct {
	Resolver      POIResolver
	GraphFacts    GraphFactFetcher
	EncyFacts     EncyclopediaFactFetcher
	History       HistoryStore
	Exposure      ExposureLog
	Taste         TasteStore
	Audio         Synthesizer
	Gen           llmgen.Generator
	MinWords      int
	MaxWords      int
	MaxCandidates int

	// Fillers is the language-keyed banned-filler denylist the
	// storytelling validator checks generated drafts against.
	Fillers map[string][]string

	// MaxDistanceMeters and MinScoreToSpeak bound scoring.Select; see
	// scoring.Params for their meaning. Zero values fall back to
	// scoring's own defaults.
	MaxDistanceMeters int
	MinScoreToSpeak   float64
}

// Request is one incoming decision request.
type Request struct {
	UserKey string
	Lat     float64
	Lng     float64
	HasLoc  bool
	Lang    string
}

// Decide runs the full pipeline for req and returns the resulting
// Decision. The returned error is reserved for infrastructure failures
// (e.g. speech synthesis erroring); every narrative outcome, including
// "nothing worth speaking about", is expressed through the Decision's
// Reason field instead of an error.
func (o *Orchestrator) Decide(ctx context.Context, req Request) (domain.Decision, error) {
	if !req.HasLoc {
		return o.record(ctx, req, domain.Decision{ShouldSpeak: false, Reason: domain.ReasonLocationMissing}), nil
	}

	heardSet := o.History.HeardSet(ctx, req.UserKey)

	var winner domain.PoiWithFacts
	var found bool
	for _, radius := range RadiusSteps {
		candidates := o.buildCandidates(ctx, req, radius, heardSet)
		params := scoring.Params{MaxDistanceMeters: o.MaxDistanceMeters, MinScoreToSpeak: o.MinScoreToSpeak}
		if best, ok := scoring.Select(candidates, heardSet, params); ok {
			winner, found = best, true
			break
		}
	}
	if !found {
		return o.record(ctx, req, domain.Decision{ShouldSpeak: false, Reason: domain.ReasonNoStrongPOI}), nil
	}

	displayDistance := geo.RoundDisplayMeters(winner.POI.DistanceMeters, 50)

	tasteProfile := o.Taste.Get(ctx, req.UserKey)
	result := storytelling.Generate(ctx, o.Gen, storytelling.Request{
		POI:            winner.POI,
		Facts:          winner.Facts,
		Lang:           req.Lang,
		Taste:          tasteProfile,
		DistanceMeters: displayDistance,
	}, o.MinWords, o.MaxWords, o.Fillers)

	if !result.OK {
		return o.record(ctx, req, domain.Decision{
			ShouldSpeak: false,
			Reason:      result.Reason,
			POI:         &winner.POI,
		}), nil
	}

	audioBytes, contentType, err := o.Audio.Synthesize(ctx, result.Story, req.Lang)
	if err != nil {
		return domain.Decision{}, err
	}

	decision := domain.Decision{
		ShouldSpeak:          true,
		Reason:               domain.ReasonOK,
		POI:                  &winner.POI,
		Facts:                anchoredToFacts(winner.Facts),
		HasAnchor:            winner.AnchorCount() > 0,
		StoryText:            result.Story,
		DistanceMetersApprox: float64(displayDistance),
		AudioBytes:           audioBytes,
		AudioContentType:     contentType,
	}
	o.History.MarkHeard(ctx, req.UserKey, winner.POI.Key)
	return o.record(ctx, req, decision), nil
}

// buildCandidates resolves POIs at radiusMeters and fetches facts for up
// to MaxCandidates of them concurrently, patterned after the
// wordidx fan-out idiom (fixed-size slice, sync.WaitGroup, no shared
// mutable state between goroutines).
func (o *Orchestrator) buildCandidates(ctx context.Context, req Request, radiusMeters int, heardSet map[string]struct{}) []domain.PoiWithFacts {
	pois := o.Resolver.Resolve(ctx, req.Lat, req.Lng, radiusMeters, req.Lang)
	if len(pois) > o.MaxCandidates {
		pois = pois[:o.MaxCandidates]
	}

	out := make([]domain.PoiWithFacts, len(pois))
	var wg sync.WaitGroup
	wg.Add(len(pois))
	for i, p := range pois {
		go func(i int, p domain.POI) {
			defer wg.Done()
			out[i] = o.fetchFactsFor(ctx, p, req.Lang)
		}(i, p)
	}
	wg.Wait()
	return out
}

func (o *Orchestrator) fetchFactsFor(ctx context.Context, p domain.POI, lang string) domain.PoiWithFacts {
	var graphFacts, encyFacts []domain.Fact
	var sourceDocs []domain.SourceDoc

	if p.GraphID != "" {
		gf, err := o.GraphFacts.Fetch(ctx, p.GraphID, lang)
		if err != nil {
			obslog.FromCtx(ctx).Warn().Err(err).Str("poi_key", p.Key).Msg("orchestrator: graph fact fetch failed")
		} else {
			graphFacts = gf
		}
	}
	if p.EncyclopediaRef != nil {
		ef, sources, err := o.EncyFacts.Fetch(ctx, *p.EncyclopediaRef)
		if err != nil {
			obslog.FromCtx(ctx).Warn().Err(err).Str("poi_key", p.Key).Msg("orchestrator: encyclopedia fact fetch failed")
		} else {
			encyFacts = ef
			sourceDocs = sources
		}
	}

	merged := facts.Merge(graphFacts, encyFacts, lang)
	return domain.PoiWithFacts{POI: p, Facts: merged, Sources: sourceDocs}
}

func (o *Orchestrator) record(ctx context.Context, req Request, decision domain.Decision) domain.Decision {
	rec := domain.ExposureRecord{
		Timestamp:   time.Now(),
		UserKey:     req.UserKey,
		Lat:         req.Lat,
		Lng:         req.Lng,
		ShouldSpeak: decision.ShouldSpeak,
		Reason:      decision.Reason,
		StoryLen:    len(decision.StoryText),
	}
	if decision.POI != nil {
		rec.PoiKey = decision.POI.Key
		rec.PoiName = decision.POI.Label
		rec.PoiSource = string(decision.POI.Source)
		rec.DistanceMeters = decision.POI.DistanceMeters
	}
	o.Exposure.Append(ctx, rec)
	return decision
}

func anchoredToFacts(in []domain.AnchoredFact) []domain.Fact {
	out := make([]domain.Fact, len(in))
	for i, f := range in {
		out[i] = f.Fact
	}
	return out
}
