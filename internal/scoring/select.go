// Package scoring implements C7: given a POI's distance and its merged
// fact set, decide whether it has enough narrative substance to speak
// about, and if several candidates qualify, pick the best one. There is
// no established analog for this exact scoring formula in the pack, so
// the implementation follows the surrounding packages' idiom instead
// (small pure functions, a single Select entry point).
package scoring

import (
	"sort"

	"narrator/internal/domain"
)

const (
	defaultMaxDistanceMeters = 2200
	maxCandidates            = 18
	minFactsForStory         = 10
	minYearAnchors           = 2
	factBoostPerFact         = 80
	factBoostCap             = 20
	anchorBoostPerItem       = 220
	anchorBoostCap           = 10
)

// Params bounds a Select call: maxDistanceMeters caps how far a candidate
// may be before it's excluded outright, and minScoreToSpeak is the score
// ceiling (lower is better) a winner must clear to be worth speaking
// about at all. A zero Params uses defaultMaxDistanceMeters and no score
// ceiling.
type Params struct {
	MaxDistanceMeters int
	MinScoreToSpeak   float64
}

func (p Params) maxDistance() float64 {
	if p.MaxDistanceMeters <= 0 {
		return defaultMaxDistanceMeters
	}
	return float64(p.MaxDistanceMeters)
}

// Select filters candidates to those within range and not already heard,
// keeps the nearest maxCandidates, drops any without enough narrative
// substance or whose best score misses minScoreToSpeak, and returns the
// single best-scoring survivor. The bool return is false when no
// candidate qualifies.
func Select(candidates []domain.PoiWithFacts, heardSet map[string]struct{}, params Params) (domain.PoiWithFacts, bool) {
	maxDistance := params.maxDistance()
	filtered := make([]domain.PoiWithFacts, 0, len(candidates))
	for _, c := range candidates {
		if c.POI.DistanceMeters > maxDistance {
			continue
		}
		if _, heard := heardSet[c.POI.Key]; heard {
			continue
		}
		filtered = append(filtered, c)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].POI.DistanceMeters < filtered[j].POI.DistanceMeters
	})
	if len(filtered) > maxCandidates {
		filtered = filtered[:maxCandidates]
	}

	var qualifying []domain.PoiWithFacts
	for _, c := range filtered {
		if hasStoryPotential(c) {
			qualifying = append(qualifying, c)
		}
	}
	if len(qualifying) == 0 {
		return domain.PoiWithFacts{}, false
	}

	best := qualifying[0]
	bestScore := Score(best)
	for _, c := range qualifying[1:] {
		if s := Score(c); s < bestScore {
			best = c
			bestScore = s
		}
	}
	if params.MinScoreToSpeak != 0 && bestScore > params.MinScoreToSpeak {
		return domain.PoiWithFacts{}, false
	}
	return best, true
}

// hasStoryPotential reports whether a POI's fact set is substantial
// enough to attempt a story at all.
func hasStoryPotential(c domain.PoiWithFacts) bool {
	return len(c.Facts) >= minFactsForStory && c.YearAnchorCount() >= minYearAnchors
}

// Score computes the selection score: distance in meters minus a boost
// for fact richness and anchoring. Lower is better; Select returns the
// minimum-scoring qualifying candidate.
func Score(c domain.PoiWithFacts) float64 {
	factCount := len(c.Facts)
	if factCount > factBoostCap {
		factCount = factBoostCap
	}
	anchorCount := c.AnchorCount()
	if anchorCount > anchorBoostCap {
		anchorCount = anchorBoostCap
	}
	boost := float64(factCount*factBoostPerFact + anchorCount*anchorBoostPerItem)
	return c.POI.DistanceMeters - boost
}
