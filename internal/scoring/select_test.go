package scoring

import (
	"testing"

	"narrator/internal/domain"
)

func richCandidate(key string, distance float64, factCount, yearAnchors int) domain.PoiWithFacts {
	var facts []domain.AnchoredFact
	for i := 0; i < factCount; i++ {
		hasYear := i < yearAnchors
		facts = append(facts, domain.AnchoredFact{Fact: domain.Fact{Text: "fact"}, HasYear: hasYear})
	}
	return domain.PoiWithFacts{POI: domain.POI{Key: key, DistanceMeters: distance}, Facts: facts}
}

func TestSelectDropsCandidatesBeyondMaxDistance(t *testing.T) {
	c := richCandidate("far", defaultMaxDistanceMeters+1, 12, 3)
	_, ok := Select([]domain.PoiWithFacts{c}, nil, Params{})
	if ok {
		t.Fatalf("expected candidate beyond max distance to be dropped")
	}
}

func TestSelectDropsAlreadyHeardCandidates(t *testing.T) {
	c := richCandidate("heard", 100, 12, 3)
	heard := map[string]struct{}{"heard": {}}
	_, ok := Select([]domain.PoiWithFacts{c}, heard, Params{})
	if ok {
		t.Fatalf("expected already-heard candidate to be dropped")
	}
}

func TestSelectRequiresStoryPotential(t *testing.T) {
	tooFewFacts := richCandidate("thin", 100, 5, 3)
	tooFewYears := richCandidate("undated", 100, 12, 1)
	_, ok1 := Select([]domain.PoiWithFacts{tooFewFacts}, nil, Params{})
	_, ok2 := Select([]domain.PoiWithFacts{tooFewYears}, nil, Params{})
	if ok1 || ok2 {
		t.Fatalf("expected both candidates to fail the story-potential gate")
	}
}

func TestSelectPicksLowestScore(t *testing.T) {
	near := richCandidate("near", 500, 10, 2)
	richFar := richCandidate("rich-far", 1800, 20, 10)

	best, ok := Select([]domain.PoiWithFacts{near, richFar}, nil, Params{})
	if !ok {
		t.Fatalf("expected a qualifying candidate")
	}
	if Score(richFar) >= Score(near) {
		t.Fatalf("test setup invalid: expected richFar to score lower than near")
	}
	if best.POI.Key != "rich-far" {
		t.Fatalf("expected the richer-but-farther candidate to win on score, got %q", best.POI.Key)
	}
}

func TestSelectHonorsCustomMaxDistance(t *testing.T) {
	c := richCandidate("mid-range", 600, 12, 3)
	_, ok := Select([]domain.PoiWithFacts{c}, nil, Params{MaxDistanceMeters: 500})
	if ok {
		t.Fatalf("expected candidate beyond the custom max distance to be dropped")
	}
}

func TestSelectRejectsWinnerScoringAboveMinScoreToSpeak(t *testing.T) {
	weak := richCandidate("weak", 2000, 10, 2)
	_, ok := Select([]domain.PoiWithFacts{weak}, nil, Params{MinScoreToSpeak: Score(weak) - 1})
	if ok {
		t.Fatalf("expected winner scoring above the ceiling to be rejected")
	}
}

func TestSelectCapsCandidatePoolBeforeScoring(t *testing.T) {
	var candidates []domain.PoiWithFacts
	for i := 0; i < 25; i++ {
		facts, years := 10, 2
		if i == 24 {
			facts, years = 20, 10
		}
		candidates = append(candidates, richCandidate(string(rune('a'+i)), float64(100+i), facts, years))
	}
	// Only the nearest maxCandidates are considered; the 25th (farthest)
	// candidate is the richest and would win on score if it were not
	// dropped by the cap.
	best, ok := Select(candidates, nil, Params{})
	if !ok {
		t.Fatalf("expected a qualifying candidate")
	}
	if best.POI.Key != "a" {
		t.Fatalf("expected the nearest equally-qualified candidate to win, got %q", best.POI.Key)
	}
}
