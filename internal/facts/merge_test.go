package facts

import (
	"testing"

	"narrator/internal/domain"
)

func TestMergeDedupesCaseFolded(t *testing.T) {
	graphFacts := []domain.Fact{{Text: "It was built in 1850."}}
	encyclopediaFacts := []domain.Fact{{Text: "IT WAS BUILT IN 1850."}, {Text: "It hosted the 1889 exposition."}}

	out := Merge(graphFacts, encyclopediaFacts, "en")
	if len(out) != 2 {
		t.Fatalf("expected 2 deduped facts, got %d: %+v", len(out), out)
	}
}

func TestMergeCapsAtMax(t *testing.T) {
	var graphFacts []domain.Fact
	for i := 0; i < 30; i++ {
		graphFacts = append(graphFacts, domain.Fact{Text: "Fact number " + string(rune('A'+i)) + "."})
	}
	out := Merge(graphFacts, nil, "en")
	if len(out) != maxMergedFacts {
		t.Fatalf("expected cap at %d, got %d", maxMergedFacts, len(out))
	}
}

func TestMergeAppliesSensitiveFilter(t *testing.T) {
	graphFacts := []domain.Fact{{Text: "It was the site of a massacre in 1803."}, {Text: "It was rebuilt in 1920."}}
	out := Merge(graphFacts, nil, "en")
	if len(out) != 1 || out[0].Text != "It was rebuilt in 1920." {
		t.Fatalf("expected sensitive fact dropped, got %+v", out)
	}
}

func TestMergeAnchorsYearBearingFacts(t *testing.T) {
	out := Merge([]domain.Fact{{Text: "It was completed in 1912."}}, nil, "en")
	if len(out) != 1 || !out[0].HasYear {
		t.Fatalf("expected year-anchored fact, got %+v", out)
	}
}
