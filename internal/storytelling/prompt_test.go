package storytelling

import (
	"strings"
	"testing"

	"narrator/internal/domain"
)

func TestBuildPromptNumbersFactsAndRendersDistanceHeader(t *testing.T) {
	req := Request{
		POI:            domain.POI{Label: "Old Mill"},
		Facts:          []domain.AnchoredFact{{Fact: domain.Fact{Text: "It was built in 1850."}}, {Fact: domain.Fact{Text: "It burned down once."}}},
		Lang:           "en",
		DistanceMeters: 150,
	}
	prompt := BuildPrompt(req, 180, 340)

	if !strings.Contains(prompt, "PLACE: Old Mill, about 150 meters away") {
		t.Fatalf("expected place+distance header, got %q", prompt)
	}
	if !strings.Contains(prompt, "FACT 1: It was built in 1850.") || !strings.Contains(prompt, "FACT 2: It burned down once.") {
		t.Fatalf("expected numbered FACT lines, got %q", prompt)
	}
}

func TestBuildPromptCapsFactsAtEighteen(t *testing.T) {
	facts := make([]domain.AnchoredFact, 22)
	for i := range facts {
		facts[i] = domain.AnchoredFact{Fact: domain.Fact{Text: "fact"}}
	}
	req := Request{POI: domain.POI{Label: "Old Mill"}, Facts: facts, Lang: "en"}
	prompt := BuildPrompt(req, 180, 340)

	if strings.Contains(prompt, "FACT 19:") {
		t.Fatalf("expected facts capped at 18, got %q", prompt)
	}
	if !strings.Contains(prompt, "FACT 18:") {
		t.Fatalf("expected 18 facts rendered, got %q", prompt)
	}
}

func TestDistancePhraseFallsBackToEnglishForUnknownLang(t *testing.T) {
	if got := distancePhrase("xx", 200); got != "about 200 meters away" {
		t.Fatalf("expected English fallback phrase, got %q", got)
	}
}
