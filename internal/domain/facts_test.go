package domain

import "testing"

func TestAnchor(t *testing.T) {
	tests := []struct {
		name string
		text string
		want AnchoredFact
	}{
		{
			name: "year is detected",
			text: "The bridge was rebuilt in 1834 after a fire.",
			want: AnchoredFact{HasYear: true, HasNamedEvent: true},
		},
		{
			name: "named date is detected",
			text: "It was opened on 12 March 1956.",
			want: AnchoredFact{HasYear: true, HasDate: true},
		},
		{
			name: "named person is detected",
			text: "It was designed by Isambard Brunel.",
			want: AnchoredFact{HasNamedPerson: true},
		},
		{
			name: "plain description has no anchors",
			text: "It is a popular meeting point for locals.",
			want: AnchoredFact{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Anchor(tt.text)
			if got.HasYear != tt.want.HasYear || got.HasDate != tt.want.HasDate ||
				got.HasNamedEvent != tt.want.HasNamedEvent || got.HasNamedPerson != tt.want.HasNamedPerson {
				t.Errorf("Anchor(%q) = %+v, want flags %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnchoredFactIsAnchored(t *testing.T) {
	if (AnchoredFact{}).IsAnchored() {
		t.Errorf("expected no flags set to report unanchored")
	}
	if !(AnchoredFact{HasDate: true}).IsAnchored() {
		t.Errorf("expected any single flag to report anchored")
	}
}

func TestDefaultTasteProfileIsNeutral(t *testing.T) {
	p := DefaultTasteProfile()
	if p.Humor <= 0 || p.Humor >= 1 || p.Nerdy <= 0 || p.Nerdy >= 1 {
		t.Errorf("expected default taste axes within (0,1), got %+v", p)
	}
}

func TestPoiWithFactsCounts(t *testing.T) {
	p := PoiWithFacts{
		Facts: []AnchoredFact{
			{HasYear: true},
			{HasNamedPerson: true},
			{},
		},
	}
	if got := p.AnchorCount(); got != 2 {
		t.Errorf("AnchorCount() = %d, want 2", got)
	}
	if got := p.YearAnchorCount(); got != 1 {
		t.Errorf("YearAnchorCount() = %d, want 1", got)
	}
}
