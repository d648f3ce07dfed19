package domain

import (
	"regexp"
	"strings"
)

// Fact is a single, verifiable, citation-worthy sentence about a POI.
type Fact struct {
	Text string
}

var yearPattern = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)
var datePattern = regexp.MustCompile(`\b\d{1,2}\s+(January|February|March|April|May|June|July|August|September|October|November|December)\b`)
var namedEventPattern = regexp.MustCompile(`\b(war|battle|siege|treaty|revolt|revolution|uprising|earthquake|fire|flood|massacre|festival|conference|summit)\b`)
var namedPersonPattern = regexp.MustCompile(`\b([A-Z][a-z]+ [A-Z][a-z]+)\b`)

// AnchoredFact decorates a Fact with the anchor flags the scorer and the
// anchor-density invariant (P2) need.
type AnchoredFact struct {
	Fact
	HasYear        bool
	HasDate        bool
	HasNamedEvent  bool
	HasNamedPerson bool
}

// Anchor computes the anchor flags for a fact's text.
func Anchor(text string) AnchoredFact {
	lower := strings.ToLower(text)
	return AnchoredFact{
		Fact:           Fact{Text: text},
		HasYear:        yearPattern.MatchString(text),
		HasDate:        datePattern.MatchString(text),
		HasNamedEvent:  namedEventPattern.MatchString(lower),
		HasNamedPerson: namedPersonPattern.MatchString(text),
	}
}

// IsAnchored reports whether any anchor flag is set.
func (a AnchoredFact) IsAnchored() bool {
	return a.HasYear || a.HasDate || a.HasNamedEvent || a.HasNamedPerson
}

// SourceDoc is a citation attached to a PoiWithFacts.
type SourceDoc struct {
	Type  string
	URL   string
	Title string
}

// PoiWithFacts bundles a POI with the merged, filtered fact set used to
// ground a story, and the sources those facts were pulled from.
type PoiWithFacts struct {
	POI     POI
	Facts   []AnchoredFact
	Sources []SourceDoc
}

// AnchorCount returns how many facts carry at least one anchor.
func (p PoiWithFacts) AnchorCount() int {
	n := 0
	for _, f := range p.Facts {
		if f.IsAnchored() {
			n++
		}
	}
	return n
}

// YearAnchorCount returns how many facts contain a year token, used by the
// story-potential gate.
func (p PoiWithFacts) YearAnchorCount() int {
	n := 0
	for _, f := range p.Facts {
		if f.HasYear {
			n++
		}
	}
	return n
}
