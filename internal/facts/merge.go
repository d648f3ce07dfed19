package facts

import (
	"strings"

	"narrator/internal/domain"
)

// maxMergedFacts caps the number of facts carried forward to the scorer
// and prompt builder.
const maxMergedFacts = 22

// Merge combines graph facts and encyclopedia facts, applies the
// sensitive-content filter, dedupes case-folded, caps at maxMergedFacts,
// and anchors each surviving fact.
func Merge(graphFacts, encyclopediaFacts []domain.Fact, lang string) []domain.AnchoredFact {
	all := FilterSensitive(append(append([]domain.Fact{}, graphFacts...), encyclopediaFacts...), lang)

	seen := make(map[string]struct{}, len(all))
	var deduped []domain.Fact
	for _, f := range all {
		key := strings.ToLower(strings.TrimSpace(f.Text))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, f)
		if len(deduped) >= maxMergedFacts {
			break
		}
	}

	out := make([]domain.AnchoredFact, 0, len(deduped))
	for _, f := range deduped {
		out = append(out, domain.Anchor(f.Text))
	}
	return out
}
