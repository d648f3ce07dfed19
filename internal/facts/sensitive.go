package facts

import (
	"strings"

	"narrator/internal/domain"
)

// sensitiveTerms is a language-keyed denylist used to drop facts that
// touch topics the story generator should not narrate. English and
// Hebrew for now; additional languages are added as the denylist is
// reviewed for them.
var sensitiveTerms = map[string][]string{
	"en": {
		"massacre", "genocide", "assassinated", "mass grave", "war crime",
		"torture", "rape", "pedophile", "suicide", "lynching", "war", "terror",
	},
	"he": {
		"טבח", "רצח עם", "התנקש", "קבר אחים", "פשע מלחמה",
		"עינויים", "אינוס", "פדופיל", "התאבדות", "לינץ'", "מלחמה", "טרור",
	},
}

// FilterSensitive drops any fact whose text contains a denylisted term
// for lang, leaving the rest untouched. Unknown languages pass through
// unfiltered rather than being dropped outright.
func FilterSensitive(facts []domain.Fact, lang string) []domain.Fact {
	terms := sensitiveTerms[lang]
	if len(terms) == 0 {
		return facts
	}
	out := make([]domain.Fact, 0, len(facts))
	for _, f := range facts {
		if containsAny(strings.ToLower(f.Text), terms) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
