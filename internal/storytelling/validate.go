package storytelling

import (
	"regexp"
	"strings"
)

// Failure reasons
const (
	ReasonBadLength       = "bad_length"
	ReasonBannedFiller    = "banned_filler"
	ReasonNotOneParagraph = "not_one_paragraph"
	ReasonModelNoStory    = "model_no_story"
)

// paragraphBreak matches a blank-line paragraph separator: two newlines
// with arbitrary whitespace between them, not just a literal "\n\n".
var paragraphBreak = regexp.MustCompile(`\n\s*\n`)

// defaultBannedFillers backs languages with no configured denylist.
var defaultBannedFillers = []string{
	"as an ai", "i cannot", "i'm unable", "nestled in the heart of",
	"in the bustling", "in today's world",
}

// nonLatinScriptLangs lists languages whose filler denylist is matched
// exactly rather than case-insensitively, since case-folding is a
// Latin-script notion.
var nonLatinScriptLangs = map[string]bool{
	"he": true, "ar": true, "zh": true, "ja": true, "ko": true, "ru": true,
}

// Validate checks story against the word-count bounds and the quality
// gates: banned filler (from the lang-keyed fillers denylist), single
// paragraph, and the NO_STORY sentinel. ok is false whenever reason is
// non-empty.
func Validate(story, lang string, minWords, maxWords int, fillers map[string][]string) (ok bool, reason string) {
	trimmed := strings.TrimSpace(story)
	if trimmed == NoStorySentinel {
		return false, ReasonModelNoStory
	}

	words := strings.Fields(trimmed)
	if len(words) < minWords || len(words) > maxWords {
		return false, ReasonBadLength
	}

	if containsBannedFiller(trimmed, lang, fillers) {
		return false, ReasonBannedFiller
	}

	if paragraphBreak.MatchString(trimmed) {
		return false, ReasonNotOneParagraph
	}

	return true, ""
}

func containsBannedFiller(story, lang string, fillers map[string][]string) bool {
	list := fillersForLang(lang, fillers)
	if nonLatinScriptLangs[lang] {
		for _, filler := range list {
			if strings.Contains(story, filler) {
				return true
			}
		}
		return false
	}
	lower := strings.ToLower(story)
	for _, filler := range list {
		if strings.Contains(lower, strings.ToLower(filler)) {
			return true
		}
	}
	return false
}

func fillersForLang(lang string, fillers map[string][]string) []string {
	if list, ok := fillers[lang]; ok && len(list) > 0 {
		return list
	}
	if list, ok := fillers["en"]; ok && len(list) > 0 {
		return list
	}
	return defaultBannedFillers
}
