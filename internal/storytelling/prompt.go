// Package storytelling implements C8 (prompt construction and output
// validation) and C9 (the one-shot repair loop). There is no established analog for prompt construction itself;
// the surrounding idiom (small pure builder functions, explicit reason
// strings instead of sentinel errors) follows the rest of this module.
package storytelling

import (
	"fmt"
	"strconv"
	"strings"

	"narrator/internal/domain"
)

// NoStorySentinel is the exact string the model must return when the
// fact set genuinely does not support a story
const NoStorySentinel = "NO_STORY"

// maxPromptFacts caps how many facts are rendered into the FACTS block,
// even when the fact merger has handed over more.
const maxPromptFacts = 18

// Request bundles everything the prompt builder needs for one POI.
type Request struct {
	POI            domain.POI
	Facts          []domain.AnchoredFact
	Lang           string
	Taste          domain.TasteProfile
	DistanceMeters int
}

// distancePhrases renders "about N meters away" in each supported
// language. Unknown languages fall back to English.
var distancePhrases = map[string]string{
	"en": "about %d meters away",
	"he": "במרחק של כ-%d מטרים",
}

func distancePhrase(lang string, meters int) string {
	format, ok := distancePhrases[lang]
	if !ok {
		format = distancePhrases["en"]
	}
	return fmt.Sprintf(format, meters)
}

// BuildPrompt renders the prompt as one string: length and tone
// instructions derived from minWords/maxWords and Taste, then a PLACE
// line, then a FACTS block drawn from Facts.
func BuildPrompt(req Request, minWords, maxWords int) string {
	var b strings.Builder
	b.WriteString("You are a local narrator describing a place to someone standing near it. ")
	b.WriteString("Write a single paragraph story in language code \"")
	b.WriteString(req.Lang)
	b.WriteString("\", between ")
	b.WriteString(strconv.Itoa(minWords))
	b.WriteString(" and ")
	b.WriteString(strconv.Itoa(maxWords))
	b.WriteString(" words, grounded only in the FACTS below. ")
	b.WriteString("Do not invent facts not present in the list. ")
	b.WriteString(toneInstruction(req.Taste))
	b.WriteString("If the facts do not support an engaging story, respond with exactly \"")
	b.WriteString(NoStorySentinel)
	b.WriteString("\" and nothing else.\n\n")

	b.WriteString("PLACE: ")
	b.WriteString(req.POI.Label)
	b.WriteString(", ")
	b.WriteString(distancePhrase(req.Lang, req.DistanceMeters))
	b.WriteString("\n\nFACTS:\n")
	facts := req.Facts
	if len(facts) > maxPromptFacts {
		facts = facts[:maxPromptFacts]
	}
	for i, f := range facts {
		b.WriteString("FACT ")
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(": ")
		b.WriteString(f.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// toneInstruction turns a taste profile into a short style directive.
// Each axis is read independently; there is no single dominant trait.
func toneInstruction(t domain.TasteProfile) string {
	var parts []string
	if t.Humor >= 0.6 {
		parts = append(parts, "light and wry")
	}
	if t.Nerdy >= 0.6 {
		parts = append(parts, "detail-rich and precise")
	}
	if t.Dramatic >= 0.6 {
		parts = append(parts, "vivid and dramatic")
	}
	if t.Shortness >= 0.6 {
		parts = append(parts, "economical, favoring the shorter end of the word range")
	}
	if len(parts) == 0 {
		return ""
	}
	return "Tone: " + strings.Join(parts, ", ") + ". "
}

// BuildRepairPrompt reconstructs the original prompt with the failed
// draft and failure reason appended, asking for one corrective rewrite.
func BuildRepairPrompt(req Request, minWords, maxWords int, badDraft, reason string) string {
	var b strings.Builder
	b.WriteString(BuildPrompt(req, minWords, maxWords))
	b.WriteString("\nYour previous attempt failed validation for this reason: ")
	b.WriteString(reason)
	b.WriteString("\n\nPREVIOUS ATTEMPT:\n")
	b.WriteString(badDraft)
	b.WriteString("\n\nRewrite it once, fixing that specific problem, following all the rules above.")
	return b.String()
}
