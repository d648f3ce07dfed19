package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/inbucket/html2text"

	"narrator/internal/domain"
	"narrator/internal/llmgen"
	"narrator/internal/ttlcache"
	"narrator/internal/util/jsonutil"
)

const maxExtractChars = 12000

// fallbackLangs is tried in order after ref.Lang yields no extract. The
// language does not change the request fetchExtract sends (see Fetch).
var fallbackLangs = []string{"he", "en", "fr"}

// EncyclopediaFetcher extracts candidate facts from an encyclopedia
// article's free text via an LLM extraction prompt. Cached per (lang, pageTitle).
type EncyclopediaFetcher struct {
	BaseURL string
	Client  *http.Client
	Gen     llmgen.Generator
	cache   *ttlcache.Cache[encyclopediaResult]
	ttl     time.Duration
}

type encyclopediaResult struct {
	Facts   []domain.Fact
	Sources []domain.SourceDoc
}

func NewEncyclopediaFetcher(baseURL string, client *http.Client, gen llmgen.Generator, ttl time.Duration) *EncyclopediaFetcher {
	return &EncyclopediaFetcher{
		BaseURL: baseURL,
		Client:  client,
		Gen:     gen,
		cache:   ttlcache.New[encyclopediaResult](),
		ttl:     ttl,
	}
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
			Missing bool   `json:"missing"`
		} `json:"pages"`
	} `json:"query"`
}

// Fetch looks up ref.Title at BaseURL and returns the LLM-extracted facts
// from its article text. It makes one attempt per language in ref.Lang
// then fallbackLangs, stopping at the first non-empty extract, but every
// attempt sends the same request to the same BaseURL: the language only
// picks the sentence filter's token list. No other language edition of
// the encyclopedia is queried.
func (f *EncyclopediaFetcher) Fetch(ctx context.Context, ref domain.EncyclopediaRef) ([]domain.Fact, []domain.SourceDoc, error) {
	cacheKey := ref.Lang + "|" + ref.Title
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached.Facts, cached.Sources, nil
	}

	langs := append([]string{ref.Lang}, fallbackLangs...)
	var extract, resolvedLang string
	var err error
	for _, lang := range langs {
		extract, err = f.fetchExtract(ctx, lang, ref.Title)
		if err == nil && extract != "" {
			resolvedLang = lang
			break
		}
	}
	if extract == "" {
		result := encyclopediaResult{}
		f.cache.Set(cacheKey, result, f.ttl)
		return nil, nil, nil
	}

	plain, err := html2text.FromString(extract, html2text.Options{OmitLinks: true})
	if err != nil {
		plain = extract
	}
	if len(plain) > maxExtractChars {
		plain = plain[:maxExtractChars]
	}

	sentences := filterSentences(splitSentences(plain), resolvedLang)
	if len(sentences) == 0 {
		result := encyclopediaResult{}
		f.cache.Set(cacheKey, result, f.ttl)
		return nil, nil, nil
	}

	extracted, err := f.extractFacts(ctx, ref.Title, sentences)
	if err != nil {
		return nil, nil, fmt.Errorf("extract facts: %w", err)
	}

	source := domain.SourceDoc{Type: "encyclopedia", Title: ref.Title, URL: articleURL(f.BaseURL, resolvedLang, ref.Title)}
	result := encyclopediaResult{Facts: extracted, Sources: []domain.SourceDoc{source}}
	f.cache.Set(cacheKey, result, f.ttl)
	return result.Facts, result.Sources, nil
}

func (f *EncyclopediaFetcher) fetchExtract(ctx context.Context, lang, title string) (string, error) {
	q := url.Values{}
	q.Set("action", "query")
	q.Set("prop", "extracts")
	q.Set("explaintext", "1")
	q.Set("format", "json")
	q.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("encyclopedia fetcher: unexpected status %d", resp.StatusCode)
	}

	var parsed wikiExtractResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("encyclopedia fetcher: decode response: %w", err)
	}
	for _, page := range parsed.Query.Pages {
		if page.Missing || page.Extract == "" {
			continue
		}
		return page.Extract, nil
	}
	return "", nil
}

var sentenceSplitter = regexp.MustCompile(`(?s)[^.!?]+[.!?]`)

func splitSentences(text string) []string {
	matches := sentenceSplitter.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m))
	}
	return out
}

// yearToken matches a 4-digit year between 1500 and 2099.
var yearToken = regexp.MustCompile(`\b(1[5-9]\d{2}|20\d{2})\b`)

// numberToken matches any run of digits, used to look for a number >= 10.
var numberToken = regexp.MustCompile(`\d+`)

// signalTokens are language-specific words that mark a sentence as likely
// to carry a concrete, narratable fact (construction, biography, scale).
// English and Hebrew for now; additional languages fall back to English.
var signalTokens = map[string][]string{
	"en": {
		"built", "founded", "constructed", "designed", "opened", "completed",
		"established", "born", "died", "named", "located", "population",
		"height", "length", "century", "dynasty", "architect", "monument",
		"historic", "renovated", "demolished",
	},
	"he": {
		"נבנה", "נוסד", "הוקם", "נפתח", "הושלם", "נולד", "נפטר", "נקרא",
		"ממוקם", "אוכלוסייה", "גובה", "אורך", "מאה", "שושלת", "אדריכל",
		"מונומנט", "היסטורי", "שוחזר", "נהרס",
	},
}

func hasSignalToken(s, lang string) bool {
	tokens, ok := signalTokens[lang]
	if !ok {
		tokens = signalTokens["en"]
	}
	lower := strings.ToLower(s)
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

func hasNumberAtLeast10(s string) bool {
	for _, m := range numberToken.FindAllString(s, -1) {
		if n, err := strconv.Atoi(m); err == nil && n >= 10 {
			return true
		}
	}
	return false
}

// isCandidateSentence reports whether s is long enough and carries at
// least one of: a plausible year, a number paired with a signal token, or
// a signal token alone.
func isCandidateSentence(s, lang string) bool {
	if len(s) < 25 || len(s) > 260 {
		return false
	}
	signal := hasSignalToken(s, lang)
	return yearToken.MatchString(s) || (hasNumberAtLeast10(s) && signal) || signal
}

// filterSentences selects the sentences worth handing to the fact
// extractor. If none qualify, it falls back to the article's first 10
// sentences rather than yielding nothing.
func filterSentences(sentences []string, lang string) []string {
	candidates := make([]string, 0, len(sentences))
	for _, s := range sentences {
		if isCandidateSentence(s, lang) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) > 0 {
		return candidates
	}
	if len(sentences) > 10 {
		return sentences[:10]
	}
	return sentences
}

func (f *EncyclopediaFetcher) extractFacts(ctx context.Context, title string, sentences []string) ([]domain.Fact, error) {
	prompt := buildExtractionPrompt(title, sentences)
	raw, err := f.Gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseExtractedFacts(raw)
}

func buildExtractionPrompt(title string, sentences []string) string {
	var b strings.Builder
	b.WriteString("Extract between 8 and 14 standalone, verifiable facts about \"")
	b.WriteString(title)
	b.WriteString("\" from the sentences below. ")
	b.WriteString("Respond with a JSON array of strings, one fact per element, each a single self-contained sentence. ")
	b.WriteString("Do not invent facts not supported by the text.\n\nSENTENCES:\n")
	for _, s := range sentences {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
	return b.String()
}

func parseExtractedFacts(raw json.RawMessage) ([]domain.Fact, error) {
	var texts []string
	if err := jsonutil.UnmarshalRaw(raw, &texts); err != nil {
		return nil, fmt.Errorf("parse extracted facts: %w", err)
	}
	seen := make(map[string]struct{}, len(texts))
	out := make([]domain.Fact, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		t = normalizeTerminalPunctuation(t)
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, domain.Fact{Text: t})
	}
	return out, nil
}

// normalizeTerminalPunctuation makes a fact end with ".": a final ".",
// "!" or "?" is replaced by one ".", and one is appended where none
// exists. Only the last character is examined, so a run such as "..."
// keeps its earlier dots.
func normalizeTerminalPunctuation(s string) string {
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s[:len(s)-1] + "."
	default:
		return s + "."
	}
}

func articleURL(baseURL, lang, title string) string {
	return strings.Replace(baseURL, "/w/api.php", "/wiki/"+url.PathEscape(title), 1)
}
