// Package facts implements C6: turning a POI into the small set of
// anchored facts the story prompt (C8) is built from. graph.go covers
// C6a, the structured-query path over knowledge-graph entities; encyclopedia.go
// covers C6b, the free-text extraction path over encyclopedia articles;
// sensitive.go covers C6c, the sensitive-content filter; merge.go joins
// both paths into the capped, deduplicated fact list a POI carries
// forward.
package facts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"narrator/internal/domain"
	"narrator/internal/ttlcache"
)

// GraphFetcher turns a knowledge-graph entity ID into the small set of
// terse, stable-order facts a structured query can answer directly:
// description, type, inception year, named-after, heritage designation,
// notable events.
type GraphFetcher struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	cache     *ttlcache.Cache[[]domain.Fact]
	ttl       time.Duration
}

func NewGraphFetcher(baseURL, userAgent string, client *http.Client, ttl time.Duration) *GraphFetcher {
	return &GraphFetcher{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		Client:    client,
		cache:     ttlcache.New[[]domain.Fact](),
		ttl:       ttl,
	}
}

type graphEntityResponse struct {
	Results struct {
		Bindings []map[string]struct {
			Value string `json:"value"`
		} `json:"bindings"`
	} `json:"results"`
}

// Fetch returns the atomic facts for graphID, cached per (graphID, lang).
func (f *GraphFetcher) Fetch(ctx context.Context, graphID, lang string) ([]domain.Fact, error) {
	cacheKey := graphID + "|" + lang
	if cached, ok := f.cache.Get(cacheKey); ok {
		return cached, nil
	}

	query := fmt.Sprintf(`
SELECT ?description ?typeLabel ?inception ?namedAfterLabel ?heritageLabel ?eventLabel WHERE {
  OPTIONAL { <%[1]s> schema:description ?description . FILTER(LANG(?description) = "%[2]s") }
  OPTIONAL { <%[1]s> wdt:P31 ?type . ?type rdfs:label ?typeLabel . FILTER(LANG(?typeLabel) = "%[2]s") }
  OPTIONAL { <%[1]s> wdt:P571 ?inception . }
  OPTIONAL { <%[1]s> wdt:P138 ?namedAfter . ?namedAfter rdfs:label ?namedAfterLabel . FILTER(LANG(?namedAfterLabel) = "%[2]s") }
  OPTIONAL { <%[1]s> wdt:P1435 ?heritage . ?heritage rdfs:label ?heritageLabel . FILTER(LANG(?heritageLabel) = "%[2]s") }
  OPTIONAL { <%[1]s> wdt:P793 ?event . ?event rdfs:label ?eventLabel . FILTER(LANG(?eventLabel) = "%[2]s") }
} LIMIT 1`, graphID, lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?format=json&query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", f.UserAgent)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph fetcher: unexpected status %d", resp.StatusCode)
	}

	var parsed graphEntityResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("graph fetcher: decode response: %w", err)
	}
	if len(parsed.Results.Bindings) == 0 {
		f.cache.Set(cacheKey, nil, f.ttl)
		return nil, nil
	}
	row := parsed.Results.Bindings[0]

	facts := buildGraphFacts(row)
	f.cache.Set(cacheKey, facts, f.ttl)
	return facts, nil
}

func buildGraphFacts(row map[string]struct {
	Value string `json:"value"`
}) []domain.Fact {
	var out []domain.Fact
	if v := row["description"].Value; v != "" {
		out = append(out, domain.Fact{Text: v})
	}
	if v := row["typeLabel"].Value; v != "" {
		out = append(out, domain.Fact{Text: "It is classified as a " + v + "."})
	}
	if v := row["inception"].Value; v != "" {
		if year := yearFromDateValue(v); year != "" {
			out = append(out, domain.Fact{Text: "It dates to " + year + "."})
		}
	}
	if v := row["namedAfterLabel"].Value; v != "" {
		out = append(out, domain.Fact{Text: "It is named after " + v + "."})
	}
	if v := row["heritageLabel"].Value; v != "" {
		out = append(out, domain.Fact{Text: "It carries the heritage designation " + v + "."})
	}
	if v := row["eventLabel"].Value; v != "" {
		out = append(out, domain.Fact{Text: "It is notable for its connection to " + v + "."})
	}
	return out
}

// yearFromDateValue extracts a 4-digit year from a SPARQL xsd:dateTime
// literal such as "1834-01-01T00:00:00Z".
func yearFromDateValue(v string) string {
	if len(v) < 4 {
		return ""
	}
	year := v[:4]
	if _, err := strconv.Atoi(year); err != nil {
		return ""
	}
	return year
}
