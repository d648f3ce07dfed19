package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"narrator/internal/domain"
)

// GraphAdapter queries a SPARQL endpoint for entities with coordinates
// within radiusMeters of a point, returning each as a POI carrying a
// GraphID and, where the entity has a
// linked encyclopedia article in lang, an EncyclopediaRef for C6a/C6b to
// consume downstream.
type GraphAdapter struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewGraphAdapter(baseURL, userAgent string, client *http.Client) *GraphAdapter {
	return &GraphAdapter{BaseURL: baseURL, UserAgent: userAgent, Client: client}
}

func (a *GraphAdapter) Name() string { return "graph" }

type sparqlResponse struct {
	Results struct {
		Bindings []map[string]sparqlValue `json:"bindings"`
	} `json:"results"`
}

type sparqlValue struct {
	Value string `json:"value"`
}

func (a *GraphAdapter) Fetch(ctx context.Context, lat, lng float64, radiusMeters int, lang string) ([]domain.POI, error) {
	radiusKm := float64(radiusMeters) / 1000.0
	query := fmt.Sprintf(`
SELECT ?item ?itemLabel ?coord ?article WHERE {
  SERVICE wikibase:around {
    ?item wdt:P625 ?coord .
    bd:serviceParam wikibase:center "Point(%f %f)"^^geo:wktLiteral .
    bd:serviceParam wikibase:radius "%f" .
  }
  OPTIONAL { ?article schema:about ?item ; schema:isPartOf <https://%s.wikipedia.org/> . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "%s". }
} LIMIT 40`, lng, lat, radiusKm, lang, lang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"?format=json&query="+url.QueryEscape(query), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/sparql-results+json")
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph adapter: unexpected status %d", resp.StatusCode)
	}

	var parsed sparqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("graph adapter: decode response: %w", err)
	}

	out := make([]domain.POI, 0, len(parsed.Results.Bindings))
	for _, row := range parsed.Results.Bindings {
		label := row["itemLabel"].Value
		coord := row["coord"].Value
		if label == "" || coord == "" {
			continue
		}
		itemLat, itemLng, ok := parseWKTPoint(coord)
		if !ok {
			continue
		}
		poi := domain.POI{
			Key:     row["item"].Value,
			Source:  domain.SourceGraph,
			Label:   label,
			Lat:     itemLat,
			Lng:     itemLng,
			GraphID: row["item"].Value,
		}
		if article := row["article"].Value; article != "" {
			poi.EncyclopediaRef = &domain.EncyclopediaRef{Lang: lang, Title: label}
		}
		out = append(out, poi)
	}
	return out, nil
}

// parseWKTPoint parses "Point(lng lat)" as returned by wdt:P625 bindings.
func parseWKTPoint(wkt string) (lat, lng float64, ok bool) {
	body := strings.TrimSuffix(strings.TrimPrefix(wkt, "Point("), ")")
	parts := strings.Fields(body)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lngVal, err1 := strconv.ParseFloat(parts[0], 64)
	latVal, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return latVal, lngVal, true
}
