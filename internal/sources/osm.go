package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"narrator/internal/domain"
)

// OSMAdapter queries an Overpass API endpoint for tagged map features
// within radiusMeters of a point. Grounded on description
// of the "OSM-style" source: tag-carrying point/way features, no
// authentication, one user-agent header required by the upstream usage
// policy.
type OSMAdapter struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
}

func NewOSMAdapter(baseURL, userAgent string, client *http.Client) *OSMAdapter {
	return &OSMAdapter{BaseURL: baseURL, UserAgent: userAgent, Client: client}
}

func (a *OSMAdapter) Name() string { return "osm" }

type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center"`
	Tags map[string]string `json:"tags"`
}

// osmCategoryFilters is the union of categories a POI-worthy OSM element
// may carry, per the documented proximity query.
var osmCategoryFilters = []string{
	"historic", "tourism=attraction", "tourism=viewpoint", "memorial", "natural", "place",
}

// osmElementCap bounds how many elements the Overpass query returns.
const osmElementCap = 180

func buildOverpassQuery(lat, lng float64, radiusMeters int) string {
	var b strings.Builder
	b.WriteString("[out:json][timeout:10];(")
	for _, elemType := range []string{"node", "way", "relation"} {
		for _, filter := range osmCategoryFilters {
			b.WriteString(fmt.Sprintf("%s(around:%d,%f,%f)[%s];", elemType, radiusMeters, lat, lng, filter))
		}
	}
	b.WriteString(fmt.Sprintf(");out center tags %d;", osmElementCap))
	return b.String()
}

func (a *OSMAdapter) Fetch(ctx context.Context, lat, lng float64, radiusMeters int, lang string) ([]domain.POI, error) {
	query := buildOverpassQuery(lat, lng, radiusMeters)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.BaseURL, strings.NewReader("data="+query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.UserAgent)

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("osm adapter: unexpected status %d", resp.StatusCode)
	}

	var parsed overpassResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("osm adapter: decode response: %w", err)
	}

	out := make([]domain.POI, 0, len(parsed.Elements))
	for _, el := range parsed.Elements {
		label := labelFromTags(el.Tags)
		if label == "" {
			continue
		}
		elLat, elLng := el.Lat, el.Lon
		if el.Center != nil {
			elLat, elLng = el.Center.Lat, el.Center.Lon
		}
		if elLat == 0 && elLng == 0 {
			continue
		}
		out = append(out, domain.POI{
			Key:             el.Type + ":" + strconv.FormatInt(el.ID, 10),
			Source:          domain.SourceOSM,
			Label:           label,
			Lat:             elLat,
			Lng:             elLng,
			KindHints:       kindHintsFromTags(el.Tags),
			GraphID:         graphIDFromTags(el.Tags),
			EncyclopediaRef: encyclopediaRefFromTags(el.Tags, lang),
			RawTags:         el.Tags,
		})
	}
	return out, nil
}

func kindHintsFromTags(tags map[string]string) []string {
	var hints []string
	for _, key := range []string{"amenity", "historic", "tourism", "building", "leisure"} {
		if v, ok := tags[key]; ok && v != "" {
			hints = append(hints, key+"="+v)
		}
	}
	return hints
}

// labelFromTags implements the documented label fallback chain:
// name -> name:he -> name:en -> a title derived from the wikipedia tag.
func labelFromTags(tags map[string]string) string {
	for _, key := range []string{"name", "name:he", "name:en"} {
		if v := strings.TrimSpace(tags[key]); v != "" {
			return v
		}
	}
	if title := wikipediaTagTitle(tags["wikipedia"]); title != "" {
		return title
	}
	return ""
}

// graphIDFromTags reads the knowledge-graph entity id OSM elements carry
// in the "wikidata" tag (e.g. "Q12345").
func graphIDFromTags(tags map[string]string) string {
	return strings.TrimSpace(tags["wikidata"])
}

// encyclopediaRefFromTags parses the "wikipedia" tag, which is either a
// bare title or a "lang:Title" pair; a bare title is assumed to be in the
// adapter's query language.
func encyclopediaRefFromTags(tags map[string]string, lang string) *domain.EncyclopediaRef {
	raw := strings.TrimSpace(tags["wikipedia"])
	if raw == "" {
		return nil
	}
	if refLang, title, ok := splitWikipediaTag(raw); ok {
		return &domain.EncyclopediaRef{Lang: refLang, Title: title}
	}
	return &domain.EncyclopediaRef{Lang: lang, Title: raw}
}

func wikipediaTagTitle(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, title, ok := splitWikipediaTag(raw); ok {
		return title
	}
	return raw
}

// splitWikipediaTag splits a "lang:Title" wikipedia tag value. ok is
// false when raw carries no recognizable language prefix.
func splitWikipediaTag(raw string) (lang, title string, ok bool) {
	idx := strings.Index(raw, ":")
	if idx <= 0 || idx >= len(raw)-1 {
		return "", "", false
	}
	return raw[:idx], raw[idx+1:], true
}
