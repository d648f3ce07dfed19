package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"narrator/internal/domain"
)

// PlacesAdapter queries a commercial places API. It is used only as a
// fallback when the other two sources return nothing usable; orchestrator
// wiring decides whether to call it at all.
type PlacesAdapter struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewPlacesAdapter(baseURL, apiKey string, client *http.Client) *PlacesAdapter {
	return &PlacesAdapter{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

func (a *PlacesAdapter) Name() string { return "places" }

type placesResponse struct {
	Results []placesResult `json:"results"`
}

type placesResult struct {
	Name     string `json:"name"`
	PlaceID  string `json:"place_id"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	Types []string `json:"types"`
}

func (a *PlacesAdapter) Fetch(ctx context.Context, lat, lng float64, radiusMeters int, lang string) ([]domain.POI, error) {
	if a.APIKey == "" {
		return nil, nil
	}

	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lng))
	q.Set("radius", strconv.Itoa(radiusMeters))
	q.Set("language", lang)
	q.Set("key", a.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places adapter: unexpected status %d", resp.StatusCode)
	}

	var parsed placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("places adapter: decode response: %w", err)
	}

	out := make([]domain.POI, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		if r.Name == "" {
			continue
		}
		out = append(out, domain.POI{
			Key:       "places:" + r.PlaceID,
			Source:    domain.SourcePlaces,
			Label:     r.Name,
			Lat:       r.Geometry.Location.Lat,
			Lng:       r.Geometry.Location.Lng,
			KindHints: r.Types,
		})
	}
	return out, nil
}
