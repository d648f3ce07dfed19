package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrNoProvider is returned when no TTS base URL was configured. Callers
// see this through Cache.Synthesize's wrapped error.
var ErrNoProvider = errors.New("audio: no tts provider configured")

// HTTPSynthesizer calls an external TTS HTTP endpoint, grounded on the
// same plain-HTTP-collaborator shape as internal/sources.PlacesAdapter:
// a base URL, an optional API key, and a shared *http.Client. Voice
// selection and prosody belong to that external service; this type only
// does the plumbing.
type HTTPSynthesizer struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewHTTPSynthesizer(baseURL, apiKey string, client *http.Client) *HTTPSynthesizer {
	return &HTTPSynthesizer{BaseURL: baseURL, APIKey: apiKey, Client: client}
}

type synthesizeRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

func (s *HTTPSynthesizer) Synthesize(ctx context.Context, text, lang string) ([]byte, string, error) {
	if s.BaseURL == "" {
		return nil, "", ErrNoProvider
	}

	body, err := json.Marshal(synthesizeRequest{Text: text, Lang: lang})
	if err != nil {
		return nil, "", fmt.Errorf("tts: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, "", fmt.Errorf("tts: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("tts: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("tts: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("tts: read response: %w", err)
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	return data, contentType, nil
}
