package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"narrator/internal/domain"
	"narrator/internal/obslog"
	"narrator/internal/orchestrator"
	"narrator/internal/taste"
)

// apiVersion is echoed in every /api/story-both response and the /health
// body, per the wire contract.
const apiVersion = "1.0.0"

// maxResponseFacts caps how many of the winning POI's facts are echoed in
// the response; the orchestrator and generator may have used more facts
// internally than are worth sending back to a client.
const maxResponseFacts = 8

// Handlers bundles the collaborators every route needs.
type Handlers struct {
	Orchestrator *orchestrator.Orchestrator
	Taste        *taste.Store
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok", "version": apiVersion})
}

type poiResponse struct {
	Key         string `json:"key"`
	Source      string `json:"source"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Anchor      bool   `json:"anchor,omitempty"`
}

type factResponse struct {
	Text string `json:"text"`
}

type audioResponse struct {
	ContentType string `json:"contentType"`
	Base64      string `json:"base64"`
	Bytes       int    `json:"bytes"`
}

type storyResponse struct {
	ShouldSpeak bool           `json:"shouldSpeak"`
	Reason      string         `json:"reason"`
	POI         *poiResponse   `json:"poi"`
	Facts       []factResponse `json:"facts,omitempty"`

	Text      string `json:"text,omitempty"`
	StoryText string `json:"storyText,omitempty"`

	AudioBase64      string         `json:"audioBase64,omitempty"`
	AudioContentType string         `json:"audioContentType,omitempty"`
	Audio            *audioResponse `json:"audio,omitempty"`

	DistanceMetersApprox int    `json:"distanceMetersApprox,omitempty"`
	Lang                 string `json:"lang,omitempty"`
	Version              string `json:"version"`
	TimingMs             int64  `json:"timingMs"`
}

func (h *Handlers) storyBoth(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var body storyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	lat, hasLat := body.resolveLat()
	lng, hasLng := body.resolveLng()
	lang := body.resolveLang()

	req := orchestrator.Request{
		UserKey: resolveUserKey(r),
		Lat:     lat,
		Lng:     lng,
		HasLoc:  hasLat && hasLng,
		Lang:    lang,
	}

	decision, err := h.Orchestrator.Decide(r.Context(), req)
	if err != nil {
		obslog.FromCtx(r.Context()).Error().Err(err).Msg("httpapi: decide failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	resp := storyResponse{
		ShouldSpeak: decision.ShouldSpeak,
		Reason:      decision.Reason,
		Lang:        lang,
		Version:     apiVersion,
	}
	if decision.POI != nil {
		resp.POI = &poiResponse{
			Key:         decision.POI.Key,
			Source:      string(decision.POI.Source),
			Label:       decision.POI.Label,
			Description: decision.POI.RawTags["description"],
			Anchor:      decision.HasAnchor,
		}
		resp.DistanceMetersApprox = roundedDistance(decision.DistanceMetersApprox)
	}
	resp.Facts = responseFacts(decision.Facts)
	if decision.ShouldSpeak {
		resp.Text = decision.StoryText
		resp.StoryText = decision.StoryText
		audioB64 := base64.StdEncoding.EncodeToString(decision.AudioBytes)
		resp.AudioBase64 = audioB64
		resp.AudioContentType = decision.AudioContentType
		resp.Audio = &audioResponse{
			ContentType: decision.AudioContentType,
			Base64:      audioB64,
			Bytes:       len(decision.AudioBytes),
		}
	}
	resp.TimingMs = time.Since(start).Milliseconds()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// responseFacts caps the facts echoed to the client at maxResponseFacts.
func responseFacts(facts []domain.Fact) []factResponse {
	if len(facts) > maxResponseFacts {
		facts = facts[:maxResponseFacts]
	}
	out := make([]factResponse, len(facts))
	for i, f := range facts {
		out[i] = factResponse{Text: f.Text}
	}
	return out
}

type tasteSetRequest struct {
	Humor     float64 `json:"humor"`
	Nerdy     float64 `json:"nerdy"`
	Dramatic  float64 `json:"dramatic"`
	Shortness float64 `json:"shortness"`
}

func (h *Handlers) tasteSet(w http.ResponseWriter, r *http.Request) {
	var body tasteSetRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	userKey := resolveUserKey(r)
	h.Taste.Set(r.Context(), userKey, domain.TasteProfile{
		Humor:     body.Humor,
		Nerdy:     body.Nerdy,
		Dramatic:  body.Dramatic,
		Shortness: body.Shortness,
	})
	w.WriteHeader(http.StatusNoContent)
}

type tasteFeedbackRequest struct {
	Axis  string  `json:"axis"`
	Delta float64 `json:"delta"`
}

func (h *Handlers) tasteFeedback(w http.ResponseWriter, r *http.Request) {
	var body tasteFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	userKey := resolveUserKey(r)
	profile := h.Taste.Nudge(r.Context(), userKey, body.Axis, body.Delta)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(profile)
}

// resolveUserKey picks the caller's identity: an explicit header first,
// then the forwarded client address, then the connection's remote
// address, then an anonymous fallback.
func resolveUserKey(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-User-Key")); v != "" {
		return v
	}
	if v := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); v != "" {
		return strings.TrimSpace(strings.Split(v, ",")[0])
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "anon"
}

// roundedDistance converts the orchestrator's already-50m-rounded
// DistanceMetersApprox to an int for the wire response.
func roundedDistance(meters float64) int {
	return int(meters)
}
