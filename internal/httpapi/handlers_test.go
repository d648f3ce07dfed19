package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"narrator/internal/domain"
	"narrator/internal/orchestrator"
	"narrator/internal/taste"
)

type fakeResolver struct{}

func (f *fakeResolver) Resolve(ctx context.Context, lat, lng float64, radiusMeters int, lang string) []domain.POI {
	return nil
}

type fakeGraphFetcher struct{}

func (f *fakeGraphFetcher) Fetch(ctx context.Context, graphID, lang string) ([]domain.Fact, error) {
	return nil, nil
}

type fakeEncyFetcher struct{}

func (f *fakeEncyFetcher) Fetch(ctx context.Context, ref domain.EncyclopediaRef) ([]domain.Fact, []domain.SourceDoc, error) {
	return nil, nil, nil
}

type fakeHistory struct{}

func (f *fakeHistory) HeardSet(ctx context.Context, userKey string) map[string]struct{} {
	return map[string]struct{}{}
}
func (f *fakeHistory) MarkHeard(ctx context.Context, userKey, poiKey string) {}

type fakeExposure struct{}

func (f *fakeExposure) Append(ctx context.Context, rec domain.ExposureRecord) {}

func testOrchestrator() *orchestrator.Orchestrator {
	return &orchestrator.Orchestrator{
		Resolver:      &fakeResolver{},
		GraphFacts:    &fakeGraphFetcher{},
		EncyFacts:     &fakeEncyFetcher{},
		History:       &fakeHistory{},
		Exposure:      &fakeExposure{},
		MaxCandidates: 18,
	}
}

func TestHealthHandlerReturnsOK(t *testing.T) {
	h := &Handlers{Orchestrator: testOrchestrator(), Taste: taste.New(nil)}
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	h.health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestStoryBothMissingLocationReturnsLocationMissing(t *testing.T) {
	h := &Handlers{Orchestrator: testOrchestrator(), Taste: taste.New(nil)}
	body := bytes.NewBufferString(`{"lang":"en"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/story-both", body)
	rec := httptest.NewRecorder()

	h.storyBoth(rec, req)

	var resp storyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ShouldSpeak || resp.Reason != domain.ReasonLocationMissing {
		t.Fatalf("expected location_missing, got %+v", resp)
	}
}

func TestStoryBothAcceptsLatitudeLongitudeAliases(t *testing.T) {
	h := &Handlers{Orchestrator: testOrchestrator(), Taste: taste.New(nil)}
	body := bytes.NewBufferString(`{"latitude":51.5,"longitude":-0.1,"locale":"en"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/story-both", body)
	rec := httptest.NewRecorder()

	h.storyBoth(rec, req)

	var resp storyResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// No POI source wired, so the gate fails, but the request must parse
	// the aliased coordinate fields rather than falling back to missing.
	if resp.Reason == domain.ReasonLocationMissing {
		t.Fatalf("expected aliased lat/lng fields to be recognized, got %+v", resp)
	}
}

func TestTasteSetAndFeedbackRoundTrip(t *testing.T) {
	store := taste.New(nil)
	h := &Handlers{Orchestrator: testOrchestrator(), Taste: store}

	setBody := bytes.NewBufferString(`{"humor":0.8,"nerdy":0.2,"dramatic":0.5,"shortness":0.3}`)
	setReq := httptest.NewRequest(http.MethodPost, "/api/taste/set", setBody)
	setReq.Header.Set("X-User-Key", "u1")
	setRec := httptest.NewRecorder()
	h.tasteSet(setRec, setReq)
	if setRec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", setRec.Code)
	}

	fbBody := bytes.NewBufferString(`{"axis":"humor","delta":0.3}`)
	fbReq := httptest.NewRequest(http.MethodPost, "/api/taste/feedback", fbBody)
	fbReq.Header.Set("X-User-Key", "u1")
	fbRec := httptest.NewRecorder()
	h.tasteFeedback(fbRec, fbReq)

	var profile domain.TasteProfile
	if err := json.NewDecoder(fbRec.Body).Decode(&profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.Humor != 1 {
		t.Fatalf("expected humor clamped to 1 after +0.3 nudge from 0.8, got %f", profile.Humor)
	}
}

func TestResolveUserKeyPrefersHeaderThenForwardedForThenRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if got := resolveUserKey(req); got != "10.0.0.1:1234" {
		t.Fatalf("expected remote addr fallback, got %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := resolveUserKey(req); got != "203.0.113.5" {
		t.Fatalf("expected first forwarded address, got %q", got)
	}

	req.Header.Set("X-User-Key", "explicit-user")
	if got := resolveUserKey(req); got != "explicit-user" {
		t.Fatalf("expected explicit header to win, got %q", got)
	}
}
