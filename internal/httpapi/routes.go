package httpapi

import (
	"net/http"

	"narrator/internal/orchestrator"
	"narrator/internal/taste"
)

// NewMux wires every route onto a fresh *http.ServeMux, grounded on the
// the prior internal/gateway/server/routes.go NewMux shape, replacing
// its Connect-RPC service registrations with plain JSON handlers.
func NewMux(orch *orchestrator.Orchestrator, tasteStore *taste.Store, allowedOrigins []string) http.Handler {
	h := &Handlers{Orchestrator: orch, Taste: tasteStore}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /api/story-both", h.storyBoth)
	mux.HandleFunc("POST /api/taste/set", h.tasteSet)
	mux.HandleFunc("POST /api/taste/feedback", h.tasteFeedback)

	return CORS(allowedOrigins, mux)
}
