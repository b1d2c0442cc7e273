package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"log/slog"

	"podops/internal/core/port"
)

// Handler contains dependencies and routes. It is an inbound adapter for
// HTTP. It holds the stage engine for transition operations, a campaign
// repository for reads and a logger for structured logging. Routes are
// registered on a chi.Router for convenient method handling.
type Handler struct {
	engine    port.StageEngine
	campaigns port.CampaignRepository
	logger    *slog.Logger
	router    chi.Router
}

// NewHandler creates a handler with all routes configured. It accepts the
// engine and repository implementations and a logger. The returned Handler
// registers handlers for each endpoint on a new chi.Router.
func NewHandler(engine port.StageEngine, campaigns port.CampaignRepository, logger *slog.Logger) *Handler {
	h := &Handler{engine: engine, campaigns: campaigns, logger: logger}
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/campaigns/{id}/transition", h.handleTransition)
		r.Post("/campaigns/{id}/reject", h.handleReject)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}
