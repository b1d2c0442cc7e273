package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"podops/internal/core/port"
)

// transitionRequest is the JSON body for POST /campaigns/{id}/transition.
type transitionRequest struct {
	TargetStage    int    `json:"targetStage"`
	OrganizationID string `json:"organizationId"`
	SchemaName     string `json:"schemaName"`
	UserID         string `json:"userId"`
	IdempotencyKey string `json:"idempotencyKey,omitempty"`
	Force          bool   `json:"force,omitempty"`
}

// handleTransition advances a campaign through the pipeline. Malformed input
// produces HTTP 400. Business failures (backward move, conflicts, missing
// campaign) are HTTP 200 with success:false in the body; clients inspect the
// result, not the status code.
func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	var body transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.OrganizationID == "" || body.SchemaName == "" || body.UserID == "" {
		http.Error(w, "organizationId, schemaName and userId are required", http.StatusBadRequest)
		return
	}

	res := h.engine.TransitionToStage(r.Context(), port.TransitionRequest{
		CampaignID:     campaignID,
		TargetStage:    body.TargetStage,
		OrganizationID: body.OrganizationID,
		SchemaName:     body.SchemaName,
		UserID:         body.UserID,
		IdempotencyKey: body.IdempotencyKey,
		Force:          body.Force,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}

// rejectRequest is the JSON body for POST /campaigns/{id}/reject.
type rejectRequest struct {
	OrganizationID string `json:"organizationId"`
	SchemaName     string `json:"schemaName"`
	UserID         string `json:"userId"`
}

// handleReject pulls a campaign back from the 90% band, releasing its
// inventory reservations.
func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	var body rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if body.OrganizationID == "" || body.SchemaName == "" || body.UserID == "" {
		http.Error(w, "organizationId, schemaName and userId are required", http.StatusBadRequest)
		return
	}

	res := h.engine.RejectAt90Percent(r.Context(), port.RejectRequest{
		CampaignID:     campaignID,
		OrganizationID: body.OrganizationID,
		SchemaName:     body.SchemaName,
		UserID:         body.UserID,
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(res); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
