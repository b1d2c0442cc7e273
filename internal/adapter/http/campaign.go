package httpadapter

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"podops/internal/core/domain"
)

// campaignResponse is the JSON representation of a campaign returned by the
// read endpoint.
type campaignResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	AdvertiserID string    `json:"advertiserId"`
	AgencyID     *string   `json:"agencyId,omitempty"`
	CategoryID   *string   `json:"categoryId,omitempty"`
	Probability  int       `json:"probability"`
	Status       string    `json:"status"`
	TotalValue   int64     `json:"totalValue"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// handleGetCampaign returns a campaign by id. The tenant is identified by the
// `org` and `schema` query parameters. Unknown ids produce HTTP 404.
func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	campaignID := chi.URLParam(r, "id")
	q := r.URL.Query()
	org, schema := q.Get("org"), q.Get("schema")
	if org == "" || schema == "" {
		http.Error(w, "org and schema query parameters are required", http.StatusBadRequest)
		return
	}

	c, err := h.campaigns.GetCampaign(r.Context(), domain.Tenant{OrganizationID: org, Schema: schema}, campaignID)
	if err != nil {
		h.logger.Error("get campaign error", slog.Any("error", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if c == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err = json.NewEncoder(w).Encode(campaignResponse{
		ID:           c.ID,
		Name:         c.Name,
		AdvertiserID: c.AdvertiserID,
		AgencyID:     c.AgencyID,
		CategoryID:   c.CategoryID,
		Probability:  c.Probability,
		Status:       string(c.Status),
		TotalValue:   c.TotalValue,
		UpdatedAt:    c.UpdatedAt,
	}); err != nil {
		h.logger.Error("encode response error", slog.Any("error", err))
	}
}
