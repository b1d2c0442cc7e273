package domain

import "time"

// CampaignStatus is the lifecycle state of a campaign. Status is derived from
// probability-band transitions; it is never set independently by normal flow.
type CampaignStatus string

const (
	StatusDraft          CampaignStatus = "draft"
	StatusActivePresale  CampaignStatus = "active_presale"
	StatusInReservations CampaignStatus = "in_reservations"
	StatusNeedsRevision  CampaignStatus = "needs_revision"
	StatusApproved       CampaignStatus = "approved"
)

// Campaign represents a podcast-advertising sales opportunity under
// negotiation. Probability is the pipeline stage (0-100) and is monotonically
// non-decreasing except through the explicit rejection path. Monetary values
// are stored in integer units (e.g. cents).
type Campaign struct {
	ID             string
	OrganizationID string
	AdvertiserID   string
	AgencyID       *string
	CategoryID     *string // used for exclusivity checks; optional
	Name           string
	Probability    int
	Status         CampaignStatus
	TotalValue     int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Tenant identifies an organization and the database schema its rows live in.
// Every repository operation is scoped to a tenant.
type Tenant struct {
	OrganizationID string
	Schema         string
}
