package domain

import "time"

// Order is created once, at the 100% band, derived 1:1 from the campaign.
// Advertiser, agency and total are denormalized at creation time: a snapshot,
// not a live reference.
type Order struct {
	ID           string
	CampaignID   string
	AdvertiserID string
	AgencyID     *string
	TotalValue   int64
	Status       string
	CreatedBy    string
	CreatedAt    time.Time
}

// AdRequest is a per-show work item generated at finalization to drive
// production of the actual ad read or insert.
type AdRequest struct {
	ID         string
	OrderID    string
	CampaignID string
	ShowID     string
	ShowName   string
	Status     string
	CreatedAt  time.Time
}

// Reservation is a hold placed against ad-slot capacity for a campaign,
// provisional and time-bounded by the tenant's reservation TTL.
type Reservation struct {
	ID         string
	CampaignID string
	ExpiresAt  time.Time
	Status     string
	CreatedAt  time.Time
}

// CategoryConflict describes another booking that would violate category
// exclusivity for a campaign crossing the 65% band.
type CategoryConflict struct {
	CampaignID   string
	CampaignName string
	AdvertiserID string
}
