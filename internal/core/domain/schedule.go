package domain

import "time"

// SpotType classifies how an ad is delivered within an episode.
type SpotType string

const (
	SpotHostRead    SpotType = "host_read"
	SpotEndorsement SpotType = "endorsement"
	SpotProduced    SpotType = "produced"
)

// Schedule is a campaign's proposed placement plan. The 35% band reads the
// most recent schedule to snapshot baseline rates; schedules are never
// mutated by the engine beyond the validation mark.
type Schedule struct {
	ID          string
	CampaignID  string
	ValidatedAt *time.Time
	CreatedAt   time.Time
}

// ScheduleItem is a single placement line carrying the rate-card price and
// the negotiated price, both in integer units.
type ScheduleItem struct {
	ID              string
	ScheduleID      string
	ShowID          string
	ShowName        string
	SpotType        SpotType
	RateCardPrice   int64
	NegotiatedPrice int64
	AirDate         time.Time
}

// RateSnapshot is the baseline-rate record captured when a campaign crosses
// the 35% band, used for later delta tracking against renegotiated prices.
type RateSnapshot struct {
	ID              string
	ScheduleItemID  string
	RateCardPrice   int64
	NegotiatedPrice int64
	SpotType        SpotType
	CapturedAt      time.Time
}

// ShowRef identifies a show that appears on a campaign's schedule. One ad
// request is generated per distinct show at finalization.
type ShowRef struct {
	ID   string
	Name string
}
