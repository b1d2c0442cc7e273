package domain

import "time"

// EventType names an outbound notification event emitted after a transition
// persists.
type EventType string

const (
	EventStageChanged            EventType = "campaign.stage_changed"
	EventTalentApprovalRequested EventType = "campaign.talent_approval_requested"
	EventInventoryReserved       EventType = "campaign.inventory_reserved"
	EventContractGenerated       EventType = "campaign.contract_generated"
)

// Event is a domain event handed to the notification publisher. Delivery is
// fire-and-forget relative to the transition: publish failures never roll the
// transition back.
type Event struct {
	Type           EventType      `json:"type"`
	OrganizationID string         `json:"organizationId"`
	CampaignID     string         `json:"campaignId"`
	ActorID        string         `json:"actorId"`
	OccurredAt     time.Time      `json:"occurredAt"`
	Data           map[string]any `json:"data,omitempty"`
}
