package domain

// ExclusivityPolicy controls how category conflicts are treated when a
// campaign crosses the 65% band.
type ExclusivityPolicy string

const (
	// PolicyBlock aborts the transition when a conflicting booking exists.
	PolicyBlock ExclusivityPolicy = "BLOCK"
	// PolicyWarn records a warning side effect and lets the transition proceed.
	PolicyWarn ExclusivityPolicy = "WARN"
)

// DefaultReservationTTLHours is used when an organization has not configured
// an inventory reservation window.
const DefaultReservationTTLHours = 72

// WorkflowSettings is the per-organization workflow-automation configuration
// consumed read-only by the stage engine. JSON tags match the stored
// configuration document.
type WorkflowSettings struct {
	AutoStages struct {
		At10  bool `json:"at10"`
		At35  bool `json:"at35"`
		At65  bool `json:"at65"`
		At90  bool `json:"at90"`
		At100 bool `json:"at100"`
	} `json:"autoStages"`
	Exclusivity struct {
		Policy ExclusivityPolicy `json:"policy"`
	} `json:"exclusivity"`
	Inventory struct {
		ReserveAt90         bool `json:"reserveAt90"`
		ReservationTTLHours int  `json:"reservationTtlHours"`
	} `json:"inventory"`
	TalentApprovals struct {
		HostRead bool `json:"hostRead"`
		Endorsed bool `json:"endorsed"`
	} `json:"talentApprovals"`
	Contracts struct {
		AutoGenerate    bool   `json:"autoGenerate"`
		EmailTemplateID string `json:"emailTemplateId"`
	} `json:"contracts"`
	Billing struct {
		InvoiceDayOfMonth  int    `json:"invoiceDayOfMonth"`
		Timezone           string `json:"timezone"`
		PrebillWhenNoTerms bool   `json:"prebillWhenNoTerms"`
	} `json:"billing"`
}

// DefaultWorkflowSettings returns the configuration applied to organizations
// that have not stored one: every band enabled, warn-only exclusivity and a
// 72 hour reservation window.
func DefaultWorkflowSettings() WorkflowSettings {
	var s WorkflowSettings
	s.AutoStages.At10 = true
	s.AutoStages.At35 = true
	s.AutoStages.At65 = true
	s.AutoStages.At90 = true
	s.AutoStages.At100 = true
	s.Exclusivity.Policy = PolicyWarn
	s.Inventory.ReserveAt90 = true
	s.Inventory.ReservationTTLHours = DefaultReservationTTLHours
	s.TalentApprovals.HostRead = true
	s.TalentApprovals.Endorsed = true
	s.Billing.Timezone = "UTC"
	return s
}
