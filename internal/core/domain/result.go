package domain

import "time"

// SideEffectAction tags an entry in a transition's side-effect log.
type SideEffectAction string

const (
	ActionPresaleActivated       SideEffectAction = "PRESALE_ACTIVATED"
	ActionScheduleValidated      SideEffectAction = "SCHEDULE_VALIDATED"
	ActionNoValidSchedule        SideEffectAction = "NO_VALID_SCHEDULE"
	ActionTalentApprovalRequest  SideEffectAction = "TALENT_APPROVAL_REQUESTED"
	ActionExclusivityWarning     SideEffectAction = "EXCLUSIVITY_WARNING"
	ActionInventoryReserved      SideEffectAction = "INVENTORY_RESERVED"
	ActionInventoryReleased      SideEffectAction = "INVENTORY_RELEASED"
	ActionOrderCreated           SideEffectAction = "ORDER_CREATED"
	ActionAdRequestsCreated      SideEffectAction = "AD_REQUESTS_CREATED"
	ActionContractGenerated      SideEffectAction = "CONTRACT_GENERATED"
	ActionBillingScheduleCreated SideEffectAction = "BILLING_SCHEDULE_CREATED"
	ActionStatusChanged          SideEffectAction = "STATUS_CHANGED"
)

// SideEffect is one entry in the append-only log of everything a transition
// caused. Data carries action-specific fields (reservation ids, order id,
// conflict counts and the like).
type SideEffect struct {
	Action      SideEffectAction `json:"action"`
	Description string           `json:"description"`
	Timestamp   time.Time        `json:"timestamp"`
	Data        map[string]any   `json:"data,omitempty"`
}

// TransitionResult is the stage engine's return value and audit record.
// A non-empty Errors slice implies Success is false. When Success is true,
// CurrentStage equals the requested target stage and matches the persisted
// campaign probability.
type TransitionResult struct {
	Success       bool         `json:"success"`
	PreviousStage int          `json:"previousStage"`
	CurrentStage  int          `json:"currentStage"`
	SideEffects   []SideEffect `json:"sideEffects"`
	Errors        []string     `json:"errors"`
}

// AddSideEffect appends a tagged entry to the side-effect log.
func (r *TransitionResult) AddSideEffect(action SideEffectAction, description string, at time.Time, data map[string]any) {
	r.SideEffects = append(r.SideEffects, SideEffect{
		Action:      action,
		Description: description,
		Timestamp:   at,
		Data:        data,
	})
}

// HasSideEffect reports whether the log contains an entry with the action.
func (r *TransitionResult) HasSideEffect(action SideEffectAction) bool {
	for _, se := range r.SideEffects {
		if se.Action == action {
			return true
		}
	}
	return false
}
