package port

import (
	"context"
	"time"

	"podops/internal/core/domain"
)

// InventoryService reserves and releases ad-slot inventory for a campaign.
// Implementations must guarantee a reservation is either fully visible to
// availability queries or not created at all; no partial holds.
type InventoryService interface {
	// Reserve places TTL-bounded holds for the campaign and returns the
	// reservation ids.
	Reserve(ctx context.Context, tenant domain.Tenant, campaignID string, ttl time.Duration) ([]string, error)

	// Release frees every active hold for the campaign and returns the count
	// released.
	Release(ctx context.Context, tenant domain.Tenant, campaignID string) (int, error)
}

// TalentApprovalRequest opens an async sign-off workflow for host-read or
// endorsed spot types.
type TalentApprovalRequest struct {
	CampaignID  string
	RequestedBy string
	SpotTypes   []domain.SpotType
}

// ApprovalService creates talent approval requests. Fire-and-forget relative
// to the stage engine: approval completion never blocks stage advancement.
type ApprovalService interface {
	CreateTalentApproval(ctx context.Context, tenant domain.Tenant, req TalentApprovalRequest) (string, error)
}

// ConflictChecker finds bookings that would violate category exclusivity.
// Pure read; safe to call repeatedly.
type ConflictChecker interface {
	CategoryConflicts(ctx context.Context, tenant domain.Tenant, campaignID, categoryID string) ([]domain.CategoryConflict, error)
}

// GenerateContractRequest renders a contract document from a template and
// order data.
type GenerateContractRequest struct {
	OrderID    string
	TemplateID string
	UserID     string
}

// ContractService substitutes template variables from order data and persists
// a draft-status contract document.
type ContractService interface {
	Generate(ctx context.Context, tenant domain.Tenant, req GenerateContractRequest) (string, error)
}

// BillingScheduleRequest configures a recurring invoice schedule for an order.
type BillingScheduleRequest struct {
	OrderID            string
	DayOfMonth         int
	Timezone           string
	PrebillWhenNoTerms bool
	UserID             string
}

// BillingService creates recurring invoice schedules.
type BillingService interface {
	CreateSchedule(ctx context.Context, tenant domain.Tenant, req BillingScheduleRequest) (string, error)
}
