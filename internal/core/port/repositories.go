package port

import (
	"context"
	"errors"

	"podops/internal/core/domain"
)

var (
	// ErrCampaignNotFound is returned when a campaign id does not resolve in
	// the tenant schema.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrBackwardTransition is returned for a target stage below the current
	// probability without the force flag.
	ErrBackwardTransition = errors.New("backward transition requires force")

	// ErrExclusivityBlocked aborts a cascade when a category conflict exists
	// under the BLOCK policy.
	ErrExclusivityBlocked = errors.New("category exclusivity conflict")
)

// CampaignStore exposes the single authoritative mutation of pipeline
// position, executed inside the row-lock transaction opened by
// WithCampaignLock.
type CampaignStore interface {
	// SaveStage persists probability, status and updated_at for the campaign.
	SaveStage(ctx context.Context, campaignID string, probability int, status domain.CampaignStatus) error
}

// CampaignRepository is the outbound port for campaign persistence. It is an
// infrastructure concern: the engine only needs "read with lock" and "update
// stage" as named operations, scoped to a tenant.
type CampaignRepository interface {
	// WithCampaignLock loads the campaign under a pessimistic row lock
	// (SELECT ... FOR UPDATE) in the tenant schema and runs fn while the
	// lock is held, serializing concurrent transitions on the same campaign.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Returns ErrCampaignNotFound when no row matches.
	WithCampaignLock(ctx context.Context, tenant domain.Tenant, campaignID string,
		fn func(ctx context.Context, c *domain.Campaign, store CampaignStore) error) error

	// GetCampaign returns the campaign without locking, or nil when absent.
	GetCampaign(ctx context.Context, tenant domain.Tenant, campaignID string) (*domain.Campaign, error)
}

// SettingsRepository loads the per-organization workflow-automation
// configuration. Organizations without a stored document get defaults.
type SettingsRepository interface {
	WorkflowAutomation(ctx context.Context, organizationID string) (domain.WorkflowSettings, error)
}

// ScheduleRepository reads a campaign's placement plan. The engine never
// mutates schedules beyond the validation mark and the rate snapshot.
type ScheduleRepository interface {
	// Latest returns the campaign's most recent schedule with its line
	// items, or a nil schedule when none exists.
	Latest(ctx context.Context, tenant domain.Tenant, campaignID string) (*domain.Schedule, []domain.ScheduleItem, error)

	// SnapshotRates records a baseline-rate snapshot for the given items and
	// returns the number of rows captured. Re-snapshotting the same items is
	// a no-op, keeping the 35% band idempotent.
	SnapshotRates(ctx context.Context, tenant domain.Tenant, scheduleID string, items []domain.ScheduleItem) (int, error)

	// MarkValidated stamps the schedule as validated.
	MarkValidated(ctx context.Context, tenant domain.Tenant, scheduleID string) error

	// DistinctSpotTypes returns the set of spot types scheduled for the
	// campaign.
	DistinctSpotTypes(ctx context.Context, tenant domain.Tenant, campaignID string) ([]domain.SpotType, error)

	// DistinctShows returns the shows appearing on the campaign's schedule.
	DistinctShows(ctx context.Context, tenant domain.Tenant, campaignID string) ([]domain.ShowRef, error)
}

// OrderRepository creates the commercial records generated at the 100% band.
type OrderRepository interface {
	// CreateFromCampaign inserts an order denormalizing advertiser, agency
	// and total from the campaign at creation time and returns its id.
	CreateFromCampaign(ctx context.Context, tenant domain.Tenant, c *domain.Campaign, userID string) (string, error)

	// CreateAdRequests generates one ad-request work item per distinct show
	// and returns how many were created.
	CreateAdRequests(ctx context.Context, tenant domain.Tenant, orderID, campaignID string, shows []domain.ShowRef) (int, error)
}
