package port

import (
	"context"

	"podops/internal/core/domain"
)

// TransitionRequest carries everything needed to advance a campaign through
// the pipeline. IdempotencyKey is optional: when empty, the engine
// synthesizes one, which defangs deduplication for caller-less retries —
// callers that want true idempotency must supply their own stable key.
// Force permits a backward move; it is the only way to lower probability
// outside the rejection path.
type TransitionRequest struct {
	CampaignID     string
	TargetStage    int
	OrganizationID string
	SchemaName     string
	UserID         string
	IdempotencyKey string
	Force          bool
}

// RejectRequest identifies a campaign to pull back from the 90% band.
type RejectRequest struct {
	CampaignID     string
	OrganizationID string
	SchemaName     string
	UserID         string
}

// StageEngine is the primary inbound port: the probability-weighted pipeline
// orchestrator. Both operations fold every failure into the result's Errors
// slice rather than returning an error; callers must inspect Success.
type StageEngine interface {
	// TransitionToStage advances (or, with force, moves) a campaign to the
	// target stage, running the one-time setup handler for every newly
	// crossed threshold band in ascending order.
	TransitionToStage(ctx context.Context, req TransitionRequest) *domain.TransitionResult

	// RejectAt90Percent releases all inventory reservations held for the
	// campaign and force-sets probability 65 with status needs_revision.
	// This is the single legal backward edge in the pipeline.
	RejectAt90Percent(ctx context.Context, req RejectRequest) *domain.TransitionResult
}
