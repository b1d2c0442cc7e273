package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"podops/internal/core/domain"
	"podops/internal/core/port"
	"podops/internal/metrics"
)

// resultTTL is how long transition results stay replayable in the
// idempotency cache.
const resultTTL = time.Hour

// StageEngine orchestrates the probability-weighted sales pipeline. As a
// campaign's win-probability crosses the defined threshold bands it runs the
// one-time setup handler for each newly crossed band in ascending order,
// persists the new stage under a row lock and fans out notification events.
//
// Band handlers call collaborator services outside the campaign row
// transaction, so a cascade aborted midway can leave earlier collaborator
// writes in place. Collaborator operations are idempotent, giving the engine
// at-least-once side-effect semantics rather than all-or-nothing rollback.
type StageEngine struct {
	campaigns port.CampaignRepository
	settings  port.SettingsRepository
	schedules port.ScheduleRepository
	orders    port.OrderRepository
	inventory port.InventoryService
	approvals port.ApprovalService
	conflicts port.ConflictChecker
	contracts port.ContractService
	billing   port.BillingService
	cache     port.IdempotencyCache
	publisher port.EventPublisher
	metrics   metrics.Metrics
	logger    *slog.Logger
	now       func() time.Time
}

// Deps bundles the collaborators the engine is built from. Metrics and
// Logger may be nil; the rest are required.
type Deps struct {
	Campaigns port.CampaignRepository
	Settings  port.SettingsRepository
	Schedules port.ScheduleRepository
	Orders    port.OrderRepository
	Inventory port.InventoryService
	Approvals port.ApprovalService
	Conflicts port.ConflictChecker
	Contracts port.ContractService
	Billing   port.BillingService
	Cache     port.IdempotencyCache
	Publisher port.EventPublisher
	Metrics   metrics.Metrics
	Logger    *slog.Logger
}

// NewStageEngine creates the engine from its dependencies.
func NewStageEngine(d Deps) *StageEngine {
	if d.Metrics == nil {
		d.Metrics = metrics.Nop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &StageEngine{
		campaigns: d.Campaigns,
		settings:  d.Settings,
		schedules: d.Schedules,
		orders:    d.Orders,
		inventory: d.Inventory,
		approvals: d.Approvals,
		conflicts: d.Conflicts,
		contracts: d.Contracts,
		billing:   d.Billing,
		cache:     d.Cache,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		logger:    d.Logger,
		now:       time.Now,
	}
}

// TransitionToStage advances a campaign to the target stage. Failures are
// folded into the result's Errors slice; the method never returns an error
// itself. Callers must inspect Success.
func (e *StageEngine) TransitionToStage(ctx context.Context, req port.TransitionRequest) *domain.TransitionResult {
	res := &domain.TransitionResult{}
	if req.TargetStage < 0 || req.TargetStage > 100 {
		return e.fail(res, fmt.Sprintf("target stage %d out of range 0-100", req.TargetStage))
	}

	key := req.IdempotencyKey
	if key == "" {
		// A synthesized key is unique per call: it keeps cache entries from
		// colliding but cannot deduplicate caller-less retries. Callers that
		// want real replay protection must supply a stable key.
		key = fmt.Sprintf("%s:%d:%s", req.CampaignID, req.TargetStage, uuid.NewString())
	}
	if cached, found, err := e.cache.Get(ctx, key); err != nil {
		e.logger.Warn("idempotency cache read failed",
			slog.String("key", key), slog.Any("error", err))
	} else if found {
		e.metrics.IdempotentReplay()
		return cached
	}

	settings, err := e.settings.WorkflowAutomation(ctx, req.OrganizationID)
	if err != nil {
		return e.finish(ctx, key, e.fail(res, "load workflow settings: "+err.Error()))
	}

	tenant := domain.Tenant{OrganizationID: req.OrganizationID, Schema: req.SchemaName}
	err = e.campaigns.WithCampaignLock(ctx, tenant, req.CampaignID,
		func(ctx context.Context, c *domain.Campaign, store port.CampaignStore) error {
			res.PreviousStage = c.Probability
			res.CurrentStage = c.Probability

			if req.TargetStage < c.Probability && !req.Force {
				return fmt.Errorf("%w: target %d is behind current probability %d",
					port.ErrBackwardTransition, req.TargetStage, c.Probability)
			}

			bc := &bandContext{
				tenant:   tenant,
				campaign: c,
				settings: settings,
				userID:   req.UserID,
				result:   res,
				now:      e.now,
			}
			for _, b := range e.bands() {
				// A band fires once: when the target reaches it and the
				// current probability has not already passed it. Forced
				// backward moves therefore skip every band.
				if req.TargetStage < b.threshold || c.Probability >= b.threshold {
					continue
				}
				if !b.enabled(settings) {
					continue
				}
				if err := b.run(ctx, bc); err != nil {
					return err
				}
			}

			if err := store.SaveStage(ctx, c.ID, req.TargetStage, c.Status); err != nil {
				return fmt.Errorf("persist stage: %w", err)
			}
			c.Probability = req.TargetStage
			res.CurrentStage = req.TargetStage
			return nil
		})
	if err != nil {
		if errors.Is(err, port.ErrCampaignNotFound) {
			return e.finish(ctx, key, e.fail(res, "Campaign not found"))
		}
		return e.finish(ctx, key, e.fail(res, err.Error()))
	}

	res.Success = true
	e.metrics.TransitionCompleted("success")
	for _, se := range res.SideEffects {
		e.metrics.SideEffect(string(se.Action))
	}
	e.publishEvents(ctx, req, res)
	return e.finish(ctx, key, res)
}

// fail marks the result unsuccessful and records the failure.
func (e *StageEngine) fail(res *domain.TransitionResult, msg string) *domain.TransitionResult {
	res.Success = false
	res.Errors = append(res.Errors, msg)
	e.metrics.TransitionCompleted("failure")
	return res
}

// finish stores the result under the idempotency key before returning it.
// Both outcomes are cached so a replayed key returns the identical result.
func (e *StageEngine) finish(ctx context.Context, key string, res *domain.TransitionResult) *domain.TransitionResult {
	if err := e.cache.Set(ctx, key, res, resultTTL); err != nil {
		e.logger.Warn("idempotency cache write failed",
			slog.String("key", key), slog.Any("error", err))
	}
	return res
}

// publishEvents emits the generic stage-changed event plus one event per
// recognized side-effect action. Publish failures are logged only.
func (e *StageEngine) publishEvents(ctx context.Context, req port.TransitionRequest, res *domain.TransitionResult) {
	events := []domain.Event{{
		Type:           domain.EventStageChanged,
		OrganizationID: req.OrganizationID,
		CampaignID:     req.CampaignID,
		ActorID:        req.UserID,
		OccurredAt:     e.now(),
		Data: map[string]any{
			"previousStage": res.PreviousStage,
			"currentStage":  res.CurrentStage,
		},
	}}
	for _, se := range res.SideEffects {
		var t domain.EventType
		switch se.Action {
		case domain.ActionTalentApprovalRequest:
			t = domain.EventTalentApprovalRequested
		case domain.ActionInventoryReserved:
			t = domain.EventInventoryReserved
		case domain.ActionContractGenerated:
			t = domain.EventContractGenerated
		default:
			continue
		}
		events = append(events, domain.Event{
			Type:           t,
			OrganizationID: req.OrganizationID,
			CampaignID:     req.CampaignID,
			ActorID:        req.UserID,
			OccurredAt:     e.now(),
			Data:           se.Data,
		})
	}
	for _, evt := range events {
		if err := e.publisher.Publish(ctx, evt); err != nil {
			e.logger.Warn("notification publish failed",
				slog.String("event", string(evt.Type)),
				slog.String("campaign_id", evt.CampaignID),
				slog.Any("error", err))
		}
	}
}

var _ port.StageEngine = (*StageEngine)(nil)
