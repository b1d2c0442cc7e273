package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// rejectFloor is where a rejected campaign lands: back below the reservation
// band, ready to re-enter forward flow after revision.
const rejectFloor = 65

// RejectAt90Percent is the single legal backward edge of the pipeline. It
// releases every active inventory reservation held for the campaign and
// force-sets probability 65 with status needs_revision. Errors are folded
// into the result; no partial-release retry logic exists.
func (e *StageEngine) RejectAt90Percent(ctx context.Context, req port.RejectRequest) *domain.TransitionResult {
	res := &domain.TransitionResult{}
	tenant := domain.Tenant{OrganizationID: req.OrganizationID, Schema: req.SchemaName}

	err := e.campaigns.WithCampaignLock(ctx, tenant, req.CampaignID,
		func(ctx context.Context, c *domain.Campaign, store port.CampaignStore) error {
			res.PreviousStage = c.Probability
			res.CurrentStage = c.Probability

			released, err := e.inventory.Release(ctx, tenant, c.ID)
			if err != nil {
				return fmt.Errorf("release inventory: %w", err)
			}
			res.AddSideEffect(domain.ActionInventoryReleased,
				fmt.Sprintf("%d reservation(s) released", released), e.now(),
				map[string]any{"released": released})

			c.Status = domain.StatusNeedsRevision
			if err := store.SaveStage(ctx, c.ID, rejectFloor, c.Status); err != nil {
				return fmt.Errorf("persist stage: %w", err)
			}
			c.Probability = rejectFloor
			res.CurrentStage = rejectFloor
			res.AddSideEffect(domain.ActionStatusChanged,
				"campaign returned to 65% for revision", e.now(), nil)
			return nil
		})
	if err != nil {
		if errors.Is(err, port.ErrCampaignNotFound) {
			return e.fail(res, "Campaign not found")
		}
		return e.fail(res, err.Error())
	}

	res.Success = true
	e.metrics.TransitionCompleted("success")
	for _, se := range res.SideEffects {
		e.metrics.SideEffect(string(se.Action))
	}
	evt := domain.Event{
		Type:           domain.EventStageChanged,
		OrganizationID: req.OrganizationID,
		CampaignID:     req.CampaignID,
		ActorID:        req.UserID,
		OccurredAt:     e.now(),
		Data: map[string]any{
			"previousStage": res.PreviousStage,
			"currentStage":  res.CurrentStage,
			"rejected":      true,
		},
	}
	if err := e.publisher.Publish(ctx, evt); err != nil {
		e.logger.Warn("notification publish failed",
			slog.String("event", string(evt.Type)),
			slog.String("campaign_id", evt.CampaignID),
			slog.Any("error", err))
	}
	return res
}
