package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

func TestBackwardTransitionRejected(t *testing.T) {
	c := draftCampaign("c1")
	c.Probability = 50
	c.Status = domain.StatusActivePresale
	f := newFixture(t, c)

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 35))

	require.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "backward transition requires force")
	assert.Empty(t, f.campaigns.saved, "no stage write on a rejected transition")
	assert.Equal(t, 50, c.Probability)
	assert.Equal(t, 50, res.CurrentStage)
}

func TestFullCascadeFromZero(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 100))

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Equal(t, 0, res.PreviousStage)
	assert.Equal(t, 100, res.CurrentStage)
	assert.Equal(t, []domain.SideEffectAction{
		domain.ActionPresaleActivated,
		domain.ActionScheduleValidated,
		domain.ActionTalentApprovalRequest,
		domain.ActionInventoryReserved,
		domain.ActionOrderCreated,
		domain.ActionAdRequestsCreated,
	}, actions(res))

	require.Len(t, f.campaigns.saved, 1)
	assert.Equal(t, 100, f.campaigns.saved[0].probability)
	assert.Equal(t, domain.StatusApproved, f.campaigns.saved[0].status)
	assert.Equal(t, 1, f.orders.orders)
	assert.Equal(t, 2, f.orders.adRequests)
	// Default settings do not auto-generate contracts or billing schedules.
	assert.Zero(t, f.contracts.generated)
	assert.Zero(t, f.billing.created)

	// Generic stage-changed event plus one per recognized side effect.
	require.Len(t, f.publisher.events, 3)
	assert.Equal(t, domain.EventStageChanged, f.publisher.events[0].Type)
	assert.Equal(t, domain.EventTalentApprovalRequested, f.publisher.events[1].Type)
	assert.Equal(t, domain.EventInventoryReserved, f.publisher.events[2].Type)
}

func TestFinalizeWithContractAndBilling(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	f.settings.settings.Contracts.AutoGenerate = true
	f.settings.settings.Contracts.EmailTemplateID = "tmpl-1"
	f.settings.settings.Billing.InvoiceDayOfMonth = 15

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 100))

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.True(t, res.HasSideEffect(domain.ActionContractGenerated))
	assert.True(t, res.HasSideEffect(domain.ActionBillingScheduleCreated))
	assert.Equal(t, 1, f.contracts.generated)
	assert.Equal(t, 1, f.billing.created)
}

func TestCampaignNotFound(t *testing.T) {
	f := newFixture(t)

	res := f.engine.TransitionToStage(context.Background(), transitionReq("missing", 35))

	require.False(t, res.Success)
	assert.Equal(t, []string{"Campaign not found"}, res.Errors)
	assert.Empty(t, res.SideEffects)
}

func TestTargetStageOutOfRange(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 120))

	require.False(t, res.Success)
	assert.Contains(t, res.Errors[0], "out of range")
	assert.Zero(t, f.campaigns.lockCalls)
}

func TestIdempotentReplay(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	req := transitionReq("c1", 90)
	req.IdempotencyKey = "key-1"

	first := f.engine.TransitionToStage(context.Background(), req)
	second := f.engine.TransitionToStage(context.Background(), req)

	require.True(t, first.Success)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.inventory.reserveCalls, "replay must not re-reserve inventory")
	assert.Len(t, f.campaigns.saved, 1)
	assert.Equal(t, 1, f.campaigns.lockCalls)
}

func TestFailedResultIsCachedToo(t *testing.T) {
	f := newFixture(t)
	req := transitionReq("missing", 50)
	req.IdempotencyKey = "key-2"

	first := f.engine.TransitionToStage(context.Background(), req)
	second := f.engine.TransitionToStage(context.Background(), req)

	require.False(t, first.Success)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.campaigns.lockCalls)
}

func TestExclusivityBlockAbortsTransition(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	f.settings.settings.Exclusivity.Policy = domain.PolicyBlock
	f.conflicts.conflicts = []domain.CategoryConflict{
		{CampaignID: "c9", CampaignName: "Rival Fintech Push", AdvertiserID: "adv-9"},
	}

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 70))

	require.False(t, res.Success)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "category exclusivity conflict")
	assert.Contains(t, res.Errors[0], "Rival Fintech Push")
	assert.Empty(t, f.campaigns.saved, "aborted cascade must not persist the stage")
	assert.Equal(t, 0, f.campaigns.campaigns["c1"].Probability)
	// Earlier handlers in the same call already committed their writes;
	// at-least-once semantics, not all-or-nothing.
	assert.Len(t, f.approvals.created, 1)
	assert.Zero(t, f.inventory.reserveCalls)
}

func TestExclusivityWarnContinues(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	f.settings.settings.Exclusivity.Policy = domain.PolicyWarn
	f.conflicts.conflicts = []domain.CategoryConflict{
		{CampaignID: "c9", CampaignName: "Rival Fintech Push", AdvertiserID: "adv-9"},
	}

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 70))

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.True(t, res.HasSideEffect(domain.ActionExclusivityWarning))
	assert.Equal(t, 70, f.campaigns.campaigns["c1"].Probability)
}

func TestNoCategorySkipsConflictCheck(t *testing.T) {
	c := draftCampaign("c1")
	c.CategoryID = nil
	f := newFixture(t, c)
	f.settings.settings.Exclusivity.Policy = domain.PolicyBlock

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 70))

	require.True(t, res.Success)
	assert.Zero(t, f.conflicts.calls)
}

func TestDisabledBandIsSkipped(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	f.settings.settings.AutoStages.At90 = false

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 95))

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.False(t, res.HasSideEffect(domain.ActionInventoryReserved))
	assert.True(t, res.HasSideEffect(domain.ActionPresaleActivated))
	assert.True(t, res.HasSideEffect(domain.ActionScheduleValidated))
	assert.True(t, res.HasSideEffect(domain.ActionTalentApprovalRequest))
	require.Len(t, f.campaigns.saved, 1)
	assert.Equal(t, 95, f.campaigns.saved[0].probability)
}

func TestNoScheduleItemsDoesNotFail(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	f.schedules.schedule = nil
	f.schedules.items = nil

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 40))

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.True(t, res.HasSideEffect(domain.ActionNoValidSchedule))
	assert.False(t, res.HasSideEffect(domain.ActionScheduleValidated))
	assert.Zero(t, f.schedules.snapshots)
}

func TestForcedBackwardSkipsHandlers(t *testing.T) {
	c := draftCampaign("c1")
	c.Probability = 65
	c.Status = domain.StatusActivePresale
	f := newFixture(t, c)

	req := transitionReq("c1", 35)
	req.Force = true
	res := f.engine.TransitionToStage(context.Background(), req)

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Equal(t, 35, res.CurrentStage)
	assert.Empty(t, res.SideEffects, "no band fires on a forced backward move")
	assert.Zero(t, f.schedules.snapshots)
	assert.Equal(t, 35, c.Probability)

	// Moving forward again re-crosses 65: the one-time setup runs against
	// the now-lower persisted probability.
	res = f.engine.TransitionToStage(context.Background(), transitionReq("c1", 65))
	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.True(t, res.HasSideEffect(domain.ActionTalentApprovalRequest))
}

func TestRejectAt90RoundTrip(t *testing.T) {
	c := draftCampaign("c1")
	c.Probability = 90
	c.Status = domain.StatusInReservations
	f := newFixture(t, c)
	f.inventory.active = 3

	rejectRes := f.engine.RejectAt90Percent(context.Background(), rejectReqFor("c1"))

	require.True(t, rejectRes.Success, "errors: %v", rejectRes.Errors)
	assert.Equal(t, 90, rejectRes.PreviousStage)
	assert.Equal(t, 65, rejectRes.CurrentStage)
	assert.True(t, rejectRes.HasSideEffect(domain.ActionInventoryReleased))
	assert.Zero(t, f.inventory.active)
	assert.Equal(t, domain.StatusNeedsRevision, c.Status)
	assert.Equal(t, 65, c.Probability)

	// Re-entering forward flow re-reserves inventory.
	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 90))
	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.True(t, res.HasSideEffect(domain.ActionInventoryReserved))
	assert.Equal(t, 1, f.inventory.reserveCalls)
	assert.Equal(t, 2, f.inventory.active)
}

func TestRejectReleaseFailure(t *testing.T) {
	c := draftCampaign("c1")
	c.Probability = 90
	f := newFixture(t, c)
	f.inventory.releaseErr = errors.New("inventory service unavailable")

	res := f.engine.RejectAt90Percent(context.Background(), rejectReqFor("c1"))

	require.False(t, res.Success)
	assert.Contains(t, res.Errors[0], "release inventory")
	assert.Equal(t, 90, c.Probability, "failed reject must not move the campaign")
}

func TestCollaboratorFailureSurfacesInErrors(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	f.orders.err = errors.New("connection refused")

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 100))

	require.False(t, res.Success)
	assert.Contains(t, res.Errors[0], "create order")
	assert.Empty(t, f.campaigns.saved)
	assert.Equal(t, 0, f.campaigns.campaigns["c1"].Probability)
}

func TestPublishFailureDoesNotFailTransition(t *testing.T) {
	f := newFixture(t, draftCampaign("c1"))
	f.publisher.err = errors.New("broker down")

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 50))

	require.True(t, res.Success, "errors: %v", res.Errors)
	require.Len(t, f.campaigns.saved, 1)
	assert.Equal(t, 50, f.campaigns.saved[0].probability)
}

func TestPresaleActivationOnlyFromDraft(t *testing.T) {
	c := draftCampaign("c1")
	c.Probability = 5
	c.Status = domain.StatusNeedsRevision
	f := newFixture(t, c)

	res := f.engine.TransitionToStage(context.Background(), transitionReq("c1", 20))

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.False(t, res.HasSideEffect(domain.ActionPresaleActivated))
}

func rejectReqFor(campaignID string) port.RejectRequest {
	return port.RejectRequest{
		CampaignID:     campaignID,
		OrganizationID: "org-1",
		SchemaName:     "org_1",
		UserID:         "user-1",
	}
}
