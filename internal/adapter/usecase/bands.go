package usecase

import (
	"context"
	"fmt"
	"time"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// bandContext carries the shared state one transition threads through its
// band handlers. Handlers append side effects to the result and may mutate
// the campaign's status; probability is only written by the engine itself.
type bandContext struct {
	tenant   domain.Tenant
	campaign *domain.Campaign
	settings domain.WorkflowSettings
	userID   string
	result   *domain.TransitionResult
	now      func() time.Time
}

func (bc *bandContext) addEffect(action domain.SideEffectAction, description string, data map[string]any) {
	bc.result.AddSideEffect(action, description, bc.now(), data)
}

// stageBand is one threshold of the cascade: fired when the target stage
// reaches it, the campaign has not already passed it and the tenant has not
// disabled it.
type stageBand struct {
	threshold int
	enabled   func(domain.WorkflowSettings) bool
	run       func(ctx context.Context, bc *bandContext) error
}

// bands returns the cascade in ascending threshold order. Bands are
// cumulative: a campaign jumping from 5% straight to 90% runs the 10/35/65/90
// handlers in sequence within the same call.
func (e *StageEngine) bands() []stageBand {
	return []stageBand{
		{10, func(s domain.WorkflowSettings) bool { return s.AutoStages.At10 }, e.activatePresale},
		{35, func(s domain.WorkflowSettings) bool { return s.AutoStages.At35 }, e.validateSchedule},
		{65, func(s domain.WorkflowSettings) bool { return s.AutoStages.At65 }, e.approvalsAndExclusivity},
		{90, func(s domain.WorkflowSettings) bool { return s.AutoStages.At90 }, e.reserveInventory},
		{100, func(s domain.WorkflowSettings) bool { return s.AutoStages.At100 }, e.finalize},
	}
}

// activatePresale (>=10%) flips a draft campaign into active pre-sale,
// unlocking schedule-builder access. No-op when the status already moved on.
func (e *StageEngine) activatePresale(_ context.Context, bc *bandContext) error {
	if bc.campaign.Status != domain.StatusDraft {
		return nil
	}
	bc.campaign.Status = domain.StatusActivePresale
	bc.addEffect(domain.ActionPresaleActivated,
		"campaign entered pre-sale; schedule builder unlocked", nil)
	return nil
}

// validateSchedule (>=35%) snapshots baseline rates from the most recent
// schedule for later delta tracking. A campaign with no schedule items logs
// the fact but does not fail the transition.
func (e *StageEngine) validateSchedule(ctx context.Context, bc *bandContext) error {
	sched, items, err := e.schedules.Latest(ctx, bc.tenant, bc.campaign.ID)
	if err != nil {
		return fmt.Errorf("load schedule: %w", err)
	}
	if sched == nil || len(items) == 0 {
		bc.addEffect(domain.ActionNoValidSchedule,
			"no schedule items to validate; baseline rates not captured", nil)
		return nil
	}
	n, err := e.schedules.SnapshotRates(ctx, bc.tenant, sched.ID, items)
	if err != nil {
		return fmt.Errorf("snapshot rates: %w", err)
	}
	if err := e.schedules.MarkValidated(ctx, bc.tenant, sched.ID); err != nil {
		return fmt.Errorf("mark schedule validated: %w", err)
	}
	bc.addEffect(domain.ActionScheduleValidated,
		fmt.Sprintf("schedule validated; %d baseline rate(s) captured", n),
		map[string]any{"scheduleId": sched.ID, "snapshots": n})
	return nil
}

// approvalsAndExclusivity (>=65%) opens a talent approval request for
// host-read or endorsed spots when the tenant requires sign-off, then checks
// category exclusivity. Conflicts under BLOCK abort the whole transition;
// under WARN they only log a warning side effect.
func (e *StageEngine) approvalsAndExclusivity(ctx context.Context, bc *bandContext) error {
	c := bc.campaign
	spotTypes, err := e.schedules.DistinctSpotTypes(ctx, bc.tenant, c.ID)
	if err != nil {
		return fmt.Errorf("list spot types: %w", err)
	}
	var needing []domain.SpotType
	for _, st := range spotTypes {
		if (st == domain.SpotHostRead && bc.settings.TalentApprovals.HostRead) ||
			(st == domain.SpotEndorsement && bc.settings.TalentApprovals.Endorsed) {
			needing = append(needing, st)
		}
	}
	if len(needing) > 0 {
		approvalID, err := e.approvals.CreateTalentApproval(ctx, bc.tenant, port.TalentApprovalRequest{
			CampaignID:  c.ID,
			RequestedBy: bc.userID,
			SpotTypes:   needing,
		})
		if err != nil {
			return fmt.Errorf("request talent approval: %w", err)
		}
		bc.addEffect(domain.ActionTalentApprovalRequest,
			"talent sign-off requested for scheduled spot types",
			map[string]any{"approvalId": approvalID, "spotTypes": needing})
	}

	if c.CategoryID == nil || bc.settings.Exclusivity.Policy == "" {
		return nil
	}
	conflicts, err := e.conflicts.CategoryConflicts(ctx, bc.tenant, c.ID, *c.CategoryID)
	if err != nil {
		return fmt.Errorf("check category conflicts: %w", err)
	}
	if len(conflicts) == 0 {
		return nil
	}
	if bc.settings.Exclusivity.Policy == domain.PolicyBlock {
		return fmt.Errorf("%w: %d conflicting booking(s) in category %s, first %q",
			port.ErrExclusivityBlocked, len(conflicts), *c.CategoryID, conflicts[0].CampaignName)
	}
	bc.addEffect(domain.ActionExclusivityWarning,
		fmt.Sprintf("%d conflicting booking(s) in category %s", len(conflicts), *c.CategoryID),
		map[string]any{"conflicts": len(conflicts), "categoryId": *c.CategoryID})
	return nil
}

// reserveInventory (>=90%) places TTL-bounded holds against ad-slot capacity
// and moves the campaign into reservations. This is the last point before
// commercial commitment.
func (e *StageEngine) reserveInventory(ctx context.Context, bc *bandContext) error {
	c := bc.campaign
	if bc.settings.Inventory.ReserveAt90 {
		ttlHours := bc.settings.Inventory.ReservationTTLHours
		if ttlHours <= 0 {
			ttlHours = domain.DefaultReservationTTLHours
		}
		ids, err := e.inventory.Reserve(ctx, bc.tenant, c.ID, time.Duration(ttlHours)*time.Hour)
		if err != nil {
			return fmt.Errorf("reserve inventory: %w", err)
		}
		bc.addEffect(domain.ActionInventoryReserved,
			fmt.Sprintf("%d slot(s) held for %d hours", len(ids), ttlHours),
			map[string]any{"reservationIds": ids, "ttlHours": ttlHours})
	}
	c.Status = domain.StatusInReservations
	return nil
}

// finalize (100%) creates the order snapshot, generates per-show ad requests
// and, per tenant settings, a draft contract and a recurring billing
// schedule, then marks the campaign approved.
func (e *StageEngine) finalize(ctx context.Context, bc *bandContext) error {
	c := bc.campaign
	orderID, err := e.orders.CreateFromCampaign(ctx, bc.tenant, c, bc.userID)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	bc.addEffect(domain.ActionOrderCreated,
		"order created with advertiser/agency/total snapshot",
		map[string]any{"orderId": orderID})

	shows, err := e.schedules.DistinctShows(ctx, bc.tenant, c.ID)
	if err != nil {
		return fmt.Errorf("list scheduled shows: %w", err)
	}
	if len(shows) > 0 {
		n, err := e.orders.CreateAdRequests(ctx, bc.tenant, orderID, c.ID, shows)
		if err != nil {
			return fmt.Errorf("create ad requests: %w", err)
		}
		bc.addEffect(domain.ActionAdRequestsCreated,
			fmt.Sprintf("%d ad request(s) generated for scheduled shows", n),
			map[string]any{"orderId": orderID, "count": n})
	}

	if bc.settings.Contracts.AutoGenerate {
		contractID, err := e.contracts.Generate(ctx, bc.tenant, port.GenerateContractRequest{
			OrderID:    orderID,
			TemplateID: bc.settings.Contracts.EmailTemplateID,
			UserID:     bc.userID,
		})
		if err != nil {
			return fmt.Errorf("generate contract: %w", err)
		}
		bc.addEffect(domain.ActionContractGenerated,
			"contract drafted from template",
			map[string]any{"contractId": contractID, "orderId": orderID})
	}

	if bc.settings.Billing.InvoiceDayOfMonth > 0 {
		scheduleID, err := e.billing.CreateSchedule(ctx, bc.tenant, port.BillingScheduleRequest{
			OrderID:            orderID,
			DayOfMonth:         bc.settings.Billing.InvoiceDayOfMonth,
			Timezone:           bc.settings.Billing.Timezone,
			PrebillWhenNoTerms: bc.settings.Billing.PrebillWhenNoTerms,
			UserID:             bc.userID,
		})
		if err != nil {
			return fmt.Errorf("create billing schedule: %w", err)
		}
		bc.addEffect(domain.ActionBillingScheduleCreated,
			fmt.Sprintf("recurring invoices on day %d (%s)",
				bc.settings.Billing.InvoiceDayOfMonth, bc.settings.Billing.Timezone),
			map[string]any{"billingScheduleId": scheduleID, "orderId": orderID})
	}

	c.Status = domain.StatusApproved
	return nil
}
