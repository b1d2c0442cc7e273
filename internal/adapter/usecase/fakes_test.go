package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"podops/internal/adapter/memory"
	"podops/internal/core/domain"
	"podops/internal/core/port"
)

type savedStage struct {
	campaignID  string
	probability int
	status      domain.CampaignStatus
}

// fakeCampaigns keeps campaigns in a map and mimics the commit-on-success
// semantics of the row-lock transaction: SaveStage only takes effect when the
// locked function returns nil.
type fakeCampaigns struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
	saved     []savedStage
	lockCalls int
	lockErr   error
}

func newFakeCampaigns(cs ...*domain.Campaign) *fakeCampaigns {
	m := make(map[string]*domain.Campaign, len(cs))
	for _, c := range cs {
		m[c.ID] = c
	}
	return &fakeCampaigns{campaigns: m}
}

func (f *fakeCampaigns) WithCampaignLock(ctx context.Context, _ domain.Tenant, campaignID string,
	fn func(ctx context.Context, c *domain.Campaign, store port.CampaignStore) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lockCalls++
	if f.lockErr != nil {
		return f.lockErr
	}
	c, ok := f.campaigns[campaignID]
	if !ok {
		return port.ErrCampaignNotFound
	}
	work := *c
	st := &fakeStore{}
	if err := fn(ctx, &work, st); err != nil {
		return err
	}
	if st.saved != nil {
		c.Probability = st.saved.probability
		c.Status = st.saved.status
		f.saved = append(f.saved, *st.saved)
	}
	return nil
}

func (f *fakeCampaigns) GetCampaign(_ context.Context, _ domain.Tenant, campaignID string) (*domain.Campaign, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.campaigns[campaignID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

type fakeStore struct {
	saved *savedStage
	err   error
}

func (s *fakeStore) SaveStage(_ context.Context, campaignID string, probability int, status domain.CampaignStatus) error {
	if s.err != nil {
		return s.err
	}
	s.saved = &savedStage{campaignID: campaignID, probability: probability, status: status}
	return nil
}

type fakeSettings struct {
	settings domain.WorkflowSettings
	err      error
}

func (f *fakeSettings) WorkflowAutomation(context.Context, string) (domain.WorkflowSettings, error) {
	return f.settings, f.err
}

type fakeSchedules struct {
	schedule  *domain.Schedule
	items     []domain.ScheduleItem
	spotTypes []domain.SpotType
	shows     []domain.ShowRef
	snapshots int
	validated []string
	err       error
}

func (f *fakeSchedules) Latest(context.Context, domain.Tenant, string) (*domain.Schedule, []domain.ScheduleItem, error) {
	return f.schedule, f.items, f.err
}

func (f *fakeSchedules) SnapshotRates(_ context.Context, _ domain.Tenant, _ string, items []domain.ScheduleItem) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.snapshots++
	return len(items), nil
}

func (f *fakeSchedules) MarkValidated(_ context.Context, _ domain.Tenant, scheduleID string) error {
	f.validated = append(f.validated, scheduleID)
	return f.err
}

func (f *fakeSchedules) DistinctSpotTypes(context.Context, domain.Tenant, string) ([]domain.SpotType, error) {
	return f.spotTypes, f.err
}

func (f *fakeSchedules) DistinctShows(context.Context, domain.Tenant, string) ([]domain.ShowRef, error) {
	return f.shows, f.err
}

type fakeInventory struct {
	perReserve   int
	active       int
	reserveCalls int
	releaseCalls int
	reserveErr   error
	releaseErr   error
}

func (f *fakeInventory) Reserve(_ context.Context, _ domain.Tenant, campaignID string, _ time.Duration) ([]string, error) {
	if f.reserveErr != nil {
		return nil, f.reserveErr
	}
	f.reserveCalls++
	ids := make([]string, f.perReserve)
	for i := range ids {
		ids[i] = fmt.Sprintf("res-%s-%d", campaignID, i)
	}
	f.active += f.perReserve
	return ids, nil
}

func (f *fakeInventory) Release(context.Context, domain.Tenant, string) (int, error) {
	if f.releaseErr != nil {
		return 0, f.releaseErr
	}
	f.releaseCalls++
	n := f.active
	f.active = 0
	return n, nil
}

type fakeApprovals struct {
	created []port.TalentApprovalRequest
	err     error
}

func (f *fakeApprovals) CreateTalentApproval(_ context.Context, _ domain.Tenant, req port.TalentApprovalRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created = append(f.created, req)
	return fmt.Sprintf("approval-%d", len(f.created)), nil
}

type fakeConflicts struct {
	conflicts []domain.CategoryConflict
	calls     int
	err       error
}

func (f *fakeConflicts) CategoryConflicts(context.Context, domain.Tenant, string, string) ([]domain.CategoryConflict, error) {
	f.calls++
	return f.conflicts, f.err
}

type fakeOrders struct {
	orders     int
	adRequests int
	err        error
}

func (f *fakeOrders) CreateFromCampaign(context.Context, domain.Tenant, *domain.Campaign, string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.orders++
	return fmt.Sprintf("order-%d", f.orders), nil
}

func (f *fakeOrders) CreateAdRequests(_ context.Context, _ domain.Tenant, _, _ string, shows []domain.ShowRef) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.adRequests += len(shows)
	return len(shows), nil
}

type fakeContracts struct {
	generated int
	err       error
}

func (f *fakeContracts) Generate(context.Context, domain.Tenant, port.GenerateContractRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.generated++
	return fmt.Sprintf("contract-%d", f.generated), nil
}

type fakeBilling struct {
	created int
	err     error
}

func (f *fakeBilling) CreateSchedule(context.Context, domain.Tenant, port.BillingScheduleRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.created++
	return fmt.Sprintf("billing-%d", f.created), nil
}

type fakePublisher struct {
	events []domain.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, evt domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, evt)
	return nil
}

// fixture wires the engine to fakes with a workable default world: one
// schedule with two host-read items across two shows and no conflicts.
type fixture struct {
	campaigns *fakeCampaigns
	settings  *fakeSettings
	schedules *fakeSchedules
	inventory *fakeInventory
	approvals *fakeApprovals
	conflicts *fakeConflicts
	orders    *fakeOrders
	contracts *fakeContracts
	billing   *fakeBilling
	publisher *fakePublisher
	cache     *memory.IdempotencyCache
	engine    *StageEngine
}

func newFixture(t *testing.T, campaigns ...*domain.Campaign) *fixture {
	t.Helper()
	sched := &domain.Schedule{ID: "sched-1", CampaignID: "c1", CreatedAt: time.Now()}
	items := []domain.ScheduleItem{
		{ID: "item-1", ScheduleID: "sched-1", ShowID: "show-1", ShowName: "Morning Brew", SpotType: domain.SpotHostRead, RateCardPrice: 50000, NegotiatedPrice: 45000},
		{ID: "item-2", ScheduleID: "sched-1", ShowID: "show-2", ShowName: "Night Owls", SpotType: domain.SpotHostRead, RateCardPrice: 60000, NegotiatedPrice: 60000},
	}
	f := &fixture{
		campaigns: newFakeCampaigns(campaigns...),
		settings:  &fakeSettings{settings: domain.DefaultWorkflowSettings()},
		schedules: &fakeSchedules{
			schedule:  sched,
			items:     items,
			spotTypes: []domain.SpotType{domain.SpotHostRead},
			shows:     []domain.ShowRef{{ID: "show-1", Name: "Morning Brew"}, {ID: "show-2", Name: "Night Owls"}},
		},
		inventory: &fakeInventory{perReserve: 2},
		approvals: &fakeApprovals{},
		conflicts: &fakeConflicts{},
		orders:    &fakeOrders{},
		contracts: &fakeContracts{},
		billing:   &fakeBilling{},
		publisher: &fakePublisher{},
		cache:     memory.NewIdempotencyCache(),
	}
	f.engine = NewStageEngine(Deps{
		Campaigns: f.campaigns,
		Settings:  f.settings,
		Schedules: f.schedules,
		Orders:    f.orders,
		Inventory: f.inventory,
		Approvals: f.approvals,
		Conflicts: f.conflicts,
		Contracts: f.contracts,
		Billing:   f.billing,
		Cache:     f.cache,
		Publisher: f.publisher,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return f
}

func transitionReq(campaignID string, target int) port.TransitionRequest {
	return port.TransitionRequest{
		CampaignID:     campaignID,
		TargetStage:    target,
		OrganizationID: "org-1",
		SchemaName:     "org_1",
		UserID:         "user-1",
	}
}

func draftCampaign(id string) *domain.Campaign {
	category := "fintech"
	return &domain.Campaign{
		ID:             id,
		OrganizationID: "org-1",
		AdvertiserID:   "adv-1",
		CategoryID:     &category,
		Name:           "Test Campaign",
		Probability:    0,
		Status:         domain.StatusDraft,
		TotalValue:     500000,
	}
}

func actions(res *domain.TransitionResult) []domain.SideEffectAction {
	out := make([]domain.SideEffectAction, len(res.SideEffects))
	for i, se := range res.SideEffects {
		out[i] = se.Action
	}
	return out
}
