package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// ScheduleRepository implements port.ScheduleRepository using pgxpool.
type ScheduleRepository struct {
	pool *pgxpool.Pool
}

func NewScheduleRepository(pool *pgxpool.Pool) *ScheduleRepository {
	return &ScheduleRepository{pool: pool}
}

// Latest returns the campaign's most recent schedule with its line items, or
// a nil schedule when the campaign has none.
func (r *ScheduleRepository) Latest(ctx context.Context, tenant domain.Tenant, campaignID string) (*domain.Schedule, []domain.ScheduleItem, error) {
	var s domain.Schedule
	query := fmt.Sprintf(
		`SELECT id, campaign_id, validated_at, created_at FROM %s WHERE campaign_id = $1 ORDER BY created_at DESC LIMIT 1`,
		table(tenant, "schedules"))
	err := r.pool.QueryRow(ctx, query, campaignID).Scan(&s.ID, &s.CampaignID, &s.ValidatedAt, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}

	itemQuery := fmt.Sprintf(
		`SELECT id, schedule_id, show_id, show_name, spot_type, rate_card_price, negotiated_price, air_date
		 FROM %s WHERE schedule_id = $1 ORDER BY air_date`,
		table(tenant, "schedule_items"))
	rows, err := r.pool.Query(ctx, itemQuery, s.ID)
	if err != nil {
		return nil, nil, err
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ScheduleItem, error) {
		var it domain.ScheduleItem
		err := row.Scan(&it.ID, &it.ScheduleID, &it.ShowID, &it.ShowName, &it.SpotType,
			&it.RateCardPrice, &it.NegotiatedPrice, &it.AirDate)
		return it, err
	})
	if err != nil {
		return nil, nil, err
	}
	return &s, items, nil
}

// SnapshotRates records the baseline rate of each item. ON CONFLICT DO
// NOTHING keeps the snapshot idempotent for items already captured.
func (r *ScheduleRepository) SnapshotRates(ctx context.Context, tenant domain.Tenant, scheduleID string, items []domain.ScheduleItem) (int, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	query := fmt.Sprintf(
		`INSERT INTO %s (id, schedule_item_id, rate_card_price, negotiated_price, spot_type, captured_at)
		 VALUES ($1, $2, $3, $4, $5, now()) ON CONFLICT (schedule_item_id) DO NOTHING`,
		table(tenant, "rate_snapshots"))
	count := 0
	for _, it := range items {
		tag, execErr := tx.Exec(ctx, query, uuid.NewString(), it.ID, it.RateCardPrice, it.NegotiatedPrice, it.SpotType)
		if execErr != nil {
			err = execErr
			return 0, err
		}
		count += int(tag.RowsAffected())
	}
	return count, err
}

// MarkValidated stamps the schedule as validated.
func (r *ScheduleRepository) MarkValidated(ctx context.Context, tenant domain.Tenant, scheduleID string) error {
	query := fmt.Sprintf(`UPDATE %s SET validated_at = now() WHERE id = $1 AND validated_at IS NULL`,
		table(tenant, "schedules"))
	_, err := r.pool.Exec(ctx, query, scheduleID)
	return err
}

// DistinctSpotTypes returns the set of spot types scheduled for the campaign.
func (r *ScheduleRepository) DistinctSpotTypes(ctx context.Context, tenant domain.Tenant, campaignID string) ([]domain.SpotType, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT i.spot_type FROM %s i JOIN %s s ON i.schedule_id = s.id WHERE s.campaign_id = $1`,
		table(tenant, "schedule_items"), table(tenant, "schedules"))
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.SpotType, error) {
		var st domain.SpotType
		err := row.Scan(&st)
		return st, err
	})
}

// DistinctShows returns the shows appearing on the campaign's schedule.
func (r *ScheduleRepository) DistinctShows(ctx context.Context, tenant domain.Tenant, campaignID string) ([]domain.ShowRef, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT i.show_id, i.show_name FROM %s i JOIN %s s ON i.schedule_id = s.id WHERE s.campaign_id = $1`,
		table(tenant, "schedule_items"), table(tenant, "schedules"))
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ShowRef, error) {
		var ref domain.ShowRef
		err := row.Scan(&ref.ID, &ref.Name)
		return ref, err
	})
}

var _ port.ScheduleRepository = (*ScheduleRepository)(nil)
