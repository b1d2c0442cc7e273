package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// OrderRepository creates the commercial records generated when a campaign
// reaches 100%.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// CreateFromCampaign inserts an order denormalizing advertiser, agency and
// total from the campaign at creation time. A campaign gets at most one
// order: an existing order's id is returned unchanged, keeping finalization
// idempotent.
func (r *OrderRepository) CreateFromCampaign(ctx context.Context, tenant domain.Tenant, c *domain.Campaign, userID string) (string, error) {
	existing := fmt.Sprintf(`SELECT id FROM %s WHERE campaign_id = $1`, table(tenant, "orders"))
	var id string
	err := r.pool.QueryRow(ctx, existing, c.ID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != pgx.ErrNoRows {
		return "", err
	}

	id = uuid.NewString()
	insert := fmt.Sprintf(
		`INSERT INTO %s (id, campaign_id, advertiser_id, agency_id, total_value, status, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, 'open', $6, now())`,
		table(tenant, "orders"))
	if _, err := r.pool.Exec(ctx, insert, id, c.ID, c.AdvertiserID, c.AgencyID, c.TotalValue, userID); err != nil {
		return "", err
	}
	return id, nil
}

// CreateAdRequests generates one ad-request work item per distinct show.
// Shows that already have a request for this order are skipped.
func (r *OrderRepository) CreateAdRequests(ctx context.Context, tenant domain.Tenant, orderID, campaignID string, shows []domain.ShowRef) (int, error) {
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

	insert := fmt.Sprintf(
		`INSERT INTO %s (id, order_id, campaign_id, show_id, show_name, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, 'open', now())
		 ON CONFLICT (order_id, show_id) DO NOTHING`,
		table(tenant, "ad_requests"))
	count := 0
	for _, show := range shows {
		tag, execErr := tx.Exec(ctx, insert, uuid.NewString(), orderID, campaignID, show.ID, show.Name)
		if execErr != nil {
			err = execErr
			return 0, err
		}
		count += int(tag.RowsAffected())
	}
	return count, err
}

var _ port.OrderRepository = (*OrderRepository)(nil)
