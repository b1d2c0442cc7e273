package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// InventoryService implements port.InventoryService against the tenant's
// inventory_reservations table. One hold is placed per scheduled placement,
// all inside a single transaction: a reservation is either fully visible to
// availability queries or not created at all.
type InventoryService struct {
	pool *pgxpool.Pool
}

func NewInventoryService(pool *pgxpool.Pool) *InventoryService {
	return &InventoryService{pool: pool}
}

// Reserve places TTL-bounded holds for every placement on the campaign's
// schedule and returns the reservation ids. Placements already holding an
// active reservation are skipped, keeping re-reservation idempotent.
func (s *InventoryService) Reserve(ctx context.Context, tenant domain.Tenant, campaignID string, ttl time.Duration) ([]string, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	itemQuery := fmt.Sprintf(
		`SELECT i.id FROM %s i JOIN %s sc ON i.schedule_id = sc.id
		 WHERE sc.campaign_id = $1
		   AND NOT EXISTS (
			SELECT 1 FROM %s r
			WHERE r.schedule_item_id = i.id AND r.status = 'active' AND r.expires_at > now()
		 )`,
		table(tenant, "schedule_items"), table(tenant, "schedules"), table(tenant, "inventory_reservations"))
	rows, err := tx.Query(ctx, itemQuery, campaignID)
	if err != nil {
		return nil, err
	}
	itemIDs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (string, error) {
		var id string
		err := row.Scan(&id)
		return id, err
	})
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().UTC().Add(ttl)
	insert := fmt.Sprintf(
		`INSERT INTO %s (id, campaign_id, schedule_item_id, status, expires_at, created_at)
		 VALUES ($1, $2, $3, 'active', $4, now())`,
		table(tenant, "inventory_reservations"))
	ids := make([]string, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		id := uuid.NewString()
		if _, err = tx.Exec(ctx, insert, id, campaignID, itemID, expiresAt); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, err
}

// Release frees every active hold for the campaign and returns the count.
func (s *InventoryService) Release(ctx context.Context, tenant domain.Tenant, campaignID string) (int, error) {
	query := fmt.Sprintf(
		`UPDATE %s SET status = 'released', released_at = now() WHERE campaign_id = $1 AND status = 'active'`,
		table(tenant, "inventory_reservations"))
	tag, err := s.pool.Exec(ctx, query, campaignID)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

var _ port.InventoryService = (*InventoryService)(nil)
