package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// ConflictChecker finds bookings that would violate category exclusivity:
// campaigns from other advertisers in the same category that are already at
// or past the reservation band. Pure read, safe to call repeatedly.
type ConflictChecker struct {
	pool *pgxpool.Pool
}

func NewConflictChecker(pool *pgxpool.Pool) *ConflictChecker {
	return &ConflictChecker{pool: pool}
}

func (c *ConflictChecker) CategoryConflicts(ctx context.Context, tenant domain.Tenant, campaignID, categoryID string) ([]domain.CategoryConflict, error) {
	query := fmt.Sprintf(
		`SELECT other.id, other.name, other.advertiser_id
		 FROM %s other
		 JOIN %s self ON self.id = $1
		 WHERE other.category_id = $2
		   AND other.id <> $1
		   AND other.advertiser_id <> self.advertiser_id
		   AND other.probability >= 90
		 ORDER BY other.probability DESC, other.updated_at DESC`,
		table(tenant, "campaigns"), table(tenant, "campaigns"))
	rows, err := c.pool.Query(ctx, query, campaignID, categoryID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryConflict, error) {
		var cf domain.CategoryConflict
		err := row.Scan(&cf.CampaignID, &cf.CampaignName, &cf.AdvertiserID)
		return cf, err
	})
}

var _ port.ConflictChecker = (*ConflictChecker)(nil)
