package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// CampaignRepository implements port.CampaignRepository using pgxpool.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `id, organization_id, advertiser_id, agency_id, category_id, name, probability, status, total_value, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID,
		&c.OrganizationID,
		&c.AdvertiserID,
		&c.AgencyID,
		&c.CategoryID,
		&c.Name,
		&c.Probability,
		&c.Status,
		&c.TotalValue,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// WithCampaignLock loads the campaign row with SELECT ... FOR UPDATE in the
// tenant schema and runs fn while the lock is held. The transaction commits
// only when fn returns nil, so the stage write and the lock share one
// transaction; collaborator writes issued from fn do not.
func (r *CampaignRepository) WithCampaignLock(ctx context.Context, tenant domain.Tenant, campaignID string,
	fn func(ctx context.Context, c *domain.Campaign, store port.CampaignStore) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`,
		campaignColumns, table(tenant, "campaigns"))
	c, err := scanCampaign(tx.QueryRow(ctx, query, campaignID))
	if errors.Is(err, pgx.ErrNoRows) {
		err = port.ErrCampaignNotFound
		return err
	}
	if err != nil {
		return err
	}

	err = fn(ctx, c, &campaignStore{tx: tx, tenant: tenant})
	return err
}

// GetCampaign returns the campaign without locking, or nil when absent.
func (r *CampaignRepository) GetCampaign(ctx context.Context, tenant domain.Tenant, campaignID string) (*domain.Campaign, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`,
		campaignColumns, table(tenant, "campaigns"))
	c, err := scanCampaign(r.pool.QueryRow(ctx, query, campaignID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// campaignStore writes the stage through the row-lock transaction.
type campaignStore struct {
	tx     pgx.Tx
	tenant domain.Tenant
}

// SaveStage persists probability, status and updated_at. This is the single
// authoritative mutation of pipeline position.
func (s *campaignStore) SaveStage(ctx context.Context, campaignID string, probability int, status domain.CampaignStatus) error {
	query := fmt.Sprintf(`UPDATE %s SET probability = $1, status = $2, updated_at = now() WHERE id = $3`,
		table(s.tenant, "campaigns"))
	_, err := s.tx.Exec(ctx, query, probability, status, campaignID)
	return err
}

var _ port.CampaignRepository = (*CampaignRepository)(nil)
