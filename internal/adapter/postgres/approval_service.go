package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// ApprovalService opens talent approval requests in the tenant schema. The
// sign-off workflow itself runs elsewhere; the engine only creates the
// pending request and moves on.
type ApprovalService struct {
	pool *pgxpool.Pool
}

func NewApprovalService(pool *pgxpool.Pool) *ApprovalService {
	return &ApprovalService{pool: pool}
}

func (s *ApprovalService) CreateTalentApproval(ctx context.Context, tenant domain.Tenant, req port.TalentApprovalRequest) (string, error) {
	spotTypes := make([]string, len(req.SpotTypes))
	for i, st := range req.SpotTypes {
		spotTypes[i] = string(st)
	}
	id := uuid.NewString()
	query := fmt.Sprintf(
		`INSERT INTO %s (id, campaign_id, requested_by, spot_types, status, created_at)
		 VALUES ($1, $2, $3, $4, 'pending', now())`,
		table(tenant, "talent_approvals"))
	if _, err := s.pool.Exec(ctx, query, id, req.CampaignID, req.RequestedBy, spotTypes); err != nil {
		return "", err
	}
	return id, nil
}

var _ port.ApprovalService = (*ApprovalService)(nil)
