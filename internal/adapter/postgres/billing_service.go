package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// BillingService creates recurring invoice schedules for finalized orders.
type BillingService struct {
	pool *pgxpool.Pool
}

func NewBillingService(pool *pgxpool.Pool) *BillingService {
	return &BillingService{pool: pool}
}

func (s *BillingService) CreateSchedule(ctx context.Context, tenant domain.Tenant, req port.BillingScheduleRequest) (string, error) {
	if req.DayOfMonth < 1 || req.DayOfMonth > 28 {
		return "", fmt.Errorf("invoice day of month %d outside 1-28", req.DayOfMonth)
	}
	tz := req.Timezone
	if tz == "" {
		tz = "UTC"
	}
	id := uuid.NewString()
	query := fmt.Sprintf(
		`INSERT INTO %s (id, order_id, day_of_month, timezone, prebill_when_no_terms, status, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, 'active', $6, now())`,
		table(tenant, "billing_schedules"))
	if _, err := s.pool.Exec(ctx, query, id, req.OrderID, req.DayOfMonth, tz, req.PrebillWhenNoTerms, req.UserID); err != nil {
		return "", err
	}
	return id, nil
}

var _ port.BillingService = (*BillingService)(nil)
