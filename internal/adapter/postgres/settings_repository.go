package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// SettingsRepository loads per-organization workflow-automation settings from
// the shared public schema. Organizations without a stored document get
// defaults.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

func (r *SettingsRepository) WorkflowAutomation(ctx context.Context, organizationID string) (domain.WorkflowSettings, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx,
		`SELECT workflow_automation FROM public.org_settings WHERE organization_id = $1`,
		organizationID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.DefaultWorkflowSettings(), nil
	}
	if err != nil {
		return domain.WorkflowSettings{}, err
	}
	settings := domain.DefaultWorkflowSettings()
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.WorkflowSettings{}, err
	}
	return settings, nil
}

var _ port.SettingsRepository = (*SettingsRepository)(nil)
