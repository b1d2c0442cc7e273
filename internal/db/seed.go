package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
)

// Seed inserts demo data: one organization with its tenant schema, workflow
// settings, a contract template and a handful of campaigns with schedules.
func Seed(ctx context.Context, pool *pgxpool.Pool) error {
	const (
		orgID  = "org-demo"
		schema = "org_demo"
	)
	if err := EnsureTenantSchema(ctx, pool, schema); err != nil {
		return err
	}

	_, err := pool.Exec(ctx, `INSERT INTO organizations (id, name, schema_name)
VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`, orgID, "Demo Podcast Network", schema)
	if err != nil {
		return err
	}

	settings := domain.DefaultWorkflowSettings()
	settings.Exclusivity.Policy = domain.PolicyBlock
	settings.Contracts.AutoGenerate = true
	settings.Contracts.EmailTemplateID = "tmpl-standard"
	settings.Billing.InvoiceDayOfMonth = 1
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `INSERT INTO org_settings (organization_id, workflow_automation)
VALUES ($1, $2) ON CONFLICT (organization_id) DO UPDATE SET workflow_automation = EXCLUDED.workflow_automation`,
		orgID, raw)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `INSERT INTO contract_templates (id, name, body)
VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`,
		"tmpl-standard", "Standard insertion order",
		"INSERTION ORDER\n\nCampaign: {{campaign_name}}\nAdvertiser: {{advertiser_id}}\nOrder: {{order_id}}\nTotal: {{total_value}}\n")
	if err != nil {
		return err
	}

	categories := []string{"fintech", "dtc-retail", "automotive"}
	spotTypes := []domain.SpotType{domain.SpotHostRead, domain.SpotEndorsement, domain.SpotProduced}
	for i := 1; i <= 3; i++ {
		campaignID := fmt.Sprintf("camp-%d", i)
		category := categories[i-1]
		_, err = pool.Exec(ctx, fmt.Sprintf(`INSERT INTO %q.campaigns
    (id, organization_id, advertiser_id, category_id, name, probability, status, total_value)
VALUES ($1, $2, $3, $4, $5, 0, 'draft', $6) ON CONFLICT DO NOTHING`, schema),
			campaignID, orgID, fmt.Sprintf("adv-%d", i), category,
			fmt.Sprintf("Demo Campaign %d", i), int64(250000*i))
		if err != nil {
			return err
		}

		scheduleID := uuid.NewString()
		_, err = pool.Exec(ctx, fmt.Sprintf(`INSERT INTO %q.schedules (id, campaign_id)
VALUES ($1, $2) ON CONFLICT DO NOTHING`, schema), scheduleID, campaignID)
		if err != nil {
			return err
		}

		for j := 0; j < 4; j++ {
			airDate := time.Now().AddDate(0, 0, 7*(j+1))
			_, err = pool.Exec(ctx, fmt.Sprintf(`INSERT INTO %q.schedule_items
    (id, schedule_id, show_id, show_name, spot_type, rate_card_price, negotiated_price, air_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8) ON CONFLICT DO NOTHING`, schema),
				uuid.NewString(), scheduleID,
				fmt.Sprintf("show-%d", j%2+1), fmt.Sprintf("Demo Show %d", j%2+1),
				spotTypes[j%len(spotTypes)], int64(50000), int64(45000), airDate)
			if err != nil {
				return err
			}
		}
	}
	return nil
}
