package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"podops/internal/core/domain"
	"podops/internal/core/port"
)

// defaultContractTemplate is used when the tenant has not configured one.
const defaultContractTemplate = `INSERTION ORDER

Campaign: {{campaign_name}}
Advertiser: {{advertiser_id}}
Agency: {{agency_id}}
Order: {{order_id}}
Total: {{total_value}}

Terms as negotiated.`

// ContractService renders a contract document from a template and order data
// and persists it with draft status.
type ContractService struct {
	pool *pgxpool.Pool
}

func NewContractService(pool *pgxpool.Pool) *ContractService {
	return &ContractService{pool: pool}
}

func (s *ContractService) Generate(ctx context.Context, tenant domain.Tenant, req port.GenerateContractRequest) (string, error) {
	body := defaultContractTemplate
	if req.TemplateID != "" {
		err := s.pool.QueryRow(ctx,
			`SELECT body FROM public.contract_templates WHERE id = $1`, req.TemplateID).Scan(&body)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return "", err
		}
	}

	query := fmt.Sprintf(
		`SELECT o.campaign_id, o.advertiser_id, o.agency_id, o.total_value, c.name
		 FROM %s o JOIN %s c ON c.id = o.campaign_id
		 WHERE o.id = $1`,
		table(tenant, "orders"), table(tenant, "campaigns"))
	var (
		campaignID   string
		advertiserID string
		agencyID     *string
		totalValue   int64
		campaignName string
	)
	err := s.pool.QueryRow(ctx, query, req.OrderID).
		Scan(&campaignID, &advertiserID, &agencyID, &totalValue, &campaignName)
	if err != nil {
		return "", fmt.Errorf("load order %s: %w", req.OrderID, err)
	}

	agency := ""
	if agencyID != nil {
		agency = *agencyID
	}
	rendered := strings.NewReplacer(
		"{{campaign_name}}", campaignName,
		"{{advertiser_id}}", advertiserID,
		"{{agency_id}}", agency,
		"{{order_id}}", req.OrderID,
		"{{total_value}}", strconv.FormatInt(totalValue, 10),
	).Replace(body)

	id := uuid.NewString()
	insert := fmt.Sprintf(
		`INSERT INTO %s (id, order_id, body, status, created_by, created_at)
		 VALUES ($1, $2, $3, 'draft', $4, now())`,
		table(tenant, "contracts"))
	if _, err := s.pool.Exec(ctx, insert, id, req.OrderID, rendered, req.UserID); err != nil {
		return "", err
	}
	return id, nil
}

var _ port.ContractService = (*ContractService)(nil)
