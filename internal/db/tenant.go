package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// tenantDDL is the per-organization table set, instantiated into each
// tenant's schema. %[1]s is the quoted schema name.
const tenantDDL = `
CREATE SCHEMA IF NOT EXISTS %[1]s;

CREATE TABLE IF NOT EXISTS %[1]s.campaigns (
    id              text PRIMARY KEY,
    organization_id text NOT NULL,
    advertiser_id   text NOT NULL,
    agency_id       text,
    category_id     text,
    name            text NOT NULL,
    probability     integer NOT NULL DEFAULT 0 CHECK (probability BETWEEN 0 AND 100),
    status          text NOT NULL DEFAULT 'draft',
    total_value     bigint NOT NULL DEFAULT 0,
    created_at      timestamptz NOT NULL DEFAULT now(),
    updated_at      timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.schedules (
    id           text PRIMARY KEY,
    campaign_id  text NOT NULL REFERENCES %[1]s.campaigns (id),
    validated_at timestamptz,
    created_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.schedule_items (
    id               text PRIMARY KEY,
    schedule_id      text NOT NULL REFERENCES %[1]s.schedules (id),
    show_id          text NOT NULL,
    show_name        text NOT NULL,
    spot_type        text NOT NULL,
    rate_card_price  bigint NOT NULL DEFAULT 0,
    negotiated_price bigint NOT NULL DEFAULT 0,
    air_date         timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS %[1]s.rate_snapshots (
    id               text PRIMARY KEY,
    schedule_item_id text NOT NULL UNIQUE REFERENCES %[1]s.schedule_items (id),
    rate_card_price  bigint NOT NULL,
    negotiated_price bigint NOT NULL,
    spot_type        text NOT NULL,
    captured_at      timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.inventory_reservations (
    id               text PRIMARY KEY,
    campaign_id      text NOT NULL REFERENCES %[1]s.campaigns (id),
    schedule_item_id text NOT NULL REFERENCES %[1]s.schedule_items (id),
    status           text NOT NULL DEFAULT 'active',
    expires_at       timestamptz NOT NULL,
    released_at      timestamptz,
    created_at       timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.talent_approvals (
    id           text PRIMARY KEY,
    campaign_id  text NOT NULL REFERENCES %[1]s.campaigns (id),
    requested_by text NOT NULL,
    spot_types   text[] NOT NULL,
    status       text NOT NULL DEFAULT 'pending',
    created_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.orders (
    id            text PRIMARY KEY,
    campaign_id   text NOT NULL UNIQUE REFERENCES %[1]s.campaigns (id),
    advertiser_id text NOT NULL,
    agency_id     text,
    total_value   bigint NOT NULL,
    status        text NOT NULL DEFAULT 'open',
    created_by    text NOT NULL,
    created_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.ad_requests (
    id          text PRIMARY KEY,
    order_id    text NOT NULL REFERENCES %[1]s.orders (id),
    campaign_id text NOT NULL,
    show_id     text NOT NULL,
    show_name   text NOT NULL,
    status      text NOT NULL DEFAULT 'open',
    created_at  timestamptz NOT NULL DEFAULT now(),
    UNIQUE (order_id, show_id)
);

CREATE TABLE IF NOT EXISTS %[1]s.contracts (
    id         text PRIMARY KEY,
    order_id   text NOT NULL REFERENCES %[1]s.orders (id),
    body       text NOT NULL,
    status     text NOT NULL DEFAULT 'draft',
    created_by text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS %[1]s.billing_schedules (
    id                    text PRIMARY KEY,
    order_id              text NOT NULL REFERENCES %[1]s.orders (id),
    day_of_month          integer NOT NULL,
    timezone              text NOT NULL,
    prebill_when_no_terms boolean NOT NULL DEFAULT false,
    status                text NOT NULL DEFAULT 'active',
    created_by            text NOT NULL,
    created_at            timestamptz NOT NULL DEFAULT now()
);
`

// EnsureTenantSchema creates an organization's schema and table set if they
// do not exist. Called when an organization is provisioned.
func EnsureTenantSchema(ctx context.Context, pool *pgxpool.Pool, schema string) error {
	ddl := fmt.Sprintf(tenantDDL, pgx.Identifier{schema}.Sanitize())
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("provision schema %s: %w", schema, err)
	}
	return nil
}
