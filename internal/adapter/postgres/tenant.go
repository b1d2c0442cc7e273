package postgres

import (
	"github.com/jackc/pgx/v5"

	"podops/internal/core/domain"
)

// table returns the schema-qualified, quoted table name for a tenant. Schema
// names come from the organizations table, never from request input, but they
// are still quoted through pgx.Identifier since they cannot be bound as
// statement parameters.
func table(tenant domain.Tenant, name string) string {
	return pgx.Identifier{tenant.Schema, name}.Sanitize()
}
