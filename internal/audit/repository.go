package audit

import (
	"context"
	"database/sql"
)

// PostgresRepo appends events to audit_events. The table is
// INSERT-only; retention is handled operationally, not here.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	const q = `
		INSERT INTO audit_events
			(id, tenant_id, type, actor_subject, actor_roles, ip_address, product_id, message, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, q,
		e.ID, e.TenantID, string(e.Type), e.ActorSubject, e.ActorRoles,
		e.IPAddress, e.ProductID, e.Message, e.Metadata, e.CreatedAt)
	return err
}
