package tenant

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo persists tenants:
//
//	tenants(id PK, name UNIQUE, description, created_at)
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Tenant, error) {
	const q = `SELECT id, name, description, created_at FROM tenants WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) FindByName(ctx context.Context, name string) (Tenant, error) {
	const q = `SELECT id, name, description, created_at FROM tenants WHERE name = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, q, name))
}

func (r *PostgresRepo) ExistsByID(ctx context.Context, id string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM tenants WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) Save(ctx context.Context, t Tenant) error {
	const q = `
		INSERT INTO tenants (id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET name = $2, description = $3`
	_, err := r.db.ExecContext(ctx, q, t.ID, t.Name, t.Description, t.CreatedAt)
	return err
}

func (r *PostgresRepo) scanOne(row *sql.Row) (Tenant, error) {
	var t Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Tenant{}, ErrNotFound
	}
	if err != nil {
		return Tenant{}, err
	}
	return t, nil
}
