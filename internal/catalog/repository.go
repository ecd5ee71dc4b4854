package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// PostgresRepo persists products:
//
//	products(id PK, tenant_id, seller_subject, name, description,
//	         price_minor, stock, image_url, created_at, updated_at)
//
// Name uniqueness is per tenant and enforced both here and by a
// UNIQUE (tenant_id, lower(name)) index.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const productColumns = `id, tenant_id, seller_subject, name, description, price_minor, stock, image_url, created_at, updated_at`

func (r *PostgresRepo) FindByID(ctx context.Context, id string) (Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProduct(r.db.QueryRowContext(ctx, q, id))
}

func (r *PostgresRepo) List(ctx context.Context, q ListQuery) (Page, error) {
	where, args := buildFilter(q)

	var total int64
	countQ := `SELECT COUNT(*) FROM products` + where
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return Page{}, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	listQ := fmt.Sprintf(
		`SELECT `+productColumns+` FROM products%s ORDER BY created_at, id LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)
	rows, err := r.db.QueryContext(ctx, listQ, append(args, limit, q.Offset)...)
	if err != nil {
		return Page{}, err
	}
	defer rows.Close()

	page := Page{Total: total, Offset: q.Offset, Limit: q.Limit}
	for rows.Next() {
		var p Product
		if err := scanProductRow(rows, &p); err != nil {
			return Page{}, err
		}
		page.Items = append(page.Items, p)
	}
	return page, rows.Err()
}

func (r *PostgresRepo) ExistsByName(ctx context.Context, tenantID, name, excludeID string) (bool, error) {
	const q = `
		SELECT EXISTS(
			SELECT 1 FROM products
			WHERE tenant_id = $1 AND lower(name) = lower($2) AND id <> $3
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, tenantID, name, excludeID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) Insert(ctx context.Context, p Product) error {
	const q = `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.ExecContext(ctx, q,
		p.ID, p.TenantID, p.SellerSubject, p.Name, p.Description,
		p.PriceMinor, p.Stock, p.ImageURL, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *PostgresRepo) Update(ctx context.Context, p Product) error {
	const q = `
		UPDATE products
		SET name = $2, description = $3, price_minor = $4, stock = $5,
		    image_url = $6, updated_at = $7
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, p.ID, p.Name, p.Description, p.PriceMinor, p.Stock, p.ImageURL, p.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func buildFilter(q ListQuery) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if q.TenantID != "" {
		add("tenant_id = $%d", q.TenantID)
	}
	if q.SellerSubject != "" {
		add("seller_subject = $%d", q.SellerSubject)
	}
	if s := strings.TrimSpace(q.Search); s != "" {
		args = append(args, s)
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			"(name ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", n, n,
		))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row *sql.Row) (Product, error) {
	var p Product
	err := scanProductRow(row, &p)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrNotFound
	}
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

func scanProductRow(row rowScanner, p *Product) error {
	return row.Scan(
		&p.ID, &p.TenantID, &p.SellerSubject, &p.Name, &p.Description,
		&p.PriceMinor, &p.Stock, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
