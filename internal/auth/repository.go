package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"marketplace-platform/pkg/utils"
)

// PostgresRepo persists identities and credentials in two tables:
//
//	identities(subject PK, full_name, tenant_id, roles JSONB, created_at)
//	credentials(subject PK REFERENCES identities, password_hash)
//
// Roles are stored as a JSONB array; the closed role set is enforced
// above this layer.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) FindBySubject(ctx context.Context, subject string) (Identity, error) {
	const q = `
		SELECT subject, full_name, tenant_id, roles, created_at
		FROM identities
		WHERE subject = $1`

	var (
		id       Identity
		rolesRaw []byte
		created  time.Time
	)
	err := r.db.QueryRowContext(ctx, q, subject).Scan(&id.Subject, &id.FullName, &id.TenantID, &rolesRaw, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Identity{}, ErrIdentityNotFound
	}
	if err != nil {
		return Identity{}, err
	}
	if err := json.Unmarshal(rolesRaw, &id.Roles); err != nil {
		return Identity{}, err
	}
	id.CreatedAt = created
	return id, nil
}

func (r *PostgresRepo) ExistsBySubject(ctx context.Context, subject string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM identities WHERE subject = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, subject).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresRepo) FindCredential(ctx context.Context, subject string) (Credential, error) {
	const q = `SELECT subject, password_hash FROM credentials WHERE subject = $1`
	var cred Credential
	err := r.db.QueryRowContext(ctx, q, subject).Scan(&cred.Subject, &cred.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return Credential{}, ErrIdentityNotFound
	}
	if err != nil {
		return Credential{}, err
	}
	return cred, nil
}

// Save writes identity and credential in one transaction so a partial
// registration can never leave a credential without an identity.
func (r *PostgresRepo) Save(ctx context.Context, id Identity, cred Credential) error {
	rolesRaw, err := json.Marshal(id.Roles)
	if err != nil {
		return err
	}

	return utils.WithTx(ctx, r.db, &sql.TxOptions{}, func(ctx context.Context, tx *sql.Tx) error {
		const insertIdentity = `
			INSERT INTO identities (subject, full_name, tenant_id, roles, created_at)
			VALUES ($1, $2, $3, $4, $5)`
		if _, err := tx.ExecContext(ctx, insertIdentity, id.Subject, id.FullName, id.TenantID, rolesRaw, id.CreatedAt); err != nil {
			return err
		}

		const insertCredential = `
			INSERT INTO credentials (subject, password_hash)
			VALUES ($1, $2)`
		_, err := tx.ExecContext(ctx, insertCredential, cred.Subject, cred.PasswordHash)
		return err
	})
}
