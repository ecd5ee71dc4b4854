package auth

import (
	"context"
	"time"
)

// Identity is the stored user record. Immutable after registration
// except for role changes, which go through an administrative flow.
type Identity struct {
	Subject   string    `json:"subject"`
	FullName  string    `json:"full_name"`
	TenantID  string    `json:"tenant_id"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

// Credential pairs a subject with its password hash, one-to-one with
// Identity. The raw password never reaches storage.
type Credential struct {
	Subject      string
	PasswordHash string
}

// IdentityRepository is the persistence collaborator for identities.
// Absent subjects are reported as ErrIdentityNotFound.
type IdentityRepository interface {
	FindBySubject(ctx context.Context, subject string) (Identity, error)
	ExistsBySubject(ctx context.Context, subject string) (bool, error)
	FindCredential(ctx context.Context, subject string) (Credential, error)
	Save(ctx context.Context, id Identity, cred Credential) error
}

// TenantDirectory is the narrow tenant lookup the registration flow
// needs; the full tenant store lives in internal/tenant.
type TenantDirectory interface {
	ExistsByID(ctx context.Context, id string) (bool, error)
}
