package tenant

import (
	"context"
	"errors"
	"time"
)

// Tenant owns identities and products. Every identity belongs to
// exactly one tenant from creation.
type Tenant struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

var ErrNotFound = errors.New("tenant not found")

type Repository interface {
	FindByID(ctx context.Context, id string) (Tenant, error)
	FindByName(ctx context.Context, name string) (Tenant, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	Save(ctx context.Context, t Tenant) error
}
