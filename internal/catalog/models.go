package catalog

import (
	"context"
	"errors"
	"time"
)

// Product is a tenant-owned catalog entry. SellerSubject records the
// owning identity; ownership checks compare it against the caller's
// subject, with ADMIN as the only override.
type Product struct {
	ID            string    `json:"id"`
	TenantID      string    `json:"tenant_id"`
	SellerSubject string    `json:"seller_subject"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	PriceMinor    int64     `json:"price_minor"`
	Stock         int       `json:"stock"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

var (
	ErrNotFound        = errors.New("product not found")
	ErrDuplicateName   = errors.New("product name already in use")
	ErrDenied          = errors.New("operation not allowed")
	ErrInvalidArgument = errors.New("invalid argument")
)

// ListQuery filters and paginates product listings. An empty TenantID
// means all tenants (public listing); Search matches name and
// description, case-insensitive.
type ListQuery struct {
	TenantID      string `json:"tenant_id,omitempty"`
	SellerSubject string `json:"seller_subject,omitempty"`
	Search        string `json:"search,omitempty"`
	Offset        int    `json:"offset"`
	Limit         int    `json:"limit"`
}

// Page is one slice of a listing plus the unsliced total.
type Page struct {
	Items  []Product `json:"items"`
	Total  int64     `json:"total"`
	Offset int       `json:"offset"`
	Limit  int       `json:"limit"`
}

// Repository is the persistence contract for products.
type Repository interface {
	FindByID(ctx context.Context, id string) (Product, error)
	List(ctx context.Context, q ListQuery) (Page, error)
	// ExistsByName checks name uniqueness within a tenant, optionally
	// excluding one product id (for renames).
	ExistsByName(ctx context.Context, tenantID, name, excludeID string) (bool, error)
	Insert(ctx context.Context, p Product) error
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id string) error
}
