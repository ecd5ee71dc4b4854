package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"marketplace-platform/internal/audit"
	"marketplace-platform/internal/auth"
	"marketplace-platform/internal/rbac"
	"marketplace-platform/internal/storage"

	"github.com/google/uuid"
)

// Service provides product operations.
//
// Authorization invariants:
//   - Mutations require the caller to own the product, or hold ADMIN.
//   - Reads of seller-scoped listings are confined to the caller's
//     tenant.
//
// The principal is always passed explicitly; this package never pulls
// identity out of anything shared.
type Service struct {
	repo   Repository
	store  storage.ObjectStore
	audits *audit.Service
	cache  *ListingCache

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

// NewService wires the catalog. store, audits and cache may be nil:
// without a store image uploads fail, without audits nothing is
// logged, without a cache every listing hits the database.
func NewService(repo Repository, store storage.ObjectStore, audits *audit.Service, cache *ListingCache) *Service {
	return &Service{repo: repo, store: store, audits: audits, cache: cache, clock: time.Now}
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor"`
	Stock       int    `json:"stock"`
}

type UpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceMinor  int64  `json:"price_minor"`
	Stock       int    `json:"stock"`
}

// ImageUpload carries one uploaded file through validation and into
// object storage.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// Create inserts a product owned by the caller. img may be nil.
func (s *Service) Create(ctx context.Context, p auth.Principal, req CreateRequest, img *ImageUpload) (Product, error) {
	if !rbac.HasAnyRole(p.Roles, rbac.RoleSeller, rbac.RoleAdmin) {
		return Product{}, ErrDenied
	}
	if err := validateProduct(req.Name, req.PriceMinor, req.Stock); err != nil {
		return Product{}, err
	}

	if exists, err := s.repo.ExistsByName(ctx, p.TenantID, req.Name, ""); err != nil {
		return Product{}, err
	} else if exists {
		return Product{}, ErrDuplicateName
	}

	imageURL, err := s.uploadImage(ctx, img)
	if err != nil {
		return Product{}, err
	}

	now := s.clock().UTC()
	product := Product{
		ID:            uuid.NewString(),
		TenantID:      p.TenantID,
		SellerSubject: p.Subject,
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		PriceMinor:    req.PriceMinor,
		Stock:         req.Stock,
		ImageURL:      imageURL,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.Insert(ctx, product); err != nil {
		return Product{}, err
	}
	s.afterMutation(ctx, p, product.ID, "product created")
	return product, nil
}

// Get returns a product by id. Reads are public; visibility scoping
// happens at listing level.
func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if id == "" {
		return Product{}, ErrInvalidArgument
	}
	return s.repo.FindByID(ctx, id)
}

// List returns a listing page, served from cache when possible.
func (s *Service) List(ctx context.Context, q ListQuery) (Page, error) {
	if q.Limit <= 0 || q.Limit > 200 {
		q.Limit = 50
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	if s.cache != nil {
		if page, ok := s.cache.Get(ctx, q); ok {
			return page, nil
		}
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, q, page)
	}
	return page, nil
}

// ListMine returns the caller's own products within their tenant.
func (s *Service) ListMine(ctx context.Context, p auth.Principal) (Page, error) {
	return s.List(ctx, ListQuery{TenantID: p.TenantID, SellerSubject: p.Subject})
}

// Search is tenant-scoped text search over name and description.
func (s *Service) Search(ctx context.Context, tenantID, query string, offset, limit int) (Page, error) {
	return s.List(ctx, ListQuery{TenantID: tenantID, Search: query, Offset: offset, Limit: limit})
}

// Update mutates a product after the ownership check.
func (s *Service) Update(ctx context.Context, p auth.Principal, id string, req UpdateRequest) (Product, error) {
	product, err := s.requireOwnerOrAdmin(ctx, p, id)
	if err != nil {
		return Product{}, err
	}
	if err := validateProduct(req.Name, req.PriceMinor, req.Stock); err != nil {
		return Product{}, err
	}
	if exists, err := s.repo.ExistsByName(ctx, product.TenantID, req.Name, id); err != nil {
		return Product{}, err
	} else if exists {
		return Product{}, ErrDuplicateName
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.PriceMinor = req.PriceMinor
	product.Stock = req.Stock
	product.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, err
	}
	s.afterMutation(ctx, p, product.ID, "product updated")
	return product, nil
}

// UpdateImage replaces the product image after the ownership check.
func (s *Service) UpdateImage(ctx context.Context, p auth.Principal, id string, img *ImageUpload) (Product, error) {
	product, err := s.requireOwnerOrAdmin(ctx, p, id)
	if err != nil {
		return Product{}, err
	}
	if img == nil {
		return Product{}, fmt.Errorf("%w: image is required", ErrInvalidArgument)
	}

	imageURL, err := s.uploadImage(ctx, img)
	if err != nil {
		return Product{}, err
	}
	product.ImageURL = imageURL
	product.UpdatedAt = s.clock().UTC()

	if err := s.repo.Update(ctx, product); err != nil {
		return Product{}, err
	}
	s.afterMutation(ctx, p, product.ID, "product image updated")
	return product, nil
}

// Delete removes a product after the ownership check.
func (s *Service) Delete(ctx context.Context, p auth.Principal, id string) error {
	product, err := s.requireOwnerOrAdmin(ctx, p, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return err
	}
	s.afterMutation(ctx, p, product.ID, "product deleted")
	return nil
}

func (s *Service) requireOwnerOrAdmin(ctx context.Context, p auth.Principal, id string) (Product, error) {
	if id == "" {
		return Product{}, ErrInvalidArgument
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if !rbac.IsOwnerOrAdmin(p.Subject, p.Roles, product.SellerSubject) {
		if s.audits != nil {
			_ = s.audits.LogDenied(ctx, product.TenantID, p.Subject, strings.Join(p.Roles, ","), product.ID)
		}
		return Product{}, ErrDenied
	}
	return product, nil
}

func (s *Service) uploadImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", nil
	}
	if err := storage.ValidateImage(img.ContentType, img.Size); err != nil {
		return "", err
	}
	if s.store == nil {
		return "", fmt.Errorf("%w: object storage not configured", ErrInvalidArgument)
	}
	return s.store.Put(ctx, storage.ObjectKey(img.Filename), img.ContentType, img.Data)
}

func (s *Service) afterMutation(ctx context.Context, p auth.Principal, productID, message string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, p.TenantID)
	}
	if s.audits != nil {
		_ = s.audits.LogProductChange(ctx, p.TenantID, p.Subject, strings.Join(p.Roles, ","), productID, message)
	}
}

func validateProduct(name string, priceMinor int64, stock int) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if priceMinor < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	}
	if stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidArgument)
	}
	return nil
}
