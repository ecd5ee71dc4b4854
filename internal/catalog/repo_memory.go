package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests and local
// development.
type MemoryRepo struct {
	mu       sync.RWMutex
	products map[string]Product
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{products: make(map[string]Product)}
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (r *MemoryRepo) List(_ context.Context, q ListQuery) (Page, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Product, 0, len(r.products))
	needle := strings.ToLower(strings.TrimSpace(q.Search))
	for _, p := range r.products {
		if q.TenantID != "" && p.TenantID != q.TenantID {
			continue
		}
		if q.SellerSubject != "" && p.SellerSubject != q.SellerSubject {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })

	page := Page{Total: int64(len(matched)), Offset: q.Offset, Limit: q.Limit}
	start := q.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := len(matched)
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}
	page.Items = append([]Product(nil), matched[start:end]...)
	return page, nil
}

func (r *MemoryRepo) ExistsByName(_ context.Context, tenantID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.products {
		if p.TenantID == tenantID && strings.EqualFold(p.Name, name) && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepo) Insert(_ context.Context, p Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
	return nil
}

func (r *MemoryRepo) Update(_ context.Context, p Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[p.ID]; !ok {
		return ErrNotFound
	}
	r.products[p.ID] = p
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ErrNotFound
	}
	delete(r.products, id)
	return nil
}
