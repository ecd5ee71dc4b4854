package tenant

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repository useful for tests and local
// development.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Tenant
	byName map[string]string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Tenant),
		byName: make(map[string]string),
	}
}

func (r *MemoryRepo) FindByID(_ context.Context, id string) (Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepo) FindByName(_ context.Context, name string) (Tenant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byName[name]
	if !ok {
		return Tenant{}, ErrNotFound
	}
	return r.byID[id], nil
}

func (r *MemoryRepo) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byID[id]
	return ok, nil
}

func (r *MemoryRepo) Save(_ context.Context, t Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[t.ID] = t
	r.byName[t.Name] = t.ID
	return nil
}
