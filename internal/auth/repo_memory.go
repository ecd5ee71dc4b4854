package auth

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory IdentityRepository useful for tests and
// local development. It is not intended for production use.
type MemoryRepo struct {
	mu          sync.RWMutex
	identities  map[string]Identity
	credentials map[string]Credential
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		identities:  make(map[string]Identity),
		credentials: make(map[string]Credential),
	}
}

func (r *MemoryRepo) FindBySubject(_ context.Context, subject string) (Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.identities[subject]
	if !ok {
		return Identity{}, ErrIdentityNotFound
	}
	return id, nil
}

func (r *MemoryRepo) ExistsBySubject(_ context.Context, subject string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.identities[subject]
	return ok, nil
}

func (r *MemoryRepo) FindCredential(_ context.Context, subject string) (Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cred, ok := r.credentials[subject]
	if !ok {
		return Credential{}, ErrIdentityNotFound
	}
	return cred, nil
}

func (r *MemoryRepo) Save(_ context.Context, id Identity, cred Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities[id.Subject] = id
	r.credentials[cred.Subject] = cred
	return nil
}

// Delete removes an identity; used to exercise the token-outlives-
// identity staleness window in tests.
func (r *MemoryRepo) Delete(_ context.Context, subject string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.identities, subject)
	delete(r.credentials, subject)
}
