package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Service orchestrates registration and login, and resolves the
// current caller from the request context. It owns no session state;
// the token itself is the session.
type Service struct {
	identities IdentityRepository
	tenants    TenantDirectory
	codec      *Manager
	limiter    LoginLimiter
	opts       ServiceOptions

	// clock is injectable for deterministic tests.
	clock func() time.Time
}

// ServiceOptions carries the registration policy. RoleValid is
// injected so this package stays decoupled from the role catalog.
type ServiceOptions struct {
	DefaultRoles      []string
	MinPasswordLength int
	RoleValid         func(string) bool
}

func NewService(identities IdentityRepository, tenants TenantDirectory, codec *Manager, limiter LoginLimiter, opts ServiceOptions) (*Service, error) {
	if identities == nil || tenants == nil || codec == nil {
		return nil, errors.New("identities, tenants and codec are required")
	}
	if len(opts.DefaultRoles) == 0 {
		return nil, errors.New("at least one default role is required")
	}
	if opts.MinPasswordLength <= 0 {
		opts.MinPasswordLength = 8
	}
	return &Service{
		identities: identities,
		tenants:    tenants,
		codec:      codec,
		limiter:    limiter,
		opts:       opts,
		clock:      time.Now,
	}, nil
}

type RegisterRequest struct {
	Subject  string `json:"subject"`
	FullName string `json:"full_name"`
	TenantID string `json:"tenant_id"`
	Password string `json:"password"`

	// Roles is used by seeding and administrative flows only; the
	// public endpoint leaves it empty and gets the default role.
	Roles []string `json:"-"`
}

// Register creates an Identity plus Credential and returns a session
// token for the new subject. The returned Identity carries the
// normalized subject as stored, which is what audit records should
// reference.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, Identity, error) {
	subject := normalizeSubject(req.Subject)
	if subject == "" {
		return "", Identity{}, fmt.Errorf("%w: empty subject", ErrInvalidCredentials)
	}

	exists, err := s.identities.ExistsBySubject(ctx, subject)
	if err != nil {
		return "", Identity{}, err
	}
	if exists {
		return "", Identity{}, ErrDuplicateSubject
	}

	if len(req.Password) < s.opts.MinPasswordLength {
		return "", Identity{}, fmt.Errorf("%w: need at least %d characters", ErrWeakPassword, s.opts.MinPasswordLength)
	}

	tenantID := strings.TrimSpace(req.TenantID)
	ok, err := s.tenants.ExistsByID(ctx, tenantID)
	if err != nil {
		return "", Identity{}, err
	}
	if !ok {
		return "", Identity{}, ErrTenantNotFound
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = s.opts.DefaultRoles
	}
	if s.opts.RoleValid != nil {
		for _, r := range roles {
			if !s.opts.RoleValid(r) {
				return "", Identity{}, fmt.Errorf("%w: %q", ErrUnknownRole, r)
			}
		}
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return "", Identity{}, err
	}

	id := Identity{
		Subject:   subject,
		FullName:  strings.TrimSpace(req.FullName),
		TenantID:  tenantID,
		Roles:     roles,
		CreatedAt: s.clock().UTC(),
	}
	cred := Credential{Subject: subject, PasswordHash: hash}
	if err := s.identities.Save(ctx, id, cred); err != nil {
		return "", Identity{}, err
	}

	token, err := s.codec.Issue(s.clock(), subject, tenantID, roles)
	if err != nil {
		return "", Identity{}, err
	}
	return token, id, nil
}

// Login verifies the password and returns a token carrying the
// identity's current roles, plus the identity itself for callers that
// record the outcome. Unknown subject and wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, subject, password string) (string, Identity, error) {
	subject = normalizeSubject(subject)
	if subject == "" || password == "" {
		return "", Identity{}, ErrInvalidCredentials
	}

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, subject)
		// A limiter outage must not lock everyone out; only an
		// explicit denial blocks the attempt.
		if err == nil && !allowed {
			return "", Identity{}, ErrTooManyAttempts
		}
	}

	cred, err := s.identities.FindCredential(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return "", Identity{}, ErrInvalidCredentials
		}
		return "", Identity{}, err
	}
	if !VerifyPassword(password, cred.PasswordHash) {
		return "", Identity{}, ErrInvalidCredentials
	}

	id, err := s.identities.FindBySubject(ctx, subject)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return "", Identity{}, ErrInvalidCredentials
		}
		return "", Identity{}, err
	}

	token, err := s.codec.Issue(s.clock(), id.Subject, id.TenantID, id.Roles)
	if err != nil {
		return "", Identity{}, err
	}
	return token, id, nil
}

// CurrentIdentity resolves the request principal to a stored Identity.
// The token stays valid until expiry even if the identity was deleted
// after issuance; that staleness surfaces here as ErrIdentityNotFound.
func (s *Service) CurrentIdentity(ctx context.Context) (Identity, error) {
	p, ok := PrincipalFrom(ctx)
	if !ok {
		return Identity{}, ErrNotAuthenticated
	}
	return s.identities.FindBySubject(ctx, p.Subject)
}

func normalizeSubject(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
