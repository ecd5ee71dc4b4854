package audit

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Repository is the persistence contract for audit events. It MUST be
// append-only; no Update/Delete methods are provided.
type Repository interface {
	Append(ctx context.Context, e Event) error
}

// Service logs internal audit information. Audit records are
// internal-only and never exposed to tenant users; callers treat
// logging as best-effort.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

var ErrInvalidEvent = errors.New("audit: invalid event")

func (s *Service) Append(ctx context.Context, e Event) error {
	if s.repo == nil {
		return errors.New("audit: repository not configured")
	}
	if e.TenantID == "" {
		return ErrInvalidEvent
	}
	if e.Type == "" {
		return ErrInvalidEvent
	}

	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// LogAuth records a successful login or registration.
func (s *Service) LogAuth(ctx context.Context, typ EventType, tenantID, subject, ip string) error {
	return s.Append(ctx, Event{
		TenantID:     tenantID,
		Type:         typ,
		ActorSubject: subject,
		IPAddress:    ip,
	})
}

// LogProductChange records a catalog mutation.
func (s *Service) LogProductChange(ctx context.Context, tenantID, subject, roles, productID, message string) error {
	return s.Append(ctx, Event{
		TenantID:     tenantID,
		Type:         EventTypeProductChange,
		ActorSubject: subject,
		ActorRoles:   roles,
		ProductID:    productID,
		Message:      message,
	})
}

// LogDenied records an authorization denial on a protected resource.
func (s *Service) LogDenied(ctx context.Context, tenantID, subject, roles, productID string) error {
	return s.Append(ctx, Event{
		TenantID:     tenantID,
		Type:         EventTypeAccessDenied,
		ActorSubject: subject,
		ActorRoles:   roles,
		ProductID:    productID,
		Message:      "ownership check failed",
	})
}
