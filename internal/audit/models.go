package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - tenant_id is required for tenancy isolation.
// - Actor and IP capture are best-effort; do not block business flows
//   on audit failures.
type Event struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenant_id" db:"tenant_id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorSubject is the authenticated caller causing the event.
	ActorSubject string `json:"actor_subject,omitempty" db:"actor_subject"`
	ActorRoles   string `json:"actor_roles,omitempty" db:"actor_roles"`

	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// ProductID is set for catalog events.
	ProductID string `json:"product_id,omitempty" db:"product_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeLogin         EventType = "login"
	EventTypeRegister      EventType = "register"
	EventTypeProductChange EventType = "product_change"
	EventTypeAccessDenied  EventType = "access_denied"
)
