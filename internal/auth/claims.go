package auth

import "github.com/golang-jwt/jwt/v5"

// Claims are the only supported JWT claims shape for this service.
// Subject lives in RegisteredClaims.Subject; the signature covers the
// whole payload, so subject, tenant, roles and both timestamps cannot
// be tampered with independently.
type Claims struct {
	jwt.RegisteredClaims

	TenantID string   `json:"tenant_id"`
	Roles    []string `json:"roles"`
}
