package rbac

import "fmt"

// Role is a closed set. Keep the names stable; they are embedded in
// issued tokens and stored on identities.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleSeller   Role = "SELLER"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole rejects anything outside the closed set. Unknown role
// strings must never reach storage or a token.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func IsValidRole(s string) bool {
	_, err := ParseRole(s)
	return err == nil
}

// ValidateRoles checks every element against the closed set.
func ValidateRoles(roles []string) error {
	for _, r := range roles {
		if _, err := ParseRole(r); err != nil {
			return err
		}
	}
	return nil
}
