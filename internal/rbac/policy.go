package rbac

// Pure authorization predicates. Callers turn a false result into
// their own denial error; nothing here writes HTTP responses or logs.
//
// There is no role hierarchy. ADMIN is an explicit override on
// ownership checks and role gates; SELLER is not above CUSTOMER.

// HasAnyRole reports whether the caller holds at least one of the
// allowed roles. An empty caller role set grants nothing.
func HasAnyRole(roles []string, allowed ...Role) bool {
	for _, r := range roles {
		for _, a := range allowed {
			if Role(r) == a {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether the role set contains ADMIN.
func IsAdmin(roles []string) bool {
	return HasAnyRole(roles, RoleAdmin)
}

// IsOwnerOrAdmin is the ownership gate used before resource mutation:
// the caller must be the owning subject, or hold ADMIN.
func IsOwnerOrAdmin(subject string, roles []string, ownerSubject string) bool {
	if subject != "" && subject == ownerSubject {
		return true
	}
	return IsAdmin(roles)
}
