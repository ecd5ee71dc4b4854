package rbac

import (
	"net/http"

	"marketplace-platform/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAuthenticated rejects requests that reached a protected
// route without a principal. The authentication middleware never
// writes 401; this is where "no token" becomes visible to the client.
func RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.PrincipalFrom(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}

// RequireAnyRole allows the request through if the caller holds any of
// the provided roles. ADMIN bypasses the gate. An authenticated caller
// with no matching role gets 403, not 401.
func RequireAnyRole(allowed ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := auth.PrincipalFrom(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if IsAdmin(p.Roles) {
			c.Next()
			return
		}
		if !HasAnyRole(p.Roles, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
