package auth

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// Authenticate decodes a bearer token, if present, and attaches the
// resulting Principal to the request context. It deliberately never
// writes 401 itself: a missing or invalid token just leaves the
// request without a principal, and the authorization layer rejects
// protected operations uniformly. Paths on the public allow-list are
// passed through without attempting a decode.
//
// The middleware does no I/O; validation cost is the HMAC check only.
func Authenticate(m *Manager, publicPaths ...string) gin.HandlerFunc {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := public[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.Next()
			return
		}

		claims, err := m.Decode(strings.TrimPrefix(raw, bearerPrefix), time.Now())
		if err != nil {
			// Expired, malformed or forged: proceed without principal.
			c.Next()
			return
		}

		p := Principal{
			Subject:  claims.Subject,
			TenantID: claims.TenantID,
			Roles:    claims.Roles,
		}
		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))

		// Also store on gin context for handler convenience.
		c.Set("subject", p.Subject)
		c.Set("tenant_id", p.TenantID)

		c.Next()
	}
}
