package auth

import "context"

// Principal is the request-scoped security context derived from a
// validated token. It must only ever live inside a request's
// context.Context; storing it anywhere shared would leak one caller's
// identity into another's request.
type Principal struct {
	Subject  string
	TenantID string
	Roles    []string
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFrom returns the request principal, if one was attached by
// the authentication middleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p.Subject == "" {
		return Principal{}, false
	}
	return p, true
}
