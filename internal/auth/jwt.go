package auth

import (
	"errors"
	"time"

	"marketplace-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and decodes signed session tokens. It holds no
// per-session state: decoding is a pure function of the token string,
// the shared secret and the supplied clock reading.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, errors.New("token TTL must be positive")
	}
	return &Manager{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		ttl:    cfg.TokenTTL,
	}, nil
}

// TTL returns the fixed session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Issue signs a session token for subject with issuedAt = now and
// expiresAt = now + ttl. Roles are embedded as issued; they are not
// refreshed if the identity's roles change before expiry.
func (m *Manager) Issue(now time.Time, subject, tenantID string, roles []string) (string, error) {
	if subject == "" {
		return "", errors.New("subject is required")
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			ID:        uuid.NewString(),
		},
		TenantID: tenantID,
		Roles:    roles,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(m.secret)
}

// Decode verifies signature and expiry against the supplied now and
// returns the claims exactly as encoded. No storage lookup happens
// here; a deleted identity keeps a usable token until expiry and is
// only caught when the subject is resolved.
//
// Failure taxonomy: ErrTokenMalformed, ErrTokenSignatureInvalid,
// ErrTokenExpired.
func (m *Manager) Decode(tokenString string, now time.Time) (Claims, error) {
	var claims Claims

	// Claims validation is run separately with an injected clock, so
	// the parser only checks structure and signature.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	if err := jwt.NewValidator(opts...).Validate(claims.RegisteredClaims); err != nil {
		return Claims{}, mapParseError(err)
	}

	if claims.Subject == "" {
		return Claims{}, ErrTokenMalformed
	}
	return claims, nil
}

func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrSignatureInvalid):
		return ErrTokenSignatureInvalid
	default:
		// Covers malformed structure, wrong algorithm, missing exp,
		// issuer mismatch.
		return ErrTokenMalformed
	}
}
