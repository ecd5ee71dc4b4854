package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"marketplace-platform/internal/config"
)

func testManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(config.AuthConfig{
		JWTSecret: "test-secret",
		JWTIssuer: "marketplace",
		TokenTTL:  1 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestIssueAndDecodeRoundtrip(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, "a@b.c", "tenant-1", []string{"SELLER", "CUSTOMER"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Decode(tok, now.Add(1*time.Minute))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if claims.Subject != "a@b.c" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.TenantID != "tenant-1" {
		t.Fatalf("unexpected tenant %q", claims.TenantID)
	}
	if len(claims.Roles) != 2 || claims.Roles[0] != "SELLER" || claims.Roles[1] != "CUSTOMER" {
		t.Fatalf("roles not preserved: %v", claims.Roles)
	}
	if !claims.IssuedAt.Time.Equal(now) {
		t.Fatalf("unexpected iat %v", claims.IssuedAt.Time)
	}
	if !claims.ExpiresAt.Time.Equal(now.Add(1 * time.Hour)) {
		t.Fatalf("unexpected exp %v", claims.ExpiresAt.Time)
	}
}

func TestDecodeEmptyRolesPreserved(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, err := m.Issue(now, "a@b.c", "tenant-1", nil)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := m.Decode(tok, now)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(claims.Roles) != 0 {
		t.Fatalf("expected no roles, got %v", claims.Roles)
	}
}

func TestDecodeExpired(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, _ := m.Issue(now, "a@b.c", "tenant-1", []string{"CUSTOMER"})
	_, err := m.Decode(tok, now.Add(2*time.Hour))
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestDecodeTamperedPayload(t *testing.T) {
	m := testManager(t)
	now := time.Unix(1700000000, 0).UTC()

	tok, _ := m.Issue(now, "a@b.c", "tenant-1", []string{"CUSTOMER"})
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three token parts")
	}
	// Flip a payload byte; signature no longer covers the content.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err := m.Decode(tampered, now)
	if !errors.Is(err, ErrTokenSignatureInvalid) && !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected signature or malformed error, got %v", err)
	}
	if err == nil {
		t.Fatalf("tampered token decoded")
	}
}

func TestDecodeWrongSecret(t *testing.T) {
	m := testManager(t)
	other, err := NewManager(config.AuthConfig{JWTSecret: "other-secret", JWTIssuer: "marketplace", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	now := time.Unix(1700000000, 0).UTC()

	tok, _ := other.Issue(now, "a@b.c", "tenant-1", []string{"CUSTOMER"})
	if _, err := m.Decode(tok, now); !errors.Is(err, ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestDecodeGarbage(t *testing.T) {
	m := testManager(t)
	if _, err := m.Decode("not-a-token", time.Now()); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("expected ErrTokenMalformed, got %v", err)
	}
}
