package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("longsecret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "longsecret1" {
		t.Fatalf("hash must not equal the plain password")
	}
	if !VerifyPassword("longsecret1", hash) {
		t.Fatalf("expected match")
	}
	if VerifyPassword("wrongsecret", hash) {
		t.Fatalf("expected mismatch")
	}
}

func TestHashIsSalted(t *testing.T) {
	h1, err := HashPassword("longsecret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("longsecret1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected per-hash salt to differ")
	}
	if !VerifyPassword("longsecret1", h2) {
		t.Fatalf("expected second hash to verify")
	}
}
