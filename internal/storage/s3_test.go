package storage

import (
	"context"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"marketplace-platform/internal/config"
)

func TestS3StorePut(t *testing.T) {
	var captured *http.Request
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(r.Context())
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Store(config.S3Config{
		Bucket:    "shop-images",
		Region:    "eu-west-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Endpoint:  srv.URL,
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	store.WithClock(func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) })

	url, err := store.Put(context.Background(), "abc-photo.png", "image/png", []byte("pngdata"))
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	// The public URL is always the AWS form, regardless of endpoint.
	if url != "https://shop-images.s3.eu-west-1.amazonaws.com/abc-photo.png" {
		t.Fatalf("unexpected public url %q", url)
	}

	if captured == nil {
		t.Fatal("server received no request")
	}
	if captured.Method != http.MethodPut {
		t.Fatalf("expected PUT, got %s", captured.Method)
	}
	if got := captured.URL.Path; got != "/shop-images/abc-photo.png" {
		t.Fatalf("expected path-style key, got %q", got)
	}
	if string(body) != "pngdata" {
		t.Fatalf("body not forwarded: %q", body)
	}
	if ct := captured.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type not set: %q", ct)
	}
	if d := captured.Header.Get("X-Amz-Date"); d != "20240115T120000Z" {
		t.Fatalf("unexpected amz date %q", d)
	}

	authz := captured.Header.Get("Authorization")
	if !strings.HasPrefix(authz, "AWS4-HMAC-SHA256 Credential=AKIATEST/20240115/eu-west-1/s3/aws4_request") {
		t.Fatalf("unexpected authorization header %q", authz)
	}
	if !strings.Contains(authz, "SignedHeaders=") || !strings.Contains(authz, "Signature=") {
		t.Fatalf("authorization header incomplete: %q", authz)
	}
}

func TestS3StorePutRejectsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store, err := NewS3Store(config.S3Config{
		Bucket:    "shop-images",
		Region:    "eu-west-1",
		AccessKey: "AKIATEST",
		SecretKey: "secret",
		Endpoint:  srv.URL,
	})
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if _, err := store.Put(context.Background(), "k", "image/png", []byte("x")); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}

func TestNewS3StoreValidation(t *testing.T) {
	if _, err := NewS3Store(config.S3Config{Region: "eu-west-1"}); err == nil {
		t.Fatal("expected error without bucket")
	}
	if _, err := NewS3Store(config.S3Config{Bucket: "b", Region: "r"}); err == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestDeriveSigningKey(t *testing.T) {
	// Known-answer vector from the AWS signature documentation.
	key := deriveSigningKey("wJalrXUtnFEMI/K7MDENG+bPxRfiCYEXAMPLEKEY", "20150830", "us-east-1", "iam")
	const want = "c4afb1cc5771d871763a393e44b703571b55cc28424d1a5e86da6ed3c154a4b9"
	if got := hex.EncodeToString(key); got != want {
		t.Fatalf("signing key mismatch: got %s", got)
	}
}
