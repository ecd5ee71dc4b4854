package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestValidateImage(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		size        int64
		wantErr     error
	}{
		{"jpeg ok", "image/jpeg", 1024, nil},
		{"png ok", "image/png", MaxUploadBytes, nil},
		{"webp ok", "image/webp", 1, nil},
		{"too large", "image/png", MaxUploadBytes + 1, ErrFileTooLarge},
		{"pdf rejected", "application/pdf", 1024, ErrInvalidFileType},
		{"gif rejected", "image/gif", 1024, ErrInvalidFileType},
		{"empty type rejected", "", 1024, ErrInvalidFileType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateImage(tc.contentType, tc.size)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey("photo.png")
	if !strings.HasSuffix(key, "-photo.png") {
		t.Fatalf("key should preserve the filename, got %q", key)
	}
	if key == ObjectKey("photo.png") {
		t.Fatal("keys for the same filename must not collide")
	}

	// Path components in a client-supplied filename are stripped.
	if k := ObjectKey("../../etc/passwd"); !strings.HasSuffix(k, "-passwd") || strings.Contains(k, "..") {
		t.Fatalf("traversal not neutralized: %q", k)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()

	url, err := store.Put(context.Background(), "abc-photo.png", "image/png", []byte{1, 2, 3})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "memory://abc-photo.png" {
		t.Fatalf("unexpected url %q", url)
	}

	data, ok := store.Get("abc-photo.png")
	if !ok || len(data) != 3 {
		t.Fatalf("stored object not retrievable: ok=%v len=%d", ok, len(data))
	}
}
