package storage

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/google/uuid"
)

// Upload size and type limits for product images.
const MaxUploadBytes = 5 * 1024 * 1024

var allowedContentTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
}

var (
	ErrFileTooLarge    = errors.New("file exceeds 5MB limit")
	ErrInvalidFileType = errors.New("only JPEG, PNG or WEBP images are allowed")
)

// ObjectStore persists uploaded binaries and returns a public URL.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (url string, err error)
}

// ValidateImage enforces the upload contract before any bytes leave
// the process.
func ValidateImage(contentType string, size int64) error {
	if size > MaxUploadBytes {
		return ErrFileTooLarge
	}
	if _, ok := allowedContentTypes[contentType]; !ok {
		return fmt.Errorf("%w: got %q", ErrInvalidFileType, contentType)
	}
	return nil
}

// ObjectKey builds a collision-free key preserving the original
// filename for readability.
func ObjectKey(filename string) string {
	return uuid.NewString() + "-" + path.Base(filename)
}
