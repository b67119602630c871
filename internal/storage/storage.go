package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// imagePrefix is the key prefix of every exercise image in the bucket.
const imagePrefix = "exercises"

var ErrInvalidContentType = errors.New("only image uploads are accepted")

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading/viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// IsObjectKey reports whether an img_url value names an object in the
// bucket rather than an absolute URL or nothing at all.
func IsObjectKey(ref string) bool {
	if ref == "" {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

// ResolveImageURL turns a stored image reference into something a browser can
// load. Absolute URLs are returned as is; object keys are presigned. A nil
// store leaves every reference untouched.
func ResolveImageURL(ctx context.Context, fs FileStorage, ref string, expires time.Duration) (string, error) {
	if fs == nil || !IsObjectKey(ref) {
		return ref, nil
	}
	return fs.GeneratePresignedDownloadURL(ctx, strings.TrimPrefix(ref, "/"), expires)
}

// NewImageKey returns a fresh object key for an image of exerciseID.
func NewImageKey(exerciseID, contentType string) (string, error) {
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidContentType, contentType)
	}
	return path.Join(imagePrefix, exerciseID, uuid.NewString()+ext), nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}
