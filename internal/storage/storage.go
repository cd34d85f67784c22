package storage

import (
	"context"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that accepts a PUT of the object body.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL for reading the object.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object. Deleting a missing key is not an error.
	DeleteObject(ctx context.Context, objectKey string) error
}

var allowedImageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// ImageExtension returns the file extension for an accepted image content type.
func ImageExtension(contentType string) (string, bool) {
	ext, ok := allowedImageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	return ext, ok
}

// ExerciseImageKey builds a fresh object key for an exercise illustration,
// e.g. exercises/6630.../3f1c....png
func ExerciseImageKey(exerciseID, ext string) string {
	return path.Join("exercises", exerciseID, uuid.NewString()+ext)
}
