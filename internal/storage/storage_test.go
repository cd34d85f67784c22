package storage

import (
	"alcyxob/training-app/internal/config"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageExtension(t *testing.T) {
	ext, ok := ImageExtension("image/PNG")
	assert.True(t, ok)
	assert.Equal(t, ".png", ext)

	_, ok = ImageExtension("application/pdf")
	assert.False(t, ok)
}

func TestExerciseImageKey(t *testing.T) {
	a := ExerciseImageKey("abc", ".jpg")
	b := ExerciseImageKey("abc", ".jpg")

	assert.True(t, strings.HasPrefix(a, "exercises/abc/"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.NotEqual(t, a, b)
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://s3.local:9000", endpointURL("s3.local:9000", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}

func TestS3Storage_PresignDoesNotCallOut(t *testing.T) {
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		BucketName:      "training",
	})
	require.NoError(t, err)

	url, err := fs.GeneratePresignedUploadURL(context.Background(), "exercises/x/y.png", "image/png", time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "http://localhost:9000/training/exercises/x/y.png")
	assert.Contains(t, url, "X-Amz-Signature=")

	url, err = fs.GeneratePresignedDownloadURL(context.Background(), "exercises/x/y.png", 0)
	require.NoError(t, err)
	assert.Contains(t, url, "X-Amz-Expires=900")
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
