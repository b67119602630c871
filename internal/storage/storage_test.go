package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"alcyxob/workout-tracker/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) FileStorage {
	t.Helper()
	fs, err := NewS3Storage(context.Background(), config.S3Config{
		Endpoint:        "http://localhost:9000",
		Region:          "us-east-1",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		BucketName:      "exercise-images",
		PresignExpiry:   time.Minute,
	})
	require.NoError(t, err)
	return fs
}

func TestIsObjectKey(t *testing.T) {
	assert.True(t, IsObjectKey("exercises/bench.jpg"))
	assert.True(t, IsObjectKey("/exercises/bench.jpg"))
	assert.False(t, IsObjectKey(""))
	assert.False(t, IsObjectKey("https://cdn.example.com/bench.jpg"))
	assert.False(t, IsObjectKey("//cdn.example.com/bench.jpg"))
}

func TestResolveImageURL(t *testing.T) {
	ctx := context.Background()
	fs := newTestStorage(t)

	abs := "https://cdn.example.com/bench.jpg"
	got, err := ResolveImageURL(ctx, fs, abs, 0)
	require.NoError(t, err)
	assert.Equal(t, abs, got)

	got, err = ResolveImageURL(ctx, fs, "exercises/bench.jpg", 0)
	require.NoError(t, err)
	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/exercise-images/exercises/bench.jpg", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.Equal(t, "60", u.Query().Get("X-Amz-Expires"))

	got, err = ResolveImageURL(ctx, nil, "exercises/bench.jpg", 0)
	require.NoError(t, err)
	assert.Equal(t, "exercises/bench.jpg", got)
}

func TestPresignedUpload(t *testing.T) {
	fs := newTestStorage(t)
	got, err := fs.GeneratePresignedUploadURL(context.Background(), "exercises/e1/a.png", "image/png", 5*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, got, "/exercise-images/exercises/e1/a.png")
	assert.Contains(t, got, "X-Amz-Expires=300")
}

func TestNewImageKey(t *testing.T) {
	key, err := NewImageKey("e1", "image/png")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "exercises/e1/"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	_, err = NewImageKey("e1", "video/mp4")
	assert.ErrorIs(t, err, ErrInvalidContentType)
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	_, err := NewS3Storage(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
