package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := objectKey("holiday.MP4")
	assert.True(t, strings.HasPrefix(key, "videos/"))
	assert.True(t, strings.HasSuffix(key, ".MP4"))
	assert.NotEqual(t, key, objectKey("holiday.MP4"))
}

func TestMinioStorage_URL(t *testing.T) {
	client, err := minio.New("localhost:9000", &minio.Options{
		Creds: credentials.NewStaticV4("key", "secret", ""),
	})
	require.NoError(t, err)

	s := NewMinioStorage(client, "videos", "").(*MinioStorage)
	assert.Equal(t, "http://localhost:9000/videos/a/b.mp4", s.URL("a/b.mp4"))

	s = NewMinioStorage(client, "videos", "https://cdn.example.com/").(*MinioStorage)
	assert.Equal(t, "https://cdn.example.com/videos/a/b.mp4", s.URL("a/b.mp4"))
}

func TestMinioStorage_RemoveEmptyRef(t *testing.T) {
	s := NewMinioStorage(nil, "videos", "http://x")
	assert.NoError(t, s.Remove(context.Background(), ""))
}
