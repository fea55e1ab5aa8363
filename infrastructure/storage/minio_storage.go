package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/domain/repository"
	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinio creates a client and makes sure the bucket exists.
func NewMinio(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*minio.Client, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		logger.GetLogger().WithField("bucket", bucket).Info("Bucket created")
	}
	return client, nil
}

// MinioStorage keeps video media as objects of one bucket. The object key is
// the storage reference kept on the video.
type MinioStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStorage builds URLs as publicURL/bucket/key. An empty publicURL
// falls back to the client endpoint.
func NewMinioStorage(client *minio.Client, bucket, publicURL string) repository.IMediaStorage {
	if publicURL == "" && client != nil {
		publicURL = client.EndpointURL().String()
	}
	return &MinioStorage{client: client, bucket: bucket, publicURL: strings.TrimSuffix(publicURL, "/")}
}

func objectKey(name string) string {
	ext := path.Ext(name)
	return fmt.Sprintf("videos/%s/%s%s", time.Now().UTC().Format("2006/01/02"), uuid.NewString(), ext)
}

func (s *MinioStorage) Upload(ctx context.Context, name string, content io.Reader, size int64, contentType string) (string, string, error) {
	key := objectKey(name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, content, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", "", fmt.Errorf("put object: %w", err)
	}
	logger.FromContext(ctx).WithField("key", info.Key).WithField("size", info.Size).Info("Video media stored")
	return s.URL(key), key, nil
}

func (s *MinioStorage) Remove(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	return s.client.RemoveObject(ctx, s.bucket, ref, minio.RemoveObjectOptions{})
}

func (s *MinioStorage) URL(key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key)
}
