package storage

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/estatedesk/estatedesk/internal/config"
)

// DocumentStore is a thin wrapper around the minio client holding property
// document files. Objects are keyed "properties/<propertyID>/<filename>".
type DocumentStore struct {
	client *minio.Client
	bucket string
}

// NewDocumentStore creates a MinIO client and ensures the bucket exists.
func NewDocumentStore(cfg *config.MinIOConfig) (*DocumentStore, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &DocumentStore{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// ObjectKey builds the canonical object key for a property document file.
func ObjectKey(propertyID, filename string) string {
	return fmt.Sprintf("properties/%s/%s", propertyID, filename)
}

// PresignedUploadURL returns a presigned PUT URL the client uses to upload a
// document file directly to object storage.
func (s *DocumentStore) PresignedUploadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	presigned, err := s.client.PresignedPutObject(ctx, s.bucket, key, expires)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}

// PresignedDownloadURL returns a presigned GET URL valid for the given duration.
func (s *DocumentStore) PresignedDownloadURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
