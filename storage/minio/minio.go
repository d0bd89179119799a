// Package minio provides a MinIO storage backend. It works against any
// S3-compatible object store addressed by host:port. Importing it registers
// the "minio" provider with the storage factory.
package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/objkit/objkit/logger"
	"github.com/objkit/objkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderMinio, func(cfg storage.Config, log *logger.Logger) (storage.Backend, error) {
		return NewBackend(cfg)
	})
}

// Backend implements storage.Backend using the MinIO client.
type Backend struct {
	client *minio.Client
	bucket string
}

// NewBackend creates a MinIO backend from the given config. The bucket must
// already exist; bucket provisioning is a deployment concern.
func NewBackend(cfg storage.Config) (*Backend, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio: create client: %w", err)
	}
	return &Backend{client: client, bucket: cfg.Bucket}, nil
}

// Put streams size bytes from r to the bucket under key.
func (b *Backend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return translate("put", key, err)
	}
	return nil
}

// Get returns the object stream and its declared length. MinIO resolves
// object info lazily, so absence surfaces on the Stat call here rather
// than on GetObject itself.
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	obj, err := b.client.GetObject(ctx, b.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, translate("get", key, err)
	}

	info, err := obj.Stat()
	if err != nil {
		obj.Close() //nolint:errcheck // already failing
		return nil, 0, translate("get", key, err)
	}
	return obj, info.Size, nil
}

// Delete removes the object. MinIO RemoveObject succeeds for absent keys.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.RemoveObject(ctx, b.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return translate("delete", key, err)
	}
	return nil
}

// Stat returns object attributes.
func (b *Backend) Stat(ctx context.Context, key string) (*storage.ObjectStat, error) {
	info, err := b.client.StatObject(ctx, b.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, translate("stat", key, err)
	}
	return &storage.ObjectStat{
		Size:         info.Size,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
		ETag:         info.ETag,
	}, nil
}

// SignURL returns a presigned GET URL valid for expiry.
func (b *Backend) SignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := b.client.PresignedGetObject(ctx, b.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", translate("sign", key, err)
	}
	return u.String(), nil
}

var _ storage.Backend = (*Backend)(nil)
