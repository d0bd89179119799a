// Package s3 provides an Amazon S3 (or S3-compatible) storage backend.
// Importing it registers the "s3" provider with the storage factory.
package s3

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/objkit/objkit/logger"
	"github.com/objkit/objkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderS3, func(cfg storage.Config, log *logger.Logger) (storage.Backend, error) {
		return NewBackend(context.Background(), cfg)
	})
}

// Backend implements storage.Backend using Amazon S3 (or S3-compatible
// services via a custom endpoint).
type Backend struct {
	client  *awss3.Client
	presign *awss3.PresignClient
	bucket  string
}

// NewBackend creates a new S3 backend from the given config.
func NewBackend(ctx context.Context, cfg storage.Config) (*Backend, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load aws config: %w", err)
	}

	var s3Opts []func(*awss3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *awss3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Custom endpoints (MinIO and friends) need path-style keys.
			o.UsePathStyle = true
		})
	}

	client := awss3.NewFromConfig(awsCfg, s3Opts...)
	return &Backend{
		client:  client,
		presign: awss3.NewPresignClient(client),
		bucket:  cfg.Bucket,
	}, nil
}

// Put writes size bytes from r under key, overwriting any existing object.
func (b *Backend) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := b.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:        aws.String(b.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return translate("put", key, err)
	}
	return nil
}

// Get returns the object stream and its declared length (-1 when the
// backend does not report one).
func (b *Backend) Get(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	out, err := b.client.GetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, translate("get", key, err)
	}

	declared := int64(-1)
	if out.ContentLength != nil {
		declared = *out.ContentLength
	}
	return out.Body, declared, nil
}

// Delete removes the object. S3 DeleteObject already succeeds for absent
// keys, so no NotFound translation is needed here.
func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.client.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return translate("delete", key, err)
	}
	return nil
}

// Stat returns object attributes from a HEAD request.
func (b *Backend) Stat(ctx context.Context, key string) (*storage.ObjectStat, error) {
	out, err := b.client.HeadObject(ctx, &awss3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, translate("stat", key, err)
	}

	stat := &storage.ObjectStat{
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}
	if out.ContentLength != nil {
		stat.Size = *out.ContentLength
	}
	if out.LastModified != nil {
		stat.LastModified = *out.LastModified
	}
	return stat, nil
}

// SignURL returns a presigned GET URL valid for expiry.
func (b *Backend) SignURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	req, err := b.presign.PresignGetObject(ctx, &awss3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key),
	}, awss3.WithPresignExpires(expiry))
	if err != nil {
		return "", translate("sign", key, err)
	}
	return req.URL, nil
}

var _ storage.Backend = (*Backend)(nil)
