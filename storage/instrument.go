package storage

import (
	"context"
	"time"

	apperrors "github.com/objkit/objkit/errors"
	"github.com/objkit/objkit/observability"
)

// WithObservability wraps a Store so every operation produces an
// OpenTelemetry span named "{serviceName}.storage.{operation}" and records
// the storage metric instruments. A nil metrics set skips metric recording.
func WithObservability(inner Store, serviceName string, metrics *observability.StorageMetrics) Store {
	return &instrumentedStore{inner: inner, serviceName: serviceName, metrics: metrics}
}

type instrumentedStore struct {
	inner       Store
	serviceName string
	metrics     *observability.StorageMetrics
}

// track opens the span for op and returns the enriched context plus a
// finish callback that closes it and records the instruments.
func (s *instrumentedStore) track(ctx context.Context, op, key string) (context.Context, func(err error, size int64)) {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, s.serviceName+".storage."+op)
	observability.SetSpanAttribute(ctx, observability.AttrServiceName, s.serviceName)
	observability.SetSpanAttribute(ctx, observability.AttrOperationName, op)
	observability.SetSpanAttribute(ctx, observability.AttrObjectKey, key)

	return ctx, func(err error, size int64) {
		defer span.End()

		status := "ok"
		if err != nil {
			status = "error"
			observability.SetSpanError(ctx, err)
			code := string(apperrors.CodeBackendUnavailable)
			if e := apperrors.AsError(err); e != nil {
				code = string(e.Code)
			}
			s.metrics.RecordError(ctx, op, code)
		}
		if size > 0 {
			observability.SetSpanAttribute(ctx, observability.AttrPayloadSize, size)
			s.metrics.RecordPayload(ctx, op, size)
		}
		s.metrics.RecordOperation(ctx, op, status, time.Since(start))
	}
}

func (s *instrumentedStore) Upload(ctx context.Context, key string, data []byte, contentType string) (*Result, error) {
	ctx, finish := s.track(ctx, "upload", key)
	res, err := s.inner.Upload(ctx, key, data, contentType)
	finish(err, int64(len(data)))
	return res, err
}

func (s *instrumentedStore) Download(ctx context.Context, key string) ([]byte, error) {
	ctx, finish := s.track(ctx, "download", key)
	data, err := s.inner.Download(ctx, key)
	finish(err, int64(len(data)))
	return data, err
}

func (s *instrumentedStore) Delete(ctx context.Context, key string) error {
	ctx, finish := s.track(ctx, "delete", key)
	err := s.inner.Delete(ctx, key)
	finish(err, 0)
	return err
}

func (s *instrumentedStore) Exists(ctx context.Context, key string) (bool, error) {
	ctx, finish := s.track(ctx, "exists", key)
	ok, err := s.inner.Exists(ctx, key)
	finish(err, 0)
	return ok, err
}

func (s *instrumentedStore) Metadata(ctx context.Context, key string) (*Metadata, error) {
	ctx, finish := s.track(ctx, "metadata", key)
	md, err := s.inner.Metadata(ctx, key)
	finish(err, 0)
	return md, err
}

func (s *instrumentedStore) ResolveURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	ctx, finish := s.track(ctx, "resolve_url", key)
	url, err := s.inner.ResolveURL(ctx, key, expiry)
	finish(err, 0)
	return url, err
}

var _ Store = (*instrumentedStore)(nil)
