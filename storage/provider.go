package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	apperrors "github.com/objkit/objkit/errors"
	"github.com/objkit/objkit/logger"
)

// store implements Store over one Backend. It holds no state between calls
// beyond the backend handle; consistency under concurrency is delegated
// entirely to the backend.
type store struct {
	backend Backend
	cfg     Config
	log     *logger.Logger
}

// NewStore builds a Store directly from a Backend, bypassing the factory.
// Useful for tests and for wiring a custom Backend implementation.
func NewStore(backend Backend, cfg Config, log *logger.Logger) Store {
	cfg.ApplyDefaults()
	return &store{backend: backend, cfg: cfg, log: log}
}

func (s *store) Upload(ctx context.Context, key string, data []byte, contentType string) (*Result, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	size := int64(len(data))
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), size, contentType); err != nil {
		return nil, normalize("upload", err)
	}

	url, err := s.ResolveURL(ctx, key, 0)
	if err != nil {
		// The object is persisted; only URL resolution failed. Surface the
		// error; upload is safe to repeat under key-addressed overwrite.
		return nil, err
	}

	s.log.Debug("uploaded object", logger.Fields(
		logger.FieldKey, key,
		logger.FieldSize, size,
	))

	return &Result{Key: key, URL: url, Size: size, ContentType: contentType}, nil
}

func (s *store) Download(ctx context.Context, key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	rc, declared, err := s.backend.Get(ctx, key)
	if err != nil {
		return nil, normalize("download", err)
	}
	defer rc.Close() //nolint:errcheck // close error is irrelevant after a full read

	max := s.cfg.MaxObjectSize
	if declared > max {
		return nil, apperrors.Rejected("download", nil).
			WithDetail("declared_size", declared).
			WithDetail("max_object_size", max)
	}

	var buf bytes.Buffer
	if declared > 0 {
		buf.Grow(int(declared))
	}

	// Bounded drain: read at most max+1 bytes so undeclared oversize
	// objects are caught without unbounded growth.
	n, err := buf.ReadFrom(io.LimitReader(rc, max+1))
	if err != nil {
		return nil, apperrors.Unavailable("download", err)
	}
	if n > max {
		return nil, apperrors.Rejected("download", nil).
			WithDetail("max_object_size", max)
	}

	return buf.Bytes(), nil
}

func (s *store) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	err := s.backend.Delete(ctx, key)
	if err != nil {
		// Idempotent in effect: an already-absent key is success,
		// regardless of how the backend reports it.
		if apperrors.IsNotFound(err) {
			return nil
		}
		return normalize("delete", err)
	}
	return nil
}

func (s *store) Exists(ctx context.Context, key string) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}

	_, err := s.backend.Stat(ctx, key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return false, nil
		}
		// A failed probe is not "absent"; collapsing the two would let
		// callers treat an unreachable key as safe to reuse.
		return false, normalize("exists", err)
	}
	return true, nil
}

func (s *store) Metadata(ctx context.Context, key string) (*Metadata, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	stat, err := s.backend.Stat(ctx, key)
	if err != nil {
		return nil, normalize("metadata", err)
	}

	md := &Metadata{
		Size:         stat.Size,
		ContentType:  stat.ContentType,
		LastModified: stat.LastModified,
		ETag:         stat.ETag,
	}
	if md.ContentType == "" {
		md.ContentType = DefaultContentType
	}
	if md.Size < 0 {
		md.Size = 0
	}
	return md, nil
}

func (s *store) ResolveURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}

	// Hard either/or: a public base never signs, no public base always
	// signs. A per-call override to force signing is an extension point.
	if s.cfg.PublicBaseURL != "" {
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key, nil
	}

	if expiry <= 0 {
		expiry = s.cfg.SignExpiry
	}
	url, err := s.backend.SignURL(ctx, key, expiry)
	if err != nil {
		return "", normalize("resolve_url", err)
	}
	return url, nil
}

func checkKey(key string) error {
	if key == "" {
		return apperrors.InvalidInput("key", "object key must not be empty")
	}
	return nil
}

// normalize guarantees the taxonomy at the contract boundary. Backends are
// expected to translate their own errors; anything that slips through
// untyped is a transport-level unknown.
func normalize(op string, err error) error {
	if apperrors.AsError(err) != nil {
		return err
	}
	return apperrors.Unavailable(op, err)
}

var _ Store = (*store)(nil)
