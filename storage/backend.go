package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStat is what a Backend's existence probe reports. Size and
// ContentType may be zero-valued when the backend omits them.
type ObjectStat struct {
	Size         int64
	ContentType  string
	LastModified time.Time
	ETag         string
}

// Backend isolates one concrete storage service's wire protocol behind
// primitive operations keyed by an opaque object key.
//
// Implementations must translate their SDK's failures into taxonomy errors
// (objkit/errors) before returning; the generic layer never inspects
// backend-specific error shapes. Key absence is reported as NOT_FOUND from
// Get, Stat, and (where the backend distinguishes it) Delete.
type Backend interface {
	// Put writes size bytes from r under key with the given content type.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Get opens a read stream for the object under key. The second return
	// is the declared content length, or -1 when the backend does not
	// declare one. The caller closes the stream.
	Get(ctx context.Context, key string) (io.ReadCloser, int64, error)

	// Delete removes the object under key.
	Delete(ctx context.Context, key string) error

	// Stat probes the object under key without reading its payload.
	Stat(ctx context.Context, key string) (*ObjectStat, error)

	// SignURL returns a backend-signed URL granting credential-free read
	// access to key for the given expiry. The validity window is strictly
	// backend-enforced; this layer does not track or renew signed URLs.
	SignURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
