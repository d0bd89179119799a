package storage

import (
	"context"
	"time"
)

// DefaultContentType is used when the caller or backend omits a content type.
const DefaultContentType = "application/octet-stream"

// Result is returned by a successful Upload.
type Result struct {
	// Key is the object key the payload was stored under.
	Key string `json:"key"`
	// URL is the resolved URL per the configured policy. A signed URL
	// expires; a public URL does not.
	URL string `json:"url"`
	// Size is the exact byte length written.
	Size int64 `json:"size"`
	// ContentType is the content type the object was stored with.
	ContentType string `json:"content_type"`
}

// Metadata reflects the backend's current record for a key, fetched fresh
// on every call.
type Metadata struct {
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	LastModified time.Time `json:"last_modified"`
	ETag         string    `json:"etag,omitempty"`
}

// Store presents one storage backend behind backend-independent semantics.
//
// The layer is stateless between calls: keys are opaque, uniqueness is the
// caller's responsibility, and concurrent writes to the same key race at the
// backend (last successful write wins). All errors carry a taxonomy code
// from objkit/errors.
type Store interface {
	// Upload persists data under key. Once it returns successfully the
	// object is fully readable; there is no partial success. The returned
	// Result carries the resolved URL and the exact byte length written.
	Upload(ctx context.Context, key string, data []byte, contentType string) (*Result, error)

	// Download returns the complete payload stored under key as a single
	// contiguous buffer; the backend stream is fully drained before this
	// returns. Fails with a NOT_FOUND error when the key is absent, and
	// with BACKEND_UNAVAILABLE when transport fails after the read started
	// (the caller must treat that as unknown state, not deletion).
	Download(ctx context.Context, key string) ([]byte, error)

	// Delete removes the object under key. Deleting an absent key is not
	// an error: delete is idempotent regardless of backend.
	Delete(ctx context.Context, key string) error

	// Exists reports whether an object is stored under key using the
	// backend's cheapest probe. An absent object yields (false, nil);
	// a failed probe yields an error; the two are never collapsed.
	Exists(ctx context.Context, key string) (bool, error)

	// Metadata returns the backend's current record for key. Missing
	// optional fields fall back to DefaultContentType and size 0 rather
	// than failing.
	Metadata(ctx context.Context, key string) (*Metadata, error)

	// ResolveURL returns a URL for fetching the object without re-invoking
	// this layer. With a public base configured the result is
	// "{base}/{key}" and no backend call is made; otherwise the backend
	// signs a URL valid for expiry (<= 0 means the configured default).
	ResolveURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}
