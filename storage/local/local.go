// Package local provides a filesystem storage backend, mainly for
// development and tests. Importing it registers the "local" provider with
// the storage factory.
package local

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/objkit/objkit/errors"
	"github.com/objkit/objkit/logger"
	"github.com/objkit/objkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg storage.Config, log *logger.Logger) (storage.Backend, error) {
		return NewBackend(cfg.BasePath)
	})
}

// Backend implements storage.Backend over a directory tree. Each key maps
// to a file under the base path; writes go through a temp file and rename
// so readers never observe partial payloads.
type Backend struct {
	basePath string
}

// NewBackend creates a local backend rooted at basePath, creating the
// directory if needed.
func NewBackend(basePath string) (*Backend, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("local: resolve base path: %w", err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("local: create base directory: %w", err)
	}
	return &Backend{basePath: abs}, nil
}

// resolve maps a key to an absolute path under the base directory,
// rejecting keys that would escape it.
func (b *Backend) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	full := filepath.Join(b.basePath, clean)
	if full != b.basePath && !strings.HasPrefix(full, b.basePath+string(filepath.Separator)) {
		return "", apperrors.InvalidInput("key", "key escapes the storage root").WithDetail("key", key)
	}
	return full, nil
}

// Put writes the payload to a temp file and renames it into place.
func (b *Backend) Put(_ context.Context, key string, r io.Reader, size int64, _ string) error {
	full, err := b.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return writeError(err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return writeError(err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	written, err := io.Copy(tmp, r)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return writeError(err)
	}
	if size >= 0 && written != size {
		return apperrors.Rejected("put", fmt.Errorf("declared %d bytes, wrote %d", size, written))
	}

	if err := os.Rename(tmp.Name(), full); err != nil {
		return writeError(err)
	}
	return nil
}

// writeError maps a failure while persisting a payload: permission
// refusals are Rejected, everything else Unavailable.
func writeError(err error) error {
	if os.IsPermission(err) {
		return apperrors.Rejected("put", err)
	}
	return apperrors.Unavailable("put", err)
}

// Get opens the file for key. The declared length is the current file size.
func (b *Backend) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	full, err := b.resolve(key)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, 0, pathError("get", key, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close() //nolint:errcheck // already failing
		return nil, 0, apperrors.Unavailable("get", err)
	}
	return f, fi.Size(), nil
}

// Delete removes the file for key. An absent file reports NotFound; the
// provider above decides whether that is an error.
func (b *Backend) Delete(_ context.Context, key string) error {
	full, err := b.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil {
		return pathError("delete", key, err)
	}
	return nil
}

// Stat returns file attributes. The content type is guessed from the key
// extension since the filesystem stores none.
func (b *Backend) Stat(_ context.Context, key string) (*storage.ObjectStat, error) {
	full, err := b.resolve(key)
	if err != nil {
		return nil, err
	}

	fi, err := os.Stat(full)
	if err != nil {
		return nil, pathError("stat", key, err)
	}
	if fi.IsDir() {
		return nil, apperrors.NotFound(key)
	}

	return &storage.ObjectStat{
		Size:         fi.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: fi.ModTime(),
		ETag:         localETag(fi.ModTime(), fi.Size()),
	}, nil
}

// SignURL returns a file:// URL. The filesystem has no signing; the expiry
// is accepted for interface parity and ignored.
func (b *Backend) SignURL(_ context.Context, key string, _ time.Duration) (string, error) {
	full, err := b.resolve(key)
	if err != nil {
		return "", err
	}
	u := &url.URL{Scheme: "file", Path: filepath.ToSlash(full)}
	return u.String(), nil
}

// pathError maps a filesystem error for key to the taxonomy: absent files
// are NotFound, permission refusals are Rejected, anything else (I/O
// faults, exhausted descriptors) is Unavailable.
func pathError(op, key string, err error) error {
	switch {
	case os.IsNotExist(err):
		return apperrors.NotFound(key).WithCause(err)
	case os.IsPermission(err):
		return apperrors.Rejected(op, err)
	default:
		return apperrors.Unavailable(op, err)
	}
}

// localETag derives a weak change marker from mtime and size, the same
// signal filesystems give HTTP caches.
func localETag(mod time.Time, size int64) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d-%d", mod.UnixNano(), size)))
	return hex.EncodeToString(sum[:8])
}

var _ storage.Backend = (*Backend)(nil)
