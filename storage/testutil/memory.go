// Package testutil provides an in-memory storage backend for tests.
// Importing it registers the "memory" provider with the storage factory.
package testutil

import (
	"bytes"
	"context"
	"crypto/md5" //nolint:gosec // non-cryptographic change marker
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	apperrors "github.com/objkit/objkit/errors"
	"github.com/objkit/objkit/logger"
	"github.com/objkit/objkit/storage"
)

// ProviderMemory is the provider name registered by this package.
const ProviderMemory = "memory"

func init() {
	storage.RegisterFactory(ProviderMemory, func(cfg storage.Config, log *logger.Logger) (storage.Backend, error) {
		return NewBackend(), nil
	})
}

// memObject holds one stored payload and its metadata.
type memObject struct {
	data        []byte
	contentType string
	modTime     time.Time
	etag        string
}

// Backend is a concurrency-safe in-memory storage.Backend. The zero value
// is not usable; create one with NewBackend.
type Backend struct {
	mu      sync.RWMutex
	objects map[string]*memObject
	// failures maps operation names (put, get, delete, stat, sign) to
	// injected errors.
	failures map[string]error
}

// NewBackend creates an empty in-memory backend.
func NewBackend() *Backend {
	return &Backend{
		objects:  make(map[string]*memObject),
		failures: make(map[string]error),
	}
}

// FailWith makes every subsequent call of the named operation return err.
// Passing nil clears the injection.
func (b *Backend) FailWith(op string, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err == nil {
		delete(b.failures, op)
		return
	}
	b.failures[op] = err
}

// Reset drops all stored objects and injected failures.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects = make(map[string]*memObject)
	b.failures = make(map[string]error)
}

// Len returns the number of stored objects.
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

// Keys returns all stored keys in sorted order.
func (b *Backend) Keys() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *Backend) injected(op string) error {
	if err, ok := b.failures[op]; ok {
		return err
	}
	return nil
}

func (b *Backend) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.injected("put"); err != nil {
		return err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return apperrors.Unavailable("put", err)
	}
	if size >= 0 && int64(len(data)) != size {
		return apperrors.Rejected("put", fmt.Errorf("declared %d bytes, read %d", size, len(data)))
	}

	sum := md5.Sum(data) //nolint:gosec
	b.objects[key] = &memObject{
		data:        data,
		contentType: contentType,
		modTime:     time.Now(),
		etag:        hex.EncodeToString(sum[:]),
	}
	return nil
}

func (b *Backend) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.injected("get"); err != nil {
		return nil, 0, err
	}

	obj, ok := b.objects[key]
	if !ok {
		return nil, 0, apperrors.NotFound(key)
	}
	// Copy so a caller holding the reader never observes later overwrites.
	data := append([]byte(nil), obj.data...)
	return io.NopCloser(bytes.NewReader(data)), int64(len(data)), nil
}

func (b *Backend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.injected("delete"); err != nil {
		return err
	}

	if _, ok := b.objects[key]; !ok {
		return apperrors.NotFound(key)
	}
	delete(b.objects, key)
	return nil
}

func (b *Backend) Stat(_ context.Context, key string) (*storage.ObjectStat, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.injected("stat"); err != nil {
		return nil, err
	}

	obj, ok := b.objects[key]
	if !ok {
		return nil, apperrors.NotFound(key)
	}
	return &storage.ObjectStat{
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.modTime,
		ETag:         obj.etag,
	}, nil
}

func (b *Backend) SignURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.injected("sign"); err != nil {
		return "", err
	}
	return fmt.Sprintf("memory://%s?expires=%d", key, int64(expiry.Seconds())), nil
}

var _ storage.Backend = (*Backend)(nil)
