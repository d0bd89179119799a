package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	apperrors "github.com/objkit/objkit/errors"
	"github.com/objkit/objkit/logger"
)

// memObject is one stored payload in the fake backend.
type memObject struct {
	data        []byte
	contentType string
	modTime     time.Time
	etag        string
}

// fakeBackend implements Backend over a map, with per-operation error
// injection and a sign-call counter.
type fakeBackend struct {
	objects   map[string]*memObject
	failOn    map[string]error
	signCalls int
	// lastSignExpiry records the expiry passed to the most recent SignURL.
	lastSignExpiry time.Duration
	// declaredOverride, when non-zero, is reported as Get's content length.
	declaredOverride int64
	// getReader, when set, replaces the payload stream returned by Get.
	getReader io.ReadCloser
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		objects: make(map[string]*memObject),
		failOn:  make(map[string]error),
	}
}

func (f *fakeBackend) Put(_ context.Context, key string, r io.Reader, size int64, contentType string) error {
	if err := f.failOn["put"]; err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: declared %d, read %d", size, len(data))
	}
	f.objects[key] = &memObject{
		data:        data,
		contentType: contentType,
		modTime:     time.Now(),
		etag:        fmt.Sprintf("etag-%d", len(data)),
	}
	return nil
}

func (f *fakeBackend) Get(_ context.Context, key string) (io.ReadCloser, int64, error) {
	if err := f.failOn["get"]; err != nil {
		return nil, 0, err
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, 0, apperrors.NotFound(key)
	}
	declared := int64(len(obj.data))
	if f.declaredOverride != 0 {
		declared = f.declaredOverride
	}
	if f.getReader != nil {
		return f.getReader, declared, nil
	}
	return io.NopCloser(bytes.NewReader(obj.data)), declared, nil
}

func (f *fakeBackend) Delete(_ context.Context, key string) error {
	if err := f.failOn["delete"]; err != nil {
		return err
	}
	if _, ok := f.objects[key]; !ok {
		return apperrors.NotFound(key)
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeBackend) Stat(_ context.Context, key string) (*ObjectStat, error) {
	if err := f.failOn["stat"]; err != nil {
		return nil, err
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, apperrors.NotFound(key)
	}
	return &ObjectStat{
		Size:         int64(len(obj.data)),
		ContentType:  obj.contentType,
		LastModified: obj.modTime,
		ETag:         obj.etag,
	}, nil
}

func (f *fakeBackend) SignURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	if err := f.failOn["sign"]; err != nil {
		return "", err
	}
	f.signCalls++
	f.lastSignExpiry = expiry
	return fmt.Sprintf("https://signed.example.com/%s?expires=%d", key, int64(expiry.Seconds())), nil
}

// errReader fails partway through a read, simulating a dropped transport.
type errReader struct {
	data []byte
	read bool
}

func (e *errReader) Read(p []byte) (int, error) {
	if !e.read {
		e.read = true
		n := copy(p, e.data)
		return n, nil
	}
	return 0, fmt.Errorf("connection reset")
}

func (e *errReader) Close() error { return nil }

func newTestStore(backend Backend, cfg Config) Store {
	return NewStore(backend, cfg, logger.NewDefault("test").WithComponent("storage"))
}

func TestStore_RoundTrip(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{})
	ctx := context.Background()

	payload := []byte("hello, object storage")
	res, err := s.Upload(ctx, "docs/greeting.txt", payload, "text/plain")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.Key != "docs/greeting.txt" {
		t.Errorf("Key = %q, want docs/greeting.txt", res.Key)
	}
	if res.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", res.Size, len(payload))
	}
	if res.ContentType != "text/plain" {
		t.Errorf("ContentType = %q, want text/plain", res.ContentType)
	}

	got, err := s.Download(ctx, res.Key)
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("Download() = %q, want %q", got, payload)
	}
}

func TestStore_Upload_EmptyKey(t *testing.T) {
	s := newTestStore(newFakeBackend(), Config{})
	_, err := s.Upload(context.Background(), "", []byte("x"), "text/plain")
	if !apperrors.IsInvalidInput(err) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestStore_Upload_DefaultContentType(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{})
	res, err := s.Upload(context.Background(), "k", []byte("x"), "")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.ContentType != DefaultContentType {
		t.Errorf("ContentType = %q, want %q", res.ContentType, DefaultContentType)
	}
	if fb.objects["k"].contentType != DefaultContentType {
		t.Errorf("backend stored %q, want %q", fb.objects["k"].contentType, DefaultContentType)
	}
}

func TestStore_Upload_EmptyPayload(t *testing.T) {
	s := newTestStore(newFakeBackend(), Config{})
	res, err := s.Upload(context.Background(), "empty", nil, "text/plain")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.Size != 0 {
		t.Errorf("Size = %d, want 0", res.Size)
	}
	got, err := s.Download(context.Background(), "empty")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Download() = %q, want empty", got)
	}
}

func TestStore_Download_NeverUploaded(t *testing.T) {
	s := newTestStore(newFakeBackend(), Config{})
	_, err := s.Download(context.Background(), "no-such-key")
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestStore_Download_MidReadFailure(t *testing.T) {
	fb := newFakeBackend()
	_ = fb.Put(context.Background(), "k", bytes.NewReader([]byte("abcdef")), 6, "text/plain")
	fb.getReader = &errReader{data: []byte("abc")}
	fb.declaredOverride = -1

	s := newTestStore(fb, Config{})
	_, err := s.Download(context.Background(), "k")
	if !apperrors.IsUnavailable(err) {
		t.Errorf("mid-read failure must be BACKEND_UNAVAILABLE (unknown state), got %v", err)
	}
}

func TestStore_Download_DeclaredOversize(t *testing.T) {
	fb := newFakeBackend()
	_ = fb.Put(context.Background(), "big", bytes.NewReader([]byte("0123456789")), 10, "")
	fb.declaredOverride = 1 << 40

	s := newTestStore(fb, Config{MaxObjectSize: 1024})
	_, err := s.Download(context.Background(), "big")
	if !apperrors.IsRejected(err) {
		t.Errorf("expected BACKEND_REJECTED for declared oversize, got %v", err)
	}
}

func TestStore_Download_UndeclaredOversize(t *testing.T) {
	fb := newFakeBackend()
	payload := bytes.Repeat([]byte("a"), 64)
	_ = fb.Put(context.Background(), "big", bytes.NewReader(payload), int64(len(payload)), "")
	fb.declaredOverride = -1

	s := newTestStore(fb, Config{MaxObjectSize: 16})
	_, err := s.Download(context.Background(), "big")
	if !apperrors.IsRejected(err) {
		t.Errorf("expected BACKEND_REJECTED for undeclared oversize, got %v", err)
	}
}

func TestStore_Delete_Idempotent(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{})
	ctx := context.Background()

	// deleting a key that never existed is success
	if err := s.Delete(ctx, "ghost"); err != nil {
		t.Errorf("Delete of absent key should succeed, got %v", err)
	}

	if _, err := s.Upload(ctx, "k", []byte("x"), ""); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	// and deleting again is still success
	if err := s.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete should succeed, got %v", err)
	}
}

func TestStore_Delete_OtherErrorsPropagate(t *testing.T) {
	fb := newFakeBackend()
	fb.failOn["delete"] = apperrors.Unavailable("delete", fmt.Errorf("timeout"))
	s := newTestStore(fb, Config{})
	err := s.Delete(context.Background(), "k")
	if !apperrors.IsUnavailable(err) {
		t.Errorf("expected BACKEND_UNAVAILABLE, got %v", err)
	}
}

func TestStore_DeleteThenExists(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{})
	ctx := context.Background()

	if _, err := s.Upload(ctx, "k", []byte("x"), ""); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	ok, err := s.Exists(ctx, "k")
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if ok {
		t.Error("Exists after Delete should be false")
	}
}

func TestStore_Exists_Distinction(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{})
	ctx := context.Background()

	// absent object: false, no error
	ok, err := s.Exists(ctx, "never-uploaded")
	if err != nil {
		t.Fatalf("Exists() of absent key should not error, got %v", err)
	}
	if ok {
		t.Error("Exists() of absent key should be false")
	}

	// failed probe: error, never a silent false
	fb.failOn["stat"] = apperrors.Unavailable("stat", fmt.Errorf("dns failure"))
	_, err = s.Exists(ctx, "any")
	if !apperrors.IsUnavailable(err) {
		t.Errorf("failed probe must surface BACKEND_UNAVAILABLE, got %v", err)
	}
}

func TestStore_Metadata(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{})
	ctx := context.Background()

	payload := []byte("0123456789")
	if _, err := s.Upload(ctx, "k", payload, "application/pdf"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	md, err := s.Metadata(ctx, "k")
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if md.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", md.Size, len(payload))
	}
	if md.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q, want application/pdf", md.ContentType)
	}
	if md.LastModified.IsZero() {
		t.Error("LastModified should be set")
	}
	if md.ETag == "" {
		t.Error("ETag should be set")
	}
}

func TestStore_Metadata_NotFound(t *testing.T) {
	s := newTestStore(newFakeBackend(), Config{})
	_, err := s.Metadata(context.Background(), "ghost")
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}

func TestStore_Metadata_Fallbacks(t *testing.T) {
	fb := newFakeBackend()
	fb.objects["bare"] = &memObject{data: nil, contentType: ""}
	s := newTestStore(fb, Config{})

	md, err := s.Metadata(context.Background(), "bare")
	if err != nil {
		t.Fatalf("Metadata() must not fail for missing optional fields, got %v", err)
	}
	if md.ContentType != DefaultContentType {
		t.Errorf("ContentType = %q, want fallback %q", md.ContentType, DefaultContentType)
	}
	if md.Size != 0 {
		t.Errorf("Size = %d, want fallback 0", md.Size)
	}
}

func TestStore_PublicBaseURL(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{PublicBaseURL: "https://cdn.example.com/assets/"})
	ctx := context.Background()

	res, err := s.Upload(ctx, "img/logo.png", []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.URL != "https://cdn.example.com/assets/img/logo.png" {
		t.Errorf("URL = %q, want exact {base}/{key}", res.URL)
	}
	if fb.signCalls != 0 {
		t.Errorf("public base must never sign; got %d sign calls", fb.signCalls)
	}

	url, err := s.ResolveURL(ctx, "img/logo.png", time.Second)
	if err != nil {
		t.Fatalf("ResolveURL() error = %v", err)
	}
	if url != res.URL {
		t.Errorf("ResolveURL = %q, want %q", url, res.URL)
	}
	if fb.signCalls != 0 {
		t.Error("ResolveURL with public base must not sign")
	}
}

func TestStore_SignedURL(t *testing.T) {
	fb := newFakeBackend()
	s := newTestStore(fb, Config{})
	ctx := context.Background()

	res, err := s.Upload(ctx, "private/doc.pdf", []byte("pdf"), "application/pdf")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if fb.signCalls != 1 {
		t.Errorf("upload without public base must sign once, got %d", fb.signCalls)
	}
	if fb.lastSignExpiry != DefaultSignExpiry {
		t.Errorf("default expiry = %v, want %v", fb.lastSignExpiry, DefaultSignExpiry)
	}
	if res.URL == "" {
		t.Error("expected signed URL in result")
	}

	// caller-overridable expiry
	if _, err := s.ResolveURL(ctx, "private/doc.pdf", time.Second); err != nil {
		t.Fatalf("ResolveURL() error = %v", err)
	}
	if fb.lastSignExpiry != time.Second {
		t.Errorf("caller expiry = %v, want 1s", fb.lastSignExpiry)
	}
}

func TestStore_Upload_SignFailureSurfaces(t *testing.T) {
	fb := newFakeBackend()
	fb.failOn["sign"] = apperrors.Rejected("sign", fmt.Errorf("invalid credentials"))
	s := newTestStore(fb, Config{})

	_, err := s.Upload(context.Background(), "k", []byte("x"), "")
	if !apperrors.IsRejected(err) {
		t.Errorf("expected BACKEND_REJECTED from URL resolution, got %v", err)
	}
}

func TestStore_NormalizesUntypedBackendErrors(t *testing.T) {
	fb := newFakeBackend()
	fb.failOn["put"] = fmt.Errorf("raw sdk error")
	s := newTestStore(fb, Config{})

	_, err := s.Upload(context.Background(), "k", []byte("x"), "")
	if !apperrors.IsUnavailable(err) {
		t.Errorf("untyped backend errors must normalize to BACKEND_UNAVAILABLE, got %v", err)
	}
}
