package storage

import (
	"bytes"
	"context"
	"testing"

	apperrors "github.com/objkit/objkit/errors"
)

// The instrumented store must be a transparent wrapper: same results, same
// errors, and no panic when no meter has been initialized.
func TestWithObservability_PassThrough(t *testing.T) {
	fb := newFakeBackend()
	s := WithObservability(newTestStore(fb, Config{}), "test-svc", nil)
	ctx := context.Background()

	res, err := s.Upload(ctx, "wrapped/key", []byte("payload"), "text/plain")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if res.Key != "wrapped/key" || res.Size != 7 {
		t.Errorf("Result = %+v", res)
	}

	data, err := s.Download(ctx, "wrapped/key")
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("Download() = %q", data)
	}

	ok, err := s.Exists(ctx, "wrapped/key")
	if err != nil || !ok {
		t.Errorf("Exists() = %v, %v", ok, err)
	}

	md, err := s.Metadata(ctx, "wrapped/key")
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if md.ContentType != "text/plain" {
		t.Errorf("ContentType = %q", md.ContentType)
	}

	if _, err := s.ResolveURL(ctx, "wrapped/key", 0); err != nil {
		t.Errorf("ResolveURL() error = %v", err)
	}

	if err := s.Delete(ctx, "wrapped/key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestWithObservability_PreservesErrors(t *testing.T) {
	fb := newFakeBackend()
	s := WithObservability(newTestStore(fb, Config{}), "test-svc", nil)

	_, err := s.Download(context.Background(), "never/uploaded")
	if !apperrors.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND through the wrapper, got %v", err)
	}
}
