package storage

import (
	"context"
	"time"

	apperrors "github.com/objkit/objkit/errors"
	"github.com/objkit/objkit/logger"
)

// BackendFactory creates a Backend from storage configuration. Backend
// packages call RegisterFactory (typically in an init function) to make
// themselves available to New.
type BackendFactory func(cfg Config, log *logger.Logger) (Backend, error)

var factories = make(map[string]BackendFactory)

// RegisterFactory registers a backend factory for the given provider name.
func RegisterFactory(name string, f BackendFactory) {
	factories[name] = f
}

// New creates a Store based on the given Config. Ensure the desired backend
// package has been imported (e.g. _ "github.com/objkit/objkit/storage/minio")
// so its factory is registered.
//
// Missing or invalid configuration never makes construction fail: the
// problem is logged loudly and the returned Store fails every call with a
// CONFIGURATION_ERROR, so misconfiguration surfaces explicitly per call
// instead of crashing the process or silently no-opping.
func New(cfg Config, log *logger.Logger) Store {
	cfg.ApplyDefaults()
	l := log.WithComponent("storage")

	if err := cfg.Validate(); err != nil {
		l.Error("storage configuration invalid; provider will refuse all operations",
			logger.Fields("provider", cfg.Provider, "error", err.Error()))
		return NewBroken(apperrors.Configuration(err.Error()).WithCause(err))
	}

	f, ok := factories[cfg.Provider]
	if !ok {
		l.Error("storage provider not registered; provider will refuse all operations",
			logger.Fields("provider", cfg.Provider))
		return NewBroken(apperrors.Configuration("unsupported provider \"" + cfg.Provider + "\" (not registered)"))
	}

	backend, err := f(cfg, l)
	if err != nil {
		l.Error("storage backend construction failed; provider will refuse all operations",
			logger.Fields("provider", cfg.Provider, "error", err.Error()))
		return NewBroken(apperrors.Configuration("backend construction failed").WithCause(err))
	}

	l.Info("initialized storage", logger.Fields(
		"provider", cfg.Provider,
		"bucket", cfg.Bucket,
		"public_urls", cfg.PublicBaseURL != "",
	))
	return NewStore(backend, cfg, l)
}

// NewBroken returns a Store that fails every operation with the given
// configuration error. Construction succeeds so startup wiring stays
// intact, but no call ever silently no-ops.
func NewBroken(cause *apperrors.Error) Store {
	return brokenStore{cause: cause}
}

type brokenStore struct {
	cause *apperrors.Error
}

func (b brokenStore) Upload(context.Context, string, []byte, string) (*Result, error) {
	return nil, b.cause
}

func (b brokenStore) Download(context.Context, string) ([]byte, error) {
	return nil, b.cause
}

func (b brokenStore) Delete(context.Context, string) error {
	return b.cause
}

func (b brokenStore) Exists(context.Context, string) (bool, error) {
	return false, b.cause
}

func (b brokenStore) Metadata(context.Context, string) (*Metadata, error) {
	return nil, b.cause
}

func (b brokenStore) ResolveURL(context.Context, string, time.Duration) (string, error) {
	return "", b.cause
}
