package testutil

import (
	"context"
	"fmt"

	"github.com/objkit/objkit/component"
	"github.com/objkit/objkit/logger"
	"github.com/objkit/objkit/storage"
)

// Component is a lifecycle-managed in-memory storage for tests. Start
// builds a fresh Store over a memory Backend; Reset clears stored objects
// between test cases without restarting.
type Component struct {
	backend *Backend
	store   storage.Store
}

var _ component.Component = (*Component)(nil)

// NewComponent creates an unstarted in-memory storage component.
func NewComponent() *Component {
	return &Component{}
}

// Backend exposes the underlying memory backend for error injection and
// state inspection.
func (c *Component) Backend() *Backend { return c.backend }

// Store returns the Store, or nil before Start.
func (c *Component) Store() storage.Store { return c.store }

func (c *Component) Name() string { return "storage-memory" }

func (c *Component) Start(_ context.Context) error {
	if c.store != nil {
		return fmt.Errorf("storage-memory: already started")
	}
	c.backend = NewBackend()
	c.store = storage.NewStore(c.backend, storage.Config{Provider: ProviderMemory}, logger.NewDefault("test"))
	return nil
}

func (c *Component) Stop(_ context.Context) error {
	c.backend = nil
	c.store = nil
	return nil
}

func (c *Component) Health(_ context.Context) component.Health {
	if c.store == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "not started"}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Reset drops all stored objects and injected failures. The component must
// be started.
func (c *Component) Reset() error {
	if c.backend == nil {
		return fmt.Errorf("storage-memory: not started")
	}
	c.backend.Reset()
	return nil
}
