package storage

import (
	"context"
	"fmt"

	"github.com/objkit/objkit/component"
	"github.com/objkit/objkit/logger"
)

// healthProbeKey is the sentinel key used for the component health check.
const healthProbeKey = ".health"

// Component wraps a Store and implements component.Component for lifecycle
// management.
type Component struct {
	store Store
	cfg   Config
	log   *logger.Logger
}

// NewComponent creates a storage component for use with the component
// registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	return &Component{
		cfg: cfg,
		log: log.WithComponent("storage"),
	}
}

// Store returns the underlying Store, or nil if not started.
func (c *Component) Store() Store {
	return c.store
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start initializes the storage backend.
func (c *Component) Start(_ context.Context) error {
	if !c.cfg.Enabled {
		c.log.Info("storage component is disabled")
		return nil
	}
	c.store = New(c.cfg, c.log)
	return nil
}

// Stop releases the backend handle.
func (c *Component) Stop(_ context.Context) error {
	c.store = nil
	return nil
}

// Health reports the current health of the storage component. The probe
// resolves a sentinel key's URL; a broken (misconfigured) provider fails
// this with its configuration error.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.cfg.Enabled {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusHealthy,
			Message: "disabled",
		}
	}

	if c.store == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "storage not initialized",
		}
	}

	if _, err := c.store.ResolveURL(ctx, healthProbeKey, 0); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("health probe failed: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Describe returns summary info for startup display.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("provider=%s", c.cfg.Provider)
	if c.cfg.Bucket != "" {
		details += fmt.Sprintf(" bucket=%s", c.cfg.Bucket)
	}
	if c.cfg.PublicBaseURL != "" {
		details += " urls=public"
	} else {
		details += " urls=signed"
	}

	return component.Description{
		Name:    "Storage",
		Type:    "storage",
		Details: details,
	}
}
