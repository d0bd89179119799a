package storage

import (
	"errors"
	"fmt"
	"time"
)

// Provider constants for supported storage backends.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
	ProviderMinio = "minio"
)

// Default configuration values.
const (
	DefaultProvider      = ProviderLocal
	DefaultBasePath      = "/tmp/objkit-storage"
	DefaultRegion        = "us-east-1"
	DefaultSignExpiry    = time.Hour
	DefaultMaxObjectSize = int64(100 * 1024 * 1024) // 100 MB
)

// Config holds storage configuration, read once at provider construction.
type Config struct {
	// Provider selects the storage backend: "local", "s3" or "minio".
	Provider string `mapstructure:"provider" json:"provider"`

	// Bucket is the bucket/container name for remote backends.
	Bucket string `mapstructure:"bucket" json:"bucket"`

	// Region is the region for S3.
	Region string `mapstructure:"region" json:"region"`

	// Endpoint is the backend endpoint (custom S3-compatible endpoint for
	// the s3 provider, required for minio).
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`

	// AccessKey is the backend access key ID.
	AccessKey string `mapstructure:"access_key" json:"access_key"`

	// SecretKey is the backend secret access key.
	SecretKey string `mapstructure:"secret_key" json:"secret_key"`

	// UseSSL enables TLS for backends addressed by host:port.
	UseSSL bool `mapstructure:"use_ssl" json:"use_ssl"`

	// BasePath is the root directory for the local provider.
	BasePath string `mapstructure:"base_path" json:"base_path"`

	// PublicBaseURL, when set, makes every resolved URL
	// "{PublicBaseURL}/{key}" with no signing round-trip. The deployment
	// is responsible for the objects actually being publicly readable.
	PublicBaseURL string `mapstructure:"public_base_url" json:"public_base_url"`

	// SignExpiry is the default validity window for signed URLs.
	SignExpiry time.Duration `mapstructure:"sign_expiry" json:"sign_expiry"`

	// MaxObjectSize bounds how many bytes Download will buffer in memory.
	MaxObjectSize int64 `mapstructure:"max_object_size" json:"max_object_size"`

	// Enabled controls whether the storage component is active.
	Enabled bool `mapstructure:"enabled" json:"enabled"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.SignExpiry <= 0 {
		c.SignExpiry = DefaultSignExpiry
	}
	if c.MaxObjectSize <= 0 {
		c.MaxObjectSize = DefaultMaxObjectSize
	}
}

// Validate checks that the configuration is complete for the selected
// provider.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return errors.New("storage: provider is required")
	}
	if c.MaxObjectSize < 0 {
		return errors.New("storage: max_object_size must not be negative")
	}
	switch c.Provider {
	case ProviderLocal:
		if c.BasePath == "" {
			return errors.New("storage: base_path is required for local provider")
		}
	case ProviderS3:
		var errs []error
		if c.Bucket == "" {
			errs = append(errs, errors.New("storage: bucket is required for s3 provider"))
		}
		if c.Region == "" {
			errs = append(errs, errors.New("storage: region is required for s3 provider"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid s3 config: %w", errors.Join(errs...))
		}
	case ProviderMinio:
		var errs []error
		if c.Endpoint == "" {
			errs = append(errs, errors.New("storage: endpoint is required for minio provider"))
		}
		if c.Bucket == "" {
			errs = append(errs, errors.New("storage: bucket is required for minio provider"))
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			errs = append(errs, errors.New("storage: access_key and secret_key are required for minio provider"))
		}
		if len(errs) > 0 {
			return fmt.Errorf("storage: invalid minio config: %w", errors.Join(errs...))
		}
	default:
		// Providers registered by third-party backend packages validate
		// their own settings in the factory.
	}
	return nil
}
