// Package config loads service configuration from YAML files and the
// environment. Values are read once at startup: an optional .env file is
// loaded first, then config.yml, then environment variables override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/objkit/objkit/validation"
)

// DefaultEnvPrefix is the prefix for environment variable overrides,
// e.g. OBJKIT_STORAGE_BUCKET overrides storage.bucket.
const DefaultEnvPrefix = "OBJKIT"

// LoaderConfig controls where configuration is read from.
type LoaderConfig struct {
	// ConfigFile is an explicit config file path. When empty, conventional
	// locations are searched.
	ConfigFile string
	// EnvFile is an explicit .env file path. When empty, ./.env is used if
	// it exists.
	EnvFile string
	// EnvPrefix is the environment variable prefix. Defaults to OBJKIT.
	EnvPrefix string
}

// Option mutates a LoaderConfig.
type Option func(*LoaderConfig)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(c *LoaderConfig) { c.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(c *LoaderConfig) { c.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *LoaderConfig) { c.EnvPrefix = prefix }
}

// Load reads configuration into out, which must be a pointer to a struct
// with mapstructure tags. A missing config file is not an error: env-only
// deployments are supported. When out carries `validate:` tags they are
// checked after unmarshalling.
func Load(serviceName string, out any, opts ...Option) error {
	lc := LoaderConfig{EnvPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&lc)
	}

	if envFile := resolveEnvFile(lc.EnvFile); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(lc.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindPrefixedEnv(v, lc.EnvPrefix)

	configFile := lc.ConfigFile
	if configFile == "" {
		configFile = findConfigFile(serviceName)
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return fmt.Errorf("config: read %s: %w", configFile, err)
			}
		}
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := validation.Validate(out); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// findConfigFile searches conventional locations for config.yml.
func findConfigFile(serviceName string) string {
	searchPaths := []string{
		fmt.Sprintf("./cmd/%s/config.yml", serviceName),
		"./config/config.yml",
		"./config.yml",
	}
	for _, p := range searchPaths {
		if fileExists(p) {
			return p
		}
	}
	return ""
}

func resolveEnvFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if fileExists("./.env") {
		return "./.env"
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// bindPrefixedEnv materializes prefixed environment variables as viper
// values so Unmarshal sees keys that appear only in the environment.
// OBJKIT_STORAGE_BUCKET becomes storage.bucket; compound leaf names like
// OBJKIT_STORAGE_PUBLIC_BASE_URL are also bound as storage.public_base_url.
func bindPrefixedEnv(v *viper.Viper, prefix string) {
	envPrefix := prefix + "_"
	for _, env := range os.Environ() {
		pair := strings.SplitN(env, "=", 2)
		if len(pair) != 2 || !strings.HasPrefix(pair[0], envPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(pair[0], envPrefix))
		for _, variant := range envKeyVariants(key) {
			v.Set(variant, pair[1])
		}
	}
}

// envKeyVariants generates the nested key interpretations of an
// underscore-separated environment key.
func envKeyVariants(key string) []string {
	parts := strings.Split(key, "_")
	if len(parts) <= 1 {
		return []string{key}
	}

	variants := []string{
		key,
		strings.ReplaceAll(key, "_", "."),
	}
	// progressive splits: storage.public_base_url, storage.public.base_url, ...
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}

	seen := make(map[string]bool, len(variants))
	out := variants[:0]
	for _, variant := range variants {
		if !seen[variant] {
			seen[variant] = true
			out = append(out, variant)
		}
	}
	return out
}
