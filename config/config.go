// Package config provides loading and parsing of termid.yaml configuration files.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/termgraph/termid/id"
	"github.com/termgraph/termid/registry"
)

// ErrInvalidConfig indicates a configuration that failed Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config represents a termid.yaml configuration file.
type Config struct {
	// Tables lists binding table files or directories loaded in addition to
	// the embedded well-known bindings.
	Tables []string `yaml:"tables,omitempty"`

	// StrictCrossKind makes a UUID shared by a concept and a pattern a
	// validation error instead of a warning.
	StrictCrossKind bool `yaml:"strict_cross_kind,omitempty"`

	// Namespace overrides the derivation namespace. Leave empty to use the
	// built-in identity namespace.
	Namespace string `yaml:"namespace,omitempty"`

	Redis *RedisConfig `yaml:"redis,omitempty"`
	Etcd  *EtcdConfig  `yaml:"etcd,omitempty"`
	Serve *ServeConfig `yaml:"serve,omitempty"`
	Log   *LogConfig   `yaml:"log,omitempty"`
}

// RedisConfig enables the Redis mirror.
type RedisConfig struct {
	URL    string `yaml:"url"`
	Prefix string `yaml:"prefix,omitempty"`

	// Timeout bounds connection establishment.
	// Format: Go duration string (e.g., "5s")
	// Default: 5s
	Timeout string `yaml:"timeout,omitempty"`
}

// GetTimeout parses the timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (r *RedisConfig) GetTimeout() time.Duration {
	if r == nil || r.Timeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(r.Timeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Options converts the section into registry.RedisOptions.
func (r *RedisConfig) Options() registry.RedisOptions {
	return registry.RedisOptions{
		URL:            r.URL,
		Prefix:         r.Prefix,
		ConnectTimeout: r.GetTimeout(),
	}
}

// EtcdConfig enables the etcd mirror.
type EtcdConfig struct {
	Endpoints []string `yaml:"endpoints"`
	Namespace string   `yaml:"namespace,omitempty"`

	// DialTimeout format: Go duration string. Default: 5s
	DialTimeout string `yaml:"dial_timeout,omitempty"`

	TLS *registry.TLSConfig `yaml:"tls,omitempty"`
}

// GetDialTimeout parses the dial timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (e *EtcdConfig) GetDialTimeout() time.Duration {
	if e == nil || e.DialTimeout == "" {
		return 5 * time.Second
	}
	d, err := time.ParseDuration(e.DialTimeout)
	if err != nil {
		return 5 * time.Second
	}
	return d
}

// Options converts the section into registry.EtcdOptions.
func (e *EtcdConfig) Options() registry.EtcdOptions {
	return registry.EtcdOptions{
		Endpoints:   e.Endpoints,
		Namespace:   e.Namespace,
		DialTimeout: e.GetDialTimeout(),
		TLS:         e.TLS,
	}
}

// ServeConfig configures the gRPC resolver.
type ServeConfig struct {
	// Port default: 50051
	Port int `yaml:"port,omitempty"`

	// GracefulTimeout format: Go duration string. Default: 30s
	GracefulTimeout string `yaml:"graceful_timeout,omitempty"`

	TLSCertFile string `yaml:"tls_cert_file,omitempty"`
	TLSKeyFile  string `yaml:"tls_key_file,omitempty"`
}

// GetPort returns the configured port or the default value.
func (s *ServeConfig) GetPort() int {
	if s == nil || s.Port <= 0 {
		return 50051
	}
	return s.Port
}

// GetGracefulTimeout parses the graceful timeout string and returns a duration.
// Returns the default value if not set or invalid.
func (s *ServeConfig) GetGracefulTimeout() time.Duration {
	if s == nil || s.GracefulTimeout == "" {
		return 30 * time.Second
	}
	d, err := time.ParseDuration(s.GracefulTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LogConfig selects the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error. Default: info
	Level string `yaml:"level,omitempty"`

	// Format is text or json. Default: text
	Format string `yaml:"format,omitempty"`
}

// GetLevel returns the configured level or slog.LevelInfo.
func (l *LogConfig) GetLevel() slog.Level {
	if l == nil || l.Level == "" {
		return slog.LevelInfo
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// NewLogger builds a logger writing to w.
func (l *LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: l.GetLevel()}
	if l != nil && strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Default returns a configuration that uses only the embedded bindings.
func Default() *Config {
	return &Config{
		Serve: &ServeConfig{Port: 50051, GracefulTimeout: "30s"},
		Log:   &LogConfig{Level: "info", Format: "text"},
	}
}

// GetNamespace returns the derivation namespace.
func (c *Config) GetNamespace() (uuid.UUID, error) {
	if c.Namespace == "" {
		return id.Namespace, nil
	}
	ns, err := uuid.Parse(c.Namespace)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: namespace: %w", ErrInvalidConfig, err)
	}
	return ns, nil
}

// Load reads and parses a termid.yaml file from the given path.
// If the path is a directory, it looks for termid.yaml or termid.yml in that
// directory. Relative table paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var configPath string
	if info.IsDir() {
		yamlPath := filepath.Join(path, "termid.yaml")
		if _, err := os.Stat(yamlPath); err == nil {
			configPath = yamlPath
		} else {
			ymlPath := filepath.Join(path, "termid.yml")
			if _, err := os.Stat(ymlPath); err == nil {
				configPath = ymlPath
			} else {
				return nil, fmt.Errorf("no termid.yaml or termid.yml found in %s", path)
			}
		}
	} else {
		configPath = path
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	base := filepath.Dir(configPath)
	for i, t := range config.Tables {
		if !filepath.IsAbs(t) {
			config.Tables[i] = filepath.Join(base, t)
		}
	}

	return config, nil
}

// ApplyEnv overlays TERMID_* environment variables:
//
//	TERMID_TABLES              comma-separated table paths
//	TERMID_STRICT_CROSS_KIND   boolean
//	TERMID_NAMESPACE
//	TERMID_REDIS_URL
//	TERMID_ETCD_ENDPOINTS      comma-separated
//	TERMID_SERVE_PORT
//	TERMID_LOG_LEVEL
//	TERMID_LOG_FORMAT
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("TERMID_TABLES"); v != "" {
		c.Tables = registry.SplitEndpoints(v)
	}
	if v := os.Getenv("TERMID_STRICT_CROSS_KIND"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: TERMID_STRICT_CROSS_KIND: %w", ErrInvalidConfig, err)
		}
		c.StrictCrossKind = b
	}
	if v := os.Getenv("TERMID_NAMESPACE"); v != "" {
		c.Namespace = v
	}
	if v := os.Getenv("TERMID_REDIS_URL"); v != "" {
		if c.Redis == nil {
			c.Redis = &RedisConfig{}
		}
		c.Redis.URL = v
	}
	if v := os.Getenv("TERMID_ETCD_ENDPOINTS"); v != "" {
		if c.Etcd == nil {
			c.Etcd = &EtcdConfig{}
		}
		c.Etcd.Endpoints = registry.SplitEndpoints(v)
	}
	if v := os.Getenv("TERMID_SERVE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: TERMID_SERVE_PORT: %w", ErrInvalidConfig, err)
		}
		if c.Serve == nil {
			c.Serve = &ServeConfig{}
		}
		c.Serve.Port = port
	}
	if v := os.Getenv("TERMID_LOG_LEVEL"); v != "" {
		if c.Log == nil {
			c.Log = &LogConfig{}
		}
		c.Log.Level = v
	}
	if v := os.Getenv("TERMID_LOG_FORMAT"); v != "" {
		if c.Log == nil {
			c.Log = &LogConfig{}
		}
		c.Log.Format = v
	}
	return nil
}

// Validate reports every problem in the configuration.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.GetNamespace(); err != nil {
		errs = append(errs, err)
	}
	if c.Redis != nil && c.Redis.URL == "" {
		errs = append(errs, fmt.Errorf("%w: redis.url is required", ErrInvalidConfig))
	}
	if c.Etcd != nil {
		if len(c.Etcd.Endpoints) == 0 {
			errs = append(errs, fmt.Errorf("%w: etcd.endpoints is required", ErrInvalidConfig))
		}
		if err := c.Etcd.TLS.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%w: etcd.tls: %w", ErrInvalidConfig, err))
		}
	}
	if c.Serve != nil {
		if c.Serve.Port < 0 || c.Serve.Port > 65535 {
			errs = append(errs, fmt.Errorf("%w: serve.port %d out of range", ErrInvalidConfig, c.Serve.Port))
		}
		if (c.Serve.TLSCertFile == "") != (c.Serve.TLSKeyFile == "") {
			errs = append(errs, fmt.Errorf("%w: serve TLS needs both cert and key", ErrInvalidConfig))
		}
	}
	if c.Log != nil {
		switch strings.ToLower(c.Log.Format) {
		case "", "text", "json":
		default:
			errs = append(errs, fmt.Errorf("%w: log.format %q", ErrInvalidConfig, c.Log.Format))
		}
		if c.Log.Level != "" {
			var level slog.Level
			if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
				errs = append(errs, fmt.Errorf("%w: log.level: %w", ErrInvalidConfig, err))
			}
		}
	}

	return errors.Join(errs...)
}
