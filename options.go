package termid

import (
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/config"
	"github.com/termgraph/termid/registry"
)

// Option configures Open.
type Option func(*openConfig)

type openConfig struct {
	logger          *slog.Logger
	paths           []string
	tables          []*binding.Table
	skipEmbedded    bool
	strictCrossKind bool
	namespace       uuid.UUID
	mirrors         []registry.Mirror
	hydrate         bool
	meterProvider   metric.MeterProvider
	tracerProvider  trace.TracerProvider
	config          *config.Config
}

// WithLogger sets a custom logger. If not provided, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *openConfig) {
		c.logger = logger
	}
}

// WithTables loads binding table files or directories in addition to the
// embedded well-known bindings.
func WithTables(paths ...string) Option {
	return func(c *openConfig) {
		c.paths = append(c.paths, paths...)
	}
}

// WithTable adds an already parsed binding table.
func WithTable(t *binding.Table) Option {
	return func(c *openConfig) {
		c.tables = append(c.tables, t)
	}
}

// WithoutEmbedded skips the embedded well-known bindings.
func WithoutEmbedded() Option {
	return func(c *openConfig) {
		c.skipEmbedded = true
	}
}

// WithStrictCrossKind rejects a UUID shared by a concept and a pattern.
func WithStrictCrossKind() Option {
	return func(c *openConfig) {
		c.strictCrossKind = true
	}
}

// WithNamespace derives `derive: true` entries under ns instead of
// id.Namespace. Tables that pin a namespace must pin ns. The embedded
// well-known bindings are pinned to id.Namespace, so they are left out
// whenever ns differs.
func WithNamespace(ns uuid.UUID) Option {
	return func(c *openConfig) {
		c.namespace = ns
	}
}

// WithMirror publishes the loaded registry to m. The catalog takes ownership
// of m and closes it on Close.
func WithMirror(m registry.Mirror) Option {
	return func(c *openConfig) {
		c.mirrors = append(c.mirrors, m)
	}
}

// WithHydrate adopts records already held by the mirrors before loading
// tables, so NIDs assigned by other processes are kept.
func WithHydrate() Option {
	return func(c *openConfig) {
		c.hydrate = true
	}
}

// WithMeterProvider enables registry metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *openConfig) {
		c.meterProvider = mp
	}
}

// WithTracerProvider enables registry spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *openConfig) {
		c.tracerProvider = tp
	}
}

// WithConfig applies a loaded configuration file. Mirrors named in cfg are
// connected by Open.
func WithConfig(cfg *config.Config) Option {
	return func(c *openConfig) {
		c.config = cfg
	}
}
