package termid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/id"
	"github.com/termgraph/termid/registry"
	"github.com/termgraph/termid/terms"
)

// Catalog is a loaded, validated set of binding tables and the registry built
// from them.
type Catalog struct {
	registry *registry.Registry
	table    *binding.Table
	report   *binding.Report
	mirrors  []registry.Mirror
	gen      *id.NamespaceGenerator
	logger   *slog.Logger
}

// Open loads the embedded bindings plus any configured tables, validates them
// in one pass, and registers every component. Mirrors are hydrated first when
// requested and synced last.
func Open(ctx context.Context, opts ...Option) (*Catalog, error) {
	const op = "Open"

	cfg := &openConfig{namespace: id.Default().Namespace()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	if err := applyConfig(cfg); err != nil {
		closeMirrors(cfg.mirrors, cfg.logger)
		return nil, err
	}

	c, err := open(ctx, op, cfg)
	if err != nil {
		closeMirrors(cfg.mirrors, cfg.logger)
		return nil, err
	}
	return c, nil
}

func applyConfig(cfg *openConfig) error {
	const op = "Open"
	fc := cfg.config
	if fc == nil {
		return nil
	}

	if err := fc.Validate(); err != nil {
		return NewConfigurationError(op, err)
	}
	ns, err := fc.GetNamespace()
	if err != nil {
		return NewConfigurationError(op, err)
	}
	if fc.Namespace != "" {
		cfg.namespace = ns
	}
	cfg.paths = append(cfg.paths, fc.Tables...)
	cfg.strictCrossKind = cfg.strictCrossKind || fc.StrictCrossKind

	if fc.Redis != nil {
		m, err := registry.NewRedisMirror(fc.Redis.Options())
		if err != nil {
			return NewMirrorError(op, err).WithContext(map[string]any{"url": fc.Redis.URL})
		}
		cfg.mirrors = append(cfg.mirrors, m)
	}
	if fc.Etcd != nil {
		m, err := registry.NewEtcdMirror(fc.Etcd.Options())
		if err != nil {
			return NewMirrorError(op, err).WithContext(map[string]any{"endpoints": fc.Etcd.Endpoints})
		}
		cfg.mirrors = append(cfg.mirrors, m)
	}
	return nil
}

func open(ctx context.Context, op string, cfg *openConfig) (*Catalog, error) {
	gen := id.Default()
	if cfg.namespace != id.Default().Namespace() {
		gen = id.NewGenerator(cfg.namespace)
		if !cfg.skipEmbedded {
			cfg.logger.Info("skipping embedded bindings pinned to another namespace",
				"namespace", cfg.namespace.String(),
				"embedded", id.NamespaceString,
			)
			cfg.skipEmbedded = true
		}
	}

	table := &binding.Table{}
	if !cfg.skipEmbedded {
		if err := table.Merge(terms.Table()); err != nil {
			return nil, NewBindingError(op, err)
		}
	}
	for _, p := range cfg.paths {
		t, err := binding.Load(p)
		if err != nil {
			return nil, NewConfigurationError(op, err).WithContext(map[string]any{"path": p})
		}
		if err := table.Merge(t); err != nil {
			return nil, NewBindingError(op, err).WithContext(map[string]any{"path": p})
		}
	}
	for _, t := range cfg.tables {
		if err := table.Merge(t); err != nil {
			return nil, NewBindingError(op, err)
		}
	}

	var regOpts []registry.Option
	regOpts = append(regOpts, registry.WithLogger(cfg.logger))
	if cfg.meterProvider != nil {
		regOpts = append(regOpts, registry.WithMeterProvider(cfg.meterProvider))
	}
	if cfg.tracerProvider != nil {
		regOpts = append(regOpts, registry.WithTracerProvider(cfg.tracerProvider))
	}
	reg := registry.New(regOpts...)

	if cfg.hydrate {
		for _, m := range cfg.mirrors {
			n, err := reg.Hydrate(ctx, m)
			if err != nil {
				return nil, NewMirrorError(op, err)
			}
			cfg.logger.Debug("hydrated from mirror", "records", n)
		}
	}

	vopts := []binding.ValidateOption{binding.WithGenerator(gen)}
	if cfg.strictCrossKind {
		vopts = append(vopts, binding.WithStrictCrossKind())
	}
	report, err := reg.LoadTable(ctx, table, vopts...)
	if err != nil {
		return nil, NewBindingError(op, err).WithContext(map[string]any{"version": table.Version})
	}

	for _, m := range cfg.mirrors {
		if err := reg.Sync(ctx, m); err != nil {
			return nil, NewMirrorError(op, err)
		}
	}

	return &Catalog{
		registry: reg,
		table:    table,
		report:   report,
		mirrors:  cfg.mirrors,
		gen:      gen,
		logger:   cfg.logger,
	}, nil
}

// Registry returns the catalog's registry.
func (c *Catalog) Registry() *registry.Registry {
	return c.registry
}

// Generator derives UUIDs under the catalog's namespace.
func (c *Catalog) Generator() *id.NamespaceGenerator {
	return c.gen
}

// Table returns the merged binding table.
func (c *Catalog) Table() *binding.Table {
	return c.table
}

// Report returns the validation report of the merged table.
func (c *Catalog) Report() *binding.Report {
	return c.report
}

// Concept resolves any alias of a concept.
func (c *Catalog) Concept(u uuid.UUID) (component.Concept, error) {
	concept, ok := c.registry.Concept(u)
	if !ok {
		return component.Concept{}, NewNotFoundError("Catalog.Concept", fmt.Errorf("%w: %s", ErrNotFound, u))
	}
	return concept, nil
}

// Pattern resolves any alias of a pattern.
func (c *Catalog) Pattern(u uuid.UUID) (component.Pattern, error) {
	pattern, ok := c.registry.Pattern(u)
	if !ok {
		return component.Pattern{}, NewNotFoundError("Catalog.Pattern", fmt.Errorf("%w: %s", ErrNotFound, u))
	}
	return pattern, nil
}

// Resolve returns the registered entry for a kind-partitioned key.
func (c *Catalog) Resolve(key component.Key) (registry.Entry, error) {
	entry, err := c.registry.Resolve(key)
	if err != nil {
		return registry.Entry{}, NewNotFoundError("Catalog.Resolve", err)
	}
	return entry, nil
}

// Sync republishes the registry to every mirror.
func (c *Catalog) Sync(ctx context.Context) error {
	var errs []error
	for _, m := range c.mirrors {
		if err := c.registry.Sync(ctx, m); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return NewMirrorError("Catalog.Sync", err)
	}
	return nil
}

// Close closes every mirror.
func (c *Catalog) Close() error {
	var errs []error
	for _, m := range c.mirrors {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.mirrors = nil
	return errors.Join(errs...)
}

func closeMirrors(mirrors []registry.Mirror, logger *slog.Logger) {
	for _, m := range mirrors {
		CloseWithLog(m, logger, "mirror")
	}
}
