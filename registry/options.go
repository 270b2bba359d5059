package registry

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "github.com/termgraph/termid/registry"

// Option configures a Registry.
type Option func(*config)

type config struct {
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	tracer        trace.Tracer
}

// WithLogger sets the logger for reconciliation and integrity warnings.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMeterProvider enables OpenTelemetry metrics for lookups and
// registrations.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *config) {
		c.meterProvider = mp
	}
}

// WithTracerProvider enables OpenTelemetry spans for table loads and mirror
// synchronization.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *config) {
		if tp != nil {
			c.tracer = tp.Tracer(instrumentationName)
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.meterProvider == nil {
		c.meterProvider = metricnoop.NewMeterProvider()
	}
	if c.tracer == nil {
		c.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	return c
}

func (c *config) instruments() *instruments {
	inst, err := newInstruments(c.meterProvider.Meter(instrumentationName))
	if err != nil {
		c.logger.Warn("registry metrics disabled", "error", err)
		inst, _ = newInstruments(metricnoop.NewMeterProvider().Meter(instrumentationName))
	}
	return inst
}
