package registry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/termgraph/termid/component"
)

// instruments holds the OpenTelemetry instruments of a Registry. They are
// created once in New and shared by every call.
type instruments struct {
	lookups       metric.Int64Counter
	registrations metric.Int64Counter
	crossKind     metric.Int64Counter
}

func newInstruments(meter metric.Meter) (*instruments, error) {
	inst := &instruments{}
	var err error

	inst.lookups, err = meter.Int64Counter(
		"termid.registry.lookups",
		metric.WithDescription("Alias lookups by kind and hit"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create lookups counter: %w", err)
	}

	inst.registrations, err = meter.Int64Counter(
		"termid.registry.registrations",
		metric.WithDescription("Component registrations by kind and outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create registrations counter: %w", err)
	}

	inst.crossKind, err = meter.Int64Counter(
		"termid.registry.cross_kind",
		metric.WithDescription("UUIDs found in both a concept and a pattern"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create cross kind counter: %w", err)
	}

	return inst, nil
}

func (i *instruments) lookedUp(kind component.Kind, hit bool) {
	i.lookups.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
		attribute.Bool("hit", hit),
	))
}

func (i *instruments) registered(ref component.Ref, outcome Outcome) {
	kind := "invalid"
	if ref != nil {
		kind = ref.Kind().String()
	}
	i.registrations.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("outcome", string(outcome)),
	))
}

func (i *instruments) crossKindFound(kind component.Kind) {
	i.crossKind.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("kind", kind.String()),
	))
}
