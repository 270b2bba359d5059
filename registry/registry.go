// Package registry maps every alias UUID of a component proxy to one
// canonical internal identifier.
//
// A component proxy may carry several UUIDs. The Registry indexes all of them,
// per kind, so any one resolves to the same component in O(1) expected time,
// and assigns each logical component a compact canonical NID.
//
// Registrations are reconciled by alias overlap:
//   - a proxy sharing no UUID with a registered component gets a new NID
//   - a proxy overlapping exactly one registered component is merged into it;
//     the union of both alias sets keeps the existing NID, and a partial
//     overlap is logged as a warning
//   - a proxy overlapping two or more distinct components is rejected with
//     ErrAmbiguousAlias and leaves the registry unchanged
//
// The Registry is safe for concurrent use. Binding tables are typically loaded
// once and queried continuously from many goroutines, so lookups take a read
// lock only.
//
// Mirrors publish the same alias index to Redis or etcd so that several
// processes agree on the canonical mapping.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/component"
)

// Sentinel errors for registry operations.
var (
	// ErrAmbiguousAlias indicates a proxy whose aliases span two or more
	// registered components of the same kind.
	ErrAmbiguousAlias = component.ErrAmbiguousAlias

	// ErrInvalidComponent indicates a zero or unsupported proxy value.
	ErrInvalidComponent = errors.New("invalid component")

	// ErrNotFound indicates no component is registered under a UUID.
	ErrNotFound = errors.New("component not found")

	// ErrNIDConflict indicates an adopted NID already names another component.
	ErrNIDConflict = errors.New("nid conflict")
)

// NID is the canonical internal identifier of a registered component.
// NIDs are assigned from 1 upwards; 0 is never valid.
type NID int32

// Entry is one registered component.
type Entry struct {
	NID NID
	Ref component.Ref
}

// Outcome describes what a registration did.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeMerged    Outcome = "merged"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeRejected  Outcome = "rejected"
)

// Registry is an in-memory, kind-partitioned alias index.
type Registry struct {
	mu     sync.RWMutex
	byKey  map[component.Key]NID
	byNID  map[NID]component.Ref
	next   NID
	logger *slog.Logger
	tracer trace.Tracer
	inst   *instruments
}

// New creates an empty Registry.
func New(opts ...Option) *Registry {
	cfg := newConfig(opts)
	return &Registry{
		byKey:  make(map[component.Key]NID),
		byNID:  make(map[NID]component.Ref),
		next:   1,
		logger: cfg.logger,
		tracer: cfg.tracer,
		inst:   cfg.instruments(),
	}
}

// Register indexes every alias of ref and returns its canonical NID.
func (r *Registry) Register(ref component.Ref) (NID, error) {
	nid, outcome, err := r.register(ref, 0)
	r.inst.registered(ref, outcome)
	return nid, err
}

// RegisterConcept indexes a concept.
func (r *Registry) RegisterConcept(c component.Concept) (NID, error) {
	return r.Register(c)
}

// RegisterPattern indexes a pattern.
func (r *Registry) RegisterPattern(p component.Pattern) (NID, error) {
	return r.Register(p)
}

// adopt registers ref under a NID chosen elsewhere, typically by the process
// that published it to a mirror.
func (r *Registry) adopt(nid NID, ref component.Ref) (NID, error) {
	got, outcome, err := r.register(ref, nid)
	r.inst.registered(ref, outcome)
	return got, err
}

func (r *Registry) register(ref component.Ref, want NID) (NID, Outcome, error) {
	if ref == nil || len(ref.UUIDs()) == 0 || !ref.Kind().Valid() {
		return 0, OutcomeRejected, ErrInvalidComponent
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(ref, want)
}

func (r *Registry) registerLocked(ref component.Ref, want NID) (NID, Outcome, error) {
	keys := component.Keys(ref)
	owners := r.ownersLocked(keys)
	switch len(owners) {
	case 0:
		nid := r.next
		if want != 0 {
			if _, taken := r.byNID[want]; taken {
				return 0, OutcomeRejected, fmt.Errorf("%w: %d already names %s", ErrNIDConflict, want, r.byNID[want])
			}
			nid = want
		}
		if nid >= r.next {
			r.next = nid + 1
		}
		r.byNID[nid] = ref
		for _, k := range keys {
			r.byKey[k] = nid
		}
		r.checkCrossKindLocked(ref)
		return nid, OutcomeCreated, nil

	case 1:
		nid := owners[0]
		existing := r.byNID[nid]
		if want != 0 && want != nid {
			return 0, OutcomeRejected, fmt.Errorf("%w: %s is %d here, %d upstream", ErrNIDConflict, ref, nid, want)
		}
		if covers(existing, ref) {
			return nid, OutcomeUnchanged, nil
		}
		merged, err := merge(existing, ref)
		if err != nil {
			return 0, OutcomeRejected, err
		}
		r.logger.Warn("reconciled partially overlapping aliases",
			"kind", ref.Kind().String(),
			"nid", int32(nid),
			"registered", existing.String(),
			"incoming", ref.String(),
		)
		r.byNID[nid] = merged
		for _, k := range keys {
			r.byKey[k] = nid
		}
		r.checkCrossKindLocked(ref)
		return nid, OutcomeMerged, nil

	default:
		claimed := make([]string, len(owners))
		for i, nid := range owners {
			claimed[i] = r.byNID[nid].String()
		}
		return 0, OutcomeRejected, fmt.Errorf("%w: %s spans %v", ErrAmbiguousAlias, ref, claimed)
	}
}

// ownersLocked returns the distinct NIDs owning any of keys, ascending.
func (r *Registry) ownersLocked(keys []component.Key) []NID {
	seen := make(map[NID]struct{})
	var owners []NID
	for _, k := range keys {
		nid, ok := r.byKey[k]
		if !ok {
			continue
		}
		if _, dup := seen[nid]; dup {
			continue
		}
		seen[nid] = struct{}{}
		owners = append(owners, nid)
	}
	sort.Slice(owners, func(i, j int) bool { return owners[i] < owners[j] })
	return owners
}

func (r *Registry) checkCrossKindLocked(ref component.Ref) {
	other := component.KindPattern
	if ref.Kind() == component.KindPattern {
		other = component.KindConcept
	}
	for _, u := range ref.UUIDs() {
		nid, clash := r.byKey[component.Key{Kind: other, UUID: u}]
		if !clash {
			continue
		}
		r.inst.crossKindFound(ref.Kind())
		r.logger.Warn("uuid shared by a concept and a pattern",
			"uuid", u.String(),
			"incoming", ref.String(),
			"registered", r.byNID[nid].String(),
		)
	}
}

// covers reports whether every identifier of incoming is already in existing.
func covers(existing, incoming component.Ref) bool {
	for _, u := range incoming.UUIDs() {
		if !existing.Contains(u) {
			return false
		}
	}
	return true
}

func merge(existing, incoming component.Ref) (component.Ref, error) {
	switch e := existing.(type) {
	case component.Concept:
		in, ok := incoming.(component.Concept)
		if !ok {
			return nil, ErrInvalidComponent
		}
		return e.Merge(in)
	case component.Pattern:
		in, ok := incoming.(component.Pattern)
		if !ok {
			return nil, ErrInvalidComponent
		}
		return e.Merge(in)
	default:
		return nil, ErrInvalidComponent
	}
}

// Lookup resolves a kind-partitioned key to its component and NID.
// Thread-safe for concurrent access.
func (r *Registry) Lookup(key component.Key) (component.Ref, NID, bool) {
	r.mu.RLock()
	nid, ok := r.byKey[key]
	var ref component.Ref
	if ok {
		ref = r.byNID[nid]
	}
	r.mu.RUnlock()

	r.inst.lookedUp(key.Kind, ok)
	return ref, nid, ok
}

// Concept resolves any alias UUID to its concept.
func (r *Registry) Concept(u uuid.UUID) (component.Concept, bool) {
	ref, _, ok := r.Lookup(component.Key{Kind: component.KindConcept, UUID: u})
	if !ok {
		return component.Concept{}, false
	}
	c, ok := ref.(component.Concept)
	return c, ok
}

// Pattern resolves any alias UUID to its pattern.
func (r *Registry) Pattern(u uuid.UUID) (component.Pattern, bool) {
	ref, _, ok := r.Lookup(component.Key{Kind: component.KindPattern, UUID: u})
	if !ok {
		return component.Pattern{}, false
	}
	p, ok := ref.(component.Pattern)
	return p, ok
}

// NID returns the canonical identifier of the component owning u.
func (r *Registry) NID(kind component.Kind, u uuid.UUID) (NID, bool) {
	_, nid, ok := r.Lookup(component.Key{Kind: kind, UUID: u})
	return nid, ok
}

// Resolve is Lookup with an error for missing keys.
func (r *Registry) Resolve(key component.Key) (Entry, error) {
	ref, nid, ok := r.Lookup(key)
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return Entry{NID: nid, Ref: ref}, nil
}

// ByNID returns the component registered under nid.
func (r *Registry) ByNID(nid NID) (component.Ref, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.byNID[nid]
	return ref, ok
}

// CrossKind reports whether u is registered as both a concept and a pattern.
func (r *Registry) CrossKind(u uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, c := r.byKey[component.Key{Kind: component.KindConcept, UUID: u}]
	_, p := r.byKey[component.Key{Kind: component.KindPattern, UUID: u}]
	return c && p
}

// Len returns the number of components of kind.
func (r *Registry) Len(kind component.Kind) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, ref := range r.byNID {
		if ref.Kind() == kind {
			n++
		}
	}
	return n
}

// Entries returns a snapshot of every registered component ordered by NID.
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	out := make([]Entry, 0, len(r.byNID))
	for nid, ref := range r.byNID {
		out = append(out, Entry{NID: nid, Ref: ref})
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].NID < out[j].NID })
	return out
}

// Concepts returns a snapshot of the registered concepts ordered by NID.
func (r *Registry) Concepts() []component.Concept {
	var out []component.Concept
	for _, e := range r.Entries() {
		if c, ok := e.Ref.(component.Concept); ok {
			out = append(out, c)
		}
	}
	return out
}

// Patterns returns a snapshot of the registered patterns ordered by NID.
func (r *Registry) Patterns() []component.Pattern {
	var out []component.Pattern
	for _, e := range r.Entries() {
		if p, ok := e.Ref.(component.Pattern); ok {
			out = append(out, p)
		}
	}
	return out
}

// LoadTable validates a binding table in one pass and registers all of its
// components. Nothing is registered when validation fails.
func (r *Registry) LoadTable(ctx context.Context, t *binding.Table, opts ...binding.ValidateOption) (*binding.Report, error) {
	_, span := r.tracer.Start(ctx, "registry.LoadTable")
	defer span.End()
	span.SetAttributes(
		attribute.String("binding.version", t.Version),
		attribute.Int("binding.entries", len(t.Entries)),
	)

	opts = append([]binding.ValidateOption{binding.WithLogger(r.logger)}, opts...)
	report, err := t.Validate(opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "binding table invalid")
		return nil, err
	}

	if err := r.registerAll(report.Refs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registration failed")
		return report, err
	}

	r.logger.Info("binding table loaded",
		"version", t.Version,
		"concepts", report.Concepts,
		"patterns", report.Patterns,
		"aliases", report.Aliases,
	)
	span.SetStatus(codes.Ok, "")
	return report, nil
}

// registerAll registers refs as one unit: if any is rejected, the registry is
// restored to its prior state and every rejection is returned.
func (r *Registry) registerAll(refs []component.Ref) error {
	outcomes := make([]Outcome, len(refs))

	r.mu.Lock()
	byKey, byNID, next := maps.Clone(r.byKey), maps.Clone(r.byNID), r.next

	var errs []error
	for i, ref := range refs {
		if ref == nil || len(ref.UUIDs()) == 0 || !ref.Kind().Valid() {
			outcomes[i] = OutcomeRejected
			errs = append(errs, ErrInvalidComponent)
			continue
		}
		var err error
		if _, outcomes[i], err = r.registerLocked(ref, 0); err != nil {
			errs = append(errs, err)
		}
	}
	err := errors.Join(errs...)
	if err != nil {
		r.byKey, r.byNID, r.next = byKey, byNID, next
	}
	r.mu.Unlock()

	for i, ref := range refs {
		if err != nil && outcomes[i] != OutcomeRejected {
			continue
		}
		r.inst.registered(ref, outcomes[i])
	}
	return err
}

// Sync publishes every registered component to m.
func (r *Registry) Sync(ctx context.Context, m Mirror) error {
	ctx, span := r.tracer.Start(ctx, "registry.Sync")
	defer span.End()

	entries := r.Entries()
	span.SetAttributes(attribute.Int("registry.entries", len(entries)))
	for _, e := range entries {
		if err := m.Publish(ctx, Record{NID: e.NID, Ref: e.Ref}); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "publish failed")
			return fmt.Errorf("failed to publish %s: %w", e.Ref, err)
		}
	}
	return nil
}

// Hydrate registers every record held by m, keeping the mirror's NIDs.
func (r *Registry) Hydrate(ctx context.Context, m Mirror) (int, error) {
	ctx, span := r.tracer.Start(ctx, "registry.Hydrate")
	defer span.End()

	records, err := m.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return 0, err
	}
	sort.Slice(records, func(i, j int) bool { return records[i].NID < records[j].NID })

	var errs []error
	for _, rec := range records {
		if _, err := r.adopt(rec.NID, rec.Ref); err != nil {
			errs = append(errs, err)
		}
	}
	span.SetAttributes(attribute.Int("registry.records", len(records)))
	return len(records), errors.Join(errs...)
}

// Global registry instance for package-level access.
var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
	defaultRegistryMu   sync.RWMutex
)

// Default returns the process-wide registry, creating an empty one on first
// use.
func Default() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistryMu.Lock()
		if defaultRegistry == nil {
			defaultRegistry = New()
		}
		defaultRegistryMu.Unlock()
	})

	defaultRegistryMu.RLock()
	defer defaultRegistryMu.RUnlock()
	return defaultRegistry
}

// SetDefault replaces the process-wide registry. Intended for start-up wiring
// and tests.
func SetDefault(r *Registry) {
	defaultRegistryMu.Lock()
	defer defaultRegistryMu.Unlock()
	defaultRegistry = r
}
