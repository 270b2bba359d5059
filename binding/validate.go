package binding

import (
	"errors"
	"fmt"
	"go/token"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/id"
)

// Sentinel errors for binding table validation.
var (
	// ErrMalformedBinding indicates an entry that cannot produce a valid proxy.
	ErrMalformedBinding = errors.New("malformed binding")

	// ErrAmbiguousAlias indicates one UUID claimed by two entries of the same kind.
	ErrAmbiguousAlias = component.ErrAmbiguousAlias

	// ErrDuplicateName indicates two entries sharing a generator name.
	ErrDuplicateName = errors.New("duplicate binding name")

	// ErrCrossKind indicates a UUID used by both a concept and a pattern. It is
	// only returned under WithStrictCrossKind.
	ErrCrossKind = errors.New("uuid shared across kinds")
)

// ValidationError collects every violation found in one validation pass.
type ValidationError struct {
	Violations []error
}

// Error lists the violations, one per line.
func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Error()
	}
	return fmt.Sprintf("binding table invalid (%d violations):\n  %s", len(e.Violations), strings.Join(msgs, "\n  "))
}

// Unwrap exposes the violations to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Violations
}

// CrossKindFinding records a UUID present in both a concept and a pattern.
type CrossKindFinding struct {
	UUID    uuid.UUID
	Concept string
	Pattern string
}

// Report summarizes a validated table.
type Report struct {
	Version  string
	Concepts int
	Patterns int
	// Aliases counts every indexed UUID across both kinds.
	Aliases   int
	CrossKind []CrossKindFinding
	// Refs holds the proxies in table order.
	Refs []component.Ref
}

// ValidateOption configures Validate.
type ValidateOption func(*validateConfig)

type validateConfig struct {
	strictCrossKind bool
	generator       id.Generator
	logger          *slog.Logger
}

// WithStrictCrossKind makes cross-kind findings fatal.
func WithStrictCrossKind() ValidateOption {
	return func(c *validateConfig) {
		c.strictCrossKind = true
	}
}

// WithNamespace derives every `derive: true` entry under ns, and requires a
// table's pinned namespace to equal ns. Defaults to id.Namespace.
func WithNamespace(ns uuid.UUID) ValidateOption {
	return WithGenerator(id.NewGenerator(ns))
}

// WithGenerator is WithNamespace for an existing generator.
func WithGenerator(gen id.Generator) ValidateOption {
	return func(c *validateConfig) {
		if gen != nil {
			c.generator = gen
		}
	}
}

// WithLogger sets the logger for warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) ValidateOption {
	return func(c *validateConfig) {
		c.logger = logger
	}
}

// Validate checks the whole table in one pass. It returns a report of the
// valid table, or a *ValidationError holding every violation found.
func (t *Table) Validate(opts ...ValidateOption) (*Report, error) {
	cfg := &validateConfig{generator: id.Default()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	var violations []error
	report := &Report{Version: t.Version}

	if t.Namespace != "" {
		ns, err := uuid.Parse(t.Namespace)
		switch {
		case err != nil:
			violations = append(violations, fmt.Errorf("%w: namespace %q: %w", ErrMalformedBinding, t.Namespace, err))
		case ns != cfg.generator.Namespace():
			violations = append(violations, fmt.Errorf("%w: table pins %s, runtime uses %s", ErrNamespaceMismatch, ns, cfg.generator.Namespace()))
		}
	}

	names := make(map[string]int, len(t.Entries))
	owners := make(map[component.Key]int, len(t.Entries))

	for i, e := range t.Entries {
		if problems := checkEntry(e); len(problems) > 0 {
			for _, p := range problems {
				violations = append(violations, fmt.Errorf("%w: %s: %w", ErrMalformedBinding, e, p))
			}
			continue
		}

		if prev, dup := names[e.Name]; dup {
			violations = append(violations, fmt.Errorf("%w: %s and %s", ErrDuplicateName, t.Entries[prev], e))
		} else {
			names[e.Name] = i
		}

		ref, err := e.RefWith(cfg.generator)
		if err != nil {
			violations = append(violations, fmt.Errorf("%w: %s: %w", ErrMalformedBinding, e, err))
			continue
		}

		claimed := false
		for _, key := range component.Keys(ref) {
			if prev, taken := owners[key]; taken {
				violations = append(violations, fmt.Errorf("%w: %s claimed by %s and %s", ErrAmbiguousAlias, key, t.Entries[prev], e))
				claimed = true
				continue
			}
			owners[key] = i
		}
		if claimed {
			continue
		}

		report.Refs = append(report.Refs, ref)
		report.Aliases += len(ref.UUIDs())
		if ref.Kind() == component.KindPattern {
			report.Patterns++
		} else {
			report.Concepts++
		}
	}

	report.CrossKind = crossKind(t, owners)
	for _, f := range report.CrossKind {
		if cfg.strictCrossKind {
			violations = append(violations, fmt.Errorf("%w: %s in %s and %s", ErrCrossKind, f.UUID, f.Concept, f.Pattern))
			continue
		}
		cfg.logger.Warn("uuid shared by a concept and a pattern",
			"uuid", f.UUID.String(),
			"concept", f.Concept,
			"pattern", f.Pattern,
			"table_version", t.Version,
		)
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return report, nil
}

// checkEntry reports the structural problems of one entry. Identifier
// problems are left to component construction.
func checkEntry(e Entry) []error {
	var problems []error

	kind, err := e.ComponentKind()
	if err != nil {
		problems = append(problems, err)
	}
	if strings.TrimSpace(e.Label) == "" {
		problems = append(problems, component.ErrEmptyLabel)
	}
	if e.Name == "" {
		problems = append(problems, errors.New("missing name"))
	} else if !token.IsIdentifier(e.Name) || !token.IsExported(e.Name) {
		problems = append(problems, fmt.Errorf("name %q is not an exported Go identifier", e.Name))
	}
	if len(e.UUIDs) == 0 && !e.Derive {
		problems = append(problems, component.ErrNoIdentifiers)
	}
	if kind == component.KindConcept && len(e.Fields) > 0 {
		problems = append(problems, errors.New("field descriptors are only allowed on patterns"))
	}
	for j, f := range e.Fields {
		if strings.TrimSpace(f.Role) == "" || strings.TrimSpace(f.Type) == "" {
			problems = append(problems, fmt.Errorf("field %d needs both role and type", j))
		}
	}
	return problems
}

func crossKind(t *Table, owners map[component.Key]int) []CrossKindFinding {
	var findings []CrossKindFinding
	for key, ci := range owners {
		if key.Kind != component.KindConcept {
			continue
		}
		pi, shared := owners[component.Key{Kind: component.KindPattern, UUID: key.UUID}]
		if !shared {
			continue
		}
		findings = append(findings, CrossKindFinding{
			UUID:    key.UUID,
			Concept: t.Entries[ci].String(),
			Pattern: t.Entries[pi].String(),
		})
	}
	sort.Slice(findings, func(i, j int) bool {
		return findings[i].UUID.String() < findings[j].UUID.String()
	})
	return findings
}

// Concepts validates the table and returns its concepts in table order.
func (t *Table) Concepts(opts ...ValidateOption) ([]component.Concept, error) {
	report, err := t.Validate(opts...)
	if err != nil {
		return nil, err
	}
	var out []component.Concept
	for _, ref := range report.Refs {
		if c, ok := ref.(component.Concept); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Patterns validates the table and returns its patterns in table order.
func (t *Table) Patterns(opts ...ValidateOption) ([]component.Pattern, error) {
	report, err := t.Validate(opts...)
	if err != nil {
		return nil, err
	}
	var out []component.Pattern
	for _, ref := range report.Refs {
		if p, ok := ref.(component.Pattern); ok {
			out = append(out, p)
		}
	}
	return out, nil
}
