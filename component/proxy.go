package component

import (
	"github.com/google/uuid"

	"github.com/termgraph/termid/id"
)

// Ref is the read-only capability shared by every component proxy.
//
// Only Concept and Pattern implement Ref. A type switch over the two is
// exhaustive:
//
//	switch v := ref.(type) {
//	case component.Concept:
//	case component.Pattern:
//	}
type Ref interface {
	// Kind returns the proxy kind.
	Kind() Kind

	// Label returns the display label. It never takes part in identity.
	Label() string

	// UUIDs returns a copy of the identifiers, primary first.
	UUIDs() []uuid.UUID

	// Primary returns the identifier to use when a single UUID must be chosen.
	Primary() uuid.UUID

	// Contains reports whether u is one of the identifiers.
	Contains(u uuid.UUID) bool

	// String returns a diagnostic rendering of the proxy.
	String() string

	sealed()
}

// Concept is a reference to an atomic node of the terminology graph.
// The zero Concept is invalid and equal to nothing.
type Concept struct {
	concept record
}

// Pattern is a reference to a semantic record-shape descriptor.
// The zero Pattern is invalid and equal to nothing.
type Pattern struct {
	pattern record
}

var (
	_ Ref = Concept{}
	_ Ref = Pattern{}
)

// NewConcept builds a Concept from a label and one or more UUIDs.
// The UUIDs keep the given order; the first is the primary identifier.
//
// Returns an error wrapping ErrEmptyLabel, ErrNilUUID or ErrDuplicateUUID for
// malformed input.
func NewConcept(label string, first uuid.UUID, more ...uuid.UUID) (Concept, error) {
	return ConceptFrom(label, joinIDs(first, more))
}

// ConceptFrom is NewConcept over a slice. An empty slice fails with
// ErrNoIdentifiers.
func ConceptFrom(label string, ids []uuid.UUID) (Concept, error) {
	r, err := newRecord(KindConcept, label, ids)
	if err != nil {
		return Concept{}, err
	}
	return Concept{concept: r}, nil
}

// MustConcept is like NewConcept but panics on malformed input. It is meant
// for package-level bindings, where a malformed binding is a build error.
func MustConcept(label string, first uuid.UUID, more ...uuid.UUID) Concept {
	c, err := NewConcept(label, first, more...)
	if err != nil {
		panic(err)
	}
	return c
}

// DeriveConcept builds a Concept whose sole identifier is derived from label.
// It panics if label is empty.
func DeriveConcept(label string) Concept {
	return MustConcept(label, id.Derive(label))
}

// NewPattern builds a Pattern from a label and one or more UUIDs.
// The UUIDs keep the given order; the first is the primary identifier.
func NewPattern(label string, first uuid.UUID, more ...uuid.UUID) (Pattern, error) {
	return PatternFrom(label, joinIDs(first, more))
}

// PatternFrom is NewPattern over a slice.
func PatternFrom(label string, ids []uuid.UUID) (Pattern, error) {
	r, err := newRecord(KindPattern, label, ids)
	if err != nil {
		return Pattern{}, err
	}
	return Pattern{pattern: r}, nil
}

// MustPattern is like NewPattern but panics on malformed input.
func MustPattern(label string, first uuid.UUID, more ...uuid.UUID) Pattern {
	p, err := NewPattern(label, first, more...)
	if err != nil {
		panic(err)
	}
	return p
}

// DerivePattern builds a Pattern whose sole identifier is derived from label.
// It panics if label is empty.
func DerivePattern(label string) Pattern {
	return MustPattern(label, id.Derive(label))
}

func (Concept) sealed() {}

// Kind returns KindConcept.
func (Concept) Kind() Kind { return KindConcept }

// Label returns the display label.
func (c Concept) Label() string { return c.concept.label }

// UUIDs returns a copy of the identifiers, primary first.
func (c Concept) UUIDs() []uuid.UUID { return c.concept.uuids() }

// Primary returns the first identifier.
func (c Concept) Primary() uuid.UUID { return c.concept.primary() }

// Aliases returns every identifier but the primary.
func (c Concept) Aliases() []uuid.UUID { return c.concept.aliases() }

// Contains reports whether u identifies this concept.
func (c Concept) Contains(u uuid.UUID) bool { return c.concept.contains(u) }

// Len returns the number of identifiers.
func (c Concept) Len() int { return len(c.concept.ids) }

// IsZero reports whether c is the zero Concept.
func (c Concept) IsZero() bool { return len(c.concept.ids) == 0 }

// Equal reports whether c and other share at least one identifier.
func (c Concept) Equal(other Concept) bool { return c.concept.shared(other.concept) > 0 }

// String returns a diagnostic rendering such as
// `concept "English Language" [02018e5a-... 06d905ea-...]`.
func (c Concept) String() string { return c.concept.format(KindConcept) }

// Merge reconciles two concepts found to denote the same component. The
// result keeps c's label and identifier order and appends other's new
// identifiers. Merging concepts that share nothing fails with ErrDisjoint.
func (c Concept) Merge(other Concept) (Concept, error) {
	if !c.Equal(other) {
		return Concept{}, ErrDisjoint
	}
	return ConceptFrom(c.concept.label, c.concept.union(other.concept))
}

func (Pattern) sealed() {}

// Kind returns KindPattern.
func (Pattern) Kind() Kind { return KindPattern }

// Label returns the display label.
func (p Pattern) Label() string { return p.pattern.label }

// UUIDs returns a copy of the identifiers, primary first.
func (p Pattern) UUIDs() []uuid.UUID { return p.pattern.uuids() }

// Primary returns the first identifier.
func (p Pattern) Primary() uuid.UUID { return p.pattern.primary() }

// Aliases returns every identifier but the primary.
func (p Pattern) Aliases() []uuid.UUID { return p.pattern.aliases() }

// Contains reports whether u identifies this pattern.
func (p Pattern) Contains(u uuid.UUID) bool { return p.pattern.contains(u) }

// Len returns the number of identifiers.
func (p Pattern) Len() int { return len(p.pattern.ids) }

// IsZero reports whether p is the zero Pattern.
func (p Pattern) IsZero() bool { return len(p.pattern.ids) == 0 }

// Equal reports whether p and other share at least one identifier.
func (p Pattern) Equal(other Pattern) bool { return p.pattern.shared(other.pattern) > 0 }

// String returns a diagnostic rendering of the pattern.
func (p Pattern) String() string { return p.pattern.format(KindPattern) }

// Merge reconciles two patterns found to denote the same component.
func (p Pattern) Merge(other Pattern) (Pattern, error) {
	if !p.Equal(other) {
		return Pattern{}, ErrDisjoint
	}
	return PatternFrom(p.pattern.label, p.pattern.union(other.pattern))
}
