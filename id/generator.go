package id

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NamespaceString is the textual form of Namespace.
const NamespaceString = "f7ef93c7-97d6-4b52-a16e-f09877e3cf98"

// Namespace is the fixed namespace all component UUIDs are derived from.
// It must never be assigned; Derive and Default are bound to NamespaceString
// and ignore writes to this variable.
var Namespace = uuid.MustParse(NamespaceString)

// ErrInvalidUUID indicates a literal UUID string could not be parsed.
var ErrInvalidUUID = errors.New("invalid uuid")

// Generator derives UUIDs from names.
type Generator interface {
	// Derive returns the name-based UUID for name. It is total over all
	// strings and never fails.
	Derive(name string) uuid.UUID

	// Namespace returns the namespace the generator hashes names into.
	Namespace() uuid.UUID
}

// NamespaceGenerator implements Generator with RFC 4122 version 5 hashing
// over a single namespace.
type NamespaceGenerator struct {
	namespace uuid.UUID
}

// NewGenerator creates a NamespaceGenerator bound to namespace.
//
// Binding anything other than Namespace produces UUIDs that are not
// interoperable with the rest of the platform. Use it only to version or
// deliberately break compatibility.
func NewGenerator(namespace uuid.UUID) *NamespaceGenerator {
	return &NamespaceGenerator{namespace: namespace}
}

var defaultGenerator = NewGenerator(uuid.MustParse(NamespaceString))

// Default returns the generator bound to Namespace.
func Default() *NamespaceGenerator {
	return defaultGenerator
}

// Derive returns SHA-1(namespace ‖ name) laid out as a version 5 UUID.
func (g *NamespaceGenerator) Derive(name string) uuid.UUID {
	return uuid.NewSHA1(g.namespace, []byte(name))
}

// Namespace returns the bound namespace.
func (g *NamespaceGenerator) Namespace() uuid.UUID {
	return g.namespace
}

// Derive returns the UUID for name under Namespace.
//
// Example:
//
//	u := id.Derive("English Language")
//	// u = 4f8fe181-9a0f-564c-aa28-afc6458ef808
func Derive(name string) uuid.UUID {
	return defaultGenerator.Derive(name)
}

// IsDerived reports whether u is the derivation of name under Namespace.
func IsDerived(name string, u uuid.UUID) bool {
	return Derive(name) == u
}

// ParseAll parses literal UUID strings, preserving order.
// The first unparsable entry stops parsing and is reported with its position.
func ParseAll(values ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(values))
	for i, v := range values {
		u, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("%w at position %d (%q): %v", ErrInvalidUUID, i, v, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// MustParseAll is like ParseAll but panics on error. It is intended for
// package-level binding declarations where a bad literal is a build error.
func MustParseAll(values ...string) []uuid.UUID {
	out, err := ParseAll(values...)
	if err != nil {
		panic(err)
	}
	return out
}
