// Package terms holds the well-known components of the terminology graph.
//
// The bindings live in bindings.yaml, embedded into the binary. Every entry is
// also available as a typed variable, generated from the same file:
//
//	english := terms.EnglishLanguage          // component.Concept
//	dialect := terms.USDialectPattern         // component.Pattern
//
// Code that only knows a UUID resolves it through Registry, which indexes every
// alias of every entry.
package terms

//go:generate go run ../cmd/termid gen --table-file bindings.yaml --out terms_generated.go --package terms

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/registry"
)

//go:embed bindings.yaml
var bindingsYAML []byte

var table *binding.Table

func init() {
	t, err := binding.Parse(bindingsYAML)
	if err != nil {
		panic(fmt.Sprintf("terms: %v", err))
	}
	if _, err := t.Validate(binding.WithStrictCrossKind()); err != nil {
		panic(fmt.Sprintf("terms: embedded bindings invalid: %v", err))
	}
	for i := range t.Entries {
		t.Entries[i].Source = "bindings.yaml"
	}
	table = t
}

// Table returns a deep copy of the embedded binding table.
func Table() *binding.Table {
	return table.Clone()
}

// YAML returns the embedded table source.
func YAML() []byte {
	out := make([]byte, len(bindingsYAML))
	copy(out, bindingsYAML)
	return out
}

// All returns every well-known component in table order.
func All() []component.Ref {
	out := make([]component.Ref, len(generated))
	copy(out, generated)
	return out
}

var loaded = sync.OnceValue(func() *registry.Registry {
	r := registry.New()
	if _, err := r.LoadTable(context.Background(), Table()); err != nil {
		panic(fmt.Sprintf("terms: %v", err))
	}
	return r
})

// Registry returns a process-wide registry holding the embedded bindings.
func Registry() *registry.Registry {
	return loaded()
}

// Concept resolves any alias of a well-known concept.
func Concept(u uuid.UUID) (component.Concept, bool) {
	return Registry().Concept(u)
}

// Pattern resolves any alias of a well-known pattern.
func Pattern(u uuid.UUID) (component.Pattern, bool) {
	return Registry().Pattern(u)
}
