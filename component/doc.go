// Package component provides the immutable component proxy values of the
// knowledge graph: Concept and Pattern.
//
// A proxy is "a reference to exactly one logical component". It carries a
// human-readable label, used for diagnostics only, and an ordered, non-empty,
// duplicate-free list of UUIDs that all denote the same component. The first
// UUID is the primary identifier; the rest are aliases accumulated through
// merges, legacy imports, or identifier churn in upstream vocabularies.
//
// # Equality
//
// Two proxies of the same kind are equal iff their UUID sets intersect. Labels
// and primary identifiers play no part in equality:
//
//	a := component.MustConcept("A", u1, u2)
//	b := component.MustConcept("B", u2, u3)
//	a.Equal(b) // true, they share u2
//
// # Kinds
//
// Concept and Pattern share one shape but are distinct types. A Pattern can
// never be passed, assigned, or converted where a Concept is expected, and
// Equal is only defined between proxies of the same kind. Code that works on
// any proxy, such as diagnostic tooling, accepts the read-only Ref interface,
// which only Concept and Pattern implement.
//
// # Concurrency
//
// Proxies are values with no mutable state. They can be created, copied and
// compared from any number of goroutines without synchronization.
package component
