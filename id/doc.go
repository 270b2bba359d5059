// Package id provides deterministic UUID derivation for graph components.
//
// Components newly defined by this system have no legacy identity to preserve,
// so their UUIDs are derived from a human-readable name instead of being
// registered up front. Derivation is the RFC 4122 name-based scheme (version 5,
// SHA-1) applied to a single fixed namespace:
//
//	f7ef93c7-97d6-4b52-a16e-f09877e3cf98
//
// # Determinism Guarantees
//
// The derivation guarantees:
//   - Same name always produces the same UUID
//   - Different names produce different UUIDs (SHA-1 collision resistance)
//   - Derived UUIDs carry the standard version and variant bits, so they are
//     indistinguishable in layout from literal UUIDs
//
// Names are hashed verbatim as UTF-8. There is no case folding or whitespace
// trimming: a name is effectively a versioned contract, and renaming it changes
// the identity of the component for everyone who relies on derivation.
//
// # Usage
//
//	english := id.Derive("English Language")
//
// A deployment that must break compatibility with previously derived UUIDs does
// so explicitly by binding a different namespace:
//
//	gen := id.NewGenerator(uuid.MustParse("..."))
//	u := gen.Derive("English Language")
//
// Changing Namespace itself invalidates every derived UUID ever produced.
package id
