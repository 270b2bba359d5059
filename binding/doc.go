// Package binding loads and validates the declarative binding table that
// names well-known components.
//
// The binding table is data, not code: a versioned YAML document listing every
// well-known Concept and Pattern with its label and alias UUIDs, or a request
// to derive its UUID from the label. A table looks like:
//
//	version: "2024.1"
//	namespace: f7ef93c7-97d6-4b52-a16e-f09877e3cf98
//	components:
//	  - kind: concept
//	    name: EnglishLanguage
//	    label: English Language
//	    uuids:
//	      - 02018e5a-46ba-5297-92f1-6931b9f98a12
//	      - 06d905ea-c647-3af9-bfe5-2514e135b558
//	  - kind: pattern
//	    name: DescriptionPattern
//	    label: Description Pattern
//	    derive: true
//	    fields:
//	      - role: Language for description
//	        type: component
//
// # Validation
//
// Validate checks the whole table in a single pass and collects every
// violation into one *ValidationError:
//   - malformed bindings: empty label or name, no identifiers, unparsable or
//     duplicate UUIDs inside one entry, field descriptors on a concept
//   - ambiguous aliases: one UUID claimed by two entries of the same kind
//   - duplicate generator names
//
// A UUID shared between a concept and a pattern is reported as a cross-kind
// finding and logged as a warning. It only fails validation with
// WithStrictCrossKind.
//
// Field descriptors are documentation attached to a pattern's definition.
// They take no part in identity and are never enforced here.
package binding
