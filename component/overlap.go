package component

import (
	"fmt"

	"github.com/google/uuid"
)

// Overlap classifies how the identifier sets of two proxies relate.
type Overlap int

const (
	// OverlapNone means the proxies share no identifier, or differ in kind.
	OverlapNone Overlap = iota
	// OverlapPartial means some but not all identifiers are shared.
	OverlapPartial
	// OverlapFull means both proxies carry exactly the same identifier set,
	// in any order.
	OverlapFull
)

// String returns the overlap name.
func (o Overlap) String() string {
	switch o {
	case OverlapNone:
		return "none"
	case OverlapPartial:
		return "partial"
	case OverlapFull:
		return "full"
	default:
		return fmt.Sprintf("overlap(%d)", int(o))
	}
}

// Compare classifies the overlap of a and b. Proxies of different kinds never
// overlap, even when they carry the same UUID.
func Compare(a, b Ref) Overlap {
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return OverlapNone
	}
	ra, rb := recordOf(a), recordOf(b)
	n := ra.shared(rb)
	switch {
	case n == 0:
		return OverlapNone
	case n == len(ra.ids) && n == len(rb.ids):
		return OverlapFull
	default:
		return OverlapPartial
	}
}

// Same reports whether a and b denote the same component: same kind and at
// least one shared identifier.
func Same(a, b Ref) bool {
	return Compare(a, b) != OverlapNone
}

func recordOf(ref Ref) record {
	switch v := ref.(type) {
	case Concept:
		return v.concept
	case Pattern:
		return v.pattern
	default:
		return record{}
	}
}

// Key identifies one alias within one kind partition. Lookup indexes and
// storage partitions are keyed by Key, never by bare UUID, so a concept and a
// pattern carrying the same UUID never collide.
type Key struct {
	Kind Kind
	UUID uuid.UUID
}

// String returns "kind/uuid".
func (k Key) String() string {
	return k.Kind.String() + "/" + k.UUID.String()
}

// KeyOf returns the key of ref's primary identifier.
func KeyOf(ref Ref) Key {
	return Key{Kind: ref.Kind(), UUID: ref.Primary()}
}

// Keys returns one key per identifier of ref, primary first.
func Keys(ref Ref) []Key {
	ids := ref.UUIDs()
	keys := make([]Key, len(ids))
	for i, u := range ids {
		keys[i] = Key{Kind: ref.Kind(), UUID: u}
	}
	return keys
}
