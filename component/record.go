package component

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Sentinel errors for proxy construction and reconciliation.
var (
	// ErrEmptyLabel indicates a proxy was built without a display label.
	ErrEmptyLabel = errors.New("empty label")

	// ErrNoIdentifiers indicates a proxy was built with an empty UUID list.
	ErrNoIdentifiers = errors.New("no identifiers")

	// ErrNilUUID indicates the all-zero UUID was supplied as an identifier.
	ErrNilUUID = errors.New("nil uuid")

	// ErrDuplicateUUID indicates the same UUID appears twice in one proxy.
	ErrDuplicateUUID = errors.New("duplicate uuid")

	// ErrDisjoint indicates a merge of two proxies that share no UUID.
	ErrDisjoint = errors.New("identifier sets are disjoint")

	// ErrKindMismatch indicates an encoded proxy of the wrong kind.
	ErrKindMismatch = errors.New("component kind mismatch")

	// ErrAmbiguousAlias indicates UUIDs that would make two distinct components
	// of one kind equal. Binding validation and the registry both report it.
	ErrAmbiguousAlias = errors.New("ambiguous alias")
)

// record is the value shared by both proxy kinds. It is never mutated after
// newRecord returns.
type record struct {
	label string
	ids   []uuid.UUID
}

func newRecord(kind Kind, label string, ids []uuid.UUID) (record, error) {
	if strings.TrimSpace(label) == "" {
		return record{}, fmt.Errorf("%s: %w", kind, ErrEmptyLabel)
	}
	if len(ids) == 0 {
		return record{}, fmt.Errorf("%s %q: %w", kind, label, ErrNoIdentifiers)
	}

	seen := make(map[uuid.UUID]struct{}, len(ids))
	for i, u := range ids {
		if u == uuid.Nil {
			return record{}, fmt.Errorf("%s %q: %w at position %d", kind, label, ErrNilUUID, i)
		}
		if _, dup := seen[u]; dup {
			return record{}, fmt.Errorf("%s %q: %w %s", kind, label, ErrDuplicateUUID, u)
		}
		seen[u] = struct{}{}
	}

	owned := make([]uuid.UUID, len(ids))
	copy(owned, ids)
	return record{label: label, ids: owned}, nil
}

func joinIDs(first uuid.UUID, more []uuid.UUID) []uuid.UUID {
	ids := make([]uuid.UUID, 0, 1+len(more))
	ids = append(ids, first)
	return append(ids, more...)
}

func (r record) uuids() []uuid.UUID {
	if len(r.ids) == 0 {
		return nil
	}
	out := make([]uuid.UUID, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r record) primary() uuid.UUID {
	if len(r.ids) == 0 {
		return uuid.Nil
	}
	return r.ids[0]
}

func (r record) aliases() []uuid.UUID {
	if len(r.ids) < 2 {
		return nil
	}
	out := make([]uuid.UUID, len(r.ids)-1)
	copy(out, r.ids[1:])
	return out
}

func (r record) contains(u uuid.UUID) bool {
	for _, have := range r.ids {
		if have == u {
			return true
		}
	}
	return false
}

// shared counts the UUIDs present in both records.
func (r record) shared(other record) int {
	n := 0
	for _, u := range r.ids {
		if other.contains(u) {
			n++
		}
	}
	return n
}

// union keeps r's order and appends other's UUIDs not already present.
func (r record) union(other record) []uuid.UUID {
	out := r.uuids()
	for _, u := range other.ids {
		if !r.contains(u) {
			out = append(out, u)
		}
	}
	return out
}

func (r record) format(kind Kind) string {
	if len(r.ids) == 0 {
		return kind.String() + "(zero)"
	}
	parts := make([]string, len(r.ids))
	for i, u := range r.ids {
		parts[i] = u.String()
	}
	return fmt.Sprintf("%s %q [%s]", kind, r.label, strings.Join(parts, " "))
}
