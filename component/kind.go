package component

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKind indicates a kind name that is neither concept nor pattern.
var ErrUnknownKind = errors.New("unknown component kind")

// Kind discriminates the disjoint component proxy kinds.
type Kind uint8

const (
	// KindUnknown is the zero Kind. No valid proxy has it.
	KindUnknown Kind = iota
	// KindConcept marks atomic, nameable nodes of the terminology graph.
	KindConcept
	// KindPattern marks schema-like descriptors of semantic record shapes.
	KindPattern
)

// Kinds lists every valid kind in declaration order.
var Kinds = []Kind{KindConcept, KindPattern}

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindConcept:
		return "concept"
	case KindPattern:
		return "pattern"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is KindConcept or KindPattern.
func (k Kind) Valid() bool {
	return k == KindConcept || k == KindPattern
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "concept":
		return KindConcept, nil
	case "pattern":
		return KindPattern, nil
	default:
		return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, uint8(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
