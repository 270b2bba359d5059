package component

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// wire is the JSON shape of a proxy.
type wire struct {
	Kind  Kind        `json:"kind"`
	Label string      `json:"label"`
	UUIDs []uuid.UUID `json:"uuids"`
}

// MarshalJSON encodes the concept as {"kind":"concept","label":...,"uuids":[...]}.
func (c Concept) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{Kind: KindConcept, Label: c.concept.label, UUIDs: c.concept.ids})
}

// UnmarshalJSON decodes and re-validates a concept. A payload of another
// kind fails with ErrKindMismatch.
func (c *Concept) UnmarshalJSON(data []byte) error {
	w, err := decodeWire(data, KindConcept)
	if err != nil {
		return err
	}
	decoded, err := ConceptFrom(w.Label, w.UUIDs)
	if err != nil {
		return err
	}
	*c = decoded
	return nil
}

// MarshalJSON encodes the pattern as {"kind":"pattern","label":...,"uuids":[...]}.
func (p Pattern) MarshalJSON() ([]byte, error) {
	return json.Marshal(wire{Kind: KindPattern, Label: p.pattern.label, UUIDs: p.pattern.ids})
}

// UnmarshalJSON decodes and re-validates a pattern.
func (p *Pattern) UnmarshalJSON(data []byte) error {
	w, err := decodeWire(data, KindPattern)
	if err != nil {
		return err
	}
	decoded, err := PatternFrom(w.Label, w.UUIDs)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// Decode decodes a proxy of either kind, dispatching on its "kind" field.
func Decode(data []byte) (Ref, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("decode component: %w", err)
	}
	var (
		ref Ref
		err error
	)
	switch w.Kind {
	case KindConcept:
		ref, err = ConceptFrom(w.Label, w.UUIDs)
	case KindPattern:
		ref, err = PatternFrom(w.Label, w.UUIDs)
	default:
		err = ErrUnknownKind
	}
	if err != nil {
		return nil, fmt.Errorf("decode component: %w", err)
	}
	return ref, nil
}

func decodeWire(data []byte, want Kind) (wire, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return wire{}, fmt.Errorf("decode %s: %w", want, err)
	}
	if w.Kind != want {
		return wire{}, fmt.Errorf("decode %s: %w: got %s", want, ErrKindMismatch, w.Kind)
	}
	return w, nil
}
