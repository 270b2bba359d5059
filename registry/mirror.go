package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/termgraph/termid/component"
)

// Mirror publishes the alias index to an external store shared by several
// processes. Every alias of a component maps to the same Record.
type Mirror interface {
	// Publish writes rec under every alias of rec.Ref.
	Publish(ctx context.Context, rec Record) error

	// Resolve returns the record indexed under key, or ErrNotFound.
	Resolve(ctx context.Context, key component.Key) (Record, error)

	// List returns one record per published component.
	List(ctx context.Context) ([]Record, error)

	// Close releases the underlying connection.
	Close() error
}

// Record is the mirrored form of a registered component.
type Record struct {
	NID NID
	Ref component.Ref
}

type recordWire struct {
	NID       NID             `json:"nid"`
	Component json.RawMessage `json:"component"`
}

// MarshalJSON encodes the record as {"nid": n, "component": {...}}.
func (r Record) MarshalJSON() ([]byte, error) {
	if r.Ref == nil {
		return nil, ErrInvalidComponent
	}
	data, err := json.Marshal(r.Ref)
	if err != nil {
		return nil, err
	}
	return json.Marshal(recordWire{NID: r.NID, Component: data})
}

// UnmarshalJSON decodes and revalidates a record.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.NID <= 0 {
		return fmt.Errorf("%w: nid %d", ErrInvalidComponent, w.NID)
	}
	ref, err := component.Decode(w.Component)
	if err != nil {
		return err
	}
	r.NID = w.NID
	r.Ref = ref
	return nil
}

// dedupe keeps the first record seen per NID.
func dedupe(records []Record) []Record {
	seen := make(map[NID]struct{}, len(records))
	out := records[:0]
	for _, rec := range records {
		if _, ok := seen[rec.NID]; ok {
			continue
		}
		seen[rec.NID] = struct{}{}
		out = append(out, rec)
	}
	return out
}
