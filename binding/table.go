package binding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/id"
)

// FieldDescriptor documents one field of a pattern: its semantic role and the
// kind of value it holds (component, string, float, integer, instant, boolean,
// tree, component_set, component_list, ...).
type FieldDescriptor struct {
	Role string `yaml:"role" json:"role"`
	Type string `yaml:"type" json:"type"`
}

// Entry is one binding: a named, well-known component.
type Entry struct {
	// Kind is "concept" or "pattern".
	Kind string `yaml:"kind" json:"kind"`

	// Name is the exported Go identifier the generator emits for the entry.
	Name string `yaml:"name" json:"name"`

	// Label is the display label. When Derive is set it is also the
	// derivation name.
	Label string `yaml:"label" json:"label"`

	// UUIDs are literal identifiers, primary first.
	UUIDs []string `yaml:"uuids,omitempty" json:"uuids,omitempty"`

	// Derive requests a UUID derived from Label. The derived UUID becomes the
	// primary identifier and any literal UUIDs follow it as aliases.
	Derive bool `yaml:"derive,omitempty" json:"derive,omitempty"`

	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []FieldDescriptor `yaml:"fields,omitempty" json:"fields,omitempty"`

	// Source is the file the entry was loaded from.
	Source string `yaml:"-" json:"-"`
}

// ComponentKind parses the entry kind.
func (e Entry) ComponentKind() (component.Kind, error) {
	return component.ParseKind(e.Kind)
}

// Identifiers returns the entry's UUIDs in binding order, deriving under the
// identity namespace.
func (e Entry) Identifiers() ([]uuid.UUID, error) {
	return e.IdentifiersWith(id.Default())
}

// IdentifiersWith is Identifiers with derived UUIDs taken from gen.
func (e Entry) IdentifiersWith(gen id.Generator) ([]uuid.UUID, error) {
	literal, err := id.ParseAll(e.UUIDs...)
	if err != nil {
		return nil, err
	}
	if !e.Derive {
		return literal, nil
	}
	return append([]uuid.UUID{gen.Derive(e.Label)}, literal...), nil
}

// Ref builds the proxy the entry binds.
func (e Entry) Ref() (component.Ref, error) {
	return e.RefWith(id.Default())
}

// RefWith is Ref with derived UUIDs taken from gen.
func (e Entry) RefWith(gen id.Generator) (component.Ref, error) {
	kind, err := e.ComponentKind()
	if err != nil {
		return nil, err
	}
	ids, err := e.IdentifiersWith(gen)
	if err != nil {
		return nil, err
	}
	var ref component.Ref
	switch kind {
	case component.KindPattern:
		ref, err = component.PatternFrom(e.Label, ids)
	default:
		ref, err = component.ConceptFrom(e.Label, ids)
	}
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// String identifies the entry in diagnostics.
func (e Entry) String() string {
	name := e.Name
	if name == "" {
		name = fmt.Sprintf("%q", e.Label)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s %s (%s)", e.Kind, name, e.Source)
	}
	return e.Kind + " " + name
}

// Table is a versioned binding table.
type Table struct {
	// Version identifies the table revision. Renaming or re-deriving any
	// binding is a breaking change and must bump it.
	Version string `yaml:"version" json:"version"`

	// Namespace, when set, pins the derivation namespace the table was
	// authored against.
	Namespace string `yaml:"namespace,omitempty" json:"namespace,omitempty"`

	Entries []Entry `yaml:"components" json:"components"`
}

// ErrNamespaceMismatch indicates tables authored against different namespaces.
var ErrNamespaceMismatch = errors.New("namespace mismatch")

// Parse decodes a YAML binding table. Unknown keys are rejected so typos in
// hand-maintained tables surface immediately.
func Parse(data []byte) (*Table, error) {
	return parse(data, "")
}

func parse(data []byte, source string) (*Table, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var t Table
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return &t, nil
		}
		if source != "" {
			return nil, fmt.Errorf("failed to parse binding table %s: %w", source, err)
		}
		return nil, fmt.Errorf("failed to parse binding table: %w", err)
	}

	for i := range t.Entries {
		t.Entries[i].Source = source
	}
	return &t, nil
}

// Load reads a binding table from path. If path is a directory, every *.yaml
// and *.yml file in it is loaded in name order and merged.
func Load(p string) (*Table, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(p), ".")
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read binding table: %w", err)
	}
	return parse(data, filepath.Base(p))
}

// LoadFS reads a binding table from fsys. p may name a file or a directory.
func LoadFS(fsys fs.FS, p string) (*Table, error) {
	info, err := fs.Stat(fsys, p)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	var files []string
	if info.IsDir() {
		dirEntries, err := fs.ReadDir(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory: %w", err)
		}
		for _, de := range dirEntries {
			ext := strings.ToLower(path.Ext(de.Name()))
			if de.IsDir() || (ext != ".yaml" && ext != ".yml") {
				continue
			}
			files = append(files, path.Join(p, de.Name()))
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no binding tables found in %s", p)
		}
		sort.Strings(files)
	} else {
		files = []string{p}
	}

	merged := &Table{}
	for _, f := range files {
		data, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("failed to read binding table: %w", err)
		}
		t, err := parse(data, f)
		if err != nil {
			return nil, err
		}
		if err := merged.Merge(t); err != nil {
			return nil, fmt.Errorf("failed to merge %s: %w", f, err)
		}
	}
	return merged, nil
}

// Merge appends other's entries to t. Both tables must agree on namespace;
// t keeps its version unless it has none.
func (t *Table) Merge(other *Table) error {
	if other == nil {
		return nil
	}
	if t.Namespace != "" && other.Namespace != "" && !strings.EqualFold(t.Namespace, other.Namespace) {
		return fmt.Errorf("%w: %s vs %s", ErrNamespaceMismatch, t.Namespace, other.Namespace)
	}
	if t.Namespace == "" {
		t.Namespace = other.Namespace
	}
	if t.Version == "" {
		t.Version = other.Version
	}
	for _, e := range other.Entries {
		t.Entries = append(t.Entries, e.clone())
	}
	return nil
}

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{Version: t.Version, Namespace: t.Namespace}
	if t.Entries != nil {
		out.Entries = make([]Entry, len(t.Entries))
		for i, e := range t.Entries {
			out.Entries[i] = e.clone()
		}
	}
	return out
}

func (e Entry) clone() Entry {
	e.UUIDs = slices.Clone(e.UUIDs)
	e.Fields = slices.Clone(e.Fields)
	return e
}

// Entry returns the entry with the given generator name.
func (t *Table) Entry(name string) (Entry, bool) {
	for _, e := range t.Entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Marshal encodes the table as YAML.
func (t *Table) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return nil, fmt.Errorf("failed to encode binding table: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode binding table: %w", err)
	}
	return buf.Bytes(), nil
}
