package binding

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

// ErrInvalidFilter indicates a filter expression that does not compile to a
// boolean.
var ErrInvalidFilter = errors.New("invalid filter")

// Filter selects binding entries with a CEL expression. The expression sees:
//
//	kind        string             "concept" or "pattern"
//	name        string
//	label       string
//	description string
//	uuids       list(string)       literal UUIDs, primary first
//	derived     bool
//	fields      list(map(string, string))  {"role": ..., "type": ...}
//
// Examples:
//
//	kind == "pattern" && size(fields) > 2
//	size(uuids) > 1
//	label.startsWith("English")
type Filter struct {
	expr    string
	program cel.Program
}

var filterEnv = sync.OnceValues(func() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("name", cel.StringType),
		cel.Variable("label", cel.StringType),
		cel.Variable("description", cel.StringType),
		cel.Variable("uuids", cel.ListType(cel.StringType)),
		cel.Variable("derived", cel.BoolType),
		cel.Variable("fields", cel.ListType(cel.MapType(cel.StringType, cel.StringType))),
	)
})

// NewFilter compiles expr.
func NewFilter(expr string) (*Filter, error) {
	env, err := filterEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create filter environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q evaluates to %s, want bool", ErrInvalidFilter, expr, ast.OutputType())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFilter, expr, err)
	}
	return &Filter{expr: expr, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.expr
}

// Match evaluates the filter against one entry.
func (f *Filter) Match(e Entry) (bool, error) {
	uuids := e.UUIDs
	if uuids == nil {
		uuids = []string{}
	}
	fields := make([]map[string]string, len(e.Fields))
	for i, fd := range e.Fields {
		fields[i] = map[string]string{"role": fd.Role, "type": fd.Type}
	}

	out, _, err := f.program.Eval(map[string]any{
		"kind":        e.Kind,
		"name":        e.Name,
		"label":       e.Label,
		"description": e.Description,
		"uuids":       uuids,
		"derived":     e.Derive,
		"fields":      fields,
	})
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q on %s: %w", f.expr, e, err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("%w: %q returned %T", ErrInvalidFilter, f.expr, out.Value())
	}
	return matched, nil
}

// Select returns the entries matching f, in table order. A nil filter
// selects everything.
func (t *Table) Select(f *Filter) ([]Entry, error) {
	if f == nil {
		out := make([]Entry, len(t.Entries))
		copy(out, t.Entries)
		return out, nil
	}
	var out []Entry
	for _, e := range t.Entries {
		ok, err := f.Match(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	return out, nil
}
