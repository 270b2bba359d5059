package binding

import (
	"bytes"
	"fmt"
	"go/format"
	"go/token"
	"strings"
	"text/template"

	"github.com/google/uuid"

	"github.com/termgraph/termid/component"
)

// GenerateOptions configures Generate.
type GenerateOptions struct {
	// Package is the package clause of the output. Defaults to "terms".
	Package string

	// Command is recorded in the generated header.
	Command string
}

type genEntry struct {
	Name        string
	Func        string
	Label       string
	Description string
	Kind        string
	Source      string
	UUIDs       []uuid.UUID
	Fields      []FieldDescriptor
}

var genTemplate = template.Must(template.New("terms").Parse(`// Code generated by {{.Command}}. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/google/uuid"

	"github.com/termgraph/termid/component"
)

// TableVersion is the version of the binding table these values were generated from.
const TableVersion = {{printf "%q" .Version}}
{{range .Entries}}
// {{.Name}} is the {{.Kind}} {{printf "%q" .Label}}.{{if .Description}}
// {{.Description}}{{end}}{{range .Fields}}
//   - {{.Role}}: {{.Type}}{{end}}
var {{.Name}} = component.{{.Func}}({{printf "%q" .Label}},{{range .UUIDs}}
	uuid.MustParse({{printf "%q" .String}}),{{end}}
)
{{end}}
// generated lists every generated component in table order.
var generated = []component.Ref{ {{- range .Entries}}
	{{.Name}},{{end}}
}
`))

// Generate renders t as Go source declaring one variable per entry. The table
// must validate; derived identifiers are computed at generation time so the
// output contains only literal UUIDs.
func Generate(t *Table, opts GenerateOptions, vopts ...ValidateOption) ([]byte, error) {
	if opts.Package == "" {
		opts.Package = "terms"
	}
	if !token.IsIdentifier(opts.Package) {
		return nil, fmt.Errorf("invalid package name %q", opts.Package)
	}
	if opts.Command == "" {
		opts.Command = "termid gen"
	}

	report, err := t.Validate(vopts...)
	if err != nil {
		return nil, err
	}

	entries := make([]genEntry, len(report.Refs))
	for i, ref := range report.Refs {
		e := t.Entries[i]
		fn := "MustConcept"
		if ref.Kind() == component.KindPattern {
			fn = "MustPattern"
		}
		entries[i] = genEntry{
			Name:        e.Name,
			Func:        fn,
			Label:       ref.Label(),
			Description: oneLine(e.Description),
			Kind:        ref.Kind().String(),
			Source:      e.Source,
			UUIDs:       ref.UUIDs(),
			Fields:      e.Fields,
		}
	}

	var buf bytes.Buffer
	err = genTemplate.Execute(&buf, struct {
		Package string
		Command string
		Version string
		Entries []genEntry
	}{opts.Package, opts.Command, t.Version, entries})
	if err != nil {
		return nil, fmt.Errorf("render bindings: %w", err)
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
