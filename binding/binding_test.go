package binding

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/id"
)

func TestLoadValidTable(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "valid.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "test.1", table.Version)
	require.Len(t, table.Entries, 3)
	assert.Equal(t, "valid.yaml", table.Entries[0].Source)

	report, err := table.Validate()
	require.NoError(t, err)

	assert.Equal(t, 1, report.Concepts)
	assert.Equal(t, 2, report.Patterns)
	assert.Equal(t, 5, report.Aliases)
	assert.Empty(t, report.CrossKind)
	require.Len(t, report.Refs, 3)

	english, ok := report.Refs[0].(component.Concept)
	require.True(t, ok)
	assert.Equal(t, 3, english.Len())
	assert.Equal(t, "02018e5a-46ba-5297-92f1-6931b9f98a12", english.Primary().String())

	desc, ok := report.Refs[2].(component.Pattern)
	require.True(t, ok)
	assert.Equal(t, id.Derive("Description Pattern"), desc.Primary())
}

func TestValidateCollectsEveryViolation(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "invalid.yaml"))
	require.NoError(t, err)

	report, err := table.Validate()
	require.Error(t, err)
	assert.Nil(t, report)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Violations, 4)

	assert.True(t, errors.Is(err, ErrAmbiguousAlias))
	assert.True(t, errors.Is(err, ErrMalformedBinding))
	assert.True(t, errors.Is(err, component.ErrEmptyLabel))
	assert.True(t, errors.Is(err, component.ErrDuplicateUUID))
	assert.True(t, errors.Is(err, component.ErrUnknownKind))
	assert.Contains(t, err.Error(), "AlsoEnglish")
}

func TestValidateEntryRules(t *testing.T) {
	u := uuid.New().String()

	tests := []struct {
		name    string
		entry   Entry
		wantErr error
	}{
		{
			name:    "no identifiers",
			entry:   Entry{Kind: "concept", Name: "Empty", Label: "Empty"},
			wantErr: component.ErrNoIdentifiers,
		},
		{
			name:    "bad uuid",
			entry:   Entry{Kind: "concept", Name: "Bad", Label: "Bad", UUIDs: []string{"nope"}},
			wantErr: id.ErrInvalidUUID,
		},
		{
			name:    "unexported name",
			entry:   Entry{Kind: "concept", Name: "lower", Label: "Lower", UUIDs: []string{u}},
			wantErr: ErrMalformedBinding,
		},
		{
			name: "fields on concept",
			entry: Entry{Kind: "concept", Name: "C", Label: "C", UUIDs: []string{u},
				Fields: []FieldDescriptor{{Role: "r", Type: "string"}}},
			wantErr: ErrMalformedBinding,
		},
		{
			name: "incomplete field",
			entry: Entry{Kind: "pattern", Name: "P", Label: "P", UUIDs: []string{u},
				Fields: []FieldDescriptor{{Role: "r"}}},
			wantErr: ErrMalformedBinding,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &Table{Entries: []Entry{tt.entry}}
			_, err := table.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestValidateDuplicateName(t *testing.T) {
	table := &Table{Entries: []Entry{
		{Kind: "concept", Name: "Same", Label: "One", Derive: true},
		{Kind: "concept", Name: "Same", Label: "Two", Derive: true},
	}}

	_, err := table.Validate()
	assert.ErrorIs(t, err, ErrDuplicateName)
}

func TestValidateDeriveWithAliases(t *testing.T) {
	legacy := uuid.New()
	table := &Table{Entries: []Entry{
		{Kind: "concept", Name: "Author", Label: "Author", Derive: true, UUIDs: []string{legacy.String()}},
	}}

	report, err := table.Validate()
	require.NoError(t, err)
	require.Len(t, report.Refs, 1)
	assert.Equal(t, []uuid.UUID{id.Derive("Author"), legacy}, report.Refs[0].UUIDs())
}

func TestValidateCrossKind(t *testing.T) {
	shared := "08f9112c-c041-56d3-b89b-63258f070074"
	table := &Table{Version: "x", Entries: []Entry{
		{Kind: "concept", Name: "Dialect", Label: "US Dialect", UUIDs: []string{shared}},
		{Kind: "pattern", Name: "DialectPattern", Label: "US Dialect Pattern", UUIDs: []string{shared}},
	}}

	t.Run("lenient logs a warning", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		report, err := table.Validate(WithLogger(logger))
		require.NoError(t, err)
		require.Len(t, report.CrossKind, 1)
		assert.Equal(t, shared, report.CrossKind[0].UUID.String())
		assert.Contains(t, report.CrossKind[0].Concept, "Dialect")
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), shared)
	})

	t.Run("strict fails", func(t *testing.T) {
		_, err := table.Validate(WithStrictCrossKind(), WithLogger(slog.New(slog.NewTextHandler(os.Stderr, nil))))
		assert.ErrorIs(t, err, ErrCrossKind)
	})
}

func TestValidateNamespace(t *testing.T) {
	table := &Table{
		Namespace: uuid.NameSpaceDNS.String(),
		Entries:   []Entry{{Kind: "concept", Name: "A", Label: "A", Derive: true}},
	}

	_, err := table.Validate()
	assert.ErrorIs(t, err, ErrNamespaceMismatch)

	_, err = table.Validate(WithNamespace(uuid.NameSpaceDNS))
	assert.NoError(t, err)
}

func TestValidateDerivesUnderPinnedNamespace(t *testing.T) {
	legacy := uuid.New()
	table := &Table{
		Namespace: uuid.NameSpaceURL.String(),
		Entries: []Entry{
			{Kind: "concept", Name: "Foo", Label: "Foo", Derive: true},
			{Kind: "pattern", Name: "FooPattern", Label: "Foo Pattern", Derive: true, UUIDs: []string{legacy.String()}},
		},
	}

	report, err := table.Validate(WithNamespace(uuid.NameSpaceURL))
	require.NoError(t, err)
	require.Len(t, report.Refs, 2)

	assert.Equal(t, uuid.NewSHA1(uuid.NameSpaceURL, []byte("Foo")), report.Refs[0].Primary())
	assert.NotEqual(t, id.Derive("Foo"), report.Refs[0].Primary())
	assert.Equal(t, []uuid.UUID{uuid.NewSHA1(uuid.NameSpaceURL, []byte("Foo Pattern")), legacy}, report.Refs[1].UUIDs())

	concepts, err := table.Concepts(WithGenerator(id.NewGenerator(uuid.NameSpaceURL)))
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	assert.True(t, concepts[0].Contains(uuid.NewSHA1(uuid.NameSpaceURL, []byte("Foo"))))
}

func TestConceptsAndPatterns(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "valid.yaml"))
	require.NoError(t, err)

	concepts, err := table.Concepts()
	require.NoError(t, err)
	require.Len(t, concepts, 1)
	assert.Equal(t, "English Language", concepts[0].Label())

	patterns, err := table.Patterns()
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "US Dialect Pattern", patterns[0].Label())
}

func TestLoadDirectory(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "split"))
	require.NoError(t, err)

	assert.Equal(t, "split.1", table.Version)
	require.Len(t, table.Entries, 2)
	assert.Equal(t, "Author", table.Entries[0].Name)
	assert.Equal(t, "IdentifierPattern", table.Entries[1].Name)
	assert.Equal(t, "02-patterns.yml", table.Entries[1].Source)
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"tables/a.yaml": {Data: []byte("version: \"1\"\nnamespace: f7ef93c7-97d6-4b52-a16e-f09877e3cf98\ncomponents: []\n")},
		"tables/b.yaml": {Data: []byte("namespace: 6ba7b810-9dad-11d1-80b4-00c04fd430c8\ncomponents: []\n")},
	}

	_, err := LoadFS(fsys, "tables")
	assert.ErrorIs(t, err, ErrNamespaceMismatch)

	_, err = LoadFS(fsys, "missing")
	assert.Error(t, err)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("version: \"1\"\ncomponents:\n  - kind: concept\n    lable: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lable")
}

func TestParseEmpty(t *testing.T) {
	table, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Entries)
}

func TestMarshalRoundTrip(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "valid.yaml"))
	require.NoError(t, err)

	data, err := table.Marshal()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, again.Entries, len(table.Entries))
	assert.Equal(t, table.Entries[2].Fields, again.Entries[2].Fields)
	assert.True(t, again.Entries[2].Derive)
}

func TestEntryLookup(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "valid.yaml"))
	require.NoError(t, err)

	e, ok := table.Entry("USDialectPattern")
	require.True(t, ok)
	assert.Equal(t, "pattern USDialectPattern (valid.yaml)", e.String())

	_, ok = table.Entry("Nope")
	assert.False(t, ok)
}

func TestCloneIsDeep(t *testing.T) {
	table, err := Load(filepath.Join("testdata", "valid.yaml"))
	require.NoError(t, err)

	clone := table.Clone()
	clone.Entries[0].UUIDs[0] = uuid.New().String()
	clone.Entries[1].Fields[0].Type = "string"

	assert.Equal(t, "02018e5a-46ba-5297-92f1-6931b9f98a12", table.Entries[0].UUIDs[0])
	assert.Equal(t, "component", table.Entries[1].Fields[0].Type)

	merged := &Table{}
	require.NoError(t, merged.Merge(table))
	merged.Entries[0].UUIDs[1] = uuid.New().String()
	assert.Equal(t, "06d905ea-c647-3af9-bfe5-2514e135b558", table.Entries[0].UUIDs[1])

	var empty *Table
	assert.Nil(t, empty.Clone())
}

func TestEntryRefFailureReturnsNil(t *testing.T) {
	u := uuid.New().String()
	for _, e := range []Entry{
		{Kind: "concept", Name: "Dup", Label: "Dup", UUIDs: []string{u, u}},
		{Kind: "pattern", Name: "Blank", Label: " ", UUIDs: []string{u}},
		{Kind: "concept", Name: "Bad", Label: "Bad", UUIDs: []string{"nope"}},
	} {
		ref, err := e.Ref()
		assert.Error(t, err, e.String())
		assert.Nil(t, ref, e.String())
	}
}
