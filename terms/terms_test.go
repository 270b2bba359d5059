package terms

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termgraph/termid/binding"
	"github.com/termgraph/termid/component"
	"github.com/termgraph/termid/id"
)

func TestGeneratedMatchesTable(t *testing.T) {
	report, err := Table().Validate()
	require.NoError(t, err)
	require.Len(t, generated, len(report.Refs))

	for i, want := range report.Refs {
		got := generated[i]
		assert.Equal(t, want.Kind(), got.Kind(), "entry %d", i)
		assert.Equal(t, want.Label(), got.Label(), "entry %d", i)
		assert.Equal(t, want.UUIDs(), got.UUIDs(), "entry %d %s", i, want.Label())
	}
	assert.Equal(t, TableVersion, Table().Version)
}

func TestGenerateReproducesCheckedInNames(t *testing.T) {
	src, err := binding.Generate(Table(), binding.GenerateOptions{Package: "terms"})
	require.NoError(t, err)

	for _, e := range Table().Entries {
		assert.Contains(t, string(src), "var "+e.Name+" = component.")
	}
}

func TestEnglishLanguageAliases(t *testing.T) {
	assert.Equal(t, 3, EnglishLanguage.Len())

	for _, u := range EnglishLanguage.UUIDs() {
		c, ok := Concept(u)
		require.True(t, ok)
		assert.True(t, c.Equal(EnglishLanguage))
		assert.Equal(t, "English Language", c.Label())
	}

	nids := map[int32]bool{}
	for _, u := range EnglishLanguage.UUIDs() {
		nid, ok := Registry().NID(component.KindConcept, u)
		require.True(t, ok)
		nids[int32(nid)] = true
	}
	assert.Len(t, nids, 1, "every alias must resolve to one canonical id")
}

func TestUSDialectPattern(t *testing.T) {
	u := uuid.MustParse("08f9112c-c041-56d3-b89b-63258f070074")
	assert.Equal(t, u, USDialectPattern.Primary())

	p, ok := Pattern(u)
	require.True(t, ok)
	assert.True(t, p.Equal(USDialectPattern))

	_, ok = Concept(u)
	assert.False(t, ok)
}

func TestDerivedBindings(t *testing.T) {
	assert.Equal(t, id.Derive("Description Pattern"), DescriptionPattern.Primary())
	assert.Equal(t, id.Derive("Author"), Author.Primary())
	assert.Equal(t, "8ce2da27-e223-56d7-9aca-921cb4acb264", Unknown.Primary().String())
}

func TestAllAndRegistryAgree(t *testing.T) {
	all := All()
	assert.Len(t, all, len(Registry().Entries()))

	all[0] = nil
	assert.NotNil(t, All()[0], "All returns a copy")

	var concepts, patterns int
	for _, ref := range All() {
		switch ref.(type) {
		case component.Concept:
			concepts++
		case component.Pattern:
			patterns++
		}
	}
	assert.Equal(t, concepts, Registry().Len(component.KindConcept))
	assert.Equal(t, patterns, Registry().Len(component.KindPattern))
}

func TestTableIsACopy(t *testing.T) {
	tbl := Table()
	tbl.Entries[0].Label = "mutated"
	assert.NotEqual(t, "mutated", Table().Entries[0].Label)

	english, ok := tbl.Entry("EnglishLanguage")
	require.True(t, ok)
	want := english.UUIDs[0]
	for i := range tbl.Entries {
		for j := range tbl.Entries[i].UUIDs {
			tbl.Entries[i].UUIDs[j] = "00000000-0000-0000-0000-000000000001"
		}
		for j := range tbl.Entries[i].Fields {
			tbl.Entries[i].Fields[j].Role = "mutated"
		}
	}

	again, _ := Table().Entry("EnglishLanguage")
	assert.Equal(t, want, again.UUIDs[0])
	usDialect, _ := Table().Entry("USDialectPattern")
	require.NotEmpty(t, usDialect.Fields)
	assert.NotEqual(t, "mutated", usDialect.Fields[0].Role)
	assert.NotEmpty(t, YAML())
}
