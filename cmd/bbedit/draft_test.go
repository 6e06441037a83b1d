package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/form"
)

const workDraft = `
aliases:
  - name: Dune
    sort_name: Dune
    language: 1
    default: true
type_id: 4
identifiers:
  - type: 2
    value: Q190192
note: Imported from the publisher catalogue
`

func writeDraft(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "draft.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

/*
TestLoadDraft verifies YAML field names and absent sections.
*/
func TestLoadDraft(t *testing.T) {
	draft, err := LoadDraft(writeDraft(t, workDraft))
	require.NoError(t, err)

	require.Len(t, draft.Aliases, 1)
	assert.Equal(t, "Dune", draft.Aliases[0].SortName)
	assert.Equal(t, 1, *draft.Aliases[0].Language)
	assert.Equal(t, 4, *draft.TypeID)
	assert.Nil(t, draft.Disambiguation)
	assert.Nil(t, draft.Languages)

	_, err = LoadDraft(writeDraft(t, "aliases: [unterminated"))
	assert.Error(t, err)
}

/*
TestDraft_Apply verifies that absent sections keep the prefilled values.
*/
func TestDraft_Apply(t *testing.T) {
	prefill := &entity.Entity{
		Type:           entity.TypeWork,
		DefaultAlias:   &entity.Alias{ID: 1},
		AliasSet:       &entity.AliasSet{Aliases: []entity.Alias{{ID: 1, Name: "Dune", SortName: "Dune"}}},
		Disambiguation: &entity.Disambiguation{Comment: "novel"},
	}
	wizard := form.New(form.Config{Target: form.Target{Type: entity.TypeWork, BBID: "b"}}, prefill)

	draft, err := LoadDraft(writeDraft(t, "type_id: 4\nnote: retype\n"))
	require.NoError(t, err)
	require.NoError(t, draft.Apply(wizard))

	payload := wizard.Payload()
	assert.Equal(t, "Dune", payload.Aliases[0].Name)
	assert.True(t, payload.Aliases[0].Default)
	assert.Equal(t, "novel", *payload.Disambiguation)
	assert.Equal(t, 4, *payload.TypeID)
	assert.Equal(t, "retype", payload.Note)
}

/*
TestParseType verifies both spellings of a family.
*/
func TestParseType(t *testing.T) {
	for _, name := range []string{"EditionGroup", "edition-group"} {
		typ, err := parseType(name)
		require.NoError(t, err)
		assert.Equal(t, entity.TypeEditionGroup, typ)
	}

	_, err := parseType("series")
	assert.Error(t, err)
}
