package schema

import (
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/libris/internal/platform/constants"
)

// name qualifies a table with the bookbrainz schema and quotes it.
func name(table string) string {
	return pgx.Identifier{constants.SchemaBookBrainz, table}.Sanitize()
}

// RevisionTable represents the 'bookbrainz.revision' table.
//
// EntityType is the type tag that lets a revision resolve to its subtype
// table without probing every entity family.
type RevisionTable struct {
	Table      string
	ID         string
	AuthorID   string
	EntityType string
	CreatedAt  string
}

// Revision is the schema definition for bookbrainz.revision
var Revision = RevisionTable{
	Table:      name("revision"),
	ID:         "id",
	AuthorID:   "author_id",
	EntityType: "entity_type",
	CreatedAt:  "created_at",
}

// EditorTable represents the 'bookbrainz.editor' table
type EditorTable struct {
	Table     string
	ID        string
	Name      string
	EditCount string
	CreatedAt string
}

// Editor is the schema definition for bookbrainz.editor
var Editor = EditorTable{
	Table:     name("editor"),
	ID:        "id",
	Name:      "name",
	EditCount: "edit_count",
	CreatedAt: "created_at",
}

// EntityTable represents the 'bookbrainz.entity' table
type EntityTable struct {
	Table string
	BBID  string
	Type  string
}

// Entity is the schema definition for bookbrainz.entity
var Entity = EntityTable{
	Table: name("entity"),
	BBID:  "bbid",
	Type:  "type",
}

// AliasTable represents the 'bookbrainz.alias' table
type AliasTable struct {
	Table      string
	ID         string
	Name       string
	SortName   string
	LanguageID string
	Primary    string
}

// Alias is the schema definition for bookbrainz.alias
var Alias = AliasTable{
	Table:      name("alias"),
	ID:         "id",
	Name:       "name",
	SortName:   "sort_name",
	LanguageID: "language_id",
	Primary:    `"primary"`,
}

// Simple tables that only need their qualified name.
var (
	AliasSet                = name("alias_set")
	AliasSetAlias           = name("alias_set__alias")
	IdentifierType          = name("identifier_type")
	Identifier              = name("identifier")
	IdentifierSet           = name("identifier_set")
	IdentifierSetIdentifier = name("identifier_set__identifier")
	Language                = name("language")
	LanguageSet             = name("language_set")
	LanguageSetLanguage     = name("language_set__language")
	Disambiguation          = name("disambiguation")
	Annotation              = name("annotation")
	Note                    = name("note")
)

// EntityTables groups the per-family tables of one entity type.
type EntityTables struct {
	// Data holds the editable fields of one revision.
	Data string
	// Revision links a base revision row to its entity and data row.
	Revision string
	// Header points each entity at its master revision.
	Header string
	// View joins the three with a "master" flag per revision.
	View string
	// Option is the entity type option lookup (work type, edition format, ...).
	Option string
}

// optionTables maps entity families whose option table is not "<family>_type".
var optionTables = map[string]string{
	"edition": "edition_format",
}

// ForEntity returns the tables of the entity family named in snake case (e.g. "edition_group").
func ForEntity(family string) EntityTables {
	option, ok := optionTables[family]
	if !ok {
		option = family + "_type"
	}

	return EntityTables{
		Data:     name(family + "_data"),
		Revision: name(family + "_revision"),
		Header:   name(family + "_header"),
		View:     name(family),
		Option:   name(option),
	}
}
