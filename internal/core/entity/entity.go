/*
Package entity models the bibliographic entities edited in Libris and the
pure helpers shared by the server and the editing client.

# Core Responsibility

  - Identity: every [Entity] has a stable BBID and one of five [Type] values.
  - Naming: an [AliasSet] holds the name variants of one revision, one of which is the default.
  - External references: typed [Identifier] values, filtered per entity for editing.
  - Presentation: entity links and page titles built without string concatenation.

Entities are never deleted; every change appends a revision.
*/
package entity

// # Entity Domain

// Entity is the state of one bibliographic record at its master revision.
type Entity struct {
	BBID       string `json:"bbid"`
	Type       Type   `json:"type"`
	RevisionID int    `json:"revision_id"`

	DefaultAlias   *Alias          `json:"default_alias"`
	AliasSet       *AliasSet       `json:"alias_set"`
	IdentifierSet  *IdentifierSet  `json:"identifier_set"`
	Disambiguation *Disambiguation `json:"disambiguation"`
	Annotation     *Annotation     `json:"annotation"`

	// TypeOption is the work type, edition format, publisher type, ... of this revision.
	TypeOption *TypeOption `json:"type_option"`
	Languages  []Language  `json:"languages"`
}

// # Naming

// Alias is a name/sort-name pair, optionally tagged with a language.
type Alias struct {
	ID       int       `json:"id"`
	Name     string    `json:"name"`
	SortName string    `json:"sort_name"`
	Language *Language `json:"language"`
	Primary  bool      `json:"primary"`
}

// AliasSet is the ordered collection of aliases of one entity at one revision.
type AliasSet struct {
	ID             int     `json:"id"`
	DefaultAliasID *int    `json:"default_alias_id"`
	Aliases        []Alias `json:"aliases"`
}

// # External References

// IdentifierType describes one kind of external reference (ISBN, VIAF, Wikidata, ...).
type IdentifierType struct {
	ID              int    `json:"id"`
	Label           string `json:"label"`
	Description     string `json:"description"`
	EntityType      Type   `json:"entity_type"`
	ValidationRegex string `json:"validation_regex"`
}

// Identifier is one typed external reference value.
type Identifier struct {
	ID    int            `json:"id"`
	Value string         `json:"value"`
	Type  IdentifierType `json:"type"`
}

// IdentifierSet groups the identifiers of one revision.
type IdentifierSet struct {
	ID          int          `json:"id"`
	Identifiers []Identifier `json:"identifiers"`
}

// # Descriptive Data

// Language is a written language an alias or work can be tagged with.
type Language struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	ISOCode string `json:"iso_code"`
}

// Disambiguation is the short comment that tells same-named entities apart.
type Disambiguation struct {
	ID      int    `json:"id"`
	Comment string `json:"comment"`
}

// Annotation is free-form editorial text attached to a revision.
type Annotation struct {
	ID      int    `json:"id"`
	Content string `json:"content"`
}

// TypeOption is one value of an entity family's type vocabulary.
type TypeOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// # Read Models

// Page is an entity prepared for display: the entity plus its link and title.
type Page struct {
	*Entity
	Link  string `json:"link"`
	Title string `json:"title"`
}

// Ref is the minimal reference to an entity returned after a submission.
type Ref struct {
	BBID string `json:"bbid"`
	Type Type   `json:"type"`
}

// # Field Identifiers

// Global field names for validation in the entity domain.
const (
	FieldBBID       = "bbid"
	FieldEntityType = "entity_type"
)
