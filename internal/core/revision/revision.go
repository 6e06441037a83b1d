/*
Package revision serves the editing history of Libris.

Every change to an entity appends an immutable [Revision]. The history listing
turns each revision into an [Assembled] view: the revision and its editor, the
entity it touched, the entity's default alias at that revision, and the default
alias of the revision before it.

# Resolution

A revision row carries the family of the entity it changed, so the subtype row
is found with a single query instead of probing every family.
*/
package revision

import (
	"time"

	"github.com/taibuivan/libris/internal/core/entity"
)

// # Revision Domain

// Revision is one entry of the global editing history.
type Revision struct {
	ID         int         `json:"id"`
	CreatedAt  time.Time   `json:"created_at"`
	EntityType entity.Type `json:"entity_type"`
	Editor     Editor      `json:"editor"`
}

// Editor is the account that authored a revision.
type Editor struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	EditCount int    `json:"edit_count"`
}

// Subtype is the family-specific revision row: which entity changed and the
// alias set it had afterwards.
type Subtype struct {
	BBID       string
	AliasSetID *int
}

// AliasSummary is the flat form of an alias inside an [Assembled] entry.
type AliasSummary struct {
	AliasID    int    `json:"alias_id"`
	Name       string `json:"name"`
	SortName   string `json:"sort_name"`
	LanguageID *int   `json:"language_id"`
	Primary    bool   `json:"primary"`
}

// Assembled is the flattened view of one revision in the history listing.
//
// An entry whose subtype row is missing has every field zero and renders as {}.
// The authoring account is always exposed as "editor".
type Assembled struct {
	RevisionID int         `json:"revision_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at,omitzero"`
	Editor     *Editor     `json:"editor,omitempty"`
	BBID       string      `json:"bbid,omitempty"`
	Type       entity.Type `json:"type,omitempty"`
	AliasSetID *int        `json:"alias_set_id,omitempty"`

	// Default alias of the entity at this revision, flattened into the entry.
	*AliasSummary

	ParentAlias *AliasSummary `json:"parent_alias,omitempty"`
}

// IsEmpty reports whether the entry stands for a revision with no subtype row.
func (a *Assembled) IsEmpty() bool {
	return a.RevisionID == 0
}

// # Statistics

// Statistics summarises recent editing activity.
type Statistics struct {
	Since       time.Time           `json:"since"`
	EntityCount map[entity.Type]int `json:"entity_count"`
	TopEditors  []EditorActivity    `json:"top_editors"`
}

// EditorActivity counts the revisions one editor created in a window.
type EditorActivity struct {
	Editor    Editor `json:"editor"`
	Revisions int    `json:"revisions"`
}
