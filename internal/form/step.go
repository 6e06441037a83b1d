/*
Package form is the headless multi-step editor used to create and edit entities.

A [Wizard] walks an editor through three steps (aliases, data, revision note),
keeps one immutable value per step, and posts a single [entity.Submission] when
every step is valid. It performs no I/O itself: submission goes through a
[Transport] and page changes through a [Navigator].
*/
package form

import (
	"regexp"
	"slices"
	"strings"

	"github.com/taibuivan/libris/internal/core/entity"
)

// StepID names one step of the wizard.
type StepID string

const (
	StepAliases StepID = "aliases"
	StepData    StepID = "data"
	StepNote    StepID = "note"
)

// Steps lists the steps in tab order; tab n shows Steps[n-1].
var Steps = []StepID{StepAliases, StepData, StepNote}

// References is the reference data step values are validated against.
type References struct {
	IdentifierTypes []entity.IdentifierType

	// Editing is set when the wizard edits an existing entity.
	Editing bool
}

// Value is the content of one step.
type Value interface {
	Step() StepID
	Valid(refs References) bool
}

// # Aliases Step

// AliasesValue holds the alias rows of the entity.
type AliasesValue struct {
	Aliases []entity.AliasInput
}

// Step implements [Value].
func (AliasesValue) Step() StepID { return StepAliases }

// Valid requires a name and sort name on every row and exactly one default row.
// An empty list is accepted only when editing, where it keeps the current aliases.
func (value AliasesValue) Valid(refs References) bool {
	if len(value.Aliases) == 0 {
		return refs.Editing
	}

	defaults := 0
	for _, alias := range value.Aliases {
		if strings.TrimSpace(alias.Name) == "" || strings.TrimSpace(alias.SortName) == "" {
			return false
		}
		if alias.Default {
			defaults++
		}
	}

	return defaults == 1
}

func (value AliasesValue) clone() AliasesValue {
	return AliasesValue{Aliases: slices.Clone(value.Aliases)}
}

// # Data Step

// DataValue holds the descriptive fields of the entity.
type DataValue struct {
	Languages      []int
	TypeID         *int
	Disambiguation *string
	Annotation     *string
	Identifiers    []entity.IdentifierInput
}

// Step implements [Value].
func (DataValue) Step() StepID { return StepData }

// Valid requires every identifier to have a known type and a non-empty value
// matching that type's validation pattern, when it has one.
func (value DataValue) Valid(refs References) bool {
	for _, identifier := range value.Identifiers {
		index := slices.IndexFunc(refs.IdentifierTypes, func(identifierType entity.IdentifierType) bool {
			return identifierType.ID == identifier.TypeID
		})
		if index < 0 || strings.TrimSpace(identifier.Value) == "" {
			return false
		}

		expr := refs.IdentifierTypes[index].ValidationRegex
		if expr == "" {
			continue
		}
		re, err := regexp.Compile(expr)
		if err != nil || !re.MatchString(identifier.Value) {
			return false
		}
	}

	return true
}

func (value DataValue) clone() DataValue {
	value.Languages = slices.Clone(value.Languages)
	value.Identifiers = slices.Clone(value.Identifiers)
	return value
}

// # Note Step

// NoteValue holds the revision note.
type NoteValue struct {
	Note string
}

// Step implements [Value].
func (NoteValue) Step() StepID { return StepNote }

// Valid always holds; the note is optional.
func (NoteValue) Valid(References) bool { return true }
