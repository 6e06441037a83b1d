package entity

import (
	"fmt"
	"slices"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/pkg/slug"
)

// Type names one of the five entity families.
type Type string

const (
	TypeAuthor       Type = "Author"
	TypeWork         Type = "Work"
	TypeEdition      Type = "Edition"
	TypeEditionGroup Type = "EditionGroup"
	TypePublisher    Type = "Publisher"
)

// order is the fixed order in which families are listed and resolved.
var order = []Type{TypeAuthor, TypeEditionGroup, TypeEdition, TypePublisher, TypeWork}

// Types returns every entity family in canonical order.
func Types() []Type {
	return slices.Clone(order)
}

// UnrecognizedTypeError reports a type name that maps to no entity family.
//
// It signals a programming or routing error and is never retried.
type UnrecognizedTypeError struct {
	Name string
}

func (e *UnrecognizedTypeError) Error() string {
	return fmt.Sprintf("Unrecognized entity type: '%s'", e.Name)
}

// ParseType resolves an exact family name such as "EditionGroup".
func ParseType(name string) (Type, error) {
	for _, t := range order {
		if string(t) == name {
			return t, nil
		}
	}
	return "", &UnrecognizedTypeError{Name: name}
}

// ParseKebab resolves the URL form of a family name such as "edition-group".
func ParseKebab(segment string) (Type, error) {
	for _, t := range order {
		if t.Kebab() == segment {
			return t, nil
		}
	}
	return "", &UnrecognizedTypeError{Name: segment}
}

// Kebab returns the URL path segment of the family ("edition-group").
func (t Type) Kebab() string { return slug.Kebab(string(t)) }

// Snake returns the table prefix of the family ("edition_group").
func (t Type) Snake() string { return slug.Snake(string(t)) }

// LowerCamel returns the JSON key prefix of the family ("editionGroup").
func (t Type) LowerCamel() string { return slug.LowerCamel(string(t)) }

// Tables returns the per-family tables backing t.
func (t Type) Tables() schema.EntityTables { return schema.ForEntity(t.Snake()) }
