package form

import (
	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/pkg/slice"
)

// AliasesFromEntity prefills the aliases step from an existing entity.
//
// The row whose id equals the entity's default alias id is marked default.
func AliasesFromEntity(e *entity.Entity) AliasesValue {
	if e == nil || e.AliasSet == nil {
		return AliasesValue{}
	}

	defaultID := 0
	if e.DefaultAlias != nil {
		defaultID = e.DefaultAlias.ID
	}

	aliases := slice.Map(e.AliasSet.Aliases, func(alias entity.Alias) entity.AliasInput {
		input := entity.AliasInput{
			ID:       &alias.ID,
			Name:     alias.Name,
			SortName: alias.SortName,
			Primary:  alias.Primary,
			Default:  alias.ID == defaultID,
		}
		if alias.Language != nil {
			input.LanguageID = &alias.Language.ID
		}
		return input
	})

	return AliasesValue{Aliases: aliases}
}

// DataFromEntity prefills the data step from an existing entity.
//
// Absent relations yield nil fields and an absent identifier set an empty list.
func DataFromEntity(e *entity.Entity) DataValue {
	value := DataValue{Identifiers: []entity.IdentifierInput{}}
	if e == nil {
		return value
	}

	value.Languages = slice.Map(e.Languages, func(language entity.Language) int { return language.ID })

	if e.TypeOption != nil {
		value.TypeID = &e.TypeOption.ID
	}
	if e.Disambiguation != nil {
		value.Disambiguation = &e.Disambiguation.Comment
	}
	if e.Annotation != nil {
		value.Annotation = &e.Annotation.Content
	}

	if e.IdentifierSet != nil && len(e.IdentifierSet.Identifiers) > 0 {
		value.Identifiers = slice.Map(e.IdentifierSet.Identifiers, func(identifier entity.Identifier) entity.IdentifierInput {
			return entity.IdentifierInput{ID: &identifier.ID, Value: identifier.Value, TypeID: identifier.Type.ID}
		})
	}

	return value
}
