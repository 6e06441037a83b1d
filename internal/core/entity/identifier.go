package entity

import "github.com/taibuivan/libris/pkg/slice"

// FilterIdentifierTypesByEntityType keeps the identifier types that belong to family t.
func FilterIdentifierTypesByEntityType(identifierTypes []IdentifierType, t Type) []IdentifierType {
	return slice.Filter(identifierTypes, func(identifierType IdentifierType) bool {
		return identifierType.EntityType == t
	})
}

// FilterIdentifierTypesByEntity keeps the identifier types an editor may use on e.
//
// A type qualifies when it belongs to e's family or when e already carries an
// identifier of that type (the union of both rules), so that legacy values of a
// foreign type remain editable.
func FilterIdentifierTypesByEntity(identifierTypes []IdentifierType, e *Entity) []IdentifierType {
	if e.IdentifierSet == nil || len(e.IdentifierSet.Identifiers) == 0 {
		return FilterIdentifierTypesByEntityType(identifierTypes, e.Type)
	}

	typesOnEntity := make(map[int]struct{}, len(e.IdentifierSet.Identifiers))
	for _, identifier := range e.IdentifierSet.Identifiers {
		typesOnEntity[identifier.Type.ID] = struct{}{}
	}

	return slice.Filter(identifierTypes, func(identifierType IdentifierType) bool {
		_, onEntity := typesOnEntity[identifierType.ID]
		return identifierType.EntityType == e.Type || onEntity
	})
}
