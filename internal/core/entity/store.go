package entity

import "context"

// Repository defines persistence operations for entities and their reference data.
type Repository interface {
	// Get loads the master revision of the entity bbid of family t.
	Get(ctx context.Context, t Type, bbid string) (*Entity, error)

	// ListLanguages returns every language, ordered by name.
	ListLanguages(ctx context.Context) ([]Language, error)

	// ListTypeOptions returns the type vocabulary of family t.
	ListTypeOptions(ctx context.Context, t Type) ([]TypeOption, error)

	// ListIdentifierTypes returns every identifier type of every family.
	ListIdentifierTypes(ctx context.Context) ([]IdentifierType, error)
}
