// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entity

import (
	"context"
	"log/slog"

	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/validate"
)

// # Service Layer

// Service serves entity pages and the reference data the editor needs.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
GetPage loads an entity at its master revision and prepares it for display.

Parameters:
  - ctx: context.Context
  - t: Type (entity family)
  - bbid: string (UUID)

Returns:
  - *Page: Entity with its link and title
  - error: VALIDATION_ERROR for a malformed bbid, NOT_FOUND when absent
*/
func (service *Service) GetPage(ctx context.Context, t Type, bbid string) (*Page, error) {
	entity, err := service.Get(ctx, t, bbid)
	if err != nil {
		return nil, err
	}
	return NewPage(entity), nil
}

// Get loads an entity at its master revision.
func (service *Service) Get(ctx context.Context, t Type, bbid string) (*Entity, error) {
	if err := new(validate.Validator).UUID(FieldBBID, bbid).Err(); err != nil {
		return nil, err
	}

	entity, err := service.repo.Get(ctx, t, bbid)
	if dberr.IsNotFound(err) {
		return nil, apperr.NotFound(string(t))
	}
	return entity, err
}

// ListLanguages returns the language vocabulary.
func (service *Service) ListLanguages(ctx context.Context) ([]Language, error) {
	return service.repo.ListLanguages(ctx)
}

// ListTypeOptions returns the type vocabulary of family t.
func (service *Service) ListTypeOptions(ctx context.Context, t Type) ([]TypeOption, error) {
	return service.repo.ListTypeOptions(ctx, t)
}

/*
IdentifierTypesFor returns the identifier types an editor may use.

Description: Without a bbid the types of family t are returned (creation).
With a bbid the entity is loaded and the union rule of
[FilterIdentifierTypesByEntity] applies (edition).

Parameters:
  - ctx: context.Context
  - t: Type
  - bbid: string (optional)

Returns:
  - []IdentifierType: Allowed types
  - error: Lookup errors
*/
func (service *Service) IdentifierTypesFor(ctx context.Context, t Type, bbid string) ([]IdentifierType, error) {
	identifierTypes, err := service.repo.ListIdentifierTypes(ctx)
	if err != nil {
		return nil, err
	}

	if bbid == "" {
		return FilterIdentifierTypesByEntityType(identifierTypes, t), nil
	}

	entity, err := service.Get(ctx, t, bbid)
	if err != nil {
		return nil, err
	}

	return FilterIdentifierTypesByEntity(identifierTypes, entity), nil
}
