// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/internal/platform/validate"
	"github.com/taibuivan/libris/pkg/pointer"
)

// Catalog is the reference data a submission is checked against.
type Catalog interface {
	Get(ctx context.Context, t entity.Type, bbid string) (*entity.Entity, error)
	ListLanguages(ctx context.Context) ([]entity.Language, error)
	ListTypeOptions(ctx context.Context, t entity.Type) ([]entity.TypeOption, error)
	ListIdentifierTypes(ctx context.Context) ([]entity.IdentifierType, error)
}

// # Service Layer

// Service validates submissions and commits them as revisions.
type Service struct {
	repo    Repository
	catalog Catalog
	logger  *slog.Logger
}

// NewService constructs a new [Service].
func NewService(repo Repository, catalog Catalog, logger *slog.Logger) *Service {
	return &Service{repo: repo, catalog: catalog, logger: logger}
}

/*
Create validates a submission for a new entity and commits it.

Parameters:
  - ctx: context.Context
  - editorID: int (authenticated editor)
  - submission: *entity.Submission (Type already set from the route)

Returns:
  - *entity.SubmittedEntity: Reference to the new entity
  - error: VALIDATION_ERROR with field details, or persistence errors
*/
func (service *Service) Create(ctx context.Context, editorID int, submission *entity.Submission) (*entity.SubmittedEntity, error) {
	if err := service.validate(ctx, submission, nil); err != nil {
		return nil, err
	}

	submitted, err := service.repo.Create(ctx, Revision{EditorID: editorID, Submission: submission})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "submission_committed",
		slog.String("action", "create"),
		slog.String("bbid", submitted.BBID),
		slog.String("entity_type", string(submitted.Type)),
	)

	return submitted, nil
}

/*
Edit validates a submission against the current state of bbid and commits it.

Returns:
  - *entity.SubmittedEntity: Reference to the edited entity
  - error: NOT_FOUND for an unknown entity, VALIDATION_ERROR, or persistence errors
*/
func (service *Service) Edit(ctx context.Context, editorID int, bbid string, submission *entity.Submission) (*entity.SubmittedEntity, error) {
	if err := new(validate.Validator).UUID(entity.FieldBBID, bbid).Err(); err != nil {
		return nil, err
	}

	current, err := service.catalog.Get(ctx, submission.Type, bbid)
	if dberr.IsNotFound(err) {
		return nil, apperr.NotFound(string(submission.Type))
	}
	if err != nil {
		return nil, err
	}

	if err := service.validate(ctx, submission, current); err != nil {
		return nil, err
	}

	submitted, err := service.repo.Edit(ctx, Revision{EditorID: editorID, Submission: submission, Current: current})
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(ctx, "submission_committed",
		slog.String("action", "edit"),
		slog.String("bbid", submitted.BBID),
		slog.String("entity_type", string(submitted.Type)),
	)

	return submitted, nil
}

// validate applies the struct tags and the rules that need reference data.
// current is nil for a creation.
func (service *Service) validate(ctx context.Context, submission *entity.Submission, current *entity.Entity) error {
	v := new(validate.Validator).Merge("submission", validate.Struct(submission))

	// Free text the struct tags cannot judge: blank names and the annotation length.
	for i, alias := range submission.Aliases {
		v.Required(fmt.Sprintf("aliases[%d].name", i), alias.Name).
			Required(fmt.Sprintf("aliases[%d].sortName", i), alias.SortName)
	}
	v.MaxLen("annotation", pointer.Val(submission.Annotation), constants.MaxAnnotationLength)

	// Reference data is only loaded for a well-formed payload.
	if v.HasErrors() {
		return v.Err()
	}

	identifierTypes, err := service.catalog.ListIdentifierTypes(ctx)
	if err != nil {
		return err
	}

	languages, err := service.catalog.ListLanguages(ctx)
	if err != nil {
		return err
	}

	// 1. Exactly one default alias; an edit may leave the aliases untouched.
	unchangedAliases := current != nil && len(submission.Aliases) == 0
	v.Custom("aliases", !unchangedAliases && submission.DefaultAliases() != 1, "Exactly one alias must be the default")

	knownLanguage := func(id int) bool {
		return slices.ContainsFunc(languages, func(language entity.Language) bool { return language.ID == id })
	}
	for i, alias := range submission.Aliases {
		if alias.LanguageID != nil {
			v.Custom(fmt.Sprintf("aliases[%d].language", i), !knownLanguage(*alias.LanguageID), "Unknown language")
		}
	}
	for i, languageID := range submission.Languages {
		v.Custom(fmt.Sprintf("languages[%d]", i), !knownLanguage(languageID), "Unknown language")
	}

	// 2. Identifiers use a type allowed on this entity and match its pattern.
	allowed := entity.FilterIdentifierTypesByEntityType(identifierTypes, submission.Type)
	if current != nil {
		allowed = entity.FilterIdentifierTypesByEntity(identifierTypes, current)
	}
	for i, identifier := range submission.Identifiers {
		field := fmt.Sprintf("identifiers[%d]", i)

		index := slices.IndexFunc(allowed, func(identifierType entity.IdentifierType) bool {
			return identifierType.ID == identifier.TypeID
		})
		if index < 0 {
			v.Custom(field+".type", true, "Identifier type is not allowed on this entity")
			continue
		}
		v.Pattern(field+".value", identifier.Value, allowed[index].ValidationRegex)
	}

	// 3. The type option belongs to the family vocabulary.
	if submission.TypeID != nil {
		options, err := service.catalog.ListTypeOptions(ctx, submission.Type)
		if err != nil {
			return err
		}
		known := slices.ContainsFunc(options, func(option entity.TypeOption) bool { return option.ID == *submission.TypeID })
		v.Custom(entity.TypeIDKey(submission.Type), !known, "Unknown type option")
	}

	return v.Err()
}
