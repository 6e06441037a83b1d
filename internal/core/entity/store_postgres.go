// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package entity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/pkg/pointer"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// masterRow is the master revision row of an entity family view.
type masterRow struct {
	revisionID       int
	aliasSetID       *int
	defaultAliasID   *int
	identifierSetID  *int
	disambiguationID *int
	annotationID     *int
	languageSetID    *int
	typeID           *int
}

/*
Get loads the master revision of an entity with every relation needed for display.

Description: Reads the family view for the master row, then hydrates the alias
set, identifiers, languages, disambiguation, annotation and type option with one
query each. Missing optional relations stay nil.

Parameters:
  - ctx: context.Context
  - t: Type (entity family)
  - bbid: string

Returns:
  - *Entity: The hydrated entity
  - error: dberr.ErrNotFound when no master revision exists
*/
func (repository *PostgresRepository) Get(ctx context.Context, t Type, bbid string) (*Entity, error) {
	tables := t.Tables()

	query := fmt.Sprintf(`
		SELECT revision_id, alias_set_id, default_alias_id, identifier_set_id,
		       disambiguation_id, annotation_id, language_set_id, type_id
		FROM %s
		WHERE bbid = $1 AND master
	`, tables.View)

	var row masterRow
	err := repository.db.QueryRow(ctx, query, bbid).Scan(
		&row.revisionID, &row.aliasSetID, &row.defaultAliasID, &row.identifierSetID,
		&row.disambiguationID, &row.annotationID, &row.languageSetID, &row.typeID,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_entity_master")
	}

	entity := &Entity{BBID: bbid, Type: t, RevisionID: row.revisionID}

	if row.aliasSetID != nil {
		aliases, err := repository.aliases(ctx, *row.aliasSetID)
		if err != nil {
			return nil, err
		}

		entity.AliasSet = &AliasSet{ID: *row.aliasSetID, DefaultAliasID: row.defaultAliasID, Aliases: aliases}
		for i := range aliases {
			if row.defaultAliasID != nil && aliases[i].ID == *row.defaultAliasID {
				defaultAlias := aliases[i]
				entity.DefaultAlias = &defaultAlias
			}
		}
	}

	if row.identifierSetID != nil {
		identifiers, err := repository.identifiers(ctx, *row.identifierSetID)
		if err != nil {
			return nil, err
		}
		entity.IdentifierSet = &IdentifierSet{ID: *row.identifierSetID, Identifiers: identifiers}
	}

	if row.languageSetID != nil {
		if entity.Languages, err = repository.languageSet(ctx, *row.languageSetID); err != nil {
			return nil, err
		}
	}

	if row.disambiguationID != nil {
		disambiguation := &Disambiguation{ID: *row.disambiguationID}
		query := fmt.Sprintf(`SELECT comment FROM %s WHERE id = $1`, schema.Disambiguation)
		if err := repository.db.QueryRow(ctx, query, disambiguation.ID).Scan(&disambiguation.Comment); err != nil {
			return nil, dberr.Wrap(err, "get_disambiguation")
		}
		entity.Disambiguation = disambiguation
	}

	if row.annotationID != nil {
		annotation := &Annotation{ID: *row.annotationID}
		query := fmt.Sprintf(`SELECT content FROM %s WHERE id = $1`, schema.Annotation)
		if err := repository.db.QueryRow(ctx, query, annotation.ID).Scan(&annotation.Content); err != nil {
			return nil, dberr.Wrap(err, "get_annotation")
		}
		entity.Annotation = annotation
	}

	if row.typeID != nil {
		option := &TypeOption{ID: *row.typeID}
		query := fmt.Sprintf(`SELECT label FROM %s WHERE id = $1`, tables.Option)
		if err := repository.db.QueryRow(ctx, query, option.ID).Scan(&option.Label); err != nil {
			return nil, dberr.Wrap(err, "get_type_option")
		}
		entity.TypeOption = option
	}

	return entity, nil
}

// aliases loads the members of an alias set in insertion order.
func (repository *PostgresRepository) aliases(ctx context.Context, setID int) ([]Alias, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, l.id, l.name, l.iso_code
		FROM %s sa
		JOIN %s a ON a.%s = sa.alias_id
		LEFT JOIN %s l ON l.id = a.%s
		WHERE sa.set_id = $1
		ORDER BY a.%s ASC
	`,
		schema.Alias.ID, schema.Alias.Name, schema.Alias.SortName, schema.Alias.Primary,
		schema.AliasSetAlias, schema.Alias.Table, schema.Alias.ID,
		schema.Language, schema.Alias.LanguageID, schema.Alias.ID,
	)

	rows, err := repository.db.Query(ctx, query, setID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_aliases")
	}

	aliases, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Alias, error) {
		var (
			alias      Alias
			languageID *int
			name, iso  *string
		)
		if err := row.Scan(&alias.ID, &alias.Name, &alias.SortName, &alias.Primary, &languageID, &name, &iso); err != nil {
			return alias, err
		}
		if languageID != nil {
			alias.Language = &Language{ID: *languageID, Name: pointer.Val(name), ISOCode: pointer.Val(iso)}
		}
		return alias, nil
	})

	return aliases, dberr.Wrap(err, "scan_alias")
}

// identifiers loads the members of an identifier set with their types.
func (repository *PostgresRepository) identifiers(ctx context.Context, setID int) ([]Identifier, error) {
	query := fmt.Sprintf(`
		SELECT i.id, i.value, t.id, t.label, t.description, t.entity_type, t.validation_regex
		FROM %s si
		JOIN %s i ON i.id = si.identifier_id
		JOIN %s t ON t.id = i.type_id
		WHERE si.set_id = $1
		ORDER BY i.id ASC
	`, schema.IdentifierSetIdentifier, schema.Identifier, schema.IdentifierType)

	rows, err := repository.db.Query(ctx, query, setID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_identifiers")
	}

	identifiers, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Identifier, error) {
		var identifier Identifier
		err := row.Scan(
			&identifier.ID, &identifier.Value,
			&identifier.Type.ID, &identifier.Type.Label, &identifier.Type.Description,
			&identifier.Type.EntityType, &identifier.Type.ValidationRegex,
		)
		return identifier, err
	})

	return identifiers, dberr.Wrap(err, "scan_identifier")
}

// languageSet loads the languages of a language set.
func (repository *PostgresRepository) languageSet(ctx context.Context, setID int) ([]Language, error) {
	query := fmt.Sprintf(`
		SELECT l.id, l.name, l.iso_code
		FROM %s sl
		JOIN %s l ON l.id = sl.language_id
		WHERE sl.set_id = $1
		ORDER BY l.name ASC
	`, schema.LanguageSetLanguage, schema.Language)

	rows, err := repository.db.Query(ctx, query, setID)
	if err != nil {
		return nil, dberr.Wrap(err, "list_language_set")
	}

	languages, err := pgx.CollectRows(rows, scanLanguage)
	return languages, dberr.Wrap(err, "scan_language")
}

/*
ListLanguages retrieves all languages that aliases and works can be tagged with.

Returns:
  - []Language: Ordered by name
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) ListLanguages(ctx context.Context) ([]Language, error) {
	query := fmt.Sprintf(`SELECT id, name, iso_code FROM %s ORDER BY name ASC`, schema.Language)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_languages")
	}

	languages, err := pgx.CollectRows(rows, scanLanguage)
	return languages, dberr.Wrap(err, "scan_language")
}

// ListTypeOptions retrieves the type vocabulary of one entity family.
func (repository *PostgresRepository) ListTypeOptions(ctx context.Context, t Type) ([]TypeOption, error) {
	query := fmt.Sprintf(`SELECT id, label FROM %s ORDER BY label ASC`, t.Tables().Option)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_type_options")
	}

	options, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (TypeOption, error) {
		var option TypeOption
		err := row.Scan(&option.ID, &option.Label)
		return option, err
	})

	return options, dberr.Wrap(err, "scan_type_option")
}

// ListIdentifierTypes retrieves every identifier type across all families.
func (repository *PostgresRepository) ListIdentifierTypes(ctx context.Context) ([]IdentifierType, error) {
	query := fmt.Sprintf(`
		SELECT id, label, description, entity_type, validation_regex
		FROM %s
		ORDER BY label ASC
	`, schema.IdentifierType)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_identifier_types")
	}

	identifierTypes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (IdentifierType, error) {
		var identifierType IdentifierType
		err := row.Scan(
			&identifierType.ID, &identifierType.Label, &identifierType.Description,
			&identifierType.EntityType, &identifierType.ValidationRegex,
		)
		return identifierType, err
	})

	return identifierTypes, dberr.Wrap(err, "scan_identifier_type")
}

func scanLanguage(row pgx.CollectableRow) (Language, error) {
	var (
		language Language
		iso      *string
	)
	err := row.Scan(&language.ID, &language.Name, &iso)
	language.ISOCode = pointer.Val(iso)
	return language, err
}

