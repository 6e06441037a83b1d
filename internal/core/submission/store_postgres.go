// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/apperr"
	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using a pgxpool.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository returns a fully wired postgres implementation.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

/*
Create writes a new entity, its first data row and revision, and its header.

Parameters:
  - ctx: context.Context
  - revision: Revision (validated submission, Current is nil)

Returns:
  - *entity.SubmittedEntity: The new entity reference
  - error: Wrapped database errors
*/
func (repository *PostgresRepository) Create(ctx context.Context, revision Revision) (*entity.SubmittedEntity, error) {
	submission := revision.Submission
	tables := submission.Type.Tables()
	bbid := uuid.NewString()

	transaction, err := repository.db.Begin(ctx)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_create_submission")
	}
	defer transaction.Rollback(ctx)

	// 1. Entity row
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2)`,
		schema.Entity.Table, schema.Entity.BBID, schema.Entity.Type)
	if _, err := transaction.Exec(ctx, query, bbid, submission.Type); err != nil {
		return nil, dberr.Wrap(err, "insert_entity")
	}

	// 2. Data, revision and note
	revisionID, err := writeRevision(ctx, transaction, bbid, revision, nil)
	if err != nil {
		return nil, err
	}

	// 3. Header points at the first revision
	query = fmt.Sprintf(`INSERT INTO %s (bbid, master_revision_id) VALUES ($1, $2)`, tables.Header)
	if _, err := transaction.Exec(ctx, query, bbid, revisionID); err != nil {
		return nil, dberr.Wrap(err, "insert_entity_header")
	}

	if err := incrementEditCount(ctx, transaction, revision.EditorID); err != nil {
		return nil, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, dberr.Wrap(err, "commit_create_submission")
	}

	return &entity.SubmittedEntity{BBID: bbid, Type: submission.Type, EntityGID: bbid}, nil
}

/*
Edit appends a revision to an existing entity and makes it the master.

Description: The header row is locked first so that concurrent edits of the
same entity serialise. The edit is rejected if another edit moved the master
revision after revision.Current was read. An empty alias list keeps the
current alias set.

Returns:
  - *entity.SubmittedEntity: The edited entity reference
  - error: NOT_FOUND when the entity has no header, CONFLICT when the master
    moved, or wrapped database errors
*/
func (repository *PostgresRepository) Edit(ctx context.Context, revision Revision) (*entity.SubmittedEntity, error) {
	current := revision.Current
	tables := current.Type.Tables()

	transaction, err := repository.db.Begin(ctx)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_edit_submission")
	}
	defer transaction.Rollback(ctx)

	// 1. Lock the header
	var masterRevisionID int
	query := fmt.Sprintf(`SELECT master_revision_id FROM %s WHERE bbid = $1 FOR UPDATE`, tables.Header)
	if err := transaction.QueryRow(ctx, query, current.BBID).Scan(&masterRevisionID); err != nil {
		return nil, dberr.Wrap(err, "lock_entity_header")
	}
	if err := revision.CheckMaster(masterRevisionID); err != nil {
		return nil, err
	}

	// 2. Data, revision and note
	var keepAliasSet *int
	if len(revision.Submission.Aliases) == 0 && current.AliasSet != nil {
		keepAliasSet = &current.AliasSet.ID
	}

	revisionID, err := writeRevision(ctx, transaction, current.BBID, revision, keepAliasSet)
	if err != nil {
		return nil, err
	}

	// 3. Move the master pointer
	query = fmt.Sprintf(`UPDATE %s SET master_revision_id = $2 WHERE bbid = $1`, tables.Header)
	if _, err := transaction.Exec(ctx, query, current.BBID, revisionID); err != nil {
		return nil, dberr.Wrap(err, "update_entity_header")
	}

	if err := incrementEditCount(ctx, transaction, revision.EditorID); err != nil {
		return nil, err
	}

	if err := transaction.Commit(ctx); err != nil {
		return nil, dberr.Wrap(err, "commit_edit_submission")
	}

	return &entity.SubmittedEntity{BBID: current.BBID, Type: current.Type, EntityGID: current.BBID}, nil
}

// writeRevision inserts the data row with its sets, the tagged base revision,
// the family revision row and the revision note. It returns the revision id.
func writeRevision(ctx context.Context, transaction pgx.Tx, bbid string, revision Revision, aliasSetID *int) (int, error) {
	submission := revision.Submission
	tables := submission.Type.Tables()

	var err error
	if aliasSetID == nil {
		if aliasSetID, err = insertAliasSet(ctx, transaction, submission.Aliases); err != nil {
			return 0, err
		}
	}

	identifierSetID, err := insertIdentifierSet(ctx, transaction, submission.Identifiers)
	if err != nil {
		return 0, err
	}

	languageSetID, err := insertLanguageSet(ctx, transaction, submission.Languages)
	if err != nil {
		return 0, err
	}

	disambiguationID, err := insertText(ctx, transaction, schema.Disambiguation, "comment", submission.Disambiguation)
	if err != nil {
		return 0, err
	}

	annotationID, err := insertText(ctx, transaction, schema.Annotation, "content", submission.Annotation)
	if err != nil {
		return 0, err
	}

	// Data row
	var dataID int
	query := fmt.Sprintf(`
		INSERT INTO %s (alias_set_id, identifier_set_id, language_set_id, disambiguation_id, annotation_id, type_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, tables.Data)
	err = transaction.QueryRow(ctx, query,
		aliasSetID, identifierSetID, languageSetID, disambiguationID, annotationID, submission.TypeID,
	).Scan(&dataID)
	if err != nil {
		return 0, dberr.Wrap(err, "insert_entity_data")
	}

	// Base revision, tagged with the family
	var revisionID int
	query = fmt.Sprintf(`INSERT INTO %s (%s, %s) VALUES ($1, $2) RETURNING %s`,
		schema.Revision.Table, schema.Revision.AuthorID, schema.Revision.EntityType, schema.Revision.ID)
	if err := transaction.QueryRow(ctx, query, revision.EditorID, submission.Type).Scan(&revisionID); err != nil {
		return 0, dberr.Wrap(err, "insert_revision")
	}

	// Family revision
	query = fmt.Sprintf(`INSERT INTO %s (id, bbid, data_id) VALUES ($1, $2, $3)`, tables.Revision)
	if _, err := transaction.Exec(ctx, query, revisionID, bbid, dataID); err != nil {
		return 0, dberr.Wrap(err, "insert_entity_revision")
	}

	// Revision note
	if note := strings.TrimSpace(submission.Note); note != "" {
		query = fmt.Sprintf(`INSERT INTO %s (author_id, revision_id, content) VALUES ($1, $2, $3)`, schema.Note)
		if _, err := transaction.Exec(ctx, query, revision.EditorID, revisionID, note); err != nil {
			return 0, dberr.Wrap(err, "insert_revision_note")
		}
	}

	return revisionID, nil
}

// insertAliasSet writes the aliases and a set pointing at the default one.
func insertAliasSet(ctx context.Context, transaction pgx.Tx, aliases []entity.AliasInput) (*int, error) {
	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4) RETURNING %s`,
		schema.Alias.Table, schema.Alias.Name, schema.Alias.SortName, schema.Alias.LanguageID, schema.Alias.Primary,
		schema.Alias.ID)

	aliasIDs := make([]int, 0, len(aliases))
	var defaultAliasID *int
	for _, alias := range aliases {
		var aliasID int
		if err := transaction.QueryRow(ctx, query, alias.Name, alias.SortName, alias.LanguageID, alias.Primary).Scan(&aliasID); err != nil {
			return nil, dberr.Wrap(err, "insert_alias")
		}
		aliasIDs = append(aliasIDs, aliasID)
		if alias.Default {
			defaultAliasID = &aliasID
		}
	}

	var setID int
	query = fmt.Sprintf(`INSERT INTO %s (default_alias_id) VALUES ($1) RETURNING id`, schema.AliasSet)
	if err := transaction.QueryRow(ctx, query, defaultAliasID).Scan(&setID); err != nil {
		return nil, dberr.Wrap(err, "insert_alias_set")
	}

	if err := insertMembers(ctx, transaction, schema.AliasSetAlias, "alias_id", setID, aliasIDs); err != nil {
		return nil, err
	}

	return &setID, nil
}

// insertIdentifierSet writes the identifiers and their set; nil when there are none.
func insertIdentifierSet(ctx context.Context, transaction pgx.Tx, identifiers []entity.IdentifierInput) (*int, error) {
	if len(identifiers) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (type_id, value) VALUES ($1, $2) RETURNING id`, schema.Identifier)

	identifierIDs := make([]int, 0, len(identifiers))
	for _, identifier := range identifiers {
		var identifierID int
		if err := transaction.QueryRow(ctx, query, identifier.TypeID, identifier.Value).Scan(&identifierID); err != nil {
			return nil, dberr.Wrap(err, "insert_identifier")
		}
		identifierIDs = append(identifierIDs, identifierID)
	}

	var setID int
	query = fmt.Sprintf(`INSERT INTO %s DEFAULT VALUES RETURNING id`, schema.IdentifierSet)
	if err := transaction.QueryRow(ctx, query).Scan(&setID); err != nil {
		return nil, dberr.Wrap(err, "insert_identifier_set")
	}

	if err := insertMembers(ctx, transaction, schema.IdentifierSetIdentifier, "identifier_id", setID, identifierIDs); err != nil {
		return nil, err
	}

	return &setID, nil
}

// insertLanguageSet writes a language set; nil when there are no languages.
func insertLanguageSet(ctx context.Context, transaction pgx.Tx, languageIDs []int) (*int, error) {
	if len(languageIDs) == 0 {
		return nil, nil
	}

	var setID int
	query := fmt.Sprintf(`INSERT INTO %s DEFAULT VALUES RETURNING id`, schema.LanguageSet)
	if err := transaction.QueryRow(ctx, query).Scan(&setID); err != nil {
		return nil, dberr.Wrap(err, "insert_language_set")
	}

	if err := insertMembers(ctx, transaction, schema.LanguageSetLanguage, "language_id", setID, languageIDs); err != nil {
		return nil, err
	}

	return &setID, nil
}

// insertText writes a single-column text row; nil when the text is absent or blank.
func insertText(ctx context.Context, transaction pgx.Tx, table, column string, text *string) (*int, error) {
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil, nil
	}

	var id int
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1) RETURNING id`, table, column)
	if err := transaction.QueryRow(ctx, query, strings.TrimSpace(*text)).Scan(&id); err != nil {
		return nil, dberr.Wrap(err, "insert_"+column)
	}

	return &id, nil
}

// insertMembers batches the rows of a set junction table.
func insertMembers(ctx context.Context, transaction pgx.Tx, table, memberColumn string, setID int, memberIDs []int) error {
	if len(memberIDs) == 0 {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (set_id, %s) VALUES ($1, $2) ON CONFLICT DO NOTHING`, table, memberColumn)
	batch := &pgx.Batch{}
	for _, memberID := range memberIDs {
		batch.Queue(query, setID, memberID)
	}

	if err := transaction.SendBatch(ctx, batch).Close(); err != nil {
		return dberr.Wrap(err, "insert_set_members")
	}

	return nil
}

// incrementEditCount credits the editor with one more revision.
func incrementEditCount(ctx context.Context, transaction pgx.Tx, editorID int) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = %s + 1 WHERE %s = $1`,
		schema.Editor.Table, schema.Editor.EditCount, schema.Editor.EditCount, schema.Editor.ID)

	tag, err := transaction.Exec(ctx, query, editorID)
	if err != nil {
		return dberr.Wrap(err, "increment_editor_edit_count")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Editor")
	}

	return nil
}
