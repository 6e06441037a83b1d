// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/database/schema"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/pkg/pagination"
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

/*
ListPage retrieves one page of the global history.

Description: A single query orders revisions by creation time, newest first,
and joins the authoring editor.

Parameters:
  - ctx: context.Context
  - window: pagination.Window (offset and page size)

Returns:
  - []Revision: Page of revisions
  - error: Database execution or scanning errors
*/
func (repository *PostgresRepository) ListPage(ctx context.Context, window pagination.Window) ([]Revision, error) {
	query := fmt.Sprintf(`
		SELECT r.%s, r.%s, r.%s, e.%s, e.%s, e.%s
		FROM %s r
		JOIN %s e ON e.%s = r.%s
		ORDER BY r.%s DESC, r.%s DESC
		LIMIT $1 OFFSET $2
	`,
		schema.Revision.ID, schema.Revision.CreatedAt, schema.Revision.EntityType,
		schema.Editor.ID, schema.Editor.Name, schema.Editor.EditCount,
		schema.Revision.Table, schema.Editor.Table, schema.Editor.ID, schema.Revision.AuthorID,
		schema.Revision.CreatedAt, schema.Revision.ID,
	)

	rows, err := repository.db.Query(ctx, query, window.Size, window.From)
	if err != nil {
		return nil, dberr.Wrap(err, "list_revisions")
	}

	revisions, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Revision, error) {
		var revision Revision
		err := row.Scan(
			&revision.ID, &revision.CreatedAt, &revision.EntityType,
			&revision.Editor.ID, &revision.Editor.Name, &revision.Editor.EditCount,
		)
		return revision, err
	})

	return revisions, dberr.Wrap(err, "scan_revision")
}

/*
Subtype loads the family-specific row of a revision with its data row.

Description: The revision's entity_type tag selects the family tables, so the
lookup is one query regardless of how many families exist.

Returns:
  - *Subtype: bbid and alias set of the revision
  - error: dberr.ErrNotFound when the family has no row for this revision
*/
func (repository *PostgresRepository) Subtype(ctx context.Context, revision Revision) (*Subtype, error) {
	tables := revision.EntityType.Tables()

	query := fmt.Sprintf(`
		SELECT fr.bbid, d.alias_set_id
		FROM %s fr
		LEFT JOIN %s d ON d.id = fr.data_id
		WHERE fr.id = $1
	`, tables.Revision, tables.Data)

	var subtype Subtype
	if err := repository.db.QueryRow(ctx, query, revision.ID).Scan(&subtype.BBID, &subtype.AliasSetID); err != nil {
		return nil, dberr.Wrap(err, "get_revision_subtype")
	}

	return &subtype, nil
}

// DefaultAlias returns the default alias of an alias set.
func (repository *PostgresRepository) DefaultAlias(ctx context.Context, aliasSetID int) (*AliasSummary, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s
		FROM %s s
		JOIN %s a ON a.%s = s.default_alias_id
		WHERE s.id = $1
	`,
		schema.Alias.ID, schema.Alias.Name, schema.Alias.SortName, schema.Alias.LanguageID, schema.Alias.Primary,
		schema.AliasSet, schema.Alias.Table, schema.Alias.ID,
	)

	var alias AliasSummary
	err := repository.db.QueryRow(ctx, query, aliasSetID).Scan(
		&alias.AliasID, &alias.Name, &alias.SortName, &alias.LanguageID, &alias.Primary,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_default_alias")
	}

	return &alias, nil
}

// Entity returns the entity row of bbid.
func (repository *PostgresRepository) Entity(ctx context.Context, bbid string) (*entity.Ref, error) {
	query := fmt.Sprintf(`SELECT %s, %s FROM %s WHERE %s = $1`,
		schema.Entity.BBID, schema.Entity.Type, schema.Entity.Table, schema.Entity.BBID,
	)

	var ref entity.Ref
	err := repository.db.QueryRow(ctx, query, bbid).Scan(&ref.BBID, &ref.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_entity")
	}

	return &ref, nil
}

/*
ParentAlias returns the default alias of the latest non-master revision of bbid
below revision before.

Description: Bounding by the revision id makes the answer fixed for a given
revision, so later edits of the entity do not change it. The family view name is
a sanitized identifier and the bbid and bound are bind parameters.

Parameters:
  - ctx: context.Context
  - t: entity.Type (selects the family view)
  - bbid: string
  - before: int (revision id; only older revisions are considered)

Returns:
  - *AliasSummary: The parent alias, or nil when there is none
  - error: Database execution errors
*/
func (repository *PostgresRepository) ParentAlias(ctx context.Context, t entity.Type, bbid string, before int) (*AliasSummary, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s
		FROM %s v
		LEFT JOIN %s a ON a.%s = v.default_alias_id
		WHERE v.bbid = $1 AND v.master = FALSE AND v.revision_id < $2
		ORDER BY v.revision_id DESC
		LIMIT 1
	`,
		schema.Alias.ID, schema.Alias.Name, schema.Alias.SortName, schema.Alias.LanguageID, schema.Alias.Primary,
		t.Tables().View, schema.Alias.Table, schema.Alias.ID,
	)

	var (
		aliasID        *int
		name, sortName *string
		languageID     *int
		primary        *bool
	)
	err := repository.db.QueryRow(ctx, query, bbid, before).Scan(&aliasID, &name, &sortName, &languageID, &primary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dberr.Wrap(err, "get_parent_alias")
	}

	// The previous revision had no default alias.
	if aliasID == nil {
		return nil, nil
	}

	return &AliasSummary{
		AliasID:    *aliasID,
		Name:       pointer.Val(name),
		SortName:   pointer.Val(sortName),
		LanguageID: languageID,
		Primary:    pointer.Val(primary),
	}, nil
}

// CountByType returns the number of entities per family.
func (repository *PostgresRepository) CountByType(ctx context.Context) (map[entity.Type]int, error) {
	query := fmt.Sprintf(`SELECT %s, COUNT(*) FROM %s GROUP BY %s`,
		schema.Entity.Type, schema.Entity.Table, schema.Entity.Type,
	)

	rows, err := repository.db.Query(ctx, query)
	if err != nil {
		return nil, dberr.Wrap(err, "count_entities")
	}
	defer rows.Close()

	counts := make(map[entity.Type]int, len(entity.Types()))
	for _, t := range entity.Types() {
		counts[t] = 0
	}

	for rows.Next() {
		var (
			t     entity.Type
			count int
		)
		if err := rows.Scan(&t, &count); err != nil {
			return nil, dberr.Wrap(err, "scan_entity_count")
		}
		counts[t] = count
	}

	return counts, dberr.Wrap(rows.Err(), "iterate_entity_count")
}

// TopEditorsSince ranks editors by the revisions they created at or after since.
func (repository *PostgresRepository) TopEditorsSince(ctx context.Context, since time.Time, limit int) ([]EditorActivity, error) {
	query := fmt.Sprintf(`
		SELECT e.%s, e.%s, e.%s, COUNT(r.%s) AS revisions
		FROM %s r
		JOIN %s e ON e.%s = r.%s
		WHERE r.%s >= $1
		GROUP BY e.%s
		ORDER BY revisions DESC, e.%s ASC
		LIMIT $2
	`,
		schema.Editor.ID, schema.Editor.Name, schema.Editor.EditCount, schema.Revision.ID,
		schema.Revision.Table, schema.Editor.Table, schema.Editor.ID, schema.Revision.AuthorID,
		schema.Revision.CreatedAt, schema.Editor.ID, schema.Editor.ID,
	)

	rows, err := repository.db.Query(ctx, query, since, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "list_top_editors")
	}

	activity, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (EditorActivity, error) {
		var item EditorActivity
		err := row.Scan(&item.Editor.ID, &item.Editor.Name, &item.Editor.EditCount, &item.Revisions)
		return item, err
	})

	return activity, dberr.Wrap(err, "scan_top_editor")
}
