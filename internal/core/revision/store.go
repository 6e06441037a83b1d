package revision

import (
	"context"
	"time"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/pkg/pagination"
)

// Repository defines persistence operations for the revision history.
type Repository interface {
	// ListPage returns one page of revisions, newest first, with their editors.
	ListPage(ctx context.Context, window pagination.Window) ([]Revision, error)

	// Subtype loads the family-specific row of a revision.
	// Returns dberr.ErrNotFound when the row does not exist.
	Subtype(ctx context.Context, revision Revision) (*Subtype, error)

	// DefaultAlias returns the default alias of an alias set, or nil.
	DefaultAlias(ctx context.Context, aliasSetID int) (*AliasSummary, error)

	// Entity returns the entity row of bbid, or nil.
	Entity(ctx context.Context, bbid string) (*entity.Ref, error)

	// ParentAlias returns the default alias of the most recent non-master revision
	// of bbid older than the revision before, or nil.
	ParentAlias(ctx context.Context, t entity.Type, bbid string, before int) (*AliasSummary, error)

	// CountByType returns the number of entities per family.
	CountByType(ctx context.Context) (map[entity.Type]int, error)

	// TopEditorsSince ranks editors by revisions created at or after since.
	TopEditorsSince(ctx context.Context, since time.Time, limit int) ([]EditorActivity, error)
}

// Cache stores assembled entries by revision id.
type Cache interface {
	Get(ctx context.Context, revisionID int) (*Assembled, bool, error)
	Set(ctx context.Context, revisionID int, assembled *Assembled) error
}
