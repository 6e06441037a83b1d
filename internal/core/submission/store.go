/*
Package submission accepts entity creations and edits from editors.

A submission never updates rows in place. It writes a fresh data row and its
sets, appends a revision tagged with the entity family, and moves the entity's
master pointer to it, all in one transaction.
*/
package submission

import (
	"context"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/apperr"
)

// Revision is a validated submission ready to be written.
type Revision struct {
	EditorID   int
	Submission *entity.Submission

	// Current is the entity being edited; nil for a creation.
	Current *entity.Entity
}

// CheckMaster fails with CONFLICT when the entity's master revision, as read
// under the header lock, is no longer the one the edit was validated against.
func (revision Revision) CheckMaster(lockedRevisionID int) error {
	if revision.Current == nil || revision.Current.RevisionID == lockedRevisionID {
		return nil
	}
	return apperr.Conflict("Entity was edited by someone else; reload and resubmit")
}

// Repository defines persistence operations for submissions.
type Repository interface {
	// Create writes a new entity and its first revision.
	Create(ctx context.Context, revision Revision) (*entity.SubmittedEntity, error)

	// Edit appends a revision to revision.Current and makes it the master.
	Edit(ctx context.Context, revision Revision) (*entity.SubmittedEntity, error)
}
