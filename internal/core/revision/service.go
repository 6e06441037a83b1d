// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package revision

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/libris/internal/core/entity"
	"github.com/taibuivan/libris/internal/platform/constants"
	"github.com/taibuivan/libris/internal/platform/dberr"
	"github.com/taibuivan/libris/pkg/pagination"
)

// # Service Layer

// Service assembles the revision history and editing statistics.
type Service struct {
	repo   Repository
	cache  Cache
	logger *slog.Logger
	now    func() time.Time
}

// NewService constructs a new [Service]. A nil cache disables caching.
func NewService(repo Repository, cache Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, logger: logger, now: time.Now}
}

// WithClock replaces the wall clock used for statistics windows.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

/*
OrderedRevisions returns one page of the history, newest first, fully assembled.

Description: Revisions are assembled one after another in page order. Within a
revision the default alias and the entity row are fetched concurrently, then the
parent alias. A revision without a subtype row yields an empty entry in place.

Parameters:
  - ctx: context.Context
  - window: pagination.Window

Returns:
  - []*Assembled: One entry per revision, same order as the page
  - error: Repository errors other than a missing subtype row
*/
func (service *Service) OrderedRevisions(ctx context.Context, window pagination.Window) ([]*Assembled, error) {
	revisions, err := service.repo.ListPage(ctx, window)
	if err != nil {
		return nil, err
	}

	ordered := make([]*Assembled, 0, len(revisions))
	for _, revision := range revisions {
		assembled, err := service.cachedAssemble(ctx, revision)
		if err != nil {
			return nil, err
		}
		ordered = append(ordered, assembled)
	}

	return ordered, nil
}

// cachedAssemble serves an entry from the cache, assembling and storing it on a miss.
// Cache failures are logged and otherwise ignored.
func (service *Service) cachedAssemble(ctx context.Context, revision Revision) (*Assembled, error) {
	if service.cache != nil {
		cached, ok, err := service.cache.Get(ctx, revision.ID)
		if err != nil {
			service.logger.WarnContext(ctx, "revision_cache_get_failed",
				slog.Int("revision_id", revision.ID), slog.Any("error", err))
		}
		if ok {
			return cached, nil
		}
	}

	assembled, err := service.assemble(ctx, revision)
	if err != nil {
		return nil, err
	}

	if service.cache != nil {
		if err := service.cache.Set(ctx, revision.ID, assembled); err != nil {
			service.logger.WarnContext(ctx, "revision_cache_set_failed",
				slog.Int("revision_id", revision.ID), slog.Any("error", err))
		}
	}

	return assembled, nil
}

// assemble builds the view of a single revision.
func (service *Service) assemble(ctx context.Context, revision Revision) (*Assembled, error) {

	// 1. Subtype row, selected by the revision's type tag
	subtype, err := service.repo.Subtype(ctx, revision)
	if dberr.IsNotFound(err) {
		service.logger.DebugContext(ctx, "revision_subtype_missing",
			slog.Int("revision_id", revision.ID), slog.String("entity_type", string(revision.EntityType)))
		return &Assembled{}, nil
	}
	if err != nil {
		return nil, err
	}

	// 2. Default alias and entity row
	var (
		defaultAlias *AliasSummary
		ref          *entity.Ref
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if subtype.AliasSetID == nil {
			return nil
		}
		var err error
		defaultAlias, err = service.repo.DefaultAlias(groupCtx, *subtype.AliasSetID)
		return err
	})
	group.Go(func() error {
		var err error
		ref, err = service.repo.Entity(groupCtx, subtype.BBID)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	editor := revision.Editor
	assembled := &Assembled{
		RevisionID:   revision.ID,
		CreatedAt:    revision.CreatedAt,
		Editor:       &editor,
		AliasSetID:   subtype.AliasSetID,
		AliasSummary: defaultAlias,
	}

	if ref == nil {
		return assembled, nil
	}
	assembled.BBID = ref.BBID
	assembled.Type = ref.Type

	// 3. Parent alias of the same entity, older than this revision
	parent, err := service.repo.ParentAlias(ctx, ref.Type, ref.BBID, revision.ID)
	if err != nil {
		return nil, err
	}
	assembled.ParentAlias = parent

	return assembled, nil
}

// # Statistics

// DateBeforeDays returns the instant that lies days calendar days before now,
// keeping the wall-clock time and location.
func DateBeforeDays(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, -days)
}

/*
Statistics summarises entity counts and the most active editors of the last days.

Parameters:
  - ctx: context.Context
  - days: int (window length; non-positive values use the default)

Returns:
  - *Statistics: Counts per family and top editors since the window start
  - error: Repository errors
*/
func (service *Service) Statistics(ctx context.Context, days int) (*Statistics, error) {
	if days <= 0 {
		days = constants.DefaultStatisticsWindowDays
	}

	statistics := &Statistics{Since: DateBeforeDays(service.now(), days)}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		statistics.EntityCount, err = service.repo.CountByType(groupCtx)
		return err
	})
	group.Go(func() error {
		var err error
		statistics.TopEditors, err = service.repo.TopEditorsSince(groupCtx, statistics.Since, constants.TopEditorsLimit)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return statistics, nil
}
