package media

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"github.com/watchlogapp/watchlog/pkg/catalog"
	"github.com/watchlogapp/watchlog/pkg/errcodes"
	"github.com/watchlogapp/watchlog/pkg/models"
	"github.com/watchlogapp/watchlog/pkg/progress"
	"github.com/watchlogapp/watchlog/pkg/season"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateItem inserts a new tracked item. Missing fields get their defaults,
// catalog-sourced season counts are sanitized, and for a season-tracked item
// created mid-show the absolute progress counter is seeded to the start of
// the selected season so no prior-season units read as watched twice.
func (svc *Service) CreateItem(ctx context.Context, item *models.MediaItem) (*models.MediaItem, error) {
	now := time.Now()

	item = item.Clone()
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.DateAdded.IsZero() {
		item.DateAdded = now
	}
	if item.Status == "" {
		item.Status = models.MediaStatusInProgress
	}
	item.LegacyRelativeProgress = false

	sanitizeSeasonFields(item)

	if item.SeasonTracked() && item.ProgressCurrent == 0 {
		// Start of the selected season: every prior season counts as watched,
		// nothing within the season does.
		item.ProgressCurrent = season.ToAbsolute(*item.CurrentSeason, 1, item.EpisodeCounts(), item.UniformEpisodes()) - 1
	}

	applyDerivedTotal(item)
	item.ClampProgress()

	_, err := svc.db.
		NewInsert().
		Model(item).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return item, nil
}

type RetrieveItemOptions struct {
	ID     string
	UserID *int
}

func (svc *Service) RetrieveItem(ctx context.Context, opts RetrieveItemOptions) (*models.MediaItem, error) {
	item := &models.MediaItem{}

	q := svc.db.
		NewSelect().
		Model(item).
		Where("mi.id = ?", opts.ID)

	if opts.UserID != nil {
		q = q.Where("mi.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Media item")
		}
		return nil, errors.WithStack(err)
	}

	if err := svc.normalizeLegacy(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

type ListItemsOptions struct {
	UserID       int
	Status       *models.MediaStatus
	Kind         *models.MediaKind
	Limit        *int
	Offset       *int
	includeTotal bool
}

func (svc *Service) ListItems(ctx context.Context, opts ListItemsOptions) ([]*models.MediaItem, error) {
	items, _, err := svc.listItemsWithTotal(ctx, opts)
	return items, err
}

func (svc *Service) ListItemsWithTotal(ctx context.Context, opts ListItemsOptions) ([]*models.MediaItem, int, error) {
	opts.includeTotal = true
	return svc.listItemsWithTotal(ctx, opts)
}

func (svc *Service) listItemsWithTotal(ctx context.Context, opts ListItemsOptions) ([]*models.MediaItem, int, error) {
	var items []*models.MediaItem
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&items).
		Where("mi.user_id = ?", opts.UserID).
		Order("mi.date_added ASC", "mi.id ASC")

	if opts.Status != nil {
		q = q.Where("mi.status = ?", *opts.Status)
	}
	if opts.Kind != nil {
		q = q.Where("mi.kind = ?", *opts.Kind)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	for _, item := range items {
		if err := svc.normalizeLegacy(ctx, item); err != nil {
			return nil, 0, err
		}
	}

	return items, total, nil
}

// ReplaceItem overwrites the stored row with the given item, scoped to the
// owning user. The canonical stored version is returned.
func (svc *Service) ReplaceItem(ctx context.Context, userID int, item *models.MediaItem) (*models.MediaItem, error) {
	item = item.Clone()
	item.UserID = userID
	item.UpdatedAt = time.Now()
	item.LegacyRelativeProgress = false

	sanitizeSeasonFields(item)
	applyDerivedTotal(item)
	item.ClampProgress()

	res, err := svc.db.
		NewUpdate().
		Model(item).
		WherePK().
		Where("mi.user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, errcodes.NotFound("Media item")
	}

	return item, nil
}

type UpdateStatusOptions struct {
	ID     string
	UserID int
	Status models.MediaStatus
}

// UpdateStatus transitions the item's status and maintains the datePaused
// side effect: set when entering paused, cleared when leaving it, untouched
// otherwise.
func (svc *Service) UpdateStatus(ctx context.Context, opts UpdateStatusOptions) (*models.MediaItem, error) {
	item, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: opts.ID, UserID: &opts.UserID})
	if err != nil {
		return nil, err
	}

	if opts.Status == models.MediaStatusPaused && item.Status != models.MediaStatusPaused {
		now := time.Now()
		item.DatePaused = &now
	} else if opts.Status != models.MediaStatusPaused && item.Status == models.MediaStatusPaused {
		item.DatePaused = nil
	}
	item.Status = opts.Status

	return svc.ReplaceItem(ctx, opts.UserID, item)
}

type SeasonMoveOptions struct {
	ID     string
	UserID int
}

// AdvanceSeason moves the item one season forward and persists the
// recomputed progress.
func (svc *Service) AdvanceSeason(ctx context.Context, opts SeasonMoveOptions) (*models.MediaItem, error) {
	return svc.moveSeason(ctx, opts, progress.AdvanceSeason)
}

// RetreatSeason moves the item one season back and persists the recomputed
// progress.
func (svc *Service) RetreatSeason(ctx context.Context, opts SeasonMoveOptions) (*models.MediaItem, error) {
	return svc.moveSeason(ctx, opts, progress.RetreatSeason)
}

func (svc *Service) moveSeason(ctx context.Context, opts SeasonMoveOptions, move func(*models.MediaItem) error) (*models.MediaItem, error) {
	item, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: opts.ID, UserID: &opts.UserID})
	if err != nil {
		return nil, err
	}

	if err := move(item); err != nil {
		return nil, err
	}

	return svc.ReplaceItem(ctx, opts.UserID, item)
}

type DeleteItemOptions struct {
	ID     string
	UserID int
}

func (svc *Service) DeleteItem(ctx context.Context, opts DeleteItemOptions) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.MediaItem)(nil)).
		Where("mi.id = ?", opts.ID).
		Where("mi.user_id = ?", opts.UserID).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return errcodes.NotFound("Media item")
	}
	return nil
}

// normalizeLegacy converts rows imported with a season-relative progress
// counter to the absolute representation, persisting the rewrite so it
// happens at most once per row. Rows without enough season structure to
// convert keep the flag and are treated as relative-to-current-season until
// the structure arrives.
func (svc *Service) normalizeLegacy(ctx context.Context, item *models.MediaItem) error {
	if !item.LegacyRelativeProgress {
		return nil
	}
	if !item.SeasonTracked() {
		return nil
	}

	table := item.EpisodeCounts()
	uniform := item.UniformEpisodes()
	if len(table) == 0 && uniform < 1 {
		return nil
	}

	relative := item.ProgressCurrent
	if relative < 1 {
		// Nothing watched within the season; prior seasons still count.
		item.ProgressCurrent = season.ToAbsolute(*item.CurrentSeason, 1, table, uniform) - 1
	} else {
		item.ProgressCurrent = season.ToAbsolute(*item.CurrentSeason, relative, table, uniform)
	}

	// The imported total was single-season; replace it with the absolute one.
	item.ProgressTotal = nil
	applyDerivedTotal(item)
	item.ClampProgress()
	item.LegacyRelativeProgress = false
	item.UpdatedAt = time.Now()

	_, err := svc.db.
		NewUpdate().
		Model(item).
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}

// sanitizeSeasonFields normalizes untrusted season structure in place using
// the catalog rules: counts below 1 become 1 and a present table is
// authoritative for the season total.
func sanitizeSeasonFields(item *models.MediaItem) {
	if len(item.SeasonEpisodeCounts) == 0 {
		if item.TotalSeasons != nil && *item.TotalSeasons < 1 {
			item.TotalSeasons = nil
		}
		if item.EpisodesInSeason != nil && *item.EpisodesInSeason < 1 {
			item.EpisodesInSeason = nil
		}
		return
	}

	declared := 0
	if item.TotalSeasons != nil {
		declared = *item.TotalSeasons
	}
	counts, total := catalog.SanitizeCounts(item.SeasonEpisodeCounts, declared)
	item.SeasonEpisodeCounts = counts
	item.TotalSeasons = &total

	if item.EpisodesInSeason != nil && *item.EpisodesInSeason < 1 {
		item.EpisodesInSeason = nil
	}

	if item.CurrentSeason != nil {
		if *item.CurrentSeason < 1 {
			one := 1
			item.CurrentSeason = &one
		} else if *item.CurrentSeason > total {
			item.CurrentSeason = &total
		}
	}
}

// applyDerivedTotal fills in the absolute progress total for season-tracked
// items when the season structure makes it computable.
func applyDerivedTotal(item *models.MediaItem) {
	if !item.SeasonTracked() || item.ProgressTotal != nil {
		return
	}
	if total := season.TotalUnits(item.EpisodeCounts(), item.KnownSeasons(), item.UniformEpisodes()); total > 0 {
		item.ProgressTotal = &total
	}
}
