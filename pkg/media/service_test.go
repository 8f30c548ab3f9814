package media

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/watchlogapp/watchlog/pkg/errcodes"
	"github.com/watchlogapp/watchlog/pkg/migrations"
	"github.com/watchlogapp/watchlog/pkg/models"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func createTestUser(t *testing.T, db *bun.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:     username,
		PasswordHash: "test",
		IsActive:     true,
	}
	_, err := db.NewInsert().Model(user).Exec(context.Background())
	require.NoError(t, err)
	return user
}

func intp(v int) *int { return &v }

func TestService_CreateItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "testuser")

	t.Run("fills defaults for a flat item", func(t *testing.T) {
		item, err := svc.CreateItem(ctx, &models.MediaItem{
			UserID: user.ID,
			Title:  "Dune",
			Kind:   models.MediaKindBook,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, item.ID)
		assert.Equal(t, models.MediaStatusInProgress, item.Status)
		assert.False(t, item.DateAdded.IsZero())
		assert.Zero(t, item.ProgressCurrent)
	})

	t.Run("seeds absolute progress from the selected season start", func(t *testing.T) {
		item, err := svc.CreateItem(ctx, &models.MediaItem{
			UserID:           user.ID,
			Title:            "Long Running Show",
			Kind:             models.MediaKindShow,
			CurrentSeason:    intp(3),
			TotalSeasons:     intp(8),
			EpisodesInSeason: intp(10),
		})
		require.NoError(t, err)

		// Two prior seasons of 10 episodes each count as watched.
		assert.Equal(t, 20, item.ProgressCurrent)
		// The absolute total is derived from the season structure.
		require.NotNil(t, item.ProgressTotal)
		assert.Equal(t, 80, *item.ProgressTotal)
	})

	t.Run("sanitizes catalog season counts", func(t *testing.T) {
		item, err := svc.CreateItem(ctx, &models.MediaItem{
			UserID:              user.ID,
			Title:               "Messy Catalog Show",
			Kind:                models.MediaKindShow,
			CurrentSeason:       intp(1),
			TotalSeasons:        intp(5), // contradicts the table below
			SeasonEpisodeCounts: models.IntList{8, 0, -2, 12},
		})
		require.NoError(t, err)

		// The table length wins and zero counts become 1.
		assert.Equal(t, models.IntList{8, 1, 1, 12}, item.SeasonEpisodeCounts)
		require.NotNil(t, item.TotalSeasons)
		assert.Equal(t, 4, *item.TotalSeasons)
	})

	t.Run("clamps progress against a known total", func(t *testing.T) {
		item, err := svc.CreateItem(ctx, &models.MediaItem{
			UserID:          user.ID,
			Title:           "Short Book",
			Kind:            models.MediaKindBook,
			ProgressCurrent: 900,
			ProgressTotal:   intp(300),
		})
		require.NoError(t, err)

		assert.Equal(t, 300, item.ProgressCurrent)
	})
}

func TestService_ListItems(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "testuser")
	other := createTestUser(t, db, "otheruser")

	_, err := svc.CreateItem(ctx, &models.MediaItem{UserID: user.ID, Title: "Dune", Kind: models.MediaKindBook})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, &models.MediaItem{UserID: user.ID, Title: "Berserk", Kind: models.MediaKindManga, Status: models.MediaStatusPaused})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, &models.MediaItem{UserID: other.ID, Title: "Hyperion", Kind: models.MediaKindBook})
	require.NoError(t, err)

	t.Run("scopes to the owning user", func(t *testing.T) {
		items, total, err := svc.ListItemsWithTotal(ctx, ListItemsOptions{UserID: user.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		assert.Len(t, items, 2)
	})

	t.Run("filters by status", func(t *testing.T) {
		status := models.MediaStatusPaused
		items, err := svc.ListItems(ctx, ListItemsOptions{UserID: user.ID, Status: &status})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Berserk", items[0].Title)
	})

	t.Run("filters by kind", func(t *testing.T) {
		kind := models.MediaKindBook
		items, err := svc.ListItems(ctx, ListItemsOptions{UserID: user.ID, Kind: &kind})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Dune", items[0].Title)
	})
}

func TestService_LegacyNormalization(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "testuser")

	insertLegacy := func(t *testing.T, id string, item *models.MediaItem) {
		t.Helper()
		now := time.Now()
		item.ID = id
		item.UserID = user.ID
		item.CreatedAt = now
		item.UpdatedAt = now
		item.DateAdded = now
		item.LegacyRelativeProgress = true
		_, err := db.NewInsert().Model(item).Exec(ctx)
		require.NoError(t, err)
	}

	t.Run("converts a relative counter to absolute on load", func(t *testing.T) {
		insertLegacy(t, "legacy-1", &models.MediaItem{
			Title:            "Imported Show",
			Kind:             models.MediaKindShow,
			Status:           models.MediaStatusInProgress,
			ProgressCurrent:  7, // episode 7 of the current season
			ProgressTotal:    intp(10),
			CurrentSeason:    intp(3),
			TotalSeasons:     intp(8),
			EpisodesInSeason: intp(10),
		})

		item, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: "legacy-1", UserID: &user.ID})
		require.NoError(t, err)

		assert.Equal(t, 27, item.ProgressCurrent)
		require.NotNil(t, item.ProgressTotal)
		assert.Equal(t, 80, *item.ProgressTotal)
		assert.False(t, item.LegacyRelativeProgress)

		// The rewrite is persisted; a raw reload shows the flag cleared.
		reloaded := &models.MediaItem{}
		err = db.NewSelect().Model(reloaded).Where("mi.id = ?", "legacy-1").Scan(ctx)
		require.NoError(t, err)
		assert.Equal(t, 27, reloaded.ProgressCurrent)
		assert.False(t, reloaded.LegacyRelativeProgress)
	})

	t.Run("a relative counter of zero keeps prior seasons watched", func(t *testing.T) {
		insertLegacy(t, "legacy-2", &models.MediaItem{
			Title:            "Unstarted Season Import",
			Kind:             models.MediaKindShow,
			Status:           models.MediaStatusInProgress,
			ProgressCurrent:  0,
			CurrentSeason:    intp(4),
			EpisodesInSeason: intp(12),
		})

		item, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: "legacy-2", UserID: &user.ID})
		require.NoError(t, err)

		assert.Equal(t, 36, item.ProgressCurrent)
		assert.False(t, item.LegacyRelativeProgress)
	})

	t.Run("keeps the flag when no season structure is known", func(t *testing.T) {
		insertLegacy(t, "legacy-3", &models.MediaItem{
			Title:           "Structureless Import",
			Kind:            models.MediaKindShow,
			Status:          models.MediaStatusInProgress,
			ProgressCurrent: 5,
			CurrentSeason:   intp(2),
		})

		item, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: "legacy-3", UserID: &user.ID})
		require.NoError(t, err)

		assert.Equal(t, 5, item.ProgressCurrent)
		assert.True(t, item.LegacyRelativeProgress)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "testuser")

	item, err := svc.CreateItem(ctx, &models.MediaItem{UserID: user.ID, Title: "Dune", Kind: models.MediaKindBook})
	require.NoError(t, err)

	t.Run("pausing records the pause timestamp", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, UpdateStatusOptions{ID: item.ID, UserID: user.ID, Status: models.MediaStatusPaused})
		require.NoError(t, err)

		assert.Equal(t, models.MediaStatusPaused, updated.Status)
		require.NotNil(t, updated.DatePaused)
		assert.WithinDuration(t, time.Now(), *updated.DatePaused, time.Minute)
	})

	t.Run("resuming clears the pause timestamp", func(t *testing.T) {
		updated, err := svc.UpdateStatus(ctx, UpdateStatusOptions{ID: item.ID, UserID: user.ID, Status: models.MediaStatusInProgress})
		require.NoError(t, err)

		assert.Equal(t, models.MediaStatusInProgress, updated.Status)
		assert.Nil(t, updated.DatePaused)
	})

	t.Run("unknown item returns not found", func(t *testing.T) {
		_, err := svc.UpdateStatus(ctx, UpdateStatusOptions{ID: "missing", UserID: user.ID, Status: models.MediaStatusPaused})
		require.Error(t, err)
		assert.True(t, errcodes.IsNotFound(err))
	})
}

func TestService_SeasonNavigation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "testuser")

	item, err := svc.CreateItem(ctx, &models.MediaItem{
		UserID:           user.ID,
		Title:            "Long Running Show",
		Kind:             models.MediaKindShow,
		CurrentSeason:    intp(3),
		TotalSeasons:     intp(8),
		EpisodesInSeason: intp(10),
		ProgressCurrent:  27,
	})
	require.NoError(t, err)

	t.Run("advance moves to the next season start and persists", func(t *testing.T) {
		updated, err := svc.AdvanceSeason(ctx, SeasonMoveOptions{ID: item.ID, UserID: user.ID})
		require.NoError(t, err)

		require.NotNil(t, updated.CurrentSeason)
		assert.Equal(t, 4, *updated.CurrentSeason)
		assert.Equal(t, 31, updated.ProgressCurrent)

		reloaded, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: item.ID, UserID: &user.ID})
		require.NoError(t, err)
		assert.Equal(t, 31, reloaded.ProgressCurrent)
	})

	t.Run("retreat moves back one season", func(t *testing.T) {
		updated, err := svc.RetreatSeason(ctx, SeasonMoveOptions{ID: item.ID, UserID: user.ID})
		require.NoError(t, err)

		require.NotNil(t, updated.CurrentSeason)
		assert.Equal(t, 3, *updated.CurrentSeason)
		assert.Equal(t, 21, updated.ProgressCurrent)
	})

	t.Run("advancing a flat item is rejected", func(t *testing.T) {
		book, err := svc.CreateItem(ctx, &models.MediaItem{UserID: user.ID, Title: "Dune", Kind: models.MediaKindBook})
		require.NoError(t, err)

		_, err = svc.AdvanceSeason(ctx, SeasonMoveOptions{ID: book.ID, UserID: user.ID})
		require.Error(t, err)
	})
}

func TestService_DeleteItem(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "testuser")
	other := createTestUser(t, db, "otheruser")

	item, err := svc.CreateItem(ctx, &models.MediaItem{UserID: user.ID, Title: "Dune", Kind: models.MediaKindBook})
	require.NoError(t, err)

	t.Run("cannot delete another user's item", func(t *testing.T) {
		err := svc.DeleteItem(ctx, DeleteItemOptions{ID: item.ID, UserID: other.ID})
		require.Error(t, err)
		assert.True(t, errcodes.IsNotFound(err))
	})

	t.Run("deletes the owner's item", func(t *testing.T) {
		require.NoError(t, svc.DeleteItem(ctx, DeleteItemOptions{ID: item.ID, UserID: user.ID}))

		_, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: item.ID, UserID: &user.ID})
		require.Error(t, err)
		assert.True(t, errcodes.IsNotFound(err))
	})
}
