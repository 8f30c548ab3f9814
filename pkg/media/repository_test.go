package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchlogapp/watchlog/pkg/collection"
	"github.com/watchlogapp/watchlog/pkg/models"
)

// These tests run the optimistic collection layer against the real
// SQLite-backed repository instead of a fake.
func TestRepository_WithMutator(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "testuser")

	repo := NewRepository(svc, user.ID)
	store := collection.NewStore()
	mut := collection.NewMutator(repo, store, user.ID)
	require.NoError(t, mut.Resync(ctx))

	t.Run("add commits the server-assigned id", func(t *testing.T) {
		created, err := mut.AddItem(ctx, &models.MediaItem{
			Title: "Dune",
			Kind:  models.MediaKindBook,
		})
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, user.ID, created.UserID)
		require.Equal(t, 1, store.Len())
		assert.Equal(t, created.ID, store.Items()[0].ID)

		stored, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: created.ID, UserID: &user.ID})
		require.NoError(t, err)
		assert.Equal(t, "Dune", stored.Title)
	})

	t.Run("update round-trips through the database", func(t *testing.T) {
		id := store.Items()[0].ID
		patch := store.Get(id).Clone()
		patch.ProgressCurrent = 42

		committed, err := mut.UpdateItem(ctx, patch)
		require.NoError(t, err)
		assert.Equal(t, 42, committed.ProgressCurrent)

		stored, err := svc.RetrieveItem(ctx, RetrieveItemOptions{ID: id, UserID: &user.ID})
		require.NoError(t, err)
		assert.Equal(t, 42, stored.ProgressCurrent)
	})

	t.Run("a server-side delete surfaces as a stale snapshot", func(t *testing.T) {
		id := store.Items()[0].ID
		require.NoError(t, svc.DeleteItem(ctx, DeleteItemOptions{ID: id, UserID: user.ID}))

		patch := store.Get(id).Clone()
		patch.ProgressCurrent = 50

		_, err := mut.UpdateItem(ctx, patch)
		require.ErrorIs(t, err, collection.ErrStaleSnapshot)

		// The automatic resync emptied the local collection.
		assert.Zero(t, store.Len())
	})
}
