package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/watchlogapp/watchlog/pkg/models"
)

func TestAdvanceSeason(t *testing.T) {
	t.Run("moves forward and resets progress to season start", func(t *testing.T) {
		item := seasonTrackedItem() // S3 of 8, 10 episodes each, absolute 27
		require.NoError(t, AdvanceSeason(item))

		assert.Equal(t, 4, *item.CurrentSeason)
		assert.Equal(t, 31, item.ProgressCurrent) // 3 prior seasons of 10, episode 1
		assert.Equal(t, 10, *item.EpisodesInSeason)
	})

	t.Run("re-reads episode count from the table", func(t *testing.T) {
		item := seasonTrackedItem()
		item.SeasonEpisodeCounts = models.IntList{6, 13, 8, 22}
		require.NoError(t, AdvanceSeason(item))

		assert.Equal(t, 4, *item.CurrentSeason)
		assert.Equal(t, 22, *item.EpisodesInSeason)
		assert.Equal(t, 6+13+8+1, item.ProgressCurrent)
	})

	t.Run("keeps previous count when table lacks an entry", func(t *testing.T) {
		item := seasonTrackedItem()
		item.SeasonEpisodeCounts = models.IntList{6, 13, 8}
		require.NoError(t, AdvanceSeason(item))

		assert.Equal(t, 4, *item.CurrentSeason)
		assert.Equal(t, 10, *item.EpisodesInSeason)
	})

	t.Run("illegal past the last known season", func(t *testing.T) {
		item := seasonTrackedItem()
		item.CurrentSeason = intp(8)
		assert.Error(t, AdvanceSeason(item))
		assert.Equal(t, 8, *item.CurrentSeason)
	})

	t.Run("always legal when total seasons unknown", func(t *testing.T) {
		item := seasonTrackedItem()
		item.TotalSeasons = nil
		item.ProgressTotal = nil
		item.CurrentSeason = intp(12)
		require.NoError(t, AdvanceSeason(item))
		assert.Equal(t, 13, *item.CurrentSeason)
	})

	t.Run("rejected without season tracking", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindBook}
		assert.Error(t, AdvanceSeason(item))
	})
}

func TestRetreatSeason(t *testing.T) {
	t.Run("moves back and resets progress to season start", func(t *testing.T) {
		item := seasonTrackedItem()
		require.NoError(t, RetreatSeason(item))

		assert.Equal(t, 2, *item.CurrentSeason)
		assert.Equal(t, 11, item.ProgressCurrent)
	})

	t.Run("illegal at season one", func(t *testing.T) {
		item := seasonTrackedItem()
		item.CurrentSeason = intp(1)
		assert.Error(t, RetreatSeason(item))
	})
}

func TestAdvanceThenRetreat(t *testing.T) {
	// Season index round-trips; the episode-within-season deliberately does
	// not, resetting to 1 on each transition.
	item := seasonTrackedItem()
	original := *item.CurrentSeason

	require.NoError(t, AdvanceSeason(item))
	require.NoError(t, RetreatSeason(item))

	assert.Equal(t, original, *item.CurrentSeason)
	assert.Equal(t, 21, item.ProgressCurrent) // S3E1, not S3E7
}

func TestSeasonCompleteEligible(t *testing.T) {
	t.Run("eligible on the last episode of a non-final season", func(t *testing.T) {
		item := seasonTrackedItem()
		item.ProgressCurrent = 30 // S3E10
		assert.True(t, SeasonCompleteEligible(item))
	})

	t.Run("not eligible mid-season", func(t *testing.T) {
		assert.False(t, SeasonCompleteEligible(seasonTrackedItem()))
	})

	t.Run("not eligible on the final season", func(t *testing.T) {
		item := seasonTrackedItem()
		item.CurrentSeason = intp(8)
		item.ProgressCurrent = 80
		assert.False(t, SeasonCompleteEligible(item))
	})

	t.Run("eligible when total seasons unknown", func(t *testing.T) {
		item := seasonTrackedItem()
		item.TotalSeasons = nil
		item.ProgressTotal = nil
		item.ProgressCurrent = 30
		assert.True(t, SeasonCompleteEligible(item))
	})

	t.Run("not eligible with no progress", func(t *testing.T) {
		item := seasonTrackedItem()
		item.ProgressCurrent = 0
		assert.False(t, SeasonCompleteEligible(item))
	})
}
