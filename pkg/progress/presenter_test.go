package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/watchlogapp/watchlog/pkg/models"
)

func intp(v int) *int { return &v }

func seasonTrackedItem() *models.MediaItem {
	return &models.MediaItem{
		Kind:             models.MediaKindShow,
		Status:           models.MediaStatusInProgress,
		ProgressCurrent:  27,
		ProgressTotal:    intp(80),
		CurrentSeason:    intp(3),
		TotalSeasons:     intp(8),
		EpisodesInSeason: intp(10),
	}
}

func TestPrimaryText(t *testing.T) {
	t.Run("book", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindBook, ProgressCurrent: 42, ProgressTotal: intp(310)}
		assert.Equal(t, "Page 42 of 310", PrimaryText(item))
	})

	t.Run("book with unknown total", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindBook, ProgressCurrent: 42}
		assert.Equal(t, "Page 42 of ?", PrimaryText(item))
	})

	t.Run("manga", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindManga, ProgressCurrent: 12, ProgressTotal: intp(120)}
		assert.Equal(t, "Chapter 12 of 120", PrimaryText(item))
	})

	t.Run("season tracked show", func(t *testing.T) {
		assert.Equal(t, "S3E7 of 10", PrimaryText(seasonTrackedItem()))
	})

	t.Run("season tracked show with per-season table", func(t *testing.T) {
		item := seasonTrackedItem()
		item.SeasonEpisodeCounts = models.IntList{6, 13, 8}
		item.ProgressCurrent = 7
		assert.Equal(t, "S2E1 of 13", PrimaryText(item))
	})

	t.Run("anime without season tracking", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindAnime, ProgressCurrent: 5, ProgressTotal: intp(26)}
		assert.Equal(t, "Episode 5 of 26", PrimaryText(item))
	})

	t.Run("unstarted season tracked show", func(t *testing.T) {
		item := seasonTrackedItem()
		item.ProgressCurrent = 0
		item.CurrentSeason = intp(1)
		assert.Equal(t, "S1E0 of 10", PrimaryText(item))
	})

	t.Run("negative progress degrades", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindBook, ProgressCurrent: -4}
		assert.Equal(t, "Page 0 of ?", PrimaryText(item))
	})

	t.Run("nil item", func(t *testing.T) {
		assert.Equal(t, "", PrimaryText(nil))
	})
}

func TestSecondaryText(t *testing.T) {
	t.Run("multi-season show", func(t *testing.T) {
		assert.Equal(t, "Season 3 of 8", SecondaryText(seasonTrackedItem()))
	})

	t.Run("single known season has none", func(t *testing.T) {
		item := seasonTrackedItem()
		item.TotalSeasons = intp(1)
		item.ProgressCurrent = 7
		assert.Equal(t, "", SecondaryText(item))
	})

	t.Run("manga volumes", func(t *testing.T) {
		item := &models.MediaItem{
			Kind:           models.MediaKindManga,
			VolumesCurrent: intp(3),
			VolumesTotal:   intp(12),
		}
		assert.Equal(t, "Volume 3 of 12", SecondaryText(item))
	})

	t.Run("book has none", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindBook, ProgressTotal: intp(100)}
		assert.Equal(t, "", SecondaryText(item))
	})
}

func TestPercentComplete(t *testing.T) {
	t.Run("season tracked against whole work", func(t *testing.T) {
		assert.InDelta(t, 33.8, PercentComplete(seasonTrackedItem()), 0.001)
	})

	t.Run("flat kinds", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindBook, ProgressCurrent: 42, ProgressTotal: intp(310)}
		assert.InDelta(t, 13.5, PercentComplete(item), 0.001)
	})

	t.Run("unknown total is zero, not an error", func(t *testing.T) {
		item := &models.MediaItem{Kind: models.MediaKindBook, ProgressCurrent: 42}
		assert.Zero(t, PercentComplete(item))
	})

	t.Run("bounded and monotone in current", func(t *testing.T) {
		item := seasonTrackedItem()
		prev := -1.0
		for cur := 0; cur <= 90; cur++ {
			item.ProgressCurrent = cur
			pct := PercentComplete(item)
			assert.GreaterOrEqual(t, pct, 0.0)
			assert.LessOrEqual(t, pct, 100.0)
			assert.GreaterOrEqual(t, pct, prev)
			prev = pct
		}
	})

	t.Run("per-season table wins over uniform estimate", func(t *testing.T) {
		item := seasonTrackedItem()
		item.SeasonEpisodeCounts = models.IntList{6, 13, 8}
		item.ProgressCurrent = 27
		assert.InDelta(t, 100.0, PercentComplete(item), 0.001)
	})
}
