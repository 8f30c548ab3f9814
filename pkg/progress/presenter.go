// Package progress derives human-facing progress text and completion
// percentages from a MediaItem, and moves the current-season pointer of
// season-tracked items.
package progress

import (
	"fmt"
	"math"

	"github.com/watchlogapp/watchlog/pkg/models"
	"github.com/watchlogapp/watchlog/pkg/season"
)

// PrimaryText renders the main progress line for an item. Missing or
// malformed fields degrade to a "0 of ?" style output; this function never
// fails, since it runs on every render.
func PrimaryText(item *models.MediaItem) string {
	if item == nil {
		return ""
	}

	switch {
	case item.Kind == models.MediaKindBook:
		return fmt.Sprintf("Page %d of %s", current(item), formatTotal(item.ProgressTotal))
	case item.Kind == models.MediaKindManga:
		return fmt.Sprintf("Chapter %d of %s", current(item), formatTotal(item.ProgressTotal))
	case item.SeasonTracked():
		pos := position(item)
		episode := pos.Episode
		if item.ProgressCurrent < 1 {
			episode = 0
		}
		return fmt.Sprintf("S%dE%d of %d", pos.Season, episode, pos.EpisodesInSeason)
	default:
		return fmt.Sprintf("Episode %d of %s", current(item), formatTotal(item.ProgressTotal))
	}
}

// SecondaryText renders the secondary progress line, or "" when the item has
// none: the season pointer for multi-season shows, the volume dimension for
// manga.
func SecondaryText(item *models.MediaItem) string {
	if item == nil {
		return ""
	}

	if item.SeasonTracked() && item.KnownSeasons() > 1 {
		return fmt.Sprintf("Season %d of %d", position(item).Season, item.KnownSeasons())
	}

	if item.Kind == models.MediaKindManga && item.VolumesCurrent != nil && item.VolumesTotal != nil {
		return fmt.Sprintf("Volume %d of %d", *item.VolumesCurrent, *item.VolumesTotal)
	}

	return ""
}

// PercentComplete returns completion in [0,100] rounded to one decimal. For
// season-tracked items the denominator is the whole multi-season work, never
// only the active season, so progress bars do not reset each season. An
// unknown total yields 0 rather than an error.
func PercentComplete(item *models.MediaItem) float64 {
	if item == nil {
		return 0
	}

	total := 0
	if item.SeasonTracked() {
		total = season.TotalUnits(item.EpisodeCounts(), item.KnownSeasons(), item.UniformEpisodes())
	} else if item.ProgressTotal != nil {
		total = *item.ProgressTotal
	}
	if total < 1 {
		return 0
	}

	pct := 100 * float64(current(item)) / float64(total)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	return math.Round(pct*10) / 10
}

// position derives the season-relative position from the item's absolute
// progress counter.
func position(item *models.MediaItem) season.Position {
	return season.FromAbsolute(
		item.ProgressCurrent,
		item.EpisodeCounts(),
		item.UniformEpisodes(),
		item.KnownSeasons(),
	)
}

func current(item *models.MediaItem) int {
	if item.ProgressCurrent < 0 {
		return 0
	}
	return item.ProgressCurrent
}

func formatTotal(total *int) string {
	if total == nil || *total < 1 {
		return "?"
	}
	return fmt.Sprintf("%d", *total)
}
