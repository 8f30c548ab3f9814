package progress

import (
	"github.com/watchlogapp/watchlog/pkg/errcodes"
	"github.com/watchlogapp/watchlog/pkg/models"
	"github.com/watchlogapp/watchlog/pkg/season"
)

// AdvanceSeason moves the item's current-season pointer forward one season.
// Advancing is legal below the known season total, and always legal when the
// total is unknown since more seasons may exist. On success the episode
// count is re-read from the per-season table (keeping the previous value
// when the table has no entry) and the absolute progress resets to the first
// unit of the new season. Season navigation always restarts the episode
// counter at 1: there is no reliable cross-season "next episode" signal to
// infer a carried-over position from.
func AdvanceSeason(item *models.MediaItem) error {
	if !item.SeasonTracked() {
		return errcodes.ValidationError("Season tracking is not engaged for this item.")
	}

	cur := *item.CurrentSeason
	if known := item.KnownSeasons(); known > 0 && cur >= known {
		return errcodes.ValidationError("Already at the last known season.")
	}

	moveToSeason(item, cur+1)
	return nil
}

// RetreatSeason moves the item's current-season pointer back one season,
// with the same recomputation rules as AdvanceSeason.
func RetreatSeason(item *models.MediaItem) error {
	if !item.SeasonTracked() {
		return errcodes.ValidationError("Season tracking is not engaged for this item.")
	}

	cur := *item.CurrentSeason
	if cur <= 1 {
		return errcodes.ValidationError("Already at the first season.")
	}

	moveToSeason(item, cur-1)
	return nil
}

// SeasonCompleteEligible reports whether the item should be offered an
// advance-season prompt: the derived position sits on the last episode of
// its season and a further season exists (or may exist, when the total is
// unknown). Advisory only; nothing auto-advances.
func SeasonCompleteEligible(item *models.MediaItem) bool {
	if !item.SeasonTracked() || item.ProgressCurrent < 1 {
		return false
	}

	pos := position(item)
	if pos.Episode != pos.EpisodesInSeason {
		return false
	}

	if known := item.KnownSeasons(); known > 0 {
		return pos.Season < known
	}
	return true
}

func moveToSeason(item *models.MediaItem, newSeason int) {
	table := item.EpisodeCounts()

	if newSeason >= 1 && newSeason <= len(table) {
		count := table[newSeason-1]
		if count < 1 {
			count = 1
		}
		item.EpisodesInSeason = &count
	}

	item.CurrentSeason = &newSeason
	item.ProgressCurrent = season.ToAbsolute(newSeason, 1, table, item.UniformEpisodes())
	item.ClampProgress()
}
