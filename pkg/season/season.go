// Package season converts between "episode K of season S" and a single
// absolute unit counter across an entire multi-season work.
//
// Conversions prefer a per-season episode count table when one is known.
// When no table exists, every season is treated as having a uniform number
// of episodes. That is an explicit approximation, not a guess at catalog
// data: it can misrepresent shows with uneven season lengths, and callers
// that display derived positions should treat them accordingly.
package season

// Counts is a per-season episode count table, indexed from season 1 (so
// Counts[0] is season 1). Entries below 1 are treated as 1; episode counts
// of zero are never allowed to participate in arithmetic.
type Counts []int

// Position is a season-relative location derived from an absolute unit.
type Position struct {
	Season           int
	Episode          int
	EpisodesInSeason int
}

// episodes returns the episode count for the 1-indexed season, falling back
// to the uniform estimate when the table has no entry.
func (c Counts) episodes(seasonNum, uniform int) int {
	if seasonNum >= 1 && seasonNum <= len(c) {
		return clampCount(c[seasonNum-1])
	}
	return clampCount(uniform)
}

// Total returns the sum of all entries in the table.
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += clampCount(n)
	}
	return total
}

// ToAbsolute converts episode `episode` of season `seasonNum` into an
// absolute unit count across the whole work. Indices below 1 are clamped to
// 1. The result is monotonically increasing in both arguments.
func ToAbsolute(seasonNum, episode int, table Counts, uniform int) int {
	if seasonNum < 1 {
		seasonNum = 1
	}
	if episode < 1 {
		episode = 1
	}

	absolute := episode
	for s := 1; s < seasonNum; s++ {
		absolute += table.episodes(s, uniform)
	}
	return absolute
}

// FromAbsolute converts an absolute unit count into a season-relative
// position by walking the cumulative sums of the table. When the absolute
// value runs past the known total (the full table, or totalSeasons uniform
// seasons when no table exists), the position clamps to the final known
// season's final episode rather than reporting a season beyond the table.
// Pass totalSeasons <= 0 when the number of seasons is unknown; without a
// table that leaves the season count unbounded.
func FromAbsolute(absolute int, table Counts, uniform, totalSeasons int) Position {
	if absolute < 1 {
		absolute = 1
	}

	known := len(table)
	if known == 0 && totalSeasons > 0 {
		known = totalSeasons
	}

	remaining := absolute
	seasonNum := 1
	for {
		count := table.episodes(seasonNum, uniform)
		if remaining <= count {
			return Position{Season: seasonNum, Episode: remaining, EpisodesInSeason: count}
		}
		if known > 0 && seasonNum >= known {
			// Past the end of the known table: report the last episode of
			// the last known season.
			return Position{Season: seasonNum, Episode: count, EpisodesInSeason: count}
		}
		remaining -= count
		seasonNum++
	}
}

// TotalUnits returns the unit count of the whole work: the sum of the
// per-season table when present, otherwise totalSeasons uniform-length
// seasons. Returns 0 when neither is known; callers computing percentages
// must zero-guard.
func TotalUnits(table Counts, totalSeasons, uniform int) int {
	if len(table) > 0 {
		return table.Total()
	}
	if totalSeasons < 1 {
		return 0
	}
	return totalSeasons * clampCount(uniform)
}

func clampCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
