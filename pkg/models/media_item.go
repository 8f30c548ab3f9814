package models

import (
	"database/sql/driver"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
	"github.com/uptrace/bun"
	"github.com/watchlogapp/watchlog/pkg/season"
)

type MediaKind string

const (
	MediaKindBook  MediaKind = "book"
	MediaKindShow  MediaKind = "show"
	MediaKindAnime MediaKind = "anime"
	MediaKindManga MediaKind = "manga"
)

// SeasonCapable reports whether the kind is organized into seasons.
func (k MediaKind) SeasonCapable() bool {
	return k == MediaKindShow || k == MediaKindAnime
}

type MediaStatus string

const (
	MediaStatusInProgress MediaStatus = "in_progress"
	MediaStatusPaused     MediaStatus = "paused"
	MediaStatusArchived   MediaStatus = "archived"
	MediaStatusCompleted  MediaStatus = "completed"
	MediaStatusRetired    MediaStatus = "retired"
)

// MediaItem is one tracked work. For season-capable kinds with season
// tracking engaged, ProgressCurrent is the absolute count of units consumed
// across all prior seasons plus the current one, and ProgressTotal (when
// known) is the absolute total across all known seasons.
type MediaItem struct {
	bun.BaseModel `bun:"table:media_items,alias:mi"`

	ID        string    `bun:",pk,nullzero" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	UserID    int       `bun:",nullzero" json:"user_id"`
	User      *User     `bun:"rel:belongs-to" json:"user,omitempty"`

	Title  string      `bun:",nullzero" json:"title"`
	Kind   MediaKind   `bun:",nullzero" json:"kind"`
	Status MediaStatus `bun:",nullzero" json:"status"`

	ProgressCurrent int  `json:"progress_current"`
	ProgressTotal   *int `json:"progress_total,omitempty"`

	CurrentSeason       *int    `json:"current_season,omitempty"`
	TotalSeasons        *int    `json:"total_seasons,omitempty"`
	SeasonName          *string `json:"season_name,omitempty"`
	EpisodesInSeason    *int    `json:"episodes_in_season,omitempty"`
	SeasonEpisodeCounts IntList `bun:",nullzero" json:"season_episode_counts,omitempty"`

	// Rows imported from exports that stored a single-season relative total.
	// Normalized to the absolute representation on load and never set by new
	// writes.
	LegacyRelativeProgress bool `json:"-"`

	VolumesCurrent *int `json:"volumes_current,omitempty"`
	VolumesTotal   *int `json:"volumes_total,omitempty"`

	DateAdded  time.Time  `json:"date_added"`
	DatePaused *time.Time `json:"date_paused,omitempty"`

	// External catalog provenance; opaque beyond display.
	Synopsis  *string    `json:"synopsis,omitempty"`
	Score     *float64   `json:"score,omitempty"`
	Genres    StringList `bun:",nullzero" json:"genres,omitempty"`
	CatalogID *string    `json:"catalog_id,omitempty"`
}

// SeasonTracked reports whether the item uses the absolute multi-season
// progress model: season-capable kind with at least a season number. Items
// without it use the flat current/total model.
func (i *MediaItem) SeasonTracked() bool {
	return i.Kind.SeasonCapable() && i.CurrentSeason != nil && *i.CurrentSeason >= 1
}

// EpisodeCounts returns the per-season episode count table, or nil when the
// item only carries the uniform estimate.
func (i *MediaItem) EpisodeCounts() season.Counts {
	if len(i.SeasonEpisodeCounts) == 0 {
		return nil
	}
	return season.Counts(i.SeasonEpisodeCounts)
}

// UniformEpisodes returns the uniform per-season episode estimate, or 0 when
// unknown.
func (i *MediaItem) UniformEpisodes() int {
	if i.EpisodesInSeason == nil {
		return 0
	}
	return *i.EpisodesInSeason
}

// KnownSeasons returns the declared season count, or 0 when unknown.
func (i *MediaItem) KnownSeasons() int {
	if i.TotalSeasons == nil {
		return 0
	}
	return *i.TotalSeasons
}

// ClampProgress enforces the progress invariants in place: current is never
// negative and never exceeds a known total. Out-of-range writes are clamped,
// not rejected, because upstream catalog data is unreliable.
func (i *MediaItem) ClampProgress() {
	if i.ProgressCurrent < 0 {
		i.ProgressCurrent = 0
	}
	if i.ProgressTotal != nil {
		if *i.ProgressTotal < 1 {
			i.ProgressTotal = nil
		} else if i.ProgressCurrent > *i.ProgressTotal {
			i.ProgressCurrent = *i.ProgressTotal
		}
	}
}

// Clone returns a deep copy. The optimistic collection layer snapshots and
// restores items by value, so no pointer or slice may be shared with the
// original.
func (i *MediaItem) Clone() *MediaItem {
	if i == nil {
		return nil
	}
	c := *i
	c.User = nil
	c.ProgressTotal = cloneInt(i.ProgressTotal)
	c.CurrentSeason = cloneInt(i.CurrentSeason)
	c.TotalSeasons = cloneInt(i.TotalSeasons)
	c.SeasonName = cloneString(i.SeasonName)
	c.EpisodesInSeason = cloneInt(i.EpisodesInSeason)
	c.VolumesCurrent = cloneInt(i.VolumesCurrent)
	c.VolumesTotal = cloneInt(i.VolumesTotal)
	c.Synopsis = cloneString(i.Synopsis)
	c.CatalogID = cloneString(i.CatalogID)
	if i.DatePaused != nil {
		t := *i.DatePaused
		c.DatePaused = &t
	}
	if i.Score != nil {
		f := *i.Score
		c.Score = &f
	}
	if i.SeasonEpisodeCounts != nil {
		c.SeasonEpisodeCounts = append(IntList(nil), i.SeasonEpisodeCounts...)
	}
	if i.Genres != nil {
		c.Genres = append(StringList(nil), i.Genres...)
	}
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntList is an int slice stored as a JSON text column.
type IntList []int

func (l IntList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]int(l))
	return string(data), errors.WithStack(err)
}

func (l *IntList) Scan(src interface{}) error {
	return scanJSON(src, (*[]int)(l))
}

// StringList is a string slice stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]string(l))
	return string(data), errors.WithStack(err)
}

func (l *StringList) Scan(src interface{}) error {
	return scanJSON(src, (*[]string)(l))
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return errors.WithStack(json.Unmarshal(v, dest))
	case string:
		return errors.WithStack(json.Unmarshal([]byte(v), dest))
	default:
		return errors.Errorf("unsupported column type %T", src)
	}
}
