package media

// Query params for list endpoints.
type ListItemsQuery struct {
	Status *string `query:"status" json:"status,omitempty" validate:"omitempty,oneof=in_progress paused archived completed retired"`
	Kind   *string `query:"kind" json:"kind,omitempty" validate:"omitempty,oneof=book show anime manga"`
	Limit  int     `query:"limit" json:"limit,omitempty" default:"50" validate:"min=1,max=200"`
	Offset int     `query:"offset" json:"offset,omitempty" validate:"min=0"`
}

// Payloads for create/update endpoints. Numeric progress fields are clamped
// server-side rather than validated, so malformed catalog imports degrade
// instead of erroring.
type CreateItemPayload struct {
	Title               string   `json:"title" mod:"trim" validate:"required,min=1,max=500"`
	Kind                string   `json:"kind" validate:"required,oneof=book show anime manga"`
	Status              *string  `json:"status,omitempty" validate:"omitempty,oneof=in_progress paused archived completed retired"`
	ProgressCurrent     int      `json:"progress_current"`
	ProgressTotal       *int     `json:"progress_total,omitempty"`
	CurrentSeason       *int     `json:"current_season,omitempty"`
	TotalSeasons        *int     `json:"total_seasons,omitempty"`
	SeasonName          *string  `json:"season_name,omitempty" validate:"omitempty,max=200"`
	EpisodesInSeason    *int     `json:"episodes_in_season,omitempty"`
	SeasonEpisodeCounts []int    `json:"season_episode_counts,omitempty" validate:"omitempty,max=100"`
	VolumesCurrent      *int     `json:"volumes_current,omitempty"`
	VolumesTotal        *int     `json:"volumes_total,omitempty"`
	Synopsis            *string  `json:"synopsis,omitempty" validate:"omitempty,max=5000"`
	Score               *float64 `json:"score,omitempty"`
	Genres              []string `json:"genres,omitempty" validate:"omitempty,max=20,dive,max=50"`
	CatalogID           *string  `json:"catalog_id,omitempty" validate:"omitempty,max=100"`
}

type UpdateItemPayload struct {
	Title               *string   `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1,max=500"`
	ProgressCurrent     *int      `json:"progress_current,omitempty"`
	ProgressTotal       *int      `json:"progress_total,omitempty"`
	CurrentSeason       *int      `json:"current_season,omitempty"`
	TotalSeasons        *int      `json:"total_seasons,omitempty"`
	SeasonName          *string   `json:"season_name,omitempty" validate:"omitempty,max=200"`
	EpisodesInSeason    *int      `json:"episodes_in_season,omitempty"`
	SeasonEpisodeCounts *[]int    `json:"season_episode_counts,omitempty"`
	VolumesCurrent      *int      `json:"volumes_current,omitempty"`
	VolumesTotal        *int      `json:"volumes_total,omitempty"`
	Synopsis            *string   `json:"synopsis,omitempty" validate:"omitempty,max=5000"`
	Score               *float64  `json:"score,omitempty"`
	Genres              *[]string `json:"genres,omitempty"`
	CatalogID           *string   `json:"catalog_id,omitempty" validate:"omitempty,max=100"`
}

type UpdateStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=in_progress paused archived completed retired"`
}
