// Package catalog defines the boundary to external season/episode catalog
// providers. Providers are consulted read-only and their responses are
// untrusted, often-incomplete input: counts get sanitized before they touch
// an item, and nothing in the core ever blocks on catalog data being
// present.
package catalog

import "context"

// SeriesListing is a provider's view of a multi-season work.
type SeriesListing struct {
	CatalogID     string   `json:"catalog_id"`
	Title         string   `json:"title"`
	TotalSeasons  int      `json:"total_seasons"`
	EpisodeCounts []int    `json:"episode_counts"`
	Synopsis      string   `json:"synopsis"`
	Score         float64  `json:"score"`
	Genres        []string `json:"genres"`
}

// Client looks up season structure for a title or provider id.
type Client interface {
	LookupSeries(ctx context.Context, query string) (*SeriesListing, error)
}

// SanitizeCounts normalizes an untrusted per-season episode count table and
// season total. Every count below 1 becomes 1 (episode counts of zero are
// never allowed), and when a table is present its length is authoritative
// for the season total. Returns the sanitized table and total.
func SanitizeCounts(counts []int, totalSeasons int) ([]int, int) {
	if totalSeasons < 0 {
		totalSeasons = 0
	}

	if len(counts) == 0 {
		return nil, totalSeasons
	}

	sanitized := make([]int, len(counts))
	for i, n := range counts {
		if n < 1 {
			n = 1
		}
		sanitized[i] = n
	}
	return sanitized, len(sanitized)
}
