package models

// Candidate is one provider's proposed match for a free-text title query.
type Candidate struct {
	ID        int    `json:"id"`
	IMDBID    string `json:"imdb_id,omitempty"`
	Name      string `json:"name"`
	Year      int    `json:"year,omitempty"`
	MediaType string `json:"type,omitempty"` // "movie", "tv_series", ...
	BestMatch bool   `json:"bestMatch,omitempty"`
}

// TitleMetadata is the descriptive record shown as the primary result card.
type TitleMetadata struct {
	IMDBID    string `json:"imdbId,omitempty"`
	Name      string `json:"name"`
	Year      string `json:"year,omitempty"`
	Plot      string `json:"plot,omitempty"`
	PosterURL string `json:"posterUrl,omitempty"` // may be empty; UI falls back to a placeholder
	Rating    string `json:"rating,omitempty"`
}

// PlatformInfo describes one entry of the streaming-platform catalog.
type PlatformInfo struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Type    string   `json:"type,omitempty"`
	LogoURL string   `json:"logo_100px,omitempty"`
	Regions []string `json:"regions,omitempty"`
}

// SupportsRegion reports whether the platform operates in the given region.
// Platforms with no region list are treated as global.
func (p PlatformInfo) SupportsRegion(region string) bool {
	if len(p.Regions) == 0 {
		return true
	}
	for _, r := range p.Regions {
		if r == region {
			return true
		}
	}
	return false
}
