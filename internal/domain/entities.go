package domain

import (
	"fmt"
	"time"
)

// Base category vocabulary. Every item meant for primary categorization
// carries exactly one of these tags; everything else on the tag set is
// free-form.
const (
	CategoryMovie       = "movie"
	CategorySeries      = "series"
	CategoryMusic       = "music"
	CategoryPodcast     = "podcast"
	CategoryDocumentary = "documentary"
)

// BaseCategories lists the fixed base category vocabulary.
func BaseCategories() []string {
	return []string{CategoryMovie, CategorySeries, CategoryMusic, CategoryPodcast, CategoryDocumentary}
}

// StreamDescriptor describes one playable rendition of a content item.
type StreamDescriptor struct {
	URL     string // Direct playback URL
	Width   int    // Video width in pixels
	Height  int    // Video height in pixels
	Bitrate int    // Bitrate in kbps
}

// ContentItem is a single remote catalog record, uniquely identified by
// its claim id. Items are immutable once constructed; re-fetches produce
// new instances.
type ContentItem struct {
	ClaimID      string                      // Network-wide unique identifier
	Title        string                      // Display title
	Tags         []string                    // Unordered tag set
	ThumbnailURL string                      // Poster/thumbnail image URL
	Duration     time.Duration               // Total runtime (0 when unknown)
	ReleaseTime  time.Time                   // When the claim was published
	Streams      map[string]StreamDescriptor // Quality label -> playable descriptor
}

// HasTag reports whether the item's tag set contains the given tag.
func (c ContentItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// BaseCategory returns the item's base category tag. The second return is
// false when the item carries zero or more than one base tag; such items
// are not eligible for primary categorization.
func (c ContentItem) BaseCategory() (string, bool) {
	found := ""
	for _, base := range BaseCategories() {
		if !c.HasTag(base) {
			continue
		}
		if found != "" {
			return "", false
		}
		found = base
	}
	return found, found != ""
}

// IsSeries reports whether the item is unambiguously series content.
func (c ContentItem) IsSeries() bool {
	base, ok := c.BaseCategory()
	return ok && base == CategorySeries
}

// FormattedDuration returns the duration in a human-readable format.
func (c ContentItem) FormattedDuration() string {
	if c.Duration <= 0 {
		return ""
	}
	h := int(c.Duration.Hours())
	mins := int(c.Duration.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// PlaylistItem is one entry of a playlist. Position is unique within a
// playlist and defines the authoritative episode order.
type PlaylistItem struct {
	ClaimID       string // Referenced content item
	Position      int    // Order within the playlist, ascending
	EpisodeNumber int    // Declared episode number (0 when absent)
	SeasonNumber  int    // Declared season number (0 when absent)
}

// Playlist is an authoritative ordering source for the episodes of one
// season of a series.
type Playlist struct {
	ID           string         // Playlist identifier
	Title        string         // Display title
	ClaimID      string         // Claim backing the playlist itself
	SeasonNumber int            // Season the playlist covers (0 = season 1)
	SeriesKey    string         // Series grouping key (empty = derive from title)
	Items        []PlaylistItem // Ordered entries
}

// Episode is a single episode inside an organized season.
type Episode struct {
	ClaimID       string
	Title         string
	EpisodeNumber int
	SeasonNumber  int
	Duration      time.Duration
}

// Season is an ordered run of episodes. Inferred seasons were
// reconstructed from title parsing rather than playlist data.
type Season struct {
	Number     int       // Season number (1-based)
	Episodes   []Episode // Ordered episodes
	Inferred   bool      // True when derived from title heuristics
	PlaylistID string    // Backing playlist id (empty when inferred)
}

// DisplayTitle returns the display title for the season.
func (s Season) DisplayTitle() string {
	return fmt.Sprintf("Season %d", s.Number)
}

// SeriesInfo aggregates every known season of one series.
type SeriesInfo struct {
	SeriesKey     string   // Grouping key shared by all seasons
	Title         string   // Display title
	Seasons       []Season // Ordered by season number ascending
	TotalEpisodes int      // Always the sum of episode counts across seasons
}
