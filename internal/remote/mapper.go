package remote

import (
	"strings"
	"time"

	"github.com/lumetv/lume/internal/domain"
)

// MapClaims converts API claims to domain content items, preserving the
// server's order exactly. Claims without a claim id are unusable and
// skipped.
func MapClaims(claims []Claim) []domain.ContentItem {
	items := make([]domain.ContentItem, 0, len(claims))
	for _, c := range claims {
		if strings.TrimSpace(c.ClaimID) == "" {
			continue
		}
		items = append(items, mapClaim(c))
	}
	return items
}

// mapClaim converts a single claim.
func mapClaim(c Claim) domain.ContentItem {
	item := domain.ContentItem{
		ClaimID:      c.ClaimID,
		Title:        c.Title,
		Tags:         c.Tags,
		ThumbnailURL: c.Thumbnail,
		Duration:     time.Duration(c.DurationSec) * time.Second,
	}
	if c.ReleaseTime > 0 {
		item.ReleaseTime = time.Unix(c.ReleaseTime, 0).UTC()
	}
	if len(c.Streams) > 0 {
		item.Streams = make(map[string]domain.StreamDescriptor, len(c.Streams))
		for label, s := range c.Streams {
			item.Streams[label] = domain.StreamDescriptor{
				URL:     s.URL,
				Width:   s.Width,
				Height:  s.Height,
				Bitrate: s.Bitrate,
			}
		}
	}
	return item
}
