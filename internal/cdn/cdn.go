// Package cdn builds deterministic playback URLs from stable claim ids.
package cdn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lumetv/lume/internal/domain"
)

// DefaultBaseURL is the public CDN edge used when config does not
// override it.
const DefaultBaseURL = "https://cdn.lumetv.net/content"

// StreamURL returns the playback URL for a claim at the given quality
// label. It is pure string construction; the same inputs always yield
// the same URL.
func StreamURL(baseURL, claimID, quality string) string {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if quality == "" {
		quality = "auto"
	}
	return fmt.Sprintf("%s/%s/%s/master.m3u8", base, claimID, quality)
}

// BestStream picks the playable URL for an item: the highest-bitrate
// descriptor when the catalog provided streams, otherwise the CDN URL
// derived from the claim id.
func BestStream(baseURL string, item domain.ContentItem) string {
	labels := make([]string, 0, len(item.Streams))
	for label := range item.Streams {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	bestURL := ""
	bestBitrate := -1
	for _, label := range labels {
		s := item.Streams[label]
		if s.URL == "" {
			continue
		}
		if s.Bitrate > bestBitrate {
			bestBitrate = s.Bitrate
			bestURL = s.URL
		}
	}
	if bestURL != "" {
		return bestURL
	}
	return StreamURL(baseURL, item.ClaimID, "auto")
}
