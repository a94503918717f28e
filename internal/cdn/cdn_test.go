package cdn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumetv/lume/internal/domain"
)

func TestStreamURL(t *testing.T) {
	assert.Equal(t,
		"https://edge.example.com/abc123/720p/master.m3u8",
		StreamURL("https://edge.example.com/", "abc123", "720p"))

	// Empty base falls back to the default edge, empty quality to auto.
	assert.Equal(t,
		DefaultBaseURL+"/abc123/auto/master.m3u8",
		StreamURL("", "abc123", ""))
}

func TestStreamURLDeterministic(t *testing.T) {
	a := StreamURL("https://edge.example.com", "claim", "1080p")
	b := StreamURL("https://edge.example.com", "claim", "1080p")
	assert.Equal(t, a, b)
}

func TestBestStreamPicksHighestBitrate(t *testing.T) {
	item := domain.ContentItem{
		ClaimID: "abc",
		Streams: map[string]domain.StreamDescriptor{
			"480p":  {URL: "https://cdn/480", Bitrate: 1200},
			"1080p": {URL: "https://cdn/1080", Bitrate: 5000},
			"720p":  {URL: "https://cdn/720", Bitrate: 2500},
		},
	}

	assert.Equal(t, "https://cdn/1080", BestStream("", item))
}

func TestBestStreamSkipsEmptyURLs(t *testing.T) {
	item := domain.ContentItem{
		ClaimID: "abc",
		Streams: map[string]domain.StreamDescriptor{
			"1080p": {Bitrate: 5000},
			"480p":  {URL: "https://cdn/480", Bitrate: 1200},
		},
	}

	assert.Equal(t, "https://cdn/480", BestStream("", item))
}

func TestBestStreamFallsBackToDerivedURL(t *testing.T) {
	item := domain.ContentItem{ClaimID: "abc"}

	assert.Equal(t, DefaultBaseURL+"/abc/auto/master.m3u8", BestStream("", item))
}
