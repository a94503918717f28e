package remote

// claimSearchResponse is the wire shape of a claim_search page.
type claimSearchResponse struct {
	Items      []Claim `json:"items"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// Claim is one catalog record as returned by the API.
type Claim struct {
	ClaimID     string            `json:"claim_id"`
	Title       string            `json:"title"`
	Tags        []string          `json:"tags"`
	Thumbnail   string            `json:"thumbnail_url"`
	DurationSec int64             `json:"duration"`
	ReleaseTime int64             `json:"release_time"`
	Streams     map[string]Stream `json:"streams"`
}

// Stream is one playable rendition of a claim.
type Stream struct {
	URL     string `json:"url"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Bitrate int    `json:"bitrate"`
}
