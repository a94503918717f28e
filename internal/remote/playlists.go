package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/lumetv/lume/internal/domain"
)

// playlistSearchResponse is the wire shape of /api/v1/playlist_search.
type playlistSearchResponse struct {
	Items []playlistDTO `json:"items"`
}

type playlistDTO struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	ClaimID      string            `json:"claim_id"`
	SeasonNumber int               `json:"season_number"`
	SeriesKey    string            `json:"series_key"`
	Entries      []playlistItemDTO `json:"entries"`
}

type playlistItemDTO struct {
	ClaimID       string `json:"claim_id"`
	Position      int    `json:"position"`
	EpisodeNumber int    `json:"episode_number"`
	SeasonNumber  int    `json:"season_number"`
}

// Playlists implements domain.PlaylistSource. Entry order follows the
// server's position values untouched.
func (c *Client) Playlists(ctx context.Context) ([]domain.Playlist, error) {
	body, err := c.doRequest(ctx, "/api/v1/playlist_search", url.Values{})
	if err != nil {
		return nil, err
	}

	var resp playlistSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidResponse, err)
	}

	playlists := make([]domain.Playlist, 0, len(resp.Items))
	for _, p := range resp.Items {
		playlists = append(playlists, mapPlaylist(p))
	}
	c.logger.Debug("playlist search", "count", len(playlists))
	return playlists, nil
}

func mapPlaylist(p playlistDTO) domain.Playlist {
	pl := domain.Playlist{
		ID:           p.ID,
		Title:        p.Title,
		ClaimID:      p.ClaimID,
		SeasonNumber: p.SeasonNumber,
		SeriesKey:    p.SeriesKey,
	}
	if len(p.Entries) > 0 {
		pl.Items = make([]domain.PlaylistItem, 0, len(p.Entries))
		for _, e := range p.Entries {
			pl.Items = append(pl.Items, domain.PlaylistItem{
				ClaimID:       e.ClaimID,
				Position:      e.Position,
				EpisodeNumber: e.EpisodeNumber,
				SeasonNumber:  e.SeasonNumber,
			})
		}
	}
	return pl
}
