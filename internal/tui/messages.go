package tui

import (
	"github.com/lumetv/lume/internal/catalog"
	"github.com/lumetv/lume/internal/domain"
)

// stateMsg carries a session state transition into the update loop.
type stateMsg struct {
	State catalog.State
}

// playlistsMsg carries the result of the one-shot playlist fetch.
type playlistsMsg struct {
	Playlists []domain.Playlist
	Err       error
}

// statusMsg sets a transient status bar message.
type statusMsg struct {
	Message string
	IsError bool
}

// clearStatusMsg clears the status bar.
type clearStatusMsg struct{}
