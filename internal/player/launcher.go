// Package player launches an external media player for stream URLs.
package player

import (
	"fmt"
	"log/slog"
	"os/exec"
)

// Launcher starts the configured external player. Playback itself is
// entirely the player's concern.
type Launcher struct {
	command string
	args    []string
	logger  *slog.Logger
}

// NewLauncher creates a launcher for the given player command.
func NewLauncher(command string, args []string, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	if command == "" {
		command = "mpv"
	}
	return &Launcher{command: command, args: args, logger: logger}
}

// Play starts the player detached with the given stream URL and title.
func (l *Launcher) Play(streamURL, title string) error {
	args := make([]string, 0, len(l.args)+2)
	args = append(args, l.args...)
	if title != "" {
		args = append(args, fmt.Sprintf("--force-media-title=%s", title))
	}
	args = append(args, streamURL)

	cmd := exec.Command(l.command, args...)
	if err := cmd.Start(); err != nil {
		l.logger.Error("failed to start player", "command", l.command, "error", err)
		return fmt.Errorf("failed to start player %q: %w", l.command, err)
	}

	l.logger.Info("player started", "command", l.command, "title", title)

	// Reap the process when it exits so it does not linger as a zombie.
	go func() {
		if err := cmd.Wait(); err != nil {
			l.logger.Debug("player exited with error", "error", err)
		}
	}()

	return nil
}
