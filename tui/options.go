// ABOUTME: TUI run options and injected dependencies
// ABOUTME: Defines input parameters for running the interface layer

package tui

import (
	"folder-player/config"
	"folder-player/lock"
	"folder-player/player"
	"folder-player/state"
)

// Options contains configuration for running the TUI
type Options struct {
	Folder string // Folder to open at startup (empty: most recent)
}

// Dependencies holds all external collaborators for the TUI.
// The interface layer reads AppState for rendering, mutates it through
// the update loop, and persists through the autosaver.
type Dependencies struct {
	Config config.Config
	State  *state.AppState
	Saver  *state.Autosaver
	Role   lock.Role
	Player *player.Player
	Debugf func(format string, args ...interface{})
}
