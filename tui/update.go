// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Serializes key presses, playback and watcher events onto one update loop

package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"folder-player/media"
	"folder-player/playlist"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		viewportWidth := msg.Width
		if viewportWidth < minViewportWidth {
			viewportWidth = minViewportWidth
		}
		viewportHeight := msg.Height - totalUIChrome
		if viewportHeight < minViewportHeight {
			viewportHeight = minViewportHeight
		}

		m.viewport.Width = viewportWidth
		m.viewport.Height = viewportHeight
		m.ready = true

		m.ensureCursorVisible()
		m.updateViewportContent()

		return m, nil

	case progressTickMsg:
		if m.player.CurrentPath() != "" {
			m.positionMS = m.player.PositionMS()
			m.lengthMS = m.player.LengthMS()
		} else {
			m.positionMS = 0
			m.lengthMS = 0
		}
		return m, progressTick()

	case autosaveTickMsg:
		m.capturePlaybackPosition()
		if err := m.saver.SaveIfDirty(); err != nil {
			m.debugf("[autosave] periodic save failed: %v", err)
			m.setStatus("could not save state (will retry)")
		}
		return m, autosaveTick(m.deps.Config.AutosaveIntervalSeconds)

	case trackEndedMsg:
		m.handleTrackEnd()
		return m, waitForTrackEnd(m.player)

	case folderEventMsg:
		rescanned := m.handleFolderEvent()
		var cmds []tea.Cmd
		if m.watcher != nil {
			cmds = append(cmds, waitForFolderEvent(m.watcher))
		}
		if rescanned {
			cmds = append(cmds, m.loadTagsCmd())
		}
		return m, tea.Batch(cmds...)

	case tagsLoadedMsg:
		if m.session != nil && m.session.Folder() == msg.folder {
			m.tags = msg.tracks
			if idx := m.session.CurrentFileIndex(); m.player.CurrentPath() != "" && idx >= 0 && idx < len(m.tags) {
				m.nowPlaying = m.tags[idx]
			}
		}
		return m, nil

	case watchErrorMsg:
		m.debugf("[watch] folder watcher error: %v", msg.err)
		if m.watcher != nil {
			return m, waitForFolderEvent(m.watcher)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey routes a key press, honoring text-entry modes first.
func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.opening {
		return m.handleFolderInputKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()

	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)

	case key.Matches(msg, keys.Down):
		m.moveCursor(1)

	case key.Matches(msg, keys.PageUp):
		m.moveCursor(-pageJumpSize)

	case key.Matches(msg, keys.PageDown):
		m.moveCursor(pageJumpSize)

	case key.Matches(msg, keys.Home):
		m.moveCursorTo(0)

	case key.Matches(msg, keys.End):
		m.moveCursorTo(len(m.filtered) - 1)

	case key.Matches(msg, keys.Play):
		m.playAtCursor()

	case key.Matches(msg, keys.Pause):
		m.player.TogglePause()

	case key.Matches(msg, keys.Stop):
		m.player.Stop()
		m.nowPlaying = media.Track{}

	case key.Matches(msg, keys.Next):
		m.skip(true)

	case key.Matches(msg, keys.Prev):
		m.skip(false)

	case key.Matches(msg, keys.SeekBack):
		m.seekRelative(-m.deps.Config.SeekStepSeconds)

	case key.Matches(msg, keys.SeekFwd):
		m.seekRelative(m.deps.Config.SeekStepSeconds)

	case key.Matches(msg, keys.Restart):
		if err := m.player.SeekMS(0); err != nil {
			m.debugf("[player] restart: %v", err)
		}

	case key.Matches(msg, keys.Shuffle):
		m.toggleShuffle()

	case key.Matches(msg, keys.Reshuf):
		m.reshuffle()

	case key.Matches(msg, keys.Loop):
		m.toggleLoop()

	case key.Matches(msg, keys.VolUp):
		m.adjustVolume(5)

	case key.Matches(msg, keys.VolDown):
		m.adjustVolume(-5)

	case key.Matches(msg, keys.ZoomIn):
		m.adjustZoom(0.1)

	case key.Matches(msg, keys.ZoomOut):
		m.adjustZoom(-0.1)

	case key.Matches(msg, keys.Search):
		m.searching = true
		m.searchInput.Focus()

	case key.Matches(msg, keys.Open):
		m.opening = true
		if m.session != nil {
			m.folderInput.SetValue(m.session.Folder())
		}
		m.folderInput.Focus()
		m.folderInput.CursorEnd()

	default:
		// Digits 1-9 open the corresponding recent folder.
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(m.st.RecentFolders) {
			m.openFolder(m.st.RecentFolders[n-1], false)
			return m, tea.Batch(m.watchCmd(), m.loadTagsCmd())
		}
	}

	return m, nil
}

// watchCmd re-arms the folder-event wait after the watcher was
// replaced by a folder open.
func (m *model) watchCmd() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return waitForFolderEvent(m.watcher)
}

// handleQuitKey performs the shutdown sequence: stop playback, record
// the final position, one synchronous save. The lock is released by
// main after the program exits.
func (m model) handleQuitKey() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.capturePlaybackPosition()
	m.player.Stop()
	if err := m.saver.Save(); err != nil {
		m.debugf("[shutdown] final save failed: %v", err)
		// Quit anyway; the previous on-disk state is intact.
	}
	if m.watcher != nil {
		_ = m.watcher.Close()
	}
	return m, tea.Quit
}

// handleSearchKey drives the search filter input.
func (m model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.searching = false
		m.searchInput.SetValue("")
		m.searchInput.Blur()
		m.applyFilter()
		m.updateViewportContent()
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	m.updateViewportContent()
	return m, cmd
}

// handleFolderInputKey drives the open-folder prompt.
func (m model) handleFolderInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.opening = false
		m.folderInput.Blur()
		return m, nil
	case tea.KeyEnter:
		path := m.folderInput.Value()
		m.opening = false
		m.folderInput.Blur()
		if path != "" {
			m.openFolder(path, false)
			return m, tea.Batch(m.watchCmd(), m.loadTagsCmd())
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.folderInput, cmd = m.folderInput.Update(msg)
	return m, cmd
}

// openFolder scans a folder, builds its playlist session and makes it
// current. Missing or unreadable folders produce a notice; the recent
// entry and playlist state for that path are retained untouched.
func (m *model) openFolder(path string, startup bool) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	tracks, err := media.ScanFolder(path)
	if err != nil {
		m.debugf("[open] scan %s: %v", path, err)
		m.setStatus("cannot open folder: %s", path)
		return
	}

	m.st.AddRecentFolder(path)
	ps := m.st.Playlist(path)
	m.session = playlist.New(path, tracks, ps)
	m.tags = nil

	m.searchInput.SetValue("")
	m.applyFilter()
	m.cursorPos = m.displayToRow(ps.CurrentIndex)
	m.ensureCursorVisible()
	m.updateViewportContent()

	m.watchFolder(path)

	// Folder opened: immediate save
	m.saveNow()

	m.player.Stop()
	m.nowPlaying = media.Track{}
	// At startup the resume behavior is configurable; a manual open
	// always cues the current track.
	if m.session.Len() > 0 && (!startup || m.deps.Config.ResumePaused) {
		m.loadCurrentPaused()
	}
}

// loadCurrentPaused loads the current track paused at its saved
// position, so the transport keys work immediately after startup.
func (m *model) loadCurrentPaused() {
	name, ok := m.session.CurrentTrack()
	if !ok {
		return
	}
	path := filepath.Join(m.session.Folder(), name)
	if err := m.player.Play(path, m.session.State().PlaybackPositionMS); err != nil {
		m.debugf("[player] load paused %s: %v", name, err)
		return
	}
	m.player.Pause()
	m.refreshNowPlaying(path)
}

// playCurrent starts playback of the session's current track from its
// recorded position.
func (m *model) playCurrent() {
	name, ok := m.session.CurrentTrack()
	if !ok {
		return
	}
	path := filepath.Join(m.session.Folder(), name)
	if err := m.player.Play(path, m.session.State().PlaybackPositionMS); err != nil {
		m.debugf("[player] play %s: %v", name, err)
		m.setStatus("cannot play %s", name)
		m.nowPlaying = media.Track{}
		return
	}
	m.refreshNowPlaying(path)
}

// refreshNowPlaying fills the now-playing line from the prefetched tag
// cache, reading the file directly only while the cache is still
// loading.
func (m *model) refreshNowPlaying(path string) {
	if idx := m.session.CurrentFileIndex(); idx >= 0 && idx < len(m.tags) {
		m.nowPlaying = m.tags[idx]
		return
	}
	info, err := media.TrackInfo(path)
	if err != nil {
		m.debugf("[meta] %s: %v", path, err)
	}
	m.nowPlaying = info
}

// playAtCursor plays the track under the cursor.
func (m *model) playAtCursor() {
	if m.session == nil || len(m.filtered) == 0 || m.cursorPos >= len(m.filtered) {
		return
	}
	m.session.Select(m.filtered[m.cursorPos])
	m.playCurrent()
	m.updateViewportContent()
	// Track changed: immediate save
	m.saveNow()
}

// skip moves to the next or previous track, honoring loop mode.
// Hitting the end without loop stops playback and reports it; that is
// an expected condition, not an error.
func (m *model) skip(forward bool) {
	if m.session == nil {
		return
	}

	var moved bool
	if forward {
		moved = m.session.Next()
	} else {
		moved = m.session.Previous()
	}

	if !moved {
		if forward {
			m.player.Stop()
			m.nowPlaying = media.Track{}
			m.setStatus("end of playlist")
		}
		return
	}

	m.playCurrent()
	m.cursorPos = m.displayToRow(m.session.State().CurrentIndex)
	m.ensureCursorVisible()
	m.updateViewportContent()
	m.saveNow()
}

// handleTrackEnd advances playback when a track finishes naturally.
func (m *model) handleTrackEnd() {
	if m.session == nil {
		return
	}
	m.session.SetPositionMS(0)
	m.skip(true)
}

// seekRelative seeks within the current track by a signed number of
// seconds, clamped by the playback engine.
func (m *model) seekRelative(seconds int) {
	if m.player.CurrentPath() == "" {
		return
	}
	target := m.player.PositionMS() + seconds*1000
	if err := m.player.SeekMS(target); err != nil {
		m.debugf("[player] seek: %v", err)
		return
	}
	if m.session != nil {
		m.session.SetPositionMS(m.player.PositionMS())
		m.saver.MarkDirty()
	}
}

// toggleShuffle flips shuffle mode, keeping the playing track current.
func (m *model) toggleShuffle() {
	if m.session == nil {
		return
	}
	m.session.SetShuffle(!m.session.Shuffled())
	m.applyFilter()
	m.cursorPos = m.displayToRow(m.session.State().CurrentIndex)
	m.ensureCursorVisible()
	m.updateViewportContent()
	m.saveNow()
}

// reshuffle regenerates the shuffle order (current track stays first).
func (m *model) reshuffle() {
	if m.session == nil || !m.session.Shuffled() {
		return
	}
	m.session.Reshuffle()
	m.applyFilter()
	m.cursorPos = m.displayToRow(m.session.State().CurrentIndex)
	m.ensureCursorVisible()
	m.updateViewportContent()
	m.saveNow()
}

// toggleLoop flips loop mode for the open folder.
func (m *model) toggleLoop() {
	if m.session == nil {
		return
	}
	if m.session.ToggleLoop() {
		m.setStatus("loop on")
	} else {
		m.setStatus("loop off")
	}
	m.saveNow()
}

// adjustVolume changes the volume by delta and records it.
func (m *model) adjustVolume(delta int) {
	m.st.SetVolume(m.st.Volume + delta)
	m.player.SetVolume(m.st.Volume)
	m.saver.MarkDirty()
}

// adjustZoom changes the persisted zoom level by delta.
func (m *model) adjustZoom(delta float64) {
	m.st.SetZoom(m.st.ZoomLevel + delta)
	m.saver.MarkDirty()
}

// capturePlaybackPosition copies the engine's position into the
// playlist state ahead of a save.
func (m *model) capturePlaybackPosition() {
	if m.session == nil || m.player.CurrentPath() == "" {
		return
	}
	ms := m.player.PositionMS()
	if ms >= 0 && ms != m.session.State().PlaybackPositionMS {
		m.session.SetPositionMS(ms)
		m.saver.MarkDirty()
	}
}

// handleFolderEvent rescans the open folder after the watcher saw a
// change, with a debounce so bursts collapse into one rescan. Returns
// whether a rescan actually happened.
func (m *model) handleFolderEvent() bool {
	if m.session == nil {
		return false
	}
	if time.Since(m.lastRescan) < rescanDebounce {
		return false
	}
	m.lastRescan = time.Now()

	tracks, err := media.ScanFolder(m.session.Folder())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.setStatus("folder no longer exists: %s", m.session.Folder())
		}
		m.debugf("[watch] rescan %s: %v", m.session.Folder(), err)
		return false
	}

	m.session.Rescan(tracks)
	m.tags = nil
	m.applyFilter()
	m.cursorPos = m.displayToRow(m.session.State().CurrentIndex)
	m.ensureCursorVisible()
	m.updateViewportContent()
	m.saver.MarkDirty()
	return true
}

// saveNow performs an event-triggered immediate save; failures are
// surfaced as a passive notice and retried by the periodic timer.
func (m *model) saveNow() {
	if err := m.saver.Save(); err != nil {
		m.debugf("[save] %v", err)
		m.setStatus("could not save state (will retry)")
	}
}
