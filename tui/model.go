// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wiring playback, playlist state and autosave

// Package tui provides the interactive terminal interface for the
// folder player. All application state mutation flows through the
// Bubble Tea update loop, which serializes UI key presses, playback
// notifications, file-watcher events and the autosave timer onto a
// single ordered event queue.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"folder-player/lock"
	"folder-player/media"
	"folder-player/player"
	"folder-player/playlist"
	"folder-player/state"
)

// Layout constants for UI dimensions
const (
	// UI chrome heights (elements that reduce available viewport space)
	headerHeight    = 3 // Title, folder line, spacing
	modeLineHeight  = 1 // Shuffle/loop/search indicators
	nowPlayingLines = 2 // Now playing + progress line
	statusBarHeight = 1
	helpHeight      = 1
	totalUIChrome   = headerHeight + modeLineHeight + nowPlayingLines + statusBarHeight + helpHeight

	// Minimum viewport dimensions to ensure usability
	minViewportWidth  = 20
	minViewportHeight = 3
)

// Navigation and interaction constants
const (
	pageJumpSize          = 10
	statusMessageDuration = 5 * time.Second
	progressTickInterval  = 250 * time.Millisecond
	rescanDebounce        = 500 * time.Millisecond
)

// Messages produced by timers, the playback engine and the folder
// watcher. Together with tea.KeyMsg these are the typed events the
// dispatch loop consumes.
type (
	progressTickMsg time.Time
	autosaveTickMsg time.Time
	trackEndedMsg   struct{}
	folderEventMsg  struct{}
	watchErrorMsg   struct{ err error }

	// tagsLoadedMsg carries the bulk tag read for a folder. The folder
	// is checked on receipt: a slow read for a folder the user already
	// left is dropped.
	tagsLoadedMsg struct {
		folder string
		tracks []media.Track
	}
)

// model holds the TUI state
type model struct {
	// Injected dependencies
	deps   Dependencies
	st     *state.AppState
	saver  *state.Autosaver
	player *player.Player
	debugf func(string, ...interface{})

	// Open folder
	session    *playlist.Session
	nowPlaying media.Track
	positionMS int
	lengthMS   int
	// Prefetched tag metadata, indexed by natural order. Nil until the
	// background read for the open folder lands.
	tags []media.Track

	// Folder watching
	watcher *fsnotify.Watcher
	// Coalesces watcher event bursts (copy, unzip...) into one rescan
	lastRescan time.Time

	// UI state
	width        int
	height       int
	ready        bool
	quitting     bool
	statusMsg    string
	statusMsgAge time.Time

	// Track list display
	cursorPos int
	viewport  viewport.Model
	// Maps visible row -> display position (identity without a search)
	filtered []int

	// Text entry (search filter and open-folder prompt)
	searchInput textinput.Model
	searching   bool
	folderInput textinput.Model
	opening     bool
}

// Key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Home     key.Binding
	End      key.Binding
	Play     key.Binding
	Pause    key.Binding
	Stop     key.Binding
	Next     key.Binding
	Prev     key.Binding
	SeekBack key.Binding
	SeekFwd  key.Binding
	Restart  key.Binding
	Shuffle  key.Binding
	Reshuf   key.Binding
	Loop     key.Binding
	VolUp    key.Binding
	VolDown  key.Binding
	ZoomIn   key.Binding
	ZoomOut  key.Binding
	Search   key.Binding
	Open     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "navigate"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "navigate"),
	),
	PageUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("pgup", "page up"),
	),
	PageDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("pgdn", "page down"),
	),
	Home: key.NewBinding(
		key.WithKeys("home", "g"),
		key.WithHelp("home/g", "first track"),
	),
	End: key.NewBinding(
		key.WithKeys("end", "G"),
		key.WithHelp("end/G", "last track"),
	),
	Play: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "play selected"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Stop: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "stop"),
	),
	Next: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "next track"),
	),
	Prev: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "previous track"),
	),
	SeekBack: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "seek back"),
	),
	SeekFwd: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "seek forward"),
	),
	Restart: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "restart track"),
	),
	Shuffle: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "toggle shuffle"),
	),
	Reshuf: key.NewBinding(
		key.WithKeys("S"),
		key.WithHelp("S", "reshuffle"),
	),
	Loop: key.NewBinding(
		key.WithKeys("L"),
		key.WithHelp("L", "toggle loop"),
	),
	VolUp: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "volume up"),
	),
	VolDown: key.NewBinding(
		key.WithKeys("-"),
		key.WithHelp("-", "volume down"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("]"),
		key.WithHelp("]", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("["),
		key.WithHelp("[", "zoom out"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open folder"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	folderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	currentTrackStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("10"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("240")).
			Foreground(lipgloss.Color("15"))

	statusStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	readOnlyStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("88")).
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

// Run starts the TUI with injected dependencies and blocks until quit.
// The final shutdown save and lock release happen in main after this
// returns.
func Run(opts Options, deps Dependencies) error {
	m := initModel(opts, deps)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, deps Dependencies) model {
	search := textinput.New()
	search.Placeholder = "filter tracks"
	search.CharLimit = 128
	search.Width = 30

	folder := textinput.New()
	folder.Placeholder = "folder path"
	folder.CharLimit = 512
	folder.Width = 50

	m := model{
		deps:        deps,
		st:          deps.State,
		saver:       deps.Saver,
		player:      deps.Player,
		debugf:      deps.Debugf,
		viewport:    viewport.New(0, 0), // Sized on first WindowSizeMsg
		searchInput: search,
		folderInput: folder,
	}

	if m.debugf == nil {
		m.debugf = func(string, ...interface{}) {}
	}

	// Apply saved volume before anything plays
	m.player.SetVolume(m.st.Volume)

	// Open the requested folder, or restore the last one
	startFolder := opts.Folder
	if startFolder == "" && len(m.st.RecentFolders) > 0 {
		startFolder = m.st.RecentFolders[0]
	}
	if startFolder != "" {
		m.openFolder(startFolder, true)
	}

	return m
}

// Init starts the timers and long-running waits.
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		progressTick(),
		autosaveTick(m.deps.Config.AutosaveIntervalSeconds),
		waitForTrackEnd(m.player),
		m.loadTagsCmd(),
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForFolderEvent(m.watcher))
	}
	return tea.Batch(cmds...)
}

// progressTick drives the progress line refresh.
func progressTick() tea.Cmd {
	return tea.Tick(progressTickInterval, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

// autosaveTick drives the periodic dirty-state save.
func autosaveTick(intervalSeconds int) tea.Cmd {
	if intervalSeconds <= 0 {
		intervalSeconds = state.DefaultSaveIntervalSeconds
	}
	return tea.Tick(time.Duration(intervalSeconds)*time.Second, func(t time.Time) tea.Msg {
		return autosaveTickMsg(t)
	})
}

// loadTagsCmd reads tag metadata for the whole open folder in the
// background, so the now-playing line never blocks on file reads.
func (m *model) loadTagsCmd() tea.Cmd {
	if m.session == nil || m.session.Len() == 0 {
		return nil
	}
	folder := m.session.Folder()
	names := m.session.Tracks()
	return func() tea.Msg {
		return tagsLoadedMsg{folder: folder, tracks: media.ReadFolderTags(folder, names)}
	}
}

// waitForTrackEnd delivers the playback engine's end-of-track
// notification into the update loop.
func waitForTrackEnd(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Finished()
		return trackEndedMsg{}
	}
}

// readOnly reports whether this instance runs under the Reader role.
func (m *model) readOnly() bool {
	return m.deps.Role == lock.RoleReader
}

// setStatus shows a transient status message.
func (m *model) setStatus(format string, args ...interface{}) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusMsgAge = time.Now()
}

// truncate shortens a string to maxLen, adding "..." if truncated.
// maxLen may be zero or negative (raw width arithmetic on a tiny
// terminal), which yields an empty string.
func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}

	if len(s) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return s[:maxLen]
	}

	return s[:maxLen-3] + "..."
}
