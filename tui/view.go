// ABOUTME: View rendering for the TUI
// ABOUTME: Composes header, mode line, track list, now-playing and status bar

package tui

import (
	"fmt"
	"strings"
	"time"
)

// View renders the TUI
func (m model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder

	// Header
	title := "Folder Player"
	if m.readOnly() {
		title += "  " + readOnlyStyle.Render("READ-ONLY")
	}
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	if m.session != nil {
		b.WriteString(folderStyle.Render(truncate(m.session.Folder(), m.width-2)))
	} else {
		b.WriteString(folderStyle.Render("no folder open (press o)"))
	}
	b.WriteString("\n\n")

	// Mode line
	b.WriteString(m.renderModeLine())
	b.WriteString("\n")

	// Track list
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	// Now playing and progress
	b.WriteString(m.renderNowPlaying())
	b.WriteString("\n")

	// Status bar
	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")

	// Help
	b.WriteString(helpStyle.Render("enter play · space pause · n/p skip · s shuffle · L loop · / search · o open · q quit"))

	return b.String()
}

// renderModeLine shows mode flags and the active text input, if any.
func (m model) renderModeLine() string {
	if m.searching {
		return "search: " + m.searchInput.View()
	}
	if m.opening {
		return "open: " + m.folderInput.View()
	}

	var parts []string

	if m.session != nil && m.session.Shuffled() {
		parts = append(parts, "shuffle")
	} else {
		parts = append(parts, "straight")
	}
	if m.session != nil && m.session.State().LoopEnabled {
		parts = append(parts, "loop")
	}
	if term := strings.TrimSpace(m.searchInput.Value()); term != "" {
		parts = append(parts, fmt.Sprintf("filter:%q", term))
	}
	parts = append(parts, fmt.Sprintf("vol %d%%", m.st.Volume))
	if m.st.ZoomLevel != 1.0 {
		parts = append(parts, fmt.Sprintf("zoom %.1fx", m.st.ZoomLevel))
	}

	return folderStyle.Render(strings.Join(parts, "  |  "))
}

// renderNowPlaying shows the playing track and a progress line.
func (m model) renderNowPlaying() string {
	if m.player.CurrentPath() == "" {
		return folderStyle.Render("stopped") + "\n"
	}

	label := m.nowPlaying.Title
	if m.nowPlaying.Artist != "" {
		label = m.nowPlaying.Artist + " - " + label
	}
	if label == "" {
		label = m.nowPlaying.Name
	}

	verb := "playing"
	if m.player.Paused() {
		verb = "paused"
	}

	line1 := currentTrackStyle.Render(fmt.Sprintf("%s: %s", verb, truncate(label, m.width-12)))
	line2 := folderStyle.Render(fmt.Sprintf("  %s / %s", formatTime(m.positionMS), formatTime(m.lengthMS)))
	return line1 + "\n" + line2
}

// renderStatusBar shows a transient notice, fading after a few seconds.
func (m model) renderStatusBar() string {
	if m.statusMsg != "" && time.Since(m.statusMsgAge) < statusMessageDuration {
		return noticeStyle.Render(m.statusMsg)
	}

	count := 0
	if m.session != nil {
		count = m.session.Len()
	}
	return statusStyle.Render(fmt.Sprintf("%d tracks", count))
}

// formatTime renders a millisecond count as M:SS, or H:MM:SS past an
// hour.
func formatTime(ms int) string {
	if ms < 0 {
		ms = 0
	}
	totalSec := ms / 1000
	h := totalSec / 3600
	min := (totalSec % 3600) / 60
	sec := totalSec % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
	}
	return fmt.Sprintf("%d:%02d", min, sec)
}
