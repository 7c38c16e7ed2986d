// ABOUTME: Track list viewport rendering and cursor management
// ABOUTME: Handles scrolling, search filtering and current-track markers

package tui

import (
	"fmt"
	"strings"
)

// moveCursor moves the cursor by delta rows, clamped to the visible
// list.
func (m *model) moveCursor(delta int) {
	m.moveCursorTo(m.cursorPos + delta)
}

// moveCursorTo places the cursor on a visible row, clamped.
func (m *model) moveCursorTo(row int) {
	if len(m.filtered) == 0 {
		m.cursorPos = 0
		return
	}
	if row < 0 {
		row = 0
	}
	if row >= len(m.filtered) {
		row = len(m.filtered) - 1
	}
	m.cursorPos = row
	m.ensureCursorVisible()
	m.updateViewportContent()
}

// applyFilter rebuilds the visible-row mapping from the display order
// and the search input. An empty search shows every track in display
// order; otherwise rows are the display positions whose track name
// contains the term, case-insensitively.
func (m *model) applyFilter() {
	m.filtered = m.filtered[:0]
	if m.session == nil {
		m.cursorPos = 0
		return
	}

	term := strings.ToLower(strings.TrimSpace(m.searchInput.Value()))
	tracks := m.session.Tracks()
	for pos := range m.session.DisplayOrder() {
		if term != "" {
			name := tracks[m.session.FileIndexAt(pos)]
			if !strings.Contains(strings.ToLower(name), term) {
				continue
			}
		}
		m.filtered = append(m.filtered, pos)
	}

	if m.cursorPos >= len(m.filtered) {
		m.cursorPos = len(m.filtered) - 1
	}
	if m.cursorPos < 0 {
		m.cursorPos = 0
	}
}

// displayToRow finds the visible row for a display position, or 0 when
// the position is filtered out.
func (m *model) displayToRow(displayPos int) int {
	for row, pos := range m.filtered {
		if pos == displayPos {
			return row
		}
	}
	return 0
}

// ensureCursorVisible scrolls the viewport so the cursor stays on
// screen.
func (m *model) ensureCursorVisible() {
	if m.viewport.Height <= 0 {
		return
	}
	if m.cursorPos < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursorPos)
	} else if m.cursorPos >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(m.cursorPos - m.viewport.Height + 1)
	}
}

// updateViewportContent re-renders the track list into the viewport.
func (m *model) updateViewportContent() {
	if m.session == nil || m.session.Len() == 0 {
		m.viewport.SetContent(folderStyle.Render("  (no playable tracks)"))
		return
	}
	if len(m.filtered) == 0 {
		m.viewport.SetContent(folderStyle.Render("  (no matches)"))
		return
	}

	tracks := m.session.Tracks()
	current := m.session.State().CurrentIndex

	var b strings.Builder
	for row, pos := range m.filtered {
		fileIdx := m.session.FileIndexAt(pos)
		name := truncate(tracks[fileIdx], m.viewport.Width-8)

		marker := "   "
		if pos == current {
			marker = ">> "
		}
		line := fmt.Sprintf("%s%3d  %s", marker, pos+1, name)

		switch {
		case row == m.cursorPos:
			line = cursorStyle.Render(line)
		case pos == current:
			line = currentTrackStyle.Render(line)
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	m.viewport.SetContent(b.String())
}
