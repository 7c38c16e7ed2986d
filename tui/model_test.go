// ABOUTME: Tests for TUI helpers that do not need a running program
// ABOUTME: Covers time formatting, truncation and search filtering of the track list

package tui

import (
	"testing"

	"github.com/charmbracelet/bubbles/textinput"

	"folder-player/playlist"
	"folder-player/state"
)

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		ms   int
		want string
	}{
		{"zero", 0, "0:00"},
		{"seconds", 7000, "0:07"},
		{"minutes", 93500, "1:33"},
		{"over an hour", 3723000, "1:02:03"},
		{"negative clamps", -500, "0:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatTime(tt.ms); got != tt.want {
				t.Errorf("formatTime(%d) = %s, want %s", tt.ms, got, tt.want)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long string", 10, "this is..."},
		{"abc", 2, "ab"},
		{"narrow terminal", 0, ""},
		{"Artist - A Long Track Title", -2, ""},
	}

	for _, tt := range tests {
		if got := truncate(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func newFilterTestModel(tracks []string) *model {
	m := &model{searchInput: textinput.New()}
	m.session = playlist.New("/music/test", tracks, &state.PlaylistState{})
	m.applyFilter()
	return m
}

func TestApplyFilterNoSearchShowsAll(t *testing.T) {
	m := newFilterTestModel([]string{"a.mp3", "b.mp3", "c.mp3"})

	if len(m.filtered) != 3 {
		t.Fatalf("Expected 3 visible rows, got %d", len(m.filtered))
	}

	for i, pos := range m.filtered {
		if pos != i {
			t.Errorf("Expected identity mapping, got %v", m.filtered)
			break
		}
	}
}

func TestApplyFilterMatchesCaseInsensitively(t *testing.T) {
	m := newFilterTestModel([]string{"Intro.mp3", "Main Theme.mp3", "Outro.mp3"})
	m.searchInput.SetValue("tro")
	m.applyFilter()

	if len(m.filtered) != 2 {
		t.Fatalf("Expected 2 matches, got %d: %v", len(m.filtered), m.filtered)
	}

	// Intro (pos 0) and Outro (pos 2)
	if m.filtered[0] != 0 || m.filtered[1] != 2 {
		t.Errorf("Unexpected matches: %v", m.filtered)
	}
}

func TestApplyFilterNoMatches(t *testing.T) {
	m := newFilterTestModel([]string{"a.mp3", "b.mp3"})
	m.cursorPos = 1
	m.searchInput.SetValue("zzz")
	m.applyFilter()

	if len(m.filtered) != 0 {
		t.Fatalf("Expected no matches, got %v", m.filtered)
	}

	if m.cursorPos != 0 {
		t.Errorf("Expected cursor reset, got %d", m.cursorPos)
	}
}

func TestDisplayToRowWithFilter(t *testing.T) {
	m := newFilterTestModel([]string{"Intro.mp3", "Main Theme.mp3", "Outro.mp3"})
	m.searchInput.SetValue("tro")
	m.applyFilter()

	if row := m.displayToRow(2); row != 1 {
		t.Errorf("Expected display position 2 on row 1, got %d", row)
	}

	// Filtered-out positions fall back to the top
	if row := m.displayToRow(1); row != 0 {
		t.Errorf("Expected fallback row 0, got %d", row)
	}
}
