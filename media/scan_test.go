// ABOUTME: Tests for folder scanning and natural sort ordering
// ABOUTME: Validates extension filtering and numeric-aware name comparison

package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"numeric beats lexicographic", "track2.mp3", "track10.mp3", true},
		{"reverse", "track10.mp3", "track2.mp3", false},
		{"equal numbers differ by text", "track2a.mp3", "track2b.mp3", true},
		{"leading zeros compare equal in value", "track002.mp3", "track2.mp3", false},
		{"case insensitive", "Track1.mp3", "track2.mp3", true},
		{"plain text", "apple.mp3", "banana.mp3", true},
		{"digits before text at same position", "01 intro.mp3", "outro.mp3", true},
		{"shorter name first", "intro.mp3", "introduction.mp3", true},
		{"multi segment", "disc1track10.mp3", "disc2track2.mp3", true},
		{"huge numbers do not overflow", "track99999999999999999998.mp3", "track99999999999999999999.mp3", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NaturalLess(tt.a, tt.b); got != tt.want {
				t.Errorf("NaturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"song.mp3", true},
		{"song.MP3", true},
		{"song.flac", true},
		{"song.opus", true},
		{"clip.mkv", true},
		{"clip.webm", true},
		{"cover.jpg", false},
		{"notes.txt", false},
		{"archive.zip", false},
		{"noextension", false},
	}

	for _, tt := range tests {
		if got := IsMediaFile(tt.name); got != tt.want {
			t.Errorf("IsMediaFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsAudioFile(t *testing.T) {
	if !IsAudioFile("song.ogg") {
		t.Error("Expected .ogg to be audio")
	}
	if IsAudioFile("clip.mp4") {
		t.Error("Expected .mp4 to not be audio")
	}
}

func TestScanFolder(t *testing.T) {
	dir := t.TempDir()

	files := []string{"track10.mp3", "track2.mp3", "cover.jpg", "b.flac", "A.wav"}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// Subdirectories are not descended into
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "nested.mp3"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ScanFolder(dir)
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	want := []string{"A.wav", "b.flac", "track2.mp3", "track10.mp3"}
	if len(got) != len(want) {
		t.Fatalf("Expected %d tracks, got %d: %v", len(want), len(got), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Position %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestScanFolderMissingDir(t *testing.T) {
	if _, err := ScanFolder("/nonexistent/folder"); err == nil {
		t.Error("Expected error for missing folder")
	}
}

func TestScanFolderEmpty(t *testing.T) {
	got, err := ScanFolder(t.TempDir())
	if err != nil {
		t.Fatalf("ScanFolder failed: %v", err)
	}

	if len(got) != 0 {
		t.Errorf("Expected empty result, got %v", got)
	}
}
