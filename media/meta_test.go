// ABOUTME: Tests for track metadata extraction
// ABOUTME: Validates the file-name fallback when tags are absent or unreadable

package media

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTrackInfoFallsBackToFileName(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "03 My Song.mp3")

	// Not a real MP3: tag reading fails, which is not an error
	if err := os.WriteFile(path, []byte("not audio data"), 0644); err != nil {
		t.Fatal(err)
	}

	info, err := TrackInfo(path)
	if err != nil {
		t.Fatalf("TrackInfo failed: %v", err)
	}

	if info.Name != "03 My Song.mp3" {
		t.Errorf("Name mismatch: got %s", info.Name)
	}

	if info.Title != "03 My Song" {
		t.Errorf("Expected title from file name without extension, got %s", info.Title)
	}

	if info.Artist != "" || info.Album != "" {
		t.Errorf("Expected empty artist/album, got %q / %q", info.Artist, info.Album)
	}
}

func TestTrackInfoMissingFile(t *testing.T) {
	info, err := TrackInfo("/nonexistent/track.mp3")
	if err == nil {
		t.Error("Expected error for missing file")
	}

	// The fallback info is still usable for display
	if info.Name != "track.mp3" {
		t.Errorf("Expected fallback name, got %s", info.Name)
	}
}
