// ABOUTME: Reads track metadata (title, artist, album) from audio file tags
// ABOUTME: Falls back to the file name when tags are missing or unreadable

package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
)

// Track describes a playable file for display purposes.
type Track struct {
	Name   string // File name within the folder
	Title  string // Tag title, or the name without extension
	Artist string
	Album  string
}

// TrackInfo reads ID3/Vorbis/MP4 tags from the file at path. Tag read
// failures are not errors: the file is still playable, so the result
// falls back to the file name. Only an unopenable file returns an
// error.
func TrackInfo(path string) (Track, error) {
	name := filepath.Base(path)
	info := Track{
		Name:  name,
		Title: strings.TrimSuffix(name, filepath.Ext(name)),
	}

	f, err := os.Open(path)
	if err != nil {
		return info, fmt.Errorf("open track: %w", err)
	}
	defer func() { _ = f.Close() }()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		// No usable tags (common for wav or video files).
		return info, nil
	}

	if t := meta.Title(); t != "" {
		info.Title = t
	}
	info.Artist = meta.Artist()
	info.Album = meta.Album()

	return info, nil
}
