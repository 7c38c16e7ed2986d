// ABOUTME: Folder scanning with a media extension allow-list and natural sort
// ABOUTME: Digit runs in file names compare numerically (track2 before track10)

// Package media scans folders for playable files and reads track
// metadata from audio tags.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Supported extensions, lower-case with leading dot.
var (
	audioExtensions = map[string]bool{
		".mp3": true, ".wav": true, ".flac": true, ".aac": true, ".ogg": true,
		".wma": true, ".m4a": true, ".opus": true, ".aiff": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".mkv": true, ".avi": true, ".mov": true, ".wmv": true,
		".flv": true, ".webm": true, ".m4v": true, ".mpeg": true, ".mpg": true,
	}
)

// IsMediaFile reports whether the file name has a supported media
// extension (case-insensitive).
func IsMediaFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return audioExtensions[ext] || videoExtensions[ext]
}

// IsAudioFile reports whether the file name has a supported audio
// extension.
func IsAudioFile(name string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(name))]
}

// ScanFolder returns the media file names in dir (top level only, no
// subdirectories), in natural order. The returned order is the "natural
// order" every playlist display order is defined against.
func ScanFolder(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan folder: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if IsMediaFile(e.Name()) {
			names = append(names, e.Name())
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})

	return names, nil
}

// NaturalLess compares two file names case-insensitively, with runs of
// digits compared by numeric value instead of character by character.
func NaturalLess(a, b string) bool {
	as := naturalSegments(strings.ToLower(a))
	bs := naturalSegments(strings.ToLower(b))

	for i := 0; i < len(as) && i < len(bs); i++ {
		sa, sb := as[i], bs[i]
		if sa == sb {
			continue
		}

		aNum := isDigits(sa)
		bNum := isDigits(sb)
		switch {
		case aNum && bNum:
			if c := compareNumeric(sa, sb); c != 0 {
				return c < 0
			}
		case aNum != bNum:
			// A digit run sorts before a text run at the same position.
			return aNum
		default:
			return sa < sb
		}
	}

	return len(as) < len(bs)
}

// naturalSegments splits a string into alternating runs of digits and
// non-digits.
func naturalSegments(s string) []string {
	var segs []string
	start := 0
	for i := 1; i <= len(s); i++ {
		if i == len(s) || isDigitByte(s[i]) != isDigitByte(s[i-1]) {
			segs = append(segs, s[start:i])
			start = i
		}
	}
	return segs
}

func isDigitByte(c byte) bool {
	return c >= '0' && c <= '9'
}

// isDigits reports whether s is a non-empty run of ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigitByte(s[i]) {
			return false
		}
	}
	return true
}

// compareNumeric compares two digit strings by numeric value without
// overflowing on long runs: strip leading zeros, then shorter is
// smaller, then lexicographic.
func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
