// ABOUTME: Tests for the playback engine's pure parts
// ABOUTME: Covers volume curve mapping and decoder selection by extension

package player

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2/effects"
)

func TestApplyVolumeCurve(t *testing.T) {
	tests := []struct {
		name   string
		pc     int
		silent bool
		want   float64
	}{
		{"zero is silent", 0, true, 0},
		{"negative is silent", -5, true, 0},
		{"full is unity gain", 100, false, 0},
		{"half drops one base-2 unit", 50, false, -1},
		{"quarter drops two", 25, false, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v effects.Volume
			applyVolume(&v, tt.pc)

			if v.Silent != tt.silent {
				t.Errorf("Silent = %v, want %v", v.Silent, tt.silent)
			}

			if !tt.silent && math.Abs(v.Volume-tt.want) > 1e-9 {
				t.Errorf("Volume = %f, want %f", v.Volume, tt.want)
			}
		})
	}
}

func TestDecodeUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.xyz")
	if err := os.WriteFile(path, []byte("data"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, _, err := decode(f, path); err == nil {
		t.Error("Expected error for unsupported extension")
	}
}

func TestDecodeRejectsGarbageAudio(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.flac")
	if err := os.WriteFile(path, []byte("not a flac stream"), 0644); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, _, err := decode(f, path); err == nil {
		t.Error("Expected decode error for garbage data")
	}
}
