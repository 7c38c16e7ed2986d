// ABOUTME: Audio playback engine built on gopxl/beep (speaker, ctrl, volume)
// ABOUTME: Decodes mp3/wav/flac/ogg, reports position, signals end of track

// Package player wraps the beep speaker into the playback engine the
// rest of the application talks to: play/pause/seek/volume, a position
// query, and an end-of-track notification channel. Everything is
// serialized through the speaker lock, so the methods are safe to call
// from the TUI update loop while audio streams in the background.
package player

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// sampleRate is the fixed speaker rate; every track is resampled to it.
const sampleRate = beep.SampleRate(44100)

// resampleQuality trades CPU for interpolation quality. 4 is beep's
// recommended middle ground.
const resampleQuality = 4

// Player is the playback engine. One instance lives for the process.
type Player struct {
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	path     string
	volumePc int // 0-100, kept so new tracks inherit the level
	paused   bool

	finished chan struct{}
}

// New initializes the speaker and returns a stopped player.
func New() (*Player, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Player{
		volumePc: 100,
		finished: make(chan struct{}, 1),
	}, nil
}

// Finished returns the channel that receives one value each time a
// track plays to its natural end. The buffer of one lets the audio
// callback never block on a slow consumer.
func (p *Player) Finished() <-chan struct{} {
	return p.finished
}

// Playing reports whether a track is loaded and not paused.
func (p *Player) Playing() bool {
	return p.path != "" && !p.paused
}

// Paused reports whether a track is loaded but paused.
func (p *Player) Paused() bool {
	return p.path != "" && p.paused
}

// CurrentPath returns the path of the loaded track, or "".
func (p *Player) CurrentPath() string {
	return p.path
}

// Play starts playback of the file at path from the given millisecond
// offset, replacing whatever was playing. Files whose format cannot be
// decoded (the video extensions, aac, wma...) return an error and leave
// the player stopped.
func (p *Player) Play(path string, startMS int) error {
	p.Stop()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open media: %w", err)
	}

	streamer, format, err := decode(f, path)
	if err != nil {
		_ = f.Close()
		return err
	}

	if startMS > 0 {
		pos := format.SampleRate.N(time.Duration(startMS) * time.Millisecond)
		if pos < streamer.Len() {
			if err := streamer.Seek(pos); err != nil {
				_ = streamer.Close()
				_ = f.Close()
				return fmt.Errorf("seek to resume position: %w", err)
			}
		}
	}

	var src beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		src = beep.Resample(resampleQuality, format.SampleRate, sampleRate, streamer)
	}

	ctrl := &beep.Ctrl{Streamer: src}
	vol := &effects.Volume{Streamer: ctrl, Base: 2}
	applyVolume(vol, p.volumePc)

	p.file = f
	p.streamer = streamer
	p.format = format
	p.ctrl = ctrl
	p.volume = vol
	p.path = path
	p.paused = false

	speaker.Play(beep.Seq(vol, beep.Callback(func() {
		select {
		case p.finished <- struct{}{}:
		default:
		}
	})))

	return nil
}

// Stop halts playback and releases the current track's resources.
func (p *Player) Stop() {
	if p.path == "" {
		return
	}
	speaker.Clear()
	_ = p.streamer.Close()
	_ = p.file.Close()
	p.file = nil
	p.streamer = nil
	p.ctrl = nil
	p.volume = nil
	p.path = ""
	p.paused = false
}

// TogglePause pauses or resumes the current track. No-op when stopped.
func (p *Player) TogglePause() {
	if p.path == "" {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = !p.ctrl.Paused
	p.paused = p.ctrl.Paused
	speaker.Unlock()
}

// Pause pauses playback without toggling. Used for the paused resume
// on startup.
func (p *Player) Pause() {
	if p.path == "" || p.paused {
		return
	}
	p.TogglePause()
}

// PositionMS returns the playback position of the current track in
// milliseconds, or -1 when stopped.
func (p *Player) PositionMS() int {
	if p.path == "" {
		return -1
	}
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return int(p.format.SampleRate.D(pos) / time.Millisecond)
}

// LengthMS returns the total length of the current track in
// milliseconds, or -1 when stopped.
func (p *Player) LengthMS() int {
	if p.path == "" {
		return -1
	}
	return int(p.format.SampleRate.D(p.streamer.Len()) / time.Millisecond)
}

// SeekMS seeks within the current track, clamping to the track bounds.
func (p *Player) SeekMS(ms int) error {
	if p.path == "" {
		return nil
	}
	if ms < 0 {
		ms = 0
	}

	speaker.Lock()
	defer speaker.Unlock()

	pos := p.format.SampleRate.N(time.Duration(ms) * time.Millisecond)
	if limit := p.streamer.Len() - 1; pos > limit {
		pos = limit
	}
	if pos < 0 {
		pos = 0
	}
	if err := p.streamer.Seek(pos); err != nil {
		return fmt.Errorf("seek: %w", err)
	}
	return nil
}

// SetVolume sets the output level on the 0-100 scale used by the
// persisted state. The level survives track changes.
func (p *Player) SetVolume(pc int) {
	if pc < 0 {
		pc = 0
	}
	if pc > 100 {
		pc = 100
	}
	p.volumePc = pc

	if p.volume == nil {
		return
	}
	speaker.Lock()
	applyVolume(p.volume, pc)
	speaker.Unlock()
}

// Volume returns the current 0-100 level.
func (p *Player) Volume() int {
	return p.volumePc
}

// Close stops playback and releases the engine.
func (p *Player) Close() {
	p.Stop()
	speaker.Close()
}

// applyVolume maps the 0-100 scale onto the exponential scale of
// effects.Volume: 100 is unity gain, each halving of the percentage
// drops one unit of Base-2 volume, and 0 is silence.
func applyVolume(v *effects.Volume, pc int) {
	if pc <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(float64(pc) / 100)
}

// decode picks a decoder by file extension.
func decode(f *os.File, path string) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		s, format, err := mp3.Decode(f)
		return s, format, wrapDecode(err)
	case ".wav":
		s, format, err := wav.Decode(f)
		return s, format, wrapDecode(err)
	case ".flac":
		s, format, err := flac.Decode(f)
		return s, format, wrapDecode(err)
	case ".ogg", ".oga":
		s, format, err := vorbis.Decode(f)
		return s, format, wrapDecode(err)
	default:
		return nil, beep.Format{}, fmt.Errorf("no decoder for %q", filepath.Ext(path))
	}
}

func wrapDecode(err error) error {
	if err != nil {
		return fmt.Errorf("decode media: %w", err)
	}
	return nil
}
