// ABOUTME: Per-folder ordering machine: straight/shuffle modes, loop, position
// ABOUTME: Binds a scanned track list to its persisted playlist state

// Package playlist implements the per-folder ordering state machine.
// A Session combines the natural-order track list produced by a folder
// scan with the persisted state for that folder, and implements every
// transition: shuffle on/off, reshuffle, next/previous with loop or
// clamp, track selection and position updates.
//
// Display order is the natural order in straight mode, or the stored
// permutation applied to natural-order indices in shuffle mode. The
// current track is always displayOrder[CurrentIndex].
package playlist

import (
	"math/rand"

	"folder-player/state"
)

// Session is the ordering machine for one open folder. It mutates the
// *state.PlaylistState it was created with; the aggregate owns that
// state and persists it.
type Session struct {
	folder string
	tracks []string // natural order
	ps     *state.PlaylistState
	rng    *rand.Rand // nil means the package-level source
}

// New creates a session for a scanned folder and reconciles the
// persisted state against the fresh track count: the current index is
// clamped into range and a shuffle order that is not a permutation of
// 0..N-1 is discarded (falling back to straight mode). Stale state is
// repaired, never a failure.
func New(folder string, tracks []string, ps *state.PlaylistState) *Session {
	s := &Session{folder: folder, tracks: tracks, ps: ps}
	s.reconcile()
	return s
}

// SetRand sets a deterministic random source. Tests only.
func (s *Session) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Folder returns the folder path this session plays.
func (s *Session) Folder() string {
	return s.folder
}

// Tracks returns the natural-order track names.
func (s *Session) Tracks() []string {
	return s.tracks
}

// Len returns the track count.
func (s *Session) Len() int {
	return len(s.tracks)
}

// State returns the underlying persisted playlist state.
func (s *Session) State() *state.PlaylistState {
	return s.ps
}

// Shuffled reports whether the session is in shuffle mode.
func (s *Session) Shuffled() bool {
	return s.ps.Shuffled()
}

// DisplayOrder returns the sequence of natural-order indices in the
// order tracks are presented and played.
func (s *Session) DisplayOrder() []int {
	if s.ps.ShuffleOrder != nil {
		return s.ps.ShuffleOrder
	}
	order := make([]int, len(s.tracks))
	for i := range order {
		order[i] = i
	}
	return order
}

// FileIndexAt maps a display position to a natural-order index.
func (s *Session) FileIndexAt(displayPos int) int {
	if s.ps.ShuffleOrder != nil {
		return s.ps.ShuffleOrder[displayPos]
	}
	return displayPos
}

// CurrentFileIndex returns the natural-order index of the current
// track, or -1 for an empty folder.
func (s *Session) CurrentFileIndex() int {
	if len(s.tracks) == 0 {
		return -1
	}
	return s.FileIndexAt(s.ps.CurrentIndex)
}

// CurrentTrack returns the current track name. ok is false for an
// empty folder, which is a valid state with no current track.
func (s *Session) CurrentTrack() (name string, ok bool) {
	idx := s.CurrentFileIndex()
	if idx < 0 {
		return "", false
	}
	return s.tracks[idx], true
}

// SetShuffle switches between shuffle and straight mode. Turning
// shuffle on generates a random permutation with the currently playing
// track first, so the same track keeps playing and CurrentIndex becomes
// 0. Turning it off recomputes CurrentIndex as the natural-order rank
// of the playing track.
func (s *Session) SetShuffle(on bool) {
	if on == s.ps.Shuffled() {
		return
	}
	if on {
		s.generateShuffleOrder()
		return
	}

	real := s.CurrentFileIndex()
	if real < 0 {
		real = 0
	}
	s.ps.ShuffleOrder = nil
	s.ps.CurrentIndex = real
}

// Reshuffle regenerates the permutation while in shuffle mode.
// Policy: current-track-first, so the playing track stays at display
// position 0, matching the behavior of enabling shuffle.
func (s *Session) Reshuffle() {
	if !s.ps.Shuffled() {
		return
	}
	s.generateShuffleOrder()
}

// generateShuffleOrder builds a permutation of 0..N-1 with the current
// track's natural index placed first and sets CurrentIndex to 0.
func (s *Session) generateShuffleOrder() {
	n := len(s.tracks)
	if n == 0 {
		s.ps.ShuffleOrder = []int{}
		s.ps.CurrentIndex = 0
		return
	}

	first := s.CurrentFileIndex()
	if first < 0 || first >= n {
		first = 0
	}

	rest := make([]int, 0, n-1)
	for i := 0; i < n; i++ {
		if i != first {
			rest = append(rest, i)
		}
	}
	s.shuffleInts(rest)

	order := make([]int, 0, n)
	order = append(order, first)
	order = append(order, rest...)

	s.ps.ShuffleOrder = order
	s.ps.CurrentIndex = 0
}

// shuffleInts is a Fisher-Yates shuffle over the session's source.
func (s *Session) shuffleInts(xs []int) {
	swap := func(i, j int) { xs[i], xs[j] = xs[j], xs[i] }
	if s.rng != nil {
		s.rng.Shuffle(len(xs), swap)
		return
	}
	rand.Shuffle(len(xs), swap)
}

// Next advances to the next track in display order. At the end of the
// playlist it wraps to 0 when loop is enabled; otherwise it stays put
// and returns false to signal end of playlist. An empty folder is a
// no-op.
func (s *Session) Next() bool {
	n := len(s.tracks)
	if n == 0 {
		return false
	}
	if s.ps.CurrentIndex+1 >= n {
		if !s.ps.LoopEnabled {
			return false
		}
		s.Select(0)
		return true
	}
	s.Select(s.ps.CurrentIndex + 1)
	return true
}

// Previous retreats to the previous track in display order, wrapping
// to the last track when loop is enabled. Without loop it clamps at 0
// and returns false.
func (s *Session) Previous() bool {
	n := len(s.tracks)
	if n == 0 {
		return false
	}
	if s.ps.CurrentIndex == 0 {
		if !s.ps.LoopEnabled {
			return false
		}
		s.Select(n - 1)
		return true
	}
	s.Select(s.ps.CurrentIndex - 1)
	return true
}

// Select makes the track at the given display position current,
// resetting the playback position unless it is already the current
// track. Out-of-range positions are ignored.
func (s *Session) Select(displayPos int) {
	if displayPos < 0 || displayPos >= len(s.tracks) {
		return
	}
	if displayPos != s.ps.CurrentIndex {
		s.ps.PlaybackPositionMS = 0
	}
	s.ps.CurrentIndex = displayPos
}

// SetPositionMS records the playback position within the current
// track. Negative values clamp to 0; upper-bound clamping is the
// playback engine's job.
func (s *Session) SetPositionMS(ms int) {
	if ms < 0 {
		ms = 0
	}
	s.ps.PlaybackPositionMS = ms
}

// ToggleLoop flips loop mode and returns the new value.
func (s *Session) ToggleLoop() bool {
	s.ps.LoopEnabled = !s.ps.LoopEnabled
	return s.ps.LoopEnabled
}

// Rescan replaces the track list after the folder changed on disk and
// reconciles the persisted state against the new count.
func (s *Session) Rescan(tracks []string) {
	s.tracks = tracks
	s.reconcile()
}

// reconcile repairs persisted state against the current track count.
func (s *Session) reconcile() {
	n := len(s.tracks)

	if s.ps.ShuffleOrder != nil && !isPermutation(s.ps.ShuffleOrder, n) {
		s.ps.ShuffleOrder = nil
	}
	if s.ps.CurrentIndex < 0 || s.ps.CurrentIndex >= n {
		s.ps.CurrentIndex = 0
	}
	if s.ps.PlaybackPositionMS < 0 {
		s.ps.PlaybackPositionMS = 0
	}
}

// isPermutation reports whether order contains each of 0..n-1 exactly
// once.
func isPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, v := range order {
		if v < 0 || v >= n || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
