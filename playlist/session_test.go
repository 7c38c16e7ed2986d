// ABOUTME: Tests for the per-folder ordering state machine
// ABOUTME: Covers shuffle transitions, next/previous with loop, selection and reconciliation

package playlist

import (
	"fmt"
	"math/rand"
	"testing"

	"folder-player/state"
)

func newTestSession(n int) *Session {
	tracks := make([]string, n)
	for i := range tracks {
		tracks[i] = fmt.Sprintf("track%02d.mp3", i+1)
	}
	s := New("/music/test", tracks, &state.PlaylistState{})
	s.SetRand(rand.New(rand.NewSource(1)))
	return s
}

func TestShuffleOnKeepsCurrentTrackFirst(t *testing.T) {
	for n := 1; n <= 8; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			s := newTestSession(n)
			s.Select(n / 2)
			playing, _ := s.CurrentTrack()

			s.SetShuffle(true)

			if !s.Shuffled() {
				t.Fatal("Expected shuffle mode")
			}

			if s.State().CurrentIndex != 0 {
				t.Errorf("Expected CurrentIndex 0 after shuffle, got %d", s.State().CurrentIndex)
			}

			got, _ := s.CurrentTrack()
			if got != playing {
				t.Errorf("Expected %s to keep playing, got %s", playing, got)
			}
		})
	}
}

func TestShuffleOrderIsPermutation(t *testing.T) {
	for n := 0; n <= 10; n++ {
		s := newTestSession(n)
		s.SetShuffle(true)

		order := s.State().ShuffleOrder
		if len(order) != n {
			t.Fatalf("n=%d: order length %d", n, len(order))
		}

		seen := make(map[int]bool)
		for _, v := range order {
			if v < 0 || v >= n || seen[v] {
				t.Fatalf("n=%d: not a permutation: %v", n, order)
			}
			seen[v] = true
		}
	}
}

func TestShuffleOffRestoresNaturalRank(t *testing.T) {
	s := newTestSession(6)
	s.Select(3)

	s.SetShuffle(true)
	// Advance somewhere else in shuffle order
	s.Next()
	shuffled, _ := s.CurrentTrack()

	s.SetShuffle(false)

	if s.Shuffled() {
		t.Fatal("Expected straight mode")
	}

	got, _ := s.CurrentTrack()
	if got != shuffled {
		t.Errorf("Expected %s to keep playing, got %s", shuffled, got)
	}

	// CurrentIndex is the natural rank of the playing track
	if s.Tracks()[s.State().CurrentIndex] != shuffled {
		t.Errorf("CurrentIndex %d does not point at %s", s.State().CurrentIndex, shuffled)
	}
}

func TestReshuffleKeepsCurrentTrackFirst(t *testing.T) {
	s := newTestSession(8)
	s.SetShuffle(true)
	s.Next()
	s.Next()
	playing, _ := s.CurrentTrack()

	s.Reshuffle()

	if s.State().CurrentIndex != 0 {
		t.Errorf("Expected CurrentIndex 0 after reshuffle, got %d", s.State().CurrentIndex)
	}

	got, _ := s.CurrentTrack()
	if got != playing {
		t.Errorf("Expected %s to stay current, got %s", playing, got)
	}
}

func TestReshuffleInStraightModeIsNoOp(t *testing.T) {
	s := newTestSession(5)
	s.Select(2)
	s.Reshuffle()

	if s.Shuffled() {
		t.Error("Expected straight mode to survive Reshuffle")
	}

	if s.State().CurrentIndex != 2 {
		t.Errorf("Expected CurrentIndex unchanged, got %d", s.State().CurrentIndex)
	}
}

func TestNextClampsAtEndWithoutLoop(t *testing.T) {
	s := newTestSession(3)
	s.Select(2)

	if s.Next() {
		t.Error("Expected Next to report end of playlist")
	}

	if s.State().CurrentIndex != 2 {
		t.Errorf("Expected index to stay at 2, got %d", s.State().CurrentIndex)
	}
}

func TestNextWrapsWithLoop(t *testing.T) {
	s := newTestSession(3)
	s.State().LoopEnabled = true
	s.Select(2)

	if !s.Next() {
		t.Fatal("Expected Next to wrap with loop enabled")
	}

	if s.State().CurrentIndex != 0 {
		t.Errorf("Expected wrap to 0, got %d", s.State().CurrentIndex)
	}
}

func TestPreviousClampsAtStartWithoutLoop(t *testing.T) {
	s := newTestSession(3)

	if s.Previous() {
		t.Error("Expected Previous to report start of playlist")
	}

	if s.State().CurrentIndex != 0 {
		t.Errorf("Expected index to stay at 0, got %d", s.State().CurrentIndex)
	}
}

func TestPreviousWrapsWithLoop(t *testing.T) {
	s := newTestSession(3)
	s.State().LoopEnabled = true

	if !s.Previous() {
		t.Fatal("Expected Previous to wrap with loop enabled")
	}

	if s.State().CurrentIndex != 2 {
		t.Errorf("Expected wrap to 2, got %d", s.State().CurrentIndex)
	}
}

func TestEmptyFolderNoOps(t *testing.T) {
	s := newTestSession(0)

	if s.Next() || s.Previous() {
		t.Error("Expected Next/Previous to be no-ops for empty folder")
	}

	if _, ok := s.CurrentTrack(); ok {
		t.Error("Expected no current track for empty folder")
	}

	s.SetShuffle(true)
	if len(s.State().ShuffleOrder) != 0 {
		t.Errorf("Expected empty shuffle order, got %v", s.State().ShuffleOrder)
	}
}

func TestSelectResetsPosition(t *testing.T) {
	s := newTestSession(5)
	s.SetPositionMS(30000)

	s.Select(3)
	if s.State().PlaybackPositionMS != 0 {
		t.Errorf("Expected position reset on track change, got %d", s.State().PlaybackPositionMS)
	}

	// Re-selecting the current track keeps the position
	s.SetPositionMS(15000)
	s.Select(3)
	if s.State().PlaybackPositionMS != 15000 {
		t.Errorf("Expected position kept on same track, got %d", s.State().PlaybackPositionMS)
	}
}

func TestSelectIgnoresOutOfRange(t *testing.T) {
	s := newTestSession(3)
	s.Select(1)

	s.Select(-1)
	s.Select(3)

	if s.State().CurrentIndex != 1 {
		t.Errorf("Expected index unchanged, got %d", s.State().CurrentIndex)
	}
}

func TestNewReconcilesStaleState(t *testing.T) {
	tracks := []string{"a.mp3", "b.mp3", "c.mp3"}

	tests := []struct {
		name string
		ps   state.PlaylistState
	}{
		{"index past end", state.PlaylistState{CurrentIndex: 10}},
		{"negative index", state.PlaylistState{CurrentIndex: -1}},
		{"order wrong length", state.PlaylistState{ShuffleOrder: []int{0, 1}}},
		{"order with duplicate", state.PlaylistState{ShuffleOrder: []int{0, 1, 1}}},
		{"order out of range", state.PlaylistState{ShuffleOrder: []int{0, 1, 5}}},
		{"negative position", state.PlaylistState{PlaybackPositionMS: -500}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps := tt.ps
			s := New("/music/test", tracks, &ps)

			if idx := s.State().CurrentIndex; idx < 0 || idx >= len(tracks) {
				t.Errorf("CurrentIndex not repaired: %d", idx)
			}

			if order := s.State().ShuffleOrder; order != nil && len(order) != len(tracks) {
				t.Errorf("Invalid shuffle order kept: %v", order)
			}

			if s.State().PlaybackPositionMS < 0 {
				t.Errorf("Negative position kept: %d", s.State().PlaybackPositionMS)
			}
		})
	}
}

func TestNewKeepsValidState(t *testing.T) {
	tracks := []string{"a.mp3", "b.mp3", "c.mp3"}
	ps := &state.PlaylistState{
		CurrentIndex:       1,
		ShuffleOrder:       []int{2, 1, 0},
		LoopEnabled:        true,
		PlaybackPositionMS: 42000,
	}

	s := New("/music/test", tracks, ps)

	if ps.CurrentIndex != 1 || ps.PlaybackPositionMS != 42000 {
		t.Errorf("Valid state modified: %+v", ps)
	}

	if name, _ := s.CurrentTrack(); name != "b.mp3" {
		t.Errorf("Expected current track b.mp3, got %s", name)
	}
}

func TestRescanAfterFolderShrinks(t *testing.T) {
	s := newTestSession(5)
	s.SetShuffle(true)
	s.Select(4)

	s.Rescan([]string{"track01.mp3", "track02.mp3"})

	if s.Shuffled() {
		t.Error("Expected stale shuffle order discarded on rescan")
	}

	if idx := s.State().CurrentIndex; idx < 0 || idx >= 2 {
		t.Errorf("Expected clamped index, got %d", idx)
	}
}

func TestDisplayOrderStraightMode(t *testing.T) {
	s := newTestSession(4)

	order := s.DisplayOrder()
	for i, v := range order {
		if v != i {
			t.Fatalf("Expected identity order, got %v", order)
		}
	}
}
