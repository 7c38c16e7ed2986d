// ABOUTME: In-memory application state model (recent folders, playlists, volume, zoom)
// ABOUTME: Defines the persisted aggregate and its mutation helpers

// Package state holds the persisted application state for the folder
// player: the list of recently opened folders, the per-folder playlist
// state, and global volume/zoom settings. The aggregate is serialized
// to a single JSON document by Store using an atomic write protocol.
package state

// MaxRecentFolders bounds the recent folders list.
const MaxRecentFolders = 10

// Volume and zoom bounds.
const (
	MinVolume = 0
	MaxVolume = 100
	MinZoom   = 0.5
	MaxZoom   = 2.0
)

// PlaylistState holds the persisted playback state for a single folder.
// A nil ShuffleOrder means straight (natural order) mode; a non-nil
// ShuffleOrder is a permutation of 0..N-1 applied as the display order.
type PlaylistState struct {
	CurrentIndex       int   `json:"current_index"`
	ShuffleOrder       []int `json:"shuffle_order"`
	LoopEnabled        bool  `json:"loop_enabled"`
	PlaybackPositionMS int   `json:"playback_position_ms"`
}

// Shuffled reports whether this playlist is in shuffle mode.
func (p *PlaylistState) Shuffled() bool {
	return p.ShuffleOrder != nil
}

// AppState is the full application aggregate. One instance lives in
// memory for the process lifetime; it is mutated only from the TUI's
// update loop and written to disk by Store under the Writer role.
type AppState struct {
	RecentFolders []string                  `json:"recent_folders"`
	Playlists     map[string]*PlaylistState `json:"playlists"`
	Volume        int                       `json:"volume"`
	ZoomLevel     float64                   `json:"zoom_level"`
}

// NewAppState returns a fresh default state.
func NewAppState() *AppState {
	return &AppState{
		RecentFolders: []string{},
		Playlists:     map[string]*PlaylistState{},
		Volume:        MaxVolume,
		ZoomLevel:     1.0,
	}
}

// AddRecentFolder moves the folder to the front of the recent list,
// removing any previous occurrence and trimming the list to
// MaxRecentFolders. Evicted entries keep their playlist state.
func (s *AppState) AddRecentFolder(folder string) {
	out := make([]string, 0, len(s.RecentFolders)+1)
	out = append(out, folder)
	for _, f := range s.RecentFolders {
		if f != folder {
			out = append(out, f)
		}
	}
	if len(out) > MaxRecentFolders {
		out = out[:MaxRecentFolders]
	}
	s.RecentFolders = out
}

// Playlist returns the playlist state for a folder, creating a default
// entry on first open. Entries are keyed by path and never deleted.
func (s *AppState) Playlist(folder string) *PlaylistState {
	if s.Playlists == nil {
		s.Playlists = map[string]*PlaylistState{}
	}
	ps, ok := s.Playlists[folder]
	if !ok {
		ps = &PlaylistState{}
		s.Playlists[folder] = ps
	}
	return ps
}

// SetVolume clamps and stores the volume.
func (s *AppState) SetVolume(v int) {
	if v < MinVolume {
		v = MinVolume
	}
	if v > MaxVolume {
		v = MaxVolume
	}
	s.Volume = v
}

// SetZoom clamps and stores the zoom level.
func (s *AppState) SetZoom(z float64) {
	if z < MinZoom {
		z = MinZoom
	}
	if z > MaxZoom {
		z = MaxZoom
	}
	s.ZoomLevel = z
}

// normalize repairs out-of-range values after a load. Invalid shuffle
// orders are left alone here; they are validated against the actual
// track count when the folder is opened.
func (s *AppState) normalize() {
	if s.RecentFolders == nil {
		s.RecentFolders = []string{}
	}
	if len(s.RecentFolders) > MaxRecentFolders {
		s.RecentFolders = s.RecentFolders[:MaxRecentFolders]
	}
	if s.Playlists == nil {
		s.Playlists = map[string]*PlaylistState{}
	}
	for _, ps := range s.Playlists {
		if ps.CurrentIndex < 0 {
			ps.CurrentIndex = 0
		}
		if ps.PlaybackPositionMS < 0 {
			ps.PlaybackPositionMS = 0
		}
	}
	s.SetVolume(s.Volume)
	if s.ZoomLevel == 0 {
		s.ZoomLevel = 1.0
	}
	s.SetZoom(s.ZoomLevel)
}
