// ABOUTME: Atomic JSON persistence for the application state
// ABOUTME: Write-temp-then-rename saves, defaults on missing file, recoverable load errors

package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StateFileName is the name of the persisted state document inside the
// state directory.
const StateFileName = "state.json"

// Sentinel errors for the store. Both are recoverable: a corrupt file
// is replaced by a fresh default state, a failed save leaves the
// previous file untouched and is retried on the next trigger.
var (
	ErrCorruptState = errors.New("state file is corrupt")
	ErrSaveFailed   = errors.New("state save failed")
)

// Store persists an AppState as a single JSON document.
type Store struct {
	path string
}

// NewStore creates a store writing to dir/state.json.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, StateFileName)}
}

// Path returns the full path of the state file.
func (st *Store) Path() string {
	return st.path
}

// Load reads the state file. A missing file yields a fresh default
// state with no error. An unreadable or unparsable file yields a fresh
// default state together with an error wrapping ErrCorruptState; the
// caller should keep the default and continue.
func (st *Store) Load() (*AppState, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewAppState(), nil
		}
		return NewAppState(), fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	var s AppState
	if err := json.Unmarshal(data, &s); err != nil {
		return NewAppState(), fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	s.normalize()

	return &s, nil
}

// Save writes the state atomically: serialize to a temporary file in
// the same directory, sync it, then rename it over the target. The
// on-disk file is always either the previous complete state or the new
// complete state, even if the process dies mid-write.
func (st *Store) Save(s *AppState) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", ErrSaveFailed, err)
	}

	dir := filepath.Dir(st.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create state directory: %v", ErrSaveFailed, err)
	}

	tmp, err := os.CreateTemp(dir, "state-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", ErrSaveFailed, err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	if err := os.Rename(tmpPath, st.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("%w: rename: %v", ErrSaveFailed, err)
	}

	return nil
}

// writeAndSync writes data to f, fsyncs and closes it.
func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return nil
}
