// ABOUTME: Dirty-tracking autosaver with single-flight save coalescing
// ABOUTME: Gates all persistence on the Writer role

package state

import "sync"

// DefaultSaveIntervalSeconds is how often the periodic trigger fires.
const DefaultSaveIntervalSeconds = 5

// Autosaver wraps a Store with dirty tracking, Writer-role gating and
// single-flight saving. Mutation sites call MarkDirty; event triggers
// call Save for an immediate write; the periodic timer calls
// SaveIfDirty. A trigger arriving while a save is in flight is
// coalesced into exactly one follow-up save rather than queued.
type Autosaver struct {
	store  *Store
	state  *AppState
	writer bool

	mu       sync.Mutex
	dirty    bool
	inFlight bool
	pending  bool
}

// NewAutosaver creates an autosaver for the given state. When writer is
// false (Reader role) every save is a silent no-op.
func NewAutosaver(store *Store, st *AppState, writer bool) *Autosaver {
	return &Autosaver{store: store, state: st, writer: writer}
}

// Writer reports whether this process persists state.
func (a *Autosaver) Writer() bool {
	return a.writer
}

// MarkDirty records that the state has been mutated since the last save.
func (a *Autosaver) MarkDirty() {
	a.mu.Lock()
	a.dirty = true
	a.mu.Unlock()
}

// SaveIfDirty persists the state if it changed since the last
// successful save. Used by the periodic trigger.
func (a *Autosaver) SaveIfDirty() error {
	a.mu.Lock()
	dirty := a.dirty
	a.mu.Unlock()
	if !dirty {
		return nil
	}
	return a.Save()
}

// Save persists the state immediately. At most one save executes at a
// time; a call arriving during an in-flight save marks a pending save
// and returns nil, and the in-flight call runs one more save before
// returning. A failed save keeps the state dirty so the next trigger
// retries.
func (a *Autosaver) Save() error {
	if !a.writer {
		return nil
	}

	a.mu.Lock()
	if a.inFlight {
		a.pending = true
		a.mu.Unlock()
		return nil
	}
	a.inFlight = true
	a.mu.Unlock()

	var err error
	for {
		a.mu.Lock()
		a.dirty = false
		a.pending = false
		a.mu.Unlock()

		err = a.store.Save(a.state)

		a.mu.Lock()
		if err != nil {
			a.dirty = true
		}
		if !a.pending {
			a.inFlight = false
			a.mu.Unlock()
			return err
		}
		a.mu.Unlock()
	}
}
