// ABOUTME: Single-writer instance coordination via an OS advisory file lock
// ABOUTME: Decides Writer vs Reader role once per process lifetime

// Package lock arbitrates which of several concurrently running
// instances may persist state. The first process to take a non-blocking
// exclusive flock on the lock file becomes the Writer; every other
// process runs as a fully functional Reader whose saves are suppressed.
// The OS drops the lock when the holding process exits, cleanly or not,
// so there is never a stale lock to detect or clean up.
package lock

import (
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is the lock resource, co-located with the state file.
// Its content is irrelevant and never inspected.
const LockFileName = "instance.lock"

// Role is the process's persistence role. It is decided exactly once at
// startup and never changes, even if the original Writer exits.
type Role int

const (
	// RoleWriter holds the exclusive lock and is the only process
	// system-wide allowed to save state.
	RoleWriter Role = iota

	// RoleReader runs without the lock: playback and navigation work,
	// every save is a no-op, and the UI shows a read-only indicator.
	RoleReader
)

// String returns the role name.
func (r Role) String() string {
	if r == RoleWriter {
		return "writer"
	}
	return "reader"
}

// Coordinator owns the instance lock for the process lifetime.
type Coordinator struct {
	fl   *flock.Flock
	role Role
}

// Acquire attempts a non-blocking exclusive lock on dir/instance.lock.
// The lock being held by another live process resolves to RoleReader.
// A failing lock primitive also degrades to RoleReader; the returned
// error is then a notice for the interface layer, not a fatal
// condition.
func Acquire(dir string) (*Coordinator, error) {
	fl := flock.New(filepath.Join(dir, LockFileName))

	locked, err := fl.TryLock()
	if err != nil {
		return &Coordinator{fl: fl, role: RoleReader}, err
	}
	if !locked {
		return &Coordinator{fl: fl, role: RoleReader}, nil
	}
	return &Coordinator{fl: fl, role: RoleWriter}, nil
}

// Role returns the role decided at startup.
func (c *Coordinator) Role() Role {
	return c.role
}

// Writer reports whether this process holds the Writer role.
func (c *Coordinator) Writer() bool {
	return c.role == RoleWriter
}

// Release drops the lock. Called once at shutdown, after the final
// save has completed or failed. Safe to call as a Reader.
func (c *Coordinator) Release() error {
	if c.role != RoleWriter {
		return nil
	}
	return c.fl.Unlock()
}
