// Package txn provides the atomic unit-of-work machinery the engine components
// share. Every externally visible operation executes inside a journal scope:
// entering a scope takes a savepoint of all registered component state, and a
// failure anywhere in the nested call graph restores the savepoint, so no
// partial state change ever survives a failed operation.
//
// Scopes nest: mods calling back into the ledger during hook dispatch open
// inner scopes on the same journal. An inner failure restores only its own
// savepoint, but the error propagates and each enclosing scope restores in
// turn, reverting the entire unit of work.
package txn

import (
	"sync"
)

// Snapshotter is implemented by each engine component whose state participates
// in atomic units of work.
type Snapshotter interface {
	// Snapshot returns a deep copy of the component state.
	Snapshot() any
	// Restore replaces the component state with a previously taken snapshot.
	Restore(snapshot any)
}

type savepoint struct {
	snapshots  []any
	commitMark int
}

// Journal coordinates savepoints and on-commit callbacks across the engine
// components. Operations on the same journal are serialized: the top-level
// scope holds a lock for the whole unit of work, matching the protocol's
// single-threaded execution model.
type Journal struct {
	mu         sync.RWMutex
	components []Snapshotter
	saves      []savepoint
	onCommit   []func()
}

func NewJournal() *Journal {
	return &Journal{}
}

// Register adds a component to the journal. Must be called during engine
// construction, before any operation runs.
func (j *Journal) Register(s Snapshotter) {
	j.components = append(j.components, s)
}

// Begin opens a scope and returns its end function. The end function must be
// deferred with a pointer to the operation's named error result:
//
//	end := j.Begin()
//	defer func() { end(&err) }()
//
// If the error is non-nil when the scope ends, the scope's savepoint is
// restored and any callbacks queued within it are dropped. When the top-level
// scope ends without error, queued on-commit callbacks run in order.
func (j *Journal) Begin() func(err *error) {
	if len(j.saves) == 0 {
		j.mu.Lock()
	}

	sp := savepoint{
		snapshots:  make([]any, len(j.components)),
		commitMark: len(j.onCommit),
	}
	for i, c := range j.components {
		sp.snapshots[i] = c.Snapshot()
	}
	j.saves = append(j.saves, sp)

	var ended bool
	return func(err *error) {
		if ended {
			return
		}
		ended = true

		sp := j.saves[len(j.saves)-1]
		j.saves = j.saves[:len(j.saves)-1]

		if err != nil && *err != nil {
			for i, c := range j.components {
				c.Restore(sp.snapshots[i])
			}
			j.onCommit = j.onCommit[:sp.commitMark]
		}

		if len(j.saves) == 0 {
			callbacks := j.onCommit
			j.onCommit = nil
			j.mu.Unlock()
			for _, fn := range callbacks {
				fn()
			}
		}
	}
}

// OnCommit queues a callback to run after the enclosing top-level scope
// commits. Callbacks queued inside a reverted scope never run.
func (j *Journal) OnCommit(fn func()) {
	j.onCommit = append(j.onCommit, fn)
}

// View runs fn while holding the journal's read lock, so fn observes a
// consistent state with no operation in flight. Must not be called from
// inside an open scope.
func (j *Journal) View(fn func()) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	fn()
}
