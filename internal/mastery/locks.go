package mastery

import (
	"sync"

	"github.com/abhisek/masterypath/internal/skillgraph"
)

type recordKey struct {
	userID string
	nodeID skillgraph.NodeID
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

// RecordLocks serializes read-modify-write cycles on individual
// (user, node) records. Entries are dropped once nobody holds or waits on
// them. One instance must be shared by every writer of the same store.
type RecordLocks struct {
	mu    sync.Mutex
	locks map[recordKey]*refLock
}

// NewRecordLocks returns an empty lock table.
func NewRecordLocks() *RecordLocks {
	return &RecordLocks{locks: make(map[recordKey]*refLock)}
}

// Lock blocks until the record lock is held and returns its release func.
func (l *RecordLocks) Lock(userID string, nodeID skillgraph.NodeID) (unlock func()) {
	key := recordKey{userID: userID, nodeID: nodeID}

	l.mu.Lock()
	rl, ok := l.locks[key]
	if !ok {
		rl = &refLock{}
		l.locks[key] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()

	return func() {
		rl.mu.Unlock()

		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of records currently locked or awaited.
func (l *RecordLocks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
