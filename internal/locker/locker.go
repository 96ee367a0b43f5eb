package locker

import (
	"sync"

	"github.com/google/uuid"
)

// Locker is the in-process guard against two goroutines reconciling the same
// batch at once. The DB status transition is the durable guard; this closes the
// window where two callers could both observe a pending batch.
type Locker struct {
	mu           sync.Mutex
	inProcessMap map[uuid.UUID]bool
}

func New() *Locker {
	return &Locker{
		inProcessMap: make(map[uuid.UUID]bool),
	}
}

// TryAcquire marks a batch as in process. It returns false if the batch is
// already held.
func (l *Locker) TryAcquire(batchID uuid.UUID) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inProcessMap[batchID] {
		return false
	}
	l.inProcessMap[batchID] = true
	return true
}

func (l *Locker) Release(batchID uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inProcessMap, batchID)
}
