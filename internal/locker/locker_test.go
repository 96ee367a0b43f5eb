package locker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
)

func TestTryAcquireRelease(t *testing.T) {
	l := New()
	id := uuid.New()

	if !l.TryAcquire(id) {
		t.Fatal("first acquire should succeed")
	}
	if l.TryAcquire(id) {
		t.Fatal("second acquire should fail while held")
	}
	if !l.TryAcquire(uuid.New()) {
		t.Fatal("a different batch must not be blocked")
	}

	l.Release(id)
	if !l.TryAcquire(id) {
		t.Fatal("acquire after release should succeed")
	}
}

func TestTryAcquireConcurrent(t *testing.T) {
	l := New()
	id := uuid.New()

	var wg sync.WaitGroup
	var acquired int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.TryAcquire(id) {
				atomic.AddInt64(&acquired, 1)
			}
		}()
	}
	wg.Wait()

	if acquired != 1 {
		t.Errorf("exactly one goroutine may hold the batch, got %d", acquired)
	}
}
