package mastery

import (
	"sync"
	"testing"
	"time"
)

func TestRecordLocks_MutualExclusion(t *testing.T) {
	locks := NewRecordLocks()
	var (
		wg      sync.WaitGroup
		counter int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock("u", 1)
			defer unlock()
			c := counter
			time.Sleep(time.Microsecond)
			counter = c + 1
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
	if locks.Len() != 0 {
		t.Errorf("Len() = %d after release, want 0", locks.Len())
	}
}

func TestRecordLocks_IndependentKeys(t *testing.T) {
	locks := NewRecordLocks()
	unlockA := locks.Lock("u", 1)
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlock := locks.Lock("u", 2)
		unlock()
		unlock = locks.Lock("v", 1)
		unlock()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("locks on other records blocked behind u/1")
	}
	if locks.Len() != 1 {
		t.Errorf("Len() = %d, want 1", locks.Len())
	}
}
