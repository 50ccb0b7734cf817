package reconciler

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKeyLockMutualExclusion(t *testing.T) {
	k := newKeyLock()

	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("Q1")
			counter++
			unlock()
		}()
	}
	wg.Wait()

	require.Equal(t, 200, counter)
}

func TestKeyLockReleasesEntries(t *testing.T) {
	k := newKeyLock()

	unlock := k.Lock("Q1")
	unlock()

	k.mu.Lock()
	require.Empty(t, k.held, "entries must be dropped once unreferenced")
	k.mu.Unlock()

	// key is usable again after release
	unlock = k.Lock("Q1")
	unlock()
}

func TestKeyLockIndependentKeys(t *testing.T) {
	k := newKeyLock()

	unlockA := k.Lock("A")
	done := make(chan struct{})
	go func() {
		unlockB := k.Lock("B")
		unlockB()
		close(done)
	}()
	<-done // B must not wait on A
	unlockA()
}
