package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeterministicClockNumbersFromOne(t *testing.T) {
	c := NewDeterministicClock()
	assert.Equal(t, int64(0), c.Current())

	for want := int64(1); want <= 4; want++ {
		assert.Equal(t, want, c.Next())
	}
	assert.Equal(t, int64(4), c.Current())
}

func TestDeterministicClockReset(t *testing.T) {
	c := NewDeterministicClock()
	c.Next()
	c.Next()

	c.Reset()
	assert.Equal(t, int64(0), c.Current())
	assert.Equal(t, int64(1), c.Next())
}

func TestDeterministicClockReplaysIdentically(t *testing.T) {
	a, b := NewDeterministicClock(), NewDeterministicClock()
	for range 50 {
		assert.Equal(t, a.Next(), b.Next())
	}
}

func TestDeterministicClockConcurrentNextIsUnique(t *testing.T) {
	c := NewDeterministicClock()
	const workers, perWorker = 20, 50

	var (
		mu   sync.Mutex
		seen = make(map[int64]bool)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				n := c.Next()
				mu.Lock()
				seen[n] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, int64(workers*perWorker), c.Current())
}
