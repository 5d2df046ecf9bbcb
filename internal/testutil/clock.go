// Package testutil holds deterministic stand-ins used by the harness and
// by tests that need reproducible sequence numbers and run IDs.
package testutil

import "sync"

// DeterministicClock hands out evaluation sequence numbers 1, 2, 3, ...
// and can be rewound so a scenario replays with identical numbering.
type DeterministicClock struct {
	mu   sync.Mutex
	last int64
}

// NewDeterministicClock returns a clock whose first Next is 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next advances the clock and returns the new sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last++
	return c.last
}

// Current returns the last number handed out, or 0 before the first Next.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Reset rewinds the clock to its initial state.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = 0
}
