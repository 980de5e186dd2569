package bank

import (
	"math/rand"
	"sync"
	"time"
)

// Selector picks one clip out of n interchangeable variants. Random
// selection is a feature (variety on repeated playback) but defeats
// deterministic tests, so the strategy is injectable: use
// NewSeededSelector in tests to pin the choice.
type Selector interface {
	// Pick returns an index in [0, n). n is always >= 1.
	Pick(n int) int
}

// UniformSelector picks uniformly at random. Safe for concurrent use.
type UniformSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewUniformSelector returns a selector seeded from the clock.
func NewUniformSelector() *UniformSelector {
	return NewSeededSelector(time.Now().UnixNano())
}

// NewSeededSelector returns a selector with a fixed seed for reproducible
// variant choices.
func NewSeededSelector(seed int64) *UniformSelector {
	return &UniformSelector{rng: rand.New(rand.NewSource(seed))} //nolint:gosec
}

// Pick implements Selector.
func (s *UniformSelector) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
