package processor

import (
	"math/rand"
	"sync"
)

// Sampler decides probabilistic recompute skips. It sits behind an interface
// so tests can force both branches deterministically.
type Sampler interface {
	// Hit returns true with probability p.
	Hit(p float64) bool
}

type randSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSampler returns a seedable pseudo-random sampler. The mutex makes it
// safe for the concurrent batch fan-out.
func NewSampler(seed int64) Sampler {
	return &randSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *randSampler) Hit(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() < p
}
