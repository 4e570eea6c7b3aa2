package scan

import (
	"math/rand/v2"
	"sync"

	"github.com/khanhnv2901/secdash/internal/domain/scan"
)

// NewRandomSource returns the process-wide generator, or a seeded PCG stream when seed is set.
// The seeded stream is guarded so that concurrent scans may share it.
func NewRandomSource(seed *uint64) scan.RandomSource {
	if seed == nil {
		return globalSource{}
	}
	return &lockedSource{rng: rand.New(rand.NewPCG(*seed, *seed))}
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
