package geo

import (
	"math/rand"
	"sync"
)

// DensitySampler reports the crowd density at a point. Implementations
// back this with occupancy telemetry; tests and the demo deployment use
// synthetic samplers.
type DensitySampler interface {
	Density(p Point) float64
}

// RandomSampler draws a synthetic density uniformly from [0.3, 0.7).
// It stands in until real occupancy telemetry is wired up.
type RandomSampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomSampler(seed int64) *RandomSampler {
	return &RandomSampler{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomSampler) Density(Point) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 0.3 + 0.4*s.rng.Float64()
}

// FixedSampler always reports the same density. Used in tests to make
// scoring deterministic.
type FixedSampler struct {
	Value float64
}

func (s FixedSampler) Density(Point) float64 {
	return s.Value
}
