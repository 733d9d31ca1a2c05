package simulate

import (
	"math/rand"

	"github.com/bridark/Flow-cytometry-simulation/internal/dataset"
	"github.com/bridark/Flow-cytometry-simulation/internal/model"
)

// Double-positive injection parameters: an expected 10% of each
// population gets an independent N(20, 5) offset added to both
// fluorescence channels.
const (
	doublePositiveRate = 0.1
	doublePositiveMean = 20.0
	doublePositiveSD   = 5.0
)

// Sampler draws raw per-channel readings for single populations.
type Sampler struct {
	rng *rand.Rand
}

// NewSampler creates a sampler backed by rng. The caller owns the
// generator; sharing it across samplers serializes their draw order.
func NewSampler(rng *rand.Rand) *Sampler {
	return &Sampler{rng: rng}
}

// Sample draws n cell records for one population. Channels are
// independent Gaussians from the spec's (mean, sd) pairs; a
// Bernoulli(0.1) subset is marked double-positive and receives two
// independent offsets, one per fluorescence channel. Every record is
// tagged with name. n == 0 yields an empty table without error.
func (s *Sampler) Sample(spec model.PopulationSpec, name string, n int) *dataset.Dataset {
	d := dataset.New(n)
	if n <= 0 {
		return d
	}

	d.FSC = s.normal(spec.Size, n)
	d.SSC = s.normal(spec.Complexity, n)
	d.FL1 = s.normal(spec.FL1, n)
	d.FL2 = s.normal(spec.FL2, n)

	for i := 0; i < n; i++ {
		if s.rng.Float64() < doublePositiveRate {
			// Two independent draws, not one shared offset.
			d.FL1[i] += s.rng.NormFloat64()*doublePositiveSD + doublePositiveMean
			d.FL2[i] += s.rng.NormFloat64()*doublePositiveSD + doublePositiveMean
		}
		d.Population = append(d.Population, name)
	}
	return d
}

func (s *Sampler) normal(g model.Gaussian, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.rng.NormFloat64()*g.SD + g.Mean
	}
	return out
}
