package simulate

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/bridark/Flow-cytometry-simulation/internal/dataset"
	"github.com/bridark/Flow-cytometry-simulation/internal/model"
)

var (
	// ErrEmptyRegistry indicates a simulation was requested against a
	// registry holding no populations. This is a deliberate guard: an
	// empty model is treated as a caller mistake, not an empty dataset.
	ErrEmptyRegistry = errors.New("simulate: registry has no populations")

	// ErrInvalidCellCount indicates a negative total cell count.
	ErrInvalidCellCount = errors.New("simulate: total cell count must be non-negative")
)

// RunEvent describes one per-population sampling step; the engine reports
// it to an optional observer for tracing.
type RunEvent struct {
	Population string
	Requested  int
	Sampled    int
}

// Engine orchestrates one simulation run: per-population sampling in
// registry order, concatenation, and the crosstalk transform.
type Engine struct {
	sampler *Sampler

	// Observe, when non-nil, is called once per population sampled.
	Observe func(RunEvent)
}

// NewEngine creates an engine drawing randomness from rng.
func NewEngine(rng *rand.Rand) *Engine {
	return &Engine{sampler: NewSampler(rng)}
}

// NewSeededEngine creates an engine with its own generator seeded from seed.
func NewSeededEngine(seed int64) *Engine {
	return NewEngine(rand.New(rand.NewSource(seed)))
}

// Run simulates totalCells cells across the registry's populations and
// returns a fresh dataset. Per population, n = floor(totalCells *
// proportion), so the result may hold fewer than totalCells rows when
// truncation remainders vanish. Rows are grouped contiguously by
// population in registry iteration order. The registry is never mutated.
func (e *Engine) Run(reg *model.Registry, totalCells int) (*dataset.Dataset, error) {
	if reg.Len() == 0 {
		return nil, ErrEmptyRegistry
	}
	if totalCells < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCellCount, totalCells)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	out := dataset.New(totalCells)
	for _, name := range reg.Names() {
		spec, err := reg.Get(name)
		if err != nil {
			return nil, err
		}
		n := int(float64(totalCells) * spec.Proportion)
		block := e.sampler.Sample(spec, name, n)
		out.Append(block)

		if e.Observe != nil {
			e.Observe(RunEvent{Population: name, Requested: n, Sampled: block.Len()})
		}
	}

	Crosstalk(out)
	return out, nil
}
