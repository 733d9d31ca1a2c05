package model

import (
	"errors"
	"fmt"
	"math"
)

// ProportionTolerance is the allowed deviation of the proportion sum from 1.
const ProportionTolerance = 1e-8

var (
	// ErrInvalidProportion indicates the registry's proportions do not sum to 1.
	ErrInvalidProportion = errors.New("model: population proportions must sum to 1")

	// ErrUnknownPopulation indicates a lookup by a name the registry does not hold.
	ErrUnknownPopulation = errors.New("model: unknown population")

	// ErrDuplicatePopulation indicates an Add with a name already present.
	ErrDuplicatePopulation = errors.New("model: population already exists")
)

// Registry owns the set of named population specs and enforces the
// sum-to-one invariant. Iteration order is insertion order, so simulated
// output is grouped deterministically.
//
// The registry is not safe for concurrent use; a concurrent host must
// treat it as a critical section with one mutator at a time.
type Registry struct {
	names []string
	specs map[string]PopulationSpec
}

// NewRegistry builds a registry from ordered (name, spec) pairs and
// validates it.
func NewRegistry(names []string, specs map[string]PopulationSpec) (*Registry, error) {
	r := &Registry{
		names: make([]string, 0, len(names)),
		specs: make(map[string]PopulationSpec, len(names)),
	}
	for _, name := range names {
		spec, ok := specs[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPopulation, name)
		}
		if _, dup := r.specs[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePopulation, name)
		}
		r.names = append(r.names, name)
		r.specs[name] = spec
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultRegistry returns the built-in three-population model:
// lymphocytes, monocytes, and granulocytes.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		[]string{"lymphocytes", "monocytes", "granulocytes"},
		map[string]PopulationSpec{
			"lymphocytes": {
				Size:       Gaussian{Mean: 8, SD: 1.5},
				Complexity: Gaussian{Mean: 15, SD: 2},
				FL1:        Gaussian{Mean: 30, SD: 5},
				FL2:        Gaussian{Mean: 10, SD: 2},
				Proportion: 0.6,
			},
			"monocytes": {
				Size:       Gaussian{Mean: 15, SD: 3},
				Complexity: Gaussian{Mean: 25, SD: 3},
				FL1:        Gaussian{Mean: 60, SD: 8},
				FL2:        Gaussian{Mean: 30, SD: 5},
				Proportion: 0.3,
			},
			"granulocytes": {
				Size:       Gaussian{Mean: 20, SD: 4},
				Complexity: Gaussian{Mean: 35, SD: 4},
				FL1:        Gaussian{Mean: 40, SD: 6},
				FL2:        Gaussian{Mean: 50, SD: 7},
				Proportion: 0.1,
			},
		},
	)
	if err != nil {
		// The built-in defaults sum to 1; reaching this is a programming error.
		panic(err)
	}
	return r
}

// Validate checks the sum-to-one invariant. It never mutates the
// registry. An empty registry is vacuously valid; simulating against one
// is guarded separately by the engine.
func (r *Registry) Validate() error {
	if len(r.names) == 0 {
		return nil
	}
	var sum float64
	for _, name := range r.names {
		sum += r.specs[name].Proportion
	}
	if math.Abs(sum-1.0) > ProportionTolerance {
		return fmt.Errorf("%w: sum is %g", ErrInvalidProportion, sum)
	}
	return nil
}

// Len returns the number of populations.
func (r *Registry) Len() int { return len(r.names) }

// Names returns the population names in iteration order. The returned
// slice is a copy; mutating it does not affect the registry.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Get returns the spec for name.
func (r *Registry) Get(name string) (PopulationSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return PopulationSpec{}, fmt.Errorf("%w: %s", ErrUnknownPopulation, name)
	}
	return spec, nil
}

// Set replaces the spec for an existing population. The mutation is
// atomic: if the resulting registry would violate the sum-to-one
// invariant, the registry is left in its pre-mutation state.
func (r *Registry) Set(name string, spec PopulationSpec) error {
	old, ok := r.specs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPopulation, name)
	}
	r.specs[name] = spec
	if err := r.Validate(); err != nil {
		r.specs[name] = old
		return err
	}
	return nil
}

// Add appends a new population at the end of the iteration order.
// Like Set, it is atomic with respect to validation failure.
func (r *Registry) Add(name string, spec PopulationSpec) error {
	if _, dup := r.specs[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicatePopulation, name)
	}
	r.names = append(r.names, name)
	r.specs[name] = spec
	if err := r.Validate(); err != nil {
		r.names = r.names[:len(r.names)-1]
		delete(r.specs, name)
		return err
	}
	return nil
}

// clone returns a deep copy, used by Rebalance for copy-then-swap mutation.
func (r *Registry) clone() *Registry {
	c := &Registry{
		names: make([]string, len(r.names)),
		specs: make(map[string]PopulationSpec, len(r.specs)),
	}
	copy(c.names, r.names)
	for name, spec := range r.specs {
		c.specs[name] = spec
	}
	return c
}
