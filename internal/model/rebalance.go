package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateRebalance indicates the remaining share cannot be
	// redistributed because every other population already sits at zero.
	ErrDegenerateRebalance = errors.New("model: cannot rebalance, all other proportions are zero")

	// ErrProportionOutOfRange indicates a requested proportion outside [0,1].
	ErrProportionOutOfRange = errors.New("model: proportion must be in [0,1]")
)

// Rebalance sets the target population's proportion and redistributes the
// remaining share (1 - newProportion) across the other populations in
// proportion to their pre-edit weights. The target's old weight is
// discarded, not folded into the redistribution denominator.
//
// The edit is computed on a scratch copy and swapped in only after
// validation, so a failed rebalance leaves the registry untouched and a
// reader never observes a half-applied state.
func (r *Registry) Rebalance(name string, newProportion float64) error {
	if newProportion < 0 || newProportion > 1 {
		return fmt.Errorf("%w: got %g", ErrProportionOutOfRange, newProportion)
	}
	if _, ok := r.specs[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPopulation, name)
	}

	scratch := r.clone()

	target := scratch.specs[name]
	target.Proportion = newProportion
	scratch.specs[name] = target

	var totalOther float64
	others := make([]string, 0, len(scratch.names)-1)
	for _, n := range scratch.names {
		if n == name {
			continue
		}
		others = append(others, n)
		totalOther += scratch.specs[n].Proportion
	}

	if len(others) > 0 {
		if totalOther == 0 {
			return ErrDegenerateRebalance
		}
		remaining := 1 - newProportion
		for _, n := range others {
			spec := scratch.specs[n]
			spec.Proportion = spec.Proportion / totalOther * remaining
			scratch.specs[n] = spec
		}
	}

	if err := scratch.Validate(); err != nil {
		return err
	}

	r.names = scratch.names
	r.specs = scratch.specs
	return nil
}
