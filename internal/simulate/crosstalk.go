package simulate

import "github.com/bridark/Flow-cytometry-simulation/internal/dataset"

// Spectral bleed-through coefficients between the fluorescence channels.
const (
	crosstalkFL2IntoFL1 = 0.1
	crosstalkFL1IntoFL2 = 0.05
)

// Crosstalk applies cascaded spectral bleed-through to the whole table,
// in place. The order is part of the model and must not change:
//
//	FL1 += 0.1  * FL2   (pre-update FL2)
//	FL2 += 0.05 * FL1   (the FL1 just updated above)
//
// The second step reads the already-bled FL1, so reversing the steps
// produces different numbers.
func Crosstalk(d *dataset.Dataset) {
	for i := range d.FL1 {
		d.FL1[i] += crosstalkFL2IntoFL1 * d.FL2[i]
		d.FL2[i] += crosstalkFL1IntoFL2 * d.FL1[i]
	}
}
