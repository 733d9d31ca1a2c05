// Package simulate draws synthetic flow-cytometry measurements from a
// population registry: per-population Gaussian sampling with
// double-positive injection, followed by a sequential spectral-crosstalk
// transform over the concatenated table.
//
// Randomness is injected as a *rand.Rand so runs are reproducible and the
// sampler is testable without touching process-wide random state.
package simulate
