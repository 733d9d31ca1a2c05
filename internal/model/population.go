// Package model defines the generative population model for synthetic
// flow-cytometry data: per-population distribution parameters, the
// registry that owns them, and the proportion-rebalancing operation.
package model

// Gaussian holds the (mean, sd) parameterization of one measured channel.
type Gaussian struct {
	Mean float64 `json:"mean" yaml:"mean"`
	SD   float64 `json:"sd" yaml:"sd"`
}

// PopulationSpec describes one cell population's generative distribution.
//
// Each channel is an independent Gaussian; Proportion is the population's
// mixture weight within the whole sample. All proportions in a registry
// must sum to 1.
type PopulationSpec struct {
	// Size drives the forward-scatter (FSC) channel.
	Size Gaussian `json:"size" yaml:"size"`

	// Complexity drives the side-scatter (SSC) channel.
	Complexity Gaussian `json:"complexity" yaml:"complexity"`

	// FL1 and FL2 are the two fluorescence channels.
	FL1 Gaussian `json:"fl1" yaml:"fl1"`
	FL2 Gaussian `json:"fl2" yaml:"fl2"`

	// Proportion is the mixture weight, in [0,1].
	Proportion float64 `json:"proportion" yaml:"proportion"`
}
