// Package dataset holds the simulated measurement table produced by one
// simulation run: four float64 channels plus a population tag per cell,
// stored column-wise the way downstream consumers read it.
package dataset

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Channel names, in table column order.
const (
	ChannelFSC = "FSC"
	ChannelSSC = "SSC"
	ChannelFL1 = "FL1"
	ChannelFL2 = "FL2"
)

// Channels lists the measured channels in column order.
var Channels = []string{ChannelFSC, ChannelSSC, ChannelFL1, ChannelFL2}

// Cell is the row view of one simulated measurement.
type Cell struct {
	FSC        float64 `json:"fsc"`
	SSC        float64 `json:"ssc"`
	FL1        float64 `json:"fl1"`
	FL2        float64 `json:"fl2"`
	Population string  `json:"population"`
}

// Dataset is a column-oriented table of simulated cells. Rows for one
// population are contiguous, in the order the engine sampled them.
type Dataset struct {
	FSC        []float64
	SSC        []float64
	FL1        []float64
	FL2        []float64
	Population []string
}

// New returns an empty dataset with capacity for n rows.
func New(n int) *Dataset {
	return &Dataset{
		FSC:        make([]float64, 0, n),
		SSC:        make([]float64, 0, n),
		FL1:        make([]float64, 0, n),
		FL2:        make([]float64, 0, n),
		Population: make([]string, 0, n),
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Population) }

// Row returns the i-th cell record.
func (d *Dataset) Row(i int) Cell {
	return Cell{
		FSC:        d.FSC[i],
		SSC:        d.SSC[i],
		FL1:        d.FL1[i],
		FL2:        d.FL2[i],
		Population: d.Population[i],
	}
}

// Append concatenates other onto d, preserving other's row order.
func (d *Dataset) Append(other *Dataset) {
	d.FSC = append(d.FSC, other.FSC...)
	d.SSC = append(d.SSC, other.SSC...)
	d.FL1 = append(d.FL1, other.FL1...)
	d.FL2 = append(d.FL2, other.FL2...)
	d.Population = append(d.Population, other.Population...)
}

// Channel returns the named channel column.
func (d *Dataset) Channel(name string) ([]float64, error) {
	switch name {
	case ChannelFSC:
		return d.FSC, nil
	case ChannelSSC:
		return d.SSC, nil
	case ChannelFL1:
		return d.FL1, nil
	case ChannelFL2:
		return d.FL2, nil
	}
	return nil, fmt.Errorf("dataset: no channel named %q", name)
}

// PopulationCount pairs a population name with its row count.
type PopulationCount struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Fraction float64 `json:"fraction"`
}

// Counts returns per-population row counts in first-appearance order,
// with each count's fraction of the total.
func (d *Dataset) Counts() []PopulationCount {
	order := make([]string, 0)
	counts := make(map[string]int)
	for _, name := range d.Population {
		if _, seen := counts[name]; !seen {
			order = append(order, name)
		}
		counts[name]++
	}

	total := d.Len()
	out := make([]PopulationCount, 0, len(order))
	for _, name := range order {
		pc := PopulationCount{Name: name, Count: counts[name]}
		if total > 0 {
			pc.Fraction = float64(counts[name]) / float64(total)
		}
		out = append(out, pc)
	}
	return out
}

// ChannelSummary holds the observed mean and standard deviation of one
// channel within one population.
type ChannelSummary struct {
	Channel string  `json:"channel"`
	Mean    float64 `json:"mean"`
	SD      float64 `json:"sd"`
}

// Summary computes per-channel sample statistics for each population,
// keyed by population name.
func (d *Dataset) Summary() map[string][]ChannelSummary {
	byPop := make(map[string]map[string][]float64)
	for i, name := range d.Population {
		cols, ok := byPop[name]
		if !ok {
			cols = make(map[string][]float64, len(Channels))
			byPop[name] = cols
		}
		cols[ChannelFSC] = append(cols[ChannelFSC], d.FSC[i])
		cols[ChannelSSC] = append(cols[ChannelSSC], d.SSC[i])
		cols[ChannelFL1] = append(cols[ChannelFL1], d.FL1[i])
		cols[ChannelFL2] = append(cols[ChannelFL2], d.FL2[i])
	}

	out := make(map[string][]ChannelSummary, len(byPop))
	for name, cols := range byPop {
		summaries := make([]ChannelSummary, 0, len(Channels))
		for _, ch := range Channels {
			values := cols[ch]
			summaries = append(summaries, ChannelSummary{
				Channel: ch,
				Mean:    stat.Mean(values, nil),
				SD:      stat.StdDev(values, nil),
			})
		}
		out[name] = summaries
	}
	return out
}
