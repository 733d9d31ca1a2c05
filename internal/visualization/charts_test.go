package visualization

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/bridark/Flow-cytometry-simulation/internal/dataset"
	"github.com/bridark/Flow-cytometry-simulation/internal/model"
	"github.com/bridark/Flow-cytometry-simulation/internal/simulate"
)

func simulated(t *testing.T) *dataset.Dataset {
	t.Helper()
	e := simulate.NewSeededEngine(3)
	d, err := e.Run(model.DefaultRegistry(), 2000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return d
}

// pngHeader is the fixed 8-byte PNG signature.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestDensityPlotRendersPNG(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"linear", Options{}},
		{"log scale", Options{LogScale: true}},
		{"custom size", Options{Width: 400, Height: 300}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := DensityPlot(simulated(t), dataset.ChannelFSC, dataset.ChannelSSC, tt.opts, &buf); err != nil {
				t.Fatalf("DensityPlot: %v", err)
			}
			if !bytes.HasPrefix(buf.Bytes(), pngHeader) {
				t.Error("output is not a PNG")
			}
		})
	}
}

func TestHistogramRendersPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := Histogram(simulated(t), dataset.ChannelFL1, Options{}, &buf); err != nil {
		t.Fatalf("Histogram: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngHeader) {
		t.Error("output is not a PNG")
	}
}

func TestEmptyDatasetRejected(t *testing.T) {
	var buf bytes.Buffer
	d := dataset.New(0)
	if err := DensityPlot(d, dataset.ChannelFSC, dataset.ChannelSSC, Options{}, &buf); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("DensityPlot(empty) error = %v, want ErrEmptyDataset", err)
	}
	if err := Histogram(d, dataset.ChannelFL1, Options{}, &buf); !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("Histogram(empty) error = %v, want ErrEmptyDataset", err)
	}
}

func TestUnknownChannelRejected(t *testing.T) {
	var buf bytes.Buffer
	d := simulated(t)
	if err := DensityPlot(d, "FL9", dataset.ChannelSSC, Options{}, &buf); err == nil {
		t.Error("DensityPlot with unknown x channel did not fail")
	}
	if err := Histogram(d, "FL9", Options{}, &buf); err == nil {
		t.Error("Histogram with unknown channel did not fail")
	}
}

func TestScaledClipsAtOne(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"negative clips to zero", -5, 0},
		{"below one clips to zero", 0.5, 0},
		{"exactly one", 1, 0},
		{"ten", 10, 1},
		{"thousand", 1000, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scaled(tt.in, true)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("scaled(%g, true) = %g, want %g", tt.in, got, tt.want)
			}
		})
	}
	if got := scaled(-5, false); got != -5 {
		t.Errorf("scaled(-5, false) = %g, want -5", got)
	}
}
