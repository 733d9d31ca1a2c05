// Package visualization renders simulated cytometry datasets as charts:
// per-population density scatters and channel histograms. It consumes the
// dataset table only and contains no model logic.
package visualization

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bridark/Flow-cytometry-simulation/internal/dataset"
)

// ErrEmptyDataset indicates a render was requested for a dataset with no rows.
var ErrEmptyDataset = errors.New("visualization: dataset has no rows")

// histogramBins matches the fixed 100-bin layout of the channel histograms.
const histogramBins = 100

// Options controls chart rendering.
type Options struct {
	// Width and Height of the rendered image in pixels; zero values
	// fall back to 800x600.
	Width  int
	Height int

	// LogScale plots log10 of the channel values, clipping at 1 so
	// non-positive readings stay finite.
	LogScale bool
}

func (o Options) size() (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = 800
	}
	if h <= 0 {
		h = 600
	}
	return w, h
}

// palette assigns one color per population in first-appearance order.
var palette = []drawing.Color{
	chart.ColorBlue,
	chart.ColorRed,
	chart.ColorGreen,
	chart.ColorOrange,
	chart.ColorCyan,
	drawing.Color{R: 128, G: 0, B: 128, A: 255}, // purple
}

func populationColor(i int) drawing.Color {
	return palette[i%len(palette)]
}

// DensityPlot renders a two-channel scatter, one dot series per
// population, and writes it as PNG to w.
func DensityPlot(d *dataset.Dataset, xChannel, yChannel string, opts Options, w io.Writer) error {
	if d.Len() == 0 {
		return ErrEmptyDataset
	}

	xCol, err := d.Channel(xChannel)
	if err != nil {
		return err
	}
	yCol, err := d.Channel(yChannel)
	if err != nil {
		return err
	}

	series := make([]chart.Series, 0)
	for i, pc := range d.Counts() {
		xs := make([]float64, 0, pc.Count)
		ys := make([]float64, 0, pc.Count)
		for row, name := range d.Population {
			if name != pc.Name {
				continue
			}
			xs = append(xs, scaled(xCol[row], opts.LogScale))
			ys = append(ys, scaled(yCol[row], opts.LogScale))
		}
		series = append(series, chart.ContinuousSeries{
			Name:    pc.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    2,
				DotColor:    populationColor(i),
			},
		})
	}

	width, height := opts.size()
	graph := chart.Chart{
		Width:  width,
		Height: height,
		XAxis: chart.XAxis{
			Name:  axisLabel(xChannel, opts.LogScale),
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  axisLabel(yChannel, opts.LogScale),
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering %s/%s density plot: %w", xChannel, yChannel, err)
	}
	return nil
}

// Histogram renders overlaid per-population histograms of one channel,
// using 100 bins shared across the channel's full range, and writes the
// chart as PNG to w.
func Histogram(d *dataset.Dataset, channel string, opts Options, w io.Writer) error {
	if d.Len() == 0 {
		return ErrEmptyDataset
	}

	col, err := d.Channel(channel)
	if err != nil {
		return err
	}

	lo, hi := col[0], col[0]
	for _, v := range col {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / histogramBins
	if width == 0 {
		width = 1 // all values identical; one degenerate bin
	}

	centers := make([]float64, histogramBins)
	for b := range centers {
		centers[b] = lo + (float64(b)+0.5)*width
	}

	series := make([]chart.Series, 0)
	for i, pc := range d.Counts() {
		counts := make([]float64, histogramBins)
		for row, name := range d.Population {
			if name != pc.Name {
				continue
			}
			b := int((col[row] - lo) / width)
			if b >= histogramBins {
				b = histogramBins - 1 // the maximum lands in the last bin
			}
			counts[b]++
		}
		series = append(series, chart.ContinuousSeries{
			Name:    pc.Name,
			XValues: centers,
			YValues: counts,
			Style: chart.Style{
				StrokeColor: populationColor(i),
				StrokeWidth: 2.0,
			},
		})
	}

	w0, h0 := opts.size()
	graph := chart.Chart{
		Width:  w0,
		Height: h0,
		XAxis: chart.XAxis{
			Name:  channel,
			Style: chart.Style{FontSize: 10.0},
		},
		YAxis: chart.YAxis{
			Name:  "Count",
			Style: chart.Style{FontSize: 10.0},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("rendering %s histogram: %w", channel, err)
	}
	return nil
}

// scaled applies the optional log10 transform, clipping at 1 as the
// density plots do for non-positive readings.
func scaled(v float64, logScale bool) float64 {
	if !logScale {
		return v
	}
	if v < 1 {
		v = 1
	}
	return math.Log10(v)
}

func axisLabel(channel string, logScale bool) string {
	if logScale {
		return channel + " (log)"
	}
	return channel
}
