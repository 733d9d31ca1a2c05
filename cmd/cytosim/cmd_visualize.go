package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bridark/Flow-cytometry-simulation/internal/dataset"
	"github.com/bridark/Flow-cytometry-simulation/internal/logging"
	"github.com/bridark/Flow-cytometry-simulation/internal/simulate"
	"github.com/bridark/Flow-cytometry-simulation/internal/visualization"
)

// chartSpec names one rendered panel: either a two-channel density
// scatter or a single-channel histogram.
type chartSpec struct {
	file     string
	xChannel string
	yChannel string // empty means histogram of xChannel
}

// panels mirrors the classic 2x2 layout: two density plots, two histograms.
var panels = []chartSpec{
	{file: "density_fsc_ssc.png", xChannel: dataset.ChannelFSC, yChannel: dataset.ChannelSSC},
	{file: "density_fl1_fl2.png", xChannel: dataset.ChannelFL1, yChannel: dataset.ChannelFL2},
	{file: "hist_fsc.png", xChannel: dataset.ChannelFSC},
	{file: "hist_fl1.png", xChannel: dataset.ChannelFL1},
}

func newVisualizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visualize",
		Short: "Simulate and render the standard chart panels",
		Long: `Run one simulation and render its charts as PNG files:
FSC/SSC and FL1/FL2 density scatters plus FSC and FL1 histograms.

Example:
  cytosim visualize --log --out plots`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			outDir := cfg.OutputDir
			if cmd.Flags().Changed("out") {
				outDir, _ = cmd.Flags().GetString("out")
			}
			logScale := cfg.LogScale
			if cmd.Flags().Changed("log") {
				logScale, _ = cmd.Flags().GetBool("log")
			}
			cells := cfg.TotalCells
			if cmd.Flags().Changed("cells") {
				cells, _ = cmd.Flags().GetInt("cells")
			}
			seed := cfg.Seed
			if cmd.Flags().Changed("seed") {
				seed, _ = cmd.Flags().GetInt64("seed")
			}

			logger := logging.NewLogger(cfg.Logging.Level, os.Stderr)

			reg, err := cfg.Registry()
			if err != nil {
				return fmt.Errorf("building population registry: %w", err)
			}

			d, err := simulate.NewSeededEngine(seed).Run(reg, cells)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			files, err := renderPanels(d, outDir, visualization.Options{LogScale: logScale})
			if err != nil {
				return err
			}
			logger.Info("charts rendered", "dir", outDir, "count", len(files), "log_scale", logScale)

			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"cells": d.Len(),
					"files": files,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d charts from %d cells:\n", len(files), d.Len())
			for _, f := range files {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().Bool("log", false, "Use logarithmic scale for density plots")
	cmd.Flags().String("out", "", "Output directory for PNG files (overrides config)")
	cmd.Flags().Int("cells", 0, "Number of cells to simulate (overrides config)")
	cmd.Flags().Int64("seed", 0, "Random seed (overrides config)")

	return cmd
}

// renderPanels writes the standard chart set for d into dir and returns
// the written file paths.
func renderPanels(d *dataset.Dataset, dir string, opts visualization.Options) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	files := make([]string, 0, len(panels))
	for _, p := range panels {
		path := filepath.Join(dir, p.file)
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}

		if p.yChannel != "" {
			err = visualization.DensityPlot(d, p.xChannel, p.yChannel, opts, f)
		} else {
			// Histograms keep linear counts regardless of the axis scale.
			err = visualization.Histogram(d, p.xChannel, visualization.Options{Width: opts.Width, Height: opts.Height}, f)
		}
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return nil, err
		}
		files = append(files, path)
	}
	return files, nil
}
