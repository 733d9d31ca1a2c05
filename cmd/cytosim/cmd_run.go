package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bridark/Flow-cytometry-simulation/internal/config"
	"github.com/bridark/Flow-cytometry-simulation/internal/dataset"
	"github.com/bridark/Flow-cytometry-simulation/internal/logging"
	"github.com/bridark/Flow-cytometry-simulation/internal/model"
	"github.com/bridark/Flow-cytometry-simulation/internal/simulate"
	"github.com/bridark/Flow-cytometry-simulation/internal/visualization"
)

// ErrNoDataset indicates a visualize request before any simulation has
// produced data in this session.
var ErrNoDataset = errors.New("cytosim: no dataset yet, run simulate first")

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Interactive session: simulate, visualize, and retune",
		Long: `Start an interactive session against the configured population model.

Actions:
  simulate    generate a fresh measurement table
  visualize   render charts from the last simulated table
  parameters  edit one population and rebalance proportions
  quit        leave the session`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := cfg.Registry()
			if err != nil {
				return fmt.Errorf("building population registry: %w", err)
			}

			s := &session{
				cfg:    cfg,
				reg:    reg,
				engine: simulate.NewSeededEngine(cfg.Seed),
				logger: logging.NewLogger(cfg.Logging.Level, os.Stderr),
			}
			return s.loop(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// session holds the state of one interactive run: the registry being
// tuned and the most recently simulated dataset, if any.
type session struct {
	cfg    *config.Config
	reg    *model.Registry
	engine *simulate.Engine
	logger *slog.Logger

	// data is nil until the first simulate action; visualize treats
	// that distinct unset state as ErrNoDataset.
	data *dataset.Dataset
}

func (s *session) loop(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "\nChoose action: [simulate/visualize/parameters/quit] ")
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "simulate":
			if err := s.simulate(out); err != nil {
				fmt.Fprintf(out, "simulate failed: %v\n", err)
			}
		case "visualize":
			if err := s.visualize(reader, out); err != nil {
				fmt.Fprintf(out, "visualize failed: %v\n", err)
			}
		case "parameters":
			if err := s.parameters(reader, out); err != nil {
				fmt.Fprintf(out, "parameters failed: %v\n", err)
			}
		case "quit":
			return nil
		case "":
			// empty line, re-prompt
		default:
			fmt.Fprintln(out, "Unknown action.")
		}
	}
}

func (s *session) simulate(out io.Writer) error {
	d, err := s.engine.Run(s.reg, s.cfg.TotalCells)
	if err != nil {
		return err
	}
	s.data = d
	s.logger.Info("simulation complete", "cells", d.Len())

	fmt.Fprintf(out, "Generated %d cells with distribution:\n", d.Len())
	for _, pc := range d.Counts() {
		fmt.Fprintf(out, "  %-14s %.4f\n", pc.Name, pc.Fraction)
	}
	return nil
}

func (s *session) visualize(reader *bufio.Reader, out io.Writer) error {
	if s.data == nil {
		return ErrNoDataset
	}

	logScale, err := promptYesNo(reader, out, "Use logarithmic scale? [y/n] ", s.cfg.LogScale)
	if err != nil {
		return err
	}

	files, err := renderPanels(s.data, s.cfg.OutputDir, visualization.Options{LogScale: logScale})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Rendered %d charts:\n", len(files))
	for _, f := range files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	return nil
}

func (s *session) parameters(reader *bufio.Reader, out io.Writer) error {
	fmt.Fprintf(out, "Available populations: %s\n", strings.Join(s.reg.Names(), ", "))

	name, err := promptLine(reader, out, "Select population to modify: ")
	if err != nil {
		return err
	}
	spec, err := s.reg.Get(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Current parameters for %s:\n", name)
	fmt.Fprintf(out, "  size: mean=%g, sd=%g\n", spec.Size.Mean, spec.Size.SD)
	fmt.Fprintf(out, "  complexity: mean=%g, sd=%g\n", spec.Complexity.Mean, spec.Complexity.SD)
	fmt.Fprintf(out, "  proportion: %g\n", spec.Proportion)
	fmt.Fprintln(out, "\nEnter new values (leave blank to keep current):")

	if spec.Size.Mean, err = promptFloat(reader, out, "New size mean", spec.Size.Mean); err != nil {
		return err
	}
	if spec.Size.SD, err = promptFloat(reader, out, "New size sd", spec.Size.SD); err != nil {
		return err
	}
	if spec.Complexity.Mean, err = promptFloat(reader, out, "New complexity mean", spec.Complexity.Mean); err != nil {
		return err
	}
	if spec.Complexity.SD, err = promptFloat(reader, out, "New complexity sd", spec.Complexity.SD); err != nil {
		return err
	}
	newProportion, err := promptFloat(reader, out, "New proportion", spec.Proportion)
	if err != nil {
		return err
	}

	if err := s.reg.Set(name, spec); err != nil {
		return err
	}
	if err := s.reg.Rebalance(name, newProportion); err != nil {
		return err
	}

	fmt.Fprintln(out, "Parameters updated!")
	return nil
}

func promptLine(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptFloat(reader *bufio.Reader, out io.Writer, label string, current float64) (float64, error) {
	line, err := promptLine(reader, out, fmt.Sprintf("%s (%g): ", label, current))
	if err != nil {
		return 0, err
	}
	if line == "" {
		return current, nil
	}
	v, err := strconv.ParseFloat(line, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", line, err)
	}
	return v, nil
}

func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string, fallback bool) (bool, error) {
	line, err := promptLine(reader, out, prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(line) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return fallback, nil
	}
}
