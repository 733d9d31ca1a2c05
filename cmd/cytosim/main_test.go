package main

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/bridark/Flow-cytometry-simulation/internal/dataset"
	"github.com/bridark/Flow-cytometry-simulation/internal/model"
	"github.com/bridark/Flow-cytometry-simulation/internal/simulate"
	"github.com/bridark/Flow-cytometry-simulation/internal/visualization"
)

// newTestRootCmd creates a root command with persistent flags for testing subcommands
func newTestRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "cytosim",
	}
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	return rootCmd
}

// isolateHome points HOME at a temp directory so tests never read a
// real ~/.cytosim/config.yaml.
func isolateHome(t *testing.T) {
	t.Helper()
	tmpHome := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(tmpHome, 0700); err != nil {
		t.Fatalf("Failed to create temp home: %v", err)
	}
	t.Setenv("HOME", tmpHome)
}

func TestNewVersionCmd(t *testing.T) {
	cmd := newVersionCmd()
	if cmd.Use != "version" {
		t.Errorf("Use = %q, want %q", cmd.Use, "version")
	}
}

func TestNewSimulateCmd(t *testing.T) {
	cmd := newSimulateCmd()
	if cmd.Use != "simulate" {
		t.Errorf("Use = %q, want %q", cmd.Use, "simulate")
	}
	for _, flag := range []string{"cells", "seed"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}

func TestNewVisualizeCmd(t *testing.T) {
	cmd := newVisualizeCmd()
	if cmd.Use != "visualize" {
		t.Errorf("Use = %q, want %q", cmd.Use, "visualize")
	}
	for _, flag := range []string{"log", "out", "cells", "seed"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}

func TestNewParametersCmd(t *testing.T) {
	cmd := newParametersCmd()
	if cmd.Use != "parameters" {
		t.Errorf("Use = %q, want %q", cmd.Use, "parameters")
	}
	for _, flag := range []string{"set", "proportion", "size-mean", "size-sd", "complexity-mean", "complexity-sd"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("missing --%s flag", flag)
		}
	}
}

func TestVersionCmdJSON(t *testing.T) {
	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newVersionCmd())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version", "--json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version failed: %v", err)
	}

	var got map[string]string
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output %q: %v", out.String(), err)
	}
	if got["version"] != version {
		t.Errorf("version = %q, want %q", got["version"], version)
	}
}

func TestSimulateCmdJSON(t *testing.T) {
	isolateHome(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newSimulateCmd())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"simulate", "--cells", "50", "--seed", "1", "--json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	var got struct {
		Cells  int                       `json:"cells"`
		Seed   int64                     `json:"seed"`
		Counts []dataset.PopulationCount `json:"counts"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output %q: %v", out.String(), err)
	}

	// 50 cells at 0.6/0.3/0.1 truncate to exactly 30+15+5.
	if got.Cells != 50 {
		t.Errorf("cells = %d, want 50", got.Cells)
	}
	if got.Seed != 1 {
		t.Errorf("seed = %d, want 1", got.Seed)
	}
	if len(got.Counts) != 3 {
		t.Fatalf("counts = %d populations, want 3", len(got.Counts))
	}
	if got.Counts[0].Name != "lymphocytes" || got.Counts[0].Count != 30 {
		t.Errorf("first population = %s/%d, want lymphocytes/30", got.Counts[0].Name, got.Counts[0].Count)
	}
}

func TestSimulateCmdText(t *testing.T) {
	isolateHome(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newSimulateCmd())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"simulate", "--cells", "100", "--seed", "7"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	if !strings.Contains(out.String(), "Generated 100 cells with distribution:") {
		t.Errorf("missing summary line in output:\n%s", out.String())
	}
	for _, name := range []string{"lymphocytes", "monocytes", "granulocytes"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("output missing population %s:\n%s", name, out.String())
		}
	}
}

func TestParametersCmdRebalance(t *testing.T) {
	isolateHome(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newParametersCmd())

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"parameters", "--set", "lymphocytes", "--proportion", "0.5", "--json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("parameters failed: %v", err)
	}

	var got []struct {
		Name string               `json:"name"`
		Spec model.PopulationSpec `json:"spec"`
	}
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON output %q: %v", out.String(), err)
	}

	want := map[string]float64{
		"lymphocytes":  0.5,
		"monocytes":    0.375,
		"granulocytes": 0.125,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d populations, want %d", len(got), len(want))
	}
	for _, pv := range got {
		if math.Abs(pv.Spec.Proportion-want[pv.Name]) > 1e-12 {
			t.Errorf("%s proportion = %v, want %v", pv.Name, pv.Spec.Proportion, want[pv.Name])
		}
	}
}

func TestParametersCmdUnknownPopulation(t *testing.T) {
	isolateHome(t)

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newParametersCmd())
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"parameters", "--set", "platelets", "--proportion", "0.5"})

	if err := rootCmd.Execute(); err == nil {
		t.Error("expected error for unknown population, got nil")
	}
}

func TestVisualizeCmdWritesFiles(t *testing.T) {
	isolateHome(t)
	outDir := t.TempDir()

	rootCmd := newTestRootCmd()
	rootCmd.AddCommand(newVisualizeCmd())
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"visualize", "--cells", "500", "--seed", "3", "--out", outDir})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("visualize failed: %v", err)
	}

	for _, p := range panels {
		path := filepath.Join(outDir, p.file)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("missing chart %s: %v", p.file, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("chart %s is empty", p.file)
		}
	}
}

func TestRenderPanelsCreatesDirectory(t *testing.T) {
	d, err := simulate.NewSeededEngine(2).Run(model.DefaultRegistry(), 300)
	if err != nil {
		t.Fatalf("simulation failed: %v", err)
	}

	dir := filepath.Join(t.TempDir(), "nested", "plots")
	files, err := renderPanels(d, dir, visualization.Options{LogScale: true})
	if err != nil {
		t.Fatalf("renderPanels failed: %v", err)
	}
	if len(files) != len(panels) {
		t.Errorf("rendered %d files, want %d", len(files), len(panels))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("missing rendered file %s: %v", f, err)
		}
	}
}

func TestLoadConfigWithFile(t *testing.T) {
	isolateHome(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "total_cells: 1234\nseed: 9\n"
	if err := os.WriteFile(path, []byte(yaml), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	rootCmd := newTestRootCmd()
	cmd := &cobra.Command{Use: "probe", RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.TotalCells != 1234 {
			t.Errorf("TotalCells = %d, want 1234", cfg.TotalCells)
		}
		if cfg.Seed != 9 {
			t.Errorf("Seed = %d, want 9", cfg.Seed)
		}
		return nil
	}}
	rootCmd.AddCommand(cmd)
	rootCmd.SetArgs([]string{"probe", "--config", path})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
}
