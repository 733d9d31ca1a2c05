package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bridark/Flow-cytometry-simulation/internal/config"
)

var version = "0.1.0-dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "cytosim",
		Short: "Synthetic flow-cytometry data generator",
		Long: `cytosim generates synthetic multi-population flow-cytometry
measurements for testing, demos, and algorithm validation.

Each population is a set of independent Gaussian channels plus a mixture
proportion; sampled cells receive double-positive injection and a
spectral-crosstalk transform before the table is handed to consumers.`,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("config", "", "Config file path (default ~/.cytosim/config.yaml)")

	// Add subcommands
	rootCmd.AddCommand(
		newVersionCmd(),
		newSimulateCmd(),
		newVisualizeCmd(),
		newParametersCmd(),
		newRunCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				fmt.Fprintf(cmd.OutOrStdout(), "{\"version\":%q}\n", version)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "cytosim version %s\n", version)
			}
		},
	}
}

// loadConfig resolves the effective configuration for a command: the
// --config file when given, otherwise the default locations plus
// environment overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
