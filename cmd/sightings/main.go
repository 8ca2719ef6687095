package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jengzang/telco-sightings-go/internal/config"
	"github.com/jengzang/telco-sightings-go/internal/logging"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sightings",
		Short: "Synthetic telecom subscriber sightings generator",
		Long: `sightings synthesizes subscriber sightings at cell-tower sites.

It turns candidate points into a sparse site set, builds a distance-weighted
transition graph between sites, walks every subscriber through it hour by hour
and stores the resulting trajectories for querying over HTTP.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newCandidatesCmd(),
		newDedupCmd(),
		newSubscribersCmd(),
		newGenerateCmd(),
		newServeCmd(),
	)

	return rootCmd
}

// loadConfig reads the --config file and builds the logger it configures.
// Logs go to stderr so command output on stdout stays parseable.
func loadConfig(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, cmd.ErrOrStderr()), nil
}

// createOutput opens path for writing, or stdout when path is "-"
func createOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopCloser{cmd.OutOrStdout()}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
