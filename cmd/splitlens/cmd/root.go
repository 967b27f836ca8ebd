package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/splitlens/splitlens/internal/community"
	"github.com/splitlens/splitlens/internal/config"
)

var (
	cfgFile string
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "splitlens",
	Short: "SplitLens - Decomposition analysis for legacy applications",
	Long: `SplitLens reads the component inventory produced by the upstream
static-analysis scanner and derives decomposition views from it:
the structural call graph, a package diagram, per-endpoint data
flows, proposed service boundaries, and an architecture summary.

It helps modernization teams answer "Where would this monolith
split?" before committing to an extraction plan.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./splitlens.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func GetConfig() *config.Config {
	return cfg
}

// newLogger builds the process logger. Debug level when --verbose is set.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// detectorOptions maps the config onto the detector's options.
func detectorOptions() *community.Options {
	return &community.Options{MaxPasses: cfg.Detector.MaxPasses}
}
