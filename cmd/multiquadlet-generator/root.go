package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/multiquadlet-dev/multiquadlet/internal/apperrors"
	"github.com/multiquadlet-dev/multiquadlet/internal/config"
	"github.com/multiquadlet-dev/multiquadlet/internal/engine"
	"github.com/multiquadlet-dev/multiquadlet/internal/generator"
	"github.com/multiquadlet-dev/multiquadlet/internal/journal"
)

var verbose bool

// rootCmd is the generator entry point. systemd invokes generators with
// one required and two optional output directories.
var rootCmd = &cobra.Command{
	Use:   "multiquadlet-generator <gendir> [gendir-early] [gendir-late]",
	Short: "Expand composite Quadlet files and run the Podman Quadlet generator",
	Long: `multiquadlet-generator is a systemd generator shim. It splits composite
.multiquadlet files into individual Quadlet units, hands the full unit set
to the Podman Quadlet generator, records each generated unit's original
source in its SourcePath field, and materializes [Install] sections as
target dependency symlinks in the generator output directory.`,
	Args:          cobra.RangeArgs(1, 3),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd, args)
	},
}

// Execute runs the root command and exits with the run's status: 0 for
// success or nothing-to-do, the external generator's own code when it
// failed, 1 otherwise.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(apperrors.ExitCode(err))
	}
}

func init() {
	cobra.OnInitialize(setupLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "emit debug output")
}

// setupLogging installs the sd-daemon handler: journald reads the <N>
// priority prefix off each stderr line.
func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(journal.NewHandler(os.Stderr, config.ToolName, level)))
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	gendir := args[0]
	var earlyDir, lateDir string
	if len(args) > 1 {
		earlyDir = args[1]
	}
	if len(args) > 2 {
		lateDir = args[2]
	}

	slog.Info("starting run", "scope", cfg.Scope, "input", cfg.UnitDir, "gendir", gendir)

	eng := engine.New(cfg, &generator.ExecInvoker{Path: cfg.GeneratorPath}, slog.Default())
	return eng.Run(cmd.Context(), gendir, earlyDir, lateDir)
}
