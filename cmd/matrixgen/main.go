package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ternarybob/matrixgen/internal/common"
	matrixsvc "github.com/ternarybob/matrixgen/internal/services/matrix"
	"github.com/ternarybob/matrixgen/internal/services/output"
)

// options holds command-line flag values; empty values leave the config untouched
type options struct {
	format       string
	githubOutput string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "matrixgen <config.toml>",
		Short: "Generate the CI build matrix from a toolchain config",
		Long: `Reads [toolchain] targets and profile from a TOML config, classifies each target triple
and announces the build matrix as "::set-output name=matrix::<json>" on stdout.`,
		Args:          cobra.ExactArgs(1),
		Version:       common.GetFullVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "", "Output format: set-output, github-output or yaml (overrides config)")
	cmd.Flags().StringVar(&opts.githubOutput, "github-output", "", "Append matrix=<json> to this file instead of printing (implies --format github-output)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error (overrides config)")

	return cmd
}

func run(cmd *cobra.Command, configPath string, opts *options) error {
	// Startup sequence:
	// 1. Load config (defaults -> file -> env)
	// 2. Apply CLI overrides (highest priority)
	// 3. Initialize logger
	config, err := common.LoadFromFile(configPath)
	if err != nil {
		return err
	}

	common.ApplyFlagOverrides(config, opts.format, opts.githubOutput, opts.logLevel)
	if err := config.Validate(); err != nil {
		return err
	}

	logger := common.InitLogger(config, common.NewRunID())

	logger.Debug().
		Str("config_file", configPath).
		Str("output_format", config.Output.Format).
		Str("log_level", config.Logging.Level).
		Str("version", common.GetVersion()).
		Msg("Configuration loaded")

	ctx := cmd.Context()

	doc, err := matrixsvc.NewService(logger).Generate(ctx, config)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to generate build matrix")
		return err
	}

	if err := output.NewService(cmd.OutOrStdout(), logger).Emit(ctx, config.Output, doc); err != nil {
		logger.Error().Err(err).Str("format", config.Output.Format).Msg("Failed to emit build matrix")
		return err
	}

	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "matrixgen: %v\n", err)
		os.Exit(1)
	}
}
