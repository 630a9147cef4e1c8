package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kalpha/adapters/logging"
	"kalpha/internal/config"
)

// cliState is filled by the root pre-run hook and shared by every subcommand
type cliState struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	state := &cliState{}
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "kalpha",
		Short: "Krippendorff's alpha inter-rater reliability calculator",
		Long: `Compute Krippendorff's alpha for an items x raters rating matrix read from
CSV or XLSX, with optional per-item statistics and bootstrap confidence intervals.

Defaults are read from KALPHA_* environment variables (a .env file in the
working directory is loaded first); command-line flags win over both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is normal
			_ = godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logging.Level = logLevel
			}
			if cmd.Flags().Changed("log-format") {
				cfg.Logging.Format = logFormat
			}

			logger, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			state.cfg = cfg
			state.logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug|info|warn|error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text|json")

	rootCmd.AddCommand(
		newComputeCmd(state),
		newQualityCmd(state),
		newSampleCmd(state),
		newInterpretCmd(),
	)
	return rootCmd
}
