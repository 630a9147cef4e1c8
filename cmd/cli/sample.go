package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"kalpha/domain/reliability"
	"kalpha/internal/errors"
	"kalpha/internal/testkit"
)

func newSampleCmd(state *cliState) *cobra.Command {
	cfg := testkit.DefaultSampleConfig()

	cmd := &cobra.Command{
		Use:   "sample [output-file]",
		Short: "Write a synthetic rating matrix for trying the calculator",
		Long: `Generate a reproducible items x raters rating matrix with a header row.
The file type follows the extension (.xlsx for a workbook, anything else CSV).

Example: kalpha sample ratings.csv --items 50 --raters 3 --agreement high --missing-rate 0.1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSample(cmd, state, cfg, args[0])
		},
	}

	cmd.Flags().IntVar(&cfg.Items, "items", cfg.Items, "Number of items")
	cmd.Flags().IntVar(&cfg.Raters, "raters", cfg.Raters, "Number of raters")
	cmd.Flags().StringVar(&cfg.Agreement, "agreement", cfg.Agreement, "Agreement level: high|medium|low")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Share of cells left empty")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	cmd.Flags().Float64SliceVar(&cfg.Scale, "scale", cfg.Scale, "Values raters choose from")

	return cmd
}

func runSample(cmd *cobra.Command, state *cliState, cfg testkit.SampleConfig, path string) error {
	sample, err := testkit.GenerateSample(cfg)
	if err != nil {
		return errors.InvalidInput(err.Error())
	}

	write := testkit.WriteCSV
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		write = testkit.WriteXLSX
	}
	if err := write(path, sample); err != nil {
		return errors.IOError(fmt.Sprintf("failed to write sample to %s", path), err)
	}

	state.logger.Info("sample written", "path", path, "items", cfg.Items, "raters", cfg.Raters, "agreement", cfg.Agreement)
	fmt.Fprintf(cmd.OutOrStdout(), "Sample data saved to %s (%d items x %d raters)\n", path, cfg.Items, cfg.Raters)
	return nil
}

func newInterpretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "interpret [alpha]",
		Short: "Explain what an alpha value means for reliability decisions",
		Long: `Map an alpha value onto the reliability tiers (>=0.80 acceptable,
0.67-0.80 tentative, below 0.67 unacceptable).

Example: kalpha interpret 0.72`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alpha, err := strconv.ParseFloat(strings.TrimSpace(args[0]), 64)
			if err != nil {
				return errors.InvalidInput(fmt.Sprintf("alpha must be a number, got %q", args[0]))
			}

			in := reliability.Interpret(alpha)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Alpha: %s\n", strconv.FormatFloat(alpha, 'f', 4, 64))
			fmt.Fprintf(out, "Reliability: %s (%s)\n", in.Tier, in.Range)
			fmt.Fprintf(out, "Interpretation: %s\n", in.Description)
			fmt.Fprintf(out, "Recommendation: %s\n", in.Recommendation)
			return nil
		},
	}
}
