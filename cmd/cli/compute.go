package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kalpha/adapters/datareadiness/coercer"
	"kalpha/adapters/excel"
	"kalpha/adapters/export"
	"kalpha/adapters/rng"
	"kalpha/internal/config"
	"kalpha/internal/krippendorff"
	"kalpha/ports"
)

// inputFlags are the loader flags shared by compute and quality
type inputFlags struct {
	separator  string
	header     bool
	itemLabels bool
	keepLabels bool
	sheet      string
	missing    []string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.separator, "separator", "auto", "CSV separator: auto|,|;|tab||")
	cmd.Flags().BoolVar(&f.header, "header", false, "First row holds rater names")
	cmd.Flags().BoolVar(&f.itemLabels, "item-labels", false, "First column holds item names")
	cmd.Flags().BoolVar(&f.keepLabels, "keep-labels", false, "Keep non-numeric cells as categorical labels")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "XLSX sheet name (default: first sheet)")
	cmd.Flags().StringSliceVar(&f.missing, "missing", nil, "Extra missing-value spellings, e.g. --missing=-99,skip")
}

// apply lets explicitly set flags override the environment defaults
func (f *inputFlags) apply(cmd *cobra.Command, in *config.InputConfig) {
	if cmd.Flags().Changed("separator") {
		in.Separator = f.separator
	}
	if cmd.Flags().Changed("header") {
		in.Header = f.header
	}
	if cmd.Flags().Changed("item-labels") {
		in.ItemLabels = f.itemLabels
	}
	if cmd.Flags().Changed("keep-labels") {
		in.KeepLabels = f.keepLabels
	}
	if cmd.Flags().Changed("missing") {
		in.Missing = append(in.Missing, f.missing...)
	}
}

// readRatings loads path with the resolved input settings
func readRatings(state *cliState, in config.InputConfig, sheet, path string) (*ports.RatingData, error) {
	opts := excel.DefaultReadOptions()
	if in.Separator != "auto" {
		sep, err := excel.ParseSeparator(in.Separator)
		if err != nil {
			return nil, err
		}
		opts.Separator = string(sep)
	}
	opts.Header = in.Header
	opts.ItemLabelColumn = in.ItemLabels
	opts.Sheet = sheet
	opts.Coercion.KeepLabels = in.KeepLabels
	opts.Coercion.MissingTokens = append(append([]string{}, coercer.DefaultMissingTokens...), in.Missing...)

	var reader ports.RatingReader = excel.NewDataReader(path, opts, state.logger)
	return reader.ReadRatings()
}

func newComputeCmd(state *cliState) *cobra.Command {
	var (
		input           inputFlags
		level           string
		bootstrap       int
		confidence      float64
		seed            int64
		workers         int
		normalization   string
		interval        string
		items           bool
		output          string
		format          string
		keepOrientation bool
		noValidate      bool
		quality         bool
		jsonOut         bool
	)

	cmd := &cobra.Command{
		Use:   "compute [ratings-file]",
		Short: "Compute Krippendorff's alpha for a rating matrix",
		Long: `Compute Krippendorff's alpha for a CSV or XLSX file laid out as items x raters.

Missing ratings are empty cells, NA-style tokens, or any spelling passed with
--missing. A 2 x N matrix with more than two columns is read as raters x items
and transposed unless --keep-orientation is set.

Expected disagreement uses the published n(n-1) denominator. Pass
--normalization pairable to divide by n-1 only and reproduce legacy outputs
exactly.

Example:
  kalpha compute ratings.csv --level ordinal --bootstrap 1000 --seed 42 --output report.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *state.cfg
			input.apply(cmd, &cfg.Input)

			c := &cfg.Compute
			if cmd.Flags().Changed("bootstrap") {
				c.Bootstrap = bootstrap
			}
			if cmd.Flags().Changed("confidence") {
				c.Confidence = confidence
			}
			if cmd.Flags().Changed("seed") {
				c.Seed = krippendorff.WithSeed(seed)
			}
			if cmd.Flags().Changed("workers") {
				c.Workers = workers
			}
			if cmd.Flags().Changed("normalization") {
				c.Normalization = normalization
			}
			if cmd.Flags().Changed("interval") {
				c.Interval = interval
			}
			if cmd.Flags().Changed("format") {
				cfg.Output.Format = strings.ToLower(format)
			}

			opts, err := c.Options(level)
			if err != nil {
				return err
			}
			opts.ReturnItems = items
			opts.KeepOrientation = keepOrientation
			opts.Validate = !noValidate
			opts.Missing = cfg.Input.MissingValues()

			return runCompute(cmd, state, cfg, opts, input.sheet, args[0], output, quality, jsonOut)
		},
	}

	input.register(cmd)
	cmd.Flags().StringVarP(&level, "level", "l", "", "Measurement scale: nominal|ordinal|interval|ratio (required unless KALPHA_LEVEL is set)")
	cmd.Flags().IntVarP(&bootstrap, "bootstrap", "b", 0, "Bootstrap iterations for the confidence interval (0 disables)")
	cmd.Flags().Float64Var(&confidence, "confidence", krippendorff.DefaultConfidence, "Confidence interval level")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed for reproducible bootstrap samples")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel bootstrap workers (0 = GOMAXPROCS)")
	cmd.Flags().StringVar(&normalization, "normalization", "canonical", "Expected-disagreement denominator: canonical (n(n-1)) | pairable (n-1, legacy outputs)")
	cmd.Flags().StringVar(&interval, "interval", "bias-corrected", "Interval method: bias-corrected|percentile")
	cmd.Flags().BoolVar(&items, "items", false, "Report per-item statistics")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Save results to this file")
	cmd.Flags().StringVar(&format, "format", "", "Output format: json|csv|txt|xlsx|html (default: from the file extension)")
	cmd.Flags().BoolVar(&keepOrientation, "keep-orientation", false, "Never transpose a 2 x N matrix")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip scale validation")
	cmd.Flags().BoolVar(&quality, "quality", false, "Attach a data-quality report")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the result as JSON instead of the summary")

	return cmd
}

func runCompute(cmd *cobra.Command, state *cliState, cfg config.Config, opts krippendorff.Options, sheet, path, output string, quality, jsonOut bool) error {
	data, err := readRatings(state, cfg.Input, sheet, path)
	if err != nil {
		return err
	}

	opts.ItemLabels = data.ItemLabels
	if rows, cols := data.Matrix.Dims(); !opts.KeepOrientation && rows == 2 && cols > 2 {
		// after the transpose the rater columns become the items
		opts.ItemLabels = data.RaterLabels
	}

	estimator := krippendorff.NewEstimator(rng.NewAdapter(), state.logger)
	res, err := estimator.Compute(cmd.Context(), data.Matrix, opts)
	if err != nil {
		return err
	}

	bundle := export.NewBundle(data.Source, res)
	bundle.RaterLabels = data.RaterLabels
	if quality {
		checked := data.Matrix
		if res.Transposed {
			checked = checked.Transpose()
		}
		bundle.WithQuality(krippendorff.CheckQuality(checked, opts.Missing))
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		w, err := export.NewWriter(bundle, export.FormatJSON, "")
		if err != nil {
			return err
		}
		if err := w.Render(out); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, export.FormatSummary(bundle))
		if bundle.Quality != nil {
			printQuality(out, *bundle.Quality)
		}
	}

	if output != "" {
		if err := export.Write(bundle, output, cfg.Output.Format); err != nil {
			return err
		}
		if !jsonOut {
			fmt.Fprintf(out, "Results saved to %s\n", output)
		}
	}
	return nil
}

func newQualityCmd(state *cliState) *cobra.Command {
	var input inputFlags

	cmd := &cobra.Command{
		Use:   "quality [ratings-file]",
		Short: "Report missing data and value coverage before computing alpha",
		Long: `Check a rating file for missing cells, items with too few ratings to pair,
and the range of observed values.

Example: kalpha quality ratings.csv --header --missing=-99`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *state.cfg
			input.apply(cmd, &cfg.Input)

			data, err := readRatings(state, cfg.Input, input.sheet, args[0])
			if err != nil {
				return err
			}
			report := krippendorff.CheckQuality(data.Matrix, cfg.Input.MissingValues())
			printQuality(cmd.OutOrStdout(), report)
			return nil
		},
	}

	input.register(cmd)
	return cmd
}

func printQuality(w io.Writer, q krippendorff.QualityReport) {
	fmt.Fprintln(w, "Data Quality")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Items: %d\n", q.Items)
	fmt.Fprintf(w, "Raters: %d\n", q.Raters)
	fmt.Fprintf(w, "Missing: %d of %d cells (%.1f%%)\n", q.MissingCells, q.TotalCells, q.MissingPercent)
	fmt.Fprintf(w, "Items with 2+ ratings: %d\n", q.SufficientItems)
	fmt.Fprintf(w, "Items with fewer than 2 ratings: %d\n", q.InsufficientItems)
	fmt.Fprintf(w, "Unique values: %d\n", q.UniqueValues)
	fmt.Fprintf(w, "Value range: %s\n", q.ValueRange)
}
