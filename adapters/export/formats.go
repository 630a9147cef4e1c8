package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"kalpha/domain/reliability"
	"kalpha/internal/krippendorff"
)

type jsonInterval struct {
	Low    *float64 `json:"low"`
	High   *float64 `json:"high"`
	Level  float64  `json:"level"`
	Method string   `json:"method"`
}

type jsonItem struct {
	Index        int      `json:"index"`
	Label        string   `json:"label,omitempty"`
	Ratings      int      `json:"num_ratings"`
	Unique       int      `json:"num_unique"`
	StdDev       *float64 `json:"std_dev"`
	Disagreement *float64 `json:"pairwise_disagreement"`
	Agreement    *float64 `json:"agreement_ratio"`
}

type jsonBootstrap struct {
	Iterations int      `json:"iterations"`
	Samples    int      `json:"samples"`
	Mean       *float64 `json:"mean"`
	Median     *float64 `json:"median"`
	StdDev     *float64 `json:"std_dev"`
}

type jsonDocument struct {
	ID                   string                      `json:"id"`
	CreatedAt            string                      `json:"created_at"`
	Source               string                      `json:"source,omitempty"`
	Alpha                *float64                    `json:"alpha"`
	ObservedDisagreement *float64                    `json:"observed_disagreement"`
	ExpectedDisagreement *float64                    `json:"expected_disagreement"`
	Level                string                      `json:"level"`
	Normalization        string                      `json:"normalization"`
	Items                int                         `json:"num_items"`
	Raters               int                         `json:"num_raters"`
	PairableItems        int                         `json:"pairable_items"`
	PairableValues       int                         `json:"pairable_values"`
	Transposed           bool                        `json:"transposed"`
	RaterLabels          []string                    `json:"rater_labels,omitempty"`
	Interpretation       reliability.Interpretation  `json:"interpretation"`
	Interval             *jsonInterval               `json:"confidence_interval,omitempty"`
	Bootstrap            *jsonBootstrap              `json:"bootstrap,omitempty"`
	ItemStats            []jsonItem                  `json:"item_statistics,omitempty"`
	Quality              *krippendorff.QualityReport `json:"data_quality,omitempty"`
	Warnings             []string                    `json:"warnings,omitempty"`
}

func renderJSON(w io.Writer, b *Bundle) error {
	res := b.Result
	doc := jsonDocument{
		ID:                   b.ID.String(),
		CreatedAt:            b.CreatedAt.Format(time.RFC3339),
		Source:               b.Source,
		Alpha:                nullable(res.Alpha),
		ObservedDisagreement: nullable(res.Observed),
		ExpectedDisagreement: nullable(res.Expected),
		Level:                res.Level.String(),
		Normalization:        res.Normalization.String(),
		Items:                res.Items,
		Raters:               res.Raters,
		PairableItems:        res.PairableItems,
		PairableValues:       res.PairableValues,
		Transposed:           res.Transposed,
		RaterLabels:          b.RaterLabels,
		Interpretation:       b.Interpretation,
		Quality:              b.Quality,
		Warnings:             res.Warnings,
	}

	if ci := res.Interval; ci != nil {
		doc.Interval = &jsonInterval{
			Low:    nullable(ci.Low),
			High:   nullable(ci.High),
			Level:  ci.Level,
			Method: ci.Method.String(),
		}
	}
	if s := b.Bootstrap; s != nil {
		doc.Bootstrap = &jsonBootstrap{
			Iterations: res.Iterations,
			Samples:    s.Samples,
			Mean:       nullable(s.Mean),
			Median:     nullable(s.Median),
			StdDev:     nullable(s.StdDev),
		}
	}
	for _, it := range res.ItemStats {
		doc.ItemStats = append(doc.ItemStats, jsonItem{
			Index:        it.Index,
			Label:        it.Label,
			Ratings:      it.Ratings,
			Unique:       it.Unique,
			StdDev:       nullable(it.StdDev),
			Disagreement: nullable(it.Disagreement),
			Agreement:    nullable(it.Agreement),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// summaryRows is the flat key/value view shared by CSV, text and XLSX output
func summaryRows(b *Bundle) [][2]string {
	res := b.Result
	rows := [][2]string{
		{"id", b.ID.String()},
		{"created_at", b.CreatedAt.Format(time.RFC3339)},
		{"source", b.Source},
		{"alpha", cell(res.Alpha)},
		{"observed_disagreement", cell(res.Observed)},
		{"expected_disagreement", cell(res.Expected)},
		{"level", res.Level.String()},
		{"normalization", res.Normalization.String()},
		{"num_items", strconv.Itoa(res.Items)},
		{"num_raters", strconv.Itoa(res.Raters)},
		{"pairable_items", strconv.Itoa(res.PairableItems)},
		{"pairable_values", strconv.Itoa(res.PairableValues)},
		{"transposed", strconv.FormatBool(res.Transposed)},
		{"reliability", string(b.Interpretation.Tier)},
	}
	if ci := res.Interval; ci != nil {
		rows = append(rows,
			[2]string{"ci_low", cell(ci.Low)},
			[2]string{"ci_high", cell(ci.High)},
			[2]string{"ci_level", cell(ci.Level)},
			[2]string{"ci_method", ci.Method.String()},
			[2]string{"bootstrap_iterations", strconv.Itoa(res.Iterations)},
			[2]string{"bootstrap_samples", strconv.Itoa(len(res.Bootstrap))},
		)
	}
	return rows
}

var itemHeader = []string{"index", "label", "num_ratings", "num_unique", "std_dev", "pairwise_disagreement", "agreement_ratio"}

func itemRow(it reliability.ItemStats) []string {
	return []string{
		strconv.Itoa(it.Index),
		it.Label,
		strconv.Itoa(it.Ratings),
		strconv.Itoa(it.Unique),
		cell(it.StdDev),
		cell(it.Disagreement),
		cell(it.Agreement),
	}
}

// renderCSV writes a single header+values row like a one-row data frame.
// Item statistics, when present, follow after a blank line.
func renderCSV(w io.Writer, b *Bundle) error {
	cw := csv.NewWriter(w)
	rows := summaryRows(b)

	header := make([]string, len(rows))
	values := make([]string, len(rows))
	for i, kv := range rows {
		header[i], values[i] = kv[0], kv[1]
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.Write(values); err != nil {
		return err
	}

	if stats := b.Result.ItemStats; stats != nil {
		if err := cw.Write(nil); err != nil {
			return err
		}
		if err := cw.Write(itemHeader); err != nil {
			return err
		}
		for _, it := range stats {
			if err := cw.Write(itemRow(it)); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

func renderText(w io.Writer, b *Bundle) error {
	if _, err := io.WriteString(w, FormatSummary(b)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "\nRun: %s (%s)\n", b.ID, b.CreatedAt.Format(time.RFC3339)); err != nil {
		return err
	}
	if b.Source != "" {
		if _, err := fmt.Fprintf(w, "Source: %s\n", b.Source); err != nil {
			return err
		}
	}
	if q := b.Quality; q != nil {
		_, err := fmt.Fprintf(w, "Missing: %d of %d cells (%.1f%%), %d items with insufficient data\n",
			q.MissingCells, q.TotalCells, q.MissingPercent, q.InsufficientItems)
		if err != nil {
			return err
		}
	}

	if stats := b.Result.ItemStats; stats != nil {
		if _, err := io.WriteString(w, "\nItem Statistics\n"); err != nil {
			return err
		}
		for _, it := range stats {
			name := it.Label
			if name == "" {
				name = "item " + strconv.Itoa(it.Index+1)
			}
			_, err := fmt.Fprintf(w, "  %s: ratings=%d unique=%d sd=%s agreement=%s\n",
				name, it.Ratings, it.Unique, fixed(it.StdDev), fixed(it.Agreement))
			if err != nil {
				return err
			}
		}
	}
	return nil
}
