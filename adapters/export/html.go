package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownReport renders the bundle as a markdown document
func MarkdownReport(b *Bundle) string {
	res := b.Result
	in := b.Interpretation
	var sb strings.Builder

	sb.WriteString("# Krippendorff's Alpha Report\n\n")
	fmt.Fprintf(&sb, "Run `%s` at %s", b.ID, b.CreatedAt.Format(time.RFC3339))
	if b.Source != "" {
		fmt.Fprintf(&sb, " on %s", escapeText(b.Source))
	}
	sb.WriteString("\n\n")

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Alpha | **%s** |\n", fixed(res.Alpha))
	fmt.Fprintf(&sb, "| Measurement scale | %s |\n", res.Level)
	fmt.Fprintf(&sb, "| Items | %d (%d pairable) |\n", res.Items, res.PairableItems)
	fmt.Fprintf(&sb, "| Raters | %d |\n", res.Raters)
	fmt.Fprintf(&sb, "| Observed disagreement | %s |\n", fixed(res.Observed))
	fmt.Fprintf(&sb, "| Expected disagreement | %s |\n", fixed(res.Expected))
	if ci := res.Interval; ci != nil {
		fmt.Fprintf(&sb, "| %s CI | [%s, %s] (%s) |\n", ConfidenceLabel(ci.Level), fixed(ci.Low), fixed(ci.High), ci.Method)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## Reliability: %s\n\n", in.Tier)
	fmt.Fprintf(&sb, "- Range: %s\n- %s\n- Recommendation: %s\n\n", in.Range, in.Description, in.Recommendation)

	if q := b.Quality; q != nil {
		sb.WriteString("## Data Quality\n\n")
		fmt.Fprintf(&sb, "- Missing cells: %d of %d (%.1f%%)\n", q.MissingCells, q.TotalCells, q.MissingPercent)
		fmt.Fprintf(&sb, "- Items with sufficient data: %d\n", q.SufficientItems)
		fmt.Fprintf(&sb, "- Value range: %s (%d unique)\n\n", q.ValueRange, q.UniqueValues)
	}

	if stats := res.ItemStats; stats != nil {
		sb.WriteString("## Item Statistics\n\n")
		sb.WriteString("| Item | Ratings | Unique | SD | Agreement |\n|---|---|---|---|---|\n")
		for _, it := range stats {
			name := it.Label
			if name == "" {
				name = fmt.Sprintf("%d", it.Index+1)
			}
			fmt.Fprintf(&sb, "| %s | %d | %d | %s | %s |\n", escapeCell(name), it.Ratings, it.Unique, fixed(it.StdDev), fixed(it.Agreement))
		}
		sb.WriteString("\n")
	}

	if len(res.Warnings) > 0 {
		sb.WriteString("## Warnings\n\n")
		for _, w := range res.Warnings {
			fmt.Fprintf(&sb, "- %s\n", escapeText(w))
		}
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	"\\", "\\\\", "`", "\\`", "*", "\\*", "_", "\\_",
	"[", "\\[", "]", "\\]", "<", "\\<", ">", "\\>",
)

// escapeText neutralises markdown and raw HTML in loader-supplied text
func escapeText(s string) string {
	return markdownEscaper.Replace(s)
}

// escapeCell also escapes the pipe so a label cannot split its table cell
func escapeCell(s string) string {
	return strings.ReplaceAll(escapeText(s), "|", "\\|")
}

func renderHTML(w io.Writer, b *Bundle) error {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: "Krippendorff's Alpha Report",
		Flags: html.CommonFlags | html.CompletePage | html.SkipHTML,
	})
	_, err := w.Write(markdown.ToHTML([]byte(MarkdownReport(b)), p, renderer))
	return err
}
