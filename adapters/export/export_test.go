package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"kalpha/domain/reliability"
	"kalpha/internal/errors"
	"kalpha/internal/krippendorff"
)

func sampleResult() *reliability.Result {
	return &reliability.Result{
		Alpha:          0.8123,
		Observed:       0.2,
		Expected:       1.0666,
		Level:          reliability.Ordinal,
		Items:          3,
		Raters:         2,
		PairableItems:  2,
		PairableValues: 4,
		Requested:      reliability.Features{Items: true, Bootstrap: true},
		ItemStats: []reliability.ItemStats{
			{Index: 0, Label: "q1", Ratings: 2, Unique: 1, StdDev: 0, Disagreement: 0, Agreement: 1},
			{Index: 1, Ratings: 2, Unique: 2, StdDev: 0.5, Disagreement: 1, Agreement: 0},
			{Index: 2, Ratings: 0, StdDev: math.NaN(), Disagreement: math.NaN(), Agreement: math.NaN()},
		},
		Interval: &reliability.ConfidenceInterval{
			Low: 0.7, High: 0.9, Level: 0.9, Method: reliability.IntervalPercentile,
		},
		Bootstrap:  []float64{0.7, 0.8, 0.9},
		Iterations: 4,
		Warnings:   []string{"one iteration failed"},
	}
}

func TestNewBundle(t *testing.T) {
	b := NewBundle("ratings.csv", sampleResult())

	assert.NotEqual(t, [16]byte{}, [16]byte(b.ID))
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, reliability.TierAcceptable, b.Interpretation.Tier)
	require.NotNil(t, b.Bootstrap)
	assert.Equal(t, 3, b.Bootstrap.Samples)
	assert.InDelta(t, 0.8, b.Bootstrap.Mean, 1e-12)

	plain := NewBundle("", &reliability.Result{Alpha: 0.5, Level: reliability.Nominal})
	assert.Nil(t, plain.Bootstrap)
}

func TestFormatSummary(t *testing.T) {
	b := NewBundle("ratings.csv", sampleResult())
	out := FormatSummary(b)

	assert.Contains(t, out, "Krippendorff's Alpha Results\n==============================\n")
	assert.Contains(t, out, "Measurement Scale: Ordinal")
	assert.Contains(t, out, "Items: 3")
	assert.Contains(t, out, "Alpha: 0.8123")
	assert.Contains(t, out, "90% CI: [0.7000, 0.9000]")
	assert.Contains(t, out, "Reliability: Acceptable (≥0.80)")
	assert.Contains(t, out, "Warning: one iteration failed")

	undefined := FormatSummary(NewBundle("", &reliability.Result{Alpha: math.NaN(), Level: reliability.Nominal}))
	assert.Contains(t, undefined, "Alpha: NaN")
	assert.Contains(t, undefined, "Reliability: Undefined")
}

func TestConfidenceLabel(t *testing.T) {
	assert.Equal(t, "95%", ConfidenceLabel(0.95))
	assert.Equal(t, "90%", ConfidenceLabel(0.9))
	assert.Equal(t, "97.5%", ConfidenceLabel(0.975))
}

func TestRenderJSON_NaNBecomesNull(t *testing.T) {
	res := sampleResult()
	res.Alpha = math.NaN()
	b := NewBundle("ratings.csv", res)
	b.WithQuality(krippendorff.QualityReport{Items: 3, ValueRange: "1 - 3"})

	var buf bytes.Buffer
	require.NoError(t, renderJSON(&buf, b))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Nil(t, doc["alpha"])
	assert.Equal(t, "ordinal", doc["level"])
	assert.Equal(t, b.ID.String(), doc["id"])

	items := doc["item_statistics"].([]interface{})
	require.Len(t, items, 3)
	assert.Nil(t, items[2].(map[string]interface{})["std_dev"])
	assert.Equal(t, "q1", items[0].(map[string]interface{})["label"])

	ci := doc["confidence_interval"].(map[string]interface{})
	assert.Equal(t, "percentile", ci["method"])
	assert.Equal(t, 0.7, ci["low"])

	quality := doc["data_quality"].(map[string]interface{})
	assert.Equal(t, "1 - 3", quality["value_range"])
}

func TestRenderCSV(t *testing.T) {
	b := NewBundle("ratings.csv", sampleResult())

	var buf bytes.Buffer
	require.NoError(t, renderCSV(&buf, b))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 5)

	header, values := records[0], records[1]
	require.Equal(t, len(header), len(values))
	row := map[string]string{}
	for i := range header {
		row[header[i]] = values[i]
	}
	assert.Equal(t, "0.8123", row["alpha"])
	assert.Equal(t, "0.7", row["ci_low"])
	assert.Equal(t, "Acceptable", row["reliability"])

	assert.Equal(t, itemHeader, records[2])
	assert.Equal(t, []string{"2", "", "0", "0", "", "", ""}, records[len(records)-1])
}

func TestRenderText(t *testing.T) {
	b := NewBundle("ratings.csv", sampleResult())

	var buf bytes.Buffer
	require.NoError(t, renderText(&buf, b))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "Krippendorff's Alpha Results"))
	assert.Contains(t, out, "Source: ratings.csv")
	assert.Contains(t, out, "q1: ratings=2")
	assert.Contains(t, out, "item 3: ratings=0 unique=0 sd=NaN agreement=NaN")
}

func TestRenderHTML(t *testing.T) {
	b := NewBundle("ratings.csv", sampleResult())

	var buf bytes.Buffer
	require.NoError(t, renderHTML(&buf, b))
	out := buf.String()

	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "Reliability: Acceptable")
	assert.Contains(t, out, "0.8123")
}

func TestRenderHTML_EscapesLoaderText(t *testing.T) {
	res := sampleResult()
	res.ItemStats[0].Label = "<img src=x onerror=alert(1)>"
	res.ItemStats[1].Label = "a|b"
	b := NewBundle("<script>x</script>.csv", res)

	var buf bytes.Buffer
	require.NoError(t, renderHTML(&buf, b))
	out := buf.String()

	assert.NotContains(t, out, "<img")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;img")
	assert.Contains(t, out, "a|b")
	assert.NotContains(t, out, "<td>b</td>")

	md := MarkdownReport(b)
	assert.Contains(t, md, `| a\|b | 2 |`)
}

func TestWrite_InfersFormatFromExtension(t *testing.T) {
	dir := t.TempDir()
	b := NewBundle("ratings.csv", sampleResult())

	for _, name := range []string{"out.json", "out.csv", "out.txt", "out.html", "nested/out.xlsx"} {
		path := filepath.Join(dir, name)
		require.NoError(t, Write(b, path, ""), name)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	f, err := excelize.OpenFile(filepath.Join(dir, "nested/out.xlsx"))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Summary", "Items", "Bootstrap"}, f.GetSheetList())

	alpha, err := f.GetCellValue("Summary", "B4")
	require.NoError(t, err)
	assert.Equal(t, "0.8123", alpha)

	rows, err := f.GetRows("Bootstrap")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

func TestNewWriter(t *testing.T) {
	b := NewBundle("", sampleResult())

	w, err := NewWriter(b, "", "report.HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, w.Format())

	w, err = NewWriter(b, "JSON", "report.bin")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, w.Format())

	_, err = NewWriter(b, "", "report.bin")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = NewWriter(b, "pdf", "report.pdf")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
