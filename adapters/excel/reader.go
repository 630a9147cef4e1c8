package excel

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"kalpha/adapters/datareadiness/coercer"
	"kalpha/domain/reliability"
	"kalpha/internal/errors"
	"kalpha/ports"
)

// DataReader handles reading rating matrices from Excel and delimited text files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	opts     ReadOptions
	coercer  *coercer.CellCoercer
	logger   *slog.Logger
}

var _ ports.RatingReader = (*DataReader)(nil)

// NewDataReader creates a reader for filePath. The file type follows the
// extension: .xlsx/.xlsm are workbooks, anything else is delimited text.
func NewDataReader(filePath string, opts ReadOptions, logger *slog.Logger) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "csv"
	if ext == ".xlsx" || ext == ".xlsm" {
		fileType = "xlsx"
	}
	if opts.Separator == "" {
		opts.Separator = SeparatorAuto
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DataReader{
		filePath: filePath,
		fileType: fileType,
		opts:     opts,
		coercer:  coercer.NewCellCoercer(opts.Coercion),
		logger:   logger,
	}
}

// ReadRatings loads the file into an items x raters matrix
func (r *DataReader) ReadRatings() (*ports.RatingData, error) {
	r.logger.Info(fmt.Sprintf("[DataReader] Starting to read %s file", r.fileType), "path", r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var raw [][]string
	var err error
	switch r.fileType {
	case "xlsx":
		raw, err = r.readExcelRows()
	default:
		raw, err = r.readCSVRows()
	}
	if err != nil {
		return nil, err
	}

	table, err := r.tabulate(raw)
	if err != nil {
		return nil, err
	}
	return r.coerce(table), nil
}

// readExcelRows reads every row of the configured sheet
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.IOError("failed to open Excel file", err)
	}
	defer f.Close()

	sheet := r.opts.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, errors.NotFound(fmt.Sprintf("sheet %q", sheet))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.IOError(fmt.Sprintf("failed to read sheet %s", sheet), err)
	}
	r.logger.Debug(fmt.Sprintf("[DataReader] %s read in %.2fms (%d rows)", sheet,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows)))
	return rows, nil
}

// readCSVRows reads delimited text with the configured or sniffed separator
func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.IOError("failed to open CSV file", err)
	}
	defer file.Close()

	buffered := bufio.NewReader(file)
	sep, err := r.separator(buffered)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(buffered)
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.InvalidInput(err.Error()), "failed to parse CSV file")
	}
	r.logger.Debug(fmt.Sprintf("[DataReader] CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows)), "separator", string(sep))
	return rows, nil
}

// separator resolves the delimiter, peeking at the first line for "auto"
func (r *DataReader) separator(buffered *bufio.Reader) (rune, error) {
	if r.opts.Separator != SeparatorAuto {
		return ParseSeparator(r.opts.Separator)
	}

	line, err := buffered.Peek(4096)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, errors.IOError("failed to read CSV header", err)
	}
	first := string(line)
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	return DetectSeparator(first), nil
}

// DetectSeparator picks ';', then tab, then ',' from a sample line
func DetectSeparator(line string) rune {
	switch {
	case strings.Contains(line, ";"):
		return ';'
	case strings.Contains(line, "\t"):
		return '\t'
	default:
		return ','
	}
}

// ParseSeparator validates an explicit separator. "tab" and `\t` spell a tab.
func ParseSeparator(s string) (rune, error) {
	switch s {
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", `\t`, "tab":
		return '\t', nil
	case "|":
		return '|', nil
	default:
		return 0, errors.InvalidInput(fmt.Sprintf("unsupported separator %q (use auto, ',', ';', '\\t' or '|')", s))
	}
}

// tabulate drops blank lines, splits off headers and pads ragged rows to
// the wider of the header and the widest data row
func (r *DataReader) tabulate(raw [][]string) (*RawTable, error) {
	table := &RawTable{}

	for i, row := range raw {
		if i == 0 && len(row) > 0 {
			row[0] = strings.TrimPrefix(row[0], "\ufeff")
		}
		if isBlank(row) {
			continue
		}
		if r.opts.Header && table.Headers == nil {
			table.Headers = trimAll(row)
			continue
		}
		table.Rows = append(table.Rows, row)
		if len(row) > table.Width {
			table.Width = len(row)
		}
	}

	if len(table.Rows) == 0 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s contains no data rows", r.filePath))
	}
	if len(table.Headers) > table.Width {
		table.Width = len(table.Headers)
	}

	padded := 0
	for i, row := range table.Rows {
		if len(row) < table.Width {
			table.Rows[i] = append(row, make([]string, table.Width-len(row))...)
			padded++
		}
	}
	if padded > 0 {
		r.logger.Warn(fmt.Sprintf("[DataReader] %d ragged rows padded with missing values", padded), "width", table.Width)
	}

	minWidth := 1
	if r.opts.ItemLabelColumn {
		minWidth = 2
	}
	if table.Width < minWidth {
		return nil, errors.InvalidInput(fmt.Sprintf("%s has no rater columns", r.filePath))
	}
	return table, nil
}

// coerce converts raw cells to rating values and splits off labels
func (r *DataReader) coerce(table *RawTable) *ports.RatingData {
	first := 0
	if r.opts.ItemLabelColumn {
		first = 1
	}
	raters := table.Width - first

	data := &ports.RatingData{
		Source: r.filePath,
		Matrix: make(reliability.Matrix, len(table.Rows)),
	}
	if r.opts.ItemLabelColumn {
		data.ItemLabels = make([]string, len(table.Rows))
	}
	if table.Headers != nil {
		data.RaterLabels = make([]string, raters)
		for j := range data.RaterLabels {
			if first+j < len(table.Headers) {
				data.RaterLabels[j] = table.Headers[first+j]
			}
		}
	}

	for i, row := range table.Rows {
		if r.opts.ItemLabelColumn {
			data.ItemLabels[i] = strings.TrimSpace(row[0])
		}
		data.Matrix[i] = r.coercer.CoerceRow(row[first:])
	}

	r.reportColumns(table, first)
	r.logger.Info(fmt.Sprintf("[DataReader] %s file processed", strings.ToUpper(r.fileType)),
		"items", len(data.Matrix), "raters", raters)
	return data
}

// reportColumns warns about rater columns that will mostly read as missing
func (r *DataReader) reportColumns(table *RawTable, first int) {
	if r.opts.Coercion.KeepLabels {
		return
	}
	cells := make([]string, len(table.Rows))
	for j := first; j < table.Width; j++ {
		for i, row := range table.Rows {
			cells[i] = row[j]
		}
		analysis := r.coercer.Analyze(cells)
		if analysis.LabelCount > 0 && !analysis.Numeric {
			r.logger.Warn(fmt.Sprintf("[DataReader] column %d is mostly non-numeric; unparseable cells read as missing", j+1),
				"numeric_ratio", analysis.NumericRatio, "labels", analysis.LabelCount)
		}
	}
}

// isBlank reports a physically empty line. A row of empty cells is an item
// with no ratings and is kept.
func isBlank(row []string) bool {
	return len(row) == 0 || (len(row) == 1 && strings.TrimSpace(row[0]) == "")
}

func trimAll(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		out[i] = strings.TrimSpace(cell)
	}
	return out
}
