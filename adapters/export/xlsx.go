package export

import (
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"kalpha/domain/reliability"
)

// renderXLSX writes a workbook with a Summary sheet, plus Items and
// Bootstrap sheets when the result carries them.
func renderXLSX(w io.Writer, b *Bundle) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return err
	}
	for r, kv := range summaryRows(b) {
		if err := setRow(f, "Summary", r+1, []interface{}{kv[0], kv[1]}); err != nil {
			return err
		}
	}

	res := b.Result
	if res.ItemStats != nil {
		if _, err := f.NewSheet("Items"); err != nil {
			return err
		}
		header := make([]interface{}, len(itemHeader))
		for i, h := range itemHeader {
			header[i] = h
		}
		if err := setRow(f, "Items", 1, header); err != nil {
			return err
		}
		for r, it := range res.ItemStats {
			if err := setRow(f, "Items", r+2, itemCells(it)); err != nil {
				return err
			}
		}
	}

	if res.Bootstrap != nil {
		if _, err := f.NewSheet("Bootstrap"); err != nil {
			return err
		}
		if err := setRow(f, "Bootstrap", 1, []interface{}{"iteration", "alpha"}); err != nil {
			return err
		}
		for r, a := range res.Bootstrap {
			if err := setRow(f, "Bootstrap", r+2, []interface{}{r + 1, a}); err != nil {
				return err
			}
		}
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func itemCells(it reliability.ItemStats) []interface{} {
	return []interface{}{
		it.Index,
		it.Label,
		it.Ratings,
		it.Unique,
		number(it.StdDev),
		number(it.Disagreement),
		number(it.Agreement),
	}
}

// number keeps finite floats numeric in the sheet; NaN becomes an empty cell
func number(f float64) interface{} {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return f
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
