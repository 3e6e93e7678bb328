package encode

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	"github.com/mpapenbr/gps-extractor/pkg/model"
)

// SheetName is the name of the only sheet of the produced workbook.
const SheetName = "GPS Data"

type xlsxEncoder struct{}

func (xlsxEncoder) FileName() string { return baseName + ".xlsx" }
func (xlsxEncoder) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Encode writes a single sheet workbook. Null cells are left empty.
// The stream writer must be flushed before the workbook is written, otherwise the
// sheet data is missing from the output.
func (xlsxEncoder) Encode(w io.Writer, t *model.Table) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err = f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return err
	}
	if err = sw.SetRow("A1", lo.ToAnySlice(t.Columns)); err != nil {
		return err
	}
	for i, row := range t.Rows {
		cell, cerr := excelize.CoordinatesToCellName(1, i+2)
		if cerr != nil {
			return cerr
		}
		if err = sw.SetRow(cell, sheetValues(row)); err != nil {
			return fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	if err = sw.Flush(); err != nil {
		return err
	}
	return f.Write(w)
}

// sheetValues returns the cells of f. Infinite numbers are stored as text.
func sheetValues(f model.Fix) []any {
	return lo.Map(f.Values(), func(v any, _ int) any {
		if x, ok := v.(float64); ok {
			if s, inf := infText(x); inf {
				return s
			}
		}
		return v
	})
}
