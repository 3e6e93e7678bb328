package model

import "github.com/aarondl/opt/null"

// column names of the output table, in output order
const (
	ColFixTime   = "FixTime"
	ColLatitude  = "Latitude"
	ColLongitude = "Longitude"
	ColSpeedKph  = "Speed_Kph"
	ColSpeedMph  = "Speed_Mph"
)

// Columns is the fixed column order of every extracted table.
var Columns = []string{ColFixTime, ColLatitude, ColLongitude, ColSpeedKph, ColSpeedMph}

type (
	// Fix is one GPS position/velocity sample taken from a Navigation.Location event.
	// Every column is optional. A value missing in the source document stays null.
	Fix struct {
		FixTime   null.Val[any] // scalar as found in the document
		Latitude  null.Val[float64]
		Longitude null.Val[float64]
		SpeedKph  null.Val[float64]
		SpeedMph  null.Val[float64]
	}

	// Table holds the extracted fixes in document order.
	Table struct {
		Columns []string
		Rows    []Fix
	}

	// Summary describes an extracted table
	Summary struct {
		Rows         int     `json:"rows"`
		WithPosition int     `json:"withPosition"`
		WithSpeed    int     `json:"withSpeed"`
		MaxSpeedKph  float64 `json:"maxSpeedKph"`
		MeanSpeedKph float64 `json:"meanSpeedKph"`
		MaxSpeedMph  float64 `json:"maxSpeedMph"`
		MeanSpeedMph float64 `json:"meanSpeedMph"`
	}
)

func NewTable(rows []Fix) *Table {
	if rows == nil {
		rows = []Fix{}
	}
	return &Table{Columns: Columns, Rows: rows}
}

func (t *Table) Empty() bool {
	return len(t.Rows) == 0
}

// Values returns the cells of f in column order. Null cells are nil.
func (f Fix) Values() []any {
	return []any{
		cell(f.FixTime),
		cell(f.Latitude),
		cell(f.Longitude),
		cell(f.SpeedKph),
		cell(f.SpeedMph),
	}
}

func cell[T any](v null.Val[T]) any {
	if x, ok := v.Get(); ok {
		return x
	}
	return nil
}
