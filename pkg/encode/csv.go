package encode

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/samber/lo"

	"github.com/mpapenbr/gps-extractor/pkg/model"
)

type csvEncoder struct{}

func (csvEncoder) FileName() string    { return baseName + ".csv" }
func (csvEncoder) ContentType() string { return "text/csv" }

// Encode writes a header row followed by one record per fix. Null cells are empty.
func (csvEncoder) Encode(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		record := lo.Map(row.Values(), func(v any, _ int) string {
			return FormatCell(v)
		})
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatCell renders a single cell value as text.
// Floats use the shortest representation which parses back to the same value,
// infinite values are written as inf and -inf.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		if s, ok := infText(x); ok {
			return s
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}

func infText(x float64) (string, bool) {
	switch {
	case math.IsInf(x, 1):
		return "inf", true
	case math.IsInf(x, -1):
		return "-inf", true
	default:
		return "", false
	}
}
