package encode

import (
	"fmt"
	"io"
	"strings"

	"github.com/mpapenbr/gps-extractor/pkg/model"
)

type (
	Format string

	// Encoder writes a table in one output format.
	Encoder interface {
		Encode(w io.Writer, t *model.Table) error
		// FileName is the suggested name of the produced file
		FileName() string
		ContentType() string
	}
)

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const baseName = "extracted_gps_data"

var Formats = []Format{FormatCSV, FormatXLSX}

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported format %q (use csv or xlsx)", s)
	}
}

// ForFormat returns the encoder for f.
func ForFormat(f Format) (Encoder, error) {
	switch f {
	case FormatCSV:
		return csvEncoder{}, nil
	case FormatXLSX:
		return xlsxEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", string(f))
	}
}
