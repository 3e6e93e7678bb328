package encode

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/gps-extractor/pkg/model"
)

func TestCSVEncode(t *testing.T) {
	var buf bytes.Buffer
	err := csvEncoder{}.Encode(&buf, sampleTable())
	if !assert.NoError(t, err) {
		return
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"FixTime,Latitude,Longitude,Speed_Kph,Speed_Mph",
		"100,37.5,-122.1,36," + strconv.FormatFloat(36.0*0.621371, 'f', -1, 64),
		",,,,",
		"2024-04-28T11:10:12Z,48.1234567,,,",
		"102,37.6,-122.2,0,0",
	}
	if diff := cmp.Diff(want, lines); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestCSVEncodeEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	err := csvEncoder{}.Encode(&buf, model.NewTable(nil))
	assert.NoError(t, err)
	assert.Equal(t, "FixTime,Latitude,Longitude,Speed_Kph,Speed_Mph\n", buf.String())
}

// encoding and parsing again must reproduce the cell values and the column order
func TestCSVRoundTrip(t *testing.T) {
	table := sampleTable()
	var buf bytes.Buffer
	if err := (csvEncoder{}).Encode(&buf, table); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	assert.Equal(t, model.Columns, records[0])
	if !assert.Len(t, records, len(table.Rows)+1) {
		return
	}
	for i, row := range table.Rows {
		got := records[i+1]
		for j, v := range row.Values() {
			switch x := v.(type) {
			case nil:
				assert.Empty(t, got[j], "row %d col %d", i, j)
			case float64:
				parsed, perr := strconv.ParseFloat(got[j], 64)
				assert.NoError(t, perr)
				assert.Equal(t, x, parsed, "row %d col %d", i, j) //nolint:testifylint // exact round trip
			default:
				assert.Equal(t, FormatCell(x), got[j], "row %d col %d", i, j)
			}
		}
	}
}
