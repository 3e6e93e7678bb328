//nolint:lll // ok for tests
package convert

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/gps-extractor/pkg/config"
	"github.com/mpapenbr/gps-extractor/pkg/extract"
)

const sampleDoc = `{"events":[{"tag":"Navigation.Location","value":{"fixTime":100,"coordinate":{"latitude":37.5,"longitude":-122.1},"velocity":{"speed":36.0}}}]}`

func setFlags(t *testing.T, format, output string) {
	t.Helper()
	oldFormat, oldOutput := config.Format, config.Output
	config.Format, config.Output = format, output
	t.Cleanup(func() {
		config.Format, config.Output = oldFormat, oldOutput
	})
}

func TestConvertFileToFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "events.json")
	assert.NoError(t, os.WriteFile(input, []byte(sampleDoc), 0o600))
	output := filepath.Join(dir, "out.csv")
	setFlags(t, "csv", output)

	err := convertFile(context.Background(), input, nil, nil)
	assert.NoError(t, err)
	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "FixTime,Latitude,Longitude,Speed_Kph,Speed_Mph\n100,37.5,-122.1,36,22.369"))
}

func TestConvertStdinToStdout(t *testing.T) {
	setFlags(t, "csv", "-")
	var out bytes.Buffer
	err := convertFile(context.Background(), "-", strings.NewReader(sampleDoc), &out)
	assert.NoError(t, err)
	assert.Contains(t, out.String(), "100,37.5,-122.1,36,")
}

func TestConvertDefaultFileName(t *testing.T) {
	t.Chdir(t.TempDir())
	setFlags(t, "xlsx", "")
	err := convertFile(context.Background(), "-", strings.NewReader(sampleDoc), nil)
	assert.NoError(t, err)
	_, err = os.Stat("extracted_gps_data.xlsx")
	assert.NoError(t, err)
}

func TestConvertErrors(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		input   string
		wantErr error
	}{
		{name: "empty result", format: "csv", input: `{"events":[]}`, wantErr: extract.ErrEmptyResult},
		{name: "invalid json", format: "csv", input: `{`, wantErr: extract.ErrDecode},
		{name: "invalid format", format: "pdf", input: sampleDoc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setFlags(t, tt.format, "-")
			var out bytes.Buffer
			err := convertFile(context.Background(), "-", strings.NewReader(tt.input), &out)
			assert.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Empty(t, out.Bytes())
		})
	}
}

func TestConvertMissingFile(t *testing.T) {
	setFlags(t, "csv", "-")
	err := convertFile(context.Background(), filepath.Join(t.TempDir(), "missing.json"), nil, nil)
	assert.Error(t, err)
}
