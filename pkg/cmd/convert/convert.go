package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/gps-extractor/log"
	"github.com/mpapenbr/gps-extractor/pkg/config"
	"github.com/mpapenbr/gps-extractor/pkg/encode"
	"github.com/mpapenbr/gps-extractor/pkg/extract"
	"github.com/mpapenbr/gps-extractor/pkg/service"
)

const stdio = "-"

func NewConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file|->",
		Short: "extracts GPS fixes from a JSON event log into a csv or xlsx file",
		Long: `Reads the JSON event log from the file (or stdin for "-") and writes the
Navigation.Location fixes as csv or xlsx. Without --output the file is written to
extracted_gps_data.<format> in the current directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return convertFile(cmd.Context(), args[0], cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&config.Format,
		"format",
		"f",
		"csv",
		"output format (csv, xlsx)")
	cmd.Flags().StringVarP(&config.Output,
		"output",
		"o",
		"",
		"output file (\"-\" for stdout)")
	return cmd
}

//nolint:whitespace // can't make both editor and linter happy
func convertFile(
	ctx context.Context, input string, stdin io.Reader, stdout io.Writer,
) error {
	format, err := encode.ParseFormat(config.Format)
	if err != nil {
		return err
	}
	data, err := readInput(input, stdin)
	if err != nil {
		return err
	}
	res, err := service.Convert(ctx, data, format)
	switch {
	case errors.Is(err, extract.ErrEmptyResult):
		log.Warn(fmt.Sprintf("No %s events found in the JSON.", extract.LocationTag),
			log.String("input", input))
		return err
	case err != nil:
		log.Error("Error processing file", log.String("input", input), log.ErrorField(err))
		return err
	}

	target := config.Output
	if target == "" {
		target = res.FileName
	}
	if target == stdio {
		_, err = stdout.Write(res.Data)
		return err
	}
	if err := os.WriteFile(target, res.Data, 0o600); err != nil {
		return err
	}
	log.Info("fixes written",
		log.String("file", target),
		log.Int("rows", res.Summary.Rows),
		log.Int("withPosition", res.Summary.WithPosition),
		log.Int("withSpeed", res.Summary.WithSpeed))
	return nil
}

func readInput(input string, stdin io.Reader) ([]byte, error) {
	if input == stdio {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(input)
}
