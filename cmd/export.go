package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nasakg/geoscope/internal/model"
	"github.com/nasakg/geoscope/internal/report"
)

var (
	exportInput  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export classified results to an Excel workbook",
	Long: `Export reads a previously classified result file and writes its six
tables as sheets of an .xlsx workbook, one sheet per table.`,
	RunE: func(_ *cobra.Command, _ []string) error {
		input := exportInput
		if input == "" {
			input = cfg.Output.Path
		}

		out, err := readOutput(input)
		if err != nil {
			return err
		}

		if err := report.WriteXLSX(out, exportOutput); err != nil {
			return err
		}

		zap.L().Info("exported workbook",
			zap.String("input", input),
			zap.String("output", exportOutput),
			zap.Int("records", out.Len()))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportInput, "input", "", "classified JSON file to export (defaults to output.path)")
	exportCmd.Flags().StringVar(&exportOutput, "output", "classified.xlsx", "workbook path to write")
	rootCmd.AddCommand(exportCmd)
}

// readOutput loads a classified result file written by the classify command.
func readOutput(path string) (*model.Output, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "export: read %s", path)
	}

	var out model.Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, eris.Wrapf(err, "export: parse %s", path)
	}
	return &out, nil
}
