// Package report serializes classification output into its delivery
// formats: pretty JSON, YAML, and XLSX workbooks.
package report

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/nasakg/geoscope/internal/model"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Write serializes the output tables to path in the given format. An
// empty format defaults to JSON.
func Write(out *model.Output, path, format string) error {
	switch format {
	case FormatJSON, "":
		return WriteJSON(out, path)
	case FormatYAML:
		return WriteYAML(out, path)
	default:
		return eris.Errorf("report: unsupported format %q", format)
	}
}

// WriteJSON writes the output as two-space indented JSON.
func WriteJSON(out *model.Output, path string) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return eris.Wrap(err, "report: marshal json")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}

// WriteYAML writes the output as YAML.
func WriteYAML(out *model.Output, path string) error {
	data, err := yaml.Marshal(out)
	if err != nil {
		return eris.Wrap(err, "report: marshal yaml")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	return nil
}
