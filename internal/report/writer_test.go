package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/nasakg/geoscope/internal/model"
	"github.com/nasakg/geoscope/pkg/cmr"
)

func sampleOutput() *model.Output {
	out := model.NewOutput(2)
	ten := 10

	out.Dataset[0] = model.Dataset{
		ShortName: "MOD09",
		Title:     "Surface Reflectance Daily",
		Links:     []cmr.Link{{Rel: "via", Href: "https://example.com/mod09"}},
	}
	out.DataCategory[0] = model.DataCategory{Summary: "Daily surface reflectance"}
	out.DataFormat[0] = model.DataFormat{OriginalFormat: "ECHO10"}
	out.LocationCategory[0] = model.LocationCategory{Category: "city"}
	out.SpatialExtent[0] = model.SpatialExtent{
		Boxes:        []string{"10 20 15 25"},
		Polygons:     [][]string{{"10 20 10 25 15 25 10 20", "11 21 11 24 14 24 11 21"}},
		Points:       []string{},
		PlaceNames:   []string{"Springfield", "Freedonia"},
		TimeStart:    "2019-01-01T00:00:00Z",
		TimeEnd:      "2019-01-11T00:00:00Z",
		DurationDays: &ten,
	}
	out.Station[0] = model.Station{Platforms: []string{"Terra", "Aqua"}}

	out.Dataset[1] = model.Dataset{ShortName: "N/A", Title: "N/A", Links: []cmr.Link{}}
	out.DataCategory[1] = model.DataCategory{Summary: "N/A"}
	out.DataFormat[1] = model.DataFormat{OriginalFormat: "N/A"}
	out.LocationCategory[1] = model.LocationCategory{Category: "unclassified"}
	out.SpatialExtent[1] = model.SpatialExtent{
		Boxes:      []string{},
		Polygons:   [][]string{},
		Points:     []string{},
		PlaceNames: []string{},
		TimeStart:  "N/A",
		TimeEnd:    "N/A",
	}
	out.Station[1] = model.Station{Platforms: []string{}}
	return out
}

func TestWriteJSON_Shape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteJSON(sampleOutput(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var tables map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &tables))
	for _, name := range []string{
		"Dataset", "DataCategory", "DataFormat",
		"LocationCategory", "SpatialExtent", "Station",
	} {
		assert.Contains(t, tables, name)
	}

	text := string(data)
	assert.True(t, strings.Contains(text, "\n  \"Dataset\""), "expected two-space indentation")
	// Record without timestamps serializes an explicit null duration.
	assert.Contains(t, text, `"duration_days": null`)
	assert.Contains(t, text, `"duration_days": 10`)
}

func TestWriteJSON_EmptyTablesAreArrays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, WriteJSON(model.NewOutput(0), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	assert.Contains(t, text, `"Dataset": []`)
	assert.Contains(t, text, `"SpatialExtent": []`)
	assert.NotContains(t, text, "null,")
}

func TestWriteYAML_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, WriteYAML(sampleOutput(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var tables map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal(data, &tables))
	require.Len(t, tables["Dataset"], 2)
	assert.Equal(t, "MOD09", tables["Dataset"][0]["short_name"])
	assert.Equal(t, "unclassified", tables["LocationCategory"][1]["category"])
}

func TestWrite_DispatchesOnFormat(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "out.json")
	require.NoError(t, Write(sampleOutput(), jsonPath, "json"))
	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	yamlPath := filepath.Join(dir, "out.yaml")
	require.NoError(t, Write(sampleOutput(), yamlPath, "yaml"))
	data, err = os.ReadFile(yamlPath)
	require.NoError(t, err)
	var doc map[string]any
	assert.NoError(t, yaml.Unmarshal(data, &doc))
}

func TestWrite_EmptyFormatDefaultsToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")
	require.NoError(t, Write(sampleOutput(), path, ""))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(sampleOutput(), filepath.Join(t.TempDir(), "out.csv"), "csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestWriteJSON_BadPath(t *testing.T) {
	err := WriteJSON(sampleOutput(), filepath.Join(t.TempDir(), "missing", "out.json"))
	require.Error(t, err)
}
