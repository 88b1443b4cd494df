package report

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/nasakg/geoscope/internal/model"
	"github.com/nasakg/geoscope/pkg/cmr"
)

// WriteXLSX writes the output as a workbook with one sheet per table.
// Sheets appear in table order; every sheet carries a header row and
// one data row per record, so row offsets line up across sheets.
func WriteXLSX(out *model.Output, path string) error {
	f := xlsx.NewFile()
	n := out.Len()

	sheets := []struct {
		name   string
		header []string
		rowAt  func(int) []string
	}{
		{
			name:   "Dataset",
			header: []string{"short_name", "title", "links"},
			rowAt: func(i int) []string {
				d := out.Dataset[i]
				return []string{d.ShortName, d.Title, joinLinks(d.Links)}
			},
		},
		{
			name:   "DataCategory",
			header: []string{"summary"},
			rowAt: func(i int) []string {
				return []string{out.DataCategory[i].Summary}
			},
		},
		{
			name:   "DataFormat",
			header: []string{"original_format"},
			rowAt: func(i int) []string {
				return []string{out.DataFormat[i].OriginalFormat}
			},
		},
		{
			name:   "LocationCategory",
			header: []string{"category"},
			rowAt: func(i int) []string {
				return []string{out.LocationCategory[i].Category}
			},
		},
		{
			name: "SpatialExtent",
			header: []string{
				"boxes", "polygons", "points", "place_names",
				"time_start", "time_end", "duration_days",
			},
			rowAt: func(i int) []string {
				se := out.SpatialExtent[i]
				return []string{
					strings.Join(se.Boxes, "; "),
					joinRings(se.Polygons),
					strings.Join(se.Points, "; "),
					strings.Join(se.PlaceNames, "; "),
					se.TimeStart,
					se.TimeEnd,
					formatDuration(se.DurationDays),
				}
			},
		},
		{
			name:   "Station",
			header: []string{"platforms"},
			rowAt: func(i int) []string {
				return []string{strings.Join(out.Station[i].Platforms, "; ")}
			},
		},
	}

	for _, sp := range sheets {
		sheet, err := f.AddSheet(sp.name)
		if err != nil {
			return eris.Wrapf(err, "report: add sheet %s", sp.name)
		}
		writeRow(sheet, sp.header)
		for i := 0; i < n; i++ {
			writeRow(sheet, sp.rowAt(i))
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save workbook %s", path)
	}
	return nil
}

func writeRow(sheet *xlsx.Sheet, cells []string) {
	row := sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}

func joinLinks(links []cmr.Link) string {
	hrefs := make([]string, 0, len(links))
	for _, l := range links {
		hrefs = append(hrefs, l.Href)
	}
	return strings.Join(hrefs, "; ")
}

// joinRings joins each polygon's ring strings with " | " and polygons
// with "; ".
func joinRings(polygons [][]string) string {
	parts := make([]string, 0, len(polygons))
	for _, rings := range polygons {
		parts = append(parts, strings.Join(rings, " | "))
	}
	return strings.Join(parts, "; ")
}

func formatDuration(days *int) string {
	if days == nil {
		return ""
	}
	return strconv.Itoa(*days)
}
