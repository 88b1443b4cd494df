package pipeline

import (
	"math"
	"time"

	"github.com/nasakg/geoscope/internal/model"
	"github.com/nasakg/geoscope/pkg/cmr"
)

// projectRecord fills row i of every table with the record's metadata.
// Missing strings default to the N/A sentinel, missing lists to empty,
// never an error. The scope fields are defaulted here and overwritten
// by pass two for joined records.
func projectRecord(out *model.Output, i int, rec cmr.Collection) {
	out.Dataset[i] = model.Dataset{
		ShortName: orNA(rec.ShortName),
		Title:     orNA(rec.Title),
		Links:     orEmptyLinks(rec.Links),
	}
	out.DataCategory[i] = model.DataCategory{Summary: orNA(rec.Summary)}
	out.DataFormat[i] = model.DataFormat{OriginalFormat: orNA(rec.OriginalFormat)}
	out.Station[i] = model.Station{Platforms: orEmpty(rec.Platforms)}
	out.SpatialExtent[i] = model.SpatialExtent{
		Boxes:        orEmpty(rec.Boxes),
		Polygons:     orEmptyRings(rec.Polygons),
		Points:       orEmpty(rec.Points),
		PlaceNames:   []string{},
		TimeStart:    orNA(rec.TimeStart),
		TimeEnd:      orNA(rec.TimeEnd),
		DurationDays: durationDays(rec.TimeStart, rec.TimeEnd),
	}
}

// durationDays returns the floor of the whole-day difference between
// the parsed timestamps, or nil when either is missing or malformed.
func durationDays(startRaw, endRaw string) *int {
	start, ok := parseTime(startRaw)
	if !ok {
		return nil
	}
	end, ok := parseTime(endRaw)
	if !ok {
		return nil
	}
	days := int(math.Floor(end.Sub(start).Hours() / 24))
	return &days
}

func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func orNA(s string) string {
	if s == "" {
		return model.NotAvailable
	}
	return s
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}

func orEmptyRings(list [][]string) [][]string {
	if list == nil {
		return [][]string{}
	}
	return list
}

func orEmptyLinks(list []cmr.Link) []cmr.Link {
	if list == nil {
		return []cmr.Link{}
	}
	return list
}
