// Package model defines the classification pipeline's output tables
// and run bookkeeping records.
package model

import (
	"github.com/nasakg/geoscope/pkg/cmr"
)

// NotAvailable is the sentinel written for absent string metadata.
const NotAvailable = "N/A"

// Dataset identifies one catalog record.
type Dataset struct {
	ShortName string     `json:"short_name" yaml:"short_name"`
	Title     string     `json:"title" yaml:"title"`
	Links     []cmr.Link `json:"links" yaml:"links"`
}

// DataCategory carries the record's descriptive summary.
type DataCategory struct {
	Summary string `json:"summary" yaml:"summary"`
}

// DataFormat carries the record's original metadata format.
type DataFormat struct {
	OriginalFormat string `json:"original_format" yaml:"original_format"`
}

// LocationCategory is the geographic scope assigned to a record.
type LocationCategory struct {
	Category string `json:"category" yaml:"category"`
}

// SpatialExtent carries the record's raw spatial descriptors, the place
// names its geometry intersects, and its time coverage. DurationDays is
// nil when either timestamp is missing or unparseable.
type SpatialExtent struct {
	Boxes        []string   `json:"boxes" yaml:"boxes"`
	Polygons     [][]string `json:"polygons" yaml:"polygons"`
	Points       []string   `json:"points" yaml:"points"`
	PlaceNames   []string   `json:"place_names" yaml:"place_names"`
	TimeStart    string     `json:"time_start" yaml:"time_start"`
	TimeEnd      string     `json:"time_end" yaml:"time_end"`
	DurationDays *int       `json:"duration_days" yaml:"duration_days"`
}

// Station lists the observing platforms behind a record.
type Station struct {
	Platforms []string `json:"platforms" yaml:"platforms"`
}

// Output is the pipeline result: six parallel tables, index-aligned
// with the input records.
type Output struct {
	Dataset          []Dataset          `json:"Dataset" yaml:"Dataset"`
	DataCategory     []DataCategory     `json:"DataCategory" yaml:"DataCategory"`
	DataFormat       []DataFormat       `json:"DataFormat" yaml:"DataFormat"`
	LocationCategory []LocationCategory `json:"LocationCategory" yaml:"LocationCategory"`
	SpatialExtent    []SpatialExtent    `json:"SpatialExtent" yaml:"SpatialExtent"`
	Station          []Station          `json:"Station" yaml:"Station"`
}

// NewOutput allocates all six tables at their final length, so both
// pipeline passes write rows by record index.
func NewOutput(n int) *Output {
	return &Output{
		Dataset:          make([]Dataset, n),
		DataCategory:     make([]DataCategory, n),
		DataFormat:       make([]DataFormat, n),
		LocationCategory: make([]LocationCategory, n),
		SpatialExtent:    make([]SpatialExtent, n),
		Station:          make([]Station, n),
	}
}

// Len returns the number of record rows in the tables.
func (o *Output) Len() int {
	return len(o.Dataset)
}
