//go:build !integration

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nasakg/geoscope/internal/boundary"
	"github.com/nasakg/geoscope/internal/spatial"
)

func TestFormatBoundaryInfo(t *testing.T) {
	set := &boundary.Set{
		Features: []boundary.Feature{
			{City: "Hanoi", Country: "Vietnam", Continent: "Asia"},
			{City: "Da Nang", Country: "Vietnam", Continent: "Asia"},
			{City: "Bangkok", Country: "Thailand", Continent: "Asia"},
			{Country: "Thailand", Continent: "Asia"},
		},
		CRS: spatial.CRSWGS84,
	}

	var buf bytes.Buffer
	formatBoundaryInfo(&buf, "boundaries/admin.shp", set)

	output := buf.String()
	assert.Contains(t, output, "boundaries/admin.shp")
	assert.Contains(t, output, "EPSG:4326")
	assert.Contains(t, output, "Features:")
	assert.Contains(t, output, "4")
	assert.Contains(t, output, "Cities:")
	assert.Contains(t, output, "3")
	assert.Contains(t, output, "Countries:")
	assert.Contains(t, output, "2")
	assert.Contains(t, output, "Continents:")
	assert.Contains(t, output, "1")
}

func TestFormatBoundaryInfo_EmptySet(t *testing.T) {
	var buf bytes.Buffer
	formatBoundaryInfo(&buf, "empty.shp", &boundary.Set{})

	output := buf.String()
	assert.Contains(t, output, "Features:")
	assert.Contains(t, output, "0")
}
