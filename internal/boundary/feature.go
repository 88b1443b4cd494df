// Package boundary loads the reference administrative-boundary dataset
// the classifier joins against: shapefile or GeoJSON sources carrying
// polygon features tagged with city, country, and continent names.
package boundary

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/nasakg/geoscope/internal/spatial"
)

// FieldMapping names the source attribute fields that carry the place
// name at each administrative level. An empty field name disables that
// level.
type FieldMapping struct {
	City      string
	Country   string
	Continent string
}

// Feature is one administrative boundary: an area geometry tagged with
// place names. An empty name means the source attribute was absent or
// blank.
type Feature struct {
	City      string
	Country   string
	Continent string
	Geom      geom.T
}

// Set is the reference dataset, loaded once per run and read-only
// afterwards. CRS is the coordinate reference system the feature
// geometries are expressed in.
type Set struct {
	Features []Feature
	CRS      spatial.CRS
}

// Geometries returns the feature geometries index-aligned with
// Features, in the form the join engine indexes them.
func (s *Set) Geometries() []geom.T {
	out := make([]geom.T, len(s.Features))
	for i, f := range s.Features {
		out[i] = f.Geom
	}
	return out
}

// Load reads the dataset at path, dispatching on the file extension.
// A load failure is fatal to the run: there is no partial mode without
// reference data.
func Load(path string, fields FieldMapping, charset string) (*Set, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		return LoadShapefile(path, fields, charset)
	case ".json", ".geojson":
		return LoadGeoJSON(path, fields)
	default:
		return nil, eris.Errorf("boundary: unsupported dataset format %q", filepath.Ext(path))
	}
}
