package boundary

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/nasakg/geoscope/internal/spatial"
)

// LoadGeoJSON reads polygon features from a GeoJSON FeatureCollection.
// GeoJSON coordinates are WGS 84 by definition (RFC 7946), so the set's
// CRS is fixed. Features without polygonal geometry are skipped.
func LoadGeoJSON(path string, fields FieldMapping) (*Set, error) {
	log := zap.L().With(zap.String("component", "boundary.loader"), zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: read geojson")
	}

	var fc geojson.FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return nil, eris.Wrap(err, "boundary: parse geojson")
	}

	set := &Set{CRS: spatial.CRSWGS84}
	var skipped int
	for _, f := range fc.Features {
		if f == nil || !isArea(f.Geometry) {
			skipped++
			continue
		}
		set.Features = append(set.Features, Feature{
			City:      propString(f.Properties, fields.City),
			Country:   propString(f.Properties, fields.Country),
			Continent: propString(f.Properties, fields.Continent),
			Geom:      f.Geometry,
		})
	}

	if len(set.Features) == 0 {
		return nil, eris.Errorf("boundary: no polygon features in %s", path)
	}
	if skipped > 0 {
		log.Warn("skipped non-polygon features", zap.Int("skipped", skipped))
	}
	log.Info("boundary dataset loaded", zap.Int("features", len(set.Features)))
	return set, nil
}

func isArea(g geom.T) bool {
	switch g.(type) {
	case *geom.Polygon, *geom.MultiPolygon:
		return true
	default:
		return false
	}
}

func propString(props map[string]interface{}, key string) string {
	if key == "" {
		return ""
	}
	s, _ := props[key].(string)
	return s
}
