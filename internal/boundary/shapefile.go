package boundary

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/nasakg/geoscope/internal/spatial"
)

// LoadShapefile reads polygon features from a .shp/.dbf pair. Attribute
// values are decoded from charset when one is given (shapefile DBFs are
// frequently latin-1). The CRS is detected from the .prj sidecar when
// present.
func LoadShapefile(path string, fields FieldMapping, charset string) (*Set, error) {
	log := zap.L().With(zap.String("component", "boundary.loader"), zap.String("path", path))

	var dec *encoding.Decoder
	if charset != "" {
		enc, err := htmlindex.Get(charset)
		if err != nil {
			return nil, eris.Wrapf(err, "boundary: unsupported charset %q", charset)
		}
		dec = enc.NewDecoder()
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "boundary: open shapefile")
	}
	defer func() { _ = r.Close() }()

	cityIdx := fieldIndex(r, fields.City)
	countryIdx := fieldIndex(r, fields.Country)
	continentIdx := fieldIndex(r, fields.Continent)
	if cityIdx < 0 && countryIdx < 0 && continentIdx < 0 {
		return nil, eris.Errorf("boundary: none of the configured fields (%s, %s, %s) exist in %s",
			fields.City, fields.Country, fields.Continent, path)
	}
	for name, idx := range map[string]int{fields.City: cityIdx, fields.Country: countryIdx, fields.Continent: continentIdx} {
		if name != "" && idx < 0 {
			log.Warn("configured field missing from shapefile", zap.String("field", name))
		}
	}

	set := &Set{CRS: sidecarCRS(path)}
	var skipped int
	for r.Next() {
		_, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			skipped++
			continue
		}
		g := polygonGeometry(poly)
		if g == nil {
			skipped++
			continue
		}
		set.Features = append(set.Features, Feature{
			City:      cleanAttribute(attr(r, cityIdx), dec),
			Country:   cleanAttribute(attr(r, countryIdx), dec),
			Continent: cleanAttribute(attr(r, continentIdx), dec),
			Geom:      g,
		})
	}

	if len(set.Features) == 0 {
		return nil, eris.Errorf("boundary: no polygon features in %s", path)
	}
	if skipped > 0 {
		log.Warn("skipped non-polygon shapes", zap.Int("skipped", skipped))
	}
	log.Info("boundary dataset loaded",
		zap.Int("features", len(set.Features)),
		zap.String("crs", set.CRS.String()))
	return set, nil
}

// polygonGeometry converts a shapefile polygon to a go-geom area
// geometry, one polygon per part. Parts with fewer than 3 vertices are
// dropped; open parts are closed.
func polygonGeometry(p *shp.Polygon) geom.T {
	if p.NumParts == 0 || len(p.Points) == 0 {
		return nil
	}

	mp := geom.NewMultiPolygon(geom.XY)
	for i := int32(0); i < p.NumParts; i++ {
		start := p.Parts[i]
		end := int32(len(p.Points))
		if i+1 < p.NumParts {
			end = p.Parts[i+1]
		}
		if end-start < 3 {
			continue
		}

		flat := make([]float64, 0, (end-start+1)*2)
		for j := start; j < end; j++ {
			flat = append(flat, p.Points[j].X, p.Points[j].Y)
		}
		if flat[0] != flat[len(flat)-2] || flat[1] != flat[len(flat)-1] {
			flat = append(flat, flat[0], flat[1])
		}

		poly := geom.NewPolygon(geom.XY)
		if err := poly.Push(geom.NewLinearRingFlat(geom.XY, flat)); err != nil {
			continue
		}
		if err := mp.Push(poly); err != nil {
			continue
		}
	}

	switch mp.NumPolygons() {
	case 0:
		return nil
	case 1:
		return mp.Polygon(0)
	default:
		return mp
	}
}

// fieldIndex returns the index of a named DBF field, or -1. Field names
// are padded with NULs on disk.
func fieldIndex(r *shp.Reader, name string) int {
	if name == "" {
		return -1
	}
	for i, f := range r.Fields() {
		if strings.EqualFold(strings.TrimRight(f.String(), "\x00"), name) {
			return i
		}
	}
	return -1
}

func attr(r *shp.Reader, idx int) string {
	if idx < 0 {
		return ""
	}
	return r.Attribute(idx)
}

// cleanAttribute trims DBF padding and applies the optional charset
// decoder. Undecodable values fall back to the raw string.
func cleanAttribute(raw string, dec *encoding.Decoder) string {
	v := strings.TrimSpace(strings.Trim(raw, "\x00"))
	if v == "" || dec == nil {
		return v
	}
	decoded, err := dec.String(v)
	if err != nil {
		return v
	}
	return decoded
}

// sidecarCRS reads the .prj file next to a shapefile. Absent or
// unrecognized projections yield an undefined CRS, which the join
// treats as already aligned.
func sidecarCRS(shpPath string) spatial.CRS {
	prjPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"
	b, err := os.ReadFile(prjPath)
	if err != nil {
		zap.L().Debug("boundary: no .prj sidecar", zap.String("path", prjPath))
		return spatial.CRSUndefined
	}
	return spatial.DetectPRJ(string(b))
}
