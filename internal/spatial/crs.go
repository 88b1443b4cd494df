package spatial

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// CRS identifies a coordinate reference system by EPSG code. The zero
// value means the system is unknown; geometries in an undefined CRS are
// assumed to already share a frame with whatever they are compared to.
type CRS int

const (
	CRSUndefined   CRS = 0
	CRSWGS84       CRS = 4326
	CRSWebMercator CRS = 3857
)

func (c CRS) String() string {
	if c == CRSUndefined {
		return "undefined"
	}
	return fmt.Sprintf("EPSG:%d", int(c))
}

const (
	webMercatorMax = 20037508.342789244

	// maxMercatorLat is the latitude at which the Web Mercator
	// projection cuts off; latitudes beyond it are clamped.
	maxMercatorLat = 85.051128779806604
)

// DetectPRJ guesses the CRS from the WKT content of a .prj sidecar
// file. Only the two systems the pipeline works in are recognized; the
// 3857 check runs first because a Web Mercator definition nests a
// WGS 84 GEOGCS.
func DetectPRJ(wkt string) CRS {
	up := strings.ToUpper(wkt)
	switch {
	case strings.Contains(up, "3857"),
		strings.Contains(up, "PSEUDO-MERCATOR"),
		strings.Contains(up, "WEB_MERCATOR"),
		strings.Contains(up, "WEB MERCATOR"):
		return CRSWebMercator
	case strings.Contains(up, "4326"),
		strings.Contains(up, "WGS_1984"),
		strings.Contains(up, "WGS 84"),
		strings.Contains(up, "WGS84"):
		return CRSWGS84
	default:
		return CRSUndefined
	}
}

// Reproject converts an area geometry between WGS 84 and Web Mercator.
// If either CRS is undefined or both are equal the geometry is returned
// unchanged; the input is never mutated.
func Reproject(g geom.T, from, to CRS) (geom.T, error) {
	if g == nil || from == to || from == CRSUndefined || to == CRSUndefined {
		return g, nil
	}

	var tr func(lonlat []float64)
	switch {
	case from == CRSWGS84 && to == CRSWebMercator:
		tr = toWebMercator
	case from == CRSWebMercator && to == CRSWGS84:
		tr = toWGS84
	default:
		return nil, eris.Errorf("spatial: unsupported reprojection %s -> %s", from, to)
	}

	switch t := g.(type) {
	case *geom.Polygon:
		return geom.NewPolygonFlat(geom.XY, transformFlat(t.FlatCoords(), tr), t.Ends()), nil
	case *geom.MultiPolygon:
		return geom.NewMultiPolygonFlat(geom.XY, transformFlat(t.FlatCoords(), tr), t.Endss()), nil
	default:
		return nil, eris.Errorf("spatial: cannot reproject geometry type %T", g)
	}
}

func transformFlat(src []float64, tr func([]float64)) []float64 {
	out := make([]float64, len(src))
	copy(out, src)
	for i := 0; i+1 < len(out); i += 2 {
		tr(out[i : i+2])
	}
	return out
}

func toWebMercator(c []float64) {
	lon, lat := c[0], c[1]
	if lat > maxMercatorLat {
		lat = maxMercatorLat
	} else if lat < -maxMercatorLat {
		lat = -maxMercatorLat
	}
	c[0] = lon * webMercatorMax / 180
	c[1] = math.Log(math.Tan((90+lat)*math.Pi/360)) * webMercatorMax / math.Pi
}

func toWGS84(c []float64) {
	x, y := c[0], c[1]
	c[0] = x / webMercatorMax * 180
	c[1] = math.Atan(math.Exp(y*math.Pi/webMercatorMax))*360/math.Pi - 90
}
