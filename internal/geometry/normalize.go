// Package geometry converts raw spatial descriptors into canonical area
// geometries.
package geometry

import (
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
)

// Normalize converts one record's raw spatial descriptors into a single area
// geometry. Boxes arrive as "south west north east" strings, polygon rings as
// flat "lat lon lat lon ..." sequences. Malformed descriptors are skipped.
// Points are accepted but never become area geometry. Returns nil when no
// usable area geometry can be derived.
func Normalize(boxes []string, polygons [][]string, points []string) geom.T {
	shapes := make([]geom.T, 0, len(boxes)+len(polygons))
	skipped := 0

	for _, b := range boxes {
		poly := parseBox(b)
		if poly == nil {
			skipped++
			continue
		}
		shapes = append(shapes, poly)
	}
	for _, rings := range polygons {
		for _, r := range rings {
			poly := parseRing(r)
			if poly == nil {
				skipped++
				continue
			}
			shapes = append(shapes, poly)
		}
	}

	if skipped > 0 {
		zap.L().Debug("geometry: skipped malformed descriptors", zap.Int("skipped", skipped))
	}

	var combined geom.T
	switch len(shapes) {
	case 0:
		return nil
	case 1:
		combined = shapes[0]
	default:
		combined = union(shapes)
	}
	return extractPolygonal(combined)
}

// parseBox converts a "south west north east" descriptor into a closed
// rectangle. Returns nil for malformed descriptors.
func parseBox(s string) geom.T {
	fields := strings.Fields(s)
	if len(fields) != 4 {
		return nil
	}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil
		}
		vals[i] = v
	}
	south, west, north, east := vals[0], vals[1], vals[2], vals[3]

	ring := geom.NewLinearRingFlat(geom.XY, []float64{
		west, south,
		east, south,
		east, north,
		west, north,
		west, south,
	})
	poly := geom.NewPolygon(geom.XY)
	if err := poly.Push(ring); err != nil {
		return nil
	}
	return poly
}

// parseRing converts a flat "lat lon lat lon ..." descriptor into a closed
// polygon. Coordinates arrive latitude-first and are stored (lon, lat). An
// open ring is closed by appending its first point. Returns nil for rings
// with fewer than 3 pairs, an odd token count, a non-numeric token, or 2 or
// fewer distinct points after closing.
func parseRing(s string) geom.T {
	fields := strings.Fields(s)
	if len(fields) < 6 || len(fields)%2 != 0 {
		return nil
	}
	coords := make([]geom.Coord, 0, len(fields)/2+1)
	for i := 0; i < len(fields); i += 2 {
		lat, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil
		}
		lon, err := strconv.ParseFloat(fields[i+1], 64)
		if err != nil {
			return nil
		}
		coords = append(coords, geom.Coord{lon, lat})
	}

	first, last := coords[0], coords[len(coords)-1]
	if first[0] != last[0] || first[1] != last[1] {
		coords = append(coords, first)
	}
	if distinctCoords(coords) <= 2 {
		return nil
	}

	ring := geom.NewLinearRingFlat(geom.XY, flatCoords(coords))
	poly := geom.NewPolygon(geom.XY)
	if err := poly.Push(ring); err != nil {
		return nil
	}
	return poly
}

// union merges the polygonal members of all shapes into one multi-polygon.
func union(shapes []geom.T) geom.T {
	mp := geom.NewMultiPolygon(geom.XY)
	for _, s := range shapes {
		for _, poly := range polygonalMembers(s) {
			if err := mp.Push(poly); err != nil {
				zap.L().Debug("geometry: skipping malformed union member", zap.Error(err))
			}
		}
	}
	if mp.NumPolygons() == 0 {
		return nil
	}
	return mp
}

// extractPolygonal keeps only area geometry: polygons and multi-polygons pass
// through, a mixed collection is reduced to its polygonal members (one member
// returned directly, several re-merged), anything else yields nil.
func extractPolygonal(g geom.T) geom.T {
	switch t := g.(type) {
	case nil:
		return nil
	case *geom.Polygon:
		return t
	case *geom.MultiPolygon:
		if t.NumPolygons() == 0 {
			return nil
		}
		return t
	case *geom.GeometryCollection:
		members := polygonalMembers(t)
		switch len(members) {
		case 0:
			return nil
		case 1:
			return members[0]
		}
		mp := geom.NewMultiPolygon(geom.XY)
		for _, p := range members {
			if err := mp.Push(p); err != nil {
				zap.L().Debug("geometry: skipping malformed collection member", zap.Error(err))
			}
		}
		if mp.NumPolygons() == 0 {
			return nil
		}
		return mp
	default:
		return nil
	}
}

// polygonalMembers flattens a geometry into its constituent polygons.
// Non-area members are dropped.
func polygonalMembers(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		polys := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			polys = append(polys, t.Polygon(i))
		}
		return polys
	case *geom.GeometryCollection:
		var polys []*geom.Polygon
		for i := 0; i < t.NumGeoms(); i++ {
			polys = append(polys, polygonalMembers(t.Geom(i))...)
		}
		return polys
	default:
		return nil
	}
}

// distinctCoords counts the distinct coordinate pairs in a ring.
func distinctCoords(coords []geom.Coord) int {
	seen := make(map[[2]float64]struct{}, len(coords))
	for _, c := range coords {
		seen[[2]float64{c[0], c[1]}] = struct{}{}
	}
	return len(seen)
}

// flatCoords converts a slice of Coord to flat coordinate pairs for go-geom.
func flatCoords(coords []geom.Coord) []float64 {
	flat := make([]float64, 0, len(coords)*2)
	for _, c := range coords {
		flat = append(flat, c[0], c[1])
	}
	return flat
}
