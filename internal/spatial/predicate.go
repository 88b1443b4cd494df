package spatial

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/lineintersector"
)

// Intersects reports whether two area geometries share at least one
// point. Boundary contact counts as an intersection. Inputs may be
// polygons or multi-polygons; anything else, including nil, never
// intersects.
func Intersects(a, b geom.T) bool {
	as := polygonsOf(a)
	bs := polygonsOf(b)
	if len(as) == 0 || len(bs) == 0 {
		return false
	}
	for _, pa := range as {
		for _, pb := range bs {
			if polygonsIntersect(pa, pb) {
				return true
			}
		}
	}
	return false
}

func polygonsOf(g geom.T) []*geom.Polygon {
	switch t := g.(type) {
	case *geom.Polygon:
		if t.NumLinearRings() == 0 {
			return nil
		}
		return []*geom.Polygon{t}
	case *geom.MultiPolygon:
		out := make([]*geom.Polygon, 0, t.NumPolygons())
		for i := 0; i < t.NumPolygons(); i++ {
			if p := t.Polygon(i); p.NumLinearRings() > 0 {
				out = append(out, p)
			}
		}
		return out
	default:
		return nil
	}
}

func polygonsIntersect(a, b *geom.Polygon) bool {
	if !a.Bounds().Overlaps(geom.XY, b.Bounds()) {
		return false
	}
	if edgesCross(a, b) {
		return true
	}
	// No edge contact: the polygons are either disjoint or one lies
	// entirely inside the other, so testing a single vertex each way
	// settles it.
	return containsPoint(a, firstVertex(b)) || containsPoint(b, firstVertex(a))
}

// edgesCross reports whether any ring segment of a intersects any ring
// segment of b, including endpoint touches.
func edgesCross(a, b *geom.Polygon) bool {
	intersector := lineintersector.RobustLineIntersector{}
	for i := 0; i < a.NumLinearRings(); i++ {
		ra := a.LinearRing(i)
		for j := 0; j < b.NumLinearRings(); j++ {
			rb := b.LinearRing(j)
			if !ra.Bounds().Overlaps(geom.XY, rb.Bounds()) {
				continue
			}
			fa := ra.FlatCoords()
			fb := rb.FlatCoords()
			for s := 0; s+3 < len(fa); s += 2 {
				a0 := geom.Coord{fa[s], fa[s+1]}
				a1 := geom.Coord{fa[s+2], fa[s+3]}
				for u := 0; u+3 < len(fb); u += 2 {
					b0 := geom.Coord{fb[u], fb[u+1]}
					b1 := geom.Coord{fb[u+2], fb[u+3]}
					res := lineintersector.LineIntersectsLine(intersector, a0, a1, b0, b1)
					if res.HasIntersection() {
						return true
					}
				}
			}
		}
	}
	return false
}

// containsPoint reports whether c lies inside p: within the outer ring
// and outside every hole.
func containsPoint(p *geom.Polygon, c geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}
	if !xy.IsPointInRing(geom.XY, c, p.LinearRing(0).FlatCoords()) {
		return false
	}
	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(geom.XY, c, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}
	return true
}

func firstVertex(p *geom.Polygon) geom.Coord {
	f := p.LinearRing(0).FlatCoords()
	return geom.Coord{f[0], f[1]}
}
