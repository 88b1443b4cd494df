package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-geom"
)

// rect builds a closed axis-aligned rectangle, the workhorse fixture
// for predicate and join tests.
func rect(minX, minY, maxX, maxY float64) *geom.Polygon {
	return geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}})
}

func TestIntersects_Disjoint(t *testing.T) {
	assert.False(t, Intersects(rect(0, 0, 10, 10), rect(20, 20, 30, 30)))
}

func TestIntersects_Overlapping(t *testing.T) {
	assert.True(t, Intersects(rect(0, 0, 10, 10), rect(5, 5, 15, 15)))
}

func TestIntersects_SharedEdge(t *testing.T) {
	// Touching counts as intersecting.
	assert.True(t, Intersects(rect(0, 0, 10, 10), rect(10, 0, 20, 10)))
}

func TestIntersects_SharedCorner(t *testing.T) {
	assert.True(t, Intersects(rect(0, 0, 10, 10), rect(10, 10, 20, 20)))
}

func TestIntersects_Containment(t *testing.T) {
	outer := rect(0, 0, 100, 100)
	inner := rect(40, 40, 60, 60)

	assert.True(t, Intersects(outer, inner))
	assert.True(t, Intersects(inner, outer))
}

func TestIntersects_CrossWithoutContainedVertices(t *testing.T) {
	// Two bars crossing like a plus sign: edges intersect but no
	// vertex of either lies inside the other.
	horizontal := rect(-10, 4, 20, 6)
	vertical := rect(4, -10, 6, 20)

	assert.True(t, Intersects(horizontal, vertical))
}

func TestIntersects_InsideHole(t *testing.T) {
	donut := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}},
		{{40, 40}, {60, 40}, {60, 60}, {40, 60}, {40, 40}},
	})

	assert.False(t, Intersects(donut, rect(45, 45, 55, 55)))
	assert.False(t, Intersects(rect(45, 45, 55, 55), donut))
}

func TestIntersects_CrossingHoleEdge(t *testing.T) {
	donut := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{
		{{0, 0}, {100, 0}, {100, 100}, {0, 100}, {0, 0}},
		{{40, 40}, {60, 40}, {60, 60}, {40, 60}, {40, 40}},
	})

	// Spans from inside the hole across its edge into the solid part.
	assert.True(t, Intersects(donut, rect(45, 45, 70, 55)))
}

func TestIntersects_MultiPolygonMember(t *testing.T) {
	mp := geom.NewMultiPolygon(geom.XY).MustSetCoords([][][]geom.Coord{
		{{{200, 200}, {210, 200}, {210, 210}, {200, 210}, {200, 200}}},
		{{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}}},
	})

	assert.True(t, Intersects(mp, rect(5, 5, 8, 8)))
	assert.False(t, Intersects(mp, rect(50, 50, 60, 60)))
}

func TestIntersects_BBoxOverlapOnly(t *testing.T) {
	// Triangle bounding box covers (0,0)-(10,10) but the shape leaves
	// the far corner empty.
	triangle := geom.NewPolygon(geom.XY).MustSetCoords([][]geom.Coord{{
		{0, 0}, {10, 0}, {0, 10}, {0, 0},
	}})

	assert.False(t, Intersects(triangle, rect(8, 8, 9, 9)))
	assert.True(t, Intersects(triangle, rect(1, 1, 3, 3)))
}

func TestIntersects_NilOperands(t *testing.T) {
	assert.False(t, Intersects(nil, nil))
	assert.False(t, Intersects(rect(0, 0, 1, 1), nil))
	assert.False(t, Intersects(nil, rect(0, 0, 1, 1)))
}

func TestIntersects_NonAreaOperand(t *testing.T) {
	pt := geom.NewPointFlat(geom.XY, []float64{5, 5})
	assert.False(t, Intersects(pt, rect(0, 0, 10, 10)))
}
