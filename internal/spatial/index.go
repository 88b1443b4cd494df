package spatial

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

const (
	treeDimensions  = 2
	treeMinChildren = 25
	treeMaxChildren = 50

	// rectPadding keeps degenerate bounding boxes (zero width or
	// height) representable as R-tree rectangles, which require
	// strictly positive side lengths.
	rectPadding = 1e-9
)

// Index is an in-memory R-tree over a fixed slice of area geometries.
// Queries return candidate slice positions whose bounding boxes overlap
// the query geometry; callers apply the exact predicate themselves.
type Index struct {
	tree  *rtreego.Rtree
	geoms []geom.T
}

type treeItem struct {
	pos  int
	rect *rtreego.Rect
}

func (it *treeItem) Bounds() *rtreego.Rect { return it.rect }

// NewIndex builds an R-tree over geoms. Nil entries keep their slice
// position but are not inserted, so candidate positions always address
// the original slice.
func NewIndex(geoms []geom.T) (*Index, error) {
	idx := &Index{
		tree:  rtreego.NewTree(treeDimensions, treeMinChildren, treeMaxChildren),
		geoms: geoms,
	}
	for i, g := range geoms {
		if g == nil {
			continue
		}
		rect, err := boundsRect(g.Bounds())
		if err != nil {
			return nil, eris.Wrapf(err, "spatial: index entry %d", i)
		}
		idx.tree.Insert(&treeItem{pos: i, rect: rect})
	}
	return idx, nil
}

// Candidates returns the positions of indexed geometries whose bounding
// boxes overlap the bounding box of g, in ascending order. Ascending
// order keeps join output deterministic across runs.
func (x *Index) Candidates(g geom.T) ([]int, error) {
	if g == nil {
		return nil, nil
	}
	rect, err := boundsRect(g.Bounds())
	if err != nil {
		return nil, eris.Wrap(err, "spatial: query rect")
	}
	hits := x.tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(*treeItem).pos)
	}
	sort.Ints(out)
	return out, nil
}

// Geometry returns the geometry stored at position i.
func (x *Index) Geometry(i int) geom.T { return x.geoms[i] }

// Len returns the number of slots the index was built over, counting
// nil entries.
func (x *Index) Len() int { return len(x.geoms) }

func boundsRect(b *geom.Bounds) (*rtreego.Rect, error) {
	origin := rtreego.Point{b.Min(0) - rectPadding, b.Min(1) - rectPadding}
	lengths := []float64{
		b.Max(0) - b.Min(0) + 2*rectPadding,
		b.Max(1) - b.Min(1) + 2*rectPadding,
	}
	return rtreego.NewRect(origin, lengths)
}
