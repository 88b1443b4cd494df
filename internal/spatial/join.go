// Package spatial implements the bulk left-outer spatial join between
// record geometries and reference boundary geometries: an R-tree
// bounding-box prefilter followed by an exact intersects predicate,
// with coordinate frames aligned by reprojection when both sides
// declare a CRS.
package spatial

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultJoinWorkers = 4

// Staged pairs a record's position in the input batch with its
// normalized area geometry. Only records with non-nil geometry are
// staged for the join.
type Staged struct {
	Index int
	Geom  geom.T
}

// NullIndex marks the boundary side of a join row for staged records
// that intersected nothing.
const NullIndex = -1

// Pair is one row of the join result: a record index and the position
// of a boundary it intersects, or NullIndex for the left-outer null
// row.
type Pair struct {
	RecordIndex   int
	BoundaryIndex int
}

// Engine runs the bulk intersects join against a fixed boundary set.
type Engine struct {
	index       *Index
	boundaryCRS CRS
	workers     int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of concurrent join workers.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.workers = n
		}
	}
}

// NewEngine indexes the boundary geometries once; the engine is then
// reusable across batches.
func NewEngine(boundaries []geom.T, boundaryCRS CRS, opts ...Option) (*Engine, error) {
	idx, err := NewIndex(boundaries)
	if err != nil {
		return nil, eris.Wrap(err, "spatial: build boundary index")
	}
	e := &Engine{
		index:       idx,
		boundaryCRS: boundaryCRS,
		workers:     defaultJoinWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Join computes all (record, boundary) intersection rows for the staged
// batch in one pass. Every staged record yields at least one row; a
// record that matches nothing yields exactly one row with
// BoundaryIndex == NullIndex. Record geometries are reprojected into
// the boundary frame when both CRSs are defined and differ. Rows are
// ordered by staged position, then ascending boundary position.
func (e *Engine) Join(ctx context.Context, staged []Staged, recordCRS CRS) ([]Pair, error) {
	log := zap.L().With(zap.Int("staged", len(staged)), zap.Int("boundaries", e.index.Len()))
	log.Debug("spatial join started",
		zap.String("record_crs", recordCRS.String()),
		zap.String("boundary_crs", e.boundaryCRS.String()))

	rows := make([][]Pair, len(staged))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for i, s := range staged {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			aligned, err := Reproject(s.Geom, recordCRS, e.boundaryCRS)
			if err != nil {
				return eris.Wrapf(err, "spatial: align record %d", s.Index)
			}

			cands, err := e.index.Candidates(aligned)
			if err != nil {
				return eris.Wrapf(err, "spatial: candidates for record %d", s.Index)
			}

			var matched []Pair
			for _, c := range cands {
				if Intersects(aligned, e.index.Geometry(c)) {
					matched = append(matched, Pair{RecordIndex: s.Index, BoundaryIndex: c})
				}
			}
			if len(matched) == 0 {
				matched = []Pair{{RecordIndex: s.Index, BoundaryIndex: NullIndex}}
			}
			rows[i] = matched
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "spatial: join")
	}

	out := make([]Pair, 0, len(staged))
	for _, matched := range rows {
		out = append(out, matched...)
	}

	log.Debug("spatial join finished", zap.Int("rows", len(out)))
	return out, nil
}

// GroupByRecord buckets join rows by record index over a batch of n
// records. Null rows keep their NullIndex entry so downstream
// classification can distinguish "joined but matched nothing" from
// "never staged". Records absent from the join have nil buckets.
func GroupByRecord(pairs []Pair, n int) [][]int {
	out := make([][]int, n)
	for _, p := range pairs {
		out[p.RecordIndex] = append(out[p.RecordIndex], p.BoundaryIndex)
	}
	return out
}
