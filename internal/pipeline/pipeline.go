// Package pipeline orchestrates a classification run: per-record
// normalization and field projection, one bulk spatial join against the
// reference boundaries, and scope write-back into the output tables.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nasakg/geoscope/internal/boundary"
	"github.com/nasakg/geoscope/internal/config"
	"github.com/nasakg/geoscope/internal/geometry"
	"github.com/nasakg/geoscope/internal/model"
	"github.com/nasakg/geoscope/internal/scope"
	"github.com/nasakg/geoscope/internal/spatial"
	"github.com/nasakg/geoscope/pkg/cmr"
)

// Pipeline classifies batches of catalog records against one immutable
// boundary set. The boundary index is built once at construction and
// reused across runs.
type Pipeline struct {
	cfg        *config.Config
	boundaries *boundary.Set
	engine     *spatial.Engine
}

// Result pairs the output tables with run statistics. Failures counts
// records whose descriptors yielded no usable area geometry.
type Result struct {
	Output      *model.Output
	Records     int
	Failures    int
	ScopeCounts map[string]int
}

// New builds a Pipeline over the loaded boundary set.
func New(cfg *config.Config, boundaries *boundary.Set) (*Pipeline, error) {
	engine, err := spatial.NewEngine(boundaries.Geometries(), boundaries.CRS,
		spatial.WithWorkers(cfg.Pipeline.Workers))
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: index boundaries")
	}
	return &Pipeline{cfg: cfg, boundaries: boundaries, engine: engine}, nil
}

// Run executes the two-pass classification over records. Pass one
// projects metadata fields and normalizes geometry per record; pass two
// runs the bulk join once and writes scope results back by record
// index. Record-level problems never abort the batch.
func (p *Pipeline) Run(ctx context.Context, records []cmr.Collection) (*Result, error) {
	log := zap.L().With(zap.Int("records", len(records)))
	log.Info("pipeline: run started", zap.Int("boundaries", len(p.boundaries.Features)))

	out := model.NewOutput(len(records))
	geoms := make([]geom.T, len(records))

	// Pass 1: rows are index-disjoint, so records normalize in
	// parallel without locks.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Pipeline.Workers)
	for i, rec := range records {
		i, rec := i, rec
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			projectRecord(out, i, rec)
			geoms[i] = geometry.Normalize(rec.Boxes, rec.Polygons, rec.Points)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: normalize records")
	}

	// Stage join input and default the geometry-less rows.
	var staged []spatial.Staged
	failures := 0
	for i := range records {
		if geoms[i] == nil {
			out.LocationCategory[i] = model.LocationCategory{Category: scope.ScopeUnclassified}
			out.SpatialExtent[i].PlaceNames = []string{}
			failures++
			continue
		}
		staged = append(staged, spatial.Staged{Index: i, Geom: geoms[i]})
	}

	// Pass 2: one bulk join, then per-record classification.
	if len(staged) > 0 {
		// Raw descriptors are latitude/longitude by definition.
		pairs, err := p.engine.Join(ctx, staged, spatial.CRSWGS84)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: spatial join")
		}

		for idx, bucket := range spatial.GroupByRecord(pairs, len(records)) {
			if bucket == nil {
				continue
			}
			res := scope.Classify(p.matches(bucket))
			out.LocationCategory[idx] = model.LocationCategory{Category: res.Scope}
			out.SpatialExtent[idx].PlaceNames = res.PlaceNames()
		}
	}

	counts := make(map[string]int)
	for _, lc := range out.LocationCategory {
		counts[lc.Category]++
	}

	log.Info("pipeline: run finished",
		zap.Int("staged", len(staged)),
		zap.Int("failures", failures))
	return &Result{
		Output:      out,
		Records:     len(records),
		Failures:    failures,
		ScopeCounts: counts,
	}, nil
}

// matches converts one record's join bucket into classifier input,
// keeping the null row as a nil match.
func (p *Pipeline) matches(bucket []int) []*scope.Match {
	out := make([]*scope.Match, 0, len(bucket))
	for _, bi := range bucket {
		if bi == spatial.NullIndex {
			out = append(out, nil)
			continue
		}
		f := p.boundaries.Features[bi]
		out = append(out, &scope.Match{City: f.City, Country: f.Country, Continent: f.Continent})
	}
	return out
}
