package sampler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/crs"
	"github.com/royalcat/geosample/pointio"
	"github.com/sourcegraph/conc/pool"
)

type CountyKey struct {
	StateFP  string
	CountyFP string
}

type WeightParams struct {
	// Relation of weight to the counted establishments, e.g. stores per citizen.
	Relation float64
	// Budget scales the share of points actually used.
	Budget float64
	// MaxPerScreen is how many establishments one point can cover.
	MaxPerScreen int
}

// OptimalPoints is the number of points a county of the given weight needs.
func OptimalPoints(weight float64, p WeightParams) int {
	establishments := weight * p.Relation
	numberOfPoints := round(establishments / float64(p.MaxPerScreen))
	return max(1, round(float64(numberOfPoints)*p.Budget))
}

// WeightedPolygons places OptimalPoints random points inside the polygon of
// every county row. Polygons are sampled in their own projection and the
// result is transformed with toWGS84. Output follows the row order.
func WeightedPolygons(ctx context.Context, rows []pointio.CountyWeight, counties map[CountyKey]orb.MultiPolygon, toWGS84 *crs.Transform, params WeightParams, opts Options) ([]orb.Point, error) {
	if len(rows) == 0 {
		return nil, ErrNoInput
	}
	if params.MaxPerScreen <= 0 {
		return nil, fmt.Errorf("max points per screen must be positive, got %d", params.MaxPerScreen)
	}

	log := slog.With("component", "sampler", "algorithm", "weight")

	bar := startProgress(opts.Progress, len(rows), "placing county points")
	defer bar.Finish()

	results := make([][]orb.Point, len(rows))
	p := pool.New().WithMaxGoroutines(opts.threads()).WithContext(ctx).WithCancelOnError()
	for i, row := range rows {
		key := CountyKey{StateFP: row.StateFP, CountyFP: row.CountyFP}
		poly, ok := counties[key]
		if !ok {
			log.Warn("no polygon for county, skipping", "statefp", row.StateFP, "countyfp", row.CountyFP)
			bar.Increment()
			continue
		}

		n := OptimalPoints(row.Weight, params)
		p.Go(func(ctx context.Context) error {
			defer bar.Increment()
			if err := ctx.Err(); err != nil {
				return err
			}

			points, err := pointsInPolygon(opts.Placement, poly, n, opts.Rand(uint64(i)))
			if err != nil {
				return fmt.Errorf("county %s%s: %w", row.StateFP, row.CountyFP, err)
			}

			for j, pt := range points {
				if points[j], err = toWGS84.Point(pt); err != nil {
					return fmt.Errorf("county %s%s: %w", row.StateFP, row.CountyFP, err)
				}
			}

			results[i] = points
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]orb.Point, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}

	return out, nil
}
