package sampler

import (
	"fmt"
	"math"
	mathrand "math/rand"
	"math/rand/v2"

	"github.com/fogleman/poissondisc"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/geosample/bordertree"
)

// attempts allowed per requested point before giving up on a polygon
const maxAttemptsPerPoint = 10_000

// poisson disc candidates per active sample
const poissonCandidates = 10

func pointsInPolygon(placement Placement, poly orb.MultiPolygon, n int, rng *rand.Rand) ([]orb.Point, error) {
	switch placement {
	case PlacementPoisson:
		return poissonPointsInPolygon(poly, n, rng)
	default:
		return randomPointsInPolygon(poly, n, rng)
	}
}

// randomPointsInPolygon draws uniform points in the bounding box and keeps
// the ones strictly inside the polygon.
func randomPointsInPolygon(poly orb.MultiPolygon, n int, rng *rand.Rand) ([]orb.Point, error) {
	points := make([]orb.Point, 0, n)
	if n <= 0 {
		return points, nil
	}

	region := bordertree.NewRegion(poly)
	bound := poly.Bound()
	for attempts := 0; len(points) < n; attempts++ {
		if attempts >= n*maxAttemptsPerPoint {
			return points, fmt.Errorf("%w: placed %d of %d after %d attempts", ErrSamplingExhausted, len(points), n, attempts)
		}

		p := orb.Point{
			uniform(rng, bound.Min.X(), bound.Max.X()),
			uniform(rng, bound.Min.Y(), bound.Max.Y()),
		}
		if region.Contains(p) {
			points = append(points, p)
		}
	}

	return points, nil
}

// poissonPointsInPolygon fills the polygon with Poisson disc samples, so that
// points keep a minimum spacing, then trims or tops up to n.
func poissonPointsInPolygon(poly orb.MultiPolygon, n int, rng *rand.Rand) ([]orb.Point, error) {
	if n <= 0 {
		return []orb.Point{}, nil
	}

	area := planar.Area(poly)
	if area <= 0 {
		return randomPointsInPolygon(poly, n, rng)
	}

	// a bit tighter than area/n so the fill usually overshoots
	radius := 0.75 * math.Sqrt(area/float64(n))

	bound := poly.Bound()
	src := mathrand.New(mathrand.NewSource(int64(rng.Uint64())))
	samples := poissondisc.Sample(bound.Min.X(), bound.Min.Y(), bound.Max.X(), bound.Max.Y(), radius, poissonCandidates, src)

	region := bordertree.NewRegion(poly)
	points := make([]orb.Point, 0, len(samples))
	for _, s := range samples {
		p := orb.Point{s.X, s.Y}
		if region.Contains(p) {
			points = append(points, p)
		}
	}

	rng.Shuffle(len(points), func(i, j int) {
		points[i], points[j] = points[j], points[i]
	})

	if len(points) >= n {
		return points[:n], nil
	}

	extra, err := randomPointsInPolygon(poly, n-len(points), rng)
	return append(points, extra...), err
}
