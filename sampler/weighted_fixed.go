package sampler

import (
	"cmp"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/pointio"
)

const DefaultJitter = 0.09

// WeightedFixed picks exactly n points from weighted centres. With n not
// above the number of centres the heaviest centres are returned. Otherwise
// every centre is kept and the surplus is shared by weight as jittered copies;
// what rounding leaves over goes one per centre, heaviest first.
func WeightedFixed(rows []pointio.WeightedPoint, n int, jitter float64, rng *rand.Rand) ([]orb.Point, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	if len(rows) == 0 {
		return nil, ErrNoInput
	}

	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b pointio.WeightedPoint) int {
		return cmp.Compare(b.Weight, a.Weight)
	})

	if n <= len(sorted) {
		points := make([]orb.Point, n)
		for i := range points {
			points[i] = sorted[i].Point
		}
		return points, nil
	}

	points := make([]orb.Point, 0, n)
	for _, r := range sorted {
		points = append(points, r.Point)
	}

	total := 0.0
	for _, r := range sorted {
		total += r.Weight
	}

	surplus := n - len(sorted)
	for _, r := range sorted {
		for range allocatedPoints(r.Weight, total, surplus) {
			points = append(points, jitterPoint(r.Point, jitter, rng))
		}
	}

	for i := 0; len(points) < n; i = (i + 1) % len(sorted) {
		points = append(points, jitterPoint(sorted[i].Point, jitter, rng))
	}

	return points[:n], nil
}

// allocatedPoints gives a centre its whole-percent share of surplus.
func allocatedPoints(weight, total float64, surplus int) int {
	if total <= 0 {
		return 0
	}
	percentage := round(weight / total * 100)
	return max(0, round(float64(percentage)/100*float64(surplus)))
}

func jitterPoint(p orb.Point, maxChange float64, rng *rand.Rand) orb.Point {
	lat := p.Lat() + uniform(rng, -maxChange, maxChange)
	lon := p.Lon() + uniform(rng, -maxChange, maxChange)
	return orb.Point{lon, lat}
}
