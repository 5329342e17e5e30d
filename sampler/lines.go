package sampler

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

func lineLength(line orb.MultiLineString) float64 {
	return planar.Length(line)
}

// interpolate returns the point at distance along the line, walking the
// parts in order as if they were joined. Distances are clamped to the line.
func interpolate(line orb.MultiLineString, distance float64) orb.Point {
	var last orb.Point
	found := false

	for _, ls := range line {
		for i := 1; i < len(ls); i++ {
			a, b := ls[i-1], ls[i]
			seg := math.Hypot(b[0]-a[0], b[1]-a[1])
			if distance <= seg {
				if seg == 0 {
					return a
				}
				t := max(distance, 0) / seg
				return orb.Point{a[0] + t*(b[0]-a[0]), a[1] + t*(b[1]-a[1])}
			}
			distance -= seg
			last, found = b, true
		}
		if !found && len(ls) > 0 {
			last, found = ls[0], true
		}
	}

	return last
}

// pointsAlong returns count points at spacing, 2*spacing, ... along the line.
func pointsAlong(line orb.MultiLineString, spacing float64, count int) []orb.Point {
	points := make([]orb.Point, count)
	for i := range points {
		points[i] = interpolate(line, float64(i+1)*spacing)
	}
	return points
}
