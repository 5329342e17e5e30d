package bordertree

import (
	"github.com/ctessum/geom"
	"github.com/paulmach/orb"
)

// Region is a polygon prepared for repeated "within" and "intersects" tests.
// Points on a ring edge are not within the region.
type Region struct {
	polygons geom.MultiPolygon
}

func NewRegion(mp orb.MultiPolygon) Region {
	polygons := make(geom.MultiPolygon, len(mp))
	for i, poly := range mp {
		polygons[i] = make(geom.Polygon, len(poly))
		for j, ring := range poly {
			polygons[i][j] = toPath(ring)
		}
	}
	return Region{polygons: polygons}
}

// Contains reports whether p lies strictly inside one of the region's polygons.
func (r Region) Contains(p orb.Point) bool {
	pt := geom.Point{X: p[0], Y: p[1]}
	for _, poly := range r.polygons {
		if pt.Within(poly) == geom.Inside {
			return true
		}
	}
	return false
}

// IntersectsLine reports whether the line touches or crosses the region.
func (r Region) IntersectsLine(line orb.MultiLineString) bool {
	ml := make(geom.MultiLineString, 0, len(line))
	for _, ls := range line {
		if len(ls) < 2 {
			continue
		}
		ml = append(ml, geom.LineString(toPath(ls)))
	}
	if len(ml) == 0 {
		return false
	}

	for _, poly := range r.polygons {
		for _, ls := range ml {
			for _, pt := range ls {
				if pt.Within(poly) != geom.Outside {
					return true
				}
			}
		}
	}

	// every vertex is outside, the line can still pass through
	return ml.Clip(r.polygons).Len() > 0
}

func toPath(points []orb.Point) geom.Path {
	path := make(geom.Path, len(points))
	for i, p := range points {
		path[i] = geom.Point{X: p[0], Y: p[1]}
	}
	return path
}
