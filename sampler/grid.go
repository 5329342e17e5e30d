package sampler

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/pointio"
	"github.com/tidwall/geodesic"
)

const (
	metersPerMile = 1609.344
	// overshoot past the last border coordinate, in degrees
	gridPadding = 0.1
)

// Containment reports whether a point lies inside any region.
type Containment interface {
	Contains(point orb.Point) bool
}

// Grid spans a regular grid between the border points, spaced roughly
// distanceMiles apart along the geodesic western and northern edges, and
// keeps the nodes that fall inside regions. Nodes are ordered by longitude
// first, then by latitude from north to south.
func Grid(border pointio.BorderPoints, regions Containment, distanceMiles float64) ([]orb.Point, error) {
	if !(distanceMiles > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDistance, distanceMiles)
	}

	nw, sw, ne := border.NorthWest, border.SouthWest, border.NorthEast

	latitudes := gridAxis(nw.Lat(), sw.Lat(), geodesicMiles(nw, sw), distanceMiles)
	longitudes := gridAxis(nw.Lon(), ne.Lon(), geodesicMiles(nw, ne), distanceMiles)

	points := make([]orb.Point, 0, len(latitudes)*len(longitudes)/2)
	for _, lon := range longitudes {
		for _, lat := range latitudes {
			p := orb.Point{lon, lat}
			if regions.Contains(p) {
				points = append(points, p)
			}
		}
	}

	return points, nil
}

func geodesicMiles(a, b orb.Point) float64 {
	var s12 float64
	geodesic.WGS84.Inverse(a.Lat(), a.Lon(), b.Lat(), b.Lon(), &s12, nil, nil)
	return s12 / metersPerMile
}

// gridAxis divides [start, end] into int(span/distance)+1 nodes and keeps
// stepping until gridPadding past end.
func gridAxis(start, end, spanMiles, distanceMiles float64) []float64 {
	total := int(spanMiles/distanceMiles) + 1
	if total < 2 || start == end {
		return []float64{start}
	}

	step := (end - start) / float64(total-1)
	return arange(start, end+math.Copysign(gridPadding, step), step)
}

// arange yields start, start+step, ... up to but excluding stop.
func arange(start, stop, step float64) []float64 {
	n := math.Ceil((stop - start) / step)
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return nil
	}

	out := make([]float64, int(n))
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}
