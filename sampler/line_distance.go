package sampler

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// LineDistance places points every distance units along each line, starting
// one step from its beginning. Lines shorter than distance get none.
func LineDistance(lines []orb.MultiLineString, distance float64) ([]orb.Point, error) {
	if !(distance > 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDistance, distance)
	}

	points := []orb.Point{}
	for _, line := range lines {
		total := lineLength(line)
		if total < distance {
			continue
		}

		count := int(math.Floor(total / distance))
		points = append(points, pointsAlong(line, distance, count)...)
	}

	return points, nil
}
