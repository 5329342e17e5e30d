package sampler

import (
	"fmt"
	"math"
	"slices"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/geosample/bordertree"
)

type Preference string

const (
	PreferLargerPopulation  Preference = "larger_population"
	PreferSmallerPopulation Preference = "smaller_population"
)

func ParsePreference(s string) (Preference, error) {
	switch s {
	case "larger_population", "larger_weight":
		return PreferLargerPopulation, nil
	case "smaller_population", "smaller_weight":
		return PreferSmallerPopulation, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPreference, s)
}

// JoinedLine is one line/region pair of an intersects join.
type JoinedLine struct {
	Line       orb.MultiLineString
	Length     float64
	RegionArea float64
}

// Weight is the line length per unit of region area.
func (j JoinedLine) Weight() float64 {
	return j.Length / j.RegionArea
}

// JoinLines pairs every line with each region it intersects. A line crossing
// several regions appears once per region. Regions without area are ignored.
func JoinLines(lines []orb.MultiLineString, regions []orb.MultiPolygon) []JoinedLine {
	bt := bordertree.NewBorderTree[int]()
	areas := make([]float64, len(regions))
	for i, r := range regions {
		areas[i] = math.Abs(planar.Area(r))
		if areas[i] > 0 {
			bt.InsertBorder(i, r)
		}
	}

	joined := []JoinedLine{}
	for _, line := range lines {
		length := lineLength(line)
		for _, id := range bt.QueryLine(line) {
			joined = append(joined, JoinedLine{Line: line, Length: length, RegionArea: areas[id]})
		}
	}
	return joined
}

// LineWeight spreads points evenly along each joined line. The line whose
// preference value is lowest gets maxPerLine points, the others fewer in
// proportion, never less than one.
func LineWeight(joined []JoinedLine, pref Preference, maxPerLine int) ([]orb.Point, error) {
	if maxPerLine <= 0 {
		return nil, fmt.Errorf("%w: max points per line %d", ErrInvalidCount, maxPerLine)
	}
	if len(joined) == 0 {
		return []orb.Point{}, nil
	}

	preference, err := weightPreference(joined, pref)
	if err != nil {
		return nil, err
	}
	lo, hi := slices.Min(preference), slices.Max(preference)

	points := []orb.Point{}
	for i, j := range joined {
		count := maxPerLine
		if hi > lo {
			count = int(float64(maxPerLine) * (1 - (preference[i]-lo)/(hi-lo)))
		}
		count = max(count, 1)

		spacing := j.Length / float64(count)
		points = append(points, pointsAlong(j.Line, spacing, count)...)
	}

	return points, nil
}

func weightPreference(joined []JoinedLine, pref Preference) ([]float64, error) {
	weights := make([]float64, len(joined))
	for i, j := range joined {
		weights[i] = j.Weight()
	}

	switch pref {
	case PreferLargerPopulation:
		top := slices.Max(weights)
		for i, w := range weights {
			weights[i] = top - w
		}
	case PreferSmallerPopulation:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidPreference, pref)
	}

	return weights, nil
}
