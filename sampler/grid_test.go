package sampler

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/bordertree"
	"github.com/royalcat/geosample/pointio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type everywhere struct{}

func (everywhere) Contains(orb.Point) bool { return true }

func TestArange(t *testing.T) {
	assert.Equal(t, []float64{0, 1, 2}, arange(0, 2.5, 1))
	assert.Equal(t, []float64{0, 1, 2}, arange(0, 3, 1))
	assert.Equal(t, []float64{5, 4, 3}, arange(5, 2.9, -1))
	assert.Empty(t, arange(0, -1, 1))
	assert.Empty(t, arange(0, 1, 0))
}

func TestGridAxis(t *testing.T) {
	// 10 miles at 2 miles spacing: 6 nodes, padding adds nothing at this step
	axis := gridAxis(10, 0, 10, 2)
	require.Len(t, axis, 6)
	assert.InDelta(t, 10, axis[0], 1e-12)
	assert.InDelta(t, 0, axis[5], 1e-9)

	// spacing above the span collapses to the starting coordinate
	assert.Equal(t, []float64{10}, gridAxis(10, 0, 10, 50))
}

func TestGridInvalidDistance(t *testing.T) {
	_, err := Grid(pointio.BorderPoints{}, everywhere{}, 0)
	assert.ErrorIs(t, err, ErrInvalidDistance)
}

func TestGridOrderAndClipping(t *testing.T) {
	border := pointio.BorderPoints{
		NorthWest: orb.Point{0, 1},
		SouthWest: orb.Point{0, 0},
		NorthEast: orb.Point{1, 1},
	}

	// about 69 miles between the corners, so 4 nodes per axis at 22 miles
	all, err := Grid(border, everywhere{}, 22)
	require.NoError(t, err)
	require.Len(t, all, 16)
	assert.Equal(t, orb.Point{0, 1}, all[0])
	assert.InDelta(t, 0, all[3].Lat(), 1e-9, "latitude runs north to south first")
	assert.InDelta(t, 0, all[3].Lon(), 1e-12)
	assert.InDelta(t, 1, all[15].Lon(), 1e-9)

	regions := bordertree.NewBorderTree[int]()
	regions.InsertBorder(0, orb.MultiPolygon{{{{-0.01, 0.5}, {1.01, 0.5}, {1.01, 1.01}, {-0.01, 1.01}, {-0.01, 0.5}}}})

	north, err := Grid(border, regions, 22)
	require.NoError(t, err)
	require.Len(t, north, 8)
	for _, p := range north {
		assert.Greater(t, p.Lat(), 0.5)
	}
}

func TestGridDropsNodesOnRegionEdge(t *testing.T) {
	border := pointio.BorderPoints{
		NorthWest: orb.Point{0, 1},
		SouthWest: orb.Point{0, 0},
		NorthEast: orb.Point{1, 1},
	}

	// 5 nodes per axis at 17 miles, a quarter degree apart, the outer ring on the square's edge
	regions := bordertree.NewBorderTree[int]()
	regions.InsertBorder(0, square(0, 0, 1))

	all, err := Grid(border, everywhere{}, 17)
	require.NoError(t, err)
	require.Len(t, all, 25)

	inside, err := Grid(border, regions, 17)
	require.NoError(t, err)
	require.Len(t, inside, 9)
	for _, p := range inside {
		assert.True(t, p.Lon() > 0 && p.Lon() < 1, "%v", p)
		assert.True(t, p.Lat() > 0 && p.Lat() < 1, "%v", p)
	}
	assert.Equal(t, orb.Point{0.25, 0.75}, inside[0])
}
