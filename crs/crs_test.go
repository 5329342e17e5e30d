package crs_test

import (
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/crs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEPSG(t *testing.T) {
	c, err := crs.Parse("epsg:4326")
	require.NoError(t, err)
	assert.True(t, c.Geographic())
	assert.Equal(t, "EPSG:4326", c.String())
	assert.True(t, c.Equal(crs.WGS84))

	utm, err := crs.Parse("EPSG:32633")
	require.NoError(t, err)
	assert.False(t, utm.Geographic())

	_, err = crs.Parse("EPSG:1234567")
	assert.ErrorIs(t, err, crs.ErrUnknownEPSG)
}

func TestFromPrj(t *testing.T) {
	const prj = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

	c, err := crs.FromPrj(strings.NewReader(prj))
	require.NoError(t, err)
	assert.True(t, c.Geographic())
	assert.True(t, c.Equal(crs.WGS84))

	_, err = crs.FromPrj(strings.NewReader("not a projection"))
	assert.Error(t, err)
}

func TestUTMZone(t *testing.T) {
	assert.Equal(t, "EPSG:32633", crs.UTMZone(15, 50))
	assert.Equal(t, "EPSG:32618", crs.UTMZone(-74.006, 40.7128))
	assert.Equal(t, "EPSG:32756", crs.UTMZone(151.2, -33.8))
	assert.Equal(t, "EPSG:32660", crs.UTMZone(180, 10))
}

func TestIdentityTransform(t *testing.T) {
	tr, err := crs.NewTransform(crs.WGS84, crs.WGS84)
	require.NoError(t, err)
	assert.True(t, tr.Identity())

	p, err := tr.Point(orb.Point{1, 2})
	require.NoError(t, err)
	assert.Equal(t, orb.Point{1, 2}, p)
}

func TestUTMRoundTrip(t *testing.T) {
	utm, err := crs.Parse("EPSG:32633")
	require.NoError(t, err)

	to, err := crs.NewTransform(crs.WGS84, utm)
	require.NoError(t, err)
	back, err := crs.NewTransform(utm, crs.WGS84)
	require.NoError(t, err)

	// central meridian of zone 33, on the equator
	p, err := to.Point(orb.Point{15, 0})
	require.NoError(t, err)
	assert.InDelta(t, 500000, p[0], 1)
	assert.InDelta(t, 0, p[1], 1)

	ls, err := to.LineString(orb.LineString{{14.5, 48.1}, {15.5, 48.2}})
	require.NoError(t, err)
	geo, err := back.LineString(ls)
	require.NoError(t, err)
	assert.InDelta(t, 14.5, geo[0][0], 1e-6)
	assert.InDelta(t, 48.2, geo[1][1], 1e-6)
}

func TestTransformGeometry(t *testing.T) {
	merc, err := crs.Parse("EPSG:3857")
	require.NoError(t, err)
	tr, err := crs.NewTransform(merc, crs.WGS84)
	require.NoError(t, err)

	g, err := tr.Geometry(orb.MultiPolygon{{{{0, 0}, {1000, 0}, {1000, 1000}, {0, 0}}}})
	require.NoError(t, err)

	mp, ok := g.(orb.MultiPolygon)
	require.True(t, ok)
	assert.InDelta(t, 0.008983, mp[0][0][1][0], 1e-5)

	_, err = tr.Geometry(orb.Collection{})
	assert.Error(t, err)
}
