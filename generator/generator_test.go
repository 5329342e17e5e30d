package generator

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/geosample/config"
	"github.com/royalcat/geosample/crs"
	"github.com/royalcat/geosample/shapefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(minX, minY, size float64) orb.MultiPolygon {
	return orb.MultiPolygon{{{
		{minX, minY}, {minX, minY + size}, {minX + size, minY + size}, {minX + size, minY}, {minX, minY},
	}}}
}

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	cfg := config.Default()
	cfg.General.MaxNumPerScreen = 100

	g, err := New(cfg, false)
	require.NoError(t, err)
	return g
}

func writeText(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func writeLayer(t *testing.T, dir, name string, layer *shapefile.Layer) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, shapefile.WriteZip(layer, path))
	return path
}

// readOutput returns the header and the points, as (lon, lat), of a generated file.
func readOutput(t *testing.T, path string) ([]string, []orb.Point) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)

	points := make([]orb.Point, 0, len(rows)-1)
	for _, row := range rows[1:] {
		lat, err := strconv.ParseFloat(row[0], 64)
		require.NoError(t, err)
		lon, err := strconv.ParseFloat(row[1], 64)
		require.NoError(t, err)
		points = append(points, orb.Point{lon, lat})
	}
	return rows[0], points
}

func countiesLayer() *shapefile.Layer {
	return &shapefile.Layer{
		CRS:    crs.WGS84,
		Fields: []string{"STATEFP", "COUNTYFP", "NAME"},
		Features: []shapefile.Feature{
			{Geometry: square(0, 0, 1), Attrs: map[string]string{"STATEFP": "01", "COUNTYFP": "001", "NAME": "First"}},
			{Geometry: square(5, 5, 1), Attrs: map[string]string{"STATEFP": "01", "COUNTYFP": "003", "NAME": "Second"}},
		},
	}
}

func roadsLayer() *shapefile.Layer {
	return &shapefile.Layer{
		CRS:    crs.WGS84,
		Fields: []string{"RTTYP"},
		Features: []shapefile.Feature{
			{Geometry: orb.MultiLineString{{{0, 0}, {1, 0}}}, Attrs: map[string]string{"RTTYP": "I"}},
			{Geometry: orb.MultiLineString{{{0, 1}, {2, 1}}}, Attrs: map[string]string{"RTTYP": "M"}},
		},
	}
}

func TestValidate(t *testing.T) {
	g := newGenerator(t)

	_, err := g.Validate(config.Params{Alg: "voronoi"})
	assert.ErrorIs(t, err, ErrInvalidAlgorithm)

	alg, err := g.Validate(config.Params{Alg: "grid", Distance: 10})
	assert.Equal(t, AlgGrid, alg)
	require.ErrorIs(t, err, ErrMissingParams)

	var missing *MissingParamsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"ip", "sf", "of"}, missing.Params)
	assert.Equal(t, "missing required params: grid requires --ip, --sf, --of", err.Error())

	_, err = g.Validate(config.Params{Alg: "weight_w_num_points", WeightFile: "w.csv", Output: "o.csv", Count: 5})
	assert.NoError(t, err)
}

func TestRunGrid(t *testing.T) {
	dir := t.TempDir()
	north := &shapefile.Layer{
		CRS:    crs.WGS84,
		Fields: []string{"NAME"},
		Features: []shapefile.Feature{{
			Geometry: orb.MultiPolygon{{{{-0.01, 0.5}, {1.01, 0.5}, {1.01, 1.01}, {-0.01, 1.01}, {-0.01, 0.5}}}},
			Attrs:    map[string]string{"NAME": "north"},
		}},
	}

	p := config.Params{
		Alg:          "grid",
		BorderPoints: writeText(t, dir, "border.csv", "lat,lon\n1,0\n0,0\n1,1\n"),
		Shapefile:    writeLayer(t, dir, "north.zip", north),
		Output:       filepath.Join(dir, "grid.csv"),
		Distance:     22,
	}

	n, err := newGenerator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	header, points := readOutput(t, p.Output)
	assert.Equal(t, []string{"Latitude", "Longitude"}, header)
	require.Len(t, points, 8)
	for _, pt := range points {
		assert.Greater(t, pt.Lat(), 0.5)
	}
}

func TestRunWeightFixed(t *testing.T) {
	dir := t.TempDir()
	p := config.Params{
		Alg:        "weight_w_num_points",
		WeightFile: writeText(t, dir, "population.csv", "STATEFP,COUNTYFP,WEIGHT,LATITUDE,LONGITUDE\n01,001,900,40,-80\n01,003,100,35,-90\n"),
		Output:     filepath.Join(dir, "out.csv"),
		Count:      12,
		Seed:       7,
	}

	n, err := newGenerator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	header, points := readOutput(t, p.Output)
	assert.Equal(t, []string{"LATITUDE", "LONGITUDE"}, header)
	require.Len(t, points, 12)
	assert.Equal(t, orb.Point{-80, 40}, points[0])
	assert.Equal(t, orb.Point{-90, 35}, points[1])
}

func TestRunWeight(t *testing.T) {
	dir := t.TempDir()
	counties := countiesLayer()
	p := config.Params{
		Alg:        "weight",
		WeightFile: writeText(t, dir, "weights.csv", "STATEFP,COUNTYFP,WEIGHT,LATITUDE,LONGITUDE\n01,001,1000,0.5,0.5\n01,003,500,5.5,5.5\n"),
		Shapefile:  writeLayer(t, dir, "counties.zip", counties),
		Output:     filepath.Join(dir, "out.csv"),
		Relation:   1,
		Budget:     "high",
		Seed:       11,
	}

	n, err := newGenerator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	_, points := readOutput(t, p.Output)
	require.Len(t, points, 15)
	for _, pt := range points[:10] {
		assert.True(t, planar.MultiPolygonContains(square(0, 0, 1), pt), "%v outside the first county", pt)
	}
	for _, pt := range points[10:] {
		assert.True(t, planar.MultiPolygonContains(square(5, 5, 1), pt), "%v outside the second county", pt)
	}
}

func TestRunWeightUnknownBudget(t *testing.T) {
	dir := t.TempDir()
	p := config.Params{
		Alg:        "weight",
		WeightFile: "unused.csv",
		Shapefile:  "unused.zip",
		Output:     filepath.Join(dir, "out.csv"),
		Relation:   1,
		Budget:     "lavish",
	}

	_, err := newGenerator(t).Run(context.Background(), p)
	assert.ErrorIs(t, err, config.ErrUnknownBudget)
}

func TestRunLineDistance(t *testing.T) {
	dir := t.TempDir()
	roads := writeLayer(t, dir, "roads.zip", roadsLayer())

	p := config.Params{
		Alg:       "shapefile_w_distance",
		Shapefile: roads,
		Output:    filepath.Join(dir, "all.csv"),
		Distance:  0.25,
	}
	n, err := newGenerator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 4+8, n)

	p.Output = filepath.Join(dir, "interstates.csv")
	p.FilterColumn = "RTTYP"
	p.FilterValues = []string{"I"}
	n, err = newGenerator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, points := readOutput(t, p.Output)
	for i, pt := range points {
		assert.InDelta(t, 0.25*float64(i+1), pt.Lon(), 1e-9)
		assert.InDelta(t, 0, pt.Lat(), 1e-9)
	}
}

func TestRunLineDistanceFromBudget(t *testing.T) {
	dir := t.TempDir()
	p := config.Params{
		Alg:       "shapefile_w_distance",
		Shapefile: writeLayer(t, dir, "roads.zip", roadsLayer()),
		Output:    filepath.Join(dir, "out.csv"),
		Budget:    "0.5",
	}

	n, err := newGenerator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 2+4, n)
}

func TestRunLineWeight(t *testing.T) {
	dir := t.TempDir()
	geography := &shapefile.Layer{
		CRS:    crs.WGS84,
		Fields: []string{"NAME"},
		Features: []shapefile.Feature{
			{Geometry: square(0, 0, 1), Attrs: map[string]string{"NAME": "large"}},
			{Geometry: square(2, 0, 0.1), Attrs: map[string]string{"NAME": "small"}},
		},
	}
	roads := &shapefile.Layer{
		CRS:    crs.WGS84,
		Fields: []string{"RTTYP"},
		Features: []shapefile.Feature{
			{Geometry: orb.MultiLineString{{{0.1, 0.5}, {0.9, 0.5}}}, Attrs: map[string]string{"RTTYP": "I"}},
			{Geometry: orb.MultiLineString{{{2.02, 0.05}, {2.08, 0.05}}}, Attrs: map[string]string{"RTTYP": "I"}},
		},
	}

	p := config.Params{
		Alg:              "shapefile_w_weight",
		Shapefile:        writeLayer(t, dir, "roads.zip", roads),
		Geography:        writeLayer(t, dir, "geography.zip", geography),
		Output:           filepath.Join(dir, "out.csv"),
		Preference:       "smaller_weight",
		MaxPointsPerLine: 4,
	}

	n, err := newGenerator(t).Run(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, points := readOutput(t, p.Output)
	require.Len(t, points, 5)
	for _, pt := range points[:4] {
		assert.InDelta(t, 0.5, pt.Lat(), 1e-3)
		assert.True(t, pt.Lon() > 0.1 && pt.Lon() <= 0.9+1e-6, "lon %v off the first road", pt.Lon())
	}
	assert.InDelta(t, 0.05, points[4].Lat(), 1e-3)
	assert.InDelta(t, 2.08, points[4].Lon(), 1e-6)
}

func TestRunLineWeightInvalidPreference(t *testing.T) {
	p := config.Params{
		Alg:        "shapefile_w_weight",
		Shapefile:  "roads.zip",
		Geography:  "geo.zip",
		Output:     "out.csv",
		Preference: "medium",
	}

	_, err := newGenerator(t).Run(context.Background(), p)
	assert.ErrorContains(t, err, "invalid preference choice")
}

func TestFilter(t *testing.T) {
	dir := t.TempDir()
	in := writeLayer(t, dir, "roads.zip", roadsLayer())
	out := filepath.Join(dir, "filtered.zip")

	n, err := newGenerator(t).Filter(context.Background(), in, "RTTYP", []string{"M", "I"}, out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	layer, err := shapefile.Open(out, nil)
	require.NoError(t, err)
	require.Len(t, layer.Features, 2)
	assert.Equal(t, "M", layer.Features[0].Attrs["RTTYP"], "grouped in the order values were given")
	assert.Equal(t, "I", layer.Features[1].Attrs["RTTYP"])

	_, err = newGenerator(t).Filter(context.Background(), in, "ROUTE", []string{"1"}, out)
	assert.ErrorIs(t, err, shapefile.ErrMissingColumn)
}
