package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/crs"
	"github.com/royalcat/geosample/generator"
	"github.com/royalcat/geosample/internal/stats"
	"github.com/royalcat/geosample/shapefile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	app := newApp()
	app.Writer = out
	app.ErrWriter = out

	conf := filepath.Join(t.TempDir(), "absent.toml")
	err := app.Run(append([]string{appName}, append(args, "--conf", conf, "--log-level", "error")...))
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestHelpAlg(t *testing.T) {
	out := &bytes.Buffer{}
	app := newApp()
	app.Writer = out

	require.NoError(t, app.Run([]string{appName, "help-alg", "grid"}))
	assert.Contains(t, out.String(), "--ip: File containing grid border points")
	assert.Contains(t, out.String(), "geosample --alg grid")

	out.Reset()
	err := app.Run([]string{appName, "help-alg", "voronoi"})
	assert.ErrorIs(t, err, generator.ErrInvalidAlgorithm)
	assert.Contains(t, out.String(), "Invalid algorithm choice")
}

func TestRunInvalidAlgorithm(t *testing.T) {
	out, err := runApp(t, "--alg", "voronoi")
	assert.ErrorIs(t, err, generator.ErrInvalidAlgorithm)
	assert.Contains(t, out, "Invalid algorithm choice. Choose one of: grid, weight_w_num_points")
	assert.Contains(t, out, "shapefile_w_weight")
}

func TestRunMissingParams(t *testing.T) {
	out, err := runApp(t, "--alg", "grid", "--of", "out.csv")

	var missing *generator.MissingParamsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"ip", "sf", "d"}, missing.Params)
	assert.Contains(t, out, "Missing required params: --ip, --sf, --d")
	assert.Contains(t, out, "Grid Generator (grid)")
}

func TestRunJSONParamsWithStats(t *testing.T) {
	dir := t.TempDir()
	weights := writeFile(t, dir, "population.csv", "STATEFP,COUNTYFP,WEIGHT,LATITUDE,LONGITUDE\n01,001,900,40,-80\n01,003,100,35,-90\n")
	params := writeFile(t, dir, "params.json", `{"wf": "`+weights+`", "n": 5, "of": "ignored.csv"}`)
	output := filepath.Join(dir, "out.csv")
	statsFile := filepath.Join(dir, "stats.json")

	_, err := runApp(t, "weight_w_num_points", "--json", params, "--of", output, "--seed", "3", "--stats", statsFile)
	require.NoError(t, err)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"LATITUDE", "LONGITUDE"}, rows[0])

	data, err := os.ReadFile(statsFile)
	require.NoError(t, err)
	var report stats.Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "weight_w_num_points", report.Algorithm)
	assert.Equal(t, 5, report.Points)
	assert.JSONEq(t, `{"alg":"weight_w_num_points","wf":"`+weights+`","of":"`+output+`","n":5,"seed":3}`, string(report.Params))
}

func TestFilterCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "roads.zip")
	require.NoError(t, shapefile.WriteZip(&shapefile.Layer{
		CRS:    crs.WGS84,
		Fields: []string{"RTTYP"},
		Features: []shapefile.Feature{
			{Geometry: orb.MultiLineString{{{0, 0}, {1, 0}}}, Attrs: map[string]string{"RTTYP": "I"}},
			{Geometry: orb.MultiLineString{{{0, 1}, {2, 1}}}, Attrs: map[string]string{"RTTYP": "M"}},
			{Geometry: orb.MultiLineString{{{0, 2}, {2, 2}}}, Attrs: map[string]string{"RTTYP": "S"}},
		},
	}, in))
	out := filepath.Join(dir, "filtered.zip")

	stdout, err := runApp(t, "filter", "--sf", in, "--of", out, "--filter-column", "RTTYP", "--filter-values", "S", "--filter-values", "I")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Kept 2 features")

	layer, err := shapefile.Open(out, nil)
	require.NoError(t, err)
	require.Len(t, layer.Features, 2)
	assert.Equal(t, "S", layer.Features[0].Attrs["RTTYP"])
}

func TestRunWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	weights := writeFile(t, dir, "population.csv", "WEIGHT,LATITUDE,LONGITUDE\n10,40,-80\n")
	logFile := filepath.Join(dir, "run.log")

	app := newApp()
	app.Writer = &bytes.Buffer{}
	err := app.Run([]string{appName, "weight_w_num_points",
		"--wf", weights, "--n", "3", "--of", filepath.Join(dir, "out.csv"), "--seed", "1",
		"--conf", filepath.Join(dir, "absent.toml"), "--log-file", logFile,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"points written"`)
	assert.Contains(t, string(data), `"points":3`)
}
