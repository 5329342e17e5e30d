package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/royalcat/geosample/generator"
)

const generalHelp = `Algorithms:
  grid                  points on a geodesic grid between border points, kept inside the shapefile polygons
  weight_w_num_points   a fixed number of points spread over weighted centres with random jitter
  weight                random points inside county polygons, as many as each county weight needs
  shapefile_w_distance  points along the shapefile lines at a fixed spacing
  shapefile_w_weight    points along the shapefile lines, denser where lines are sparse or dense per region

Run "geosample help-alg <algorithm>" for the params of one algorithm.
`

var algorithmHelp = map[generator.Algorithm]string{
	generator.AlgGrid: `Grid Generator (grid)
--ip: File containing grid border points (north-west, south-west, north-east as latitude,longitude)
--sf: Location of the shape file
--of: Location of the output file
--d: Distance between two points in miles`,

	generator.AlgWeightFixed: `Weight Based with Number of Points (weight_w_num_points)
--wf: Location of the weighted file
--of: Location of the output file
--n: Number of points`,

	generator.AlgWeight: `Weight Based (weight)
--wf: Location of the weighted file
--of: Location of the output file
--sf: Location of the shape file
--r: Number that represents the relation value
--b: Number that represents the budget, or a budget level from the config (low, medium, high)
--placement: uniform or poisson, how points are spread inside a county (optional)`,

	generator.AlgLineDistance: `Shapefile with Distance (shapefile_w_distance)
--sf: Location of the shape file
--of: Location of the output file
--d: Distance between two points, in the units of the shape file
--filter-column, --filter-values: keep only matching features (optional)`,

	generator.AlgLineWeight: `Shapefile with Weight (shapefile_w_weight)
--sf: Location of the shape file
--gf: Location of the shapefile which represents geography
--of: Location of the output file
--p: Preference for point placement, either larger_weight or smaller_weight
--max-points-per-line: Points placed on the most preferred line (optional, default 1)
--metric-crs: Projection used to measure lines and areas (optional, default auto UTM zone)`,
}

func printAlgorithmHelp(w io.Writer, alg generator.Algorithm) {
	fmt.Fprintf(w, "\n%s\n", algorithmHelp[alg])
	fmt.Fprintf(w, "\nUsage:\ngeosample --alg %s [additional arguments]\n\n", alg)
}

func algorithmNames() string {
	names := make([]string, len(generator.Algorithms))
	for i, alg := range generator.Algorithms {
		names[i] = string(alg)
	}
	return strings.Join(names, ", ")
}

func joinParams(params []string) string {
	return strings.Join(params, ", --")
}
