package generator

import (
	"context"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/bordertree"
	"github.com/royalcat/geosample/config"
	"github.com/royalcat/geosample/crs"
	"github.com/royalcat/geosample/pointio"
	"github.com/royalcat/geosample/sampler"
	"github.com/royalcat/geosample/shapefile"
)

const (
	columnStateFP  = "STATEFP"
	columnCountyFP = "COUNTYFP"
)

func (g *Generator) grid(ctx context.Context, p config.Params) ([]orb.Point, error) {
	g.stage("load")
	border, err := pointio.ReadBorderPoints(p.BorderPoints)
	if err != nil {
		return nil, err
	}

	layer, err := g.openLayer(p.Shapefile, p)
	if err != nil {
		return nil, err
	}
	layer, err = layer.Reproject(crs.WGS84)
	if err != nil {
		return nil, err
	}

	regions := bordertree.NewBorderTree[int]()
	polys, _ := layer.Polygons()
	for i, poly := range polys {
		regions.InsertBorder(i, poly)
	}
	g.log.DebugContext(ctx, "regions indexed", "regions", regions.Len())

	g.stage("sample")
	return sampler.Grid(border, regions, p.Distance)
}

func (g *Generator) weightFixed(_ context.Context, p config.Params, opts sampler.Options) ([]orb.Point, error) {
	g.stage("load")
	rows, err := pointio.ReadPopulation(p.WeightFile, pointio.Columns{
		Weight:    g.cfg.Weights.WeightColumn,
		Latitude:  g.cfg.Weights.LatitudeColumn,
		Longitude: g.cfg.Weights.LongitudeColumn,
	})
	if err != nil {
		return nil, err
	}

	g.stage("sample")
	return sampler.WeightedFixed(rows, p.Count, g.cfg.Jitter.MaxChange, opts.Rand(0))
}

func (g *Generator) weight(ctx context.Context, p config.Params, opts sampler.Options) ([]orb.Point, error) {
	budget, err := g.cfg.Budget(p.Budget)
	if err != nil {
		return nil, err
	}

	g.stage("load")
	rows, err := pointio.ReadCountyWeights(p.WeightFile)
	if err != nil {
		return nil, err
	}

	layer, err := g.openLayer(p.Shapefile, p)
	if err != nil {
		return nil, err
	}
	for _, column := range []string{columnStateFP, columnCountyFP} {
		if !layer.HasField(column) {
			return nil, fmt.Errorf("%w: %s in %s", shapefile.ErrMissingColumn, column, p.Shapefile)
		}
	}

	counties := map[sampler.CountyKey]orb.MultiPolygon{}
	polys, features := layer.Polygons()
	for i, f := range features {
		key := sampler.CountyKey{StateFP: f.Attrs[columnStateFP], CountyFP: f.Attrs[columnCountyFP]}
		counties[key] = append(counties[key], polys[i]...)
	}

	toWGS84, err := crs.NewTransform(layer.CRS, crs.WGS84)
	if err != nil {
		return nil, err
	}

	params := sampler.WeightParams{
		Relation:     p.Relation,
		Budget:       budget,
		MaxPerScreen: g.cfg.General.MaxNumPerScreen,
	}

	g.stage("sample")
	return sampler.WeightedPolygons(ctx, rows, counties, toWGS84, params, opts)
}

func (g *Generator) lineDistance(_ context.Context, p config.Params) ([]orb.Point, error) {
	g.stage("load")
	layer, err := g.openLayer(p.Shapefile, p)
	if err != nil {
		return nil, err
	}

	g.stage("sample")
	points, err := sampler.LineDistance(layer.Lines(), p.Distance)
	if err != nil {
		return nil, err
	}

	return toWGS84(layer.CRS, points)
}

func (g *Generator) lineWeight(ctx context.Context, p config.Params) ([]orb.Point, error) {
	pref, err := sampler.ParsePreference(p.Preference)
	if err != nil {
		return nil, err
	}

	g.stage("load")
	lines, err := g.openLayer(p.Shapefile, p)
	if err != nil {
		return nil, err
	}
	geography, err := shapefile.Open(p.Geography, g.defaultCRS())
	if err != nil {
		return nil, err
	}

	metric, err := g.metricCRS(p, lines)
	if err != nil {
		return nil, err
	}
	g.log.InfoContext(ctx, "measuring lines", "crs", metric.String())

	if lines, err = lines.Reproject(metric); err != nil {
		return nil, err
	}
	if geography, err = geography.Reproject(metric); err != nil {
		return nil, err
	}

	g.stage("join")
	regions, _ := geography.Polygons()
	joined := sampler.JoinLines(lines.Lines(), regions)
	g.log.DebugContext(ctx, "lines joined to regions", "pairs", len(joined))

	maxPerLine := p.MaxPointsPerLine
	if maxPerLine == 0 {
		maxPerLine = 1
	}

	g.stage("sample")
	points, err := sampler.LineWeight(joined, pref, maxPerLine)
	if err != nil {
		return nil, err
	}

	return toWGS84(metric, points)
}

func toWGS84(src *crs.CRS, points []orb.Point) ([]orb.Point, error) {
	t, err := crs.NewTransform(src, crs.WGS84)
	if err != nil {
		return nil, err
	}

	for i, pt := range points {
		if points[i], err = t.Point(pt); err != nil {
			return nil, err
		}
	}
	return points, nil
}
