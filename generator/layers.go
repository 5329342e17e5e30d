package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/config"
	"github.com/royalcat/geosample/crs"
	"github.com/royalcat/geosample/shapefile"
)

const metricAuto = "auto"

func (g *Generator) defaultCRS() *crs.CRS {
	c, err := crs.Parse(g.cfg.CRS.Default)
	if err != nil {
		g.log.Warn("invalid default crs in config, using EPSG:4326", "crs", g.cfg.CRS.Default, "error", err)
		return crs.WGS84
	}
	return c
}

// openLayer reads a shapefile and applies the feature filter of p, if any.
func (g *Generator) openLayer(path string, p config.Params) (*shapefile.Layer, error) {
	layer, err := shapefile.Open(path, g.defaultCRS())
	if err != nil {
		return nil, err
	}

	if p.FilterColumn == "" {
		return layer, nil
	}

	filtered, err := layer.Filter(p.FilterColumn, p.FilterValues)
	if err != nil {
		return nil, err
	}
	g.log.Info("shapefile filtered",
		"file", path,
		"column", p.FilterColumn,
		"values", strings.Join(p.FilterValues, ","),
		"features", len(filtered.Features),
		"total", len(layer.Features),
	)
	return filtered, nil
}

// metricCRS picks the projected system lengths and areas are measured in.
// "auto" selects the UTM zone at the centre of the layer.
func (g *Generator) metricCRS(p config.Params, layer *shapefile.Layer) (*crs.CRS, error) {
	def := p.MetricCRS
	if def == "" {
		def = g.cfg.CRS.Metric
	}
	if def != "" && !strings.EqualFold(def, metricAuto) {
		return crs.Parse(def)
	}

	wgs, err := layer.Reproject(crs.WGS84)
	if err != nil {
		return nil, err
	}
	if len(wgs.Features) == 0 {
		return nil, shapefile.ErrEmptyLayer
	}
	center := layerBound(wgs).Center()

	return crs.Parse(crs.UTMZone(center.Lon(), center.Lat()))
}

// Filter keeps the features of the shapefile at in whose column value is one
// of values and stores them as a zipped WGS84 shapefile at out.
func (g *Generator) Filter(ctx context.Context, in, column string, values []string, out string) (int, error) {
	if column == "" {
		return 0, fmt.Errorf("%w: no filter column given", shapefile.ErrMissingColumn)
	}

	ctx, span := g.tracer.Start(ctx, "shapefile.filter")
	defer span.End()

	layer, err := g.openLayer(in, config.Params{FilterColumn: column, FilterValues: values})
	if err != nil {
		return 0, err
	}

	if err := shapefile.WriteZip(layer, out); err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", out, err)
	}

	g.log.InfoContext(ctx, "filtered shapefile written", "output", out, "features", len(layer.Features))
	return len(layer.Features), nil
}

func layerBound(layer *shapefile.Layer) orb.Bound {
	if len(layer.Features) == 0 {
		return orb.Bound{}
	}
	bound := layer.Features[0].Geometry.Bound()
	for _, f := range layer.Features[1:] {
		bound = bound.Union(f.Geometry.Bound())
	}
	return bound
}
