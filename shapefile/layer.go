package shapefile

import (
	"errors"
	"fmt"
	"slices"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/crs"
)

var ErrMissingColumn = errors.New("missing attribute column")

type Feature struct {
	Geometry orb.Geometry
	Attrs    map[string]string
}

// Layer is the in-memory content of one shapefile.
type Layer struct {
	CRS      *crs.CRS
	Fields   []string
	Features []Feature
}

func (l *Layer) HasField(name string) bool {
	return slices.Contains(l.Fields, name)
}

// Filter keeps features whose column value is in values. Matches are
// grouped by value, in the order values are given.
func (l *Layer) Filter(column string, values []string) (*Layer, error) {
	if !l.HasField(column) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}

	out := &Layer{CRS: l.CRS, Fields: slices.Clone(l.Fields)}
	for _, v := range values {
		for _, f := range l.Features {
			if f.Attrs[column] == v {
				out.Features = append(out.Features, f)
			}
		}
	}
	return out, nil
}

func (l *Layer) Reproject(dst *crs.CRS) (*Layer, error) {
	t, err := crs.NewTransform(l.CRS, dst)
	if err != nil {
		return nil, err
	}
	if t.Identity() {
		return l, nil
	}

	out := &Layer{CRS: dst, Fields: l.Fields, Features: make([]Feature, len(l.Features))}
	for i, f := range l.Features {
		g, err := t.Geometry(f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("reprojecting feature %d: %w", i, err)
		}
		out.Features[i] = Feature{Geometry: g, Attrs: f.Attrs}
	}
	return out, nil
}

// Lines returns the line geometries of the layer, skipping everything else.
func (l *Layer) Lines() []orb.MultiLineString {
	lines := make([]orb.MultiLineString, 0, len(l.Features))
	for _, f := range l.Features {
		switch g := f.Geometry.(type) {
		case orb.MultiLineString:
			lines = append(lines, g)
		case orb.LineString:
			lines = append(lines, orb.MultiLineString{g})
		}
	}
	return lines
}

// Polygons returns the polygonal geometries of the layer with their features.
func (l *Layer) Polygons() ([]orb.MultiPolygon, []Feature) {
	polys := make([]orb.MultiPolygon, 0, len(l.Features))
	features := make([]Feature, 0, len(l.Features))
	for _, f := range l.Features {
		switch g := f.Geometry.(type) {
		case orb.MultiPolygon:
			polys = append(polys, g)
		case orb.Polygon:
			polys = append(polys, orb.MultiPolygon{g})
		default:
			continue
		}
		features = append(features, f)
	}
	return polys, features
}
