package crs

import (
	"fmt"

	"github.com/ctessum/geom/proj"
	"github.com/paulmach/orb"
)

// Transform reprojects orb geometries between two systems.
type Transform struct {
	fn proj.Transformer
}

func NewTransform(src, dst *CRS) (*Transform, error) {
	if src.Equal(dst) {
		return &Transform{}, nil
	}

	fn, err := src.sr.NewTransform(dst.sr)
	if err != nil {
		return nil, fmt.Errorf("creating transform %s -> %s: %w", src, dst, err)
	}

	return &Transform{fn: fn}, nil
}

func (t *Transform) Identity() bool {
	return t == nil || t.fn == nil
}

func (t *Transform) Point(p orb.Point) (orb.Point, error) {
	if t.Identity() {
		return p, nil
	}

	x, y, err := t.fn(p[0], p[1])
	if err != nil {
		return orb.Point{}, err
	}
	return orb.Point{x, y}, nil
}

func (t *Transform) points(in []orb.Point) ([]orb.Point, error) {
	out := make([]orb.Point, len(in))
	for i, p := range in {
		tp, err := t.Point(p)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func (t *Transform) LineString(ls orb.LineString) (orb.LineString, error) {
	return t.points(ls)
}

func (t *Transform) MultiLineString(ml orb.MultiLineString) (orb.MultiLineString, error) {
	out := make(orb.MultiLineString, len(ml))
	for i, ls := range ml {
		tls, err := t.LineString(ls)
		if err != nil {
			return nil, err
		}
		out[i] = tls
	}
	return out, nil
}

func (t *Transform) Polygon(poly orb.Polygon) (orb.Polygon, error) {
	out := make(orb.Polygon, len(poly))
	for i, r := range poly {
		tr, err := t.points(r)
		if err != nil {
			return nil, err
		}
		out[i] = tr
	}
	return out, nil
}

func (t *Transform) MultiPolygon(mp orb.MultiPolygon) (orb.MultiPolygon, error) {
	out := make(orb.MultiPolygon, len(mp))
	for i, poly := range mp {
		tp, err := t.Polygon(poly)
		if err != nil {
			return nil, err
		}
		out[i] = tp
	}
	return out, nil
}

func (t *Transform) Geometry(g orb.Geometry) (orb.Geometry, error) {
	switch g := g.(type) {
	case orb.Point:
		return t.Point(g)
	case orb.MultiPoint:
		pts, err := t.points(g)
		return orb.MultiPoint(pts), err
	case orb.LineString:
		return t.LineString(g)
	case orb.MultiLineString:
		return t.MultiLineString(g)
	case orb.Ring:
		pts, err := t.points(g)
		return orb.Ring(pts), err
	case orb.Polygon:
		return t.Polygon(g)
	case orb.MultiPolygon:
		return t.MultiPolygon(g)
	case nil:
		return nil, nil
	}

	return nil, fmt.Errorf("unsupported geometry type %T", g)
}
