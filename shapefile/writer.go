package shapefile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/jonas-p/go-shp"
	"github.com/klauspost/compress/zip"
	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/crs"
)

const wgs84Prj = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

const baseName = "filtered_shapefile"

var ErrEmptyLayer = errors.New("layer has no features")

// WriteZip stores the layer, reprojected to WGS84, as a zipped shapefile.
func WriteZip(layer *Layer, zipPath string) error {
	if len(layer.Features) == 0 {
		return ErrEmptyLayer
	}

	layer, err := layer.Reproject(crs.WGS84)
	if err != nil {
		return err
	}

	dir, err := os.MkdirTemp("", "geosample-out-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	if err := writeShp(layer, filepath.Join(dir, baseName+".shp")); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, baseName+".prj"), []byte(wgs84Prj), 0o644); err != nil {
		return err
	}

	return zipDir(dir, zipPath)
}

func writeShp(layer *Layer, path string) error {
	shapeType, err := layerShapeType(layer)
	if err != nil {
		return err
	}

	w, err := shp.Create(path, shapeType)
	if err != nil {
		return fmt.Errorf("creating shapefile: %w", err)
	}
	defer w.Close()

	fields := make([]shp.Field, len(layer.Fields))
	for i, name := range layer.Fields {
		fields[i] = shp.StringField(name, fieldSize(layer, name))
	}
	if err := w.SetFields(fields); err != nil {
		return err
	}

	for _, f := range layer.Features {
		shape := fromOrb(f.Geometry)
		if shape == nil {
			continue
		}

		row := int(w.Write(shape))
		for i, name := range layer.Fields {
			if err := w.WriteAttribute(row, i, f.Attrs[name]); err != nil {
				return fmt.Errorf("writing attribute %s: %w", name, err)
			}
		}
	}

	return nil
}

func fieldSize(layer *Layer, name string) uint8 {
	size := 1
	for _, f := range layer.Features {
		size = max(size, len(f.Attrs[name]))
	}
	return uint8(min(size, 254))
}

func layerShapeType(layer *Layer) (shp.ShapeType, error) {
	switch layer.Features[0].Geometry.(type) {
	case orb.Point:
		return shp.POINT, nil
	case orb.MultiPoint:
		return shp.MULTIPOINT, nil
	case orb.LineString, orb.MultiLineString:
		return shp.POLYLINE, nil
	case orb.Polygon, orb.MultiPolygon:
		return shp.POLYGON, nil
	}
	return shp.NULL, fmt.Errorf("unsupported geometry type %T", layer.Features[0].Geometry)
}

func fromOrb(g orb.Geometry) shp.Shape {
	switch g := g.(type) {
	case orb.Point:
		return &shp.Point{X: g[0], Y: g[1]}
	case orb.MultiPoint:
		pts := toShpPoints(g)
		return &shp.MultiPoint{Box: shp.BBoxFromPoints(pts), NumPoints: int32(len(pts)), Points: pts}
	case orb.LineString:
		return shp.NewPolyLine([][]shp.Point{toShpPoints(g)})
	case orb.MultiLineString:
		parts := make([][]shp.Point, len(g))
		for i, ls := range g {
			parts[i] = toShpPoints(ls)
		}
		return shp.NewPolyLine(parts)
	case orb.Polygon:
		return polygonShape(orb.MultiPolygon{g})
	case orb.MultiPolygon:
		return polygonShape(g)
	}
	return nil
}

func polygonShape(mp orb.MultiPolygon) *shp.Polygon {
	parts := [][]shp.Point{}
	for _, poly := range mp {
		for i, ring := range poly {
			ring = slices.Clone(ring)
			outer := i == 0
			if (outer && ring.Orientation() == orb.CCW) || (!outer && ring.Orientation() == orb.CW) {
				ring.Reverse()
			}
			parts = append(parts, toShpPoints(ring))
		}
	}
	p := shp.Polygon(*shp.NewPolyLine(parts))
	return &p
}

func toShpPoints(pts []orb.Point) []shp.Point {
	out := make([]shp.Point, len(pts))
	for i, p := range pts {
		out[i] = shp.Point{X: p[0], Y: p[1]}
	}
	return out
}

func zipDir(dir, zipPath string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := addZipFile(zw, filepath.Join(dir, e.Name()), e.Name()); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	return out.Close()
}

func addZipFile(zw *zip.Writer, path, name string) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, in)
	return err
}
