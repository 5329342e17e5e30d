package shapefile

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonas-p/go-shp"
	"github.com/klauspost/compress/zip"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/royalcat/geosample/crs"
)

var ErrNoShapefile = errors.New("no .shp file found in archive")

// Open reads a .shp file, or the first .shp inside a .zip archive.
// fallback is used when the shapefile has no .prj.
func Open(path string, fallback *crs.CRS) (*Layer, error) {
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return openZip(path, fallback)
	}
	return openShp(path, fallback)
}

func openZip(path string, fallback *crs.CRS) (*Layer, error) {
	dir, err := os.MkdirTemp("", "geosample-shp-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	shpPath, err := extractZip(path, dir)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}

	return openShp(shpPath, fallback)
}

func extractZip(path, dir string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	shpPath := ""
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}

		// archives from some tools nest everything in a folder
		name := filepath.Join(dir, filepath.Base(f.Name))
		if err := extractFile(f, name); err != nil {
			return "", err
		}

		if shpPath == "" && strings.EqualFold(filepath.Ext(name), ".shp") {
			shpPath = name
		}
	}

	if shpPath == "" {
		return "", ErrNoShapefile
	}
	return shpPath, nil
}

func extractFile(f *zip.File, name string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(name)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}

func openShp(path string, fallback *crs.CRS) (*Layer, error) {
	log := slog.With("component", "shapefile", "file", path)

	layerCRS, err := readPrj(path)
	if err != nil {
		return nil, err
	}
	if layerCRS == nil {
		if fallback == nil {
			fallback = crs.WGS84
		}
		log.Warn("shapefile has no .prj, assuming default crs", "crs", fallback.String())
		layerCRS = fallback
	}

	r, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile %s: %w", path, err)
	}
	defer r.Close()

	fields := r.Fields()
	layer := &Layer{CRS: layerCRS, Fields: make([]string, len(fields))}
	for i, f := range fields {
		layer.Fields[i] = f.String()
	}

	for r.Next() {
		row, shape := r.Shape()

		geom := toOrb(shape)
		if geom == nil {
			continue
		}

		attrs := make(map[string]string, len(fields))
		for i, name := range layer.Fields {
			// dbf values are padded with spaces or NULs depending on the writer
			attrs[name] = strings.TrimRight(r.ReadAttribute(row, i), " \x00")
		}

		layer.Features = append(layer.Features, Feature{Geometry: geom, Attrs: attrs})
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("reading shapefile %s: %w", path, err)
	}

	log.Debug("shapefile loaded", "features", len(layer.Features), "crs", layer.CRS.String())

	return layer, nil
}

func readPrj(shpPath string) (*crs.CRS, error) {
	prjPath := strings.TrimSuffix(shpPath, filepath.Ext(shpPath)) + ".prj"

	f, err := os.Open(prjPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return crs.FromPrj(f)
}

func toOrb(shape shp.Shape) orb.Geometry {
	switch s := shape.(type) {
	case *shp.Point:
		return orb.Point{s.X, s.Y}
	case *shp.PointZ:
		return orb.Point{s.X, s.Y}
	case *shp.PointM:
		return orb.Point{s.X, s.Y}
	case *shp.MultiPoint:
		return orb.MultiPoint(toPoints(s.Points))
	case *shp.PolyLine:
		return toMultiLineString(s.Parts, s.Points)
	case *shp.PolyLineZ:
		return toMultiLineString(s.Parts, s.Points)
	case *shp.PolyLineM:
		return toMultiLineString(s.Parts, s.Points)
	case *shp.Polygon:
		return toMultiPolygon(s.Parts, s.Points)
	case *shp.PolygonZ:
		return toMultiPolygon(s.Parts, s.Points)
	case *shp.PolygonM:
		return toMultiPolygon(s.Parts, s.Points)
	}
	return nil
}

func toPoints(pts []shp.Point) []orb.Point {
	out := make([]orb.Point, len(pts))
	for i, p := range pts {
		out[i] = orb.Point{p.X, p.Y}
	}
	return out
}

func splitParts(parts []int32, pts []shp.Point) [][]orb.Point {
	out := make([][]orb.Point, 0, len(parts))
	for i, start := range parts {
		end := int32(len(pts))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || start >= end || int(end) > len(pts) {
			continue
		}
		out = append(out, toPoints(pts[start:end]))
	}
	return out
}

func toMultiLineString(parts []int32, pts []shp.Point) orb.MultiLineString {
	split := splitParts(parts, pts)
	ml := make(orb.MultiLineString, len(split))
	for i, p := range split {
		ml[i] = orb.LineString(p)
	}
	return ml
}

// toMultiPolygon groups rings into polygons. Outer rings are clockwise
// in shapefiles, holes are attached to the outer ring containing them.
func toMultiPolygon(parts []int32, pts []shp.Point) orb.MultiPolygon {
	var outers, holes []orb.Ring
	for _, p := range splitParts(parts, pts) {
		ring := orb.Ring(p)
		if ring.Orientation() == orb.CCW {
			holes = append(holes, ring)
		} else {
			outers = append(outers, ring)
		}
	}

	// wrongly wound files: every ring is its own polygon
	if len(outers) == 0 {
		outers, holes = holes, nil
	}

	mp := make(orb.MultiPolygon, len(outers))
	for i, outer := range outers {
		mp[i] = orb.Polygon{outer}
	}

	for _, hole := range holes {
		owner := len(mp) - 1
		for i := range mp {
			if len(hole) > 0 && planar.RingContains(mp[i][0], hole[0]) {
				owner = i
				break
			}
		}
		mp[owner] = append(mp[owner], hole)
	}

	return mp
}
