package pointio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/orb"
)

var ErrNotEnoughRows = errors.New("not enough rows")

// BorderPoints are the corners a grid is spanned from. Points are (lon, lat).
type BorderPoints struct {
	NorthWest orb.Point
	SouthWest orb.Point
	NorthEast orb.Point
}

type WeightedPoint struct {
	Weight float64
	Point  orb.Point
}

type CountyWeight struct {
	StateFP  string
	CountyFP string
	Weight   float64
	Point    orb.Point
}

// Columns are zero based positions used when a file has no usable header.
type Columns struct {
	Weight    int
	Latitude  int
	Longitude int
}

func DefaultColumns() Columns {
	return Columns{Weight: 6, Latitude: 7, Longitude: 8}
}

func openReader(name string) (io.ReadCloser, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("can`t open file error: %w", err)
	}

	if strings.HasSuffix(name, ".zst") {
		dec, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("can`t create zstd reader: %w", err)
		}

		return &zstdReadCloser{dec: dec, file: file}, nil
	}

	return file, nil
}

type zstdReadCloser struct {
	dec  *zstd.Decoder
	file *os.File
}

func (z *zstdReadCloser) Read(p []byte) (int, error) {
	return z.dec.Read(p)
}

func (z *zstdReadCloser) Close() error {
	z.dec.Close()
	return z.file.Close()
}

func readAll(name string) ([][]string, error) {
	r, err := openReader(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w: file is empty", name, ErrNotEnoughRows)
	}
	return rows, nil
}

func parseFloat(row []string, i int, name string, line int) (float64, error) {
	if i >= len(row) {
		return 0, fmt.Errorf("line %d: column %d (%s) out of range", line, i, name)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("line %d: parsing %s: %w", line, name, err)
	}
	return v, nil
}

// ReadBorderPoints reads the north-western, south-western and north-eastern
// corners, in that order, as latitude,longitude rows after a header.
func ReadBorderPoints(name string) (BorderPoints, error) {
	rows, err := readAll(name)
	if err != nil {
		return BorderPoints{}, err
	}

	data := rows[1:]
	if len(data) < 3 {
		return BorderPoints{}, fmt.Errorf("%s: %w: need north-western, south-western and north-eastern points, got %d", name, ErrNotEnoughRows, len(data))
	}

	var pts [3]orb.Point
	for i := range pts {
		line := i + 2
		lat, err := parseFloat(data[i], 0, "latitude", line)
		if err != nil {
			return BorderPoints{}, err
		}
		lon, err := parseFloat(data[i], 1, "longitude", line)
		if err != nil {
			return BorderPoints{}, err
		}
		pts[i] = orb.Point{lon, lat}
	}

	return BorderPoints{NorthWest: pts[0], SouthWest: pts[1], NorthEast: pts[2]}, nil
}

// ReadPopulation reads weighted centres of population. Columns are located by
// header name (WEIGHT or POPULATION, LATITUDE, LONGITUDE) and fall back to
// the given positions.
func ReadPopulation(name string, cols Columns) ([]WeightedPoint, error) {
	rows, err := readAll(name)
	if err != nil {
		return nil, err
	}

	h := newHeader(rows[0])
	if idx, ok := h[ColumnWeight]; ok {
		cols.Weight = idx
	} else if idx, ok := h[ColumnPopulation]; ok {
		cols.Weight = idx
	}
	if len(h.missing(ColumnLatitude, ColumnLongitude)) == 0 {
		cols.Latitude = h[ColumnLatitude]
		cols.Longitude = h[ColumnLongitude]
	}

	out := make([]WeightedPoint, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		w, err := parseFloat(row, cols.Weight, "weight", line)
		if err != nil {
			return nil, err
		}
		lat, err := parseFloat(row, cols.Latitude, "latitude", line)
		if err != nil {
			return nil, err
		}
		lon, err := parseFloat(row, cols.Longitude, "longitude", line)
		if err != nil {
			return nil, err
		}
		out = append(out, WeightedPoint{Weight: w, Point: orb.Point{lon, lat}})
	}

	return out, nil
}

// ReadCountyWeights reads per county weights keyed by state and county FIPS codes.
func ReadCountyWeights(name string) ([]CountyWeight, error) {
	rows, err := readAll(name)
	if err != nil {
		return nil, err
	}

	h := newHeader(rows[0])
	if missing := h.missing(ColumnStateFP, ColumnCountyFP, ColumnWeight, ColumnLatitude, ColumnLongitude); len(missing) > 0 {
		return nil, &MissingColumnsError{File: name, Columns: missing}
	}

	out := make([]CountyWeight, 0, len(rows)-1)
	for i, row := range rows[1:] {
		line := i + 2
		if len(row) <= max(h[ColumnStateFP], h[ColumnCountyFP]) {
			return nil, fmt.Errorf("line %d: too few columns", line)
		}
		w, err := parseFloat(row, h[ColumnWeight], "weight", line)
		if err != nil {
			return nil, err
		}
		lat, err := parseFloat(row, h[ColumnLatitude], "latitude", line)
		if err != nil {
			return nil, err
		}
		lon, err := parseFloat(row, h[ColumnLongitude], "longitude", line)
		if err != nil {
			return nil, err
		}
		out = append(out, CountyWeight{
			StateFP:  strings.TrimSpace(row[h[ColumnStateFP]]),
			CountyFP: strings.TrimSpace(row[h[ColumnCountyFP]]),
			Weight:   w,
			Point:    orb.Point{lon, lat},
		})
	}

	return out, nil
}
