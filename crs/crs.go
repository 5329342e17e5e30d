package crs

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"
)

const (
	wgs84Def    = "+proj=longlat +datum=WGS84 +no_defs"
	nad83Def    = "+proj=longlat +ellps=GRS80 +datum=NAD83 +no_defs"
	webMercator = "+proj=merc +a=6378137 +b=6378137 +lat_ts=0.0 +lon_0=0.0 +x_0=0.0 +y_0=0 +k=1.0 +units=m +nadgrids=@null +no_defs"
)

var ErrUnknownEPSG = errors.New("unknown EPSG code")

// CRS is a parsed coordinate reference system. Geographic systems take
// coordinates as (lon, lat) in degrees.
type CRS struct {
	name string
	sr   *proj.SR
}

var WGS84 = mustParse("EPSG:4326")

func mustParse(def string) *CRS {
	c, err := Parse(def)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse accepts "EPSG:<code>" for the codes this tool knows about or a raw proj4 definition.
func Parse(def string) (*CRS, error) {
	def = strings.TrimSpace(def)
	name := def

	if code, ok := strings.CutPrefix(strings.ToUpper(def), "EPSG:"); ok {
		proj4, err := epsgDefinition(code)
		if err != nil {
			return nil, err
		}
		name = "EPSG:" + code
		def = proj4
	}

	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("parsing crs %q: %w", def, err)
	}

	return &CRS{name: name, sr: sr}, nil
}

// FromPrj reads an ESRI .prj WKT definition.
func FromPrj(r io.Reader) (*CRS, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	sr, err := proj.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("parsing prj: %w", err)
	}

	name := strings.TrimSpace(string(data))
	if sr.Name == "longlat" && strings.Contains(name, "WGS_1984") {
		// keeps the identity transform for the common case
		name = WGS84.name
	}

	return &CRS{name: name, sr: sr}, nil
}

func (c *CRS) String() string {
	return c.name
}

func (c *CRS) Geographic() bool {
	return c.sr.Name == "longlat"
}

func (c *CRS) Equal(o *CRS) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.name == o.name
}

func epsgDefinition(code string) (string, error) {
	n, err := strconv.Atoi(code)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownEPSG, code)
	}

	switch {
	case n == 4326:
		return wgs84Def, nil
	case n == 4269:
		return nad83Def, nil
	case n == 3857 || n == 900913:
		return webMercator, nil
	case n >= 32601 && n <= 32660:
		return fmt.Sprintf("+proj=utm +zone=%d +datum=WGS84 +units=m +no_defs", n-32600), nil
	case n >= 32701 && n <= 32760:
		return fmt.Sprintf("+proj=utm +zone=%d +south +datum=WGS84 +units=m +no_defs", n-32700), nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownEPSG, code)
}

// UTMZone returns the EPSG code of the WGS84 UTM zone covering lon/lat.
func UTMZone(lon, lat float64) string {
	zone := int(math.Floor((lon+180)/6)) + 1
	zone = min(max(zone, 1), 60)

	if lat < 0 {
		return fmt.Sprintf("EPSG:%d", 32700+zone)
	}
	return fmt.Sprintf("EPSG:%d", 32600+zone)
}
