package pointio

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/orb"
)

var (
	HeaderUpper = [2]string{"LATITUDE", "LONGITUDE"}
	HeaderTitle = [2]string{"Latitude", "Longitude"}
)

// WriteCoordinates writes (lon, lat) points as latitude,longitude rows.
// A .zst suffix compresses the output.
func WriteCoordinates(name string, header [2]string, points []orb.Point) error {
	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := writeCoordinates(file, strings.HasSuffix(name, ".zst"), header, points); err != nil {
		return err
	}
	return file.Close()
}

func writeCoordinates(w io.Writer, compress bool, header [2]string, points []orb.Point) error {
	var enc *zstd.Encoder
	if compress {
		var err error
		enc, err = zstd.NewWriter(w)
		if err != nil {
			return err
		}
		// second Close after a successful one is a no-op
		defer enc.Close()
		w = enc
	}

	buf := bufio.NewWriter(w)
	if err := EncodeCoordinates(buf, header, points); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}

	if enc != nil {
		return enc.Close()
	}
	return nil
}

func EncodeCoordinates(w io.Writer, header [2]string, points []orb.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header[:]); err != nil {
		return err
	}

	row := make([]string, 2)
	for _, p := range points {
		row[0] = strconv.FormatFloat(p.Lat(), 'f', -1, 64)
		row[1] = strconv.FormatFloat(p.Lon(), 'f', -1, 64)
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
