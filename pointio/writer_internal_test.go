package pointio

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

type fullDisk struct{}

func (fullDisk) Write([]byte) (int, error) {
	return 0, errors.New("no space left on device")
}

func TestWriteCompressedFailureStopsEncoder(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	// several zstd blocks worth of rows
	points := make([]orb.Point, 200_000)
	for i := range points {
		points[i] = orb.Point{float64(i) * 1e-3, float64(i) * 1e-4}
	}

	err := writeCoordinates(fullDisk{}, true, HeaderUpper, points)
	assert.Error(t, err)
}
