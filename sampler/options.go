package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"
)

var (
	ErrInvalidDistance   = errors.New("distance must be positive")
	ErrInvalidCount      = errors.New("number of points must be positive")
	ErrNoInput           = errors.New("no input rows")
	ErrInvalidPreference = errors.New("invalid preference choice, choose larger_population or smaller_population")
	ErrInvalidPlacement  = errors.New("invalid placement, choose uniform or poisson")
	ErrSamplingExhausted = errors.New("could not place random points inside polygon")
)

type Placement string

const (
	PlacementUniform Placement = "uniform"
	PlacementPoisson Placement = "poisson"
)

func ParsePlacement(s string) (Placement, error) {
	switch Placement(s) {
	case "", PlacementUniform:
		return PlacementUniform, nil
	case PlacementPoisson:
		return PlacementPoisson, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlacement, s)
}

type Options struct {
	Threads   int
	Progress  bool
	Placement Placement
	Seed      uint64
}

func OptionsDefault() Options {
	return Options{
		Threads:   runtime.GOMAXPROCS(0),
		Placement: PlacementUniform,
	}
}

func (o Options) threads() int {
	if o.Threads <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Threads
}

// Rand returns a generator for one independent unit of work. The same seed
// and stream always yield the same sequence.
func (o Options) Rand(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(o.Seed, stream))
}

// round matches the half-to-even rounding the sampling formulas were defined with.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
