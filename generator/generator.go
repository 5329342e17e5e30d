package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/paulmach/orb"
	"github.com/royalcat/geosample/config"
	"github.com/royalcat/geosample/internal/stats"
	"github.com/royalcat/geosample/pointio"
	"github.com/royalcat/geosample/sampler"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/royalcat/geosample/generator"

var (
	ErrInvalidAlgorithm = errors.New("invalid algorithm choice")
	ErrMissingParams    = errors.New("missing required params")
)

type Algorithm string

const (
	AlgGrid         Algorithm = "grid"
	AlgWeightFixed  Algorithm = "weight_w_num_points"
	AlgWeight       Algorithm = "weight"
	AlgLineDistance Algorithm = "shapefile_w_distance"
	AlgLineWeight   Algorithm = "shapefile_w_weight"
)

var Algorithms = []Algorithm{AlgGrid, AlgWeightFixed, AlgWeight, AlgLineDistance, AlgLineWeight}

func ParseAlgorithm(s string) (Algorithm, error) {
	for _, alg := range Algorithms {
		if string(alg) == s {
			return alg, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
}

// MissingParamsError lists the params an algorithm needs but did not get.
type MissingParamsError struct {
	Algorithm Algorithm
	Params    []string
}

func (e *MissingParamsError) Error() string {
	return fmt.Sprintf("%s: %s requires --%s", ErrMissingParams, e.Algorithm, strings.Join(e.Params, ", --"))
}

func (e *MissingParamsError) Unwrap() error {
	return ErrMissingParams
}

type Generator struct {
	cfg      config.Config
	progress bool
	stats    *stats.Collector

	log       *slog.Logger
	tracer    trace.Tracer
	generated metric.Int64Counter
}

func New(cfg config.Config, progress bool) (*Generator, error) {
	generated, err := otel.Meter(instrumentationName).Int64Counter("points_generated_total",
		metric.WithDescription("number of sample points written"),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:       cfg,
		progress:  progress,
		log:       slog.With("component", "generator"),
		tracer:    otel.Tracer(instrumentationName),
		generated: generated,
	}, nil
}

// WithStats records run stages into c.
func (g *Generator) WithStats(c *stats.Collector) *Generator {
	g.stats = c
	return g
}

func (g *Generator) stage(name string) {
	if g.stats != nil {
		g.stats.Stage(name)
	}
}

// Validate resolves the algorithm of p and checks that every param it
// requires is present.
func (g *Generator) Validate(p config.Params) (Algorithm, error) {
	alg, err := ParseAlgorithm(p.Alg)
	if err != nil {
		return "", err
	}

	required, ok := g.cfg.Required(p.Alg)
	if !ok {
		required = config.DefaultRequiredArgs()[p.Alg]
	}
	if missing := p.Missing(required); len(missing) > 0 {
		return alg, &MissingParamsError{Algorithm: alg, Params: missing}
	}

	return alg, nil
}

func (g *Generator) options(p config.Params) (sampler.Options, error) {
	opts := sampler.OptionsDefault()
	opts.Progress = g.progress

	placement, err := sampler.ParsePlacement(p.Placement)
	if err != nil {
		return opts, err
	}
	opts.Placement = placement

	if p.Threads > 0 {
		opts.Threads = p.Threads
	}

	opts.Seed = p.Seed
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64()
		g.log.Info("no seed given, using a random one", "seed", opts.Seed)
	}

	return opts, nil
}

// Run generates the points of the algorithm selected in p and writes them
// to p.Output. It returns the number of points written.
func (g *Generator) Run(ctx context.Context, p config.Params) (int, error) {
	p.Normalize()

	alg, err := g.Validate(p)
	if err != nil {
		return 0, err
	}

	ctx, span := g.tracer.Start(ctx, "sampler."+string(alg))
	defer span.End()

	points, err := g.generate(ctx, alg, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("%s: %w", alg, err)
	}

	header := pointio.HeaderUpper
	if alg == AlgGrid {
		header = pointio.HeaderTitle
	}

	g.stage("write")
	if err := pointio.WriteCoordinates(p.Output, header, points); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("failed to write output: %w", err)
	}

	g.generated.Add(ctx, int64(len(points)), metric.WithAttributes(attribute.String("algorithm", string(alg))))
	span.SetAttributes(attribute.Int("points", len(points)))
	if g.stats != nil {
		g.stats.SetPoints(len(points))
	}

	g.log.InfoContext(ctx, "points written", "algorithm", string(alg), "points", len(points), "output", p.Output)

	return len(points), nil
}

func (g *Generator) generate(ctx context.Context, alg Algorithm, p config.Params) ([]orb.Point, error) {
	opts, err := g.options(p)
	if err != nil {
		return nil, err
	}

	switch alg {
	case AlgGrid:
		return g.grid(ctx, p)
	case AlgWeightFixed:
		return g.weightFixed(ctx, p, opts)
	case AlgWeight:
		return g.weight(ctx, p, opts)
	case AlgLineDistance:
		return g.lineDistance(ctx, p)
	case AlgLineWeight:
		return g.lineWeight(ctx, p)
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, alg)
}
