package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/mailru/easyjson"
	"github.com/royalcat/geosample/config"
	"github.com/royalcat/geosample/generator"
	"github.com/royalcat/geosample/internal/stats"
	"github.com/royalcat/geosample/internal/telemetry"

	_ "github.com/KimMachineGun/automemlimit"
	"github.com/urfave/cli/v3"
	_ "go.uber.org/automaxprocs"
)

const appName = "geosample"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	commands := []*cli.Command{
		{
			Name:  "filter",
			Usage: "keep the shapefile features whose column matches one of the values",
			Flags: append(globalFlags(),
				&cli.StringFlag{
					Name:      "sf",
					Usage:     "Location of the shape file",
					Required:  true,
					TakesFile: true,
				},
				&cli.StringFlag{
					Name:      "of",
					Usage:     "Location of the filtered shape file (zip)",
					Required:  true,
					TakesFile: true,
				},
				&cli.StringFlag{
					Name:     "filter-column",
					Required: true,
				},
				&cli.StringSliceFlag{
					Name:     "filter-values",
					Required: true,
				},
			),
			Action: filter,
		},
		{
			Name:      "help-alg",
			Usage:     "describe the params of an algorithm",
			ArgsUsage: "<algorithm>",
			Action:    helpAlg,
		},
	}
	for _, alg := range generator.Algorithms {
		commands = append(commands, &cli.Command{
			Name:  string(alg),
			Usage: "generate points with the " + string(alg) + " algorithm",
			Flags: sampleFlags(),
			Action: func(ctx *cli.Context) error {
				return run(ctx, string(alg))
			},
		})
	}

	return &cli.App{
		Name:        appName,
		Description: "Generates sample points from shapefiles, weight tables and border points",
		Flags:       sampleFlags(),
		Action: func(ctx *cli.Context) error {
			return run(ctx, ctx.String("alg"))
		},
		Commands: commands,
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "conf",
			Value: config.DefaultPath,
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
		},
		&cli.StringFlag{
			Name:      "log-file",
			TakesFile: true,
		},
	}
}

func sampleFlags() []cli.Flag {
	return append(globalFlags(),
		&cli.StringFlag{Name: "alg", Aliases: []string{"a"}},
		&cli.StringFlag{Name: "json", TakesFile: true, Usage: "read params from a json file, flags take precedence"},
		&cli.StringFlag{Name: "ip", TakesFile: true, Usage: "File containing grid border points"},
		&cli.StringFlag{Name: "sf", TakesFile: true, Usage: "Location of the shape file"},
		&cli.StringFlag{Name: "gf", TakesFile: true, Usage: "Location of the geography shape file"},
		&cli.StringFlag{Name: "wf", TakesFile: true, Usage: "Location of the weighted file"},
		&cli.StringFlag{Name: "of", TakesFile: true, Usage: "Location of the output file"},
		&cli.Float64Flag{Name: "d", Usage: "Distance between two points"},
		&cli.IntFlag{Name: "n", Usage: "Number of points"},
		&cli.Float64Flag{Name: "r", Usage: "Relation value"},
		&cli.StringFlag{Name: "b", Usage: "Budget, a number or a configured level"},
		&cli.StringFlag{Name: "p", Usage: "Preference, larger_weight or smaller_weight"},
		&cli.Uint64Flag{Name: "seed", DefaultText: "random"},
		&cli.IntFlag{Name: "threads", Aliases: []string{"t"}, DefaultText: "max"},
		&cli.StringFlag{Name: "placement", DefaultText: "uniform"},
		&cli.StringFlag{Name: "filter-column"},
		&cli.StringSliceFlag{Name: "filter-values"},
		&cli.IntFlag{Name: "max-points-per-line", DefaultText: "1"},
		&cli.StringFlag{Name: "metric-crs", DefaultText: "auto"},
		&cli.BoolFlag{Name: "progress"},
		&cli.StringFlag{Name: "stats", TakesFile: true, Usage: "write run statistics as json to this file"},
	)
}

func paramsFromFlags(ctx *cli.Context, alg string) config.Params {
	return config.Params{
		Alg:              alg,
		BorderPoints:     ctx.String("ip"),
		Shapefile:        ctx.String("sf"),
		Geography:        ctx.String("gf"),
		WeightFile:       ctx.String("wf"),
		Output:           ctx.String("of"),
		Distance:         ctx.Float64("d"),
		Count:            ctx.Int("n"),
		Relation:         ctx.Float64("r"),
		Budget:           config.Budget(ctx.String("b")),
		Preference:       ctx.String("p"),
		Seed:             ctx.Uint64("seed"),
		Threads:          ctx.Int("threads"),
		Placement:        ctx.String("placement"),
		FilterColumn:     ctx.String("filter-column"),
		FilterValues:     ctx.StringSlice("filter-values"),
		MaxPointsPerLine: ctx.Int("max-points-per-line"),
		MetricCRS:        ctx.String("metric-crs"),
	}
}

func setup(ctx *cli.Context) (*telemetry.Client, config.Config, error) {
	level, err := telemetry.ParseLevel(ctx.String("log-level"))
	if err != nil {
		return nil, config.Config{}, err
	}

	client, err := telemetry.Setup(ctx.Context, appName, telemetry.Options{
		Level:   level,
		LogFile: ctx.String("log-file"),
	})
	if err != nil {
		return nil, config.Config{}, fmt.Errorf("error setting up telemetry: %w", err)
	}

	cfg, err := config.Load(ctx.String("conf"))
	if err != nil {
		shutdown(client)
		return nil, config.Config{}, err
	}

	return client, cfg, nil
}

func shutdown(client *telemetry.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Flush(ctx); err != nil {
		slog.Warn("telemetry flush failed", "error", err)
	}
	if err := client.Shutdown(ctx); err != nil {
		slog.Error("telemetry shutdown failed", "error", err)
	}
}

func run(ctx *cli.Context, alg string) error {
	client, cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer shutdown(client)

	p := paramsFromFlags(ctx, alg)
	if path := ctx.String("json"); path != "" {
		fromFile, err := config.LoadParams(path)
		if err != nil {
			return err
		}
		p.Merge(fromFile)
	}

	gen, err := generator.New(cfg, ctx.Bool("progress"))
	if err != nil {
		return err
	}

	statsFile := ctx.String("stats")
	var collector *stats.Collector
	if statsFile != "" {
		collector, err = stats.NewCollector(p.Alg, 100*time.Millisecond)
		if err != nil {
			return err
		}
		if data, err := easyjson.Marshal(p); err == nil {
			collector.SetParams(data)
		}
		gen.WithStats(collector)
		collector.Start()
	}

	_, err = gen.Run(ctx.Context, p)

	if collector != nil {
		report := collector.Stop()
		report.Log(slog.Default())
		if saveErr := report.SaveToFile(statsFile); saveErr != nil {
			slog.Error("failed to save run statistics", "file", statsFile, "error", saveErr)
		}
	}

	var missing *generator.MissingParamsError
	switch {
	case errors.Is(err, generator.ErrInvalidAlgorithm):
		fmt.Fprintf(ctx.App.Writer, "Invalid algorithm choice. Choose one of: %s\n\n%s", algorithmNames(), generalHelp)
	case errors.As(err, &missing):
		fmt.Fprintf(ctx.App.Writer, "Missing required params: --%s\n", joinParams(missing.Params))
		printAlgorithmHelp(ctx.App.Writer, missing.Algorithm)
	}

	return err
}

func filter(ctx *cli.Context) error {
	client, cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	defer shutdown(client)

	gen, err := generator.New(cfg, false)
	if err != nil {
		return err
	}

	n, err := gen.Filter(ctx.Context, ctx.String("sf"), ctx.String("filter-column"), ctx.StringSlice("filter-values"), ctx.String("of"))
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "Kept %d features\n", n)
	return nil
}

func helpAlg(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		fmt.Fprint(ctx.App.Writer, generalHelp)
		return nil
	}

	alg, err := generator.ParseAlgorithm(name)
	if err != nil {
		fmt.Fprintf(ctx.App.Writer, "Invalid algorithm choice. Choose one of: %s\n", algorithmNames())
		return err
	}

	printAlgorithmHelp(ctx.App.Writer, alg)
	return nil
}
