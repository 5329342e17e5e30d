package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "res/config.toml"

var (
	ErrUnknownBudget = errors.New("unknown budget")
	ErrInvalidConfig = errors.New("invalid config")
)

type Config struct {
	General      General             `toml:"config"`
	Budgets      map[string]float64  `toml:"budget"`
	RequiredArgs map[string][]string `toml:"required_args"`
	CRS          CRS                 `toml:"crs"`
	Jitter       Jitter              `toml:"jitter"`
	Weights      Weights             `toml:"weights"`
}

type General struct {
	// MaxNumPerScreen is how many establishments a single point is expected to cover.
	MaxNumPerScreen int `toml:"max_num_per_screen"`
}

type CRS struct {
	// Default is assumed for shapefiles shipped without a .prj.
	Default string `toml:"default"`
	// Metric is used for line lengths and region areas, "auto" picks the UTM zone of the data.
	Metric string `toml:"metric"`
}

type Jitter struct {
	MaxChange float64 `toml:"max_change"`
}

// Weights are zero based column positions used when the population file has no usable header.
type Weights struct {
	WeightColumn    int `toml:"weight_column"`
	LatitudeColumn  int `toml:"latitude_column"`
	LongitudeColumn int `toml:"longitude_column"`
}

func Default() Config {
	return Config{
		General: General{
			MaxNumPerScreen: 120,
		},
		Budgets: map[string]float64{
			"low":    0.25,
			"medium": 0.5,
			"high":   1.0,
		},
		RequiredArgs: DefaultRequiredArgs(),
		CRS: CRS{
			Default: "EPSG:4326",
			Metric:  "auto",
		},
		Jitter: Jitter{
			MaxChange: 0.09,
		},
		Weights: Weights{
			WeightColumn:    6,
			LatitudeColumn:  7,
			LongitudeColumn: 8,
		},
	}
}

func DefaultRequiredArgs() map[string][]string {
	return map[string][]string{
		"grid":                 {"ip", "sf", "of", "d"},
		"weight_w_num_points":  {"wf", "of", "n"},
		"weight":               {"wf", "of", "sf", "r", "b"},
		"shapefile_w_distance": {"sf", "of", "d"},
		"shapefile_w_weight":   {"sf", "gf", "of", "p"},
	}
}

// Load reads the TOML file at path on top of the defaults. Tables are merged
// key by key into the default tables. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("config file not found, using defaults", "path", path)
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		slog.Warn("unknown config keys", "path", path, "keys", fmt.Sprint(undecoded))
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if c.General.MaxNumPerScreen <= 0 {
		return fmt.Errorf("%w: max_num_per_screen must be positive, got %d", ErrInvalidConfig, c.General.MaxNumPerScreen)
	}
	if !(c.Jitter.MaxChange >= 0) || math.IsInf(c.Jitter.MaxChange, 0) {
		return fmt.Errorf("%w: jitter max_change must be a finite non-negative number, got %v", ErrInvalidConfig, c.Jitter.MaxChange)
	}
	for name, v := range c.Budgets {
		if !(v >= 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: budget %q must be a finite non-negative number", ErrInvalidConfig, name)
		}
	}
	return nil
}

// Budget resolves a budget given either as a number or as the name of a
// [budget] level.
func (c Config) Budget(b Budget) (float64, error) {
	s := strings.TrimSpace(string(b))
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: %q is not a finite number", ErrUnknownBudget, s)
		}
		return v, nil
	}

	if v, ok := c.Budgets[strings.ToLower(s)]; ok {
		return v, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownBudget, s)
}

func (c Config) Required(alg string) ([]string, bool) {
	args, ok := c.RequiredArgs[alg]
	return args, ok
}
