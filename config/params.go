package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

//go:generate go tool easyjson -omit_empty params.go

var ErrInvalidParams = errors.New("invalid params json")

// Budget is either a plain multiplier or the name of a configured budget level.
type Budget string

// Float reports the budget as a number when it is a finite one.
func (b Budget) Float() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (b *Budget) UnmarshalEasyJSON(in *jlexer.Lexer) {
	switch in.CurrentToken() {
	case jlexer.TokenNumber, jlexer.TokenString:
		*b = Budget(in.JsonNumber())
	default:
		in.AddError(errors.New("budget must be a number or a level name"))
		in.SkipRecursive()
	}
}

func (b Budget) MarshalEasyJSON(out *jwriter.Writer) {
	if v, ok := b.Float(); ok {
		out.Float64(v)
		return
	}
	out.String(string(b))
}

// Params are the inputs of a single run, shared by every algorithm.
//
//easyjson:json
type Params struct {
	Alg          string  `json:"alg"`
	BorderPoints string  `json:"ip"`
	Shapefile    string  `json:"sf"`
	Geography    string  `json:"gf"`
	WeightFile   string  `json:"wf"`
	Output       string  `json:"of"`
	Distance     float64 `json:"d"`
	Count        int     `json:"n"`
	Relation     float64 `json:"r"`
	Budget       Budget  `json:"b"`
	Preference   string  `json:"p"`

	Seed             uint64   `json:"seed"`
	Threads          int      `json:"threads"`
	Placement        string   `json:"placement"`
	FilterColumn     string   `json:"filter_column"`
	FilterValues     []string `json:"filter_values"`
	MaxPointsPerLine int      `json:"max_points_per_line"`
	MetricCRS        string   `json:"metric_crs"`
}

func LoadParams(path string) (Params, error) {
	var p Params

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read params: %w", err)
	}

	if err := easyjson.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("%w %s: %w", ErrInvalidParams, path, err)
	}

	return p, nil
}

// Merge fills every unset field of p from other.
func (p *Params) Merge(other Params) {
	setString(&p.Alg, other.Alg)
	setString(&p.BorderPoints, other.BorderPoints)
	setString(&p.Shapefile, other.Shapefile)
	setString(&p.Geography, other.Geography)
	setString(&p.WeightFile, other.WeightFile)
	setString(&p.Output, other.Output)
	setString(&p.Preference, other.Preference)
	setString(&p.Placement, other.Placement)
	setString(&p.FilterColumn, other.FilterColumn)
	setString(&p.MetricCRS, other.MetricCRS)
	if p.Budget == "" {
		p.Budget = other.Budget
	}
	if p.Distance == 0 {
		p.Distance = other.Distance
	}
	if p.Relation == 0 {
		p.Relation = other.Relation
	}
	if p.Count == 0 {
		p.Count = other.Count
	}
	if p.Seed == 0 {
		p.Seed = other.Seed
	}
	if p.Threads == 0 {
		p.Threads = other.Threads
	}
	if p.MaxPointsPerLine == 0 {
		p.MaxPointsPerLine = other.MaxPointsPerLine
	}
	if len(p.FilterValues) == 0 {
		p.FilterValues = other.FilterValues
	}
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// Normalize accepts the older shapefile_w_distance form where the spacing
// was passed as the budget.
func (p *Params) Normalize() {
	if p.Alg != "shapefile_w_distance" || p.Distance != 0 {
		return
	}
	if v, ok := p.Budget.Float(); ok {
		p.Distance = v
	}
}

// Missing returns the names out of required that have no value.
func (p Params) Missing(required []string) []string {
	missing := []string{}
	for _, name := range required {
		if !p.isSet(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

func (p Params) isSet(name string) bool {
	switch name {
	case "alg":
		return p.Alg != ""
	case "ip":
		return p.BorderPoints != ""
	case "sf":
		return p.Shapefile != ""
	case "gf":
		return p.Geography != ""
	case "wf":
		return p.WeightFile != ""
	case "of":
		return p.Output != ""
	case "d":
		return p.Distance != 0
	case "n":
		return p.Count != 0
	case "r":
		return p.Relation != 0
	case "b":
		return p.Budget != ""
	case "p":
		return p.Preference != ""
	case "placement":
		return p.Placement != ""
	case "filter_column":
		return p.FilterColumn != ""
	case "filter_values":
		return len(p.FilterValues) > 0
	case "max_points_per_line":
		return p.MaxPointsPerLine != 0
	case "metric_crs":
		return p.MetricCRS != ""
	}
	return false
}
