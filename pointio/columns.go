package pointio

import (
	"fmt"
	"strings"
)

const (
	ColumnWeight     = "WEIGHT"
	ColumnLatitude   = "LATITUDE"
	ColumnLongitude  = "LONGITUDE"
	ColumnStateFP    = "STATEFP"
	ColumnCountyFP   = "COUNTYFP"
	ColumnPopulation = "POPULATION"
)

var columnDescriptions = map[string]string{
	ColumnWeight:     "This column in used for calculating optimal number of points as well as to differentiate between areas of interest.",
	ColumnLatitude:   "Self explanatory.",
	ColumnLongitude:  "Self explanatory.",
	ColumnStateFP:    "This column represents the states Federal Information Processing Standards (FIPS) code. It is used to connect two files which hold different county data.",
	ColumnCountyFP:   "This column represents the counties Federal Information Processing Standards (FIPS) code. It is used to connect two files which hold different county data.",
	ColumnPopulation: "This is deprecated name, change it to weights",
}

// MissingColumnsError lists the columns an input file lacks.
type MissingColumnsError struct {
	File    string
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "%s: missing columns %s", e.File, strings.Join(e.Columns, ", "))
	for _, c := range e.Columns {
		desc, ok := columnDescriptions[c]
		if !ok {
			desc = "Description not available."
		}
		fmt.Fprintf(b, "\nMissing column: %s\nDescription: %s", c, desc)
	}
	return b.String()
}

type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		name = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, ok := h[name]; !ok {
			h[name] = i
		}
	}
	return h
}

func (h header) missing(columns ...string) []string {
	var out []string
	for _, c := range columns {
		if _, ok := h[c]; !ok {
			out = append(out, c)
		}
	}
	return out
}
