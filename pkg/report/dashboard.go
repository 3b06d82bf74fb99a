// Package report implements the Reporter-category projection layer (C9):
// pure functions from a Frame plus a report's option-declared schema to a
// dashboard of cards, tables and charts, plus optional time-indexed event
// markers. Reports carry no per-run mutable state.
package report

import (
	"github.com/EPOCHDevs/quantgraph-go/pkg/transform"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// Card is a single scalar summary value.
type Card struct {
	Title string
	Value types.ConstantValue
}

// Table is a labeled row x column matrix.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]types.ConstantValue
}

// ChartKind distinguishes the chart families C9 projects.
type ChartKind string

const (
	ChartBar       ChartKind = "bar"
	ChartPie       ChartKind = "pie"
	ChartNestedPie ChartKind = "nested_pie"
	ChartHistogram ChartKind = "histogram"
)

// Series is one named bar/pie slice set within a Chart.
type Series struct {
	Name   string
	Labels []string
	Values []float64
}

// Chart is one bar, pie, nested-pie or histogram visualization.
type Chart struct {
	Kind     ChartKind
	Title    string
	Category string
	Vertical bool
	// Stacked marks a ChartBar whose Series should render as stacked bars
	// sharing one category axis (e.g. "Filled"/"Not Filled" stacked per
	// gap-direction category) rather than grouped side by side.
	Stacked bool
	Series  []Series
	// Ring is only populated for ChartNestedPie: the outer ring's series at
	// index 0, the inner ring's at index 1.
	Ring []Series
}

// Dashboard is the ordered collection of cards, tables and charts one
// Reporter node emits.
type Dashboard struct {
	Cards  []Card
	Tables []Table
	Charts []Chart
}

// CardSchema and EventMarkerData are the transform package's shapes
// (returned by a Reporter that implements the optional
// transform.EventMarkerProvider); report builds
// them directly rather than redeclaring the shape under this package.
type CardSchema = transform.CardSchema
type EventMarkerData = transform.EventMarkerData
