package report

import (
	"fmt"
	"math"
	"time"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// CardSchemaOptions configures a single numeric/boolean/any summary card.
type CardSchemaOptions struct {
	Title    string
	Column   string
	Agg      AggregationType
	Quantile float64
}

// BuildCard projects one column to one scalar Card.
func BuildCard(frame *types.Frame, opts CardSchemaOptions) (Card, error) {
	col, err := frame.Column(opts.Column)
	if err != nil {
		return Card{}, err
	}
	v, err := Aggregate(opts.Agg, NumericColumnValues(col), opts.Quantile)
	if err != nil {
		return Card{}, err
	}
	return Card{Title: opts.Title, Value: types.NewDecimal(v)}, nil
}

// BarChartOptions configures a grouped bar chart over (label_col, value_col).
type BarChartOptions struct {
	Title      string
	Category   string
	LabelCol   string
	ValueCol   string
	Agg        AggregationType
	Quantile   float64
	Vertical   bool
}

// BuildBarChart groups rows by LabelCol preserving first-seen order,
// aggregates ValueCol within each group, and emits one bar series.
func BuildBarChart(frame *types.Frame, opts BarChartOptions) (Chart, error) {
	labelCol, err := frame.Column(opts.LabelCol)
	if err != nil {
		return Chart{}, err
	}
	valueCol, err := frame.Column(opts.ValueCol)
	if err != nil {
		return Chart{}, err
	}

	labels := make([]string, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		labels[i] = stringifyCell(labelCol, i)
	}
	order, groups := groupPreservingOrder(labels)

	series := Series{Name: opts.ValueCol}
	for _, label := range order {
		var values []float64
		for _, row := range groups[label] {
			if valueCol.IsNull(row) {
				continue
			}
			switch v := valueCol.Data[row].(type) {
			case float64:
				values = append(values, v)
			case int64:
				values = append(values, float64(v))
			case bool:
				if v {
					values = append(values, 1)
				} else {
					values = append(values, 0)
				}
			}
		}
		agg, err := Aggregate(opts.Agg, values, opts.Quantile)
		if err != nil {
			return Chart{}, err
		}
		series.Labels = append(series.Labels, label)
		series.Values = append(series.Values, agg)
	}

	return Chart{
		Kind:     ChartBar,
		Title:    opts.Title,
		Category: opts.Category,
		Vertical: opts.Vertical,
		Series:   []Series{series},
	}, nil
}

// CrossSectionalBarChartOptions aggregates every column of an
// already-transposed (assets-as-columns) frame into one bar per column.
type CrossSectionalBarChartOptions struct {
	Title    string
	Columns  []string
	Agg      AggregationType
	Quantile float64
	Vertical bool
}

// BuildCrossSectionalBarChart is the spec's "the frame is assumed already
// transposed into assets-as-columns" variant: each named column becomes
// one bar, aggregated over its own rows.
func BuildCrossSectionalBarChart(frame *types.Frame, opts CrossSectionalBarChartOptions) (Chart, error) {
	series := Series{Name: opts.Title}
	for _, name := range opts.Columns {
		col, err := frame.Column(name)
		if err != nil {
			return Chart{}, err
		}
		v, err := Aggregate(opts.Agg, NumericColumnValues(col), opts.Quantile)
		if err != nil {
			return Chart{}, err
		}
		series.Labels = append(series.Labels, name)
		series.Values = append(series.Values, v)
	}
	return Chart{Kind: ChartBar, Title: opts.Title, Vertical: opts.Vertical, Series: []Series{series}}, nil
}

// HistogramOptions configures a bin-count histogram over a numeric column.
type HistogramOptions struct {
	Title  string
	Column string
	Bins   int
}

// BuildHistogram computes fixed-width bin counts over Column's non-null
// values, covering [min, max] in Bins equal-width buckets.
func BuildHistogram(frame *types.Frame, opts HistogramOptions) (Chart, error) {
	col, err := frame.Column(opts.Column)
	if err != nil {
		return Chart{}, err
	}
	values := NumericColumnValues(col)
	if opts.Bins <= 0 {
		return Chart{}, fmt.Errorf("report: histogram bins must be positive, got %d", opts.Bins)
	}
	if len(values) == 0 {
		return Chart{Kind: ChartHistogram, Title: opts.Title}, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	width := (hi - lo) / float64(opts.Bins)
	counts := make([]float64, opts.Bins)
	labels := make([]string, opts.Bins)
	for i := range counts {
		labels[i] = fmt.Sprintf("[%.4g, %.4g)", lo+float64(i)*width, lo+float64(i+1)*width)
	}
	for _, v := range values {
		bin := opts.Bins - 1
		if width > 0 {
			bin = int((v - lo) / width)
			if bin >= opts.Bins {
				bin = opts.Bins - 1
			}
			if bin < 0 {
				bin = 0
			}
		}
		counts[bin]++
	}

	return Chart{
		Kind:  ChartHistogram,
		Title: opts.Title,
		Series: []Series{{
			Name:   opts.Column,
			Labels: labels,
			Values: counts,
		}},
	}, nil
}

// PieOptions configures a single-ring pie of normalized category counts.
type PieOptions struct {
	Title    string
	LabelCol string
}

// NestedPieOptions configures a two-ring nested pie: an outer grouping and
// an inner, finer-grained grouping within each outer group.
type NestedPieOptions struct {
	Title         string
	OuterLabelCol string
	InnerLabelCol string
}

// BuildPie normalizes LabelCol's value counts to percentages and emits one
// ring.
func BuildPie(frame *types.Frame, opts PieOptions) (Chart, error) {
	col, err := frame.Column(opts.LabelCol)
	if err != nil {
		return Chart{}, err
	}
	labels := make([]string, frame.Len())
	for i := 0; i < frame.Len(); i++ {
		labels[i] = stringifyCell(col, i)
	}
	order, groups := groupPreservingOrder(labels)
	total := float64(frame.Len())

	series := Series{Name: opts.LabelCol}
	for _, label := range order {
		series.Labels = append(series.Labels, label)
		pct := 0.0
		if total > 0 {
			pct = 100 * float64(len(groups[label])) / total
		}
		series.Values = append(series.Values, pct)
	}
	return Chart{Kind: ChartPie, Title: opts.Title, Series: []Series{series}}, nil
}

// BuildNestedPie emits an outer ring over OuterLabelCol and an inner ring
// over InnerLabelCol, each independently normalized to percentages.
func BuildNestedPie(frame *types.Frame, opts NestedPieOptions) (Chart, error) {
	outer, err := BuildPie(frame, PieOptions{Title: opts.Title, LabelCol: opts.OuterLabelCol})
	if err != nil {
		return Chart{}, err
	}
	inner, err := BuildPie(frame, PieOptions{Title: opts.Title, LabelCol: opts.InnerLabelCol})
	if err != nil {
		return Chart{}, err
	}
	return Chart{
		Kind:  ChartNestedPie,
		Title: opts.Title,
		Ring:  []Series{outer.Series[0], inner.Series[0]},
	}, nil
}

// TableOptions configures a filtered, re-headered column projection. A row
// passes when it satisfies FilterColumn (a plain boolean selector, if set)
// AND FilterExpr (an expr-lang predicate evaluated against the row's named
// columns, if set); either, both or neither may be given.
type TableOptions struct {
	Title        string
	FilterColumn string // boolean selector column; empty means no filter.
	FilterExpr   string // expr-lang boolean predicate; empty means no filter.
	Columns      []string
	Headers      []string
}

// BuildTable filters rows by FilterColumn/FilterExpr (when set) and
// projects Columns under Headers.
func BuildTable(frame *types.Frame, opts TableOptions) (Table, error) {
	var filter *types.Column
	if opts.FilterColumn != "" {
		col, err := frame.Column(opts.FilterColumn)
		if err != nil {
			return Table{}, err
		}
		filter = &col
	}

	cols := make([]types.Column, len(opts.Columns))
	for i, name := range opts.Columns {
		col, err := frame.Column(name)
		if err != nil {
			return Table{}, err
		}
		cols[i] = col
	}

	headers := opts.Headers
	if len(headers) == 0 {
		headers = opts.Columns
	}

	table := Table{Title: opts.Title, Headers: headers}
	for r := 0; r < frame.Len(); r++ {
		if filter != nil {
			if filter.IsNull(r) || filter.Data[r] != true {
				continue
			}
		}
		if opts.FilterExpr != "" {
			matched, err := defaultRowFilter.Matches(opts.FilterExpr, RowAsMap(frame, r))
			if err != nil {
				return Table{}, err
			}
			if !matched {
				continue
			}
		}
		row := make([]types.ConstantValue, len(cols))
		for c, col := range cols {
			row[c] = cellConstant(col, r)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// CrossSectionalTableOptions projects one row per declared metric and one
// column per asset out of an already-transposed frame.
type CrossSectionalTableOptions struct {
	Title   string
	Metrics []CardSchemaOptions // Column here names one asset's column.
}

// BuildCrossSectionalTable emits a metric x asset table: each
// CardSchemaOptions entry becomes one row, and its aggregation is applied
// independently per declared column/asset, one per table column.
func BuildCrossSectionalTable(frame *types.Frame, opts CrossSectionalTableOptions, assetColumns []string) (Table, error) {
	table := Table{Title: opts.Title, Headers: append([]string{"metric"}, assetColumns...)}
	for _, metric := range opts.Metrics {
		row := make([]types.ConstantValue, 0, len(assetColumns)+1)
		row = append(row, types.NewString(metric.Title))
		for _, asset := range assetColumns {
			col, err := frame.Column(asset)
			if err != nil {
				return Table{}, err
			}
			v, err := Aggregate(metric.Agg, NumericColumnValues(col), metric.Quantile)
			if err != nil {
				return Table{}, err
			}
			row = append(row, types.NewDecimal(v))
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

func stringifyCell(col types.Column, row int) string {
	if col.IsNull(row) {
		return "null"
	}
	return fmt.Sprintf("%v", col.Data[row])
}

func cellConstant(col types.Column, row int) types.ConstantValue {
	if col.IsNull(row) {
		return types.MakeNull(col.Type)
	}
	switch col.Type {
	case types.Integer:
		return types.NewInteger(col.Data[row].(int64))
	case types.Decimal:
		return types.NewDecimal(col.Data[row].(float64))
	case types.Boolean:
		return types.NewBoolean(col.Data[row].(bool))
	case types.String:
		return types.NewString(col.Data[row].(string))
	case types.Timestamp:
		return types.NewTimestamp(col.Data[row].(time.Time))
	default:
		return types.MakeNull(col.Type)
	}
}
