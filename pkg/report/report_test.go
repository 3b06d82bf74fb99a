package report

import (
	"testing"
	"time"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayIndex(n int) types.TimeIndex {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	idx, _ := types.NewTimeIndex(times, types.FreqDay)
	return idx
}

func numericFrame(values []float64) *types.Frame {
	idx := dayIndex(len(values))
	frame := types.NewFrame(idx)
	col := types.NewColumn(types.Decimal, len(values))
	for i, v := range values {
		col.Set(i, v)
	}
	_ = frame.AddColumn("value", col)
	return frame
}

func TestAggregateBasics(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}

	sum, err := Aggregate(AggSum, values, 0)
	require.NoError(t, err)
	assert.Equal(t, 15.0, sum)

	mean, err := Aggregate(AggMean, values, 0)
	require.NoError(t, err)
	assert.Equal(t, 3.0, mean)

	count, err := Aggregate(AggCount, values, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, count)

	min, err := Aggregate(AggMin, values, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, min)

	max, err := Aggregate(AggMax, values, 0)
	require.NoError(t, err)
	assert.Equal(t, 5.0, max)
}

func TestAggregateUnknownFails(t *testing.T) {
	_, err := Aggregate(AggregationType("bogus"), []float64{1}, 0)
	assert.ErrorIs(t, err, errUnknownAggregation)
}

func TestBuildCard(t *testing.T) {
	frame := numericFrame([]float64{10, 20, 30})
	card, err := BuildCard(frame, CardSchemaOptions{Title: "total", Column: "value", Agg: AggSum})
	require.NoError(t, err)
	assert.Equal(t, "total", card.Title)
	v, err := card.Value.GetDecimal()
	require.NoError(t, err)
	assert.Equal(t, 60.0, v)
}

func TestBuildBarChartGroupsPreservingOrder(t *testing.T) {
	idx := dayIndex(4)
	frame := types.NewFrame(idx)
	labels := types.NewColumn(types.String, 4)
	labels.Set(0, "b")
	labels.Set(1, "a")
	labels.Set(2, "b")
	labels.Set(3, "a")
	require.NoError(t, frame.AddColumn("label", labels))

	values := types.NewColumn(types.Decimal, 4)
	values.Set(0, 1.0)
	values.Set(1, 2.0)
	values.Set(2, 3.0)
	values.Set(3, 4.0)
	require.NoError(t, frame.AddColumn("value", values))

	chart, err := BuildBarChart(frame, BarChartOptions{Title: "t", LabelCol: "label", ValueCol: "value", Agg: AggSum})
	require.NoError(t, err)
	require.Len(t, chart.Series, 1)
	// "b" is seen first (row 0), so it leads despite not being alphabetically first.
	assert.Equal(t, []string{"b", "a"}, chart.Series[0].Labels)
	assert.Equal(t, []float64{4.0, 6.0}, chart.Series[0].Values)
}

func TestBuildHistogram(t *testing.T) {
	frame := numericFrame([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	chart, err := BuildHistogram(frame, HistogramOptions{Title: "h", Column: "value", Bins: 5})
	require.NoError(t, err)
	require.Len(t, chart.Series, 1)
	total := 0.0
	for _, c := range chart.Series[0].Values {
		total += c
	}
	assert.Equal(t, 10.0, total)
}

func TestBuildPieNormalizesToPercentages(t *testing.T) {
	idx := dayIndex(4)
	frame := types.NewFrame(idx)
	labels := types.NewColumn(types.String, 4)
	labels.Set(0, "up")
	labels.Set(1, "up")
	labels.Set(2, "down")
	labels.Set(3, "down")
	require.NoError(t, frame.AddColumn("direction", labels))

	chart, err := BuildPie(frame, PieOptions{Title: "p", LabelCol: "direction"})
	require.NoError(t, err)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, []float64{50.0, 50.0}, chart.Series[0].Values)
}

func TestBuildTableFiltersRows(t *testing.T) {
	idx := dayIndex(3)
	frame := types.NewFrame(idx)
	keep := types.NewColumn(types.Boolean, 3)
	keep.Set(0, true)
	keep.Set(1, false)
	keep.Set(2, true)
	require.NoError(t, frame.AddColumn("keep", keep))

	value := types.NewColumn(types.Decimal, 3)
	value.Set(0, 1.0)
	value.Set(1, 2.0)
	value.Set(2, 3.0)
	require.NoError(t, frame.AddColumn("value", value))

	table, err := BuildTable(frame, TableOptions{
		Title: "t", FilterColumn: "keep", Columns: []string{"value"}, Headers: []string{"Value"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Value"}, table.Headers)
	require.Len(t, table.Rows, 2)
}

func TestBuildGapEventsAndReport(t *testing.T) {
	idx := dayIndex(4)
	frame := types.NewFrame(idx)
	open := types.NewColumn(types.Decimal, 4)
	high := types.NewColumn(types.Decimal, 4)
	low := types.NewColumn(types.Decimal, 4)
	closeCol := types.NewColumn(types.Decimal, 4)

	// day0: close 100. day1 opens at 105 (gap up, 5%), trades down to 99 (fills), closes 103.
	closeCol.Set(0, 100.0)
	open.Set(1, 105.0)
	high.Set(1, 106.0)
	low.Set(1, 99.0)
	closeCol.Set(1, 103.0)
	// day2 opens at 95 from 103 (gap down, ~7.8%), stays low, does not fill, closes 94.
	open.Set(2, 95.0)
	high.Set(2, 96.0)
	low.Set(2, 93.0)
	closeCol.Set(2, 94.0)
	// day3 no interesting gap: opens flat.
	open.Set(3, 94.0)
	high.Set(3, 95.0)
	low.Set(3, 93.5)
	closeCol.Set(3, 94.5)

	require.NoError(t, frame.AddColumn("open", open))
	require.NoError(t, frame.AddColumn("high", high))
	require.NoError(t, frame.AddColumn("low", low))
	require.NoError(t, frame.AddColumn("close", closeCol))

	rpt, err := BuildGapReport(idx, frame, GapReportOptions{
		MinGapPct: 0.01, Bins: 3,
		OpenColumn: "open", HighColumn: "high", LowColumn: "low", CloseColumn: "close",
	})
	require.NoError(t, err)
	require.Len(t, rpt.Dashboard.Cards, 4)
	assert.Equal(t, "total_gaps", rpt.Dashboard.Cards[0].Title)
	totalGaps, _ := rpt.Dashboard.Cards[0].Value.GetInteger()
	assert.Equal(t, int64(2), totalGaps)
	assert.Equal(t, "gap_events", rpt.EventMarkers.Name)
	assert.Equal(t, 2, rpt.EventMarkers.Frame.Len())
	assert.Equal(t, "pivot_index", rpt.EventMarkers.PivotIndexColumn)
	require.True(t, rpt.EventMarkers.Frame.Has("pivot_index"))

	// stacked "Filled"/"Not Filled" chart over {Gap Up, Gap Down, Total}:
	// the gap-up event filled, the gap-down event did not.
	require.Len(t, rpt.Dashboard.Charts, 3)
	fillAnalysis := rpt.Dashboard.Charts[0]
	assert.Equal(t, "gap_fill_analysis", fillAnalysis.Title)
	assert.True(t, fillAnalysis.Stacked)
	require.Len(t, fillAnalysis.Series, 2)
	assert.Equal(t, []string{"Gap Up", "Gap Down", "Total"}, fillAnalysis.Series[0].Labels)
	assert.Equal(t, []float64{1, 0, 1}, fillAnalysis.Series[0].Values) // Filled
	assert.Equal(t, []float64{0, 1, 1}, fillAnalysis.Series[1].Values) // Not Filled

	byWeekday := rpt.Dashboard.Charts[1]
	assert.Equal(t, "fill_rate_by_weekday", byWeekday.Title)
	assert.True(t, byWeekday.Stacked)

	// two per-direction fill-analysis tables, three rows each.
	require.Len(t, rpt.Dashboard.Tables, 2)
	assert.Equal(t, "Gap Up Fill Analysis", rpt.Dashboard.Tables[0].Title)
	require.Len(t, rpt.Dashboard.Tables[0].Rows, 3)
	upFilledPct, _ := rpt.Dashboard.Tables[0].Rows[1][2].GetDecimal()
	assert.Equal(t, 100.0, upFilledPct) // the one gap-up event filled

	assert.Equal(t, "Gap Down Fill Analysis", rpt.Dashboard.Tables[1].Title)
	require.Len(t, rpt.Dashboard.Tables[1].Rows, 3)
	downFilledPct, _ := rpt.Dashboard.Tables[1].Rows[1][2].GetDecimal()
	assert.Equal(t, 0.0, downFilledPct) // the one gap-down event did not fill
}

func TestBuildGapReportEventFilterExprNarrowsEvents(t *testing.T) {
	idx := dayIndex(4)
	frame := types.NewFrame(idx)
	open := types.NewColumn(types.Decimal, 4)
	high := types.NewColumn(types.Decimal, 4)
	low := types.NewColumn(types.Decimal, 4)
	closeCol := types.NewColumn(types.Decimal, 4)

	closeCol.Set(0, 100.0)
	open.Set(1, 105.0)
	high.Set(1, 106.0)
	low.Set(1, 99.0)
	closeCol.Set(1, 103.0)
	open.Set(2, 95.0)
	high.Set(2, 96.0)
	low.Set(2, 93.0)
	closeCol.Set(2, 94.0)
	open.Set(3, 94.0)
	high.Set(3, 95.0)
	low.Set(3, 93.5)
	closeCol.Set(3, 94.5)

	require.NoError(t, frame.AddColumn("open", open))
	require.NoError(t, frame.AddColumn("high", high))
	require.NoError(t, frame.AddColumn("low", low))
	require.NoError(t, frame.AddColumn("close", closeCol))

	rpt, err := BuildGapReport(idx, frame, GapReportOptions{
		MinGapPct: 0.01, Bins: 3,
		OpenColumn: "open", HighColumn: "high", LowColumn: "low", CloseColumn: "close",
		EventFilterExpr: `row["direction"] == "up"`,
	})
	require.NoError(t, err)
	totalGaps, _ := rpt.Dashboard.Cards[0].Value.GetInteger()
	assert.Equal(t, int64(1), totalGaps)
	assert.Equal(t, 1, rpt.EventMarkers.Frame.Len())
}

func TestBuildTableFilterExpr(t *testing.T) {
	frame := numericFrame([]float64{1, 2, 3, 4})
	table, err := BuildTable(frame, TableOptions{
		Title: "t", Columns: []string{"value"}, FilterExpr: `row["value"] > 2`,
	})
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	v0, _ := table.Rows[0][0].GetDecimal()
	v1, _ := table.Rows[1][0].GetDecimal()
	assert.Equal(t, 3.0, v0)
	assert.Equal(t, 4.0, v1)
}

func TestExprRowFilterCompilesAndCaches(t *testing.T) {
	f := NewExprRowFilter()

	row := map[string]any{"pnl": 10.5, "side": "long"}
	ok, err := f.Matches(`row["pnl"] > 0 && row["side"] == "long"`, row)
	require.NoError(t, err)
	assert.True(t, ok)

	// second call hits the cache, same result.
	ok, err = f.Matches(`row["pnl"] > 0 && row["side"] == "long"`, row)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = f.Matches(`row["pnl"] < 0`, row)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExprRowFilterEmptyExpressionMatchesAll(t *testing.T) {
	f := NewExprRowFilter()
	ok, err := f.Matches("", map[string]any{})
	require.NoError(t, err)
	assert.True(t, ok)
}
