package report

import (
	"math"
	"time"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// GapDirection is whether a gap event opened higher or lower than the
// prior close.
type GapDirection string

const (
	GapUp   GapDirection = "up"
	GapDown GapDirection = "down"
)

// GapEvent is one day's open-vs-prior-close gap, the per-row unit the gap
// report's event markers and charts are built from.
type GapEvent struct {
	Date        time.Time
	PriorClose  float64
	Open        float64
	Close       float64
	GapSize     float64 // (open - prior_close) / prior_close, signed.
	Direction   GapDirection
	Filled      bool
	FillTime    *time.Time
	Performance float64 // (close - open) / open, signed.
	Weekday     time.Weekday
}

// BuildGapEvents scans a daily OHLC frame and derives one GapEvent per row
// whose open differs from the prior close by at least minGapPct (the first
// row, rows with a null price, rows with a zero prior close and rows with
// no gap or a smaller one are skipped). A gap is "filled" when later the
// same day price trades back through the prior close.
func BuildGapEvents(index types.TimeIndex, open, high, low, close types.Column, minGapPct float64) []GapEvent {
	var events []GapEvent
	for i := 1; i < index.Len(); i++ {
		if open.IsNull(i) || close.IsNull(i-1) || high.IsNull(i) || low.IsNull(i) || close.IsNull(i) {
			continue
		}
		priorClose := close.Data[i-1].(float64)
		o := open.Data[i].(float64)
		c := close.Data[i].(float64)
		h := high.Data[i].(float64)
		l := low.Data[i].(float64)

		if priorClose == 0 {
			continue
		}
		gapSize := (o - priorClose) / priorClose
		if gapSize == 0 || absFloat(gapSize) < minGapPct {
			continue
		}

		direction := GapUp
		filled := l <= priorClose
		if gapSize < 0 {
			direction = GapDown
			filled = h >= priorClose
		}

		var fillTime *time.Time
		if filled {
			t := index.Times[i]
			fillTime = &t
		}

		events = append(events, GapEvent{
			Date:        index.Times[i],
			PriorClose:  priorClose,
			Open:        o,
			Close:       c,
			GapSize:     gapSize,
			Direction:   direction,
			Filled:      filled,
			FillTime:    fillTime,
			Performance: (c - o) / o,
			Weekday:     index.Times[i].Weekday(),
		})
	}
	return events
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// BuildGapEventFrame materializes a GapEvent slice into a day-keyed frame
// whose columns back the gap report's summary cards, charts and event
// markers.
func BuildGapEventFrame(events []GapEvent) (*types.Frame, error) {
	times := make([]time.Time, len(events))
	for i, e := range events {
		times[i] = e.Date
	}
	index, err := types.NewTimeIndex(times, types.FreqDay)
	if err != nil {
		return nil, err
	}
	frame := types.NewFrame(index)

	gapSize := types.NewColumn(types.Decimal, len(events))
	direction := types.NewColumn(types.String, len(events))
	filled := types.NewColumn(types.Boolean, len(events))
	weekday := types.NewColumn(types.String, len(events))
	performance := types.NewColumn(types.Decimal, len(events))
	pivotIndex := types.NewColumn(types.Timestamp, len(events))
	fillTime := types.NewColumn(types.Timestamp, len(events))

	for i, e := range events {
		gapSize.Set(i, e.GapSize)
		direction.Set(i, string(e.Direction))
		filled.Set(i, e.Filled)
		if e.FillTime != nil {
			fillTime.Set(i, *e.FillTime)
		}
		weekday.Set(i, e.Weekday.String())
		performance.Set(i, e.Performance)
		pivotIndex.Set(i, e.Date)
	}

	for name, col := range map[string]types.Column{
		"gap_size":    gapSize,
		"direction":   direction,
		"filled":      filled,
		"fill_time":   fillTime,
		"weekday":     weekday,
		"performance": performance,
		// pivot_index carries the event's own timestamp as a plain column
		// (duplicating the frame's index) so event markers can navigate
		// back to a point in time after the frame is reset/flattened.
		"pivot_index": pivotIndex,
	} {
		if err := frame.AddColumn(name, col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// GapReportOptions configures the compound gap report.
type GapReportOptions struct {
	MinGapPct   float64
	Bins        int
	OpenColumn  string
	HighColumn  string
	LowColumn   string
	CloseColumn string
	// EventFilterExpr, when set, is an expr-lang boolean predicate
	// evaluated against each gap event's row (gap_size, direction, filled,
	// weekday, performance) to decide whether it is included in the
	// report at all; empty means every detected gap is included.
	EventFilterExpr string
}

// GapReport is the compound projection's output: four summary cards, a
// stacked gap-fill-analysis bar chart, a by-weekday fill-rate bar chart, a
// size histogram, two per-direction fill-rate tables, and the per-event
// markers.
type GapReport struct {
	Dashboard    Dashboard
	EventMarkers EventMarkerData
}

// BuildGapReport implements the compound gap report: it derives gap events
// from a daily OHLC frame, optionally narrows them by EventFilterExpr, then
// projects summary cards (total_gaps, gap_up_%, gap_down_%, fill_rate), a
// stacked "Filled"/"Not Filled" bar chart over {Gap Up, Gap Down, Total}, a
// stacked fill-rate-by-weekday bar chart, a gap-size histogram, the Gap
// Up/Gap Down fill-analysis tables, and per-event markers pivoting on each
// event's own timestamp.
func BuildGapReport(index types.TimeIndex, source *types.Frame, opts GapReportOptions) (*GapReport, error) {
	open, err := source.Column(opts.OpenColumn)
	if err != nil {
		return nil, err
	}
	high, err := source.Column(opts.HighColumn)
	if err != nil {
		return nil, err
	}
	low, err := source.Column(opts.LowColumn)
	if err != nil {
		return nil, err
	}
	close, err := source.Column(opts.CloseColumn)
	if err != nil {
		return nil, err
	}

	events := BuildGapEvents(index, open, high, low, close, opts.MinGapPct)
	if opts.EventFilterExpr != "" {
		events, err = filterEvents(events, opts.EventFilterExpr)
		if err != nil {
			return nil, err
		}
	}
	gapFrame, err := BuildGapEventFrame(events)
	if err != nil {
		return nil, err
	}

	total := len(events)
	upCount, downCount, filledCount, upFilled, downFilled := 0, 0, 0, 0, 0
	for _, e := range events {
		if e.Direction == GapUp {
			upCount++
			if e.Filled {
				upFilled++
			}
		} else {
			downCount++
			if e.Filled {
				downFilled++
			}
		}
		if e.Filled {
			filledCount++
		}
	}

	pct := func(n, d int) float64 {
		if d == 0 {
			return 0
		}
		return math.Round(float64(n)/float64(d)*10000) / 100
	}

	cards := []Card{
		{Title: "total_gaps", Value: types.NewInteger(int64(total))},
		{Title: "gap_up_%", Value: types.NewDecimal(pct(upCount, total))},
		{Title: "gap_down_%", Value: types.NewDecimal(pct(downCount, total))},
		{Title: "fill_rate", Value: types.NewDecimal(pct(filledCount, total))},
	}

	fillAnalysis := Chart{
		Kind:     ChartBar,
		Title:    "gap_fill_analysis",
		Category: "Reports",
		Vertical: true,
		Stacked:  true,
		Series: []Series{
			{
				Name:   "Filled",
				Labels: []string{"Gap Up", "Gap Down", "Total"},
				Values: []float64{float64(upFilled), float64(downFilled), float64(filledCount)},
			},
			{
				Name:   "Not Filled",
				Labels: []string{"Gap Up", "Gap Down", "Total"},
				Values: []float64{float64(upCount - upFilled), float64(downCount - downFilled), float64(total - filledCount)},
			},
		},
	}

	byWeekday, err := buildWeekdayFillChart(gapFrame)
	if err != nil {
		return nil, err
	}
	sizeHistogram, err := BuildHistogram(gapFrame, HistogramOptions{
		Title: "gap_size_distribution", Column: "gap_size", Bins: opts.Bins,
	})
	if err != nil {
		return nil, err
	}

	gapUpTable, gapDownTable := buildFillRateTables(upCount, upFilled, downCount, downFilled, total, pct)

	markers := EventMarkerData{
		Name:             "gap_events",
		Frame:            gapFrame,
		PivotIndexColumn: "pivot_index",
		Icon:             "gap",
		CardSchemas: []CardSchema{{
			PrimaryBadgeColumn:   "direction",
			SecondaryBadgeColumn: "weekday",
			HeroValueColumn:      "gap_size",
			SubtitleColumn:       "performance",
			FooterColumn:         "filled",
			DetailColumns:        []string{"gap_size", "performance", "filled", "weekday"},
			ColorMap:             map[string]string{"up": "green", "down": "red"},
		}},
	}

	return &GapReport{
		Dashboard: Dashboard{
			Cards:  cards,
			Tables: []Table{gapUpTable, gapDownTable},
			Charts: []Chart{fillAnalysis, byWeekday, sizeHistogram},
		},
		EventMarkers: markers,
	}, nil
}

// filterEvents narrows events to those matching expression, evaluated
// against each event's own field values via ExprRowFilter.
func filterEvents(events []GapEvent, expression string) ([]GapEvent, error) {
	var out []GapEvent
	for _, e := range events {
		row := map[string]any{
			"gap_size":    e.GapSize,
			"direction":   string(e.Direction),
			"filled":      e.Filled,
			"weekday":     e.Weekday.String(),
			"performance": e.Performance,
		}
		matched, err := defaultRowFilter.Matches(expression, row)
		if err != nil {
			return nil, err
		}
		if matched {
			out = append(out, e)
		}
	}
	return out, nil
}

// buildWeekdayFillChart stacks "Filled"/"Not Filled" event counts per
// weekday, mirroring the direction-level fill-analysis chart at a finer
// grouping.
func buildWeekdayFillChart(gapFrame *types.Frame) (Chart, error) {
	weekdayCol, err := gapFrame.Column("weekday")
	if err != nil {
		return Chart{}, err
	}
	filledCol, err := gapFrame.Column("filled")
	if err != nil {
		return Chart{}, err
	}

	order := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	filled := make(map[string]int, len(order))
	notFilled := make(map[string]int, len(order))
	for i := 0; i < gapFrame.Len(); i++ {
		if weekdayCol.IsNull(i) || filledCol.IsNull(i) {
			continue
		}
		day := weekdayCol.Data[i].(string)
		if filledCol.Data[i].(bool) {
			filled[day]++
		} else {
			notFilled[day]++
		}
	}

	filledValues := make([]float64, len(order))
	notFilledValues := make([]float64, len(order))
	for i, day := range order {
		filledValues[i] = float64(filled[day])
		notFilledValues[i] = float64(notFilled[day])
	}

	return Chart{
		Kind:     ChartBar,
		Title:    "fill_rate_by_weekday",
		Category: "Reports",
		Vertical: true,
		Stacked:  true,
		Series: []Series{
			{Name: "Filled", Labels: order, Values: filledValues},
			{Name: "Not Filled", Labels: order, Values: notFilledValues},
		},
	}, nil
}

// buildFillRateTables builds the Gap Up / Gap Down fill-analysis tables:
// three rows each (total, filled, not filled), with a frequency and a
// percentage column.
func buildFillRateTables(upCount, upFilled, downCount, downFilled, total int, pct func(n, d int) float64) (Table, Table) {
	headers := []string{"category", "frequency", "percentage"}

	gapUp := Table{
		Title:   "Gap Up Fill Analysis",
		Headers: headers,
		Rows: [][]types.ConstantValue{
			{types.NewString("gap up"), types.NewInteger(int64(upCount)), types.NewDecimal(pct(upCount, total))},
			{types.NewString("gap up filled"), types.NewInteger(int64(upFilled)), types.NewDecimal(pct(upFilled, upCount))},
			{types.NewString("gap up not filled"), types.NewInteger(int64(upCount - upFilled)), types.NewDecimal(pct(upCount-upFilled, upCount))},
		},
	}

	gapDown := Table{
		Title:   "Gap Down Fill Analysis",
		Headers: headers,
		Rows: [][]types.ConstantValue{
			{types.NewString("gap down"), types.NewInteger(int64(downCount)), types.NewDecimal(pct(downCount, total))},
			{types.NewString("gap down filled"), types.NewInteger(int64(downFilled)), types.NewDecimal(pct(downFilled, downCount))},
			{types.NewString("gap down not filled"), types.NewInteger(int64(downCount - downFilled)), types.NewDecimal(pct(downCount-downFilled, downCount))},
		},
	}

	return gapUp, gapDown
}
