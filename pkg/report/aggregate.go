package report

import (
	"fmt"
	"sort"

	"github.com/EPOCHDevs/quantgraph-go/pkg/errs"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"gonum.org/v1/gonum/stat"
)

// AggregationType enumerates the reducers a numeric/boolean/any card, bar
// series or cross-sectional projection may apply to a column.
type AggregationType string

const (
	AggSum           AggregationType = "sum"
	AggMean          AggregationType = "mean"
	AggCount         AggregationType = "count"
	AggFirst         AggregationType = "first"
	AggLast          AggregationType = "last"
	AggMin           AggregationType = "min"
	AggMax           AggregationType = "max"
	AggVariance      AggregationType = "variance"
	AggStdDev        AggregationType = "stddev"
	AggSkew          AggregationType = "skew"
	AggKurtosis      AggregationType = "kurtosis"
	AggCountDistinct AggregationType = "count_distinct"
	AggQuantile      AggregationType = "quantile"
	AggTDigest       AggregationType = "tdigest"
	AggProduct       AggregationType = "product"
)

// errUnknownAggregation reuses the compiler's taxonomy: a report option
// naming an aggregation outside this set is a report-side config error.
var errUnknownAggregation = errs.ErrUnknownAggregation

// Aggregate reduces values (nulls already excluded by the caller) to a
// single float64 per agg. quantileArg supplies the quantile in [0,1] for
// AggQuantile and AggTDigest; it is ignored otherwise.
func Aggregate(agg AggregationType, values []float64, quantileArg float64) (float64, error) {
	if len(values) == 0 {
		if agg == AggCount || agg == AggCountDistinct || agg == AggSum {
			return 0, nil
		}
		return 0, nil
	}

	switch agg {
	case AggSum:
		var s float64
		for _, v := range values {
			s += v
		}
		return s, nil
	case AggMean:
		return stat.Mean(values, nil), nil
	case AggCount:
		return float64(len(values)), nil
	case AggFirst:
		return values[0], nil
	case AggLast:
		return values[len(values)-1], nil
	case AggMin:
		m := values[0]
		for _, v := range values[1:] {
			if v < m {
				m = v
			}
		}
		return m, nil
	case AggMax:
		m := values[0]
		for _, v := range values[1:] {
			if v > m {
				m = v
			}
		}
		return m, nil
	case AggVariance:
		return stat.Variance(values, nil), nil
	case AggStdDev:
		return stat.StdDev(values, nil), nil
	case AggSkew:
		return stat.Skew(values, nil), nil
	case AggKurtosis:
		return stat.ExKurtosis(values, nil), nil
	case AggCountDistinct:
		seen := make(map[float64]struct{}, len(values))
		for _, v := range values {
			seen[v] = struct{}{}
		}
		return float64(len(seen)), nil
	case AggQuantile, AggTDigest:
		// tdigest approximates via the same sorted-order quantile
		// computation as AggQuantile: no centroid-merging t-digest library
		// is present anywhere in the reference corpus, so an exact
		// quantile over the full sample stands in for the sketch.
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		return stat.Quantile(quantileArg, stat.Empirical, sorted, nil), nil
	case AggProduct:
		p := 1.0
		for _, v := range values {
			p *= v
		}
		return p, nil
	default:
		return 0, fmt.Errorf("%w: %q", errUnknownAggregation, agg)
	}
}

// NumericColumnValues extracts a column's non-null numeric values, in row
// order, for use with Aggregate.
func NumericColumnValues(col types.Column) []float64 {
	values := make([]float64, 0, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		switch v := col.Data[i].(type) {
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
	return values
}

// groupPreservingOrder groups row indices by a label column's stringified
// value, preserving first-seen order of distinct labels. Bar chart and pie
// grouping follow the order in which labels first appear in the rows rather
// than an arbitrary map iteration order.
func groupPreservingOrder(labels []string) (order []string, groups map[string][]int) {
	groups = make(map[string][]int)
	for i, label := range labels {
		if _, seen := groups[label]; !seen {
			order = append(order, label)
		}
		groups[label] = append(groups[label], i)
	}
	return order, groups
}
