package compiler

import (
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"github.com/rs/zerolog/log"
)

// scalarExtractors is the fixed type -> constant-value table the scalar
// inlining pass uses to fold a scalar node without ever running it. Values
// are carried verbatim from the original compiler's extractor table.
var scalarExtractors = map[string]func(options map[string]types.ConstantValue) (types.ConstantValue, bool){
	"number": func(o map[string]types.ConstantValue) (types.ConstantValue, bool) {
		v, ok := o["value"]
		return v, ok
	},
	"text": func(o map[string]types.ConstantValue) (types.ConstantValue, bool) {
		v, ok := o["value"]
		return v, ok
	},
	"bool_true":      constScalar(types.NewBoolean(true)),
	"bool_false":     constScalar(types.NewBoolean(false)),
	"zero":           constScalar(types.NewDecimal(0.0)),
	"one":            constScalar(types.NewDecimal(1.0)),
	"negative_one":   constScalar(types.NewDecimal(-1.0)),
	"pi":             constScalar(types.NewDecimal(3.141592653589793)),
	"e":              constScalar(types.NewDecimal(2.718281828459045)),
	"phi":            constScalar(types.NewDecimal(1.618033988749895)),
	"sqrt2":          constScalar(types.NewDecimal(1.414213562373095)),
	"sqrt3":          constScalar(types.NewDecimal(1.732050807568877)),
	"sqrt5":          constScalar(types.NewDecimal(2.236067977499790)),
	"ln2":            constScalar(types.NewDecimal(0.693147180559945)),
	"ln10":           constScalar(types.NewDecimal(2.302585092994046)),
	"log2e":          constScalar(types.NewDecimal(1.442695040888963)),
	"log10e":         constScalar(types.NewDecimal(0.434294481903252)),
	"null_number":    constScalar(types.MakeNull(types.Decimal)),
	"null_string":    constScalar(types.MakeNull(types.String)),
	"null_boolean":   constScalar(types.MakeNull(types.Boolean)),
	"null_timestamp": constScalar(types.MakeNull(types.Timestamp)),
}

func constScalar(v types.ConstantValue) func(map[string]types.ConstantValue) (types.ConstantValue, bool) {
	return func(map[string]types.ConstantValue) (types.ConstantValue, bool) { return v, true }
}

// InlineScalars runs the scalar inlining pass (C5) over a compiled plan: it
// removes pure-constant nodes and rewrites every reference to their "result"
// output into a literal input carrying the extracted value. It is pure,
// idempotent, and never reorders the nodes it leaves in place.
func InlineScalars(plan *Plan, reg *metadata.Registry) *Plan {
	scalarValues := buildScalarValueMap(plan.Nodes, reg)
	if len(scalarValues) == 0 {
		return plan
	}

	remaining := make([]*AlgorithmNode, 0, len(plan.Nodes))
	for _, n := range plan.Nodes {
		if _, folded := scalarValues[n.ID+"#result"]; folded {
			continue
		}
		remaining = append(remaining, inlineScalarsInNode(n, scalarValues))
	}

	return &Plan{
		Nodes:         remaining,
		BaseFrequency: plan.BaseFrequency,
		ExecutorCount: plan.ExecutorCount,
	}
}

// buildScalarValueMap extracts a constant value for every node whose
// metadata category is Scalar, keyed by "<node_id>#result". Extraction
// failures are logged and the offending node is simply absent from the
// map, which leaves it in the plan per the pass's error policy.
func buildScalarValueMap(nodes []*AlgorithmNode, reg *metadata.Registry) map[string]types.ConstantValue {
	values := make(map[string]types.ConstantValue)
	for _, n := range nodes {
		md, ok := reg.GetMetaData(n.Type)
		if !ok || md.Category != metadata.CategoryScalar {
			continue
		}
		extractor, ok := scalarExtractors[n.Type]
		if !ok {
			log.Warn().Str("node_id", n.ID).Str("node_type", n.Type).Msg("scalar inlining: no extractor registered for scalar type")
			continue
		}
		v, ok := extractor(n.Options)
		if !ok {
			log.Warn().Str("node_id", n.ID).Str("node_type", n.Type).Msg("scalar inlining: extraction failed")
			continue
		}
		values[n.ID+"#result"] = v
	}
	return values
}

// inlineScalarsInNode rewrites n's ref-typed inputs that point at an
// inlined scalar's output into literal inputs carrying the folded value.
// n itself is not mutated; a shallow copy with rewritten inputs is returned.
func inlineScalarsInNode(n *AlgorithmNode, scalarValues map[string]types.ConstantValue) *AlgorithmNode {
	out := n.Clone()
	for slotID, bindings := range out.Inputs {
		for i, iv := range bindings {
			if !iv.IsRef() {
				continue
			}
			if v, ok := scalarValues[iv.Reference().ColumnName()]; ok {
				bindings[i] = types.NewLiteralInput(v)
			}
		}
		out.Inputs[slotID] = bindings
	}
	return out
}
