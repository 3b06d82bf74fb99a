package metadata

import "github.com/EPOCHDevs/quantgraph-go/pkg/types"

// CastTransformID returns the synthetic transform type id for a static cast
// to the given target type, e.g. "static_cast_to_decimal".
func CastTransformID(target types.ColumnType) string {
	switch target {
	case types.Integer:
		return "static_cast_to_integer"
	case types.Decimal:
		return "static_cast_to_decimal"
	case types.Boolean:
		return "static_cast_to_boolean"
	case types.String:
		return "static_cast_to_string"
	case types.Timestamp:
		return "static_cast_to_timestamp"
	default:
		return ""
	}
}

// castTargets enumerates every type the registry carries a static-cast
// transform for.
var castTargets = []types.ColumnType{types.Integer, types.Decimal, types.Boolean, types.String, types.Timestamp}

// staticCastMetaData builds the metadata record for a single
// static_cast_to_<type> transform, mirroring the original's
// static_cast_metadata.h: a single Any-typed input, one output named
// "result" of the target type, internal use only, nulls allowed through.
func staticCastMetaData(target types.ColumnType) TransformMetaData {
	id := CastTransformID(target)
	return TransformMetaData{
		ID:                      id,
		Category:                CategoryUtility,
		PlotKind:                PlotKindNone,
		Name:                    "Static cast to " + string(target),
		Options:                 nil,
		Inputs:                  []IOMetaData{{Type: types.Any, ID: "input", Name: "input", AllowMultiConnections: false}},
		Outputs:                 []IOMetaData{{Type: target, ID: "result", Name: "result"}},
		AtLeastOneInputRequired: false,
		RequiresTimeFrame:       false,
		AllowNullInputs:         true,
		InternalUse:             true,
		Alias:                   "static_cast",
		AssetRequirements:       []string{"single-asset"},
	}
}

// RegisterBuiltins registers every transform type this repository provides
// itself rather than leaving to leaf-transform authors: the five static-cast
// utility nodes the compiler's cast-insertion step (C4 step 4) splices in,
// and the fixed set of scalar-literal node types the scalar inlining pass
// (C5) knows how to fold. Leaf transform authors register everything else.
func RegisterBuiltins(r *Registry) error {
	for _, t := range castTargets {
		if err := r.Register(staticCastMetaData(t)); err != nil {
			return err
		}
	}
	for _, md := range scalarMetaData() {
		if err := r.Register(md); err != nil {
			return err
		}
	}
	return nil
}

// scalarTypeIDs is the fixed set of scalar transform type ids the scalar
// inlining pass knows how to extract a constant value from. Carried verbatim
// from the original compiler's extractor table.
var scalarTypeIDs = []string{
	"number", "text", "bool_true", "bool_false",
	"zero", "one", "negative_one",
	"pi", "e", "phi", "sqrt2", "sqrt3", "sqrt5", "ln2", "ln10", "log2e", "log10e",
	"null_number", "null_string", "null_boolean", "null_timestamp",
}

func scalarMetaData() []TransformMetaData {
	out := make([]TransformMetaData, 0, len(scalarTypeIDs))
	for _, id := range scalarTypeIDs {
		outType := types.Decimal
		var options []OptionDefinition
		switch id {
		case "number":
			options = []OptionDefinition{{ID: "value", Name: "value", Type: OptionDecimal, Required: true}}
		case "text":
			outType = types.String
			options = []OptionDefinition{{ID: "value", Name: "value", Type: OptionString, Required: true}}
		case "bool_true", "bool_false":
			outType = types.Boolean
		case "null_number":
			outType = types.Decimal
		case "null_string":
			outType = types.String
		case "null_boolean":
			outType = types.Boolean
		case "null_timestamp":
			outType = types.Timestamp
		}
		out = append(out, TransformMetaData{
			ID:                      id,
			Category:                CategoryScalar,
			PlotKind:                PlotKindNone,
			Name:                    id,
			Options:                 options,
			Outputs:                 []IOMetaData{{Type: outType, ID: "result", Name: "result"}},
			AtLeastOneInputRequired: false,
			AllowNullInputs:         true,
			InternalUse:             true,
		})
	}
	return out
}
