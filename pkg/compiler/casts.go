package compiler

import "github.com/EPOCHDevs/quantgraph-go/pkg/types"

// castPair is a (producer type, declared consumer type) pair the compiler
// knows how to bridge with a synthetic static_cast_to_<type> node.
type castPair struct {
	from types.ColumnType
	to   types.ColumnType
}

// permittedCasts is the fixed table of implicit casts step 4 of the compiler
// may insert. It deliberately excludes lossy narrowing casts (Decimal ->
// Integer, String -> anything): those require an explicit cast node in the
// strategy document, not an implicit one.
var permittedCasts = map[castPair]bool{
	{types.Integer, types.Decimal}:   true,
	{types.Integer, types.String}:    true,
	{types.Decimal, types.String}:    true,
	{types.Boolean, types.String}:    true,
	{types.Timestamp, types.String}:  true,
	{types.Any, types.Integer}:       true,
	{types.Any, types.Decimal}:       true,
	{types.Any, types.Boolean}:       true,
	{types.Any, types.String}:        true,
	{types.Any, types.Timestamp}:     true,
}

// needsCast reports whether a binding from producerType to a slot declared
// as consumerType requires a synthetic cast node, and whether the pair is
// bridgeable at all if so.
//
//   - identical types, or any declared consumer type of Any: no cast needed.
//   - a pair present in permittedCasts: cast needed, bridgeable.
//   - anything else: cast needed, not bridgeable -> TypeMismatch.
func needsCast(producerType, consumerType types.ColumnType) (needed bool, bridgeable bool) {
	if producerType == consumerType || consumerType == types.Any {
		return false, true
	}
	bridgeable = permittedCasts[castPair{from: producerType, to: consumerType}]
	return true, bridgeable
}
