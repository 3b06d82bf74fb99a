package transform

import "github.com/EPOCHDevs/quantgraph-go/pkg/types"

// RenameForDataSource builds the output frame a DataSource-category node
// emits: it takes the loader's frame (columns named per the expanded
// requiredDataSources identifiers) and renames each into this node's
// canonical id#handle column, in the order the node's output handles were
// declared. It never mutates the loader's frame.
func RenameForDataSource(loaded *types.Frame, loaderColumns []string, outputHandles []string, nodeID string) (*types.Frame, error) {
	out := types.NewFrame(loaded.Index())
	for i, handle := range outputHandles {
		col, err := loaded.Column(loaderColumns[i])
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(nodeID+"#"+handle, col); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// AnyNull reports whether row i is null in any of the given columns,
// implementing the "allow_null_inputs = false" suppression rule: when a
// transform's metadata disallows null inputs, any null input at a row
// suppresses that row's computation.
func AnyNull(row int, cols ...types.Column) bool {
	for _, c := range cols {
		if c.IsNull(row) {
			return true
		}
	}
	return false
}

// MapElementwise fills a typed output column row by row from inputs of
// equal length, writing a null row whenever allowNullInputs is false and
// any input is null at that row, and otherwise delegating to fn.
func MapElementwise(outType types.ColumnType, allowNullInputs bool, fn func(row int) (any, bool), cols ...types.Column) types.Column {
	n := 0
	if len(cols) > 0 {
		n = cols[0].Len()
	}
	out := types.NewColumn(outType, n)
	for i := 0; i < n; i++ {
		if !allowNullInputs && AnyNull(i, cols...) {
			continue // leave row null
		}
		v, ok := fn(i)
		if !ok {
			continue
		}
		out.Set(i, v)
	}
	return out
}
