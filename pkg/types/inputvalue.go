package types

// NodeReference identifies a single output slot of an upstream node: the
// node that produced it and the handle name of that output. Its canonical
// column identifier is "<node_id>#<handle>" — the naming convention every
// Frame column in the system follows.
type NodeReference struct {
	NodeID string
	Handle string
}

// ColumnName returns the canonical "<node_id>#<handle>" identifier.
func (r NodeReference) ColumnName() string {
	return r.NodeID + "#" + r.Handle
}

// inputKind tags which variant an InputValue currently holds.
type inputKind int

const (
	inputKindRef inputKind = iota
	inputKindConstant
	inputKindNull
)

// InputValue is the tagged variant bound to a single input slot of an
// AlgorithmNode before compilation resolves it: either a reference to
// another node's output, a literal constant, or an explicit null.
type InputValue struct {
	kind     inputKind
	ref      NodeReference
	constant ConstantValue
}

// NewRefInput builds an InputValue that references another node's output.
func NewRefInput(ref NodeReference) InputValue {
	return InputValue{kind: inputKindRef, ref: ref}
}

// NewLiteralInput builds an InputValue carrying an inline constant.
func NewLiteralInput(c ConstantValue) InputValue {
	return InputValue{kind: inputKindConstant, constant: c}
}

// NewNullInput builds an explicitly-null InputValue.
func NewNullInput() InputValue {
	return InputValue{kind: inputKindNull}
}

// IsRef reports whether this input references another node's output.
func (v InputValue) IsRef() bool { return v.kind == inputKindRef }

// IsLiteral reports whether this input carries an inline constant.
func (v InputValue) IsLiteral() bool { return v.kind == inputKindConstant }

// IsNull reports whether this input is explicitly null.
func (v InputValue) IsNull() bool { return v.kind == inputKindNull }

// Reference returns the node reference payload; callers must check IsRef first.
func (v InputValue) Reference() NodeReference { return v.ref }

// Literal returns the constant payload; callers must check IsLiteral first.
func (v InputValue) Literal() ConstantValue { return v.constant }

// ColumnIdentifier returns the column name this input resolves to: the
// referenced node's "<node_id>#<handle>" for a ref, or the constant's own
// deterministic name for a literal. It errors for the null variant, which
// has no column identity.
func (v InputValue) ColumnIdentifier() (string, error) {
	switch v.kind {
	case inputKindRef:
		return v.ref.ColumnName(), nil
	case inputKindConstant:
		return v.constant.ColumnName(), nil
	default:
		return "", errNullIdentifier
	}
}
