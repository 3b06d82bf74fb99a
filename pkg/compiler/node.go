// Package compiler implements the strategy document parser, the graph
// compiler (C4), and the scalar inlining pass (C5): it turns a raw node list
// into a topologically ordered, type-checked, cast-complete execution plan.
package compiler

import "github.com/EPOCHDevs/quantgraph-go/pkg/types"

// AlgorithmNode is one node of a compiled plan: a registered transform type
// bound to resolved option values and resolved input bindings. Every
// invariant spec.md attaches to "algorithm node" holds for values produced
// by Compile; it never holds for a RawNode fresh off the wire.
type AlgorithmNode struct {
	ID      string
	Type    string
	Options map[string]types.ConstantValue
	Inputs  map[string][]types.InputValue
	// Timeframe is the frequency token ("1D", "1H", "15M", ...) copied from
	// the document's node; empty when the document gives none.
	Timeframe string
	// Session is attached only when the node's metadata declares
	// RequiresTimeFrame and the document supplied one.
	Session *types.SessionVariant
}

// Clone returns a deep-enough copy of the node safe to mutate without
// affecting the original: new maps, same immutable value contents.
func (n *AlgorithmNode) Clone() *AlgorithmNode {
	out := &AlgorithmNode{
		ID:        n.ID,
		Type:      n.Type,
		Timeframe: n.Timeframe,
		Session:   n.Session,
	}
	out.Options = make(map[string]types.ConstantValue, len(n.Options))
	for k, v := range n.Options {
		out.Options[k] = v
	}
	out.Inputs = make(map[string][]types.InputValue, len(n.Inputs))
	for k, v := range n.Inputs {
		cp := make([]types.InputValue, len(v))
		copy(cp, v)
		out.Inputs[k] = cp
	}
	return out
}

// OutputRef builds the NodeReference for one of this node's declared output handles.
func (n *AlgorithmNode) OutputRef(handle string) types.NodeReference {
	return types.NodeReference{NodeID: n.ID, Handle: handle}
}

// Plan is the compiler's output: a topologically ordered sequence of nodes
// plus the base frequency and executor count the runtime driver needs.
type Plan struct {
	Nodes         []*AlgorithmNode
	BaseFrequency types.Frequency
	ExecutorCount int
}

// NodeByID returns the node with the given id, if present in the plan.
func (p *Plan) NodeByID(id string) (*AlgorithmNode, bool) {
	for _, n := range p.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}
