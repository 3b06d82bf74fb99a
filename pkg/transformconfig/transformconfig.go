// Package transformconfig provides the per-instance materialized view (C3)
// that a running transform sees: resolved option values, resolved input
// bindings, and the stable output column names it may emit under.
package transformconfig

import (
	"fmt"

	"github.com/EPOCHDevs/quantgraph-go/pkg/compiler"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// TransformDefinition pairs a compiled node with its registry metadata —
// the two pieces a TransformConfiguration is built from.
type TransformDefinition struct {
	node *compiler.AlgorithmNode
	meta metadata.TransformMetaData
}

// GetMetadata returns the transform's registry metadata.
func (d TransformDefinition) GetMetadata() metadata.TransformMetaData { return d.meta }

// TransformConfiguration is the read-only view a Transform implementation
// (C6) consumes: it never sees the raw AlgorithmNode or the registry
// directly, only this resolved projection of the two.
type TransformConfiguration struct {
	def TransformDefinition
}

// New builds a TransformConfiguration from a compiled node and its
// registered metadata. Callers are expected to look the metadata up once
// per node via the registry and pass it in, rather than doing a registry
// lookup on every accessor call.
func New(node *compiler.AlgorithmNode, meta metadata.TransformMetaData) *TransformConfiguration {
	return &TransformConfiguration{def: TransformDefinition{node: node, meta: meta}}
}

// GetTransformDefinition exposes the underlying (node, metadata) pair.
func (c *TransformConfiguration) GetTransformDefinition() TransformDefinition { return c.def }

// NodeID returns the compiled node's own id.
func (c *TransformConfiguration) NodeID() string { return c.def.node.ID }

// GetOptionValue returns the resolved value of option id, falling back to
// the given default if the option was never bound (only legal for
// non-required options the compiler itself left unresolved).
func (c *TransformConfiguration) GetOptionValue(id string, fallback ...types.ConstantValue) (types.ConstantValue, error) {
	if v, ok := c.def.node.Options[id]; ok {
		return v, nil
	}
	if len(fallback) > 0 {
		return fallback[0], nil
	}
	return types.ConstantValue{}, fmt.Errorf("transformconfig: option %q not bound on node %q", id, c.def.node.ID)
}

// GetInput returns the single binding of an input slot, failing if the slot
// is unbound or bound to more than one value.
func (c *TransformConfiguration) GetInput(slotID string) (types.InputValue, error) {
	bindings, ok := c.def.node.Inputs[slotID]
	if !ok || len(bindings) == 0 {
		return types.InputValue{}, fmt.Errorf("transformconfig: input slot %q not bound on node %q", slotID, c.def.node.ID)
	}
	if len(bindings) != 1 {
		return types.InputValue{}, fmt.Errorf("transformconfig: input slot %q on node %q is multi-bound, use GetInputs", slotID, c.def.node.ID)
	}
	return bindings[0], nil
}

// GetInputs returns every input slot's full binding list.
func (c *TransformConfiguration) GetInputs() map[string][]types.InputValue {
	return c.def.node.Inputs
}

// GetInputId returns the resolved column identifier a single-binding slot's
// value will be read from at execution time.
func (c *TransformConfiguration) GetInputId(slotID string) (string, error) {
	iv, err := c.GetInput(slotID)
	if err != nil {
		return "", err
	}
	return iv.ColumnIdentifier()
}

// GetInputIds returns the resolved column identifiers for a multi-binding slot.
func (c *TransformConfiguration) GetInputIds(slotID string) ([]string, error) {
	bindings, ok := c.def.node.Inputs[slotID]
	if !ok {
		return nil, fmt.Errorf("transformconfig: input slot %q not bound on node %q", slotID, c.def.node.ID)
	}
	ids := make([]string, 0, len(bindings))
	for _, iv := range bindings {
		id, err := iv.ColumnIdentifier()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// GetOutputId returns the stable, deterministic NodeReference (node id plus
// handle) naming the column this node emits output handle under.
func (c *TransformConfiguration) GetOutputId(handle string) types.NodeReference {
	return c.def.node.OutputRef(handle)
}

// Timeframe returns the node's declared timeframe token, if any.
func (c *TransformConfiguration) Timeframe() string { return c.def.node.Timeframe }

// Session returns the node's attached session, if any.
func (c *TransformConfiguration) Session() *types.SessionVariant { return c.def.node.Session }
