package compiler

import (
	"fmt"
	"time"

	"github.com/EPOCHDevs/quantgraph-go/pkg/errs"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"gopkg.in/yaml.v3"
)

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// CompileOption customizes a single Compile call.
type CompileOption func(*compileSettings)

type compileSettings struct {
	skipSinkValidation bool
}

// WithSkipSinkValidation disables step 9's requirement that the plan
// contain at least one Executor or Reporter terminal node.
func WithSkipSinkValidation() CompileOption {
	return func(s *compileSettings) { s.skipSinkValidation = true }
}

// Compile turns a raw strategy document into an executable Plan: it
// validates every node against the registry, resolves option values and
// input bindings, inserts implicit casts, orders the plan topologically,
// and infers the plan's base frequency and executor count.
func Compile(doc *RawDocument, reg *metadata.Registry, opts ...CompileOption) (*Plan, error) {
	settings := compileSettings{}
	for _, o := range opts {
		o(&settings)
	}

	if err := checkUniqueIDs(doc.Nodes); err != nil {
		return nil, err
	}

	nodeTypes := make(map[string]string, len(doc.Nodes))
	for _, raw := range doc.Nodes {
		nodeTypes[raw.ID] = raw.Type
	}

	nodes := make([]*AlgorithmNode, 0, len(doc.Nodes))
	for _, raw := range doc.Nodes {
		node, err := compileNode(raw, reg)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	outputTypeOf := func(nodeID, handle string) (types.ColumnType, error) {
		typeID, ok := nodeTypes[nodeID]
		if !ok {
			return "", &errs.CompileError{NodeID: nodeID, Err: errs.ErrDanglingReference}
		}
		md, ok := reg.GetMetaData(typeID)
		if !ok {
			return "", &errs.CompileError{NodeID: nodeID, Err: errs.ErrUnknownTransform}
		}
		out, ok := md.OutputByID(handle)
		if !ok {
			return "", &errs.CompileError{NodeID: nodeID, SlotID: handle, Err: errs.ErrDanglingReference}
		}
		return out.Type, nil
	}

	nodes, err := insertCasts(nodes, reg, outputTypeOf)
	if err != nil {
		return nil, err
	}

	if err := attachSessions(doc.Nodes, nodes, reg); err != nil {
		return nil, err
	}

	ordered, err := topologicalSort(nodes)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		Nodes:         ordered,
		BaseFrequency: inferBaseFrequency(ordered, reg),
		ExecutorCount: countExecutors(ordered, reg),
	}

	if !settings.skipSinkValidation {
		if err := validateSink(ordered, reg); err != nil {
			return nil, err
		}
	}

	return plan, nil
}

func checkUniqueIDs(raws []RawNode) error {
	seen := make(map[string]struct{}, len(raws))
	for _, r := range raws {
		if _, dup := seen[r.ID]; dup {
			return &errs.CompileError{NodeID: r.ID, Err: fmt.Errorf("duplicate node id")}
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// compileNode performs steps 1-3 (lookup/shape validation, option-value
// parsing, input binding) for a single node.
func compileNode(raw RawNode, reg *metadata.Registry) (*AlgorithmNode, error) {
	md, ok := reg.GetMetaData(raw.Type)
	if !ok {
		return nil, &errs.CompileError{NodeID: raw.ID, Err: errs.ErrUnknownTransform}
	}

	declaredOptions := make(map[string]struct{}, len(md.Options))
	for _, o := range md.Options {
		declaredOptions[o.ID] = struct{}{}
	}
	for id := range raw.Options {
		if _, ok := declaredOptions[id]; !ok {
			return nil, &errs.CompileError{NodeID: raw.ID, SlotID: id, Err: errs.ErrUnknownOption}
		}
	}

	options, err := resolveOptions(raw, md)
	if err != nil {
		return nil, err
	}

	inputs, err := resolveInputs(raw, md)
	if err != nil {
		return nil, err
	}

	return &AlgorithmNode{
		ID:        raw.ID,
		Type:      raw.Type,
		Options:   options,
		Inputs:    inputs,
		Timeframe: raw.Timeframe,
	}, nil
}

// resolveOptions implements step 2: MetaDataArgRef resolution followed by
// type-aware coercion of every declared option.
func resolveOptions(raw RawNode, md metadata.TransformMetaData) (map[string]types.ConstantValue, error) {
	resolved := make(map[string]types.ConstantValue, len(md.Options))

	for _, def := range md.Options {
		rawVal, present := raw.Options[def.ID]
		if !present {
			if def.Required {
				return nil, &errs.CompileError{NodeID: raw.ID, SlotID: def.ID, Err: errs.ErrMissingOption}
			}
			if def.HasDefault {
				resolved[def.ID] = def.Default
			}
			continue
		}

		if refID, isRef := rawVal.ArgRef(); isRef {
			target, ok := raw.Options[refID]
			if !ok {
				return nil, &errs.CompileError{NodeID: raw.ID, SlotID: def.ID, Err: errs.ErrUnresolvedArgRef}
			}
			if _, chained := target.ArgRef(); chained {
				return nil, &errs.CompileError{NodeID: raw.ID, SlotID: def.ID, Err: errs.ErrUnresolvedArgRef}
			}
			rawVal = target
		}

		cv, err := coerceOptionValue(rawVal, def)
		if err != nil {
			return nil, &errs.CompileError{NodeID: raw.ID, SlotID: def.ID, Err: err}
		}
		resolved[def.ID] = cv
	}

	return resolved, nil
}

func coerceOptionValue(raw RawOptionValue, def metadata.OptionDefinition) (types.ConstantValue, error) {
	switch def.Type {
	case metadata.OptionInteger:
		var v int64
		if err := raw.Decode(&v); err != nil {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		if !def.InRange(float64(v)) {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		return types.NewInteger(v), nil
	case metadata.OptionDecimal:
		var v float64
		if err := raw.Decode(&v); err != nil {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		if !def.InRange(v) {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		return types.NewDecimal(v), nil
	case metadata.OptionBoolean:
		var v bool
		if err := raw.Decode(&v); err != nil {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		return types.NewBoolean(v), nil
	case metadata.OptionString, metadata.OptionSchema:
		var v string
		if err := raw.Decode(&v); err != nil {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		return types.NewString(v), nil
	case metadata.OptionSelect:
		v, err := raw.Scalar()
		if err != nil {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		if !def.InSelectSet(v) {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		return types.NewString(v), nil
	case metadata.OptionTimestamp:
		var v string
		if err := raw.Decode(&v); err != nil {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		t, err := parseRFC3339(v)
		if err != nil {
			return types.ConstantValue{}, errs.ErrOptionOutOfRange
		}
		return types.NewTimestamp(t), nil
	default:
		return types.ConstantValue{}, fmt.Errorf("compiler: unhandled option type %q", def.Type)
	}
}

// resolveInputs implements step 3: gathering and arity-checking every
// declared input slot's bindings.
func resolveInputs(raw RawNode, md metadata.TransformMetaData) (map[string][]types.InputValue, error) {
	resolved := make(map[string][]types.InputValue, len(md.Inputs))

	for _, slot := range md.Inputs {
		bindings, present := raw.Inputs[slot.ID]
		if !present || len(bindings) == 0 {
			if slot.AllowMultiConnections && !md.AtLeastOneInputRequired {
				resolved[slot.ID] = nil
				continue
			}
			return nil, &errs.CompileError{NodeID: raw.ID, SlotID: slot.ID, Err: errs.ErrInputArityMismatch}
		}
		if !slot.AllowMultiConnections && len(bindings) != 1 {
			return nil, &errs.CompileError{NodeID: raw.ID, SlotID: slot.ID, Err: errs.ErrInputArityMismatch}
		}

		values := make([]types.InputValue, 0, len(bindings))
		for _, b := range bindings {
			iv, err := b.toInputValue()
			if err != nil {
				return nil, &errs.CompileError{NodeID: raw.ID, SlotID: slot.ID, Err: err}
			}
			if iv.IsNull() && !md.AllowNullInputs {
				return nil, &errs.CompileError{NodeID: raw.ID, SlotID: slot.ID, Err: errs.ErrInputArityMismatch}
			}
			values = append(values, iv)
		}
		resolved[slot.ID] = values
	}

	for slotID := range raw.Inputs {
		if _, ok := md.InputByID(slotID); !ok {
			return nil, &errs.CompileError{NodeID: raw.ID, SlotID: slotID, Err: errs.ErrInputArityMismatch}
		}
	}

	return resolved, nil
}

func (r RawInputValue) toInputValue() (types.InputValue, error) {
	switch r.kind {
	case rawInputRef:
		return types.NewRefInput(types.NodeReference{NodeID: r.nodeID, Handle: r.handle}), nil
	case rawInputNull:
		return types.NewNullInput(), nil
	case rawInputLiteral:
		cv, err := decodeLiteral(r.literal)
		if err != nil {
			return types.InputValue{}, err
		}
		return types.NewLiteralInput(cv), nil
	default:
		return types.InputValue{}, fmt.Errorf("compiler: malformed input value")
	}
}

// decodeLiteral infers a ConstantValue's type from the literal's own YAML
// scalar kind: bool -> Boolean, int -> Integer, float -> Decimal, otherwise
// String.
func decodeLiteral(node *yaml.Node) (types.ConstantValue, error) {
	if node == nil {
		return types.ConstantValue{}, fmt.Errorf("compiler: missing literal value")
	}
	if node.Kind != yaml.ScalarNode {
		var s string
		if err := node.Decode(&s); err != nil {
			return types.ConstantValue{}, fmt.Errorf("compiler: unsupported literal shape")
		}
		return types.NewString(s), nil
	}
	switch node.Tag {
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return types.ConstantValue{}, err
		}
		return types.NewBoolean(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return types.ConstantValue{}, err
		}
		return types.NewInteger(i), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return types.ConstantValue{}, err
		}
		return types.NewDecimal(f), nil
	default:
		return types.NewString(node.Value), nil
	}
}

