package compiler

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// RawDocument is the top-level shape of a strategy description (§6.1): a
// list of nodes in any dependency order (the compiler's topological sort
// uses the list order only to break ties), each carrying its type, options, and input
// bindings still in wire form. Compile resolves a RawDocument against a
// registry into a Plan.
type RawDocument struct {
	Nodes []RawNode `yaml:"nodes"`
}

// RawNode is one node exactly as it appears on the wire, before any
// registry-aware resolution: option values and input bindings are still
// opaque YAML scalars/sequences.
type RawNode struct {
	ID        string                     `yaml:"id"`
	Type      string                     `yaml:"type"`
	Timeframe string                     `yaml:"timeframe,omitempty"`
	Session   *RawSession                `yaml:"session,omitempty"`
	Options   map[string]RawOptionValue  `yaml:"options"`
	Inputs    map[string][]RawInputValue `yaml:"inputs"`
}

// RawOptionValue holds one option's value exactly as authored: either a
// plain literal scalar/sequence, later coerced to the declared OptionType,
// or a dotted MetaDataArgRef string (e.g. ".fast_period") detected by its
// leading '.' the same way the original compiler detects it off the dumped
// YAML text.
type RawOptionValue struct {
	node *yaml.Node
}

// UnmarshalYAML captures the raw node for later, type-aware decoding.
func (v *RawOptionValue) UnmarshalYAML(value *yaml.Node) error {
	v.node = value
	return nil
}

// ArgRef reports whether this option value is a dotted reference to another
// option id on the same node, returning the referenced id without its
// leading '.'.
func (v RawOptionValue) ArgRef() (string, bool) {
	if v.node == nil || v.node.Kind != yaml.ScalarNode {
		return "", false
	}
	if strings.HasPrefix(v.node.Value, ".") {
		return strings.TrimPrefix(v.node.Value, "."), true
	}
	return "", false
}

// Decode unmarshals the raw value into dst, same as calling value.Decode
// directly on the underlying YAML node.
func (v RawOptionValue) Decode(dst any) error {
	if v.node == nil {
		return fmt.Errorf("compiler: option value was never set")
	}
	return v.node.Decode(dst)
}

// Scalar returns the raw scalar text of the option value, failing if it is
// not a scalar node.
func (v RawOptionValue) Scalar() (string, error) {
	if v.node == nil || v.node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("compiler: option value is not a scalar")
	}
	return v.node.Value, nil
}

// inputValueKind tags which wire-format variant a RawInputValue holds.
type inputValueKind int

const (
	rawInputRef inputValueKind = iota
	rawInputLiteral
	rawInputNull
)

// RawInputValue is one binding exactly as it appears on the wire:
//
//	{type: ref, value: {node_id, handle}}
//	{type: literal, value: <constant encoded by type>}
//	{type: null}
type RawInputValue struct {
	kind    inputValueKind
	nodeID  string
	handle  string
	literal *yaml.Node
}

type rawInputValueWire struct {
	Type  string    `yaml:"type"`
	Value yaml.Node `yaml:"value"`
}

type rawNodeRefWire struct {
	NodeID string `yaml:"node_id"`
	Handle string `yaml:"handle"`
}

// UnmarshalYAML dispatches on the wire "type" discriminator.
func (v *RawInputValue) UnmarshalYAML(value *yaml.Node) error {
	var wire rawInputValueWire
	if err := value.Decode(&wire); err != nil {
		return fmt.Errorf("compiler: malformed input value: %w", err)
	}
	switch wire.Type {
	case "ref":
		var ref rawNodeRefWire
		if err := wire.Value.Decode(&ref); err != nil {
			return fmt.Errorf("compiler: malformed ref input value: %w", err)
		}
		v.kind = rawInputRef
		v.nodeID = ref.NodeID
		v.handle = ref.Handle
	case "literal":
		node := wire.Value
		v.kind = rawInputLiteral
		v.literal = &node
	case "null":
		v.kind = rawInputNull
	default:
		return fmt.Errorf("compiler: unrecognized input value type %q", wire.Type)
	}
	return nil
}

// rawSessionKind tags which wire-format variant a RawSession holds.
type rawSessionKind int

const (
	rawSessionNamed rawSessionKind = iota
	rawSessionRange
)

// RawSession is a session field exactly as authored: either a bare scalar
// session name or a {start, end} map of "HH:MM" strings.
type RawSession struct {
	kind  rawSessionKind
	named string
	start string
	end   string
}

type rawSessionRangeWire struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
}

// UnmarshalYAML distinguishes a scalar session name from a {start,end} map.
func (s *RawSession) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		s.kind = rawSessionNamed
		s.named = value.Value
		return nil
	}
	var rng rawSessionRangeWire
	if err := value.Decode(&rng); err != nil {
		return fmt.Errorf("compiler: malformed session value: %w", err)
	}
	s.kind = rawSessionRange
	s.start = rng.Start
	s.end = rng.End
	return nil
}

// ParseDocument parses a YAML strategy document per §6.1's wire format.
func ParseDocument(data []byte) (*RawDocument, error) {
	var doc RawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("compiler: failed to parse strategy document: %w", err)
	}
	return &doc, nil
}
