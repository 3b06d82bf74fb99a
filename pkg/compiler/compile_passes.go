package compiler

import (
	"fmt"

	"github.com/EPOCHDevs/quantgraph-go/pkg/errs"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// insertCasts implements step 4: for every input binding whose producer
// type differs from the declared consumer type, materialize a synthetic
// static_cast_to_<type> node and rewrite the binding to reference it.
func insertCasts(
	nodes []*AlgorithmNode,
	reg *metadata.Registry,
	outputTypeOf func(nodeID, handle string) (types.ColumnType, error),
) ([]*AlgorithmNode, error) {
	out := make([]*AlgorithmNode, 0, len(nodes))

	for _, node := range nodes {
		md, ok := reg.GetMetaData(node.Type)
		if !ok {
			return nil, &errs.CompileError{NodeID: node.ID, Err: errs.ErrUnknownTransform}
		}

		for _, slot := range md.Inputs {
			bindings := node.Inputs[slot.ID]
			for i, iv := range bindings {
				producerType, ok, err := producerTypeOf(iv, outputTypeOf)
				if err != nil {
					return nil, &errs.CompileError{NodeID: node.ID, SlotID: slot.ID, Err: err}
				}
				if !ok {
					continue // null input: no producer type to bridge
				}

				needed, bridgeable := needsCast(producerType, slot.Type)
				if !needed {
					continue
				}
				if !bridgeable {
					return nil, &errs.CompileError{NodeID: node.ID, SlotID: slot.ID, Err: errs.ErrTypeMismatch}
				}

				castID := metadata.CastTransformID(slot.Type)
				syntheticID := fmt.Sprintf("__cast_%s_%s_%s_%d", slot.Type, node.ID, slot.ID, i)
				cast := &AlgorithmNode{
					ID:   syntheticID,
					Type: castID,
					Inputs: map[string][]types.InputValue{
						"input": {iv},
					},
				}
				out = append(out, cast)
				bindings[i] = types.NewRefInput(types.NodeReference{NodeID: syntheticID, Handle: "result"})
			}
		}

		out = append(out, node)
	}

	return out, nil
}

// producerTypeOf resolves the declared type a binding's value would be
// observed at, for comparison against the consumer's declared slot type.
// The bool result is false for the null variant, which has no producer type.
func producerTypeOf(iv types.InputValue, outputTypeOf func(nodeID, handle string) (types.ColumnType, error)) (types.ColumnType, bool, error) {
	switch {
	case iv.IsRef():
		ref := iv.Reference()
		t, err := outputTypeOf(ref.NodeID, ref.Handle)
		if err != nil {
			return "", false, err
		}
		return t, true, nil
	case iv.IsLiteral():
		return iv.Literal().Type(), true, nil
	default:
		return "", false, nil
	}
}

// attachSessions implements step 5: a session is only legal on a node whose
// metadata requires a timeframe, and is resolved to a types.SessionVariant.
func attachSessions(raws []RawNode, nodes []*AlgorithmNode, reg *metadata.Registry) error {
	rawByID := make(map[string]RawNode, len(raws))
	for _, r := range raws {
		rawByID[r.ID] = r
	}

	for _, node := range nodes {
		raw, ok := rawByID[node.ID]
		if !ok || raw.Session == nil {
			continue // synthetic cast nodes, or nodes without a session field
		}
		md, ok := reg.GetMetaData(node.Type)
		if !ok {
			return &errs.CompileError{NodeID: node.ID, Err: errs.ErrUnknownTransform}
		}
		if !md.RequiresTimeFrame {
			return &errs.CompileError{NodeID: node.ID, Err: fmt.Errorf("session provided but transform does not require a timeframe")}
		}
		variant, err := resolveSession(*raw.Session)
		if err != nil {
			return &errs.CompileError{NodeID: node.ID, Err: err}
		}
		node.Session = &variant
	}
	return nil
}

func resolveSession(raw RawSession) (types.SessionVariant, error) {
	if raw.kind == rawSessionNamed {
		ns, err := types.NamedSessionFromString(raw.named)
		if err != nil {
			return types.SessionVariant{}, err
		}
		return types.NewNamedSessionVariant(ns), nil
	}
	start, err := parseHHMM(raw.start)
	if err != nil {
		return types.SessionVariant{}, err
	}
	end, err := parseHHMM(raw.end)
	if err != nil {
		return types.SessionVariant{}, err
	}
	return types.NewRangeSessionVariant(types.DayMinuteRange{StartMinute: start, EndMinute: end}), nil
}

// topologicalSort implements step 6: Kahn's algorithm over the producer ->
// consumer edges implied by ref input bindings, with ties broken by the
// nodes' original relative order so the sort is stable and deterministic.
func topologicalSort(nodes []*AlgorithmNode) ([]*AlgorithmNode, error) {
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		index[n.ID] = i
	}

	inDegree := make([]int, len(nodes))
	consumers := make([][]int, len(nodes))

	for ci, n := range nodes {
		for _, bindings := range n.Inputs {
			for _, iv := range bindings {
				if !iv.IsRef() {
					continue
				}
				pi, ok := index[iv.Reference().NodeID]
				if !ok {
					return nil, &errs.CompileError{NodeID: n.ID, Err: errs.ErrDanglingReference}
				}
				consumers[pi] = append(consumers[pi], ci)
				inDegree[ci]++
			}
		}
	}

	ready := make([]int, 0, len(nodes))
	for i, d := range inDegree {
		if d == 0 {
			ready = append(ready, i)
		}
	}

	ordered := make([]*AlgorithmNode, 0, len(nodes))
	for len(ready) > 0 {
		// Pick the smallest original-index ready node to keep the sort
		// stable under insertion order, then remove it from `ready`.
		minPos := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[minPos] {
				minPos = i
			}
		}
		next := ready[minPos]
		ready = append(ready[:minPos], ready[minPos+1:]...)

		ordered = append(ordered, nodes[next])
		for _, ci := range consumers[next] {
			inDegree[ci]--
			if inDegree[ci] == 0 {
				ready = append(ready, ci)
			}
		}
	}

	if len(ordered) != len(nodes) {
		for i, d := range inDegree {
			if d > 0 {
				return nil, &errs.CompileError{NodeID: nodes[i].ID, Err: errs.ErrCycleDetected}
			}
		}
		return nil, &errs.CompileError{Err: errs.ErrCycleDetected}
	}

	return ordered, nil
}

// inferBaseFrequency implements step 7.
func inferBaseFrequency(nodes []*AlgorithmNode, reg *metadata.Registry) types.Frequency {
	base := types.FreqDay
	for _, n := range nodes {
		if reg.IsIntradayOnly(n.Type) || n.Session != nil {
			return types.FreqMinute
		}
		if n.Timeframe != "" {
			if tf, err := parseTimeframeToken(n.Timeframe); err == nil {
				if tf.IsIntraday() {
					return tf
				}
				base = coarsestFrequency(base, tf)
			}
		}
	}
	return base
}

// countExecutors implements step 8.
func countExecutors(nodes []*AlgorithmNode, reg *metadata.Registry) int {
	count := 0
	for _, n := range nodes {
		if md, ok := reg.GetMetaData(n.Type); ok && md.Category == metadata.CategoryExecutor {
			count++
		}
	}
	return count
}

// validateSink implements step 9: unless skipped, at least one terminal
// node (one with no outgoing edges, i.e. no other node consumes any of its
// outputs) must be an Executor or Reporter. An Executor/Reporter that only
// feeds a downstream operator is not a sink.
func validateSink(nodes []*AlgorithmNode, reg *metadata.Registry) error {
	consumed := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		for _, bindings := range n.Inputs {
			for _, in := range bindings {
				if in.IsRef() {
					consumed[in.Reference().NodeID] = true
				}
			}
		}
	}

	for _, n := range nodes {
		if consumed[n.ID] {
			continue
		}
		md, ok := reg.GetMetaData(n.Type)
		if !ok {
			continue
		}
		if md.Category == metadata.CategoryExecutor || md.Category == metadata.CategoryReporter {
			return nil
		}
	}
	return &errs.CompileError{Err: errs.ErrSinkMissing}
}
