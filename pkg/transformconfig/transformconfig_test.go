package transformconfig

import (
	"testing"

	"github.com/EPOCHDevs/quantgraph-go/pkg/compiler"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformConfigurationAccessors(t *testing.T) {
	node := &compiler.AlgorithmNode{
		ID:   "sma_20",
		Type: "sma",
		Options: map[string]types.ConstantValue{
			"period": types.NewInteger(20),
		},
		Inputs: map[string][]types.InputValue{
			"price": {types.NewRefInput(types.NodeReference{NodeID: "quote1", Handle: "c"})},
		},
	}
	md := metadata.TransformMetaData{
		ID: "sma",
		Options: []metadata.OptionDefinition{
			{ID: "period", Type: metadata.OptionInteger},
		},
		Inputs: []metadata.IOMetaData{
			{ID: "price", Type: types.Decimal},
		},
		Outputs: []metadata.IOMetaData{
			{ID: "result", Type: types.Decimal},
		},
	}

	cfg := New(node, md)

	period, err := cfg.GetOptionValue("period")
	require.NoError(t, err)
	v, err := period.GetInteger()
	require.NoError(t, err)
	assert.EqualValues(t, 20, v)

	id, err := cfg.GetInputId("price")
	require.NoError(t, err)
	assert.Equal(t, "quote1#c", id)

	ref := cfg.GetOutputId("result")
	assert.Equal(t, "sma_20#result", ref.ColumnName())

	assert.Equal(t, "sma", cfg.GetTransformDefinition().GetMetadata().ID)
}

func TestGetOptionValueFallback(t *testing.T) {
	node := &compiler.AlgorithmNode{ID: "n", Options: map[string]types.ConstantValue{}}
	cfg := New(node, metadata.TransformMetaData{})

	_, err := cfg.GetOptionValue("missing")
	assert.Error(t, err)

	v, err := cfg.GetOptionValue("missing", types.NewDecimal(1.5))
	require.NoError(t, err)
	got, err := v.GetDecimal()
	require.NoError(t, err)
	assert.Equal(t, 1.5, got)
}

func TestGetInputRejectsMultiBoundSlot(t *testing.T) {
	node := &compiler.AlgorithmNode{
		ID: "n",
		Inputs: map[string][]types.InputValue{
			"slot": {
				types.NewLiteralInput(types.NewDecimal(1)),
				types.NewLiteralInput(types.NewDecimal(2)),
			},
		},
	}
	cfg := New(node, metadata.TransformMetaData{})

	_, err := cfg.GetInput("slot")
	assert.Error(t, err)

	ids, err := cfg.GetInputIds("slot")
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
