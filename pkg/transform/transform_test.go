package transform

import (
	"testing"
	"time"

	"github.com/EPOCHDevs/quantgraph-go/pkg/compiler"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/transformconfig"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// S3 — placeholder expansion.
func TestPlaceholderExpansionS3(t *testing.T) {
	options := map[string]types.ConstantValue{"category": types.NewString("CPI")}
	expanded, err := ExpandAllPlaceholders(
		[]string{"ECON:{category}:observation_date", "ECON:{category}:value", "ECON:{category}:revision"},
		options,
	)
	require.NoError(t, err)
	assert.Equal(t, []string{"ECON:CPI:observation_date", "ECON:CPI:value", "ECON:CPI:revision"}, expanded)
}

func TestPlaceholderExpansionNoPlaceholderIsIdentity(t *testing.T) {
	expanded, err := ExpandPlaceholders("IDX:SPX:c", nil)
	require.NoError(t, err)
	assert.Equal(t, "IDX:SPX:c", expanded)
}

func TestBaseGetRequiredDataSources(t *testing.T) {
	node := &compiler.AlgorithmNode{
		ID:      "econ1",
		Options: map[string]types.ConstantValue{"category": types.NewString("CPI")},
	}
	md := metadata.TransformMetaData{
		Options:             []metadata.OptionDefinition{{ID: "category", Type: metadata.OptionString}},
		RequiredDataSources: []string{"ECON:{category}:value"},
	}
	base := NewBase(transformconfig.New(node, md))

	sources, err := base.GetRequiredDataSources()
	require.NoError(t, err)
	assert.Equal(t, []string{"ECON:CPI:value"}, sources)
}

func dayIndex(n int) types.TimeIndex {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	idx, _ := types.NewTimeIndex(times, types.FreqDay)
	return idx
}

func TestRenameForDataSource(t *testing.T) {
	idx := dayIndex(3)
	loaded := types.NewFrame(idx)
	col := types.NewColumn(types.Decimal, 3)
	col.Set(0, 1.0)
	require.NoError(t, loaded.AddColumn("IDX:SPX:c", col))

	out, err := RenameForDataSource(loaded, []string{"IDX:SPX:c"}, []string{"c"}, "quote1")
	require.NoError(t, err)
	assert.True(t, out.Has("quote1#c"))
}

func TestMapElementwiseSuppressesNullRows(t *testing.T) {
	a := types.NewColumn(types.Decimal, 3)
	a.Set(0, 1.0)
	a.Set(1, 2.0)
	// row 2 left null

	out := MapElementwise(types.Decimal, false, func(i int) (any, bool) {
		v := a.Data[i].(float64)
		return v * 2, true
	}, a)

	assert.False(t, out.IsNull(0))
	assert.False(t, out.IsNull(1))
	assert.True(t, out.IsNull(2))
	assert.Equal(t, 2.0, out.Data[0])
}
