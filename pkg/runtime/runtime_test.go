package runtime

import (
	"context"
	"testing"
	"time"

	"github.com/EPOCHDevs/quantgraph-go/pkg/compiler"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/report"
	"github.com/EPOCHDevs/quantgraph-go/pkg/transform"
	"github.com/EPOCHDevs/quantgraph-go/pkg/transformconfig"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dayIndex(n int) types.TimeIndex {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	idx, _ := types.NewTimeIndex(times, types.FreqDay)
	return idx
}

// stubLoader returns a fixed close-price column under whatever single
// identifier it is asked for.
type stubLoader struct{ index types.TimeIndex }

func (l stubLoader) Load(ctx context.Context, identifiers []string, base types.Frequency) (*types.Frame, error) {
	frame := types.NewFrame(l.index)
	for _, id := range identifiers {
		col := types.NewColumn(types.Decimal, l.index.Len())
		for i := 0; i < l.index.Len(); i++ {
			col.Set(i, float64(100+i))
		}
		if err := frame.AddColumn(id, col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// doubleTransform doubles its single input column into "result".
type doubleTransform struct {
	transform.Base
}

func (t *doubleTransform) TransformData(frame *types.Frame) (*types.Frame, error) {
	inputID, err := t.GetInputId("SLOT0")
	if err != nil {
		return nil, err
	}
	col, err := frame.Column(inputID)
	if err != nil {
		return nil, err
	}
	out := types.NewFrame(frame.Index())
	result := types.NewColumn(types.Decimal, col.Len())
	for i := 0; i < col.Len(); i++ {
		if col.IsNull(i) {
			continue
		}
		result.Set(i, col.Data[i].(float64)*2)
	}
	ref := t.GetOutputId("result")
	if err := out.AddColumn(ref.ColumnName(), result); err != nil {
		return nil, err
	}
	return out, nil
}

// summaryReporter is a no-op transform that emits a dashboard summarizing
// its single input column.
type summaryReporter struct {
	transform.Base
}

func (t *summaryReporter) TransformData(frame *types.Frame) (*types.Frame, error) {
	return types.NewFrame(frame.Index()), nil
}

func (t *summaryReporter) GetDashboard(frame *types.Frame) (report.Dashboard, error) {
	inputID, err := t.GetInputId("SLOT0")
	if err != nil {
		return report.Dashboard{}, err
	}
	card, err := report.BuildCard(frame, report.CardSchemaOptions{Title: "sum", Column: inputID, Agg: report.AggSum})
	if err != nil {
		return report.Dashboard{}, err
	}
	return report.Dashboard{Cards: []report.Card{card}}, nil
}

func testRegistry(t *testing.T) *metadata.Registry {
	reg := metadata.NewRegistry()
	require.NoError(t, metadata.RegisterBuiltins(reg))

	require.NoError(t, reg.Register(metadata.TransformMetaData{
		ID: "quote", Category: metadata.CategoryDataSource,
		Options: []metadata.OptionDefinition{{ID: "ticker", Type: metadata.OptionString, Required: true}},
		Outputs: []metadata.IOMetaData{{ID: "c", Type: types.Decimal}},
	}))
	require.NoError(t, reg.Register(metadata.TransformMetaData{
		ID: "doubler", Category: metadata.CategoryOperator,
		Inputs:  []metadata.IOMetaData{{ID: "SLOT0", Type: types.Decimal}},
		Outputs: []metadata.IOMetaData{{ID: "result", Type: types.Decimal}},
	}))
	require.NoError(t, reg.Register(metadata.TransformMetaData{
		ID: "summary", Category: metadata.CategoryReporter,
		Inputs: []metadata.IOMetaData{{ID: "SLOT0", Type: types.Decimal}},
	}))
	return reg
}

func TestDriverRunDataSourceThenOperatorThenReporter(t *testing.T) {
	idx := dayIndex(3)
	reg := testRegistry(t)

	yamlDoc := `
nodes:
  - id: quote1
    type: quote
    options:
      ticker: SPX
  - id: double1
    type: doubler
    inputs:
      SLOT0:
        - type: ref
          value: {node_id: quote1, handle: c}
  - id: report1
    type: summary
    inputs:
      SLOT0:
        - type: ref
          value: {node_id: double1, handle: result}
`
	doc, err := compiler.ParseDocument([]byte(yamlDoc))
	require.NoError(t, err)

	plan, err := compiler.Compile(doc, reg)
	require.NoError(t, err)

	factories := map[string]TransformFactory{
		"quote": func(cfg *transformconfig.TransformConfiguration) (transform.Transform, error) {
			return &quoteSource{Base: transform.NewBase(cfg)}, nil
		},
		"doubler": func(cfg *transformconfig.TransformConfiguration) (transform.Transform, error) {
			return &doubleTransform{Base: transform.NewBase(cfg)}, nil
		},
		"summary": func(cfg *transformconfig.TransformConfiguration) (transform.Transform, error) {
			return &summaryReporter{Base: transform.NewBase(cfg)}, nil
		},
	}

	driver := &Driver{Registry: reg, Factories: factories, Loader: stubLoader{index: idx}}
	result, err := driver.Run(context.Background(), idx, plan)
	require.NoError(t, err)

	assert.True(t, result.Frame.Has("quote1#c"))
	assert.True(t, result.Frame.Has("double1#result"))

	dashboard, ok := result.Dashboards["report1"]
	require.True(t, ok)
	require.Len(t, dashboard.Cards, 1)
	v, _ := dashboard.Cards[0].Value.GetDecimal()
	// loader emits 100,101,102 under quote1#c; doubler emits 200,202,204; sum = 606.
	assert.Equal(t, 606.0, v)
}

// quoteSource renames its loaded column under output handle "c"; this
// mirrors how a real DataSource transform resolves GetRequiredDataSources
// from the "ticker" option via a placeholder template.
type quoteSource struct {
	transform.Base
}

func (t *quoteSource) GetRequiredDataSources() ([]string, error) {
	ticker, err := t.Config.GetOptionValue("ticker")
	if err != nil {
		return nil, err
	}
	return []string{"IDX:" + ticker.String() + ":c"}, nil
}

func (t *quoteSource) TransformData(frame *types.Frame) (*types.Frame, error) {
	return types.NewFrame(frame.Index()), nil
}

