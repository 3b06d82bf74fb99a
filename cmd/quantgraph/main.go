// Command quantgraph compiles and runs a strategy description against a
// demo in-memory data loader, printing the resulting dashboard. It exists
// to exercise the compiler, scalar-inlining pass and runtime driver
// end-to-end the same way the teacher's example programs exercise a
// workflow build end-to-end.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/EPOCHDevs/quantgraph-go/internal/appconfig"
	"github.com/EPOCHDevs/quantgraph-go/internal/logging"
	"github.com/EPOCHDevs/quantgraph-go/pkg/compiler"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/report"
	"github.com/EPOCHDevs/quantgraph-go/pkg/runtime"
	"github.com/EPOCHDevs/quantgraph-go/pkg/transform"
	"github.com/EPOCHDevs/quantgraph-go/pkg/transformconfig"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

const demoStrategy = `
nodes:
  - id: price
    type: quote
    options:
      ticker: SPX
  - id: double_price
    type: demo_double
    inputs:
      SLOT0:
        - type: ref
          value: {node_id: price, handle: c}
  - id: summary
    type: demo_summary
    inputs:
      SLOT0:
        - type: ref
          value: {node_id: double_price, handle: result}
`

func main() {
	strategyPath := flag.String("strategy", "", "path to a strategy YAML document (defaults to a built-in demo)")
	flag.Parse()

	cfg := appconfig.App()
	logging.Init(cfg.LogLevel, cfg.PrettyLogs)

	reg := metadata.NewRegistry()
	if err := metadata.RegisterBuiltins(reg); err != nil {
		log.Fatal().Err(err).Msg("failed to register builtin transforms")
	}
	registerDemoTransforms(reg)

	source := demoStrategy
	if *strategyPath != "" {
		data, err := os.ReadFile(*strategyPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *strategyPath).Msg("failed to read strategy file")
		}
		source = string(data)
	}

	doc, err := compiler.ParseDocument([]byte(source))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse strategy document")
	}

	plan, err := compiler.Compile(doc, reg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compile strategy")
	}
	plan = compiler.InlineScalars(plan, reg)

	fmt.Println("=== QuantGraph Demo ===")
	fmt.Printf("Nodes in plan: %d\n", len(plan.Nodes))
	fmt.Printf("Base frequency: %s\n\n", plan.BaseFrequency)

	idx := demoIndex(20)
	driver := &runtime.Driver{
		Registry:  reg,
		Factories: demoFactories(),
		Loader:    demoLoader{index: idx},
	}

	result, err := driver.Run(context.Background(), idx, plan)
	if err != nil {
		log.Fatal().Err(err).Msg("strategy execution failed")
	}

	fmt.Println("Output columns:")
	for _, name := range result.Frame.Names() {
		fmt.Printf("  - %s\n", name)
	}

	for nodeID, dashboard := range result.Dashboards {
		fmt.Printf("\nDashboard for node %q:\n", nodeID)
		for _, card := range dashboard.Cards {
			fmt.Printf("  %s: %s\n", card.Title, card.Value.String())
		}
	}
}

// demoIndex builds a 1-day-frequency index starting 2024-01-01.
func demoIndex(n int) types.TimeIndex {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]time.Time, n)
	for i := range times {
		times[i] = base.AddDate(0, 0, i)
	}
	idx, err := types.NewTimeIndex(times, types.FreqDay)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build demo time index")
	}
	return idx
}

// demoLoader is an in-memory ExternalDataLoader standing in for a real
// market-data feed: it returns a synthetic rising close price series.
type demoLoader struct{ index types.TimeIndex }

func (l demoLoader) Load(ctx context.Context, identifiers []string, base types.Frequency) (*types.Frame, error) {
	frame := types.NewFrame(l.index)
	for _, id := range identifiers {
		col := types.NewColumn(types.Decimal, l.index.Len())
		for i := 0; i < l.index.Len(); i++ {
			col.Set(i, 100.0+float64(i))
		}
		if err := frame.AddColumn(id, col); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// registerDemoTransforms installs the small set of leaf transform types
// this demo exercises, on top of the builtin casts and scalars.
func registerDemoTransforms(reg *metadata.Registry) {
	must := func(err error) {
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register demo transform")
		}
	}

	must(reg.Register(metadata.TransformMetaData{
		ID: "quote", Category: metadata.CategoryDataSource,
		Options: []metadata.OptionDefinition{{ID: "ticker", Type: metadata.OptionString, Required: true}},
		Outputs: []metadata.IOMetaData{{ID: "c", Type: types.Decimal}},
	}))
	must(reg.Register(metadata.TransformMetaData{
		ID: "demo_double", Category: metadata.CategoryOperator,
		Inputs:  []metadata.IOMetaData{{ID: "SLOT0", Type: types.Decimal}},
		Outputs: []metadata.IOMetaData{{ID: "result", Type: types.Decimal}},
	}))
	must(reg.Register(metadata.TransformMetaData{
		ID: "demo_summary", Category: metadata.CategoryReporter,
		Inputs: []metadata.IOMetaData{{ID: "SLOT0", Type: types.Decimal}},
	}))
}

func demoFactories() map[string]runtime.TransformFactory {
	return map[string]runtime.TransformFactory{
		"quote": func(cfg *transformconfig.TransformConfiguration) (transform.Transform, error) {
			return &quoteSource{Base: transform.NewBase(cfg)}, nil
		},
		"demo_double": func(cfg *transformconfig.TransformConfiguration) (transform.Transform, error) {
			return &doubleTransform{Base: transform.NewBase(cfg)}, nil
		},
		"demo_summary": func(cfg *transformconfig.TransformConfiguration) (transform.Transform, error) {
			return &summaryReporter{Base: transform.NewBase(cfg)}, nil
		},
	}
}

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
	mean, err := report.BuildCard(frame, report.CardSchemaOptions{Title: "mean", Column: inputID, Agg: report.AggMean})
	if err != nil {
		return report.Dashboard{}, err
	}
	return report.Dashboard{Cards: []report.Card{card, mean}}, nil
}
