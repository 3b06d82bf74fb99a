// Package metadata implements the process-wide transform catalog: option and
// I/O metadata records, the full TransformMetaData record, and the registry
// that maps a transform type id to its metadata. The registry is built once
// during process init and is read-only thereafter.
package metadata

import "github.com/EPOCHDevs/quantgraph-go/pkg/types"

// Category classifies a transform for compiler and runtime dispatch.
type Category string

const (
	CategoryScalar     Category = "Scalar"
	CategoryDataSource Category = "DataSource"
	CategoryOperator   Category = "Operator"
	CategoryStatistics Category = "Statistics"
	CategoryML         Category = "ML"
	CategoryPortfolio  Category = "Portfolio"
	CategoryExecutor   Category = "Executor"
	CategoryReporter   Category = "Reporter"
	CategoryUtility    Category = "Utility"
)

// PlotKind hints how a transform's output would be drawn on a chart, when relevant.
type PlotKind string

const (
	PlotKindNone    PlotKind = ""
	PlotKindLine    PlotKind = "line"
	PlotKindHist    PlotKind = "histogram"
	PlotKindOverlay PlotKind = "overlay"
)

// SelectOption is one entry of an option's select-set: a stable wire value
// and a human-facing display name.
type SelectOption struct {
	DisplayName string
	Value       string
}

// OptionType is the declared type of a single configurable parameter. It is
// a superset of types.ColumnType: Select and Schema describe shapes an
// option can take that a frame column never does.
type OptionType string

const (
	OptionInteger   OptionType = "Integer"
	OptionDecimal   OptionType = "Decimal"
	OptionBoolean   OptionType = "Boolean"
	OptionString    OptionType = "String"
	OptionSelect    OptionType = "Select"
	OptionTimestamp OptionType = "Timestamp"
	OptionSchema    OptionType = "Schema"
)

// OptionDefinition describes one configurable parameter of a transform.
type OptionDefinition struct {
	ID             string
	Name           string
	Type           OptionType
	Required       bool
	Default        types.ConstantValue
	HasDefault     bool
	Min            *float64
	Max            *float64
	SelectSet      []SelectOption
	TuningGuidance string
}

// InSelectSet reports whether value matches one of the definition's select options.
func (d OptionDefinition) InSelectSet(value string) bool {
	for _, s := range d.SelectSet {
		if s.Value == value {
			return true
		}
	}
	return false
}

// InRange reports whether a numeric value falls within [Min, Max] when set.
func (d OptionDefinition) InRange(v float64) bool {
	if d.Min != nil && v < *d.Min {
		return false
	}
	if d.Max != nil && v > *d.Max {
		return false
	}
	return true
}

// IOMetaData describes one declared input or output slot/handle.
type IOMetaData struct {
	Type                  types.ColumnType
	ID                    string
	Name                  string
	AllowMultiConnections bool
	IsFilter              bool
}

// TransformMetaData is the full catalog record for one registered transform type.
type TransformMetaData struct {
	ID       string
	Category Category
	PlotKind PlotKind
	Name     string

	Options []OptionDefinition
	Inputs  []IOMetaData
	Outputs []IOMetaData

	IsCrossSectional        bool
	AtLeastOneInputRequired bool
	RequiresTimeFrame       bool
	AllowNullInputs         bool
	IntradayOnly            bool

	RequiredDataSources []string

	Tags              []string
	StrategyTypes     []string
	AssetRequirements []string

	UsageContext string
	Limitations  string

	FlagSchema  map[string]any
	Alias       string
	InternalUse bool
}

// OptionByID returns the option definition with the given id, if declared.
func (m TransformMetaData) OptionByID(id string) (OptionDefinition, bool) {
	for _, o := range m.Options {
		if o.ID == id {
			return o, true
		}
	}
	return OptionDefinition{}, false
}

// InputByID returns the input slot metadata with the given id, if declared.
func (m TransformMetaData) InputByID(id string) (IOMetaData, bool) {
	for _, in := range m.Inputs {
		if in.ID == id {
			return in, true
		}
	}
	return IOMetaData{}, false
}

// OutputByID returns the output handle metadata with the given id, if declared.
func (m TransformMetaData) OutputByID(id string) (IOMetaData, bool) {
	for _, out := range m.Outputs {
		if out.ID == id {
			return out, true
		}
	}
	return IOMetaData{}, false
}
