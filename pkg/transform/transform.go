// Package transform defines the execution contract every node in a
// compiled plan satisfies (C6): a stateless functor over a frame, plus the
// bookkeeping helpers every leaf transform needs for reading inputs and
// naming outputs under the canonical column scheme.
package transform

import (
	"github.com/EPOCHDevs/quantgraph-go/pkg/transformconfig"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// EventMarkerData is the per-row, time-indexed annotation bundle a Reporter
// transform may additionally expose (§4.9).
type EventMarkerData struct {
	Name             string
	CardSchemas      []CardSchema
	Frame            *types.Frame
	PivotIndexColumn string
	Icon             string
}

// CardSchema describes how the UI renders one row of an EventMarkerData
// frame as a card.
type CardSchema struct {
	PrimaryBadgeColumn   string
	SecondaryBadgeColumn string
	HeroValueColumn      string
	SubtitleColumn       string
	FooterColumn         string
	DetailColumns        []string
	ColorMap             map[string]string
}

// Transform is the abstract operator every compiled node implements: a
// stateless function from frame to frame, identified by the canonical
// node_id#handle naming scheme for every column it reads or writes.
type Transform interface {
	// TransformData computes this node's outputs given the current running
	// frame, which already carries every producer's columns. It must not
	// mutate the input frame.
	TransformData(frame *types.Frame) (*types.Frame, error)

	// GetRequiredDataSources expands this node's metadata-declared
	// requiredDataSources templates against its own option values. Only
	// meaningful for DataSource-category transforms.
	GetRequiredDataSources() ([]string, error)

	// GetInputId resolves a single-binding slot to the column name its
	// value is read from.
	GetInputId(slot string) (string, error)

	// GetInputIds resolves a multi-binding slot to its column names, in
	// binding order.
	GetInputIds(slot string) ([]string, error)

	// GetOutputId returns the NodeReference (this node's id plus handle)
	// whose ColumnName is the canonical column this node emits handle under.
	GetOutputId(handle string) types.NodeReference
}

// EventMarkerProvider is the optional extension a Reporter transform
// implements to surface time-indexed event markers alongside its dashboard.
type EventMarkerProvider interface {
	GetEventMarkers(frame *types.Frame) (*EventMarkerData, error)
}

// Base is embedded by every concrete transform: it implements the
// bookkeeping portion of the Transform contract (input/output id
// resolution, data-source placeholder expansion) against a
// TransformConfiguration, leaving only TransformData to the leaf.
type Base struct {
	Config *transformconfig.TransformConfiguration
}

// NewBase wraps a resolved TransformConfiguration.
func NewBase(cfg *transformconfig.TransformConfiguration) Base {
	return Base{Config: cfg}
}

func (b Base) GetInputId(slot string) (string, error) { return b.Config.GetInputId(slot) }

func (b Base) GetInputIds(slot string) ([]string, error) { return b.Config.GetInputIds(slot) }

func (b Base) GetOutputId(handle string) types.NodeReference { return b.Config.GetOutputId(handle) }

// GetRequiredDataSources expands the node's metadata requiredDataSources
// templates using its own resolved option values.
func (b Base) GetRequiredDataSources() ([]string, error) {
	md := b.Config.GetTransformDefinition().GetMetadata()
	options := make(map[string]types.ConstantValue, len(md.Options))
	for _, def := range md.Options {
		if v, err := b.Config.GetOptionValue(def.ID); err == nil {
			options[def.ID] = v
		}
	}
	return ExpandAllPlaceholders(md.RequiredDataSources, options)
}
