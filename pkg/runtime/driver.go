// Package runtime implements the single-threaded, synchronous driver
// (C10) that walks a compiled plan in order, dispatching each node to a
// loader (DataSource) or to its Transform (everything else), and collects
// any Reporter-category dashboards and event markers along the way.
package runtime

import (
	"context"
	"fmt"

	"github.com/EPOCHDevs/quantgraph-go/pkg/compiler"
	"github.com/EPOCHDevs/quantgraph-go/pkg/errs"
	"github.com/EPOCHDevs/quantgraph-go/pkg/metadata"
	"github.com/EPOCHDevs/quantgraph-go/pkg/report"
	"github.com/EPOCHDevs/quantgraph-go/pkg/transform"
	"github.com/EPOCHDevs/quantgraph-go/pkg/transformconfig"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
	"github.com/rs/zerolog/log"
)

// TransformFactory builds the executable Transform for one compiled node,
// given its fully resolved configuration.
type TransformFactory func(cfg *transformconfig.TransformConfiguration) (transform.Transform, error)

// DashboardProvider is the optional extension a Reporter transform
// implements to surface a dashboard alongside (or instead of) a no-op
// TransformData.
type DashboardProvider interface {
	GetDashboard(frame *types.Frame) (report.Dashboard, error)
}

// Result is everything one run of the driver produces: the final running
// frame plus every Reporter node's dashboard and event markers, keyed by
// node id.
type Result struct {
	Frame        *types.Frame
	Dashboards   map[string]report.Dashboard
	EventMarkers map[string]transform.EventMarkerData
}

// Driver walks a compiled Plan in order against a registry of transform
// factories and an external data loader.
type Driver struct {
	Registry  *metadata.Registry
	Factories map[string]TransformFactory
	Loader    ExternalDataLoader
}

// Run executes plan's nodes in the order the compiler fixed, merging each
// producer's output columns into the running frame before any consumer is
// invoked, exactly mirroring the compiled topological order.
func (d *Driver) Run(ctx context.Context, index types.TimeIndex, plan *compiler.Plan) (*Result, error) {
	frame := types.NewFrame(index)
	result := &Result{
		Frame:        frame,
		Dashboards:   make(map[string]report.Dashboard),
		EventMarkers: make(map[string]transform.EventMarkerData),
	}

	for _, node := range plan.Nodes {
		md, ok := d.Registry.GetMetaData(node.Type)
		if !ok {
			return nil, fmt.Errorf("runtime: node %q has unregistered type %q", node.ID, node.Type)
		}

		factory, ok := d.Factories[node.Type]
		if !ok {
			return nil, fmt.Errorf("runtime: no transform factory registered for type %q", node.Type)
		}
		t, err := factory(transformconfig.New(node, md))
		if err != nil {
			return nil, fmt.Errorf("runtime: building transform for node %q: %w", node.ID, err)
		}

		var produced *types.Frame
		switch md.Category {
		case metadata.CategoryDataSource:
			produced, err = d.runDataSource(ctx, plan.BaseFrequency, node, t)
		default:
			produced, err = t.TransformData(frame)
		}
		if err != nil {
			return nil, fmt.Errorf("runtime: node %q: %w", node.ID, err)
		}

		if produced != nil {
			merged, err := frame.Merge(produced)
			if err != nil {
				return nil, fmt.Errorf("runtime: merging output of node %q: %w", node.ID, err)
			}
			frame = merged
			result.Frame = frame
		}

		if md.Category == metadata.CategoryReporter {
			if dp, ok := t.(DashboardProvider); ok {
				dashboard, err := dp.GetDashboard(frame)
				if err != nil {
					return nil, fmt.Errorf("runtime: dashboard for node %q: %w", node.ID, err)
				}
				result.Dashboards[node.ID] = dashboard
			}
			if mp, ok := t.(transform.EventMarkerProvider); ok {
				markers, err := mp.GetEventMarkers(frame)
				if err != nil {
					return nil, fmt.Errorf("runtime: event markers for node %q: %w", node.ID, err)
				}
				if markers != nil {
					result.EventMarkers[node.ID] = *markers
				}
			}
		}

		log.Debug().Str("node_id", node.ID).Str("node_type", node.Type).Msg("node executed")
	}

	return result, nil
}

func (d *Driver) runDataSource(ctx context.Context, base types.Frequency, node *compiler.AlgorithmNode, t transform.Transform) (*types.Frame, error) {
	identifiers, err := t.GetRequiredDataSources()
	if err != nil {
		return nil, err
	}
	loaded, err := d.Loader.Load(ctx, identifiers, base)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrLoaderFailure, err)
	}

	handles := make([]string, 0, len(identifiers))
	md, _ := d.Registry.GetMetaData(node.Type)
	for _, out := range md.Outputs {
		handles = append(handles, out.ID)
	}

	return transform.RenameForDataSource(loaded, identifiers, handles, node.ID)
}
