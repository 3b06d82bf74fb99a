package runtime

import (
	"context"

	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// ExternalDataLoader is the core's only I/O boundary (§6.2): given a
// DataSource node's expanded required identifiers, it returns a frame whose
// columns are named exactly those identifiers, aligned to the run's base
// frequency.
type ExternalDataLoader interface {
	Load(ctx context.Context, identifiers []string, base types.Frequency) (*types.Frame, error)
}
