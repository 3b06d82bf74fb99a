package rollingml

import (
	"github.com/EPOCHDevs/quantgraph-go/pkg/numeric"
	"github.com/EPOCHDevs/quantgraph-go/pkg/types"
)

// RollingRunner drives the walk-forward loop generically over a Model type
// (whatever TrainFn returns) and an OutputBuffers type (whatever the
// transform accumulates predictions into). A transform wires up TrainFn,
// PredictFn and BuildFrameFn once and gets window scheduling, leakage
// prevention and output bookkeeping for free.
type RollingRunner[Model any, OutputBuffers any] struct {
	Schedule Schedule

	// NewBuffers allocates the output accumulator sized for outputRows
	// predicted rows.
	NewBuffers func(outputRows int) OutputBuffers

	// TrainFn fits a model on the training slice of this window. yTrain is
	// nil for unsupervised runs.
	TrainFn func(window WindowSpec, xTrain *numeric.MatrixHandle, yTrain *numeric.ColumnVector) (Model, error)

	// PredictFn applies model to the window's prediction slice, writing
	// into buffers starting at outOffset, and returns how many rows it
	// wrote (normally xPred.Rows()).
	PredictFn func(model Model, window WindowSpec, xPred *numeric.MatrixHandle, buffers OutputBuffers, outOffset int) (int, error)

	// BuildFrameFn assembles the final output Frame from the accumulated
	// buffers and the (already row-offset) output index.
	BuildFrameFn func(index types.TimeIndex, buffers OutputBuffers) (*types.Frame, error)
}

// Run executes the full walk-forward schedule over x (and, for supervised
// runs, y) whose rows align 1:1 with index, training strictly before it
// predicts on each window and returning the assembled output frame over
// rows [WindowSize, N).
func (r *RollingRunner[Model, OutputBuffers]) Run(index types.TimeIndex, x *numeric.MatrixHandle, y *numeric.ColumnVector) (*types.Frame, error) {
	n := x.Rows()
	if err := r.Schedule.Validate(n); err != nil {
		return nil, err
	}

	windows := GenerateWindows(r.Schedule, n)
	outputRows := OutputRows(r.Schedule, n)
	buffers := r.NewBuffers(outputRows)

	outOffset := 0
	for _, w := range windows {
		xTrain := x.Slice(w.TrainStart, w.TrainEnd)
		var yTrain *numeric.ColumnVector
		if y != nil {
			yTrain = y.Slice(w.TrainStart, w.TrainEnd)
		}

		model, err := r.TrainFn(w, xTrain, yTrain)
		if err != nil {
			return nil, err
		}

		xPred := x.Slice(w.PredictStart, w.PredictEnd)
		emitted, err := r.PredictFn(model, w, xPred, buffers, outOffset)
		if err != nil {
			return nil, err
		}
		outOffset += emitted
	}

	outIndex := index.Slice(r.Schedule.WindowSize, n)
	return r.BuildFrameFn(outIndex, buffers)
}
