// Package rollingml implements the rolling/expanding walk-forward machine
// learning harness (C7): a window schedule over row indices plus a generic
// runner that trains a model on each window's training slice and predicts
// over its prediction slice, with no leakage between the two and with
// contiguous, gap-free coverage of the output.
package rollingml

import "github.com/EPOCHDevs/quantgraph-go/pkg/errs"

// WindowType selects how the training window's start advances between
// iterations.
type WindowType string

const (
	// Rolling slides both the start and end of the training window forward
	// by StepSize each iteration, keeping the window size fixed.
	Rolling WindowType = "Rolling"
	// Expanding keeps the training window's start pinned at 0 and only
	// advances its end, growing the window each iteration.
	Expanding WindowType = "Expanding"
)

// WindowSpec is one iteration's schedule: train on rows
// [TrainStart, TrainEnd), predict on rows [PredictStart, PredictEnd). Both
// ranges are half-open and PredictStart always equals TrainEnd, so a
// window's training data strictly precedes anything it predicts.
type WindowSpec struct {
	TrainStart   int
	TrainEnd     int
	PredictStart int
	PredictEnd   int
}

// Schedule holds the parameters a window plan is generated from.
type Schedule struct {
	WindowSize         int
	StepSize           int
	WindowType         WindowType
	MinTrainingSamples int
}

// Validate checks the schedule against n rows, per the insufficient-data
// policy: a window larger than the data, or smaller than the minimum
// training sample requirement, fails the whole run before any window is
// generated rather than producing partial output.
func (s Schedule) Validate(n int) error {
	if n < s.WindowSize {
		return errs.ErrInsufficientData
	}
	if s.WindowSize < s.MinTrainingSamples {
		return errs.ErrInsufficientData
	}
	if s.StepSize <= 0 {
		return errs.ErrInsufficientData
	}
	return nil
}

// GenerateWindows produces the full, deterministic window schedule for n
// rows. Training start advances strictly increasing window over window;
// the final window's PredictEnd is clamped to n so the schedule always
// covers exactly rows [WindowSize, n) with no gaps and no overlap.
func GenerateWindows(s Schedule, n int) []WindowSpec {
	var windows []WindowSpec

	switch s.WindowType {
	case Expanding:
		for k := 0; ; k++ {
			trainEnd := s.WindowSize + k*s.StepSize
			if trainEnd >= n {
				break
			}
			predictEnd := trainEnd + s.StepSize
			if predictEnd > n {
				predictEnd = n
			}
			windows = append(windows, WindowSpec{
				TrainStart:   0,
				TrainEnd:     trainEnd,
				PredictStart: trainEnd,
				PredictEnd:   predictEnd,
			})
		}
	default: // Rolling
		for trainStart := 0; ; trainStart += s.StepSize {
			trainEnd := trainStart + s.WindowSize
			if trainEnd >= n {
				break
			}
			predictEnd := trainEnd + s.StepSize
			if predictEnd > n {
				predictEnd = n
			}
			windows = append(windows, WindowSpec{
				TrainStart:   trainStart,
				TrainEnd:     trainEnd,
				PredictStart: trainEnd,
				PredictEnd:   predictEnd,
			})
		}
	}

	return windows
}

// OutputRows returns the number of prediction rows a full run over n input
// rows produces: every row from WindowSize to n is predicted exactly once.
func OutputRows(s Schedule, n int) int {
	return n - s.WindowSize
}
