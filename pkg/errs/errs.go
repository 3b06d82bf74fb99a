// Package errs defines the error taxonomy shared across the compiler,
// execution engine, rolling ML harness, and report projection: a set of
// sentinel errors for errors.Is category matching, and structured wrapper
// types that carry the node/slot context the sentinel alone can't.
package errs

import "errors"

// Sentinel errors, grouped by the pipeline stage that raises them.
var (
	// Metadata registry errors.
	ErrUnknownTransform = errors.New("unknown transform type")
	ErrDuplicateType    = errors.New("transform type already registered")

	// Configuration/compile errors.
	ErrMissingOption      = errors.New("required option missing")
	ErrUnknownOption      = errors.New("unknown option")
	ErrOptionOutOfRange   = errors.New("option value out of range")
	ErrInputArityMismatch = errors.New("input arity mismatch")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrCycleDetected      = errors.New("cycle detected in transform graph")
	ErrSinkMissing        = errors.New("no sink node in transform graph")
	ErrDanglingReference  = errors.New("dangling node reference")
	ErrUnresolvedArgRef   = errors.New("unresolved metadata argument reference")

	// Scalar inlining errors.
	ErrScalarExtractionFailed = errors.New("scalar extraction failed")

	// Execution errors.
	ErrInsufficientData  = errors.New("insufficient data for window")
	ErrTrainingDiverged  = errors.New("model training diverged")
	ErrLoaderFailure     = errors.New("external data loader failure")
	ErrColumnNotFound    = errors.New("column not found in frame")
	ErrNonDeterministic  = errors.New("transform produced a non-deterministic result")

	// Report projection errors.
	ErrUnknownAggregation = errors.New("unknown aggregation function")
	ErrFilterCompileError = errors.New("report filter expression failed to compile")
)

// CompileError wraps a sentinel compile-stage error with the node and, when
// relevant, the input slot that triggered it.
type CompileError struct {
	NodeID string
	SlotID string
	Err    error
}

func (e *CompileError) Error() string {
	msg := "compile"
	if e.NodeID != "" {
		msg += " node " + e.NodeID
	}
	if e.SlotID != "" {
		msg += " slot " + e.SlotID
	}
	return msg + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error { return e.Err }

// ExecutionError wraps a sentinel execution-stage error with the run and
// node that were active when it occurred.
type ExecutionError struct {
	ExecutionID string
	NodeID      string
	Err         error
}

func (e *ExecutionError) Error() string {
	msg := "execution"
	if e.ExecutionID != "" {
		msg += " " + e.ExecutionID
	}
	if e.NodeID != "" {
		msg += " node " + e.NodeID
	}
	return msg + ": " + e.Err.Error()
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// ValidationError carries a single field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors aggregates multiple field-level validation failures
// raised while validating a single AlgorithmNode's options.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}
	return e[0].Error()
}
