package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompileErrorUnwrapsToSentinel(t *testing.T) {
	err := &CompileError{NodeID: "sma_20", SlotID: "period", Err: ErrMissingOption}
	assert.ErrorIs(t, err, ErrMissingOption)
	assert.Contains(t, err.Error(), "sma_20")
	assert.Contains(t, err.Error(), "period")
}

func TestExecutionErrorUnwrapsToSentinel(t *testing.T) {
	err := &ExecutionError{ExecutionID: "run-1", NodeID: "rsi_14", Err: ErrInsufficientData}
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestValidationErrorsReportsFirst(t *testing.T) {
	errs := ValidationErrors{
		{Field: "window_size", Message: "must be positive"},
		{Field: "step_size", Message: "must be positive"},
	}
	assert.Equal(t, "window_size: must be positive", errs.Error())

	var empty ValidationErrors
	assert.Equal(t, "validation failed", empty.Error())
}
