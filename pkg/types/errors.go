package types

import "errors"

var (
	errNonMonotonicIndex = errors.New("types: time index must be strictly increasing")
	errTypeMismatch      = errors.New("types: value does not match requested type")
	errUntypedNull       = errors.New("types: null constant must carry a target type")
	errNullIdentifier    = errors.New("types: cannot get column identifier of a null input value")
)
