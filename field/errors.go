package field

import "errors"

var (
	ErrYLowSD      = errors.New("goqsar/field: Y_VAR_LOW_SD: standard deviation of a response is too low")
	ErrNoObjects   = errors.New("goqsar/field: no active objects with a positive weight")
	ErrNoVariables = errors.New("goqsar/field: no operate variables in the active fields")
	ErrValueCount  = errors.New("goqsar/field: wrong number of values for the field")
	ErrNotComputed = errors.New("goqsar/field: field values not available for an object")
	ErrBadScaling  = errors.New("goqsar/field: unknown scaling")
)
