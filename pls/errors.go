package pls

import "errors"

var (
	ErrNoComponents = errors.New("goqsar/pls: at least one component must be requested")
	ErrTooManyPCs   = errors.New("goqsar/pls: too many components for the data")
	ErrNoResponses  = errors.New("goqsar/pls: no responses to model")
	ErrShape        = errors.New("goqsar/pls: dimension mismatch")
)
