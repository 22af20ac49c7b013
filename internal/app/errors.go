package app

import "errors"

// ErrNotFound and related errors describe validation and runtime failures.
var (
	ErrNotFound          = errors.New("not found")
	ErrMalformedSnapshot = errors.New("malformed snapshot")
	ErrInvalidBoard      = errors.New("invalid board")
)

// ErrNilAction is returned when Dispatch receives no action.
var ErrNilAction = errors.New("nil action")
