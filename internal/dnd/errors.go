package dnd

import "errors"

// ErrSessionActive and related errors describe drag session failures.
var (
	ErrSessionActive = errors.New("drag session already active")
	ErrUnknownEntity = errors.New("unknown drag entity")
)
