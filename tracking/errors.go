package tracking

import "errors"

var (
	// ErrRunNotFound is returned when a run ID is unknown.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunFinished is returned when logging to a finished run.
	ErrRunFinished = errors.New("run already finished")
)
