package evaluate

import "errors"

var (
	// ErrInvalidSample is returned for samples without a question or
	// expected sources.
	ErrInvalidSample = errors.New("invalid sample")
)
