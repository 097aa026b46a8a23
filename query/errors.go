package query

import "errors"

var (
	// ErrInvalidQuestion is returned for empty questions.
	ErrInvalidQuestion = errors.New("invalid question")
)
