package ingest

import "errors"

var (
	// ErrNoSources is returned when Run is called with nothing to ingest.
	ErrNoSources = errors.New("no sources")
)
