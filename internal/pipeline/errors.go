package pipeline

import "errors"

var (
	// ErrViewNotFound is returned for an out-of-range view index.
	ErrViewNotFound = errors.New("pipeline: view not found")

	// ErrNotBuilt is returned before the first result is published.
	ErrNotBuilt = errors.New("pipeline: no dashboard built yet")
)
