package history

import "errors"

var (
	// ErrMiss is returned by KV.Get when the key is absent or expired.
	ErrMiss = errors.New("history: cache miss")

	// ErrInvalidRange is returned when end is not after start.
	ErrInvalidRange = errors.New("history: end must be after start")

	// ErrNoSource is returned when the Manager has no Source configured.
	ErrNoSource = errors.New("history: no source configured")
)
