package dashboard

import "errors"

// Domain errors for the dashboard package.
var (
	// ErrInvalidConfig is returned when a native config cannot be decoded.
	ErrInvalidConfig = errors.New("dashboard: invalid config")
)
