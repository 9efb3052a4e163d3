package registry

import "errors"

// Domain errors for the registry package.
var (
	// ErrEntityNotFound is returned when an entity ID is not in the snapshot.
	ErrEntityNotFound = errors.New("registry: entity not found")

	// ErrInvalidEntityID is returned when an entity ID has no "domain." prefix.
	ErrInvalidEntityID = errors.New("registry: invalid entity id")
)
