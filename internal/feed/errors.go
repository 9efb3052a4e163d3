package feed

import "errors"

var (
	// ErrUnknownKind is returned for a registry topic with an unsupported kind.
	ErrUnknownKind = errors.New("feed: unknown registry kind")

	// ErrInvalidPayload is returned when a message cannot be decoded.
	ErrInvalidPayload = errors.New("feed: invalid payload")
)
