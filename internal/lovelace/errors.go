package lovelace

import "errors"

// Domain errors for the lovelace package.
var (
	// ErrMalformedInput is returned when the document is not an object or
	// has no views list. No partial dashboard is produced.
	ErrMalformedInput = errors.New("lovelace: malformed input")

	// ErrUnknownCard is returned by DecodeCard for a type outside the
	// known card set that is not a custom card.
	ErrUnknownCard = errors.New("lovelace: unknown card type")

	// ErrInvalidCard is returned by DecodeCard when a card lacks a type or
	// nests deeper than the recursion bound.
	ErrInvalidCard = errors.New("lovelace: invalid card")
)
