package entities

import "errors"

var (
	// ErrElementNotFound is returned when no candidate of a target matched
	ErrElementNotFound = errors.New("element not found")

	// ErrNoMatch is returned by a single page probe that found nothing
	ErrNoMatch = errors.New("no matching element")

	// ErrInvalidSelector marks a malformed selector candidate
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrUnknownDriver marks an unsupported browser backend name
	ErrUnknownDriver = errors.New("unknown browser driver")
)
