package schema

import "errors"

// Sentinel errors shared across the engine and its collaborators.
// Missing data is never an error; these cover invalid input and fetch failures.
var (
	// ErrInvalidInput marks values no classifier can accept (negative counts, NaN, out of range).
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidPeriod marks a period filter or record period outside the calendar.
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrUnknownEntity marks a record or target naming a school absent from the entity list.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrDataUnavailable marks a failed fetch. It is shown apart from a red status.
	ErrDataUnavailable = errors.New("data unavailable")
)
