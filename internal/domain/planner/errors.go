package planner

import "errors"

// Sentinel kinds for plan composition.
var (
	// ErrUnavailable is returned when a required store dependency was not
	// provided. Planning is best-effort, so callers treat this as "no plan"
	// rather than a fatal failure.
	ErrUnavailable = errors.New("planner dependencies unavailable")

	ErrInvalidDuration = errors.New("invalid session duration")
)
