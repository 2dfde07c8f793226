package persistence

import "errors"

// Sentinel kinds for persistence. All of these degrade gracefully: callers
// log a warning and carry on with in-memory state.
var (
	ErrLoad          = errors.New("load failed")
	ErrSave          = errors.New("save failed")
	ErrBadSnapshot   = errors.New("malformed snapshot")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)
