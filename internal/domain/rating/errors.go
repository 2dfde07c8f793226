package rating

import "errors"

// Sentinel error kinds for this package.
var (
	ErrInvalidParams = errors.New("invalid rating parameters")
)
