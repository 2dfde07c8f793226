package model

import "errors"

// Sentinel error kinds for catalog construction.
var (
	ErrEmptyCatalog   = errors.New("empty catalog")
	ErrInvalidCatalog = errors.New("invalid catalog")
)
