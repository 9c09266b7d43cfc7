package utils

import "errors"

var (
	ErrPOINotFound        = errors.New("poi not found")
	ErrInvalidOrigin      = errors.New("invalid origin coordinates")
	ErrIncompleteOrigin   = errors.New("incomplete origin coordinates")
	ErrInvalidPolicy      = errors.New("invalid nearby policy")
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
