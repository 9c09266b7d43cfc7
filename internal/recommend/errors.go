package recommend

import "errors"

var (
	ErrUnknownPOI      = errors.New("poi has no embedding")
	ErrMissingLocation = errors.New("poi has no location")
	ErrInvalidK        = errors.New("result count must be at least 1")
)
