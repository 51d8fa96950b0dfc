package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrMalformedStream    = errors.New("malformed tagged stream")
	ErrLabelerUnavailable = errors.New("labeler unavailable")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrInvalidConfig      = errors.New("invalid configuration")
)
