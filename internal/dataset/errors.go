package dataset

import "errors"

// Common errors.
var (
	ErrInvalidMagic    = errors.New("invalid IDX magic number")
	ErrInvalidHeader   = errors.New("invalid IDX header")
	ErrCountMismatch   = errors.New("image count does not match label count")
	ErrLabelOutOfRange = errors.New("label out of range")
	ErrInvalidClasses  = errors.New("number of classes must be positive")
	ErrEmptyImage      = errors.New("images have no pixels")
)
