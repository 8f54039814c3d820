package nn

import "errors"

// Common errors.
var (
	ErrNoLayers          = errors.New("network must have at least one layer")
	ErrNilLayer          = errors.New("nil layer")
	ErrDuplicateLayer    = errors.New("layer appears more than once")
	ErrInvalidDimension  = errors.New("layer dimensions must be positive")
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrUnknownActivation = errors.New("unknown activation")
	ErrLengthMismatch    = errors.New("inputs and targets have different lengths")
	ErrNoData            = errors.New("no data")
	ErrInvalidEpochs     = errors.New("epochs must not be negative")
	ErrInvalidCheckpoint = errors.New("invalid checkpoint")
)
