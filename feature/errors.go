package feature

import "errors"

// Errors returned by the distance metrics and patch constructors. Callers
// match them with errors.Is; return sites wrap them with operation context.
var (
	// ErrSizeMismatch indicates patches or descriptor vectors/matrices of
	// incompatible size, or absent where the requested operation needs them.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrMissingDescriptor indicates a requested descriptor kind is not
	// present on one or both features.
	ErrMissingDescriptor = errors.New("missing descriptor")

	// ErrInvalidPatchSize indicates a patch side length that is not a
	// positive odd number.
	ErrInvalidPatchSize = errors.New("invalid patch size")
)
