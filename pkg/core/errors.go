package core

import "github.com/pkg/errors"

// Error kinds shared by the scene, renderer and loaders. Call sites wrap these
// with context via errors.Wrapf; use errors.Is or errors.Cause to classify.
var (
	// ErrResourceExhausted is returned when a fixed capacity (objects, nodes) is exceeded.
	ErrResourceExhausted = errors.New("resource exhausted")

	// ErrInvariantViolation is returned when an operation would break a structural invariant,
	// e.g. adding objects to a scene whose BVH has already been built.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInvalidArgument is returned for out-of-range configuration values.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerateGeometry is returned for primitives with no area or volume.
	ErrDegenerateGeometry = errors.New("degenerate geometry")
)
