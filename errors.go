package rendergraph

import "errors"

// Sentinel errors identifying the error kinds of spec.md §7. Callers
// should use errors.Is against these; wrapped errors carry the
// offending node id or detail in their message.
var (
	// ErrGraphValidation is returned when a graph is constructed with
	// an invalid shape: a dependency id out of range, or (were it ever
	// possible through the public API) a cyclic reference.
	ErrGraphValidation = errors.New("rendergraph: graph validation failed")

	// ErrCapacityExhausted is returned when a Fixed allocation does not
	// fit inside its pinned texture. This is fatal for the build.
	ErrCapacityExhausted = errors.New("rendergraph: fixed allocation does not fit its pinned texture")
)
