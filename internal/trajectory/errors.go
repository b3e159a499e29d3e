package trajectory

import "errors"

// Sentinel errors returned by the trajectory pipeline. Callers should test
// with errors.Is; wrapped messages carry the offending channel or row detail.
var (
	// ErrEmptyInput is returned when an operation receives a table with no rows.
	ErrEmptyInput = errors.New("trajectory: input table has no rows")

	// ErrMissingChannel is returned when a required channel (reference pair or
	// keypoint column) is absent from a table.
	ErrMissingChannel = errors.New("trajectory: required channel missing")

	// ErrNoPriorDetection is returned in strict mode when a channel starts with
	// an undetected (zero) run, so a bridging delta has no prior observation to
	// measure against.
	ErrNoPriorDetection = errors.New("trajectory: no detection before gap")
)
