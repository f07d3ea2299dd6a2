package hsm

import "errors"

var (
	// ErrMissingInitialTransition is a fatal HSM failure: INIT returned
	// neither Initial nor Handled during initial descent. A Handled result
	// ends the descent at that state without error.
	ErrMissingInitialTransition = errors.New("hsm: missing initial transition")

	// ErrStateDepthExceeded is a fatal HSM failure: a state's ancestor
	// chain exceeds MaxStateDepth.
	ErrStateDepthExceeded = errors.New("hsm: state depth exceeded")
)

// MaxStateDepth bounds the on-stack path arrays used to compute transitions,
// matching the specification's MAX_STATE_DEPTH = 8.
const MaxStateDepth = 8
