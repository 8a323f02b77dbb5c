package timing

import "errors"

var (
	// ErrInvalidArgument is returned when a constructor or option receives a
	// value outside its accepted set (unknown mode, statistics or sort column).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStopWithoutStart is returned by Timer.Stop when no lap has been
	// opened since construction or the last Reset. WithLenientStop disables
	// the check and measures the lap from the reset point instead.
	ErrStopWithoutStart = errors.New("stop without prior start")

	// ErrIterationInProgress is returned when a new iteration is requested
	// while a previous one has neither finished nor been closed.
	ErrIterationInProgress = errors.New("iteration already in progress")
)
