package timing

import "os"

// Package-level convenience instruments. These are lazily initialized and,
// like everything else in this package, not safe for concurrent use; programs
// with more than one goroutine touching them should create explicit instances
// instead.
var (
	defaultTimer *TaskTimer
	stopwatch    *Timer
)

// Default returns the process-wide TaskTimer, creating it on first use with
// default options.
func Default() *TaskTimer {
	if defaultTimer == nil {
		defaultTimer, _ = New()
	}
	return defaultTimer
}

// Tic starts the process-wide stopwatch.
func Tic() {
	globalStopwatch().Start()
}

// Toc closes a lap on the process-wide stopwatch, printing its statistics
// line and returning the lap duration in seconds. Toc without a prior Tic
// measures time since the stopwatch was first used.
func Toc() float64 {
	elapsed, _ := globalStopwatch().Stop()
	return elapsed
}

func globalStopwatch() *Timer {
	if stopwatch == nil {
		stopwatch, _ = NewTimer(WithVerbose(os.Stdout), WithTimerLenientStop())
	}
	return stopwatch
}
