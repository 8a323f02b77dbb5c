package timing

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/psantana5/tasktimer/pkg/timefmt"
)

// Timer accumulates running statistics for one named duration series. It acts
// like a stopwatch: open a lap with Start and close it with Stop. Stop also
// acts as a lap key when called repeatedly, closing the previous lap and
// silently opening the next one.
//
// Memory use is O(1) regardless of lap count: mean and squared deviation are
// maintained with Welford's online algorithm, so only the last lap remains
// available for inspection.
//
// A Timer is not safe for concurrent use.
type Timer struct {
	clock      Clock
	stats      Statistics
	formatTime func(seconds float64) string
	lenient    bool
	verbose    io.Writer

	last  float64
	total float64
	mean  float64
	m2    float64
	laps  uint64

	pendingStart time.Time
	armed        bool
}

// TimerOption configures a standalone Timer.
type TimerOption func(*Timer)

// WithTimerClock replaces the time source.
func WithTimerClock(c Clock) TimerOption {
	return func(t *Timer) { t.clock = c }
}

// WithTimerStatistics selects the estimator pair backing Variance and Stdev.
func WithTimerStatistics(s Statistics) TimerOption {
	return func(t *Timer) { t.stats = s }
}

// WithTimerFormatter replaces the duration formatter used by String.
func WithTimerFormatter(f func(seconds float64) string) TimerOption {
	return func(t *Timer) { t.formatTime = f }
}

// WithTimerLenientStop makes Stop without a prior Start measure time since
// construction or the last Reset instead of failing.
func WithTimerLenientStop() TimerOption {
	return func(t *Timer) { t.lenient = true }
}

// WithVerbose makes the timer print its statistics line to w after every lap.
func WithVerbose(w io.Writer) TimerOption {
	return func(t *Timer) { t.verbose = w }
}

// NewTimer creates a Timer. It fails with ErrInvalidArgument if the selected
// statistics value is unknown.
func NewTimer(opts ...TimerOption) (*Timer, error) {
	t := &Timer{
		clock:      SystemClock(),
		stats:      Population,
		formatTime: timefmt.Format,
	}
	for _, opt := range opts {
		opt(t)
	}
	if _, err := ParseStatistics(string(t.stats)); err != nil {
		return nil, err
	}
	t.Reset()
	return t, nil
}

// Reset returns the timer to its freshly-constructed state. Any open lap is
// discarded.
func (t *Timer) Reset() {
	t.last = 0
	t.total = 0
	t.mean = 0
	t.m2 = 0
	t.laps = 0
	t.pendingStart = t.clock.Now()
	t.armed = false
}

// Start opens a lap. Calling Start twice without an intervening Stop restarts
// the lap; the elapsed time of the first Start is discarded.
func (t *Timer) Start() {
	t.pendingStart = t.clock.Now()
	t.armed = true
}

// Stop closes the current lap and folds its duration into the running
// statistics, returning the lap duration in seconds. The lap clock keeps
// running: a subsequent Stop closes the next lap without needing Start.
//
// Stop with no lap open since construction or Reset returns
// ErrStopWithoutStart, unless lenient mode was selected, in which case the
// lap is measured from the reset point.
func (t *Timer) Stop() (float64, error) {
	now := t.clock.Now()
	if !t.armed && !t.lenient {
		return 0, ErrStopWithoutStart
	}
	elapsed := now.Sub(t.pendingStart).Seconds()
	t.pendingStart = now
	t.armed = true

	t.laps++
	t.last = elapsed
	t.total += elapsed

	delta1 := elapsed - t.mean
	t.mean += delta1 / float64(t.laps)
	delta2 := elapsed - t.mean
	t.m2 += delta1 * delta2

	if t.verbose != nil {
		fmt.Fprintln(t.verbose, t.String())
	}
	return elapsed, nil
}

// Measure times one invocation of fn as a single lap.
func (t *Timer) Measure(fn func()) {
	t.Start()
	defer t.Stop()
	fn()
}

// Started reports whether a lap is open, either from an explicit Start or
// implicitly from a previous Stop.
func (t *Timer) Started() bool { return t.armed }

// Last returns the duration of the most recent lap in seconds.
func (t *Timer) Last() float64 { return t.last }

// Total returns the summed duration of all laps in seconds.
func (t *Timer) Total() float64 { return t.total }

// Mean returns the running mean lap duration in seconds.
func (t *Timer) Mean() float64 { return t.mean }

// Laps returns the number of completed laps.
func (t *Timer) Laps() uint64 { return t.laps }

// SumSquaredDeviation returns Welford's running M2 aggregate.
func (t *Timer) SumSquaredDeviation() float64 { return t.m2 }

// PopulationVariance treats the observed laps as the entire data set.
// NaN until the first lap completes.
func (t *Timer) PopulationVariance() float64 {
	if t.laps == 0 {
		return math.NaN()
	}
	return t.m2 / float64(t.laps)
}

// SampleVariance is the unbiased estimate from the laps seen so far, using
// Bessel's correction. NaN for fewer than two laps.
func (t *Timer) SampleVariance() float64 {
	if t.laps <= 1 {
		return math.NaN()
	}
	return t.m2 / float64(t.laps-1)
}

// PopulationStdev is the square root of PopulationVariance.
func (t *Timer) PopulationStdev() float64 { return math.Sqrt(t.PopulationVariance()) }

// SampleStdev is the square root of SampleVariance.
func (t *Timer) SampleStdev() float64 { return math.Sqrt(t.SampleVariance()) }

// Variance returns the variance under the configured Statistics.
func (t *Timer) Variance() float64 {
	if t.stats == Sample {
		return t.SampleVariance()
	}
	return t.PopulationVariance()
}

// Stdev returns the standard deviation under the configured Statistics.
func (t *Timer) Stdev() float64 { return math.Sqrt(t.Variance()) }

func (t *Timer) String() string {
	return fmt.Sprintf("Last lap: %s, Total: %s, Mean: %s, StDev: %s, Laps: %d",
		t.formatTime(t.last),
		t.formatTime(t.total),
		t.formatTime(t.mean),
		t.formatTime(t.Stdev()),
		t.laps,
	)
}
