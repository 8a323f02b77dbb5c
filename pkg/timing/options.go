package timing

import (
	"fmt"
	"io"
)

// Mode selects how progress is reported while an iteration is running.
type Mode string

const (
	// ModeSimple prints a full status line after every completed step.
	ModeSimple Mode = "simple"
	// ModeCompact redraws a single status line in place (carriage return).
	ModeCompact Mode = "compact"
	// ModeQuiet suppresses all live output; statistics are still collected.
	ModeQuiet Mode = "quiet"
)

// ParseMode converts a string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSimple, ModeCompact, ModeQuiet:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: mode %q (want simple, compact or quiet)", ErrInvalidArgument, s)
}

// Statistics selects which estimator pair backs the generic Variance and
// Stdev accessors. Population treats the observed laps as the entire data
// set; Sample applies Bessel's correction.
type Statistics string

const (
	Population Statistics = "population"
	Sample     Statistics = "sample"
)

// ParseStatistics converts a string into a Statistics value.
func ParseStatistics(s string) (Statistics, error) {
	switch Statistics(s) {
	case Population, Sample:
		return Statistics(s), nil
	}
	return "", fmt.Errorf("%w: statistics %q (want population or sample)", ErrInvalidArgument, s)
}

// DefaultFormatString is the status line template. Recognized placeholders:
// {step}, {total}, {percent}, {eta}, {projected}, {task}.
const DefaultFormatString = "Completed step {step}/{total} ({percent}%). ETA: {eta} (total: {projected}). {task}"

// Option configures a TaskTimer.
type Option func(*TaskTimer)

// WithMode sets the progress reporting mode. Validated by New.
func WithMode(m Mode) Option {
	return func(tt *TaskTimer) { tt.mode = m }
}

// WithStatistics selects population or sample statistics for all timers
// owned by the TaskTimer. Validated by New.
func WithStatistics(s Statistics) Option {
	return func(tt *TaskTimer) { tt.stats = s }
}

// WithClock replaces the time source.
func WithClock(c Clock) Option {
	return func(tt *TaskTimer) { tt.clock = c }
}

// WithTimeFormatter replaces the duration formatter used in status lines and
// summaries. The formatter must map NaN to a defined "unknown" token.
func WithTimeFormatter(f func(seconds float64) string) Option {
	return func(tt *TaskTimer) { tt.formatTime = f }
}

// WithFormatString replaces the status line template. See DefaultFormatString
// for the recognized placeholders; unknown text is passed through verbatim.
func WithFormatString(format string) Option {
	return func(tt *TaskTimer) { tt.format = format }
}

// WithOutput redirects progress output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(tt *TaskTimer) { tt.out = w }
}

// WithLenientStop makes Stop without a prior Start measure the lap from
// construction or the last Reset instead of failing. Off by default because
// it silently corrupts statistics.
func WithLenientStop() Option {
	return func(tt *TaskTimer) { tt.lenient = true }
}
