package timing

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/psantana5/tasktimer/pkg/timefmt"
)

// TaskTimer measures elapsed time of recurring named tasks inside a loop,
// keeps O(1) running statistics per task, and reports live progress with an
// ETA plus a post-run summary table.
//
// At most one task is active at a time: switching to a task stops the
// outgoing task's timer before the incoming one starts, so no time span is
// ever attributed twice. A master timer tracks whole-iteration steps and
// feeds the ETA projection.
//
// A TaskTimer owns its timers exclusively and is not safe for concurrent use;
// callers needing cross-goroutine access must provide their own locking.
type TaskTimer struct {
	mode       Mode
	stats      Statistics
	clock      Clock
	formatTime func(seconds float64) string
	format     string
	out        io.Writer
	lenient    bool

	master *Timer
	timers map[string]*Timer
	order  []string

	current string
	active  bool

	iter       *Iteration
	totalSteps int
	offset     int
}

// New creates a TaskTimer. It fails with ErrInvalidArgument if the mode or
// statistics option holds an unknown value.
func New(opts ...Option) (*TaskTimer, error) {
	tt := &TaskTimer{
		mode:       ModeCompact,
		stats:      Population,
		clock:      SystemClock(),
		formatTime: timefmt.Format,
		format:     DefaultFormatString,
		out:        os.Stdout,
		timers:     make(map[string]*Timer),
	}
	for _, opt := range opts {
		opt(tt)
	}
	if _, err := ParseMode(string(tt.mode)); err != nil {
		return nil, err
	}
	if _, err := ParseStatistics(string(tt.stats)); err != nil {
		return nil, err
	}
	tt.master = tt.newTimer()
	return tt, nil
}

// newTimer creates a lap timer inheriting the TaskTimer configuration. The
// configuration was validated in New, so construction cannot fail here.
func (tt *TaskTimer) newTimer() *Timer {
	t := &Timer{
		clock:      tt.clock,
		stats:      tt.stats,
		formatTime: tt.formatTime,
		lenient:    tt.lenient,
	}
	t.Reset()
	return t
}

// Task switches the active task to tag, stopping the previously active task's
// timer first. A timer for an unseen tag is created lazily, preserving the
// order of first reference. Switching to the tag that is already active
// closes one lap and opens the next, which is how recurring sub-tasks inside
// a loop body are timed.
//
// In compact mode every switch redraws the progress line.
func (tt *TaskTimer) Task(tag string) {
	if tt.active {
		tt.timers[tt.current].Stop()
	}
	t, ok := tt.timers[tag]
	if !ok {
		t = tt.newTimer()
		tt.timers[tag] = t
		tt.order = append(tt.order, tag)
	}
	t.Start()
	tt.current = tag
	tt.active = true

	if tt.mode == ModeCompact {
		tt.redraw()
	}
}

// EndTask stops the active task without starting another, marking a period
// that belongs to no named task (for example the gap between iterations).
// It is a no-op when no task is active.
func (tt *TaskTimer) EndTask() {
	if !tt.active {
		return
	}
	tt.timers[tt.current].Stop()
	tt.current = ""
	tt.active = false
}

// Current returns the active task tag, if any.
func (tt *TaskTimer) Current() (string, bool) {
	return tt.current, tt.active
}

// Timer returns the lap timer for tag, if one has been created.
func (tt *TaskTimer) Timer(tag string) (*Timer, bool) {
	t, ok := tt.timers[tag]
	return t, ok
}

// Tags returns the registered task tags in order of first reference.
func (tt *TaskTimer) Tags() []string {
	tags := make([]string, len(tt.order))
	copy(tags, tt.order)
	return tags
}

// Master returns the whole-iteration timer, one lap per completed step.
func (tt *TaskTimer) Master() *Timer { return tt.master }

// InProgress reports whether an iteration has begun and not yet finished.
func (tt *TaskTimer) InProgress() bool {
	return tt.iter != nil && tt.iter.started
}

// Reset returns the TaskTimer to its freshly-constructed state: all task
// timers, the master timer, the active-task pointer and any iteration
// bookkeeping are discarded.
func (tt *TaskTimer) Reset() {
	tt.master.Reset()
	tt.timers = make(map[string]*Timer)
	tt.order = nil
	tt.current = ""
	tt.active = false
	tt.iter = nil
	tt.totalSteps = 0
	tt.offset = 0
}

// Progress is a point-in-time snapshot of iteration progress. ETA and
// Projected are NaN before the first step completes; the time formatter
// renders them as the unknown token.
type Progress struct {
	Step      int
	Total     int
	Percent   float64
	ETA       float64
	Projected float64
	Task      string
	Running   bool
}

// Progress computes the current iteration progress. With no completed step
// there is no basis for projection, so it reports 0% and NaN estimates
// instead of extrapolating from a sentinel lap count.
func (tt *TaskTimer) Progress() Progress {
	lap := int(tt.master.Laps())
	p := Progress{
		Step:    lap + tt.offset,
		Total:   tt.totalSteps + tt.offset,
		Task:    tt.current,
		Running: tt.InProgress(),
	}
	if lap == 0 {
		p.ETA = math.NaN()
		p.Projected = math.NaN()
		return p
	}
	p.Projected = float64(tt.totalSteps) / float64(lap) * tt.master.Total()
	p.ETA = p.Projected - tt.master.Total()
	if p.Total > 0 {
		p.Percent = 100 * float64(p.Step) / float64(p.Total)
	}
	return p
}

// Status renders the progress line from the configured format template.
func (tt *TaskTimer) Status() string {
	p := tt.Progress()
	return strings.NewReplacer(
		"{step}", strconv.Itoa(p.Step),
		"{total}", strconv.Itoa(p.Total),
		"{percent}", fmt.Sprintf("%.0f", p.Percent),
		"{eta}", tt.formatTime(p.ETA),
		"{projected}", tt.formatTime(p.Projected),
		"{task}", tt.padTask(p.Task),
	).Replace(tt.format)
}

// padTask left-justifies the tag to the widest registered tag so that a
// compact-mode redraw fully overwrites the previous line's task label.
func (tt *TaskTimer) padTask(tag string) string {
	width := 0
	for _, t := range tt.order {
		if len(t) > width {
			width = len(t)
		}
	}
	return fmt.Sprintf("%-*s", width, tag)
}

func (tt *TaskTimer) redraw() {
	fmt.Fprintf(tt.out, "\r%s", tt.Status())
}

// String renders the summary table, equivalent to Summary followed by Render.
func (tt *TaskTimer) String() string {
	var buf bytes.Buffer
	tt.Summary().Render(&buf)
	return buf.String()
}
