package scenario

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/psantana5/tasktimer/pkg/timing"
)

// Runner drives a TaskTimer through a scenario.
type Runner struct {
	timer *timing.TaskTimer

	// sleep is swapped out in tests so scenarios run instantly.
	sleep func(time.Duration)

	// onStep, when set, is invoked at step boundaries, when the timer has no
	// open task lap. The metrics exporter hooks in here.
	onStep func(*timing.TaskTimer)
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// OnStep registers a callback invoked at every step boundary: once before
// the first step and once after each completed step.
func OnStep(fn func(*timing.TaskTimer)) RunnerOption {
	return func(r *Runner) { r.onStep = fn }
}

// withSleep replaces the sleep function; used by tests.
func withSleep(fn func(time.Duration)) RunnerOption {
	return func(r *Runner) { r.sleep = fn }
}

// NewRunner creates a Runner for the given timer.
func NewRunner(timer *timing.TaskTimer, opts ...RunnerOption) *Runner {
	r := &Runner{
		timer: timer,
		sleep: time.Sleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the scenario to completion, honoring context cancellation
// between tasks. On cancellation the iteration is closed so the timer is
// left without an open lap.
func (r *Runner) Run(ctx context.Context, s *Scenario) error {
	it, err := r.timer.IterateOffset(s.Steps, s.Offset)
	if err != nil {
		return fmt.Errorf("starting scenario %q: %w", s.Name, err)
	}

	for it.Next() {
		if r.onStep != nil {
			r.onStep(r.timer)
		}
		for _, task := range s.Tasks {
			for rep := 0; rep < task.Repeat; rep++ {
				if err := ctx.Err(); err != nil {
					it.Close()
					return err
				}
				r.timer.Task(task.Name)
				r.sleep(taskSleep(task))
			}
		}
	}
	if r.onStep != nil {
		r.onStep(r.timer)
	}
	return nil
}

// taskSleep picks the simulated work duration for one lap: the configured
// duration plus a uniform random offset in [-jitter, +jitter), floored at 0.
func taskSleep(task Task) time.Duration {
	d, _ := task.duration()
	j, _ := task.jitter()
	if j > 0 {
		d += time.Duration(rand.Int63n(int64(2*j))) - j
	}
	if d < 0 {
		return 0
	}
	return d
}
