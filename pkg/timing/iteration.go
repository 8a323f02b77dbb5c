package timing

import (
	"fmt"
	"iter"
)

// Iteration tracks progress over a fixed number of steps. It replaces the
// original generator-driven protocol with an explicit handle: Next advances
// and closes the previous step's lap, Close is the cancellation path for
// loops abandoned early. Exactly one Iteration may be in progress per
// TaskTimer.
//
// Typical use:
//
//	it, err := tt.Range(0, 40)
//	...
//	for it.Next() {
//		tt.Task("assemble")
//		assemble(it.Index())
//		tt.Task("solve")
//		solve(it.Index())
//	}
type Iteration struct {
	tt      *TaskTimer
	count   int
	offset  int
	step    int
	started bool
	done    bool
}

// Iterate begins tracking an iteration of totalSteps steps with step numbers
// displayed from zero. It fails with ErrIterationInProgress while a previous
// iteration has neither finished nor been closed, and with ErrInvalidArgument
// for a negative step count.
func (tt *TaskTimer) Iterate(totalSteps int) (*Iteration, error) {
	return tt.IterateOffset(totalSteps, 0)
}

// IterateOffset is Iterate with an explicit display offset added to every
// step number. The offset is fixed for the whole iteration.
func (tt *TaskTimer) IterateOffset(totalSteps, offset int) (*Iteration, error) {
	if totalSteps < 0 {
		return nil, fmt.Errorf("%w: negative step count %d", ErrInvalidArgument, totalSteps)
	}
	if tt.iter != nil {
		return nil, ErrIterationInProgress
	}
	it := &Iteration{tt: tt, count: totalSteps, offset: offset}
	tt.iter = it
	tt.totalSteps = totalSteps
	tt.offset = offset
	return it, nil
}

// Range tracks the half-open integer interval [start, stop) with the display
// offset set to start, so reported step numbers match the caller's indexing
// instead of restarting at zero. Callers that want display from zero should
// use Iterate.
func (tt *TaskTimer) Range(start, stop int) (*Iteration, error) {
	if stop < start {
		return nil, fmt.Errorf("%w: range [%d, %d)", ErrInvalidArgument, start, stop)
	}
	return tt.IterateOffset(stop-start, start)
}

// Next advances the iteration. The first call starts the master timer; every
// later call first completes the previous step: the open task is ended, the
// master timer records one lap, and a progress line is emitted according to
// the mode. Next returns false once all steps have been consumed (emitting
// the final render) or after Close.
func (it *Iteration) Next() bool {
	if it.done {
		return false
	}
	tt := it.tt
	if !it.started {
		it.started = true
		tt.master.Reset()
		tt.master.Start()
		if it.count == 0 {
			it.finish()
			return false
		}
		return true
	}

	it.completeStep()
	it.step++
	if it.step >= it.count {
		it.finish()
		return false
	}
	return true
}

// Index returns the display number of the current step, offset included.
func (it *Iteration) Index() int { return it.offset + it.step }

// Active reports whether the iteration has started and not yet finished.
func (it *Iteration) Active() bool { return it.started && !it.done }

// All adapts the iteration for a range-over-func loop, yielding display step
// numbers. Breaking out of the loop closes the iteration.
func (it *Iteration) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for it.Next() {
			if !yield(it.Index()) {
				it.Close()
				return
			}
		}
	}
}

// Slice tracks a loop over the elements of items, yielding each index and
// element. It is Iterate(len(items)) with the element lookup folded in;
// breaking out of the loop closes the iteration.
func Slice[T any](tt *TaskTimer, items []T) (iter.Seq2[int, T], error) {
	it, err := tt.Iterate(len(items))
	if err != nil {
		return nil, err
	}
	return func(yield func(int, T) bool) {
		for it.Next() {
			if !yield(it.step, items[it.step]) {
				it.Close()
				return
			}
		}
	}, nil
}

// Close abandons the iteration early: the open task is ended, the partially
// completed step is recorded as a master lap, and the TaskTimer becomes free
// to begin a new iteration. Close after completion or a previous Close is a
// no-op.
func (it *Iteration) Close() error {
	if it.done {
		return nil
	}
	it.done = true
	it.tt.iter = nil
	if !it.started {
		return nil
	}
	it.tt.EndTask()
	if _, err := it.tt.master.Stop(); err != nil {
		return fmt.Errorf("closing iteration: %w", err)
	}
	return nil
}

// completeStep closes the lap for one finished loop body.
func (it *Iteration) completeStep() {
	tt := it.tt
	tt.EndTask()
	tt.master.Stop()

	switch tt.mode {
	case ModeSimple:
		fmt.Fprintln(tt.out, tt.Status())
	case ModeCompact:
		tt.redraw()
	}
}

func (it *Iteration) finish() {
	it.done = true
	it.tt.iter = nil
	if it.tt.mode == ModeCompact {
		// Terminate the redrawn line so the summary starts on a fresh one.
		fmt.Fprintln(it.tt.out)
	}
}
