package timing

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

func TestIterateCountsSteps(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(5)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}

	steps := 0
	for it.Next() {
		steps++
		tt.Task("work")
		clock.advance(time.Second)
	}

	if steps != 5 {
		t.Fatalf("loop ran %d times, want 5", steps)
	}
	if got := tt.Master().Laps(); got != 5 {
		t.Errorf("master laps = %d, want 5", got)
	}
	if tt.InProgress() {
		t.Error("iteration still in progress after exhaustion")
	}
	if _, active := tt.Current(); active {
		t.Error("task left open after exhaustion")
	}
}

// Master lap count never exceeds the expected step count, and Next keeps
// returning false after exhaustion.
func TestIterateExhausted(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(2)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	for it.Next() {
		clock.advance(time.Second)
	}
	for i := 0; i < 3; i++ {
		if it.Next() {
			t.Fatal("Next returned true after exhaustion")
		}
	}
	if got := tt.Master().Laps(); got != 2 {
		t.Errorf("master laps = %d, want 2", got)
	}
}

func TestIterateZeroSteps(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(0)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	if it.Next() {
		t.Fatal("Next returned true for a zero-step iteration")
	}
	if tt.InProgress() {
		t.Error("zero-step iteration left in-progress state")
	}
}

func TestIterateNegativeSteps(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	if _, err := tt.Iterate(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

// Display step numbers follow the caller's indexing: range [10, 20) reports
// its first status as step 10 of 20, not 0 of 10.
func TestRangeOffsetDisplay(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Range(10, 20)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}
	if !it.Next() {
		t.Fatal("Next returned false on first call")
	}
	if it.Index() != 10 {
		t.Errorf("first Index = %d, want 10", it.Index())
	}

	status := tt.Status()
	if !strings.Contains(status, "10/20") {
		t.Errorf("first status %q does not report step 10/20", status)
	}
	if !strings.Contains(status, "(0%)") {
		t.Errorf("first status %q should report 0%% before any completed step", status)
	}

	indices := []int{10}
	for it.Next() {
		clock.advance(time.Second)
		indices = append(indices, it.Index())
	}
	if len(indices) != 10 || indices[len(indices)-1] != 19 {
		t.Errorf("indices = %v, want 10..19", indices)
	}
}

func TestRangeInvalid(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	if _, err := tt.Range(5, 3); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

// Before the first completed step there is no basis for an estimate: the
// tracker must report 0% and NaN rather than extrapolating from a sentinel.
func TestProgressBeforeFirstLap(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(8)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	it.Next()

	p := tt.Progress()
	if p.Percent != 0 {
		t.Errorf("Percent = %v, want 0", p.Percent)
	}
	if !math.IsNaN(p.ETA) || !math.IsNaN(p.Projected) {
		t.Errorf("ETA/Projected = %v/%v, want NaN before the first lap", p.ETA, p.Projected)
	}
}

func TestProgressProjection(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(4)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	// Two completed steps of 2s each.
	it.Next()
	clock.advance(2 * time.Second)
	it.Next()
	clock.advance(2 * time.Second)
	it.Next()

	p := tt.Progress()
	if p.Step != 2 || p.Total != 4 {
		t.Fatalf("step = %d/%d, want 2/4", p.Step, p.Total)
	}
	if !approx(p.Percent, 50) {
		t.Errorf("Percent = %v, want 50", p.Percent)
	}
	if !approx(p.Projected, 8) {
		t.Errorf("Projected = %v, want 8", p.Projected)
	}
	if !approx(p.ETA, 4) {
		t.Errorf("ETA = %v, want 4", p.ETA)
	}
}

func TestIterationInProgressRejected(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(3)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}

	// An abandoned-but-unclosed iteration blocks new ones.
	if _, err := tt.Iterate(3); !errors.Is(err, ErrIterationInProgress) {
		t.Fatalf("err = %v, want ErrIterationInProgress", err)
	}

	if err := it.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := tt.Iterate(3); err != nil {
		t.Errorf("Iterate after Close failed: %v", err)
	}
}

// Close is the cancellation path for loops abandoned mid-iteration: the open
// task lap closes and the partial step is recorded.
func TestIterationClose(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(10)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	it.Next()
	tt.Task("work")
	clock.advance(time.Second)

	if err := it.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, active := tt.Current(); active {
		t.Error("task left open after Close")
	}
	if tt.InProgress() {
		t.Error("iteration still in progress after Close")
	}
	if got := tt.Master().Laps(); got != 1 {
		t.Errorf("master laps = %d, want 1 (the partial step)", got)
	}
	if it.Next() {
		t.Error("Next returned true after Close")
	}
	if err := it.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestIterationAll(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Range(3, 6)
	if err != nil {
		t.Fatalf("Range failed: %v", err)
	}

	var got []int
	for i := range it.All() {
		got = append(got, i)
		clock.advance(time.Second)
	}

	want := []int{3, 4, 5}
	if len(got) != len(want) {
		t.Fatalf("yielded %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("yielded %v, want %v", got, want)
		}
	}
}

// Breaking out of a range-over-func loop closes the iteration.
func TestIterationAllBreakCloses(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(10)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	for range it.All() {
		clock.advance(time.Second)
		break
	}

	if tt.InProgress() {
		t.Error("iteration still in progress after break")
	}
	if _, err := tt.Iterate(2); err != nil {
		t.Errorf("Iterate after break failed: %v", err)
	}
}

func TestSlice(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	seq, err := Slice(tt, []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}

	var elems []string
	for i, elem := range seq {
		if elem != []string{"a", "b", "c"}[i] {
			t.Errorf("element %d = %q", i, elem)
		}
		elems = append(elems, elem)
		tt.Task("work")
		clock.advance(time.Second)
	}

	if len(elems) != 3 {
		t.Fatalf("yielded %d elements, want 3", len(elems))
	}
	if got := tt.Master().Laps(); got != 3 {
		t.Errorf("master laps = %d, want 3", got)
	}
}

// A fresh iteration resets the master timer, so step numbering and ETA start
// over instead of continuing from the previous run.
func TestIterateResetsMaster(t *testing.T) {
	clock := newFakeClock()
	tt := quietTimer(t, clock)

	it, err := tt.Iterate(2)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	for it.Next() {
		clock.advance(time.Second)
	}

	it2, err := tt.Iterate(3)
	if err != nil {
		t.Fatalf("second Iterate failed: %v", err)
	}
	it2.Next()
	if got := tt.Master().Laps(); got != 0 {
		t.Errorf("master laps = %d at start of new iteration, want 0", got)
	}
	for it2.Next() {
		clock.advance(time.Second)
	}
	if got := tt.Master().Laps(); got != 3 {
		t.Errorf("master laps = %d, want 3", got)
	}
}

func TestSimpleModePrintsPerStep(t *testing.T) {
	clock := newFakeClock()
	var buf strings.Builder
	tt := mustTaskTimer(t, WithClock(clock), WithMode(ModeSimple), WithOutput(&buf))

	it, err := tt.Iterate(3)
	if err != nil {
		t.Fatalf("Iterate failed: %v", err)
	}
	for it.Next() {
		clock.advance(time.Second)
	}

	lines := strings.Count(buf.String(), "\n")
	if lines != 3 {
		t.Errorf("simple mode printed %d lines, want 3:\n%s", lines, buf.String())
	}
}
