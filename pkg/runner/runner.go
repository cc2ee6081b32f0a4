// Package runner provides a cooperative controller for long-running,
// resumable algorithms.
//
// A [Runner] owns a [Task] and advances it in discrete batches. Between
// batches it observes stop conditions: natural completion, an elapsed
// deadline ([Runner.RunFor]), a caller predicate ([Runner.RunUntil]),
// context cancellation, or a cross-goroutine [Runner.Kill]. Cancellation
// is never preemptive: responsiveness is bounded by the duration of one
// batch.
//
// # Concurrency
//
// A Runner is a sequential state machine: exactly one goroutine may drive
// Run/RunFor/RunUntil at a time, and all other Task access must be
// serialized with it. The exceptions, safe to call from any goroutine
// while a run is active, are [Runner.Kill], [Runner.Dead],
// [Runner.CurrentState], [Runner.Stopped], and the other read-only state
// queries.
package runner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// State identifies the controller's position in its lifecycle.
type State int32

// Controller states. Transitions: NeverRun is the initial state; a run
// moves through one of the Running* states and ends in NotRunning,
// TimedOut, StoppedByPredicate, or Dead. Init returns to NeverRun.
const (
	NeverRun State = iota
	RunningToFinish
	RunningFor
	RunningUntil
	TimedOut
	StoppedByPredicate
	NotRunning
	Dead
)

// String returns the lowercase name of the state.
func (s State) String() string {
	switch s {
	case NeverRun:
		return "never_run"
	case RunningToFinish:
		return "running_to_finish"
	case RunningFor:
		return "running_for"
	case RunningUntil:
		return "running_until"
	case TimedOut:
		return "timed_out"
	case StoppedByPredicate:
		return "stopped_by_predicate"
	case NotRunning:
		return "not_running"
	case Dead:
		return "dead"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Task is the unit of work a Runner controls. Implementations are
// algorithms that can make progress in bounded batches and report their
// own completion condition.
type Task interface {
	// RunBatch advances the algorithm by one batch. A non-nil error
	// aborts the run and moves the controller to a terminal non-success
	// state; already-committed progress must remain valid.
	RunBatch(ctx context.Context) error

	// IsFinished reports whether the algorithm has reached its natural
	// completion condition.
	IsFinished() bool
}

// Runner drives a Task. Create instances with [New].
type Runner struct {
	task Task

	state atomic.Int32
	dead  atomic.Bool

	mu         sync.Mutex // guards the fields below
	stopReason string
	runForDur  time.Duration
}

// New creates a controller for the given task in the NeverRun state.
func New(task Task) *Runner {
	r := &Runner{task: task}
	r.state.Store(int32(NeverRun))
	return r
}

// Run advances the task batch by batch until it finishes, the context is
// cancelled, or the runner is killed. It returns the first batch error,
// the context error on cancellation, and nil otherwise.
func (r *Runner) Run(ctx context.Context) error {
	return r.runLoop(ctx, RunningToFinish, time.Time{}, nil)
}

// RunFor behaves like Run but additionally stops once d has elapsed,
// leaving the runner in the TimedOut state. Stopping by timeout is not an
// error.
func (r *Runner) RunFor(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.runForDur = d
	r.mu.Unlock()
	return r.runLoop(ctx, RunningFor, time.Now().Add(d), nil)
}

// RunUntil behaves like Run but additionally stops once pred returns
// true, leaving the runner in the StoppedByPredicate state. The predicate
// is evaluated only at batch boundaries.
func (r *Runner) RunUntil(ctx context.Context, pred func() bool) error {
	return r.runLoop(ctx, RunningUntil, time.Time{}, pred)
}

func (r *Runner) runLoop(ctx context.Context, mode State, deadline time.Time, pred func() bool) error {
	if r.dead.Load() {
		r.state.Store(int32(Dead))
		return nil
	}
	if r.task.IsFinished() {
		r.finish(NotRunning, "the algorithm was finished")
		return nil
	}

	r.state.Store(int32(mode))
	for {
		if err := ctx.Err(); err != nil {
			r.dead.Store(true)
			r.finish(Dead, fmt.Sprintf("the run was cancelled (%v)", err))
			return err
		}
		if r.dead.Load() {
			r.finish(Dead, "the runner was killed")
			return nil
		}
		if mode == RunningFor && !time.Now().Before(deadline) {
			r.finish(TimedOut, fmt.Sprintf("the time limit of %v elapsed", r.RunningForHowLong()))
			return nil
		}
		if pred != nil && pred() {
			r.finish(StoppedByPredicate, "the stop predicate returned true")
			return nil
		}

		if err := r.task.RunBatch(ctx); err != nil {
			r.dead.Store(true)
			r.finish(Dead, fmt.Sprintf("the run was aborted: %v", err))
			return fmt.Errorf("run aborted: %w", err)
		}

		if r.task.IsFinished() {
			r.finish(NotRunning, "the algorithm was finished")
			return nil
		}
	}
}

func (r *Runner) finish(s State, reason string) {
	r.mu.Lock()
	r.stopReason = reason
	r.mu.Unlock()
	r.state.Store(int32(s))
}

// Kill requests that any active run stop at the next batch boundary and
// moves the runner to the Dead state. It is the only mutating operation
// safe to call from another goroutine while a run is in progress; killing
// an idle runner also marks it dead.
func (r *Runner) Kill() {
	r.dead.Store(true)
	if !r.Running() {
		r.finish(Dead, "the runner was killed")
	}
}

// Init resets the controller to NeverRun, clearing the dead flag and stop
// reason. Discarding the task's own progress is the task owner's
// responsibility. Init must not be called while a run is active.
func (r *Runner) Init() {
	r.dead.Store(false)
	r.mu.Lock()
	r.stopReason = ""
	r.runForDur = 0
	r.mu.Unlock()
	r.state.Store(int32(NeverRun))
}

// CurrentState returns the controller's state.
func (r *Runner) CurrentState() State { return State(r.state.Load()) }

// Running reports whether a run is active.
func (r *Runner) Running() bool {
	switch r.CurrentState() {
	case RunningToFinish, RunningFor, RunningUntil:
		return true
	}
	return false
}

// Started reports whether a run has ever been started since construction
// or the last Init.
func (r *Runner) Started() bool { return r.CurrentState() != NeverRun }

// Finished reports whether the task reached its natural completion
// condition. A dead runner is never finished.
func (r *Runner) Finished() bool {
	return !r.dead.Load() && r.Started() && r.task.IsFinished()
}

// Success reports whether the task finished without being stopped by a
// timeout, a predicate, or a kill.
func (r *Runner) Success() bool {
	return r.Finished() && !r.TimedOut() && !r.StoppedByPredicate()
}

// Stopped reports whether the runner is finished, timed out, dead, or was
// stopped by a predicate. During an active RunUntil it also evaluates the
// run's predicate indirectly through the state transitions, so it may
// only flip at batch boundaries.
func (r *Runner) Stopped() bool {
	switch r.CurrentState() {
	case TimedOut, StoppedByPredicate, Dead:
		return true
	}
	return r.dead.Load() || r.Finished()
}

// Dead reports whether the runner was killed or aborted.
func (r *Runner) Dead() bool { return r.dead.Load() }

// TimedOut reports whether the last run stopped because its RunFor time
// limit elapsed.
func (r *Runner) TimedOut() bool { return r.CurrentState() == TimedOut }

// StoppedByPredicate reports whether the last run stopped because its
// RunUntil predicate returned true.
func (r *Runner) StoppedByPredicate() bool { return r.CurrentState() == StoppedByPredicate }

// RunningFor reports whether a RunFor call is active.
func (r *Runner) RunningFor() bool { return r.CurrentState() == RunningFor }

// RunningUntil reports whether a RunUntil call is active.
func (r *Runner) RunningUntil() bool { return r.CurrentState() == RunningUntil }

// RunningForHowLong returns the duration passed to the most recent
// RunFor, or zero if RunFor was never called since the last Init.
func (r *Runner) RunningForHowLong() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runForDur
}

// WhyWeStopped returns a human-readable reason for the last stop, or the
// empty string if the runner has not stopped.
func (r *Runner) WhyWeStopped() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopReason
}
