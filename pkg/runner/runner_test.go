package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/matzehuels/semigroups/pkg/runner"
)

// countTask finishes after a fixed number of batches.
type countTask struct {
	batches int
	limit   int
	err     error
}

func (t *countTask) RunBatch(context.Context) error {
	if t.err != nil {
		return t.err
	}
	t.batches++
	return nil
}

func (t *countTask) IsFinished() bool { return t.batches >= t.limit }

// gateTask blocks each batch until released, so tests can interleave
// goroutines deterministically.
type gateTask struct {
	started chan struct{}
	release chan struct{}
}

func (t *gateTask) RunBatch(context.Context) error {
	t.started <- struct{}{}
	<-t.release
	return nil
}

func (t *gateTask) IsFinished() bool { return false }

func TestRunToCompletion(t *testing.T) {
	task := &countTask{limit: 5}
	r := runner.New(task)

	if r.Started() {
		t.Fatal("Started = true before any run")
	}
	if r.CurrentState() != runner.NeverRun {
		t.Fatalf("state = %v, want never_run", r.CurrentState())
	}

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if task.batches != 5 {
		t.Fatalf("batches = %d, want 5", task.batches)
	}
	if !r.Finished() || !r.Success() || !r.Stopped() {
		t.Fatalf("Finished = %v, Success = %v, Stopped = %v, want all true",
			r.Finished(), r.Success(), r.Stopped())
	}
	if r.CurrentState() != runner.NotRunning {
		t.Fatalf("state = %v, want not_running", r.CurrentState())
	}

	// Running a finished task is a no-op.
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if task.batches != 5 {
		t.Fatalf("batches = %d after re-run, want 5", task.batches)
	}
}

func TestRunUntilStopsAtPredicate(t *testing.T) {
	task := &countTask{limit: 100}
	r := runner.New(task)

	err := r.RunUntil(context.Background(), func() bool { return task.batches >= 3 })
	if err != nil {
		t.Fatalf("RunUntil: %v", err)
	}
	if task.batches != 3 {
		t.Fatalf("batches = %d, want 3", task.batches)
	}
	if !r.StoppedByPredicate() {
		t.Fatalf("state = %v, want stopped_by_predicate", r.CurrentState())
	}
	if r.Finished() || r.Success() {
		t.Fatalf("Finished = %v, Success = %v, want both false", r.Finished(), r.Success())
	}
	if r.WhyWeStopped() == "" {
		t.Fatal("WhyWeStopped is empty after a predicate stop")
	}

	// The run resumes from where it stopped.
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if task.batches != 100 {
		t.Fatalf("batches = %d, want 100", task.batches)
	}
}

func TestRunForTimesOut(t *testing.T) {
	task := &countTask{limit: 1 << 30}
	r := runner.New(task)

	if err := r.RunFor(context.Background(), 0); err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	if !r.TimedOut() {
		t.Fatalf("state = %v, want timed_out", r.CurrentState())
	}
	if task.batches != 0 {
		t.Fatalf("batches = %d, want 0 with an already-expired deadline", task.batches)
	}
	if r.RunningForHowLong() != 0 {
		t.Fatalf("RunningForHowLong = %v, want 0", r.RunningForHowLong())
	}
	if r.Success() {
		t.Fatal("Success = true after a timeout")
	}
}

func TestKillStopsRunAtBatchBoundary(t *testing.T) {
	task := &gateTask{started: make(chan struct{}), release: make(chan struct{})}
	r := runner.New(task)

	done := make(chan error, 1)
	go func() { done <- r.Run(context.Background()) }()

	<-task.started
	if !r.Running() {
		t.Fatalf("state = %v, want a running state", r.CurrentState())
	}
	r.Kill()
	task.release <- struct{}{}

	if err := <-done; err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !r.Dead() || r.CurrentState() != runner.Dead {
		t.Fatalf("Dead = %v, state = %v, want dead", r.Dead(), r.CurrentState())
	}
	if r.Finished() {
		t.Fatal("Finished = true on a dead runner")
	}
	if r.WhyWeStopped() == "" {
		t.Fatal("WhyWeStopped is empty after a kill")
	}
}

func TestKillIdleRunnerIsDead(t *testing.T) {
	r := runner.New(&countTask{limit: 5})
	r.Kill()
	if !r.Dead() || r.CurrentState() != runner.Dead {
		t.Fatalf("Dead = %v, state = %v, want dead", r.Dead(), r.CurrentState())
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run on a dead runner: %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := runner.New(&countTask{limit: 5})
	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, want context.Canceled", err)
	}
	if !r.Dead() {
		t.Fatal("Dead = false after cancellation")
	}
}

func TestBatchErrorAbortsRun(t *testing.T) {
	boom := errors.New("boom")
	task := &countTask{limit: 5, err: boom}
	r := runner.New(task)

	if err := r.Run(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Run = %v, want the batch error", err)
	}
	if !r.Dead() {
		t.Fatal("Dead = false after a batch error")
	}
}

func TestInitResetsState(t *testing.T) {
	task := &countTask{limit: 5}
	r := runner.New(task)
	r.Kill()

	r.Init()
	if r.Dead() || r.Started() {
		t.Fatalf("Dead = %v, Started = %v after Init, want both false", r.Dead(), r.Started())
	}
	if r.WhyWeStopped() != "" {
		t.Fatalf("WhyWeStopped = %q after Init, want empty", r.WhyWeStopped())
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run after Init: %v", err)
	}
	if !r.Success() {
		t.Fatal("Success = false after a clean run")
	}
}

func TestRunForRecordsDuration(t *testing.T) {
	task := &countTask{limit: 2}
	r := runner.New(task)
	if err := r.RunFor(context.Background(), time.Minute); err != nil {
		t.Fatalf("RunFor: %v", err)
	}
	// The task finishes long before the deadline.
	if !r.Finished() {
		t.Fatal("Finished = false")
	}
	if r.RunningForHowLong() != time.Minute {
		t.Fatalf("RunningForHowLong = %v, want 1m", r.RunningForHowLong())
	}
}

func TestStateStrings(t *testing.T) {
	want := map[runner.State]string{
		runner.NeverRun:           "never_run",
		runner.RunningToFinish:    "running_to_finish",
		runner.RunningFor:         "running_for",
		runner.RunningUntil:       "running_until",
		runner.TimedOut:           "timed_out",
		runner.StoppedByPredicate: "stopped_by_predicate",
		runner.NotRunning:         "not_running",
		runner.Dead:               "dead",
	}
	for s, name := range want {
		if s.String() != name {
			t.Fatalf("State(%d).String() = %q, want %q", s, s.String(), name)
		}
	}
}
