package froidurepin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/semigroups/pkg/element"
	"github.com/matzehuels/semigroups/pkg/runner"
)

// ErrStopped is returned by enumerating queries when the engine stopped
// before discovering enough of the semigroup, typically because it was
// killed.
var ErrStopped = errors.New("enumeration stopped before completion")

// engineTask adapts the engine to the runner's Task interface.
type engineTask[E element.Element[E]] struct {
	s *FroidurePin[E]
}

func (t engineTask[E]) RunBatch(ctx context.Context) error { return t.s.runBatch(ctx) }
func (t engineTask[E]) IsFinished() bool                   { return t.s.isClosed() }

// isClosed reports whether every product of a discovered element by a
// generator has been discovered, i.e. the enumeration is complete.
func (s *FroidurePin[E]) isClosed() bool {
	return s.expandPos >= uint32(len(s.elements))
}

// runBatch discovers up to batchSize new elements. It resumes at the
// saved (expandPos, expandLetter) frontier and suspends mid-row when the
// budget is reached, so progress is preserved exactly across stops.
func (s *FroidurePin[E]) runBatch(ctx context.Context) error {
	budget := len(s.elements) + s.batchSize
	nGens := uint32(len(s.gens))

	for s.expandPos < uint32(len(s.elements)) {
		p := s.expandPos
		for a := s.expandLetter; a < nGens; a++ {
			if s.right.TargetUnchecked(p, a) != Undefined {
				continue
			}
			x, err := s.elements[p].Mul(s.gens[a])
			if err != nil {
				return fmt.Errorf("multiplying position %d by generator %d: %w", p, a, err)
			}
			if q, found := s.find(x); found {
				s.nRules++
				_ = s.right.SetTarget(p, a, q)
			} else {
				q = s.appendProduct(x, p, a)
				_ = s.right.SetTarget(p, a, q)
				if len(s.elements) >= budget {
					// Suspend mid-row; resume at the next letter.
					s.expandLetter = a + 1
					if s.expandLetter >= nGens {
						s.expandLetter = 0
						s.expandPos++
					}
					return nil
				}
			}
		}
		s.expandLetter = 0
		s.expandPos++
	}
	if s.relabelPending {
		s.relabel()
		s.relabelPending = false
	}
	return nil
}

// relabel recomputes the spanning decomposition over the closed right
// Cayley graph. Generators added after longer words were discovered can
// shorten the minimal word of an existing position; a breadth-first pass
// from the generator positions, taking letters in ascending order,
// restores shortlex-minimal words everywhere. Positions, elements, and
// the graph itself are untouched, so the rule count is preserved: edges
// that leave the spanning tree become rules and vice versa, one for one.
func (s *FroidurePin[E]) relabel() {
	n := uint32(len(s.elements))
	if n == 0 {
		return
	}
	seen := make([]bool, n)
	queue := make([]uint32, 0, n)
	for a, p := range s.letterToPos {
		if seen[p] {
			continue
		}
		seen[p] = true
		s.prefix[p] = Undefined
		s.suffix[p] = Undefined
		s.firstLetter[p] = uint32(a)
		s.finalLetter[p] = uint32(a)
		s.length[p] = 1
		queue = append(queue, p)
	}
	nGens := uint32(len(s.gens))
	for head := 0; head < len(queue); head++ {
		p := queue[head]
		for a := uint32(0); a < nGens; a++ {
			q := s.right.TargetUnchecked(p, a)
			if seen[q] {
				continue
			}
			seen[q] = true
			s.prefix[q] = p
			s.finalLetter[q] = a
			s.firstLetter[q] = s.firstLetter[p]
			if s.length[p] == 1 {
				s.suffix[q] = s.letterToPos[a]
			} else {
				s.suffix[q] = s.right.TargetUnchecked(s.suffix[p], a)
			}
			s.length[q] = s.length[p] + 1
			queue = append(queue, q)
		}
	}
	counts := []int{0}
	for _, l := range s.length {
		for len(counts) <= l {
			counts = append(counts, 0)
		}
		counts[l]++
	}
	s.lenCounts = counts
}

// appendProduct records the novel element x = elements[p] * gens[a] and
// returns its position.
func (s *FroidurePin[E]) appendProduct(x E, p, a uint32) uint32 {
	var sfx uint32
	if s.length[p] == 1 {
		sfx = s.letterToPos[a]
	} else {
		// suffix(p) < p and its row is complete or at least defines
		// letter a: the word suffix(p)·a is shorter than the word of x
		// and was therefore processed earlier in breadth-first order.
		sfx = s.right.TargetUnchecked(s.suffix[p], a)
	}
	return s.appendElement(x, p, a, sfx, s.firstLetter[p], s.length[p]+1)
}

// ensureFinished enumerates to completion, returning an error if the run
// stopped early (killed or cancelled).
func (s *FroidurePin[E]) ensureFinished(ctx context.Context) error {
	if s.isClosed() {
		return nil
	}
	if err := s.run.Run(ctx); err != nil {
		return err
	}
	if !s.isClosed() {
		return fmt.Errorf("%w: %s", ErrStopped, s.run.WhyWeStopped())
	}
	return nil
}

// ensureAtLeast enumerates until at least n elements are discovered or
// the enumeration completes, whichever comes first.
func (s *FroidurePin[E]) ensureAtLeast(ctx context.Context, n int) error {
	if len(s.elements) >= n || s.isClosed() {
		return nil
	}
	if err := s.run.RunUntil(ctx, func() bool { return len(s.elements) >= n }); err != nil {
		return err
	}
	if len(s.elements) < n && !s.isClosed() {
		return fmt.Errorf("%w: %s", ErrStopped, s.run.WhyWeStopped())
	}
	return nil
}

// Run enumerates until the semigroup is fully discovered, the context is
// cancelled, or the engine is killed.
func (s *FroidurePin[E]) Run(ctx context.Context) error { return s.run.Run(ctx) }

// RunFor enumerates for at most d, leaving the engine resumable where it
// stopped.
func (s *FroidurePin[E]) RunFor(ctx context.Context, d time.Duration) error {
	return s.run.RunFor(ctx, d)
}

// RunUntil enumerates until pred returns true at a batch boundary.
func (s *FroidurePin[E]) RunUntil(ctx context.Context, pred func() bool) error {
	return s.run.RunUntil(ctx, pred)
}

// Enumerate runs until at least limit elements are discovered or the
// semigroup is exhausted.
func (s *FroidurePin[E]) Enumerate(ctx context.Context, limit int) error {
	if len(s.elements) >= limit || s.isClosed() {
		return nil
	}
	return s.run.RunUntil(ctx, func() bool { return len(s.elements) >= limit })
}

// Kill requests that any active run stop at the next batch boundary.
// Safe to call from any goroutine.
func (s *FroidurePin[E]) Kill() { s.run.Kill() }

// CurrentState returns the controller state.
func (s *FroidurePin[E]) CurrentState() runner.State { return s.run.CurrentState() }

// Running reports whether an enumeration is active.
func (s *FroidurePin[E]) Running() bool { return s.run.Running() }

// Started reports whether enumeration was ever started.
func (s *FroidurePin[E]) Started() bool { return s.run.Started() }

// Finished reports whether the semigroup is fully enumerated and the
// engine is not dead.
func (s *FroidurePin[E]) Finished() bool { return s.run.Finished() }

// Success reports whether enumeration completed without timeout,
// predicate stop, or kill.
func (s *FroidurePin[E]) Success() bool { return s.run.Success() }

// Stopped reports whether the engine is finished, timed out, dead, or
// predicate-stopped.
func (s *FroidurePin[E]) Stopped() bool { return s.run.Stopped() }

// Dead reports whether the engine was killed or a batch aborted.
func (s *FroidurePin[E]) Dead() bool { return s.run.Dead() }

// TimedOut reports whether the last run stopped on its RunFor deadline.
func (s *FroidurePin[E]) TimedOut() bool { return s.run.TimedOut() }

// StoppedByPredicate reports whether the last run stopped on its
// RunUntil predicate.
func (s *FroidurePin[E]) StoppedByPredicate() bool { return s.run.StoppedByPredicate() }

// WhyWeStopped returns a human-readable reason for the last stop.
func (s *FroidurePin[E]) WhyWeStopped() string { return s.run.WhyWeStopped() }
