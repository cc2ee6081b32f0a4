package froidurepin

import (
	"context"
	"fmt"
)

// CurrentMinimalFactorisation returns the minimal word (over generator
// indices) of an already-discovered position, without enumerating. The
// word is read off the spanning tree, so it costs O(length) with no
// multiplications.
func (s *FroidurePin[E]) CurrentMinimalFactorisation(p uint32) ([]uint32, error) {
	if err := s.validatePosition(p); err != nil {
		return nil, err
	}
	w := make([]uint32, s.length[p])
	for i := len(w) - 1; i >= 0; i-- {
		w[i] = s.finalLetter[p]
		p = s.prefix[p]
	}
	return w, nil
}

// MinimalFactorisation enumerates until position p exists and returns
// its minimal word. Minimality is in the shortlex sense induced by the
// breadth-first discovery order.
func (s *FroidurePin[E]) MinimalFactorisation(ctx context.Context, p uint32) ([]uint32, error) {
	if err := s.ensureAtLeast(ctx, int(p)+1); err != nil {
		return nil, err
	}
	return s.CurrentMinimalFactorisation(p)
}

// Factorisation enumerates until position p exists and returns a word
// equal to the element at p. The word happens to be minimal; callers
// needing that guarantee should use [FroidurePin.MinimalFactorisation].
func (s *FroidurePin[E]) Factorisation(ctx context.Context, p uint32) ([]uint32, error) {
	return s.MinimalFactorisation(ctx, p)
}

// ElementFactorisation enumerates as far as needed and returns a minimal
// word for the element x, or ErrNotAnElement.
func (s *FroidurePin[E]) ElementFactorisation(ctx context.Context, x E) ([]uint32, error) {
	p, err := s.Position(ctx, x)
	if err != nil {
		return nil, err
	}
	return s.CurrentMinimalFactorisation(p)
}

// CurrentPositionOfWord evaluates the word in the right Cayley graph as
// discovered so far. It returns [Undefined] when the walk crosses an
// undefined slot; that does not decide non-membership unless the engine
// is finished.
func (s *FroidurePin[E]) CurrentPositionOfWord(w []uint32) (uint32, error) {
	if err := s.validateWord(w); err != nil {
		return Undefined, err
	}
	p := s.letterToPos[w[0]]
	for _, a := range w[1:] {
		p = s.right.TargetUnchecked(p, a)
		if p == Undefined {
			return Undefined, nil
		}
	}
	return p, nil
}

// PositionOfWord enumerates as far as needed and returns the position of
// the product of the word's generators.
func (s *FroidurePin[E]) PositionOfWord(ctx context.Context, w []uint32) (uint32, error) {
	if err := s.validateWord(w); err != nil {
		return Undefined, err
	}
	p := s.letterToPos[w[0]]
	for _, a := range w[1:] {
		t := s.right.TargetUnchecked(p, a)
		if t == Undefined {
			if err := s.ensureFinished(ctx); err != nil {
				return Undefined, err
			}
			t = s.right.TargetUnchecked(p, a)
			if t == Undefined {
				return Undefined, fmt.Errorf("word walk left the discovered graph: %w", ErrStopped)
			}
		}
		p = t
	}
	return p, nil
}

// ToElement multiplies out the word over the generators without
// enumerating.
func (s *FroidurePin[E]) ToElement(w []uint32) (E, error) {
	var zero E
	if err := s.validateWord(w); err != nil {
		return zero, err
	}
	x := s.gens[w[0]]
	for _, a := range w[1:] {
		var err error
		x, err = x.Mul(s.gens[a])
		if err != nil {
			return zero, err
		}
	}
	return x, nil
}

// EqualTo enumerates as far as needed and reports whether two words
// denote the same element.
func (s *FroidurePin[E]) EqualTo(ctx context.Context, u, v []uint32) (bool, error) {
	pu, err := s.PositionOfWord(ctx, u)
	if err != nil {
		return false, err
	}
	pv, err := s.PositionOfWord(ctx, v)
	if err != nil {
		return false, err
	}
	return pu == pv, nil
}

// CurrentNormalForms returns the minimal words of all discovered
// positions, in discovery order. With breadth-first discovery the words
// appear in shortlex order.
func (s *FroidurePin[E]) CurrentNormalForms() [][]uint32 {
	out := make([][]uint32, len(s.elements))
	for p := range out {
		w, _ := s.CurrentMinimalFactorisation(uint32(p))
		out[p] = w
	}
	return out
}

// NormalForms enumerates to completion and returns one minimal word per
// element.
func (s *FroidurePin[E]) NormalForms(ctx context.Context) ([][]uint32, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return nil, err
	}
	return s.CurrentNormalForms(), nil
}

// CurrentRules returns the defining relations discoverable from the
// structure found so far. Each rule's left-hand side is a word that is
// not a spanning-tree word, paired with the minimal word of the same
// element. The slice has exactly [FroidurePin.CurrentNumberOfRules]
// entries.
func (s *FroidurePin[E]) CurrentRules() []Rule {
	rules := make([]Rule, 0, s.nRules)

	// Generators that collapsed onto an earlier position.
	for a, pos := range s.letterToPos {
		if s.length[pos] != 1 || s.finalLetter[pos] != uint32(a) {
			rhs, _ := s.CurrentMinimalFactorisation(pos)
			rules = append(rules, Rule{LHS: []uint32{uint32(a)}, RHS: rhs})
		}
	}

	// Non-tree edges of the right Cayley graph: word(p)·a is a redundant
	// word for its target.
	for p := uint32(0); p < s.right.NumberOfNodes(); p++ {
		for a, t := s.right.NextLabelTarget(p, 0); a != Undefined; a, t = s.right.NextLabelTarget(p, a+1) {
			if s.prefix[t] == p && s.finalLetter[t] == a {
				continue
			}
			lhs, _ := s.CurrentMinimalFactorisation(p)
			lhs = append(lhs, a)
			rhs, _ := s.CurrentMinimalFactorisation(t)
			rules = append(rules, Rule{LHS: lhs, RHS: rhs})
		}
	}
	return rules
}

// Rules enumerates to completion and returns the defining relations of
// the semigroup with respect to its generators.
func (s *FroidurePin[E]) Rules(ctx context.Context) ([]Rule, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return nil, err
	}
	return s.CurrentRules(), nil
}
