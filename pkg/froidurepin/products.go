package froidurepin

import (
	"context"
	"fmt"
)

// ProductByReduction returns the position of elements[i] * elements[j]
// by walking the minimal word of j from i in the right Cayley graph,
// enumerating when the walk leaves the discovered region. No element
// multiplications are performed.
func (s *FroidurePin[E]) ProductByReduction(ctx context.Context, i, j uint32) (uint32, error) {
	if err := s.validatePosition(i); err != nil {
		return Undefined, err
	}
	if err := s.validatePosition(j); err != nil {
		return Undefined, err
	}
	w, err := s.CurrentMinimalFactorisation(j)
	if err != nil {
		return Undefined, err
	}
	p := i
	for _, a := range w {
		t := s.right.TargetUnchecked(p, a)
		if t == Undefined {
			if err := s.ensureFinished(ctx); err != nil {
				return Undefined, err
			}
			t = s.right.TargetUnchecked(p, a)
			if t == Undefined {
				return Undefined, fmt.Errorf("product walk left the discovered graph: %w", ErrStopped)
			}
		}
		p = t
	}
	return p, nil
}

// FastProduct returns the position of elements[i] * elements[j], choosing
// between graph reduction and one direct multiplication followed by a
// lookup. Reduction wins when the words involved are short relative to
// the cost of multiplying two elements of this degree.
func (s *FroidurePin[E]) FastProduct(ctx context.Context, i, j uint32) (uint32, error) {
	if err := s.validatePosition(i); err != nil {
		return Undefined, err
	}
	if err := s.validatePosition(j); err != nil {
		return Undefined, err
	}
	if s.length[i]+s.length[j] < s.degree {
		return s.ProductByReduction(ctx, i, j)
	}
	x, err := s.elements[i].Mul(s.elements[j])
	if err != nil {
		return Undefined, err
	}
	if p, found := s.find(x); found {
		return p, nil
	}
	if err := s.ensureFinished(ctx); err != nil {
		return Undefined, err
	}
	p, found := s.find(x)
	if !found {
		// Closure guarantees the product of two elements is discovered
		// once enumeration finishes.
		return Undefined, ErrNotAnElement
	}
	return p, nil
}
