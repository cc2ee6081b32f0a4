package froidurepin

import (
	"context"
	"fmt"
	"sort"

	"github.com/matzehuels/semigroups/pkg/element"
	"github.com/matzehuels/semigroups/pkg/wordgraph"
)

// CurrentSize returns the number of elements discovered so far.
func (s *FroidurePin[E]) CurrentSize() int { return len(s.elements) }

// Size enumerates to completion and returns the order of the semigroup.
func (s *FroidurePin[E]) Size(ctx context.Context) (int, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return 0, err
	}
	return len(s.elements), nil
}

// Degree returns the common degree of the generators, or -1 if no
// generator has been added yet.
func (s *FroidurePin[E]) Degree() int { return s.degree }

// NumberOfGenerators returns the number of generators, counting
// duplicates.
func (s *FroidurePin[E]) NumberOfGenerators() int { return len(s.gens) }

// Generator returns the i-th generator as added.
func (s *FroidurePin[E]) Generator(i uint32) (E, error) {
	var zero E
	if err := s.validateLetter(i); err != nil {
		return zero, err
	}
	return s.gens[i], nil
}

// Generators returns a copy of the generator list in insertion order.
func (s *FroidurePin[E]) Generators() []E {
	return append([]E(nil), s.gens...)
}

// PositionOfGenerator returns the discovery position of the i-th
// generator. Duplicate generators share a position.
func (s *FroidurePin[E]) PositionOfGenerator(i uint32) (uint32, error) {
	if err := s.validateLetter(i); err != nil {
		return Undefined, err
	}
	return s.letterToPos[i], nil
}

// CurrentNumberOfRules returns the number of defining relations found so
// far.
func (s *FroidurePin[E]) CurrentNumberOfRules() int { return s.nRules }

// NumberOfRules enumerates to completion and returns the total number of
// defining relations.
func (s *FroidurePin[E]) NumberOfRules(ctx context.Context) (int, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return 0, err
	}
	return s.nRules, nil
}

// CurrentlyContainsOne reports whether the identity of the generators'
// degree has been discovered so far.
func (s *FroidurePin[E]) CurrentlyContainsOne() bool { return s.onePos != Undefined }

// ContainsOne enumerates to completion and reports whether the semigroup
// contains the identity, i.e. is a monoid.
func (s *FroidurePin[E]) ContainsOne(ctx context.Context) (bool, error) {
	if s.onePos != Undefined {
		return true, nil
	}
	if err := s.ensureFinished(ctx); err != nil {
		return false, err
	}
	return s.onePos != Undefined, nil
}

// Prefix returns the position of the longest proper prefix of the word
// of p, or [Undefined] when p is a generator.
func (s *FroidurePin[E]) Prefix(p uint32) (uint32, error) {
	if err := s.validatePosition(p); err != nil {
		return Undefined, err
	}
	return s.prefix[p], nil
}

// Suffix returns the position of the longest proper suffix of the word
// of p, or [Undefined] when p is a generator.
func (s *FroidurePin[E]) Suffix(p uint32) (uint32, error) {
	if err := s.validatePosition(p); err != nil {
		return Undefined, err
	}
	return s.suffix[p], nil
}

// FirstLetter returns the first letter of the word of p.
func (s *FroidurePin[E]) FirstLetter(p uint32) (uint32, error) {
	if err := s.validatePosition(p); err != nil {
		return Undefined, err
	}
	return s.firstLetter[p], nil
}

// FinalLetter returns the final letter of the word of p.
func (s *FroidurePin[E]) FinalLetter(p uint32) (uint32, error) {
	if err := s.validatePosition(p); err != nil {
		return Undefined, err
	}
	return s.finalLetter[p], nil
}

// CurrentLength returns the length of the minimal word of an
// already-discovered position. Elements are discovered in breadth-first
// order, so this is the geodesic length of p in the right Cayley graph.
func (s *FroidurePin[E]) CurrentLength(p uint32) (int, error) {
	if err := s.validatePosition(p); err != nil {
		return 0, err
	}
	return s.length[p], nil
}

// Length enumerates until position p exists and returns its minimal word
// length.
func (s *FroidurePin[E]) Length(ctx context.Context, p uint32) (int, error) {
	if err := s.ensureAtLeast(ctx, int(p)+1); err != nil {
		return 0, err
	}
	return s.CurrentLength(p)
}

// CurrentMaxWordLength returns the largest minimal word length among
// discovered elements, or 0 when nothing has been discovered.
func (s *FroidurePin[E]) CurrentMaxWordLength() int { return len(s.lenCounts) - 1 }

// CurrentNumberOfElementsOfLength returns how many discovered elements
// have minimal word length l. The count for the current maximum length
// may still grow while enumeration is unfinished.
func (s *FroidurePin[E]) CurrentNumberOfElementsOfLength(l int) int {
	if l < 0 || l >= len(s.lenCounts) {
		return 0
	}
	return s.lenCounts[l]
}

// NumberOfElementsOfLength enumerates to completion and returns how many
// elements have minimal word length l.
func (s *FroidurePin[E]) NumberOfElementsOfLength(ctx context.Context, l int) (int, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return 0, err
	}
	return s.CurrentNumberOfElementsOfLength(l), nil
}

// NumberOfElementsOfLengthRange enumerates to completion and returns how
// many elements have minimal word length in the half-open range
// [min, max).
func (s *FroidurePin[E]) NumberOfElementsOfLengthRange(ctx context.Context, min, max int) (int, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return 0, err
	}
	n := 0
	for l := min; l < max && l < len(s.lenCounts); l++ {
		if l >= 0 {
			n += s.lenCounts[l]
		}
	}
	return n, nil
}

// CurrentRightCayleyGraph returns a copy of the right Cayley graph over
// the positions discovered so far. Rows at or beyond the enumeration
// frontier may contain undefined slots.
func (s *FroidurePin[E]) CurrentRightCayleyGraph() *wordgraph.Graph {
	return s.right.Copy()
}

// RightCayleyGraph enumerates to completion and returns a copy of the
// full right Cayley graph: node p has an edge labeled a to the position
// of elements[p] * gens[a].
func (s *FroidurePin[E]) RightCayleyGraph(ctx context.Context) (*wordgraph.Graph, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return nil, err
	}
	return s.right.Copy(), nil
}

// CurrentLeftCayleyGraph returns the left Cayley graph over the
// positions discovered so far: node p has an edge labeled a to the
// position of gens[a] * elements[p], when that product has been
// discovered.
func (s *FroidurePin[E]) CurrentLeftCayleyGraph() *wordgraph.Graph {
	return s.buildLeft()
}

// LeftCayleyGraph enumerates to completion and returns a copy of the
// full left Cayley graph.
func (s *FroidurePin[E]) LeftCayleyGraph(ctx context.Context) (*wordgraph.Graph, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return nil, err
	}
	if s.left == nil {
		s.left = s.buildLeft()
	}
	return s.left.Copy(), nil
}

// buildLeft derives the left Cayley graph from the right one without any
// multiplications: a*x for x = first(x)·rest factors through
// (a*prefix(x))·final(x), and for generators through the right graph
// directly.
func (s *FroidurePin[E]) buildLeft() *wordgraph.Graph {
	n := uint32(len(s.elements))
	nGens := uint32(len(s.gens))
	g := wordgraph.New(n, nGens)
	for p := uint32(0); p < n; p++ {
		for a := uint32(0); a < nGens; a++ {
			var t uint32
			if s.prefix[p] == Undefined {
				// p is a generator: a*p = right(letterToPos[a], finalLetter[p]).
				t = s.right.TargetUnchecked(s.letterToPos[a], s.finalLetter[p])
			} else {
				lu := g.TargetUnchecked(s.prefix[p], a)
				if lu == Undefined {
					continue
				}
				t = s.right.TargetUnchecked(lu, s.finalLetter[p])
			}
			if t != Undefined {
				_ = g.SetTarget(p, a, t)
			}
		}
	}
	return g
}

// At returns the element at position p among those discovered so far.
func (s *FroidurePin[E]) At(p uint32) (E, error) {
	var zero E
	if err := s.validatePosition(p); err != nil {
		return zero, err
	}
	return s.elements[p], nil
}

// CurrentElements returns a copy of the discovered elements in discovery
// order.
func (s *FroidurePin[E]) CurrentElements() []E {
	return append([]E(nil), s.elements...)
}

// Elements enumerates to completion and returns all elements in
// discovery order.
func (s *FroidurePin[E]) Elements(ctx context.Context) ([]E, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return nil, err
	}
	return s.CurrentElements(), nil
}

// CurrentPosition returns the discovery position of x among the elements
// found so far, or [Undefined] when x has not been discovered. A
// [Undefined] result does not decide membership unless the engine is
// finished.
func (s *FroidurePin[E]) CurrentPosition(x E) uint32 {
	pos, found := s.find(x)
	if !found {
		return Undefined
	}
	return pos
}

// Position enumerates as far as needed and returns the discovery
// position of x, or ErrNotAnElement when x is not in the semigroup.
func (s *FroidurePin[E]) Position(ctx context.Context, x E) (uint32, error) {
	if s.degree >= 0 && x.Degree() != s.degree {
		return Undefined, fmt.Errorf("element of degree %d, engine of degree %d: %w",
			x.Degree(), s.degree, element.ErrDegreeMismatch)
	}
	if pos, found := s.find(x); found {
		return pos, nil
	}
	if err := s.ensureFinished(ctx); err != nil {
		return Undefined, err
	}
	pos, found := s.find(x)
	if !found {
		return Undefined, ErrNotAnElement
	}
	return pos, nil
}

// Contains enumerates as far as needed and decides membership of x.
// Unlike [FroidurePin.Position] a degree mismatch is not an error: such
// an element is simply not a member.
func (s *FroidurePin[E]) Contains(ctx context.Context, x E) (bool, error) {
	if s.degree >= 0 && x.Degree() != s.degree {
		return false, nil
	}
	if _, found := s.find(x); found {
		return true, nil
	}
	if err := s.ensureFinished(ctx); err != nil {
		return false, err
	}
	_, found := s.find(x)
	return found, nil
}

// ensureSorted builds the sorted-order caches. Requires a finished
// enumeration.
func (s *FroidurePin[E]) ensureSorted() {
	if s.sorted != nil {
		return
	}
	n := len(s.elements)
	s.sorted = make([]uint32, n)
	for i := range s.sorted {
		s.sorted[i] = uint32(i)
	}
	sort.Slice(s.sorted, func(i, j int) bool {
		return s.elements[s.sorted[i]].Less(s.elements[s.sorted[j]])
	})
	s.toSorted = make([]uint32, n)
	for i, p := range s.sorted {
		s.toSorted[p] = uint32(i)
	}
}

// SortedPosition enumerates to completion and returns the rank of x in
// the type's total element order, or ErrNotAnElement.
func (s *FroidurePin[E]) SortedPosition(ctx context.Context, x E) (uint32, error) {
	p, err := s.Position(ctx, x)
	if err != nil {
		return Undefined, err
	}
	return s.ToSortedPosition(ctx, p)
}

// ToSortedPosition enumerates to completion and converts a discovery
// position to its rank in sorted order.
func (s *FroidurePin[E]) ToSortedPosition(ctx context.Context, p uint32) (uint32, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return Undefined, err
	}
	if err := s.validatePosition(p); err != nil {
		return Undefined, err
	}
	s.ensureSorted()
	return s.toSorted[p], nil
}

// SortedAt enumerates to completion and returns the element of rank i in
// sorted order.
func (s *FroidurePin[E]) SortedAt(ctx context.Context, i uint32) (E, error) {
	var zero E
	if err := s.ensureFinished(ctx); err != nil {
		return zero, err
	}
	if err := s.validatePosition(i); err != nil {
		return zero, err
	}
	s.ensureSorted()
	return s.elements[s.sorted[i]], nil
}

// SortedElements enumerates to completion and returns all elements in
// the type's total order.
func (s *FroidurePin[E]) SortedElements(ctx context.Context) ([]E, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return nil, err
	}
	s.ensureSorted()
	out := make([]E, len(s.sorted))
	for i, p := range s.sorted {
		out[i] = s.elements[p]
	}
	return out, nil
}

// IsIdempotent enumerates as far as needed and reports whether the
// element at position p squares to itself.
func (s *FroidurePin[E]) IsIdempotent(ctx context.Context, p uint32) (bool, error) {
	if err := s.ensureAtLeast(ctx, int(p)+1); err != nil {
		return false, err
	}
	if err := s.validatePosition(p); err != nil {
		return false, err
	}
	sq, err := s.ProductByReduction(ctx, p, p)
	if err != nil {
		return false, err
	}
	return sq == p, nil
}

// NumberOfIdempotents enumerates to completion and returns the number of
// idempotent elements.
func (s *FroidurePin[E]) NumberOfIdempotents(ctx context.Context) (int, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return 0, err
	}
	if s.nIdempotents < 0 {
		n := 0
		for p := uint32(0); p < uint32(len(s.elements)); p++ {
			sq, err := s.ProductByReduction(ctx, p, p)
			if err != nil {
				return 0, err
			}
			if sq == p {
				n++
			}
		}
		s.nIdempotents = n
	}
	return s.nIdempotents, nil
}

// Idempotents enumerates to completion and returns the positions of all
// idempotent elements in discovery order.
func (s *FroidurePin[E]) Idempotents(ctx context.Context) ([]uint32, error) {
	if err := s.ensureFinished(ctx); err != nil {
		return nil, err
	}
	var out []uint32
	for p := uint32(0); p < uint32(len(s.elements)); p++ {
		sq, err := s.ProductByReduction(ctx, p, p)
		if err != nil {
			return nil, err
		}
		if sq == p {
			out = append(out, p)
		}
	}
	s.nIdempotents = len(out)
	return out, nil
}
