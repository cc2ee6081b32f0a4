// Package froidurepin enumerates a finite semigroup or monoid from a
// finite generating set using the Froidure–Pin algorithm.
//
// The engine discovers elements in breadth-first order over words in the
// generators, assigning each distinct element a position (its discovery
// index). Alongside the elements it maintains the right Cayley graph, a
// spanning decomposition (prefix, suffix, first and final letter) giving
// O(length) factorisation of any discovered element, per-position minimal
// word lengths, and a count of defining relations ("rules") discovered as
// duplicate products.
//
// Enumeration is incremental and cooperative: the engine embeds a
// pkg/runner controller, advances in batches of a configurable number of
// new elements, and can be stopped by timeout, predicate, context
// cancellation, or a cross-goroutine Kill. Queries come in pairs: a
// Current* variant reporting a snapshot without enumerating, and a plain
// variant that first enumerates as far as needed (these take a
// context.Context and may block).
//
// An engine is a single-writer state machine; see the package runner
// documentation for which calls are safe concurrently with an active run.
package froidurepin

import (
	"context"
	"fmt"

	"github.com/matzehuels/semigroups/pkg/element"
	"github.com/matzehuels/semigroups/pkg/runner"
	"github.com/matzehuels/semigroups/pkg/wordgraph"
)

// Undefined is the sentinel for an absent position, mirroring
// wordgraph.Undefined.
const Undefined = wordgraph.Undefined

// DefaultBatchSize is the default number of new elements discovered per
// cooperative batch.
const DefaultBatchSize = 8192

// Rule is a pair of words over generator indices proven to denote the
// same element. Together with the generators, the rules present the
// enumerated semigroup; they are sound but not guaranteed minimal or
// confluent.
type Rule struct {
	LHS []uint32
	RHS []uint32
}

// FroidurePin enumerates the semigroup generated by elements of type E.
// Create instances with [New]; the zero value is unusable.
type FroidurePin[E element.Element[E]] struct {
	run       *runner.Runner
	batchSize int

	degree int // -1 until the first generator fixes it
	id     E   // identity of that degree, for contains-one tests

	gens        []E      // generators as added, duplicates retained
	letterToPos []uint32 // letter -> discovery position

	elements []E
	buckets  map[uint64][]uint32 // element hash -> candidate positions

	right       *wordgraph.Graph // right Cayley graph over discovered positions
	prefix      []uint32
	suffix      []uint32
	firstLetter []uint32
	finalLetter []uint32
	length      []int
	lenCounts   []int // lenCounts[l] = elements with minimal word length l

	nRules int
	onePos uint32

	// Enumeration frontier: the next (position, letter) pair whose
	// product may be missing. Rows before expandPos are fully defined.
	expandPos    uint32
	expandLetter uint32

	// Set when added generators may have created shorter words for
	// already-discovered positions; cleared by the relabel pass that
	// runs once the scan closes.
	relabelPending bool

	// Lazy caches, invalidated by AddGenerators and Init.
	left         *wordgraph.Graph
	sorted       []uint32 // discovery positions in element order
	toSorted     []uint32 // inverse of sorted
	nIdempotents int      // -1 when not yet counted
}

// Option configures a [FroidurePin] at construction.
type Option func(*config)

type config struct {
	batchSize int
	reserve   int
}

// WithBatchSize sets the number of new elements discovered per
// cooperative batch. Smaller batches improve cancellation and timeout
// responsiveness at the cost of per-batch overhead.
func WithBatchSize(n int) Option {
	return func(c *config) { c.batchSize = n }
}

// WithReserve pre-sizes internal tables for an expected number of
// elements.
func WithReserve(n int) Option {
	return func(c *config) { c.reserve = n }
}

// New creates an engine over the given generators. Generators must all
// have the same degree; duplicates collapse onto one discovered position.
// The generator slice may be empty, in which case the engine enumerates
// the empty semigroup until generators are added.
func New[E element.Element[E]](gens []E, opts ...Option) (*FroidurePin[E], error) {
	cfg := config{batchSize: DefaultBatchSize}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.batchSize < 1 {
		return nil, fmt.Errorf("batch size %d: must be at least 1", cfg.batchSize)
	}

	s := &FroidurePin[E]{
		batchSize:    cfg.batchSize,
		degree:       -1,
		buckets:      make(map[uint64][]uint32),
		right:        wordgraph.New(0, 0),
		lenCounts:    []int{0},
		onePos:       Undefined,
		nIdempotents: -1,
	}
	s.run = runner.New(engineTask[E]{s})

	if err := s.AddGenerators(gens); err != nil {
		return nil, err
	}
	if cfg.reserve > 0 {
		s.Reserve(cfg.reserve)
	}
	return s, nil
}

// AddGenerator appends one generator and resumes enumeration bookkeeping
// from the existing discovered frontier. See [FroidurePin.AddGenerators].
func (s *FroidurePin[E]) AddGenerator(x E) error {
	return s.AddGenerators([]E{x})
}

// AddGenerators appends generators to the engine. Existing positions are
// preserved; enumeration continues from the current discovered set, and
// the resulting semigroup equals enumerating from scratch over the union
// of the generator sets. A generator equal to an already-discovered
// element gets no new position. Must not be called during an active run.
func (s *FroidurePin[E]) AddGenerators(gens []E) error {
	if len(gens) == 0 {
		return nil
	}
	for _, x := range gens {
		if s.degree >= 0 && x.Degree() != s.degree {
			return fmt.Errorf("adding generator of degree %d to engine of degree %d: %w",
				x.Degree(), s.degree, element.ErrDegreeMismatch)
		}
	}
	if s.degree < 0 {
		s.degree = gens[0].Degree()
		s.id = gens[0].One()
	}

	s.invalidateCaches()
	s.rebuildRight(uint32(len(s.gens) + len(gens)))

	for _, x := range gens {
		letter := uint32(len(s.gens))
		s.gens = append(s.gens, x)
		if pos, found := s.find(x); found {
			// Duplicate generator, or an element discovered earlier:
			// collapse onto the existing position and record the rule
			// equating the new letter with that position's word.
			s.letterToPos = append(s.letterToPos, pos)
			s.nRules++
		} else {
			pos = s.appendElement(x, Undefined, letter, Undefined, letter, 1)
			s.letterToPos = append(s.letterToPos, pos)
		}
	}

	// New letters leave gaps in previously completed rows; rescan from
	// the start. Defined slots are skipped, so this costs one pass over
	// the table, not a re-enumeration.
	s.expandPos = 0
	s.expandLetter = 0

	// If any discovered element has a word of length at least 2, a new
	// letter can supply a shorter word for it, either by naming it
	// directly or by opening a shorter route. Recorded lengths and
	// decompositions are revised once the rescan closes.
	if len(s.lenCounts) > 2 {
		s.relabelPending = true
	}
	return nil
}

// Closure adds those of the given elements not already in the semigroup,
// enumerating as needed to decide membership. The result equals
// enumerating from scratch over the union of the generators and the new
// elements.
func (s *FroidurePin[E]) Closure(ctx context.Context, gens []E) error {
	for _, x := range gens {
		contained, err := s.Contains(ctx, x)
		if err != nil {
			return err
		}
		if !contained {
			if err := s.AddGenerator(x); err != nil {
				return err
			}
		}
	}
	return nil
}

// Copy returns a deep copy of the engine sharing no mutable state with
// the receiver. The copy keeps all discovered structure; its controller
// starts fresh in the never-run state.
func (s *FroidurePin[E]) Copy() *FroidurePin[E] {
	cp := &FroidurePin[E]{
		batchSize:      s.batchSize,
		degree:         s.degree,
		id:             s.id,
		gens:           append([]E(nil), s.gens...),
		letterToPos:    append([]uint32(nil), s.letterToPos...),
		elements:       append([]E(nil), s.elements...),
		buckets:        make(map[uint64][]uint32, len(s.buckets)),
		right:          s.right.Copy(),
		prefix:         append([]uint32(nil), s.prefix...),
		suffix:         append([]uint32(nil), s.suffix...),
		firstLetter:    append([]uint32(nil), s.firstLetter...),
		finalLetter:    append([]uint32(nil), s.finalLetter...),
		length:         append([]int(nil), s.length...),
		lenCounts:      append([]int(nil), s.lenCounts...),
		nRules:         s.nRules,
		onePos:         s.onePos,
		expandPos:      s.expandPos,
		expandLetter:   s.expandLetter,
		relabelPending: s.relabelPending,
		nIdempotents:   s.nIdempotents,
	}
	for h, b := range s.buckets {
		cp.buckets[h] = append([]uint32(nil), b...)
	}
	if s.left != nil {
		cp.left = s.left.Copy()
	}
	if s.sorted != nil {
		cp.sorted = append([]uint32(nil), s.sorted...)
		cp.toSorted = append([]uint32(nil), s.toSorted...)
	}
	cp.run = runner.New(engineTask[E]{cp})
	return cp
}

// CopyAddGenerators returns a copy of the engine with the given
// generators appended; the receiver is unchanged.
func (s *FroidurePin[E]) CopyAddGenerators(gens []E) (*FroidurePin[E], error) {
	cp := s.Copy()
	if err := cp.AddGenerators(gens); err != nil {
		return nil, err
	}
	return cp, nil
}

// CopyClosure returns a copy of the engine closed over the given
// elements; the receiver is unchanged.
func (s *FroidurePin[E]) CopyClosure(ctx context.Context, gens []E) (*FroidurePin[E], error) {
	cp := s.Copy()
	if err := cp.Closure(ctx, gens); err != nil {
		return nil, err
	}
	return cp, nil
}

// Init discards all enumeration progress and returns the engine to its
// freshly constructed state over the same generator list. Must not be
// called during an active run.
func (s *FroidurePin[E]) Init() error {
	gens := s.gens

	s.gens = nil
	s.letterToPos = nil
	s.elements = nil
	s.buckets = make(map[uint64][]uint32)
	s.right = wordgraph.New(0, 0)
	s.prefix = nil
	s.suffix = nil
	s.firstLetter = nil
	s.finalLetter = nil
	s.length = nil
	s.lenCounts = []int{0}
	s.nRules = 0
	s.onePos = Undefined
	s.expandPos = 0
	s.expandLetter = 0
	s.relabelPending = false
	s.invalidateCaches()

	s.run.Init()
	return s.AddGenerators(gens)
}

// Reserve pre-sizes the discovery tables for an expected total of n
// elements: the element slice, the hash buckets, and the right Cayley
// graph's node table.
func (s *FroidurePin[E]) Reserve(n int) {
	if n <= cap(s.elements) {
		return
	}
	elements := make([]E, len(s.elements), n)
	copy(elements, s.elements)
	s.elements = elements

	buckets := make(map[uint64][]uint32, n)
	for h, b := range s.buckets {
		buckets[h] = b
	}
	s.buckets = buckets

	s.right.Reserve(uint32(n))
}

// BatchSize returns the number of new elements discovered per batch.
func (s *FroidurePin[E]) BatchSize() int { return s.batchSize }

// SetBatchSize sets the number of new elements discovered per batch.
func (s *FroidurePin[E]) SetBatchSize(n int) error {
	if n < 1 {
		return fmt.Errorf("batch size %d: must be at least 1", n)
	}
	s.batchSize = n
	return nil
}

// invalidateCaches drops structures derived from a completed
// enumeration.
func (s *FroidurePin[E]) invalidateCaches() {
	s.left = nil
	s.sorted = nil
	s.toSorted = nil
	s.nIdempotents = -1
}

// rebuildRight replaces the right Cayley graph with one of the given
// out-degree, copying all defined edges.
func (s *FroidurePin[E]) rebuildRight(outDegree uint32) {
	g := wordgraph.New(s.right.NumberOfNodes(), outDegree)
	for p := uint32(0); p < s.right.NumberOfNodes(); p++ {
		for a, t := s.right.NextLabelTarget(p, 0); a != Undefined; a, t = s.right.NextLabelTarget(p, a+1) {
			_ = g.SetTarget(p, a, t)
		}
	}
	s.right = g
}

// find locates a previously discovered element equal to x.
func (s *FroidurePin[E]) find(x E) (uint32, bool) {
	for _, pos := range s.buckets[x.Hash()] {
		if s.elements[pos].Equal(x) {
			return pos, true
		}
	}
	return Undefined, false
}

// appendElement assigns the next position to x and records its spanning
// decomposition. It returns the new position.
func (s *FroidurePin[E]) appendElement(x E, pfx, fin, sfx, first uint32, ln int) uint32 {
	pos := uint32(len(s.elements))
	s.elements = append(s.elements, x)
	s.buckets[x.Hash()] = append(s.buckets[x.Hash()], pos)
	s.right.AddNodes(1)
	s.prefix = append(s.prefix, pfx)
	s.finalLetter = append(s.finalLetter, fin)
	s.suffix = append(s.suffix, sfx)
	s.firstLetter = append(s.firstLetter, first)
	s.length = append(s.length, ln)
	for len(s.lenCounts) <= ln {
		s.lenCounts = append(s.lenCounts, 0)
	}
	s.lenCounts[ln]++
	if s.onePos == Undefined && x.Equal(s.id) {
		s.onePos = pos
	}
	return pos
}

// validatePosition checks p against the currently discovered positions.
func (s *FroidurePin[E]) validatePosition(p uint32) error {
	if p >= uint32(len(s.elements)) {
		return fmt.Errorf("position %d, current size %d: %w", p, len(s.elements), ErrPositionOutOfRange)
	}
	return nil
}

// validateLetter checks a generator index.
func (s *FroidurePin[E]) validateLetter(a uint32) error {
	if a >= uint32(len(s.gens)) {
		return fmt.Errorf("letter %d, %d generators: %w", a, len(s.gens), ErrLetterOutOfRange)
	}
	return nil
}

// validateWord checks that w is non-empty and all letters are valid.
func (s *FroidurePin[E]) validateWord(w []uint32) error {
	if len(w) == 0 {
		return ErrEmptyWord
	}
	for _, a := range w {
		if err := s.validateLetter(a); err != nil {
			return err
		}
	}
	return nil
}
