// Package wordgraph implements a dense graph with out-edges labeled by
// letters 0..d-1, the structure underlying Cayley graphs of finitely
// generated semigroups.
//
// Every node has exactly one slot per label; a slot either holds the
// target node or [Undefined]. The table is stored flat with stride equal
// to the out-degree, so a node's row is contiguous in memory. Node
// capacity grows by doubling; the out-degree is fixed at construction.
package wordgraph

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
)

// Undefined is the sentinel for an absent target or node index.
const Undefined = uint32(math.MaxUint32)

var (
	// ErrNodeOutOfRange is returned when a source or target node index is
	// not smaller than the number of nodes.
	ErrNodeOutOfRange = errors.New("node out of range")

	// ErrLabelOutOfRange is returned when an edge label is not smaller
	// than the out-degree.
	ErrLabelOutOfRange = errors.New("label out of range")
)

// Graph is a dense out-labeled graph. The zero value is unusable; create
// instances with [New].
type Graph struct {
	numNodes  uint32
	outDegree uint32
	numEdges  int
	table     []uint32 // len = cap(nodes) * outDegree, row-major
}

// New creates a graph with numNodes nodes, out-degree outDegree, and no
// edges defined.
func New(numNodes, outDegree uint32) *Graph {
	g := &Graph{outDegree: outDegree}
	g.grow(numNodes)
	g.numNodes = numNodes
	return g
}

// NumberOfNodes returns the current node count.
func (g *Graph) NumberOfNodes() uint32 { return g.numNodes }

// OutDegree returns the number of edge labels.
func (g *Graph) OutDegree() uint32 { return g.outDegree }

// NumberOfEdges returns the number of defined edges over all nodes.
func (g *Graph) NumberOfEdges() int { return g.numEdges }

// NumberOfEdgesFrom returns the number of defined edges leaving s.
func (g *Graph) NumberOfEdgesFrom(s uint32) (int, error) {
	if s >= g.numNodes {
		return 0, fmt.Errorf("source %d, nodes %d: %w", s, g.numNodes, ErrNodeOutOfRange)
	}
	n := 0
	for _, t := range g.row(s) {
		if t != Undefined {
			n++
		}
	}
	return n, nil
}

// AddNodes appends n nodes with no defined edges and returns the index of
// the first new node.
func (g *Graph) AddNodes(n uint32) uint32 {
	first := g.numNodes
	g.grow(g.numNodes + n)
	g.numNodes += n
	return first
}

// Reserve pre-allocates table capacity for at least n nodes without
// adding any. Later AddNodes calls up to n avoid reallocation.
func (g *Graph) Reserve(n uint32) {
	need := int(n) * int(g.outDegree)
	if need <= cap(g.table) {
		return
	}
	table := make([]uint32, len(g.table), need)
	copy(table, g.table)
	g.table = table
}

// Target returns the target of the edge labeled a leaving s, or
// [Undefined] if the edge is not defined.
func (g *Graph) Target(s, a uint32) (uint32, error) {
	if s >= g.numNodes {
		return Undefined, fmt.Errorf("source %d, nodes %d: %w", s, g.numNodes, ErrNodeOutOfRange)
	}
	if a >= g.outDegree {
		return Undefined, fmt.Errorf("label %d, out-degree %d: %w", a, g.outDegree, ErrLabelOutOfRange)
	}
	return g.table[s*g.outDegree+a], nil
}

// TargetUnchecked is Target without bounds checks, for callers that have
// already validated s and a on the hot path.
func (g *Graph) TargetUnchecked(s, a uint32) uint32 {
	return g.table[s*g.outDegree+a]
}

// SetTarget defines (or redefines) the edge labeled a from s to t.
func (g *Graph) SetTarget(s, a, t uint32) error {
	if s >= g.numNodes || t >= g.numNodes {
		return fmt.Errorf("edge (%d, %d) -> %d, nodes %d: %w", s, a, t, g.numNodes, ErrNodeOutOfRange)
	}
	if a >= g.outDegree {
		return fmt.Errorf("label %d, out-degree %d: %w", a, g.outDegree, ErrLabelOutOfRange)
	}
	i := s*g.outDegree + a
	if g.table[i] == Undefined {
		g.numEdges++
	}
	g.table[i] = t
	return nil
}

// NextLabelTarget returns the smallest label ≥ from with a defined edge
// leaving s, together with its target. It returns ([Undefined],
// [Undefined]) when no such edge exists, allowing traversals to skip
// undefined slots.
func (g *Graph) NextLabelTarget(s, from uint32) (label, target uint32) {
	if s >= g.numNodes {
		return Undefined, Undefined
	}
	row := g.row(s)
	for a := from; a < g.outDegree; a++ {
		if row[a] != Undefined {
			return a, row[a]
		}
	}
	return Undefined, Undefined
}

// Targets returns a copy of the row of s, including [Undefined] entries
// for labels with no defined edge.
func (g *Graph) Targets(s uint32) ([]uint32, error) {
	if s >= g.numNodes {
		return nil, fmt.Errorf("source %d, nodes %d: %w", s, g.numNodes, ErrNodeOutOfRange)
	}
	row := make([]uint32, g.outDegree)
	copy(row, g.row(s))
	return row, nil
}

// Equal reports whether the two graphs have the same node count,
// out-degree, and edges.
func (g *Graph) Equal(o *Graph) bool { return g.Compare(o) == 0 }

// Compare orders graphs by node count, then out-degree, then the edge
// table row by row. It returns -1, 0, or +1.
func (g *Graph) Compare(o *Graph) int {
	switch {
	case g.numNodes != o.numNodes:
		if g.numNodes < o.numNodes {
			return -1
		}
		return 1
	case g.outDegree != o.outDegree:
		if g.outDegree < o.outDegree {
			return -1
		}
		return 1
	}
	n := int(g.numNodes) * int(g.outDegree)
	for i := 0; i < n; i++ {
		if g.table[i] != o.table[i] {
			if g.table[i] < o.table[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Hash returns a hash of the graph's structure, consistent with Equal.
func (g *Graph) Hash() uint64 {
	h := fnv.New64a()
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], g.numNodes)
	h.Write(b[:])
	binary.LittleEndian.PutUint32(b[:], g.outDegree)
	h.Write(b[:])
	n := int(g.numNodes) * int(g.outDegree)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(b[:], g.table[i])
		h.Write(b[:])
	}
	return h.Sum64()
}

// Copy returns a deep copy sharing no state with the receiver.
func (g *Graph) Copy() *Graph {
	cp := &Graph{
		numNodes:  g.numNodes,
		outDegree: g.outDegree,
		numEdges:  g.numEdges,
		table:     make([]uint32, len(g.table)),
	}
	copy(cp.table, g.table)
	return cp
}

// row returns the slot slice of node s. The caller must have validated s.
func (g *Graph) row(s uint32) []uint32 {
	return g.table[s*g.outDegree : (s+1)*g.outDegree]
}

// grow ensures capacity for at least n node rows, doubling to keep
// amortized growth linear and rows contiguous.
func (g *Graph) grow(n uint32) {
	need := int(n) * int(g.outDegree)
	if need <= len(g.table) {
		return
	}
	if need <= cap(g.table) {
		old := len(g.table)
		g.table = g.table[:need]
		for i := old; i < need; i++ {
			g.table[i] = Undefined
		}
		return
	}
	c := cap(g.table)
	if c == 0 {
		c = need
	}
	for c < need {
		c *= 2
	}
	table := make([]uint32, need, c)
	copy(table, g.table)
	for i := len(g.table); i < need; i++ {
		table[i] = Undefined
	}
	g.table = table
}
