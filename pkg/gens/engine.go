package gens

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/semigroups/pkg/element"
	"github.com/matzehuels/semigroups/pkg/froidurepin"
	"github.com/matzehuels/semigroups/pkg/wordgraph"
)

// Engine is the element-type-independent view of an enumeration engine,
// so the CLI and API can drive any element type through one interface.
// The full generic surface is available from pkg/froidurepin when the
// element type is known statically.
type Engine interface {
	Run(ctx context.Context) error
	RunFor(ctx context.Context, d time.Duration) error
	Enumerate(ctx context.Context, limit int) error
	Kill()
	Finished() bool
	Dead() bool
	WhyWeStopped() string

	Degree() int
	NumberOfGenerators() int
	CurrentSize() int
	CurrentNumberOfRules() int
	CurrentMaxWordLength() int
	CurrentNumberOfElementsOfLength(l int) int

	Size(ctx context.Context) (int, error)
	NumberOfRules(ctx context.Context) (int, error)
	ContainsOne(ctx context.Context) (bool, error)
	NumberOfIdempotents(ctx context.Context) (int, error)
	RightCayleyGraph(ctx context.Context) (*wordgraph.Graph, error)
	LeftCayleyGraph(ctx context.Context) (*wordgraph.Graph, error)
	Rules(ctx context.Context) ([]froidurepin.Rule, error)
	NormalForms(ctx context.Context) ([][]uint32, error)

	// ElementStrings enumerates to completion and renders every element
	// in discovery order.
	ElementStrings(ctx context.Context) ([]string, error)
}

// typedEngine adapts a generic engine to the Engine interface.
type typedEngine[E element.Element[E]] struct {
	*froidurepin.FroidurePin[E]
}

func (e typedEngine[E]) ElementStrings(ctx context.Context) ([]string, error) {
	elements, err := e.Elements(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(elements))
	for i, x := range elements {
		out[i] = fmt.Sprintf("%v", x)
	}
	return out, nil
}

// Open builds an engine for the specification's element type.
func Open(spec *Spec, opts ...froidurepin.Option) (Engine, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch spec.Type {
	case TypeTransf:
		gens, err := spec.Transfs()
		if err != nil {
			return nil, err
		}
		s, err := froidurepin.New(gens, opts...)
		if err != nil {
			return nil, err
		}
		return typedEngine[element.Transf]{s}, nil
	case TypePPerm:
		gens, err := spec.PPerms()
		if err != nil {
			return nil, err
		}
		s, err := froidurepin.New(gens, opts...)
		if err != nil {
			return nil, err
		}
		return typedEngine[element.PPerm]{s}, nil
	case TypePerm:
		gens, err := spec.Perms()
		if err != nil {
			return nil, err
		}
		s, err := froidurepin.New(gens, opts...)
		if err != nil {
			return nil, err
		}
		return typedEngine[element.Perm]{s}, nil
	case TypeBMat8:
		gens, err := spec.BMat8s()
		if err != nil {
			return nil, err
		}
		s, err := froidurepin.New(gens, opts...)
		if err != nil {
			return nil, err
		}
		return typedEngine[element.BMat8]{s}, nil
	}
	// Validate rejects unknown types before this point.
	panic("unreachable element type " + spec.Type)
}

// Summary is the result of a completed enumeration.
type Summary struct {
	Type          string `json:"type"`
	Degree        int    `json:"degree"`
	Generators    int    `json:"generators"`
	Size          int    `json:"size"`
	Rules         int    `json:"rules"`
	Idempotents   int    `json:"idempotents"`
	ContainsOne   bool   `json:"contains_one"`
	MaxWordLength int    `json:"max_word_length"`

	// ElementsOfLength[l] counts elements whose minimal word has length
	// l; index 0 is always zero.
	ElementsOfLength []int `json:"elements_of_length"`
}

// Summarize enumerates to completion and collects the run's summary.
func Summarize(ctx context.Context, spec *Spec, eng Engine) (*Summary, error) {
	size, err := eng.Size(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := eng.NumberOfRules(ctx)
	if err != nil {
		return nil, err
	}
	idem, err := eng.NumberOfIdempotents(ctx)
	if err != nil {
		return nil, err
	}
	one, err := eng.ContainsOne(ctx)
	if err != nil {
		return nil, err
	}

	maxLen := eng.CurrentMaxWordLength()
	counts := make([]int, maxLen+1)
	for l := 1; l <= maxLen; l++ {
		counts[l] = eng.CurrentNumberOfElementsOfLength(l)
	}

	return &Summary{
		Type:             spec.Type,
		Degree:           eng.Degree(),
		Generators:       eng.NumberOfGenerators(),
		Size:             size,
		Rules:            rules,
		Idempotents:      idem,
		ContainsOne:      one,
		MaxWordLength:    maxLen,
		ElementsOfLength: counts,
	}, nil
}
