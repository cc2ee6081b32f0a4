package froidurepin

import "errors"

var (
	// ErrPositionOutOfRange is returned when a position argument is not
	// smaller than the relevant element count.
	ErrPositionOutOfRange = errors.New("position out of range")

	// ErrLetterOutOfRange is returned when a generator index is not
	// smaller than the number of generators.
	ErrLetterOutOfRange = errors.New("generator index out of range")

	// ErrEmptyWord is returned when a word argument is empty; words over
	// a semigroup presentation denote non-empty products.
	ErrEmptyWord = errors.New("empty word")

	// ErrNoGenerators is returned by operations that need at least one
	// generator on an engine constructed without any.
	ErrNoGenerators = errors.New("no generators")

	// ErrNotAnElement is returned when an element-keyed operation on a
	// fully enumerated semigroup finds no matching element.
	ErrNotAnElement = errors.New("not an element of the semigroup")
)
