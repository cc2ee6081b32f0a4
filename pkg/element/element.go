// Package element defines the capability contract that semigroup elements
// must satisfy, together with four ready-made implementations:
// transformations ([Transf]), partial permutations ([PPerm]), permutations
// ([Perm]), and 8×8 boolean matrices ([BMat8]).
//
// The enumeration engine in pkg/froidurepin is generic over this contract,
// so any value type providing a product, equality, a total order, a hash
// consistent with equality, a fixed degree, and an identity of the same
// degree can be plugged in.
//
// # Composition convention
//
// Products compose left to right: for transformations, (x*y)(i) = y(x(i)).
// All shipped types follow this convention.
package element

import (
	"errors"
	"fmt"
)

var (
	// ErrDegreeMismatch is returned when two elements of different degrees
	// are multiplied, or when a generator of the wrong degree is added to
	// an engine.
	ErrDegreeMismatch = errors.New("elements have different degrees")

	// ErrBadImage is returned by constructors when an image point falls
	// outside the degree of the element being built.
	ErrBadImage = errors.New("image point out of range")

	// ErrNotInjective is returned by [NewPPerm] and [NewPPermFromDomain]
	// when two points share an image.
	ErrNotInjective = errors.New("images are not distinct")

	// ErrNotPermutation is returned by [NewPerm] when the images do not
	// form a bijection.
	ErrNotPermutation = errors.New("images do not form a permutation")
)

// Element is the capability contract for semigroup elements.
//
// The contract is generic rather than an interface value so that the hot
// multiplication path in the enumeration engine is free of dynamic
// dispatch. Implementations must be immutable value types: Mul returns a
// new value and never modifies its operands.
//
// Required laws:
//   - Equal is an equivalence, Less a strict total order refining it.
//   - Hash is consistent with Equal (equal values hash equally).
//   - Mul is associative and closed over values of equal degree; it
//     returns [ErrDegreeMismatch] (possibly wrapped) on incompatible
//     operands.
//   - Degree is constant for the lifetime of a value.
//   - One returns the identity of the same degree; a semigroup built from
//     a value need not contain it.
type Element[E any] interface {
	// Mul returns the product of the receiver and x, in that order.
	Mul(x E) (E, error)

	// Equal reports whether the receiver and x are the same element.
	Equal(x E) bool

	// Less reports whether the receiver precedes x in the type's total
	// order. The order is arbitrary but fixed; the engine uses it for
	// sorted positions only.
	Less(x E) bool

	// Hash returns a hash consistent with Equal.
	Hash() uint64

	// Degree returns the fixed degree (number of points, or matrix
	// dimension) of the element.
	Degree() int

	// One returns the identity element of the same degree.
	One() E
}

// checkComposable returns ErrDegreeMismatch unless the two degrees agree.
func checkComposable(what string, dx, dy int) error {
	if dx != dy {
		return fmt.Errorf("%s product: degrees %d and %d: %w", what, dx, dy, ErrDegreeMismatch)
	}
	return nil
}
