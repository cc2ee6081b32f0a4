package element

import (
	"fmt"
	"strings"
)

// Transf is a transformation of the set {0, ..., n-1}: a total map stored
// as its image vector. The degree n is fixed at construction.
//
// Transf values are immutable; all methods are safe for concurrent use.
type Transf struct {
	imgs []uint32
}

// NewTransf builds a transformation from its images: imgs[i] is the image
// of point i. Every image must be smaller than len(imgs).
func NewTransf(imgs []uint32) (Transf, error) {
	n := uint32(len(imgs))
	cp := make([]uint32, len(imgs))
	for i, v := range imgs {
		if v >= n {
			return Transf{}, fmt.Errorf("transformation: point %d maps to %d, degree %d: %w", i, v, n, ErrBadImage)
		}
		cp[i] = v
	}
	return Transf{imgs: cp}, nil
}

// OneTransf returns the identity transformation of degree n.
func OneTransf(n int) Transf {
	imgs := make([]uint32, n)
	for i := range imgs {
		imgs[i] = uint32(i)
	}
	return Transf{imgs: imgs}
}

// Mul returns the composite that applies the receiver first and x second:
// (t*x)(i) = x(t(i)).
func (t Transf) Mul(x Transf) (Transf, error) {
	if err := checkComposable("transformation", t.Degree(), x.Degree()); err != nil {
		return Transf{}, err
	}
	imgs := make([]uint32, len(t.imgs))
	for i, v := range t.imgs {
		imgs[i] = x.imgs[v]
	}
	return Transf{imgs: imgs}, nil
}

// Equal reports whether t and x are the same transformation.
func (t Transf) Equal(x Transf) bool {
	return len(t.imgs) == len(x.imgs) && equalImages(t.imgs, x.imgs)
}

// Less orders transformations lexicographically by image vector.
// Transformations of smaller degree precede larger ones.
func (t Transf) Less(x Transf) bool {
	if len(t.imgs) != len(x.imgs) {
		return len(t.imgs) < len(x.imgs)
	}
	return lessImages(t.imgs, x.imgs)
}

// Hash returns a hash consistent with Equal.
func (t Transf) Hash() uint64 { return hashImages(t.imgs) }

// Degree returns the number of points t acts on.
func (t Transf) Degree() int { return len(t.imgs) }

// One returns the identity transformation of the same degree.
func (t Transf) One() Transf { return OneTransf(len(t.imgs)) }

// Images returns a copy of the image vector.
func (t Transf) Images() []uint32 {
	cp := make([]uint32, len(t.imgs))
	copy(cp, t.imgs)
	return cp
}

// ImageOf returns the image of point i.
func (t Transf) ImageOf(i int) (uint32, error) {
	if i < 0 || i >= len(t.imgs) {
		return 0, fmt.Errorf("transformation: point %d, degree %d: %w", i, len(t.imgs), ErrBadImage)
	}
	return t.imgs[i], nil
}

// Rank returns the number of distinct images.
func (t Transf) Rank() int {
	seen := make(map[uint32]struct{}, len(t.imgs))
	for _, v := range t.imgs {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// IsIdentity reports whether t fixes every point.
func (t Transf) IsIdentity() bool {
	for i, v := range t.imgs {
		if v != uint32(i) {
			return false
		}
	}
	return true
}

// String renders the image vector, e.g. "Transf([0 2 1])".
func (t Transf) String() string {
	var b strings.Builder
	b.WriteString("Transf(")
	fmt.Fprintf(&b, "%v", t.imgs)
	b.WriteString(")")
	return b.String()
}
