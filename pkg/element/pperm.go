package element

import (
	"fmt"
	"strings"
)

// PPerm is a partial permutation of {0, ..., n-1}: an injective map
// defined on a subset of the points. Points outside the domain carry
// [UndefinedPoint] in the image vector.
//
// PPerm values are immutable; all methods are safe for concurrent use.
type PPerm struct {
	imgs []uint32
}

// NewPPerm builds a partial permutation from a full image vector where
// undefined points are marked with [UndefinedPoint]. Defined images must
// be distinct and smaller than len(imgs).
func NewPPerm(imgs []uint32) (PPerm, error) {
	n := uint32(len(imgs))
	cp := make([]uint32, len(imgs))
	seen := make(map[uint32]struct{}, len(imgs))
	for i, v := range imgs {
		if v != UndefinedPoint {
			if v >= n {
				return PPerm{}, fmt.Errorf("partial perm: point %d maps to %d, degree %d: %w", i, v, n, ErrBadImage)
			}
			if _, dup := seen[v]; dup {
				return PPerm{}, fmt.Errorf("partial perm: image %d repeated: %w", v, ErrNotInjective)
			}
			seen[v] = struct{}{}
		}
		cp[i] = v
	}
	return PPerm{imgs: cp}, nil
}

// NewPPermFromDomain builds a partial permutation of the given degree
// mapping dom[i] to img[i]. dom and img must have equal length and all
// points must be smaller than degree.
func NewPPermFromDomain(dom, img []uint32, degree int) (PPerm, error) {
	if len(dom) != len(img) {
		return PPerm{}, fmt.Errorf("partial perm: domain has %d points, image %d: %w", len(dom), len(img), ErrBadImage)
	}
	imgs := make([]uint32, degree)
	for i := range imgs {
		imgs[i] = UndefinedPoint
	}
	for i, d := range dom {
		if d >= uint32(degree) || img[i] >= uint32(degree) {
			return PPerm{}, fmt.Errorf("partial perm: pair (%d, %d), degree %d: %w", d, img[i], degree, ErrBadImage)
		}
		if imgs[d] != UndefinedPoint {
			return PPerm{}, fmt.Errorf("partial perm: point %d listed twice: %w", d, ErrNotInjective)
		}
		imgs[d] = img[i]
	}
	return NewPPerm(imgs)
}

// OnePPerm returns the identity partial permutation of degree n, defined
// and fixed on every point.
func OnePPerm(n int) PPerm {
	imgs := make([]uint32, n)
	for i := range imgs {
		imgs[i] = uint32(i)
	}
	return PPerm{imgs: imgs}
}

// Mul returns the composite that applies the receiver first and x second.
// The product is defined on a point exactly when both factors are defined
// along the way.
func (p PPerm) Mul(x PPerm) (PPerm, error) {
	if err := checkComposable("partial perm", p.Degree(), x.Degree()); err != nil {
		return PPerm{}, err
	}
	imgs := make([]uint32, len(p.imgs))
	for i, v := range p.imgs {
		if v == UndefinedPoint {
			imgs[i] = UndefinedPoint
		} else {
			imgs[i] = x.imgs[v]
		}
	}
	return PPerm{imgs: imgs}, nil
}

// Equal reports whether p and x are the same partial permutation.
func (p PPerm) Equal(x PPerm) bool {
	return len(p.imgs) == len(x.imgs) && equalImages(p.imgs, x.imgs)
}

// Less orders partial permutations lexicographically by image vector,
// with [UndefinedPoint] sorting last.
func (p PPerm) Less(x PPerm) bool {
	if len(p.imgs) != len(x.imgs) {
		return len(p.imgs) < len(x.imgs)
	}
	return lessImages(p.imgs, x.imgs)
}

// Hash returns a hash consistent with Equal.
func (p PPerm) Hash() uint64 { return hashImages(p.imgs) }

// Degree returns the number of points p acts on, defined or not.
func (p PPerm) Degree() int { return len(p.imgs) }

// One returns the identity partial permutation of the same degree.
func (p PPerm) One() PPerm { return OnePPerm(len(p.imgs)) }

// Images returns a copy of the image vector, with [UndefinedPoint] for
// points outside the domain.
func (p PPerm) Images() []uint32 {
	cp := make([]uint32, len(p.imgs))
	copy(cp, p.imgs)
	return cp
}

// Rank returns the number of points on which p is defined.
func (p PPerm) Rank() int {
	r := 0
	for _, v := range p.imgs {
		if v != UndefinedPoint {
			r++
		}
	}
	return r
}

// String renders the image vector with "-" for undefined points.
func (p PPerm) String() string {
	var b strings.Builder
	b.WriteString("PPerm([")
	for i, v := range p.imgs {
		if i > 0 {
			b.WriteByte(' ')
		}
		if v == UndefinedPoint {
			b.WriteByte('-')
		} else {
			fmt.Fprintf(&b, "%d", v)
		}
	}
	b.WriteString("])")
	return b.String()
}
