package element

import "fmt"

// Perm is a permutation of {0, ..., n-1}, stored as its image vector and
// validated to be a bijection at construction.
//
// Perm values are immutable; all methods are safe for concurrent use.
type Perm struct {
	imgs []uint32
}

// NewPerm builds a permutation from its images. The images must be a
// rearrangement of 0..len(imgs)-1.
func NewPerm(imgs []uint32) (Perm, error) {
	n := uint32(len(imgs))
	cp := make([]uint32, len(imgs))
	seen := make([]bool, len(imgs))
	for i, v := range imgs {
		if v >= n {
			return Perm{}, fmt.Errorf("permutation: point %d maps to %d, degree %d: %w", i, v, n, ErrBadImage)
		}
		if seen[v] {
			return Perm{}, fmt.Errorf("permutation: image %d repeated: %w", v, ErrNotPermutation)
		}
		seen[v] = true
		cp[i] = v
	}
	return Perm{imgs: cp}, nil
}

// OnePerm returns the identity permutation of degree n.
func OnePerm(n int) Perm {
	imgs := make([]uint32, n)
	for i := range imgs {
		imgs[i] = uint32(i)
	}
	return Perm{imgs: imgs}
}

// Mul returns the composite that applies the receiver first and x second.
func (p Perm) Mul(x Perm) (Perm, error) {
	if err := checkComposable("permutation", p.Degree(), x.Degree()); err != nil {
		return Perm{}, err
	}
	imgs := make([]uint32, len(p.imgs))
	for i, v := range p.imgs {
		imgs[i] = x.imgs[v]
	}
	return Perm{imgs: imgs}, nil
}

// Inverse returns the inverse permutation.
func (p Perm) Inverse() Perm {
	imgs := make([]uint32, len(p.imgs))
	for i, v := range p.imgs {
		imgs[v] = uint32(i)
	}
	return Perm{imgs: imgs}
}

// Equal reports whether p and x are the same permutation.
func (p Perm) Equal(x Perm) bool {
	return len(p.imgs) == len(x.imgs) && equalImages(p.imgs, x.imgs)
}

// Less orders permutations lexicographically by image vector.
func (p Perm) Less(x Perm) bool {
	if len(p.imgs) != len(x.imgs) {
		return len(p.imgs) < len(x.imgs)
	}
	return lessImages(p.imgs, x.imgs)
}

// Hash returns a hash consistent with Equal.
func (p Perm) Hash() uint64 { return hashImages(p.imgs) }

// Degree returns the number of points p acts on.
func (p Perm) Degree() int { return len(p.imgs) }

// One returns the identity permutation of the same degree.
func (p Perm) One() Perm { return OnePerm(len(p.imgs)) }

// Images returns a copy of the image vector.
func (p Perm) Images() []uint32 {
	cp := make([]uint32, len(p.imgs))
	copy(cp, p.imgs)
	return cp
}

// IsIdentity reports whether p fixes every point.
func (p Perm) IsIdentity() bool {
	for i, v := range p.imgs {
		if v != uint32(i) {
			return false
		}
	}
	return true
}

// String renders the image vector, e.g. "Perm([1 0 2])".
func (p Perm) String() string {
	return fmt.Sprintf("Perm(%v)", p.imgs)
}
