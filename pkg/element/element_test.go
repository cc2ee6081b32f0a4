package element_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/matzehuels/semigroups/pkg/element"
)

func TestTransfComposesLeftToRight(t *testing.T) {
	x, err := element.NewTransf([]uint32{1, 2, 0})
	if err != nil {
		t.Fatalf("NewTransf: %v", err)
	}
	y, err := element.NewTransf([]uint32{0, 0, 2})
	if err != nil {
		t.Fatalf("NewTransf: %v", err)
	}

	// (x*y)(i) = y(x(i)).
	xy, err := x.Mul(y)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	want := []uint32{0, 2, 0}
	for i, w := range want {
		got, err := xy.ImageOf(i)
		if err != nil {
			t.Fatalf("ImageOf(%d): %v", i, err)
		}
		if got != w {
			t.Fatalf("(x*y)(%d) = %d, want %d", i, got, w)
		}
	}

	yx, err := y.Mul(x)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if xy.Equal(yx) {
		t.Fatal("x*y and y*x should differ for these maps")
	}
}

func TestTransfValidation(t *testing.T) {
	if _, err := element.NewTransf([]uint32{0, 3, 1}); !errors.Is(err, element.ErrBadImage) {
		t.Fatalf("NewTransf error = %v, want ErrBadImage", err)
	}
	x, _ := element.NewTransf([]uint32{0, 1})
	y, _ := element.NewTransf([]uint32{0, 1, 2})
	if _, err := x.Mul(y); !errors.Is(err, element.ErrDegreeMismatch) {
		t.Fatalf("Mul error = %v, want ErrDegreeMismatch", err)
	}
}

func TestTransfIdentityRankAndHash(t *testing.T) {
	one := element.OneTransf(4)
	if !one.IsIdentity() || one.Rank() != 4 {
		t.Fatalf("IsIdentity = %v, Rank = %d, want true, 4", one.IsIdentity(), one.Rank())
	}

	x, _ := element.NewTransf([]uint32{2, 2, 0, 1})
	if x.Rank() != 3 {
		t.Fatalf("Rank = %d, want 3", x.Rank())
	}
	xo, err := x.Mul(x.One())
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if !xo.Equal(x) {
		t.Fatal("x * one != x")
	}
	if xo.Hash() != x.Hash() {
		t.Fatal("equal transformations hash differently")
	}

	y, _ := element.NewTransf([]uint32{2, 2, 0, 2})
	if !x.Less(y) && !y.Less(x) {
		t.Fatal("distinct transformations are not ordered")
	}
}

func TestTransfImagesIsACopy(t *testing.T) {
	x, _ := element.NewTransf([]uint32{1, 0})
	imgs := x.Images()
	imgs[0] = 0
	got, _ := x.ImageOf(0)
	if got != 1 {
		t.Fatalf("mutating Images() changed the element: %d", got)
	}
}

func TestPPermUndefinedPropagates(t *testing.T) {
	swap, err := element.NewPPerm([]uint32{1, 0})
	if err != nil {
		t.Fatalf("NewPPerm: %v", err)
	}
	e1, err := element.NewPPerm([]uint32{0, element.UndefinedPoint})
	if err != nil {
		t.Fatalf("NewPPerm: %v", err)
	}

	// swap then e1: 0 -> 1 -> undefined, 1 -> 0 -> 0.
	p, err := swap.Mul(e1)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	imgs := p.Images()
	if imgs[0] != element.UndefinedPoint || imgs[1] != 0 {
		t.Fatalf("swap*e1 images = %v, want [- 0]", imgs)
	}
	if p.Rank() != 1 {
		t.Fatalf("Rank = %d, want 1", p.Rank())
	}

	// e1 then swap*e1 is the empty map.
	empty, err := e1.Mul(p)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if empty.Rank() != 0 {
		t.Fatalf("Rank = %d, want 0", empty.Rank())
	}
}

func TestPPermValidation(t *testing.T) {
	if _, err := element.NewPPerm([]uint32{0, 0}); !errors.Is(err, element.ErrNotInjective) {
		t.Fatalf("NewPPerm error = %v, want ErrNotInjective", err)
	}
	if _, err := element.NewPPerm([]uint32{5, element.UndefinedPoint}); !errors.Is(err, element.ErrBadImage) {
		t.Fatalf("NewPPerm error = %v, want ErrBadImage", err)
	}
}

func TestPPermFromDomain(t *testing.T) {
	p, err := element.NewPPermFromDomain([]uint32{0, 2}, []uint32{2, 1}, 3)
	if err != nil {
		t.Fatalf("NewPPermFromDomain: %v", err)
	}
	imgs := p.Images()
	if imgs[0] != 2 || imgs[1] != element.UndefinedPoint || imgs[2] != 1 {
		t.Fatalf("images = %v, want [2 - 1]", imgs)
	}

	if _, err := element.NewPPermFromDomain([]uint32{0}, []uint32{1, 2}, 3); !errors.Is(err, element.ErrBadImage) {
		t.Fatalf("mismatched lengths error = %v, want ErrBadImage", err)
	}
	if _, err := element.NewPPermFromDomain([]uint32{0, 0}, []uint32{1, 2}, 3); !errors.Is(err, element.ErrNotInjective) {
		t.Fatalf("repeated domain point error = %v, want ErrNotInjective", err)
	}
}

func TestPPermString(t *testing.T) {
	p, _ := element.NewPPerm([]uint32{1, element.UndefinedPoint})
	if got := p.String(); got != "PPerm([1 -])" {
		t.Fatalf("String = %q, want %q", got, "PPerm([1 -])")
	}
}

func TestPermInverse(t *testing.T) {
	p, err := element.NewPerm([]uint32{2, 0, 1})
	if err != nil {
		t.Fatalf("NewPerm: %v", err)
	}
	inv := p.Inverse()
	prod, err := p.Mul(inv)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if !prod.IsIdentity() {
		t.Fatalf("p * p^-1 = %v, want the identity", prod)
	}
	prod, err = inv.Mul(p)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if !prod.IsIdentity() {
		t.Fatalf("p^-1 * p = %v, want the identity", prod)
	}
}

func TestPermValidation(t *testing.T) {
	if _, err := element.NewPerm([]uint32{0, 0, 1}); !errors.Is(err, element.ErrNotPermutation) {
		t.Fatalf("NewPerm error = %v, want ErrNotPermutation", err)
	}
	if _, err := element.NewPerm([]uint32{0, 3, 1}); !errors.Is(err, element.ErrBadImage) {
		t.Fatalf("NewPerm error = %v, want ErrBadImage", err)
	}
}

func TestBMat8Product(t *testing.T) {
	a := element.NewBMat8FromRows([][]bool{
		{true, true},
		{false, true},
	})
	b := element.NewBMat8FromRows([][]bool{
		{false, true},
		{true, false},
	})
	ab, err := a.Mul(b)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	want := element.NewBMat8FromRows([][]bool{
		{true, true},
		{true, false},
	})
	if !ab.Equal(want) {
		t.Fatalf("a*b = %v, want %v", ab, want)
	}
}

func TestBMat8IdentityAndTranspose(t *testing.T) {
	for dim := 1; dim <= 8; dim++ {
		one := element.OneBMat8(dim)
		for i := 0; i < dim; i++ {
			if !one.Get(i, i) {
				t.Fatalf("OneBMat8(%d) missing diagonal entry (%d, %d)", dim, i, i)
			}
		}
		m := element.RandomBMat8(dim)
		// Random matrices of dimension dim live in the leading block, so
		// the dim-identity acts as a unit.
		mo, err := m.Mul(one)
		if err != nil {
			t.Fatalf("Mul: %v", err)
		}
		om, err := one.Mul(m)
		if err != nil {
			t.Fatalf("Mul: %v", err)
		}
		if !mo.Equal(m) || !om.Equal(m) {
			t.Fatalf("dim %d: identity does not act as a unit on %v", dim, m)
		}
		if !m.Transpose().Transpose().Equal(m) {
			t.Fatalf("dim %d: double transpose changed %v", dim, m)
		}
	}

	var m element.BMat8
	if !m.One().Equal(element.OneBMat8(8)) {
		t.Fatal("One() != OneBMat8(8)")
	}
}

func TestBMat8GetOutOfRangeIsFalse(t *testing.T) {
	m := element.NewBMat8(^uint64(0))
	if m.Get(8, 0) || m.Get(0, 8) || m.Get(-1, 0) {
		t.Fatal("out-of-range Get returned true")
	}
}

func ExampleTransf_Mul() {
	x, _ := element.NewTransf([]uint32{1, 2, 0})
	y, _ := element.NewTransf([]uint32{0, 0, 2})
	xy, _ := x.Mul(y)
	fmt.Println(xy)
	// Output: Transf([0 2 0])
}
