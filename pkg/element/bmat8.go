package element

import (
	"hash/fnv"
	"math/rand/v2"
	"strings"
)

// bmat8One has exactly the diagonal bits set in the packed layout below.
const bmat8One = uint64(0x8040201008040201)

// BMat8 is an 8×8 boolean matrix packed row-major into a uint64, with
// entry (0, 0) in the most significant bit. Boolean matrix product uses
// or-of-ands, so BMat8 multiplication never fails and the degree is
// always 8.
//
// Matrices of dimension below 8 are represented by leaving the trailing
// rows and columns zero.
type BMat8 struct {
	bits uint64
}

// NewBMat8 builds a matrix from a row-major bit pattern.
func NewBMat8(bits uint64) BMat8 { return BMat8{bits: bits} }

// NewBMat8FromRows builds a matrix from up to 8 rows of up to 8 entries
// each. Missing rows and entries are zero.
func NewBMat8FromRows(rows [][]bool) BMat8 {
	var bits uint64
	for r := 0; r < len(rows) && r < 8; r++ {
		for c := 0; c < len(rows[r]) && c < 8; c++ {
			if rows[r][c] {
				bits |= uint64(1) << (63 - 8*r - c)
			}
		}
	}
	return BMat8{bits: bits}
}

// OneBMat8 returns the identity matrix of dimension dim (1 ≤ dim ≤ 8):
// ones on the leading diagonal positions, zero elsewhere.
func OneBMat8(dim int) BMat8 {
	var bits uint64
	for i := 0; i < dim && i < 8; i++ {
		bits |= uint64(1) << (63 - 9*i)
	}
	return BMat8{bits: bits}
}

// RandomBMat8 returns a uniformly random matrix supported on the leading
// dim×dim block.
func RandomBMat8(dim int) BMat8 {
	bits := rand.Uint64()
	var mask uint64
	for r := 0; r < dim && r < 8; r++ {
		row := uint64(0xff>>(8-dim)) << (56 - 8*r + (8 - dim))
		mask |= row
	}
	return BMat8{bits: bits & mask}
}

// row returns row r as a byte with column 0 in the high bit.
func (m BMat8) row(r int) uint8 {
	return uint8(m.bits >> (56 - 8*r))
}

// Mul returns the boolean matrix product of the receiver and x.
func (m BMat8) Mul(x BMat8) (BMat8, error) {
	var bits uint64
	for r := 0; r < 8; r++ {
		var out uint8
		row := m.row(r)
		for k := 0; k < 8; k++ {
			if row&(1<<(7-k)) != 0 {
				out |= x.row(k)
			}
		}
		bits |= uint64(out) << (56 - 8*r)
	}
	return BMat8{bits: bits}, nil
}

// Transpose returns the transposed matrix.
func (m BMat8) Transpose() BMat8 {
	var bits uint64
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if m.Get(r, c) {
				bits |= uint64(1) << (63 - 8*c - r)
			}
		}
	}
	return BMat8{bits: bits}
}

// Get returns entry (r, c). Out-of-range coordinates read as false.
func (m BMat8) Get(r, c int) bool {
	if r < 0 || r > 7 || c < 0 || c > 7 {
		return false
	}
	return m.bits&(uint64(1)<<(63-8*r-c)) != 0
}

// Rows returns the matrix as 8 rows of 8 booleans.
func (m BMat8) Rows() [][]bool {
	rows := make([][]bool, 8)
	for r := range rows {
		rows[r] = make([]bool, 8)
		for c := range rows[r] {
			rows[r][c] = m.Get(r, c)
		}
	}
	return rows
}

// Equal reports whether m and x have identical entries.
func (m BMat8) Equal(x BMat8) bool { return m.bits == x.bits }

// Less orders matrices by their packed bit patterns.
func (m BMat8) Less(x BMat8) bool { return m.bits < x.bits }

// Hash returns a hash consistent with Equal.
func (m BMat8) Hash() uint64 {
	h := fnv.New64a()
	var b [8]byte
	for i := range b {
		b[i] = byte(m.bits >> (8 * (7 - i)))
	}
	h.Write(b[:])
	return h.Sum64()
}

// Degree returns 8, the fixed dimension of the packed representation.
func (m BMat8) Degree() int { return 8 }

// One returns the 8×8 identity matrix.
func (m BMat8) One() BMat8 { return BMat8{bits: bmat8One} }

// ToInt returns the packed row-major bit pattern.
func (m BMat8) ToInt() uint64 { return m.bits }

// String renders the matrix as 8 rows of 0s and 1s.
func (m BMat8) String() string {
	var b strings.Builder
	b.WriteString("BMat8(")
	for r := 0; r < 8; r++ {
		if r > 0 {
			b.WriteByte('|')
		}
		for c := 0; c < 8; c++ {
			if m.Get(r, c) {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
	}
	b.WriteString(")")
	return b.String()
}
