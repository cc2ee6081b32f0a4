package element

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// UndefinedPoint marks a point with no image in a partial map.
const UndefinedPoint = uint32(math.MaxUint32)

// hashImages computes an FNV-1a hash over an image vector. FNV keeps the
// engine dependency-free here: hashing only feeds bucketed duplicate
// detection, where equality is confirmed explicitly afterwards.
func hashImages(imgs []uint32) uint64 {
	h := fnv.New64a()
	var b [4]byte
	for _, v := range imgs {
		binary.LittleEndian.PutUint32(b[:], v)
		h.Write(b[:])
	}
	return h.Sum64()
}

// lessImages compares image vectors lexicographically. Both slices must
// have the same length.
func lessImages(a, b []uint32) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// equalImages reports element-wise equality of two image vectors of the
// same length.
func equalImages(a, b []uint32) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
