// Package limb implements the single-word primitives that every wider
// arithmetic type in this module is built from: add/sub with external
// carry/borrow, and a double-word multiply that produces a high/low pair.
//
// Everything here is generic over the limb width, mirroring the way the
// teacher library hand-specializes the same operations at 64 bits
// (field.go, field_mul.go): there is one algorithm, instantiated per width.
package limb

import "math/bits"

// Word is the set of unsigned integer widths this module supports as a
// machine word. There is no way to index an array by a type parameter in
// Go, so every wider type (bigint.Int[L], field.Element[L], ...) carries
// its width as a runtime-checked slice length instead of a const-generic
// array size.
type Word interface {
	uint32 | uint64
}

// AddWithCarry returns a+b+carryIn and the resulting carry-out, which is
// always 0 or 1.
func AddWithCarry[L Word](a, b, carryIn L) (sum, carryOut L) {
	s := a + b + carryIn
	// carry out iff the unsigned sum wrapped past the operands' width.
	if s < a || (carryIn == 1 && s == a) {
		carryOut = 1
	}
	return s, carryOut
}

// SubWithBorrow returns a-b-borrowIn and the resulting borrow-out, 0 or 1.
func SubWithBorrow[L Word](a, b, borrowIn L) (diff, borrowOut L) {
	d := a - b - borrowIn
	if a < b || (borrowIn == 1 && a == b) {
		borrowOut = 1
	}
	return d, borrowOut
}

// MulWide multiplies two limbs and returns the full double-width product
// as (high, low). This is the generic stand-in for the teacher's
// mulU64ToU128 (field_mul.go): one primitive every wider multiply
// (bigint schoolbook, Montgomery CIOS) is built from.
func MulWide[L Word](a, b L) (high, low L) {
	switch any(a).(type) {
	case uint64:
		h, l := bits.Mul64(uint64(a), uint64(b))
		return L(h), L(l)
	default:
		// 32-bit limb: a single 64-bit multiply already holds the full
		// double-width product, no need for bits.Mul32.
		p := uint64(a) * uint64(b)
		return L(p >> 32), L(p)
	}
}

// MulAddWideWithCarry computes a*b + c + carryIn as a double-width value
// and returns (high, low). This is the inner step of both schoolbook
// multiply and Montgomery CIOS reduction.
func MulAddWideWithCarry[L Word](a, b, c, carryIn L) (high, low L) {
	h, l := MulWide(a, b)
	l, carry1 := AddWithCarry(l, c, 0)
	l, carry2 := AddWithCarry(l, carryIn, 0)
	h += carry1 + carry2
	return h, l
}

// Zero reports whether every limb is zero.
func Zero[L Word](x []L) bool {
	for _, w := range x {
		if w != 0 {
			return false
		}
	}
	return true
}

// BitLen returns the index of the highest set bit plus one, or 0 if x is
// zero. x is little-endian: x[0] is the least significant limb.
func BitLen[L Word](x []L) int {
	w := wordBits[L]()
	for i := len(x) - 1; i >= 0; i-- {
		if x[i] != 0 {
			return i*w + bitLenOne(x[i])
		}
	}
	return 0
}

func bitLenOne[L Word](w L) int {
	switch v := any(w).(type) {
	case uint64:
		return bits.Len64(v)
	case uint32:
		return bits.Len32(v)
	}
	return 0
}

func wordBits[L Word]() int {
	var z L
	switch any(z).(type) {
	case uint64:
		return 64
	default:
		return 32
	}
}
