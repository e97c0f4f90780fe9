// Package bigint implements fixed-width multi-precision unsigned integers,
// generic over the limb type. Width is fixed at construction time and
// checked at every operation rather than encoded in the type, since Go has
// no way to parameterize a type by an integer (the teacher itself hits the
// same wall and resolves it by hand-specializing FieldElement to 5 limbs
// and Scalar to 4 — this package instead keeps the algorithm generic and
// lets N vary at runtime, per spec's allowance for runtime-checked width).
package bigint

import (
	"errors"
	"fmt"

	"gec.mleku.dev/limb"
)

// Int is a fixed-width unsigned integer, little-endian: Limbs[0] is the
// least significant limb. Two Ints only interoperate if they share the
// same length; every operation below panics on a mismatch.
type Int[L limb.Word] struct {
	Limbs []L
}

// New allocates a zero Int with n limbs.
func New[L limb.Word](n int) Int[L] {
	return Int[L]{Limbs: make([]L, n)}
}

// FromWords builds an Int from limbs given most-significant-first, the
// literal order the teacher's own C++ ancestor uses for constructing test
// vectors (original_source/tests/test_bigint.cpp: Field160(1,2,3,4,5)
// yields array()[4]==1, array()[0]==5).
func FromWords[L limb.Word](wordsMSBFirst ...L) Int[L] {
	n := len(wordsMSBFirst)
	z := New[L](n)
	for i, w := range wordsMSBFirst {
		z.Limbs[n-1-i] = w
	}
	return z
}

func (z Int[L]) checkSameWidth(other Int[L]) {
	if len(z.Limbs) != len(other.Limbs) {
		panic(fmt.Sprintf("bigint: width mismatch: %d vs %d", len(z.Limbs), len(other.Limbs)))
	}
}

// Clone returns an independent copy.
func (z Int[L]) Clone() Int[L] {
	c := New[L](len(z.Limbs))
	copy(c.Limbs, z.Limbs)
	return c
}

// SetZero zeroes z in place.
func (z Int[L]) SetZero() {
	for i := range z.Limbs {
		z.Limbs[i] = 0
	}
}

// SetOne sets z to 1.
func (z Int[L]) SetOne() {
	z.SetZero()
	z.Limbs[0] = 1
}

// SetPow2 sets z = 2^e, where 0 <= e < width. Used by the jump-table build
// in dlp.buildJumpTable to turn a Fisher-Yates-shuffled exponent into the
// scalar it represents, matching S::set_pow2 in
// original_source/include/gec/dlp/pollard_lambda.hpp (lines 55, 150).
func (z Int[L]) SetPow2(e int) {
	z.SetZero()
	w := wordBits(z.Limbs[0])
	limbIdx, bitIdx := e/w, e%w
	if limbIdx < len(z.Limbs) {
		z.Limbs[limbIdx] = L(1) << bitIdx
	}
}

// SetUint64 sets z to v, spreading v across as many low limbs as it needs
// (two for a 32-bit limb type when v exceeds 32 bits). Bits of v beyond
// z's total width are dropped; it never panics.
func (z Int[L]) SetUint64(v uint64) {
	z.SetZero()
	for i := 0; i < len(z.Limbs) && v != 0; i++ {
		z.Limbs[i] = L(v)
		v >>= wordBits(z.Limbs[i])
	}
}

func wordBits[L limb.Word](z L) int {
	switch any(z).(type) {
	case uint64:
		return 64
	default:
		return 32
	}
}

// IsZero reports whether every limb is zero.
func (z Int[L]) IsZero() bool {
	return limb.Zero(z.Limbs)
}

// IsOne reports whether z equals 1.
func (z Int[L]) IsOne() bool {
	if z.Limbs[0] != 1 {
		return false
	}
	for i := 1; i < len(z.Limbs); i++ {
		if z.Limbs[i] != 0 {
			return false
		}
	}
	return true
}

// BitLen returns the index of the highest set bit plus one.
func (z Int[L]) BitLen() int {
	return limb.BitLen(z.Limbs)
}

// Cmp returns -1, 0, or 1 as z is less than, equal to, or greater than
// other.
func (z Int[L]) Cmp(other Int[L]) int {
	z.checkSameWidth(other)
	for i := len(z.Limbs) - 1; i >= 0; i-- {
		if z.Limbs[i] != other.Limbs[i] {
			if z.Limbs[i] < other.Limbs[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Add sets z = a+b and returns the carry out of the top limb.
func Add[L limb.Word](z, a, b Int[L]) L {
	z.checkSameWidth(a)
	z.checkSameWidth(b)
	var carry L
	for i := range z.Limbs {
		z.Limbs[i], carry = limb.AddWithCarry(a.Limbs[i], b.Limbs[i], carry)
	}
	return carry
}

// Sub sets z = a-b and returns the borrow out of the top limb.
func Sub[L limb.Word](z, a, b Int[L]) L {
	z.checkSameWidth(a)
	z.checkSameWidth(b)
	var borrow L
	for i := range z.Limbs {
		z.Limbs[i], borrow = limb.SubWithBorrow(a.Limbs[i], b.Limbs[i], borrow)
	}
	return borrow
}

// And sets z = a&b limb-wise, mirroring the teacher's bit_and
// (original_source/tests/test_bigint.cpp, "bigint bit operations").
func And[L limb.Word](z, a, b Int[L]) {
	z.checkSameWidth(a)
	z.checkSameWidth(b)
	for i := range z.Limbs {
		z.Limbs[i] = a.Limbs[i] & b.Limbs[i]
	}
}

// Or sets z = a|b limb-wise, mirroring the teacher's bit_or.
func Or[L limb.Word](z, a, b Int[L]) {
	z.checkSameWidth(a)
	z.checkSameWidth(b)
	for i := range z.Limbs {
		z.Limbs[i] = a.Limbs[i] | b.Limbs[i]
	}
}

// Xor sets z = a^b limb-wise, mirroring the teacher's bit_xor.
func Xor[L limb.Word](z, a, b Int[L]) {
	z.checkSameWidth(a)
	z.checkSameWidth(b)
	for i := range z.Limbs {
		z.Limbs[i] = a.Limbs[i] ^ b.Limbs[i]
	}
}

// Not sets z = ^a limb-wise, mirroring the teacher's bit_not.
func Not[L limb.Word](z, a Int[L]) {
	z.checkSameWidth(a)
	for i := range z.Limbs {
		z.Limbs[i] = ^a.Limbs[i]
	}
}

// ShiftLeft sets z = a<<k, k in [0, width), and returns the bits shifted
// out of the top.
func ShiftLeft[L limb.Word](z, a Int[L], k int) L {
	z.checkSameWidth(a)
	w := wordBits(a.Limbs[0])
	if k < 0 || k >= w {
		panic("bigint: ShiftLeft requires 0 <= k < word width; use ShiftLeftWords for larger shifts")
	}
	var carry L
	for i := range z.Limbs {
		in := a.Limbs[i]
		var out L
		if k == 0 {
			out = in
		} else {
			out = (in << k) | carry
			carry = in >> (w - k)
		}
		z.Limbs[i] = out
	}
	return carry
}

// ShiftRight sets z = a>>k, k in [0, width).
func ShiftRight[L limb.Word](z, a Int[L], k int) {
	z.checkSameWidth(a)
	w := wordBits(a.Limbs[0])
	if k < 0 || k >= w {
		panic("bigint: ShiftRight requires 0 <= k < word width")
	}
	var carry L
	for i := len(z.Limbs) - 1; i >= 0; i-- {
		in := a.Limbs[i]
		var out L
		if k == 0 {
			out = in
		} else {
			out = (in >> k) | carry
			carry = in << (w - k)
		}
		z.Limbs[i] = out
	}
}

// Bit returns bit i of z, 0 or 1.
func (z Int[L]) Bit(i int) uint {
	w := wordBits(z.Limbs[0])
	limbIdx, bitIdx := i/w, i%w
	if limbIdx >= len(z.Limbs) {
		return 0
	}
	return uint((z.Limbs[limbIdx] >> bitIdx) & 1)
}

// IsOdd reports whether the least significant bit is set.
func (z Int[L]) IsOdd() bool {
	return z.Bit(0) == 1
}

// Source is an abstract uniform-bit generator, satisfied by rng.DRBG and
// by crypto/rand-backed adapters. This is the "abstract capability" spec
// leaves unspecified in its external-interfaces section.
type Source interface {
	Uint64() uint64
}

// SampleUniform fills z with uniformly distributed bits across its full
// width, with no masking or rejection. 64-bit limbs take one uint64 draw
// each; 32-bit limbs split each uint64 draw across two limbs (low half
// first), matching the teacher's own 32/64-bit limb duality.
func SampleUniform[L limb.Word](z Int[L], src Source) {
	i := 0
	for i < len(z.Limbs) {
		v := src.Uint64()
		switch any(z.Limbs[0]).(type) {
		case uint64:
			z.Limbs[i] = L(v)
			i++
		default:
			z.Limbs[i] = L(v)
			i++
			if i < len(z.Limbs) {
				z.Limbs[i] = L(v >> 32)
				i++
			}
		}
	}
}

// SampleInclusive draws a uniform value in [lo, hi] by rejection sampling
// against the smallest power-of-two range that covers hi-lo, mirroring
// S::sample_inclusive as called from the jump-table and walk-start draws in
// original_source/include/gec/dlp/pollard_lambda.hpp (lines 59, 161, 186).
// It panics if lo > hi.
func SampleInclusive[L limb.Word](z, lo, hi Int[L], src Source) {
	if lo.Cmp(hi) > 0 {
		panic("bigint: SampleInclusive requires lo <= hi")
	}
	span := New[L](len(lo.Limbs))
	Sub(span, hi, lo)
	// span = hi-lo; bound the rejection mask to span's own bit length.
	bound := span.BitLen()
	for {
		SampleUniform(z, src)
		maskHighLimbs(z, bound)
		if z.Cmp(span) <= 0 {
			Add(z, z, lo)
			return
		}
	}
}

// SampleExclusive draws a uniform value in [0, hi) by rejection sampling
// against hi's bit length. Panics if hi is zero, since [0, 0) is empty.
func SampleExclusive[L limb.Word](z, hi Int[L], src Source) {
	if hi.IsZero() {
		panic("bigint: SampleExclusive requires hi > 0")
	}
	bound := hi.BitLen()
	for {
		SampleUniform(z, src)
		maskHighLimbs(z, bound)
		if z.Cmp(hi) < 0 {
			return
		}
	}
}

// SampleRange draws a uniform value in [lo, hi) by translating to
// [0, hi-lo) and shifting back. Panics if lo >= hi, since [lo, hi) is
// empty otherwise.
func SampleRange[L limb.Word](z, lo, hi Int[L], src Source) {
	if lo.Cmp(hi) >= 0 {
		panic("bigint: SampleRange requires lo < hi")
	}
	span := New[L](len(lo.Limbs))
	Sub(span, hi, lo)
	SampleExclusive(z, span, src)
	Add(z, z, lo)
}

// SampleNonZero draws a uniform value in [0, hi) excluding zero, by
// rejection-sampling SampleExclusive until the draw is non-zero.
func SampleNonZero[L limb.Word](z, hi Int[L], src Source) {
	for {
		SampleExclusive(z, hi, src)
		if !z.IsZero() {
			return
		}
	}
}

func maskHighLimbs[L limb.Word](z Int[L], bound int) {
	w := wordBits(z.Limbs[0])
	fullLimbs := bound / w
	rem := bound % w
	for i := len(z.Limbs) - 1; i >= 0; i-- {
		switch {
		case i > fullLimbs:
			z.Limbs[i] = 0
		case i == fullLimbs:
			if rem == 0 {
				z.Limbs[i] = 0
			} else {
				z.Limbs[i] &= (L(1) << rem) - 1
			}
		}
	}
}

// FromBytes parses a big-endian byte slice into an Int with n limbs. This
// is the one bigint constructor that returns an error rather than
// panicking: malformed external input, exactly as the teacher's
// NewFieldElement/ECPubkeyParse treat caller-supplied byte slices.
func FromBytes[L limb.Word](b []byte, n int) (Int[L], error) {
	z := New[L](n)
	w := wordBits(z.Limbs[0]) / 8
	if len(b) > n*w {
		return z, errors.New("bigint: byte slice too long for requested width")
	}
	padded := make([]byte, n*w-len(b))
	padded = append(padded, b...)
	for i := 0; i < n; i++ {
		var v uint64
		off := (n - 1 - i) * w
		for j := 0; j < w; j++ {
			v = v<<8 | uint64(padded[off+j])
		}
		z.Limbs[i] = L(v)
	}
	return z, nil
}

// Bytes serializes z as a big-endian byte slice of n*word-width bytes.
func (z Int[L]) Bytes() []byte {
	w := wordBits(z.Limbs[0]) / 8
	out := make([]byte, len(z.Limbs)*w)
	for i, limbVal := range z.Limbs {
		off := (len(z.Limbs) - 1 - i) * w
		v := uint64(limbVal)
		for j := w - 1; j >= 0; j-- {
			out[off+j] = byte(v)
			v >>= 8
		}
	}
	return out
}
