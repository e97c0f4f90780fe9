// Package ring implements the modular add/sub group (spec component C3):
// reduction-by-comparison add, sub, neg, and doubling for a fixed modulus.
// This is the layer field.Element builds its Montgomery arithmetic on top
// of, mirroring how the teacher's own field normalization (field.go's
// normalize/normalizeWeak) sits beneath the CIOS multiply in field_mul.go.
package ring

import (
	"fmt"

	"gec.mleku.dev/bigint"
	"gec.mleku.dev/limb"
)

// Modulus bundles a fixed-width modulus with the add/sub group operations
// defined against it.
type Modulus[L limb.Word] struct {
	M bigint.Int[L]
}

func New[L limb.Word](m bigint.Int[L]) Modulus[L] {
	return Modulus[L]{M: m}
}

func (mod Modulus[L]) check(vals ...bigint.Int[L]) {
	for _, v := range vals {
		if len(v.Limbs) != len(mod.M.Limbs) {
			panic(fmt.Sprintf("ring: width mismatch: %d vs modulus width %d", len(v.Limbs), len(mod.M.Limbs)))
		}
	}
}

// Add sets r = a+b mod M. Postcondition: r < M.
func (mod Modulus[L]) Add(r, a, b bigint.Int[L]) {
	mod.check(r, a, b)
	carry := bigint.Add(r, a, b)
	if carry != 0 || r.Cmp(mod.M) >= 0 {
		bigint.Sub(r, r, mod.M)
	}
}

// Sub sets r = a-b mod M.
func (mod Modulus[L]) Sub(r, a, b bigint.Int[L]) {
	mod.check(r, a, b)
	borrow := bigint.Sub(r, a, b)
	if borrow != 0 {
		bigint.Add(r, r, mod.M)
	}
}

// Neg sets r = -a mod M. Neg(0) = 0, never wraps to M.
func (mod Modulus[L]) Neg(r, a bigint.Int[L]) {
	mod.check(r, a)
	if a.IsZero() {
		r.SetZero()
		return
	}
	bigint.Sub(r, mod.M, a)
}

// Double sets r = 2a mod M, the k=1 case of MulPow2.
func (mod Modulus[L]) Double(r, a bigint.Int[L]) {
	mod.MulPow2(r, a, 1)
}

// AddFast is the carry-free variant of Add: valid only when M's top bit is
// clear (M < 2^(B-1)), in which case a+b can never overflow the fixed
// width and the carry check Add performs is unnecessary. Using this when
// the precondition fails is undefined, per spec's carry-free variant.
func (mod Modulus[L]) AddFast(r, a, b bigint.Int[L]) {
	mod.check(r, a, b)
	bigint.Add(r, a, b)
	if r.Cmp(mod.M) >= 0 {
		bigint.Sub(r, r, mod.M)
	}
}

// MulPow2Fast is MulPow2's carry-free counterpart, grounded on
// original_source's ModAddSubMixinCarryFree: shift then compare, no
// overflow-into-the-virtual-limb check.
func (mod Modulus[L]) MulPow2Fast(r, a bigint.Int[L], k int) {
	mod.check(r, a)
	copy(r.Limbs, a.Limbs)
	for i := 0; i < k; i++ {
		bigint.ShiftLeft(r, r, 1)
		if r.Cmp(mod.M) >= 0 {
			bigint.Sub(r, r, mod.M)
		}
	}
}

// MulPow2 sets r = 2^k * a mod M by k repeated conditional doublings, each
// checking overflow into the virtual top bit, per spec's mul_pow2<k>.
func (mod Modulus[L]) MulPow2(r, a bigint.Int[L], k int) {
	mod.check(r, a)
	copy(r.Limbs, a.Limbs)
	for i := 0; i < k; i++ {
		carry := bigint.ShiftLeft(r, r, 1)
		if carry != 0 || r.Cmp(mod.M) >= 0 {
			bigint.Sub(r, r, mod.M)
		}
	}
}
