// Package curve implements short Weierstrass curves y² = x³ + Ax + B over
// a prime field in Jacobian projective coordinates (spec components C5 and
// C6): point construction, the group law (doubling, mixed addition,
// general addition with its identity/negation edge cases), equality,
// affine conversion, and scalar multiplication.
//
// The method shapes — pointer-receiver mutation, explicit scratch field
// elements, one statement per algebraic step — mirror the teacher's own
// GroupElementJacobian (group.go): double/addVar/addGE there are the direct
// model for AddSelf/Add here, generalized from secp256k1's A=0 shortcut to
// the general A,B curve spec requires.
package curve

import (
	"gec.mleku.dev/bigint"
	"gec.mleku.dev/field"
	"gec.mleku.dev/limb"
)

// Params bundles a field and the two Weierstrass coefficients.
type Params[L limb.Word] struct {
	Field field.Params[L]
	A, B  field.Element[L]
}

// Jacobian is a point (X, Y, Z) representing the affine point
// (X/Z², Y/Z³) when Z ≠ 0, or the identity when Z = 0. All three
// coordinates are field elements in Montgomery form.
type Jacobian[L limb.Word] struct {
	X, Y, Z field.Element[L]
}

// NewJacobian allocates the identity point.
func (c Params[L]) NewJacobian() Jacobian[L] {
	return Jacobian[L]{X: c.Field.NewElement(), Y: c.Field.NewElement(), Z: c.Field.NewElement()}
}

// SetIdentity zeroes all three coordinates — the canonical identity
// representation.
func (c Params[L]) SetIdentity(p Jacobian[L]) {
	p.X.V.SetZero()
	p.Y.V.SetZero()
	p.Z.V.SetZero()
}

// IsIdentity reports whether p is the point at infinity.
func (c Params[L]) IsIdentity(p Jacobian[L]) bool {
	return p.Z.V.IsZero()
}

// FromAffine sets Z=1 (Montgomery-form one) on a point whose X, Y already
// hold the affine coordinates.
func (c Params[L]) FromAffine(p Jacobian[L]) {
	copy(p.Z.V.Limbs, c.Field.ROne.Limbs)
}

// ToAffine normalizes p's X, Y into affine form in place: X ← X·Z⁻²,
// Y ← Y·Z⁻³. Z is left unchanged — pairing to_affine/from_affine is the
// caller's responsibility, per spec. A no-op on the identity or when Z is
// already the Montgomery one.
func (c Params[L]) ToAffine(p Jacobian[L]) {
	if c.IsIdentity(p) || p.Z.V.Cmp(c.Field.ROne) == 0 {
		return
	}
	ctx := c.Field.NewContext(3)
	zInv, zInv2, zInv3 := ctx.Take(), ctx.Take(), ctx.Take()
	c.Field.Inv(zInv, p.Z)
	c.Field.Sqr(zInv2, zInv)
	c.Field.Mul(zInv3, zInv2, zInv)
	c.Field.Mul(p.X, p.X, zInv2)
	c.Field.Mul(p.Y, p.Y, zInv3)
}

// Neg sets r = -p: r.X = p.X, r.Y = -p.Y, r.Z = p.Z. This is the
// mathematically correct negation; the historical source this design is
// grounded on instead sets r.X = p.Y, a long-standing typo this package
// does not reproduce.
func (c Params[L]) Neg(r, p Jacobian[L]) {
	copy(r.X.V.Limbs, p.X.V.Limbs)
	c.Field.Mod.Neg(r.Y.V, p.Y.V)
	copy(r.Z.V.Limbs, p.Z.V.Limbs)
}

// Eq reports whether p and q represent the same affine point, handling
// differing Z via cross-multiplication, with a fast path when Z_p = Z_q.
func (c Params[L]) Eq(p, q Jacobian[L]) bool {
	pInf, qInf := c.IsIdentity(p), c.IsIdentity(q)
	if pInf && qInf {
		return true
	}
	if pInf != qInf {
		return false
	}
	if p.Z.V.Cmp(q.Z.V) == 0 {
		return p.X.V.Cmp(q.X.V) == 0 && p.Y.V.Cmp(q.Y.V) == 0
	}

	ctx := c.Field.NewContext(6)
	zp2, zq2 := ctx.Take(), ctx.Take()
	c.Field.Sqr(zp2, p.Z)
	c.Field.Sqr(zq2, q.Z)
	lhs, rhs := ctx.Take(), ctx.Take()
	c.Field.Mul(lhs, p.X, zq2)
	c.Field.Mul(rhs, q.X, zp2)
	if lhs.V.Cmp(rhs.V) != 0 {
		return false
	}

	zp3, zq3 := ctx.Take(), ctx.Take()
	c.Field.Mul(zp3, zp2, p.Z)
	c.Field.Mul(zq3, zq2, q.Z)
	c.Field.Mul(lhs, p.Y, zq3)
	c.Field.Mul(rhs, q.Y, zp3)
	return lhs.V.Cmp(rhs.V) == 0
}

// OnCurve verifies Y² = X³ + A·X·Z⁴ + B·Z⁶.
func (c Params[L]) OnCurve(p Jacobian[L]) bool {
	if c.IsIdentity(p) {
		return true
	}
	ctx := c.Field.NewContext(9)
	y2 := ctx.Take()
	c.Field.Sqr(y2, p.Y)

	x2, x3 := ctx.Take(), ctx.Take()
	c.Field.Sqr(x2, p.X)
	c.Field.Mul(x3, x2, p.X)

	z2, z4, z6 := ctx.Take(), ctx.Take(), ctx.Take()
	c.Field.Sqr(z2, p.Z)
	c.Field.Sqr(z4, z2)
	c.Field.Mul(z6, z4, z2)

	ax := ctx.Take()
	c.Field.Mul(ax, c.A, p.X)
	c.Field.Mul(ax, ax, z4)

	bz6 := ctx.Take()
	c.Field.Mul(bz6, c.B, z6)

	rhs := ctx.Take()
	c.Field.Mod.Add(rhs.V, x3.V, ax.V)
	c.Field.Mod.Add(rhs.V, rhs.V, bz6.V)

	return y2.V.Cmp(rhs.V) == 0
}

// AddSelf sets r = 2p (point doubling), cost ≈ 4M + 6S, per spec §4.5:
//
//	t = 3·X² + A·Z⁴
//	a = 4·X·Y²
//	r.x = t² − 2a
//	r.y = t·(a − r.x) − 8·Y⁴
//	r.z = 2·Y·Z
func (c Params[L]) AddSelf(r, p Jacobian[L]) {
	if c.IsIdentity(p) {
		c.SetIdentity(r)
		return
	}
	F := c.Field
	ctx := F.NewContext(19)

	x2 := ctx.Take()
	F.Sqr(x2, p.X)
	threeX2 := ctx.Take()
	F.Mod.Add(threeX2.V, x2.V, x2.V)
	F.Mod.Add(threeX2.V, threeX2.V, x2.V)

	z2, z4 := ctx.Take(), ctx.Take()
	F.Sqr(z2, p.Z)
	F.Sqr(z4, z2)
	az4 := ctx.Take()
	F.Mul(az4, c.A, z4)

	t := ctx.Take()
	F.Mod.Add(t.V, threeX2.V, az4.V)

	y2 := ctx.Take()
	F.Sqr(y2, p.Y)
	xy2 := ctx.Take()
	F.Mul(xy2, p.X, y2)
	a4 := ctx.Take()
	F.Mod.Add(a4.V, xy2.V, xy2.V)
	F.Mod.Add(a4.V, a4.V, a4.V)

	t2 := ctx.Take()
	F.Sqr(t2, t)
	twoA := ctx.Take()
	F.Mod.Add(twoA.V, a4.V, a4.V)
	rx := ctx.Take()
	F.Mod.Sub(rx.V, t2.V, twoA.V)

	aMinusRx := ctx.Take()
	F.Mod.Sub(aMinusRx.V, a4.V, rx.V)
	tTimes := ctx.Take()
	F.Mul(tTimes, t, aMinusRx)

	y4 := ctx.Take()
	F.Sqr(y4, y2)
	eightY4 := ctx.Take()
	F.Mod.Add(eightY4.V, y4.V, y4.V)
	F.Mod.Add(eightY4.V, eightY4.V, eightY4.V)
	F.Mod.Add(eightY4.V, eightY4.V, eightY4.V)

	ry := ctx.Take()
	F.Mod.Sub(ry.V, tTimes.V, eightY4.V)

	yz := ctx.Take()
	F.Mul(yz, p.Y, p.Z)
	rz := ctx.Take()
	F.Mod.Add(rz.V, yz.V, yz.V)

	copy(r.X.V.Limbs, rx.V.Limbs)
	copy(r.Y.V.Limbs, ry.V.Limbs)
	copy(r.Z.V.Limbs, rz.V.Limbs)
}

// crossTerms computes u1, u2, s1, s2 for p and q, shared by AddDistinct
// and the dispatch logic in Add.
func (c Params[L]) crossTerms(p, q Jacobian[L]) (u1, u2, s1, s2 field.Element[L]) {
	F := c.Field
	ctx := F.NewContext(8)
	zp2, zq2 := ctx.Take(), ctx.Take()
	F.Sqr(zp2, p.Z)
	F.Sqr(zq2, q.Z)
	zp3, zq3 := ctx.Take(), ctx.Take()
	F.Mul(zp3, zp2, p.Z)
	F.Mul(zq3, zq2, q.Z)

	u1, u2 = ctx.Take(), ctx.Take()
	F.Mul(u1, p.X, zq2)
	F.Mul(u2, q.X, zp2)
	s1, s2 = ctx.Take(), ctx.Take()
	F.Mul(s1, p.Y, zq3)
	F.Mul(s2, q.Y, zp3)
	return
}

// addDistinctInner computes mixed addition from precomputed cross terms,
// assuming p ≠ ±q, per spec §4.5:
//
//	e = u2 − u1,  f = s2 − s1
//	r.x = f² − 2·u1·e² − e³
//	r.y = f·(u1·e² − r.x) − s1·e³
//	r.z = Z_p·Z_q·e
func (c Params[L]) addDistinctInner(r, p, q Jacobian[L], u1, u2, s1, s2 field.Element[L]) {
	F := c.Field
	ctx := F.NewContext(14)

	e, f := ctx.Take(), ctx.Take()
	F.Mod.Sub(e.V, u2.V, u1.V)
	F.Mod.Sub(f.V, s2.V, s1.V)

	e2 := ctx.Take()
	F.Sqr(e2, e)
	e3 := ctx.Take()
	F.Mul(e3, e2, e)

	u1e2 := ctx.Take()
	F.Mul(u1e2, u1, e2)
	twoU1e2 := ctx.Take()
	F.Mod.Add(twoU1e2.V, u1e2.V, u1e2.V)

	f2 := ctx.Take()
	F.Sqr(f2, f)
	rx := ctx.Take()
	F.Mod.Sub(rx.V, f2.V, twoU1e2.V)
	F.Mod.Sub(rx.V, rx.V, e3.V)

	u1e2MinusRx := ctx.Take()
	F.Mod.Sub(u1e2MinusRx.V, u1e2.V, rx.V)
	fTimes := ctx.Take()
	F.Mul(fTimes, f, u1e2MinusRx)
	s1e3 := ctx.Take()
	F.Mul(s1e3, s1, e3)
	ry := ctx.Take()
	F.Mod.Sub(ry.V, fTimes.V, s1e3.V)

	zpzq := ctx.Take()
	F.Mul(zpzq, p.Z, q.Z)
	rz := ctx.Take()
	F.Mul(rz, zpzq, e)

	copy(r.X.V.Limbs, rx.V.Limbs)
	copy(r.Y.V.Limbs, ry.V.Limbs)
	copy(r.Z.V.Limbs, rz.V.Limbs)
}

// AddDistinct is the mixed-addition entry point for callers who already
// know p ≠ ±q.
func (c Params[L]) AddDistinct(r, p, q Jacobian[L]) {
	u1, u2, s1, s2 := c.crossTerms(p, q)
	c.addDistinctInner(r, p, q, u1, u2, s1, s2)
}

// Add is the general addition, per spec §4.5:
//  1. identity short-circuits
//  2. u1 = u2 ∧ s1 = s2  → double
//  3. u1 = u2 ∧ s1 ≠ s2  → identity (P + (-P))
//  4. otherwise          → distinct-add
func (c Params[L]) Add(r, p, q Jacobian[L]) {
	if c.IsIdentity(p) {
		copy(r.X.V.Limbs, q.X.V.Limbs)
		copy(r.Y.V.Limbs, q.Y.V.Limbs)
		copy(r.Z.V.Limbs, q.Z.V.Limbs)
		return
	}
	if c.IsIdentity(q) {
		copy(r.X.V.Limbs, p.X.V.Limbs)
		copy(r.Y.V.Limbs, p.Y.V.Limbs)
		copy(r.Z.V.Limbs, p.Z.V.Limbs)
		return
	}

	u1, u2, s1, s2 := c.crossTerms(p, q)
	sameX := u1.V.Cmp(u2.V) == 0
	sameY := s1.V.Cmp(s2.V) == 0

	switch {
	case sameX && sameY:
		c.AddSelf(r, p)
	case sameX:
		c.SetIdentity(r)
	default:
		c.addDistinctInner(r, p, q, u1, u2, s1, s2)
	}
}

// Mul computes r = k·P via left-to-right binary double-and-add over
// k.BitLen() iterations, using the general Add so doubling/identity
// transitions mid-ladder are handled uniformly, per spec §4.6.
func (c Params[L]) Mul(r Jacobian[L], k bigint.Int[L], p Jacobian[L]) {
	c.SetIdentity(r)
	bits := k.BitLen()
	for i := bits - 1; i >= 0; i-- {
		c.AddSelf(r, r)
		if k.Bit(i) == 1 {
			c.Add(r, r, p)
		}
	}
}
