package curve

import (
	"testing"

	"gec.mleku.dev/bigint"
	"gec.mleku.dev/field"
)

// smallCurve returns y² = x³ + 2x + 2 over F_17, with generator (5,1) and
// group order 19 — the standard introductory ECC example, small enough to
// state and check the arithmetic on by hand.
func smallCurve() (Params[uint32], Jacobian[uint32]) {
	p := bigint.New[uint32](1)
	p.SetUint64(17)
	fp := field.NewParams(p)

	a := fp.NewElement()
	aStd := bigint.New[uint32](1)
	aStd.SetUint64(2)
	fp.ToMontgomery(a, aStd)

	b := fp.NewElement()
	bStd := bigint.New[uint32](1)
	bStd.SetUint64(2)
	fp.ToMontgomery(b, bStd)

	c := Params[uint32]{Field: fp, A: a, B: b}

	g := c.NewJacobian()
	gx := bigint.New[uint32](1)
	gx.SetUint64(5)
	gy := bigint.New[uint32](1)
	gy.SetUint64(1)
	fp.ToMontgomery(g.X, gx)
	fp.ToMontgomery(g.Y, gy)
	c.FromAffine(g)

	return c, g
}

func TestGeneratorOnCurve(t *testing.T) {
	c, g := smallCurve()
	if !c.OnCurve(g) {
		t.Error("generator (5,1) must satisfy y^2 = x^3+2x+2 mod 17")
	}
}

func TestAddSelfMatchesNaiveDoubleAdd(t *testing.T) {
	c, g := smallCurve()
	doubled := c.NewJacobian()
	c.AddSelf(doubled, g)

	viaAdd := c.NewJacobian()
	c.Add(viaAdd, g, g)

	if !c.Eq(doubled, viaAdd) {
		t.Error("AddSelf(G) should equal Add(G,G)")
	}
	if !c.OnCurve(doubled) {
		t.Error("2G must be on the curve")
	}
}

func TestScalarMulMatchesRepeatedAddition(t *testing.T) {
	c, g := smallCurve()
	for k := 1; k <= 19; k++ {
		kb := bigint.New[uint32](1)
		kb.SetUint64(uint64(k))
		viaMul := c.NewJacobian()
		c.Mul(viaMul, kb, g)

		viaRepeat := c.NewJacobian() // identity
		for i := 0; i < k; i++ {
			c.Add(viaRepeat, viaRepeat, g)
		}

		if !c.Eq(viaMul, viaRepeat) {
			t.Errorf("k=%d: Mul != repeated addition", k)
		}
	}
}

func TestGroupOrderReturnsIdentity(t *testing.T) {
	c, g := smallCurve()
	n := bigint.New[uint32](1)
	n.SetUint64(19)
	r := c.NewJacobian()
	c.Mul(r, n, g)
	if !c.IsIdentity(r) {
		t.Error("19*G must be the identity for a group of order 19")
	}
}

func TestAddCommutativeAndAssociative(t *testing.T) {
	c, g := smallCurve()
	p2 := c.NewJacobian()
	c.AddSelf(p2, g)
	p3 := c.NewJacobian()
	c.Add(p3, p2, g)

	pq := c.NewJacobian()
	c.Add(pq, p2, p3)
	qp := c.NewJacobian()
	c.Add(qp, p3, p2)
	if !c.Eq(pq, qp) {
		t.Error("point addition must be commutative")
	}

	left := c.NewJacobian()
	tmp := c.NewJacobian()
	c.Add(tmp, p2, p3)
	c.Add(left, tmp, g)

	right := c.NewJacobian()
	tmp2 := c.NewJacobian()
	c.Add(tmp2, p3, g)
	c.Add(right, p2, tmp2)

	if !c.Eq(left, right) {
		t.Error("point addition must be associative")
	}
}

func TestAddInverseIsIdentity(t *testing.T) {
	c, g := smallCurve()
	neg := c.NewJacobian()
	c.Neg(neg, g)
	if !c.OnCurve(neg) {
		t.Error("-G must still be on the curve")
	}
	sum := c.NewJacobian()
	c.Add(sum, g, neg)
	if !c.IsIdentity(sum) {
		t.Error("G + (-G) must be the identity")
	}
}

func TestNegSetsXNotY(t *testing.T) {
	c, g := smallCurve()
	neg := c.NewJacobian()
	c.Neg(neg, g)
	gAffine := c.NewJacobian()
	copy(gAffine.X.V.Limbs, g.X.V.Limbs)
	copy(gAffine.Y.V.Limbs, g.Y.V.Limbs)
	copy(gAffine.Z.V.Limbs, g.Z.V.Limbs)
	c.ToAffine(gAffine)

	negAffine := c.NewJacobian()
	copy(negAffine.X.V.Limbs, neg.X.V.Limbs)
	copy(negAffine.Y.V.Limbs, neg.Y.V.Limbs)
	copy(negAffine.Z.V.Limbs, neg.Z.V.Limbs)
	c.ToAffine(negAffine)

	if negAffine.X.V.Cmp(gAffine.X.V) != 0 {
		t.Error("Neg must preserve X, not swap it for Y")
	}
}

func TestIdentityIsAdditiveIdentity(t *testing.T) {
	c, g := smallCurve()
	id := c.NewJacobian()
	sum := c.NewJacobian()
	c.Add(sum, g, id)
	if !c.Eq(sum, g) {
		t.Error("G + identity must equal G")
	}
}
