package curve

import (
	"testing"

	"gec.mleku.dev/bigint"
	"gec.mleku.dev/field"
)

// secp256k1-scale curve reusing the teacher's own field prime and group
// order (field.go / scalar.go), exercised here at the generic-engine
// level rather than via the teacher's hand-specialized 5x52/4x64 layout.
func secp256k1Curve() (Params[uint64], Jacobian[uint64], bigint.Int[uint64]) {
	p := bigint.FromWords[uint64](
		0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF,
		0xFFFFFFFFFFFFFFFF, 0xFFFFFFFEFFFFFC2F,
	)
	fp := field.NewParams(p)

	a := fp.NewElement()
	b := fp.NewElement()
	bStd := bigint.New[uint64](4)
	bStd.SetUint64(7)
	fp.ToMontgomery(b, bStd)

	c := Params[uint64]{Field: fp, A: a, B: b}

	g := c.NewJacobian()
	gx := bigint.FromWords[uint64](
		0x79BE667EF9DCBBAC, 0x55A06295CE870B07,
		0x029BFCDB2DCE28D9, 0x59F2815B16F81798,
	)
	gy := bigint.FromWords[uint64](
		0x483ADA7726A3C465, 0x5DA4FBFC0E1108A8,
		0xFD17B448A6855419, 0x9C47D08FFB10D4B8,
	)
	fp.ToMontgomery(g.X, gx)
	fp.ToMontgomery(g.Y, gy)
	c.FromAffine(g)

	n := bigint.FromWords[uint64](
		0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFE,
		0xBAAEDCE6AF48A03B, 0xBFD25E8CD0364141,
	)
	return c, g, n
}

func TestSecp256k1GeneratorOnCurve(t *testing.T) {
	c, g, _ := secp256k1Curve()
	if !c.OnCurve(g) {
		t.Error("secp256k1 generator must satisfy y^2 = x^3 + 7")
	}
}

func TestSecp256k1DoubleAndTripleConsistentS6(t *testing.T) {
	c, g, _ := secp256k1Curve()

	two := c.NewJacobian()
	c.AddSelf(two, g)
	if !c.OnCurve(two) {
		t.Error("2G must be on the curve")
	}

	three := c.NewJacobian()
	c.Add(three, two, g)
	if !c.OnCurve(three) {
		t.Error("3G must be on the curve")
	}

	viaMul2 := c.NewJacobian()
	two2 := bigint.New[uint64](4)
	two2.SetUint64(2)
	c.Mul(viaMul2, two2, g)
	if !c.Eq(viaMul2, two) {
		t.Error("Mul(2,G) must equal AddSelf(G)")
	}

	viaMul3 := c.NewJacobian()
	three2 := bigint.New[uint64](4)
	three2.SetUint64(3)
	c.Mul(viaMul3, three2, g)
	if !c.Eq(viaMul3, three) {
		t.Error("Mul(3,G) must equal 2G+G")
	}
}

func TestSecp256k1OrderTimesGIsIdentityS6(t *testing.T) {
	c, g, n := secp256k1Curve()
	r := c.NewJacobian()
	c.Mul(r, n, g)
	if !c.IsIdentity(r) {
		t.Error("n*G must be the identity")
	}
}
