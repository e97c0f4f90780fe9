// Package params supplies concrete (limb type, limb count, modulus,
// curve coefficients) instantiations of the generic engine in bigint,
// ring, field, and curve — the "numeric constants supplied at
// instantiation time" spec's external-interfaces section calls for.
package params

import (
	"gec.mleku.dev/bigint"
	"gec.mleku.dev/curve"
	"gec.mleku.dev/field"
)

// Field160 is the 160-bit prime field used throughout the project's
// literal test vectors, grounded directly on
// original_source/tests/test_bigint.cpp and
// original_source/tests/cpu/test_field.cpp: modulus
// 0xb77902ab_d8db9627_f5d7ceca_5c17ef6c_5e3b0969.
func Field160() field.Params[uint32] {
	m := bigint.FromWords[uint32](
		0xb77902ab, 0xd8db9627, 0xf5d7ceca, 0x5c17ef6c, 0x5e3b0969,
	)
	return field.NewParams(m)
}

// Secp256k1 is a 256-bit curve reusing the teacher's own field prime,
// group order, and generator (field.go, scalar.go, group.go): y² = x³+7
// over F_p, p = 2^256 - 2^32 - 977.
type Secp256k1Bundle struct {
	Curve    curve.Params[uint64]
	Scalar   field.Params[uint64] // the scalar field, modulus = group order n
	N        bigint.Int[uint64]   // group order, plain form
	Gx, Gy   bigint.Int[uint64]   // generator, standard (non-Montgomery) form
}

func Secp256k1() Secp256k1Bundle {
	p := bigint.FromWords[uint64](
		0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFF,
		0xFFFFFFFFFFFFFFFF, 0xFFFFFFFEFFFFFC2F,
	)
	fp := field.NewParams(p)

	n := bigint.FromWords[uint64](
		0xFFFFFFFFFFFFFFFF, 0xFFFFFFFFFFFFFFFE,
		0xBAAEDCE6AF48A03B, 0xBFD25E8CD0364141,
	)
	fn := field.NewParams(n)

	a := fp.NewElement() // A = 0
	b := fp.NewElement()
	bStd := bigint.New[uint64](4)
	bStd.SetUint64(7)
	fp.ToMontgomery(b, bStd) // B = 7

	gx := bigint.FromWords[uint64](
		0x79BE667EF9DCBBAC, 0x55A06295CE870B07,
		0x029BFCDB2DCE28D9, 0x59F2815B16F81798,
	)
	gy := bigint.FromWords[uint64](
		0x483ADA7726A3C465, 0x5DA4FBFC0E1108A8,
		0xFD17B448A6855419, 0x9C47D08FFB10D4B8,
	)

	return Secp256k1Bundle{
		Curve:  curve.Params[uint64]{Field: fp, A: a, B: b},
		Scalar: fn,
		N:      n,
		Gx:     gx,
		Gy:     gy,
	}
}

// Generator returns the secp256k1 base point in Jacobian form.
func (s Secp256k1Bundle) Generator() curve.Jacobian[uint64] {
	g := s.Curve.NewJacobian()
	s.Curve.Field.ToMontgomery(g.X, s.Gx)
	s.Curve.Field.ToMontgomery(g.Y, s.Gy)
	s.Curve.FromAffine(g)
	return g
}

// ToyCurveBundle is a small curve with a prime subgroup order ≤ 2^20,
// sized for exercising the Pollard λ solver (spec scenario S7) without
// the cost of a cryptographic-scale group.
type ToyCurveBundle struct {
	Curve  curve.Params[uint32]
	Order  bigint.Int[uint32] // prime subgroup order n
	Gx, Gy bigint.Int[uint32] // generator, standard form
}

// ToyCurve returns y² = x³ + 2x + 2 over F_17, the standard pedagogical
// curve (Certicom's introductory ECC example): 19 points including the
// identity, a prime order, with generator (5, 1) — verified by hand:
// 5³ + 2·5 + 2 = 137 ≡ 1 (mod 17) = 1².
func ToyCurve() ToyCurveBundle {
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

	order := bigint.New[uint32](1)
	order.SetUint64(19)

	gx := bigint.New[uint32](1)
	gx.SetUint64(5)
	gy := bigint.New[uint32](1)
	gy.SetUint64(1)

	return ToyCurveBundle{
		Curve: curve.Params[uint32]{Field: fp, A: a, B: b},
		Order: order,
		Gx:    gx,
		Gy:    gy,
	}
}
