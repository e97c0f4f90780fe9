package field

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"gec.mleku.dev/bigint"
)

// cryptoRandSource draws uniform words from crypto/rand, for the
// randomized property tests below — the teacher's own property tests
// (field_test.go, scalar_test.go) seed their random inputs from
// crypto/rand rather than math/rand.
type cryptoRandSource struct{}

func (cryptoRandSource) Uint64() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic(err)
	}
	return binary.BigEndian.Uint64(buf[:])
}

// modulus160 is the project's published 160-bit prime:
// 0xb77902ab_d8db9627_f5d7ceca_5c17ef6c_5e3b0969.
func modulus160() bigint.Int[uint32] {
	return bigint.FromWords[uint32](
		0xb77902ab, 0xd8db9627, 0xf5d7ceca, 0x5c17ef6c, 0x5e3b0969,
	)
}

type fixedSource struct {
	vals []uint64
	i    int
}

func (f *fixedSource) Uint64() uint64 {
	v := f.vals[f.i%len(f.vals)]
	f.i++
	return v
}

func TestMontgomeryRoundTrip(t *testing.T) {
	p := NewParams(modulus160())
	a := bigint.FromWords[uint32](0, 0, 0x12, 0x34, 0x56)
	mont := p.NewElement()
	p.ToMontgomery(mont, a)
	back := bigint.New[uint32](5)
	p.FromMontgomery(back, mont)
	if back.Cmp(a) != 0 {
		t.Errorf("round trip = %#x, want %#x", back.Limbs, a.Limbs)
	}
}

func TestMulLowLimbS4(t *testing.T) {
	p := NewParams(modulus160())
	a := bigint.New[uint32](5)
	a.SetUint64(0xd8b2f21e)
	b := bigint.New[uint32](5)
	b.SetUint64(0xabf7c642)

	ma, mb := p.NewElement(), p.NewElement()
	p.ToMontgomery(ma, a)
	p.ToMontgomery(mb, b)
	prod := p.NewElement()
	p.Mul(prod, ma, mb)

	std := bigint.New[uint32](5)
	p.FromMontgomery(std, prod)

	want := uint64(0xd8b2f21e) * uint64(0xabf7c642)
	wantInt := bigint.New[uint32](5)
	wantInt.SetUint64(want)
	if std.Cmp(wantInt) != 0 {
		t.Errorf("mul(0xd8b2f21e,0xabf7c642) decoded = %#x, want %#x", std.Limbs, wantInt.Limbs)
	}
}

func TestInvRoundTripS5(t *testing.T) {
	p := NewParams(modulus160())
	testCases := []uint64{1, 2, 3, 0xdeadbeef, 0x123456789a}
	for _, v := range testCases {
		a := bigint.New[uint32](5)
		a.SetUint64(v)
		ma := p.NewElement()
		p.ToMontgomery(ma, a)
		inv := p.NewElement()
		p.Inv(inv, ma)
		prod := p.NewElement()
		p.Mul(prod, ma, inv)
		if prod.V.Cmp(p.ROne) != 0 {
			t.Errorf("a*inv(a) for a=%#x decoded to %#x, want R mod p (%#x)", v, prod.V.Limbs, p.ROne.Limbs)
		}
	}
}

func TestInvPanicsOnZero(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Inv(0) should panic")
		}
	}()
	p := NewParams(modulus160())
	zero := p.NewElement()
	r := p.NewElement()
	p.Inv(r, zero)
}

func TestFermatPow(t *testing.T) {
	p := NewParams(modulus160())
	a := bigint.New[uint32](5)
	a.SetUint64(12345)
	ma := p.NewElement()
	p.ToMontgomery(ma, a)

	powP := p.NewElement()
	p.Pow(powP, ma, p.Mod.M)
	if powP.V.Cmp(ma.V) != 0 {
		t.Errorf("a^p != a: got %#x want %#x", powP.V.Limbs, ma.V.Limbs)
	}

	pMinus1 := p.Mod.M.Clone()
	bigint.Sub(pMinus1, pMinus1, one[uint32](5))
	powPMinus1 := p.NewElement()
	p.Pow(powPMinus1, ma, pMinus1)
	if powPMinus1.V.Cmp(p.ROne) != 0 {
		t.Errorf("a^(p-1) != 1: got %#x want %#x", powPMinus1.V.Limbs, p.ROne.Limbs)
	}
}

func TestMulCommutativeAndInverseRandomized(t *testing.T) {
	p := NewParams(modulus160())
	src := cryptoRandSource{}

	for i := 0; i < 64; i++ {
		a := p.NewElement()
		bigint.SampleNonZero(a.V, p.Mod.M, src)
		b := p.NewElement()
		bigint.SampleNonZero(b.V, p.Mod.M, src)

		ab, ba := p.NewElement(), p.NewElement()
		p.Mul(ab, a, b)
		p.Mul(ba, b, a)
		if ab.V.Cmp(ba.V) != 0 {
			t.Fatalf("iteration %d: a*b != b*a", i)
		}

		inv := p.NewElement()
		p.Inv(inv, a)
		prod := p.NewElement()
		p.Mul(prod, a, inv)
		if prod.V.Cmp(p.ROne) != 0 {
			t.Fatalf("iteration %d: a*inv(a) != 1 (Montgomery R)", i)
		}
	}
}

func TestModSqrt(t *testing.T) {
	p := NewParams(modulus160())
	a := bigint.New[uint32](5)
	a.SetUint64(424242)
	ma := p.NewElement()
	p.ToMontgomery(ma, a)

	square := p.NewElement()
	p.Sqr(square, ma)

	root := p.NewElement()
	src := &fixedSource{vals: []uint64{7, 1234567, 99999999}}
	ok := p.ModSqrt(root, square, src)
	if !ok {
		t.Fatal("ModSqrt of a perfect square must succeed")
	}
	check := p.NewElement()
	p.Sqr(check, root)
	if check.V.Cmp(square.V) != 0 {
		t.Errorf("sqrt(a)^2 = %#x, want %#x", check.V.Limbs, square.V.Limbs)
	}
}
