package dlp

import (
	"context"
	"math/rand"
	"testing"

	"gec.mleku.dev/bigint"
	"gec.mleku.dev/params"
)

type randSource struct {
	r *rand.Rand
}

func (s *randSource) Uint64() uint64 { return s.r.Uint64() }

func newRandSource(seed int64) bigint.Source {
	return &randSource{r: rand.New(rand.NewSource(seed))}
}

func TestSolveRecoversDiscreteLogS7(t *testing.T) {
	toy := params.ToyCurve()
	grp := Group[uint32]{Curve: toy.Curve}

	g := toy.Curve.NewJacobian()
	toy.Curve.Field.ToMontgomery(g.X, toy.Gx)
	toy.Curve.Field.ToMontgomery(g.Y, toy.Gy)
	toy.Curve.FromAffine(g)

	a := bigint.New[uint32](1)
	b := toy.Order.Clone()
	bigint.Sub(b, b, bigint.FromWords[uint32](1))

	k := bigint.New[uint32](1)
	k.SetUint64(7)

	h := toy.Curve.NewJacobian()
	grp.Curve.Mul(h, k, g)

	src := newRandSource(42)
	got, err := Solve(context.Background(), grp, a, b, g, h, 50, src)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	check := toy.Curve.NewJacobian()
	grp.Curve.Mul(check, got, g)
	if !grp.Curve.Eq(check, h) {
		t.Errorf("Solve returned k=%#x, but k*G != H", got.Limbs)
	}
}

func TestSolveConcurrentRecoversDiscreteLog(t *testing.T) {
	toy := params.ToyCurve()
	grp := Group[uint32]{Curve: toy.Curve}

	g := toy.Curve.NewJacobian()
	toy.Curve.Field.ToMontgomery(g.X, toy.Gx)
	toy.Curve.Field.ToMontgomery(g.Y, toy.Gy)
	toy.Curve.FromAffine(g)

	a := bigint.New[uint32](1)
	b := toy.Order.Clone()
	bigint.Sub(b, b, bigint.FromWords[uint32](1))

	k := bigint.New[uint32](1)
	k.SetUint64(11)

	h := toy.Curve.NewJacobian()
	grp.Curve.Mul(h, k, g)

	seed := int64(1)
	newSrc := func() bigint.Source {
		seed++
		return newRandSource(seed)
	}
	got, err := SolveConcurrent(context.Background(), grp, a, b, g, h, 50, 4, newSrc)
	if err != nil {
		t.Fatalf("SolveConcurrent: %v", err)
	}

	check := toy.Curve.NewJacobian()
	grp.Curve.Mul(check, got, g)
	if !grp.Curve.Eq(check, h) {
		t.Errorf("SolveConcurrent returned k=%#x, but k*G != H", got.Limbs)
	}
}

func TestSolveRespectsCancellation(t *testing.T) {
	toy := params.ToyCurve()
	grp := Group[uint32]{Curve: toy.Curve}

	g := toy.Curve.NewJacobian()
	toy.Curve.Field.ToMontgomery(g.X, toy.Gx)
	toy.Curve.Field.ToMontgomery(g.Y, toy.Gy)
	toy.Curve.FromAffine(g)

	a := bigint.New[uint32](1)
	b := toy.Order.Clone()
	bigint.Sub(b, b, bigint.FromWords[uint32](1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// h unused by a pre-canceled context, but Solve still needs a value.
	h := g

	_, err := Solve(ctx, grp, a, b, g, h, 50, newRandSource(1))
	if err == nil {
		t.Error("Solve should return an error when the context is already canceled")
	}
}
