// Package dlp implements the Pollard λ (lambda/kangaroo) discrete
// logarithm solver (spec component C7): single-threaded and multi-worker
// variants over a shared trap map, grounded on
// original_source/include/gec/dlp/pollard_lambda.hpp — the jump-table
// construction by Fisher-Yates, the tame/wild walk indexing by an
// X-coordinate residue, and the barrier-synchronized two-phase worker
// protocol are all carried over; the pthreads primitives (pthread_mutex_t,
// pthread_barrier_t) become sync.Mutex and a small channel-based
// rendezvous, since goroutines — not OS threads — are the idiomatic unit
// of concurrency here.
package dlp

import (
	"context"
	"sync"

	"gec.mleku.dev/bigint"
	"gec.mleku.dev/curve"
	"gec.mleku.dev/limb"
)

// Group wraps the curve.Params[L] the solver works over and exposes the
// operations it needs from it: point addition, equality and scalar
// multiplication. Points and scalars share the one limb type L.
type Group[L limb.Word] struct {
	Curve curve.Params[L]
}

func (g Group[L]) mul(r curve.Jacobian[L], k bigint.Int[L], p curve.Jacobian[L]) {
	g.Curve.Mul(r, k, p)
}

func (g Group[L]) add(r, a, b curve.Jacobian[L]) {
	g.Curve.Add(r, a, b)
}

func (g Group[L]) eq(a, b curve.Jacobian[L]) bool {
	return g.Curve.Eq(a, b)
}

// xResidue extracts the X-coordinate of a Jacobian point as an integer,
// reduced into [0, m), for indexing the jump table. Affine conversion is
// required first since the walk indexes by the true X-coordinate, not an
// arbitrary Jacobian representative.
func (g Group[L]) xResidue(p curve.Jacobian[L], m int) int {
	affine := curve.Jacobian[L]{X: g.Curve.Field.NewElement(), Y: g.Curve.Field.NewElement(), Z: g.Curve.Field.NewElement()}
	copy(affine.X.V.Limbs, p.X.V.Limbs)
	copy(affine.Y.V.Limbs, p.Y.V.Limbs)
	copy(affine.Z.V.Limbs, p.Z.V.Limbs)
	g.Curve.ToAffine(affine)
	std := bigint.New[L](len(affine.X.V.Limbs))
	g.Curve.Field.FromMontgomery(std, affine.X)
	r := 0
	for i := std.BitLen() - 1; i >= 0; i-- {
		r = (2*r + int(std.Bit(i))) % m
	}
	return r
}

// jumpTable is the precomputed (s_i, s_i·G) pairs a walk steps through,
// built once per epoch by a Fisher-Yates shuffle of {0,...,m-1} exponents.
type jumpTable[L limb.Word] struct {
	s []bigint.Int[L]
	p []curve.Jacobian[L]
}

func buildJumpTable[L limb.Word](g Group[L], m int, n int, genG curve.Jacobian[L], src bigint.Source) jumpTable[L] {
	perm := make([]int, m)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < m; i++ {
		ri := m - 1 - i
		j := int(src.Uint64() % uint64(ri+1))
		perm[ri], perm[j] = perm[j], perm[ri]
	}

	jt := jumpTable[L]{s: make([]bigint.Int[L], m), p: make([]curve.Jacobian[L], m)}
	for i := 0; i < m; i++ {
		e := perm[i]
		s := bigint.New[L](n)
		s.SetPow2(e)
		jt.s[i] = s
		pt := g.Curve.NewJacobian()
		g.mul(pt, s, genG)
		jt.p[i] = pt
	}
	return jt
}

// step advances point u (with accumulated scalar x) by one jump-table
// entry, chosen by u's X-coordinate residue mod m.
func (g Group[L]) step(u curve.Jacobian[L], x bigint.Int[L], jt jumpTable[L], m int) {
	i := g.xResidue(u, m)
	bigint.Add(x, x, jt.s[i])
	tmp := g.Curve.NewJacobian()
	g.add(tmp, u, jt.p[i])
	copy(u.X.V.Limbs, tmp.X.V.Limbs)
	copy(u.Y.V.Limbs, tmp.Y.V.Limbs)
	copy(u.Z.V.Limbs, tmp.Z.V.Limbs)
}

// Solve runs the single-threaded Pollard λ procedure: given generator g,
// target h = k·g with a ≤ k ≤ b, recover k. a must be strictly less than
// b. The wild walk starts at h alone (not x₀'·g + h) — one of two valid
// choices the source leaves ambiguous; this is the one the single-worker
// path uses here, matching the source's single-threaded form.
//
// bound is the number of steps per walk (β in the spec). ctx supplies the
// caller's external step budget: if canceled, Solve returns ctx.Err().
func Solve[L limb.Word](ctx context.Context, grp Group[L], a, b bigint.Int[L], g, h curve.Jacobian[L], bound int, src bigint.Source) (bigint.Int[L], error) {
	if a.Cmp(b) >= 0 {
		panic("dlp: Solve requires a < b")
	}
	n := len(a.Limbs)
	span := bigint.New[L](n)
	bigint.Sub(span, b, a)
	m := span.BitLen() - 1
	if m < 1 {
		m = 1
	}

	for {
		select {
		case <-ctx.Done():
			return bigint.New[L](n), ctx.Err()
		default:
		}

		jt := buildJumpTable(grp, m, n, g, src)

		x := bigint.New[L](n)
		bigint.SampleInclusive(x, a, b, src)
		u := grp.Curve.NewJacobian()
		grp.mul(u, x, g)
		for i := 0; i < bound; i++ {
			grp.step(u, x, jt, m)
		}
		uTame, xTame := u, x

		d := bigint.New[L](n)
		v := grp.Curve.NewJacobian()
		copy(v.X.V.Limbs, h.X.V.Limbs)
		copy(v.Y.V.Limbs, h.Y.V.Limbs)
		copy(v.Z.V.Limbs, h.Z.V.Limbs)
		found := false
		for i := 0; i < bound; i++ {
			if grp.eq(uTame, v) {
				found = true
				break
			}
			grp.step(v, d, jt, m)
		}
		if found {
			k := bigint.New[L](n)
			bigint.Sub(k, xTame, d)
			return k, nil
		}
	}
}

// SolveConcurrent runs the W-worker barrier-synchronized variant, per
// spec §4.7: worker 0 builds the jump table each epoch, all workers set
// traps from independent tame walks starting at x·g, then all workers
// search from x·g + h, probing the shared trap map. Unlike the
// single-threaded form, the wild walk here starts at x₀'·g + h — the
// other valid choice the source leaves open, matching its own
// multi-worker form.
func SolveConcurrent[L limb.Word](ctx context.Context, grp Group[L], a, b bigint.Int[L], g, h curve.Jacobian[L], bound, workers int, newSrc func() bigint.Source) (bigint.Int[L], error) {
	if a.Cmp(b) >= 0 {
		panic("dlp: SolveConcurrent requires a < b")
	}
	n := len(a.Limbs)
	span := bigint.New[L](n)
	bigint.Sub(span, b, a)
	m := span.BitLen() - 1
	if m < 1 {
		m = 1
	}

	var (
		trapsLock sync.Mutex
		traps     = make(map[string]bigint.Int[L])
		resultLock sync.Mutex
		result    bigint.Int[L]
		shutdown  bool
	)

	for {
		select {
		case <-ctx.Done():
			return bigint.New[L](n), ctx.Err()
		default:
		}

		var jt jumpTable[L]
		barrier := newBarrier(workers)

		var wg sync.WaitGroup
		wg.Add(workers)
		for w := 0; w < workers; w++ {
			go func(id int) {
				defer wg.Done()
				src := newSrc()

				if id == 0 {
					jt = buildJumpTable(grp, m, n, g, src)
				}
				barrier.wait()

				x := bigint.New[L](n)
				bigint.SampleInclusive(x, a, b, src)
				u := grp.Curve.NewJacobian()
				grp.mul(u, x, g)
				for i := 0; i < bound; i++ {
					grp.step(u, x, jt, m)
				}
				key := string(pointKey(grp, u))
				trapsLock.Lock()
				traps[key] = x
				trapsLock.Unlock()

				barrier.wait()

				x2 := bigint.New[L](n)
				bigint.SampleInclusive(x2, a, b, src)
				xg := grp.Curve.NewJacobian()
				grp.mul(xg, x2, g)
				v := grp.Curve.NewJacobian()
				grp.add(v, h, xg)
				for i := 0; i < bound; i++ {
					resultLock.Lock()
					sd := shutdown
					resultLock.Unlock()
					if sd {
						break
					}
					key := string(pointKey(grp, v))
					trapsLock.Lock()
					trapScalar, hit := traps[key]
					trapsLock.Unlock()
					if hit && trapScalar.Cmp(x2) != 0 {
						resultLock.Lock()
						if !shutdown {
							k := bigint.New[L](n)
							bigint.Sub(k, trapScalar, x2)
							result = k
							shutdown = true
						}
						resultLock.Unlock()
						break
					}
					grp.step(v, x2, jt, m)
				}

				barrier.wait()
			}(w)
		}
		wg.Wait()

		if shutdown {
			return result, nil
		}
	}
}

// pointKey serializes a point's affine X,Y coordinates for use as a
// comparable map key, working around Go map keys needing comparability
// (a Jacobian's field-element slices aren't).
func pointKey[L limb.Word](grp Group[L], p curve.Jacobian[L]) []byte {
	affine := curve.Jacobian[L]{X: grp.Curve.Field.NewElement(), Y: grp.Curve.Field.NewElement(), Z: grp.Curve.Field.NewElement()}
	copy(affine.X.V.Limbs, p.X.V.Limbs)
	copy(affine.Y.V.Limbs, p.Y.V.Limbs)
	copy(affine.Z.V.Limbs, p.Z.V.Limbs)
	grp.Curve.ToAffine(affine)
	xStd := bigint.New[L](len(affine.X.V.Limbs))
	yStd := bigint.New[L](len(affine.Y.V.Limbs))
	grp.Curve.Field.FromMontgomery(xStd, affine.X)
	grp.Curve.Field.FromMontgomery(yStd, affine.Y)
	return append(xStd.Bytes(), yStd.Bytes()...)
}

// barrier is a reusable rendezvous for exactly n goroutines, standing in
// for pthread_barrier_t: every call to wait blocks until all n
// participants of the current round have called it, then releases them
// together.
type barrier struct {
	n     int
	mu    sync.Mutex
	count int
	ch    chan struct{}
}

func newBarrier(n int) *barrier {
	return &barrier{n: n, ch: make(chan struct{})}
}

func (b *barrier) wait() {
	b.mu.Lock()
	b.count++
	if b.count == b.n {
		close(b.ch)
		b.count = 0
		b.ch = make(chan struct{})
		b.mu.Unlock()
		return
	}
	ch := b.ch
	b.mu.Unlock()
	<-ch
}
