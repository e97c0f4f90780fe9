package field

import "gec.mleku.dev/limb"

// Context is a fixed-capacity scratch buffer of field elements, carried
// through a multi-step operation so intermediate values reuse
// pre-allocated storage instead of each calling NewElement separately.
// Mirrors the teacher's Context/EcmultGenContext pattern (context.go,
// ecmult.go) of a pre-sized slot array indexed by position, generalized
// to an arbitrary slot count per operation rather than the teacher's
// fixed secp256k1-specific layout.
type Context[L limb.Word] struct {
	slots []Element[L]
	next  int
}

// NewContext allocates a scratch context with room for n field elements,
// all zeroed and sized for p.
func (p Params[L]) NewContext(n int) *Context[L] {
	slots := make([]Element[L], n)
	for i := range slots {
		slots[i] = p.NewElement()
	}
	return &Context[L]{slots: slots}
}

// Get returns the i-th scratch slot. Panics if i is outside the
// context's capacity — the Go realization of spec's "invocation with
// insufficient capacity is a compile-time error (implementations may
// use runtime checks instead)".
func (c *Context[L]) Get(i int) Element[L] {
	if i < 0 || i >= len(c.slots) {
		panic("field: Context.Get index out of capacity")
	}
	return c.slots[i]
}

// Take returns the next unused slot in sequence, for callers that want
// to draw scratch elements without tracking indices by hand.
func (c *Context[L]) Take() Element[L] {
	e := c.Get(c.next)
	c.next++
	return e
}

// Len reports the context's total capacity.
func (c *Context[L]) Len() int { return len(c.slots) }
