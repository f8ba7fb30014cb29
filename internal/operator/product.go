package operator

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/parallel"
)

// outerProductPool is the worker-pool threshold table outer product's rows
// fan out across once A's element count passes the configured threshold
// (spec.md §5 "Work sizing"); each row writes a disjoint slice of out's
// ravel (indices i*bn .. i*bn+bn-1), so rows committing out of order is
// still the same result regardless of which worker produced them.
var outerProductPool = parallel.NewThresholds()

// SetOuterProductPool rebinds the pool outer product fans out across,
// letting a workspace share one set of thresholds across every
// parallel-eligible primitive instead of each owning an independent one.
func SetOuterProductPool(p *parallel.Thresholds) { outerProductPool = p }

// Outer implements A∘.F B (spec.md §4.8 "Outer product"): result shape is
// shape(A) catenated with shape(B), each cell F(A[i], B[j]). An empty
// result is a correctly-shaped empty array from a zero-length loop; F's
// fill function is not invoked, so its prototype is always numeric 0.
func Outer(f Func, a, b *array.Value) (*array.Value, *aplerr.Error) {
	outShape := append(a.Shape().Clone(), b.Shape()...)
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	an := a.ElementCount()
	bn := b.ElementCount()
	perr := outerProductPool.For(f.Name()+"∘.", an, func(i int) error {
		ai := array.NewScalar(a.At(i).Clone())
		for j := 0; j < bn; j++ {
			bj := array.NewScalar(b.At(j).Clone())
			r, rerr := f.Dyadic(ai, bj)
			if rerr != nil {
				return rerr
			}
			out.Set(i*bn+j, collapse(r))
		}
		return nil
	})
	if perr != nil {
		ae, ok := perr.(*aplerr.Error)
		if !ok {
			ae = aplerr.Wrap(aplerr.DOMAIN, perr, "outer product")
		}
		return nil, ae
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Inner implements A F.G B (spec.md §4.8 "Inner product"): the last axis
// of A pairs with the first axis of B, `Z[i,j] = F-reduce over k of
// (A[i,k] G B[k,j])`. The shared dimension's lengths must match
// (LENGTH_ERROR); an empty shared dimension uses F's identity.
func Inner(f, g Func, a, b *array.Value) (*array.Value, *aplerr.Error) {
	as, bs := a.Shape(), b.Shape()
	if len(as) == 0 || len(bs) == 0 {
		return nil, aplerr.New(aplerr.RANK, "inner product: operands must have rank >= 1")
	}
	shared := as[len(as)-1]
	if bs[0] != shared {
		return nil, aplerr.New(aplerr.LENGTH, "inner product: shared dimension %d does not match %d", as[len(as)-1], bs[0])
	}
	aOuter := as[:len(as)-1]
	bOuter := bs[1:]
	outShape := append(aOuter.Clone(), bOuter...)
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	aFrameLen := aOuter.ElementCount()
	bFrameLen := bOuter.ElementCount()
	if shared == 0 {
		id, ok := f.Identity()
		if !ok {
			return nil, aplerr.New(aplerr.DOMAIN, "inner product: %s has no identity for an empty shared dimension", f.Name())
		}
		for i := range out.Ravel() {
			out.Set(i, id.Clone())
		}
		out.CheckValue()
		return out, nil
	}
	for i := 0; i < aFrameLen; i++ {
		for j := 0; j < bFrameLen; j++ {
			term := func(k int) (*array.Value, *aplerr.Error) {
				return g.Dyadic(array.NewScalar(a.At(i*shared+k)), array.NewScalar(b.At(k*bFrameLen+j)))
			}
			acc, gerr := term(shared - 1)
			if gerr != nil {
				return nil, gerr
			}
			for k := shared - 2; k >= 0; k-- {
				gk, gerr := term(k)
				if gerr != nil {
					return nil, gerr
				}
				r, rerr := f.Dyadic(gk, acc)
				if rerr != nil {
					return nil, rerr
				}
				acc = r
			}
			out.Set(i*bFrameLen+j, acc.At(0).Clone())
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}
