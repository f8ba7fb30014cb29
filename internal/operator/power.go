package operator

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Power implements F⍣N B / A F⍣N B (spec.md §4.6 "Power"): F applied N
// times monadically, or N times dyadically with A held fixed as the left
// argument each iteration. A negative N looks up F's inverse and applies
// it |N| times instead; DOMAIN_ERROR if F has none.
func Power(f Func, a, b *array.Value, n int) (*array.Value, *aplerr.Error) {
	g := f
	count := n
	if n < 0 {
		inv, ok := f.Inverse()
		if !ok {
			return nil, aplerr.New(aplerr.DOMAIN, "%s has no inverse for negative ⍣", f.Name())
		}
		g = inv
		count = -n
	}
	cur := b
	for i := 0; i < count; i++ {
		var r *array.Value
		var err *aplerr.Error
		if a != nil {
			r, err = g.Dyadic(a, cur)
		} else {
			r, err = g.Monadic(cur)
		}
		if err != nil {
			return nil, err
		}
		cur = r
	}
	return cur, nil
}

// PowerUntil implements F⍣G B: F applied repeatedly until the scalar
// condition function G, applied to the (new, old) pair, returns 1 (spec.md
// §4.6 "Power ... condition function").
func PowerUntil(f, g Func, a, b *array.Value) (*array.Value, *aplerr.Error) {
	cur := b
	for {
		var next *array.Value
		var err *aplerr.Error
		if a != nil {
			next, err = f.Dyadic(a, cur)
		} else {
			next, err = f.Monadic(cur)
		}
		if err != nil {
			return nil, err
		}
		cond, cerr := g.Dyadic(next, cur)
		if cerr != nil {
			return nil, cerr
		}
		cur = next
		if isTrue(cond) {
			return cur, nil
		}
	}
}

func isTrue(v *array.Value) bool {
	if v.ElementCount() != 1 {
		return false
	}
	c := v.At(0)
	return c.IsNumeric() && c.Float() != 0
}
