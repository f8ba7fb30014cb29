package scalar

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// ApplyMonadic implements spec.md §4.3 "Monadic f B": empty B yields the
// fill/identity-propagated empty result; otherwise f is applied cell by
// cell, recursing into pointer cells.
func ApplyMonadic(p *Primitive, b *array.Value) (*array.Value, *aplerr.Error) {
	if b.IsEmpty() {
		return fillEmpty(b), nil
	}
	out, err := array.New(b.Shape())
	if err != nil {
		return nil, err
	}
	for i, c := range b.Ravel() {
		r, rerr := applyMonadicCell(p, c)
		if rerr != nil {
			return nil, rerr
		}
		out.Set(i, r)
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func applyMonadicCell(p *Primitive, c cell.Cell) (cell.Cell, *aplerr.Error) {
	if c.IsNested() {
		inner, ok := c.Pointer().(*array.Value)
		if !ok {
			return cell.Cell{}, aplerr.New(aplerr.DOMAIN, "malformed nested cell")
		}
		r, err := ApplyMonadic(p, inner)
		if err != nil {
			return cell.Cell{}, err
		}
		return cell.NewPointer(r), nil
	}
	return p.Monadic(c)
}

// ApplyMonadicCT is ApplyMonadic for a primitive whose monadic form needs
// the live ⎕CT (e.g. tolerant floor/ceiling, spec.md SUPPLEMENTED FEATURES
// "Tolerant floor/ceiling"), threading ct through the same empty-fill and
// nested-cell recursion as ApplyMonadic.
func ApplyMonadicCT(p *Primitive, b *array.Value, ct float64) (*array.Value, *aplerr.Error) {
	if b.IsEmpty() {
		return fillEmpty(b), nil
	}
	out, err := array.New(b.Shape())
	if err != nil {
		return nil, err
	}
	for i, c := range b.Ravel() {
		r, rerr := applyMonadicCellCT(p, c, ct)
		if rerr != nil {
			return nil, rerr
		}
		out.Set(i, r)
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func applyMonadicCellCT(p *Primitive, c cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
	if c.IsNested() {
		inner, ok := c.Pointer().(*array.Value)
		if !ok {
			return cell.Cell{}, aplerr.New(aplerr.DOMAIN, "malformed nested cell")
		}
		r, err := ApplyMonadicCT(p, inner, ct)
		if err != nil {
			return cell.Cell{}, err
		}
		return cell.NewPointer(r), nil
	}
	return p.MonadicCT(c, ct)
}

func fillEmpty(b *array.Value) *array.Value {
	out, _ := array.New(b.Shape())
	proto := b.Prototype()
	for i := range out.Ravel() {
		out.Set(i, proto.Clone())
	}
	out.CheckValue()
	return out
}

// ApplyDyadic implements spec.md §4.3 "Dyadic f(A,B) (scalar extension)":
// scalar/singleton broadcast either side, otherwise shapes must match
// exactly (LENGTH_ERROR) with matching rank (RANK_ERROR), recursing into
// nested cells via a singleton wrap.
func ApplyDyadic(p *Primitive, a, b *array.Value, ct float64) (*array.Value, *aplerr.Error) {
	aScalar := a.ElementCount() == 1
	bScalar := b.ElementCount() == 1
	switch {
	case aScalar && bScalar:
		r, err := applyDyadicCell(p, a.At(0), b.At(0), ct)
		if err != nil {
			return nil, err
		}
		return array.Reshape(b.Shape(), array.NewScalar(r))
	case aScalar:
		if b.IsEmpty() {
			return fillEmpty(b), nil
		}
		out, err := array.New(b.Shape())
		if err != nil {
			return nil, err
		}
		av := a.At(0)
		for i, bc := range b.Ravel() {
			r, rerr := applyDyadicCell(p, av, bc, ct)
			if rerr != nil {
				return nil, rerr
			}
			out.Set(i, r)
		}
		if err := out.CheckValue(); err != nil {
			return nil, err
		}
		return out, nil
	case bScalar:
		if a.IsEmpty() {
			return fillEmpty(a), nil
		}
		out, err := array.New(a.Shape())
		if err != nil {
			return nil, err
		}
		bv := b.At(0)
		for i, ac := range a.Ravel() {
			r, rerr := applyDyadicCell(p, ac, bv, ct)
			if rerr != nil {
				return nil, rerr
			}
			out.Set(i, r)
		}
		if err := out.CheckValue(); err != nil {
			return nil, err
		}
		return out, nil
	default:
		if a.Rank() != b.Rank() {
			return nil, aplerr.New(aplerr.RANK, "mismatched ranks %d and %d", a.Rank(), b.Rank())
		}
		if !a.Shape().Equal(b.Shape()) {
			return nil, aplerr.New(aplerr.LENGTH, "mismatched shapes")
		}
		if a.IsEmpty() {
			return fillEmpty(a), nil
		}
		out, err := array.New(a.Shape())
		if err != nil {
			return nil, err
		}
		ar, br := a.Ravel(), b.Ravel()
		for i := range ar {
			r, rerr := applyDyadicCell(p, ar[i], br[i], ct)
			if rerr != nil {
				return nil, rerr
			}
			out.Set(i, r)
		}
		if err := out.CheckValue(); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func applyDyadicCell(p *Primitive, a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
	if a.IsNested() || b.IsNested() {
		av, aok := asValue(a)
		bv, bok := asValue(b)
		if !aok || !bok {
			return cell.Cell{}, aplerr.New(aplerr.DOMAIN, "malformed nested cell")
		}
		r, err := ApplyDyadic(p, av, bv, ct)
		if err != nil {
			return cell.Cell{}, err
		}
		return cell.NewPointer(r), nil
	}
	return p.Dyadic(a, b, ct)
}

// asValue wraps a non-pointer cell into a temporary singleton Value so the
// recursive dyadic path can always operate on Values (spec.md §4.3's
// "helper that wraps non-pointer cells into a temporary singleton value").
func asValue(c cell.Cell) (*array.Value, bool) {
	if c.IsNested() {
		v, ok := c.Pointer().(*array.Value)
		return v, ok
	}
	return array.NewScalar(c), true
}

// ApplyDyadicAxis implements the axis-qualified scalar extension of
// spec.md §4.3: axis names, for each axis of A in order, the axis of B it
// lines up with; those lengths must match (LENGTH_ERROR), and A is repeated
// along every other axis of B. It is used by primitives invoked as `A f[X] B`.
func ApplyDyadicAxis(p *Primitive, a, b *array.Value, axis []int, ct float64) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	sel := make(map[int]bool, len(axis))
	for _, x := range axis {
		sel[x] = true
	}
	as := a.Shape()
	if len(as) != len(axis) {
		return nil, aplerr.New(aplerr.RANK, "axis list length %d does not match left rank %d", len(axis), len(as))
	}
	for i, d := range as {
		if bs[axis[i]] != d {
			return nil, aplerr.New(aplerr.LENGTH, "axis %d: shape mismatch", axis[i])
		}
	}
	out, err := array.New(bs)
	if err != nil {
		return nil, err
	}
	weights := bs.Weights()
	aWeights := as.Weights()
	for flat := 0; flat < out.ElementCount(); flat++ {
		rem := flat
		aIdx := 0
		for i, w := range weights {
			coord := rem / w
			rem %= w
			if sel[i] {
				pos := indexOf(axis, i)
				aIdx += coord * aWeights[pos]
			}
		}
		r, rerr := applyDyadicCell(p, a.At(aIdx), b.At(flat), ct)
		if rerr != nil {
			return nil, rerr
		}
		out.Set(flat, r)
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}
