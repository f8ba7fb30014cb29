package operator

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// Each implements monadic F¨B: F applied to each element of B, wrapping
// non-pointer cells into singleton values before the call and unwrapping
// the (possibly singleton) result back into B's shape (spec.md §4.6
// "Each").
func Each(f Func, b *array.Value) (*array.Value, *aplerr.Error) {
	out, err := array.New(b.Shape())
	if err != nil {
		return nil, err
	}
	for i, c := range b.Ravel() {
		arg := singleton(c)
		r, rerr := f.Monadic(arg)
		if rerr != nil {
			return nil, rerr
		}
		out.Set(i, collapse(r))
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// EachDyadic implements dyadic A F¨ B: A and B must scalar-extend or match
// shape exactly, same as a scalar function (spec.md §4.6 "RANK/LENGTH
// errors as in scalar functions").
func EachDyadic(f Func, a, b *array.Value) (*array.Value, *aplerr.Error) {
	aScalar := a.Rank() == 0
	bScalar := b.Rank() == 0
	if !aScalar && !bScalar {
		if a.Rank() != b.Rank() {
			return nil, aplerr.New(aplerr.RANK, "each: mismatched ranks %d and %d", a.Rank(), b.Rank())
		}
		if !a.Shape().Equal(b.Shape()) {
			return nil, aplerr.New(aplerr.LENGTH, "each: mismatched shapes")
		}
	}
	outShape := b.Shape()
	if aScalar && !bScalar {
		outShape = b.Shape()
	} else if !aScalar {
		outShape = a.Shape()
	}
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	n := out.ElementCount()
	for i := 0; i < n; i++ {
		var ac, bc cell.Cell
		if aScalar {
			ac = a.At(0)
		} else {
			ac = a.At(i)
		}
		if bScalar {
			bc = b.At(0)
		} else {
			bc = b.At(i)
		}
		r, rerr := f.Dyadic(singleton(ac), singleton(bc))
		if rerr != nil {
			return nil, rerr
		}
		out.Set(i, collapse(r))
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func singleton(c cell.Cell) *array.Value {
	if c.IsNested() {
		if v, ok := c.Pointer().(*array.Value); ok {
			return v
		}
	}
	return array.NewScalar(c.Clone())
}

func collapse(v *array.Value) cell.Cell {
	if v.Rank() == 0 && !v.At(0).IsNested() {
		return v.At(0).Clone()
	}
	return cell.NewPointer(v)
}

// Commute implements the ⍨ operator (spec.md §4.6 "Commute"):
// monadic `F⍨B = B F B`, dyadic `A F⍨B = B F A`.
func Commute(f Func, a, b *array.Value) (*array.Value, *aplerr.Error) {
	if a == nil {
		return f.Dyadic(b, b)
	}
	return f.Dyadic(b, a)
}
