package array

import (
	"goapl/internal/aplerr"
	"goapl/internal/cell"
)

// Reshape implements dyadic A⍴B: copy src's ravel row-major, cycling if
// short, truncating if long; if src is empty, the result propagates src's
// prototype (spec.md §4.2 "reshape", §4.4 "Reshape (⍴)").
func Reshape(shape Shape, src *Value) (*Value, *aplerr.Error) {
	out, err := New(shape)
	if err != nil {
		return nil, err
	}
	n := len(out.ravel)
	if src.IsEmpty() {
		proto := src.Prototype()
		for i := 0; i < n; i++ {
			out.ravel[i] = proto.Clone()
		}
		if err := out.CheckValue(); err != nil {
			return nil, err
		}
		return out, nil
	}
	m := len(src.ravel)
	for i := 0; i < n; i++ {
		out.ravel[i] = src.ravel[i%m].Clone()
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ravel returns the rank-1 reshape of v (monadic ,v).
func Ravel(v *Value) *Value {
	n := v.ElementCount()
	out := &Value{shape: Shape{n}, ravel: make([]cell.Cell, len(v.ravel)), flags: FlagComplete}
	for i, c := range v.ravel {
		out.ravel[i] = c.Clone()
	}
	registry.add(out)
	return out
}
