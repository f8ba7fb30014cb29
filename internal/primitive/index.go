package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// Iota implements monadic ⍳N: an origin-adjusted integer vector (or
// higher-rank array, for a shape-vector argument) of N elements (spec.md
// §8 "⍳0 is an empty numeric vector whose prototype is 0").
func Iota(n *array.Value, origin int) (*array.Value, *aplerr.Error) {
	dims, err := IntVector(n)
	if err != nil {
		return nil, err
	}
	shape := array.Shape(dims)
	out, err := array.New(shape)
	if err != nil {
		return nil, err
	}
	count := out.ElementCount()
	if count == 0 {
		out.Set(0, cell.NewInt(0))
		out.CheckValue()
		return out, nil
	}
	if len(dims) <= 1 {
		for i := 0; i < count; i++ {
			out.Set(i, cell.NewInt(int64(i+origin)))
		}
	} else {
		weights := shape.Weights()
		for flat := 0; flat < count; flat++ {
			idx := coords(flat, weights)
			cells := make([]cell.Cell, len(idx))
			for i, v := range idx {
				cells[i] = cell.NewInt(int64(v + origin))
			}
			out.Set(flat, cell.NewPointer(array.NewVector(cells)))
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// IndexOf implements dyadic A⍳B: the ⎕IO-adjusted position of the first
// match of each element of B within A, along A's first axis, or
// 1+(last valid index) when absent (spec.md §4.4 "Index-of (⍳)").
func IndexOf(a, b *array.Value, origin int) (*array.Value, *aplerr.Error) {
	as := a.Shape()
	n := 1
	if len(as) > 0 {
		n = as[0]
	}
	rowSize := 1
	for i := 1; i < len(as); i++ {
		rowSize *= as[i]
	}
	find := func(needle []cell.Cell) int {
		for i := 0; i < n; i++ {
			match := true
			for j := 0; j < rowSize; j++ {
				if !cell.TolerantEqual(a.At(i*rowSize+j), needle[j], 1e-10) {
					match = false
					break
				}
			}
			if match {
				return i + origin
			}
		}
		return n + origin
	}
	bs := b.Shape()
	out, err := array.New(bs)
	if err != nil {
		return nil, err
	}
	for i := 0; i < out.ElementCount(); i++ {
		needle := []cell.Cell{b.At(i)}
		out.Set(i, cell.NewInt(int64(find(needle))))
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Squad implements ⌷: B indexed along each axis by the (already
// origin-adjusted, 0-based) index lists in sel; a nil entry selects the
// whole axis.
func Squad(b *array.Value, sel [][]int) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	if len(sel) != len(bs) {
		return nil, aplerr.New(aplerr.RANK, "index: %d subscripts for rank %d", len(sel), len(bs))
	}
	axisLists := make([][]int, len(bs))
	outShape := make(array.Shape, len(bs))
	for i, s := range sel {
		if s == nil {
			axisLists[i] = seq(bs[i])
		} else {
			for _, v := range s {
				if v < 0 || v >= bs[i] {
					return nil, aplerr.New(aplerr.INDEX, "index %d out of range for axis %d (size %d)", v, i, bs[i])
				}
			}
			axisLists[i] = s
		}
		outShape[i] = len(axisLists[i])
	}
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	bWeights := bs.Weights()
	outWeights := outShape.Weights()
	n := out.ElementCount()
	for flat := 0; flat < n; flat++ {
		idx := coords(flat, outWeights)
		srcIdx := make([]int, len(idx))
		for i, v := range idx {
			srcIdx[i] = axisLists[i][v]
		}
		out.Set(flat, b.At(flatten(srcIdx, bWeights)).Clone())
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func seq(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// Membership implements dyadic A∊B: for each element of A, 1 if it occurs
// anywhere in B's ravel, else 0 (spec.md §4.4 "∊").
func Membership(a, b *array.Value) (*array.Value, *aplerr.Error) {
	out, err := array.New(a.Shape())
	if err != nil {
		return nil, err
	}
	br := b.Ravel()
	for i, ac := range a.Ravel() {
		found := int64(0)
		for _, bc := range br {
			if cell.TolerantEqual(ac, bc, 1e-10) {
				found = 1
				break
			}
		}
		out.Set(i, cell.NewInt(found))
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Enlist implements monadic ∊B: flatten every level of nesting into a
// simple vector.
func Enlist(b *array.Value) *array.Value {
	var cells []cell.Cell
	var walk func(v *array.Value)
	walk = func(v *array.Value) {
		if v.IsEmpty() {
			return
		}
		for _, c := range v.Ravel() {
			if c.IsNested() {
				if inner, ok := c.Pointer().(*array.Value); ok {
					walk(inner)
					continue
				}
			}
			cells = append(cells, c.Clone())
		}
	}
	walk(b)
	if len(cells) == 0 {
		out, _ := array.New(array.Shape{0})
		out.Set(0, b.Prototype())
		out.CheckValue()
		return out
	}
	return array.NewVector(cells)
}
