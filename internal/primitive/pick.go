package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// Enclose implements monadic ⊂B: wrap the whole value as a single nested
// scalar (spec.md §4.4 "Partition / Pick (⊂ ⊃)").
func Enclose(b *array.Value) *array.Value {
	return array.NewScalar(cell.NewPointer(b.Clone()))
}

// Disclose implements monadic ⊃B: unwrap a nested scalar, otherwise return
// B unchanged, satisfying the round-trip ⊃⊂V=V of spec.md §8.
func Disclose(b *array.Value) *array.Value {
	if b.Rank() == 0 && b.At(0).IsNested() {
		if inner, ok := b.At(0).Pointer().(*array.Value); ok {
			return inner.Clone()
		}
	}
	return b.Clone()
}

// EncloseAxis implements ⊂[X]B: encloses B along the axis set X,
// producing a nested value whose outer shape is the remaining axes and
// whose inner (enclosed) shape is the X axes (spec.md §4.4).
func EncloseAxis(b *array.Value, axes []int) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	inSel := make(map[int]bool, len(axes))
	for _, a := range axes {
		inSel[a] = true
	}
	var outerAxes, innerAxes []int
	for i := range bs {
		if inSel[i] {
			innerAxes = append(innerAxes, i)
		} else {
			outerAxes = append(outerAxes, i)
		}
	}
	outerShape := make(array.Shape, len(outerAxes))
	for i, a := range outerAxes {
		outerShape[i] = bs[a]
	}
	innerShape := make(array.Shape, len(innerAxes))
	for i, a := range innerAxes {
		innerShape[i] = bs[a]
	}
	out, err := array.New(outerShape)
	if err != nil {
		return nil, err
	}
	bWeights := bs.Weights()
	outerWeights := outerShape.Weights()
	innerWeights := innerShape.Weights()
	for of := 0; of < out.ElementCount(); of++ {
		outerIdx := coords(of, outerWeights)
		inner, ierr := array.New(innerShape)
		if ierr != nil {
			return nil, ierr
		}
		for inF := 0; inF < inner.ElementCount(); inF++ {
			innerIdx := coords(inF, innerWeights)
			full := make([]int, len(bs))
			for k, a := range outerAxes {
				full[a] = outerIdx[k]
			}
			for k, a := range innerAxes {
				full[a] = innerIdx[k]
			}
			inner.Set(inF, b.At(flatten(full, bWeights)).Clone())
		}
		if err := inner.CheckValue(); err != nil {
			return nil, err
		}
		out.Set(of, cell.NewPointer(inner))
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Pick implements dyadic A⊃B: A is a (possibly nested) path; each level
// of A selects an index into the current value and discloses one level
// deeper, recursing until the path is exhausted.
func Pick(a, b *array.Value) (*array.Value, *aplerr.Error) {
	cur := b
	path := a.Ravel()
	if a.Rank() == 0 && a.At(0).IsNested() {
		if inner, ok := a.At(0).Pointer().(*array.Value); ok {
			path = inner.Ravel()
		}
	}
	for _, step := range path {
		if !step.IsNumeric() {
			return nil, aplerr.New(aplerr.DOMAIN, "pick: path element must be numeric")
		}
		i := int(step.Float())
		if i < 0 || i >= cur.ElementCount() {
			return nil, aplerr.New(aplerr.INDEX, "pick: index %d out of range", i)
		}
		c := cur.At(i)
		if c.IsNested() {
			inner, ok := c.Pointer().(*array.Value)
			if !ok {
				return nil, aplerr.New(aplerr.DOMAIN, "pick: malformed nested cell")
			}
			cur = inner
		} else {
			cur = array.NewScalar(c.Clone())
		}
	}
	return cur.Clone(), nil
}
