package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Reverse implements monadic ⌽B (reverse the last axis) / ⊖B (reverse the
// first axis), selected by axis (spec.md §8 scenario 7: "⌽ 2 3⍴⍳6").
func Reverse(b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	if axis < 0 || axis >= len(bs) {
		return nil, aplerr.New(aplerr.AXIS, "reverse: axis %d out of range", axis)
	}
	out, err := array.New(bs)
	if err != nil {
		return nil, err
	}
	weights := bs.Weights()
	n := out.ElementCount()
	for flat := 0; flat < n; flat++ {
		idx := coords(flat, weights)
		idx[axis] = bs[axis] - 1 - idx[axis]
		out.Set(flat, b.At(flatten(idx, weights)).Clone())
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Rotate implements dyadic A⌽B / A⊖B: rotate B's `axis` dimension left by
// A (a scalar or a conforming array of per-row rotation counts).
func Rotate(a, b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	bs := b.Shape()
	if axis < 0 || axis >= len(bs) {
		return nil, aplerr.New(aplerr.AXIS, "rotate: axis %d out of range", axis)
	}
	out, err := array.New(bs)
	if err != nil {
		return nil, err
	}
	weights := bs.Weights()
	n := out.ElementCount()
	aScalar := a.ElementCount() == 1
	frameShape := make(array.Shape, 0, len(bs)-1)
	for i, d := range bs {
		if i != axis {
			frameShape = append(frameShape, d)
		}
	}
	frameWeights := frameShape.Weights()
	for flat := 0; flat < n; flat++ {
		idx := coords(flat, weights)
		var shift int
		if aScalar {
			shift = int(a.At(0).Float())
		} else {
			frame := make([]int, 0, len(idx)-1)
			for i, v := range idx {
				if i != axis {
					frame = append(frame, v)
				}
			}
			shift = int(a.At(flatten(frame, frameWeights)).Float())
		}
		m := bs[axis]
		newPos := ((idx[axis]+shift)%m + m) % m
		idx[axis] = newPos
		out.Set(flat, b.At(flatten(idx, weights)).Clone())
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}
