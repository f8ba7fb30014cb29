package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Catenate implements dyadic A,B (and ⍪ when axis is the first axis):
// every axis but the catenation axis must agree; the result's length along
// that axis is shape(A)[axis]+shape(B)[axis] (spec.md §4.4, §8 "Catenation
// length"). A scalar operand is extended to match the other's frame.
func Catenate(a, b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	as, bs := a.Shape(), b.Shape()
	if a.Rank() == 0 && b.Rank() > 0 {
		as = broadcastShape(bs, axis)
		var err *aplerr.Error
		if a, err = array.Reshape(as, a); err != nil {
			return nil, err
		}
	} else if b.Rank() == 0 && a.Rank() > 0 {
		bs = broadcastShape(as, axis)
		var err *aplerr.Error
		if b, err = array.Reshape(bs, b); err != nil {
			return nil, err
		}
	}
	if a.Rank() != b.Rank() {
		return nil, aplerr.New(aplerr.RANK, "catenate: mismatched ranks %d and %d", a.Rank(), b.Rank())
	}
	if axis < 0 || axis >= a.Rank() {
		return nil, aplerr.New(aplerr.AXIS, "catenate: axis %d out of range", axis)
	}
	for i := range as {
		if i != axis && as[i] != bs[i] {
			return nil, aplerr.New(aplerr.LENGTH, "catenate: shapes disagree on axis %d", i)
		}
	}
	outShape := as.Clone()
	outShape[axis] = as[axis] + bs[axis]
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	outWeights := outShape.Weights()
	aWeights := as.Weights()
	bWeights := bs.Weights()
	n := out.ElementCount()
	for flat := 0; flat < n; flat++ {
		idx := coords(flat, outWeights)
		if idx[axis] < as[axis] {
			out.Set(flat, a.At(flatten(idx, aWeights)).Clone())
		} else {
			bIdx := append([]int(nil), idx...)
			bIdx[axis] -= as[axis]
			out.Set(flat, b.At(flatten(bIdx, bWeights)).Clone())
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func broadcastShape(other array.Shape, axis int) array.Shape {
	s := other.Clone()
	if axis < len(s) {
		s[axis] = 1
	}
	return s
}
