package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Take implements dyadic A↑B (spec.md §4.2/§4.4 "Take/Drop"): A is a
// (possibly negative, possibly high-rank) shape vector. Positive a_i takes
// the first a_i elements of axis i; negative a_i takes the last |a_i|;
// over-take pads with B's prototype on the far side from which elements
// were taken.
func Take(a, b *array.Value) (*array.Value, *aplerr.Error) {
	counts, err := IntVector(a)
	if err != nil {
		return nil, err
	}
	bs := b.Shape()
	if len(counts) != len(bs) {
		if len(bs) == 0 && len(counts) == 1 {
			bs = array.Shape{1}
		} else {
			return nil, aplerr.New(aplerr.RANK, "take: left length %d does not match right rank %d", len(counts), len(bs))
		}
	}
	outShape := make(array.Shape, len(counts))
	offsets := make([]int, len(counts)) // offset into source axis for out-index 0
	for i, c := range counts {
		outShape[i] = absInt(c)
		if c >= 0 {
			offsets[i] = 0
		} else {
			offsets[i] = bs[i] + c // may be negative: over-take
		}
	}
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	srcWeights := bs.Weights()
	outWeights := outShape.Weights()
	proto := b.Prototype()
	n := out.ElementCount()
	for flat := 0; flat < n; flat++ {
		idx := coords(flat, outWeights)
		inBounds := true
		srcIdx := make([]int, len(idx))
		for i, v := range idx {
			s := v + offsets[i]
			srcIdx[i] = s
			if s < 0 || s >= bs[i] {
				inBounds = false
			}
		}
		if inBounds {
			out.Set(flat, b.At(flatten(srcIdx, srcWeights)).Clone())
		} else {
			out.Set(flat, proto.Clone())
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Drop implements dyadic A↓B: positive a_i drops the first a_i elements of
// axis i, negative a_i drops the last |a_i|; dropping more than shape[i]
// yields an empty axis.
func Drop(a, b *array.Value) (*array.Value, *aplerr.Error) {
	counts, err := IntVector(a)
	if err != nil {
		return nil, err
	}
	bs := b.Shape()
	if len(counts) != len(bs) {
		return nil, aplerr.New(aplerr.RANK, "drop: left length %d does not match right rank %d", len(counts), len(bs))
	}
	outShape := make(array.Shape, len(counts))
	offsets := make([]int, len(counts))
	for i, c := range counts {
		d := absInt(c)
		if d > bs[i] {
			d = bs[i]
		}
		outShape[i] = bs[i] - d
		if c >= 0 {
			offsets[i] = d
		} else {
			offsets[i] = 0
		}
	}
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	srcWeights := bs.Weights()
	outWeights := outShape.Weights()
	n := out.ElementCount()
	for flat := 0; flat < n; flat++ {
		idx := coords(flat, outWeights)
		srcIdx := make([]int, len(idx))
		for i, v := range idx {
			srcIdx[i] = v + offsets[i]
		}
		out.Set(flat, b.At(flatten(srcIdx, srcWeights)).Clone())
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
