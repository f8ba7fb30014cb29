package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Transpose implements dyadic A⍉B: A maps each B-axis to a Z-axis;
// repeated entries in A diagonalise (spec.md §4.4 "Transpose (⍉)").
func Transpose(a, b *array.Value) (*array.Value, *aplerr.Error) {
	axes, err := IntVector(a)
	if err != nil {
		return nil, err
	}
	bs := b.Shape()
	if len(axes) != len(bs) {
		return nil, aplerr.New(aplerr.RANK, "transpose: axis list length %d does not match rank %d", len(axes), len(bs))
	}
	zRank := 0
	for _, x := range axes {
		if x+1 > zRank {
			zRank = x + 1
		}
	}
	zShape := make(array.Shape, zRank)
	for j := range zShape {
		zShape[j] = -1
	}
	for i, x := range axes {
		if zShape[x] == -1 || bs[i] < zShape[x] {
			zShape[x] = bs[i]
		}
	}
	out, err := array.New(zShape)
	if err != nil {
		return nil, err
	}
	zWeights := zShape.Weights()
	bWeights := bs.Weights()
	n := out.ElementCount()
	for flat := 0; flat < n; flat++ {
		zIdx := coords(flat, zWeights)
		srcIdx := make([]int, len(axes))
		for i, x := range axes {
			srcIdx[i] = zIdx[x]
		}
		out.Set(flat, b.At(flatten(srcIdx, bWeights)).Clone())
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// MonadicTranspose implements monadic ⍉B: reverse the axis order (for
// rank<=2 this is the familiar matrix transpose; spec.md §8 testable
// property "⍉⍉V = V for rank V <= 2").
func MonadicTranspose(b *array.Value) (*array.Value, *aplerr.Error) {
	r := b.Rank()
	axes := make([]int, r)
	for i := range axes {
		axes[i] = r - 1 - i
	}
	return Transpose(IntVectorValue(axes), b)
}
