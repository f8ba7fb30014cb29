package operator

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// chunkRanks decodes the ⍤ operand y into (left, right) chunk ranks;
// monadic F⍤y uses the right one. A 1-element y applies to both operands and
// (for dyadic) to the result frame; a 3-element y gives (left, right,
// unused) as GNU APL's y[0]=A's chunk rank, y[1]=B's.
func chunkRanks(y []int) (left, right int) {
	switch len(y) {
	case 1:
		return y[0], y[0]
	case 2:
		return y[0], y[1]
	case 3:
		return y[0], y[1]
	default:
		return 0, 0
	}
}

// splitFrame decomposes shape into (frame, chunk) where chunk is the
// trailing `rank` axes (clamped to shape's own rank), per spec.md §4.7
// "splits each argument's shape into a frame ... and a chunk".
func splitFrame(shape array.Shape, rank int) (frame, chunk array.Shape) {
	if rank < 0 {
		rank = 0
	}
	if rank > len(shape) {
		rank = len(shape)
	}
	split := len(shape) - rank
	return shape[:split].Clone(), shape[split:].Clone()
}

// Rank implements monadic F⍤y B (spec.md §4.7): B's shape splits into a
// frame and a chunk of rank y; F applies to each chunk independently, and
// the results (padded by take to the widest chunk-result shape) are
// reassembled under the shared frame.
func Rank(f Func, b *array.Value, y []int) (*array.Value, *aplerr.Error) {
	_, right := chunkRanks(y)
	frame, chunk := splitFrame(b.Shape(), right)
	frameWeights := frame.Weights()
	chunkLen := chunk.ElementCount()
	nFrames := frame.ElementCount()
	results := make([]*array.Value, nFrames)
	var resultShape array.Shape
	for i := 0; i < nFrames; i++ {
		sub, err := array.New(chunk)
		if err != nil {
			return nil, err
		}
		for k := 0; k < chunkLen; k++ {
			sub.Set(k, b.At(i*chunkLen+k).Clone())
		}
		sub.CheckValue()
		r, rerr := f.Monadic(sub)
		if rerr != nil {
			return nil, rerr
		}
		results[i] = r
		if resultShape == nil || r.ElementCount() > resultShape.ElementCount() {
			resultShape = r.Shape()
		}
	}
	return assembleFrame(frame, frameWeights, resultShape, results)
}

// RankDyadic implements dyadic A F⍤y B: A and B each split by their own
// chunk rank from y (y[0] for A, y[1] for B); the common frame is the
// longer of the two (scalar-extended if one frame is empty), and F
// applies chunk-by-chunk (spec.md §4.7).
func RankDyadic(f Func, a, b *array.Value, y []int) (*array.Value, *aplerr.Error) {
	left, right := chunkRanks(y)
	aFrame, aChunk := splitFrame(a.Shape(), left)
	bFrame, bChunk := splitFrame(b.Shape(), right)
	frame := aFrame
	if len(bFrame) > len(aFrame) {
		frame = bFrame
	}
	frameWeights := frame.Weights()
	nFrames := frame.ElementCount()
	aChunkLen := aChunk.ElementCount()
	bChunkLen := bChunk.ElementCount()
	aIsFrame := len(aFrame) > 0
	bIsFrame := len(bFrame) > 0
	results := make([]*array.Value, nFrames)
	var resultShape array.Shape
	for i := 0; i < nFrames; i++ {
		aIdx := i
		if !aIsFrame {
			aIdx = 0
		}
		bIdx := i
		if !bIsFrame {
			bIdx = 0
		}
		asub, err := array.New(aChunk)
		if err != nil {
			return nil, err
		}
		for k := 0; k < aChunkLen; k++ {
			asub.Set(k, a.At(aIdx*aChunkLen+k).Clone())
		}
		asub.CheckValue()
		bsub, err := array.New(bChunk)
		if err != nil {
			return nil, err
		}
		for k := 0; k < bChunkLen; k++ {
			bsub.Set(k, b.At(bIdx*bChunkLen+k).Clone())
		}
		bsub.CheckValue()
		r, rerr := f.Dyadic(asub, bsub)
		if rerr != nil {
			return nil, rerr
		}
		results[i] = r
		if resultShape == nil || r.ElementCount() > resultShape.ElementCount() {
			resultShape = r.Shape()
		}
	}
	return assembleFrame(frame, frameWeights, resultShape, results)
}

func assembleFrame(frame array.Shape, frameWeights []int, resultShape array.Shape, results []*array.Value) (*array.Value, *aplerr.Error) {
	outShape := append(frame.Clone(), resultShape...)
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	chunkLen := resultShape.ElementCount()
	for i, r := range results {
		padded, perr := padTake(r, resultShape)
		if perr != nil {
			return nil, perr
		}
		for k := 0; k < chunkLen; k++ {
			out.Set(i*chunkLen+k, padded.At(k).Clone())
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// padTake pads/truncates r up to shape via a plain reshape-by-take: chunks
// that produce smaller results are filled with r's prototype (spec.md
// §4.7 "padded by take").
func padTake(r *array.Value, shape array.Shape) (*array.Value, *aplerr.Error) {
	if r.Shape().Equal(shape) {
		return r, nil
	}
	out, err := array.New(shape)
	if err != nil {
		return nil, err
	}
	n := out.ElementCount()
	proto := r.Prototype()
	rn := r.ElementCount()
	for i := 0; i < n; i++ {
		if i < rn {
			out.Set(i, r.At(i).Clone())
		} else {
			out.Set(i, proto.Clone())
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}
