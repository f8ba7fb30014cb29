package operator

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Replicate implements dyadic A/B on axis (spec.md §4.5 "Replicate"): A
// gives a per-position repeat count (negative inserts prototype fills,
// zero skips), either a single broadcast count or one per position along
// axis.
func Replicate(a, b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	s3, err := array.MakeShape3(b.Shape(), axis)
	if err != nil {
		return nil, err
	}
	counts, cerr := windowWidths(a)
	if cerr != nil {
		return nil, cerr
	}
	if len(counts) == 1 {
		c := counts[0]
		counts = make([]int, s3.M)
		for i := range counts {
			counts[i] = c
		}
	}
	if len(counts) != s3.M {
		return nil, aplerr.New(aplerr.LENGTH, "replicate: left argument length %d does not match axis length %d", len(counts), s3.M)
	}
	outM := 0
	for _, c := range counts {
		if c > 0 {
			outM += c
		} else if c < 0 {
			outM += -c
		}
	}
	outShape := s3.Full.Clone()
	outShape[axis] = outM
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	outS3, _ := array.MakeShape3(outShape, axis)
	proto := b.Prototype()
	for h := 0; h < s3.H; h++ {
		for l := 0; l < s3.L; l++ {
			o := 0
			for m := 0; m < s3.M; m++ {
				c := counts[m]
				if c > 0 {
					src := b.At(s3.Index(h, m, l))
					for k := 0; k < c; k++ {
						out.Set(outS3.Index(h, o, l), src.Clone())
						o++
					}
				} else if c < 0 {
					for k := 0; k < -c; k++ {
						out.Set(outS3.Index(h, o, l), proto.Clone())
						o++
					}
				}
			}
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Expand implements dyadic A\B on axis (spec.md §4.5 "Expand"): A is a
// {0,1} vector whose 1-count equals the axis length of B; 0-positions
// become prototype fills in the (longer) result.
func Expand(a, b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	mask, merr := windowWidths(a)
	if merr != nil {
		return nil, merr
	}
	ones := 0
	for _, m := range mask {
		if m != 0 {
			ones++
		}
	}
	bs := b.Shape()
	if axis < 0 || axis >= len(bs) || bs[axis] != ones {
		return nil, aplerr.New(aplerr.LENGTH, "expand: left argument's 1-count %d does not match axis length %d", ones, bs[axis])
	}
	s3, err := array.MakeShape3(b.Shape(), axis)
	if err != nil {
		return nil, err
	}
	outShape := s3.Full.Clone()
	outShape[axis] = len(mask)
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	outS3, _ := array.MakeShape3(outShape, axis)
	proto := b.Prototype()
	for h := 0; h < s3.H; h++ {
		for l := 0; l < s3.L; l++ {
			src := 0
			for i, m := range mask {
				if m != 0 {
					out.Set(outS3.Index(h, i, l), b.At(s3.Index(h, src, l)).Clone())
					src++
				} else {
					out.Set(outS3.Index(h, i, l), proto.Clone())
				}
			}
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}
