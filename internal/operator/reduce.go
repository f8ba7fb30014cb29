package operator

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Reduce implements monadic F/B (or F⌿B) along axis (spec.md §4.5): a
// right-associative fold of F over axis, with identity/shape-with-axis-
// removed short-circuits for the empty and singleton cases.
func Reduce(f Func, b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	s3, err := array.MakeShape3(b.Shape(), axis)
	if err != nil {
		return nil, err
	}
	outShape := s3.WithoutAxis()
	if s3.M == 0 {
		id, ok := f.Identity()
		if !ok {
			return nil, aplerr.New(aplerr.DOMAIN, "%s has no identity element for reduction over an empty axis", f.Name())
		}
		out, err := array.New(outShape)
		if err != nil {
			return nil, err
		}
		for i := range out.Ravel() {
			out.Set(i, id.Clone())
		}
		out.CheckValue()
		return out, nil
	}
	if s3.M == 1 {
		return array.Reshape(outShape, b)
	}
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	for h := 0; h < s3.H; h++ {
		for l := 0; l < s3.L; l++ {
			acc := array.NewScalar(b.At(s3.Index(h, s3.M-1, l)).Clone())
			for m := s3.M - 2; m >= 0; m-- {
				cur := array.NewScalar(b.At(s3.Index(h, m, l)).Clone())
				r, rerr := f.Dyadic(cur, acc)
				if rerr != nil {
					return nil, rerr
				}
				acc = r
			}
			out.Set(h*s3.L+l, acc.At(0).Clone())
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// NReduce implements the dyadic N-wise reduce `A F/ B`: A (scalar or
// vector) gives the window width per output position, negative A scanning
// the window in reverse (spec.md §4.5 "N-wise reduce").
func NReduce(f Func, a, b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	widths, werr := windowWidths(a)
	if werr != nil {
		return nil, werr
	}
	s3, err := array.MakeShape3(b.Shape(), axis)
	if err != nil {
		return nil, err
	}
	outLen := len(widths)
	if len(widths) == 1 {
		// broadcast a single width across every output position along axis
		n := s3.M - abs(widths[0]) + 1
		if n < 0 {
			n = 0
		}
		w := widths[0]
		widths = make([]int, n)
		for i := range widths {
			widths[i] = w
		}
		outLen = n
	}
	outShape := s3.Full.Clone()
	outShape[axis] = outLen
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	outS3, _ := array.MakeShape3(outShape, axis)
	for h := 0; h < s3.H; h++ {
		for l := 0; l < s3.L; l++ {
			for i, w := range widths {
				width := w
				reverse := width < 0
				if reverse {
					width = -width
				}
				if width == 0 {
					id, ok := f.Identity()
					if !ok {
						return nil, aplerr.New(aplerr.DOMAIN, "%s has no identity element", f.Name())
					}
					out.Set(outS3.Index(h, i, l), id.Clone())
					continue
				}
				start := i
				if width > s3.M-start {
					return nil, aplerr.New(aplerr.LENGTH, "n-wise reduce: window extends past the axis")
				}
				positions := make([]int, width)
				for k := 0; k < width; k++ {
					positions[k] = start + k
				}
				if reverse {
					for lo, hi := 0, len(positions)-1; lo < hi; lo, hi = lo+1, hi-1 {
						positions[lo], positions[hi] = positions[hi], positions[lo]
					}
				}
				acc := array.NewScalar(b.At(s3.Index(h, positions[len(positions)-1], l)).Clone())
				for k := len(positions) - 2; k >= 0; k-- {
					cur := array.NewScalar(b.At(s3.Index(h, positions[k], l)).Clone())
					r, rerr := f.Dyadic(cur, acc)
					if rerr != nil {
						return nil, rerr
					}
					acc = r
				}
				out.Set(outS3.Index(h, i, l), acc.At(0).Clone())
			}
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

func windowWidths(a *array.Value) ([]int, *aplerr.Error) {
	out := make([]int, a.ElementCount())
	for i, c := range a.Ravel() {
		if !c.IsNumeric() {
			return nil, aplerr.New(aplerr.DOMAIN, "n-wise reduce: window width must be numeric")
		}
		out[i] = int(c.Float())
	}
	return out, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Scan implements monadic F\B (or F⍀B): prefix reduction along axis
// (spec.md §4.5 "Scan"), computed right-to-left per position per the
// ISO-standard definition (a dedicated associative fast path is not taken
// here since F's associativity is not generally knowable for a derived or
// user-defined operand).
func Scan(f Func, b *array.Value, axis int) (*array.Value, *aplerr.Error) {
	s3, err := array.MakeShape3(b.Shape(), axis)
	if err != nil {
		return nil, err
	}
	out, err := array.New(b.Shape())
	if err != nil {
		return nil, err
	}
	for h := 0; h < s3.H; h++ {
		for l := 0; l < s3.L; l++ {
			for m := 0; m < s3.M; m++ {
				acc := array.NewScalar(b.At(s3.Index(h, m, l)).Clone())
				for k := m - 1; k >= 0; k-- {
					cur := array.NewScalar(b.At(s3.Index(h, k, l)).Clone())
					r, rerr := f.Dyadic(cur, acc)
					if rerr != nil {
						return nil, rerr
					}
					acc = r
				}
				out.Set(s3.Index(h, m, l), acc.At(0).Clone())
			}
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}
