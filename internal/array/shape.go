// Package array implements the Value (shape + ravel) that spec.md §3
// describes, plus the Shape3 axis decomposition used uniformly by every
// axis-parametric primitive (spec.md §3 "Shape3").
package array

import (
	"golang.org/x/exp/slices"

	"goapl/internal/aplerr"
)

// MaxRank is the implementation's rank budget (spec.md §3 "Rank bound").
const MaxRank = 8

// Shape is an ordered sequence of non-negative shape items.
type Shape []int

// Rank is len(s), bounded by MaxRank once validated.
func (s Shape) Rank() int { return len(s) }

// ElementCount is Π shape[i] (spec.md §3 "Shape product"); an empty shape
// (scalar) has element count 1.
func (s Shape) ElementCount() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// RavelLength is max(1, ElementCount) — every Value stores at least one
// cell, the prototype, even when empty (spec.md §3 "Prototype").
func (s Shape) RavelLength() int {
	n := s.ElementCount()
	if n < 1 {
		return 1
	}
	return n
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(o Shape) bool {
	return slices.Equal(s, o)
}

// Clone returns an independent copy.
func (s Shape) Clone() Shape {
	return slices.Clone(s)
}

// Weights returns the row-major weight vector: weight[i] = Π shape[i+1:].
func (s Shape) Weights() []int {
	w := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		w[i] = acc
		acc *= s[i]
	}
	return w
}

// validate enforces the rank bound (spec.md §3 "Rank bound") and rejects
// negative shape items.
func (s Shape) validate() *aplerr.Error {
	if len(s) > MaxRank {
		return aplerr.New(aplerr.LENGTH, "rank %d exceeds the implementation limit of %d", len(s), MaxRank)
	}
	for _, d := range s {
		if d < 0 {
			return aplerr.New(aplerr.DOMAIN, "negative shape item %d", d)
		}
	}
	return nil
}

// Shape3 is the (H, M, L) decomposition of a shape around axis, used by
// every axis-parametric structural primitive and operator (spec.md §3
// "Shape3"): H = Π shape[0:axis), M = shape[axis], L = Π shape[axis+1:rank).
type Shape3 struct {
	H, M, L int
	Axis    int
	Full    Shape
}

// MakeShape3 decomposes shape around axis.
func MakeShape3(shape Shape, axis int) (Shape3, *aplerr.Error) {
	if axis < 0 || axis >= len(shape) {
		if len(shape) == 0 && axis == 0 {
			return Shape3{H: 1, M: 1, L: 1, Axis: 0, Full: shape}, nil
		}
		return Shape3{}, aplerr.New(aplerr.AXIS, "axis %d out of range for rank %d", axis, len(shape))
	}
	h, l := 1, 1
	for i := 0; i < axis; i++ {
		h *= shape[i]
	}
	for i := axis + 1; i < len(shape); i++ {
		l *= shape[i]
	}
	return Shape3{H: h, M: shape[axis], L: l, Axis: axis, Full: shape}, nil
}

// Index computes the flat ravel offset for (h, m, l) coordinates.
func (s3 Shape3) Index(h, m, l int) int {
	return (h*s3.M+m)*s3.L + l
}

// WithoutAxis returns the shape with Axis removed, as used by reduce's
// shape-with-A-removed result (spec.md §4.5).
func (s3 Shape3) WithoutAxis() Shape {
	out := make(Shape, 0, len(s3.Full)-1)
	for i, d := range s3.Full {
		if i != s3.Axis {
			out = append(out, d)
		}
	}
	return out
}
