// Package primitive implements the non-scalar structural primitives of
// spec.md §4.4: ⍴ ↑ ↓ , ⍪ ⍉ ⌽ ⊖ ⊂ ⊃ ∊ ⍳ ⍋ ⍒ ⍕ ⌷ ⊤ ⊥ and friends. Each
// function is specified by its shape contract and a traversal rule, as in
// the spec; every loop here runs sequentially, none fans out through
// internal/parallel.
package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// IntVector reads a simple integer vector Value into a Go []int, used to
// decode shape arguments, axis lists and take/drop counts.
func IntVector(v *array.Value) ([]int, *aplerr.Error) {
	out := make([]int, v.ElementCount())
	if v.Rank() == 0 {
		c := v.At(0)
		if !c.IsNumeric() {
			return nil, aplerr.New(aplerr.DOMAIN, "expected a numeric scalar")
		}
		return []int{int(c.Float())}, nil
	}
	for i, c := range v.Ravel() {
		if !c.IsNumeric() {
			return nil, aplerr.New(aplerr.DOMAIN, "expected a numeric vector")
		}
		out[i] = int(c.Float())
	}
	return out, nil
}

// IntVectorValue is the dual of IntVector, building a simple integer
// vector Value from Go ints (used to materialise ⍴B, ⍳N and similar
// results).
func IntVectorValue(xs []int) *array.Value {
	cells := make([]cell.Cell, len(xs))
	for i, x := range xs {
		cells[i] = cell.NewInt(int64(x))
	}
	return array.NewVector(cells)
}

// coords decomposes a flat row-major offset into per-axis coordinates
// given a shape's weight vector.
func coords(flat int, weights []int) []int {
	out := make([]int, len(weights))
	for i, w := range weights {
		out[i] = flat / w
		flat %= w
	}
	return out
}

func flatten(idx []int, weights []int) int {
	f := 0
	for i, w := range weights {
		f += idx[i] * w
	}
	return f
}
