package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Reshape implements dyadic A⍴B (spec.md §4.4 "Reshape (⍴)"): A is a
// simple integer vector naming the result shape.
func Reshape(a, b *array.Value) (*array.Value, *aplerr.Error) {
	dims, err := IntVector(a)
	if err != nil {
		return nil, err
	}
	return array.Reshape(array.Shape(dims), b)
}
