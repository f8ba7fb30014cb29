package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
)

// Encode implements dyadic A⊤B: represent each element of B in the mixed
// radix A, most significant digit first (spec.md §4.4 "Encode/Decode
// (⊤ ⊥)"). A 0 in A means "unbounded" for that position.
func Encode(a, b *array.Value) (*array.Value, *aplerr.Error) {
	radix, err := IntVector(a)
	if err != nil {
		return nil, err
	}
	m := len(radix)
	bs := b.Shape()
	outShape := make(array.Shape, 0, len(bs)+1)
	outShape = append(outShape, m)
	outShape = append(outShape, bs...)
	out, err := array.New(outShape)
	if err != nil {
		return nil, err
	}
	n := b.ElementCount()
	for i := 0; i < n; i++ {
		v := int64(b.At(i).Float())
		digits := make([]int64, m)
		for k := m - 1; k >= 0; k-- {
			r := radix[k]
			if r == 0 {
				digits[k] = v
				v = 0
			} else {
				digits[k] = ((v % int64(r)) + int64(r)) % int64(r)
				v = (v - digits[k]) / int64(r)
			}
		}
		for k := 0; k < m; k++ {
			out.Set(k*n+i, cell.NewInt(digits[k]))
		}
	}
	if err := out.CheckValue(); err != nil {
		return nil, err
	}
	return out, nil
}

// Decode implements dyadic A⊥B: evaluate B as digits in the mixed radix A
// (Horner's method), the inverse of Encode (spec.md §4.4).
func Decode(a, b *array.Value) (*array.Value, *aplerr.Error) {
	radix, err := IntVector(a)
	if err != nil {
		return nil, err
	}
	digits, err := IntVector(b)
	if err != nil {
		return nil, err
	}
	if len(radix) == 1 && len(digits) > 1 {
		r := make([]int, len(digits))
		for i := range r {
			r[i] = radix[0]
		}
		radix = r
	}
	if len(radix) != len(digits) {
		return nil, aplerr.New(aplerr.LENGTH, "decode: radix length %d does not match digit length %d", len(radix), len(digits))
	}
	var acc int64
	for i := 0; i < len(digits); i++ {
		acc = acc*int64(radix[i]) + int64(digits[i])
	}
	return array.NewScalar(cell.NewInt(acc)), nil
}
