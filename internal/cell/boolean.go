package cell

import (
	"math"

	"goapl/internal/aplerr"
)

// And implements dyadic ∧: boolean AND on {0,1}, generalised to LCM for
// other numeric arguments (spec.md §4.1 "Boolean operators").
func And(a, b Cell) (Cell, *aplerr.Error) {
	if isBit(a) && isBit(b) {
		return NewInt(a.ival & b.ival), nil
	}
	return lcm(a, b)
}

// Or implements dyadic ∨: boolean OR, generalised to GCD.
func Or(a, b Cell) (Cell, *aplerr.Error) {
	if isBit(a) && isBit(b) {
		return NewInt(a.ival | b.ival), nil
	}
	return gcd(a, b)
}

// Nand implements dyadic ⍲.
func Nand(a, b Cell) (Cell, *aplerr.Error) {
	if !isBit(a) || !isBit(b) {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "nand requires boolean arguments")
	}
	if a.ival == 1 && b.ival == 1 {
		return NewInt(0), nil
	}
	return NewInt(1), nil
}

// Nor implements dyadic ⍱.
func Nor(a, b Cell) (Cell, *aplerr.Error) {
	if !isBit(a) || !isBit(b) {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "nor requires boolean arguments")
	}
	if a.ival == 0 && b.ival == 0 {
		return NewInt(1), nil
	}
	return NewInt(0), nil
}

func isBit(c Cell) bool { return c.tag == Int && (c.ival == 0 || c.ival == 1) }

// gcd implements ∨ over non-boolean numeric arguments: GCD(0,0)=0, result
// always non-negative even for negative inputs, complex arguments use the
// Gaussian-integer Euclidean algorithm (spec.md §4.1, SUPPLEMENTED from
// GNU APL's IntCell.cc).
func gcd(a, b Cell) (Cell, *aplerr.Error) {
	if a.tag == Complex || b.tag == Complex {
		return NewComplex(gaussianGCD(a.Complex(), b.Complex())), nil
	}
	if a.tag == Int && b.tag == Int {
		return NewInt(intGCD(a.ival, b.ival)), nil
	}
	af, bf := math.Abs(a.Float()), math.Abs(b.Float())
	for bf > 1e-9 {
		af, bf = bf, math.Mod(af, bf)
	}
	return NewFloat(af), nil
}

func intGCD(a, b int64) int64 {
	a, b = absI64(a), absI64(b)
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func absI64(a int64) int64 {
	if a < 0 {
		return -a
	}
	return a
}

// lcm implements ∧ over non-boolean numeric arguments.
func lcm(a, b Cell) (Cell, *aplerr.Error) {
	if a.tag == Complex || b.tag == Complex {
		ca, cb := a.Complex(), b.Complex()
		g := gaussianGCD(ca, cb)
		if g == 0 {
			return NewInt(0), nil
		}
		return NewComplex(ca * cb / g), nil
	}
	if a.tag == Int && b.tag == Int {
		if a.ival == 0 || b.ival == 0 {
			return NewInt(0), nil
		}
		g := intGCD(a.ival, b.ival)
		return NewInt(absI64(a.ival / g * b.ival)), nil
	}
	af, bf := a.Float(), b.Float()
	gv, _ := gcd(NewFloat(af), NewFloat(bf))
	g := gv.Float()
	if g == 0 {
		return NewFloat(0), nil
	}
	return NewFloat(math.Abs(af / g * bf)), nil
}

// gaussianGCD computes the GCD of two Gaussian integers by the complex
// Euclidean algorithm, rounding each quotient to the nearest Gaussian
// integer at every step.
func gaussianGCD(a, b complex128) complex128 {
	for b != 0 {
		q := roundComplex(a / b)
		a, b = b, a-q*b
	}
	return normalizeGaussian(a)
}

func roundComplex(c complex128) complex128 {
	return complex(math.Round(real(c)), math.Round(imag(c)))
}

// normalizeGaussian rotates the result into the first quadrant so that the
// GCD is reported consistently regardless of input sign, mirroring the
// non-negative convention IntCell.cc uses for the real case.
func normalizeGaussian(c complex128) complex128 {
	for real(c) < 0 || (real(c) == 0 && imag(c) < 0) {
		c = complex(0, 1) * c
	}
	return c
}
