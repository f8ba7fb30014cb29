package cell

import (
	"math"
	"math/cmplx"

	"goapl/internal/aplerr"
)

// Power implements dyadic A⋆B (spec.md §4.1 "Power").
func Power(a, b Cell) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "** requires numeric arguments")
	}
	if a.tag != Complex && b.tag != Complex {
		af, bf := a.Float(), b.Float()
		if af == 0 {
			if bf == 0 {
				return NewInt(1), nil
			}
			if bf < 0 {
				return Cell{}, aplerr.New(aplerr.DOMAIN, "0 to a negative power")
			}
			return NewInt(0), nil
		}
		if a.tag == Int && b.tag == Int && b.ival >= 0 {
			if r, ok := intPow(a.ival, b.ival); ok {
				return NewInt(r), nil
			}
			return NewFloat(math.Pow(af, bf)), nil
		}
		if af < 0 && bf != math.Trunc(bf) {
			return complexPow(complex(af, 0), complex(bf, 0)), nil
		}
		return NewFloat(math.Pow(af, bf)), nil
	}
	return complexPow(a.Complex(), b.Complex()), nil
}

func complexPow(a, b complex128) Cell {
	return NewComplex(cmplx.Pow(a, b))
}

// intPow computes a^b for b>=0 by repeated squaring, reporting whether the
// exact result stayed within SafeIntLimit.
func intPow(a, b int64) (int64, bool) {
	if b == 0 {
		return 1, true
	}
	result := int64(1)
	base := a
	exp := b
	for exp > 0 {
		if exp&1 == 1 {
			f := float64(result) * float64(base)
			if !fitsSafeInt(f) {
				return 0, false
			}
			result *= base
		}
		exp >>= 1
		if exp > 0 {
			f := float64(base) * float64(base)
			if !fitsSafeInt(f) {
				return 0, false
			}
			base *= base
		}
	}
	return result, true
}

// Log implements dyadic A⍟B = ln(B)/ln(A), with A=1,B=1 → 1 via 0÷0=1.
func Log(a, b Cell) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "log requires numeric arguments")
	}
	if a.tag != Complex && b.tag != Complex && a.Float() > 0 && b.Float() > 0 {
		la, lb := math.Log(a.Float()), math.Log(b.Float())
		if la == 0 && lb == 0 {
			return NewInt(1), nil
		}
		if la == 0 {
			return Cell{}, aplerr.New(aplerr.DOMAIN, "log base 1")
		}
		return NewFloat(lb / la), nil
	}
	ca, cb := a.Complex(), b.Complex()
	la, lb := cmplx.Log(ca), cmplx.Log(cb)
	if la == 0 && lb == 0 {
		return NewInt(1), nil
	}
	if la == 0 {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "log base 1")
	}
	return NewComplex(lb / la), nil
}

// Ln implements monadic ⍟B.
func Ln(b Cell) (Cell, *aplerr.Error) {
	return Log(Cell{tag: Float, fval: math.E}, b)
}

// Exp implements monadic *B.
func Exp(b Cell) (Cell, *aplerr.Error) {
	if b.tag == Complex {
		return NewComplex(cmplx.Exp(b.cval)), nil
	}
	return NewFloat(math.Exp(b.Float())), nil
}
