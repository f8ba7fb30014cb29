package cell

import (
	"math"
	"math/cmplx"

	"goapl/internal/aplerr"
)

// Circular implements dyadic A○B: the integer selector A in -12..12 picks
// one of the circular/hyperbolic functions of spec.md §4.1.
func Circular(a, b Cell) (Cell, *aplerr.Error) {
	if a.tag != Int {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "o requires an integer left argument")
	}
	sel := a.ival
	if sel < -12 || sel > 12 {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "o selector out of range")
	}
	if b.tag == Complex {
		return circularComplex(sel, b.cval)
	}
	x := b.Float()
	switch sel {
	case 0:
		r := math.Sqrt(1 - x*x)
		if math.IsNaN(r) {
			return circularComplex(sel, complex(x, 0))
		}
		return NewFloat(r), nil
	case 1:
		return NewFloat(math.Sin(x)), nil
	case 2:
		return NewFloat(math.Cos(x)), nil
	case 3:
		return NewFloat(math.Tan(x)), nil
	case 4:
		r := math.Sqrt(1 + x*x)
		return NewFloat(r), nil
	case 5:
		return NewFloat(math.Sinh(x)), nil
	case 6:
		return NewFloat(math.Cosh(x)), nil
	case 7:
		return NewFloat(math.Tanh(x)), nil
	case 8:
		r := 1 - x*x
		if r < 0 {
			return circularComplex(sel, complex(x, 0))
		}
		return NewFloat(-math.Sqrt(r)), nil
	case -1:
		if x < -1 || x > 1 {
			return circularComplex(sel, complex(x, 0))
		}
		return NewFloat(math.Asin(x)), nil
	case -2:
		if x < -1 || x > 1 {
			return circularComplex(sel, complex(x, 0))
		}
		return NewFloat(math.Acos(x)), nil
	case -3:
		return NewFloat(math.Atan(x)), nil
	case -4:
		r := x*x - 1
		if r < 0 {
			return Cell{}, aplerr.New(aplerr.DOMAIN, "o: argument out of range")
		}
		return NewFloat(math.Sqrt(r)), nil
	case -5:
		return NewFloat(math.Asinh(x)), nil
	case -6:
		if x < 1 {
			return circularComplex(sel, complex(x, 0))
		}
		return NewFloat(math.Acosh(x)), nil
	case -7:
		if x <= -1 || x >= 1 {
			return circularComplex(sel, complex(x, 0))
		}
		return NewFloat(math.Atanh(x)), nil
	case -8:
		return NewFloat(-math.Sqrt(1 - x*x)), nil
	case 9:
		return NewFloat(x), nil
	case 10:
		return NewFloat(math.Abs(x)), nil
	case 11:
		return NewFloat(0), nil
	case 12:
		return NewFloat(0), nil
	case -9, -10, -11, -12:
		return NewFloat(x), nil
	}
	return Cell{}, aplerr.New(aplerr.DOMAIN, "o: unsupported selector")
}

func circularComplex(sel int64, x complex128) (Cell, *aplerr.Error) {
	switch sel {
	case 0:
		return NewComplex(cmplx.Sqrt(1 - x*x)), nil
	case 1:
		return NewComplex(cmplx.Sin(x)), nil
	case 2:
		return NewComplex(cmplx.Cos(x)), nil
	case 3:
		return NewComplex(cmplx.Tan(x)), nil
	case 4:
		return NewComplex(cmplx.Sqrt(1 + x*x)), nil
	case 5:
		return NewComplex(cmplx.Sinh(x)), nil
	case 6:
		return NewComplex(cmplx.Cosh(x)), nil
	case 7:
		return NewComplex(cmplx.Tanh(x)), nil
	case 8:
		return NewComplex(-cmplx.Sqrt(1 - x*x)), nil
	case -1:
		return NewComplex(cmplx.Asin(x)), nil
	case -2:
		return NewComplex(cmplx.Acos(x)), nil
	case -3:
		return NewComplex(cmplx.Atan(x)), nil
	case -5:
		return NewComplex(cmplx.Asinh(x)), nil
	case -6:
		return NewComplex(cmplx.Acosh(x)), nil
	case -7:
		return NewComplex(cmplx.Atanh(x)), nil
	case 9:
		return NewComplex(complex(real(x), 0)), nil
	case 10:
		return NewComplex(complex(cmplx.Abs(x), 0)), nil
	case 11:
		return NewComplex(complex(imag(x), 0)), nil
	case 12:
		return NewComplex(cmplx.Conj(x)), nil
	case -11:
		return NewComplex(complex(0, 1) * x), nil
	case -12:
		return NewComplex(complex(0, -1) * x), nil
	default:
		return NewComplex(x), nil
	}
}
