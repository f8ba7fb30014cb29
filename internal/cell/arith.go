package cell

import (
	"math"

	"goapl/internal/aplerr"
)

// rank orders the numeric promotion hierarchy int < float < complex
// (spec.md §4.1 "Type promotion").
func rank(t Tag) int {
	switch t {
	case Int:
		return 0
	case Float:
		return 1
	case Complex:
		return 2
	default:
		return 3
	}
}

func higher(a, b Tag) Tag {
	if rank(a) >= rank(b) {
		return a
	}
	return b
}

// Add implements dyadic +.
func Add(a, b Cell) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "+ requires numeric arguments")
	}
	switch higher(a.tag, b.tag) {
	case Int:
		s := a.ival + b.ival
		if fitsSafeInt(float64(a.ival) + float64(b.ival)) {
			return NewInt(s), nil
		}
		return NewFloat(float64(a.ival) + float64(b.ival)), nil
	case Float:
		return NewFloat(a.Float() + b.Float()), nil
	default:
		return NewComplex(a.Complex() + b.Complex()), nil
	}
}

// Sub implements dyadic -.
func Sub(a, b Cell) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "- requires numeric arguments")
	}
	switch higher(a.tag, b.tag) {
	case Int:
		if fitsSafeInt(float64(a.ival) - float64(b.ival)) {
			return NewInt(a.ival - b.ival), nil
		}
		return NewFloat(float64(a.ival) - float64(b.ival)), nil
	case Float:
		return NewFloat(a.Float() - b.Float()), nil
	default:
		return NewComplex(a.Complex() - b.Complex()), nil
	}
}

// Mul implements dyadic ×.
func Mul(a, b Cell) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "x requires numeric arguments")
	}
	switch higher(a.tag, b.tag) {
	case Int:
		p := float64(a.ival) * float64(b.ival)
		if fitsSafeInt(p) {
			return NewInt(a.ival * b.ival), nil
		}
		return NewFloat(p), nil
	case Float:
		return NewFloat(a.Float() * b.Float()), nil
	default:
		return NewComplex(a.Complex() * b.Complex()), nil
	}
}

// Div implements dyadic ÷, with the APL rule 0÷0=1 (spec.md §4.1).
func Div(a, b Cell) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "/ requires numeric arguments")
	}
	if higher(a.tag, b.tag) == Complex {
		if a.Complex() == 0 && b.Complex() == 0 {
			return NewInt(1), nil
		}
		if b.Complex() == 0 {
			return Cell{}, aplerr.New(aplerr.DOMAIN, "division by zero")
		}
		return NewComplex(a.Complex() / b.Complex()), nil
	}
	af, bf := a.Float(), b.Float()
	if af == 0 && bf == 0 {
		return NewInt(1), nil
	}
	if bf == 0 {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "division by zero")
	}
	if higher(a.tag, b.tag) == Int && a.ival%b.ival == 0 {
		return NewInt(a.ival / b.ival), nil
	}
	return NewFloat(af / bf), nil
}

// Negate implements monadic -.
func Negate(a Cell) (Cell, *aplerr.Error) {
	switch a.tag {
	case Int:
		if a.ival == math.MinInt64 {
			return NewFloat(-float64(a.ival)), nil
		}
		return NewInt(-a.ival), nil
	case Float:
		return NewFloat(-a.fval), nil
	case Complex:
		return NewComplex(-a.cval), nil
	default:
		return Cell{}, aplerr.New(aplerr.DOMAIN, "- requires a numeric argument")
	}
}

// Reciprocal implements monadic ÷ (1÷B), with 0÷0=1.
func Reciprocal(a Cell) (Cell, *aplerr.Error) {
	return Div(NewInt(1), a)
}

func fitsSafeInt(f float64) bool {
	return f == math.Trunc(f) && math.Abs(f) <= SafeIntLimit
}
