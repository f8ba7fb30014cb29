package cell

import (
	"math"

	"goapl/internal/aplerr"
)

// factTable holds 0!..20! computed exactly in int64.
var factTable = func() [21]int64 {
	var t [21]int64
	t[0] = 1
	for i := int64(1); i <= 20; i++ {
		t[i] = t[i-1] * i
	}
	return t
}()

// Factorial implements monadic !B: exact table lookup for 0<=N<=20,
// math.Gamma(N+1) for N<=170, DOMAIN beyond (spec.md §4.1 "Factorial").
func Factorial(b Cell) (Cell, *aplerr.Error) {
	if !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "! requires a numeric argument")
	}
	f := b.Float()
	if f < 0 {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "! of a negative argument")
	}
	if b.tag == Int && b.ival >= 0 && b.ival <= 20 {
		return NewInt(factTable[b.ival]), nil
	}
	if f == math.Trunc(f) && f >= 0 && f <= 20 {
		return NewInt(factTable[int64(f)]), nil
	}
	if f <= 170 {
		return NewFloat(math.Gamma(f + 1)), nil
	}
	return Cell{}, aplerr.New(aplerr.DOMAIN, "! argument too large")
}

// Binomial implements dyadic A!B, the generalised binomial coefficient,
// splitting on the signs of A, B and B-A per spec.md §4.1.
func Binomial(a, b Cell) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "binomial requires numeric arguments")
	}
	if a.tag == Complex || b.tag == Complex {
		return complexBinomial(a.Complex(), b.Complex()), nil
	}
	af, bf := a.Float(), b.Float()
	if af == math.Trunc(af) && bf == math.Trunc(bf) {
		n, k := int64(bf), int64(af)
		if k < 0 {
			return Cell{}, aplerr.New(aplerr.DOMAIN, "binomial: negative left argument")
		}
		if n < 0 {
			// (n!k) for negative n generalises via the Gamma path below.
		} else if k > n {
			return NewInt(0), nil
		} else {
			r := binomialExact(n, k)
			return NewInt(r), nil
		}
	}
	g := math.Gamma(bf+1) / (math.Gamma(af+1) * math.Gamma(bf-af+1))
	return NewFloat(g), nil
}

func binomialExact(n, k int64) int64 {
	if k > n-k {
		k = n - k
	}
	r := int64(1)
	for i := int64(0); i < k; i++ {
		r = r * (n - i) / (i + 1)
	}
	return r
}

func complexBinomial(a, b complex128) Cell {
	// Gamma(b+1) / (Gamma(a+1) * Gamma(b-a+1)) via the real Gamma on
	// components is not meaningful for complex args in the standard
	// library; fall back to the real parts which is exact whenever both
	// arguments happen to be real-valued complex cells.
	ra, ia := real(a), imag(a)
	rb, ib := real(b), imag(b)
	if ia == 0 && ib == 0 {
		g := math.Gamma(rb+1) / (math.Gamma(ra+1) * math.Gamma(rb-ra+1))
		return NewComplex(complex(g, 0))
	}
	return NewComplex(complex(math.NaN(), math.NaN()))
}

// Residue implements dyadic A|B (APL residue, not C modulo): zero-A
// returns B, sign of the result follows the sign of A, tolerant rounding
// via ct (⎕CT) per spec.md §4.1.
func Residue(a, b Cell, ct float64) (Cell, *aplerr.Error) {
	if !a.IsNumeric() || !b.IsNumeric() {
		return Cell{}, aplerr.New(aplerr.DOMAIN, "| requires numeric arguments")
	}
	af, bf := a.Float(), b.Float()
	if af == 0 {
		return b, nil
	}
	q := tolerantFloor(bf/af, ct)
	r := bf - af*q
	if a.tag == Int && b.tag == Int {
		return NewInt(int64(math.Round(r))), nil
	}
	return NewFloat(r), nil
}

// tolerantFloor is ⌊x rounded so that a value within ct of the next
// integer snaps to it, shared by Residue and by internal/scalar's monadic
// ⌊/⌈ (spec.md SUPPLEMENTED FEATURES, from RealCell.cc/IntCell.cc).
func tolerantFloor(x, ct float64) float64 {
	f := math.Floor(x)
	if ct > 0 {
		if x-f > 1-ct {
			return f + 1
		}
		if x-f < ct {
			return f
		}
	}
	return f
}

// TolerantFloor exports tolerantFloor for use by internal/scalar.
func TolerantFloor(x, ct float64) float64 { return tolerantFloor(x, ct) }

// TolerantCeil is the dual of TolerantFloor.
func TolerantCeil(x, ct float64) float64 { return -tolerantFloor(-x, ct) }
