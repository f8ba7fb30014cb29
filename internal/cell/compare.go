package cell

import "math"

// TolerantEqual implements scalar = with ⎕CT tolerance: |A-B| < CT*max(|A|,|B|)
// unless the two values have differing sign (0 counts as both signs), per
// spec.md §4.1 "Comparison with tolerance".
func TolerantEqual(a, b Cell, ct float64) bool {
	if a.tag == Char || b.tag == Char {
		return a.tag == Char && b.tag == Char && a.chr == b.chr
	}
	if a.tag == Complex || b.tag == Complex {
		ac, bc := a.Complex(), b.Complex()
		d := ac - bc
		mag := math.Hypot(real(ac), imag(ac))
		mb := math.Hypot(real(bc), imag(bc))
		m := math.Max(mag, mb)
		return math.Hypot(real(d), imag(d)) <= ct*m
	}
	af, bf := a.Float(), b.Float()
	if af == bf {
		return true
	}
	if sign(af) != sign(bf) {
		return false
	}
	m := math.Max(math.Abs(af), math.Abs(bf))
	return math.Abs(af-bf) < ct*m
}

func sign(f float64) int {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	default:
		return 0
	}
}

// classRank orders Char < numeric < nested for the total order used by
// comparison primitives and grade-up/down (spec.md §4.1 "Ordering").
func classRank(t Tag) int {
	switch t {
	case Char:
		return 0
	case Pointer:
		return 2
	default:
		return 1
	}
}

// Less implements the total order spec.md §4.1 requires for grade-up/down
// and sort: within a class the obvious order, character class by code
// point, numeric class by tolerant magnitude, nested class lexicographic
// (delegated to the caller via nestedLess since Cell alone cannot recurse
// into a Value without importing internal/array).
func Less(a, b Cell, ct float64, nestedLess func(a, b Cell) bool) bool {
	ca, cb := classRank(a.tag), classRank(b.tag)
	if ca != cb {
		return ca < cb
	}
	switch ca {
	case 0:
		return a.chr < b.chr
	case 1:
		if TolerantEqual(a, b, ct) {
			return false
		}
		return a.Float() < b.Float()
	default:
		if nestedLess != nil {
			return nestedLess(a, b)
		}
		return false
	}
}
