// Package scalar implements SkalarFunction dispatch (spec.md §4.3): the
// machinery that takes a monadic or dyadic primitive over cells and
// applies it elementwise across whole arrays, including scalar extension,
// nested recursion, axis selection and fill/identity semantics for empty
// arrays.
package scalar

import (
	"math"

	"goapl/internal/aplerr"
	"goapl/internal/cell"
)

// MonadicFn is a scalar function's monadic cell-level implementation.
type MonadicFn func(cell.Cell) (cell.Cell, *aplerr.Error)

// MonadicCTFn is a monadic scalar function that needs the live ⎕CT, e.g.
// tolerant floor/ceiling (spec.md SUPPLEMENTED FEATURES "Tolerant
// floor/ceiling"). Takes precedence over Monadic when set.
type MonadicCTFn func(b cell.Cell, ct float64) (cell.Cell, *aplerr.Error)

// DyadicFn is a scalar function's dyadic cell-level implementation. ct is
// the current ⎕CT, threaded explicitly rather than read from global state
// (SPEC_FULL.md "Global mutable state → explicit workspace").
type DyadicFn func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error)

// Primitive bundles a scalar function's cell-level implementations with
// its reduce/scan identity constant (spec.md §4.3 "Identity-function
// values").
type Primitive struct {
	Name      string
	Monadic   MonadicFn
	MonadicCT MonadicCTFn // preferred over Monadic when set
	Dyadic    DyadicFn
	Identity  func() cell.Cell // nil if the primitive has none
}

// registry is keyed by APL glyph, mirroring the way the teacher's
// bytecode.OpCode enumeration names each operation once and looks it up by
// symbol at compile time (internal/bytecode/opcodes.go in the teacher).
var registry = map[string]*Primitive{}

func register(p *Primitive) *Primitive {
	registry[p.Name] = p
	return p
}

// Lookup returns the primitive bound to an APL glyph, or nil.
func Lookup(name string) *Primitive { return registry[name] }

func wrapDy(f func(a, b cell.Cell) (cell.Cell, *aplerr.Error)) DyadicFn {
	return func(a, b cell.Cell, _ float64) (cell.Cell, *aplerr.Error) { return f(a, b) }
}

var (
	Plus = register(&Primitive{
		Name: "+", Dyadic: wrapDy(cell.Add),
		Monadic:  func(b cell.Cell) (cell.Cell, *aplerr.Error) { return b, nil }, // conjugate for real args
		Identity: func() cell.Cell { return cell.NewInt(0) },
	})
	Minus = register(&Primitive{
		Name: "-", Dyadic: wrapDy(cell.Sub), Monadic: cell.Negate,
	})
	Times = register(&Primitive{
		Name: "×", Dyadic: wrapDy(cell.Mul),
		Monadic:  signum,
		Identity: func() cell.Cell { return cell.NewInt(1) },
	})
	Divide = register(&Primitive{
		Name: "÷", Dyadic: wrapDy(cell.Div), Monadic: cell.Reciprocal,
	})
	Power = register(&Primitive{
		Name: "⋆", Dyadic: wrapDy(cell.Power), Monadic: cell.Exp,
	})
	Log = register(&Primitive{
		Name: "⍟", Dyadic: wrapDy(cell.Log), Monadic: cell.Ln,
	})
	Residue = register(&Primitive{
		Name: "|",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) { return cell.Residue(a, b, ct) },
		Monadic: func(b cell.Cell) (cell.Cell, *aplerr.Error) {
			r, err := cell.Negate(b)
			if err != nil {
				return cell.Cell{}, err
			}
			if b.Float() < 0 {
				return r, nil
			}
			return b, nil
		},
	})
	Bang = register(&Primitive{
		Name: "!", Dyadic: wrapDy(cell.Binomial), Monadic: cell.Factorial,
	})
	Circle = register(&Primitive{
		Name: "○", Dyadic: wrapDy(cell.Circular),
		Monadic: func(b cell.Cell) (cell.Cell, *aplerr.Error) {
			return cell.Mul(cell.NewFloat(piConst), b)
		},
	})

	Max = register(&Primitive{
		Name: "⌈",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			if cell.Less(a, b, ct, nil) {
				return b, nil
			}
			return a, nil
		},
		MonadicCT: tolerantCeilCell,
		Identity:  func() cell.Cell { return cell.NewFloat(negInf) },
	})
	Min = register(&Primitive{
		Name: "⌊",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			if cell.Less(b, a, ct, nil) {
				return b, nil
			}
			return a, nil
		},
		MonadicCT: tolerantFloorCell,
		Identity:  func() cell.Cell { return cell.NewFloat(posInf) },
	})

	Equal = register(&Primitive{
		Name: "=",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			return boolCell(cell.TolerantEqual(a, b, ct)), nil
		},
		Identity: func() cell.Cell { return cell.NewInt(1) },
	})
	NotEqual = register(&Primitive{
		Name: "≠",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			return boolCell(!cell.TolerantEqual(a, b, ct)), nil
		},
		Identity: func() cell.Cell { return cell.NewInt(0) },
	})
	Less_ = register(&Primitive{
		Name: "<",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			return boolCell(cell.Less(a, b, ct, nil)), nil
		},
		Identity: func() cell.Cell { return cell.NewInt(0) },
	})
	LessEq = register(&Primitive{
		Name: "≤",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			return boolCell(!cell.Less(b, a, ct, nil)), nil
		},
		Identity: func() cell.Cell { return cell.NewInt(1) },
	})
	Greater = register(&Primitive{
		Name: ">",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			return boolCell(cell.Less(b, a, ct, nil)), nil
		},
		Identity: func() cell.Cell { return cell.NewInt(0) },
	})
	GreaterEq = register(&Primitive{
		Name: "≥",
		Dyadic: func(a, b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
			return boolCell(!cell.Less(a, b, ct, nil)), nil
		},
		Identity: func() cell.Cell { return cell.NewInt(1) },
	})

	And = register(&Primitive{Name: "∧", Dyadic: wrapDy(cell.And), Identity: func() cell.Cell { return cell.NewInt(1) }})
	Or  = register(&Primitive{Name: "∨", Dyadic: wrapDy(cell.Or), Identity: func() cell.Cell { return cell.NewInt(0) }})
	Nand = register(&Primitive{Name: "⍲", Dyadic: wrapDy(cell.Nand)})
	Nor  = register(&Primitive{Name: "⍱", Dyadic: wrapDy(cell.Nor)})
)

const piConst = 3.14159265358979323846
var posInf = math.Inf(1)
var negInf = math.Inf(-1)

// tolerantFloorCell implements monadic ⌊B via cell.TolerantFloor: an
// already-integral cell passes through unchanged, otherwise the
// ⎕CT-tolerant floor is taken and renormalised to Int when it lands on a
// safely representable integer (spec.md SUPPLEMENTED FEATURES "Tolerant
// floor/ceiling").
func tolerantFloorCell(b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
	if !b.IsNumeric() {
		return cell.Cell{}, aplerr.New(aplerr.DOMAIN, "⌊ requires a numeric argument")
	}
	if b.Tag().String() == "Int" {
		return b, nil
	}
	return normalizedFloat(cell.TolerantFloor(b.Float(), ct)), nil
}

// tolerantCeilCell implements monadic ⌈B, the dual of tolerantFloorCell.
func tolerantCeilCell(b cell.Cell, ct float64) (cell.Cell, *aplerr.Error) {
	if !b.IsNumeric() {
		return cell.Cell{}, aplerr.New(aplerr.DOMAIN, "⌈ requires a numeric argument")
	}
	if b.Tag().String() == "Int" {
		return b, nil
	}
	return normalizedFloat(cell.TolerantCeil(b.Float(), ct)), nil
}

// normalizedFloat renarrows a float result to Int when it lands on a
// safely representable integer, matching the promotion convention
// internal/cell/arith.go's fitsSafeInt check uses.
func normalizedFloat(f float64) cell.Cell {
	if f == math.Trunc(f) && math.Abs(f) <= cell.SafeIntLimit {
		return cell.NewInt(int64(f))
	}
	return cell.NewFloat(f)
}

func signum(b cell.Cell) (cell.Cell, *aplerr.Error) {
	f := b.Float()
	switch {
	case f > 0:
		return cell.NewInt(1), nil
	case f < 0:
		return cell.NewInt(-1), nil
	default:
		return cell.NewInt(0), nil
	}
}

func boolCell(b bool) cell.Cell {
	if b {
		return cell.NewInt(1)
	}
	return cell.NewInt(0)
}
