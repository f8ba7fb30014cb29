// Package operator implements the derived-function machinery of spec.md
// §4.5-§4.8: reduce/scan, replicate/expand, each/commute/power, rank, and
// inner/outer product. Every operator is written against the Func
// interface rather than concretely against internal/scalar, so that
// internal/exec's structural primitives and derived functions are wrapped
// the same way a scalar primitive is here. Every Func call is an ordinary
// blocking Go call; no operator here installs an EOC handler.
package operator

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
	"goapl/internal/scalar"
)

// Func is an operand function: either a native scalar/structural
// primitive or (eventually) a user-defined function frame.
type Func interface {
	Name() string
	Monadic(b *array.Value) (*array.Value, *aplerr.Error)
	Dyadic(a, b *array.Value) (*array.Value, *aplerr.Error)
	// Identity returns the reduce/scan identity-function value, if F has
	// one (spec.md §4.3 "Identity-function values").
	Identity() (cell.Cell, bool)
	// Inverse returns F's inverse function, if known, for ⍣ with negative N
	// (spec.md §4.6 "Power").
	Inverse() (Func, bool)
}

// scalarFunc adapts an internal/scalar.Primitive to Func.
type scalarFunc struct {
	p  *scalar.Primitive
	ct float64
}

// FromScalar wraps a scalar primitive as an operator operand, threading
// the workspace's current ⎕CT explicitly (SPEC_FULL.md "Global mutable
// state → explicit workspace").
func FromScalar(p *scalar.Primitive, ct float64) Func { return scalarFunc{p: p, ct: ct} }

func (f scalarFunc) Name() string { return f.p.Name }

func (f scalarFunc) Monadic(b *array.Value) (*array.Value, *aplerr.Error) {
	if f.p.MonadicCT != nil {
		return scalar.ApplyMonadicCT(f.p, b, f.ct)
	}
	if f.p.Monadic == nil {
		return nil, aplerr.New(aplerr.SYNTAX, "%s has no monadic form", f.p.Name)
	}
	return scalar.ApplyMonadic(f.p, b)
}

func (f scalarFunc) Dyadic(a, b *array.Value) (*array.Value, *aplerr.Error) {
	if f.p.Dyadic == nil {
		return nil, aplerr.New(aplerr.SYNTAX, "%s has no dyadic form", f.p.Name)
	}
	return scalar.ApplyDyadic(f.p, a, b, f.ct)
}

func (f scalarFunc) Identity() (cell.Cell, bool) {
	if f.p.Identity == nil {
		return cell.Cell{}, false
	}
	return f.p.Identity(), true
}

var inverses = map[string]string{
	"+": "-", "-": "+",
	"×": "÷", "÷": "×",
	"⋆": "⍟", "⍟": "⋆",
}

func (f scalarFunc) Inverse() (Func, bool) {
	name, ok := inverses[f.p.Name]
	if !ok {
		return nil, false
	}
	inv := scalar.Lookup(name)
	if inv == nil {
		return nil, false
	}
	return scalarFunc{p: inv, ct: f.ct}, true
}

// Plain wraps an ad-hoc Go closure pair as a Func with no identity/inverse,
// used by internal/exec for derived functions (F/, F¨, F⍣N, ∘.F, ...) and
// for the replicate/expand base functions.
type Plain struct {
	NameStr   string
	MonadicFn func(b *array.Value) (*array.Value, *aplerr.Error)
	DyadicFn  func(a, b *array.Value) (*array.Value, *aplerr.Error)
}

func (f Plain) Name() string { return f.NameStr }
func (f Plain) Monadic(b *array.Value) (*array.Value, *aplerr.Error) {
	if f.MonadicFn == nil {
		return nil, aplerr.New(aplerr.SYNTAX, "%s has no monadic form", f.NameStr)
	}
	return f.MonadicFn(b)
}
func (f Plain) Dyadic(a, b *array.Value) (*array.Value, *aplerr.Error) {
	if f.DyadicFn == nil {
		return nil, aplerr.New(aplerr.SYNTAX, "%s has no dyadic form", f.NameStr)
	}
	return f.DyadicFn(a, b)
}
func (f Plain) Identity() (cell.Cell, bool) { return cell.Cell{}, false }
func (f Plain) Inverse() (Func, bool)       { return nil, false }
