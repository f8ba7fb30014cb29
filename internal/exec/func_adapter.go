package exec

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
	"goapl/internal/cell"
	"goapl/internal/operator"
	"goapl/internal/primitive"
	"goapl/internal/scalar"
)

// primFunc adapts a structural primitive.Entry to operator.Func, the same
// way internal/operator.scalarFunc adapts a scalar.Primitive — so an
// operator decoration (F/, F¨, F⍤y, ...) can be applied to ⍴, ↑, ⌹, etc.
// exactly as it applies to +, ×, ⌈.
type primFunc struct {
	e   *primitive.Entry
	ctx primitive.Context
}

func (f primFunc) Name() string { return f.e.Name }

func (f primFunc) Monadic(b *array.Value) (*array.Value, *aplerr.Error) {
	if f.e.Monadic == nil {
		return nil, aplerr.New(aplerr.SYNTAX, "%s has no monadic form", f.e.Name)
	}
	return f.e.Monadic(f.ctx, b)
}

func (f primFunc) Dyadic(a, b *array.Value) (*array.Value, *aplerr.Error) {
	if f.e.Dyadic == nil {
		return nil, aplerr.New(aplerr.SYNTAX, "%s has no dyadic form", f.e.Name)
	}
	return f.e.Dyadic(f.ctx, a, b)
}

func (f primFunc) Identity() (cell.Cell, bool)        { return cell.Cell{}, false }
func (f primFunc) Inverse() (operator.Func, bool)     { return nil, false }

// lookupBase resolves a single PRIMITIVE glyph to a base operator.Func:
// first the scalar registry, then the structural registry, then the four
// glyphs ("/","⌿","\\","⍀") that are base dyadic functions (replicate,
// expand) in their own right whenever no function precedes them for them
// to decorate (spec.md §4.5 "the dyadic overloads of / and \\").
func (ev *Evaluator) lookupBase(glyph string) (operator.Func, *aplerr.Error) {
	if p := scalar.Lookup(glyph); p != nil {
		return operator.FromScalar(p, ev.env.CT()), nil
	}
	if e := primitive.Lookup(glyph); e != nil {
		return primFunc{e: e, ctx: primitive.Context{Origin: ev.env.Origin(), CT: ev.env.CT()}}, nil
	}
	switch glyph {
	case "/":
		return operator.Plain{NameStr: "/", DyadicFn: func(a, b *array.Value) (*array.Value, *aplerr.Error) {
			return operator.Replicate(a, b, lastAxis(b))
		}}, nil
	case "⌿":
		return operator.Plain{NameStr: "⌿", DyadicFn: func(a, b *array.Value) (*array.Value, *aplerr.Error) {
			return operator.Replicate(a, b, 0)
		}}, nil
	case "\\":
		return operator.Plain{NameStr: "\\", DyadicFn: func(a, b *array.Value) (*array.Value, *aplerr.Error) {
			return operator.Expand(a, b, lastAxis(b))
		}}, nil
	case "⍀":
		return operator.Plain{NameStr: "⍀", DyadicFn: func(a, b *array.Value) (*array.Value, *aplerr.Error) {
			return operator.Expand(a, b, 0)
		}}, nil
	}
	return nil, aplerr.New(aplerr.SYNTAX, "%s is not a function", glyph)
}

func lastAxis(b *array.Value) int {
	if b.Rank() == 0 {
		return 0
	}
	return b.Rank() - 1
}
