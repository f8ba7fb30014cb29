package primitive

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Context carries the workspace state a structural primitive needs beyond
// its array arguments: ⎕IO (index origin) and ⎕CT (comparison tolerance),
// threaded explicitly rather than read from a global (SPEC_FULL.md "Global
// mutable state → explicit workspace"). internal/exec supplies the live
// values from internal/workspace at call time.
type Context struct {
	Origin int
	CT     float64
}

// MonadicFn is a structural primitive's monadic form.
type MonadicFn func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error)

// DyadicFn is a structural primitive's dyadic form.
type DyadicFn func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error)

// Entry bundles a structural primitive's monadic/dyadic implementations,
// mirroring internal/scalar's Primitive but for shape-changing operations
// that take a *array.Value rather than a single cell (spec.md §4.4).
type Entry struct {
	Name    string
	Monadic MonadicFn
	Dyadic  DyadicFn
}

var registry = map[string]*Entry{}

func register(e *Entry) *Entry {
	registry[e.Name] = e
	return e
}

// Lookup returns the structural primitive bound to an APL glyph, or nil if
// none is registered (the caller falls back to internal/scalar for a
// scalar-extended primitive, and to internal/operator for an operator).
func Lookup(name string) *Entry { return registry[name] }

var (
	Rho = register(&Entry{
		Name: "⍴",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return IntVectorValue([]int(b.Shape())), nil
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Reshape(a, b)
		},
	})
	UpArrow = register(&Entry{
		Name: "↑",
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Take(a, b)
		},
	})
	DownArrow = register(&Entry{
		Name: "↓",
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Drop(a, b)
		},
	})
	Comma = register(&Entry{
		Name: ",",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return array.Ravel(b), nil
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			axis := a.Rank() - 1
			if axis < 0 {
				axis = 0
			}
			return Catenate(a, b, axis)
		},
	})
	CircleStile = register(&Entry{
		Name: "⌽",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			axis := b.Rank() - 1
			if axis < 0 {
				axis = 0
			}
			return Reverse(b, axis)
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			axis := b.Rank() - 1
			if axis < 0 {
				axis = 0
			}
			return Rotate(a, b, axis)
		},
	})
	CommaBar = register(&Entry{
		Name: "⍪",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			if b.Rank() <= 1 {
				return array.Reshape(array.Shape{b.ElementCount(), 1}, b)
			}
			return b, nil
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Catenate(a, b, 0)
		},
	})
	Transpose_ = register(&Entry{
		Name: "⍉",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return MonadicTranspose(b)
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Transpose(a, b)
		},
	})
	Ominus = register(&Entry{
		Name: "⊖",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return Reverse(b, 0)
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Rotate(a, b, 0)
		},
	})
	CircleStar = register(&Entry{
		Name: "⊂",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return Enclose(b), nil
		},
	})
	CircleCup = register(&Entry{
		Name: "⊃",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return Disclose(b), nil
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Pick(a, b)
		},
	})
	Epsilon = register(&Entry{
		Name: "∊",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return Enlist(b), nil
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Membership(a, b)
		},
	})
	Iota_ = register(&Entry{
		Name: "⍳",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return Iota(b, ctx.Origin)
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return IndexOf(a, b, ctx.Origin)
		},
	})
	GradeUp_ = register(&Entry{
		Name: "⍋",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return GradeUp(b, ctx.Origin, ctx.CT)
		},
	})
	GradeDown_ = register(&Entry{
		Name: "⍒",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return GradeDown(b, ctx.Origin, ctx.CT)
		},
	})
	Format_ = register(&Entry{
		Name: "⍕",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return Format(b, FormatOpts{PP: 10, PW: 80}), nil
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return FormatWidth(a, b)
		},
	})
	Squad_ = register(&Entry{
		Name: "⌷",
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			sel, err := IntVector(a)
			if err != nil {
				return nil, err
			}
			idx := make([][]int, len(sel))
			for i, v := range sel {
				idx[i] = []int{v - ctx.Origin}
			}
			return Squad(b, idx)
		},
	})
	Encode_ = register(&Entry{
		Name: "⊤",
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Encode(a, b)
		},
	})
	Decode_ = register(&Entry{
		Name: "⊥",
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return Decode(a, b)
		},
	})
	Domino_ = register(&Entry{
		Name: "⌹",
		Monadic: func(ctx Context, b *array.Value) (*array.Value, *aplerr.Error) {
			return Domino(b)
		},
		Dyadic: func(ctx Context, a, b *array.Value) (*array.Value, *aplerr.Error) {
			return DominoSolve(a, b)
		},
	})
)
