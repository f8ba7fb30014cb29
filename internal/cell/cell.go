// Package cell implements the scalar value that every APL array element is
// made of (spec.md §3 "Cell") and the scalar arithmetic/comparison
// functions defined over it (spec.md §4.1). A Cell is a small fixed-size
// tagged struct — never a heap-boxed interface — so that a Value's ravel
// (internal/array) can hold a dense []Cell exactly as the original C++
// places cells in-line inside the ravel buffer.
package cell

import (
	"fmt"
	"math"
)

// Tag distinguishes the Cell variants of spec.md §3.
type Tag byte

const (
	Char Tag = iota
	Int
	Float
	Complex
	Pointer
	LValue
)

func (t Tag) String() string {
	switch t {
	case Char:
		return "Char"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Complex:
		return "Complex"
	case Pointer:
		return "Pointer"
	case LValue:
		return "LValue"
	default:
		return "?"
	}
}

// Ptr is the minimal view of internal/array.Value that the cell package
// needs (a cycle-free interface, since array.Value embeds []Cell and would
// otherwise import this package circularly).
type Ptr interface {
	Retain()
	Release()
}

// Cell is one ravel element. Exactly one field group is meaningful,
// selected by Tag; the others are zero. This wastes a little memory per
// cell in exchange for placement-new semantics: Cell values are copied by
// value into a ravel slice, never individually heap-allocated.
type Cell struct {
	tag  Tag
	ival int64
	fval float64
	cval complex128
	chr  rune
	ptr  Ptr
	lv   *Cell
}

// SafeIntLimit is the largest integer magnitude (2^53) for which integer
// arithmetic is guaranteed exact in a float64, per spec.md §4.1 overflow
// detection.
const SafeIntLimit = 1 << 53

func NewChar(r rune) Cell       { return Cell{tag: Char, chr: r} }
func NewInt(i int64) Cell       { return Cell{tag: Int, ival: i} }
func NewFloat(f float64) Cell   { return Cell{tag: Float, fval: f} }
func NewComplex(c complex128) Cell {
	if imag(c) == 0 {
		return Cell{tag: Float, fval: real(c)}
	}
	return Cell{tag: Complex, cval: c}
}
func NewPointer(v Ptr) Cell {
	v.Retain()
	return Cell{tag: Pointer, ptr: v}
}
func NewLValue(target *Cell) Cell { return Cell{tag: LValue, lv: target} }

// Zero is the numeric prototype fill cell (spec.md §3 "Prototype").
var Zero = NewInt(0)

// Space is the character prototype fill cell.
var Space = NewChar(' ')

func (c Cell) Tag() Tag   { return c.tag }
func (c Cell) Rune() rune { return c.chr }
func (c Cell) Int() int64 { return c.ival }
func (c Cell) Float() float64 {
	if c.tag == Int {
		return float64(c.ival)
	}
	return c.fval
}
func (c Cell) Complex() complex128 {
	switch c.tag {
	case Int:
		return complex(float64(c.ival), 0)
	case Float:
		return complex(c.fval, 0)
	default:
		return c.cval
	}
}
func (c Cell) Pointer() Ptr     { return c.ptr }
func (c Cell) LValueTarget() *Cell { return c.lv }

func (c Cell) IsNumeric() bool { return c.tag == Int || c.tag == Float || c.tag == Complex }
func (c Cell) IsChar() bool    { return c.tag == Char }
func (c Cell) IsNested() bool  { return c.tag == Pointer }
func (c Cell) IsLValue() bool  { return c.tag == LValue }

// Release drops this cell's strong reference to a pointed-to Value, if any.
// Called when a ravel slot is overwritten or a Value is destroyed.
func (c Cell) Release() {
	if c.tag == Pointer && c.ptr != nil {
		c.ptr.Release()
	}
}

// Clone deep-copies a cell: scalar cells copy trivially, a pointer cell
// bumps the target's refcount (the caller is expected to have already
// cloned the target if a true deep copy is wanted — internal/array.Clone
// does that at the Value level).
func (c Cell) Clone() Cell {
	if c.tag == Pointer && c.ptr != nil {
		c.ptr.Retain()
	}
	return c
}

func (c Cell) String() string {
	switch c.tag {
	case Char:
		return string(c.chr)
	case Int:
		return fmt.Sprintf("%d", c.ival)
	case Float:
		return formatFloat(c.fval)
	case Complex:
		re, im := real(c.cval), imag(c.cval)
		sign := "J"
		return fmt.Sprintf("%sJ%s", formatFloat(re), signedFloat(im, sign))
	case Pointer:
		return "<nested>"
	case LValue:
		return "<lvalue>"
	default:
		return "?"
	}
}

func signedFloat(f float64, _ string) string { return formatFloat(f) }

func formatFloat(f float64) string {
	if math.IsInf(f, 1) {
		return "INF"
	}
	if math.IsInf(f, -1) {
		return "¯INF"
	}
	if f < 0 {
		return "¯" + formatFloat(-f)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// Subtype is the smallest on-wire container that could hold this cell,
// consulted by internal/serialize's CDR encoder to pick a compact type tag
// (spec.md §4.12 type 0..7).
type Subtype int

const (
	SubBit Subtype = iota
	SubByte
	SubInt32
	SubInt64
	SubFloat
	SubComplex
	SubChar
	SubUnicode
	SubNested
)

func (c Cell) Subtype() Subtype {
	switch c.tag {
	case Char:
		if c.chr < 256 {
			return SubChar
		}
		return SubUnicode
	case Int:
		switch {
		case c.ival == 0 || c.ival == 1:
			return SubBit
		case c.ival >= -128 && c.ival <= 127:
			return SubByte
		case c.ival >= math.MinInt32 && c.ival <= math.MaxInt32:
			return SubInt32
		default:
			return SubInt64
		}
	case Float:
		return SubFloat
	case Complex:
		return SubComplex
	default:
		return SubNested
	}
}
