package array

import (
	"sync"
	"sync/atomic"

	"goapl/internal/aplerr"
	"goapl/internal/cell"
)

// Flags records the per-Value bits of spec.md §3 ("flags: nested,
// complete, on-stack, eoc-protected, etc.").
type Flags uint8

const (
	FlagNested Flags = 1 << iota
	FlagComplete
	FlagOnStack
	FlagEOCProtected
)

// Value is the array: a Shape plus a dense row-major ravel of Cells
// (spec.md §3 "Value"). Values are reference counted (spec.md §5) and
// registered in the process-wide dynamic-value registry so that a
// workspace mark/sweep can find stale allocations at )SAVE time.
type Value struct {
	shape    Shape
	ravel    []cell.Cell
	flags    Flags
	refcount int32
	marked   int32 // mark/sweep flag, see Mark/Sweep below
}

// New allocates a Value with the given shape and a freshly zeroed ravel
// (spec.md §4.2 "construct"). The Value starts incomplete; CheckValue
// freezes it.
func New(shape Shape) (*Value, *aplerr.Error) {
	if err := shape.validate(); err != nil {
		return nil, err
	}
	v := &Value{shape: shape.Clone(), ravel: make([]cell.Cell, shape.RavelLength())}
	for i := range v.ravel {
		v.ravel[i] = cell.Zero
	}
	registry.add(v)
	return v, nil
}

// NewScalar wraps a single cell as a rank-0 Value.
func NewScalar(c cell.Cell) *Value {
	v := &Value{shape: Shape{}, ravel: []cell.Cell{c}, flags: FlagComplete}
	registry.add(v)
	return v
}

// NewVector builds a rank-1 Value from the given cells.
func NewVector(cells []cell.Cell) *Value {
	v := &Value{shape: Shape{len(cells)}, ravel: cells, flags: FlagComplete}
	if len(v.ravel) == 0 {
		v.ravel = []cell.Cell{cell.Zero}
	}
	registry.add(v)
	return v
}

// NewEmptyCharVector is '' — a length-zero character vector whose
// prototype is space (spec.md §8 "Boundary behaviours").
func NewEmptyCharVector() *Value {
	v := &Value{shape: Shape{0}, ravel: []cell.Cell{cell.Space}, flags: FlagComplete}
	registry.add(v)
	return v
}

func (v *Value) Shape() Shape        { return v.shape }
func (v *Value) Rank() int           { return len(v.shape) }
func (v *Value) Ravel() []cell.Cell  { return v.ravel }
func (v *Value) ElementCount() int   { return v.shape.ElementCount() }
func (v *Value) IsEmpty() bool       { return v.shape.ElementCount() == 0 }
func (v *Value) Flags() Flags        { return v.flags }
func (v *Value) SetFlag(f Flags)     { v.flags |= f }
func (v *Value) ClearFlag(f Flags)   { v.flags &^= f }
func (v *Value) HasFlag(f Flags) bool { return v.flags&f != 0 }

// At returns the cell at a flat ravel offset.
func (v *Value) At(i int) cell.Cell { return v.ravel[i] }

// Set writes a cell at a flat ravel offset, releasing whatever reference
// previously lived there.
func (v *Value) Set(i int, c cell.Cell) {
	v.ravel[i].Release()
	v.ravel[i] = c
}

// Retain/Release implement cell.Ptr so a Value can be held by a Pointer
// cell (spec.md §3 "Pointer: an owning ... handle").
func (v *Value) Retain()  { atomic.AddInt32(&v.refcount, 1) }
func (v *Value) Release() {
	if atomic.AddInt32(&v.refcount, -1) <= 0 {
		v.destroy()
	}
}

func (v *Value) destroy() {
	for _, c := range v.ravel {
		c.Release()
	}
	registry.remove(v)
}

// CheckValue validates the invariants of spec.md §3 and freezes the
// Value, marking it complete.
func (v *Value) CheckValue() *aplerr.Error {
	if err := v.shape.validate(); err != nil {
		return err
	}
	want := v.shape.RavelLength()
	if len(v.ravel) != want {
		return aplerr.New(aplerr.LENGTH, "ravel length %d does not match shape product %d", len(v.ravel), want)
	}
	for _, c := range v.ravel {
		if c.IsNested() {
			v.flags |= FlagNested
		}
	}
	v.flags |= FlagComplete
	return nil
}

// Clone deep-copies a Value: pointer cells are recursively cloned so the
// result shares no mutable state with the source (spec.md §4.2 "clone").
func (v *Value) Clone() *Value {
	out := &Value{shape: v.shape.Clone(), flags: v.flags &^ FlagOnStack, ravel: make([]cell.Cell, len(v.ravel))}
	for i, c := range v.ravel {
		if c.IsNested() {
			if src, ok := c.Pointer().(*Value); ok {
				out.ravel[i] = cell.NewPointer(src.Clone())
				continue
			}
		}
		out.ravel[i] = c.Clone()
	}
	registry.add(out)
	return out
}

// Prototype returns the canonical fill cell for this Value: the numeric
// or character prototype of ravel[0], recursively for nested values
// (spec.md §3 "Prototype").
func (v *Value) Prototype() cell.Cell {
	if len(v.ravel) == 0 {
		return cell.Zero
	}
	return prototypeOf(v.ravel[0])
}

func prototypeOf(c cell.Cell) cell.Cell {
	switch c.Tag() {
	case cell.Char:
		return cell.Space
	case cell.Pointer:
		if inner, ok := c.Pointer().(*Value); ok {
			return cell.NewPointer(NewScalar(inner.Prototype()))
		}
		return cell.Zero
	default:
		return cell.Zero
	}
}

// --- dynamic-value registry: process-wide mark/sweep (spec.md §5) ---

type valueRegistry struct {
	mu   sync.Mutex
	live map[*Value]struct{}
}

var registry = &valueRegistry{live: make(map[*Value]struct{})}

func (r *valueRegistry) add(v *Value) {
	r.mu.Lock()
	r.live[v] = struct{}{}
	r.mu.Unlock()
}

func (r *valueRegistry) remove(v *Value) {
	r.mu.Lock()
	delete(r.live, v)
	r.mu.Unlock()
}

// UnmarkAll sets the stale (mark/sweep) flag on every live Value, the first
// step of a workspace sweep (spec.md §5 "mark_all_dynamic_values"); Mark
// then clears it on everything reachable.
func UnmarkAll() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	for v := range registry.live {
		atomic.StoreInt32(&v.marked, 1)
	}
}

// Mark clears the stale flag for v and recursively for any Value nested
// inside it, called while walking workspace roots.
func Mark(v *Value) {
	if v == nil || atomic.LoadInt32(&v.marked) == 0 {
		return
	}
	atomic.StoreInt32(&v.marked, 0)
	for _, c := range v.ravel {
		if c.IsNested() {
			if inner, ok := c.Pointer().(*Value); ok {
				Mark(inner)
			}
		}
	}
}

// Stale returns every live Value whose mark flag survived a sweep: these
// are unreachable from any root and excluded from )SAVE output (spec.md
// §5 "any value whose flag remains set is stale").
func Stale() []*Value {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	var out []*Value
	for v := range registry.live {
		if atomic.LoadInt32(&v.marked) != 0 {
			out = append(out, v)
		}
	}
	return out
}

// LiveCount reports the number of values currently tracked, used for
// workspace diagnostics ()SI memory reporting via internal/workspace).
func LiveCount() int {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	return len(registry.live)
}
