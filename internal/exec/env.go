// Package exec implements the runtime half of spec.md §4.9: a prefix
// parser that shifts internal/parser's flat Item list onto a lookahead
// stack and reduces right-to-left, plus the StateIndicator frame and the
// EOC handler chain kept on it. Operand calls made by a derived function
// (internal/operator) are ordinary blocking Go calls; the chain is
// bookkeeping only (see eoc.go).
package exec

import (
	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Environment is the symbol-table contract a Frame evaluates against:
// variable lookup/bind plus the two system variables every scalar or
// structural primitive needs threaded explicitly (⎕IO, ⎕CT). A full
// workspace (internal/workspace) implements this with scope-stacked
// bindings and the rest of the system-variable set, where Set can reject
// an assignment (a read-only system variable, a validation failure);
// MapEnv is the minimal standalone implementation used when no workspace
// is wired in (tests, a bare evaluator), where Set never fails.
type Environment interface {
	Get(name string) (*array.Value, bool)
	Set(name string, v *array.Value) *aplerr.Error
	Origin() int
	CT() float64
}

// scope is one binding frame; shadowing on function entry pushes a new
// scope and pops it on return (spec.md §4.11).
type scope struct {
	vars map[string]*array.Value
}

// MapEnv is a minimal Environment: a stack of map-based scopes plus the
// two system variables threaded into primitive.Context/scalar dispatch.
// Assigning to the names "⎕IO"/"⎕CT" updates those fields directly and
// without validation; internal/workspace is the implementation that
// validates and scope-stacks the full system-variable set.
type MapEnv struct {
	stack  []scope
	origin int
	ct     float64
}

// NewMapEnv returns an Environment with ⎕IO=1, ⎕CT=1e-13 (spec.md §4.11
// defaults) and a single global scope.
func NewMapEnv() *MapEnv {
	return &MapEnv{
		stack:  []scope{{vars: map[string]*array.Value{}}},
		origin: 1,
		ct:     1e-13,
	}
}

// Push opens a new local scope (function entry / shadowing).
func (e *MapEnv) Push() { e.stack = append(e.stack, scope{vars: map[string]*array.Value{}}) }

// Pop closes the innermost scope (function return).
func (e *MapEnv) Pop() {
	if len(e.stack) > 1 {
		e.stack = e.stack[:len(e.stack)-1]
	}
}

func (e *MapEnv) Get(name string) (*array.Value, bool) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if v, ok := e.stack[i].vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

func (e *MapEnv) Set(name string, v *array.Value) *aplerr.Error {
	switch name {
	case "⎕IO":
		if v.ElementCount() > 0 {
			e.origin = int(v.At(0).Float())
		}
	case "⎕CT":
		if v.ElementCount() > 0 {
			e.ct = v.At(0).Float()
		}
	}
	e.stack[len(e.stack)-1].vars[name] = v
	return nil
}

func (e *MapEnv) Origin() int    { return e.origin }
func (e *MapEnv) CT() float64   { return e.ct }
