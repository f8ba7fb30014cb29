package workspace

import (
	"github.com/google/uuid"

	"goapl/internal/aplerr"
	"goapl/internal/array"
)

// Workspace is the full C10 symbol/system-variable/state holder spec.md
// §4.11 describes: the symbol table, all system variables (scope-stacked
// the same way ordinary symbols are), a pushed-command slot for emulating
// a mid-evaluation `)LOAD`, and the workspace ID. It implements
// internal/exec.Environment, so it is a drop-in replacement for
// exec.MapEnv wherever a full workspace (rather than a bare scratch
// environment) is wired in.
type Workspace struct {
	symbols       *SymbolTable
	sysScopes     []map[string]*array.Value
	WSID          string
	TransferID    uuid.UUID
	PushedCommand string
}

// New creates a workspace with default system-variable values (⎕IO=1,
// ⎕CT=1e-13, ...), the WSID "CLEAR WS" and a freshly generated TransferID.
func New() *Workspace {
	return &Workspace{
		symbols:   NewSymbolTable(),
		sysScopes: []map[string]*array.Value{defaultSystemValues()},
		WSID:      "CLEAR WS",
		TransferID: uuid.New(),
	}
}

// PushScope shadows every currently-bound local name on function entry
// (spec.md §4.11 "shadowing... pushes new bindings"): system variables get
// a fresh copy-on-write scope layer, and the caller is responsible for
// pushing Variable bindings for the callee's own locals via Bind.
func (w *Workspace) PushScope() {
	top := w.sysScopes[len(w.sysScopes)-1]
	next := make(map[string]*array.Value, len(top))
	for k, v := range top {
		next[k] = v
	}
	w.sysScopes = append(w.sysScopes, next)
}

// PopScope restores the caller's system-variable values on function
// return.
func (w *Workspace) PopScope() {
	if len(w.sysScopes) > 1 {
		w.sysScopes = w.sysScopes[:len(w.sysScopes)-1]
	}
}

// Bind pushes a new Variable binding for name (function-local shadowing of
// an ordinary, non-system symbol).
func (w *Workspace) Bind(name string, v *array.Value) {
	w.symbols.Lookup(name).Push(Binding{Kind: Variable, Value: v})
}

// Unbind pops the innermost binding for name (function return).
func (w *Workspace) Unbind(name string) {
	w.symbols.Lookup(name).Pop()
}

// Get implements exec.Environment.
func (w *Workspace) Get(name string) (*array.Value, bool) {
	if isSystemName(name) {
		top := w.sysScopes[len(w.sysScopes)-1]
		v, ok := top[name]
		return v, ok
	}
	sym := w.symbols.Lookup(name)
	b := sym.Top()
	if b.Kind != Variable {
		return nil, false
	}
	return b.Value, true
}

// Set implements exec.Environment: an ordinary assignment replaces the
// symbol's current (innermost) binding in place — it does not itself push
// a new binding, since only function entry shadows (spec.md §4.11).
func (w *Workspace) Set(name string, v *array.Value) *aplerr.Error {
	if isSystemName(name) {
		sv := sysVars[name]
		if sv.readOnly {
			return aplerr.New(aplerr.SYNTAX, "%s is read-only", name)
		}
		if sv.validate != nil {
			if err := sv.validate(v); err != nil {
				return err
			}
		}
		w.sysScopes[len(w.sysScopes)-1][name] = v
		return nil
	}
	sym := w.symbols.Lookup(name)
	sym.SetTop(Binding{Kind: Variable, Value: v})
	return nil
}

func (w *Workspace) sysFloat(name string) float64 {
	top := w.sysScopes[len(w.sysScopes)-1]
	v, ok := top[name]
	if !ok {
		return 0
	}
	return v.At(0).Float()
}

// Origin implements exec.Environment (⎕IO).
func (w *Workspace) Origin() int { return int(w.sysFloat("⎕IO")) }

// CT implements exec.Environment (⎕CT).
func (w *Workspace) CT() float64 { return w.sysFloat("⎕CT") }

// Symbols exposes the underlying table for )FNS/)VARS/)OPS introspection.
func (w *Workspace) Symbols() *SymbolTable { return w.symbols }

// Clear resets the workspace to a fresh CLEAR WS, matching spec.md §6's
// `)CLEAR` command.
func (w *Workspace) Clear() {
	w.symbols = NewSymbolTable()
	w.sysScopes = []map[string]*array.Value{defaultSystemValues()}
	w.WSID = "CLEAR WS"
	w.TransferID = uuid.New()
}
