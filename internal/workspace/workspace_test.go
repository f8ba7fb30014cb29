package workspace

import (
	"testing"

	"goapl/internal/array"
	"goapl/internal/cell"
	"goapl/internal/exec"
)

var _ exec.Environment = (*Workspace)(nil)

func TestDefaultSystemVariables(t *testing.T) {
	w := New()
	if w.Origin() != 1 {
		t.Fatalf("default ⎕IO = %d, want 1", w.Origin())
	}
	if w.CT() != 1e-13 {
		t.Fatalf("default ⎕CT = %v, want 1e-13", w.CT())
	}
}

func TestSetIOValidation(t *testing.T) {
	w := New()
	if err := w.Set("⎕IO", array.NewScalar(cell.NewInt(0))); err != nil {
		t.Fatalf("⎕IO←0 should be valid: %v", err)
	}
	if w.Origin() != 0 {
		t.Fatalf("⎕IO = %d, want 0", w.Origin())
	}
	if err := w.Set("⎕IO", array.NewScalar(cell.NewInt(2))); err == nil {
		t.Fatalf("⎕IO←2 should be rejected")
	}
}

func TestReadOnlySystemVariable(t *testing.T) {
	w := New()
	if err := w.Set("⎕AI", array.NewScalar(cell.NewInt(0))); err == nil {
		t.Fatalf("⎕AI should be read-only")
	}
}

func TestSystemVariableScopeStacking(t *testing.T) {
	w := New()
	w.Set("⎕IO", array.NewScalar(cell.NewInt(1)))
	w.PushScope()
	w.Set("⎕IO", array.NewScalar(cell.NewInt(0)))
	if w.Origin() != 0 {
		t.Fatalf("inner scope ⎕IO = %d, want 0", w.Origin())
	}
	w.PopScope()
	if w.Origin() != 1 {
		t.Fatalf("outer scope ⎕IO after pop = %d, want 1 (restored)", w.Origin())
	}
}

func TestVariableBindAndShadow(t *testing.T) {
	w := New()
	w.Set("X", array.NewScalar(cell.NewInt(10)))
	w.Bind("X", array.NewScalar(cell.NewInt(99)))
	v, ok := w.Get("X")
	if !ok || v.At(0).Int() != 99 {
		t.Fatalf("shadowed X = %v, want 99", v)
	}
	w.Unbind("X")
	v, ok = w.Get("X")
	if !ok || v.At(0).Int() != 10 {
		t.Fatalf("restored X = %v, want 10", v)
	}
}

func TestClear(t *testing.T) {
	w := New()
	w.Set("X", array.NewScalar(cell.NewInt(1)))
	w.Clear()
	if _, ok := w.Get("X"); ok {
		t.Fatalf("X should not survive )CLEAR")
	}
	if w.WSID != "CLEAR WS" {
		t.Fatalf("WSID after clear = %q, want CLEAR WS", w.WSID)
	}
}

func TestDump(t *testing.T) {
	w := New()
	w.Set("X", array.NewScalar(cell.NewInt(42)))
	out := w.Dump()
	if out == "" {
		t.Fatalf("dump should list X")
	}
}
