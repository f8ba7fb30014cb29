package exec

import (
	"strings"
	"testing"

	"goapl/internal/parser"
)

func runLine(t *testing.T, env Environment, src string) *Frame {
	t.Helper()
	ex, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	fr := NewFrame(ex, env, nil)
	ev := NewEvaluator(env)
	if _, rerr := ev.Run(fr); rerr != nil {
		t.Fatalf("run %q: %v", src, rerr)
	}
	return fr
}

func lastValue(t *testing.T, env Environment, src string) float64 {
	t.Helper()
	ex, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	ev := NewEvaluator(env)
	fr := NewFrame(ex, env, nil)
	results, rerr := ev.Run(fr)
	if rerr != nil {
		t.Fatalf("run %q: %v", src, rerr)
	}
	last := results[len(results)-1]
	if last.Value == nil || last.Value.IsEmpty() {
		t.Fatalf("run %q: no scalar result", src)
	}
	return last.Value.At(0).Float()
}

func TestDyadicArithmetic(t *testing.T) {
	env := NewMapEnv()
	if got := lastValue(t, env, "2+3"); got != 5 {
		t.Fatalf("2+3 = %v, want 5", got)
	}
	if got := lastValue(t, env, "2×3+4"); got != 14 {
		t.Fatalf("2×3+4 = %v, want 14 (right to left)", got)
	}
}

func TestMonadicArithmetic(t *testing.T) {
	env := NewMapEnv()
	if got := lastValue(t, env, "-5"); got != -5 {
		t.Fatalf("-5 = %v, want -5", got)
	}
}

func TestMonadicFloorCeiling(t *testing.T) {
	env := NewMapEnv()
	if got := lastValue(t, env, "⌊3.7"); got != 3 {
		t.Fatalf("⌊3.7 = %v, want 3", got)
	}
	if got := lastValue(t, env, "⌈3.2"); got != 4 {
		t.Fatalf("⌈3.2 = %v, want 4", got)
	}
	if got := lastValue(t, env, "⌊¯3.2"); got != -4 {
		t.Fatalf("⌊¯3.2 = %v, want -4", got)
	}
	// within ⎕CT of the next integer, floor snaps up rather than truncating.
	if got := lastValue(t, env, "⌊2.99999999999995"); got != 3 {
		t.Fatalf("⌊2.99999999999995 = %v, want 3 (⎕CT-tolerant)", got)
	}
}

func TestFormatNestedValueUsesMacro(t *testing.T) {
	env := NewMapEnv()
	ex, err := parser.Parse("⍕(1 2)(3 4)")
	if err != nil {
		t.Fatal(err)
	}
	ev := NewEvaluator(env)
	fr := NewFrame(ex, env, nil)
	results, rerr := ev.Run(fr)
	if rerr != nil {
		t.Fatal(rerr)
	}
	v := results[len(results)-1].Value
	var sb strings.Builder
	for _, c := range v.Ravel() {
		sb.WriteRune(c.Rune())
	}
	got := sb.String()
	if strings.Contains(got, "<nested>") {
		t.Fatalf("⍕(1 2)(3 4) = %q, default-format macro not wired in", got)
	}
	if !strings.Contains(got, "1") || !strings.Contains(got, "3") {
		t.Fatalf("⍕(1 2)(3 4) = %q, want the enclosed elements' digits to appear", got)
	}
}

func TestAssignmentAndLookup(t *testing.T) {
	env := NewMapEnv()
	runLine(t, env, "X←10")
	if got := lastValue(t, env, "X+1"); got != 11 {
		t.Fatalf("X+1 = %v, want 11", got)
	}
}

func TestReduce(t *testing.T) {
	env := NewMapEnv()
	runLine(t, env, "V←1 2 3 4")
	if got := lastValue(t, env, "+/V"); got != 10 {
		t.Fatalf("+/V = %v, want 10", got)
	}
}

func TestReshape(t *testing.T) {
	env := NewMapEnv()
	runLine(t, env, "M←2 3⍴1 2 3 4 5 6")
	ex, err := parser.Parse("M")
	if err != nil {
		t.Fatal(err)
	}
	ev := NewEvaluator(env)
	fr := NewFrame(ex, env, nil)
	results, rerr := ev.Run(fr)
	if rerr != nil {
		t.Fatal(rerr)
	}
	v := results[0].Value
	if v.Rank() != 2 || v.Shape()[0] != 2 || v.Shape()[1] != 3 {
		t.Fatalf("M shape = %v, want 2 3", v.Shape())
	}
}

func TestCommute(t *testing.T) {
	env := NewMapEnv()
	if got := lastValue(t, env, "3-⍨10"); got != 7 {
		t.Fatalf("3-⍨10 = %v, want 7 (10-3)", got)
	}
}

func TestInnerProduct(t *testing.T) {
	env := NewMapEnv()
	runLine(t, env, "A←1 2 3")
	runLine(t, env, "B←4 5 6")
	if got := lastValue(t, env, "A+.×B"); got != 32 {
		t.Fatalf("A+.xB = %v, want 32", got)
	}
}

func TestOuterProduct(t *testing.T) {
	env := NewMapEnv()
	runLine(t, env, "A←1 2")
	runLine(t, env, "B←3 4")
	ex, err := parser.Parse("A∘.×B")
	if err != nil {
		t.Fatal(err)
	}
	ev := NewEvaluator(env)
	fr := NewFrame(ex, env, nil)
	results, rerr := ev.Run(fr)
	if rerr != nil {
		t.Fatal(rerr)
	}
	v := results[0].Value
	if v.ElementCount() != 4 {
		t.Fatalf("A∘.xB element count = %d, want 4", v.ElementCount())
	}
	if v.At(0).Float() != 3 || v.At(1).Float() != 4 || v.At(2).Float() != 6 || v.At(3).Float() != 8 {
		t.Fatalf("A∘.xB = %v %v %v %v, want 3 4 6 8", v.At(0), v.At(1), v.At(2), v.At(3))
	}
}

func TestPowerWithVariableOperand(t *testing.T) {
	env := NewMapEnv()
	runLine(t, env, "N←2")
	if got := lastValue(t, env, "2+⍣N 5"); got != 9 {
		t.Fatalf("2+⍣N 5 = %v, want 9 (5+2+2)", got)
	}
}

func TestBracketIndex(t *testing.T) {
	env := NewMapEnv()
	runLine(t, env, "V←10 20 30 40")
	if got := lastValue(t, env, "V[3]"); got != 30 {
		t.Fatalf("V[3] = %v, want 30", got)
	}
}

func TestBranchExit(t *testing.T) {
	env := NewMapEnv()
	ex, err := parser.Parse("→")
	if err != nil {
		t.Fatal(err)
	}
	ev := NewEvaluator(env)
	fr := NewFrame(ex, env, nil)
	results, rerr := ev.Run(fr)
	if rerr != nil {
		t.Fatal(rerr)
	}
	if !results[0].BranchExit {
		t.Fatalf("→ alone should set BranchExit")
	}
	if fr.State != Terminated {
		t.Fatalf("frame state = %v, want Terminated", fr.State)
	}
}

func TestParenthesised(t *testing.T) {
	env := NewMapEnv()
	if got := lastValue(t, env, "(2+3)×4"); got != 20 {
		t.Fatalf("(2+3)x4 = %v, want 20", got)
	}
}
