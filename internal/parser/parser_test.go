package parser

import "testing"

func parseString(t *testing.T, input string) *Executable {
	t.Helper()
	ex, err := Parse(input)
	if err != nil {
		t.Fatalf("parse %q: unexpected error: %v", input, err)
	}
	return ex
}

func TestSplitOnDiamond(t *testing.T) {
	ex := parseString(t, "A←1 ◇ B←2")
	if len(ex.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(ex.Statements))
	}
}

func TestEmptyLineIsOneEmptyStatement(t *testing.T) {
	ex := parseString(t, "")
	if len(ex.Statements) != 1 || len(ex.Statements[0].Items) != 0 {
		t.Fatalf("got %+v, want one empty statement", ex.Statements)
	}
}

func TestRedundantParensUnwrapSingleToken(t *testing.T) {
	ex := parseString(t, "((X))")
	items := ex.Statements[0].Items
	if len(items) != 1 || items[0].Kind != ItemToken {
		t.Fatalf("got %+v, want a single bare IDENT item", items)
	}
}

func TestVectorLiteralCollapses(t *testing.T) {
	ex := parseString(t, "1 2 3")
	items := ex.Statements[0].Items
	if len(items) != 1 || items[0].Kind != ItemValue {
		t.Fatalf("got %+v, want a single collapsed VALUE item", items)
	}
	if items[0].Value.ElementCount() != 3 {
		t.Errorf("got element count %d, want 3", items[0].Value.ElementCount())
	}
}

func TestParenthesisedLiteralNests(t *testing.T) {
	ex := parseString(t, "(1 2) 3")
	items := ex.Statements[0].Items
	if len(items) != 1 || items[0].Kind != ItemValue {
		t.Fatalf("got %+v, want a single collapsed VALUE item", items)
	}
	v := items[0].Value
	if v.ElementCount() != 2 {
		t.Fatalf("got element count %d, want 2 (nested (1 2), then 3)", v.ElementCount())
	}
	if !v.At(0).IsNested() {
		t.Errorf("expected element 0 to be nested, got %v", v.At(0))
	}
	if v.At(1).IsNested() {
		t.Errorf("expected element 1 to be a bare scalar")
	}
}

func TestLoneParenthesisedLiteralDoesNotNest(t *testing.T) {
	ex := parseString(t, "(1 2)")
	items := ex.Statements[0].Items
	if len(items) != 1 || items[0].Kind != ItemValue {
		t.Fatalf("got %+v, want a single collapsed VALUE item", items)
	}
	if items[0].Value.ElementCount() != 2 {
		t.Errorf("got element count %d, want 2", items[0].Value.ElementCount())
	}
	if items[0].Value.At(0).IsNested() {
		t.Errorf("(1 2) alone should not be enclosed")
	}
}

func TestAssignTargetMarkedLSymb(t *testing.T) {
	ex := parseString(t, "X←1")
	items := ex.Statements[0].Items
	if !items[0].Tok.LSymb {
		t.Errorf("expected X to be marked L-SYMB")
	}
}

func TestMismatchedParenIsSyntaxError(t *testing.T) {
	if _, err := Parse("(1 2"); err == nil {
		t.Fatal("expected a syntax error for an unmatched parenthesis")
	}
}

func TestMismatchedBracketIsSyntaxError(t *testing.T) {
	if _, err := Parse("A[1"); err == nil {
		t.Fatal("expected a syntax error for an unmatched bracket")
	}
}
