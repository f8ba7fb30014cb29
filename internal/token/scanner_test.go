package token

import (
	"math"
	"testing"
)

func scanString(t *testing.T, input string) []Token {
	t.Helper()
	toks, err := NewScanner(input).ScanTokens()
	if err != nil {
		t.Fatalf("scan %q: unexpected error: %v", input, err)
	}
	return toks
}

func assertTypes(t *testing.T, input string, want []Type) {
	t.Helper()
	toks := scanString(t, input)
	if len(toks) != len(want) {
		t.Fatalf("scan %q: got %d tokens %v, want %d types %v", input, len(toks), toks, len(want), want)
	}
	for i, tok := range toks {
		if tok.Type != want[i] {
			t.Errorf("scan %q: token %d: got %s, want %s", input, i, tok.Type, want[i])
		}
	}
}

func TestSimpleNumericVector(t *testing.T) {
	assertTypes(t, "1 2 3", []Type{Number, Number, Number, EOF})
}

func TestNegativeAndFloat(t *testing.T) {
	toks := scanString(t, "¯1.5")
	if len(toks) != 2 || toks[0].Type != Number {
		t.Fatalf("expected a single NUMBER token, got %v", toks)
	}
	if toks[0].Text != "¯1.5" {
		t.Errorf("got text %q, want ¯1.5", toks[0].Text)
	}
}

func TestComplexAndPolar(t *testing.T) {
	assertTypes(t, "1J2", []Type{Number, EOF})
	assertTypes(t, "1D90", []Type{Number, EOF})
}

func TestQuadSystemName(t *testing.T) {
	assertTypes(t, "⎕IO", []Type{Quad, EOF})
}

func TestStopTrace(t *testing.T) {
	assertTypes(t, "S∆FOO", []Type{StopTrace, EOF})
}

func TestSingleQuoteStringWithEscape(t *testing.T) {
	toks := scanString(t, "'it''s'")
	if toks[0].Type != Str || toks[0].Text != "it's" {
		t.Fatalf("got %+v, want Str \"it's\"", toks[0])
	}
}

func TestDoubleQuoteStringEscapes(t *testing.T) {
	toks := scanString(t, `"a\nb"`)
	if toks[0].Type != Str || toks[0].Text != "a\nb" {
		t.Fatalf("got %+v, want Str \"a\\nb\"", toks[0])
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	if _, err := NewScanner("'abc").ScanTokens(); err == nil {
		t.Fatal("expected an unterminated-string error")
	}
}

func TestEmptyLineIsVoid(t *testing.T) {
	assertTypes(t, "", []Type{Void, EOF})
	assertTypes(t, "   ", []Type{Void, EOF})
}

func TestAssignmentAndBranch(t *testing.T) {
	assertTypes(t, "X←1", []Type{Ident, Assign, Number, EOF})
	assertTypes(t, "→1", []Type{Branch, Number, EOF})
}

func TestPrimitiveGlyphsAreSingleTokens(t *testing.T) {
	assertTypes(t, "+/⍳5", []Type{Primitive, Primitive, Primitive, Number, EOF})
}

func TestParseNumberPolar(t *testing.T) {
	got, err := ParseNumber("1D90")
	if err != nil {
		t.Fatalf("ParseNumber(%q): unexpected error %v", "1D90", err)
	}
	c, ok := got.(complex128)
	if !ok {
		t.Fatalf("ParseNumber(%q) = %v (%T), want complex128", "1D90", got, got)
	}
	if math.Abs(real(c)) > 1e-9 || math.Abs(imag(c)-1) > 1e-9 {
		t.Errorf("ParseNumber(%q) = %v, want ~0J1 (magnitude 1 at 90 degrees)", "1D90", c)
	}

	got, err = ParseNumber("1R0")
	if err != nil {
		t.Fatalf("ParseNumber(%q): unexpected error %v", "1R0", err)
	}
	c, ok = got.(complex128)
	if !ok {
		t.Fatalf("ParseNumber(%q) = %v (%T), want complex128", "1R0", got, got)
	}
	if math.Abs(real(c)-1) > 1e-9 || math.Abs(imag(c)) > 1e-9 {
		t.Errorf("ParseNumber(%q) = %v, want ~1J0 (magnitude 1 at 0 radians)", "1R0", c)
	}
}

func TestParseNumberVariants(t *testing.T) {
	cases := []struct {
		text string
		want interface{}
	}{
		{"3", int64(3)},
		{"¯3", int64(-3)},
		{"1.5", 1.5},
	}
	for _, c := range cases {
		got, err := ParseNumber(c.text)
		if err != nil {
			t.Errorf("ParseNumber(%q): unexpected error %v", c.text, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseNumber(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
