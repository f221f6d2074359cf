package lexer

import (
	"testing"

	"github.com/norilang/nori/internal/diag"
)

func lexAll(t *testing.T, src string) ([]Token, *diag.Bag) {
	t.Helper()
	b := diag.NewBag()
	l := New(src, "test.nori", b)
	return l.Lex(), b
}

func TestEmptySourceYieldsOnlyEOF(t *testing.T) {
	toks, b := lexAll(t, "")
	if len(toks) != 1 || toks[0].Type != EOF {
		t.Fatalf("expected single EOF token, got %v", toks)
	}
	if b.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %d", b.Len())
	}
}

func TestIntRangeNeverFloat(t *testing.T) {
	toks, _ := lexAll(t, "0..10")
	want := []TokenType{INT, DOTDOT, INT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %s, want %s", i, toks[i].Type, w)
		}
	}
	if toks[0].Value.Int != 0 || toks[2].Value.Int != 10 {
		t.Fatalf("bad literal values: %+v %+v", toks[0].Value, toks[2].Value)
	}
}

func TestNestedBlockComments(t *testing.T) {
	_, b := lexAll(t, "/* /* */ */")
	if b.HasErrors() {
		t.Fatalf("nested block comment should close cleanly, got %v", b.All())
	}

	_, b2 := lexAll(t, "/* /* */")
	if !b2.HasErrors() {
		t.Fatalf("unbalanced nested block comment should report E0002")
	}
	if b2.All()[0].Code != diag.ErrUnterminatedBlockComment {
		t.Fatalf("expected %s, got %s", diag.ErrUnterminatedBlockComment, b2.All()[0].Code)
	}
}

func TestStringInterpolationBraceDepth(t *testing.T) {
	toks, b := lexAll(t, `"Score: {score}"`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	if len(toks) != 2 || toks[0].Type != STRING {
		t.Fatalf("expected single STRING token, got %v", toks)
	}
	if toks[0].Value.String != "Score: {score}" {
		t.Fatalf("got %q", toks[0].Value.String)
	}
}

func TestUnterminatedStringOutsideInterpolation(t *testing.T) {
	_, b := lexAll(t, "\"abc\ndef\"")
	if !b.HasErrors() || b.All()[0].Code != diag.ErrUnterminatedString {
		t.Fatalf("expected E0001, got %v", b.All())
	}
}

func TestEscapeSequences(t *testing.T) {
	toks, _ := lexAll(t, `"a\nb\tc\\d\"e"`)
	got := toks[0].Value.String
	want := "a\nb\tc\\d\"e"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPositionalIdentifiersNotKeywords(t *testing.T) {
	for _, name := range []string{"none", "linear", "smooth", "All", "Owner"} {
		toks, _ := lexAll(t, name)
		if toks[0].Type != IDENT {
			t.Fatalf("%q should lex as IDENT, got %s", name, toks[0].Type)
		}
	}
}

func TestKeywords(t *testing.T) {
	toks, _ := lexAll(t, "let pub sync fn on event if else while for in break continue return send to as true false null")
	want := []TokenType{LET, PUB, SYNC, FN, ON, EVENT, IF, ELSE, WHILE, FOR, IN, BREAK, CONTINUE, RETURN, SEND, TO, AS, TRUE, FALSE, NULL, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %s want %s", i, toks[i].Type, w)
		}
	}
}

func TestTwoCharOperators(t *testing.T) {
	toks, _ := lexAll(t, "+= -= *= /= == != <= >= && || -> ..")
	want := []TokenType{PLUS_ASSIGN, MINUS_ASSIGN, STAR_ASSIGN, SLASH_ASSIGN, EQ, NOT_EQ, LESS_EQ, GREATER_EQ, AND_AND, OR_OR, ARROW, DOTDOT, EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token %d: got %s want %s", i, toks[i].Type, w)
		}
	}
}

func TestUnexpectedCharacterRecovers(t *testing.T) {
	toks, b := lexAll(t, "let x = 1 ` let y = 2")
	if !b.HasErrors() || b.All()[0].Code != diag.ErrUnexpectedChar {
		t.Fatalf("expected E0003, got %v", b.All())
	}
	// lexing continued past the bad character
	found := false
	for _, tk := range toks {
		if tk.Type == LET {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected lexer to recover and keep scanning: %v", toks)
	}
}

func TestSpanContainsConsistentWithMerge(t *testing.T) {
	a := Span{Start: Position{1, 1}, End: Position{1, 5}}
	c := Span{Start: Position{1, 10}, End: Position{1, 15}}
	m := a.Merge(c)
	if !m.Contains(1, 1) || !m.Contains(1, 15) {
		t.Fatalf("merged span should contain both endpoints: %v", m)
	}
	if !a.Contains(1, 3) || !m.Contains(1, 3) {
		t.Fatalf("merge should preserve containment of original span positions")
	}
}
