package parser

import (
	"testing"

	"github.com/norilang/nori/internal/ast"
	"github.com/norilang/nori/internal/diag"
	"github.com/norilang/nori/internal/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Module, *diag.Bag) {
	t.Helper()
	b := diag.NewBag()
	toks := lexer.New(src, "test.nori", b).Lex()
	mod := New(toks, "test.nori", b).ParseModule()
	return mod, b
}

func TestParseSimpleEventHandler(t *testing.T) {
	mod, b := parseSource(t, `on Start { log("Hello from Nori!") }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	if len(mod.Declarations) != 1 {
		t.Fatalf("expected 1 declaration, got %d", len(mod.Declarations))
	}
	ev, ok := mod.Declarations[0].(*ast.EventDecl)
	if !ok || ev.EventName != "Start" {
		t.Fatalf("expected Start event, got %+v", mod.Declarations[0])
	}
	if len(ev.Body) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(ev.Body))
	}
}

func TestParsePubRequiresLet(t *testing.T) {
	_, b := parseSource(t, `pub fn foo() { }`)
	if !b.HasErrors() || b.All()[0].Code != diag.ErrPubWithoutLet {
		t.Fatalf("expected E0011, got %v", b.All())
	}
}

func TestParseSyncRequiresMode(t *testing.T) {
	_, b := parseSource(t, `sync weird let x: int = 0`)
	if !b.HasErrors() || b.All()[0].Code != diag.ErrInvalidSync {
		t.Fatalf("expected E0012, got %v", b.All())
	}
}

func TestParseVarDeclWithModifiers(t *testing.T) {
	mod, b := parseSource(t, `pub sync linear let health: float = 100.0`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	v := mod.Declarations[0].(*ast.VarDecl)
	if !v.Public || v.Sync != ast.SyncLinear || v.Name != "health" {
		t.Fatalf("got %+v", v)
	}
}

func TestParseArrayType(t *testing.T) {
	mod, b := parseSource(t, `let items: int[] = [1, 2, 3]`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	v := mod.Declarations[0].(*ast.VarDecl)
	if !v.Type.IsArray || v.Type.Name != "int" {
		t.Fatalf("got %+v", v.Type)
	}
	lit, ok := v.Init.(*ast.ArrayLit)
	if !ok || len(lit.Elements) != 3 {
		t.Fatalf("got %+v", v.Init)
	}
}

func TestParseForRange(t *testing.T) {
	mod, b := parseSource(t, `fn f() { for i in 0..10 { total = total + 1 } }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	fn := mod.Declarations[0].(*ast.FuncDecl)
	rng, ok := fn.Body[0].(*ast.ForRangeStmt)
	if !ok || rng.Var != "i" {
		t.Fatalf("got %+v", fn.Body[0])
	}
}

func TestParseForEach(t *testing.T) {
	mod, b := parseSource(t, `fn f() { for x in items { log(x) } }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	fn := mod.Declarations[0].(*ast.FuncDecl)
	if _, ok := fn.Body[0].(*ast.ForEachStmt); !ok {
		t.Fatalf("got %+v", fn.Body[0])
	}
}

func TestParseSendVariants(t *testing.T) {
	mod, b := parseSource(t, `on Start { send Reset send Reset to All send Reset to Owner }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	ev := mod.Declarations[0].(*ast.EventDecl)
	want := []ast.SendTarget{ast.SendLocal, ast.SendAll, ast.SendOwner}
	for i, w := range want {
		s := ev.Body[i].(*ast.SendStmt)
		if s.Target != w {
			t.Fatalf("statement %d: got target %v, want %v", i, s.Target, w)
		}
	}
}

func TestParseCompoundAssignment(t *testing.T) {
	mod, b := parseSource(t, `fn f() { total += 1 }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	fn := mod.Declarations[0].(*ast.FuncDecl)
	assign := fn.Body[0].(*ast.AssignStmt)
	if assign.Op != ast.AssignAdd {
		t.Fatalf("got op %v", assign.Op)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	mod, b := parseSource(t, `fn f() { let x: int = 1 + 2 * 3 }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	fn := mod.Declarations[0].(*ast.FuncDecl)
	v := fn.Body[0].(*ast.VarDecl)
	bin := v.Init.(*ast.BinaryExpr)
	if bin.Op != ast.OpAdd {
		t.Fatalf("expected top-level + , got %v", bin.Op)
	}
	rhs := bin.Right.(*ast.BinaryExpr)
	if rhs.Op != ast.OpMul {
		t.Fatalf("expected nested *, got %v", rhs.Op)
	}
}

func TestParseIndexMemberChain(t *testing.T) {
	mod, b := parseSource(t, `fn f() { let x: int = items[0].value }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	fn := mod.Declarations[0].(*ast.FuncDecl)
	v := fn.Body[0].(*ast.VarDecl)
	member := v.Init.(*ast.MemberExpr)
	if member.Name != "value" {
		t.Fatalf("got %+v", member)
	}
	if _, ok := member.Receiver.(*ast.IndexExpr); !ok {
		t.Fatalf("expected index receiver, got %+v", member.Receiver)
	}
}

func TestParseCastExpr(t *testing.T) {
	mod, b := parseSource(t, `fn f() { let x: float = total as float }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	fn := mod.Declarations[0].(*ast.FuncDecl)
	v := fn.Body[0].(*ast.VarDecl)
	cast, ok := v.Init.(*ast.CastExpr)
	if !ok || cast.Type.Name != "float" {
		t.Fatalf("got %+v", v.Init)
	}
}

func TestParseInterpolatedString(t *testing.T) {
	mod, b := parseSource(t, `on Start { log("Score: {score}") }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	ev := mod.Declarations[0].(*ast.EventDecl)
	call := ev.Body[0].(*ast.ExprStmt).X.(*ast.CallExpr)
	interp, ok := call.Args[0].(*ast.InterpString)
	if !ok || len(interp.Parts) != 2 {
		t.Fatalf("got %+v", call.Args[0])
	}
	if interp.Parts[0].Text != "Score: " {
		t.Fatalf("got literal part %q", interp.Parts[0].Text)
	}
	name, ok := interp.Parts[1].Expr.(*ast.NameExpr)
	if !ok || name.Name != "score" {
		t.Fatalf("got hole expr %+v", interp.Parts[1].Expr)
	}
}

func TestParserRecoversAfterBadDeclaration(t *testing.T) {
	mod, b := parseSource(t, `@@@ fn f() { }`)
	if !b.HasErrors() {
		t.Fatalf("expected a diagnostic for the bad token")
	}
	if len(mod.Declarations) != 1 {
		t.Fatalf("expected parser to recover and parse the following fn, got %d decls", len(mod.Declarations))
	}
}

func TestParseCustomEventDecl(t *testing.T) {
	mod, b := parseSource(t, `event Reset { total = 0 }`)
	if b.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", b.All())
	}
	ce, ok := mod.Declarations[0].(*ast.CustomEventDecl)
	if !ok || ce.Name != "Reset" {
		t.Fatalf("got %+v", mod.Declarations[0])
	}
}
