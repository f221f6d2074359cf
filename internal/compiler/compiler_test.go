package compiler

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestCompileHelloScenario(t *testing.T) {
	result := Compile(`on Start { log("Hello from Nori!") }`, "hello.nori", nil)
	if !result.Success {
		t.Fatalf("expected success, diagnostics: %v", result.Diagnostics)
	}
	for _, want := range []string{
		".export _start",
		"_start:",
		`EXTERN, "UnityEngineDebug.__Log__SystemObject__SystemVoid"`,
		"JUMP, 0xFFFFFFFC",
	} {
		if !strings.Contains(result.AssemblyText, want) {
			t.Fatalf("expected assembly to contain %q, got:\n%s", want, result.AssemblyText)
		}
	}
	snaps.MatchSnapshot(t, "hello_assembly", result.AssemblyText)
}

func TestCompileScoreboardScenario(t *testing.T) {
	src := `
pub let max_score: int = 10
sync none score: int = 0
let is_game_over: bool = false

on Start {
	log("Scoreboard ready!")
}

fn update_display() {
	log("Score: {score}")
}

event AddPoint {
	score = score + 1
	update_display()
	if score >= max_score {
		send GameOver to All
	}
}

event GameOver {
	is_game_over = true
	log("Game over!")
}

on Interact {
	if is_game_over {
		log("Game is over!")
		return
	}
	send AddPoint to All
}
`
	result := Compile(src, "scoreboard.nori", nil)
	if !result.Success {
		t.Fatalf("expected success, diagnostics: %v", result.Diagnostics)
	}
	for _, want := range []string{
		".export max_score",
		".sync   score, none",
		".export _start",
		".export _interact",
		".export AddPoint",
		".export GameOver",
	} {
		if !strings.Contains(result.AssemblyText, want) {
			t.Fatalf("expected assembly to contain %q, got:\n%s", want, result.AssemblyText)
		}
	}
	if !strings.Contains(result.AssemblyText, "SystemString.__Concat__") {
		t.Fatalf("expected a string-concat extern for the interpolated log, got:\n%s", result.AssemblyText)
	}
}

func TestCompileTypoScenario(t *testing.T) {
	result := Compile(`on Start { log(undeclaredVariable) }`, "typo.nori", nil)
	if result.Success {
		t.Fatalf("expected failure for an undefined variable")
	}
	foundUndefined := false
	for _, d := range result.Diagnostics {
		if d.Code == "E0070" {
			foundUndefined = true
		}
	}
	if !foundUndefined {
		t.Fatalf("expected an E0070 undefined-variable diagnostic, got %v", result.Diagnostics)
	}
	if result.AssemblyText != "" {
		t.Fatalf("expected no assembly on semantic failure")
	}
}

func TestCompileRecursionScenario(t *testing.T) {
	src := `
fn ping() -> int { return pong() }
fn pong() -> int { return ping() }
on Start { let x: int = ping() }
`
	result := Compile(src, "recursion.nori", nil)
	if result.Success {
		t.Fatalf("expected failure for mutual recursion")
	}
	count := 0
	for _, d := range result.Diagnostics {
		if d.Code == "E0100" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one E0100 diagnostic, got %d in %v", count, result.Diagnostics)
	}
}

func TestCompileUnknownMethodScenario(t *testing.T) {
	result := Compile(`on Start { transform.DoesNotExist() }`, "unknown_method.nori", nil)
	if result.Success {
		t.Fatalf("expected failure for an unknown method")
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == "E0130" || d.Code == "E0040" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an overload-resolution or type diagnostic, got %v", result.Diagnostics)
	}
}

func TestCompileForRangeShadowingScenario(t *testing.T) {
	src := `
on Start {
	for i in 0..3 {
		log(i)
	}
	for i in 0..5 {
		log(i)
	}
}
`
	result := Compile(src, "shadowing.nori", nil)
	if !result.Success {
		t.Fatalf("expected success, diagnostics: %v", result.Diagnostics)
	}
	if result.Metadata.VariablesAfter == result.Metadata.VariablesBefore && result.Metadata.VariablesBefore == 0 {
		t.Fatalf("expected lowering to have declared cells")
	}
}

func TestCompileMetadataTracksPhasesAndOptimization(t *testing.T) {
	src := `
let x: int = 1 + 2
on Start { log(x) }
`
	result := Compile(src, "metadata.nori", nil)
	if !result.Success {
		t.Fatalf("expected success, diagnostics: %v", result.Diagnostics)
	}
	want := []string{"lex", "parse", "semantic", "lower", "optimize", "emit"}
	if len(result.Metadata.PhasesRun) != len(want) {
		t.Fatalf("expected phases %v, got %v", want, result.Metadata.PhasesRun)
	}
	for i, p := range want {
		if result.Metadata.PhasesRun[i] != p {
			t.Fatalf("expected phase %d to be %q, got %q", i, p, result.Metadata.PhasesRun[i])
		}
	}
}

func TestAnalyzeDoesNotShortCircuitOnErrors(t *testing.T) {
	result := Analyze(`on Start { log(nope) }`, "broken.nori", nil)
	if result.AST == nil {
		t.Fatalf("expected a best-effort AST even for a program with errors")
	}
	if len(result.Diagnostics) == 0 {
		t.Fatalf("expected at least one diagnostic for the undefined name")
	}
	if len(result.Tokens) == 0 {
		t.Fatalf("expected tokens to be returned")
	}
}
