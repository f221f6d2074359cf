package semantic

import "github.com/norilang/nori/internal/diag"

// checkRecursion runs a depth-first search over the user-function call
// graph built during pass two. Each search started from a not yet visited
// function reports E0100 once, at that function, if it reaches a cycle;
// functions already visited by an earlier search are not reported again,
// so a cycle of mutually recursive functions yields one E0100. Udon Assembly has no
// call stack, so recursion (direct or indirect) cannot be lowered.
func (a *Analyzer) checkRecursion() {
	const (
		white = iota
		gray
		black
	)
	color := make(map[string]int, len(a.funcs))

	var visit func(name string) bool
	visit = func(name string) bool {
		color[name] = gray
		for callee := range a.callGraph[name] {
			switch color[callee] {
			case gray:
				return true
			case white:
				if visit(callee) {
					return true
				}
			}
		}
		color[name] = black
		return false
	}

	for name := range a.funcs {
		if color[name] != white {
			continue
		}
		if visit(name) {
			sig := a.funcs[name]
			a.diags.Errorf(diag.ErrRecursion, sig.decl.Span(),
				"function '%s' participates in a recursive call cycle, which Udon Assembly cannot execute", name)
		}
	}
}
