package catalog

import "github.com/norilang/nori/internal/types"

// resolveOverload implements the shared exact-match/widening overload
// resolution algorithm both catalog implementations run once they've
// collected the candidate list for an (owner, name) pair. Candidates are
// assumed to be in declaration order, which doubles as the tie-break
// order the specification requires.
func resolveOverload(candidates []*ExternSignature, argTypes []string, enums types.EnumUnderlying) (*ExternSignature, bool) {
	type scored struct {
		sig      *ExternSignature
		widenings int
		index    int
	}
	var best *scored

	for i, cand := range candidates {
		if len(cand.ParamTypes) != len(argTypes) {
			continue
		}
		widenings := 0
		ok := true
		for p, want := range cand.ParamTypes {
			got := argTypes[p]
			if got == want {
				continue
			}
			if !types.Assignable(got, want, enums) {
				ok = false
				break
			}
			widenings++
		}
		if !ok {
			continue
		}
		if best == nil || widenings < best.widenings {
			best = &scored{sig: cand, widenings: widenings, index: i}
		}
		// equal widening count: keep the earlier declaration (best.index < i already)
	}
	if best == nil {
		return nil, false
	}
	return best.sig, true
}
