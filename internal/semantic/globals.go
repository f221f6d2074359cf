package semantic

import "github.com/norilang/nori/internal/symbols"

// seedGlobals binds the three fixed "this" cells, the six builtin
// functions, and every catalog short name into the global scope, before
// any user declaration is registered.
func (a *Analyzer) seedGlobals() {
	a.global.Define(&symbols.Symbol{Name: "gameObject", Type: typeGameObject, Kind: symbols.KindVariable})
	a.global.Define(&symbols.Symbol{Name: "transform", Type: typeTransform, Kind: symbols.KindVariable})
	a.global.Define(&symbols.Symbol{Name: "localPlayer", Type: typePlayerAPI, Kind: symbols.KindVariable})

	for name := range a.builtins {
		a.global.Define(&symbols.Symbol{Name: name, Kind: symbols.KindBuiltin})
	}

	if a.catalog == nil {
		return
	}
	for _, ti := range a.catalog.GetShortNameMappings() {
		kind := symbols.KindStaticType
		if ti.IsEnum {
			kind = symbols.KindEnumType
		}
		a.global.Define(&symbols.Symbol{Name: ti.ShortName, Type: ti.QualifiedName, Kind: kind})
	}
}
