package catalog

import "testing"

func TestExternSignatureMangled(t *testing.T) {
	sig := &ExternSignature{
		Owner:      "UnityEngineDebug",
		Name:       "Log",
		ParamTypes: []string{"SystemObject"},
		ReturnType: "SystemVoid",
	}
	want := "UnityEngineDebug.__Log__SystemObject__SystemVoid"
	if got := sig.Mangled(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBuiltinResolveStaticMethod(t *testing.T) {
	b := NewBuiltin()
	sig, ok := b.ResolveStaticMethod("UnityEngineDebug", "Log", []string{"SystemString"})
	if !ok {
		t.Fatalf("expected UnityEngineDebug.Log to resolve")
	}
	if sig.ReturnType != "SystemVoid" {
		t.Fatalf("got return type %q", sig.ReturnType)
	}
}

func TestBuiltinOperatorResolution(t *testing.T) {
	b := NewBuiltin()
	sig, ok := b.ResolveOperator("+", "SystemInt32", "SystemInt32")
	if !ok || sig.ReturnType != "SystemInt32" {
		t.Fatalf("got %+v, %v", sig, ok)
	}
	cmp, ok := b.ResolveOperator("<", "SystemSingle", "SystemSingle")
	if !ok || cmp.ReturnType != "SystemBoolean" {
		t.Fatalf("got %+v, %v", cmp, ok)
	}
}

func TestResolveOverloadWideningTieBreak(t *testing.T) {
	candidates := []*ExternSignature{
		{Owner: "X", Name: "F", ParamTypes: []string{"SystemInt32"}, ReturnType: "SystemVoid"},
		{Owner: "X", Name: "F", ParamTypes: []string{"SystemSingle"}, ReturnType: "SystemVoid"},
	}
	// exact match on the first candidate should win even though both
	// could in principle accept a widened SystemInt32 argument.
	sig, ok := resolveOverload(candidates, []string{"SystemInt32"}, nil)
	if !ok || sig != candidates[0] {
		t.Fatalf("expected exact match to win, got %+v", sig)
	}
}

func TestResolveOverloadNoMatch(t *testing.T) {
	candidates := []*ExternSignature{
		{Owner: "X", Name: "F", ParamTypes: []string{"SystemString"}, ReturnType: "SystemVoid"},
	}
	if _, ok := resolveOverload(candidates, []string{"SystemInt32"}, nil); ok {
		t.Fatalf("expected no match")
	}
}

func TestLoadJSONCatalog(t *testing.T) {
	doc := `{
		"externs": [
			{"extern": "", "owner": "UnityEngineDebug", "method_name": "Log", "kind": "static_method", "instance": false, "parameter_types": ["SystemString"], "parameter_names": ["message"], "return_type": "SystemVoid"},
			{"extern": "", "owner": "UnityEngineTransform", "method_name": "position", "kind": "property_get", "instance": true, "parameter_types": [], "parameter_names": [], "return_type": "UnityEngineVector3"}
		],
		"enums": [
			{"udon_type": "VRCSDKBaseVRC_Pickup_PickupHand", "underlying_type": "SystemInt32", "values": {"Left": 0, "Right": 1}}
		],
		"types": [
			{"udon_type": "UnityEngineTransform", "source_type": "Transform", "base_type": "", "is_enum": false}
		]
	}`
	c, err := LoadJSON(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sig, ok := c.ResolveStaticMethod("UnityEngineDebug", "Log", []string{"SystemString"})
	if !ok || sig.ReturnType != "SystemVoid" {
		t.Fatalf("got %+v, %v", sig, ok)
	}
	prop, ok := c.ResolveProperty("UnityEngineTransform", "position")
	if !ok || prop.Type != "UnityEngineVector3" || prop.Setter != nil {
		t.Fatalf("got %+v, %v", prop, ok)
	}
	enum, ok := c.ResolveEnum("VRCSDKBaseVRC_Pickup_PickupHand")
	if !ok || enum.Values["Right"] != 1 {
		t.Fatalf("got %+v, %v", enum, ok)
	}
	if !c.IsKnownType("UnityEngineTransform") {
		t.Fatalf("expected UnityEngineTransform to be known")
	}
}

func TestLoadJSONRejectsInvalidDocument(t *testing.T) {
	if _, err := LoadJSON("not json"); err == nil {
		t.Fatalf("expected error for invalid document")
	}
}
