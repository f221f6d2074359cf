package types

import "testing"

type fakeCatalog struct {
	known map[string]bool
	enums map[string]bool
}

func (f *fakeCatalog) IsKnownType(q string) bool { return f.known[q] }
func (f *fakeCatalog) IsEnumType(q string) bool  { return f.enums[q] }

func TestBuiltinRoundTrip(t *testing.T) {
	m := NewMapper(nil)
	for surface := range builtinSurfaceToCatalog {
		q, ok := m.ToCatalog(surface, false)
		if !ok {
			t.Fatalf("%s: expected resolution", surface)
		}
		back, isArray := m.ToSurface(q)
		if isArray {
			t.Fatalf("%s: unexpected array flag", surface)
		}
		if back != surface {
			t.Fatalf("round trip failed: %s -> %s -> %s", surface, q, back)
		}
	}
}

func TestArraySurfaceMapping(t *testing.T) {
	m := NewMapper(nil)
	q, ok := m.ToCatalog("int", true)
	if !ok || q != "SystemInt32Array" {
		t.Fatalf("got %q, %v", q, ok)
	}
	surface, isArray := m.ToSurface("SystemInt32Array")
	if !isArray || surface != "int" {
		t.Fatalf("got %q, %v", surface, isArray)
	}
}

func TestNamespacePrefixFallback(t *testing.T) {
	cat := &fakeCatalog{known: map[string]bool{"UnityEngineVector3": true}}
	m := NewMapper(cat)
	q, ok := m.ToCatalog("Vector3", false)
	if !ok || q != "UnityEngineVector3" {
		t.Fatalf("got %q, %v", q, ok)
	}
	// second lookup hits the cache, not the catalog again
	q2, ok2 := m.ToCatalog("Vector3", false)
	if !ok2 || q2 != q {
		t.Fatalf("cached lookup mismatch: %q", q2)
	}
}

func TestUnknownSurfaceNameFails(t *testing.T) {
	m := NewMapper(&fakeCatalog{known: map[string]bool{}})
	if _, ok := m.ToCatalog("Nonexistent", false); ok {
		t.Fatalf("expected failure resolving unknown type")
	}
}

func TestAssignableExactAndTop(t *testing.T) {
	if !Assignable("SystemInt32", "SystemInt32", nil) {
		t.Fatalf("exact match should be assignable")
	}
	if !Assignable("SystemString", UniversalTop, nil) {
		t.Fatalf("anything should be assignable to the universal top type")
	}
	if Assignable(UniversalTop, "SystemString", nil) {
		t.Fatalf("top type should not be assignable to a narrower type")
	}
}

func TestAssignableWidenings(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{"SystemInt32", "SystemSingle", true},
		{"SystemInt32", "SystemDouble", true},
		{"SystemSingle", "SystemDouble", true},
		{"SystemSingle", "SystemInt32", false},
		{"SystemDouble", "SystemSingle", false},
	}
	for _, c := range cases {
		if got := Assignable(c.from, c.to, nil); got != c.want {
			t.Errorf("Assignable(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestAssignableEnumIntInterop(t *testing.T) {
	cat := &fakeCatalog{enums: map[string]bool{"VRCSDKBaseVRC_Pickup_PickupHand": true}}
	if !Assignable("VRCSDKBaseVRC_Pickup_PickupHand", "SystemInt32", cat) {
		t.Fatalf("enum should be assignable to its underlying int type")
	}
	if !Assignable("SystemInt32", "VRCSDKBaseVRC_Pickup_PickupHand", cat) {
		t.Fatalf("int should be assignable to an enum type")
	}
}

func TestIsWidening(t *testing.T) {
	if IsWidening("SystemInt32", "SystemInt32") {
		t.Fatalf("exact match is not a widening")
	}
	if !IsWidening("SystemInt32", "SystemDouble") {
		t.Fatalf("int->double is a widening")
	}
}
