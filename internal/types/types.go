// Package types maintains the two-way mapping between Nori surface type
// names and catalog-qualified type identifiers, and implements the
// assignability relation the analyzer uses to drive overload resolution
// and implicit widening.
package types

import "strings"

// UniversalTop is the catalog-qualified sentinel type that every other
// type is assignable to (the empty-array-literal and `SystemObject`
// receiver type).
const UniversalTop = "SystemObject"

// ReflectedType is the sentinel argument type substituted for a bare
// static-type name used as a value (type-as-value).
const ReflectedType = "SystemType"

var builtinSurfaceToCatalog = map[string]string{
	"int":    "SystemInt32",
	"float":  "SystemSingle",
	"double": "SystemDouble",
	"bool":   "SystemBoolean",
	"string": "SystemString",
	"object": UniversalTop,
}

var builtinCatalogToSurface = invert(builtinSurfaceToCatalog)

func invert(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// namespacePrefixes is the fixed, ordered list of namespace guesses tried
// against the catalog when a surface name has no built-in mapping.
var namespacePrefixes = []string{
	"UnityEngine",
	"VRCSDKBase",
	"VRCSDK3Components",
	"VRCUdon",
	"",
}

// CatalogLookup is the subset of catalog.Catalog the type mapper needs to
// resolve a surface name it doesn't already know.
type CatalogLookup interface {
	IsKnownType(qualified string) bool
}

// Mapper resolves Nori surface type names to catalog-qualified type
// identifiers and back.
type Mapper struct {
	catalog CatalogLookup
	// cache remembers namespace-prefix guesses that succeeded, so repeated
	// lookups of the same surface name don't re-probe the catalog.
	cache map[string]string
}

// NewMapper constructs a Mapper backed by the given catalog for
// namespace-prefix fallback lookups. catalog may be nil, in which case
// only the built-in primitive names resolve.
func NewMapper(catalog CatalogLookup) *Mapper {
	return &Mapper{catalog: catalog, cache: make(map[string]string)}
}

// ArraySuffix is appended to a catalog-qualified element type to name its
// array type.
const ArraySuffix = "Array"

// ToCatalog resolves a surface type name (with array flag) to its
// catalog-qualified identifier. ok is false if the name could not be
// resolved against the built-in map, the cache, or the catalog.
func (m *Mapper) ToCatalog(surfaceName string, isArray bool) (qualified string, ok bool) {
	elem, ok := m.toCatalogScalar(surfaceName)
	if !ok {
		return "", false
	}
	if isArray {
		return elem + ArraySuffix, true
	}
	return elem, true
}

func (m *Mapper) toCatalogScalar(name string) (string, bool) {
	if q, ok := builtinSurfaceToCatalog[name]; ok {
		return q, true
	}
	if q, ok := m.cache[name]; ok {
		return q, true
	}
	if m.catalog == nil {
		return "", false
	}
	for _, prefix := range namespacePrefixes {
		candidate := prefix + name
		if m.catalog.IsKnownType(candidate) {
			m.cache[name] = candidate
			return candidate, true
		}
	}
	return "", false
}

// ToSurface resolves a catalog-qualified identifier back to its Nori
// surface spelling. Array types are reported with their element surface
// name and isArray set.
func (m *Mapper) ToSurface(qualified string) (name string, isArray bool) {
	if strings.HasSuffix(qualified, ArraySuffix) && qualified != ArraySuffix {
		elem := strings.TrimSuffix(qualified, ArraySuffix)
		if s, ok := m.scalarToSurface(elem); ok {
			return s, true
		}
	}
	if s, ok := m.scalarToSurface(qualified); ok {
		return s, false
	}
	return qualified, false
}

func (m *Mapper) scalarToSurface(qualified string) (string, bool) {
	if s, ok := builtinCatalogToSurface[qualified]; ok {
		return s, true
	}
	for surface, cached := range m.cache {
		if cached == qualified {
			return surface, true
		}
	}
	return "", false
}

// EnumUnderlying is consulted by Assignable to permit enum<->int interop;
// it reports whether qualified is an enum type. Assignable treats every
// enum's underlying type as SystemInt32.
type EnumUnderlying interface {
	IsEnumType(qualified string) bool
}

// Assignable reports whether a value of type from may be assigned to (or
// passed where) a value of type to is expected, per the widening rules:
// exact match, the universal top type, the fixed numeric widenings, or
// enum<->underlying-int interop.
func Assignable(from, to string, enums EnumUnderlying) bool {
	if from == to {
		return true
	}
	if to == UniversalTop {
		return true
	}
	switch {
	case from == "SystemInt32" && to == "SystemSingle":
		return true
	case from == "SystemInt32" && to == "SystemDouble":
		return true
	case from == "SystemSingle" && to == "SystemDouble":
		return true
	}
	if enums != nil {
		if enums.IsEnumType(from) && to == "SystemInt32" {
			return true
		}
		if enums.IsEnumType(to) && from == "SystemInt32" {
			return true
		}
	}
	return false
}

// IsWidening reports whether assigning from to to requires an implicit
// numeric widening conversion (as opposed to an exact match). Used by
// overload resolution to count widenings for tie-breaking.
func IsWidening(from, to string) bool {
	if from == to {
		return false
	}
	switch {
	case from == "SystemInt32" && to == "SystemSingle":
		return true
	case from == "SystemInt32" && to == "SystemDouble":
		return true
	case from == "SystemSingle" && to == "SystemDouble":
		return true
	}
	return false
}
