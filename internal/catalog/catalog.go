// Package catalog defines the extern catalog query contract the semantic
// analyzer consults to resolve properties, methods, operators, implicit
// conversions, and enum types against the host platform's API surface.
package catalog

import "fmt"

// Kind distinguishes the catalog entries an owner/name pair may resolve
// to, since an instance method, a static method, and a property getter
// can all share a name on the same owner type.
type Kind int

const (
	KindMethod Kind = iota
	KindStaticMethod
	KindConstructor
	KindOperator
)

// ExternSignature is one resolvable catalog entry: a method, static
// method, constructor, or operator overload, identified by its mangled
// extern string and carrying enough shape information to drive overload
// resolution and lowering.
type ExternSignature struct {
	Owner      string
	Name       string
	Kind       Kind
	Instance   bool
	ParamTypes []string
	ParamNames []string
	ReturnType string
}

// Mangled returns the extern signature string used in emitted assembly:
// TypeName.__MethodName__Param1_Param2__ReturnType.
func (s *ExternSignature) Mangled() string {
	params := ""
	for i, p := range s.ParamTypes {
		if i > 0 {
			params += "_"
		}
		params += p
	}
	return fmt.Sprintf("%s.__%s__%s__%s", s.Owner, s.Name, params, s.ReturnType)
}

// String renders a human-readable overload candidate for diagnostic hints.
func (s *ExternSignature) String() string {
	params := ""
	for i, p := range s.ParamTypes {
		if i > 0 {
			params += ", "
		}
		params += p
	}
	return fmt.Sprintf("%s.%s(%s) -> %s", s.Owner, s.Name, params, s.ReturnType)
}

// PropertyInfo describes a resolved property: its type, and the getter
// and (optional) setter externs that back reads and writes of it.
type PropertyInfo struct {
	Type    string
	Getter  *ExternSignature
	Setter  *ExternSignature // nil if the property is read-only
}

// EnumInfo describes an enum type: its 32-bit integer underlying type
// and the name->value map of its members.
type EnumInfo struct {
	UnderlyingType string
	Values         map[string]int
}

// TypeInfo is one entry of a catalog's short-name table, used to seed the
// analyzer's top-level scope with static-type and enum-type symbols.
type TypeInfo struct {
	ShortName    string
	QualifiedName string
	IsEnum       bool
}

// Catalog is the query contract the semantic analyzer and lowerer
// consume. Implementations must be immutable once constructed so a
// single instance may be shared by reference across concurrent
// compilations.
type Catalog interface {
	ResolveProperty(owner, name string) (*PropertyInfo, bool)

	// ResolveMethod and ResolveStaticMethod perform overload resolution
	// over the owner's candidates for name: exact match first, then
	// widening-match, tie-broken by fewest widened parameters and then
	// declaration order.
	ResolveMethod(owner, name string, argTypes []string) (*ExternSignature, bool)
	ResolveStaticMethod(owner, name string, argTypes []string) (*ExternSignature, bool)

	GetMethodOverloads(owner, name string) []*ExternSignature
	GetStaticMethodOverloads(owner, name string) []*ExternSignature

	ResolveOperator(opToken, leftType, rightType string) (*ExternSignature, bool)
	ResolveUnaryOperator(opToken, operandType string) (*ExternSignature, bool)

	GetImplicitConversion(from, to string) (*ExternSignature, bool)

	ResolveEnum(typeName string) (*EnumInfo, bool)
	IsEnumType(typeName string) bool
	IsKnownType(typeName string) bool

	GetShortNameMappings() []TypeInfo
}
