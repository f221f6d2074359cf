package catalog

// Builtin is a small, hardcoded Catalog covering the handful of Unity/
// VRChat externs exercised by the specification's worked examples and
// the compiler's own test suite. It is the fallback the pipeline uses
// when the caller supplies no catalog.
type Builtin struct {
	methods       map[ownerName][]*ExternSignature
	staticMethods map[ownerName][]*ExternSignature
	properties    map[ownerName]*PropertyInfo
	operators     map[opKey]*ExternSignature
	unaryOps      map[opOperand]*ExternSignature
	conversions   map[conversionKey]*ExternSignature
	enums         map[string]*EnumInfo
	types         map[string]TypeInfo // by qualified name
	shortNames    []TypeInfo
}

type ownerName struct{ owner, name string }
type opKey struct{ op, left, right string }
type opOperand struct{ op, operand string }
type conversionKey struct{ from, to string }

// NewBuiltin constructs the fallback catalog.
func NewBuiltin() *Builtin {
	b := &Builtin{
		methods:       make(map[ownerName][]*ExternSignature),
		staticMethods: make(map[ownerName][]*ExternSignature),
		properties:    make(map[ownerName]*PropertyInfo),
		operators:     make(map[opKey]*ExternSignature),
		unaryOps:      make(map[opOperand]*ExternSignature),
		conversions:   make(map[conversionKey]*ExternSignature),
		enums:         make(map[string]*EnumInfo),
		types:         make(map[string]TypeInfo),
	}
	b.seedOperators()
	b.seedConversions()
	b.seedMethods()
	b.seedTypes()
	return b
}

func (b *Builtin) addMethod(sig *ExternSignature) {
	key := ownerName{sig.Owner, sig.Name}
	b.methods[key] = append(b.methods[key], sig)
}

func (b *Builtin) addStaticMethod(sig *ExternSignature) {
	key := ownerName{sig.Owner, sig.Name}
	b.staticMethods[key] = append(b.staticMethods[key], sig)
}

func (b *Builtin) seedOperators() {
	numeric := []string{"SystemInt32", "SystemSingle", "SystemDouble"}
	for _, t := range numeric {
		for _, op := range []string{"+", "-", "*", "/"} {
			b.operators[opKey{op, t, t}] = &ExternSignature{
				Owner: "SystemMath", Name: opName(op), Kind: KindOperator,
				ParamTypes: []string{t, t}, ReturnType: t,
			}
		}
		for _, op := range []string{"==", "!=", "<", ">", "<=", ">="} {
			b.operators[opKey{op, t, t}] = &ExternSignature{
				Owner: "SystemMath", Name: opName(op), Kind: KindOperator,
				ParamTypes: []string{t, t}, ReturnType: "SystemBoolean",
			}
		}
	}
	b.operators[opKey{"+", "SystemString", "SystemString"}] = &ExternSignature{
		Owner: "SystemString", Name: "Concat", Kind: KindOperator,
		ParamTypes: []string{"SystemString", "SystemString"}, ReturnType: "SystemString",
	}
	b.operators[opKey{"&&", "SystemBoolean", "SystemBoolean"}] = &ExternSignature{
		Owner: "SystemBoolean", Name: "op_LogicalAnd", Kind: KindOperator,
		ParamTypes: []string{"SystemBoolean", "SystemBoolean"}, ReturnType: "SystemBoolean",
	}
	b.operators[opKey{"||", "SystemBoolean", "SystemBoolean"}] = &ExternSignature{
		Owner: "SystemBoolean", Name: "op_LogicalOr", Kind: KindOperator,
		ParamTypes: []string{"SystemBoolean", "SystemBoolean"}, ReturnType: "SystemBoolean",
	}
	b.operators[opKey{"==", "SystemBoolean", "SystemBoolean"}] = &ExternSignature{
		Owner: "SystemBoolean", Name: "op_Equality", Kind: KindOperator,
		ParamTypes: []string{"SystemBoolean", "SystemBoolean"}, ReturnType: "SystemBoolean",
	}

	b.unaryOps[opOperand{"-", "SystemInt32"}] = &ExternSignature{
		Owner: "SystemMath", Name: "op_UnaryNegation", Kind: KindOperator,
		ParamTypes: []string{"SystemInt32"}, ReturnType: "SystemInt32",
	}
	b.unaryOps[opOperand{"-", "SystemSingle"}] = &ExternSignature{
		Owner: "SystemMath", Name: "op_UnaryNegation", Kind: KindOperator,
		ParamTypes: []string{"SystemSingle"}, ReturnType: "SystemSingle",
	}
	b.unaryOps[opOperand{"!", "SystemBoolean"}] = &ExternSignature{
		Owner: "SystemBoolean", Name: "op_UnaryNegation", Kind: KindOperator,
		ParamTypes: []string{"SystemBoolean"}, ReturnType: "SystemBoolean",
	}
}

func opName(op string) string {
	switch op {
	case "+":
		return "op_Addition"
	case "-":
		return "op_Subtraction"
	case "*":
		return "op_Multiply"
	case "/":
		return "op_Division"
	case "==":
		return "op_Equality"
	case "!=":
		return "op_Inequality"
	case "<":
		return "op_LessThan"
	case ">":
		return "op_GreaterThan"
	case "<=":
		return "op_LessThanOrEqual"
	case ">=":
		return "op_GreaterThanOrEqual"
	}
	return "op_Unknown"
}

func (b *Builtin) seedConversions() {
	b.conversions[conversionKey{"SystemInt32", "SystemSingle"}] = &ExternSignature{
		Owner: "SystemConvert", Name: "ToSingle", ParamTypes: []string{"SystemInt32"}, ReturnType: "SystemSingle",
	}
	b.conversions[conversionKey{"SystemInt32", "SystemDouble"}] = &ExternSignature{
		Owner: "SystemConvert", Name: "ToDouble", ParamTypes: []string{"SystemInt32"}, ReturnType: "SystemDouble",
	}
	b.conversions[conversionKey{"SystemSingle", "SystemDouble"}] = &ExternSignature{
		Owner: "SystemConvert", Name: "ToDouble", ParamTypes: []string{"SystemSingle"}, ReturnType: "SystemDouble",
	}
}

func (b *Builtin) seedMethods() {
	b.addStaticMethod(&ExternSignature{
		Owner: "UnityEngineDebug", Name: "Log", Kind: KindStaticMethod,
		ParamTypes: []string{"SystemObject"}, ReturnType: "SystemVoid",
	})
	b.addMethod(&ExternSignature{
		Owner: "UnityEngineGameObject", Name: "GetComponent", Kind: KindMethod, Instance: true,
		ParamTypes: []string{"SystemType"}, ReturnType: "UnityEngineComponent",
	})
}

func (b *Builtin) seedTypes() {
	entries := []TypeInfo{
		{"GameObject", "UnityEngineGameObject", false},
		{"Transform", "UnityEngineTransform", false},
		{"Vector3", "UnityEngineVector3", false},
		{"Debug", "UnityEngineDebug", false},
	}
	for _, e := range entries {
		b.types[e.QualifiedName] = e
		b.shortNames = append(b.shortNames, e)
	}
}

func (b *Builtin) ResolveProperty(owner, name string) (*PropertyInfo, bool) {
	p, ok := b.properties[ownerName{owner, name}]
	return p, ok
}

func (b *Builtin) ResolveMethod(owner, name string, argTypes []string) (*ExternSignature, bool) {
	return resolveOverload(b.methods[ownerName{owner, name}], argTypes, b)
}

func (b *Builtin) ResolveStaticMethod(owner, name string, argTypes []string) (*ExternSignature, bool) {
	return resolveOverload(b.staticMethods[ownerName{owner, name}], argTypes, b)
}

func (b *Builtin) GetMethodOverloads(owner, name string) []*ExternSignature {
	return b.methods[ownerName{owner, name}]
}

func (b *Builtin) GetStaticMethodOverloads(owner, name string) []*ExternSignature {
	return b.staticMethods[ownerName{owner, name}]
}

func (b *Builtin) ResolveOperator(opToken, leftType, rightType string) (*ExternSignature, bool) {
	sig, ok := b.operators[opKey{opToken, leftType, rightType}]
	return sig, ok
}

func (b *Builtin) ResolveUnaryOperator(opToken, operandType string) (*ExternSignature, bool) {
	sig, ok := b.unaryOps[opOperand{opToken, operandType}]
	return sig, ok
}

func (b *Builtin) GetImplicitConversion(from, to string) (*ExternSignature, bool) {
	sig, ok := b.conversions[conversionKey{from, to}]
	return sig, ok
}

func (b *Builtin) ResolveEnum(typeName string) (*EnumInfo, bool) {
	e, ok := b.enums[typeName]
	return e, ok
}

func (b *Builtin) IsEnumType(typeName string) bool {
	_, ok := b.enums[typeName]
	return ok
}

func (b *Builtin) IsKnownType(typeName string) bool {
	_, ok := b.types[typeName]
	return ok
}

func (b *Builtin) GetShortNameMappings() []TypeInfo {
	return b.shortNames
}
