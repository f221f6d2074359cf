package catalog

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// JSON is a Catalog loaded from a catalog document: a JSON object with
// "externs", "enums", and "types" arrays, per the catalog document
// format. It indexes entries once at load time so query-contract calls
// are map lookups rather than repeated scans.
type JSON struct {
	methods       map[ownerName][]*ExternSignature
	staticMethods map[ownerName][]*ExternSignature
	constructors  map[ownerName][]*ExternSignature
	operators     map[opKey]*ExternSignature
	unaryOps      map[opOperand]*ExternSignature
	properties    map[ownerName]*PropertyInfo
	conversions   map[conversionKey]*ExternSignature
	enums         map[string]*EnumInfo
	types         map[string]TypeInfo
	shortNames    []TypeInfo
}

// LoadJSON parses a catalog document and builds the indexes the query
// contract needs. It does not retain doc after returning.
func LoadJSON(doc string) (*JSON, error) {
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("catalog: invalid JSON document")
	}
	root := gjson.Parse(doc)

	c := &JSON{
		methods:       make(map[ownerName][]*ExternSignature),
		staticMethods: make(map[ownerName][]*ExternSignature),
		constructors:  make(map[ownerName][]*ExternSignature),
		operators:     make(map[opKey]*ExternSignature),
		unaryOps:      make(map[opOperand]*ExternSignature),
		properties:    make(map[ownerName]*PropertyInfo),
		conversions:   make(map[conversionKey]*ExternSignature),
		enums:         make(map[string]*EnumInfo),
		types:         make(map[string]TypeInfo),
	}

	var loadErr error
	root.Get("externs").ForEach(func(_, e gjson.Result) bool {
		sig := &ExternSignature{
			Owner:      e.Get("owner").String(),
			Name:       e.Get("method_name").String(),
			Instance:   e.Get("instance").Bool(),
			ReturnType: e.Get("return_type").String(),
		}
		e.Get("parameter_types").ForEach(func(_, p gjson.Result) bool {
			sig.ParamTypes = append(sig.ParamTypes, p.String())
			return true
		})
		e.Get("parameter_names").ForEach(func(_, p gjson.Result) bool {
			sig.ParamNames = append(sig.ParamNames, p.String())
			return true
		})

		switch kind := e.Get("kind").String(); kind {
		case "method":
			sig.Kind = KindMethod
			key := ownerName{sig.Owner, sig.Name}
			c.methods[key] = append(c.methods[key], sig)
		case "static_method":
			sig.Kind = KindStaticMethod
			key := ownerName{sig.Owner, sig.Name}
			c.staticMethods[key] = append(c.staticMethods[key], sig)
		case "ctor":
			sig.Kind = KindConstructor
			key := ownerName{sig.Owner, sig.Name}
			c.constructors[key] = append(c.constructors[key], sig)
		case "property_get":
			c.mergeGetter(sig)
		case "property_set":
			c.mergeSetter(sig)
		case "operator":
			sig.Kind = KindOperator
			if len(sig.ParamTypes) == 2 {
				c.operators[opKey{sig.Name, sig.ParamTypes[0], sig.ParamTypes[1]}] = sig
			} else if len(sig.ParamTypes) == 1 {
				c.unaryOps[opOperand{sig.Name, sig.ParamTypes[0]}] = sig
			}
		case "conversion":
			if len(sig.ParamTypes) == 1 {
				c.conversions[conversionKey{sig.ParamTypes[0], sig.ReturnType}] = sig
			}
		default:
			loadErr = fmt.Errorf("catalog: unknown extern kind %q for %s.%s", kind, sig.Owner, sig.Name)
			return false
		}
		return true
	})
	if loadErr != nil {
		return nil, loadErr
	}

	root.Get("enums").ForEach(func(_, e gjson.Result) bool {
		info := &EnumInfo{
			UnderlyingType: e.Get("underlying_type").String(),
			Values:         make(map[string]int),
		}
		e.Get("values").ForEach(func(name, val gjson.Result) bool {
			info.Values[name.String()] = int(val.Int())
			return true
		})
		c.enums[e.Get("udon_type").String()] = info
		return true
	})

	root.Get("types").ForEach(func(_, t gjson.Result) bool {
		qualified := t.Get("udon_type").String()
		info := TypeInfo{
			ShortName:     shortName(qualified),
			QualifiedName: qualified,
			IsEnum:        t.Get("is_enum").Bool(),
		}
		c.types[qualified] = info
		c.shortNames = append(c.shortNames, info)
		return true
	})

	return c, nil
}

// shortName strips everything up to and including the last '.' of a
// catalog identifier for short-name lookup seeding; an identifier with
// no '.' is returned whole.
func shortName(qualified string) string {
	if i := strings.LastIndexByte(qualified, '.'); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func (c *JSON) mergeGetter(sig *ExternSignature) {
	key := ownerName{sig.Owner, sig.Name}
	info, ok := c.properties[key]
	if !ok {
		info = &PropertyInfo{}
		c.properties[key] = info
	}
	info.Type = sig.ReturnType
	info.Getter = sig
}

func (c *JSON) mergeSetter(sig *ExternSignature) {
	key := ownerName{sig.Owner, sig.Name}
	info, ok := c.properties[key]
	if !ok {
		info = &PropertyInfo{}
		c.properties[key] = info
	}
	if len(sig.ParamTypes) > 0 {
		info.Type = sig.ParamTypes[0]
	}
	info.Setter = sig
}

func (c *JSON) ResolveProperty(owner, name string) (*PropertyInfo, bool) {
	p, ok := c.properties[ownerName{owner, name}]
	return p, ok
}

func (c *JSON) ResolveMethod(owner, name string, argTypes []string) (*ExternSignature, bool) {
	return resolveOverload(c.methods[ownerName{owner, name}], argTypes, c)
}

func (c *JSON) ResolveStaticMethod(owner, name string, argTypes []string) (*ExternSignature, bool) {
	if sigs := c.constructors[ownerName{owner, name}]; len(sigs) > 0 {
		return resolveOverload(sigs, argTypes, c)
	}
	return resolveOverload(c.staticMethods[ownerName{owner, name}], argTypes, c)
}

func (c *JSON) GetMethodOverloads(owner, name string) []*ExternSignature {
	return c.methods[ownerName{owner, name}]
}

func (c *JSON) GetStaticMethodOverloads(owner, name string) []*ExternSignature {
	if sigs := c.constructors[ownerName{owner, name}]; len(sigs) > 0 {
		return sigs
	}
	return c.staticMethods[ownerName{owner, name}]
}

func (c *JSON) ResolveOperator(opToken, leftType, rightType string) (*ExternSignature, bool) {
	sig, ok := c.operators[opKey{opToken, leftType, rightType}]
	return sig, ok
}

func (c *JSON) ResolveUnaryOperator(opToken, operandType string) (*ExternSignature, bool) {
	sig, ok := c.unaryOps[opOperand{opToken, operandType}]
	return sig, ok
}

func (c *JSON) GetImplicitConversion(from, to string) (*ExternSignature, bool) {
	sig, ok := c.conversions[conversionKey{from, to}]
	return sig, ok
}

func (c *JSON) ResolveEnum(typeName string) (*EnumInfo, bool) {
	e, ok := c.enums[typeName]
	return e, ok
}

func (c *JSON) IsEnumType(typeName string) bool {
	_, ok := c.enums[typeName]
	return ok
}

func (c *JSON) IsKnownType(typeName string) bool {
	_, ok := c.types[typeName]
	return ok
}

func (c *JSON) GetShortNameMappings() []TypeInfo {
	return c.shortNames
}
