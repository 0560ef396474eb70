package schemabuilder

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"go.appointy.com/projgql/graphql"
	"go.appointy.com/projgql/graphql/expr"
)

// argParser converts a JSON-decoded value into a reflect.Value of the
// argument's Go type, for argument binding/coercion.
type argParser struct {
	FromJSON func(value interface{}, dest reflect.Value) error
	Type     reflect.Type
}

// argField is one field of an args struct or registered input object: its
// struct position, its parser, and any @deprecated reason on the field.
type argField struct {
	field             reflect.StructField
	parser            *argParser
	DeprecationReason string
}

// cachedType records an input type's compiled schema shape and per-field
// parsers ahead of full resolution, so self-referential input objects don't
// recurse forever.
type cachedType struct {
	argType *graphql.InputObject
	fields  map[string]argField
}

// scalars and scalarArgParsers are populated by RegisterScalar and by the
// built-in scalar registrations in init() below. They are package vars
// (rather than schemaBuilder fields) because RegisterScalar is commonly
// called from package init() functions, before any Schema exists.
var scalars = make(map[reflect.Type]string)
var scalarArgParsers = make(map[reflect.Type]*argParser)

func init() {
	registerBuiltinScalar(reflect.TypeOf(string("")), "String", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(string)
		if !ok {
			return errors.New("not a string")
		}
		dest.SetString(v)
		return nil
	})
	registerBuiltinScalar(reflect.TypeOf(bool(false)), "Boolean", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(bool)
		if !ok {
			return errors.New("not a bool")
		}
		dest.SetBool(v)
		return nil
	})
	for _, typ := range []reflect.Type{
		reflect.TypeOf(int(0)), reflect.TypeOf(int8(0)), reflect.TypeOf(int16(0)),
		reflect.TypeOf(int32(0)), reflect.TypeOf(int64(0)),
	} {
		registerBuiltinScalar(typ, "Int", func(value interface{}, dest reflect.Value) error {
			n, err := coerceInt(value)
			if err != nil {
				return err
			}
			dest.SetInt(n)
			return nil
		})
	}
	for _, typ := range []reflect.Type{
		reflect.TypeOf(uint(0)), reflect.TypeOf(uint8(0)), reflect.TypeOf(uint16(0)),
		reflect.TypeOf(uint32(0)), reflect.TypeOf(uint64(0)),
	} {
		registerBuiltinScalar(typ, "Int", func(value interface{}, dest reflect.Value) error {
			n, err := coerceInt(value)
			if err != nil {
				return err
			}
			dest.SetUint(uint64(n))
			return nil
		})
	}
	for _, typ := range []reflect.Type{reflect.TypeOf(float32(0)), reflect.TypeOf(float64(0))} {
		registerBuiltinScalar(typ, "Float", func(value interface{}, dest reflect.Value) error {
			f, err := coerceFloat(value)
			if err != nil {
				return err
			}
			dest.SetFloat(f)
			return nil
		})
	}
	registerBuiltinScalar(reflect.TypeOf(ID{}), "ID", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(string)
		if !ok {
			return errors.New("not a string")
		}
		dest.Set(reflect.ValueOf(ID{Value: v}))
		return nil
	})
	registerBuiltinScalar(reflect.TypeOf(time.Time{}), "DateTime", func(value interface{}, dest reflect.Value) error {
		v, ok := value.(string)
		if !ok {
			return errors.New("not a string")
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return err
		}
		dest.Set(reflect.ValueOf(t))
		return nil
	})
}

func registerBuiltinScalar(typ reflect.Type, name string, uf UnmarshalFunc) {
	scalars[typ] = name
	scalarArgParsers[typ] = &argParser{FromJSON: uf, Type: typ}
}

func coerceInt(value interface{}) (int64, error) {
	switch v := value.(type) {
	case float64:
		return int64(v), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}
}

func coerceFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int64:
		return float64(v), nil
	case int:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("not a number: %v", value)
	}
}

// getScalarArgParser looks up a registered scalar by its Go type, returning
// the JSON parser and the graphql.Scalar to expose in the schema.
func getScalarArgParser(typ reflect.Type) (*argParser, graphql.Type, bool) {
	name, ok := scalars[typ]
	if !ok {
		return nil, nil, false
	}
	parser := scalarArgParsers[typ]
	return parser, &graphql.Scalar{Type: name, SpecifiedByURL: getScalarSpecifiedByURL(typ)}, true
}

// wrapPtrParser adapts a parser for T into a parser for *T: a JSON null
// leaves the destination as its zero value (nil pointer), anything else is
// parsed into a freshly allocated T.
func wrapPtrParser(inner *argParser) *argParser {
	return &argParser{
		Type: reflect.PtrTo(inner.Type),
		FromJSON: func(value interface{}, dest reflect.Value) error {
			if value == nil {
				dest.Set(reflect.Zero(dest.Type()))
				return nil
			}
			ptr := reflect.New(inner.Type)
			if err := inner.FromJSON(value, ptr.Elem()); err != nil {
				return err
			}
			dest.Set(ptr)
			return nil
		},
	}
}

// validateOneOfInput enforces the OneOf input object rule: exactly one
// field of the input may be present and non-null.
func validateOneOfInput(name string, asMap map[string]interface{}) error {
	set := 0
	for _, v := range asMap {
		if v != nil {
			set++
		}
	}
	if set != 1 {
		return fmt.Errorf("input %s: exactly one field must be set (oneOf), got %d", name, set)
	}
	return nil
}

// getEnumArgParser builds the parser and graphql.Enum for a registered enum
// mapping: the wire representation is the enum member's string name, while
// the Go-side value is whatever the mapping's Map points it at.
func (sb *schemaBuilder) getEnumArgParser(typ reflect.Type) (*argParser, graphql.Type) {
	mapping := sb.enumMappings[typ]
	values := make([]string, 0, len(mapping.Map))
	reverse := make(map[interface{}]string, len(mapping.ReverseMap))
	for name := range mapping.Map {
		values = append(values, name)
	}
	for k, v := range mapping.ReverseMap {
		reverse[k] = v
	}
	enumType := &graphql.Enum{Type: typ.Name(), Values: values, ReverseMap: reverse}
	parser := &argParser{
		Type: typ,
		FromJSON: func(value interface{}, dest reflect.Value) error {
			name, ok := value.(string)
			if !ok {
				return fmt.Errorf("enum %s: not a string", typ.Name())
			}
			v, ok := mapping.Map[name]
			if !ok {
				return fmt.Errorf("enum %s: unknown value %q", typ.Name(), name)
			}
			dest.Set(reflect.ValueOf(v))
			return nil
		},
	}
	return parser, enumType
}

// schemaBuilder compiles the registered Objects/InputObjects/Enums/Unions/
// Interfaces into the graphql package's schema model, reflecting fields off
// their backing Go types where no explicit resolver was registered. types
// caches the compiled output type per Go reflect.Type so cyclic object
// graphs terminate.
type schemaBuilder struct {
	types        map[reflect.Type]graphql.Type
	typeCache    map[reflect.Type]cachedType
	objects      map[reflect.Type]*Object
	inputObjects map[reflect.Type]*InputObject
	enumMappings map[reflect.Type]*EnumMapping
	unions       map[reflect.Type]*unionInfo
	interfaces   map[reflect.Type]*InterfaceObj
}

// unionInfo is the registration record for a Go struct marked with an
// embedded Union: the union's member object types are re-derived from the
// struct's fields at build time, so this only needs to carry the optional
// description.
type unionInfo struct {
	Description string
}

func newSchemaBuilder() *schemaBuilder {
	return &schemaBuilder{
		types:        make(map[reflect.Type]graphql.Type),
		typeCache:    make(map[reflect.Type]cachedType),
		objects:      make(map[reflect.Type]*Object),
		inputObjects: make(map[reflect.Type]*InputObject),
		enumMappings: make(map[reflect.Type]*EnumMapping),
		unions:       make(map[reflect.Type]*unionInfo),
		interfaces:   make(map[reflect.Type]*InterfaceObj),
	}
}

// getType resolves the output graphql.Type for a Go reflect.Type: scalars
// and enums are non-null leaves unless the Go type is a pointer (nullable),
// structs become Object/Union/Interface per registration, slices/arrays
// become List.
func (sb *schemaBuilder) getType(nodeType reflect.Type) (graphql.Type, error) {
	if typ, ok := sb.types[nodeType]; ok {
		return typ, nil
	}

	if nodeType.Kind() == reflect.Ptr {
		if sb.enumMappings[nodeType.Elem()] != nil {
			_, enumType := sb.getEnumArgParser(nodeType.Elem())
			sb.types[nodeType] = enumType
			return enumType, nil
		}
		if isScalarType(nodeType.Elem()) {
			_, scalarType, _ := getScalarArgParser(nodeType.Elem())
			sb.types[nodeType] = scalarType
			return scalarType, nil
		}
		inner, err := sb.getType(nodeType.Elem())
		if err != nil {
			return nil, err
		}
		if nn, ok := inner.(*graphql.NonNull); ok {
			sb.types[nodeType] = nn.Type
			return nn.Type, nil
		}
		sb.types[nodeType] = inner
		return inner, nil
	}

	if sb.enumMappings[nodeType] != nil {
		_, enumType := sb.getEnumArgParser(nodeType)
		nn := &graphql.NonNull{Type: enumType}
		sb.types[nodeType] = nn
		return nn, nil
	}

	if isScalarType(nodeType) {
		_, scalarType, _ := getScalarArgParser(nodeType)
		nn := &graphql.NonNull{Type: scalarType}
		sb.types[nodeType] = nn
		return nn, nil
	}

	switch nodeType.Kind() {
	case reflect.Struct:
		if err := sb.buildStruct(nodeType); err != nil {
			return nil, err
		}
		return sb.types[nodeType], nil
	case reflect.Slice, reflect.Array:
		elem, err := sb.getType(nodeType.Elem())
		if err != nil {
			return nil, err
		}
		nn := &graphql.NonNull{Type: &graphql.List{Type: elem}}
		sb.types[nodeType] = nn
		return nn, nil
	case reflect.Interface:
		iface, ok := sb.interfaces[nodeType]
		if !ok {
			return nil, fmt.Errorf("bad type %s: interface not registered", nodeType)
		}
		return sb.buildInterface(nodeType, iface)
	default:
		return nil, fmt.Errorf("bad type %s: should be a scalar, slice, struct, or registered interface", nodeType)
	}
}

func (sb *schemaBuilder) buildInterface(nodeType reflect.Type, iface *InterfaceObj) (graphql.Type, error) {
	if typ, ok := sb.types[nodeType]; ok {
		return typ, nil
	}
	structTyp := reflect.TypeOf(iface.Type)
	if structTyp.Kind() == reflect.Ptr {
		structTyp = structTyp.Elem()
	}
	out := &graphql.Interface{Name: structTyp.Name(), Types: make(map[string]*graphql.Object)}
	nn := &graphql.NonNull{Type: out}
	sb.types[nodeType] = nn
	if err := sb.populateObjectFields(out.Name, structTyp, nil, out.Fields); err != nil {
		return nil, err
	}
	return nn, nil
}

// buildStruct compiles one Go struct type into whichever schema kind it was
// registered as (Union, InputObject, or Object), memoizing the result in
// sb.types before recursing so self-referential graphs terminate.
func (sb *schemaBuilder) buildStruct(typ reflect.Type) error {
	if union, ok := sb.unions[typ]; ok {
		return sb.buildUnion(typ, union)
	}
	if _, ok := sb.inputObjects[typ]; ok {
		_, _, err := sb.generateObjectParserInner(typ)
		return err
	}
	obj, ok := sb.objects[typ]
	if !ok {
		return fmt.Errorf("type %s: not registered as an object, input object, or union", typ)
	}
	return sb.buildObject(typ, obj)
}

func (sb *schemaBuilder) buildUnion(typ reflect.Type, union *unionInfo) error {
	out := &graphql.Union{Name: typ.Name(), Description: union.Description, Types: make(map[string]*graphql.Object)}
	nn := &graphql.NonNull{Type: out}
	sb.types[typ] = nn
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if field.Anonymous && field.Type == unionType {
			continue
		}
		memberTyp, err := sb.getType(field.Type)
		if err != nil {
			return err
		}
		obj, ok := unwrapNonNull(memberTyp).(*graphql.Object)
		if !ok {
			return fmt.Errorf("union %s: field %s must be a registered object type", typ.Name(), field.Name)
		}
		out.Types[obj.Name] = obj
	}
	return nil
}

func unwrapNonNull(t graphql.Type) graphql.Type {
	if nn, ok := t.(*graphql.NonNull); ok {
		return nn.Type
	}
	return t
}

// buildObject compiles a registered Object: FieldFunc-registered methods
// take precedence as explicit resolvers, and any exported struct field
// without a corresponding method is added automatically by reflecting over
// the backing Go type as a pure member-access ProjectionFragment.
func (sb *schemaBuilder) buildObject(typ reflect.Type, obj *Object) error {
	name := obj.Name
	if name == "" {
		name = typ.Name()
	}
	out := &graphql.Object{Name: name, Description: obj.Description}
	nn := &graphql.NonNull{Type: out}
	sb.types[typ] = nn
	sb.types[reflect.PtrTo(typ)] = out

	handled := make(map[string]bool)
	for name, m := range obj.Methods {
		field, err := sb.buildMethodField(typ, m)
		if err != nil {
			return fmt.Errorf("object %s field %s: %w", out.Name, name, err)
		}
		if err := out.AddField(name, field); err != nil {
			return err
		}
		handled[name] = true
	}

	if err := sb.addAllFields(typ, out, handled); err != nil {
		return err
	}
	if obj.key != "" {
		out.KeyField = out.Fields[obj.key]
	}
	return nil
}

// buildMethodField compiles one FieldFunc registration into a graphql.Field.
// Pure accessor shape (func(*T) R) produces a projection FieldBuilder
// directly (expr.Member chained through a FuncCall only if R itself isn't a
// direct struct field — for FieldFunc the function is always opaque Go, so
// it is always wrapped as expr.FuncCall; only addAllFields-derived fields
// get bare expr.Member/CollectionSelect chains).
func (sb *schemaBuilder) buildMethodField(source reflect.Type, m *method) (*graphql.Field, error) {
	fn := reflect.ValueOf(m.Fn)
	fnTyp := fn.Type()
	if fnTyp.Kind() != reflect.Func {
		return nil, errors.New("FieldFunc argument must be a function")
	}

	var hasCtx, hasSource, hasArgs bool
	var argsTyp reflect.Type
	for i := 0; i < fnTyp.NumIn(); i++ {
		in := fnTyp.In(i)
		switch {
		case in == contextType:
			hasCtx = true
		case in == source || (source.Kind() != reflect.Ptr && in == reflect.PtrTo(source)):
			hasSource = true
		default:
			hasArgs = true
			argsTyp = in
		}
	}
	if fnTyp.NumOut() == 0 || fnTyp.NumOut() > 2 {
		return nil, errors.New("FieldFunc must return (value) or (value, error)")
	}
	hasErr := fnTyp.NumOut() == 2
	if hasErr && !fnTyp.Out(1).Implements(errType) {
		return nil, errors.New("FieldFunc's second return value must be error")
	}

	retTyp, err := sb.getType(fnTyp.Out(0))
	if err != nil {
		return nil, err
	}

	field := &graphql.Field{Type: retTyp, Description: m.Description, IsDeprecated: false}

	var argSchema *graphql.ArgumentSchema
	var parser *argParser
	if hasArgs {
		p, argType, err := sb.makeInputObjectParser(argsTyp)
		if err != nil {
			return nil, err
		}
		parser = p
		argSchema = graphql.NewArgumentSchema()
		io := argType.(*graphql.InputObject)
		for fname, ftyp := range io.InputFields {
			argSchema.Add(&graphql.Argument{Name: fname, Type: ftyp})
		}
		field.ParseArguments = func(json interface{}) (interface{}, error) {
			dest := reflect.New(argsTyp).Elem()
			m, ok := json.(map[string]interface{})
			if !ok {
				m = map[string]interface{}{}
			}
			if err := parser.FromJSON(m, dest); err != nil {
				return nil, err
			}
			return dest.Interface(), nil
		}
	}
	field.Args = argSchema

	call := func(ctx context.Context, parent, args interface{}) (interface{}, error) {
		in := make([]reflect.Value, 0, fnTyp.NumIn())
		for i := 0; i < fnTyp.NumIn(); i++ {
			switch intyp := fnTyp.In(i); {
			case intyp == contextType:
				in = append(in, reflect.ValueOf(ctx))
			case intyp == source || (source.Kind() != reflect.Ptr && intyp == reflect.PtrTo(source)):
				pv := reflect.ValueOf(parent)
				if parent == nil {
					pv = reflect.Zero(intyp)
				} else if pv.Type() != intyp && pv.Kind() == reflect.Ptr {
					pv = pv.Elem()
				}
				in = append(in, pv)
			default:
				if args == nil {
					in = append(in, reflect.Zero(argsTyp))
				} else {
					in = append(in, reflect.ValueOf(args))
				}
			}
		}
		out := fn.Call(in)
		var resErr error
		if hasErr {
			if e, ok := out[len(out)-1].Interface().(error); ok {
				resErr = e
			}
		}
		if resErr != nil {
			return nil, resErr
		}
		return out[0].Interface(), nil
	}

	field.FieldBuilder = func(parent, args expr.Expr) (expr.Expr, error) {
		return &expr.FuncCall{Parent: parent, Args: args, Name: "", Call: call}, nil
	}
	field.Resolve = func(ctx context.Context, source, args interface{}, _ *graphql.SelectionSet) (interface{}, error) {
		return call(ctx, source, args)
	}

	return field, nil
}

// addAllFields reflects over typ's exported fields: every one not already
// handled by a FieldFunc becomes a schema field whose FieldBuilder is a
// direct expr.Member projection, so the compiled plan reads the struct
// field without an intervening function
// call.
func (sb *schemaBuilder) addAllFields(typ reflect.Type, out *graphql.Object, handled map[string]bool) error {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		info, err := parseGraphQLFieldInfo(sf)
		if err != nil {
			return err
		}
		if info.Skipped || handled[info.Name] {
			continue
		}

		fieldTyp, err := sb.getType(sf.Type)
		if err != nil {
			return fmt.Errorf("object %s field %s: %w", out.Name, info.Name, err)
		}

		fieldName := sf.Name
		field := &graphql.Field{
			Type:        fieldTyp,
			Description: info.Description,
		}
		field.FieldBuilder = func(parent, _ expr.Expr) (expr.Expr, error) {
			return expr.NullGuard(parent, func(p expr.Expr) expr.Expr {
				return &expr.Member{Source: p, Name: fieldName}
			}), nil
		}
		field.Resolve = func(ctx context.Context, source, args interface{}, _ *graphql.SelectionSet) (interface{}, error) {
			v := reflect.ValueOf(source)
			if v.Kind() == reflect.Ptr {
				if v.IsNil() {
					return nil, nil
				}
				v = v.Elem()
			}
			return v.FieldByName(fieldName).Interface(), nil
		}
		if info.DeprecationReason != "" {
			field.IsDeprecated = true
			r := info.DeprecationReason
			field.DeprecationReason = &r
		}
		if err := out.AddField(info.Name, field); err != nil {
			return err
		}
	}
	return nil
}

// populateObjectFields fills an externally-owned field map (used for
// Interface, whose Fields aren't behind a plain Object) from a struct's
// methods map plus its exported fields.
func (sb *schemaBuilder) populateObjectFields(ownerName string, structTyp reflect.Type, methods Methods, into map[string]*graphql.Field) error {
	handled := make(map[string]bool)
	for name, m := range methods {
		field, err := sb.buildMethodField(structTyp, m)
		if err != nil {
			return fmt.Errorf("type %s field %s: %w", ownerName, name, err)
		}
		field.Name = name
		into[name] = field
		handled[name] = true
	}
	tmp := &graphql.Object{Name: ownerName}
	if err := sb.addAllFields(structTyp, tmp, handled); err != nil {
		return err
	}
	for name, f := range tmp.Fields {
		into[name] = f
	}
	return nil
}
