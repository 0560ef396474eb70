package schemabuilder

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"go.appointy.com/projgql/graphql"
	"go.appointy.com/projgql/schemabuilder/extension"
)

// schemaVersionCounter hands out a unique, increasing Version to every
// graphql.Schema a Build produces, so a planstore cache can tell a stale
// compiled operation from a current one.
var schemaVersionCounter uint64

// Schema is the registration surface used to describe a host object graph:
// objects, input objects, enums, unions, and interfaces are registered
// against Go types, then Build compiles the registrations into a
// graphql.Schema via the schemaBuilder/Host Type Reflector.
type Schema struct {
	objects      map[reflect.Type]*Object
	inputObjects map[reflect.Type]*InputObject
	enumMappings map[reflect.Type]*EnumMapping
	unions       map[reflect.Type]*unionInfo
	interfaces   map[reflect.Type]*InterfaceObj

	query    *Object
	mutation *Object
}

// NewSchema creates an empty Schema.
func NewSchema() *Schema {
	return &Schema{
		objects:      make(map[reflect.Type]*Object),
		inputObjects: make(map[reflect.Type]*InputObject),
		enumMappings: make(map[reflect.Type]*EnumMapping),
		unions:       make(map[reflect.Type]*unionInfo),
		interfaces:   make(map[reflect.Type]*InterfaceObj),
	}
}

// Object registers typ (a struct, passed as a zero value or pointer) as a
// GraphQL object type. Exported struct fields not covered by a later
// FieldFunc call are exposed automatically by the Host Type Reflector.
func (s *Schema) Object(name string, typ interface{}, desc ...string) *Object {
	structTyp := reflect.TypeOf(typ)
	if structTyp.Kind() == reflect.Ptr {
		structTyp = structTyp.Elem()
	}
	if o, ok := s.objects[structTyp]; ok {
		if name != "" && o.Name != name {
			panic(fmt.Sprintf("object %s already registered under name %s", name, o.Name))
		}
		return o
	}
	o := &Object{Name: name, Type: typ}
	if len(desc) > 0 {
		o.Description = desc[0]
	}
	s.objects[structTyp] = o
	return o
}

// InputObject registers typ as a GraphQL input object type.
func (s *Schema) InputObject(name string, typ interface{}, desc ...string) *InputObject {
	structTyp := reflect.TypeOf(typ)
	if structTyp.Kind() == reflect.Ptr {
		structTyp = structTyp.Elem()
	}
	if io, ok := s.inputObjects[structTyp]; ok {
		return io
	}
	io := &InputObject{Name: name, Type: typ, Fields: make(map[string]interface{})}
	if len(desc) > 0 {
		io.Description = desc[0]
	}
	s.inputObjects[structTyp] = io
	return io
}

// Enum registers val's type (any member of the enum) as a GraphQL enum,
// with enumMap giving the wire-name -> Go-value mapping.
func (s *Schema) Enum(name string, val interface{}, enumMap map[string]interface{}, desc ...string) {
	typ := reflect.TypeOf(val)
	if _, ok := s.enumMappings[typ]; ok {
		panic("duplicate enum " + name)
	}
	reverse := make(map[interface{}]string, len(enumMap))
	for k, v := range enumMap {
		reverse[v] = k
	}
	m := &EnumMapping{Map: enumMap, ReverseMap: reverse}
	if len(desc) > 0 {
		m.Description = desc[0]
	}
	s.enumMappings[typ] = m
}

// Union registers typ (a struct embedding schemabuilder.Union, whose other
// fields are pointers to registered Object types) as a GraphQL union. name
// is accepted for API symmetry with Object/InputObject but the union's
// schema name is always the Go type's name, since member resolution walks
// the struct's own reflect.Type at build time.
func (s *Schema) Union(name string, typ interface{}, desc ...string) {
	structTyp := reflect.TypeOf(typ)
	if structTyp.Kind() != reflect.Struct {
		panic("union must be a struct")
	}
	info := &unionInfo{}
	if len(desc) > 0 {
		info.Description = desc[0]
	}
	s.unions[structTyp] = info
}

// Interface registers a Go interface type as a GraphQL interface. implType
// is a sample value (or zero value) of the interface's Go type, used only
// to recover its reflect.Type.
func (s *Schema) Interface(name string, implType interface{}) *InterfaceObj {
	t := reflect.TypeOf(implType)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	io := &InterfaceObj{Struct: t, Type: implType}
	s.interfaces[t] = io
	return io
}

// queryRoot and mutationRoot are dummy struct types standing in for the
// root Query/Mutation object: they carry no fields of their own, only
// FieldFunc-registered entry points.
type queryRoot struct{}
type mutationRoot struct{}

// Query returns the Object used to register top-level query fields.
func (s *Schema) Query() *Object {
	if s.query == nil {
		s.query = s.Object("Query", queryRoot{})
	}
	return s.query
}

// Mutation returns the Object used to register top-level mutation fields.
func (s *Schema) Mutation() *Object {
	if s.mutation == nil {
		s.mutation = s.Object("Mutation", mutationRoot{})
	}
	return s.mutation
}

// FieldOption configures a field after FieldFuncWithOptions registers it,
// as part of the Field Extension Pipeline.
type FieldOption func(*graphql.Field)

// Description sets the field's description.
func Description(d string) FieldOption {
	return func(f *graphql.Field) { f.Description = d }
}

// Deprecated marks the field deprecated with the given reason.
func Deprecated(reason string) FieldOption {
	return func(f *graphql.Field) {
		f.IsDeprecated = true
		f.DeprecationReason = &reason
	}
}

// RequiresAuth attaches the authorization extension, gating the field on
// the Principal satisfying every listed role/claim.
func RequiresAuth(roles ...string) FieldOption {
	return func(f *graphql.Field) {
		f.Extensions = append(f.Extensions, &extension.Authorization{Roles: roles})
	}
}

// UseFilter attaches the filter extension, adding a `filter: String` argument
// compiled against filterlang.
func UseFilter() FieldOption {
	return func(f *graphql.Field) {
		f.Extensions = append(f.Extensions, &extension.Filter{})
	}
}

// UseSort attaches the sort extension, adding `sortBy`/`sortDescending`
// arguments.
func UseSort() FieldOption {
	return func(f *graphql.Field) {
		f.Extensions = append(f.Extensions, &extension.Sort{})
	}
}

// UseOffsetPaging attaches offset/limit pagination arguments.
func UseOffsetPaging(defaultLimit, maxLimit int) FieldOption {
	return func(f *graphql.Field) {
		f.Extensions = append(f.Extensions, &extension.OffsetPaging{DefaultLimit: defaultLimit, MaxLimit: maxLimit})
	}
}

// UseConnection attaches Relay-style cursor pagination, folding in any
// preceding Filter/Sort extension on the same field.
func UseConnection(defaultPageSize, maxPageSize int) FieldOption {
	return func(f *graphql.Field) {
		f.Extensions = append(f.Extensions, &extension.Connection{DefaultPageSize: defaultPageSize, MaxPageSize: maxPageSize})
	}
}

// FieldFuncWithOptions is FieldFunc extended with the Field Extension
// Pipeline. Options are applied, in order, to the field produced by the
// Host Type Reflector/method compiler.
func (s *Object) FieldFuncWithOptions(name string, f interface{}, opts ...FieldOption) {
	s.FieldFunc(name, f)
	if s.pendingOptions == nil {
		s.pendingOptions = make(map[string][]FieldOption)
	}
	s.pendingOptions[name] = opts
}

// Build compiles every registration into an executable graphql.Schema.
func (s *Schema) Build() (*graphql.Schema, error) {
	sb := newSchemaBuilder()
	sb.objects = s.objects
	sb.inputObjects = s.inputObjects
	sb.enumMappings = s.enumMappings
	sb.unions = s.unions
	sb.interfaces = s.interfaces

	schema := &graphql.Schema{Version: atomic.AddUint64(&schemaVersionCounter, 1)}

	if s.query != nil {
		qTyp, err := sb.getType(reflect.TypeOf(queryRoot{}))
		if err != nil {
			return nil, fmt.Errorf("building Query: %w", err)
		}
		schema.Query = unwrapNonNull(qTyp)
	}
	if s.mutation != nil {
		mTyp, err := sb.getType(reflect.TypeOf(mutationRoot{}))
		if err != nil {
			return nil, fmt.Errorf("building Mutation: %w", err)
		}
		schema.Mutation = unwrapNonNull(mTyp)
	}

	// A single pass over every registered object applies FieldOption/
	// extension pipelines exactly once per field, whether the object is
	// the query/mutation root or an ordinary type.
	for typ, obj := range s.objects {
		compiled, err := sb.getType(typ)
		if err != nil {
			return nil, err
		}
		if gobj, ok := unwrapNonNull(compiled).(*graphql.Object); ok {
			if err := applyFieldOptions(obj, gobj); err != nil {
				return nil, err
			}
		}
	}
	return schema, nil
}

// applyFieldOptions runs each field's pending FieldOption/FieldExtension
// pipeline once the field has been compiled by the schemaBuilder, in
// registration order.
func applyFieldOptions(obj *Object, out *graphql.Object) error {
	for name, opts := range obj.pendingOptions {
		field, ok := out.Fields[name]
		if !ok {
			continue
		}
		for _, opt := range opts {
			opt(field)
		}
		for _, ext := range field.Extensions {
			if err := ext.Configure(out, field); err != nil {
				return fmt.Errorf("field %s.%s: extension %s: %w", out.Name, name, ext.Name(), err)
			}
		}
	}
	return nil
}

// MustBuild is Build, panicking on error. Intended for package init() /
// server startup code where a broken schema registration is a programming
// error, not a runtime condition.
func (s *Schema) MustBuild() *graphql.Schema {
	schema, err := s.Build()
	if err != nil {
		panic(err)
	}
	return schema
}
