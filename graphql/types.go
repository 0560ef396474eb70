// Package graphql holds the schema model, the selection-set AST, the
// ProjectionFragment expression tree, and the executor that evaluates a
// compiled operation against a host context.
package graphql

import (
	"context"
	"fmt"

	"go.appointy.com/projgql/graphql/expr"
)

// Type represents a GraphQL type: a Scalar, Object, List, NonNull, Enum,
// Union, or Interface.
type Type interface {
	String() string

	// isType is a no-op used to tag the known values of Type, preventing
	// arbitrary interface{} from implementing Type.
	isType()
}

// Scalar is a leaf value. A custom Unwrapper can be attached so the scalar
// has a custom unwrapping (the default unwrapper is used if nil).
type Scalar struct {
	Type           string
	Unwrapper      func(interface{}) (interface{}, error)
	SpecifiedByURL string
}

func (s *Scalar) isType() {}

func (s *Scalar) String() string {
	return s.Type
}

// Enum is a leaf value with a fixed set of named members.
type Enum struct {
	Type       string
	Values     []string
	ReverseMap map[interface{}]string
}

func (e *Enum) isType() {}

func (e *Enum) String() string {
	return e.Type
}

// Object is a value with several fields. RequiredAuth is the set of
// roles/claims an authorization extension must see satisfied before any
// field on this type resolves.
type Object struct {
	Name         string
	Description  string
	KeyField     *Field
	Fields       map[string]*Field
	FieldOrder   []string
	Interfaces   map[string]*Interface
	RequiredAuth []string
}

func (o *Object) isType() {}

func (o *Object) String() string {
	return o.Name
}

// AddField registers a field, rejecting a duplicate name within the type
// with SchemaConflict.
func (o *Object) AddField(name string, f *Field) error {
	if o.Fields == nil {
		o.Fields = make(map[string]*Field)
	}
	if _, ok := o.Fields[name]; ok {
		return &SchemaConflict{TypeName: o.Name, FieldName: name}
	}
	f.Name = name
	o.Fields[name] = f
	o.FieldOrder = append(o.FieldOrder, name)
	return nil
}

// ReplaceField overwrites an existing field's definition in place,
// preserving its position in FieldOrder.
func (o *Object) ReplaceField(name string, f *Field) error {
	if _, ok := o.Fields[name]; !ok {
		return fmt.Errorf("field %q not found on type %q", name, o.Name)
	}
	f.Name = name
	o.Fields[name] = f
	return nil
}

// RemoveField removes a field by name.
func (o *Object) RemoveField(name string) {
	if _, ok := o.Fields[name]; !ok {
		return
	}
	delete(o.Fields, name)
	for i, n := range o.FieldOrder {
		if n == name {
			o.FieldOrder = append(o.FieldOrder[:i], o.FieldOrder[i+1:]...)
			break
		}
	}
}

// Deprecate marks a field deprecated with the given reason.
func (o *Object) Deprecate(fieldName, reason string) error {
	f, ok := o.Fields[fieldName]
	if !ok {
		return fmt.Errorf("field %q not found on type %q", fieldName, o.Name)
	}
	f.IsDeprecated = true
	r := reason
	f.DeprecationReason = &r
	return nil
}

// List is a collection of other values.
type List struct {
	Type Type
}

func (l *List) isType() {}

func (l *List) String() string {
	return fmt.Sprintf("[%s]", l.Type)
}

// InputObject defines the type of a value passed as an argument to a query,
// mutation, or subscription field.
type InputObject struct {
	Name              string
	InputFields       map[string]Type
	FieldDeprecations map[string]string `json:"-"`
	OneOf             bool              `json:"-"`
}

func (io *InputObject) isType() {}

func (io *InputObject) String() string {
	return io.Name
}

// NonNull wraps a Type that may never resolve to null.
type NonNull struct {
	Type Type
}

func (n *NonNull) isType() {}

func (n *NonNull) String() string {
	return fmt.Sprintf("%s!", n.Type)
}

// Union is a choice between multiple Object types.
type Union struct {
	Name        string
	Description string
	Types       map[string]*Object
}

func (*Union) isType() {}

func (u *Union) String() string {
	return u.Name
}

// Interface defines a GraphQL interface type.
type Interface struct {
	Name         string
	Description  string
	Types        map[string]*Object
	Fields       map[string]*Field
	RequiredAuth []string
}

func (*Interface) isType() {}

func (i *Interface) String() string {
	return i.Name
}

var _ Type = &Scalar{}
var _ Type = &Object{}
var _ Type = &List{}
var _ Type = &InputObject{}
var _ Type = &NonNull{}
var _ Type = &Enum{}
var _ Type = &Union{}
var _ Type = &Interface{}

// SchemaConflict is returned by AddField when a field name collides with an
// already-registered field.
type SchemaConflict struct {
	TypeName  string
	FieldName string
}

func (c *SchemaConflict) Error() string {
	if c.FieldName == "" {
		return fmt.Sprintf("duplicate type %q", c.TypeName)
	}
	return fmt.Sprintf("duplicate field %q on type %q", c.FieldName, c.TypeName)
}

// A Resolver calculates the value of a field of an object. The legacy,
// value-returning shape is retained for mutation fields (their resolve is
// a structural, side-effecting variant); query fields instead build a
// ProjectionFragment, see FieldBuilder below.
type Resolver func(ctx context.Context, source, args interface{}, selectionSet *SelectionSet) (interface{}, error)

// FieldExtension is a compile-time, per-field transformer attached to the
// extension pipeline. It lives in this package (rather than
// schemabuilder) to avoid an import cycle between the field definition and
// the projection builder that walks it.
type FieldExtension interface {
	// Name identifies the extension for diagnostics (schema build errors
	// name the extension that failed to configure).
	Name() string

	// Configure mutates field metadata once, at schema-build time: it may
	// add arguments, change the field's return Type, or register new
	// schema types (PageInfo, <T>Edge, <T>Connection, ...).
	Configure(schema *Object, field *Field) error
}

// Field knows how a selection of an Object computes its value. FieldBuilder
// constructs a ProjectionFragment parameterized on the parent and argument
// expressions; Extensions rewrite that fragment in pipeline order before
// any sub-selection is built.
type Field struct {
	Name string
	Type Type
	Args *ArgumentSchema

	// FieldBuilder is the pure projection-producing resolver used by query
	// fields. It receives the expression for the parent in scope and the
	// expression for the bound argument record, and returns the expression
	// that projects this field's value from them.
	FieldBuilder func(parent, args expr.Expr) (expr.Expr, error)

	// Resolve is the legacy value-returning resolver retained for mutation
	// fields.
	Resolve Resolver

	ParseArguments func(json interface{}) (interface{}, error)

	Extensions []FieldExtension

	External  bool
	Expensive bool

	RequiredAuth []string

	IsDeprecated      bool
	DeprecationReason *string `json:"deprecationReason,omitempty"`

	Description string
}

// Schema is the compiled, immutable-at-execution-time schema: the schema
// model is immutable during execution. Version is bumped once per
// Build/MustBuild call and lets a plan cache (planstore) detect that a
// previously compiled operation was bound against a schema that no longer
// exists — invalidation is by schema version.
type Schema struct {
	Query        Type
	Mutation     Type
	Subscription Type
	Version      uint64
}

// SelectionSet represents a parsed, not-yet-bound GraphQL selection: a set
// of field selections plus fragment spreads, prior to binding.
type SelectionSet struct {
	Selections []*Selection
	Fragments  []*FragmentSpread
}

// Selection represents one field selection within a SelectionSet.
type Selection struct {
	Name         string
	Alias        string
	Args         interface{}
	SelectionSet *SelectionSet
	Directives   []*Directive

	UseBatch bool

	parsed bool
}

// FragmentDefinition is a reusable, named selection set scoped to a type
// condition.
type FragmentDefinition struct {
	Name         string
	On           string
	SelectionSet *SelectionSet
}

// FragmentSpread is a use of a FragmentDefinition at a particular location,
// with whatever directives were attached to the spread itself.
type FragmentSpread struct {
	Fragment   *FragmentDefinition
	Directives []*Directive
}

// Directive is an @-prefixed annotation on a selection (only @skip and
// @include are interpreted by the binder).
type Directive struct {
	Name string
	Args interface{}
}

// ArgumentSchema is the ordered, by-name-addressable argument list of a
// field.
type ArgumentSchema struct {
	order  []string
	byName map[string]*Argument
}

// NewArgumentSchema creates an empty, by-name argument schema.
func NewArgumentSchema() *ArgumentSchema {
	return &ArgumentSchema{byName: make(map[string]*Argument)}
}

// Add registers an argument, preserving declaration order.
func (a *ArgumentSchema) Add(arg *Argument) {
	if _, ok := a.byName[arg.Name]; !ok {
		a.order = append(a.order, arg.Name)
	}
	a.byName[arg.Name] = arg
}

// Get looks up an argument by name.
func (a *ArgumentSchema) Get(name string) (*Argument, bool) {
	arg, ok := a.byName[name]
	return arg, ok
}

// Ordered returns arguments in declaration order.
func (a *ArgumentSchema) Ordered() []*Argument {
	out := make([]*Argument, 0, len(a.order))
	for _, n := range a.order {
		out = append(out, a.byName[n])
	}
	return out
}

// Argument describes one named, typed argument of a field.
type Argument struct {
	Name       string
	Type       Type
	HasDefault bool
	Default    interface{}
	Nullable   bool
}
