// Package language implements the Document Parser: lexing and
// recursive-descent parsing of a GraphQL document into an AST of
// operations, fragments, selections, arguments, variables, and directives.
// The AST shape here is intentionally a plain tree of exported structs (no
// visitor framework) — graphql.Parse is the AST's only
// consumer, and it walks the tree directly.
package language

// Document is the top-level parse result: zero or more operations and
// fragment definitions, in source order.
type Document struct {
	Operations []*OperationDefinition
	Fragments  map[string]*FragmentDefinition
}

// OperationKind is "query" or "mutation" (subscriptions are out of scope).
type OperationKind string

const (
	OperationQuery    OperationKind = "query"
	OperationMutation OperationKind = "mutation"
)

// OperationDefinition is one `query { ... }` / `mutation Name(...) { ... }`.
type OperationDefinition struct {
	Kind      OperationKind
	Name      string
	Variables []*VariableDefinition
	Selection *SelectionSet
}

// VariableDefinition declares a variable's name, type, and optional
// default, e.g. `$first: Int = 10`.
type VariableDefinition struct {
	Name       string
	Type       *TypeRef
	HasDefault bool
	Default    Value
}

// TypeRef names a type as written in the document: a bare name, a `[...]`
// list, and/or a trailing `!` for non-null.
type TypeRef struct {
	Name     string
	List     *TypeRef
	NonNull  bool
}

func (t *TypeRef) String() string {
	var s string
	if t.List != nil {
		s = "[" + t.List.String() + "]"
	} else {
		s = t.Name
	}
	if t.NonNull {
		s += "!"
	}
	return s
}

// FragmentDefinition is `fragment Name on Type { ... }`.
type FragmentDefinition struct {
	Name      string
	On        string
	Selection *SelectionSet
}

// SelectionSet is an ordered list of selections within one `{ ... }`.
type SelectionSet struct {
	Items []Selection
}

// Selection is implemented by *FieldSelection, *FragmentSpread, and
// *InlineFragment.
type Selection interface {
	isSelection()
}

// FieldSelection is `alias: name(args) @directives { subselection }`.
type FieldSelection struct {
	Alias      string
	Name       string
	Arguments  []*Argument
	Directives []*Directive
	Selection  *SelectionSet
}

func (*FieldSelection) isSelection() {}

// FragmentSpread is `...Name @directives`.
type FragmentSpread struct {
	Name       string
	Directives []*Directive
}

func (*FragmentSpread) isSelection() {}

// InlineFragment is `... on Type @directives { subselection }`.
type InlineFragment struct {
	On         string
	Directives []*Directive
	Selection  *SelectionSet
}

func (*InlineFragment) isSelection() {}

// Argument is one `name: value` pair, used both by field arguments and by
// directive arguments.
type Argument struct {
	Name  string
	Value Value
}

// Directive is `@name(args)`.
type Directive struct {
	Name      string
	Arguments []*Argument
}

// Value is implemented by the Value* types below.
type Value interface {
	isValue()
}

type ValueVariable struct{ Name string }
type ValueInt struct{ Value int64 }
type ValueFloat struct{ Value float64 }
type ValueString struct{ Value string }
type ValueBool struct{ Value bool }
type ValueNull struct{}
type ValueEnum struct{ Value string }
type ValueList struct{ Values []Value }
type ValueObject struct{ Fields []*Argument }

func (ValueVariable) isValue() {}
func (ValueInt) isValue()      {}
func (ValueFloat) isValue()    {}
func (ValueString) isValue()   {}
func (ValueBool) isValue()     {}
func (ValueNull) isValue()     {}
func (ValueEnum) isValue()     {}
func (ValueList) isValue()     {}
func (ValueObject) isValue()   {}
