package graphql

import (
	"context"
	"fmt"
	"reflect"

	"go.appointy.com/projgql/graphql/expr"
)

// BuildField composes sel's full projection against parent: the field's own
// FieldBuilder (a per-field ProjectionFragment, already passed through its
// Field Extension Pipeline at schema-build time), then — if the field
// selects sub-fields — the recursively built projection of those, mapped
// element-wise if the field's type is a list and null-guarded otherwise.
func BuildField(owner *Object, sel *Selection, parent expr.Expr) (expr.Expr, error) {
	field, ok := owner.Fields[sel.Name]
	if !ok {
		return nil, fmt.Errorf("graphql: field %q not found on type %q", sel.Name, owner.Name)
	}

	var argsVal interface{} = sel.Args
	if field.ParseArguments != nil {
		v, err := field.ParseArguments(sel.Args)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", sel.Name, err)
		}
		argsVal = v
	}
	argsExpr := expr.Expr(&expr.Literal{Value: argsVal})

	base, err := field.FieldBuilder(parent, argsExpr)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", sel.Name, err)
	}

	if sel.SelectionSet == nil || (len(sel.SelectionSet.Selections) == 0 && len(sel.SelectionSet.Fragments) == 0) {
		return base, nil
	}

	elemType, isList := listElement(field.Type)

	projectOne, err := selectionProjector(elemType, sel)
	if err != nil {
		return nil, fmt.Errorf("field %s: %w", sel.Name, err)
	}
	if projectOne == nil {
		return base, nil
	}

	if isList {
		return &expr.CollectionSelect{Source: base, Project: projectOne}, nil
	}
	return expr.NullGuard(base, projectOne), nil
}

// selectionProjector returns a function building the projection of sel's
// sub-selection against one element of type elemType. For a plain Object
// or Interface this is a direct BuildSelectionSet call; for a Union, each
// possible member is pre-built once and the matching one picked at
// evaluation time by the element's concrete Go type name — each host value
// of a Union belongs to exactly one member.
func selectionProjector(elemType Type, sel *Selection) (func(element expr.Expr) expr.Expr, error) {
	switch v := elemType.(type) {
	case *Object, *Interface:
		return func(element expr.Expr) expr.Expr {
			built, err := BuildSelectionSet(elemType, sel.SelectionSet, element)
			if err != nil {
				return &errExpr{err: fmt.Errorf("field %s: %w", sel.Name, err)}
			}
			return built
		}, nil

	case *Union:
		memberExprs := make(map[string]expr.Expr, len(v.Types))
		for name, obj := range v.Types {
			built, err := BuildSelectionSet(obj, sel.SelectionSet, &expr.ParamRef{Kind: expr.ParamContext})
			if err != nil {
				return nil, err
			}
			memberExprs[name] = built
		}
		return func(element expr.Expr) expr.Expr {
			return &expr.FuncCall{
				Parent: element,
				Name:   "unionSelect",
				Call: func(ctx context.Context, parentVal, _ interface{}) (interface{}, error) {
					if parentVal == nil {
						return nil, nil
					}
					name := concreteTypeName(parentVal)
					memberExpr, ok := memberExprs[name]
					if !ok {
						return nil, fmt.Errorf("field %s: value of type %s is not a member of union %s", sel.Name, name, v.Name)
					}
					return memberExpr.Eval(ctx, &expr.EvalContext{Parent: parentVal})
				},
			}
		}, nil

	default:
		return nil, nil
	}
}

// BuildSelectionSet composes ss's selections (after fragment flattening and
// @skip/@include) into one Record keyed by alias, resolving
// __typename to t's static name. t must unwrap to an Object or Interface —
// Unions are resolved per-element by selectionProjector before this is
// called with the concrete member Object.
func BuildSelectionSet(t Type, ss *SelectionSet, parent expr.Expr) (expr.Expr, error) {
	owner, typeName, err := asSelectable(t)
	if err != nil {
		return nil, err
	}
	selections, err := flattenSelections(t, ss, typeName)
	if err != nil {
		return nil, err
	}

	rec := &expr.Record{}
	for _, sel := range selections {
		if sel.Name == "__typename" {
			rec.Names = append(rec.Names, sel.Alias)
			rec.Values = append(rec.Values, &expr.Literal{Value: typeName})
			continue
		}
		fieldExpr, err := BuildField(owner, sel, parent)
		if err != nil {
			return nil, err
		}
		rec.Names = append(rec.Names, sel.Alias)
		rec.Values = append(rec.Values, fieldExpr)
	}
	return rec, nil
}

// listElement unwraps NonNull/List wrappers, reporting whether t is (at any
// nesting) a list, and the element type beneath it.
func listElement(t Type) (Type, bool) {
	switch v := unwrapNonNullType(t).(type) {
	case *List:
		inner, _ := listElement(v.Type)
		return inner, true
	default:
		return unwrapNonNullType(t), false
	}
}

// asSelectable resolves t to the Object whose Fields back a selection set,
// and the static type name used for __typename and fragment type-condition
// matching.
func asSelectable(t Type) (*Object, string, error) {
	switch v := unwrapNonNullType(t).(type) {
	case *Object:
		return v, v.Name, nil
	case *Interface:
		return &Object{Name: v.Name, Fields: v.Fields}, v.Name, nil
	default:
		return nil, "", fmt.Errorf("graphql: type %s is not selectable", t)
	}
}

// concreteTypeName names v's dynamic Go type the way the Host Type
// Reflector names the Object it built from that same struct: by the
// struct's own type name (schemabuilder/build.go's buildObject defaults an
// Object's schema name to reflect.Type.Name() unless overridden).
func concreteTypeName(v interface{}) string {
	rt := reflect.TypeOf(v)
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	return rt.Name()
}

// errExpr is a ProjectionFragment node that always fails, used to surface a
// nested-build error from inside a CollectionSelect/NullGuard closure
// (whose signature returns only an Expr, not an error) at evaluation time
// instead of silently dropping it.
type errExpr struct{ err error }

func (e *errExpr) Eval(ctx context.Context, ev *expr.EvalContext) (interface{}, error) {
	return nil, e.err
}
func (e *errExpr) String() string { return "<error>" }
