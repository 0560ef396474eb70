package graphql

import (
	"context"
	"fmt"
	"reflect"

	"go.appointy.com/projgql/jerrors"
)

// ValidateQuery walks ss against root: every field name must exist on its
// parent type (or be the __typename introspection pseudo field), fragment
// spreads must resolve to a known fragment/type and not cycle back into an
// ancestor, and @skip/@include directives must carry a boolean "if"
// argument. It does not evaluate @skip/@include — that is a per-request
// decision made at build time once the concrete argument values are in
// hand — it only checks the directive is well-formed.
func ValidateQuery(ctx context.Context, root Type, ss *SelectionSet) error {
	return validateSelectionSet(root, ss, map[string]bool{})
}

func validateSelectionSet(t Type, ss *SelectionSet, visitedFragments map[string]bool) error {
	if ss == nil {
		return nil
	}
	fields, iface := fieldsOf(t)
	union, isUnion := unwrapNonNullType(t).(*Union)
	if fields == nil && !isUnion && len(ss.Selections)+len(ss.Fragments) > 0 {
		return fmt.Errorf("graphql: type %s has no selectable fields", t)
	}

	for _, sel := range ss.Selections {
		if sel.Name == "__typename" {
			continue
		}
		field, ok := fields[sel.Name]
		if !ok {
			return fmt.Errorf("graphql: field %q does not exist on type %q", sel.Name, t)
		}
		for _, d := range sel.Directives {
			if err := validateDirective(d); err != nil {
				return err
			}
		}
		sub := unwrapForSelection(field.Type)
		if sub != nil {
			if err := validateSelectionSet(sub, sel.SelectionSet, visitedFragments); err != nil {
				return fmt.Errorf("field %s: %w", sel.Name, err)
			}
		} else if sel.SelectionSet != nil && len(sel.SelectionSet.Selections)+len(sel.SelectionSet.Fragments) > 0 {
			return fmt.Errorf("graphql: field %q is a leaf type and cannot have a sub-selection", sel.Name)
		}
	}

	for _, fs := range ss.Fragments {
		for _, d := range fs.Directives {
			if err := validateDirective(d); err != nil {
				return err
			}
		}
		name := fs.Fragment.Name
		if name != "" {
			if visitedFragments[name] {
				return fmt.Errorf("graphql: fragment %q forms a cycle", name)
			}
			visitedFragments = withFragment(visitedFragments, name)
		}
		target := t
		if isUnion && fs.Fragment.On != "" {
			member, ok := union.Types[fs.Fragment.On]
			if !ok {
				return fmt.Errorf("graphql: type %q is not a member of union %q", fs.Fragment.On, union.Name)
			}
			target = member
		}
		if err := validateSelectionSet(target, fs.Fragment.SelectionSet, visitedFragments); err != nil {
			return fmt.Errorf("fragment %q: %w", name, err)
		}
	}

	_ = iface
	return nil
}

func withFragment(in map[string]bool, name string) map[string]bool {
	out := make(map[string]bool, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	out[name] = true
	return out
}

func validateDirective(d *Directive) error {
	if d.Name != "skip" && d.Name != "include" {
		return fmt.Errorf("graphql: unknown directive @%s", d.Name)
	}
	args, _ := d.Args.(map[string]interface{})
	v, ok := args["if"]
	if !ok {
		return fmt.Errorf("graphql: @%s requires an \"if\" argument", d.Name)
	}
	if _, ok := v.(bool); !ok {
		return fmt.Errorf("graphql: @%s's \"if\" argument must be a boolean", d.Name)
	}
	return nil
}

// fieldsOf returns the by-name field map of t (unwrapping NonNull), and
// whether t is an interface (unions have no directly selectable fields
// beyond __typename and inline fragments, so they return a nil map and
// rely entirely on inline-fragment validation of their member types).
func fieldsOf(t Type) (map[string]*Field, bool) {
	switch v := unwrapNonNullType(t).(type) {
	case *Object:
		return v.Fields, false
	case *Interface:
		return v.Fields, true
	default:
		return nil, false
	}
}

// unwrapForSelection returns the type a field's sub-selection should be
// validated against (unwrapping NonNull/List down to the element type), or
// nil if the field is a leaf (Scalar/Enum) with no sub-selection.
func unwrapForSelection(t Type) Type {
	switch v := unwrapNonNullType(t).(type) {
	case *List:
		return unwrapForSelection(v.Type)
	case *Object, *Interface, *Union:
		return v
	default:
		return nil
	}
}

func unwrapNonNullType(t Type) Type {
	if nn, ok := t.(*NonNull); ok {
		return nn.Type
	}
	return t
}

// includeSelection evaluates a selection's already-bound @skip/@include
// directives, returning false if the selection should be omitted from the
// response.
func includeSelection(directives []*Directive) (bool, error) {
	for _, d := range directives {
		args, _ := d.Args.(map[string]interface{})
		v, _ := args["if"].(bool)
		switch d.Name {
		case "skip":
			if v {
				return false, nil
			}
		case "include":
			if !v {
				return false, nil
			}
		default:
			return false, jerrors.New(jerrors.KindCompiler, nil, "unknown directive @%s", d.Name)
		}
	}
	return true, nil
}

// flattenSelections merges a SelectionSet's direct field selections with
// the (possibly nested, possibly type-conditioned) selections reachable
// through its fragment spreads into one ordered, alias-keyed list, honoring
// @skip/@include and an inline/named fragment's type condition against
// concreteTypeName. Two selections colliding on the same output alias are
// merged only if they target the same field with identical arguments (in
// which case their nested selection sets are concatenated); otherwise the
// collision is rejected as a FieldConflict. concreteTypeName is empty when
// t is not a Union/Interface, in which case every fragment applies
// unconditionally.
func flattenSelections(t Type, ss *SelectionSet, concreteTypeName string) ([]*Selection, error) {
	if ss == nil {
		return nil, nil
	}
	byAlias := map[string]*Selection{}
	var order []string

	var walk func(ss *SelectionSet) error
	walk = func(ss *SelectionSet) error {
		for _, sel := range ss.Selections {
			ok, err := includeSelection(sel.Directives)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			existing, seen := byAlias[sel.Alias]
			if !seen {
				order = append(order, sel.Alias)
				byAlias[sel.Alias] = sel
				continue
			}
			merged, err := mergeSelections(existing, sel)
			if err != nil {
				return err
			}
			byAlias[sel.Alias] = merged
		}
		for _, fs := range ss.Fragments {
			ok, err := includeSelection(fs.Directives)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			if fs.Fragment.On != "" && concreteTypeName != "" && fs.Fragment.On != concreteTypeName {
				continue
			}
			if err := walk(fs.Fragment.SelectionSet); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(ss); err != nil {
		return nil, err
	}

	out := make([]*Selection, len(order))
	for i, alias := range order {
		out[i] = byAlias[alias]
	}
	return out, nil
}

// mergeSelections combines two selections that collide on the same output
// alias. They must target the same field name with identical (already
// variable-substituted) arguments; a nested selection set on either side
// is concatenated into the merged selection's SelectionSet rather than
// discarded, so the next flattenSelections call over it — driven by
// BuildSelectionSet's recursion into the field's return type — sees both
// sides' sub-fields.
func mergeSelections(a, b *Selection) (*Selection, error) {
	if a.Name != b.Name || !reflect.DeepEqual(a.Args, b.Args) {
		return nil, jerrors.New(jerrors.KindCompiler, nil,
			"FieldConflict: alias %q selects both %q and %q with differing arguments", a.Alias, a.Name, b.Name)
	}
	return &Selection{
		Name:         a.Name,
		Alias:        a.Alias,
		Args:         a.Args,
		Directives:   a.Directives,
		parsed:       a.parsed,
		SelectionSet: mergeSelectionSets(a.SelectionSet, b.SelectionSet),
	}, nil
}

func mergeSelectionSets(a, b *SelectionSet) *SelectionSet {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	out := &SelectionSet{
		Selections: make([]*Selection, 0, len(a.Selections)+len(b.Selections)),
		Fragments:  make([]*FragmentSpread, 0, len(a.Fragments)+len(b.Fragments)),
	}
	out.Selections = append(out.Selections, a.Selections...)
	out.Selections = append(out.Selections, b.Selections...)
	out.Fragments = append(out.Fragments, a.Fragments...)
	out.Fragments = append(out.Fragments, b.Fragments...)
	return out
}
