package graphql

import (
	"fmt"

	"go.appointy.com/projgql/graphql/language"
	"go.appointy.com/projgql/jerrors"
)

// Query is one parsed, variable-substituted operation ready for validation
// and execution.
type Query struct {
	Kind         string
	Name         string
	SelectionSet *SelectionSet
}

// Parse lexes and parses source into a Document, selects the operation to
// run, and substitutes variables/defaults into every argument and
// directive value in its selection tree so the binder and builder
// downstream only ever see concrete Go values.
func Parse(source string, variables map[string]interface{}) (*Query, error) {
	doc, err := language.Parse(source)
	if err != nil {
		return nil, jerrors.Wrap(jerrors.KindParse, nil, err)
	}
	if len(doc.Operations) == 0 {
		return nil, jerrors.New(jerrors.KindParse, nil, "document contains no operations")
	}
	op := doc.Operations[0]

	varsWithDefaults := make(map[string]interface{}, len(variables))
	for k, v := range variables {
		varsWithDefaults[k] = v
	}
	for _, vd := range op.Variables {
		if _, ok := varsWithDefaults[vd.Name]; !ok && vd.HasDefault {
			v, err := resolveValue(vd.Default, nil)
			if err != nil {
				return nil, jerrors.Wrap(jerrors.KindParse, nil, err)
			}
			varsWithDefaults[vd.Name] = v
		}
	}

	ss, err := convertSelectionSet(op.Selection, varsWithDefaults, doc.Fragments)
	if err != nil {
		return nil, err
	}

	return &Query{Kind: string(op.Kind), Name: op.Name, SelectionSet: ss}, nil
}

func convertSelectionSet(in *language.SelectionSet, vars map[string]interface{}, fragDefs map[string]*language.FragmentDefinition) (*SelectionSet, error) {
	if in == nil {
		return &SelectionSet{}, nil
	}
	out := &SelectionSet{}
	for _, item := range in.Items {
		switch s := item.(type) {
		case *language.FieldSelection:
			sel, err := convertFieldSelection(s, vars, fragDefs)
			if err != nil {
				return nil, err
			}
			out.Selections = append(out.Selections, sel)
		case *language.FragmentSpread:
			frag, ok := fragDefs[s.Name]
			if !ok {
				return nil, jerrors.New(jerrors.KindParse, nil, "unknown fragment %q", s.Name)
			}
			directives, err := convertDirectives(s.Directives, vars)
			if err != nil {
				return nil, err
			}
			inner, err := convertSelectionSet(frag.Selection, vars, fragDefs)
			if err != nil {
				return nil, err
			}
			out.Fragments = append(out.Fragments, &FragmentSpread{
				Fragment:   &FragmentDefinition{Name: frag.Name, On: frag.On, SelectionSet: inner},
				Directives: directives,
			})
		case *language.InlineFragment:
			directives, err := convertDirectives(s.Directives, vars)
			if err != nil {
				return nil, err
			}
			inner, err := convertSelectionSet(s.Selection, vars, fragDefs)
			if err != nil {
				return nil, err
			}
			out.Fragments = append(out.Fragments, &FragmentSpread{
				Fragment:   &FragmentDefinition{Name: "", On: s.On, SelectionSet: inner},
				Directives: directives,
			})
		default:
			return nil, fmt.Errorf("graphql: unknown selection node %T", item)
		}
	}
	return out, nil
}

func convertFieldSelection(s *language.FieldSelection, vars map[string]interface{}, fragDefs map[string]*language.FragmentDefinition) (*Selection, error) {
	alias := s.Alias
	if alias == "" {
		alias = s.Name
	}
	args := make(map[string]interface{}, len(s.Arguments))
	for _, a := range s.Arguments {
		v, err := resolveValue(a.Value, vars)
		if err != nil {
			return nil, err
		}
		args[a.Name] = v
	}
	directives, err := convertDirectives(s.Directives, vars)
	if err != nil {
		return nil, err
	}
	sub, err := convertSelectionSet(s.Selection, vars, fragDefs)
	if err != nil {
		return nil, err
	}
	return &Selection{
		Name:         s.Name,
		Alias:        alias,
		Args:         args,
		SelectionSet: sub,
		Directives:   directives,
		parsed:       true,
	}, nil
}

func convertDirectives(in []*language.Directive, vars map[string]interface{}) ([]*Directive, error) {
	out := make([]*Directive, 0, len(in))
	for _, d := range in {
		args := make(map[string]interface{}, len(d.Arguments))
		for _, a := range d.Arguments {
			v, err := resolveValue(a.Value, vars)
			if err != nil {
				return nil, err
			}
			args[a.Name] = v
		}
		out = append(out, &Directive{Name: d.Name, Args: args})
	}
	return out, nil
}

// resolveValue substitutes variable references with their bound value and
// otherwise converts a language.Value into a plain Go value of the kind
// field/directive argument coercion expects.
func resolveValue(v language.Value, vars map[string]interface{}) (interface{}, error) {
	switch val := v.(type) {
	case language.ValueVariable:
		bound, ok := vars[val.Name]
		if !ok {
			return nil, jerrors.New(jerrors.KindParse, nil, "undefined variable $%s", val.Name)
		}
		return bound, nil
	case language.ValueInt:
		return val.Value, nil
	case language.ValueFloat:
		return val.Value, nil
	case language.ValueString:
		return val.Value, nil
	case language.ValueBool:
		return val.Value, nil
	case language.ValueNull:
		return nil, nil
	case language.ValueEnum:
		return val.Value, nil
	case language.ValueList:
		out := make([]interface{}, len(val.Values))
		for i, e := range val.Values {
			rv, err := resolveValue(e, vars)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	case language.ValueObject:
		out := make(map[string]interface{}, len(val.Fields))
		for _, f := range val.Fields {
			rv, err := resolveValue(f.Value, vars)
			if err != nil {
				return nil, err
			}
			out[f.Name] = rv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("graphql: unknown value node %T", v)
	}
}
