// Package expr implements the ProjectionFragment expression tree: an
// abstract, composable description of a pure read over a host value. A
// tree is built once at compile time by the expression builder and
// evaluated once per request by the executor. Evaluation is a plain
// tree-walking interpreter: absent expression-tree codegen, record-shaped
// heap maps keyed by string at runtime are an acceptable strategy.
package expr

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
)

// Expr is one node of a ProjectionFragment.
type Expr interface {
	// Eval evaluates the node against ev, returning the projected value.
	Eval(ctx context.Context, ev *EvalContext) (interface{}, error)

	// String renders the fragment for diagnostics (not used on the wire).
	String() string
}

// EvalContext threads the current parent value and the current bound
// argument record through evaluation. ParamRef picks one of the two by
// Kind; every other node derives its inputs from its children.
type EvalContext struct {
	Parent interface{}
	Args   interface{}
}

// ParamKind distinguishes the two free parameters a resolve expression may
// reference: one free parameter of the parent type, plus optionally the
// args parameter.
type ParamKind int

const (
	ParamContext ParamKind = iota
	ParamArgs
)

// Literal is a constant value.
type Literal struct {
	Value interface{}
}

func (l *Literal) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	return l.Value, nil
}

func (l *Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// ParamRef reads one of EvalContext's two parameters.
type ParamRef struct {
	Kind ParamKind
}

func (p *ParamRef) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	if p.Kind == ParamArgs {
		return ev.Args, nil
	}
	return ev.Parent, nil
}

func (p *ParamRef) String() string {
	if p.Kind == ParamArgs {
		return "$args"
	}
	return "$parent"
}

// Member reads a named member (struct field or map key) off the value
// produced by Source.
type Member struct {
	Source Expr
	Name   string
}

func (m *Member) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	src, err := m.Source.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}
	return readMember(src, m.Name)
}

func (m *Member) String() string { return fmt.Sprintf("%s.%s", m.Source, m.Name) }

func readMember(src interface{}, name string) (interface{}, error) {
	if src == nil {
		return nil, nil
	}
	if mp, ok := src.(map[string]interface{}); ok {
		return mp[name], nil
	}
	v := reflect.ValueOf(src)
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil, nil
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot read member %q of %T", name, src)
	}
	fv := v.FieldByName(name)
	if !fv.IsValid() {
		fv = v.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	}
	if !fv.IsValid() {
		return nil, fmt.Errorf("no member %q on %T", name, src)
	}
	return fv.Interface(), nil
}

// Conditional is the null-guard node: "x == null ? null : project(x)".
type Conditional struct {
	Cond Expr // evaluates to something falsy (nil/false/zero) or truthy
	Then Expr
	Else Expr
}

func (c *Conditional) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	cond, err := c.Cond.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}
	if truthy(cond) {
		return c.Then.Eval(ctx, ev)
	}
	if c.Else == nil {
		return nil, nil
	}
	return c.Else.Eval(ctx, ev)
}

func (c *Conditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", c.Cond, c.Then, c.Else)
}

// NullGuard wraps inner so that, if the value it evaluates against source
// is nil, the whole expression short-circuits to nil instead of calling
// inner.
func NullGuard(source Expr, inner func(Expr) Expr) Expr {
	return &Conditional{
		Cond: &notNil{Source: source},
		Then: inner(source),
		Else: &Literal{Value: nil},
	}
}

type notNil struct{ Source Expr }

func (n *notNil) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	v, err := n.Source.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}
	return !isNil(v), nil
}
func (n *notNil) String() string { return fmt.Sprintf("%s != null", n.Source) }

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func truthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return !isNil(v)
}

// Record constructs an anonymous result record: "{name₁=expr₁, …,
// nameₙ=exprₙ}". Fields are kept in declaration order so the record's
// shape is easy to assert positionally in tests, but the evaluated value
// is a map so the executor/JSON layer can serialize it directly.
type Record struct {
	Names  []string
	Values []Expr
}

func (r *Record) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	out := make(map[string]interface{}, len(r.Names))
	for i, name := range r.Names {
		v, err := r.Values[i].Eval(ctx, ev)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func (r *Record) String() string {
	return fmt.Sprintf("{%d fields}", len(r.Names))
}

// CollectionSelect maps every element of Source through Project, the
// projection engine's rendition of LINQ's Select over a collection:
// "L.Select(x ⇒ {...})".
type CollectionSelect struct {
	Source  Expr
	Project func(element Expr) Expr
}

func (s *CollectionSelect) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	elems, err := asSlice(s.Source, ctx, ev)
	if err != nil {
		return nil, err
	}
	out := make([]interface{}, 0, len(elems))
	for _, el := range elems {
		projected, err := s.Project(&Literal{Value: el}).Eval(ctx, ev)
		if err != nil {
			return nil, err
		}
		out = append(out, projected)
	}
	return out, nil
}

func (s *CollectionSelect) String() string { return fmt.Sprintf("%s.Select(...)", s.Source) }

// MethodCall applies a collection-abstraction method (Where, OrderBy,
// OrderByDescending, Skip, Take, Count, First, Last, Any) to Source.
type MethodCall struct {
	Method MethodKind
	Source Expr
	// Pred is used by Where/Any/First/Last/Count.
	Pred func(element Expr) Expr
	// KeyFunc is used by OrderBy/OrderByDescending.
	KeyFunc func(element Expr) Expr
	// N is used by Skip/Take.
	N Expr
}

type MethodKind int

const (
	MWhere MethodKind = iota
	MOrderBy
	MOrderByDescending
	MSkip
	MTake
	MCount
	MFirst
	MLast
	MAny
)

func (m *MethodCall) String() string {
	names := map[MethodKind]string{
		MWhere: "Where", MOrderBy: "OrderBy", MOrderByDescending: "OrderByDescending",
		MSkip: "Skip", MTake: "Take", MCount: "Count", MFirst: "First", MLast: "Last", MAny: "Any",
	}
	return fmt.Sprintf("%s.%s(...)", m.Source, names[m.Method])
}

func (m *MethodCall) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	elems, err := asSlice(m.Source, ctx, ev)
	if err != nil {
		return nil, err
	}

	switch m.Method {
	case MWhere:
		out := make([]interface{}, 0, len(elems))
		for _, el := range elems {
			ok, err := evalBool(m.Pred(&Literal{Value: el}), ctx, ev)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, el)
			}
		}
		return out, nil

	case MAny:
		if m.Pred == nil {
			return len(elems) > 0, nil
		}
		for _, el := range elems {
			ok, err := evalBool(m.Pred(&Literal{Value: el}), ctx, ev)
			if err != nil {
				return nil, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil

	case MFirst:
		cand := elems
		if m.Pred != nil {
			cand = nil
			for _, el := range elems {
				ok, err := evalBool(m.Pred(&Literal{Value: el}), ctx, ev)
				if err != nil {
					return nil, err
				}
				if ok {
					cand = append(cand, el)
					break
				}
			}
		}
		if len(cand) == 0 {
			return nil, nil
		}
		return cand[0], nil

	case MLast:
		if m.Pred == nil {
			if len(elems) == 0 {
				return nil, nil
			}
			return elems[len(elems)-1], nil
		}
		var found interface{}
		hasFound := false
		for _, el := range elems {
			ok, err := evalBool(m.Pred(&Literal{Value: el}), ctx, ev)
			if err != nil {
				return nil, err
			}
			if ok {
				found, hasFound = el, true
			}
		}
		if !hasFound {
			return nil, nil
		}
		return found, nil

	case MCount:
		if m.Pred == nil {
			return len(elems), nil
		}
		n := 0
		for _, el := range elems {
			ok, err := evalBool(m.Pred(&Literal{Value: el}), ctx, ev)
			if err != nil {
				return nil, err
			}
			if ok {
				n++
			}
		}
		return n, nil

	case MOrderBy, MOrderByDescending:
		keyed := make([]struct {
			el  interface{}
			key interface{}
		}, len(elems))
		for i, el := range elems {
			k, err := m.KeyFunc(&Literal{Value: el}).Eval(ctx, ev)
			if err != nil {
				return nil, err
			}
			keyed[i].el, keyed[i].key = el, k
		}
		desc := m.Method == MOrderByDescending
		sort.SliceStable(keyed, func(i, j int) bool {
			less := compare(keyed[i].key, keyed[j].key) < 0
			if desc {
				return !less && compare(keyed[i].key, keyed[j].key) != 0
			}
			return less
		})
		out := make([]interface{}, len(keyed))
		for i, k := range keyed {
			out[i] = k.el
		}
		return out, nil

	case MSkip:
		n, err := evalInt(m.N, ctx, ev)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		if n > len(elems) {
			n = len(elems)
		}
		return append([]interface{}{}, elems[n:]...), nil

	case MTake:
		n, err := evalInt(m.N, ctx, ev)
		if err != nil {
			return nil, err
		}
		if n < 0 {
			n = 0
		}
		if n > len(elems) {
			n = len(elems)
		}
		return append([]interface{}{}, elems[:n]...), nil
	}

	return nil, fmt.Errorf("unknown method kind %d", m.Method)
}

func evalBool(e Expr, ctx context.Context, ev *EvalContext) (bool, error) {
	v, err := e.Eval(ctx, ev)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}

func evalInt(e Expr, ctx context.Context, ev *EvalContext) (int, error) {
	v, err := e.Eval(ctx, ev)
	if err != nil {
		return 0, err
	}
	return toInt(v)
}

func toInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// compare orders two scalar values for OrderBy/OrderByDescending. It
// supports the scalar kinds the filter sub-language and sort extension
// produce: numbers, strings, booleans, and time.Time-like Stringer values.
func compare(a, b interface{}) int {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// FuncCall applies an opaque Go function to the evaluated parent and args
// values. It is the escape hatch for resolvers that are not reducible to
// pure member access / collection-method chains: a mutation's structural
// resolver, or any FieldFunc-registered query resolver that encapsulates
// business logic rather than a direct host projection.
type FuncCall struct {
	Parent Expr
	Args   Expr
	Name   string
	Call   func(ctx context.Context, parent, args interface{}) (interface{}, error)
}

func (f *FuncCall) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	parent, err := f.Parent.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}
	var args interface{}
	if f.Args != nil {
		args, err = f.Args.Eval(ctx, ev)
		if err != nil {
			return nil, err
		}
	}
	return f.Call(ctx, parent, args)
}

func (f *FuncCall) String() string {
	if f.Name != "" {
		return f.Name + "(...)"
	}
	return "func(...)"
}

// BinaryOp evaluates Left and Right and combines them with an arithmetic,
// comparison, or logical operator. It exists for the filter sub-language,
// whose grammar compiles directly into ProjectionFragment nodes rather
// than into a separate runtime.
type BinaryOp struct {
	Op    string // "^", "+", "-", "*", "/", "%", "<", "<=", ">", ">=", "==", "!=", "&&", "||"
	Left  Expr
	Right Expr
}

func (b *BinaryOp) String() string { return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right) }

func (b *BinaryOp) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	if b.Op == "&&" || b.Op == "||" {
		l, err := evalBool(b.Left, ctx, ev)
		if err != nil {
			return nil, err
		}
		if b.Op == "&&" && !l {
			return false, nil
		}
		if b.Op == "||" && l {
			return true, nil
		}
		return evalBool(b.Right, ctx, ev)
	}

	l, err := b.Left.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}
	r, err := b.Right.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}

	switch b.Op {
	case "==":
		return valuesEqual(l, r), nil
	case "!=":
		return !valuesEqual(l, r), nil
	case "<", "<=", ">", ">=":
		c := compare(l, r)
		switch b.Op {
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		default:
			return c >= 0, nil
		}
	case "+", "-", "*", "/", "%", "^":
		lf, lok := toFloat(l)
		rf, rok := toFloat(r)
		if b.Op == "+" {
			if ls, ok := l.(string); ok {
				rs, _ := r.(string)
				return ls + rs, nil
			}
		}
		if !lok || !rok {
			return nil, fmt.Errorf("operator %s: non-numeric operand", b.Op)
		}
		switch b.Op {
		case "+":
			return lf + rf, nil
		case "-":
			return lf - rf, nil
		case "*":
			return lf * rf, nil
		case "/":
			if rf == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return lf / rf, nil
		case "^":
			return math.Pow(lf, rf), nil
		default: // "%"
			if rf == 0 {
				return nil, fmt.Errorf("division by zero")
			}
			return float64(int64(lf) % int64(rf)), nil
		}
	default:
		return nil, fmt.Errorf("unknown operator %q", b.Op)
	}
}

func valuesEqual(a, b interface{}) bool {
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

// UnaryOp negates (numeric "-") or inverts (boolean "!") X.
type UnaryOp struct {
	Op string
	X  Expr
}

func (u *UnaryOp) String() string { return fmt.Sprintf("%s%s", u.Op, u.X) }

func (u *UnaryOp) Eval(ctx context.Context, ev *EvalContext) (interface{}, error) {
	v, err := u.X.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}
	switch u.Op {
	case "!":
		return !truthy(v), nil
	case "-":
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("unary -: non-numeric operand")
		}
		return -f, nil
	default:
		return nil, fmt.Errorf("unknown unary operator %q", u.Op)
	}
}

// asSlice evaluates source and normalizes it to a []interface{} regardless
// of whether the underlying host value is a typed Go slice, so MethodCall
// and CollectionSelect can operate uniformly.
func asSlice(source Expr, ctx context.Context, ev *EvalContext) ([]interface{}, error) {
	v, err := source.Eval(ctx, ev)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	if s, ok := v.([]interface{}); ok {
		return s, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected a collection, got %T", v)
	}
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}
