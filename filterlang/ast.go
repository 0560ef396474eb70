package filterlang

import (
	"fmt"

	"go.appointy.com/projgql/graphql/expr"
)

// node is one AST node of a compiled filter expression. Build renders it
// into a ProjectionFragment, with scope bound to whatever element the node
// should read field paths and bare identifiers from — the field's
// collection element at the top level, or the element introduced by an
// enclosing where/any/first/orderBy call.
type node interface {
	Build(scope expr.Expr) expr.Expr
}

type literalNode struct{ value interface{} }

func (n *literalNode) Build(scope expr.Expr) expr.Expr { return &expr.Literal{Value: n.value} }

// fieldPathNode is a dotted identifier chain (`a.b.c`), read off scope with
// a null-guard at each step: if any intermediate segment is nil, the whole
// chain evaluates to nil instead of panicking.
type fieldPathNode struct{ segments []string }

func (n *fieldPathNode) Build(scope expr.Expr) expr.Expr {
	cur := scope
	for _, seg := range n.segments {
		src := cur
		cur = expr.NullGuard(src, func(s expr.Expr) expr.Expr {
			return &expr.Member{Source: s, Name: seg}
		})
	}
	return cur
}

type binaryNode struct {
	op   string
	l, r node
}

func (n *binaryNode) Build(scope expr.Expr) expr.Expr {
	return &expr.BinaryOp{Op: n.op, Left: n.l.Build(scope), Right: n.r.Build(scope)}
}

type unaryNode struct {
	op string
	x  node
}

func (n *unaryNode) Build(scope expr.Expr) expr.Expr {
	return &expr.UnaryOp{Op: n.op, X: n.x.Build(scope)}
}

// methodCallNode is `target.method(args...)`: where/any/first/orderBy/
// orderByDesc take their sole argument as a nested expression evaluated in
// the scope of target's collection element, rather than the outer scope.
type methodCallNode struct {
	target node
	method string
	args   []node
}

func (n *methodCallNode) Build(scope expr.Expr) expr.Expr {
	source := n.target.Build(scope)

	lambdaArg := func(i int) func(element expr.Expr) expr.Expr {
		if i >= len(n.args) {
			return nil
		}
		a := n.args[i]
		return func(element expr.Expr) expr.Expr { return a.Build(element) }
	}

	switch n.method {
	case "where", "filter":
		return &expr.MethodCall{Method: expr.MWhere, Source: source, Pred: lambdaArg(0)}
	case "any":
		return &expr.MethodCall{Method: expr.MAny, Source: source, Pred: lambdaArg(0)}
	case "first":
		return &expr.MethodCall{Method: expr.MFirst, Source: source, Pred: lambdaArg(0)}
	case "last":
		return &expr.MethodCall{Method: expr.MLast, Source: source, Pred: lambdaArg(0)}
	case "count":
		return &expr.MethodCall{Method: expr.MCount, Source: source, Pred: lambdaArg(0)}
	case "orderBy":
		return &expr.MethodCall{Method: expr.MOrderBy, Source: source, KeyFunc: lambdaArg(0)}
	case "orderByDesc":
		return &expr.MethodCall{Method: expr.MOrderByDescending, Source: source, KeyFunc: lambdaArg(0)}
	case "skip":
		var n0 expr.Expr
		if len(n.args) > 0 {
			n0 = n.args[0].Build(scope)
		}
		return &expr.MethodCall{Method: expr.MSkip, Source: source, N: n0}
	case "take":
		var n0 expr.Expr
		if len(n.args) > 0 {
			n0 = n.args[0].Build(scope)
		}
		return &expr.MethodCall{Method: expr.MTake, Source: source, N: n0}
	default:
		// Unreachable: the parser rejects any method name outside
		// validMethods before a methodCallNode is ever constructed.
		panic(fmt.Sprintf("filterlang: unhandled method %q", n.method))
	}
}
