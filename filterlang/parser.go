package filterlang

import (
	"fmt"
	"strconv"

	"go.appointy.com/projgql/graphql/expr"
)

// ParseError is returned for filter-string syntax errors.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("filterlang: %s (offset %d)", e.Msg, e.Pos) }

type parser struct {
	lex  *lexer
	tok  token
	peek *token
}

// validMethods is the set of collection-method suffixes the grammar
// recognizes: where/filter (aliases), any, first, last, count, orderBy,
// orderByDesc, skip, take.
var validMethods = map[string]bool{
	"where": true, "filter": true, "any": true, "first": true, "last": true,
	"count": true, "orderBy": true, "orderByDesc": true, "skip": true, "take": true,
}

// Compile parses source as a filter expression and returns the predicate as
// a function from the collection element expression to a boolean
// ProjectionFragment, ready to be used as an expr.MethodCall.Pred.
func Compile(source string) (func(element expr.Expr) expr.Expr, error) {
	ast, err := parse(source)
	if err != nil {
		return nil, err
	}
	return func(element expr.Expr) expr.Expr {
		return ast.Build(element)
	}, nil
}

func parse(source string) (n node, err error) {
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*ParseError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()

	p := &parser{lex: newLexer(source)}
	p.advance()
	n = p.parseOr()
	if p.tok.kind != tokEOF {
		p.fail("unexpected trailing input %q", p.tok.text)
	}
	return n, nil
}

func (p *parser) advance() {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return
	}
	tk, err := p.lex.next()
	if err != nil {
		panic(&ParseError{Pos: p.tok.pos, Msg: err.Error()})
	}
	p.tok = tk
}

func (p *parser) fail(format string, args ...interface{}) {
	panic(&ParseError{Pos: p.tok.pos, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) atOp(s string) bool { return p.tok.kind == tokOp && p.tok.text == s }

// atKeyword reports whether the current token is the bare identifier s,
// used for the "and"/"or" word-form aliases of "&&"/"||".
func (p *parser) atKeyword(s string) bool { return p.tok.kind == tokIdent && p.tok.text == s }

func (p *parser) expectOp(s string) {
	if !p.atOp(s) {
		p.fail("expected %q, got %q", s, p.tok.text)
	}
	p.advance()
}

func (p *parser) parseOr() node {
	left := p.parseAnd()
	for p.atOp("||") || p.atKeyword("or") {
		p.advance()
		right := p.parseAnd()
		left = &binaryNode{op: "||", l: left, r: right}
	}
	return left
}

func (p *parser) parseAnd() node {
	left := p.parseEquality()
	for p.atOp("&&") || p.atKeyword("and") {
		p.advance()
		right := p.parseEquality()
		left = &binaryNode{op: "&&", l: left, r: right}
	}
	return left
}

func (p *parser) parseEquality() node {
	left := p.parseRelational()
	for p.atOp("==") || p.atOp("!=") {
		op := p.tok.text
		p.advance()
		right := p.parseRelational()
		left = &binaryNode{op: op, l: left, r: right}
	}
	return left
}

func (p *parser) parseRelational() node {
	left := p.parseAdditive()
	for p.atOp("<") || p.atOp("<=") || p.atOp(">") || p.atOp(">=") {
		op := p.tok.text
		p.advance()
		right := p.parseAdditive()
		left = &binaryNode{op: op, l: left, r: right}
	}
	return left
}

func (p *parser) parseAdditive() node {
	left := p.parseMultiplicative()
	for p.atOp("+") || p.atOp("-") {
		op := p.tok.text
		p.advance()
		right := p.parseMultiplicative()
		left = &binaryNode{op: op, l: left, r: right}
	}
	return left
}

func (p *parser) parseMultiplicative() node {
	left := p.parseUnary()
	for p.atOp("*") || p.atOp("/") || p.atOp("%") {
		op := p.tok.text
		p.advance()
		right := p.parseUnary()
		left = &binaryNode{op: op, l: left, r: right}
	}
	return left
}

func (p *parser) parseUnary() node {
	if p.atOp("!") || p.atOp("-") {
		op := p.tok.text
		p.advance()
		return &unaryNode{op: op, x: p.parseUnary()}
	}
	return p.parsePower()
}

// parsePower handles "^", the highest-precedence operator and the only
// right-associative one: `2 ^ 3 ^ 2` parses as `2 ^ (3 ^ 2)`.
func (p *parser) parsePower() node {
	left := p.parsePostfix()
	if p.atOp("^") {
		p.advance()
		right := p.parsePower()
		return &binaryNode{op: "^", l: left, r: right}
	}
	return left
}

// parsePostfix handles a primary expression followed by any number of
// `.name` (field access) or `.name(args)` (method call) suffixes.
func (p *parser) parsePostfix() node {
	n := p.parsePrimary()
	for p.atOp(".") {
		p.advance()
		if p.tok.kind != tokIdent {
			p.fail("expected identifier after '.'")
		}
		name := p.tok.text
		p.advance()
		if p.atOp("(") {
			p.advance()
			var args []node
			for !p.atOp(")") {
				args = append(args, p.parseOr())
				if p.atOp(",") {
					p.advance()
				}
			}
			p.expectOp(")")
			if !validMethods[name] {
				p.fail("unknown method %q", name)
			}
			n = &methodCallNode{target: n, method: name, args: args}
			continue
		}
		if fp, ok := n.(*fieldPathNode); ok {
			fp.segments = append(fp.segments, name)
			continue
		}
		n = &methodCallFieldWrap{base: n, name: name}
	}
	return n
}

// methodCallFieldWrap handles `expr.name` where expr is not itself a bare
// field path (e.g. a parenthesized sub-expression).
type methodCallFieldWrap struct {
	base node
	name string
}

func (n *methodCallFieldWrap) Build(scope expr.Expr) expr.Expr {
	base := n.base.Build(scope)
	return expr.NullGuard(base, func(s expr.Expr) expr.Expr {
		return &expr.Member{Source: s, Name: n.name}
	})
}

func (p *parser) parsePrimary() node {
	switch {
	case p.atOp("("):
		p.advance()
		n := p.parseOr()
		p.expectOp(")")
		return n
	case p.tok.kind == tokInt:
		v, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			p.fail("invalid integer %q", p.tok.text)
		}
		p.advance()
		return &literalNode{value: v}
	case p.tok.kind == tokFloat:
		v, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			p.fail("invalid float %q", p.tok.text)
		}
		p.advance()
		return &literalNode{value: v}
	case p.tok.kind == tokString:
		v := p.tok.text
		p.advance()
		return &literalNode{value: v}
	case p.tok.kind == tokIdent && p.tok.text == "true":
		p.advance()
		return &literalNode{value: true}
	case p.tok.kind == tokIdent && p.tok.text == "false":
		p.advance()
		return &literalNode{value: false}
	case p.tok.kind == tokIdent && p.tok.text == "null":
		p.advance()
		return &literalNode{value: nil}
	case p.tok.kind == tokIdent:
		name := p.tok.text
		p.advance()
		return &fieldPathNode{segments: []string{name}}
	default:
		p.fail("unexpected token %q", p.tok.text)
		return nil
	}
}
