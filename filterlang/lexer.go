// Package filterlang implements the filter sub-language: a small expression
// grammar (literals, field paths, arithmetic/comparison/logical operators,
// and method calls) used by the `filter` field argument and compiled
// directly into graphql/expr ProjectionFragment nodes.
//
// Grounded on the scanner-based lexer in
// _examples/qktrzrj-graphql/internal/lexer.go and on
// _examples/anujdecoder-Jaal/introspection's tree-walking style, but the
// grammar itself (operators, precedence, method-call suffixes) is novel:
// it is the one piece of this module with no direct pack analogue to copy,
// since none of the example repos embed a query sub-language in a string
// argument.
package filterlang

import (
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	scan *scanner.Scanner
	src  string
}

func newLexer(src string) *lexer {
	s := &scanner.Scanner{}
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	s.Error = func(*scanner.Scanner, string) {}
	return &lexer{scan: s, src: src}
}

var twoCharOps = map[string]bool{
	"&&": true, "||": true, "==": true, "!=": true, "<=": true, ">=": true,
}

func (l *lexer) next() (token, error) {
	for {
		r := l.scan.Peek()
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			l.scan.Next()
			continue
		}
		break
	}

	r := l.scan.Peek()
	pos := l.scan.Pos().Offset

	switch {
	case r == scanner.EOF:
		return token{kind: tokEOF, pos: pos}, nil
	case r == '"':
		tk := l.scan.Scan()
		if tk != scanner.String {
			return token{}, fmt.Errorf("filterlang: unterminated string at %d", pos)
		}
		return token{kind: tokString, text: unquote(l.scan.TokenText()), pos: pos}, nil
	case strings.ContainsRune("+-*/%^()., ", r) && r != ' ':
		l.scan.Next()
		return token{kind: tokOp, text: string(r), pos: pos}, nil
	case strings.ContainsRune("<>=!&|", r):
		l.scan.Next()
		second := l.scan.Peek()
		combo := string(r) + string(second)
		if twoCharOps[combo] {
			l.scan.Next()
			return token{kind: tokOp, text: combo, pos: pos}, nil
		}
		return token{kind: tokOp, text: string(r), pos: pos}, nil
	default:
		tk := l.scan.Scan()
		switch tk {
		case scanner.Ident:
			return token{kind: tokIdent, text: l.scan.TokenText(), pos: pos}, nil
		case scanner.Int:
			return token{kind: tokInt, text: l.scan.TokenText(), pos: pos}, nil
		case scanner.Float:
			return token{kind: tokFloat, text: l.scan.TokenText(), pos: pos}, nil
		case scanner.EOF:
			return token{kind: tokEOF, pos: pos}, nil
		default:
			return token{}, fmt.Errorf("filterlang: unexpected character %q at %d", tk, pos)
		}
	}
}

func unquote(raw string) string {
	s, err := strconv.Unquote(raw)
	if err != nil {
		return strings.Trim(raw, `"`)
	}
	return s
}
