package language

import (
	"strings"
	"text/scanner"
)

// tokenKind classifies a lexed token. The lexer leans on text/scanner for
// ident/int/float/string recognition (grounded on the scanner-based lexer
// in _examples/qktrzrj-graphql/internal/lexer.go) and handles GraphQL's
// punctuators itself.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokName
	tokInt
	tokFloat
	tokString
	tokPunct
	tokDollar
)

type token struct {
	kind tokenKind
	text string
	line int
	col  int
}

type lexer struct {
	scan *scanner.Scanner
	src  string
}

func newLexer(src string) *lexer {
	s := &scanner.Scanner{}
	s.Init(strings.NewReader(src))
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	s.Error = func(*scanner.Scanner, string) {} // surfaced via ParseError instead
	return &lexer{scan: s, src: src}
}

func (l *lexer) next() token {
	l.skipIgnored()
	r := l.scan.Peek()
	line, col := l.scan.Pos().Line, l.scan.Pos().Column

	switch {
	case r == scanner.EOF:
		return token{kind: tokEOF, line: line, col: col}
	case r == '$':
		l.scan.Next()
		return token{kind: tokDollar, text: "$", line: line, col: col}
	case r == '"':
		tk := l.scan.Scan()
		_ = tk
		return token{kind: tokString, text: unquote(l.scan.TokenText()), line: line, col: col}
	case isPunct(r):
		l.scan.Next()
		return token{kind: tokPunct, text: string(r), line: line, col: col}
	default:
		tk := l.scan.Scan()
		switch tk {
		case scanner.Ident:
			return token{kind: tokName, text: l.scan.TokenText(), line: line, col: col}
		case scanner.Int:
			return token{kind: tokInt, text: l.scan.TokenText(), line: line, col: col}
		case scanner.Float:
			return token{kind: tokFloat, text: l.scan.TokenText(), line: line, col: col}
		case scanner.EOF:
			return token{kind: tokEOF, line: line, col: col}
		default:
			return token{kind: tokPunct, text: string(tk), line: line, col: col}
		}
	}
}

func (l *lexer) skipIgnored() {
	for {
		r := l.scan.Peek()
		switch {
		case r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r':
			l.scan.Next()
		case r == '#':
			for r != '\n' && r != scanner.EOF {
				r = l.scan.Next()
			}
		default:
			return
		}
	}
}

func isPunct(r rune) bool {
	switch r {
	case '{', '}', '(', ')', '[', ']', ':', '!', '=', '@', '.':
		return true
	}
	return false
}

func unquote(raw string) string {
	if len(raw) >= 2 {
		raw = raw[1 : len(raw)-1]
	}
	var b strings.Builder
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			i++
			switch raw[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(raw[i])
			}
			continue
		}
		b.WriteByte(raw[i])
	}
	return b.String()
}
