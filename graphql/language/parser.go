package language

import (
	"fmt"
	"strconv"
)

// ParseError is returned for document syntax errors.
type ParseError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("ParseError: %s (line %d, col %d)", e.Msg, e.Line, e.Col)
}

type parser struct {
	lex  *lexer
	tok  token
	peek *token
}

// Parse lexes and parses a GraphQL document into a Document AST.
func Parse(source string) (doc *Document, err error) {
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

	doc = &Document{Fragments: map[string]*FragmentDefinition{}}
	for p.tok.kind != tokEOF {
		if p.tok.kind == tokName && p.tok.text == "fragment" {
			f := p.parseFragmentDefinition()
			doc.Fragments[f.Name] = f
			continue
		}
		doc.Operations = append(doc.Operations, p.parseOperationDefinition())
	}
	return doc, nil
}

func (p *parser) advance() {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return
	}
	p.tok = p.lex.next()
}

func (p *parser) fail(format string, args ...interface{}) {
	panic(&ParseError{Line: p.tok.line, Col: p.tok.col, Msg: fmt.Sprintf(format, args...)})
}

func (p *parser) expectPunct(s string) {
	if p.tok.kind != tokPunct || p.tok.text != s {
		p.fail("expected %q, got %q", s, p.tok.text)
	}
	p.advance()
}

func (p *parser) atPunct(s string) bool {
	return p.tok.kind == tokPunct && p.tok.text == s
}

func (p *parser) expectName() string {
	if p.tok.kind != tokName {
		p.fail("expected name, got %q", p.tok.text)
	}
	name := p.tok.text
	p.advance()
	return name
}

func (p *parser) parseOperationDefinition() *OperationDefinition {
	op := &OperationDefinition{Kind: OperationQuery}

	if p.tok.kind == tokName && (p.tok.text == "query" || p.tok.text == "mutation") {
		op.Kind = OperationKind(p.tok.text)
		p.advance()
		if p.tok.kind == tokName {
			op.Name = p.tok.text
			p.advance()
		}
		if p.atPunct("(") {
			op.Variables = p.parseVariableDefinitions()
		}
	}

	op.Selection = p.parseSelectionSet()
	return op
}

func (p *parser) parseVariableDefinitions() []*VariableDefinition {
	p.expectPunct("(")
	var defs []*VariableDefinition
	for !p.atPunct(")") {
		p.expectPunct("$")
		name := p.expectName()
		p.expectPunct(":")
		typ := p.parseTypeRef()
		def := &VariableDefinition{Name: name, Type: typ}
		if p.atPunct("=") {
			p.advance()
			def.HasDefault = true
			def.Default = p.parseValue()
		}
		defs = append(defs, def)
	}
	p.expectPunct(")")
	return defs
}

func (p *parser) parseTypeRef() *TypeRef {
	var t *TypeRef
	if p.atPunct("[") {
		p.advance()
		inner := p.parseTypeRef()
		p.expectPunct("]")
		t = &TypeRef{List: inner}
	} else {
		t = &TypeRef{Name: p.expectName()}
	}
	if p.atPunct("!") {
		p.advance()
		t.NonNull = true
	}
	return t
}

func (p *parser) parseSelectionSet() *SelectionSet {
	p.expectPunct("{")
	set := &SelectionSet{}
	for !p.atPunct("}") {
		set.Items = append(set.Items, p.parseSelection())
	}
	p.expectPunct("}")
	return set
}

func (p *parser) parseSelection() Selection {
	if p.atPunct(".") {
		return p.parseFragmentUse()
	}

	name := p.expectName()
	alias := ""
	if p.atPunct(":") {
		p.advance()
		alias = name
		name = p.expectName()
	}

	fs := &FieldSelection{Alias: alias, Name: name}
	if p.atPunct("(") {
		fs.Arguments = p.parseArguments()
	}
	fs.Directives = p.parseDirectives()
	if p.atPunct("{") {
		fs.Selection = p.parseSelectionSet()
	}
	return fs
}

// parseFragmentUse handles both "...Name" and "... on Type { }" / "... { }".
// GraphQL's "..." is three dots; this lexer emits '.' as an individual
// punctuator, so three are consumed in a row.
func (p *parser) parseFragmentUse() Selection {
	for i := 0; i < 3; i++ {
		p.expectPunct(".")
	}

	if p.tok.kind == tokName && p.tok.text == "on" {
		p.advance()
		on := p.expectName()
		dirs := p.parseDirectives()
		sel := p.parseSelectionSet()
		return &InlineFragment{On: on, Directives: dirs, Selection: sel}
	}

	if p.atPunct("{") {
		dirs := p.parseDirectives()
		sel := p.parseSelectionSet()
		return &InlineFragment{Directives: dirs, Selection: sel}
	}

	name := p.expectName()
	dirs := p.parseDirectives()
	return &FragmentSpread{Name: name, Directives: dirs}
}

func (p *parser) parseFragmentDefinition() *FragmentDefinition {
	p.advance() // "fragment"
	name := p.expectName()
	if p.tok.kind != tokName || p.tok.text != "on" {
		p.fail("expected 'on' in fragment definition")
	}
	p.advance()
	on := p.expectName()
	sel := p.parseSelectionSet()
	return &FragmentDefinition{Name: name, On: on, Selection: sel}
}

func (p *parser) parseDirectives() []*Directive {
	var dirs []*Directive
	for p.atPunct("@") {
		p.advance()
		name := p.expectName()
		d := &Directive{Name: name}
		if p.atPunct("(") {
			d.Arguments = p.parseArguments()
		}
		dirs = append(dirs, d)
	}
	return dirs
}

func (p *parser) parseArguments() []*Argument {
	p.expectPunct("(")
	var args []*Argument
	for !p.atPunct(")") {
		name := p.expectName()
		p.expectPunct(":")
		args = append(args, &Argument{Name: name, Value: p.parseValue()})
	}
	p.expectPunct(")")
	return args
}

func (p *parser) parseValue() Value {
	switch {
	case p.tok.kind == tokDollar:
		p.advance()
		return ValueVariable{Name: p.expectName()}
	case p.tok.kind == tokInt:
		n, err := strconv.ParseInt(p.tok.text, 10, 64)
		if err != nil {
			p.fail("invalid integer %q", p.tok.text)
		}
		p.advance()
		return ValueInt{Value: n}
	case p.tok.kind == tokFloat:
		f, err := strconv.ParseFloat(p.tok.text, 64)
		if err != nil {
			p.fail("invalid float %q", p.tok.text)
		}
		p.advance()
		return ValueFloat{Value: f}
	case p.tok.kind == tokString:
		s := p.tok.text
		p.advance()
		return ValueString{Value: s}
	case p.tok.kind == tokName && p.tok.text == "true":
		p.advance()
		return ValueBool{Value: true}
	case p.tok.kind == tokName && p.tok.text == "false":
		p.advance()
		return ValueBool{Value: false}
	case p.tok.kind == tokName && p.tok.text == "null":
		p.advance()
		return ValueNull{}
	case p.tok.kind == tokName:
		name := p.tok.text
		p.advance()
		return ValueEnum{Value: name}
	case p.atPunct("["):
		p.advance()
		var vals []Value
		for !p.atPunct("]") {
			vals = append(vals, p.parseValue())
		}
		p.expectPunct("]")
		return ValueList{Values: vals}
	case p.atPunct("{"):
		p.advance()
		var fields []*Argument
		for !p.atPunct("}") {
			name := p.expectName()
			p.expectPunct(":")
			fields = append(fields, &Argument{Name: name, Value: p.parseValue()})
		}
		p.expectPunct("}")
		return ValueObject{Fields: fields}
	default:
		p.fail("unexpected token %q while parsing a value", p.tok.text)
		return nil
	}
}
