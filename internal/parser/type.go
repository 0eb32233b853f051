package parser

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/source"
	"github.com/cwbudde/ctrc/internal/token"
)

// primitiveTypeNames are the reserved primitive type spellings.
var primitiveTypeNames = map[string]bool{
	"Int": true, "Int8": true, "Int16": true, "Int32": true, "Int64": true,
	"UInt": true, "Float32": true, "Float64": true, "Bool": true,
	"Char": true, "String": true, "Void": true,
}

// parseType parses one syntactic type, including postfix `?` (OptionTypeExpr).
func (p *Parser) parseType() ast.TypeExpr {
	t := p.parseTypeNoOption()
	for p.at(token.QUESTION) {
		start := t.Pos()
		p.advance()
		t = &ast.OptionTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Inner: t}
	}
	return t
}

func (p *Parser) parseTypeNoOption() ast.TypeExpr {
	start := p.cur.Pos

	switch {
	case p.at(token.AMP):
		p.advance()
		mut := false
		if p.at(token.MUT) {
			mut = true
			p.advance()
		}
		inner := p.parseType()
		return &ast.RefTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Inner: inner, Mut: mut}

	case p.at(token.LBRACKET):
		p.advance()
		elem := p.parseType()
		var size *int
		if p.at(token.SEMI) {
			p.advance()
			n := p.expect(token.INT)
			if v, ok := n.Literal.(int64); ok {
				iv := int(v)
				size = &iv
			}
		}
		p.expect(token.RBRACKET)
		return &ast.ArrayTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Elem: elem, Size: size}

	case p.at(token.LPAREN):
		p.advance()
		var elems []ast.TypeExpr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parseType())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		if len(elems) == 1 {
			return elems[0]
		}
		return &ast.TupleTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Elems: elems}

	case p.at(token.FN):
		p.advance()
		p.expect(token.LPAREN)
		var params []ast.TypeExpr
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			params = append(params, p.parseType())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		var ret ast.TypeExpr
		if p.at(token.ARROW) {
			p.advance()
			ret = p.parseType()
		}
		var effects []string
		if p.at(token.AT) {
			if es, ok := p.parseAnnotation().(*ast.EffectSetAnno); ok {
				effects = es.Names
			}
		}
		return &ast.FuncTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Params: params, Return: ret, Effects: effects}

	case p.at(token.SELF_TYPE):
		p.advance()
		return &ast.NamedTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Path: []string{"Self"}}

	case p.at(token.IDENT):
		return p.parseNamedOrGenericType(start)

	default:
		p.errorf("expected a type, got %s %q", p.cur.Kind, p.cur.Text)
		tok := p.cur
		p.advance()
		return &ast.NamedTypeExpr{TypeBase: ast.TypeBase{Position: tok.Pos}, Path: []string{tok.Text}}
	}
}

func (p *Parser) parseNamedOrGenericType(start source.Position) ast.TypeExpr {
	path := []string{p.expect(token.IDENT).Text}
	for p.at(token.COLONCOLON) {
		p.advance()
		path = append(path, p.expect(token.IDENT).Text)
	}

	if path[len(path)-1] == "Never" && len(path) == 1 {
		return &ast.NeverTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}}
	}

	if p.at(token.LT) {
		args := p.parseOptionalGenericArgs()
		if len(path) == 1 && path[0] == "Result" && len(args) == 2 {
			return &ast.ResultTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Ok: args[0], Err: args[1]}
		}
		base := &ast.NamedTypeExpr{TypeBase: ast.TypeBase{Position: span(start, start)}, Path: path}
		return &ast.GenericTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Base: base, Args: args}
	}

	if len(path) == 1 && primitiveTypeNames[path[0]] {
		return &ast.PrimitiveTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Name: path[0]}
	}
	return &ast.NamedTypeExpr{TypeBase: ast.TypeBase{Position: span(start, p.lastEnd())}, Path: path}
}
