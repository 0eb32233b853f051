package parser

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/source"
	"github.com/cwbudde/ctrc/internal/token"
)

// parsePattern parses one match-arm pattern.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.cur.Pos

	switch {
	case p.at(token.UNDERSCORE):
		p.advance()
		return &ast.WildcardPattern{PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())}}

	case p.at(token.MUT):
		p.advance()
		name := p.expect(token.IDENT).Text
		return &ast.IdentPattern{PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())}, Name: name, Mut: true}

	case p.at(token.LPAREN):
		p.advance()
		var elems []ast.Pattern
		for !p.at(token.RPAREN) && !p.at(token.EOF) {
			elems = append(elems, p.parsePattern())
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		return &ast.TuplePattern{PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())}, Elements: elems}

	case p.at(token.MINUS), p.at(token.INT), p.at(token.FLOAT), p.at(token.STRING),
		p.at(token.CHAR), p.at(token.TRUE), p.at(token.FALSE), p.at(token.NIL):
		return p.parseLiteralOrRangePattern(start)

	case p.at(token.IDENT):
		return p.parseIdentOrStructOrEnumPattern(start)

	default:
		p.errorf("expected a pattern, got %s %q", p.cur.Kind, p.cur.Text)
		p.advance()
		return &ast.WildcardPattern{PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())}}
	}
}

func (p *Parser) parseLiteralOrRangePattern(start source.Position) ast.Pattern {
	lo := p.parseUnaryExpr()
	if p.at(token.DOTDOT) || p.at(token.DOTDOTEQ) {
		inclusive := p.at(token.DOTDOTEQ)
		p.advance()
		hi := p.parseUnaryExpr()
		return &ast.RangePattern{PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())}, Low: lo, High: hi, Inclusive: inclusive}
	}
	return &ast.LiteralPattern{PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())}, Value: lo}
}

func (p *Parser) parseIdentOrStructOrEnumPattern(start source.Position) ast.Pattern {
	first := p.expect(token.IDENT).Text

	if p.at(token.COLONCOLON) {
		p.advance()
		variant := p.expect(token.IDENT).Text
		var fields []ast.Pattern
		if p.at(token.LPAREN) {
			p.advance()
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				fields = append(fields, p.parsePattern())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		return &ast.EnumVariantPattern{
			PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())},
			TypeName:    first, Variant: variant, Fields: fields,
		}
	}

	if p.at(token.LBRACE) && !p.noStructLiteral {
		p.advance()
		var fields []ast.StructFieldPattern
		rest := false
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			if p.at(token.DOTDOT) {
				p.advance()
				rest = true
				break
			}
			fname := p.expect(token.IDENT).Text
			var sub ast.Pattern
			if p.at(token.COLON) {
				p.advance()
				sub = p.parsePattern()
			}
			fields = append(fields, ast.StructFieldPattern{Name: fname, Pattern: sub})
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
		return &ast.StructPattern{
			PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())},
			TypeName:    first, Fields: fields, Rest: rest,
		}
	}

	// Bare identifier binding. Matching against a named constant is not
	// supported and ranges use literal bounds only, so a bare IDENT is
	// always a binding here.
	return &ast.IdentPattern{PatternBase: ast.PatternBase{Position: span(start, p.lastEnd())}, Name: first}
}
