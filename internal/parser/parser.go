// Package parser implements the tree builder: a recursive-
// descent parser with operator-precedence expression parsing that recovers
// from errors by synchronizing to the next declaration boundary instead of
// aborting.
package parser

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/lexer"
	"github.com/cwbudde/ctrc/internal/source"
	"github.com/cwbudde/ctrc/internal/token"
)

// Parser consumes a token stream (via a Lexer) and builds a syntax tree,
// reporting diagnostics to sink as it goes.
type Parser struct {
	lx   *lexer.Lexer
	sink *diag.Sink
	file string

	cur  token.Token
	peek token.Token
	prev token.Token

	exprSeq ast.ExprID

	// noStructLiteral suppresses bare `Name { ... }` struct-literal parsing
	// while parsing the condition of `if`/`while`/`for`/`match`, resolving
	// the classic grammar ambiguity with the following block.
	noStructLiteral bool
}

// New creates a Parser over lx, reporting to sink.
func New(lx *lexer.Lexer, sink *diag.Sink, file string) *Parser {
	p := &Parser{lx: lx, sink: sink, file: file}
	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.prev = p.cur
	p.cur = p.peek
	p.peek = p.lx.NextToken()
}

func (p *Parser) nextExprID() ast.ExprID {
	p.exprSeq++
	return p.exprSeq
}

func (p *Parser) at(k token.Kind) bool { return p.cur.Kind == k }
func (p *Parser) peekAt(k token.Kind) bool { return p.peek.Kind == k }

// expect consumes the current token if it matches k, otherwise reports an
// "expected X got Y" diagnostic. On mismatch it still advances past the
// unexpected token (unless already at EOF) so that list-parsing loops over
// a missing delimiter always make progress instead of spinning forever.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.cur.Kind != k {
		p.errorf("expected %s, got %s %q", k, p.cur.Kind, p.cur.Text)
		bad := token.Token{Kind: token.ILLEGAL, Pos: p.cur.Pos}
		if p.cur.Kind != token.EOF {
			p.advance()
		}
		return bad
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) errorf(format string, args ...any) {
	p.sink.Errorf(diag.Parser, p.cur.Pos, format, args...)
}

// lastEnd is the end position of the most recently consumed token, used as
// the closing edge of a span() call.
func (p *Parser) lastEnd() source.Position { return p.prev.Pos }

// span builds a Position covering from start through the end of end.
func span(start source.Position, end source.Position) source.Position {
	return source.Position{
		File:   start.File,
		Line:   start.Line,
		Column: start.Column,
		Offset: start.Offset,
		Length: end.Offset + end.Length - start.Offset,
	}
}

// declStartTokens begin a new top-level declaration; synchronize() stops
// before one of these.
var declStartTokens = map[token.Kind]bool{
	token.FN: true, token.LET: true, token.TYPE: true, token.STRUCT: true,
	token.ENUM: true, token.TRAIT: true, token.IMPL: true, token.CONTRACT: true,
	token.INTENT: true, token.EFFECT: true, token.CAPABILITY: true,
	token.IMPORT: true, token.EXPORT: true, token.AT: true, token.EOF: true,
}

// synchronize advances past the next semicolon, or up to (not past) the
// next token that begins a declaration, whichever comes first.
func (p *Parser) synchronize() {
	for {
		if p.cur.Kind == token.SEMI {
			p.advance()
			return
		}
		if declStartTokens[p.cur.Kind] {
			return
		}
		if p.cur.Kind == token.EOF {
			return
		}
		p.advance()
	}
}

// ParseProgram parses a whole compilation unit.
func (p *Parser) ParseProgram() *ast.Program {
	start := p.cur.Pos
	prog := &ast.Program{}
	for p.cur.Kind != token.EOF {
		before := p.cur
		d := p.parseDecl()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		}
		if p.cur == before {
			// Safety net: parseDecl must always make progress.
			p.advance()
		}
	}
	last := p.prev.Pos
	if len(prog.Decls) == 0 {
		last = start
	}
	prog.Position = span(start, last)
	return prog
}

// parseDecl parses one top-level declaration, recovering on error.
func (p *Parser) parseDecl() ast.Decl {
	start := p.cur.Pos

	if p.at(token.EXPORT) {
		p.advance()
		inner := p.parseDecl()
		if inner == nil {
			return nil
		}
		return &ast.ExportDecl{DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())}, Inner: inner}
	}

	annotations := p.parseAnnotations()

	switch p.cur.Kind {
	case token.FN, token.PURE:
		return p.parseFuncDecl(start, annotations)
	case token.LET:
		return p.parseVarDecl(start, false)
	case token.TYPE:
		return p.parseTypeAliasDecl(start)
	case token.STRUCT:
		return p.parseStructDecl(start)
	case token.ENUM:
		return p.parseEnumDecl(start)
	case token.TRAIT:
		return p.parseTraitDecl(start)
	case token.IMPL:
		return p.parseImplDecl(start)
	case token.CONTRACT:
		return p.parseContractDecl(start)
	case token.INTENT:
		return p.parseIntentDecl(start)
	case token.EFFECT:
		return p.parseEffectDecl(start)
	case token.CAPABILITY:
		return p.parseCapabilityDecl(start)
	case token.IMPORT:
		return p.parseImportDecl(start)
	default:
		p.errorf("expected a declaration, got %s %q", p.cur.Kind, p.cur.Text)
		p.synchronize()
		return nil
	}
}

// parseAnnotations consumes zero or more `@...` annotations preceding a
// declaration, field, or loop.
func (p *Parser) parseAnnotations() []ast.Annotation {
	var out []ast.Annotation
	for p.at(token.AT) {
		out = append(out, p.parseAnnotation())
	}
	return out
}

func (p *Parser) parseAnnotation() ast.Annotation {
	start := p.cur.Pos
	p.advance() // consume '@'
	name := p.cur.Text
	switch p.cur.Kind {
	case token.IDENT, token.REQUIRES, token.ENSURES, token.INVARIANT,
		token.EFFECT, token.CAPABILITY, token.CONTRACT, token.INTENT:
		p.advance()
	default:
		p.errorf("expected an annotation name after '@'")
		p.synchronize()
		return &ast.VerifyLevelAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}}
	}

	// A clause expression is usually followed by a `{` body, so struct
	// literals are suppressed the same way as in an `if` head.
	prevGuard := p.noStructLiteral
	p.noStructLiteral = true
	defer func() { p.noStructLiteral = prevGuard }()

	switch name {
	case "requires":
		cond := p.parseExpr()
		return &ast.RequiresAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Cond: cond}
	case "ensures":
		cond := p.parseExpr()
		return &ast.EnsuresAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Cond: cond}
	case "invariant":
		cond := p.parseExpr()
		return &ast.InvariantAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Cond: cond}
	case "effect":
		p.expect(token.LBRACKET)
		var names []string
		for !p.at(token.RBRACKET) && !p.at(token.EOF) {
			names = append(names, p.expect(token.IDENT).Text)
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACKET)
		return &ast.EffectSetAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Names: names}
	case "capability":
		capName := p.expect(token.IDENT).Text
		var fields []ast.StructFieldInit
		if p.at(token.LBRACE) {
			p.advance()
			for !p.at(token.RBRACE) && !p.at(token.EOF) {
				fname := p.expect(token.IDENT).Text
				p.expect(token.COLON)
				val := p.parseExpr()
				fields = append(fields, ast.StructFieldInit{Name: fname, Value: val})
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RBRACE)
		}
		return &ast.CapabilitySpecAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Name: capName, Fields: fields}
	case "contract":
		cname := p.expect(token.IDENT).Text
		args := p.parseOptionalGenericArgs()
		return &ast.ContractRefAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Name: cname, Args: args}
	case "intent":
		iname := p.expect(token.IDENT).Text
		args := p.parseOptionalGenericArgs()
		return &ast.IntentRefAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Name: iname, Args: args}
	case "verify":
		p.expect(token.LPAREN)
		p.expect(token.IDENT) // "level"
		p.expect(token.COLON)
		level := p.expect(token.STRING).Text
		p.expect(token.RPAREN)
		return &ast.VerifyLevelAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}, Level: level}
	default:
		p.sink.Warnf(diag.Parser, start, "unknown annotation @%s ignored", name)
		return &ast.VerifyLevelAnno{AnnoBase: ast.AnnoBase{Position: span(start, p.lastEnd())}}
	}
}

func (p *Parser) parseOptionalGenericArgs() []ast.TypeExpr {
	if !p.at(token.LT) {
		return nil
	}
	p.advance()
	var args []ast.TypeExpr
	for !p.at(token.GT) && !p.at(token.EOF) {
		args = append(args, p.parseType())
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return args
}

// parseGenericParams parses an optional `<T: Bound + Bound2 = Default, ...>`
// generic parameter list following a type or function name.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.at(token.LT) {
		return nil
	}
	p.advance()
	var params []ast.GenericParam
	for !p.at(token.GT) && !p.at(token.EOF) {
		name := p.expect(token.IDENT).Text
		gp := ast.GenericParam{Name: name}
		if p.at(token.COLON) {
			p.advance()
			gp.Bounds = append(gp.Bounds, p.parseType())
			for p.at(token.PLUS) {
				p.advance()
				gp.Bounds = append(gp.Bounds, p.parseType())
			}
		}
		if p.at(token.ASSIGN) {
			p.advance()
			gp.Default = p.parseType()
		}
		params = append(params, gp)
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return params
}
