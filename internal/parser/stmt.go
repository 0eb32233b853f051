package parser

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/token"
)

// parseStmt parses one statement inside a block. Declaration-shaped
// keywords (let/if/match/while/for/return) and nested blocks dispatch to
// their dedicated statement node; everything else is an expression
// evaluated for effect.
func (p *Parser) parseStmt() ast.Stmt {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.LET:
		decl := p.parseVarDecl(start, true)
		return &ast.DeclStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Decl: decl}
	case token.IF:
		return p.parseIfStmt()
	case token.MATCH:
		return p.parseMatchStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForInStmt()
	case token.RETURN:
		return p.parseReturnStmt()
	case token.LBRACE:
		return p.parseBlockStmt()
	default:
		e := p.parseExpr()
		if p.at(token.SEMI) {
			p.advance()
		}
		return &ast.ExprStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Expr: e}
	}
}

// parseBlockStmt parses `{ stmt; stmt; ... }` used where only a statement
// (not a value-producing block) is expected.
func (p *Parser) parseBlockStmt() *ast.BlockStmt {
	start := p.cur.Pos
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(token.RBRACE)
	return &ast.BlockStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Stmts: stmts}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.cur.Pos
	p.advance() // 'if'
	prevGuard := p.noStructLiteral
	p.noStructLiteral = true
	cond := p.parseExpr()
	p.noStructLiteral = prevGuard
	then := p.parseBlockStmt()
	var els ast.Stmt
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			els = p.parseIfStmt()
		} else {
			els = p.parseBlockStmt()
		}
	}
	return &ast.IfStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.cur.Pos
	p.advance() // 'while'
	prevGuard := p.noStructLiteral
	p.noStructLiteral = true
	cond := p.parseExpr()
	p.noStructLiteral = prevGuard
	invariants := p.parseLoopInvariants()
	body := p.parseBlockStmt()
	return &ast.WhileStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Cond: cond, Invariants: invariants, Body: body}
}

func (p *Parser) parseForInStmt() ast.Stmt {
	start := p.cur.Pos
	p.advance() // 'for'
	binder := p.parsePattern()
	p.expect(token.IN)
	prevGuard := p.noStructLiteral
	p.noStructLiteral = true
	iterable := p.parseExpr()
	p.noStructLiteral = prevGuard
	invariants := p.parseLoopInvariants()
	body := p.parseBlockStmt()
	return &ast.ForInStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Binder: binder, Iterable: iterable, Invariants: invariants, Body: body}
}

func (p *Parser) parseLoopInvariants() []ast.InvariantAnno {
	var out []ast.InvariantAnno
	for _, a := range p.parseAnnotations() {
		if inv, ok := a.(*ast.InvariantAnno); ok {
			out = append(out, *inv)
		}
	}
	return out
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	start := p.cur.Pos
	p.advance() // 'match'
	prevGuard := p.noStructLiteral
	p.noStructLiteral = true
	subject := p.parseExpr()
	p.noStructLiteral = prevGuard
	p.expect(token.LBRACE)
	var arms []ast.MatchStmtArm
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.at(token.IF) {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.FATARROW)
		body := p.parseBlockStmt()
		arms = append(arms, ast.MatchStmtArm{Pattern: pat, Guard: guard, Body: body})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.MatchStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Subject: subject, Arms: arms}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.cur.Pos
	p.advance() // 'return'
	var value ast.Expr
	if !p.at(token.SEMI) && !p.at(token.RBRACE) {
		value = p.parseExpr()
	}
	if p.at(token.SEMI) {
		p.advance()
	}
	return &ast.ReturnStmt{StmtBase: ast.StmtBase{Position: span(start, p.lastEnd())}, Value: value}
}
