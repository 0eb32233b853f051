package parser

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/source"
	"github.com/cwbudde/ctrc/internal/token"
)

// parseExpr is the entry point into the 13-level operator-precedence
// expression grammar: assignment is the loosest level,
// primary/postfix the tightest.
func (p *Parser) parseExpr() ast.Expr {
	return p.parseAssignment()
}

var compoundAssignOps = map[token.Kind]string{
	token.ASSIGN: "=", token.PLUSEQ: "+=", token.MINUSEQ: "-=",
	token.STAREQ: "*=", token.SLASHEQ: "/=",
}

func (p *Parser) parseAssignment() ast.Expr {
	left := p.parseRange()
	if op, ok := compoundAssignOps[p.cur.Kind]; ok {
		start := left.Pos()
		p.advance()
		value := p.parseAssignment()
		return &ast.AssignExpr{
			ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()},
			Target:   left, Operator: op, Value: value,
		}
	}
	return left
}

func (p *Parser) parseRange() ast.Expr {
	left := p.parseLogicalOr()
	if p.at(token.DOTDOT) || p.at(token.DOTDOTEQ) {
		start := left.Pos()
		inclusive := p.at(token.DOTDOTEQ)
		p.advance()
		high := p.parseLogicalOr()
		return &ast.RangeExpr{
			ExprBase:  ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()},
			Low:       left, High: high, Inclusive: inclusive,
		}
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.at(token.OROR) {
		start := left.Pos()
		p.advance()
		right := p.parseLogicalAnd()
		left = p.binary(start, left, "||", right)
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseEquality()
	for p.at(token.ANDAND) {
		start := left.Pos()
		p.advance()
		right := p.parseEquality()
		left = p.binary(start, left, "&&", right)
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseOrdering()
	for p.at(token.EQ) || p.at(token.NE) {
		op := p.cur.Kind
		start := left.Pos()
		p.advance()
		right := p.parseOrdering()
		left = p.binary(start, left, opText(op), right)
	}
	return left
}

func (p *Parser) parseOrdering() ast.Expr {
	left := p.parseBitwiseOr()
	for p.at(token.LT) || p.at(token.GT) || p.at(token.LE) || p.at(token.GE) {
		op := p.cur.Kind
		start := left.Pos()
		p.advance()
		right := p.parseBitwiseOr()
		left = p.binary(start, left, opText(op), right)
	}
	return left
}

func (p *Parser) parseBitwiseOr() ast.Expr {
	left := p.parseBitwiseXor()
	for p.at(token.PIPE) {
		start := left.Pos()
		p.advance()
		right := p.parseBitwiseXor()
		left = p.binary(start, left, "|", right)
	}
	return left
}

func (p *Parser) parseBitwiseXor() ast.Expr {
	left := p.parseBitwiseAnd()
	for p.at(token.CARET) {
		start := left.Pos()
		p.advance()
		right := p.parseBitwiseAnd()
		left = p.binary(start, left, "^", right)
	}
	return left
}

func (p *Parser) parseBitwiseAnd() ast.Expr {
	left := p.parseShift()
	for p.at(token.AMP) {
		start := left.Pos()
		p.advance()
		right := p.parseShift()
		left = p.binary(start, left, "&", right)
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAdditive()
	for p.at(token.SHL) || p.at(token.SHR) {
		op := p.cur.Kind
		start := left.Pos()
		p.advance()
		right := p.parseAdditive()
		left = p.binary(start, left, opText(op), right)
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.cur.Kind
		start := left.Pos()
		p.advance()
		right := p.parseMultiplicative()
		left = p.binary(start, left, opText(op), right)
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseExponent()
	for p.at(token.STAR) || p.at(token.SLASH) || p.at(token.PERCENT) {
		op := p.cur.Kind
		start := left.Pos()
		p.advance()
		right := p.parseExponent()
		left = p.binary(start, left, opText(op), right)
	}
	return left
}

// parseExponent is right-associative, unlike every other binary level.
func (p *Parser) parseExponent() ast.Expr {
	left := p.parseUnaryExpr()
	if p.at(token.STARSTAR) {
		start := left.Pos()
		p.advance()
		right := p.parseExponent()
		return p.binary(start, left, "**", right)
	}
	return left
}

func (p *Parser) binary(start source.Position, left ast.Expr, op string, right ast.Expr) ast.Expr {
	return &ast.BinaryExpr{
		ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()},
		Left:     left, Operator: op, Right: right,
	}
}

var opTextTable = map[token.Kind]string{
	token.EQ: "==", token.NE: "!=", token.LT: "<", token.GT: ">", token.LE: "<=", token.GE: ">=",
	token.PLUS: "+", token.MINUS: "-", token.STAR: "*", token.SLASH: "/", token.PERCENT: "%",
	token.SHL: "<<", token.SHR: ">>",
}

func opText(k token.Kind) string { return opTextTable[k] }

// parseUnaryExpr parses a prefix operator or falls through to postfix/primary.
// Also used directly by pattern.go to parse literal/range-pattern bounds
// without risking struct-literal ambiguity.
func (p *Parser) parseUnaryExpr() ast.Expr {
	start := p.cur.Pos
	switch p.cur.Kind {
	case token.MINUS, token.NOT, token.TILDE:
		op := opUnaryText(p.cur.Kind)
		p.advance()
		operand := p.parseUnaryExpr()
		return &ast.UnaryExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Operator: op, Operand: operand}
	case token.AMP:
		p.advance()
		mut := false
		if p.at(token.MUT) {
			mut = true
			p.advance()
		}
		operand := p.parseUnaryExpr()
		return &ast.UnaryExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Operator: "&", Mut: mut, Operand: operand}
	case token.STAR:
		p.advance()
		operand := p.parseUnaryExpr()
		return &ast.UnaryExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Operator: "*", Operand: operand}
	default:
		return p.parsePostfix()
	}
}

func opUnaryText(k token.Kind) string {
	switch k {
	case token.MINUS:
		return "-"
	case token.NOT:
		return "!"
	case token.TILDE:
		return "~"
	}
	return ""
}

// parsePostfix parses a primary expression followed by `.name`, `(args)`,
// `[index]`, `?`, or `as Type` in any combination.
func (p *Parser) parsePostfix() ast.Expr {
	start := p.cur.Pos
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(token.COLONCOLON):
			p.advance()
			variant := p.expect(token.IDENT).Text
			id, ok := expr.(*ast.Identifier)
			if !ok {
				p.errorf("'::' must follow a bare type name")
				continue
			}
			expr = &ast.PathExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, TypeName: id.Name, Name: variant}
		case p.at(token.DOT):
			p.advance()
			name := p.expect(token.IDENT).Text
			expr = &ast.MemberExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Target: expr, Name: name}
		case p.at(token.LPAREN):
			p.advance()
			var args []ast.Expr
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				args = append(args, p.parseExpr())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
			expr = &ast.CallExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Callee: expr, Args: args}
		case p.at(token.LBRACKET):
			p.advance()
			idx := p.parseExpr()
			p.expect(token.RBRACKET)
			expr = &ast.IndexExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Target: expr, Index: idx}
		case p.at(token.QUESTION):
			p.advance()
			expr = &ast.TryExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Value: expr}
		case p.at(token.AS):
			p.advance()
			typ := p.parseType()
			expr = &ast.CastExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Value: expr, Type: typ}
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() ast.Expr {
	start := p.cur.Pos

	switch p.cur.Kind {
	case token.INT:
		tok := p.cur
		p.advance()
		v, _ := tok.Literal.(int64)
		return &ast.IntLiteral{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}, Value: v, Raw: tok.Text}
	case token.FLOAT:
		tok := p.cur
		p.advance()
		v, _ := tok.Literal.(float64)
		return &ast.FloatLiteral{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}, Value: v, Raw: tok.Text}
	case token.STRING:
		tok := p.cur
		p.advance()
		v, _ := tok.Literal.(string)
		return &ast.StringLiteral{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}, Value: v}
	case token.CHAR:
		tok := p.cur
		p.advance()
		v, _ := tok.Literal.(rune)
		return &ast.CharLiteral{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}, Value: v}
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}, Value: false}
	case token.NIL:
		p.advance()
		return &ast.NilLiteral{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}}
	case token.SELF:
		p.advance()
		return &ast.SelfExpr{ExprBase: ast.ExprBase{Position: start, Eid: p.nextExprID()}}
	case token.OLD:
		p.advance()
		p.expect(token.LPAREN)
		inner := p.parseExpr()
		p.expect(token.RPAREN)
		return &ast.OldExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Value: inner}
	case token.FORALL:
		return p.parseQuantifier(start, true)
	case token.EXISTS:
		return p.parseQuantifier(start, false)
	case token.LBRACE:
		return p.parseBlockExpr()
	case token.IF:
		return p.parseIfExpr()
	case token.MATCH:
		return p.parseMatchExpr()
	case token.PIPE:
		return p.parseLambdaExpr()
	case token.LBRACKET:
		return p.parseArrayLiteral(start)
	case token.LPAREN:
		return p.parseParenOrTuple(start)
	case token.IDENT:
		return p.parseIdentOrStructLiteral(start)
	default:
		p.errorf("expected an expression, got %s %q", p.cur.Kind, p.cur.Text)
		tok := p.cur
		p.advance()
		return &ast.Identifier{ExprBase: ast.ExprBase{Position: tok.Pos, Eid: p.nextExprID()}, Name: tok.Text}
	}
}

func (p *Parser) parseQuantifier(start source.Position, isForall bool) ast.Expr {
	p.advance() // consume 'forall'/'exists'
	var bindings []ast.QuantBinding
	for {
		name := p.expect(token.IDENT).Text
		b := ast.QuantBinding{Name: name}
		if p.at(token.IN) {
			p.advance()
			b.Collection = p.parseRange()
		}
		bindings = append(bindings, b)
		if p.at(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.COLON)
	cond := p.parseExpr()
	pos := span(start, p.lastEnd())
	id := p.nextExprID()
	if isForall {
		return &ast.ForallExpr{ExprBase: ast.ExprBase{Position: pos, Eid: id}, Bindings: bindings, Cond: cond}
	}
	return &ast.ExistsExpr{ExprBase: ast.ExprBase{Position: pos, Eid: id}, Bindings: bindings, Cond: cond}
}

// parseBlockExpr parses `{ stmt; stmt; ...; [trailingExpr] }` as an
// expression; the trailing expression (if present, with no following `;`)
// becomes the block's value.
func (p *Parser) parseBlockExpr() *ast.BlockExpr {
	start := p.cur.Pos
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	var trailer ast.Expr
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if isStmtBoundaryDecl(p.cur.Kind) {
			stmts = append(stmts, p.parseStmt())
			continue
		}
		exprStart := p.cur.Pos
		e := p.parseExpr()
		if p.at(token.SEMI) {
			p.advance()
			stmts = append(stmts, &ast.ExprStmt{StmtBase: ast.StmtBase{Position: span(exprStart, p.lastEnd())}, Expr: e})
			continue
		}
		if p.at(token.RBRACE) {
			trailer = e
			break
		}
		stmts = append(stmts, &ast.ExprStmt{StmtBase: ast.StmtBase{Position: span(exprStart, p.lastEnd())}, Expr: e})
	}
	p.expect(token.RBRACE)
	return &ast.BlockExpr{
		ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()},
		Stmts:    stmts, Trailer: trailer,
	}
}

func isStmtBoundaryDecl(k token.Kind) bool {
	switch k {
	case token.LET, token.IF, token.MATCH, token.WHILE, token.FOR, token.RETURN, token.LBRACE:
		return true
	}
	return false
}

func (p *Parser) parseIfExpr() ast.Expr {
	start := p.cur.Pos
	p.advance() // 'if'
	prevGuard := p.noStructLiteral
	p.noStructLiteral = true
	cond := p.parseExpr()
	p.noStructLiteral = prevGuard
	then := ast.Expr(p.parseBlockExpr())
	var els ast.Expr
	if p.at(token.ELSE) {
		p.advance()
		if p.at(token.IF) {
			els = p.parseIfExpr()
		} else {
			els = p.parseBlockExpr()
		}
	}
	return &ast.IfExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseMatchExpr() ast.Expr {
	start := p.cur.Pos
	p.advance() // 'match'
	prevGuard := p.noStructLiteral
	p.noStructLiteral = true
	subject := p.parseExpr()
	p.noStructLiteral = prevGuard
	p.expect(token.LBRACE)
	var arms []ast.MatchArm
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		pat := p.parsePattern()
		var guard ast.Expr
		if p.at(token.IF) {
			p.advance()
			guard = p.parseExpr()
		}
		p.expect(token.FATARROW)
		body := p.parseExpr()
		arms = append(arms, ast.MatchArm{Pattern: pat, Guard: guard, Body: body})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.MatchExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Subject: subject, Arms: arms}
}

func (p *Parser) parseLambdaExpr() ast.Expr {
	start := p.cur.Pos
	p.expect(token.PIPE)
	var params []ast.Param
	for !p.at(token.PIPE) && !p.at(token.EOF) {
		mut := false
		if p.at(token.MUT) {
			mut = true
			p.advance()
		}
		name := p.expect(token.IDENT).Text
		var typ ast.TypeExpr
		if p.at(token.COLON) {
			p.advance()
			typ = p.parseType()
		}
		params = append(params, ast.Param{Name: name, Type: typ, Mut: mut})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.PIPE)
	var ret ast.TypeExpr
	if p.at(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	body := p.parseExpr()
	return &ast.LambdaExpr{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Params: params, ReturnType: ret, Body: body}
}

func (p *Parser) parseArrayLiteral(start source.Position) ast.Expr {
	p.advance() // '['
	var elems []ast.Expr
	for !p.at(token.RBRACKET) && !p.at(token.EOF) {
		elems = append(elems, p.parseExpr())
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayLiteral{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Elements: elems}
}

func (p *Parser) parseParenOrTuple(start source.Position) ast.Expr {
	p.advance() // '('
	if p.at(token.RPAREN) {
		p.advance()
		return &ast.TupleLiteral{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}}
	}
	first := p.parseExpr()
	if p.at(token.COMMA) {
		elems := []ast.Expr{first}
		for p.at(token.COMMA) {
			p.advance()
			if p.at(token.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		p.expect(token.RPAREN)
		return &ast.TupleLiteral{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Elements: elems}
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) parseIdentOrStructLiteral(start source.Position) ast.Expr {
	name := p.expect(token.IDENT).Text
	if p.at(token.LBRACE) && !p.noStructLiteral {
		return p.parseStructLiteral(start, name)
	}
	return &ast.Identifier{ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()}, Name: name}
}

func (p *Parser) parseStructLiteral(start source.Position, typeName string) ast.Expr {
	p.advance() // '{'
	var fields []ast.StructFieldInit
	var spread ast.Expr
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.DOTDOT) {
			p.advance()
			spread = p.parseExpr()
			if p.at(token.COMMA) {
				p.advance()
			}
			continue
		}
		fname := p.expect(token.IDENT).Text
		var val ast.Expr
		if p.at(token.COLON) {
			p.advance()
			val = p.parseExpr()
		} else {
			val = &ast.Identifier{ExprBase: ast.ExprBase{Position: p.lastEnd(), Eid: p.nextExprID()}, Name: fname}
		}
		fields = append(fields, ast.StructFieldInit{Name: fname, Value: val})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructLiteral{
		ExprBase: ast.ExprBase{Position: span(start, p.lastEnd()), Eid: p.nextExprID()},
		TypeName: typeName, Fields: fields, Spread: spread,
	}
}
