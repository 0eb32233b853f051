package parser

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/source"
	"github.com/cwbudde/ctrc/internal/token"
)

// parseFuncDecl parses `[pure] fn name<Generics>(params) [-> Ret] { body }`.
func (p *Parser) parseFuncDecl(start source.Position, annotations []ast.Annotation) *ast.FuncDecl {
	pure := false
	if p.at(token.PURE) {
		pure = true
		p.advance()
	}
	p.expect(token.FN)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.at(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	// Contract clauses may follow the signature before the body.
	annotations = append(annotations, p.parseAnnotations()...)

	var body *ast.BlockExpr
	if p.at(token.LBRACE) {
		body = p.parseBlockExpr()
	} else {
		p.expect(token.SEMI)
	}
	return &ast.FuncDecl{
		DeclBase:    ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:        name,
		Generics:    generics,
		Params:      params,
		ReturnType:  ret,
		Annotations: annotations,
		Body:        body,
		Pure:        pure,
	}
}

// parseParamList parses `(self[: Type], name: Type, mut name2: Type2, ...)`.
func (p *Parser) parseParamList() []ast.Param {
	p.expect(token.LPAREN)
	var params []ast.Param
	for !p.at(token.RPAREN) && !p.at(token.EOF) && !p.at(token.LBRACE) && !declStartTokens[p.cur.Kind] {
		if p.at(token.SELF) {
			p.advance()
			var stype ast.TypeExpr
			if p.at(token.COLON) {
				p.advance()
				stype = p.parseType()
			}
			params = append(params, ast.Param{Name: "self", Type: stype})
		} else {
			mut := false
			if p.at(token.MUT) {
				mut = true
				p.advance()
			}
			pname := p.expect(token.IDENT).Text
			var ptype ast.TypeExpr
			if p.at(token.COLON) {
				p.advance()
				// Mutability may be spelled on the type side (`x: mut Int`)
				// as well as before the name.
				if p.at(token.MUT) {
					mut = true
					p.advance()
				}
				ptype = p.parseType()
			}
			params = append(params, ast.Param{Name: pname, Type: ptype, Mut: mut})
		}
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseVarDecl parses `let [mut] name[: Type] [= init];`, usable both at the
// top level and (via local=true) as a statement inside a block.
func (p *Parser) parseVarDecl(start source.Position, local bool) *ast.VarDecl {
	p.expect(token.LET)
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
	var init ast.Expr
	if p.at(token.ASSIGN) {
		p.advance()
		init = p.parseExpr()
	}
	if !local {
		p.expect(token.SEMI)
	} else if p.at(token.SEMI) {
		p.advance()
	}
	return &ast.VarDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:     name,
		Mut:      mut,
		Type:     typ,
		Init:     init,
	}
}

func (p *Parser) parseTypeAliasDecl(start source.Position) *ast.TypeAliasDecl {
	p.expect(token.TYPE)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	p.expect(token.ASSIGN)
	target := p.parseType()
	p.expect(token.SEMI)
	return &ast.TypeAliasDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:     name,
		Generics: generics,
		Target:   target,
	}
}

// parseStructDecl parses `struct Name<Generics> { field: Type [@anno...] [, ...], @invariant ... }`.
func (p *Parser) parseStructDecl(start source.Position) *ast.StructDecl {
	p.expect(token.STRUCT)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	var fields []ast.StructField
	var invariants []ast.InvariantAnno
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if p.at(token.AT) {
			annos := p.parseAnnotations()
			for _, a := range annos {
				if inv, ok := a.(*ast.InvariantAnno); ok {
					invariants = append(invariants, *inv)
				}
			}
			if p.at(token.COMMA) {
				p.advance()
			}
			continue
		}
		fieldAnnos := p.parseAnnotations()
		fname := p.expect(token.IDENT).Text
		p.expect(token.COLON)
		ftype := p.parseType()
		var def ast.Expr
		if p.at(token.ASSIGN) {
			p.advance()
			def = p.parseExpr()
		}
		fields = append(fields, ast.StructField{Name: fname, Type: ftype, Default: def, Annotations: fieldAnnos})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.StructDecl{
		DeclBase:   ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:       name,
		Generics:   generics,
		Fields:     fields,
		Invariants: invariants,
	}
}

// parseEnumDecl parses `enum Name<Generics> { Variant1, Variant2(T1, T2), ... }`.
func (p *Parser) parseEnumDecl(start source.Position) *ast.EnumDecl {
	p.expect(token.ENUM)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	var variants []ast.EnumVariant
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		vname := p.expect(token.IDENT).Text
		var fields []ast.TypeExpr
		if p.at(token.LPAREN) {
			p.advance()
			for !p.at(token.RPAREN) && !p.at(token.EOF) {
				fields = append(fields, p.parseType())
				if p.at(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
		}
		variants = append(variants, ast.EnumVariant{Name: vname, Fields: fields})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.EnumDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:     name,
		Generics: generics,
		Variants: variants,
	}
}

// parseTraitMethodSig parses one method signature inside a trait or effect
// body: `fn name<Generics>(params) [-> Ret] [@effect[...]];`.
func (p *Parser) parseTraitMethodSig() ast.TraitMethodSig {
	p.expect(token.FN)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.at(token.ARROW) {
		p.advance()
		ret = p.parseType()
	}
	var effects []string
	for p.at(token.AT) {
		a := p.parseAnnotation()
		if es, ok := a.(*ast.EffectSetAnno); ok {
			effects = append(effects, es.Names...)
		}
	}
	p.expect(token.SEMI)
	return ast.TraitMethodSig{Name: name, Generics: generics, Params: params, ReturnType: ret, Effects: effects}
}

// parseTraitDecl parses `trait Name<Generics>[: Super1 + Super2] { methods... }`.
func (p *Parser) parseTraitDecl(start source.Position) *ast.TraitDecl {
	p.expect(token.TRAIT)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	var supers []string
	if p.at(token.COLON) {
		p.advance()
		supers = append(supers, p.expect(token.IDENT).Text)
		for p.at(token.PLUS) {
			p.advance()
			supers = append(supers, p.expect(token.IDENT).Text)
		}
	}
	p.expect(token.LBRACE)
	var methods []ast.TraitMethodSig
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		methods = append(methods, p.parseTraitMethodSig())
	}
	p.expect(token.RBRACE)
	return &ast.TraitDecl{
		DeclBase:    ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:        name,
		Generics:    generics,
		SuperTraits: supers,
		Methods:     methods,
	}
}

// parseImplDecl parses `impl [Trait for] Type<Generics> { methods... }`.
func (p *Parser) parseImplDecl(start source.Position) *ast.ImplDecl {
	p.expect(token.IMPL)
	generics := p.parseGenericParams()
	first := p.parseType()
	var traitName string
	var forType ast.TypeExpr
	if p.at(token.FOR) {
		p.advance()
		if named, ok := first.(*ast.NamedTypeExpr); ok && len(named.Path) == 1 {
			traitName = named.Path[0]
		}
		forType = p.parseType()
	} else {
		forType = first
	}
	p.expect(token.LBRACE)
	var methods []*ast.FuncDecl
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		methodStart := p.cur.Pos
		annos := p.parseAnnotations()
		methods = append(methods, p.parseFuncDecl(methodStart, annos))
	}
	p.expect(token.RBRACE)
	return &ast.ImplDecl{
		DeclBase:  ast.DeclBase{Position: span(start, p.lastEnd())},
		TraitName: traitName,
		ForType:   forType,
		Generics:  generics,
		Methods:   methods,
	}
}

// parseContractDecl parses `contract Name<Generics> { @requires ...; @ensures ...; @invariant ...; }`.
func (p *Parser) parseContractDecl(start source.Position) *ast.ContractDecl {
	p.expect(token.CONTRACT)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	clauses := p.parseAnnotations()
	p.expect(token.RBRACE)
	return &ast.ContractDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:     name,
		Generics: generics,
		Clauses:  clauses,
	}
}

// parseIntentDecl parses `intent Name<Generics> { @ensures ...; }`.
func (p *Parser) parseIntentDecl(start source.Position) *ast.IntentDecl {
	p.expect(token.INTENT)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	var ensures []ast.EnsuresAnno
	for _, a := range p.parseAnnotations() {
		if e, ok := a.(*ast.EnsuresAnno); ok {
			ensures = append(ensures, *e)
		}
	}
	p.expect(token.RBRACE)
	return &ast.IntentDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:     name,
		Generics: generics,
		Ensures:  ensures,
	}
}

// parseEffectDecl parses `effect Name<Generics> { method signatures... }`.
func (p *Parser) parseEffectDecl(start source.Position) *ast.EffectDecl {
	p.expect(token.EFFECT)
	name := p.expect(token.IDENT).Text
	generics := p.parseGenericParams()
	p.expect(token.LBRACE)
	var methods []ast.TraitMethodSig
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		methods = append(methods, p.parseTraitMethodSig())
	}
	p.expect(token.RBRACE)
	return &ast.EffectDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:     name,
		Generics: generics,
		Methods:  methods,
	}
}

// parseCapabilityDecl parses `capability Name { field: Type, ... }`.
func (p *Parser) parseCapabilityDecl(start source.Position) *ast.CapabilityDecl {
	p.expect(token.CAPABILITY)
	name := p.expect(token.IDENT).Text
	p.expect(token.LBRACE)
	var fields []ast.CapabilityField
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		fname := p.expect(token.IDENT).Text
		p.expect(token.COLON)
		ftype := p.parseType()
		fields = append(fields, ast.CapabilityField{Name: fname, Type: ftype})
		if p.at(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return &ast.CapabilityDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Name:     name,
		Fields:   fields,
	}
}

// parseImportDecl parses `import a.b.c [{ name [as alias], ... } | .*];`.
func (p *Parser) parseImportDecl(start source.Position) *ast.ImportDecl {
	p.expect(token.IMPORT)
	var path []string
	path = append(path, p.expect(token.IDENT).Text)
	for p.at(token.DOT) {
		p.advance()
		if p.at(token.STAR) {
			p.advance()
			p.expect(token.SEMI)
			return &ast.ImportDecl{
				DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
				Path:     path,
				Wildcard: true,
			}
		}
		path = append(path, p.expect(token.IDENT).Text)
	}
	var items []ast.ImportItem
	if p.at(token.LBRACE) {
		p.advance()
		for !p.at(token.RBRACE) && !p.at(token.EOF) {
			iname := p.expect(token.IDENT).Text
			alias := ""
			if p.at(token.AS) {
				p.advance()
				alias = p.expect(token.IDENT).Text
			}
			items = append(items, ast.ImportItem{Name: iname, Alias: alias})
			if p.at(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RBRACE)
	}
	p.expect(token.SEMI)
	return &ast.ImportDecl{
		DeclBase: ast.DeclBase{Position: span(start, p.lastEnd())},
		Path:     path,
		Items:    items,
	}
}
