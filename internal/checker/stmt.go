package checker

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/types"
)

func (c *Checker) checkBlockExpr(scope *Scope, be *ast.BlockExpr, fnRet types.Type) types.Type {
	block := NewScope(scope, ScopeBlock)
	for _, s := range be.Stmts {
		c.checkStmt(block, s, fnRet)
	}
	if be.Trailer != nil {
		t := c.checkExpr(block, be.Trailer)
		c.exprTypes[be.ID()] = t
		return t
	}
	c.exprTypes[be.ID()] = types.Void
	return types.Void
}

func (c *Checker) checkBlockStmt(scope *Scope, bs *ast.BlockStmt, fnRet types.Type) {
	block := NewScope(scope, ScopeBlock)
	for _, s := range bs.Stmts {
		c.checkStmt(block, s, fnRet)
	}
}

func (c *Checker) checkStmt(scope *Scope, s ast.Stmt, fnRet types.Type) {
	switch st := s.(type) {
	case *ast.ExprStmt:
		c.checkExpr(scope, st.Expr)

	case *ast.DeclStmt:
		vd, ok := st.Decl.(*ast.VarDecl)
		if !ok {
			return
		}
		var vt types.Type = types.Unknown
		if vd.Type != nil {
			vt = resolveType(scope, c.sink, vd.Type)
		} else if vd.Init == nil {
			c.sink.Errorf(diag.Analyzer, vd.Pos(), "cannot infer a type for %q without an initializer", vd.Name)
		}
		if vd.Init != nil {
			got := c.checkExpr(scope, vd.Init)
			if vd.Type == nil {
				vt = got
			} else if !types.Assignable(got, vt) {
				c.sink.Errorf(diag.Analyzer, vd.Init.Pos(), "cannot assign %s to %s", got, vt)
			}
		}
		if !scope.DefineSymbol(&Symbol{Name: vd.Name, Type: vt, Mut: vd.Mut}) {
			c.sink.Errorf(diag.Analyzer, vd.Pos(), "%q redeclared in this scope", vd.Name)
		}

	case *ast.ReturnStmt:
		var got types.Type = types.Void
		if st.Value != nil {
			got = c.checkExpr(scope, st.Value)
		}
		if fnRet != nil && !types.Assignable(got, fnRet) {
			c.sink.Errorf(diag.Analyzer, st.Pos(), "return type %s does not match declared %s", got, fnRet)
		}

	case *ast.IfStmt:
		c.requireBool(st.Cond, c.checkExpr(scope, st.Cond))
		c.checkBlockStmt(scope, st.Then, fnRet)
		switch els := st.Else.(type) {
		case nil:
		case *ast.IfStmt:
			c.checkStmt(scope, els, fnRet)
		case *ast.BlockStmt:
			c.checkBlockStmt(scope, els, fnRet)
		}

	case *ast.WhileStmt:
		c.requireBool(st.Cond, c.checkExpr(scope, st.Cond))
		loop := NewScope(scope, ScopeLoop)
		c.checkLoopInvariants(loop, st.Invariants)
		c.checkBlockStmt(loop, st.Body, fnRet)

	case *ast.ForInStmt:
		iterT := c.checkExpr(scope, st.Iterable)
		elem := elementType(iterT)
		loop := NewScope(scope, ScopeLoop)
		c.bindPattern(loop, st.Binder, elem)
		c.checkLoopInvariants(loop, st.Invariants)
		c.checkBlockStmt(loop, st.Body, fnRet)

	case *ast.MatchStmt:
		subjT := c.checkExpr(scope, st.Subject)
		for _, arm := range st.Arms {
			armScope := NewScope(scope, ScopeBlock)
			c.bindPattern(armScope, arm.Pattern, subjT)
			if arm.Guard != nil {
				c.requireBool(arm.Guard, c.checkExpr(armScope, arm.Guard))
			}
			c.checkBlockStmt(armScope, arm.Body, fnRet)
		}

	case *ast.BlockStmt:
		c.checkBlockStmt(scope, st, fnRet)
	}
}

// checkLoopInvariants checks each loop-invariant clause in contract mode
// (the checker's annotation-mode state machine enters `contract` for loop
// invariants too, so old/forall/exists are legal inside them).
func (c *Checker) checkLoopInvariants(scope *Scope, invs []ast.InvariantAnno) {
	wasContract := false
	if c.fn != nil {
		wasContract = c.fn.inContractExpr
		c.fn.inContractExpr = true
	}
	for _, inv := range invs {
		c.requireBool(inv.Cond, c.checkExpr(scope, inv.Cond))
	}
	if c.fn != nil {
		c.fn.inContractExpr = wasContract
	}
}

// elementType returns the element type of an iterable: an array's element,
// a generic application's first argument, or the bound type of an integer
// range. Unknown propagates silently for anything else so a bad iterable
// doesn't cascade into spurious binder-type errors.
func elementType(t types.Type) types.Type {
	switch v := t.(type) {
	case *types.ArrayType:
		return v.Elem
	case *types.GenericType:
		if len(v.Args) > 0 {
			return v.Args[0]
		}
	case *types.Primitive:
		if types.IsInteger(v) {
			return v // a range over Int-like bounds yields that type
		}
	}
	return types.Unknown
}

// bindPattern destructures matchedType against pat, defining whatever
// identifiers pat introduces in scope. Mismatched shapes report a
// diagnostic but still bind every identifier to Unknown so the rest of the
// arm can be checked without cascading.
func (c *Checker) bindPattern(scope *Scope, pat ast.Pattern, matchedType types.Type) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return
	case *ast.IdentPattern:
		scope.DefineSymbol(&Symbol{Name: p.Name, Type: matchedType, Mut: p.Mut})
	case *ast.LiteralPattern:
		c.checkExpr(scope, p.Value)
	case *ast.RangePattern:
		c.checkExpr(scope, p.Low)
		c.checkExpr(scope, p.High)
	case *ast.TuplePattern:
		tt, ok := matchedType.(*types.TupleType)
		for i, elemPat := range p.Elements {
			var et types.Type = types.Unknown
			if ok && i < len(tt.Elems) {
				et = tt.Elems[i]
			}
			c.bindPattern(scope, elemPat, et)
		}
	case *ast.StructPattern:
		st, _ := matchedType.(*types.StructType)
		for _, f := range p.Fields {
			var ft types.Type = types.Unknown
			if st != nil {
				if t, ok := st.Fields[f.Name]; ok {
					ft = t
				}
			}
			if f.Pattern != nil {
				c.bindPattern(scope, f.Pattern, ft)
			} else {
				scope.DefineSymbol(&Symbol{Name: f.Name, Type: ft})
			}
		}
	case *ast.EnumVariantPattern:
		et, _ := scope.LookupType(p.TypeName)
		enumT, _ := et.(*types.EnumType)
		var variant *types.EnumVariant
		if enumT != nil {
			variant = enumT.Variants[p.Variant]
		}
		for i, sub := range p.Fields {
			var ft types.Type = types.Unknown
			if variant != nil && i < len(variant.Fields) {
				ft = variant.Fields[i]
			}
			c.bindPattern(scope, sub, ft)
		}
	}
}
