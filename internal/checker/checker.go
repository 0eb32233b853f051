package checker

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/types"
)

// Result is everything Pass B produces for the lowerer: the per-expression
// type map keyed by the parser's stable ExprID, plus the global
// scope Pass A built (the lowerer needs struct field order and enum variant
// layouts, not just names).
type Result struct {
	Global    *Scope
	ExprTypes map[ast.ExprID]types.Type
}

// Checker implements Pass B: full expression, statement, and
// declaration checking against the scope Pass A built.
type Checker struct {
	sink      *diag.Sink
	global    *Scope
	exprTypes map[ast.ExprID]types.Type

	// fn tracks the function currently being checked, for effect discipline
	// and contract/`old` legality.
	fn *funcContext
}

type funcContext struct {
	allowedEffects map[string]bool
	pure           bool
	retType        types.Type
	selfType       types.Type
	inContractExpr bool // true while checking a @requires/@ensures/@invariant condition
}

// Check runs Pass B over prog using the scope Pass A already collected.
func Check(sink *diag.Sink, global *Scope, prog *ast.Program) *Result {
	c := &Checker{sink: sink, global: global, exprTypes: map[ast.ExprID]types.Type{}}
	for _, d := range flattenExports(prog.Decls) {
		c.checkDecl(d)
	}
	return &Result{Global: global, ExprTypes: c.exprTypes}
}

func (c *Checker) checkDecl(d ast.Decl) {
	switch t := d.(type) {
	case *ast.FuncDecl:
		c.checkFunc(t, nil)
	case *ast.StructDecl:
		c.checkStructInvariants(t)
	case *ast.ImplDecl:
		forType := resolveType(c.global, c.sink, t.ForType)
		for _, m := range t.Methods {
			c.checkFunc(m, forType)
		}
	case *ast.VarDecl:
		sym, _ := c.global.LookupSymbol(t.Name)
		if t.Init == nil {
			if t.Type == nil && sym != nil {
				c.sink.Errorf(diag.Analyzer, t.Pos(), "cannot infer a type for %q without an initializer", t.Name)
			}
			return
		}
		got := c.checkExpr(c.global, t.Init)
		if sym == nil {
			return
		}
		if t.Type == nil {
			// Collection registered the symbol as Unknown; adopt the
			// initializer's type now that it has been checked.
			sym.Type = got
			return
		}
		if !types.Assignable(got, sym.Type) {
			c.sink.Errorf(diag.Analyzer, t.Init.Pos(), "cannot assign %s to %s", got, sym.Type)
		}
	}
}

func (c *Checker) checkStructInvariants(sd *ast.StructDecl) {
	def, _ := c.global.LookupType(sd.Name)
	st, ok := def.(*types.StructType)
	if !ok {
		return
	}
	scope := NewScope(c.global, ScopeFunction)
	for name, ft := range st.Fields {
		scope.DefineSymbol(&Symbol{Name: name, Type: ft})
	}
	c.fn = &funcContext{allowedEffects: map[string]bool{}, inContractExpr: true}
	for _, inv := range sd.Invariants {
		t := c.checkExpr(scope, inv.Cond)
		c.requireBool(inv.Cond, t)
	}
	c.fn = nil
}

func (c *Checker) checkFunc(fn *ast.FuncDecl, selfType types.Type) {
	sym, _ := c.global.LookupSymbol(fn.Name)
	var sig *types.FunctionType
	if sym != nil {
		sig, _ = sym.Type.(*types.FunctionType)
	}
	if sig == nil {
		sig = &types.FunctionType{Effects: annotationEffects(fn.Annotations), Pure: fn.Pure}
	}
	if sig.Pure && len(sig.Effects) > 0 {
		c.sink.Errorf(diag.Analyzer, fn.Pos(), "pure function %q may not declare effects", fn.Name)
	}

	allowed := map[string]bool{}
	for _, e := range sig.Effects {
		allowed[e] = true
	}
	c.fn = &funcContext{allowedEffects: allowed, pure: sig.Pure, retType: sig.Return, selfType: selfType}

	scope, _ := resolveGenerics(c.global, c.sink, fn.Generics)
	fnScope := NewScope(scope, ScopeFunction)
	for i, p := range fn.Params {
		pt := types.Type(types.Unknown)
		if i < len(sig.Params) {
			pt = sig.Params[i].Type
		}
		if p.Name == "self" && selfType != nil {
			pt = selfType
		}
		fnScope.DefineSymbol(&Symbol{Name: p.Name, Type: pt, Mut: p.Mut})
	}

	// Requires clauses check against the parameters only; ensures clauses
	// additionally see `result` bound to the return type and may use old().
	// Reference-shaped annotations (effect sets, capability specs, contract
	// and intent refs) resolve by name against Pass A's collections.
	for _, a := range fn.Annotations {
		switch anno := a.(type) {
		case *ast.EffectSetAnno:
			for _, name := range anno.Names {
				if def, ok := c.global.LookupType(name); !ok {
					c.sink.Errorf(diag.Analyzer, anno.Pos(), "unknown effect %q", name)
				} else if _, isEffect := def.(*types.EffectType); !isEffect {
					c.sink.Warnf(diag.Analyzer, anno.Pos(), "%q is not an effect declaration", name)
				}
			}
		case *ast.CapabilitySpecAnno:
			if def, ok := c.global.LookupType(anno.Name); !ok {
				c.sink.Errorf(diag.Analyzer, anno.Pos(), "unknown capability %q", anno.Name)
			} else if _, isCap := def.(*types.CapabilityType); !isCap {
				c.sink.Errorf(diag.Analyzer, anno.Pos(), "%q is not a capability declaration", anno.Name)
			}
		case *ast.ContractRefAnno:
			if _, ok := c.global.LookupContract(anno.Name); !ok {
				c.sink.Errorf(diag.Analyzer, anno.Pos(), "unknown contract %q", anno.Name)
			}
		case *ast.IntentRefAnno:
			if _, ok := c.global.LookupIntent(anno.Name); !ok {
				c.sink.Errorf(diag.Analyzer, anno.Pos(), "unknown intent %q", anno.Name)
			}
		case *ast.RequiresAnno:
			c.fn.inContractExpr = true
			t := c.checkExpr(fnScope, anno.Cond)
			c.requireBool(anno.Cond, t)
			c.fn.inContractExpr = false
		case *ast.EnsuresAnno:
			ensScope := NewScope(fnScope, ScopeFunction)
			if sig.Return != nil {
				ensScope.DefineSymbol(&Symbol{Name: "result", Type: sig.Return})
			}
			c.fn.inContractExpr = true
			t := c.checkExpr(ensScope, anno.Cond)
			c.requireBool(anno.Cond, t)
			c.fn.inContractExpr = false
		}
	}

	if fn.Body != nil {
		c.checkBlockExpr(fnScope, fn.Body, sig.Return)
	}
	c.fn = nil
}

func (c *Checker) requireBool(at ast.Expr, t types.Type) {
	if isUnknown(t) {
		return
	}
	if !types.Equal(t, types.BoolT) {
		c.sink.Errorf(diag.Analyzer, at.Pos(), "condition must be Bool, got %s", t)
	}
}

func (c *Checker) requireNumeric(at ast.Expr, t types.Type) {
	if isUnknown(t) {
		return
	}
	if !types.IsNumeric(t) {
		c.sink.Errorf(diag.Analyzer, at.Pos(), "operand must be numeric, got %s", t)
	}
}

func (c *Checker) requireInteger(at ast.Expr, t types.Type) {
	if isUnknown(t) {
		return
	}
	if !types.IsInteger(t) {
		c.sink.Errorf(diag.Analyzer, at.Pos(), "operand must be an integer, got %s", t)
	}
}

// isUnknown reports whether t is the silent error-recovery sentinel, which
// every requirement helper lets through unexamined so one failure does not
// cascade into secondary diagnostics.
func isUnknown(t types.Type) bool {
	_, ok := t.(types.UnknownT)
	return ok
}
