package checker

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/types"
)

// checkExpr type-checks e against scope, recording the result in the
// per-expression type map keyed by e's stable ExprID before
// returning it.
func (c *Checker) checkExpr(scope *Scope, e ast.Expr) types.Type {
	t := c.checkExprKind(scope, e)
	c.exprTypes[e.ID()] = t
	return t
}

func (c *Checker) checkExprKind(scope *Scope, e ast.Expr) types.Type {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return types.Int
	case *ast.FloatLiteral:
		return types.Float64
	case *ast.StringLiteral:
		return types.StringT
	case *ast.CharLiteral:
		return types.CharT
	case *ast.BoolLiteral:
		return types.BoolT
	case *ast.NilLiteral:
		return &types.OptionalType{Inner: types.Unknown}

	case *ast.SelfExpr:
		if c.fn != nil && c.fn.selfType != nil {
			return c.fn.selfType
		}
		c.sink.Errorf(diag.Analyzer, v.Pos(), "'self' used outside a method")
		return types.Unknown

	case *ast.Identifier:
		if sym, ok := scope.LookupSymbol(v.Name); ok {
			return sym.Type
		}
		c.sink.Errorf(diag.Analyzer, v.Pos(), "undefined name %q", v.Name)
		return types.Unknown

	case *ast.OldExpr:
		if c.fn == nil || !c.fn.inContractExpr {
			c.sink.Errorf(diag.Analyzer, v.Pos(), "old(...) is only legal inside a contract clause")
		}
		return c.checkExpr(scope, v.Value)

	case *ast.BinaryExpr:
		return c.checkBinary(scope, v)
	case *ast.AssignExpr:
		return c.checkAssign(scope, v)
	case *ast.UnaryExpr:
		return c.checkUnary(scope, v)
	case *ast.CallExpr:
		return c.checkCall(scope, v)
	case *ast.MemberExpr:
		return c.checkMember(scope, v)
	case *ast.IndexExpr:
		return c.checkIndex(scope, v)
	case *ast.IfExpr:
		return c.checkIfExpr(scope, v)
	case *ast.MatchExpr:
		return c.checkMatchExpr(scope, v)
	case *ast.BlockExpr:
		return c.checkBlockExpr(scope, v, nil)
	case *ast.LambdaExpr:
		return c.checkLambda(scope, v)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(scope, v)
	case *ast.TupleLiteral:
		return c.checkTupleLiteral(scope, v)
	case *ast.StructLiteral:
		return c.checkStructLiteral(scope, v)
	case *ast.RangeExpr:
		c.checkExpr(scope, v.Low)
		c.checkExpr(scope, v.High)
		return types.Int
	case *ast.CastExpr:
		c.checkExpr(scope, v.Value)
		return resolveType(scope, c.sink, v.Type)
	case *ast.ForallExpr:
		return c.checkQuantifier(scope, v.Bindings, v.Cond)
	case *ast.ExistsExpr:
		return c.checkQuantifier(scope, v.Bindings, v.Cond)
	case *ast.TryExpr:
		return c.checkTry(scope, v)
	case *ast.PathExpr:
		return c.checkPath(scope, v)
	}
	c.sink.Errorf(diag.Analyzer, e.Pos(), "unsupported expression %T", e)
	return types.Unknown
}

func (c *Checker) checkBinary(scope *Scope, b *ast.BinaryExpr) types.Type {
	lt := c.checkExpr(scope, b.Left)
	rt := c.checkExpr(scope, b.Right)
	switch b.Operator {
	case "&&", "||":
		c.requireBool(b.Left, lt)
		c.requireBool(b.Right, rt)
		return types.BoolT
	case "==", "!=":
		if !isUnknown(lt) && !isUnknown(rt) && !types.Assignable(lt, rt) && !types.Assignable(rt, lt) {
			c.sink.Errorf(diag.Analyzer, b.Pos(), "cannot compare %s with %s", lt, rt)
		}
		return types.BoolT
	case "<", "<=", ">", ">=":
		c.requireNumeric(b.Left, lt)
		c.requireNumeric(b.Right, rt)
		return types.BoolT
	case "&", "|", "^", "<<", ">>":
		// Integer operands; the result keeps the left operand's type.
		c.requireInteger(b.Left, lt)
		c.requireInteger(b.Right, rt)
		return lt
	default: // + - * / % **
		if wide, ok := types.Widen(lt, rt); ok {
			return wide
		}
		if types.Equal(lt, types.StringT) && types.Equal(rt, types.StringT) && b.Operator == "+" {
			return types.StringT
		}
		if isUnknown(lt) || isUnknown(rt) {
			return types.Unknown
		}
		c.sink.Errorf(diag.Analyzer, b.Pos(), "operator %s not defined for %s and %s", b.Operator, lt, rt)
		return types.Unknown
	}
}

func (c *Checker) checkAssign(scope *Scope, a *ast.AssignExpr) types.Type {
	targetT := c.checkExpr(scope, a.Target)
	if id, ok := a.Target.(*ast.Identifier); ok {
		if sym, ok := scope.LookupSymbol(id.Name); ok && !sym.Mut {
			c.sink.Errorf(diag.Analyzer, a.Pos(), "cannot assign to immutable %q", id.Name)
		}
	}
	valT := c.checkExpr(scope, a.Value)
	if a.Operator != "=" {
		// Compound assignments are arithmetic; both sides must be numeric.
		c.requireNumeric(a.Target, targetT)
		c.requireNumeric(a.Value, valT)
		return targetT
	}
	if !types.Assignable(valT, targetT) {
		c.sink.Errorf(diag.Analyzer, a.Value.Pos(), "cannot assign %s to %s", valT, targetT)
	}
	return targetT
}

func (c *Checker) checkUnary(scope *Scope, u *ast.UnaryExpr) types.Type {
	operandT := c.checkExpr(scope, u.Operand)
	switch u.Operator {
	case "!":
		c.requireBool(u.Operand, operandT)
		return types.BoolT
	case "-":
		c.requireNumeric(u.Operand, operandT)
		return operandT
	case "~":
		c.requireInteger(u.Operand, operandT)
		return operandT
	case "&":
		return &types.ReferenceType{Inner: operandT, Mut: u.Mut}
	case "*":
		if ref, ok := operandT.(*types.ReferenceType); ok {
			return ref.Inner
		}
		if !isUnknown(operandT) {
			c.sink.Errorf(diag.Analyzer, u.Pos(), "cannot dereference non-reference %s", operandT)
		}
		return types.Unknown
	}
	return types.Unknown
}

// checkCall resolves the callee's FunctionType when possible and enforces
// the effect discipline: every effect the callee performs must
// already be in the caller's declared effect set.
func (c *Checker) checkCall(scope *Scope, call *ast.CallExpr) types.Type {
	calleeT := c.checkExpr(scope, call.Callee)
	argTypes := make([]types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = c.checkExpr(scope, a)
	}
	// A struct name in callee position is its constructor: fields in
	// declaration order, yielding the nominal type.
	if st, ok := calleeT.(*types.StructType); ok {
		if len(call.Args) != len(st.FieldOrder) {
			c.sink.Errorf(diag.Analyzer, call.Pos(), "constructor for %s expects %d arguments, got %d", st.Name, len(st.FieldOrder), len(call.Args))
		}
		for i, at := range argTypes {
			if i >= len(st.FieldOrder) {
				break
			}
			want := st.Fields[st.FieldOrder[i]]
			if !types.Assignable(at, want) {
				c.sink.Errorf(diag.Analyzer, call.Args[i].Pos(), "argument %d: cannot assign %s to %s", i+1, at, want)
			}
		}
		return st
	}
	fnT, ok := calleeT.(*types.FunctionType)
	if !ok {
		if _, unk := calleeT.(types.UnknownT); !unk {
			c.sink.Errorf(diag.Analyzer, call.Pos(), "%s is not callable", calleeT)
		}
		return types.Unknown
	}
	if c.fn != nil {
		for _, eff := range fnT.Effects {
			if !c.fn.allowedEffects[eff] {
				c.sink.Errorf(diag.Analyzer, call.Pos(), "calling a function with effect %q requires the caller to declare it", eff)
			}
		}
	}
	params := fnT.Params
	if len(params) > 0 && params[0].Name == "self" {
		// A method reached through member lookup already bound its receiver.
		params = params[1:]
	}
	if len(call.Args) != len(params) {
		c.sink.Errorf(diag.Analyzer, call.Pos(), "expected %d arguments, got %d", len(params), len(call.Args))
	}
	for i, at := range argTypes {
		if i >= len(params) {
			break
		}
		if !types.Assignable(at, params[i].Type) {
			c.sink.Errorf(diag.Analyzer, call.Args[i].Pos(), "argument %d: cannot assign %s to %s", i+1, at, params[i].Type)
		}
	}
	if fnT.Return == nil {
		return types.Void
	}
	return fnT.Return
}

func (c *Checker) checkMember(scope *Scope, m *ast.MemberExpr) types.Type {
	targetT := c.checkExpr(scope, m.Target)
	// Member access looks through a reference: fields resolve on a struct
	// or a reference-to-struct alike.
	if ref, ok := targetT.(*types.ReferenceType); ok {
		targetT = ref.Inner
	}
	switch t := targetT.(type) {
	case *types.StructType:
		if ft, ok := t.Fields[m.Name]; ok {
			return ft
		}
		if ft, ok := t.Fields["::"+m.Name]; ok {
			return ft
		}
	case *types.EffectType:
		// EffectName.method invocation.
		if sig, ok := t.Methods[m.Name]; ok {
			return sig
		}
	case *types.ResultType:
		switch m.Name {
		case "ok":
			return t.Ok
		case "err":
			return t.Err
		}
	}
	if _, unk := targetT.(types.UnknownT); unk {
		return types.Unknown
	}
	c.sink.Errorf(diag.Analyzer, m.Pos(), "%s has no field or method %q", targetT, m.Name)
	return types.Unknown
}

func (c *Checker) checkIndex(scope *Scope, idx *ast.IndexExpr) types.Type {
	targetT := c.checkExpr(scope, idx.Target)
	idxT := c.checkExpr(scope, idx.Index)
	switch t := targetT.(type) {
	case *types.ArrayType:
		c.requireInteger(idx.Index, idxT)
		return t.Elem
	case *types.TupleType:
		// Tuples demand a literal integer index within bounds;
		// there is no runtime representation of "the i-th element" for a
		// heterogeneous tuple otherwise.
		lit, ok := idx.Index.(*ast.IntLiteral)
		if !ok {
			c.sink.Errorf(diag.Analyzer, idx.Index.Pos(), "tuple index must be an integer literal")
			return types.Unknown
		}
		if lit.Value < 0 || lit.Value >= int64(len(t.Elems)) {
			c.sink.Errorf(diag.Analyzer, idx.Index.Pos(), "tuple index %d out of bounds for %s", lit.Value, t)
			return types.Unknown
		}
		return t.Elems[lit.Value]
	}
	if !isUnknown(targetT) {
		c.sink.Errorf(diag.Analyzer, idx.Pos(), "cannot index %s", targetT)
	}
	return types.Unknown
}

func (c *Checker) checkIfExpr(scope *Scope, i *ast.IfExpr) types.Type {
	c.requireBool(i.Cond, c.checkExpr(scope, i.Cond))
	thenT := c.checkExpr(scope, i.Then)
	if i.Else == nil {
		return types.Void
	}
	elseT := c.checkExpr(scope, i.Else)
	if wide, ok := types.Widen(thenT, elseT); ok {
		return wide
	}
	if !types.Equal(thenT, elseT) && !isUnknown(thenT) && !isUnknown(elseT) {
		// Divergent branch types are permitted; the whole expression adopts
		// the then-branch type.
		c.sink.Warnf(diag.Analyzer, i.Pos(), "if branches have different types: %s and %s", thenT, elseT)
	}
	return thenT
}

func (c *Checker) checkMatchExpr(scope *Scope, m *ast.MatchExpr) types.Type {
	subjT := c.checkExpr(scope, m.Subject)
	var result types.Type = types.Unknown
	for i, arm := range m.Arms {
		armScope := NewScope(scope, ScopeBlock)
		c.bindPattern(armScope, arm.Pattern, subjT)
		if arm.Guard != nil {
			c.requireBool(arm.Guard, c.checkExpr(armScope, arm.Guard))
		}
		bodyT := c.checkExpr(armScope, arm.Body)
		if i == 0 {
			result = bodyT
		} else if !types.Equal(bodyT, result) && !isUnknown(bodyT) && !isUnknown(result) {
			c.sink.Warnf(diag.Analyzer, arm.Body.Pos(), "match arms have different types: %s and %s", result, bodyT)
		}
	}
	return result
}

func (c *Checker) checkLambda(scope *Scope, l *ast.LambdaExpr) types.Type {
	lamScope := NewScope(scope, ScopeFunction)
	params := make([]types.FuncParam, len(l.Params))
	for i, p := range l.Params {
		var pt types.Type = types.Unknown
		if p.Type != nil {
			pt = resolveType(scope, c.sink, p.Type)
		}
		lamScope.DefineSymbol(&Symbol{Name: p.Name, Type: pt, Mut: p.Mut})
		params[i] = types.FuncParam{Name: p.Name, Type: pt, Mut: p.Mut}
	}
	ret := c.checkExpr(lamScope, l.Body)
	if l.ReturnType != nil {
		ret = resolveType(scope, c.sink, l.ReturnType)
	}
	return &types.FunctionType{Params: params, Return: ret}
}

func (c *Checker) checkArrayLiteral(scope *Scope, a *ast.ArrayLiteral) types.Type {
	var elem types.Type = types.Unknown
	for i, el := range a.Elements {
		t := c.checkExpr(scope, el)
		if i == 0 {
			elem = t
		}
	}
	return &types.ArrayType{Elem: elem}
}

func (c *Checker) checkTupleLiteral(scope *Scope, t *ast.TupleLiteral) types.Type {
	elems := make([]types.Type, len(t.Elements))
	for i, el := range t.Elements {
		elems[i] = c.checkExpr(scope, el)
	}
	return &types.TupleType{Elems: elems}
}

func (c *Checker) checkStructLiteral(scope *Scope, sl *ast.StructLiteral) types.Type {
	def, ok := scope.LookupType(sl.TypeName)
	if !ok {
		c.sink.Errorf(diag.Analyzer, sl.Pos(), "undefined type %q", sl.TypeName)
		for _, f := range sl.Fields {
			c.checkExpr(scope, f.Value)
		}
		return types.Unknown
	}
	st, ok := def.(*types.StructType)
	if !ok {
		c.sink.Errorf(diag.Analyzer, sl.Pos(), "%q is not a struct type", sl.TypeName)
		return types.Unknown
	}
	if sl.Spread != nil {
		c.checkExpr(scope, sl.Spread)
	}
	for _, f := range sl.Fields {
		got := c.checkExpr(scope, f.Value)
		if want, ok := st.Fields[f.Name]; ok {
			if !types.Assignable(got, want) {
				c.sink.Errorf(diag.Analyzer, f.Value.Pos(), "field %q: cannot assign %s to %s", f.Name, got, want)
			}
		} else {
			c.sink.Errorf(diag.Analyzer, f.Value.Pos(), "%s has no field %q", st, f.Name)
		}
	}
	if sl.Spread == nil {
		provided := map[string]bool{}
		for _, f := range sl.Fields {
			provided[f.Name] = true
		}
		for _, name := range st.FieldOrder {
			if !provided[name] {
				c.sink.Errorf(diag.Analyzer, sl.Pos(), "missing field %q in struct literal for %s", name, st.Name)
			}
		}
	}
	return st
}

// checkPath resolves `Type::Name`: the two built-in generic variant
// constructors (Result::Ok/Err, Option::Some/None) or a user enum's
// variant. The built-ins are checked structurally permissive (return
// types.Unknown rather than a fully unified Result<Ok,Err>/Optional<T>)
// since this checker does no generic inference; Unknown then propagates
// through Assignable the same way an unresolved tuple-index element does
// (see checkIndex) rather than forcing a spurious mismatch error.
func (c *Checker) checkPath(scope *Scope, p *ast.PathExpr) types.Type {
	switch p.TypeName {
	case "Result":
		switch p.Name {
		case "Ok", "Err":
			return &types.FunctionType{Params: []types.FuncParam{{Name: "v", Type: types.Unknown}}, Return: types.Unknown}
		}
	case "Option":
		switch p.Name {
		case "Some":
			return &types.FunctionType{Params: []types.FuncParam{{Name: "v", Type: types.Unknown}}, Return: types.Unknown}
		case "None":
			return &types.FunctionType{Return: types.Unknown}
		}
	}

	def, ok := scope.LookupType(p.TypeName)
	if !ok {
		c.sink.Errorf(diag.Analyzer, p.Pos(), "undefined type %q", p.TypeName)
		return types.Unknown
	}
	et, ok := def.(*types.EnumType)
	if !ok {
		c.sink.Errorf(diag.Analyzer, p.Pos(), "%q is not an enum type", p.TypeName)
		return types.Unknown
	}
	variant, ok := et.Variants[p.Name]
	if !ok {
		c.sink.Errorf(diag.Analyzer, p.Pos(), "%s has no variant %q", et, p.Name)
		return types.Unknown
	}
	if len(variant.Fields) == 0 {
		return et
	}
	params := make([]types.FuncParam, len(variant.Fields))
	for i, ft := range variant.Fields {
		params[i] = types.FuncParam{Type: ft}
	}
	return &types.FunctionType{Params: params, Return: et}
}

func (c *Checker) checkQuantifier(scope *Scope, bindings []ast.QuantBinding, cond ast.Expr) types.Type {
	// A quantifier whose every binding ranges over an explicit collection is
	// runtime-evaluable and may appear in ordinary code; a collectionless
	// binding ranges over all of Int and is only meaningful as a contract
	// clause (DESIGN.md, "Quantifier legality").
	inContract := c.fn != nil && c.fn.inContractExpr
	for _, b := range bindings {
		if b.Collection == nil && !inContract {
			c.sink.Errorf(diag.Analyzer, cond.Pos(), "quantifier binding %q has no collection and is only legal inside a contract clause", b.Name)
		}
	}
	qScope := NewScope(scope, ScopeBlock)
	for _, b := range bindings {
		var bt types.Type = types.Int
		if b.Collection != nil {
			ct := c.checkExpr(qScope, b.Collection)
			bt = elementType(ct)
		}
		qScope.DefineSymbol(&Symbol{Name: b.Name, Type: bt})
	}
	wasContract := false
	if c.fn != nil {
		wasContract = c.fn.inContractExpr
		c.fn.inContractExpr = true
	}
	t := c.checkExpr(qScope, cond)
	if c.fn != nil {
		c.fn.inContractExpr = wasContract
	}
	c.requireBool(cond, t)
	return types.BoolT
}

func (c *Checker) checkTry(scope *Scope, tr *ast.TryExpr) types.Type {
	valT := c.checkExpr(scope, tr.Value)
	res, ok := valT.(*types.ResultType)
	if !ok {
		if _, unk := valT.(types.UnknownT); !unk {
			c.sink.Errorf(diag.Analyzer, tr.Pos(), "'?' requires a Result value, got %s", valT)
		}
		return types.Unknown
	}
	if c.fn != nil && c.fn.retType != nil {
		if _, retIsResult := c.fn.retType.(*types.ResultType); !retIsResult {
			c.sink.Errorf(diag.Analyzer, tr.Pos(), "'?' used in a function that does not return a Result")
		}
	}
	return res.Ok
}
