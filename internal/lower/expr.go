package lower

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/types"
)

// lowerExpr lowers e point-for-point to JS text.
func (l *lowerer) lowerExpr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.IntLiteral:
		return strconv.FormatInt(v.Value, 10)
	case *ast.FloatLiteral:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		return jsString(v.Value)
	case *ast.CharLiteral:
		return jsString(string(v.Value))
	case *ast.BoolLiteral:
		if v.Value {
			return "true"
		}
		return "false"
	case *ast.NilLiteral:
		return "None()"
	case *ast.SelfExpr:
		return "this"

	case *ast.Identifier:
		if v.Name == "result" && l.resultName != "" {
			return l.resultName
		}
		return v.Name

	case *ast.OldExpr:
		if name, ok := l.oldNames[v]; ok {
			return name
		}
		panicCodegen(v.Pos(), "old(%s) was not pre-collected before lowering", l.lowerExpr(v.Value))

	case *ast.BinaryExpr:
		return l.lowerBinary(v)
	case *ast.AssignExpr:
		return fmt.Sprintf("%s %s %s", l.lowerExpr(v.Target), v.Operator, l.lowerExpr(v.Value))
	case *ast.UnaryExpr:
		return l.lowerUnary(v)
	case *ast.CallExpr:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			args[i] = l.lowerExpr(a)
		}
		// A struct name called directly is its constructor; the emitted
		// constructor assigns fields on `this`, so the call needs `new`.
		if id, ok := v.Callee.(*ast.Identifier); ok {
			if def, found := l.res.Global.LookupType(id.Name); found {
				if _, isStruct := def.(*types.StructType); isStruct {
					return fmt.Sprintf("new %s(%s)", id.Name, strings.Join(args, ", "))
				}
			}
		}
		return fmt.Sprintf("%s(%s)", l.lowerExpr(v.Callee), strings.Join(args, ", "))
	case *ast.MemberExpr:
		return fmt.Sprintf("%s.%s", l.lowerExpr(v.Target), v.Name)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", l.lowerExpr(v.Target), l.lowerExpr(v.Index))
	case *ast.IfExpr:
		return l.lowerIfExpr(v)
	case *ast.MatchExpr:
		return l.lowerMatchExpr(v)
	case *ast.BlockExpr:
		return l.lowerBlockExprAsIIFE(v)
	case *ast.LambdaExpr:
		return l.lowerLambda(v)
	case *ast.ArrayLiteral:
		elems := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = l.lowerExpr(el)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *ast.TupleLiteral:
		elems := make([]string, len(v.Elements))
		for i, el := range v.Elements {
			elems[i] = l.lowerExpr(el)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case *ast.StructLiteral:
		return l.lowerStructLiteral(v)
	case *ast.RangeExpr:
		return l.lowerRangeAsArray(v)
	case *ast.CastExpr:
		return l.lowerExpr(v.Value)
	case *ast.ForallExpr:
		return l.lowerQuant(v.Bindings, v.Cond, true)
	case *ast.ExistsExpr:
		return l.lowerQuant(v.Bindings, v.Cond, false)
	case *ast.TryExpr:
		return fmt.Sprintf("unwrap(%s)", l.lowerExpr(v.Value))
	case *ast.PathExpr:
		return l.lowerPath(v)
	}
	panicCodegen(e.Pos(), "lower: unsupported expression %T", e)
	return ""
}

func (l *lowerer) lowerBinary(b *ast.BinaryExpr) string {
	left, right := l.lowerExpr(b.Left), l.lowerExpr(b.Right)
	switch b.Operator {
	case "**":
		return fmt.Sprintf("Math.pow(%s, %s)", left, right)
	case "==":
		return fmt.Sprintf("(%s === %s)", left, right)
	case "!=":
		return fmt.Sprintf("(%s !== %s)", left, right)
	default:
		return fmt.Sprintf("(%s %s %s)", left, b.Operator, right)
	}
}

// lowerUnary lowers `- ! ~ & &mut *`; reference and dereference are erased
//.
func (l *lowerer) lowerUnary(u *ast.UnaryExpr) string {
	switch u.Operator {
	case "&", "*":
		return l.lowerExpr(u.Operand)
	default:
		return fmt.Sprintf("%s%s", u.Operator, l.lowerExpr(u.Operand))
	}
}

// lowerIfExpr wraps the expression form of `if` in an immediately-invoked
// closure returning the trailing expression, like every other
// expression-position block.
func (l *lowerer) lowerIfExpr(i *ast.IfExpr) string {
	then, ok := i.Then.(*ast.BlockExpr)
	if !ok {
		panicCodegen(i.Pos(), "if-expression Then was not a block")
	}
	var sb strings.Builder
	sb.WriteString("(() => {\n")
	fmt.Fprintf(&sb, "if (%s) {\n", l.lowerExpr(i.Cond))
	sb.WriteString(l.indentLines(l.blockTailBody(then), "  "))
	sb.WriteString("}")
	switch els := i.Else.(type) {
	case nil:
		sb.WriteString(" else {\n  return undefined;\n}\n")
	case *ast.IfExpr:
		sb.WriteString(" else {\n")
		fmt.Fprintf(&sb, "  return %s;\n", l.lowerExpr(els))
		sb.WriteString("}\n")
	case *ast.BlockExpr:
		sb.WriteString(" else {\n")
		sb.WriteString(l.indentLines(l.blockTailBody(els), "  "))
		sb.WriteString("}\n")
	}
	sb.WriteString("})()")
	return sb.String()
}

// lowerMatchExpr is the expression-position counterpart of lowerMatchStmt:
// the same conditional sequence, but each arm returns its body's value
// instead of running it for effect.
func (l *lowerer) lowerMatchExpr(m *ast.MatchExpr) string {
	subject := l.freshName("subject")
	var sb strings.Builder
	sb.WriteString("(() => {\n")
	fmt.Fprintf(&sb, "  const %s = %s;\n", subject, l.lowerExpr(m.Subject))

	hasWildcard := false
	for i, arm := range m.Arms {
		test := l.patternTest(arm.Pattern, subject)
		if _, ok := arm.Pattern.(*ast.WildcardPattern); ok && arm.Guard == nil {
			hasWildcard = true
		}
		if arm.Guard != nil {
			test = fmt.Sprintf("(%s) && (%s)", test, l.lowerExpr(arm.Guard))
		}
		kw := "if"
		if i > 0 {
			kw = "else if"
		}
		fmt.Fprintf(&sb, "  %s (%s) {\n", kw, test)
		for _, b := range l.patternBindings(arm.Pattern, subject) {
			fmt.Fprintf(&sb, "    %s\n", b)
		}
		fmt.Fprintf(&sb, "    return %s;\n", l.lowerExpr(arm.Body))
		sb.WriteString("  }\n")
	}
	if !hasWildcard {
		fmt.Fprintf(&sb, "  else {\n    __matchFail(%q);\n  }\n", m.Pos().String())
	}
	sb.WriteString("})()")
	return sb.String()
}

// blockTailBody renders be's statements plus its trailing-expression
// return, unindented, for use inside an IIFE or lambda body.
func (l *lowerer) blockTailBody(be *ast.BlockExpr) string {
	var sb strings.Builder
	for _, s := range be.Stmts {
		sb.WriteString(l.lowerStmt(s))
	}
	if be.Trailer != nil {
		fmt.Fprintf(&sb, "return %s;\n", l.lowerExpr(be.Trailer))
	} else {
		sb.WriteString("return undefined;\n")
	}
	return sb.String()
}

func (l *lowerer) lowerBlockExprAsIIFE(be *ast.BlockExpr) string {
	var sb strings.Builder
	sb.WriteString("(() => {\n")
	sb.WriteString(l.indentLines(l.blockTailBody(be), "  "))
	sb.WriteString("})()")
	return sb.String()
}

func (l *lowerer) lowerLambda(lam *ast.LambdaExpr) string {
	names := make([]string, len(lam.Params))
	for i, p := range lam.Params {
		names[i] = p.Name
	}
	if be, ok := lam.Body.(*ast.BlockExpr); ok {
		var sb strings.Builder
		fmt.Fprintf(&sb, "(%s) => {\n", strings.Join(names, ", "))
		sb.WriteString(l.indentLines(l.blockTailBody(be), "  "))
		sb.WriteString("}")
		return sb.String()
	}
	return fmt.Sprintf("(%s) => (%s)", strings.Join(names, ", "), l.lowerExpr(lam.Body))
}

// lowerStructLiteral emits the two struct-literal forms: spread forms copy-extend an existing record; non-spread forms call the
// generated constructor with arguments in field-declaration order.
func (l *lowerer) lowerStructLiteral(sl *ast.StructLiteral) string {
	if sl.Spread != nil {
		overrides := make([]string, len(sl.Fields))
		for i, f := range sl.Fields {
			overrides[i] = fmt.Sprintf("%s: %s", f.Name, l.lowerExpr(f.Value))
		}
		if l.isTS() {
			return fmt.Sprintf("{ ...%s, %s }", l.lowerExpr(sl.Spread), strings.Join(overrides, ", "))
		}
		return fmt.Sprintf("Object.assign({}, %s, { %s })", l.lowerExpr(sl.Spread), strings.Join(overrides, ", "))
	}

	def, ok := l.res.Global.LookupType(sl.TypeName)
	if !ok {
		panicCodegen(sl.Pos(), "undefined struct type %q reached lowering", sl.TypeName)
	}
	st, ok := def.(*types.StructType)
	if !ok {
		panicCodegen(sl.Pos(), "%q is not a struct type", sl.TypeName)
	}
	byName := map[string]ast.Expr{}
	for _, f := range sl.Fields {
		byName[f.Name] = f.Value
	}
	args := make([]string, len(st.FieldOrder))
	for i, name := range st.FieldOrder {
		v, ok := byName[name]
		if !ok {
			panicCodegen(sl.Pos(), "struct literal for %s is missing field %q", sl.TypeName, name)
		}
		args[i] = l.lowerExpr(v)
	}
	return fmt.Sprintf("new %s(%s)", sl.TypeName, strings.Join(args, ", "))
}

// lowerRangeAsArray materializes a range expression as a concrete array
// so it can be consumed by the `.every`/`.some` calls quantifiers lower
// to, and by any other expression-position use of a range.
func (l *lowerer) lowerRangeAsArray(rg *ast.RangeExpr) string {
	op := "<"
	if rg.Inclusive {
		op = "<="
	}
	return fmt.Sprintf("(function() { var $r = []; for (var $i = %s; $i %s %s; $i++) { $r.push($i); } return $r; })()",
		l.lowerExpr(rg.Low), op, l.lowerExpr(rg.High))
}

// lowerQuant lowers forall/exists to nested every/some checks over each
// binding's collection.
func (l *lowerer) lowerQuant(bindings []ast.QuantBinding, cond ast.Expr, all bool) string {
	body := l.lowerExpr(cond)
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		if b.Collection == nil {
			panicCodegen(cond.Pos(), "quantifier binding %q has no finite collection to range over at runtime", b.Name)
		}
		method := "every"
		if !all {
			method = "some"
		}
		body = fmt.Sprintf("%s.%s(function(%s) { return %s; })", l.lowerExpr(b.Collection), method, b.Name, body)
	}
	return body
}

// lowerPath lowers `Type::Name` construction. Result/Option route to the
// runtime prelude's Ok/Err/Some/None factories; a user enum's unit
// variant is already the singleton tagged record the enum's namespace
// object defines, so it needs no call wrapper.
func (l *lowerer) lowerPath(p *ast.PathExpr) string {
	switch p.TypeName {
	case "Result", "Option":
		return p.Name
	}
	return fmt.Sprintf("%s.%s", p.TypeName, p.Name)
}
