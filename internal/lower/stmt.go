package lower

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ctrc/internal/ast"
)

// lowerStmt lowers one statement to its JS text, unindented; callers
// apply indentLines at the point of embedding.
func (l *lowerer) lowerStmt(s ast.Stmt) string {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return l.lowerExpr(st.Expr) + ";\n"

	case *ast.DeclStmt:
		vd, ok := st.Decl.(*ast.VarDecl)
		if !ok {
			return ""
		}
		kw := "const"
		if vd.Mut {
			kw = "let"
		}
		if vd.Init == nil {
			return fmt.Sprintf("let %s;\n", vd.Name)
		}
		return fmt.Sprintf("%s %s = %s;\n", kw, vd.Name, l.lowerExpr(vd.Init))

	case *ast.ReturnStmt:
		if len(l.currentEnsures) == 0 {
			if st.Value == nil {
				return "return;\n"
			}
			return "return " + l.lowerExpr(st.Value) + ";\n"
		}
		value := ""
		if st.Value != nil {
			value = l.lowerExpr(st.Value)
		}
		return l.lowerTailReturn(value)

	case *ast.IfStmt:
		var sb strings.Builder
		fmt.Fprintf(&sb, "if (%s) {\n", l.lowerExpr(st.Cond))
		sb.WriteString(l.indentLines(l.lowerBlockStmt(st.Then), "  "))
		switch els := st.Else.(type) {
		case nil:
			sb.WriteString("}\n")
		case *ast.IfStmt:
			sb.WriteString("} else ")
			sb.WriteString(l.lowerStmt(els))
		case *ast.BlockStmt:
			sb.WriteString("} else {\n")
			sb.WriteString(l.indentLines(l.lowerBlockStmt(els), "  "))
			sb.WriteString("}\n")
		}
		return sb.String()

	case *ast.WhileStmt:
		var sb strings.Builder
		fmt.Fprintf(&sb, "while (%s) {\n", l.lowerExpr(st.Cond))
		l.writeInvariantChecks(&sb, st.Invariants)
		sb.WriteString(l.indentLines(l.lowerBlockStmt(st.Body), "  "))
		sb.WriteString("}\n")
		return sb.String()

	case *ast.ForInStmt:
		return l.lowerForIn(st)

	case *ast.MatchStmt:
		return l.lowerMatchStmt(st)

	case *ast.BlockStmt:
		var sb strings.Builder
		sb.WriteString("{\n")
		sb.WriteString(l.indentLines(l.lowerBlockStmt(st), "  "))
		sb.WriteString("}\n")
		return sb.String()
	}
	return ""
}

// writeInvariantChecks emits one __invariant call per loop-invariant clause
// at the top of a loop body, so they run at the start of each iteration
// rather than at exit, or nothing when guard emission is off.
func (l *lowerer) writeInvariantChecks(sb *strings.Builder, invs []ast.InvariantAnno) {
	if !l.guardsEnabled() {
		return
	}
	for _, inv := range invs {
		fmt.Fprintf(sb, "  __invariant(%s, %q, %s);\n", jsString(l.clauseText(inv.Cond.Pos())), inv.Cond.Pos().String(), l.lowerExpr(inv.Cond))
	}
}

// lowerBlockStmt concatenates bs's statements with no implicit return
// (used for if/while/for bodies, as opposed to lowerBlockExprAsIIFE's
// expression-position blocks which always yield a value).
func (l *lowerer) lowerBlockStmt(bs *ast.BlockStmt) string {
	var sb strings.Builder
	for _, s := range bs.Stmts {
		sb.WriteString(l.lowerStmt(s))
	}
	return sb.String()
}

// lowerForIn lowers `for pattern in iterable { ... }`. A range iterable
// becomes a numeric C-style loop; anything else becomes a `for...of` over
// the iterable's elements, destructuring the binder pattern at the top of
// the body when it is not a bare identifier.
func (l *lowerer) lowerForIn(st *ast.ForInStmt) string {
	var sb strings.Builder
	if rg, ok := st.Iterable.(*ast.RangeExpr); ok {
		loopVar := st.Binder
		name, pre := l.patternLoopVar(loopVar)
		op := "<"
		if rg.Inclusive {
			op = "<="
		}
		fmt.Fprintf(&sb, "for (let %s = %s; %s %s %s; %s++) {\n", name, l.lowerExpr(rg.Low), name, op, l.lowerExpr(rg.High), name)
		for _, b := range pre {
			fmt.Fprintf(&sb, "  %s\n", b)
		}
		l.writeInvariantChecks(&sb, st.Invariants)
		sb.WriteString(l.indentLines(l.lowerBlockStmt(st.Body), "  "))
		sb.WriteString("}\n")
		return sb.String()
	}

	elemName := l.freshName("elem")
	fmt.Fprintf(&sb, "for (const %s of %s) {\n", elemName, l.lowerExpr(st.Iterable))
	for _, b := range l.patternBindings(st.Binder, elemName) {
		fmt.Fprintf(&sb, "  %s\n", b)
	}
	l.writeInvariantChecks(&sb, st.Invariants)
	sb.WriteString(l.indentLines(l.lowerBlockStmt(st.Body), "  "))
	sb.WriteString("}\n")
	return sb.String()
}

// patternLoopVar returns the loop-counter name a numeric for-in should use
// and any destructuring bindings still owed (non-empty only when pat is
// not a bare identifier).
func (l *lowerer) patternLoopVar(pat ast.Pattern) (string, []string) {
	if id, ok := pat.(*ast.IdentPattern); ok {
		return id.Name, nil
	}
	tmp := l.freshName("it")
	return tmp, l.patternBindings(pat, tmp)
}

// lowerMatchStmt emits a sequence of conditional blocks; the final clause
// raises __matchFail when no earlier arm matched and no wildcard
// terminates the sequence.
func (l *lowerer) lowerMatchStmt(st *ast.MatchStmt) string {
	subject := l.freshName("subject")
	var sb strings.Builder
	fmt.Fprintf(&sb, "const %s = %s;\n", subject, l.lowerExpr(st.Subject))

	hasWildcard := false
	for i, arm := range st.Arms {
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
		fmt.Fprintf(&sb, "%s (%s) {\n", kw, test)
		for _, b := range l.patternBindings(arm.Pattern, subject) {
			fmt.Fprintf(&sb, "  %s\n", b)
		}
		sb.WriteString(l.indentLines(l.lowerBlockStmt(arm.Body), "  "))
		sb.WriteString("}\n")
	}
	if !hasWildcard {
		fmt.Fprintf(&sb, "else {\n  __matchFail(%q);\n}\n", st.Pos().String())
	}
	return sb.String()
}
