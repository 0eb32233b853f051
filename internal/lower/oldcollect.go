package lower

import "github.com/cwbudde/ctrc/internal/ast"

// collectOldExprs walks a single ensures condition gathering every old(e)
// subexpression it contains. The full pre-pass matters: every snapshot
// must exist before the first body statement runs, so a partial or lazy
// traversal is not enough.
func collectOldExprs(e ast.Expr, out *[]*ast.OldExpr) {
	if e == nil {
		return
	}
	switch v := e.(type) {
	case *ast.OldExpr:
		*out = append(*out, v)
		collectOldExprs(v.Value, out)
	case *ast.BinaryExpr:
		collectOldExprs(v.Left, out)
		collectOldExprs(v.Right, out)
	case *ast.UnaryExpr:
		collectOldExprs(v.Operand, out)
	case *ast.CallExpr:
		collectOldExprs(v.Callee, out)
		for _, a := range v.Args {
			collectOldExprs(a, out)
		}
	case *ast.MemberExpr:
		collectOldExprs(v.Target, out)
	case *ast.IndexExpr:
		collectOldExprs(v.Target, out)
		collectOldExprs(v.Index, out)
	case *ast.IfExpr:
		collectOldExprs(v.Cond, out)
		collectOldExprs(v.Then, out)
		collectOldExprs(v.Else, out)
	case *ast.ForallExpr:
		for _, b := range v.Bindings {
			collectOldExprs(b.Collection, out)
		}
		collectOldExprs(v.Cond, out)
	case *ast.ExistsExpr:
		for _, b := range v.Bindings {
			collectOldExprs(b.Collection, out)
		}
		collectOldExprs(v.Cond, out)
	case *ast.RangeExpr:
		collectOldExprs(v.Low, out)
		collectOldExprs(v.High, out)
	case *ast.CastExpr:
		collectOldExprs(v.Value, out)
	case *ast.TryExpr:
		collectOldExprs(v.Value, out)
	}
}

// prepareOldSnapshots gathers every old(e) inside fn's ensures clauses and
// assigns each a fresh snapshot name, populating l.oldNames for the
// duration of lowerFunc. It returns the statements that must run before
// the body (each a `const $oldN = __clone(e);` line) in occurrence order.
func (l *lowerer) prepareOldSnapshots(fn *ast.FuncDecl) []string {
	var olds []*ast.OldExpr
	for _, a := range fn.Annotations {
		if ens, ok := a.(*ast.EnsuresAnno); ok {
			collectOldExprs(ens.Cond, &olds)
		}
	}
	l.oldNames = map[*ast.OldExpr]string{}
	var stmts []string
	for _, o := range olds {
		name := l.freshName("old")
		l.oldNames[o] = name
		stmts = append(stmts, "const "+name+" = __clone("+l.lowerExpr(o.Value)+");")
	}
	return stmts
}
