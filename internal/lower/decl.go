package lower

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/config"
)

// lowerTopDecl emits one top-level declaration. ExportDecl is unwrapped
// here rather than by the checker's flattenExports, since export-ness is
// purely a lowering concern.
func (l *lowerer) lowerTopDecl(d ast.Decl) {
	if ex, ok := d.(*ast.ExportDecl); ok {
		l.lowerExportedDecl(ex.Inner)
		return
	}
	l.lowerDecl(d, false)
}

func (l *lowerer) lowerExportedDecl(inner ast.Decl) {
	if l.opts.Module == config.CommonJS {
		l.lowerDecl(inner, false)
		for _, name := range exportedNames(inner) {
			fmt.Fprintf(&l.out, "module.exports.%s = %s;\n", name, name)
		}
		return
	}
	l.lowerDecl(inner, true)
}

// exportedNames returns the top-level binding name(s) introduced by d, for
// CommonJS's `module.exports.name = name;` re-export line.
func exportedNames(d ast.Decl) []string {
	switch t := d.(type) {
	case *ast.FuncDecl:
		return []string{t.Name}
	case *ast.VarDecl:
		return []string{t.Name}
	case *ast.StructDecl:
		return []string{t.Name}
	case *ast.EnumDecl:
		return []string{t.Name}
	case *ast.EffectDecl:
		return []string{t.Name}
	}
	return nil
}

// lowerDecl emits d, prefixing top-level function/const/class-shaped
// declarations with "export " when exported and targeting ESM.
func (l *lowerer) lowerDecl(d ast.Decl, exportESM bool) {
	prefix := ""
	if exportESM {
		prefix = "export "
	}
	switch t := d.(type) {
	case *ast.FuncDecl:
		l.out.WriteString(prefix)
		l.lowerFunc(t)
		l.out.WriteString("\n")
	case *ast.VarDecl:
		l.out.WriteString(prefix)
		l.lowerTopVarDecl(t)
	case *ast.StructDecl:
		l.lowerStruct(t, prefix)
	case *ast.EnumDecl:
		l.lowerEnum(t, prefix)
	case *ast.TraitDecl:
		// Traits are static-only. The TS dialect could emit an
		// `interface`, but no option requests that today, so both
		// dialects skip it.
	case *ast.ImplDecl:
		l.lowerImpl(t)
	case *ast.EffectDecl:
		l.lowerEffect(t, prefix)
	case *ast.CapabilityDecl, *ast.ContractDecl, *ast.IntentDecl:
		// Purely static; emit nothing.
	case *ast.ImportDecl:
		l.lowerImport(t)
	}
}

func (l *lowerer) lowerTopVarDecl(vd *ast.VarDecl) {
	kw := "const"
	if vd.Mut {
		kw = "let"
	}
	init := "undefined"
	if vd.Init != nil {
		init = l.lowerExpr(vd.Init)
	}
	fmt.Fprintf(&l.out, "%s %s = %s;\n", kw, vd.Name, init)
}

// lowerFunc emits a standalone function declaration. The
// `requires`/`old`-snapshot/`ensures` instrumentation is threaded through
// l.currentEnsures and l.resultName for the duration of the body.
func (l *lowerer) lowerFunc(fn *ast.FuncDecl) {
	params := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, p.Name)
	}

	fmt.Fprintf(&l.out, "function %s(%s) {\n", fn.Name, strings.Join(params, ", "))
	l.writeFuncBody(fn)
	l.out.WriteString("}\n")
}

func (l *lowerer) writeFuncBody(fn *ast.FuncDecl) {
	var ensures []*ast.EnsuresAnno
	if l.guardsEnabled() {
		for _, a := range fn.Annotations {
			switch anno := a.(type) {
			case *ast.RequiresAnno:
				fmt.Fprintf(&l.out, "  __requires(%s, %q, %s);\n", jsString(l.clauseText(anno.Cond.Pos())), anno.Cond.Pos().String(), l.lowerExpr(anno.Cond))
			case *ast.EnsuresAnno:
				ensures = append(ensures, anno)
			}
		}
	}

	if len(ensures) > 0 {
		for _, stmt := range l.prepareOldSnapshots(fn) {
			l.out.WriteString("  ")
			l.out.WriteString(stmt)
			l.out.WriteString("\n")
		}
	}

	prevEnsures, prevResult := l.currentEnsures, l.resultName
	l.currentEnsures = ensures
	defer func() { l.currentEnsures, l.resultName = prevEnsures, prevResult }()

	if fn.Body == nil {
		return
	}
	for _, s := range fn.Body.Stmts {
		l.out.WriteString(l.indentLines(l.lowerStmt(s), "  "))
	}
	if fn.Body.Trailer != nil {
		l.out.WriteString(l.indentLines(l.lowerTailExpr(fn.Body.Trailer), "  "))
	} else if len(ensures) > 0 {
		l.out.WriteString(l.indentLines(l.lowerTailReturn(""), "  "))
	}
}

// lowerTailExpr emits the statements realizing the function body's
// implicit trailing-expression return, running any ensures checks first
// when the function declares them.
func (l *lowerer) lowerTailExpr(trailer ast.Expr) string {
	if len(l.currentEnsures) == 0 {
		return "return " + l.lowerExpr(trailer) + ";\n"
	}
	return l.lowerTailReturn(l.lowerExpr(trailer))
}

// lowerTailReturn binds valueExpr (already-lowered JS text, or "" for a
// bare/void return) to a fresh result name, evaluates every ensures clause
// with `result` rewritten to that binding, and yields it.
func (l *lowerer) lowerTailReturn(valueExpr string) string {
	if valueExpr == "" {
		valueExpr = "undefined"
	}
	name := l.freshName("result")
	var sb strings.Builder
	fmt.Fprintf(&sb, "const %s = %s;\n", name, valueExpr)

	prevResult := l.resultName
	l.resultName = name
	for _, ens := range l.currentEnsures {
		fmt.Fprintf(&sb, "__ensures(%s, %q, %s);\n", jsString(l.clauseText(ens.Cond.Pos())), ens.Cond.Pos().String(), l.lowerExpr(ens.Cond))
	}
	l.resultName = prevResult

	fmt.Fprintf(&sb, "return %s;\n", name)
	return sb.String()
}

// indentLines prefixes every non-empty line of s with indent, used to keep
// generated blocks readable without a general-purpose pretty-printer.
func (l *lowerer) indentLines(s string, indent string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	var sb strings.Builder
	for _, ln := range lines {
		if ln == "" {
			sb.WriteString("\n")
			continue
		}
		sb.WriteString(indent)
		sb.WriteString(ln)
		sb.WriteString("\n")
	}
	return sb.String()
}

// lowerStruct emits a constructor function taking fields in declaration
// order. Field names double as
// parameter names, so invariant clauses (which reference bare field
// identifiers, not `self.field` — see checker.checkStructInvariants)
// lower unchanged: the parameters are already the names the invariant
// expression expects in scope.
func (l *lowerer) lowerStruct(sd *ast.StructDecl, prefix string) {
	names := make([]string, len(sd.Fields))
	for i, f := range sd.Fields {
		names[i] = f.Name
	}
	fmt.Fprintf(&l.out, "%sfunction %s(%s) {\n", prefix, sd.Name, strings.Join(names, ", "))
	for _, f := range sd.Fields {
		fmt.Fprintf(&l.out, "  this.%s = %s;\n", f.Name, f.Name)
	}
	if l.guardsEnabled() {
		for _, inv := range sd.Invariants {
			fmt.Fprintf(&l.out, "  __invariant(%s, %q, %s);\n", jsString(l.clauseText(inv.Cond.Pos())), inv.Cond.Pos().String(), l.lowerExpr(inv.Cond))
		}
	}
	l.out.WriteString("}\n")
}

// lowerEnum emits a namespace object with one entry per variant: a
// factory function for a tuple-style
// variant, or a singleton tagged record directly for a unit variant.
func (l *lowerer) lowerEnum(ed *ast.EnumDecl, prefix string) {
	fmt.Fprintf(&l.out, "%sconst %s = {\n", prefix, ed.Name)
	for _, v := range ed.Variants {
		if len(v.Fields) == 0 {
			fmt.Fprintf(&l.out, "  %s: { tag: %q, fields: [] },\n", v.Name, v.Name)
			continue
		}
		fieldNames := make([]string, len(v.Fields))
		for i := range v.Fields {
			fieldNames[i] = fmt.Sprintf("f%d", i)
		}
		args := strings.Join(fieldNames, ", ")
		fmt.Fprintf(&l.out, "  %s: function(%s) { return { tag: %q, fields: [%s] }; },\n", v.Name, args, v.Name, args)
	}
	l.out.WriteString("};\n")
}

// lowerImpl attaches each method to the implemented type via prototype
// assignment, the host's standard method-attachment mechanism. `self`
// lowers to `this` inside the
// method body (see lowerExpr's SelfExpr case) rather than
// appearing as a parameter.
func (l *lowerer) lowerImpl(im *ast.ImplDecl) {
	typeName := lowerTypeExprName(im.ForType)
	for _, m := range im.Methods {
		fmt.Fprintf(&l.out, "%s.prototype.%s = function(%s) {\n", typeName, m.Name, strings.Join(nonSelfParamNames(m.Params), ", "))
		l.writeFuncBody(m)
		l.out.WriteString("};\n")
	}
}

func nonSelfParamNames(params []ast.Param) []string {
	out := make([]string, 0, len(params))
	for _, p := range params {
		if p.Name == "self" {
			continue
		}
		out = append(out, p.Name)
	}
	return out
}

func lowerTypeExprName(t ast.TypeExpr) string {
	switch v := t.(type) {
	case *ast.NamedTypeExpr:
		return strings.Join(v.Path, ".")
	case *ast.GenericTypeExpr:
		return lowerTypeExprName(v.Base)
	}
	return ""
}

// lowerEffect emits a handler record with identity stubs: each handler
// returns its first argument
// unchanged, or undefined for a nullary method. The built-in IO effect
// is already provided by the runtime prelude (prelude.go's
// ioEffectSource) with concrete console/stdin-backed handlers, so a
// user-declared `effect IO { ... }` is not re-emitted.
func (l *lowerer) lowerEffect(ed *ast.EffectDecl, prefix string) {
	if ed.Name == "IO" {
		return
	}
	fmt.Fprintf(&l.out, "%sconst %s = {\n", prefix, ed.Name)
	for _, m := range ed.Methods {
		if len(m.Params) == 0 {
			fmt.Fprintf(&l.out, "  %s: function() { return undefined; },\n", m.Name)
			continue
		}
		names := make([]string, len(m.Params))
		for i, p := range m.Params {
			names[i] = fmt.Sprintf("a%d", i)
			_ = p
		}
		fmt.Fprintf(&l.out, "  %s: function(%s) { return %s; },\n", m.Name, strings.Join(names, ", "), names[0])
	}
	l.out.WriteString("};\n")
}

// lowerImport translates an import to the target module system: wildcard
// imports bind the final
// path segment, explicit imports support `name as alias`.
func (l *lowerer) lowerImport(id *ast.ImportDecl) {
	path := strings.Join(id.Path, "/")
	if id.Wildcard {
		binding := id.Path[len(id.Path)-1]
		if l.opts.Module == config.CommonJS {
			fmt.Fprintf(&l.out, "const %s = require(%q);\n", binding, path)
		} else {
			fmt.Fprintf(&l.out, "import * as %s from %q;\n", binding, path)
		}
		return
	}

	if l.opts.Module == config.CommonJS {
		parts := make([]string, len(id.Items))
		for i, it := range id.Items {
			if it.Alias != "" {
				parts[i] = fmt.Sprintf("%s: %s", it.Name, it.Alias)
			} else {
				parts[i] = it.Name
			}
		}
		fmt.Fprintf(&l.out, "const { %s } = require(%q);\n", strings.Join(parts, ", "), path)
		return
	}

	parts := make([]string, len(id.Items))
	for i, it := range id.Items {
		if it.Alias != "" {
			parts[i] = fmt.Sprintf("%s as %s", it.Name, it.Alias)
		} else {
			parts[i] = it.Name
		}
	}
	fmt.Fprintf(&l.out, "import { %s } from %q;\n", strings.Join(parts, ", "), path)
}
