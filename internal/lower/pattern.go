package lower

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ctrc/internal/ast"
)

// patternTest and patternBindings are two independent traversals over the
// same pattern tree: one builds the boolean test
// deciding whether subject matches, the other builds the binding
// statements a successful match introduces. Keeping them separate avoids
// threading binding side-effects through a test expression.

// patternTest builds the boolean JS expression testing whether subject
// matches pat.
func (l *lowerer) patternTest(pat ast.Pattern, subject string) string {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return "true"
	case *ast.IdentPattern:
		return "true"
	case *ast.LiteralPattern:
		return fmt.Sprintf("(%s === %s)", subject, l.lowerExpr(p.Value))
	case *ast.RangePattern:
		op := "<"
		if p.Inclusive {
			op = "<="
		}
		return fmt.Sprintf("(%s >= %s && %s %s %s)", subject, l.lowerExpr(p.Low), subject, op, l.lowerExpr(p.High))
	case *ast.TuplePattern:
		parts := make([]string, len(p.Elements))
		for i, el := range p.Elements {
			parts[i] = l.patternTest(el, fmt.Sprintf("%s[%d]", subject, i))
		}
		return conjoin(parts)
	case *ast.StructPattern:
		var parts []string
		for _, f := range p.Fields {
			if f.Pattern == nil {
				continue
			}
			parts = append(parts, l.patternTest(f.Pattern, fmt.Sprintf("%s.%s", subject, f.Name)))
		}
		return conjoin(parts)
	case *ast.EnumVariantPattern:
		parts := []string{fmt.Sprintf("(%s.tag === %q)", subject, p.Variant)}
		for i, f := range p.Fields {
			parts = append(parts, l.patternTest(f, fmt.Sprintf("%s.fields[%d]", subject, i)))
		}
		return conjoin(parts)
	}
	panicCodegen(pat.Pos(), "lower: unsupported pattern %T", pat)
	return ""
}

// patternBindings builds the `const`/`let` statements a successful match
// of pat against subject introduces, in the order they should run.
func (l *lowerer) patternBindings(pat ast.Pattern, subject string) []string {
	switch p := pat.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern, *ast.RangePattern:
		return nil
	case *ast.IdentPattern:
		kw := "const"
		if p.Mut {
			kw = "let"
		}
		return []string{fmt.Sprintf("%s %s = %s;", kw, p.Name, subject)}
	case *ast.TuplePattern:
		var out []string
		for i, el := range p.Elements {
			out = append(out, l.patternBindings(el, fmt.Sprintf("%s[%d]", subject, i))...)
		}
		return out
	case *ast.StructPattern:
		var out []string
		for _, f := range p.Fields {
			target := fmt.Sprintf("%s.%s", subject, f.Name)
			if f.Pattern == nil {
				out = append(out, fmt.Sprintf("const %s = %s;", f.Name, target))
				continue
			}
			out = append(out, l.patternBindings(f.Pattern, target)...)
		}
		if p.Rest {
			out = append(out, fmt.Sprintf("const $rest = Object.assign({}, %s);", subject))
		}
		return out
	case *ast.EnumVariantPattern:
		var out []string
		for i, f := range p.Fields {
			out = append(out, l.patternBindings(f, fmt.Sprintf("%s.fields[%d]", subject, i))...)
		}
		return out
	}
	panicCodegen(pat.Pos(), "lower: unsupported pattern %T", pat)
	return nil
}

// conjoin joins parts with "&&", short-circuiting to "true" for an empty
// or all-trivial pattern (e.g. a struct pattern binding every field with
// no explicit sub-pattern to test).
func conjoin(parts []string) string {
	if len(parts) == 0 {
		return "true"
	}
	return "(" + strings.Join(parts, " && ") + ")"
}
