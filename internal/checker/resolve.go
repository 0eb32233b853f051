package checker

import (
	"strings"
	"sync/atomic"

	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/types"
)

// resolveType translates a syntactic TypeExpr into the checker's internal
// Type representation, reporting diag.Analyzer diagnostics for unknown
// names and returning types.Unknown so the error propagates silently
// instead of cascading.
func resolveType(scope *Scope, sink *diag.Sink, te ast.TypeExpr) types.Type {
	if te == nil {
		return types.Void
	}
	switch t := te.(type) {
	case *ast.PrimitiveTypeExpr:
		if p, ok := types.PrimitiveByName(t.Name); ok {
			return p
		}
		if t.Name == "Void" {
			return types.Void
		}
		sink.Errorf(diag.Analyzer, t.Pos(), "unknown primitive type %q", t.Name)
		return types.Unknown

	case *ast.NeverTypeExpr:
		return types.Never

	case *ast.NamedTypeExpr:
		name := strings.Join(t.Path, ".")
		if def, ok := scope.LookupType(name); ok {
			return def
		}
		sink.Errorf(diag.Analyzer, t.Pos(), "undefined type %q", name)
		return types.Unknown

	case *ast.GenericTypeExpr:
		base := resolveType(scope, sink, t.Base)
		args := make([]types.Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = resolveType(scope, sink, a)
		}
		return &types.GenericType{Base: base, Args: args}

	case *ast.ArrayTypeExpr:
		return &types.ArrayType{Elem: resolveType(scope, sink, t.Elem), Size: t.Size}

	case *ast.TupleTypeExpr:
		elems := make([]types.Type, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = resolveType(scope, sink, e)
		}
		return &types.TupleType{Elems: elems}

	case *ast.FuncTypeExpr:
		params := make([]types.FuncParam, len(t.Params))
		for i, pt := range t.Params {
			params[i] = types.FuncParam{Type: resolveType(scope, sink, pt)}
		}
		ret := resolveType(scope, sink, t.Return)
		return &types.FunctionType{Params: params, Return: ret, Effects: t.Effects}

	case *ast.RefTypeExpr:
		return &types.ReferenceType{Inner: resolveType(scope, sink, t.Inner), Mut: t.Mut}

	case *ast.OptionTypeExpr:
		return &types.OptionalType{Inner: resolveType(scope, sink, t.Inner)}

	case *ast.ResultTypeExpr:
		return &types.ResultType{Ok: resolveType(scope, sink, t.Ok), Err: resolveType(scope, sink, t.Err)}

	default:
		sink.Errorf(diag.Analyzer, te.Pos(), "unsupported type expression %T", te)
		return types.Unknown
	}
}

// typeVarSeq hands out globally unique TypeVar ids. Type variables compare
// by id, so two generic parameters from different declarations must never
// share one; compilations may run concurrently, hence the atomic.
var typeVarSeq atomic.Int64

// resolveGenerics opens a child type-scope binding each generic parameter
// name to a fresh TypeVar, for use while resolving a declaration's own
// signature. Generic handling is name-resolution only; bounds are recorded
// but not checked against call-site arguments.
func resolveGenerics(scope *Scope, sink *diag.Sink, gens []ast.GenericParam) (*Scope, []*types.TypeVar) {
	child := NewScope(scope, ScopeModule)
	vars := make([]*types.TypeVar, len(gens))
	for i, g := range gens {
		tv := &types.TypeVar{Name: g.Name, ID: int(typeVarSeq.Add(1))}
		for _, b := range g.Bounds {
			tv.Bounds = append(tv.Bounds, resolveType(child, sink, b))
		}
		vars[i] = tv
		child.DefineType(g.Name, tv)
	}
	return child, vars
}

func annotationEffects(annos []ast.Annotation) []string {
	var out []string
	for _, a := range annos {
		if es, ok := a.(*ast.EffectSetAnno); ok {
			out = append(out, es.Names...)
		}
	}
	return out
}

func annotationCapabilities(annos []ast.Annotation) []string {
	var out []string
	for _, a := range annos {
		if ca, ok := a.(*ast.CapabilitySpecAnno); ok {
			out = append(out, ca.Name)
		}
	}
	return out
}

func annotationContracts(annos []ast.Annotation) []string {
	var out []string
	for _, a := range annos {
		if c, ok := a.(*ast.ContractRefAnno); ok {
			out = append(out, c.Name)
		}
	}
	return out
}
