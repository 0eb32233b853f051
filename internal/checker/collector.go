package checker

import (
	"github.com/cwbudde/ctrc/internal/ast"
	"github.com/cwbudde/ctrc/internal/diag"
	"github.com/cwbudde/ctrc/internal/types"
)

// Collector performs Pass A: it registers every top-level
// name — types, functions, contracts, intents — into the global scope
// before any body is checked, so declarations may reference each other
// regardless of the order they appear in source.
type Collector struct {
	sink   *diag.Sink
	global *Scope
}

// NewCollector creates a Collector reporting to sink. The global scope
// starts with the built-in IO effect pre-registered; the runtime prelude
// ships default read/write handlers for it, so a program may use
// @effect[IO] without declaring it.
func NewCollector(sink *diag.Sink) *Collector {
	global := NewScope(nil, ScopeGlobal)
	io := &types.EffectType{Name: "IO", Methods: map[string]*types.FunctionType{
		"read":  {Return: types.StringT, Effects: []string{"IO"}},
		"write": {Params: []types.FuncParam{{Name: "msg", Type: types.StringT}}, Return: types.Void, Effects: []string{"IO"}},
	}}
	global.DefineType("IO", io)
	global.DefineSymbol(&Symbol{Name: "IO", Type: io})
	return &Collector{sink: sink, global: global}
}

// Collect runs both Collector sub-passes over prog and returns the
// populated global scope for Pass B to check against.
func (c *Collector) Collect(prog *ast.Program) *Scope {
	decls := flattenExports(prog.Decls)

	// Sub-pass 1: register empty placeholders for every nominal type so
	// mutually-referencing field/variant/method types resolve below.
	for _, d := range decls {
		c.declarePlaceholder(d)
	}

	// Sub-pass 2: fill in the placeholders' contents, and collect function
	// signatures, contracts, and intents.
	for _, d := range decls {
		c.fill(d)
	}

	return c.global
}

// flattenExports strips the ExportDecl wrapper so collection treats an
// exported declaration identically to an unexported one; export-ness
// itself is a lowering concern, not a naming concern.
func flattenExports(decls []ast.Decl) []ast.Decl {
	out := make([]ast.Decl, len(decls))
	for i, d := range decls {
		if ex, ok := d.(*ast.ExportDecl); ok {
			out[i] = ex.Inner
			continue
		}
		out[i] = d
	}
	return out
}

func (c *Collector) declarePlaceholder(d ast.Decl) {
	switch t := d.(type) {
	case *ast.StructDecl:
		st := &types.StructType{Name: t.Name, Fields: map[string]types.Type{}}
		c.defineNominal(t, t.Name, st)
	case *ast.EnumDecl:
		et := &types.EnumType{Name: t.Name, Variants: map[string]*types.EnumVariant{}}
		c.defineNominal(t, t.Name, et)
	case *ast.TraitDecl:
		tt := &types.TraitType{Name: t.Name, Methods: map[string]*types.FunctionType{}}
		c.defineNominal(t, t.Name, tt)
	case *ast.EffectDecl:
		et := &types.EffectType{Name: t.Name, Methods: map[string]*types.FunctionType{}}
		c.defineNominal(t, t.Name, et)
	case *ast.CapabilityDecl:
		ct := &types.CapabilityType{Name: t.Name, Permissions: map[string]types.Type{}}
		c.defineNominal(t, t.Name, ct)
	case *ast.TypeAliasDecl:
		// Resolved directly on fill(); register nothing yet so a cyclic
		// alias is caught as "undefined type" rather than looping forever.
	}
}

// defineNominal registers a nominal type under both the type map and the
// ordinary symbol map, so `IO.write` and `Shape::Circle` resolve in
// expression position. The duplicate diagnostic is reported once, off the
// type map.
func (c *Collector) defineNominal(at ast.Decl, name string, t types.Type) {
	if !c.global.DefineType(name, t) {
		// A program spelling out `effect IO { ... }` replaces the built-in
		// registration rather than colliding with it.
		if _, isEffect := t.(*types.EffectType); isEffect && name == "IO" {
			c.global.typeDefs[name] = t
			c.global.symbols[name] = &Symbol{Name: name, Type: t}
			return
		}
		c.sink.Errorf(diag.Analyzer, at.Pos(), "type %q redeclared", name)
		return
	}
	c.global.DefineSymbol(&Symbol{Name: name, Type: t})
}

func (c *Collector) fill(d ast.Decl) {
	switch t := d.(type) {
	case *ast.StructDecl:
		c.fillStruct(t)
	case *ast.EnumDecl:
		c.fillEnum(t)
	case *ast.TraitDecl:
		c.fillTrait(t)
	case *ast.EffectDecl:
		c.fillEffect(t)
	case *ast.CapabilityDecl:
		c.fillCapability(t)
	case *ast.TypeAliasDecl:
		scope, _ := resolveGenerics(c.global, c.sink, t.Generics)
		target := resolveType(scope, c.sink, t.Target)
		if !c.global.DefineType(t.Name, target) {
			c.sink.Errorf(diag.Analyzer, t.Pos(), "type %q redeclared", t.Name)
		}
	case *ast.FuncDecl:
		c.fillFunc(t, nil)
	case *ast.ContractDecl:
		if !c.global.DefineContract(t.Name, t) {
			c.sink.Errorf(diag.Analyzer, t.Pos(), "contract %q redeclared", t.Name)
		}
	case *ast.IntentDecl:
		if !c.global.DefineIntent(t.Name, t) {
			c.sink.Errorf(diag.Analyzer, t.Pos(), "intent %q redeclared", t.Name)
		}
	case *ast.ImplDecl:
		c.fillImpl(t)
	case *ast.VarDecl:
		scope, _ := resolveGenerics(c.global, c.sink, nil)
		var vt types.Type = types.Unknown
		if t.Type != nil {
			vt = resolveType(scope, c.sink, t.Type)
		}
		if !c.global.DefineSymbol(&Symbol{Name: t.Name, Type: vt, Mut: t.Mut}) {
			c.sink.Errorf(diag.Analyzer, t.Pos(), "%q redeclared", t.Name)
		}
	case *ast.ImportDecl:
		// Cross-module resolution is outside this package's scope; imported
		// names are treated as opaque Unknown bindings if ever referenced.
	}
}

func (c *Collector) fillStruct(t *ast.StructDecl) {
	def, _ := c.global.LookupType(t.Name)
	st := def.(*types.StructType)
	scope, generics := resolveGenerics(c.global, c.sink, t.Generics)
	st.Generics = generics
	for _, f := range t.Fields {
		ft := resolveType(scope, c.sink, f.Type)
		st.Fields[f.Name] = ft
		st.FieldOrder = append(st.FieldOrder, f.Name)
	}
	for _, inv := range t.Invariants {
		st.Invariants = append(st.Invariants, inv.Cond)
	}
}

func (c *Collector) fillEnum(t *ast.EnumDecl) {
	def, _ := c.global.LookupType(t.Name)
	et := def.(*types.EnumType)
	scope, generics := resolveGenerics(c.global, c.sink, t.Generics)
	et.Generics = generics
	for _, v := range t.Variants {
		fields := make([]types.Type, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = resolveType(scope, c.sink, f)
		}
		et.Variants[v.Name] = &types.EnumVariant{Name: v.Name, Fields: fields}
		et.VariantOrder = append(et.VariantOrder, v.Name)
	}
}

func (c *Collector) fillTrait(t *ast.TraitDecl) {
	def, _ := c.global.LookupType(t.Name)
	tt := def.(*types.TraitType)
	scope, generics := resolveGenerics(c.global, c.sink, t.Generics)
	tt.Generics = generics
	tt.SuperTraits = t.SuperTraits
	for _, m := range t.Methods {
		tt.Methods[m.Name] = methodSigType(scope, c.sink, m)
	}
}

func (c *Collector) fillEffect(t *ast.EffectDecl) {
	def, _ := c.global.LookupType(t.Name)
	et := def.(*types.EffectType)
	scope, generics := resolveGenerics(c.global, c.sink, t.Generics)
	et.Generics = generics
	for _, m := range t.Methods {
		sig := methodSigType(scope, c.sink, m)
		// Invoking an effect's operation incurs that effect; make every
		// method carry it so call sites are held to the discipline.
		sig.Effects = appendMissing(sig.Effects, t.Name)
		et.Methods[m.Name] = sig
	}
}

func appendMissing(list []string, name string) []string {
	for _, n := range list {
		if n == name {
			return list
		}
	}
	return append(list, name)
}

func (c *Collector) fillCapability(t *ast.CapabilityDecl) {
	def, _ := c.global.LookupType(t.Name)
	ct := def.(*types.CapabilityType)
	for _, f := range t.Fields {
		ct.Permissions[f.Name] = resolveType(c.global, c.sink, f.Type)
	}
}

func (c *Collector) fillImpl(t *ast.ImplDecl) {
	forType := resolveType(c.global, c.sink, t.ForType)
	st, isStruct := forType.(*types.StructType)
	for _, m := range t.Methods {
		sig := c.fillFunc(m, forType)
		if isStruct {
			// Inherent and trait methods alike are addressable as
			// `Type.method` member lookups; stash them on the struct type
			// itself since that's the only receiver kind the grammar
			// allows self-parameters on.
			if st.Fields == nil {
				st.Fields = map[string]types.Type{}
			}
			st.Fields["::"+m.Name] = sig
		}
	}
}

// fillFunc resolves fn's signature into a FunctionType, registers it as a
// global symbol (methods are keyed by their bare name; the language has
// no overloading), and returns the resolved type for the caller's own use.
func (c *Collector) fillFunc(fn *ast.FuncDecl, selfType types.Type) *types.FunctionType {
	scope, _ := resolveGenerics(c.global, c.sink, fn.Generics)
	params := make([]types.FuncParam, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Name == "self" {
			params = append(params, types.FuncParam{Name: "self", Type: selfType})
			continue
		}
		params = append(params, types.FuncParam{Name: p.Name, Type: resolveType(scope, c.sink, p.Type), Mut: p.Mut})
	}
	ret := resolveType(scope, c.sink, fn.ReturnType)
	sig := &types.FunctionType{
		Params:       params,
		Return:       ret,
		Effects:      annotationEffects(fn.Annotations),
		Capabilities: annotationCapabilities(fn.Annotations),
		Contracts:    annotationContracts(fn.Annotations),
		Pure:         fn.Pure,
	}
	if !c.global.DefineSymbol(&Symbol{Name: fn.Name, Type: sig}) {
		c.sink.Errorf(diag.Analyzer, fn.Pos(), "%q redeclared", fn.Name)
	}
	return sig
}

func methodSigType(scope *Scope, sink *diag.Sink, m ast.TraitMethodSig) *types.FunctionType {
	params := make([]types.FuncParam, 0, len(m.Params))
	for _, p := range m.Params {
		if p.Name == "self" {
			continue
		}
		params = append(params, types.FuncParam{Name: p.Name, Type: resolveType(scope, sink, p.Type), Mut: p.Mut})
	}
	return &types.FunctionType{
		Params:  params,
		Return:  resolveType(scope, sink, m.ReturnType),
		Effects: m.Effects,
	}
}
