package ast

// GenericParam is one generic type parameter: zero or more bound types and
// an optional default.
type GenericParam struct {
	Name    string
	Bounds  []TypeExpr
	Default TypeExpr // nil when absent
}

// FuncDecl is a function or method declaration.
type FuncDecl struct {
	DeclBase
	Name        string
	Generics    []GenericParam
	Params      []Param
	ReturnType  TypeExpr // nil means Void
	Annotations []Annotation
	Body        *BlockExpr // nil for a trait method signature
	Pure        bool
	Exported    bool
}

// VarDecl is a `let [mut] name[: Type] [= init];` declaration, usable both
// at the top level and as a statement inside a block (see DeclStmt).
type VarDecl struct {
	DeclBase
	Name     string
	Mut      bool
	Type     TypeExpr // nil when inferred from Init
	Init     Expr     // nil when absent
	Exported bool
}

// TypeAliasDecl is `type Name<Generics> = Target;`.
type TypeAliasDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Target   TypeExpr
	Exported bool
}

// StructField is one field of a struct declaration.
type StructField struct {
	Name        string
	Type        TypeExpr
	Default     Expr // nil when absent
	Annotations []Annotation
}

// StructDecl is a `struct Name<Generics> { fields..., @invariant ... }`.
type StructDecl struct {
	DeclBase
	Name       string
	Generics   []GenericParam
	Fields     []StructField
	Invariants []InvariantAnno
	Exported   bool
}

// EnumVariant is one variant of an enum; Fields is empty for a unit
// variant and an ordered list of field types for a tuple-style variant.
type EnumVariant struct {
	Name   string
	Fields []TypeExpr
}

// EnumDecl is an `enum Name<Generics> { Variant1, Variant2(T1, T2), ... }`.
type EnumDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Variants []EnumVariant
	Exported bool
}

// TraitMethodSig is one method signature inside a trait or effect body.
type TraitMethodSig struct {
	Name       string
	Generics   []GenericParam
	Params     []Param
	ReturnType TypeExpr
	Effects    []string
}

// TraitDecl is a `trait Name<Generics>: Super1 + Super2 { methods... }`.
type TraitDecl struct {
	DeclBase
	Name        string
	Generics    []GenericParam
	SuperTraits []string
	Methods     []TraitMethodSig
	Exported    bool
}

// ImplDecl is `impl [Trait for] Type { methods... }`.
type ImplDecl struct {
	DeclBase
	TraitName string // "" for an inherent impl
	ForType   TypeExpr
	Generics  []GenericParam
	Methods   []*FuncDecl
}

// ContractDecl is `contract Name<Generics> { @requires ...; @ensures ...; @invariant ...; }`.
// Its body contains only annotations. The collector registers the
// declaration node itself under the contract's name; clause source text is
// not serialized.
type ContractDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Clauses  []Annotation
}

// IntentDecl is `intent Name<Generics> { @ensures ...; }`.
type IntentDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Ensures  []EnsuresAnno
}

// EffectDecl is `effect Name<Generics> { method signatures... }`.
type EffectDecl struct {
	DeclBase
	Name     string
	Generics []GenericParam
	Methods  []TraitMethodSig
}

// CapabilityField is one `name: Type` permission entry.
type CapabilityField struct {
	Name string
	Type TypeExpr
}

// CapabilityDecl is `capability Name { field: Type, ... }`.
type CapabilityDecl struct {
	DeclBase
	Name   string
	Fields []CapabilityField
}

// ImportItem is one entry of a brace-enclosed import list: `name [as alias]`.
type ImportItem struct {
	Name  string
	Alias string // "" when absent
}

// ImportDecl is `import a.b.c [{ name [as alias], ... } | .*];`.
type ImportDecl struct {
	DeclBase
	Path     []string
	Items    []ImportItem
	Wildcard bool
}

// ExportDecl wraps any other declaration with a leading `export`.
type ExportDecl struct {
	DeclBase
	Inner Decl
}
