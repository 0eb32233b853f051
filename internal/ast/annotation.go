package ast

// RequiresAnno is `@requires cond`.
type RequiresAnno struct {
	AnnoBase
	Cond Expr
}

// EnsuresAnno is `@ensures cond`.
type EnsuresAnno struct {
	AnnoBase
	Cond Expr
}

// InvariantAnno is `@invariant cond`, attached to a struct or a loop.
type InvariantAnno struct {
	AnnoBase
	Cond Expr
}

// EffectSetAnno is `@effect[Name1, Name2, ...]`.
type EffectSetAnno struct {
	AnnoBase
	Names []string
}

// CapabilitySpecAnno is `@capability Name { field: value, ... }`.
type CapabilitySpecAnno struct {
	AnnoBase
	Name   string
	Fields []StructFieldInit
}

// ContractRefAnno is `@contract Name<Args...>`.
type ContractRefAnno struct {
	AnnoBase
	Name string
	Args []TypeExpr
}

// IntentRefAnno is `@intent Name<Args...>`.
type IntentRefAnno struct {
	AnnoBase
	Name string
	Args []TypeExpr
}

// VerifyLevelAnno is `@verify(level: "full"|"runtime"|"trusted")`.
type VerifyLevelAnno struct {
	AnnoBase
	Level string
}
