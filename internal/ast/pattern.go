package ast

// WildcardPattern is `_`.
type WildcardPattern struct{ PatternBase }

// LiteralPattern matches a literal value exactly.
type LiteralPattern struct {
	PatternBase
	Value Expr // one of the literal expression kinds
}

// IdentPattern binds the matched value to Name, optionally `mut`.
type IdentPattern struct {
	PatternBase
	Name string
	Mut  bool
}

// TuplePattern is `(p1, p2, ...)`.
type TuplePattern struct {
	PatternBase
	Elements []Pattern
}

// StructFieldPattern is one `field` or `field: pattern` entry.
type StructFieldPattern struct {
	Name    string
	Pattern Pattern // nil when the field binds to a same-named identifier
}

// StructPattern is `Name { field, field2: pattern, ..rest? }`.
type StructPattern struct {
	PatternBase
	TypeName string
	Fields   []StructFieldPattern
	Rest     bool // `..` present
}

// EnumVariantPattern is `Type::Variant[(p1, p2, ...)]`.
type EnumVariantPattern struct {
	PatternBase
	TypeName string
	Variant  string
	Fields   []Pattern // empty for a unit variant or a variant matched with no fields
}

// RangePattern matches values within [Low, High] or [Low, High).
type RangePattern struct {
	PatternBase
	Low       Expr
	High      Expr
	Inclusive bool
}
