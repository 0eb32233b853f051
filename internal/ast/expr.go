package ast

// Literals.

type IntLiteral struct {
	ExprBase
	Value int64
	Raw   string
}

type FloatLiteral struct {
	ExprBase
	Value float64
	Raw   string
}

type StringLiteral struct {
	ExprBase
	Value string
}

type CharLiteral struct {
	ExprBase
	Value rune
}

type BoolLiteral struct {
	ExprBase
	Value bool
}

type NilLiteral struct{ ExprBase }

// SelfExpr is the `self` reference inside a method body.
type SelfExpr struct{ ExprBase }

// BinaryExpr is any infix operator expression other than assignment and
// compound assignment, which the parser builds as AssignExpr.
type BinaryExpr struct {
	ExprBase
	Left     Expr
	Operator string
	Right    Expr
}

// AssignExpr is `lhs = rhs` or a compound assignment `lhs += rhs` etc.
type AssignExpr struct {
	ExprBase
	Target   Expr
	Operator string // "=", "+=", "-=", "*=", "/="
	Value    Expr
}

// UnaryExpr is a prefix operator: `- ! ~ & &mut *`.
type UnaryExpr struct {
	ExprBase
	Operator string
	Mut      bool // set for `&mut e`
	Operand  Expr
}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
}

// MemberExpr is `target.name`.
type MemberExpr struct {
	ExprBase
	Target Expr
	Name   string
}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	ExprBase
	Target Expr
	Index  Expr
}

// IfExpr is the expression form of `if`.
type IfExpr struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr // nil when no else branch
}

// MatchArm is one arm of a match expression or statement.
type MatchArm struct {
	Pattern Pattern
	Guard   Expr // nil when absent
	Body    Expr
}

// MatchExpr is the expression form of `match`.
type MatchExpr struct {
	ExprBase
	Subject Expr
	Arms    []MatchArm
}

// BlockExpr is `{ stmts...; trailingExpr }` used as an expression.
type BlockExpr struct {
	ExprBase
	Stmts   []Stmt
	Trailer Expr // nil when the block has no trailing expression
}

// Param is a lambda or function parameter.
type Param struct {
	Name string
	Type TypeExpr // nil when untyped (lambda parameters may omit types)
	Mut  bool
}

// LambdaExpr is `|params| [-> T] body`.
type LambdaExpr struct {
	ExprBase
	Params     []Param
	ReturnType TypeExpr // nil when omitted
	Body       Expr
}

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	ExprBase
	Elements []Expr
}

// TupleLiteral is `(e1, e2, ...)` with two or more elements (a single
// parenthesized element unwraps to the inner expression during parsing).
type TupleLiteral struct {
	ExprBase
	Elements []Expr
}

// StructFieldInit is one `field: value` entry of a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructLiteral is `Name { field: value, ..., ..spread? }`.
type StructLiteral struct {
	ExprBase
	TypeName string
	Fields   []StructFieldInit
	Spread   Expr // non-nil for `..spread`
}

// RangeExpr is `lo..hi` or `lo..=hi`.
type RangeExpr struct {
	ExprBase
	Low       Expr
	High      Expr
	Inclusive bool
}

// CastExpr is `expr as Type`.
type CastExpr struct {
	ExprBase
	Value Expr
	Type  TypeExpr
}

// OldExpr is `old(e)`, legal only in contract context.
type OldExpr struct {
	ExprBase
	Value Expr
}

// QuantBinding is one `name` bound by a `forall`/`exists`, optionally
// ranging over a collection expression.
type QuantBinding struct {
	Name       string
	Collection Expr // nil when the binding defaults to Int
}

// ForallExpr is `forall b1, b2, ...: cond`.
type ForallExpr struct {
	ExprBase
	Bindings []QuantBinding
	Cond     Expr
}

// ExistsExpr is `exists b1, b2, ...: cond`.
type ExistsExpr struct {
	ExprBase
	Bindings []QuantBinding
	Cond     Expr
}

// TryExpr is `e?`, error-propagation on a Result value.
type TryExpr struct {
	ExprBase
	Value Expr
}

// PathExpr is `TypeName::Name`, the expression-position counterpart of
// EnumVariantPattern: constructing an enum variant (`Shape::Circle(5)`,
// a unit variant referenced bare) or one of the two built-in two-variant
// types' constructors (`Result::Ok(v)`, `Result::Err(e)`, `Option::Some(v)`,
// `Option::None`).
type PathExpr struct {
	ExprBase
	TypeName string
	Name     string
}
