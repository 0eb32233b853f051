package ast

// PrimitiveTypeExpr names one of the reserved primitive type names
//: Int, Int8, Int16, Int32, Int64, UInt, Float32, Float64, Bool,
// Char, String, Void. `Never` is parsed as NeverTypeExpr instead.
type PrimitiveTypeExpr struct {
	TypeBase
	Name string
}

// NamedTypeExpr is a path-qualified reference to a user-defined type
// (struct, enum, trait, type alias, or an opaque imported name).
type NamedTypeExpr struct {
	TypeBase
	Path []string
}

// GenericTypeExpr is `Base<Arg1, Arg2, ...>`.
type GenericTypeExpr struct {
	TypeBase
	Base TypeExpr
	Args []TypeExpr
}

// ArrayTypeExpr is `[T]` or `[T; N]`.
type ArrayTypeExpr struct {
	TypeBase
	Elem TypeExpr
	Size *int // nil for an unsized array type
}

// TupleTypeExpr is `(T1, T2, ...)`.
type TupleTypeExpr struct {
	TypeBase
	Elems []TypeExpr
}

// FuncTypeExpr is `fn(T1, T2) -> R` with an optional declared effect list.
type FuncTypeExpr struct {
	TypeBase
	Params  []TypeExpr
	Return  TypeExpr
	Effects []string
}

// RefTypeExpr is `&T` or `&mut T`.
type RefTypeExpr struct {
	TypeBase
	Inner TypeExpr
	Mut   bool
}

// OptionTypeExpr is `T?`.
type OptionTypeExpr struct {
	TypeBase
	Inner TypeExpr
}

// ResultTypeExpr is `Result<Ok, Err>`.
type ResultTypeExpr struct {
	TypeBase
	Ok  TypeExpr
	Err TypeExpr
}

// NeverTypeExpr is the bottom type `Never`.
type NeverTypeExpr struct{ TypeBase }
