// Package types implements the checker's type representation,
// distinct from the syntactic types parsed into the ast package. Types
// created here live for the lifetime of a single analysis result and are
// consulted again by the lowerer.
package types

import (
	"fmt"
	"strings"

	"github.com/cwbudde/ctrc/internal/ast"
)

// Kind classifies a Type value.
type Kind int

const (
	KPrimitive Kind = iota
	KVoid
	KNever
	KStruct
	KEnum
	KTrait
	KFunction
	KEffect
	KCapability
	KArray
	KTuple
	KReference
	KOptional
	KResult
	KGeneric
	KTypeVar
	KUnknown
	KError
)

// Type is implemented by every member of the checker's type representation.
type Type interface {
	Kind() Kind
	String() string
}

// ---- Primitives and sentinels ----

// Primitive is one of the closed primitive set.
type Primitive struct{ Name string }

func (Primitive) Kind() Kind { return KPrimitive }
func (p Primitive) String() string { return p.Name }

// Singletons for the closed primitive set.
var (
	Int     = &Primitive{"Int"}
	Int8    = &Primitive{"Int8"}
	Int16   = &Primitive{"Int16"}
	Int32   = &Primitive{"Int32"}
	Int64   = &Primitive{"Int64"}
	UInt    = &Primitive{"UInt"}
	Float32 = &Primitive{"Float32"}
	Float64 = &Primitive{"Float64"}
	BoolT   = &Primitive{"Bool"}
	CharT   = &Primitive{"Char"}
	StringT = &Primitive{"String"}
)

// PrimitiveByName looks up one of the reserved primitive type names.
func PrimitiveByName(name string) (*Primitive, bool) {
	for _, p := range []*Primitive{Int, Int8, Int16, Int32, Int64, UInt, Float32, Float64, BoolT, CharT, StringT} {
		if p.Name == name {
			return p, true
		}
	}
	return nil, false
}

// VoidT is the unit/void type.
type VoidT struct{}

func (VoidT) Kind() Kind { return KVoid }
func (VoidT) String() string { return "Void" }

// NeverT is the bottom type: assignable to anything.
type NeverT struct{}

func (NeverT) Kind() Kind { return KNever }
func (NeverT) String() string { return "Never" }

// UnknownT is the error-recovery sentinel that silently propagates through
// subsequent checks so that one error does not cascade.
type UnknownT struct{}

func (UnknownT) Kind() Kind { return KUnknown }
func (UnknownT) String() string { return "Unknown" }

// ErrorT carries a message for a type that could not be resolved at all.
type ErrorT struct{ Msg string }

func (ErrorT) Kind() Kind { return KError }
func (e ErrorT) String() string { return fmt.Sprintf("<error: %s>", e.Msg) }

var (
	Void    Type = VoidT{}
	Never   Type = NeverT{}
	Unknown Type = UnknownT{}
)

// NewError builds an ErrorT with the given message.
func NewError(format string, args ...any) Type {
	return ErrorT{Msg: fmt.Sprintf(format, args...)}
}

// ---- User-defined nominal types ----

// StructType is a struct's checked type: ordered fields, generics, and the
// invariant clauses carried to the lowerer.
type StructType struct {
	Name       string
	FieldOrder []string
	Fields     map[string]Type
	Generics   []*TypeVar
	Invariants []ast.Expr
	Module     string
}

func (*StructType) Kind() Kind { return KStruct }
func (s *StructType) String() string {
	return nominalString(s.Name, s.Generics)
}

// EnumVariant is one checked enum variant; nil Fields means a unit variant.
type EnumVariant struct {
	Name   string
	Fields []Type
}

// EnumType is an enum's checked type.
type EnumType struct {
	Name         string
	VariantOrder []string
	Variants     map[string]*EnumVariant
	Generics     []*TypeVar
}

func (*EnumType) Kind() Kind { return KEnum }
func (e *EnumType) String() string { return nominalString(e.Name, e.Generics) }

// TraitType is a trait's checked type.
type TraitType struct {
	Name        string
	Methods     map[string]*FunctionType
	SuperTraits []string
	Generics    []*TypeVar
}

func (*TraitType) Kind() Kind { return KTrait }
func (t *TraitType) String() string { return nominalString(t.Name, t.Generics) }

// FuncParam is one checked function parameter.
type FuncParam struct {
	Name string
	Type Type
	Mut  bool
}

// FunctionType is a function or method's checked type.
type FunctionType struct {
	Params       []FuncParam
	Return       Type
	Effects      []string
	Capabilities []string
	Contracts    []string
	Pure         bool
}

func (*FunctionType) Kind() Kind { return KFunction }
func (f *FunctionType) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.Type.String()
	}
	ret := "Void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), ret)
}

// EffectType is an effect's checked type: a named group of methods.
type EffectType struct {
	Name     string
	Methods  map[string]*FunctionType
	Generics []*TypeVar
}

func (*EffectType) Kind() Kind { return KEffect }
func (e *EffectType) String() string { return nominalString(e.Name, e.Generics) }

// CapabilityType is a capability's checked type: a named permission bundle.
type CapabilityType struct {
	Name        string
	Permissions map[string]Type
}

func (*CapabilityType) Kind() Kind { return KCapability }
func (c *CapabilityType) String() string { return c.Name }

// ---- Compound types ----

// ArrayType is `[T]` or `[T; N]`.
type ArrayType struct {
	Elem Type
	Size *int
}

func (*ArrayType) Kind() Kind { return KArray }
func (a *ArrayType) String() string {
	if a.Size != nil {
		return fmt.Sprintf("[%s; %d]", a.Elem.String(), *a.Size)
	}
	return fmt.Sprintf("[%s]", a.Elem.String())
}

// TupleType is `(T1, T2, ...)`.
type TupleType struct{ Elems []Type }

func (*TupleType) Kind() Kind { return KTuple }
func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// ReferenceType is `&T` or `&mut T`.
type ReferenceType struct {
	Inner Type
	Mut   bool
}

func (*ReferenceType) Kind() Kind { return KReference }
func (r *ReferenceType) String() string {
	if r.Mut {
		return "&mut " + r.Inner.String()
	}
	return "&" + r.Inner.String()
}

// OptionalType is `T?`.
type OptionalType struct{ Inner Type }

func (*OptionalType) Kind() Kind { return KOptional }
func (o *OptionalType) String() string { return o.Inner.String() + "?" }

// ResultType is `Result<Ok, Err>`.
type ResultType struct{ Ok, Err Type }

func (*ResultType) Kind() Kind { return KResult }
func (r *ResultType) String() string {
	return fmt.Sprintf("Result<%s, %s>", r.Ok.String(), r.Err.String())
}

// GenericType is a generic application `Base<Arg1, Arg2, ...>`.
type GenericType struct {
	Base Type
	Args []Type
}

func (*GenericType) Kind() Kind { return KGeneric }
func (g *GenericType) String() string {
	parts := make([]string, len(g.Args))
	for i, a := range g.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", g.Base.String(), strings.Join(parts, ", "))
}

// TypeVar is a generic type parameter's runtime representation: a unique
// id plus its declared bounds.
type TypeVar struct {
	Name   string
	Bounds []Type
	ID     int
}

func (*TypeVar) Kind() Kind { return KTypeVar }
func (v *TypeVar) String() string { return v.Name }

func nominalString(name string, generics []*TypeVar) string {
	if len(generics) == 0 {
		return name
	}
	parts := make([]string, len(generics))
	for i, g := range generics {
		parts[i] = g.Name
	}
	return fmt.Sprintf("%s<%s>", name, strings.Join(parts, ", "))
}

// IsNumeric reports whether t is one of the numeric primitives.
func IsNumeric(t Type) bool {
	p, ok := t.(*Primitive)
	if !ok {
		return false
	}
	switch p {
	case Int, Int8, Int16, Int32, Int64, UInt, Float32, Float64:
		return true
	}
	return false
}

// IsInteger reports whether t is one of the integer primitives.
func IsInteger(t Type) bool {
	p, ok := t.(*Primitive)
	if !ok {
		return false
	}
	switch p {
	case Int, Int8, Int16, Int32, Int64, UInt:
		return true
	}
	return false
}

// IsFloat reports whether t is one of the float primitives.
func IsFloat(t Type) bool {
	p, ok := t.(*Primitive)
	if !ok {
		return false
	}
	return p == Float32 || p == Float64
}

// bitWidth returns the widening bit width of a numeric primitive. Int and
// UInt are treated as 64-bit for widening purposes.
func bitWidth(p *Primitive) int {
	switch p {
	case Int8:
		return 8
	case Int16:
		return 16
	case Int32, Float32:
		return 32
	case Int64, Int, UInt, Float64:
		return 64
	}
	return 0
}
