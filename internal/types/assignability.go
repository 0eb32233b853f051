package types

// Assignable implements the directed (non-symmetric) assignability
// relation. It answers "may a value of type `from` be supplied where `to`
// is expected?"
func Assignable(from, to Type) bool {
	if from == nil || to == nil {
		return false
	}
	if _, ok := from.(UnknownT); ok {
		return true
	}
	if _, ok := to.(UnknownT); ok {
		return true
	}
	if _, ok := from.(NeverT); ok {
		return true // Never → anything
	}

	// An uninstantiated generic parameter stands in for whatever type the
	// call site supplies. With no inference pass, values flow through a
	// TypeVar in both directions unchecked; bounds are recorded but not
	// enforced here (DESIGN.md, "Generic bounds").
	if _, ok := from.(*TypeVar); ok {
		return true
	}
	if _, ok := to.(*TypeVar); ok {
		return true
	}

	if Equal(from, to) {
		return true
	}

	// anything → Optional(T) when the anything is assignable to T, and
	// plain T → T? always.
	if opt, ok := to.(*OptionalType); ok {
		return Assignable(from, opt.Inner)
	}

	// A bare nominal type satisfies a generic application of itself, and
	// vice versa: with no instantiation pass only the application's base
	// can be checked, not its arguments.
	if g, ok := to.(*GenericType); ok {
		return Assignable(from, g.Base)
	}
	if g, ok := from.(*GenericType); ok {
		return Assignable(g.Base, to)
	}

	// Reference covariance: &T → &T, and &mut T → &T (never the reverse).
	if toRef, ok := to.(*ReferenceType); ok {
		fromRef, ok := from.(*ReferenceType)
		if !ok {
			return false
		}
		if !Equal(fromRef.Inner, toRef.Inner) {
			return false
		}
		if toRef.Mut {
			return fromRef.Mut
		}
		return true
	}

	// Numeric widening: integer -> integer of >= bit width, float -> float
	// of >= bit width, integer -> float always.
	fp, fok := from.(*Primitive)
	tp, tok := to.(*Primitive)
	if fok && tok {
		if IsInteger(fp) && IsInteger(tp) {
			return bitWidth(tp) >= bitWidth(fp)
		}
		if IsFloat(fp) && IsFloat(tp) {
			return bitWidth(tp) >= bitWidth(fp)
		}
		if IsInteger(fp) && IsFloat(tp) {
			return true
		}
	}

	return false
}

// Equal reports structural equality between two checked types. Nominal
// types (struct/enum/trait/effect/capability) compare by identity or name;
// everything else compares structurally.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Primitive:
		return av == b.(*Primitive)
	case VoidT, NeverT, UnknownT:
		return true
	case *StructType:
		return av == b.(*StructType)
	case *EnumType:
		return av == b.(*EnumType)
	case *TraitType:
		return av == b.(*TraitType)
	case *EffectType:
		return av == b.(*EffectType)
	case *CapabilityType:
		return av == b.(*CapabilityType)
	case *TypeVar:
		return av.ID == b.(*TypeVar).ID
	case *ArrayType:
		bv := b.(*ArrayType)
		if (av.Size == nil) != (bv.Size == nil) {
			return false
		}
		if av.Size != nil && *av.Size != *bv.Size {
			return false
		}
		return Equal(av.Elem, bv.Elem)
	case *TupleType:
		bv := b.(*TupleType)
		if len(av.Elems) != len(bv.Elems) {
			return false
		}
		for i := range av.Elems {
			if !Equal(av.Elems[i], bv.Elems[i]) {
				return false
			}
		}
		return true
	case *ReferenceType:
		bv := b.(*ReferenceType)
		return av.Mut == bv.Mut && Equal(av.Inner, bv.Inner)
	case *OptionalType:
		return Equal(av.Inner, b.(*OptionalType).Inner)
	case *ResultType:
		bv := b.(*ResultType)
		return Equal(av.Ok, bv.Ok) && Equal(av.Err, bv.Err)
	case *GenericType:
		bv := b.(*GenericType)
		if !Equal(av.Base, bv.Base) || len(av.Args) != len(bv.Args) {
			return false
		}
		for i := range av.Args {
			if !Equal(av.Args[i], bv.Args[i]) {
				return false
			}
		}
		return true
	case *FunctionType:
		bv := b.(*FunctionType)
		if len(av.Params) != len(bv.Params) || !Equal(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !Equal(av.Params[i].Type, bv.Params[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

// Widen computes the "wider" of two numeric operand types:
// floats widen integers; within a kind, the larger bit width wins; Int and
// UInt are treated as 64-bit. Returns (result, ok); ok is false when either
// operand is not numeric.
func Widen(a, b Type) (Type, bool) {
	ap, aok := a.(*Primitive)
	bp, bok := b.(*Primitive)
	if !aok || !bok || !IsNumeric(ap) || !IsNumeric(bp) {
		return Unknown, false
	}
	if ap == bp {
		return ap, true
	}
	aFloat, bFloat := IsFloat(ap), IsFloat(bp)
	switch {
	case aFloat && !bFloat:
		return ap, true
	case bFloat && !aFloat:
		return bp, true
	case aFloat && bFloat:
		if bitWidth(ap) >= bitWidth(bp) {
			return ap, true
		}
		return bp, true
	default: // both integer
		if bitWidth(ap) >= bitWidth(bp) {
			return ap, true
		}
		return bp, true
	}
}
