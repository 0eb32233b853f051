package types_test

import (
	"testing"

	"github.com/cwbudde/ctrc/internal/types"
	"github.com/google/go-cmp/cmp"
)

func TestAssignableDirected(t *testing.T) {
	intOpt := &types.OptionalType{Inner: types.Int}
	refInt := &types.ReferenceType{Inner: types.Int}
	refMutInt := &types.ReferenceType{Inner: types.Int, Mut: true}

	cases := []struct {
		name string
		from types.Type
		to   types.Type
		want bool
	}{
		{"identity", types.Int, types.Int, true},
		{"never to anything", types.Never, types.StringT, true},
		{"anything to unknown", types.StringT, types.Unknown, true},
		{"unknown to anything", types.Unknown, types.StringT, true},
		{"plain to optional", types.Int, intOpt, true},
		{"optional to plain", intOpt, types.Int, false},
		{"mut ref to shared ref", refMutInt, refInt, true},
		{"shared ref to mut ref", refInt, refMutInt, false},
		{"int widens to int64", types.Int32, types.Int64, true},
		{"int64 narrows to int32", types.Int64, types.Int32, false},
		{"int8 widens to int", types.Int8, types.Int, true},
		{"float32 widens to float64", types.Float32, types.Float64, true},
		{"float64 narrows to float32", types.Float64, types.Float32, false},
		{"int to float", types.Int, types.Float64, true},
		{"float to int", types.Float64, types.Int, false},
		{"bool to int", types.BoolT, types.Int, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := types.Assignable(c.from, c.to); got != c.want {
				t.Errorf("Assignable(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
			}
		})
	}
}

func TestWidenPicksWiderOperand(t *testing.T) {
	cases := []struct {
		a, b types.Type
		want types.Type
	}{
		{types.Int, types.Int, types.Int},
		{types.Int8, types.Int32, types.Int32},
		{types.Int, types.Float64, types.Float64},
		{types.Float32, types.Int64, types.Float32},
		{types.Float32, types.Float64, types.Float64},
		{types.Int, types.UInt, types.Int}, // both 64-bit; left wins
	}
	for _, c := range cases {
		got, ok := types.Widen(c.a, c.b)
		if !ok {
			t.Errorf("Widen(%s, %s): not numeric", c.a, c.b)
			continue
		}
		if !types.Equal(got, c.want) {
			t.Errorf("Widen(%s, %s) = %s, want %s", c.a, c.b, got, c.want)
		}
	}

	if _, ok := types.Widen(types.BoolT, types.Int); ok {
		t.Error("Widen(Bool, Int) should not succeed")
	}
}

func TestEqualStructural(t *testing.T) {
	a := &types.TupleType{Elems: []types.Type{types.Int, &types.OptionalType{Inner: types.StringT}}}
	b := &types.TupleType{Elems: []types.Type{types.Int, &types.OptionalType{Inner: types.StringT}}}
	if !types.Equal(a, b) {
		t.Errorf("structurally equal tuples compare unequal:\n%s", cmp.Diff(a.String(), b.String()))
	}

	c := &types.TupleType{Elems: []types.Type{types.Int, types.StringT}}
	if types.Equal(a, c) {
		t.Errorf("tuples %s and %s should not be equal", a, c)
	}

	r1 := &types.ResultType{Ok: types.Int, Err: types.StringT}
	r2 := &types.ResultType{Ok: types.Int, Err: types.StringT}
	if !types.Equal(r1, r2) {
		t.Error("structurally equal Result types compare unequal")
	}
}

// TestStringRendering pins the human-readable spellings diagnostics embed.
func TestStringRendering(t *testing.T) {
	size := 4
	got := []string{
		(&types.ArrayType{Elem: types.Int}).String(),
		(&types.ArrayType{Elem: types.Int, Size: &size}).String(),
		(&types.ReferenceType{Inner: types.Int, Mut: true}).String(),
		(&types.OptionalType{Inner: types.StringT}).String(),
		(&types.ResultType{Ok: types.Int, Err: types.StringT}).String(),
		(&types.FunctionType{Params: []types.FuncParam{{Name: "a", Type: types.Int}}, Return: types.BoolT}).String(),
	}
	want := []string{
		"[Int]",
		"[Int; 4]",
		"&mut Int",
		"String?",
		"Result<Int, String>",
		"fn(Int) -> Bool",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("rendered type spellings differ (-want +got):\n%s", diff)
	}
}
