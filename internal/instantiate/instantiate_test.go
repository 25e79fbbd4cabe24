package instantiate

import (
	"testing"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/types"
)

func newStore() *types.Store { return types.NewStore(atom.NewTable()) }

func TestSubstituteTypeParameter(t *testing.T) {
	s := newStore()
	tp := s.MakeTypeParameter("T", types.NoType, types.NoType)
	in := New(s, 0)

	got, err := in.Substitute(tp, NewMap([]string{"T"}, []types.TypeId{types.Number}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != types.Number {
		t.Fatalf("Substitute(T, T->number) = %v, want number", got)
	}
}

func TestSubstituteThroughArray(t *testing.T) {
	s := newStore()
	tp := s.MakeTypeParameter("T", types.NoType, types.NoType)
	arr := s.Array(tp)
	in := New(s, 0)

	got, err := in.Substitute(arr, NewMap([]string{"T"}, []types.TypeId{types.String}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := s.Array(types.String)
	if got != want {
		t.Fatalf("Substitute(T[], T->string) = %s, want %s", s.Print(got), s.Print(want))
	}
}

func TestSubstituteUnchangedReturnsSameId(t *testing.T) {
	s := newStore()
	arr := s.Array(types.String)
	in := New(s, 0)

	got, err := in.Substitute(arr, NewMap([]string{"U"}, []types.TypeId{types.Number}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != arr {
		t.Fatalf("substitution under an unrelated parameter should return the same id")
	}
}

func TestFunctionOwnTypeParamShadowsOuter(t *testing.T) {
	s := newStore()
	tp := s.MakeTypeParameter("T", types.NoType, types.NoType)
	sig := types.Signature{
		TypeParams: []types.TypeId{tp},
		Params:     []types.Param{{Name: "x", Type: tp}},
		ThisType:   types.NoType,
		Return:     tp,
	}
	fn := s.MakeFunction(sig)
	in := New(s, 0)

	got, err := in.Substitute(fn, NewMap([]string{"T"}, []types.TypeId{types.Number}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != fn {
		t.Fatalf("generic function's own T must shadow an outer T substitution: got %s, want unchanged %s", s.Print(got), s.Print(fn))
	}
}

func TestMappedTypeParamShadowsOuter(t *testing.T) {
	s := newStore()
	tp := s.MakeInfer("K") // stand-in constraint reference unaffected by substitution
	mapped := s.MakeMapped("K", types.String, types.NoType, tp, types.ModifierNone, types.ModifierNone)
	in := New(s, 0)

	got, err := in.Substitute(mapped, NewMap([]string{"K"}, []types.TypeId{types.Number}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != mapped {
		t.Fatalf("mapped type's own K must shadow an outer K substitution")
	}
}

func TestDepthLimitReturnsError(t *testing.T) {
	s := newStore()
	tp := s.MakeTypeParameter("T", types.NoType, types.NoType)
	deep := tp
	for i := 0; i < 10; i++ {
		deep = s.Array(deep)
	}
	in := New(s, 3)

	_, err := in.Substitute(deep, NewMap([]string{"T"}, []types.TypeId{types.Number}))
	if err == nil {
		t.Fatalf("expected TooDeep error for a substitution nested past maxDepth")
	}
	if _, ok := err.(TooDeep); !ok {
		t.Fatalf("expected TooDeep, got %T", err)
	}
}

func TestUnionMemberSubstitution(t *testing.T) {
	s := newStore()
	tp := s.MakeTypeParameter("T", types.NoType, types.NoType)
	union := s.Union([]types.TypeId{tp, types.Null})
	in := New(s, 0)

	got, err := in.Substitute(union, NewMap([]string{"T"}, []types.TypeId{types.String}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := s.Union([]types.TypeId{types.String, types.Null})
	if got != want {
		t.Fatalf("Substitute(T|null, T->string) = %s, want %s", s.Print(got), s.Print(want))
	}
}
