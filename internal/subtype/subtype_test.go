package subtype

import (
	"testing"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/types"
)

func newChecker(t *testing.T, flags Flags) (*types.Store, *Checker) {
	t.Helper()
	store := types.NewStore(atom.NewTable())
	return store, New(store, nil, flags)
}

func TestAnyIsAssignableBothWays(t *testing.T) {
	store, c := newChecker(t, Flags{})
	if !c.IsAssignable(types.Any, types.String) {
		t.Fatalf("any should be assignable to string")
	}
	if !c.IsAssignable(types.String, types.Any) {
		t.Fatalf("string should be assignable to any")
	}
	_ = store
}

func TestNeverAssignableToAnything(t *testing.T) {
	_, c := newChecker(t, Flags{})
	if !c.IsAssignable(types.Never, types.String) {
		t.Fatalf("never should be assignable to string")
	}
	if c.IsAssignable(types.String, types.Never) {
		t.Fatalf("string should not be assignable to never")
	}
}

func TestUnknownAcceptsAnything(t *testing.T) {
	_, c := newChecker(t, Flags{})
	if !c.IsAssignable(types.String, types.Unknown) {
		t.Fatalf("string should be assignable to unknown")
	}
}

func TestStrictNullChecksRejectsNull(t *testing.T) {
	_, c := newChecker(t, Flags{StrictNullChecks: true})
	if c.IsAssignable(types.Null, types.String) {
		t.Fatalf("strictNullChecks should reject null -> string")
	}
}

func TestNonStrictNullAllowsNull(t *testing.T) {
	_, c := newChecker(t, Flags{StrictNullChecks: false})
	if !c.IsAssignable(types.Null, types.String) {
		t.Fatalf("non-strict null checks should allow null -> string")
	}
}

func TestUnionTargetAcceptsAnyMember(t *testing.T) {
	store, c := newChecker(t, Flags{})
	target := store.Union([]types.TypeId{types.String, types.Number})
	if !c.IsAssignable(types.Number, target) {
		t.Fatalf("number should be assignable to string|number")
	}
}

func TestUnionSourceRequiresEveryMember(t *testing.T) {
	store, c := newChecker(t, Flags{})
	source := store.Union([]types.TypeId{types.String, types.Number})
	if c.IsAssignable(source, types.String) {
		t.Fatalf("string|number should not be assignable to string alone")
	}
}

func TestObjectStructuralWidthSubtyping(t *testing.T) {
	store, c := newChecker(t, Flags{})
	atoms := store.Atoms()
	source := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
		{Name: atoms.Intern("b"), Type: types.Number},
	}, nil, nil)
	target := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
	}, nil, nil)
	if !c.IsAssignable(source, target) {
		t.Fatalf("wider object should be assignable to narrower shape")
	}
}

func TestMissingRequiredPropertyRejected(t *testing.T) {
	store, c := newChecker(t, Flags{})
	atoms := store.Atoms()
	source := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
	}, nil, nil)
	target := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
		{Name: atoms.Intern("b"), Type: types.Number},
	}, nil, nil)
	if c.IsAssignable(source, target) {
		t.Fatalf("missing required property b should reject assignability")
	}
}

func TestOptionalTargetPropertyMayBeAbsent(t *testing.T) {
	store, c := newChecker(t, Flags{})
	atoms := store.Atoms()
	source := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.String}}, nil, nil)
	target := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
		{Name: atoms.Intern("b"), Type: types.Number, Optional: true},
	}, nil, nil)
	if !c.IsAssignable(source, target) {
		t.Fatalf("missing optional property should still be assignable")
	}
}

func TestExcessPropertyCheckRejectsFreshLiteral(t *testing.T) {
	store, c := newChecker(t, Flags{})
	atoms := store.Atoms()
	source := store.FreshShape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
		{Name: atoms.Intern("extra"), Type: types.Number},
	}, nil, nil)
	target := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.String}}, nil, nil)
	if c.IsAssignable(source, target) {
		t.Fatalf("fresh object literal with an excess property should be rejected")
	}
}

func TestWidenedObjectSkipsExcessPropertyCheck(t *testing.T) {
	store, c := newChecker(t, Flags{})
	atoms := store.Atoms()
	fresh := store.FreshShape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
		{Name: atoms.Intern("extra"), Type: types.Number},
	}, nil, nil)
	widened := store.Widen(fresh)
	target := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.String}}, nil, nil)
	if !c.IsAssignable(widened, target) {
		t.Fatalf("widened object should bypass the excess property check")
	}
}

func TestFunctionReturnCovariance(t *testing.T) {
	store, c := newChecker(t, Flags{})
	source := store.MakeFunction(types.Signature{Return: types.Number})
	target := store.MakeFunction(types.Signature{Return: types.Unknown})
	if !c.IsAssignable(source, target) {
		t.Fatalf("() => number should be assignable to () => unknown")
	}
}

func TestFunctionReturningAnythingAssignableToVoidReturn(t *testing.T) {
	store, c := newChecker(t, Flags{})
	source := store.MakeFunction(types.Signature{Return: types.Number})
	target := store.MakeFunction(types.Signature{Return: types.Void})
	if !c.IsAssignable(source, target) {
		t.Fatalf("() => number should be assignable to () => void")
	}
}

func TestStrictFunctionTypesContravariantParams(t *testing.T) {
	store, c := newChecker(t, Flags{StrictFunctionTypes: true})
	atoms := store.Atoms()
	narrower := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.String}}, nil, nil)
	wider := types.Unknown

	source := store.MakeFunction(types.Signature{Params: []types.Param{{Name: "x", Type: wider}}, Return: types.Void})
	target := store.MakeFunction(types.Signature{Params: []types.Param{{Name: "x", Type: narrower}}, Return: types.Void})
	if !c.IsAssignable(source, target) {
		t.Fatalf("(x: unknown) => void should be assignable to (x: narrower) => void under strict function types")
	}

	sourceNarrow := store.MakeFunction(types.Signature{Params: []types.Param{{Name: "x", Type: narrower}}, Return: types.Void})
	targetWide := store.MakeFunction(types.Signature{Params: []types.Param{{Name: "x", Type: wider}}, Return: types.Void})
	if c.IsAssignable(sourceNarrow, targetWide) {
		t.Fatalf("(x: narrower) => void should NOT be assignable to (x: unknown) => void under strict function types")
	}
}

func TestExplainReturnsNilOnSuccess(t *testing.T) {
	_, c := newChecker(t, Flags{})
	if c.Explain(types.String, types.String) != nil {
		t.Fatalf("Explain should return nil for a successful assignability check")
	}
}

func TestExplainDescribesFailure(t *testing.T) {
	_, c := newChecker(t, Flags{})
	ex := c.Explain(types.String, types.Number)
	if ex == nil {
		t.Fatalf("expected a failure explanation")
	}
}

func TestExtendsWithInferBindsTypeParameter(t *testing.T) {
	store, c := newChecker(t, Flags{})
	infer := store.MakeInfer("E")
	arr := store.Array(types.Number)
	ok, bindings := c.ExtendsWithInfer(arr, store.Array(infer), nil)
	if !ok {
		t.Fatalf("number[] should extend E[]")
	}
	if bindings["E"] != types.Number {
		t.Fatalf("expected E bound to number, got %v", bindings["E"])
	}
}

func TestRecursiveArrayDoesNotLoop(t *testing.T) {
	store, c := newChecker(t, Flags{})
	a := store.Array(types.Number)
	b := store.Array(types.Number)
	if !c.IsAssignable(a, b) {
		t.Fatalf("number[] should be assignable to number[]")
	}
}
