package compat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/types"
)

func newOverlay(t *testing.T) (*types.Store, *Overlay) {
	t.Helper()
	store := types.NewStore(atom.NewTable())
	return store, New(store, nil)
}

func TestReflexivity(t *testing.T) {
	_, o := newOverlay(t)
	require.True(t, o.IsAssignable(types.String, types.String, Flags{}))
}

func TestAnyPropagatesBothWaysByDefault(t *testing.T) {
	_, o := newOverlay(t)
	require.True(t, o.IsAssignable(types.Any, types.String, Flags{}))
	require.True(t, o.IsAssignable(types.String, types.Any, Flags{}))
}

func TestStrictAnyDelegatesToStructuralCheck(t *testing.T) {
	store, o := newOverlay(t)
	atoms := store.Atoms()
	target := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.String}}, nil, nil)
	require.False(t, o.IsAssignable(types.Any, target, Flags{StrictAny: true}))
}

func TestNeverIsBottom(t *testing.T) {
	_, o := newOverlay(t)
	require.True(t, o.IsAssignable(types.Never, types.String, Flags{}))
}

func TestUnknownIsTopForTargetsOnly(t *testing.T) {
	_, o := newOverlay(t)
	require.True(t, o.IsAssignable(types.String, types.Unknown, Flags{}))
	require.False(t, o.IsAssignable(types.Unknown, types.String, Flags{}))
}

func TestErrorNeverSilentlyPasses(t *testing.T) {
	_, o := newOverlay(t)
	require.False(t, o.IsAssignable(types.ErrorType, types.String, Flags{}))
	require.False(t, o.IsAssignable(types.String, types.ErrorType, Flags{}))
}

func TestWeakTypeRuleRequiresPropertyOverlap(t *testing.T) {
	store, o := newOverlay(t)
	atoms := store.Atoms()
	weakTarget := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.Number, Optional: true},
		{Name: atoms.Intern("b"), Type: types.Number, Optional: true},
	}, nil, nil)
	noOverlap := store.Shape([]types.Property{{Name: atoms.Intern("x"), Type: types.Number}}, nil, nil)
	overlap := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.Number}}, nil, nil)

	require.False(t, o.IsAssignable(noOverlap, weakTarget, Flags{}))
	require.True(t, o.IsAssignable(overlap, weakTarget, Flags{}))
}

func TestEmptyObjectTargetAcceptsAnyValue(t *testing.T) {
	store, o := newOverlay(t)
	emptyTarget := store.Shape(nil, nil, nil)
	require.True(t, o.IsAssignable(types.String, emptyTarget, Flags{}))
	require.True(t, o.IsAssignable(types.Number, emptyTarget, Flags{}))
}

func TestEmptyObjectTargetRejectsNullUnderStrictNullChecks(t *testing.T) {
	store, o := newOverlay(t)
	emptyTarget := store.Shape(nil, nil, nil)
	require.False(t, o.IsAssignable(types.Null, emptyTarget, Flags{StrictNullChecks: true}))
	require.True(t, o.IsAssignable(types.Null, emptyTarget, Flags{StrictNullChecks: false}))
}

func TestCacheServesMultipleFlagConfigurations(t *testing.T) {
	store, o := newOverlay(t)
	atoms := store.Atoms()
	narrower := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.String}}, nil, nil)
	fn1 := store.MakeFunction(types.Signature{Params: []types.Param{{Name: "x", Type: types.Unknown}}, Return: types.Void})
	fn2 := store.MakeFunction(types.Signature{Params: []types.Param{{Name: "x", Type: narrower}}, Return: types.Void})

	require.True(t, o.IsAssignable(fn1, fn2, Flags{StrictFunctionTypes: true}))
	require.True(t, o.IsAssignable(fn1, fn2, Flags{StrictFunctionTypes: false}))
}

func TestWidthSubtypingStillHoldsThroughOverlay(t *testing.T) {
	store, o := newOverlay(t)
	atoms := store.Atoms()
	wide := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.Number},
		{Name: atoms.Intern("b"), Type: types.Number},
	}, nil, nil)
	narrow := store.Shape([]types.Property{{Name: atoms.Intern("a"), Type: types.Number}}, nil, nil)
	require.True(t, o.IsAssignable(wide, narrow, Flags{}))
}
