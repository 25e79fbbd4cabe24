package narrow

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/types"
)

func ident(arena *cnode.Arena, name string) cnode.NodeIndex {
	return arena.Add(cnode.Node{Kind: cnode.KindIdentifier, Data: &cnode.IdentifierData{Text: name}})
}

func strLit(arena *cnode.Arena, v string) cnode.NodeIndex {
	return arena.Add(cnode.Node{Kind: cnode.KindStringLiteral, Data: &cnode.StringLiteralData{Value: v}})
}

func typeOf(arena *cnode.Arena, operand cnode.NodeIndex) cnode.NodeIndex {
	return arena.Add(cnode.Node{Kind: cnode.KindTypeOfExpr, Data: &cnode.TypeOfExprData{Operand: operand}})
}

func binary(arena *cnode.Arena, op string, l, r cnode.NodeIndex) cnode.NodeIndex {
	return arena.Add(cnode.Node{Kind: cnode.KindBinaryExpr, Data: &cnode.BinaryExprData{Op: op, Left: l, Right: r}})
}

func TestTypeofNarrowsUnionBothBranches(t *testing.T) {
	store := types.NewStore(atom.NewTable())
	n := New(store, nil)
	arena := cnode.NewArena()

	x := ident(arena, "x")
	cond := binary(arena, "===", typeOf(arena, x), strLit(arena, "string"))
	declared := store.Union([]types.TypeId{types.String, types.Number})

	trueType := n.Narrow(arena, cond, "x", declared, true)
	falseType := n.Narrow(arena, cond, "x", declared, false)
	require.Equal(t, types.String, trueType)
	require.Equal(t, types.Number, falseType)
}

func TestLiteralUnionOrNarrowing(t *testing.T) {
	store := types.NewStore(atom.NewTable())
	n := New(store, nil)
	arena := cnode.NewArena()

	x := ident(arena, "x")
	litA := store.LiteralString("a")
	litB := store.LiteralString("b")
	litC := store.LiteralString("c")
	declared := store.Union([]types.TypeId{litA, litB, litC})

	eqA := binary(arena, "===", x, strLit(arena, "a"))
	eqB := binary(arena, "===", ident(arena, "x"), strLit(arena, "b"))
	cond := binary(arena, "||", eqA, eqB)

	trueType := n.Narrow(arena, cond, "x", declared, true)
	falseType := n.Narrow(arena, cond, "x", declared, false)

	require.Equal(t, store.Union([]types.TypeId{litA, litB}), trueType)
	require.Equal(t, litC, falseType)
}

func TestInOperatorNarrowsUnionOfObjects(t *testing.T) {
	store := types.NewStore(atom.NewTable())
	n := New(store, nil)
	arena := cnode.NewArena()
	atoms := store.Atoms()

	withFoo := store.Shape([]types.Property{{Name: atoms.Intern("foo"), Type: types.String}}, nil, nil)
	withoutFoo := store.Shape([]types.Property{{Name: atoms.Intern("bar"), Type: types.String}}, nil, nil)
	declared := store.Union([]types.TypeId{withFoo, withoutFoo})

	obj := ident(arena, "obj")
	cond := binary(arena, "in", strLit(arena, "foo"), obj)

	trueType := n.Narrow(arena, cond, "obj", declared, true)
	falseType := n.Narrow(arena, cond, "obj", declared, false)
	require.Equal(t, withFoo, trueType)
	require.Equal(t, withoutFoo, falseType)
}

func TestTruthinessFiltersFalsyMembers(t *testing.T) {
	store := types.NewStore(atom.NewTable())
	n := New(store, nil)
	arena := cnode.NewArena()

	declared := store.Union([]types.TypeId{types.String, types.Null, types.Undefined})
	x := ident(arena, "x")

	trueType := n.Narrow(arena, x, "x", declared, true)
	falseType := n.Narrow(arena, x, "x", declared, false)
	require.Equal(t, types.String, trueType)
	require.Equal(t, store.Union([]types.TypeId{types.Null, types.Undefined}), falseType)
}

func TestDiscriminantPropertyNarrowing(t *testing.T) {
	store := types.NewStore(atom.NewTable())
	n := New(store, nil)
	arena := cnode.NewArena()
	atoms := store.Atoms()

	circle := store.Shape([]types.Property{
		{Name: atoms.Intern("kind"), Type: store.LiteralString("circle")},
		{Name: atoms.Intern("radius"), Type: types.Number},
	}, nil, nil)
	square := store.Shape([]types.Property{
		{Name: atoms.Intern("kind"), Type: store.LiteralString("square")},
		{Name: atoms.Intern("side"), Type: types.Number},
	}, nil, nil)
	declared := store.Union([]types.TypeId{circle, square})

	shape := ident(arena, "shape")
	access := arena.Add(cnode.Node{Kind: cnode.KindPropertyAccess, Data: &cnode.PropertyAccessData{Object: shape, Name: "kind"}})
	cond := binary(arena, "===", access, strLit(arena, "circle"))

	trueType := n.Narrow(arena, cond, "shape", declared, true)
	falseType := n.Narrow(arena, cond, "shape", declared, false)
	require.Equal(t, circle, trueType)
	require.Equal(t, square, falseType)
}

func TestNegationFlipsBranch(t *testing.T) {
	store := types.NewStore(atom.NewTable())
	n := New(store, nil)
	arena := cnode.NewArena()

	declared := store.Union([]types.TypeId{types.String, types.Null})
	x := ident(arena, "x")
	notX := arena.Add(cnode.Node{Kind: cnode.KindUnaryExpr, Data: &cnode.UnaryExprData{Op: "!", Operand: x}})

	trueType := n.Narrow(arena, notX, "x", declared, true)
	require.Equal(t, types.Null, trueType)
}
