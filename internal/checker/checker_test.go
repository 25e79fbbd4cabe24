package checker

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/checkeropts"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/types"
)

// newChecker builds a Checker over a fresh store/binder/arena, the shape
// every test in this file starts from.
func newChecker(t *testing.T) (*cnode.Arena, *Checker) {
	t.Helper()
	atoms := atom.NewTable()
	store := types.NewStore(atoms)
	arena := cnode.NewArena()
	bs := binder.NewState(atoms, "test.ts")
	c := New(store, bs, arena, "test.ts", checkeropts.Default())
	return arena, c
}

func ident(a *cnode.Arena, name string) cnode.NodeIndex {
	return a.Add(cnode.Node{Kind: cnode.KindIdentifier, Data: &cnode.IdentifierData{Text: name}})
}

func numLit(a *cnode.Arena, v float64) cnode.NodeIndex {
	return a.Add(cnode.Node{Kind: cnode.KindNumericLiteral, Data: &cnode.NumericLiteralData{Value: v}})
}

func strLit(a *cnode.Arena, v string) cnode.NodeIndex {
	return a.Add(cnode.Node{Kind: cnode.KindStringLiteral, Data: &cnode.StringLiteralData{Value: v}})
}

func typeRef(a *cnode.Arena, name string) cnode.NodeIndex {
	return a.Add(cnode.Node{Kind: cnode.KindTypeReference, Data: &cnode.TypeReferenceData{Name: name}})
}

func sourceFile(a *cnode.Arena, stmts []cnode.NodeIndex) cnode.NodeIndex {
	return a.Add(cnode.Node{Kind: cnode.KindSourceFile, Data: &cnode.SourceFileData{FileName: "test.ts", Statements: stmts}})
}

// `let x: string = 1;` must report TypeNotAssignable.
func TestVarDeclTypeMismatchReports2322(t *testing.T) {
	a, c := newChecker(t)
	vd := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "x", Type: typeRef(a, "string"), Init: numLit(a, 1), IsLet: true,
	}})
	file := sourceFile(a, []cnode.NodeIndex{vd})
	diags := c.Check(file)
	require.Len(t, diags, 1)
	require.Equal(t, diag.TypeNotAssignable, diags[0].Code)
}

// `let x = "ok";` needs no diagnostics.
func TestVarDeclInferredTypeNoDiagnostics(t *testing.T) {
	a, c := newChecker(t)
	vd := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "x", Type: cnode.NoNode, Init: strLit(a, "ok"), IsLet: true,
	}})
	file := sourceFile(a, []cnode.NodeIndex{vd})
	require.Empty(t, c.Check(file))
}

// `function f(n: number) {} f("oops");` must report ArgumentNotAssignable.
func TestCallArgumentMismatchReports2345(t *testing.T) {
	a, c := newChecker(t)
	param := a.Add(cnode.Node{Kind: cnode.KindParameter, Data: &cnode.ParamData{
		Name: "n", Type: typeRef(a, "number"), Default: cnode.NoNode,
	}})
	fn := a.Add(cnode.Node{Kind: cnode.KindFunctionDecl, Data: &cnode.FunctionLikeData{
		Name: "f", Params: []cnode.NodeIndex{param}, ReturnType: cnode.NoNode, Body: cnode.NoNode, ThisParam: cnode.NoNode,
	}})
	call := a.Add(cnode.Node{Kind: cnode.KindCallExpr, Data: &cnode.CallExprData{
		Callee: ident(a, "f"), Args: []cnode.NodeIndex{strLit(a, "oops")},
	}})
	stmt := a.Add(cnode.Node{Kind: cnode.KindExpressionStmt, Data: &cnode.ExpressionStmtData{Expr: call}})
	file := sourceFile(a, []cnode.NodeIndex{fn, stmt})
	diags := c.Check(file)
	require.Len(t, diags, 1)
	require.Equal(t, diag.ArgumentNotAssignable, diags[0].Code)
}

// A reference to an undeclared name must report CannotFindName.
func TestUnknownIdentifierReportsCannotFindName(t *testing.T) {
	a, c := newChecker(t)
	stmt := a.Add(cnode.Node{Kind: cnode.KindExpressionStmt, Data: &cnode.ExpressionStmtData{Expr: ident(a, "nope")}})
	file := sourceFile(a, []cnode.NodeIndex{stmt})
	diags := c.Check(file)
	require.Len(t, diags, 1)
	require.Equal(t, diag.CannotFindName, diags[0].Code)
}

// typeof-guarded access to a possibly-undefined-looking union must not
// raise a spurious diagnostic once narrowed to the matching branch:
// `let x: string | number = 1; if (typeof x === "number") { x; }`.
func TestTypeofGuardNarrowsWithoutDiagnostics(t *testing.T) {
	a, c := newChecker(t)
	unionType := a.Add(cnode.Node{Kind: cnode.KindUnionType, Data: &cnode.UnionTypeData{
		Members: []cnode.NodeIndex{typeRef(a, "string"), typeRef(a, "number")},
	}})
	vd := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "x", Type: unionType, Init: numLit(a, 1), IsLet: true,
	}})
	typeOf := a.Add(cnode.Node{Kind: cnode.KindTypeOfExpr, Data: &cnode.TypeOfExprData{Operand: ident(a, "x")}})
	cond := a.Add(cnode.Node{Kind: cnode.KindBinaryExpr, Data: &cnode.BinaryExprData{
		Op: "===", Left: typeOf, Right: strLit(a, "number"),
	}})
	thenBlock := a.Add(cnode.Node{Kind: cnode.KindBlock, Data: &cnode.BlockData{
		Statements: []cnode.NodeIndex{a.Add(cnode.Node{Kind: cnode.KindExpressionStmt, Data: &cnode.ExpressionStmtData{Expr: ident(a, "x")}})},
	}})
	ifStmt := a.Add(cnode.Node{Kind: cnode.KindIfStmt, Data: &cnode.IfStmtData{Cond: cond, Then: thenBlock, Else: cnode.NoNode}})
	file := sourceFile(a, []cnode.NodeIndex{vd, ifStmt})
	require.Empty(t, c.Check(file))
}

// A closure created inside a narrowed branch must not see the narrowing:
// `let x: string | number = 1; if (typeof x === "number") { const f =
// function() { let y: number = x; }; }` must report TypeNotAssignable for
// the inner `y`, since x reverts to string | number at closure entry.
func TestClosureEntryResetsMutableNarrowing(t *testing.T) {
	a, c := newChecker(t)
	unionType := a.Add(cnode.Node{Kind: cnode.KindUnionType, Data: &cnode.UnionTypeData{
		Members: []cnode.NodeIndex{typeRef(a, "string"), typeRef(a, "number")},
	}})
	xDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "x", Type: unionType, Init: numLit(a, 1), IsLet: true,
	}})
	typeOf := a.Add(cnode.Node{Kind: cnode.KindTypeOfExpr, Data: &cnode.TypeOfExprData{Operand: ident(a, "x")}})
	cond := a.Add(cnode.Node{Kind: cnode.KindBinaryExpr, Data: &cnode.BinaryExprData{
		Op: "===", Left: typeOf, Right: strLit(a, "number"),
	}})

	yDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "y", Type: typeRef(a, "number"), Init: ident(a, "x"), IsLet: true,
	}})
	closureBody := a.Add(cnode.Node{Kind: cnode.KindBlock, Data: &cnode.BlockData{
		Statements: []cnode.NodeIndex{yDecl},
	}})
	closure := a.Add(cnode.Node{Kind: cnode.KindFunctionExpr, Data: &cnode.FunctionLikeData{
		Body: closureBody, ReturnType: cnode.NoNode, ThisParam: cnode.NoNode,
	}})
	fDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "f", Type: cnode.NoNode, Init: closure, IsConst: true,
	}})

	thenBlock := a.Add(cnode.Node{Kind: cnode.KindBlock, Data: &cnode.BlockData{
		Statements: []cnode.NodeIndex{fDecl},
	}})
	ifStmt := a.Add(cnode.Node{Kind: cnode.KindIfStmt, Data: &cnode.IfStmtData{Cond: cond, Then: thenBlock, Else: cnode.NoNode}})
	file := sourceFile(a, []cnode.NodeIndex{xDecl, ifStmt})
	diags := c.Check(file)
	require.Len(t, diags, 1)
	require.Equal(t, diag.TypeNotAssignable, diags[0].Code)
}

// A closure created inside a narrowed branch over a const binding keeps the
// narrowing, since a const reference can never be reassigned before the
// closure runs: `const x: string | number = 1; if (typeof x === "number")
// { const f = function() { let y: number = x; }; }` needs no diagnostic.
func TestClosureEntryKeepsConstNarrowing(t *testing.T) {
	a, c := newChecker(t)
	unionType := a.Add(cnode.Node{Kind: cnode.KindUnionType, Data: &cnode.UnionTypeData{
		Members: []cnode.NodeIndex{typeRef(a, "string"), typeRef(a, "number")},
	}})
	xDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "x", Type: unionType, Init: numLit(a, 1), IsConst: true,
	}})
	typeOf := a.Add(cnode.Node{Kind: cnode.KindTypeOfExpr, Data: &cnode.TypeOfExprData{Operand: ident(a, "x")}})
	cond := a.Add(cnode.Node{Kind: cnode.KindBinaryExpr, Data: &cnode.BinaryExprData{
		Op: "===", Left: typeOf, Right: strLit(a, "number"),
	}})

	yDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "y", Type: typeRef(a, "number"), Init: ident(a, "x"), IsLet: true,
	}})
	closureBody := a.Add(cnode.Node{Kind: cnode.KindBlock, Data: &cnode.BlockData{
		Statements: []cnode.NodeIndex{yDecl},
	}})
	closure := a.Add(cnode.Node{Kind: cnode.KindFunctionExpr, Data: &cnode.FunctionLikeData{
		Body: closureBody, ReturnType: cnode.NoNode, ThisParam: cnode.NoNode,
	}})
	fDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "f", Type: cnode.NoNode, Init: closure, IsConst: true,
	}})

	thenBlock := a.Add(cnode.Node{Kind: cnode.KindBlock, Data: &cnode.BlockData{
		Statements: []cnode.NodeIndex{fDecl},
	}})
	ifStmt := a.Add(cnode.Node{Kind: cnode.KindIfStmt, Data: &cnode.IfStmtData{Cond: cond, Then: thenBlock, Else: cnode.NoNode}})
	file := sourceFile(a, []cnode.NodeIndex{xDecl, ifStmt})
	require.Empty(t, c.Check(file))
}

// Accessing a class's own private field from inside a method must not
// report PrivateOutsideClass.
func TestPrivateFieldAccessibleInsideOwnClass(t *testing.T) {
	a, c := newChecker(t)
	field := a.Add(cnode.Node{Kind: cnode.KindPropertyDecl, Data: &cnode.PropertyDeclData{
		Name: "secret", IsPrivate: true, Type: typeRef(a, "number"), Init: cnode.NoNode,
	}})
	thisAccess := a.Add(cnode.Node{Kind: cnode.KindPropertyAccess, Data: &cnode.PropertyAccessData{
		Object: ident(a, "this"), Name: "secret", IsPrivate: true,
	}})
	methodBody := a.Add(cnode.Node{Kind: cnode.KindBlock, Data: &cnode.BlockData{
		Statements: []cnode.NodeIndex{a.Add(cnode.Node{Kind: cnode.KindExpressionStmt, Data: &cnode.ExpressionStmtData{Expr: thisAccess}})},
	}})
	methodFn := a.Add(cnode.Node{Kind: cnode.KindFunctionExpr, Data: &cnode.FunctionLikeData{
		Body: methodBody, ReturnType: cnode.NoNode, ThisParam: cnode.NoNode,
	}})
	method := a.Add(cnode.Node{Kind: cnode.KindMethodDecl, Data: &cnode.MethodDeclData{Name: "read", Fn: methodFn}})
	classDecl := a.Add(cnode.Node{Kind: cnode.KindClassDecl, Data: &cnode.ClassDeclData{
		Name: "Box", Extends: cnode.NoNode, Members: []cnode.NodeIndex{field, method},
	}})
	// `this` is not bound in this fixture, so the access may also report
	// CannotFindName for it; only the absence of PrivateOutsideClass is
	// asserted.
	file := sourceFile(a, []cnode.NodeIndex{classDecl})
	diags := c.Check(file)
	for _, d := range diags {
		require.NotEqual(t, diag.PrivateOutsideClass, d.Code)
	}
}

// A bare number, even one none of an enum's members declares, must still be
// rejected as an enum-typed target: `enum Color { Red, Green } let c: Color
// = 99;` reports a diagnostic because 99 is not a member of 0 | 1.
func TestNumericEnumRejectsOutOfRangeBareNumber(t *testing.T) {
	a, c := newChecker(t)
	red := a.Add(cnode.Node{Kind: cnode.KindEnumMember, Data: &cnode.EnumMemberData{Name: "Red", Initializer: cnode.NoNode}})
	green := a.Add(cnode.Node{Kind: cnode.KindEnumMember, Data: &cnode.EnumMemberData{Name: "Green", Initializer: cnode.NoNode}})
	enumDecl := a.Add(cnode.Node{Kind: cnode.KindEnumDecl, Data: &cnode.EnumDeclData{Name: "Color", Members: []cnode.NodeIndex{red, green}}})
	vd := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "c", Type: typeRef(a, "Color"), Init: numLit(a, 99), IsLet: true,
	}})
	file := sourceFile(a, []cnode.NodeIndex{enumDecl, vd})
	diags := c.Check(file)
	require.Len(t, diags, 1)
	require.Equal(t, diag.TypeNotAssignable, diags[0].Code)
}

// A numeric enum's own value widens to a bare number (the leniency is the
// value flowing out, not a number flowing in): `enum Color { Red, Green }
// let c: Color; let n: number = c;` needs no diagnostic.
func TestNumericEnumValueWidensToBareNumber(t *testing.T) {
	a, c := newChecker(t)
	red := a.Add(cnode.Node{Kind: cnode.KindEnumMember, Data: &cnode.EnumMemberData{Name: "Red", Initializer: cnode.NoNode}})
	green := a.Add(cnode.Node{Kind: cnode.KindEnumMember, Data: &cnode.EnumMemberData{Name: "Green", Initializer: cnode.NoNode}})
	enumDecl := a.Add(cnode.Node{Kind: cnode.KindEnumDecl, Data: &cnode.EnumDeclData{Name: "Color", Members: []cnode.NodeIndex{red, green}}})
	cDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "c", Type: typeRef(a, "Color"), Init: cnode.NoNode, IsLet: true,
	}})
	nDecl := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "n", Type: typeRef(a, "number"), Init: ident(a, "c"), IsLet: true,
	}})
	file := sourceFile(a, []cnode.NodeIndex{enumDecl, cDecl, nDecl})
	require.Empty(t, c.Check(file))
}

// A string enum must still reject a bare number (the leniency rule applies
// only to purely numeric enums): `enum Dir { Up = "up" } let d: Dir = 1;`.
func TestStringEnumRejectsBareNumber(t *testing.T) {
	a, c := newChecker(t)
	up := a.Add(cnode.Node{Kind: cnode.KindEnumMember, Data: &cnode.EnumMemberData{Name: "Up", Initializer: strLit(a, "up")}})
	enumDecl := a.Add(cnode.Node{Kind: cnode.KindEnumDecl, Data: &cnode.EnumDeclData{Name: "Dir", Members: []cnode.NodeIndex{up}}})
	vd := a.Add(cnode.Node{Kind: cnode.KindVarDecl, Data: &cnode.VarDeclData{
		Name: "d", Type: typeRef(a, "Dir"), Init: numLit(a, 1), IsLet: true,
	}})
	file := sourceFile(a, []cnode.NodeIndex{enumDecl, vd})
	diags := c.Check(file)
	require.Len(t, diags, 1)
	require.Equal(t, diag.TypeNotAssignable, diags[0].Code)
}
