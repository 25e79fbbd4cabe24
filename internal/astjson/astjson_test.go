package astjson

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tscorelang/tscheck/internal/cnode"
)

func TestDecodeSourceFileWithVarDecl(t *testing.T) {
	src := `{
		"fileName": "a.ts",
		"directives": "// @strict: true\n",
		"root": {
			"kind": "SourceFile",
			"fileName": "a.ts",
			"statements": [
				{
					"kind": "VarDecl",
					"name": "x",
					"isLet": true,
					"init": {"kind": "NumericLiteral", "value": 1}
				}
			]
		}
	}`

	arena := cnode.NewArena()
	f, err := Decode([]byte(src), arena)
	require.NoError(t, err)
	require.Equal(t, "a.ts", f.FileName)
	require.Equal(t, "// @strict: true\n", f.Directives)

	sf := arena.GetSourceFile(f.Root)
	require.Len(t, sf.Statements, 1)

	decl := arena.GetVarDecl(sf.Statements[0])
	require.Equal(t, "x", decl.Name)
	require.True(t, decl.IsLet)
	require.Equal(t, cnode.NoNode, decl.Type)

	lit := arena.GetNumericLiteral(decl.Init)
	require.Equal(t, float64(1), lit.Value)
}

func TestDecodeBinaryExpr(t *testing.T) {
	src := `{
		"kind": "BinaryExpr",
		"op": "+",
		"left": {"kind": "NumericLiteral", "value": 1},
		"right": {"kind": "NumericLiteral", "value": 2}
	}`

	arena := cnode.NewArena()
	idx, err := decodeNode([]byte(src), arena)
	require.NoError(t, err)

	b := arena.GetBinaryExpr(idx)
	require.Equal(t, "+", b.Op)
	require.Equal(t, float64(1), arena.GetNumericLiteral(b.Left).Value)
	require.Equal(t, float64(2), arena.GetNumericLiteral(b.Right).Value)
}

func TestDecodeInExprReusesBinaryExprData(t *testing.T) {
	src := `{
		"kind": "InExpr",
		"left": {"kind": "StringLiteral", "value": "k"},
		"right": {"kind": "Identifier", "text": "obj"}
	}`

	arena := cnode.NewArena()
	idx, err := decodeNode([]byte(src), arena)
	require.NoError(t, err)

	n := arena.Get(idx)
	require.Equal(t, cnode.KindInExpr, n.Kind)
	b := arena.GetBinaryExpr(idx)
	require.Equal(t, "in", b.Op)
	require.Equal(t, "k", arena.GetStringLiteral(b.Left).Value)
	require.Equal(t, "obj", arena.GetIdentifier(b.Right).Text)
}

func TestDecodeLiteralKindsDoNotCollideOnSharedValueKey(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want func(t *testing.T, arena *cnode.Arena, idx cnode.NodeIndex)
	}{
		{
			name: "numeric",
			src:  `{"kind": "NumericLiteral", "value": 3.5}`,
			want: func(t *testing.T, arena *cnode.Arena, idx cnode.NodeIndex) {
				require.Equal(t, float64(3.5), arena.GetNumericLiteral(idx).Value)
			},
		},
		{
			name: "string",
			src:  `{"kind": "StringLiteral", "value": "hi"}`,
			want: func(t *testing.T, arena *cnode.Arena, idx cnode.NodeIndex) {
				require.Equal(t, "hi", arena.GetStringLiteral(idx).Value)
			},
		},
		{
			name: "boolean",
			src:  `{"kind": "BooleanLiteral", "value": true}`,
			want: func(t *testing.T, arena *cnode.Arena, idx cnode.NodeIndex) {
				require.True(t, arena.GetBooleanLiteral(idx).Value)
			},
		},
		{
			name: "bigint",
			src:  `{"kind": "BigIntLiteral", "value": "9007199254740993"}`,
			want: func(t *testing.T, arena *cnode.Arena, idx cnode.NodeIndex) {
				n := arena.Get(idx)
				require.Equal(t, cnode.KindBigIntLiteral, n.Kind)
				require.Equal(t, "9007199254740993", n.Data.(*cnode.BigIntLiteralData).Value)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			arena := cnode.NewArena()
			idx, err := decodeNode([]byte(tc.src), arena)
			require.NoError(t, err)
			tc.want(t, arena, idx)
		})
	}
}

func TestDecodeFunctionExprWithParamsAndBody(t *testing.T) {
	src := `{
		"kind": "ArrowFunction",
		"params": [
			{"kind": "Parameter", "name": "n"}
		],
		"body": {
			"kind": "Block",
			"statements": [
				{
					"kind": "ReturnStmt",
					"expr": {"kind": "Identifier", "text": "n"}
				}
			]
		}
	}`

	arena := cnode.NewArena()
	idx, err := decodeNode([]byte(src), arena)
	require.NoError(t, err)

	n := arena.Get(idx)
	require.Equal(t, cnode.KindArrowFunction, n.Kind)

	fn := arena.GetFunctionLike(idx)
	require.Len(t, fn.Params, 1)
	param := arena.GetParam(fn.Params[0])
	require.Equal(t, "n", param.Name)

	block := arena.GetBlock(fn.Body)
	require.Len(t, block.Statements, 1)
	ret := arena.GetReturn(block.Statements[0])
	require.Equal(t, "n", arena.GetIdentifier(ret.Expr).Text)
}

func TestDecodeFlagsSetsBitmask(t *testing.T) {
	src := `{
		"kind": "Parameter",
		"name": "x",
		"flags": ["Optional", "Rest"]
	}`

	arena := cnode.NewArena()
	idx, err := decodeNode([]byte(src), arena)
	require.NoError(t, err)

	n := arena.Get(idx)
	require.True(t, n.Flags&cnode.FlagOptional != 0)
	require.True(t, n.Flags&cnode.FlagRest != 0)
	require.False(t, n.Flags&cnode.FlagConst != 0)
}

func TestDecodeInterfaceDeclExtendsReusesImplementsKey(t *testing.T) {
	src := `{
		"kind": "InterfaceDecl",
		"name": "Shape",
		"implements": [
			{"kind": "TypeReference", "name": "Base"}
		],
		"members": []
	}`

	arena := cnode.NewArena()
	idx, err := decodeNode([]byte(src), arena)
	require.NoError(t, err)

	iface := arena.GetInterface(idx)
	require.Equal(t, "Shape", iface.Name)
	require.Len(t, iface.Extends, 1)
}

func TestDecodeRejectsUnknownKind(t *testing.T) {
	arena := cnode.NewArena()
	_, err := decodeNode([]byte(`{"kind": "NotARealKind"}`), arena)
	require.Error(t, err)
}
