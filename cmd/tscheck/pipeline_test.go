package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tscorelang/tscheck/internal/checkeropts"
)

func TestDecodeInlineAndCheckReportsNoDiagnosticsForValidProgram(t *testing.T) {
	src := `{
		"kind": "SourceFile",
		"fileName": "inline.ts",
		"statements": [
			{
				"kind": "VarDecl",
				"name": "x",
				"isLet": true,
				"init": {"kind": "NumericLiteral", "value": 1}
			}
		]
	}`

	arena, f, err := decodeInline([]byte(src))
	require.NoError(t, err)

	diags := checkFile(arena, f.Root, "inline.ts", checkeropts.Default())
	require.Empty(t, diags)
}

func TestOptionsFromFlagsAppliesStrictExpansion(t *testing.T) {
	flagStrict = true
	defer func() { flagStrict = false }()

	opts := optionsFromFlags()
	require.True(t, opts.StrictNullChecks)
	require.True(t, opts.NoImplicitAny)
}
