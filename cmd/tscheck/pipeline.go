package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tscorelang/tscheck/internal/astjson"
	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/checker"
	"github.com/tscorelang/tscheck/internal/checkeropts"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/types"
)

// loadAST reads path, decodes its JSON AST, and returns the fresh arena it
// was decoded into alongside the decoded file. A JSON AST fixture is the
// checker's sole external input: parsing raw source text is left to
// whatever produces this file.
func loadAST(path string) (*cnode.Arena, astjson.File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, astjson.File{}, fmt.Errorf("reading %s: %w", path, err)
	}
	arena := cnode.NewArena()
	f, err := astjson.Decode(data, arena)
	if err != nil {
		return nil, astjson.File{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	if f.FileName == "" {
		f.FileName = path
	}
	return arena, f, nil
}

// decodeInline decodes a JSON AST given directly as bytes (the REPL's
// pasted-snippet path) rather than read from a file. A bare node object
// (one with a "kind" key) is accepted and treated as the file's root.
func decodeInline(data []byte) (*cnode.Arena, astjson.File, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if json.Unmarshal(data, &probe) == nil && probe.Kind != "" {
		data = append(append([]byte(`{"root":`), data...), '}')
	}
	arena := cnode.NewArena()
	f, err := astjson.Decode(data, arena)
	if err != nil {
		return nil, astjson.File{}, fmt.Errorf("decoding input: %w", err)
	}
	return arena, f, nil
}

// checkFile builds a fresh checker over arena/file and returns the
// diagnostics from checking its root SourceFile. Every file gets its own
// atom table, type store and binder state: cross-file symbol resolution is
// outside this checker's scope (spec's single-file contract).
func checkFile(arena *cnode.Arena, file cnode.NodeIndex, fileName string, opts checkeropts.Options) []diag.Diagnostic {
	atoms := atom.NewTable()
	store := types.NewStore(atoms)
	bs := binder.NewState(atoms, fileName)
	c := checker.New(store, bs, arena, fileName, opts)
	return c.Check(file)
}

// printDiagnosticsText prints one colored line per diagnostic, in the
// teacher's `red("Error")`/`yellow("Warning")` style.
func printDiagnosticsText(diags []diag.Diagnostic) {
	for _, d := range diags {
		label := red("error")
		switch d.Category {
		case diag.CategoryWarning:
			label = yellow("warning")
		case diag.CategorySuggestion:
			label = cyan("suggestion")
		}
		fmt.Printf("%s: %s %s(TS%d)%s\n", cyan(d.File), label, dim("["), d.Code, dim("]"))
		fmt.Printf("  %s\n", d.Message)
	}
	if len(diags) == 0 {
		fmt.Println(green("no diagnostics"))
	}
}

func printDiagnosticsJSON(diags []diag.Diagnostic, compact bool) error {
	encoded := diag.EncodeBatch(diags)
	data, err := diag.MarshalDeterministic(encoded)
	if err != nil {
		return fmt.Errorf("marshaling diagnostics: %w", err)
	}
	if !compact {
		data, err = diag.FormatJSON(data)
		if err != nil {
			return fmt.Errorf("formatting diagnostics: %w", err)
		}
	}
	fmt.Println(string(data))
	return nil
}

// optionsFromFlags builds the Options a `tscheck check` invocation runs
// with, before any per-file harness directive overrides are folded in.
func optionsFromFlags() checkeropts.Options {
	o := checkeropts.Default()
	o.Strict = flagStrict
	o.StrictNullChecks = flagStrictNullChecks
	o.NoImplicitAny = flagNoImplicitAny
	o.JSON = flagJSON
	o.Compact = flagCompact
	o.Apply()
	return o
}
