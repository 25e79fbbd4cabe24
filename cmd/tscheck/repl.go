package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/tscorelang/tscheck/internal/checkeropts"
)

// runREPL starts an interactive loop that type-checks pasted JSON ASTs one
// at a time, since there is no source-text parser to read a line of
// TypeScript from (spec's parsing non-goal). Paste a `{"kind": "SourceFile",
// ...}` object, terminate with a blank line, and its diagnostics print
// immediately; `:load <path>` does the same for a fixture on disk.
func runREPL(cmd *cobra.Command, args []string) error {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".tscheck_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	line.SetMultiLineMode(true)
	line.SetCompleter(func(in string) (c []string) {
		if strings.HasPrefix(in, ":") {
			for _, cmd := range []string{":help", ":quit", ":strict", ":load", ":history"} {
				if strings.HasPrefix(cmd, in) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	fmt.Println(bold("tscheck repl"))
	fmt.Println(dim("Paste a JSON SourceFile AST, end with a blank line. :help for commands, :quit to exit."))

	opts := checkeropts.Default()
	opts.Apply()
	var history []string

	for {
		input, err := line.Prompt(replPrompt(opts))
		if err == io.EOF {
			fmt.Println(green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Printf("%s: %v\n", red("Error"), err)
			continue
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		history = append(history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Println(green("Goodbye!"))
				break
			}
			handleREPLCommand(input, &opts, history)
			continue
		}

		src, err := readUntilBlank(line, input)
		if err != nil {
			fmt.Printf("%s: %v\n", red("Error"), err)
			continue
		}
		replCheck([]byte(src), "<repl>", opts)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
	return nil
}

func replPrompt(opts checkeropts.Options) string {
	if opts.Strict {
		return "tscheck[strict]> "
	}
	return "tscheck> "
}

// readUntilBlank accumulates first plus subsequent liner prompts until a
// blank line is entered, matching the teacher REPL's own multi-line
// continuation loop adapted to "end on blank" rather than "end on `in`".
func readUntilBlank(line *liner.State, first string) (string, error) {
	lines := []string{first}
	for {
		next, err := line.Prompt("... ")
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(next) == "" {
			break
		}
		lines = append(lines, next)
	}
	return strings.Join(lines, "\n"), nil
}

func handleREPLCommand(input string, opts *checkeropts.Options, history []string) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":help":
		fmt.Println("  :strict        toggle strict mode for subsequent checks")
		fmt.Println("  :load <path>   type-check a JSON AST fixture from disk")
		fmt.Println("  :history       show input history")
		fmt.Println("  :quit, :q      exit")
	case ":strict":
		opts.Strict = !opts.Strict
		opts.Apply()
		fmt.Printf("strict mode: %v\n", opts.Strict)
	case ":load":
		if len(fields) < 2 {
			fmt.Println(red("usage: :load <path>"))
			return
		}
		arena, f, err := loadAST(fields[1])
		if err != nil {
			fmt.Printf("%s: %v\n", red("Error"), err)
			return
		}
		diags := checkFile(arena, f.Root, f.FileName, *opts)
		printDiagnosticsText(diags)
	case ":history":
		for _, h := range history {
			fmt.Println(dim(h))
		}
	default:
		fmt.Printf("%s: unknown command %q\n", red("Error"), fields[0])
	}
}

func replCheck(src []byte, fileName string, opts checkeropts.Options) {
	arena, f, err := decodeInline(src)
	if err != nil {
		fmt.Printf("%s: %v\n", red("Error"), err)
		return
	}
	if f.FileName == "" {
		f.FileName = fileName
	}
	diags := checkFile(arena, f.Root, f.FileName, opts)
	printDiagnosticsText(diags)
}
