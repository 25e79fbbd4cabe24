package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tscorelang/tscheck/internal/diag"
)

func runCheck(cmd *cobra.Command, args []string) error {
	opts := optionsFromFlags()

	var all []diag.Diagnostic
	failedFiles := 0
	for _, path := range args {
		arena, f, err := loadAST(path)
		if err != nil {
			return err
		}
		diags := checkFile(arena, f.Root, f.FileName, opts)
		all = append(all, diags...)
		for _, d := range diags {
			if d.Category == diag.CategoryError {
				failedFiles++
				break
			}
		}
	}

	if flagJSON {
		if err := printDiagnosticsJSON(all, flagCompact); err != nil {
			return err
		}
	} else {
		printDiagnosticsText(all)
	}

	if failedFiles > 0 {
		return fmt.Errorf("%d file(s) failed type checking", failedFiles)
	}
	return nil
}
