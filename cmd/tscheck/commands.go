package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Color functions for diagnostic output, matching the teacher's ailang CLI
// and REPL's own palette.
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

var (
	flagStrict           bool
	flagStrictNullChecks bool
	flagNoImplicitAny    bool
	flagJSON             bool
	flagCompact          bool
	flagNoColor          bool

	flagConformanceRoot    string
	flagConformanceInclude []string
	flagConformanceExclude []string
	flagConformanceConfig  string
	flagBaselineDir        string
	flagUpdateBaselines    bool
	flagReportPath         string

	rootCmd = &cobra.Command{
		Use:   "tscheck",
		Short: "A structural type checker for a TypeScript-shaped AST",
		Long: `tscheck runs the checker over an already-parsed AST (JSON-encoded,
see internal/astjson) and reports diagnostics. It does not parse source
text itself — that step is left to whatever produced the AST.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flagNoColor {
				color.NoColor = true
			}
		},
	}

	checkCmd = &cobra.Command{
		Use:   "check [file.json...]",
		Short: "Type-check one or more JSON-encoded ASTs and report diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}

	conformanceCmd = &cobra.Command{
		Use:   "conformance",
		Short: "Run the checker over a fixture corpus and diff against recorded baselines",
		Long: `conformance walks a corpus of JSON AST fixtures (spec's conformance
harness), checks each against its leading directive comment's compiler
options, and compares the resulting diagnostics to a baseline file per
fixture, reporting pass/fail counts.`,
		RunE: runConformance,
	}

	replCmd = &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive loop that type-checks pasted JSON ASTs",
		RunE:  runREPL,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&flagStrict, "strict", false, "enable all strict-family checks")
	checkCmd.Flags().BoolVar(&flagStrictNullChecks, "strict-null-checks", false, "enable strictNullChecks")
	checkCmd.Flags().BoolVar(&flagNoImplicitAny, "no-implicit-any", false, "enable noImplicitAny")
	checkCmd.Flags().BoolVar(&flagJSON, "json", false, "emit diagnostics as a deterministic JSON batch")
	checkCmd.Flags().BoolVar(&flagCompact, "compact", false, "omit indentation from JSON output")

	rootCmd.AddCommand(conformanceCmd)
	conformanceCmd.Flags().StringVar(&flagConformanceConfig, "config", "", "path to a run-config YAML file (overrides --root/--include/--exclude)")
	conformanceCmd.Flags().StringVar(&flagConformanceRoot, "root", ".", "corpus root directory")
	conformanceCmd.Flags().StringSliceVar(&flagConformanceInclude, "include", []string{"**/*.json"}, "glob patterns selecting fixtures to check")
	conformanceCmd.Flags().StringSliceVar(&flagConformanceExclude, "exclude", nil, "glob patterns excluding fixtures")
	conformanceCmd.Flags().StringVar(&flagBaselineDir, "baseline-dir", "testdata/baselines", "directory holding recorded-diagnostics baselines")
	conformanceCmd.Flags().BoolVar(&flagUpdateBaselines, "update-baselines", false, "write a baseline for every fixture missing one instead of failing")
	conformanceCmd.Flags().StringVar(&flagReportPath, "report", "", "write a JSON summary report to this path")

	rootCmd.AddCommand(replCmd)
}
