package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/tscorelang/tscheck/internal/conformance"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/harness"
)

// runConformance walks a fixture corpus, type-checks each fixture under the
// compiler options its own leading directive comment requests, and diffs
// the resulting diagnostics against a recorded baseline file per fixture.
func runConformance(cmd *cobra.Command, args []string) error {
	corpus, baselineDir, failOnNewBaseline, err := resolveConformanceConfig()
	if err != nil {
		return err
	}

	files, err := corpus.Files()
	if err != nil {
		return fmt.Errorf("conformance: %w", err)
	}
	if len(files) == 0 {
		fmt.Println(yellow("no fixtures matched"))
		return nil
	}

	var report conformance.Report
	var passed, failed, skipped, wrote int
	for _, path := range files {
		started := time.Now()
		rel, err := filepath.Rel(corpus.Root, path)
		if err != nil {
			rel = path
		}

		arena, f, err := loadAST(path)
		if err != nil {
			fmt.Printf("%s %s: %v\n", red("ERROR"), rel, err)
			failed++
			report.Add(conformance.FixtureResult{File: rel, Status: "failed", Error: err.Error(), Duration: time.Since(started)})
			continue
		}

		directives := harness.ParseDirectives(f.Directives)
		cfg, err := harness.TranslateDirectives(directives)
		if err != nil {
			fmt.Printf("%s %s: %v\n", red("ERROR"), rel, err)
			failed++
			report.Add(conformance.FixtureResult{File: rel, Status: "failed", Error: err.Error(), Duration: time.Since(started)})
			continue
		}
		if cfg.Skip {
			fmt.Printf("%s %s\n", dim("SKIP"), rel)
			skipped++
			report.Add(conformance.FixtureResult{File: rel, Status: "skipped", Duration: time.Since(started)})
			continue
		}

		diags := checkFile(arena, f.Root, fileNameFor(cfg.Filename, rel), cfg.Options)
		encoded := diag.EncodeBatch(diags)
		actual, err := diag.MarshalDeterministic(encoded)
		if err != nil {
			return fmt.Errorf("conformance: encoding %s: %w", rel, err)
		}

		baselinePath := baselinePathFor(baselineDir, rel, cfg.BaselineFile)
		ok, diffText, err := compareBaseline(baselinePath, actual, failOnNewBaseline)
		if err != nil {
			return fmt.Errorf("conformance: %s: %w", rel, err)
		}
		switch {
		case ok:
			fmt.Printf("%s %s\n", green("PASS"), rel)
			passed++
			report.Add(conformance.FixtureResult{File: rel, Status: "passed", Duration: time.Since(started)})
		case diffText == newBaselineWritten:
			fmt.Printf("%s %s (baseline written)\n", cyan("NEW"), rel)
			wrote++
			report.Add(conformance.FixtureResult{File: rel, Status: "new_baseline", Duration: time.Since(started)})
		default:
			fmt.Printf("%s %s\n%s\n", red("FAIL"), rel, diffText)
			failed++
			report.Add(conformance.FixtureResult{File: rel, Status: "failed", Diff: diffText, Duration: time.Since(started)})
		}
	}

	fmt.Printf("\n%d passed, %d failed, %d skipped, %d new baselines\n", passed, failed, skipped, wrote)

	if flagReportPath != "" {
		report.Timestamp = time.Now()
		if err := writeReport(flagReportPath, report); err != nil {
			return fmt.Errorf("conformance: writing report: %w", err)
		}
	}

	if failed > 0 {
		return fmt.Errorf("conformance: %d fixture(s) failed", failed)
	}
	return nil
}

// writeReport marshals a conformance report deterministically and writes it
// to path, creating parent directories as needed.
func writeReport(path string, report conformance.Report) error {
	data, err := diag.MarshalDeterministic(report)
	if err != nil {
		return err
	}
	formatted, err := diag.FormatJSON(data)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, formatted, 0o644)
}

func resolveConformanceConfig() (harness.Corpus, string, bool, error) {
	if flagConformanceConfig != "" {
		cfg, err := harness.LoadRunConfig(flagConformanceConfig)
		if err != nil {
			return harness.Corpus{}, "", false, err
		}
		return cfg.ToCorpus(), cfg.BaselineDir, cfg.FailOnNewBaseline, nil
	}
	corpus := harness.Corpus{
		Root:    flagConformanceRoot,
		Include: flagConformanceInclude,
		Exclude: flagConformanceExclude,
	}
	return corpus, flagBaselineDir, !flagUpdateBaselines, nil
}

func fileNameFor(directiveName, fallback string) string {
	if directiveName != "" {
		return directiveName
	}
	return fallback
}

func baselinePathFor(baselineDir, rel, override string) string {
	if override != "" {
		return filepath.Join(baselineDir, override)
	}
	trimmed := strings.TrimSuffix(rel, filepath.Ext(rel))
	return filepath.Join(baselineDir, trimmed+".baseline.json")
}

const newBaselineWritten = "<new baseline written>"

// compareBaseline diffs actual against the recorded baseline at path. When
// the baseline is missing and failOnMissing is false, it writes actual as
// the new baseline and reports ok=false with the newBaselineWritten marker
// so the caller can tell that apart from a genuine mismatch.
func compareBaseline(path string, actual []byte, failOnMissing bool) (ok bool, diffText string, err error) {
	expected, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return false, "", err
		}
		if failOnMissing {
			return false, fmt.Sprintf("missing baseline: %s", path), nil
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return false, "", err
		}
		formatted, err := diag.FormatJSON(actual)
		if err != nil {
			return false, "", err
		}
		if err := os.WriteFile(path, formatted, 0o644); err != nil {
			return false, "", err
		}
		return false, newBaselineWritten, nil
	}

	var want, got any
	if err := json.Unmarshal(expected, &want); err != nil {
		return false, "", fmt.Errorf("parsing baseline %s: %w", path, err)
	}
	if err := json.Unmarshal(actual, &got); err != nil {
		return false, "", fmt.Errorf("parsing actual diagnostics: %w", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		return false, diff, nil
	}
	return true, "", nil
}
