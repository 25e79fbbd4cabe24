package harness

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseDirectivesStopsAtFirstCodeLine(t *testing.T) {
	src := "// @strict: true\n// @target: es2015\nlet x = 1;\n// @filename: late.ts\n"
	got := ParseDirectives(src)
	if len(got) != 2 {
		t.Fatalf("expected 2 directives, got %d: %+v", len(got), got)
	}
	if got[0].Key != "strict" || got[0].Value != "true" {
		t.Errorf("unexpected first directive: %+v", got[0])
	}
	if got[1].Key != "target" || got[1].Value != "es2015" {
		t.Errorf("unexpected second directive: %+v", got[1])
	}
}

func TestParseDirectivesBareBoolean(t *testing.T) {
	got := ParseDirectives("// @strict\nlet x = 1;\n")
	if len(got) != 1 || got[0].Value != "" {
		t.Fatalf("expected one bare directive, got %+v", got)
	}
}

func TestTranslateDirectivesSplitsStrictIntoOptions(t *testing.T) {
	cfg, err := TranslateDirectives([]Directive{{Key: "strict", Value: "true"}})
	if err != nil {
		t.Fatalf("TranslateDirectives failed: %v", err)
	}
	if !cfg.Options.StrictNullChecks || !cfg.Options.StrictFunctionTypes || !cfg.Options.NoImplicitAny {
		t.Errorf("expected strict to expand into its constituent flags, got %+v", cfg.Options)
	}
}

func TestTranslateDirectivesFiltersHarnessOnlyKeys(t *testing.T) {
	cfg, err := TranslateDirectives([]Directive{
		{Key: "filename", Value: "a.ts"},
		{Key: "skip", Value: ""},
		{Key: "strictNullChecks", Value: "true"},
	})
	if err != nil {
		t.Fatalf("TranslateDirectives failed: %v", err)
	}
	if cfg.Filename != "a.ts" || !cfg.Skip {
		t.Errorf("harness-only directives not applied: %+v", cfg)
	}
	if !cfg.Options.StrictNullChecks {
		t.Errorf("expected strictNullChecks to be set on Options")
	}
}

func TestTranslateDirectivesSplitsListValuedOptions(t *testing.T) {
	cfg, err := TranslateDirectives([]Directive{{Key: "lib", Value: "es2015, dom , esnext"}})
	if err != nil {
		t.Fatalf("TranslateDirectives failed: %v", err)
	}
	want := []string{"es2015", "dom", "esnext"}
	if len(cfg.Lib) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Lib)
	}
	for i, v := range want {
		if cfg.Lib[i] != v {
			t.Errorf("lib[%d] = %q, want %q", i, cfg.Lib[i], v)
		}
	}
}

func TestTranslateDirectivesRejectsUnknownKey(t *testing.T) {
	_, err := TranslateDirectives([]Directive{{Key: "bogusOption", Value: "1"}})
	if err == nil {
		t.Fatal("expected an error for an unrecognized directive key")
	}
}

func TestCorpusFilesMatchesIncludeExcludeGlobs(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.ts"), "let a = 1;")
	mustWrite(t, filepath.Join(root, "b.d.ts"), "declare const b: number;")
	mustWrite(t, filepath.Join(root, "sub", "c.ts"), "let c = 1;")
	mustWrite(t, filepath.Join(root, "notes.txt"), "ignore me")

	corpus := Corpus{Root: root, Include: []string{"**/*.ts"}, Exclude: []string{"**/*.d.ts"}}
	files, err := corpus.Files()
	if err != nil {
		t.Fatalf("Files failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	content := "corpus:\n  root: ./fixtures\n  include:\n    - \"**/*.ts\"\nbaselineDir: ./baselines\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadRunConfig(path)
	if err != nil {
		t.Fatalf("LoadRunConfig failed: %v", err)
	}
	if cfg.Corpus.Root != "./fixtures" || cfg.BaselineDir != "./baselines" {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if len(cfg.Corpus.Include) != 1 || cfg.Corpus.Include[0] != "**/*.ts" {
		t.Errorf("unexpected include patterns: %v", cfg.Corpus.Include)
	}
}

func TestLoadRunConfigMissingRoot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(path, []byte("baselineDir: ./baselines\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadRunConfig(path); err == nil {
		t.Fatal("expected an error for a run config missing corpus.root")
	}
}
