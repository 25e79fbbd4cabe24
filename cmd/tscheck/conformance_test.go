package main

import "testing"

func TestBaselinePathForDerivesFromFixtureRelPath(t *testing.T) {
	got := baselinePathFor("testdata/baselines", "a/b.json", "")
	want := "testdata/baselines/a/b.baseline.json"
	if got != want {
		t.Errorf("baselinePathFor() = %q, want %q", got, want)
	}
}

func TestBaselinePathForHonorsOverride(t *testing.T) {
	got := baselinePathFor("testdata/baselines", "a/b.json", "custom.json")
	want := "testdata/baselines/custom.json"
	if got != want {
		t.Errorf("baselinePathFor() = %q, want %q", got, want)
	}
}

func TestFileNameForPrefersDirective(t *testing.T) {
	if got := fileNameFor("explicit.ts", "fallback.json"); got != "explicit.ts" {
		t.Errorf("fileNameFor() = %q, want explicit.ts", got)
	}
	if got := fileNameFor("", "fallback.json"); got != "fallback.json" {
		t.Errorf("fileNameFor() = %q, want fallback.json", got)
	}
}

func TestCompareBaselineWritesMissingBaseline(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/new.baseline.json"

	ok, diffText, err := compareBaseline(path, []byte(`[{"a":1}]`), false)
	if err != nil {
		t.Fatalf("compareBaseline: %v", err)
	}
	if ok || diffText != newBaselineWritten {
		t.Errorf("expected a freshly written baseline, got ok=%v diffText=%q", ok, diffText)
	}

	ok, diffText, err = compareBaseline(path, []byte(`[{"a":1}]`), false)
	if err != nil {
		t.Fatalf("compareBaseline (second pass): %v", err)
	}
	if !ok || diffText != "" {
		t.Errorf("expected the written baseline to now match, got ok=%v diffText=%q", ok, diffText)
	}
}

func TestCompareBaselineFailsOnMissingWhenRequired(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/missing.baseline.json"

	ok, diffText, err := compareBaseline(path, []byte(`[]`), true)
	if err != nil {
		t.Fatalf("compareBaseline: %v", err)
	}
	if ok || diffText == "" {
		t.Errorf("expected a missing-baseline failure, got ok=%v diffText=%q", ok, diffText)
	}
}

func TestCompareBaselineDetectsMismatch(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/mismatch.baseline.json"

	if _, _, err := compareBaseline(path, []byte(`[{"a":1}]`), false); err != nil {
		t.Fatalf("seeding baseline: %v", err)
	}

	ok, diffText, err := compareBaseline(path, []byte(`[{"a":2}]`), false)
	if err != nil {
		t.Fatalf("compareBaseline: %v", err)
	}
	if ok || diffText == "" {
		t.Errorf("expected a mismatch diff, got ok=%v diffText=%q", ok, diffText)
	}
}
