package diag

import "testing"

func TestCascadeSuppressionKeepsPrimary(t *testing.T) {
	r := NewReporter()
	r.MarkCascadeType(1) // pretend 1 is the `error` sentinel TypeId

	r.ReportfSuppressible(CannotFindName, CategoryError, "a.ts", 0, 3, 1, "foo")
	r.ReportfSuppressible(TypeNotAssignable, CategoryError, "a.ts", 10, 3, 1, "A", "B")

	diags := r.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("expected exactly the primary diagnostic to survive, got %d", len(diags))
	}
	if diags[0].Code != CannotFindName {
		t.Fatalf("expected CannotFindName to survive, got code %d", diags[0].Code)
	}
	if r.Suppressed() != 1 {
		t.Fatalf("expected 1 suppressed diagnostic, got %d", r.Suppressed())
	}
}

func TestReportfFormatsTemplate(t *testing.T) {
	r := NewReporter()
	r.Reportf(TypeNotAssignable, CategoryError, "a.ts", 0, 1, "string", "number")
	got := r.Diagnostics()[0].Message
	want := "Type 'string' is not assignable to type 'number'."
	if got != want {
		t.Fatalf("Message = %q, want %q", got, want)
	}
}

func TestHasErrors(t *testing.T) {
	r := NewReporter()
	if r.HasErrors() {
		t.Fatalf("empty reporter should not have errors")
	}
	r.Report(Diagnostic{Category: CategorySuggestion}, 0)
	if r.HasErrors() {
		t.Fatalf("suggestion-only reporter should not have errors")
	}
	r.Report(Diagnostic{Category: CategoryError}, 0)
	if !r.HasErrors() {
		t.Fatalf("expected HasErrors true after an error diagnostic")
	}
}
