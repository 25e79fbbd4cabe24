package diag

import "fmt"

// RelatedInfo is a secondary location attached to a diagnostic, e.g. the
// declaration site an override conflicts with.
type RelatedInfo struct {
	File    string
	Start   int
	Length  int
	Message string
}

// Diagnostic is a single reported problem, in the shape the driver prints
// and the external interface (spec §6) exposes.
type Diagnostic struct {
	Code     int
	Category Category
	Message  string
	File     string
	Start    int
	Length   int
	Related  []RelatedInfo
}

// suppressKey identifies a type that, when it appears as the source or
// target of an assignability check, marks the check as a cascade site:
// secondary diagnostics derived from it are dropped (spec §4.8, §7).
// The checker package registers the concrete sentinel TypeIds here via
// MarkCascadeType so diag itself stays independent of internal/types.
type suppressKey = uint32

// Reporter accumulates diagnostics in the order they are produced by the
// top-down AST walk (spec §5 Ordering) and applies cascade suppression.
type Reporter struct {
	diags         []Diagnostic
	cascadeTypes  map[suppressKey]bool
	suppressed    int
	primaryCodes  map[int]bool // codes that are never suppressed (resolution failures)
}

// NewReporter creates an empty reporter. primaryCodes lists codes that must
// never be suppressed even when derived from a cascade site (spec: "cannot
// find name" is never suppressed).
func NewReporter() *Reporter {
	r := &Reporter{
		cascadeTypes: make(map[suppressKey]bool),
		primaryCodes: map[int]bool{
			CannotFindName: true,
		},
	}
	return r
}

// MarkCascadeType registers a TypeId (normally the `error` sentinel, and
// optionally `unknown`) as a cascade source: later Report calls whose
// CascadeSource is set to one of these ids are suppressed unless the code
// is a primary code.
func (r *Reporter) MarkCascadeType(id uint32) {
	r.cascadeTypes[id] = true
}

// Report appends a fully-formed diagnostic, honoring cascade suppression
// when cascadeSource is non-zero and registered via MarkCascadeType.
func (r *Reporter) Report(d Diagnostic, cascadeSource uint32) {
	if cascadeSource != 0 && r.cascadeTypes[cascadeSource] && !r.primaryCodes[d.Code] {
		r.suppressed++
		return
	}
	r.diags = append(r.diags, d)
}

// Reportf formats a diagnostic from its code's template plus positional
// args and reports it with no cascade source.
func (r *Reporter) Reportf(code int, category Category, file string, start, length int, args ...any) {
	tmpl, ok := Template(code)
	msg := tmpl
	if !ok {
		msg = fmt.Sprintf("TS%d", code)
	}
	r.Report(Diagnostic{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(msg, args...),
		File:     file,
		Start:    start,
		Length:   length,
	}, 0)
}

// ReportfSuppressible is like Reportf but participates in cascade
// suppression when cascadeSource is a registered cascade type.
func (r *Reporter) ReportfSuppressible(code int, category Category, file string, start, length int, cascadeSource uint32, args ...any) {
	tmpl, ok := Template(code)
	msg := tmpl
	if !ok {
		msg = fmt.Sprintf("TS%d", code)
	}
	r.Report(Diagnostic{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(msg, args...),
		File:     file,
		Start:    start,
		Length:   length,
	}, cascadeSource)
}

// Diagnostics returns all reported (non-suppressed) diagnostics in
// insertion order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// Suppressed returns how many diagnostics were dropped by cascade
// suppression, for debugging/metrics only.
func (r *Reporter) Suppressed() int {
	return r.suppressed
}

// HasErrors reports whether any accumulated diagnostic is of category error.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diags {
		if d.Category == CategoryError {
			return true
		}
	}
	return false
}
