// Package checkeropts holds the checker's configuration surface (spec §6),
// grounded on the teacher's internal/pipeline.Config: a flat struct of bool
// feature flags plus a coarse Mode, rather than a config object tree.
package checkeropts

// Mode selects what the checker produces beyond diagnostics.
type Mode int

const (
	// ModeCheck runs the full pipeline (binder, evaluator, subtype, compat,
	// narrow) and reports diagnostics only.
	ModeCheck Mode = iota
	// ModeTrace is accepted as a Mode value, but no package reads it: it
	// runs the same pipeline as ModeCheck and records no traces.
	ModeTrace
)

// Options controls which TypeScript compiler-flag-shaped behaviors are
// active (spec §6, "Configuration surfaces"). Strict is a convenience flag:
// Apply expands it into the individual strict-family flags that were left
// at their zero value, mirroring tsc's own --strict umbrella.
type Options struct {
	Mode Mode

	Strict bool

	StrictNullChecks        bool
	StrictFunctionTypes     bool
	StrictBindCallApply     bool
	NoImplicitAny           bool
	NoUnusedLocals          bool
	NoUnusedParameters      bool
	ExactOptionalPropertyTypes bool
	NoUncheckedIndexedAccess   bool
	DisableMethodBivariance    bool
	AllowBivariantRest         bool
	AllowVoidReturn            bool

	// StrictAny opts `any` out of unconditional propagation in the
	// compatibility overlay (SPEC_FULL.md §5): an explicit opt-in, never
	// implied by Strict itself.
	StrictAny bool

	// MaxInstantiationDepth and MaxEvaluations bound the instantiator and
	// evaluator against pathological recursive generics (spec §4.3, §4.4).
	MaxInstantiationDepth int
	MaxEvaluations        int

	// TraceNarrowing is carried in Options, but nothing reads it, so no
	// log line is written for narrowing decisions.
	TraceNarrowing bool

	// JSON and Compact mirror `tscheck check`'s --json/--compact flags. The
	// command prints from its flags directly; the checker does not read
	// these fields.
	JSON    bool
	Compact bool
}

const (
	defaultMaxInstantiationDepth = 50
	defaultMaxEvaluations        = 10_000
)

// Default returns the options tscheck uses absent any CLI/config overrides.
func Default() Options {
	return Options{
		Mode:                  ModeCheck,
		MaxInstantiationDepth: defaultMaxInstantiationDepth,
		MaxEvaluations:        defaultMaxEvaluations,
	}
}

// Apply expands Strict into its constituent flags and fills in zero-valued
// bounds with their defaults. Call once after flags/config have been parsed
// and before constructing a checker.
func (o *Options) Apply() {
	if o.Strict {
		o.StrictNullChecks = true
		o.StrictFunctionTypes = true
		o.StrictBindCallApply = true
		o.NoImplicitAny = true
		o.DisableMethodBivariance = true
	}
	if o.MaxInstantiationDepth == 0 {
		o.MaxInstantiationDepth = defaultMaxInstantiationDepth
	}
	if o.MaxEvaluations == 0 {
		o.MaxEvaluations = defaultMaxEvaluations
	}
}
