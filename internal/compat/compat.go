// Package compat implements the compatibility overlay (spec §4.6): the
// single public "is this assignment legal?" entry point, layering
// TypeScript-specific policy (any propagation, the weak-type rule, the
// empty-object target rule, strict-null shortcuts) on top of the raw
// structural relation in internal/subtype, with a per-instance verdict
// cache. Grounded on the teacher's internal/types.Unify, which plays the
// same "one public entry point wrapping the structural algorithm with
// caller-visible policy" role for AILANG's unifier — the overlay here
// additionally keys its cache by the active flag set
// (original_source/tsz-solver/src/compat.rs), since one Overlay may serve
// both a strict and a non-strict file in the same run.
package compat

import (
	"fmt"
	"sync"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/evaluate"
	"github.com/tscorelang/tscheck/internal/subtype"
	"github.com/tscorelang/tscheck/internal/types"
)

// Flags is the TypeScript strictness-family configuration the overlay and
// the subtype engine it wraps are evaluated under (spec §4.5, §4.6, §6).
type Flags struct {
	StrictNullChecks           bool
	StrictFunctionTypes        bool
	AllowVoidReturn            bool
	AllowBivariantRest         bool
	ExactOptionalPropertyTypes bool
	NoUncheckedIndexedAccess   bool
	DisableMethodBivariance    bool

	// StrictAny opts `any` out of its usual unconditional propagation and
	// into ordinary structural checking (SPEC_FULL.md §5, second open
	// question decision): an opt-in, not a new diagnostic family.
	StrictAny bool
}

func (f Flags) subtypeFlags() subtype.Flags {
	return subtype.Flags{
		StrictFunctionTypes:        f.StrictFunctionTypes,
		AllowVoidReturn:            f.AllowVoidReturn,
		AllowBivariantRest:         f.AllowBivariantRest,
		ExactOptionalPropertyTypes: f.ExactOptionalPropertyTypes,
		NoUncheckedIndexedAccess:   f.NoUncheckedIndexedAccess,
		DisableMethodBivariance:    f.DisableMethodBivariance,
		StrictNullChecks:           f.StrictNullChecks,
	}
}

// hash packs the boolean flags into a small integer so the verdict cache
// can key on (source, target, flagsHash) rather than just (source, target)
// — the same Overlay instance can then serve a strict .ts file and a
// loose-mode .js file (allowJs) in one run without stale verdicts
// (SPEC_FULL.md §4, "verdict cache invalidation").
func (f Flags) hash() uint16 {
	var h uint16
	bit := func(b bool, i uint) {
		if b {
			h |= 1 << i
		}
	}
	bit(f.StrictNullChecks, 0)
	bit(f.StrictFunctionTypes, 1)
	bit(f.AllowVoidReturn, 2)
	bit(f.AllowBivariantRest, 3)
	bit(f.ExactOptionalPropertyTypes, 4)
	bit(f.NoUncheckedIndexedAccess, 5)
	bit(f.DisableMethodBivariance, 6)
	bit(f.StrictAny, 7)
	return h
}

type verdictKey struct {
	source, target types.TypeId
	flagsHash      uint16
}

// Overlay is the compatibility overlay for one Store/Evaluator pair. A
// single Overlay may be asked about many distinct Flags configurations
// over its lifetime; each gets its own lazily-built subtype.Checker and
// its own slice of the verdict cache.
type Overlay struct {
	store *types.Store
	eval  *evaluate.Evaluator

	mu       sync.Mutex
	checkers map[uint16]*subtype.Checker
	cache    map[verdictKey]bool
}

// New builds an Overlay. eval may be nil (see subtype.New).
func New(store *types.Store, eval *evaluate.Evaluator) *Overlay {
	return &Overlay{
		store:    store,
		eval:     eval,
		checkers: make(map[uint16]*subtype.Checker),
		cache:    make(map[verdictKey]bool),
	}
}

func (o *Overlay) checkerFor(flags Flags) *subtype.Checker {
	h := flags.hash()
	o.mu.Lock()
	defer o.mu.Unlock()
	if c, ok := o.checkers[h]; ok {
		return c
	}
	c := subtype.New(o.store, o.eval, flags.subtypeFlags())
	o.checkers[h] = c
	return c
}

// IsAssignable decides whether source is legal to assign to target under
// flags, applying the policy layers of spec §4.6 in order before falling
// through to the structural subtype relation.
func (o *Overlay) IsAssignable(source, target types.TypeId, flags Flags) bool {
	key := verdictKey{source: source, target: target, flagsHash: flags.hash()}
	o.mu.Lock()
	if v, ok := o.cache[key]; ok {
		o.mu.Unlock()
		return v
	}
	o.mu.Unlock()

	v := o.decide(source, target, flags)

	o.mu.Lock()
	o.cache[key] = v
	o.mu.Unlock()
	return v
}

func (o *Overlay) decide(source, target types.TypeId, flags Flags) bool {
	// 1. Reflexivity.
	if source == target {
		return true
	}
	// 2. any propagation (the "lawyer"): any is assignable to/from anything
	// by default; under StrictAny it has no special status here and must
	// earn its keep through ordinary structural checking below.
	if !flags.StrictAny && (source == types.Any || target == types.Any) {
		return true
	}
	// 3. strict_null_checks off: null/undefined assignable to everything
	// non-never.
	if !flags.StrictNullChecks && (source == types.Null || source == types.Undefined) {
		return true
	}
	// 4. Target is unknown: accept.
	if target == types.Unknown {
		return true
	}
	// 5. Source is never: accept.
	if source == types.Never {
		return true
	}
	// 6. Either side is the error sentinel: delegate to the subtype engine
	// (which returns false for error), so errors never silently pass
	// (spec §4.8, §7 "error non-poisoning").
	if source == types.ErrorType || target == types.ErrorType {
		return o.checkerFor(flags).IsAssignable(source, target)
	}
	// 7. Source is unknown: reject (target==unknown/any already handled above).
	if source == types.Unknown {
		return false
	}
	// 8. Weak-type rule.
	if o.weakTypeRejects(source, target) {
		return false
	}
	// 9. Empty-object target: {} accepts any non-nullish value (or anything
	// at all when strict null checks are off, already handled by step 3).
	if o.isEmptyObjectTarget(target) {
		if flags.StrictNullChecks && (source == types.Null || source == types.Undefined) {
			return false
		}
		return true
	}
	// 10. Fall through to the structural subtype relation.
	return o.checkerFor(flags).IsAssignable(source, target)
}

// Explain returns a human-readable reason source isn't assignable to
// target, or nil if it is. A structural failure is explained by the
// subtype engine; a rejection that the structural relation alone would
// accept (the weak-type rule) gets the overlay's own weak-type reason.
func (o *Overlay) Explain(source, target types.TypeId, flags Flags) *subtype.Explanation {
	if o.IsAssignable(source, target, flags) {
		return nil
	}
	if ex := o.checkerFor(flags).Explain(source, target); ex != nil {
		return ex
	}
	return &subtype.Explanation{
		Reason: fmt.Sprintf("type %s has no properties in common with weak type %s", o.store.Print(source), o.store.Print(target)),
		Source: source,
		Target: target,
	}
}

// isWeakType reports whether target is an object type with at least one
// property, all of them optional, and no index signatures (spec §4.6,
// §8 "weak type" testable law).
func (o *Overlay) isWeakType(target types.TypeId) bool {
	obj, ok := o.store.Underlying(target).(types.Object)
	if !ok || len(obj.Props) == 0 {
		return false
	}
	if obj.StringIndex != nil || obj.NumberIndex != nil {
		return false
	}
	for _, p := range obj.Props {
		if !p.Optional {
			return false
		}
	}
	return true
}

// weakTypeRejects reports whether the weak-type rule rejects source ->
// target: target is a weak type and source (itself a concrete object
// type) shares no property name with it. Non-object sources are outside
// the rule's scope (spec §9: only object literals hit the "cast-only
// mismatch" the rule exists to catch) and fall through to the structural
// relation instead.
func (o *Overlay) weakTypeRejects(source, target types.TypeId) bool {
	if tu, ok := o.store.Underlying(target).(types.Union); ok {
		for _, m := range tu.Members {
			if o.weakTypeRejects(source, m) {
				return true
			}
		}
		return false
	}
	if !o.isWeakType(target) {
		return false
	}
	sd, ok := o.store.Underlying(source).(types.Object)
	if !ok {
		return false
	}
	targetNames := make(map[atom.Atom]bool)
	obj := o.store.Underlying(target).(types.Object)
	for _, p := range obj.Props {
		targetNames[p.Name] = true
	}
	for _, sp := range sd.Props {
		if targetNames[sp.Name] {
			return false
		}
	}
	return true
}

// isEmptyObjectTarget reports whether target is the `{}` type: an object
// shape with no properties and no index signatures (spec §4.6, §8
// "empty-object target" testable law).
func (o *Overlay) isEmptyObjectTarget(target types.TypeId) bool {
	obj, ok := o.store.Underlying(target).(types.Object)
	return ok && len(obj.Props) == 0 && obj.StringIndex == nil && obj.NumberIndex == nil
}
