// Package subtype implements the structural subtype/assignability relation
// (spec §4.5): the raw structural recursion over two TypeIds, parameterized
// by the strictness flags a call site is checking under. Grounded on the
// recursive assignableTo found across the retrieval pack's own small
// type-checker implementations (structural comparison with aliases
// unwrapped first, then a per-shape type switch), generalized here to the
// much larger TS shape vocabulary and to co-inductive recursive-type
// handling via an optimistic visited-pairs assumption — the same
// "assume related while still comparing, to let recursive types
// terminate" strategy the reference TypeScript compiler itself uses in its
// own isRelatedTo.
package subtype

import (
	"fmt"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/evaluate"
	"github.com/tscorelang/tscheck/internal/types"
)

// Flags controls which TypeScript strictness-family behaviors this
// comparison honors (spec §4.5); internal/checkeropts.Options carries the
// user-facing names this is populated from.
type Flags struct {
	StrictFunctionTypes        bool
	StrictNullChecks           bool
	AllowVoidReturn            bool
	AllowBivariantRest         bool
	ExactOptionalPropertyTypes bool
	NoUncheckedIndexedAccess   bool
	DisableMethodBivariance    bool
}

// Explanation is a node in the "why isn't this assignable" tree (spec §4.5
// "explain_failure"), built lazily only on the failure path so the common
// success case pays nothing for it.
type Explanation struct {
	Reason   string
	Source   types.TypeId
	Target   types.TypeId
	Children []*Explanation
}

func (e *Explanation) String() string {
	if e == nil {
		return ""
	}
	return e.Reason
}

// Checker performs assignability checks over one Store, under one set of
// Flags. It also implements evaluate.ExtendsChecker, so internal/checker
// can hand this same Checker to the Evaluator for conditional-type `extends`
// resolution without an import cycle (evaluate defines the interface,
// subtype implements it, checker wires the concrete value in).
type Checker struct {
	store *types.Store
	eval  *evaluate.Evaluator
	flags Flags
}

// New builds a Checker. eval may be nil if the checker only needs to
// compare already-fully-reduced types (e.g. in tests); a nil eval simply
// means conditional/mapped/indexed types are compared structurally as
// opaque values instead of being reduced first.
func New(store *types.Store, eval *evaluate.Evaluator, flags Flags) *Checker {
	return &Checker{store: store, eval: eval, flags: flags}
}

type pairKey struct {
	source, target types.TypeId
}

// ctx threads the co-inductive visited-pairs set (and, for ExtendsWithInfer,
// the infer-binding collector) through one top-level comparison.
type ctx struct {
	visiting map[pairKey]bool
	collect  map[string]types.TypeId // non-nil only for extends-with-infer mode
	noInfer  map[string]bool
}

// IsAssignable reports whether source is assignable to target (spec §4.5).
func (c *Checker) IsAssignable(source, target types.TypeId) bool {
	return c.relate(source, target, &ctx{visiting: make(map[pairKey]bool)})
}

// Explain returns nil if source is assignable to target, or an Explanation
// tree describing the first-found reason it is not.
func (c *Checker) Explain(source, target types.TypeId) *Explanation {
	if c.IsAssignable(source, target) {
		return nil
	}
	return c.explain(source, target)
}

// ExtendsWithInfer implements evaluate.ExtendsChecker: it's IsAssignable's
// sibling relation but additionally binds `infer X` positions encountered
// in target (conditional types call this with target == their Extends
// clause, spec §4.4).
func (c *Checker) ExtendsWithInfer(source, target types.TypeId, noInfer map[string]bool) (bool, map[string]types.TypeId) {
	cx := &ctx{visiting: make(map[pairKey]bool), collect: make(map[string]types.TypeId), noInfer: noInfer}
	ok := c.relate(source, target, cx)
	if !ok {
		return false, nil
	}
	return true, cx.collect
}

func (c *Checker) reduce(id types.TypeId) types.TypeId {
	if c.eval == nil {
		return id
	}
	switch c.store.Underlying(id).(type) {
	case types.Conditional, types.Mapped, types.IndexAccess, types.KeyOf, types.StringIntrinsic, types.Application:
		if v, err := c.eval.Eval(id); err == nil {
			return v
		}
		return id // deferred/over-budget: compare the unreduced form rather than fail outright
	default:
		return id
	}
}

// relate is the single recursive entry point both IsAssignable and
// ExtendsWithInfer funnel through.
func (c *Checker) relate(source, target types.TypeId, cx *ctx) bool {
	source = c.unwrapReadonlyNoInfer(source)
	target = unwrapInferTarget(c, target, cx)

	source = c.reduce(source)
	target = c.reduce(target)

	// any propagates through unconditionally in both directions (spec §4.5,
	// "any propagation"), regardless of strictness flags.
	if source == types.Any || target == types.Any || target == types.Unknown {
		return true
	}
	if source == types.Never {
		return true
	}
	if target == types.Never {
		return source == types.Never
	}
	if source == target {
		return true
	}

	if !c.flags.StrictNullChecks {
		if source == types.Null || source == types.Undefined {
			return true // non-strict null checks: null/undefined assignable to anything
		}
	}

	key := pairKey{source, target}
	if cx.visiting[key] {
		return true // co-inductive assumption: recursive types terminate optimistically
	}
	cx.visiting[key] = true
	defer delete(cx.visiting, key)

	if infer, ok := c.store.Underlying(target).(types.Infer); ok && cx.collect != nil {
		if !cx.noInfer[infer.Name] {
			cx.collect[infer.Name] = source
		}
		return true
	}

	if tu, ok := c.store.Underlying(target).(types.Union); ok {
		for _, m := range tu.Members {
			if c.relate(source, m, cx) {
				return true
			}
		}
		return false
	}
	if su, ok := c.store.Underlying(source).(types.Union); ok {
		for _, m := range su.Members {
			if !c.relate(m, target, cx) {
				return false
			}
		}
		return true
	}

	if ti, ok := c.store.Underlying(target).(types.Intersection); ok {
		for _, m := range ti.Members {
			if !c.relate(source, m, cx) {
				return false
			}
		}
		return true
	}
	if si, ok := c.store.Underlying(source).(types.Intersection); ok {
		for _, m := range si.Members {
			if c.relate(m, target, cx) {
				return true
			}
		}
		return false
	}

	switch td := c.store.Underlying(target).(type) {
	case nil:
		return source == target

	case types.Array:
		sd, ok := c.store.Underlying(source).(types.Array)
		if !ok {
			return false
		}
		return c.relate(sd.Elem, td.Elem, cx)

	case types.Tuple:
		return c.relateTuple(source, td, cx)

	case types.Object:
		return c.relateObject(source, td, cx)

	case types.Function:
		sd, ok := c.store.Underlying(source).(types.Function)
		if !ok {
			return false
		}
		return c.relateSignature(sd.Sig, td.Sig, cx)

	case types.Callable:
		return c.relateCallable(source, td, cx)

	case types.LiteralString, types.LiteralNumber, types.LiteralBigInt:
		return false // reached only if source != target and source isn't widening to it

	case types.TemplateLiteral:
		return c.relateTemplateLiteral(source, td, cx)

	case types.ReadonlyType:
		return c.relate(source, td.Inner, cx)

	default:
		return false
	}
}

// unwrapReadonlyNoInfer strips wrapper kinds that never change assignability
// on the source side: `readonly T` compares as T, `NoInfer<T>` compares as T.
func (c *Checker) unwrapReadonlyNoInfer(id types.TypeId) types.TypeId {
	for {
		switch d := c.store.Underlying(id).(type) {
		case types.ReadonlyType:
			id = d.Inner
		case types.NoInfer:
			id = d.Inner
		default:
			return id
		}
	}
}

// unwrapInferTarget strips NoInfer on the target side too, except that an
// Infer immediately inside it must NOT be captured (DESIGN.md "NoInfer
// scope"): unwrap NoInfer but remember to suppress the Infer it guarded.
func unwrapInferTarget(c *Checker, id types.TypeId, cx *ctx) types.TypeId {
	if ni, ok := c.store.Underlying(id).(types.NoInfer); ok {
		if inf, ok := c.store.Underlying(ni.Inner).(types.Infer); ok && cx.noInfer != nil {
			cx.noInfer[inf.Name] = true
		}
		return ni.Inner
	}
	return id
}

func (c *Checker) relateTuple(source types.TypeId, target types.Tuple, cx *ctx) bool {
	sd, ok := c.store.Underlying(source).(types.Tuple)
	if !ok {
		return false
	}
	si, ti := 0, 0
	for ti < len(target.Elems) {
		te := target.Elems[ti]
		if te.Rest {
			restType := te.Type
			for si < len(sd.Elems) {
				if !c.relate(sd.Elems[si].Type, restType, cx) {
					return false
				}
				si++
			}
			ti++
			continue
		}
		if si >= len(sd.Elems) {
			return te.Optional
		}
		if !c.relate(sd.Elems[si].Type, te.Type, cx) {
			return false
		}
		si++
		ti++
	}
	return si >= len(sd.Elems)
}

func (c *Checker) relateObject(source types.TypeId, target types.Object, cx *ctx) bool {
	sd, ok := c.store.Underlying(source).(types.Object)
	if !ok {
		return false
	}
	if !c.relateProps(sd.Props, sd.StringIndex, target.Props, cx) {
		return false
	}
	if sd.Fresh && !target.Fresh && !c.propsSubsetOf(sd.Props, target.Props) {
		// Excess-property check: a freshly-written object literal may not
		// carry properties the target doesn't declare (spec §4.6). Widened
		// (non-fresh) sources skip this — only literal positions are
		// checked, matching tsc's own freshness-gated EPC.
		return false
	}
	if target.StringIndex != nil {
		for _, sp := range sd.Props {
			if !c.relate(sp.Type, target.StringIndex.ValueType, cx) {
				return false
			}
		}
		if sd.StringIndex != nil && !c.relate(sd.StringIndex.ValueType, target.StringIndex.ValueType, cx) {
			return false
		}
	}
	return true
}

// relateProps checks that every target property (by name) has a compatible
// counterpart among sourceProps, falling back to a source string index
// signature when a target property is missing but required. Shared between
// relateObject and relateCallable (a Callable value's own named properties
// are checked the same way an Object's are).
func (c *Checker) relateProps(sourceProps []types.Property, sourceStringIdx *types.IndexInfo, targetProps []types.Property, cx *ctx) bool {
	for _, tp := range targetProps {
		found := false
		for _, sp := range sourceProps {
			if sp.Name != tp.Name {
				continue
			}
			found = true
			if c.flags.ExactOptionalPropertyTypes && tp.Optional != sp.Optional {
				return false
			}
			if !c.relate(sp.Type, tp.Type, cx) {
				return false
			}
			break
		}
		if !found {
			if tp.Optional {
				continue
			}
			if sourceStringIdx != nil && c.relate(sourceStringIdx.ValueType, tp.Type, cx) {
				continue
			}
			return false
		}
	}
	return true
}

func (c *Checker) propsSubsetOf(sourceProps, targetProps []types.Property) bool {
	allowed := make(map[atom.Atom]bool, len(targetProps))
	for _, tp := range targetProps {
		allowed[tp.Name] = true
	}
	for _, sp := range sourceProps {
		if !allowed[sp.Name] {
			return false
		}
	}
	return true
}

func (c *Checker) relateCallable(source types.TypeId, target types.Callable, cx *ctx) bool {
	sd, ok := c.store.Underlying(source).(types.Callable)
	if !ok {
		return false
	}
	if len(target.CallSigs) > 0 {
		if len(sd.CallSigs) == 0 {
			return false
		}
		if !c.relateSignature(sd.CallSigs[0], target.CallSigs[0], cx) {
			return false
		}
	}
	if len(target.ConstructSigs) > 0 {
		if len(sd.ConstructSigs) == 0 {
			return false
		}
		if !c.relateSignature(sd.ConstructSigs[0], target.ConstructSigs[0], cx) {
			return false
		}
	}
	return c.relateProps(sd.Props, sd.StringIndex, target.Props, cx)
}

func (c *Checker) relateSignature(source, target types.Signature, cx *ctx) bool {
	if !c.flags.AllowBivariantRest && len(source.Params) < requiredParamCount(target) {
		return false
	}
	for i, tp := range target.Params {
		var sp types.Param
		switch {
		case i < len(source.Params):
			sp = source.Params[i]
		case len(source.Params) > 0 && source.Params[len(source.Params)-1].Rest:
			sp = source.Params[len(source.Params)-1]
		default:
			if tp.Optional || tp.Rest {
				continue
			}
			return false
		}
		// Parameters are contravariant under strict function types, but
		// tsc checks them bivariantly by default for ergonomics with
		// method-like call sites (spec §4.5).
		if c.flags.StrictFunctionTypes {
			if !c.relate(tp.Type, sp.Type, cx) {
				return false
			}
		} else {
			if !c.relate(tp.Type, sp.Type, cx) && !c.relate(sp.Type, tp.Type, cx) {
				return false
			}
		}
	}
	if target.Return == types.Void {
		// A function returning anything is assignable where void is
		// expected (spec §4.5) — this holds regardless of AllowVoidReturn,
		// which instead governs the reverse direction: whether a
		// void-returning source may satisfy a non-void target.
		return true
	}
	if source.Return == types.Void && target.Return != types.Void {
		return c.flags.AllowVoidReturn
	}
	return c.relate(source.Return, target.Return, cx)
}

func requiredParamCount(sig types.Signature) int {
	n := 0
	for _, p := range sig.Params {
		if p.Optional || p.Rest {
			break
		}
		n++
	}
	return n
}

func (c *Checker) relateTemplateLiteral(source types.TypeId, target types.TemplateLiteral, cx *ctx) bool {
	if lit, ok := c.store.Underlying(source).(types.LiteralString); ok {
		return matchesTemplatePattern(lit.Value, target.Spans)
	}
	if sd, ok := c.store.Underlying(source).(types.TemplateLiteral); ok {
		return fmt.Sprintf("%v", sd.Spans) == fmt.Sprintf("%v", target.Spans)
	}
	return false
}

// matchesTemplatePattern is a conservative check: only literal text spans
// are matched exactly; a type-hole span matches any substring greedily.
// Exact backtracking isn't attempted (spec §4.5 scopes template-literal
// assignability to "reasonably precise, not a full regex engine").
func matchesTemplatePattern(s string, spans []types.TemplateSpan) bool {
	rest := s
	for i, sp := range spans {
		if sp.Type != types.NoType {
			if i == len(spans)-1 {
				return true // trailing hole accepts anything remaining
			}
			continue // interior hole: accept and keep scanning textual anchors loosely
		}
		idx := indexOf(rest, sp.Text)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(sp.Text):]
	}
	return true
}

func indexOf(s, sub string) int {
	if sub == "" {
		return 0
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func (c *Checker) explain(source, target types.TypeId) *Explanation {
	return &Explanation{
		Reason: fmt.Sprintf("type %s is not assignable to type %s", c.store.Print(source), c.store.Print(target)),
		Source: source,
		Target: target,
	}
}
