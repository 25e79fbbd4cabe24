// Package evaluate implements the meta-type evaluator (spec §4.4):
// conditional types (including distribution over naked type parameters),
// mapped types, index-access types, keyof, template-literal interior
// evaluation, string-intrinsic application, and generic application
// resolution. Grounded on the teacher's internal/elaborate package, which
// faces the same shape of problem — reduce a type-level expression tree to
// normal form, bottom-up, with a visited-set guard against the recursive
// generic instantiations AILANG's own dictionary-passing elaboration can
// produce.
package evaluate

import (
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tscorelang/tscheck/internal/instantiate"
	"github.com/tscorelang/tscheck/internal/types"
)

// ErrDeferred signals that evaluation cannot proceed because it depends on
// a still-unresolved naked type parameter (spec §4.4, the "Deferred"
// marker): a conditional whose check type is an uninstantiated type
// parameter, a mapped type whose key constraint isn't yet a concrete union,
// an index access into an unresolved object, etc. Callers (normally
// internal/checker, re-driving evaluation after substitution) distinguish
// this from a hard error: it means "try again once more is known", not
// "this program is ill-typed".
var ErrDeferred = errors.New("evaluation deferred: depends on an unresolved type parameter")

// EvalLimitExceeded is returned once a single Eval call tree exceeds its
// configured evaluation budget (spec §4.4 "total-evaluations cap"); callers
// downgrade to `any` rather than treat it as a type error, matching the
// cascade non-poisoning rule in spec §4.8.
type EvalLimitExceeded struct{ Limit int }

func (e EvalLimitExceeded) Error() string {
	return fmt.Sprintf("type evaluation exceeded the %d-step budget", e.Limit)
}

// Resolver looks up a generic type alias/interface definition by its Lazy
// handle, for Application expansion (spec §3.3 "Lazy is resolved via a
// TypeResolver").
type Resolver interface {
	ResolveLazy(defID uint32) (params []string, body types.TypeId, ok bool)
}

// ExtendsChecker is the structural-assignability primitive a conditional
// type's `extends` clause needs, including infer-binding collection.
// Implemented by internal/subtype and injected here rather than imported
// directly: subtype itself calls back into evaluate to reduce conditional/
// mapped/index-access types encountered mid-comparison, so evaluate cannot
// import subtype without a cycle. internal/checker wires the concrete
// implementation in.
type ExtendsChecker interface {
	// ExtendsWithInfer reports whether check is assignable to extends,
	// additionally returning any `infer X` bindings captured along the way.
	// noInfer lists type-parameter names whose capture must be suppressed
	// (spec §4.3, NoInfer).
	ExtendsWithInfer(check, extends types.TypeId, noInfer map[string]bool) (matches bool, bindings map[string]types.TypeId)
}

const (
	defaultMaxEvaluations = 10_000
	defaultMaxDepth       = 200
)

// Evaluator reduces meta-types to normal form.
type Evaluator struct {
	store    *types.Store
	inst     *instantiate.Instantiator
	resolver Resolver
	extends  ExtendsChecker

	maxEvaluations int
	maxDepth       int
}

// New builds an Evaluator. maxEvaluations/maxDepth <= 0 fall back to
// defaults (spec §4.4).
func New(store *types.Store, inst *instantiate.Instantiator, resolver Resolver, extends ExtendsChecker, maxEvaluations, maxDepth int) *Evaluator {
	if maxEvaluations <= 0 {
		maxEvaluations = defaultMaxEvaluations
	}
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Evaluator{
		store: store, inst: inst, resolver: resolver, extends: extends,
		maxEvaluations: maxEvaluations, maxDepth: maxDepth,
	}
}

// session carries the per-Eval-call budget and cycle guard; a fresh one is
// created for each top-level Eval so limits don't leak across unrelated
// evaluations sharing one Evaluator.
type session struct {
	remaining int
	visiting  map[types.TypeId]bool
}

// Eval reduces id to normal form: conditional/mapped/index-access/keyof/
// template-literal-interior/string-intrinsic/generic-application nodes are
// expanded; everything else passes through unchanged.
func (e *Evaluator) Eval(id types.TypeId) (types.TypeId, error) {
	sess := &session{remaining: e.maxEvaluations, visiting: make(map[types.TypeId]bool)}
	return e.eval(id, 0, sess)
}

func (e *Evaluator) eval(id types.TypeId, depth int, sess *session) (types.TypeId, error) {
	if depth > e.maxDepth {
		return types.NoType, EvalLimitExceeded{Limit: e.maxDepth}
	}
	if sess.remaining <= 0 {
		return types.NoType, EvalLimitExceeded{Limit: e.maxEvaluations}
	}
	if types.IsIntrinsic(id) {
		return id, nil
	}
	if sess.visiting[id] {
		return id, nil // already mid-expansion on this path; stop reducing further
	}
	sess.remaining--

	switch t := e.store.Underlying(id).(type) {
	case types.Conditional:
		sess.visiting[id] = true
		defer delete(sess.visiting, id)
		return e.evalConditional(t, depth, sess)

	case types.Mapped:
		sess.visiting[id] = true
		defer delete(sess.visiting, id)
		return e.evalMapped(t, depth, sess)

	case types.IndexAccess:
		return e.evalIndexAccess(t, depth, sess)

	case types.KeyOf:
		return e.evalKeyOf(t, depth, sess)

	case types.TemplateLiteral:
		return e.evalTemplateLiteral(t, depth, sess)

	case types.StringIntrinsic:
		return e.evalStringIntrinsic(t, depth, sess)

	case types.Application:
		sess.visiting[id] = true
		defer delete(sess.visiting, id)
		return e.evalApplication(t, depth, sess)

	case types.NoInfer:
		return e.eval(t.Inner, depth+1, sess)

	case types.ReadonlyType:
		inner, err := e.eval(t.Inner, depth+1, sess)
		if err != nil {
			return id, err
		}
		if inner == t.Inner {
			return id, nil
		}
		return e.store.MakeReadonly(inner), nil

	case types.Union:
		return e.evalEach(t.Members, e.store.Union, depth, sess)

	case types.Intersection:
		return e.evalEach(t.Members, e.store.Intersection, depth, sess)

	case types.Array:
		elem, err := e.eval(t.Elem, depth+1, sess)
		if err != nil {
			return id, err
		}
		if elem == t.Elem {
			return id, nil
		}
		return e.store.Array(elem), nil

	default:
		return id, nil
	}
}

func (e *Evaluator) evalEach(ids []types.TypeId, combine func([]types.TypeId) types.TypeId, depth int, sess *session) (types.TypeId, error) {
	out := make([]types.TypeId, len(ids))
	changed := false
	for i, id := range ids {
		v, err := e.eval(id, depth+1, sess)
		if err != nil {
			return types.NoType, err
		}
		if v != id {
			changed = true
		}
		out[i] = v
	}
	if !changed {
		return combine(ids), nil
	}
	return combine(out), nil
}

// --- Conditional types -----------------------------------------------------

func isNaked(store *types.Store, id types.TypeId) bool {
	_, ok := store.Underlying(id).(types.TypeParameter)
	return ok
}

func (e *Evaluator) evalConditional(c types.Conditional, depth int, sess *session) (types.TypeId, error) {
	if c.Distributive {
		if u, ok := e.store.Underlying(c.Check).(types.Union); ok {
			parts := make([]types.TypeId, 0, len(u.Members))
			for _, m := range u.Members {
				branch, err := e.evalConditionalOne(types.Conditional{
					Check: m, Extends: c.Extends, TrueBranch: c.TrueBranch, FalseBranch: c.FalseBranch,
				}, depth, sess)
				if err != nil {
					return types.NoType, err
				}
				parts = append(parts, branch)
			}
			return e.store.Union(parts), nil
		}
		if c.Check == types.Never {
			// Distributive conditionals over never vanish to never rather
			// than evaluating either branch (spec §4.4 edge case).
			return types.Never, nil
		}
	}
	return e.evalConditionalOne(c, depth, sess)
}

func (e *Evaluator) evalConditionalOne(c types.Conditional, depth int, sess *session) (types.TypeId, error) {
	if isNaked(e.store, c.Check) {
		return types.NoType, ErrDeferred
	}
	noInfer := collectNoInfer(e.store, c.Extends)
	matches, bindings := e.extends.ExtendsWithInfer(c.Check, c.Extends, noInfer)

	branch := c.FalseBranch
	if matches {
		branch = c.TrueBranch
	} else {
		bindings = nil
	}

	if len(bindings) > 0 {
		keys := make([]string, 0, len(bindings))
		vals := make([]types.TypeId, 0, len(bindings))
		for k, v := range bindings {
			keys = append(keys, k)
			vals = append(vals, v)
		}
		substituted, err := e.inst.Substitute(branch, instantiate.NewMap(keys, vals))
		if err != nil {
			return types.NoType, err
		}
		branch = substituted
	}
	return e.eval(branch, depth+1, sess)
}

// collectNoInfer walks extends looking for NoInfer-wrapped infer bindings,
// whose names must not be captured (DESIGN.md "NoInfer scope" decision).
func collectNoInfer(store *types.Store, extends types.TypeId) map[string]bool {
	out := map[string]bool{}
	var walk func(id types.TypeId)
	walk = func(id types.TypeId) {
		switch t := store.Underlying(id).(type) {
		case types.NoInfer:
			if inf, ok := store.Underlying(t.Inner).(types.Infer); ok {
				out[inf.Name] = true
			}
		case types.Array:
			walk(t.Elem)
		case types.Tuple:
			for _, el := range t.Elems {
				walk(el.Type)
			}
		case types.Union:
			for _, m := range t.Members {
				walk(m)
			}
		case types.Intersection:
			for _, m := range t.Members {
				walk(m)
			}
		}
	}
	walk(extends)
	return out
}

// --- Mapped types ------------------------------------------------------

func (e *Evaluator) evalMapped(m types.Mapped, depth int, sess *session) (types.TypeId, error) {
	constraint, err := e.eval(m.Constraint, depth+1, sess)
	if err != nil {
		return types.NoType, err
	}
	keys, ok := e.literalKeys(constraint)
	if !ok {
		return types.NoType, ErrDeferred
	}

	props := make([]types.Property, 0, len(keys))
	for _, k := range keys {
		name, ok := e.keyAtomName(k)
		if !ok {
			continue
		}
		sub := instantiate.NewMap([]string{m.Param}, []types.TypeId{k})
		propType, err := e.inst.Substitute(m.Template, sub)
		if err != nil {
			return types.NoType, err
		}
		propType, err = e.eval(propType, depth+1, sess)
		if err != nil {
			return types.NoType, err
		}
		emittedName := name
		if m.NameType != types.NoType {
			remapped, err := e.inst.Substitute(m.NameType, sub)
			if err != nil {
				return types.NoType, err
			}
			remapped, err = e.eval(remapped, depth+1, sess)
			if err != nil {
				return types.NoType, err
			}
			if remapped == types.NoType || remapped == types.Never {
				continue // `as never` key filtering (spec §4.4)
			}
			if remappedName, ok := e.keyAtomName(remapped); ok {
				emittedName = remappedName
			}
		}
		props = append(props, types.Property{
			Name:     e.store.Atoms().Intern(emittedName),
			Type:     propType,
			Optional: m.OptionalMod == types.ModifierAdd,
			Readonly: m.ReadonlyMod == types.ModifierAdd,
		})
	}
	return e.store.Shape(props, nil, nil), nil
}

// literalKeys returns the concrete keys a (already-evaluated) constraint
// type denotes: a union of string/number literals, a single literal, or an
// Object's own properties via keyof-style reduction. Returns ok=false if
// the constraint isn't concrete yet.
func (e *Evaluator) literalKeys(constraint types.TypeId) ([]types.TypeId, bool) {
	switch d := e.store.Underlying(constraint).(type) {
	case types.LiteralString, types.LiteralNumber:
		return []types.TypeId{constraint}, true
	case types.Union:
		for _, m := range d.Members {
			switch e.store.Underlying(m).(type) {
			case types.LiteralString, types.LiteralNumber:
			default:
				return nil, false
			}
		}
		return d.Members, true
	case types.Object:
		out := make([]types.TypeId, len(d.Props))
		for i, p := range d.Props {
			out[i] = e.store.LiteralString(e.store.Atoms().Lookup(p.Name))
		}
		return out, true
	default:
		return nil, false
	}
}

func (e *Evaluator) keyAtomName(id types.TypeId) (string, bool) {
	switch d := e.store.Underlying(id).(type) {
	case types.LiteralString:
		return d.Value, true
	case types.LiteralNumber:
		return e.store.Print(id), true
	default:
		return "", false
	}
}

// --- Index access / keyof ------------------------------------------------

func (e *Evaluator) evalIndexAccess(ia types.IndexAccess, depth int, sess *session) (types.TypeId, error) {
	obj, err := e.eval(ia.Object, depth+1, sess)
	if err != nil {
		return types.NoType, err
	}
	index, err := e.eval(ia.Index, depth+1, sess)
	if err != nil {
		return types.NoType, err
	}

	if arr, ok := e.store.Underlying(obj).(types.Array); ok {
		if index == types.Number {
			return arr.Elem, nil
		}
	}

	names, ok := e.literalKeys(index)
	if !ok {
		return types.NoType, ErrDeferred
	}

	result := make([]types.TypeId, 0, len(names))
	objData, ok := e.store.Underlying(obj).(types.Object)
	if !ok {
		return types.NoType, ErrDeferred
	}
	for _, n := range names {
		name, ok := e.keyAtomName(n)
		if !ok {
			continue
		}
		found := false
		for _, p := range objData.Props {
			if e.store.Atoms().Lookup(p.Name) == name {
				result = append(result, p.Type)
				found = true
				break
			}
		}
		if !found && objData.StringIndex != nil {
			result = append(result, objData.StringIndex.ValueType)
			found = true
		}
		if !found {
			return types.NoType, fmt.Errorf("property %q does not exist on this type", name)
		}
	}
	if len(result) == 0 {
		return types.Never, nil
	}
	return e.eval(e.store.Union(result), depth+1, sess)
}

func (e *Evaluator) evalKeyOf(k types.KeyOf, depth int, sess *session) (types.TypeId, error) {
	inner, err := e.eval(k.Inner, depth+1, sess)
	if err != nil {
		return types.NoType, err
	}
	switch d := e.store.Underlying(inner).(type) {
	case types.Object:
		keys := make([]types.TypeId, 0, len(d.Props))
		for _, p := range d.Props {
			keys = append(keys, e.store.LiteralString(e.store.Atoms().Lookup(p.Name)))
		}
		if d.StringIndex != nil {
			keys = append(keys, types.String)
		}
		if d.NumberIndex != nil {
			keys = append(keys, types.Number)
		}
		if len(keys) == 0 {
			return types.Never, nil
		}
		return e.store.Union(keys), nil
	default:
		if isNaked(e.store, inner) {
			return types.NoType, ErrDeferred
		}
		return types.Never, nil
	}
}

// --- Template literals / string intrinsics --------------------------------

func (e *Evaluator) evalTemplateLiteral(tl types.TemplateLiteral, depth int, sess *session) (types.TypeId, error) {
	spans := make([]types.TemplateSpan, len(tl.Spans))
	changed := false
	for i, sp := range tl.Spans {
		if sp.Type == types.NoType {
			spans[i] = sp
			continue
		}
		v, err := e.eval(sp.Type, depth+1, sess)
		if err != nil {
			return types.NoType, err
		}
		if v != sp.Type {
			changed = true
		}
		spans[i] = types.TemplateSpan{Type: v}
	}
	if !changed {
		return e.store.TemplateLiteral(tl.Spans), nil
	}
	return e.store.TemplateLiteral(spans), nil
}

func (e *Evaluator) evalStringIntrinsic(si types.StringIntrinsic, depth int, sess *session) (types.TypeId, error) {
	arg, err := e.eval(si.Arg, depth+1, sess)
	if err != nil {
		return types.NoType, err
	}
	if u, ok := e.store.Underlying(arg).(types.Union); ok {
		parts := make([]types.TypeId, len(u.Members))
		for i, m := range u.Members {
			v, err := e.applyStringIntrinsic(si.Kind, m)
			if err != nil {
				return types.NoType, err
			}
			parts[i] = v
		}
		return e.store.Union(parts), nil
	}
	return e.applyStringIntrinsic(si.Kind, arg)
}

func (e *Evaluator) applyStringIntrinsic(kind types.StringIntrinsicKind, arg types.TypeId) (types.TypeId, error) {
	lit, ok := e.store.Underlying(arg).(types.LiteralString)
	if !ok {
		if isNaked(e.store, arg) {
			return types.NoType, ErrDeferred
		}
		return types.String, nil // non-literal concrete string: intrinsic can't narrow further
	}
	return e.store.LiteralString(transformString(kind, lit.Value)), nil
}

// transformString applies one of the four built-in string-manipulation
// intrinsics using golang.org/x/text/cases for locale-correct Unicode
// casing (spec §4.4, "String intrinsic types"): plain strings.ToUpper/Lower
// mishandle titlecasing for Capitalize/Uncapitalize on multi-byte runes.
func transformString(kind types.StringIntrinsicKind, s string) string {
	switch kind {
	case types.Uppercase:
		return cases.Upper(language.Und).String(s)
	case types.Lowercase:
		return cases.Lower(language.Und).String(s)
	case types.Capitalize:
		return capitalizeFirst(s, true)
	case types.Uncapitalize:
		return capitalizeFirst(s, false)
	default:
		return s
	}
}

func capitalizeFirst(s string, upper bool) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	first := string(runes[0])
	if upper {
		first = cases.Upper(language.Und).String(first)
	} else {
		first = cases.Lower(language.Und).String(first)
	}
	return first + string(runes[1:])
}

// --- Generic application ---------------------------------------------------

func (e *Evaluator) evalApplication(a types.Application, depth int, sess *session) (types.TypeId, error) {
	base := a.Base
	if baseApp, ok := e.store.Underlying(a.Base).(types.Application); ok {
		resolvedBase, err := e.evalApplication(baseApp, depth+1, sess)
		if err != nil {
			return types.NoType, err
		}
		base = resolvedBase
	}
	lazy, ok := e.store.Underlying(base).(types.Lazy)
	if !ok {
		return types.NoType, ErrDeferred
	}
	params, body, ok := e.resolver.ResolveLazy(lazy.DefID)
	if !ok {
		return types.NoType, fmt.Errorf("unresolved generic definition #%d", lazy.DefID)
	}
	args := make([]types.TypeId, len(a.Args))
	for i, arg := range a.Args {
		v, err := e.eval(arg, depth+1, sess)
		if err != nil {
			return types.NoType, err
		}
		args[i] = v
	}
	substituted, err := e.inst.Substitute(body, instantiate.NewMap(params, args))
	if err != nil {
		return types.NoType, err
	}
	return e.eval(substituted, depth+1, sess)
}
