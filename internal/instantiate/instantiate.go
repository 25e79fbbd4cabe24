// Package instantiate implements capture-avoiding substitution of type
// parameters by type arguments (spec §4.3). Grounded on the Go compiler's
// cmd/compile/internal/types2/subst.go: a substMap projecting type
// parameters to type arguments (falling back to identity on miss), and a
// recursive "subster" visitor that rebuilds only the subtree a substitution
// actually touches, memoized against infinite recursion on self-referential
// generic types (`type T<P> = T<P>`-shaped definitions).
package instantiate

import (
	"sort"

	"github.com/tscorelang/tscheck/internal/types"
)

// Map is a substitution: type parameter name -> type argument. Lookup falls
// back to the identity substitution (keep the parameter as itself) for any
// name not present, mirroring the teacher's substMap.lookup.
type Map struct {
	proj map[string]types.TypeId
}

// NewMap builds a substitution from parallel parameter-name/argument-TypeId
// slices. Entries where arg == types.NoType are treated as "not substituted"
// (partial instantiation, e.g. a generic used in its own recursive
// definition before all its arguments are known).
func NewMap(params []string, args []types.TypeId) *Map {
	proj := make(map[string]types.TypeId, len(params))
	for i, p := range params {
		if i < len(args) && args[i] != types.NoType {
			proj[p] = args[i]
		}
	}
	return &Map{proj: proj}
}

// Empty reports whether the substitution does nothing, letting callers skip
// a subst pass entirely.
func (m *Map) Empty() bool { return m == nil || len(m.proj) == 0 }

func (m *Map) lookup(name string) (types.TypeId, bool) {
	if m == nil {
		return types.NoType, false
	}
	id, ok := m.proj[name]
	return id, ok
}

// without returns a copy of m with name removed, used when a nested binder
// (conditional infer, mapped-type parameter, nested generic) shadows an
// outer type parameter of the same name — substitution must not reach
// through the shadow (capture avoidance, spec §4.3).
func (m *Map) without(name string) *Map {
	if m.Empty() {
		return m
	}
	if _, shadowed := m.proj[name]; !shadowed {
		return m
	}
	proj := make(map[string]types.TypeId, len(m.proj)-1)
	for k, v := range m.proj {
		if k != name {
			proj[k] = v
		}
	}
	return &Map{proj: proj}
}

const defaultMaxDepth = 50

// Instantiator rebuilds types under a substitution, via the Store so every
// rebuilt subtree re-interns to its canonical TypeId.
type Instantiator struct {
	store    *types.Store
	maxDepth int
}

// New creates an Instantiator bounded by maxDepth (spec §4.3); a
// non-positive maxDepth falls back to defaultMaxDepth.
func New(store *types.Store, maxDepth int) *Instantiator {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &Instantiator{store: store, maxDepth: maxDepth}
}

// TooDeep is returned (as the ok=false case) when substitution recurses
// past the configured bound, e.g. on `type Deep<T> = [T, Deep<Deep<T>>]`.
type TooDeep struct{ Depth int }

func (e TooDeep) Error() string { return "instantiation exceeded maximum depth" }

// Substitute rewrites id under m, returning the rebuilt TypeId. On exceeding
// maxDepth it returns the original id unchanged alongside an error so
// callers can downgrade to `any`/error-sentinel per their own policy
// (spec §4.8 "cascade non-poisoning") instead of this package picking one.
func (in *Instantiator) Substitute(id types.TypeId, m *Map) (types.TypeId, error) {
	if m.Empty() {
		return id, nil
	}
	visiting := make(map[visitKey]bool)
	return in.subst(id, m, 0, visiting)
}

type visitKey struct {
	id  types.TypeId
	sig string
}

func (in *Instantiator) subst(id types.TypeId, m *Map, depth int, visiting map[visitKey]bool) (types.TypeId, error) {
	if depth > in.maxDepth {
		return id, TooDeep{Depth: depth}
	}
	if m.Empty() {
		return id, nil
	}
	if types.IsIntrinsic(id) {
		return id, nil
	}

	key := visitKey{id: id, sig: m.signature()}
	if visiting[key] {
		// Self-referential generic mid-expansion: stop here rather than
		// looping forever; the evaluator's Lazy/Application path resumes
		// expansion lazily on demand.
		return id, nil
	}
	visiting[key] = true
	defer delete(visiting, key)

	store := in.store
	d := store.Underlying(id)
	switch t := d.(type) {
	case nil:
		return id, nil

	case types.TypeParameter:
		if arg, ok := m.lookup(t.Name); ok {
			return arg, nil
		}
		return id, nil

	case types.Array:
		elem, err := in.subst(t.Elem, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		if elem == t.Elem {
			return id, nil
		}
		return store.Array(elem), nil

	case types.Tuple:
		changed := false
		elems := make([]types.TupleElem, len(t.Elems))
		for i, e := range t.Elems {
			ty, err := in.subst(e.Type, m, depth+1, visiting)
			if err != nil {
				return id, err
			}
			if ty != e.Type {
				changed = true
			}
			elems[i] = types.TupleElem{Type: ty, Optional: e.Optional, Rest: e.Rest, Label: e.Label}
		}
		if !changed {
			return id, nil
		}
		return store.MakeTuple(elems), nil

	case types.Union:
		members, changed, err := in.substAll(t.Members, m, depth, visiting)
		if err != nil {
			return id, err
		}
		if !changed {
			return id, nil
		}
		return store.Union(members), nil

	case types.Intersection:
		members, changed, err := in.substAll(t.Members, m, depth, visiting)
		if err != nil {
			return id, err
		}
		if !changed {
			return id, nil
		}
		return store.Intersection(members), nil

	case types.Object:
		props, changedProps, err := in.substProps(t.Props, m, depth, visiting)
		if err != nil {
			return id, err
		}
		si, changedSI, err := in.substIndex(t.StringIndex, m, depth, visiting)
		if err != nil {
			return id, err
		}
		ni, changedNI, err := in.substIndex(t.NumberIndex, m, depth, visiting)
		if err != nil {
			return id, err
		}
		if !changedProps && !changedSI && !changedNI {
			return id, nil
		}
		if t.Fresh {
			return store.MakeFreshObject(props, si, ni), nil
		}
		return store.MakeObject(props, si, ni), nil

	case types.Function:
		sig, changed, err := in.substSignature(t.Sig, m, depth, visiting)
		if err != nil {
			return id, err
		}
		if !changed {
			return id, nil
		}
		return store.MakeFunction(sig), nil

	case types.Callable:
		callSigs, c1, err := in.substSignatures(t.CallSigs, m, depth, visiting)
		if err != nil {
			return id, err
		}
		constructSigs, c2, err := in.substSignatures(t.ConstructSigs, m, depth, visiting)
		if err != nil {
			return id, err
		}
		props, c3, err := in.substProps(t.Props, m, depth, visiting)
		if err != nil {
			return id, err
		}
		if !c1 && !c2 && !c3 {
			return id, nil
		}
		return store.MakeCallable(callSigs, constructSigs, props, t.StringIndex, t.NumberIndex), nil

	case types.Infer:
		// Once a conditional's `extends` clause has matched and bound X,
		// references to X in the true branch are represented by this same
		// canonical Infer TypeId (content-addressed, so "infer X" and a
		// later reference to X intern identically); substituting it here is
		// how evalConditionalOne threads the binding into TrueBranch.
		if arg, ok := m.lookup(t.Name); ok {
			return arg, nil
		}
		return id, nil

	case types.Application:
		base, err := in.subst(t.Base, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		args, changed, err := in.substAll(t.Args, m, depth, visiting)
		if err != nil {
			return id, err
		}
		if base == t.Base && !changed {
			return id, nil
		}
		return store.MakeApplication(base, args), nil

	case types.Conditional:
		return in.substConditional(id, t, m, depth, visiting)

	case types.Mapped:
		return in.substMapped(id, t, m, depth, visiting)

	case types.IndexAccess:
		obj, err := in.subst(t.Object, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		idx, err := in.subst(t.Index, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		if obj == t.Object && idx == t.Index {
			return id, nil
		}
		return store.MakeIndexAccess(obj, idx), nil

	case types.KeyOf:
		inner, err := in.subst(t.Inner, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		if inner == t.Inner {
			return id, nil
		}
		return store.MakeKeyOf(inner), nil

	case types.ReadonlyType:
		inner, err := in.subst(t.Inner, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		if inner == t.Inner {
			return id, nil
		}
		return store.MakeReadonly(inner), nil

	case types.NoInfer:
		// NoInfer suppresses capture into infer bindings upstream in
		// evaluate's distribution pass, not substitution itself: ordinary
		// parameter substitution still reaches inside (DESIGN.md "NoInfer
		// scope" decision).
		inner, err := in.subst(t.Inner, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		if inner == t.Inner {
			return id, nil
		}
		return store.MakeNoInfer(inner), nil

	case types.TemplateLiteral:
		changed := false
		spans := make([]types.TemplateSpan, len(t.Spans))
		for i, sp := range t.Spans {
			if sp.Type == types.NoType {
				spans[i] = sp
				continue
			}
			ty, err := in.subst(sp.Type, m, depth+1, visiting)
			if err != nil {
				return id, err
			}
			if ty != sp.Type {
				changed = true
			}
			spans[i] = types.TemplateSpan{Type: ty}
		}
		if !changed {
			return id, nil
		}
		return store.TemplateLiteral(spans), nil

	case types.StringIntrinsic:
		arg, err := in.subst(t.Arg, m, depth+1, visiting)
		if err != nil {
			return id, err
		}
		if arg == t.Arg {
			return id, nil
		}
		return store.MakeStringIntrinsic(t.Kind, arg), nil

	default:
		// Literals, Lazy, Enum, TypeQuery, UniqueSymbol, ThisType,
		// ModuleNamespace, Recursive, BoundParameter carry no type-parameter
		// reference of their own to substitute through.
		return id, nil
	}
}

func (in *Instantiator) substAll(ids []types.TypeId, m *Map, depth int, visiting map[visitKey]bool) ([]types.TypeId, bool, error) {
	changed := false
	out := make([]types.TypeId, len(ids))
	for i, id := range ids {
		ty, err := in.subst(id, m, depth+1, visiting)
		if err != nil {
			return nil, false, err
		}
		if ty != id {
			changed = true
		}
		out[i] = ty
	}
	return out, changed, nil
}

func (in *Instantiator) substProps(props []types.Property, m *Map, depth int, visiting map[visitKey]bool) ([]types.Property, bool, error) {
	changed := false
	out := make([]types.Property, len(props))
	for i, p := range props {
		ty, err := in.subst(p.Type, m, depth+1, visiting)
		if err != nil {
			return nil, false, err
		}
		if ty != p.Type {
			changed = true
		}
		out[i] = types.Property{Name: p.Name, Type: ty, Optional: p.Optional, Readonly: p.Readonly}
	}
	return out, changed, nil
}

func (in *Instantiator) substIndex(idx *types.IndexInfo, m *Map, depth int, visiting map[visitKey]bool) (*types.IndexInfo, bool, error) {
	if idx == nil {
		return nil, false, nil
	}
	ty, err := in.subst(idx.ValueType, m, depth+1, visiting)
	if err != nil {
		return nil, false, err
	}
	if ty == idx.ValueType {
		return idx, false, nil
	}
	return &types.IndexInfo{ValueType: ty, Readonly: idx.Readonly}, true, nil
}

// substSignature substitutes a signature's parameter and return types. Its
// own TypeParams shadow the outer substitution for their names (capture
// avoidance, spec §4.3): `function f<T>(x: T): T` instantiated under an
// outer `T -> number` must not touch f's own `T`.
func (in *Instantiator) substSignature(sig types.Signature, m *Map, depth int, visiting map[visitKey]bool) (types.Signature, bool, error) {
	local := m
	for _, tp := range sig.TypeParams {
		if tpData, ok := in.store.Underlying(tp).(types.TypeParameter); ok {
			local = local.without(tpData.Name)
		}
	}
	changed := false
	params := make([]types.Param, len(sig.Params))
	for i, p := range sig.Params {
		ty, err := in.subst(p.Type, local, depth+1, visiting)
		if err != nil {
			return sig, false, err
		}
		if ty != p.Type {
			changed = true
		}
		params[i] = types.Param{Name: p.Name, Type: ty, Optional: p.Optional, Rest: p.Rest}
	}
	ret, err := in.subst(sig.Return, local, depth+1, visiting)
	if err != nil {
		return sig, false, err
	}
	if ret != sig.Return {
		changed = true
	}
	thisTy := sig.ThisType
	if sig.ThisType != types.NoType {
		t, err := in.subst(sig.ThisType, local, depth+1, visiting)
		if err != nil {
			return sig, false, err
		}
		if t != sig.ThisType {
			changed = true
		}
		thisTy = t
	}
	if !changed {
		return sig, false, nil
	}
	return types.Signature{TypeParams: sig.TypeParams, Params: params, ThisType: thisTy, Return: ret}, true, nil
}

func (in *Instantiator) substSignatures(sigs []types.Signature, m *Map, depth int, visiting map[visitKey]bool) ([]types.Signature, bool, error) {
	changed := false
	out := make([]types.Signature, len(sigs))
	for i, sig := range sigs {
		s, c, err := in.substSignature(sig, m, depth, visiting)
		if err != nil {
			return nil, false, err
		}
		if c {
			changed = true
		}
		out[i] = s
	}
	return out, changed, nil
}

// substConditional substitutes a conditional type's four parts. Its own
// infer bindings (found inside Extends) shadow the outer substitution for
// their names within TrueBranch, same capture-avoidance rule as generic
// function type parameters.
func (in *Instantiator) substConditional(id types.TypeId, t types.Conditional, m *Map, depth int, visiting map[visitKey]bool) (types.TypeId, error) {
	store := in.store
	local := m.without(inferNamesKey(store, t.Extends))
	check, err := in.subst(t.Check, m, depth+1, visiting)
	if err != nil {
		return id, err
	}
	extends, err := in.subst(t.Extends, m, depth+1, visiting)
	if err != nil {
		return id, err
	}
	trueBranch, err := in.subst(t.TrueBranch, local, depth+1, visiting)
	if err != nil {
		return id, err
	}
	falseBranch, err := in.subst(t.FalseBranch, m, depth+1, visiting)
	if err != nil {
		return id, err
	}
	if check == t.Check && extends == t.Extends && trueBranch == t.TrueBranch && falseBranch == t.FalseBranch {
		return id, nil
	}
	return store.MakeConditional(check, extends, trueBranch, falseBranch, t.Distributive), nil
}

// inferNamesKey returns the name of the (single, common-case) infer binding
// within extends, if any, so substConditional can shadow it. Multiple infer
// bindings in one Extends clause are each independently shadowed by the
// evaluator's own infer-collection pass (spec §4.4); this is just the
// substitution-time capture guard for the simple case.
func inferNamesKey(store *types.Store, extends types.TypeId) string {
	if inf, ok := store.Underlying(extends).(types.Infer); ok {
		return inf.Name
	}
	return ""
}

// substMapped substitutes a mapped type's constraint/name/template. Param
// shadows the outer substitution within NameType and Template, same as a
// generic function's own type parameter.
func (in *Instantiator) substMapped(id types.TypeId, t types.Mapped, m *Map, depth int, visiting map[visitKey]bool) (types.TypeId, error) {
	store := in.store
	local := m.without(t.Param)
	constraint, err := in.subst(t.Constraint, m, depth+1, visiting)
	if err != nil {
		return id, err
	}
	nameType := t.NameType
	if t.NameType != types.NoType {
		nameType, err = in.subst(t.NameType, local, depth+1, visiting)
		if err != nil {
			return id, err
		}
	}
	template, err := in.subst(t.Template, local, depth+1, visiting)
	if err != nil {
		return id, err
	}
	if constraint == t.Constraint && nameType == t.NameType && template == t.Template {
		return id, nil
	}
	return store.MakeMapped(t.Param, constraint, nameType, template, t.ReadonlyMod, t.OptionalMod), nil
}

// signature renders a stable string for the substitution's live bindings,
// used as part of the cycle-guard visiting key: the same TypeId visited
// twice under different pending substitutions is not a cycle.
func (m *Map) signature() string {
	if m.Empty() {
		return ""
	}
	// Map iteration order is random in Go; sort to keep the signature
	// deterministic across calls for the same logical substitution.
	keys := make([]string, 0, len(m.proj))
	for k := range m.proj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	s := ""
	for _, k := range keys {
		s += k + "=" + m.proj[k].String() + ";"
	}
	return s
}
