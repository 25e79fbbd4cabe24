package types

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/tscorelang/tscheck/internal/atom"
)

// Store is the content-addressed type interner (spec §4.1). It is
// append-only and safe for concurrent use: two concurrent inserts of the
// same Data converge to the same TypeId via the mutex-guarded
// compare-and-insert in intern (spec §5 "Shared resources").
type Store struct {
	mu      sync.Mutex
	atoms   *atom.Table
	data    []Data // data[i] is the Data for TypeId(firstUserType)+i
	byKey   map[string]TypeId
	shapeMu sync.Mutex // guards nothing extra today; kept separate per §5 locking discipline
}

// NewStore creates an empty type store backed by the given atom table
// (shared with the binder so property names and type data agree on atoms).
func NewStore(atoms *atom.Table) *Store {
	return &Store{
		atoms: atoms,
		byKey: make(map[string]TypeId),
	}
}

// Atoms returns the interner's shared atom table.
func (s *Store) Atoms() *atom.Table { return s.atoms }

// Underlying returns the Data for a non-intrinsic id, or nil for an
// intrinsic or out-of-range id.
func (s *Store) Underlying(id TypeId) Data {
	if id < firstUserType {
		return nil
	}
	idx := int(id - firstUserType)
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx < 0 || idx >= len(s.data) {
		return nil
	}
	return s.data[idx]
}

// intern is the single compare-and-insert path: given a canonical key and
// the Data it denotes, return the existing TypeId for that key or allocate
// a fresh one. Canonicality (spec §8 "intern(t) == intern(t)") follows
// directly from keying on content rather than identity.
func (s *Store) intern(key string, d Data) TypeId {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byKey[key]; ok {
		return id
	}
	s.data = append(s.data, d)
	id := firstUserType + TypeId(len(s.data)-1)
	s.byKey[key] = id
	return id
}

// --- Literal constructors -------------------------------------------------

func (s *Store) LiteralString(v string) TypeId {
	return s.intern("lits:"+v, LiteralString{Value: v})
}

func (s *Store) LiteralNumber(v float64) TypeId {
	return s.intern(fmt.Sprintf("litn:%v", v), LiteralNumber{Value: v})
}

func (s *Store) LiteralBoolean(v bool) TypeId {
	if v {
		return True
	}
	return False
}

func (s *Store) LiteralBigInt(digits string) TypeId {
	return s.intern("litbi:"+digits, LiteralBigInt{Value: digits})
}

// --- Structural constructors ---------------------------------------------

func (s *Store) Array(elem TypeId) TypeId {
	return s.intern(fmt.Sprintf("arr:%d", elem), Array{Elem: elem})
}

func (s *Store) MakeTuple(elems []TupleElem) TypeId {
	var b strings.Builder
	b.WriteString("tup:")
	for _, e := range elems {
		fmt.Fprintf(&b, "%d,%v,%v,%s;", e.Type, e.Optional, e.Rest, e.Label)
	}
	cp := append([]TupleElem(nil), elems...)
	return s.intern(b.String(), Tuple{Elems: cp})
}

// MakeObject interns an object shape. Props must already be sorted and
// deduped by name (Store.Shape does that for callers that don't manage it
// themselves) — this constructor trusts its input, matching the spec's
// "Object shapes are interned by (sorted properties, index signatures,
// flags)" (§3.3.1): the sort key is the caller's responsibility so two
// calls that pass the same logical shape in different orders still must
// agree, which Shape() guarantees.
func (s *Store) MakeObject(props []Property, stringIdx, numberIdx *IndexInfo) TypeId {
	return s.makeObject(props, stringIdx, numberIdx, false)
}

// MakeFreshObject is MakeObject for an object literal at the point it's
// written, before assignment widens it (spec §4.6).
func (s *Store) MakeFreshObject(props []Property, stringIdx, numberIdx *IndexInfo) TypeId {
	return s.makeObject(props, stringIdx, numberIdx, true)
}

func (s *Store) makeObject(props []Property, stringIdx, numberIdx *IndexInfo, fresh bool) TypeId {
	var b strings.Builder
	b.WriteString("obj:")
	for _, p := range props {
		fmt.Fprintf(&b, "%d:%d,%v,%v;", p.Name, p.Type, p.Optional, p.Readonly)
	}
	if stringIdx != nil {
		fmt.Fprintf(&b, "si:%d,%v;", stringIdx.ValueType, stringIdx.Readonly)
	}
	if numberIdx != nil {
		fmt.Fprintf(&b, "ni:%d,%v;", numberIdx.ValueType, numberIdx.Readonly)
	}
	if fresh {
		b.WriteString("fresh;")
	}
	cp := append([]Property(nil), props...)
	return s.intern(b.String(), Object{Props: cp, StringIndex: stringIdx, NumberIndex: numberIdx, Fresh: fresh})
}

// Widen returns the non-fresh form of a (possibly fresh) object type,
// modeling assignment widening (spec §4.6); non-Object ids pass through
// unchanged.
func (s *Store) Widen(id TypeId) TypeId {
	obj, ok := s.Underlying(id).(Object)
	if !ok || !obj.Fresh {
		return id
	}
	return s.MakeObject(obj.Props, obj.StringIndex, obj.NumberIndex)
}

// Shape sorts props by atom name before interning, matching "a shape holds
// a sorted-by-name property list" (spec §3.3).
func (s *Store) Shape(props []Property, stringIdx, numberIdx *IndexInfo) TypeId {
	return s.shape(props, stringIdx, numberIdx, false)
}

// FreshShape is Shape for a freshly-written object literal (spec §4.6).
func (s *Store) FreshShape(props []Property, stringIdx, numberIdx *IndexInfo) TypeId {
	return s.shape(props, stringIdx, numberIdx, true)
}

func (s *Store) shape(props []Property, stringIdx, numberIdx *IndexInfo, fresh bool) TypeId {
	sorted := append([]Property(nil), props...)
	sort.Slice(sorted, func(i, j int) bool {
		return s.atoms.Lookup(sorted[i].Name) < s.atoms.Lookup(sorted[j].Name)
	})
	return s.makeObject(sorted, stringIdx, numberIdx, fresh)
}

func sigKey(sig Signature) string {
	var b strings.Builder
	for _, tp := range sig.TypeParams {
		fmt.Fprintf(&b, "%d,", tp)
	}
	b.WriteString("|")
	for _, p := range sig.Params {
		fmt.Fprintf(&b, "%s:%d,%v,%v;", p.Name, p.Type, p.Optional, p.Rest)
	}
	fmt.Fprintf(&b, "|this:%d|ret:%d", sig.ThisType, sig.Return)
	return b.String()
}

func (s *Store) MakeFunction(sig Signature) TypeId {
	return s.intern("fn:"+sigKey(sig), Function{Sig: sig})
}

func (s *Store) MakeCallable(callSigs, constructSigs []Signature, props []Property, stringIdx, numberIdx *IndexInfo) TypeId {
	var b strings.Builder
	b.WriteString("callable:")
	for _, sig := range callSigs {
		b.WriteString("C[" + sigKey(sig) + "]")
	}
	for _, sig := range constructSigs {
		b.WriteString("N[" + sigKey(sig) + "]")
	}
	for _, p := range props {
		fmt.Fprintf(&b, "P%d:%d,%v,%v;", p.Name, p.Type, p.Optional, p.Readonly)
	}
	return s.intern(b.String(), Callable{
		CallSigs: append([]Signature(nil), callSigs...), ConstructSigs: append([]Signature(nil), constructSigs...),
		Props: append([]Property(nil), props...), StringIndex: stringIdx, NumberIndex: numberIdx,
	})
}

func (s *Store) MakeTypeParameter(name string, constraint, def TypeId) TypeId {
	return s.intern(fmt.Sprintf("tp:%s,%d,%d", name, constraint, def), TypeParameter{Name: name, Constraint: constraint, Default: def})
}

func (s *Store) MakeInfer(name string) TypeId {
	return s.intern("infer:"+name, Infer{Name: name})
}

func (s *Store) MakeApplication(base TypeId, args []TypeId) TypeId {
	var b strings.Builder
	fmt.Fprintf(&b, "app:%d|", base)
	for _, a := range args {
		fmt.Fprintf(&b, "%d,", a)
	}
	return s.intern(b.String(), Application{Base: base, Args: append([]TypeId(nil), args...)})
}

func (s *Store) MakeLazy(defID uint32) TypeId {
	return s.intern(fmt.Sprintf("lazy:%d", defID), Lazy{DefID: defID})
}

func (s *Store) MakeConditional(check, extends, trueBranch, falseBranch TypeId, distributive bool) TypeId {
	key := fmt.Sprintf("cond:%d,%d,%d,%d,%v", check, extends, trueBranch, falseBranch, distributive)
	return s.intern(key, Conditional{Check: check, Extends: extends, TrueBranch: trueBranch, FalseBranch: falseBranch, Distributive: distributive})
}

func (s *Store) MakeMapped(param string, constraint, nameType, template TypeId, readonlyMod, optionalMod Modifier) TypeId {
	key := fmt.Sprintf("map:%s,%d,%d,%d,%d,%d", param, constraint, nameType, template, readonlyMod, optionalMod)
	return s.intern(key, Mapped{Param: param, Constraint: constraint, NameType: nameType, Template: template, ReadonlyMod: readonlyMod, OptionalMod: optionalMod})
}

func (s *Store) MakeIndexAccess(object, index TypeId) TypeId {
	return s.intern(fmt.Sprintf("idx:%d,%d", object, index), IndexAccess{Object: object, Index: index})
}

func (s *Store) MakeKeyOf(inner TypeId) TypeId {
	return s.intern(fmt.Sprintf("keyof:%d", inner), KeyOf{Inner: inner})
}

func (s *Store) MakeReadonly(inner TypeId) TypeId {
	return s.intern(fmt.Sprintf("readonly:%d", inner), ReadonlyType{Inner: inner})
}

func (s *Store) MakeNoInfer(inner TypeId) TypeId {
	return s.intern(fmt.Sprintf("noinfer:%d", inner), NoInfer{Inner: inner})
}

func (s *Store) MakeStringIntrinsic(kind StringIntrinsicKind, arg TypeId) TypeId {
	return s.intern(fmt.Sprintf("strint:%d,%d", kind, arg), StringIntrinsic{Kind: kind, Arg: arg})
}

func (s *Store) MakeEnum(defID uint32, memberUnion TypeId) TypeId {
	return s.intern(fmt.Sprintf("enum:%d,%d", defID, memberUnion), Enum{DefID: defID, MemberUnion: memberUnion})
}

func (s *Store) MakeTypeQuery(ref string) TypeId {
	return s.intern("typeof:"+ref, TypeQuery{SymbolRef: ref})
}

func (s *Store) MakeUniqueSymbol(ref string) TypeId {
	return s.intern("uniquesym:"+ref, UniqueSymbol{SymbolRef: ref})
}

func (s *Store) MakeThisType() TypeId {
	return s.intern("this", ThisType{})
}

func (s *Store) MakeModuleNamespace(ref string) TypeId {
	return s.intern("modns:"+ref, ModuleNamespace{SymbolRef: ref})
}

func (s *Store) MakeRecursive(index int) TypeId {
	return s.intern(fmt.Sprintf("rec:%d", index), Recursive{Index: index})
}

func (s *Store) MakeBoundParameter(index int) TypeId {
	return s.intern(fmt.Sprintf("bound:%d", index), BoundParameter{Index: index})
}
