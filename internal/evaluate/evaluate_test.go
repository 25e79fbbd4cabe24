package evaluate

import (
	"testing"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/instantiate"
	"github.com/tscorelang/tscheck/internal/types"
)

// fakeExtends is a minimal stand-in for internal/subtype: string/number
// literal check types are "extends" extends iff they equal it, everything
// else "extends" unknown/any, and an infer binding in extends always
// captures the whole check type (enough to exercise conditional evaluation
// without importing the real subtype engine and creating an import cycle).
type fakeExtends struct {
	store *types.Store
}

func (f fakeExtends) ExtendsWithInfer(check, extends types.TypeId, noInfer map[string]bool) (bool, map[string]types.TypeId) {
	bindings := map[string]types.TypeId{}
	if !f.match(check, extends, noInfer, bindings) {
		return false, nil
	}
	return true, bindings
}

func (f fakeExtends) match(check, extends types.TypeId, noInfer map[string]bool, bindings map[string]types.TypeId) bool {
	if inf, ok := f.store.Underlying(extends).(types.Infer); ok {
		if !noInfer[inf.Name] {
			bindings[inf.Name] = check
		}
		return true
	}
	if extends == types.Unknown || extends == types.Any {
		return true
	}
	if arrC, ok := f.store.Underlying(check).(types.Array); ok {
		if arrE, ok := f.store.Underlying(extends).(types.Array); ok {
			return f.match(arrC.Elem, arrE.Elem, noInfer, bindings)
		}
		return false
	}
	return check == extends
}

func newEval(t *testing.T) (*types.Store, *Evaluator) {
	t.Helper()
	store := types.NewStore(atom.NewTable())
	inst := instantiate.New(store, 0)
	ev := New(store, inst, nil, fakeExtends{store: store}, 0, 0)
	return store, ev
}

func TestConditionalTrueBranch(t *testing.T) {
	store, ev := newEval(t)
	cond := store.MakeConditional(types.String, types.String, types.Number, types.Null, false)
	got, err := ev.Eval(cond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != types.Number {
		t.Fatalf("string extends string ? number : null = %s, want number", store.Print(got))
	}
}

func TestConditionalFalseBranch(t *testing.T) {
	store, ev := newEval(t)
	cond := store.MakeConditional(types.String, types.Number, types.Number, types.Null, false)
	got, err := ev.Eval(cond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != types.Null {
		t.Fatalf("string extends number ? number : null = %s, want null", store.Print(got))
	}
}

func TestConditionalDistributesOverUnion(t *testing.T) {
	store, ev := newEval(t)
	union := store.Union([]types.TypeId{types.String, types.Number})
	cond := store.MakeConditional(union, types.String, types.True, types.False, true)
	got, err := ev.Eval(cond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := store.Union([]types.TypeId{types.True, types.False})
	if got != want {
		t.Fatalf("distributed conditional = %s, want %s", store.Print(got), store.Print(want))
	}
}

func TestConditionalOverNeverVanishes(t *testing.T) {
	store, ev := newEval(t)
	cond := store.MakeConditional(types.Never, types.String, types.True, types.False, true)
	got, err := ev.Eval(cond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != types.Never {
		t.Fatalf("distributive conditional over never = %s, want never", store.Print(got))
	}
}

func TestConditionalNakedCheckDefers(t *testing.T) {
	store, ev := newEval(t)
	tp := store.MakeTypeParameter("T", types.NoType, types.NoType)
	cond := store.MakeConditional(tp, types.String, types.Number, types.Null, false)
	_, err := ev.Eval(cond)
	if err != ErrDeferred {
		t.Fatalf("expected ErrDeferred for naked check type, got %v", err)
	}
}

func TestConditionalInferBindsTrueBranch(t *testing.T) {
	store, ev := newEval(t)
	infer := store.MakeInfer("E")
	arr := store.Array(types.Number)
	cond := store.MakeConditional(arr, store.Array(infer), infer, types.Never, false)
	got, err := ev.Eval(cond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != types.Number {
		t.Fatalf("infer E from number[] extends E[] ? E : never = %s, want number", store.Print(got))
	}
}

func TestMappedTypeOverLiteralUnionKeys(t *testing.T) {
	store, ev := newEval(t)
	atoms := store.Atoms()
	keys := store.Union([]types.TypeId{store.LiteralString("a"), store.LiteralString("b")})
	tp := store.MakeTypeParameter("K", types.NoType, types.NoType)
	mapped := store.MakeMapped("K", keys, types.NoType, tp, types.ModifierNone, types.ModifierNone)

	got, err := ev.Eval(mapped)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obj, ok := store.Underlying(got).(types.Object)
	if !ok {
		t.Fatalf("expected an object shape, got %s", store.Print(got))
	}
	if len(obj.Props) != 2 {
		t.Fatalf("expected 2 props, got %d", len(obj.Props))
	}
	names := map[string]bool{}
	for _, p := range obj.Props {
		names[atoms.Lookup(p.Name)] = true
	}
	if !names["a"] || !names["b"] {
		t.Fatalf("expected props a and b, got %v", names)
	}
}

func TestIndexAccessIntoObject(t *testing.T) {
	store, ev := newEval(t)
	atoms := store.Atoms()
	obj := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
		{Name: atoms.Intern("b"), Type: types.Number},
	}, nil, nil)
	idx := store.MakeIndexAccess(obj, store.LiteralString("a"))
	got, err := ev.Eval(idx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != types.String {
		t.Fatalf("obj['a'] = %s, want string", store.Print(got))
	}
}

func TestKeyOfObject(t *testing.T) {
	store, ev := newEval(t)
	atoms := store.Atoms()
	obj := store.Shape([]types.Property{
		{Name: atoms.Intern("a"), Type: types.String},
		{Name: atoms.Intern("b"), Type: types.Number},
	}, nil, nil)
	got, err := ev.Eval(store.MakeKeyOf(obj))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := store.Union([]types.TypeId{store.LiteralString("a"), store.LiteralString("b")})
	if got != want {
		t.Fatalf("keyof = %s, want %s", store.Print(got), store.Print(want))
	}
}

func TestStringIntrinsicUppercase(t *testing.T) {
	store, ev := newEval(t)
	si := store.MakeStringIntrinsic(types.Uppercase, store.LiteralString("hello"))
	got, err := ev.Eval(si)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := store.LiteralString("HELLO")
	if got != want {
		t.Fatalf("Uppercase<'hello'> = %s, want %s", store.Print(got), store.Print(want))
	}
}

func TestStringIntrinsicCapitalizeDistributesOverUnion(t *testing.T) {
	store, ev := newEval(t)
	arg := store.Union([]types.TypeId{store.LiteralString("cat"), store.LiteralString("dog")})
	si := store.MakeStringIntrinsic(types.Capitalize, arg)
	got, err := ev.Eval(si)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := store.Union([]types.TypeId{store.LiteralString("Cat"), store.LiteralString("Dog")})
	if got != want {
		t.Fatalf("Capitalize<'cat'|'dog'> = %s, want %s", store.Print(got), store.Print(want))
	}
}

type fakeResolver struct {
	params []string
	body   types.TypeId
}

func (f fakeResolver) ResolveLazy(defID uint32) ([]string, types.TypeId, bool) {
	return f.params, f.body, true
}

func TestGenericApplicationExpands(t *testing.T) {
	store := types.NewStore(atom.NewTable())
	inst := instantiate.New(store, 0)
	tp := store.MakeTypeParameter("T", types.NoType, types.NoType)
	body := store.Array(tp)
	resolver := fakeResolver{params: []string{"T"}, body: body}
	ev := New(store, inst, resolver, fakeExtends{store: store}, 0, 0)

	lazy := store.MakeLazy(1)
	app := store.MakeApplication(lazy, []types.TypeId{types.String})
	got, err := ev.Eval(app)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := store.Array(types.String)
	if got != want {
		t.Fatalf("Box<string> = %s, want %s", store.Print(got), store.Print(want))
	}
}
