package types

import "github.com/tscorelang/tscheck/internal/atom"

// Data is the tagged-variant payload of a non-intrinsic TypeId (spec §3.3).
// Concrete types below implement it as markers; Store.Underlying(id)
// returns the Data for a given id and callers type-switch on it, the same
// shape as the teacher's Type interface with per-kind structs (TVar, TCon,
// TFunc, …) but keyed by content hash instead of pointer identity.
type Data interface {
	isTypeData()
}

// Modifier is add/remove/none for a mapped type's readonly/optional flags.
type Modifier uint8

const (
	ModifierNone Modifier = iota
	ModifierAdd
	ModifierRemove
)

type LiteralString struct{ Value string }
type LiteralNumber struct{ Value float64 }
type LiteralBoolean struct{ Value bool }
type LiteralBigInt struct{ Value string }

type Array struct{ Elem TypeId }

type TupleElem struct {
	Type     TypeId
	Optional bool
	Rest     bool
	Label    string
}

type Tuple struct{ Elems []TupleElem }

// Union and Intersection members are kept sorted by TypeId and deduped at
// construction time (spec §3.3.1).
type Union struct{ Members []TypeId }
type Intersection struct{ Members []TypeId }

type Property struct {
	Name     atom.Atom
	Type     TypeId
	Optional bool
	Readonly bool
}

type IndexInfo struct {
	ValueType TypeId
	Readonly  bool
}

// Object holds a shape: a sorted-by-name property list plus optional
// string/number index signatures (spec §3.3 "a shape holds a sorted-by-name
// property list").
type Object struct {
	Props       []Property
	StringIndex *IndexInfo
	NumberIndex *IndexInfo

	// Fresh marks an object literal at the point it was written, before it
	// widens on assignment to a non-fresh binding. Only fresh objects are
	// subject to excess-property checking (spec §4.6, DESIGN.md "Excess-
	// property-check freshness").
	Fresh bool
}

type Param struct {
	Name     string
	Type     TypeId
	Optional bool
	Rest     bool
}

type Signature struct {
	TypeParams []TypeId // TypeParameter ids
	Params     []Param
	ThisType   TypeId // NoType if absent
	Return     TypeId
}

// Function is a single call signature (spec §3.3 "a single call signature").
type Function struct{ Sig Signature }

// Callable holds multiple call/construct signatures plus properties and
// index signatures, used for interfaces like `FooConstructor`.
type Callable struct {
	CallSigs      []Signature
	ConstructSigs []Signature
	Props         []Property
	StringIndex   *IndexInfo
	NumberIndex   *IndexInfo
}

type TypeParameter struct {
	Name       string
	Constraint TypeId // NoType if none
	Default    TypeId // NoType if none
}

type Infer struct {
	Name string
}

// Application is an uninstantiated reference to a generic Base applied to
// Args; evaluated lazily by internal/evaluate.
type Application struct {
	Base TypeId
	Args []TypeId
}

// Lazy is an opaque handle to a user-defined type whose body lives outside
// the store; resolved via a TypeResolver (spec §3.3, §4.4).
type Lazy struct{ DefID uint32 }

type Conditional struct {
	Check        TypeId
	Extends      TypeId
	TrueBranch   TypeId
	FalseBranch  TypeId
	Distributive bool
}

type Mapped struct {
	Param       string
	Constraint  TypeId
	NameType    TypeId // NoType if no `as` clause
	Template    TypeId
	ReadonlyMod Modifier
	OptionalMod Modifier
}

type IndexAccess struct{ Object, Index TypeId }
type KeyOf struct{ Inner TypeId }
type ReadonlyType struct{ Inner TypeId }
type NoInfer struct{ Inner TypeId }

// TemplateSpan alternates Text-only spans (Type == NoType) and Type spans.
type TemplateSpan struct {
	Text string
	Type TypeId
}

type TemplateLiteral struct{ Spans []TemplateSpan }

// StringIntrinsicKind enumerates the four built-in string transforms.
type StringIntrinsicKind uint8

const (
	Uppercase StringIntrinsicKind = iota
	Lowercase
	Capitalize
	Uncapitalize
)

type StringIntrinsic struct {
	Kind StringIntrinsicKind
	Arg  TypeId
}

type Enum struct {
	DefID       uint32
	MemberUnion TypeId
}

type TypeQuery struct{ SymbolRef string }
type UniqueSymbol struct{ SymbolRef string }
type ThisType struct{}
type ModuleNamespace struct{ SymbolRef string }
type Recursive struct{ Index int }
type BoundParameter struct{ Index int }

func (LiteralString) isTypeData()    {}
func (LiteralNumber) isTypeData()    {}
func (LiteralBoolean) isTypeData()   {}
func (LiteralBigInt) isTypeData()    {}
func (Array) isTypeData()            {}
func (Tuple) isTypeData()            {}
func (Union) isTypeData()            {}
func (Intersection) isTypeData()     {}
func (Object) isTypeData()           {}
func (Function) isTypeData()         {}
func (Callable) isTypeData()         {}
func (TypeParameter) isTypeData()    {}
func (Infer) isTypeData()            {}
func (Application) isTypeData()      {}
func (Lazy) isTypeData()             {}
func (Conditional) isTypeData()      {}
func (Mapped) isTypeData()           {}
func (IndexAccess) isTypeData()      {}
func (KeyOf) isTypeData()            {}
func (ReadonlyType) isTypeData()     {}
func (NoInfer) isTypeData()          {}
func (TemplateLiteral) isTypeData()  {}
func (StringIntrinsic) isTypeData()  {}
func (Enum) isTypeData()             {}
func (TypeQuery) isTypeData()        {}
func (UniqueSymbol) isTypeData()     {}
func (ThisType) isTypeData()         {}
func (ModuleNamespace) isTypeData()  {}
func (Recursive) isTypeData()        {}
func (BoundParameter) isTypeData()   {}
