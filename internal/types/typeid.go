// Package types implements the content-addressed type store (spec §3.2,
// §3.3, §4.1): TypeIds for the built-in intrinsics plus hash-consed
// structural types (unions, intersections, objects, functions, tuples,
// conditionals, mapped, template-literal, index-access, keyof, generic
// applications). Grounded on the teacher's internal/types package, which
// solves the same interning problem for a different (HM / row-polymorphic)
// type system: TCon/TFunc/TTuple/TRecord there become intrinsic ids and
// TypeData variants here, and unification.go's per-variant switch becomes
// the subtype engine in internal/subtype.
package types

import "fmt"

// TypeId is a handle into a Store. The low range is reserved for
// compile-time intrinsics (spec §3.2); all other ids index into the
// store's content-addressed table.
type TypeId uint32

// Intrinsic ids, fixed across every Store instance.
const (
	Never TypeId = iota
	Any
	Unknown
	Void
	Undefined
	Null
	Boolean
	Number
	String
	BigInt
	Symbol
	ObjectIntrinsic
	FunctionIntrinsic
	True
	False
	ErrorType // the distinguished `error` sentinel (spec §3.2, §7)
)

// firstUserType is the first id handed out for interned structural types.
const firstUserType TypeId = 100

// NoType is the "absent" sentinel for optional TypeId-valued fields
// (a type parameter with no constraint, a mapped type with no `as` clause,
// …). It is never a valid type produced by a Store.
const NoType TypeId = ^TypeId(0)

var intrinsicNames = map[TypeId]string{
	Never:             "never",
	Any:               "any",
	Unknown:           "unknown",
	Void:              "void",
	Undefined:         "undefined",
	Null:              "null",
	Boolean:           "boolean",
	Number:            "number",
	String:            "string",
	BigInt:            "bigint",
	Symbol:            "symbol",
	ObjectIntrinsic:   "object",
	FunctionIntrinsic: "function",
	True:              "true",
	False:             "false",
	ErrorType:         "error",
}

// IsIntrinsic reports whether id names one of the fixed low-range types.
func IsIntrinsic(id TypeId) bool { return id < firstUserType }

func (id TypeId) String() string {
	if name, ok := intrinsicNames[id]; ok {
		return name
	}
	return fmt.Sprintf("t%d", id)
}
