// Package narrow implements flow narrowing (spec §4.7): evaluating a
// type-guard condition against a candidate reference and a branch
// (true/false) to produce the refined type that reference holds along
// that branch. Grounded on the teacher's internal/elaborate exhaustiveness
// pass, which performs a structurally similar job (walking a `match`
// scrutinee's pattern tree to refine which constructors remain live on
// each arm) generalized here from pattern arms to the handful of
// JavaScript guard shapes spec §4.7 lists.
package narrow

import (
	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/types"
)

// Resolver supplies the one piece of narrowing that needs symbol/type
// lookup beyond pure type-algebra: resolving an `instanceof` right-hand
// identifier to the instance type its constructor produces.
type Resolver interface {
	InstanceType(name string) (types.TypeId, bool)
}

// Narrower evaluates guard conditions against one Store.
type Narrower struct {
	store    *types.Store
	resolver Resolver
}

// New builds a Narrower. resolver may be nil; instanceof guards then leave
// the type unnarrowed.
func New(store *types.Store, resolver Resolver) *Narrower {
	return &Narrower{store: store, resolver: resolver}
}

// RefPath renders an identifier or dotted property-access chain
// (`a`, `a.b.c`) as the flat string Narrow matches guard subjects against.
// Returns ok=false for any other expression shape (calls, indexing, …),
// which narrowing simply doesn't apply to.
func RefPath(arena *cnode.Arena, node cnode.NodeIndex) (string, bool) {
	switch arena.Kind(node) {
	case cnode.KindIdentifier:
		return arena.GetIdentifier(node).Text, true
	case cnode.KindPropertyAccess:
		pa := arena.GetPropertyAccess(node)
		base, ok := RefPath(arena, pa.Object)
		if !ok {
			return "", false
		}
		return base + "." + pa.Name, true
	default:
		return "", false
	}
}

func matchesRef(arena *cnode.Arena, node cnode.NodeIndex, ref string) bool {
	path, ok := RefPath(arena, node)
	return ok && path == ref
}

// Narrow returns the type ref has along branch, given the guard condition
// cond and its unrefined (declared or previously-narrowed) type.
// Conditions that don't mention ref, or whose shape isn't one of spec
// §4.7's supported guards, return declared unchanged.
func (n *Narrower) Narrow(arena *cnode.Arena, cond cnode.NodeIndex, ref string, declared types.TypeId, branch bool) types.TypeId {
	switch arena.Kind(cond) {
	case cnode.KindParenExpr:
		return declared // transparent; callers should unwrap, kept defensive

	case cnode.KindUnaryExpr:
		u := arena.GetUnaryExpr(cond)
		if u.Op == "!" {
			return n.Narrow(arena, u.Operand, ref, declared, !branch)
		}
		return declared

	case cnode.KindIdentifier, cnode.KindPropertyAccess:
		if matchesRef(arena, cond, ref) {
			return n.narrowTruthiness(declared, branch)
		}
		return declared

	case cnode.KindBinaryExpr:
		b := arena.GetBinaryExpr(cond)
		switch b.Op {
		case "&&", "||":
			return n.narrowLogical(arena, b.Op, b.Left, b.Right, ref, declared, branch)
		case "===", "!==", "==", "!=":
			return n.narrowEquality(arena, b, ref, declared, branch)
		case "instanceof":
			return n.narrowInstanceof(arena, b, ref, declared, branch)
		case "in":
			return n.narrowIn(arena, b, ref, declared, branch)
		default:
			return declared
		}

	case cnode.KindTypeOfExpr:
		// A bare `typeof x` in condition position narrows on its truthiness
		// (the resulting string is always truthy unless x itself fails to
		// evaluate, which isn't modeled here); not one of spec's named
		// guards, so left unrefined.
		return declared

	default:
		return declared
	}
}

// --- Truthiness ------------------------------------------------------------

func isExactFalsy(store *types.Store, id types.TypeId) bool {
	switch id {
	case types.Null, types.Undefined, types.False:
		return true
	}
	switch d := store.Underlying(id).(type) {
	case types.LiteralString:
		return d.Value == ""
	case types.LiteralNumber:
		return d.Value == 0
	}
	return false
}

func (n *Narrower) narrowTruthiness(declared types.TypeId, branch bool) types.TypeId {
	if branch {
		return filterUnion(n.store, declared, func(m types.TypeId) bool { return !isExactFalsy(n.store, m) })
	}
	return filterUnion(n.store, declared, func(m types.TypeId) bool { return isExactFalsy(n.store, m) })
}

// --- typeof ------------------------------------------------------------

func typeofTag(store *types.Store, id types.TypeId) string {
	switch id {
	case types.String:
		return "string"
	case types.Number:
		return "number"
	case types.Boolean, types.True, types.False:
		return "boolean"
	case types.BigInt:
		return "bigint"
	case types.Symbol:
		return "symbol"
	case types.Undefined, types.Void:
		return "undefined"
	case types.FunctionIntrinsic:
		return "function"
	}
	switch store.Underlying(id).(type) {
	case types.LiteralString:
		return "string"
	case types.LiteralNumber:
		return "number"
	case types.LiteralBigInt:
		return "bigint"
	case types.Function, types.Callable:
		return "function"
	}
	return "object"
}

// --- Logical composition ---------------------------------------------------

func (n *Narrower) narrowLogical(arena *cnode.Arena, op string, left, right cnode.NodeIndex, ref string, declared types.TypeId, branch bool) types.TypeId {
	switch op {
	case "&&":
		if branch {
			t1 := n.Narrow(arena, left, ref, declared, true)
			return n.Narrow(arena, right, ref, t1, true)
		}
		leftFalse := n.Narrow(arena, left, ref, declared, false)
		leftTrue := n.Narrow(arena, left, ref, declared, true)
		rightFalse := n.Narrow(arena, right, ref, leftTrue, false)
		return n.store.Union([]types.TypeId{leftFalse, rightFalse})
	case "||":
		if !branch {
			t1 := n.Narrow(arena, left, ref, declared, false)
			return n.Narrow(arena, right, ref, t1, false)
		}
		leftTrue := n.Narrow(arena, left, ref, declared, true)
		leftFalse := n.Narrow(arena, left, ref, declared, false)
		rightTrue := n.Narrow(arena, right, ref, leftFalse, true)
		return n.store.Union([]types.TypeId{leftTrue, rightTrue})
	default:
		return declared
	}
}

// --- Equality (typeof, literal, discriminant property) --------------------

func (n *Narrower) narrowEquality(arena *cnode.Arena, b *cnode.BinaryExprData, ref string, declared types.TypeId, branch bool) types.TypeId {
	wantEqual := (b.Op == "===" || b.Op == "==") == branch
	isLoose := b.Op == "==" || b.Op == "!="

	// `typeof x === "tag"`
	if tag, operand, ok := typeofGuard(arena, b); ok && matchesRef(arena, operand, ref) {
		return filterUnion(n.store, declared, func(m types.TypeId) bool {
			return (typeofTag(n.store, m) == tag) == wantEqual
		})
	}

	// discriminant property: `obj.kind === "a"` (or reversed)
	if propName, lit, operand, ok := propertyLiteralGuard(arena, b, n.store); ok && matchesRef(arena, operand, ref) {
		return n.narrowDiscriminant(declared, propName, lit, wantEqual)
	}

	// direct reference vs. literal: `x === "a"` (or reversed)
	if lit, operand, ok := directLiteralGuard(arena, b, n.store); ok && matchesRef(arena, operand, ref) {
		return filterUnionRefine(n.store, declared, func(m types.TypeId) (types.TypeId, bool) {
			if widePrimitiveFor(n.store, m, lit) {
				if wantEqual {
					return lit, true // narrow a wide primitive down to the literal
				}
				return m, true // can't exclude a single value from an infinite domain
			}
			return m, refineEquality(n.store, m, lit, isLoose) == wantEqual
		})
	}

	return declared
}

// typeofGuard recognizes `typeof <operand> op "<tag>"` in either operand
// order and returns the tag and the operand expression.
func typeofGuard(arena *cnode.Arena, b *cnode.BinaryExprData) (tag string, operand cnode.NodeIndex, ok bool) {
	if arena.Kind(b.Left) == cnode.KindTypeOfExpr {
		if arena.Kind(b.Right) == cnode.KindStringLiteral {
			return arena.GetStringLiteral(b.Right).Value, arena.GetTypeOfExpr(b.Left).Operand, true
		}
	}
	if arena.Kind(b.Right) == cnode.KindTypeOfExpr {
		if arena.Kind(b.Left) == cnode.KindStringLiteral {
			return arena.GetStringLiteral(b.Left).Value, arena.GetTypeOfExpr(b.Right).Operand, true
		}
	}
	return "", cnode.NoNode, false
}

// propertyLiteralGuard recognizes `<operand>.<prop> op <literal>`.
func propertyLiteralGuard(arena *cnode.Arena, b *cnode.BinaryExprData, store *types.Store) (prop string, lit types.TypeId, operand cnode.NodeIndex, ok bool) {
	if arena.Kind(b.Left) == cnode.KindPropertyAccess {
		if v, ok2 := literalTypeOf(arena, b.Right, store); ok2 {
			pa := arena.GetPropertyAccess(b.Left)
			return pa.Name, v, pa.Object, true
		}
	}
	if arena.Kind(b.Right) == cnode.KindPropertyAccess {
		if v, ok2 := literalTypeOf(arena, b.Left, store); ok2 {
			pa := arena.GetPropertyAccess(b.Right)
			return pa.Name, v, pa.Object, true
		}
	}
	return "", types.NoType, cnode.NoNode, false
}

// directLiteralGuard recognizes `<operand> op <literal>` where operand is
// a plain identifier/property path (not further decomposed).
func directLiteralGuard(arena *cnode.Arena, b *cnode.BinaryExprData, store *types.Store) (lit types.TypeId, operand cnode.NodeIndex, ok bool) {
	if v, ok2 := literalTypeOf(arena, b.Right, store); ok2 {
		if _, isRef := RefPath(arena, b.Left); isRef {
			return v, b.Left, true
		}
	}
	if v, ok2 := literalTypeOf(arena, b.Left, store); ok2 {
		if _, isRef := RefPath(arena, b.Right); isRef {
			return v, b.Right, true
		}
	}
	return types.NoType, cnode.NoNode, false
}

func literalTypeOf(arena *cnode.Arena, node cnode.NodeIndex, store *types.Store) (types.TypeId, bool) {
	switch arena.Kind(node) {
	case cnode.KindStringLiteral:
		return store.LiteralString(arena.GetStringLiteral(node).Value), true
	case cnode.KindNumericLiteral:
		return store.LiteralNumber(arena.GetNumericLiteral(node).Value), true
	case cnode.KindBooleanLiteral:
		return store.LiteralBoolean(arena.GetBooleanLiteral(node).Value), true
	case cnode.KindNullLiteral:
		return types.Null, true
	case cnode.KindUndefinedLiteral:
		return types.Undefined, true
	default:
		return types.NoType, false
	}
}

func isNullish(id types.TypeId) bool { return id == types.Null || id == types.Undefined }

// widePrimitiveFor reports whether member is the wide primitive type that
// lit's domain widens from (string/number/boolean/bigint), so a literal
// equality check against it narrows rather than simply filters.
func widePrimitiveFor(store *types.Store, member, lit types.TypeId) bool {
	switch store.Underlying(lit).(type) {
	case types.LiteralString:
		return member == types.String
	case types.LiteralNumber:
		return member == types.Number
	}
	if lit == types.True || lit == types.False {
		return member == types.Boolean
	}
	return false
}

// refineEquality reports whether member should be treated as "equal to lit"
// for filtering purposes: exact identity, or loose null/undefined
// equivalence (spec §4.7, "loose equality to null treats null and
// undefined together").
func refineEquality(store *types.Store, member, lit types.TypeId, isLoose bool) bool {
	if member == lit {
		return true
	}
	if isLoose && isNullish(lit) && isNullish(member) {
		return true
	}
	return false
}

// filterUnion keeps each member of declared (or declared itself, if it
// isn't a Union) for which keep returns true, re-interning the survivors.
// Narrowing that needs to replace (not just drop) a member — discriminant
// narrowing's wide-primitive case — uses filterUnionRefine instead.
func filterUnion(store *types.Store, declared types.TypeId, keep func(types.TypeId) bool) types.TypeId {
	if u, ok := store.Underlying(declared).(types.Union); ok {
		var kept []types.TypeId
		for _, m := range u.Members {
			if keep(m) {
				kept = append(kept, m)
			}
		}
		if len(kept) == 0 {
			return types.Never
		}
		return store.Union(kept)
	}
	if keep(declared) {
		return declared
	}
	return types.Never
}

// --- Discriminant property narrowing ---------------------------------------

func (n *Narrower) narrowDiscriminant(declared types.TypeId, propName string, lit types.TypeId, wantEqual bool) types.TypeId {
	propAtom := n.store.Atoms().Intern(propName)
	refine := func(m types.TypeId) (types.TypeId, bool) {
		obj, ok := n.store.Underlying(m).(types.Object)
		if !ok {
			return m, true // can't discriminate a non-object member: keep as-is
		}
		for _, p := range obj.Props {
			if p.Name != propAtom {
				continue
			}
			if widePrimitiveFor(n.store, p.Type, lit) {
				if wantEqual {
					return substituteProp(n.store, obj, propAtom, lit), true
				}
				return m, true
			}
			includes := includesLiteral(n.store, p.Type, lit)
			if wantEqual {
				return m, includes
			}
			// false branch: only exclude the member outright when its
			// discriminant is a single concrete literal equal to lit —
			// otherwise we can't be sure every runtime value disagrees.
			if isSoleLiteral(n.store, p.Type) && p.Type == lit {
				return m, false
			}
			return m, true
		}
		return m, true // no such property: can't discriminate, keep
	}
	return filterUnionRefine(n.store, declared, refine)
}

func includesLiteral(store *types.Store, propType, lit types.TypeId) bool {
	if propType == lit {
		return true
	}
	if u, ok := store.Underlying(propType).(types.Union); ok {
		for _, m := range u.Members {
			if m == lit {
				return true
			}
		}
	}
	return false
}

func isSoleLiteral(store *types.Store, id types.TypeId) bool {
	switch store.Underlying(id).(type) {
	case types.LiteralString, types.LiteralNumber, types.LiteralBigInt:
		return true
	}
	return id == types.True || id == types.False
}

// substituteProp returns obj with propName's type replaced, re-interned
// through Shape so the result stays canonical.
func substituteProp(store *types.Store, obj types.Object, propName atom.Atom, newType types.TypeId) types.TypeId {
	props := make([]types.Property, len(obj.Props))
	copy(props, obj.Props)
	for i, p := range props {
		if p.Name == propName {
			props[i].Type = newType
		}
	}
	return store.Shape(props, obj.StringIndex, obj.NumberIndex)
}

// filterUnionRefine is filterUnion's richer sibling: refine may both
// decide whether to keep a member and replace it with a narrower form.
func filterUnionRefine(store *types.Store, declared types.TypeId, refine func(types.TypeId) (types.TypeId, bool)) types.TypeId {
	if u, ok := store.Underlying(declared).(types.Union); ok {
		var kept []types.TypeId
		for _, m := range u.Members {
			if replacement, keep := refine(m); keep {
				kept = append(kept, replacement)
			}
		}
		if len(kept) == 0 {
			return types.Never
		}
		return store.Union(kept)
	}
	if replacement, keep := refine(declared); keep {
		return replacement
	}
	return types.Never
}

// --- `in` operator -----------------------------------------------------

func (n *Narrower) narrowIn(arena *cnode.Arena, b *cnode.BinaryExprData, ref string, declared types.TypeId, branch bool) types.TypeId {
	if arena.Kind(b.Left) != cnode.KindStringLiteral {
		return declared
	}
	if !matchesRef(arena, b.Right, ref) {
		return declared
	}
	propName := arena.GetStringLiteral(b.Left).Value
	propAtom := n.store.Atoms().Intern(propName)
	hasProp := func(m types.TypeId) bool {
		obj, ok := n.store.Underlying(m).(types.Object)
		if !ok {
			return true // can't tell; keep on both branches
		}
		if obj.StringIndex != nil {
			return true
		}
		for _, p := range obj.Props {
			if p.Name == propAtom {
				return true
			}
		}
		return false
	}
	if branch {
		return filterUnion(n.store, declared, hasProp)
	}
	return filterUnion(n.store, declared, func(m types.TypeId) bool { return !hasProp(m) })
}

// --- instanceof -----------------------------------------------------------

func (n *Narrower) narrowInstanceof(arena *cnode.Arena, b *cnode.BinaryExprData, ref string, declared types.TypeId, branch bool) types.TypeId {
	if !matchesRef(arena, b.Left, ref) {
		return declared
	}
	if arena.Kind(b.Right) != cnode.KindIdentifier || n.resolver == nil {
		return declared
	}
	name := arena.GetIdentifier(b.Right).Text
	instanceType, ok := n.resolver.InstanceType(name)
	if !ok {
		return declared
	}
	if !branch {
		if _, isUnion := n.store.Underlying(declared).(types.Union); isUnion {
			return filterUnion(n.store, declared, func(m types.TypeId) bool { return m != instanceType })
		}
		return declared
	}
	if u, isUnion := n.store.Underlying(declared).(types.Union); isUnion {
		for _, m := range u.Members {
			if m == instanceType {
				return instanceType
			}
		}
	}
	return instanceType
}
