package checker

import "github.com/tscorelang/tscheck/internal/types"

// iterableElementType resolves the element type the iterable protocol
// yields for t (spec §4 supplemented features, "iterable protocol"): an
// Array/Tuple directly, or a shape exposing `[Symbol.iterator]` modeled as
// a plain `next` method returning `{ value, done }` (the one part of the
// protocol worth modeling without a bundled lib.es5.d.ts, since no AST node
// kind carries a for-of loop for this contract — destructuring is the only
// place an iterable ever gets unpacked, see VarDeclData.BindingKind).
func (c *Checker) iterableElementType(t types.TypeId) (types.TypeId, bool) {
	reduced := c.reduce(t)
	switch d := c.Store.Underlying(reduced).(type) {
	case types.Array:
		return d.Elem, true
	case types.Tuple:
		if len(d.Elems) == 0 {
			return types.Never, true
		}
		members := make([]types.TypeId, len(d.Elems))
		for i, e := range d.Elems {
			members[i] = e.Type
		}
		return c.Store.Union(members), true
	case types.LiteralString:
		return types.String, true
	}
	if reduced == types.String {
		return types.String, true
	}
	if iterT, ok := c.propertyType(reduced, "[Symbol.iterator]"); ok {
		return c.iteratorResultValueType(iterT)
	}
	return types.NoType, false
}

// iteratorResultValueType extracts the `value` field type off a method
// returning `{ next(): { value: T, done: boolean } }`, i.e. unwraps two
// call signatures' return shapes to get at T.
func (c *Checker) iteratorResultValueType(method types.TypeId) (types.TypeId, bool) {
	iterator, ok := c.callSignature(method)
	if !ok {
		return types.NoType, false
	}
	nextMethod, ok := c.propertyType(iterator.Return, "next")
	if !ok {
		return types.NoType, false
	}
	nextSig, ok := c.callSignature(nextMethod)
	if !ok {
		return types.NoType, false
	}
	return c.propertyType(nextSig.Return, "value")
}
