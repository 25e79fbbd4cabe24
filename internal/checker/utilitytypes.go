package checker

import (
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/types"
)

// typeOfTypeReference resolves a TypeReference node: the built-in
// primitives, the lib.es5.d.ts-shaped utility types implemented directly
// against the mapped/conditional machinery (spec §4, SPEC_FULL.md
// "supplemented features"), a locally-bound type parameter, or a
// user-declared alias/interface/class/enum via the binder and registry.
func (c *Checker) typeOfTypeReference(node cnode.NodeIndex, tparams map[string]types.TypeId) types.TypeId {
	d := c.Arena.GetTypeReference(node)
	if id, ok := builtinTypeNames[d.Name]; ok {
		return id
	}
	if id, ok := tparams[d.Name]; ok {
		return id
	}
	args := make([]types.TypeId, len(d.TypeArgs))
	for i, a := range d.TypeArgs {
		args[i] = c.typeOfTypeNode(a, tparams)
	}
	if id, ok := c.utilityType(d.Name, args); ok {
		return id
	}

	atomName := c.Atoms.Intern(d.Name)
	sym, ok := c.Binder.ResolveType(c.Binder.RootScope(), atomName)
	if !ok {
		c.Reporter.Reportf(diag.CannotFindName, diag.CategoryError, c.file, 0, 0, d.Name)
		return types.ErrorType
	}
	return c.symbolTypeOf(sym, args...)
}

// utilityType implements the standard-library generic utility types that
// the checker models directly (Array/ReadonlyArray as the Array TypeData,
// the rest as Mapped/Conditional expressions the evaluator reduces on
// demand) instead of loading an actual lib.es5.d.ts (spec §9 open question:
// "no bundled standard library text").
func (c *Checker) utilityType(name string, args []types.TypeId) (types.TypeId, bool) {
	switch name {
	case "Array", "ReadonlyArray":
		if len(args) != 1 {
			return types.ErrorType, true
		}
		return c.Store.Array(args[0]), true
	case "Partial":
		if len(args) != 1 {
			return types.ErrorType, true
		}
		return c.mappedOverKeys(args[0], types.ModifierNone, types.ModifierAdd), true
	case "Required":
		if len(args) != 1 {
			return types.ErrorType, true
		}
		return c.mappedOverKeys(args[0], types.ModifierNone, types.ModifierRemove), true
	case "Readonly":
		if len(args) != 1 {
			return types.ErrorType, true
		}
		return c.mappedOverKeys(args[0], types.ModifierAdd, types.ModifierNone), true
	case "Record":
		if len(args) != 2 {
			return types.ErrorType, true
		}
		return c.Store.MakeMapped("K", args[0], types.NoType, args[1], types.ModifierNone, types.ModifierNone), true
	case "Pick":
		if len(args) != 2 {
			return types.ErrorType, true
		}
		return c.pickKeys(args[0], args[1]), true
	case "Omit":
		if len(args) != 2 {
			return types.ErrorType, true
		}
		keys := c.Store.MakeKeyOf(args[0])
		excluded := c.Store.MakeConditional(keys, args[1], types.Never, keys, true)
		return c.pickKeys(args[0], excluded), true
	case "Exclude":
		if len(args) != 2 {
			return types.ErrorType, true
		}
		return c.Store.MakeConditional(args[0], args[1], types.Never, args[0], true), true
	case "Extract":
		if len(args) != 2 {
			return types.ErrorType, true
		}
		return c.Store.MakeConditional(args[0], args[1], args[0], types.Never, true), true
	case "NonNullable":
		if len(args) != 1 {
			return types.ErrorType, true
		}
		nullish := c.Store.Union([]types.TypeId{types.Null, types.Undefined})
		return c.Store.MakeConditional(args[0], nullish, types.Never, args[0], true), true
	default:
		return types.NoType, false
	}
}

// mappedOverKeys builds `{ [P in keyof T]: T[P] }` with the given readonly
// and optional modifiers, the shape Partial/Required/Readonly share.
func (c *Checker) mappedOverKeys(target types.TypeId, readonlyMod, optionalMod types.Modifier) types.TypeId {
	const p = "P"
	keys := c.Store.MakeKeyOf(target)
	param := c.Store.MakeTypeParameter(p, keys, types.NoType)
	template := c.Store.MakeIndexAccess(target, param)
	return c.Store.MakeMapped(p, keys, types.NoType, template, readonlyMod, optionalMod)
}

func (c *Checker) pickKeys(target, keys types.TypeId) types.TypeId {
	const p = "P"
	param := c.Store.MakeTypeParameter(p, keys, types.NoType)
	template := c.Store.MakeIndexAccess(target, param)
	return c.Store.MakeMapped(p, keys, types.NoType, template, types.ModifierNone, types.ModifierNone)
}
