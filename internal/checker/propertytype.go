package checker

import (
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/types"
)

// reduce evaluates any meta-type layer (Application/Conditional/Mapped/...)
// off id, returning id unchanged if evaluation can't proceed yet (spec
// §4.4: deferred evaluation never blocks the rest of the check pass).
func (c *Checker) reduce(id types.TypeId) types.TypeId {
	r, err := c.eval.Eval(id)
	if err != nil {
		return id
	}
	return r
}

// propertyType looks up name on objType's shape, distributing over a union
// (every member must carry the property) and delegating array "length"
// (spec §4.6).
func (c *Checker) propertyType(objType types.TypeId, name string) (types.TypeId, bool) {
	objType = c.reduce(objType)
	na := c.Atoms.Intern(name)
	switch d := c.Store.Underlying(objType).(type) {
	case types.Object:
		for _, p := range d.Props {
			if p.Name == na {
				return p.Type, true
			}
		}
		if d.StringIndex != nil {
			return d.StringIndex.ValueType, true
		}
		return types.NoType, false
	case types.Callable:
		for _, p := range d.Props {
			if p.Name == na {
				return p.Type, true
			}
		}
		return types.NoType, false
	case types.Array:
		if name == "length" {
			return types.Number, true
		}
		return types.NoType, false
	case types.Tuple:
		if name == "length" {
			return c.Store.LiteralNumber(float64(len(d.Elems))), true
		}
		return types.NoType, false
	case types.Union:
		results := make([]types.TypeId, 0, len(d.Members))
		for _, m := range d.Members {
			t, ok := c.propertyType(m, name)
			if !ok {
				return types.NoType, false
			}
			results = append(results, t)
		}
		return c.Store.Union(results), true
	case types.Enum:
		if ei, ok := c.enumInfo[binder.SymbolId(d.DefID)]; ok {
			if t, ok := ei.members[na]; ok {
				return t, true
			}
		}
		return types.NoType, false
	default:
		return types.NoType, false
	}
}
