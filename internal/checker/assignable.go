package checker

import "github.com/tscorelang/tscheck/internal/types"

// isAssignable is the checker's single assignability entry point, layering
// one TS-specific rule on top of the compatibility overlay: a numeric
// enum's own value widens to a bare number, because internal/subtype's
// relate() only matches a types.Enum against itself by identity and has no
// shape rule for it (spec §4 supplemented features, "enum assignability").
// The reverse direction is not granted: a bare number is never assignable
// to an enum target, so `const e: E = 2` still reports a diagnostic when 2
// is not one of E's members.
func (c *Checker) isAssignable(source, target types.TypeId) bool {
	if target != source {
		if es, ok := c.Store.Underlying(source).(types.Enum); ok {
			if c.numericEnum(es) && c.isNumberLike(target) {
				return true
			}
		}
	}
	return c.overlay.IsAssignable(source, target, c.flags)
}

// numericEnum reports whether every member of an enum's union is a numeric
// literal (spec's "const enum" / numeric enum case; a mixed or
// string-valued enum does not get the bare-number leniency).
func (c *Checker) numericEnum(e types.Enum) bool {
	members := c.unionMembers(e.MemberUnion)
	if len(members) == 0 {
		return false
	}
	for _, m := range members {
		if _, ok := c.Store.Underlying(m).(types.LiteralNumber); !ok {
			return false
		}
	}
	return true
}

func (c *Checker) isNumberLike(id types.TypeId) bool {
	if id == types.Number {
		return true
	}
	_, ok := c.Store.Underlying(id).(types.LiteralNumber)
	return ok
}

func (c *Checker) unionMembers(id types.TypeId) []types.TypeId {
	if u, ok := c.Store.Underlying(id).(types.Union); ok {
		return u.Members
	}
	return []types.TypeId{id}
}
