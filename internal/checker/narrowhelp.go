package checker

import (
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/narrow"
	"github.com/tscorelang/tscheck/internal/types"
)

// unwrapParen strips the redundant wrapper parens add around an expression;
// narrow.Narrow documents that callers must do this before matching a guard
// shape.
func (c *Checker) unwrapParen(node cnode.NodeIndex) cnode.NodeIndex {
	return unwrapParenStatic(c.Arena, node)
}

// guardRef finds the single reference path a narrowable condition is
// testing (spec §4.7): the typeof/instanceof/in operand, either side of an
// equality, or (recursively) either side of && / ||. Conditions that test
// more than one reference narrow only the first one found, which covers
// every guard shape spec §4.7 lists.
func guardRef(arena *cnode.Arena, node cnode.NodeIndex) (string, bool) {
	node = unwrapParenStatic(arena, node)
	switch arena.Kind(node) {
	case cnode.KindUnaryExpr:
		u := arena.GetUnaryExpr(node)
		if u.Op == "!" {
			return guardRef(arena, u.Operand)
		}
		return "", false
	case cnode.KindTypeOfExpr:
		return narrow.RefPath(arena, arena.GetTypeOfExpr(node).Operand)
	case cnode.KindBinaryExpr:
		b := arena.GetBinaryExpr(node)
		switch b.Op {
		case "instanceof":
			return narrow.RefPath(arena, b.Left)
		case "in":
			return narrow.RefPath(arena, b.Right)
		case "&&", "||":
			if ref, ok := guardRef(arena, b.Left); ok {
				return ref, true
			}
			return guardRef(arena, b.Right)
		default:
			if ref, ok := narrow.RefPath(arena, b.Left); ok {
				return ref, true
			}
			if ref, ok := narrow.RefPath(arena, b.Right); ok {
				return ref, true
			}
			if arena.Kind(b.Left) == cnode.KindTypeOfExpr {
				return narrow.RefPath(arena, arena.GetTypeOfExpr(b.Left).Operand)
			}
			if arena.Kind(b.Right) == cnode.KindTypeOfExpr {
				return narrow.RefPath(arena, arena.GetTypeOfExpr(b.Right).Operand)
			}
			return "", false
		}
	default:
		return narrow.RefPath(arena, node)
	}
}

func unwrapParenStatic(arena *cnode.Arena, node cnode.NodeIndex) cnode.NodeIndex {
	for node != cnode.NoNode && arena.Kind(node) == cnode.KindParenExpr {
		node = arena.GetParenExpr(node).Inner
	}
	return node
}

// refDeclaredType resolves ref ("x" or "x.y.z") to the type it would have
// absent any narrowing: the declared type of the base identifier's symbol,
// followed by a property walk off that type for a dotted path.
func (c *Checker) refDeclaredType(ref string, scope binder.ScopeId) (types.TypeId, bool) {
	base, rest := splitRef(ref)
	sym, ok := c.Binder.ResolveValue(scope, c.Atoms.Intern(base))
	if !ok {
		return types.NoType, false
	}
	t := c.symbolTypeOf(sym)
	for _, field := range rest {
		next, ok := c.propertyType(t, field)
		if !ok {
			return types.NoType, false
		}
		t = next
	}
	return t, true
}

func splitRef(ref string) (string, []string) {
	var parts []string
	start := 0
	for i := 0; i < len(ref); i++ {
		if ref[i] == '.' {
			parts = append(parts, ref[start:i])
			start = i + 1
		}
	}
	parts = append(parts, ref[start:])
	return parts[0], parts[1:]
}
