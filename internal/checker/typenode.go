package checker

import (
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/types"
)

// builtinTypeNames maps the primitive type-reference spellings to their
// intrinsic TypeIds (spec §3.2). Anything else is resolved through the
// binder.
var builtinTypeNames = map[string]types.TypeId{
	"string":    types.String,
	"number":    types.Number,
	"boolean":   types.Boolean,
	"void":      types.Void,
	"undefined": types.Undefined,
	"null":      types.Null,
	"any":       types.Any,
	"unknown":   types.Unknown,
	"never":     types.Never,
	"bigint":    types.BigInt,
	"symbol":    types.Symbol,
	"object":    types.ObjectIntrinsic,
	"Function":  types.FunctionIntrinsic,
}

// typeOfTypeNode converts a type-position AST node into a TypeId. tparams
// holds the type parameters currently in scope (from an enclosing generic
// declaration), consulted before falling through to the binder (spec §4.3
// capture avoidance: an inner reference to an outer type parameter's name
// must resolve to that same TypeParameter TypeId, not a fresh lookup).
func (c *Checker) typeOfTypeNode(node cnode.NodeIndex, tparams map[string]types.TypeId) types.TypeId {
	if node == cnode.NoNode {
		return types.Any
	}
	switch c.Arena.Kind(node) {
	case cnode.KindTypeReference:
		return c.typeOfTypeReference(node, tparams)
	case cnode.KindUnionType:
		d := c.Arena.GetUnionType(node)
		members := make([]types.TypeId, len(d.Members))
		for i, m := range d.Members {
			members[i] = c.typeOfTypeNode(m, tparams)
		}
		return c.Store.Union(members)
	case cnode.KindIntersectionType:
		d := c.Arena.GetIntersectionType(node)
		members := make([]types.TypeId, len(d.Members))
		for i, m := range d.Members {
			members[i] = c.typeOfTypeNode(m, tparams)
		}
		return c.Store.Intersection(members)
	case cnode.KindArrayType:
		d := c.Arena.GetArrayType(node)
		return c.Store.Array(c.typeOfTypeNode(d.Element, tparams))
	case cnode.KindTupleType:
		d := c.Arena.GetTupleType(node)
		elems := make([]types.TupleElem, len(d.Elements))
		for i, e := range d.Elements {
			te := c.Arena.GetTupleElement(e)
			elems[i] = types.TupleElem{
				Type:     c.typeOfTypeNode(te.Type, tparams),
				Optional: te.Optional,
				Rest:     te.Rest,
				Label:    te.Label,
			}
		}
		return c.Store.MakeTuple(elems)
	case cnode.KindFunctionType:
		d := c.Arena.GetFunctionType(node)
		return c.Store.MakeFunction(c.typeOfFunctionSignature(d.TypeParams, d.Params, d.ReturnType, tparams))
	case cnode.KindObjectType:
		return c.typeOfObjectType(node, tparams)
	case cnode.KindConditionalType:
		d := c.Arena.GetConditionalType(node)
		check := c.typeOfTypeNode(d.Check, tparams)
		extends := c.typeOfTypeNode(d.Extends, tparams)
		trueBranch := c.typeOfTypeNode(d.True, tparams)
		falseBranch := c.typeOfTypeNode(d.False, tparams)
		distributive := c.Arena.Get(node).Flags.Has(cnode.FlagDistributive)
		return c.Store.MakeConditional(check, extends, trueBranch, falseBranch, distributive)
	case cnode.KindMappedType:
		d := c.Arena.GetMappedType(node)
		inner := make(map[string]types.TypeId, len(tparams)+1)
		for k, v := range tparams {
			inner[k] = v
		}
		constraint := c.typeOfTypeNode(d.Constraint, tparams)
		inner[d.Param] = c.Store.MakeTypeParameter(d.Param, constraint, types.NoType)
		nameType := types.NoType
		if d.NameType != cnode.NoNode {
			nameType = c.typeOfTypeNode(d.NameType, inner)
		}
		template := c.typeOfTypeNode(d.Template, inner)
		return c.Store.MakeMapped(d.Param, constraint, nameType, template, typesModifier(d.ReadonlyMod), typesModifier(d.OptionalMod))
	case cnode.KindIndexedAccessType:
		d := c.Arena.GetIndexedAccessType(node)
		return c.Store.MakeIndexAccess(c.typeOfTypeNode(d.Object, tparams), c.typeOfTypeNode(d.Index, tparams))
	case cnode.KindKeyOfType:
		d := c.Arena.GetKeyOfType(node)
		return c.Store.MakeKeyOf(c.typeOfTypeNode(d.Inner, tparams))
	case cnode.KindTemplateLiteralType:
		d := c.Arena.GetTemplateLiteralType(node)
		spans := make([]types.TemplateSpan, len(d.Spans))
		for i, sp := range d.Spans {
			if sp.Type == cnode.NoNode {
				spans[i] = types.TemplateSpan{Text: sp.Text, Type: types.NoType}
			} else {
				spans[i] = types.TemplateSpan{Type: c.typeOfTypeNode(sp.Type, tparams)}
			}
		}
		return c.Store.TemplateLiteral(spans)
	case cnode.KindInferType:
		d := c.Arena.GetInferType(node)
		return c.Store.MakeInfer(d.Name)
	case cnode.KindReadonlyTypeOperator:
		d := c.Arena.GetReadonlyTypeOperator(node)
		return c.Store.MakeReadonly(c.typeOfTypeNode(d.Inner, tparams))
	case cnode.KindTypeQuery:
		d := c.Arena.GetTypeQuery(node)
		return c.typeOfTypeQuery(d.Name)
	case cnode.KindThisType:
		return c.Store.MakeThisType()
	case cnode.KindLiteralType:
		d := c.Arena.GetLiteralType(node)
		switch d.Kind {
		case "string":
			return c.Store.LiteralString(d.SVal)
		case "number":
			return c.Store.LiteralNumber(d.NVal)
		case "boolean":
			return c.Store.LiteralBoolean(d.BVal)
		case "bigint":
			return c.Store.LiteralBigInt(d.SVal)
		default:
			return types.ErrorType
		}
	default:
		return types.ErrorType
	}
}

func typesModifier(m cnode.Modifier) types.Modifier {
	switch m {
	case cnode.ModifierAdd:
		return types.ModifierAdd
	case cnode.ModifierRemove:
		return types.ModifierRemove
	default:
		return types.ModifierNone
	}
}

func (c *Checker) typeOfObjectType(node cnode.NodeIndex, tparams map[string]types.TypeId) types.TypeId {
	d := c.Arena.GetObjectType(node)
	var props []types.Property
	var stringIdx, numberIdx *types.IndexInfo
	for _, m := range d.Members {
		switch c.Arena.Kind(m) {
		case cnode.KindPropertySignature:
			ps := c.Arena.GetPropertySignature(m)
			props = append(props, types.Property{
				Name:     c.Atoms.Intern(ps.Name),
				Type:     c.typeOfTypeNode(ps.Type, tparams),
				Optional: ps.Optional,
				Readonly: ps.Readonly,
			})
		case cnode.KindIndexSignature:
			is := c.Arena.GetIndexSignature(m)
			info := &types.IndexInfo{ValueType: c.typeOfTypeNode(is.ValueType, tparams), Readonly: is.Readonly}
			if c.indexKeyIsNumber(is.KeyType) {
				numberIdx = info
			} else {
				stringIdx = info
			}
		}
	}
	return c.Store.Shape(props, stringIdx, numberIdx)
}

func (c *Checker) indexKeyIsNumber(keyType cnode.NodeIndex) bool {
	if keyType == cnode.NoNode || c.Arena.Kind(keyType) != cnode.KindTypeReference {
		return false
	}
	return c.Arena.GetTypeReference(keyType).Name == "number"
}

func (c *Checker) typeOfFunctionSignature(typeParams, params []cnode.NodeIndex, returnType cnode.NodeIndex, outer map[string]types.TypeId) types.Signature {
	local := outer
	var sigTypeParams []types.TypeId
	if len(typeParams) > 0 {
		local = make(map[string]types.TypeId, len(outer)+len(typeParams))
		for k, v := range outer {
			local[k] = v
		}
		for _, tp := range typeParams {
			tpd := c.Arena.GetTypeParameter(tp)
			constraint := types.NoType
			if tpd.Constraint != cnode.NoNode {
				constraint = c.typeOfTypeNode(tpd.Constraint, local)
			}
			def := types.NoType
			if tpd.Default != cnode.NoNode {
				def = c.typeOfTypeNode(tpd.Default, local)
			}
			id := c.Store.MakeTypeParameter(tpd.Name, constraint, def)
			local[tpd.Name] = id
			sigTypeParams = append(sigTypeParams, id)
		}
	}
	sigParams := make([]types.Param, len(params))
	for i, p := range params {
		pd := c.Arena.GetParam(p)
		ty := types.Any
		if pd.Type != cnode.NoNode {
			ty = c.typeOfTypeNode(pd.Type, local)
		}
		sigParams[i] = types.Param{Name: pd.Name, Type: ty, Optional: pd.Optional || pd.Default != cnode.NoNode, Rest: pd.Rest}
	}
	ret := types.Any
	if returnType != cnode.NoNode {
		ret = c.typeOfTypeNode(returnType, local)
	}
	return types.Signature{TypeParams: sigTypeParams, Params: sigParams, Return: ret}
}

func (c *Checker) typeOfTypeQuery(name string) types.TypeId {
	sym, ok := c.Binder.ResolveValue(c.Binder.RootScope(), c.Atoms.Intern(name))
	if !ok {
		c.Reporter.Reportf(diag.CannotFindName, diag.CategoryError, c.file, 0, 0, name)
		return types.ErrorType
	}
	return c.symbolTypeOf(sym)
}
