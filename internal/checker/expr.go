package checker

import (
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/types"
)

// exprType computes the type of an expression node, reporting any
// diagnostic it finds along the way (spec §4, §7). scope is the lexical
// scope the expression is evaluated in, used for identifier resolution.
func (c *Checker) exprType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	if node == cnode.NoNode {
		return types.Any
	}
	switch c.Arena.Kind(node) {
	case cnode.KindNumericLiteral:
		return c.Store.LiteralNumber(c.Arena.GetNumericLiteral(node).Value)
	case cnode.KindStringLiteral:
		return c.Store.LiteralString(c.Arena.GetStringLiteral(node).Value)
	case cnode.KindBooleanLiteral:
		return c.Store.LiteralBoolean(c.Arena.GetBooleanLiteral(node).Value)
	case cnode.KindBigIntLiteral:
		return types.BigInt
	case cnode.KindNullLiteral:
		return types.Null
	case cnode.KindUndefinedLiteral:
		return types.Undefined
	case cnode.KindParenExpr:
		return c.exprType(c.Arena.GetParenExpr(node).Inner, scope)

	case cnode.KindIdentifier:
		name := c.Arena.GetIdentifier(node).Text
		if t, ok := c.lookupRef(name); ok {
			return t
		}
		sym, ok := c.Binder.ResolveValue(scope, c.Atoms.Intern(name))
		if !ok {
			c.Reporter.Reportf(diag.CannotFindName, diag.CategoryError, c.file, c.Arena.Get(node).Pos, c.Arena.Get(node).End-c.Arena.Get(node).Pos, name)
			return types.ErrorType
		}
		return c.symbolTypeOf(sym)

	case cnode.KindTypeOfExpr:
		c.exprType(c.Arena.GetTypeOfExpr(node).Operand, scope)
		return types.String

	case cnode.KindUnaryExpr:
		u := c.Arena.GetUnaryExpr(node)
		operand := c.exprType(u.Operand, scope)
		switch u.Op {
		case "!":
			return types.Boolean
		case "typeof":
			return types.String
		case "void":
			return types.Undefined
		case "-", "+":
			if operand == types.BigInt {
				return types.BigInt
			}
			return types.Number
		default:
			return types.Any
		}

	case cnode.KindBinaryExpr:
		return c.binaryExprType(node, scope)

	case cnode.KindConditionalExpr:
		return c.conditionalExprType(node, scope)

	case cnode.KindCallExpr:
		return c.callExprType(node, scope)
	case cnode.KindNewExpr:
		return c.newExprType(node, scope)

	case cnode.KindPropertyAccess:
		return c.propertyAccessType(node, scope)
	case cnode.KindElementAccess:
		return c.elementAccessType(node, scope)

	case cnode.KindArrayLiteral:
		return c.arrayLiteralType(node, scope)
	case cnode.KindObjectLiteral:
		return c.objectLiteralType(node, scope)
	case cnode.KindTemplateExpr:
		te := c.Arena.GetTemplateExpr(node)
		for _, sp := range te.Spans {
			if sp.Expr != cnode.NoNode {
				c.exprType(sp.Expr, scope)
			}
		}
		return types.String
	case cnode.KindSpreadElement:
		return c.exprType(c.Arena.GetSpreadElement(node).Expr, scope)

	case cnode.KindAssignmentExpr:
		return c.assignmentExprType(node, scope)

	case cnode.KindArrowFunction, cnode.KindFunctionExpr:
		fn := c.Arena.GetFunctionLike(node)
		sig := c.typeOfFunctionSignature(fn.TypeParams, fn.Params, fn.ReturnType, nil)
		fnScope := c.Binder.NewScope(binder.ScopeFunction, scope, node)
		c.declareParams(fn.Params, sig.Params, fnScope)
		if fn.Body != cnode.NoNode {
			c.withClosureBoundary(scope, func() {
				if c.Arena.Kind(fn.Body) == cnode.KindBlock {
					c.checkBlockStatements(c.Arena.GetBlock(fn.Body).Statements, fnScope)
				} else {
					bodyT := c.exprType(fn.Body, fnScope)
					if sig.Return == types.Any && fn.ReturnType == cnode.NoNode {
						sig.Return = bodyT
					}
				}
			})
		}
		return c.Store.MakeFunction(sig)

	default:
		return types.Any
	}
}

func (c *Checker) declareParams(paramNodes []cnode.NodeIndex, params []types.Param, scope binder.ScopeId) {
	for i, p := range paramNodes {
		pd := c.Arena.GetParam(p)
		sym := c.Binder.NewSymbol(binder.Symbol{Name: c.Atoms.Intern(pd.Name), Flags: binder.FlagValue, Declarations: []cnode.NodeIndex{p}, ValueDeclaration: p})
		c.Binder.Declare(scope, c.Atoms.Intern(pd.Name), sym)
		c.Binder.BindSymbol(p, sym)
		if i < len(params) {
			c.symbolType[sym] = params[i].Type
		}
	}
}

func (c *Checker) binaryExprType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	b := c.Arena.GetBinaryExpr(node)
	switch b.Op {
	case "instanceof", "in", "===", "!==", "==", "!=", "<", "<=", ">", ">=":
		c.exprType(b.Left, scope)
		c.exprType(b.Right, scope)
		return types.Boolean
	case "&&":
		c.exprType(b.Left, scope)
		return c.exprType(b.Right, scope)
	case "||":
		left := c.exprType(b.Left, scope)
		right := c.exprType(b.Right, scope)
		return c.Store.Union([]types.TypeId{left, right})
	case "??":
		left := c.exprType(b.Left, scope)
		right := c.exprType(b.Right, scope)
		if nn, ok := c.utilityType("NonNullable", []types.TypeId{left}); ok {
			return c.Store.Union([]types.TypeId{nn, right})
		}
		return c.Store.Union([]types.TypeId{left, right})
	case "+":
		left := c.exprType(b.Left, scope)
		right := c.exprType(b.Right, scope)
		if c.isStringLike(left) || c.isStringLike(right) {
			return types.String
		}
		return types.Number
	default:
		c.exprType(b.Left, scope)
		c.exprType(b.Right, scope)
		return types.Number
	}
}

func (c *Checker) isStringLike(id types.TypeId) bool {
	if id == types.String {
		return true
	}
	_, ok := c.Store.Underlying(id).(types.LiteralString)
	return ok
}

func (c *Checker) conditionalExprType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	ce := c.Arena.GetConditionalExpr(node)
	c.exprType(ce.Cond, scope)

	ref, ok := guardRef(c.Arena, c.unwrapParen(ce.Cond))
	if !ok {
		thenT := c.exprType(ce.Then, scope)
		elseT := c.exprType(ce.Else, scope)
		return c.Store.Union([]types.TypeId{thenT, elseT})
	}
	declared, ok := c.refDeclaredType(ref, scope)
	if !ok {
		thenT := c.exprType(ce.Then, scope)
		elseT := c.exprType(ce.Else, scope)
		return c.Store.Union([]types.TypeId{thenT, elseT})
	}
	trueT := c.narrower.Narrow(c.Arena, c.unwrapParen(ce.Cond), ref, declared, true)
	falseT := c.narrower.Narrow(c.Arena, c.unwrapParen(ce.Cond), ref, declared, false)

	var thenT, elseT types.TypeId
	c.pushEnv()
	c.withNarrowed(ref, trueT, func() { thenT = c.exprType(ce.Then, scope) })
	c.popEnv()
	c.pushEnv()
	c.withNarrowed(ref, falseT, func() { elseT = c.exprType(ce.Else, scope) })
	c.popEnv()
	return c.Store.Union([]types.TypeId{thenT, elseT})
}

func (c *Checker) callExprType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	ce := c.Arena.GetCallExpr(node)
	calleeT := c.exprType(ce.Callee, scope)
	sig, ok := c.callSignature(calleeT)
	if !ok {
		for _, a := range ce.Args {
			c.exprType(a, scope)
		}
		return types.Any
	}
	c.checkArgs(ce.Args, sig.Params, scope)
	return sig.Return
}

func (c *Checker) newExprType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	ne := c.Arena.GetNewExpr(node)
	if c.Arena.Kind(ne.Callee) == cnode.KindIdentifier {
		name := c.Arena.GetIdentifier(ne.Callee).Text
		if sym, ok := c.Binder.ResolveType(scope, c.Atoms.Intern(name)); ok {
			if ci, ok := c.classInfo[sym]; ok {
				for _, a := range ne.Args {
					c.exprType(a, scope)
				}
				return ci.instance
			}
		}
	}
	calleeT := c.exprType(ne.Callee, scope)
	if sig, ok := c.callSignature(calleeT); ok {
		c.checkArgs(ne.Args, sig.Params, scope)
		return sig.Return
	}
	for _, a := range ne.Args {
		c.exprType(a, scope)
	}
	return types.Any
}

func (c *Checker) callSignature(t types.TypeId) (types.Signature, bool) {
	t = c.reduce(t)
	switch d := c.Store.Underlying(t).(type) {
	case types.Function:
		return d.Sig, true
	case types.Callable:
		if len(d.CallSigs) > 0 {
			return d.CallSigs[0], true
		}
	}
	return types.Signature{}, false
}

func (c *Checker) checkArgs(args []cnode.NodeIndex, params []types.Param, scope binder.ScopeId) {
	for i, a := range args {
		argT := c.exprType(a, scope)
		if i >= len(params) {
			continue
		}
		p := params[i]
		if p.Rest {
			elem := p.Type
			if arr, ok := c.Store.Underlying(c.reduce(p.Type)).(types.Array); ok {
				elem = arr.Elem
			}
			if !c.isAssignable(argT, elem) {
				c.Reporter.Reportf(diag.ArgumentNotAssignable, diag.CategoryError, c.file, 0, 0, c.typeName(argT), c.typeName(elem))
			}
			continue
		}
		if !c.isAssignable(argT, p.Type) {
			c.Reporter.Reportf(diag.ArgumentNotAssignable, diag.CategoryError, c.file, 0, 0, c.typeName(argT), c.typeName(p.Type))
		}
	}
}

func (c *Checker) propertyAccessType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	pa := c.Arena.GetPropertyAccess(node)
	objT := c.exprType(pa.Object, scope)
	if pa.IsPrivate {
		if len(c.enclosingClass) == 0 || !c.classInfo[c.enclosingClass[len(c.enclosingClass)-1]].private[c.Atoms.Intern(pa.Name)] {
			className := ""
			if ci := c.enclosingPrivateOwner(objT, pa.Name); ci != "" {
				className = ci
			}
			c.Reporter.Reportf(diag.PrivateOutsideClass, diag.CategoryError, c.file, 0, 0, pa.Name, className)
			return types.ErrorType
		}
	}
	t, ok := c.propertyType(objT, pa.Name)
	if !ok {
		c.Reporter.Reportf(diag.PropertyDoesNotExist, diag.CategoryError, c.file, 0, 0, pa.Name, c.typeName(objT))
		return types.ErrorType
	}
	return t
}

// enclosingPrivateOwner finds which declared class owns a private name, for
// the diagnostic message; returns "" if none is known.
func (c *Checker) enclosingPrivateOwner(objT types.TypeId, name string) string {
	na := c.Atoms.Intern(name)
	for sym, ci := range c.classInfo {
		if ci.private[na] {
			return c.Atoms.Lookup(c.Binder.Symbol(sym).Name)
		}
	}
	return ""
}

func (c *Checker) elementAccessType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	ea := c.Arena.GetElementAccess(node)
	objT := c.exprType(ea.Object, scope)
	idxT := c.exprType(ea.Index, scope)
	reduced := c.reduce(objT)
	switch d := c.Store.Underlying(reduced).(type) {
	case types.Array:
		return d.Elem
	case types.Tuple:
		if lit, ok := c.Store.Underlying(idxT).(types.LiteralNumber); ok {
			i := int(lit.Value)
			if i >= 0 && i < len(d.Elems) {
				return d.Elems[i].Type
			}
		}
		var members []types.TypeId
		for _, e := range d.Elems {
			members = append(members, e.Type)
		}
		return c.Store.Union(members)
	case types.Object:
		if lit, ok := c.Store.Underlying(idxT).(types.LiteralString); ok {
			if t, ok := c.propertyType(reduced, lit.Value); ok {
				return t
			}
		}
		if c.isNumberLike(idxT) && d.NumberIndex != nil {
			return d.NumberIndex.ValueType
		}
		if d.StringIndex != nil {
			return d.StringIndex.ValueType
		}
	}
	c.Reporter.Reportf(diag.NoIndexSignature, diag.CategoryError, c.file, 0, 0, c.typeName(idxT), c.typeName(objT))
	return types.ErrorType
}

func (c *Checker) arrayLiteralType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	al := c.Arena.GetArrayLiteral(node)
	var members []types.TypeId
	for _, e := range al.Elements {
		if c.Arena.Kind(e) == cnode.KindSpreadElement {
			sp := c.Arena.GetSpreadElement(e)
			elemT, ok := c.iterableElementType(c.exprType(sp.Expr, scope))
			if ok {
				members = append(members, elemT)
			}
			continue
		}
		members = append(members, c.exprType(e, scope))
	}
	if len(members) == 0 {
		return c.Store.Array(types.Any)
	}
	return c.Store.Array(c.Store.Union(members))
}

func (c *Checker) objectLiteralType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	ol := c.Arena.GetObjectLiteral(node)
	var props []types.Property
	for _, pn := range ol.Properties {
		pa := c.Arena.GetPropertyAssignment(pn)
		if pa.Spread {
			spreadT := c.reduce(c.exprType(pa.Value, scope))
			if obj, ok := c.Store.Underlying(spreadT).(types.Object); ok {
				props = append(props, obj.Props...)
			}
			continue
		}
		var valT types.TypeId
		if pa.Shorthand {
			valT = c.exprType(pa.Value, scope)
		} else {
			valT = c.exprType(pa.Value, scope)
		}
		props = append(props, types.Property{Name: c.Atoms.Intern(pa.Name), Type: valT})
	}
	return c.Store.MakeFreshObject(props, nil, nil)
}

func (c *Checker) assignmentExprType(node cnode.NodeIndex, scope binder.ScopeId) types.TypeId {
	ae := c.Arena.GetAssignmentExpr(node)
	targetT := c.exprType(ae.Target, scope)
	valueT := c.exprType(ae.Value, scope)
	if ae.Op == "=" && !c.isAssignable(valueT, targetT) {
		c.Reporter.Reportf(diag.TypeNotAssignable, diag.CategoryError, c.file, 0, 0, c.typeName(valueT), c.typeName(targetT))
	}
	return targetT
}
