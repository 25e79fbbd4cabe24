package checker

import (
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/types"
)

// checkStatements checks stmts in the given scope in order. stmts is
// assumed already hoisted into scope by declareStatements (true for
// Check's top-level call; checkBlockStatements does both for a nested
// block).
func (c *Checker) checkStatements(stmts []cnode.NodeIndex, scope binder.ScopeId) {
	for _, st := range stmts {
		c.checkStatement(st, scope)
	}
}

// checkBlockStatements declares then checks stmts within their own fresh
// scope, the uniform entry point for any nested block (spec §3.4 "a block
// introduces its own scope").
func (c *Checker) checkBlockStatements(stmts []cnode.NodeIndex, parent binder.ScopeId) {
	scope := c.Binder.NewScope(binder.ScopeBlock, parent, cnode.NoNode)
	c.declareStatements(stmts, scope)
	c.checkStatements(stmts, scope)
}

func (c *Checker) checkStatement(st cnode.NodeIndex, scope binder.ScopeId) {
	switch c.Arena.Kind(st) {
	case cnode.KindVarDecl:
		c.checkVarDecl(st, scope)
	case cnode.KindFunctionDecl:
		c.checkFunctionDecl(st, scope)
	case cnode.KindClassDecl:
		c.checkClassDecl(st, scope)
	case cnode.KindBlock:
		c.checkBlockStatements(c.Arena.GetBlock(st).Statements, scope)
	case cnode.KindIfStmt:
		c.checkIfStmt(st, scope)
	case cnode.KindReturnStmt:
		c.checkReturnStmt(st, scope)
	case cnode.KindExpressionStmt:
		c.exprType(c.Arena.GetExpressionStmt(st).Expr, scope)
	case cnode.KindExportDecl:
		ed := c.Arena.GetExport(st)
		if ed.Decl != cnode.NoNode {
			c.checkStatement(ed.Decl, scope)
		}
	case cnode.KindInterfaceDecl, cnode.KindTypeAliasDecl, cnode.KindEnumDecl,
		cnode.KindImportDecl:
		// Fully handled by the declare pass; nothing left to check.
	default:
		// Unrecognized statement shape: nothing to type-check.
	}
}

func (c *Checker) checkVarDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	vd := c.Arena.GetVarDecl(st)
	if vd.BindingKind != "" {
		c.checkDestructuring(st, scope)
		return
	}
	sym, ok := c.Binder.NodeSymbol[st]
	if !ok {
		return
	}
	declared, hasType := c.symbolType[sym]
	if vd.Init == cnode.NoNode {
		return
	}
	initT := c.exprType(vd.Init, scope)
	if !hasType {
		c.symbolType[sym] = initT
		return
	}
	if !c.isAssignable(initT, declared) {
		c.Reporter.Reportf(diag.TypeNotAssignable, diag.CategoryError, c.file, 0, 0, c.typeName(initT), c.typeName(declared))
	}
}

// checkDestructuring handles `const [a, b] = iterable`: the iterable
// protocol is exercised exclusively here, since no for-of/for-loop node
// kind exists in the AST contract (spec §4 supplemented features).
func (c *Checker) checkDestructuring(st cnode.NodeIndex, scope binder.ScopeId) {
	vd := c.Arena.GetVarDecl(st)
	if vd.Init == cnode.NoNode {
		return
	}
	initT := c.exprType(vd.Init, scope)
	if vd.BindingKind != "array" {
		return
	}
	elemT, ok := c.iterableElementType(initT)
	if !ok {
		c.Reporter.Reportf(diag.IterableProtocolMissing, diag.CategoryError, c.file, 0, 0, c.typeName(initT))
		elemT = types.Any
	}
	for _, el := range vd.Elements {
		if sym, ok := c.Binder.NodeSymbol[el]; ok {
			c.symbolType[sym] = elemT
		}
	}
}

func (c *Checker) checkFunctionDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	fn := c.Arena.GetFunctionLike(st)
	sym, ok := c.Binder.NodeSymbol[st]
	var sig types.Signature
	if ok {
		if f, ok := c.Store.Underlying(c.symbolType[sym]).(types.Function); ok {
			sig = f.Sig
		}
	}
	fnScope := c.Binder.NewScope(binder.ScopeFunction, scope, st)
	c.declareParams(fn.Params, sig.Params, fnScope)
	c.returnTypeStack = append(c.returnTypeStack, sig.Return)
	if fn.Body != cnode.NoNode && c.Arena.Kind(fn.Body) == cnode.KindBlock {
		c.withClosureBoundary(scope, func() {
			c.checkBlockStatements(c.Arena.GetBlock(fn.Body).Statements, fnScope)
		})
	}
	c.returnTypeStack = c.returnTypeStack[:len(c.returnTypeStack)-1]
}

func (c *Checker) checkClassDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	cd := c.Arena.GetClass(st)
	sym, ok := c.Binder.NodeSymbol[st]
	if !ok {
		return
	}
	c.enclosingClass = append(c.enclosingClass, sym)
	classScope := c.Binder.NewScope(binder.ScopeClass, scope, st)
	for _, m := range cd.Members {
		switch c.Arena.Kind(m) {
		case cnode.KindMethodDecl:
			md := c.Arena.GetMethodDecl(m)
			c.checkFunctionDecl(md.Fn, classScope)
		case cnode.KindPropertyDecl:
			pd := c.Arena.GetPropertyDecl(m)
			if pd.Init != cnode.NoNode {
				initT := c.exprType(pd.Init, classScope)
				if pd.Type != cnode.NoNode {
					declared := c.typeOfTypeNode(pd.Type, nil)
					if !c.isAssignable(initT, declared) {
						c.Reporter.Reportf(diag.TypeNotAssignable, diag.CategoryError, c.file, 0, 0, c.typeName(initT), c.typeName(declared))
					}
				}
			}
		}
	}
	c.enclosingClass = c.enclosingClass[:len(c.enclosingClass)-1]
}

func (c *Checker) checkIfStmt(st cnode.NodeIndex, scope binder.ScopeId) {
	ifs := c.Arena.GetIf(st)
	c.exprType(ifs.Cond, scope)

	cond := c.unwrapParen(ifs.Cond)
	ref, ok := guardRef(c.Arena, cond)
	if !ok {
		c.checkStatement(ifs.Then, scope)
		if ifs.Else != cnode.NoNode {
			c.checkStatement(ifs.Else, scope)
		}
		return
	}
	declared, ok := c.refDeclaredType(ref, scope)
	if !ok {
		c.checkStatement(ifs.Then, scope)
		if ifs.Else != cnode.NoNode {
			c.checkStatement(ifs.Else, scope)
		}
		return
	}
	trueT := c.narrower.Narrow(c.Arena, cond, ref, declared, true)
	falseT := c.narrower.Narrow(c.Arena, cond, ref, declared, false)

	c.pushEnv()
	c.withNarrowed(ref, trueT, func() { c.checkStatement(ifs.Then, scope) })
	c.popEnv()
	if ifs.Else != cnode.NoNode {
		c.pushEnv()
		c.withNarrowed(ref, falseT, func() { c.checkStatement(ifs.Else, scope) })
		c.popEnv()
	}
}

func (c *Checker) checkReturnStmt(st cnode.NodeIndex, scope binder.ScopeId) {
	rs := c.Arena.GetReturn(st)
	var retT types.TypeId = types.Undefined
	if rs.Expr != cnode.NoNode {
		retT = c.exprType(rs.Expr, scope)
	}
	if len(c.returnTypeStack) == 0 {
		return
	}
	expected := c.returnTypeStack[len(c.returnTypeStack)-1]
	if expected == types.Any || expected == types.NoType {
		return
	}
	if rs.Expr == cnode.NoNode && c.Opts.AllowVoidReturn {
		return
	}
	if !c.isAssignable(retT, expected) {
		c.Reporter.Reportf(diag.TypeNotAssignable, diag.CategoryError, c.file, 0, 0, c.typeName(retT), c.typeName(expected))
	}
}
