package checker

import (
	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/binder"
	"github.com/tscorelang/tscheck/internal/cnode"
	"github.com/tscorelang/tscheck/internal/diag"
	"github.com/tscorelang/tscheck/internal/types"
)

// declareStatements hoists every declaration in stmts into scope: var,
// function, class, interface, type alias and enum names all become
// resolvable from anywhere else in the same statement list regardless of
// textual order (spec §4.2, §9 "forward declaration within a scope"). Type
// bodies themselves are registered but computed lazily through c.defs.
func (c *Checker) declareStatements(stmts []cnode.NodeIndex, scope binder.ScopeId) {
	for _, st := range stmts {
		c.declareStatement(st, scope)
	}
}

func (c *Checker) declareStatement(st cnode.NodeIndex, scope binder.ScopeId) {
	switch c.Arena.Kind(st) {
	case cnode.KindVarDecl:
		c.declareVarDecl(st, scope)
	case cnode.KindFunctionDecl:
		c.declareFunctionDecl(st, scope)
	case cnode.KindClassDecl:
		c.declareClassDecl(st, scope)
	case cnode.KindInterfaceDecl:
		c.declareInterfaceDecl(st, scope)
	case cnode.KindTypeAliasDecl:
		c.declareTypeAlias(st, scope)
	case cnode.KindEnumDecl:
		c.declareEnumDecl(st, scope)
	case cnode.KindExportDecl:
		ed := c.Arena.GetExport(st)
		if ed.Decl != cnode.NoNode {
			c.declareStatement(ed.Decl, scope)
		}
	default:
		// Statements (if/block/return/expression/import) carry no hoisted
		// declaration of their own.
	}
}

func (c *Checker) declareVarDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	vd := c.Arena.GetVarDecl(st)
	if vd.BindingKind != "" {
		for _, el := range vd.Elements {
			c.declareStatement(el, scope)
		}
		return
	}
	flags := binder.FlagValue
	if vd.IsLet || vd.IsConst {
		flags |= binder.FlagBlockScoped
	}
	if vd.IsConst {
		flags |= binder.FlagConst
	}
	name := c.Atoms.Intern(vd.Name)
	sym := c.Binder.NewSymbol(binder.Symbol{Name: name, Flags: flags, Declarations: []cnode.NodeIndex{st}, ValueDeclaration: st})
	c.Binder.Declare(scope, name, sym)
	c.Binder.BindSymbol(st, sym)
	if vd.Type != cnode.NoNode {
		c.symbolType[sym] = c.typeOfTypeNode(vd.Type, nil)
	}
}

func (c *Checker) declareFunctionDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	fn := c.Arena.GetFunctionLike(st)
	name := c.Atoms.Intern(fn.Name)
	sym := c.Binder.NewSymbol(binder.Symbol{Name: name, Flags: binder.FlagValue | binder.FlagFunction, Declarations: []cnode.NodeIndex{st}, ValueDeclaration: st})
	c.Binder.Declare(scope, name, sym)
	c.Binder.BindSymbol(st, sym)
	sig := c.typeOfFunctionSignature(fn.TypeParams, fn.Params, fn.ReturnType, nil)
	c.symbolType[sym] = c.Store.MakeFunction(sig)
}

func (c *Checker) declareTypeAlias(st cnode.NodeIndex, scope binder.ScopeId) {
	ta := c.Arena.GetTypeAlias(st)
	name := c.Atoms.Intern(ta.Name)
	sym := c.Binder.NewSymbol(binder.Symbol{Name: name, Flags: binder.FlagType | binder.FlagAlias, Declarations: []cnode.NodeIndex{st}})
	c.Binder.Declare(scope, name, sym)
	c.Binder.BindSymbol(st, sym)

	params, tparamIds := c.typeParamList(ta.TypeParams, nil)
	defID := c.defs.Register(params, func() types.TypeId {
		return c.typeOfTypeNode(ta.Type, tparamIds)
	})
	c.registerDefSymbol(sym, defID, params)
}

func (c *Checker) declareInterfaceDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	id := c.Arena.GetInterface(st)
	name := c.Atoms.Intern(id.Name)
	sym := c.Binder.NewSymbol(binder.Symbol{Name: name, Flags: binder.FlagType | binder.FlagInterface, Declarations: []cnode.NodeIndex{st}})
	c.Binder.Declare(scope, name, sym)
	c.Binder.BindSymbol(st, sym)

	params, tparamIds := c.typeParamList(id.TypeParams, nil)
	defID := c.defs.Register(params, func() types.TypeId {
		props, stringIdx, numberIdx := c.propsFromInterfaceMembers(id.Members, tparamIds)
		for _, ext := range id.Extends {
			base := c.typeOfTypeNode(ext, tparamIds)
			props = mergeInherited(c.Store, base, props)
		}
		return c.Store.Shape(props, stringIdx, numberIdx)
	})
	c.registerDefSymbol(sym, defID, params)
}

// registerDefSymbol records that sym's type resolves through defID, used by
// symbolTypeOf to build the Application(Lazy(defID), args) a TypeReference
// to sym produces.
func (c *Checker) registerDefSymbol(sym binder.SymbolId, defID uint32, params []string) {
	if c.symbolDef == nil {
		c.symbolDef = make(map[binder.SymbolId]defRef)
	}
	c.symbolDef[sym] = defRef{defID: defID, paramCount: len(params)}
}

type defRef struct {
	defID      uint32
	paramCount int
}

// typeParamList converts a generic declaration's type parameter nodes into
// (ordered names, name->TypeId bindings), the shape both the registry's
// params slice and typeOfTypeNode's tparams map need.
func (c *Checker) typeParamList(nodes []cnode.NodeIndex, outer map[string]types.TypeId) ([]string, map[string]types.TypeId) {
	if len(nodes) == 0 {
		return nil, outer
	}
	names := make([]string, len(nodes))
	tparams := make(map[string]types.TypeId, len(outer)+len(nodes))
	for k, v := range outer {
		tparams[k] = v
	}
	for i, n := range nodes {
		tp := c.Arena.GetTypeParameter(n)
		constraint := types.NoType
		if tp.Constraint != cnode.NoNode {
			constraint = c.typeOfTypeNode(tp.Constraint, tparams)
		}
		def := types.NoType
		if tp.Default != cnode.NoNode {
			def = c.typeOfTypeNode(tp.Default, tparams)
		}
		id := c.Store.MakeTypeParameter(tp.Name, constraint, def)
		tparams[tp.Name] = id
		names[i] = tp.Name
	}
	return names, tparams
}

func (c *Checker) propsFromInterfaceMembers(members []cnode.NodeIndex, tparams map[string]types.TypeId) ([]types.Property, *types.IndexInfo, *types.IndexInfo) {
	var props []types.Property
	var stringIdx, numberIdx *types.IndexInfo
	for _, m := range members {
		switch c.Arena.Kind(m) {
		case cnode.KindPropertySignature:
			ps := c.Arena.GetPropertySignature(m)
			props = append(props, types.Property{Name: c.Atoms.Intern(ps.Name), Type: c.typeOfTypeNode(ps.Type, tparams), Optional: ps.Optional, Readonly: ps.Readonly})
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
	return props, stringIdx, numberIdx
}

// mergeInherited adds every property of base not already present in own
// (own's own declarations win, matching TypeScript's override-by-redeclare
// rule for interface/class inheritance).
func mergeInherited(store *types.Store, base types.TypeId, own []types.Property) []types.Property {
	obj, ok := store.Underlying(base).(types.Object)
	if !ok {
		return own
	}
	have := make(map[atom.Atom]bool, len(own))
	for _, p := range own {
		have[p.Name] = true
	}
	out := own
	for _, p := range obj.Props {
		if !have[p.Name] {
			out = append(out, p)
		}
	}
	return out
}

func (c *Checker) declareClassDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	cd := c.Arena.GetClass(st)
	name := c.Atoms.Intern(cd.Name)
	sym := c.Binder.NewSymbol(binder.Symbol{Name: name, Flags: binder.FlagValue | binder.FlagType | binder.FlagClass, Declarations: []cnode.NodeIndex{st}, ValueDeclaration: st})
	c.Binder.Declare(scope, name, sym)
	c.Binder.BindSymbol(st, sym)

	params, tparamIds := c.typeParamList(cd.TypeParams, nil)
	ci := &classInfo{private: make(map[atom.Atom]bool)}
	c.classInfo[sym] = ci
	for _, m := range cd.Members {
		switch c.Arena.Kind(m) {
		case cnode.KindPropertyDecl:
			if pd := c.Arena.GetPropertyDecl(m); pd.IsPrivate {
				ci.private[c.Atoms.Intern(pd.Name)] = true
			}
		case cnode.KindMethodDecl:
			if md := c.Arena.GetMethodDecl(m); md.IsPrivate {
				ci.private[c.Atoms.Intern(md.Name)] = true
			}
		}
	}

	defID := c.defs.Register(params, func() types.TypeId {
		props := c.propsFromClassMembers(cd.Members, tparamIds, ci)
		if cd.Extends != cnode.NoNode {
			base := c.typeOfTypeNode(cd.Extends, tparamIds)
			props = mergeInherited(c.Store, base, props)
		}
		return c.Store.Shape(props, nil, nil)
	})
	c.registerDefSymbol(sym, defID, params)

	args := make([]types.TypeId, len(params))
	for i := range args {
		args[i] = types.Any
	}
	ci.instance = c.Store.MakeApplication(c.Store.MakeLazy(defID), args)
}

func (c *Checker) propsFromClassMembers(members []cnode.NodeIndex, tparams map[string]types.TypeId, ci *classInfo) []types.Property {
	var props []types.Property
	for _, m := range members {
		switch c.Arena.Kind(m) {
		case cnode.KindPropertyDecl:
			pd := c.Arena.GetPropertyDecl(m)
			ty := types.Any
			if pd.Type != cnode.NoNode {
				ty = c.typeOfTypeNode(pd.Type, tparams)
			}
			na := c.Atoms.Intern(pd.Name)
			props = append(props, types.Property{Name: na, Type: ty})
			if pd.IsPrivate {
				ci.private[na] = true
			}
		case cnode.KindMethodDecl:
			md := c.Arena.GetMethodDecl(m)
			fn := c.Arena.GetFunctionLike(md.Fn)
			sig := c.typeOfFunctionSignature(fn.TypeParams, fn.Params, fn.ReturnType, tparams)
			na := c.Atoms.Intern(md.Name)
			props = append(props, types.Property{Name: na, Type: c.Store.MakeFunction(sig)})
			if md.IsPrivate {
				ci.private[na] = true
			}
		}
	}
	return props
}

func (c *Checker) declareEnumDecl(st cnode.NodeIndex, scope binder.ScopeId) {
	ed := c.Arena.GetEnum(st)
	name := c.Atoms.Intern(ed.Name)
	sym := c.Binder.NewSymbol(binder.Symbol{Name: name, Flags: binder.FlagValue | binder.FlagType | binder.FlagEnum, Declarations: []cnode.NodeIndex{st}})
	c.Binder.Declare(scope, name, sym)
	c.Binder.BindSymbol(st, sym)

	members := make(map[atom.Atom]types.TypeId, len(ed.Members))
	memberTypes := make([]types.TypeId, 0, len(ed.Members))
	nextNumeric := 0.0
	for _, mem := range ed.Members {
		md := c.Arena.GetEnumMember(mem)
		var mt types.TypeId
		switch {
		case md.Initializer == cnode.NoNode:
			mt = c.Store.LiteralNumber(nextNumeric)
			nextNumeric++
		case c.Arena.Kind(md.Initializer) == cnode.KindNumericLiteral:
			v := c.Arena.GetNumericLiteral(md.Initializer).Value
			mt = c.Store.LiteralNumber(v)
			nextNumeric = v + 1
		case c.Arena.Kind(md.Initializer) == cnode.KindStringLiteral:
			mt = c.Store.LiteralString(c.Arena.GetStringLiteral(md.Initializer).Value)
		default:
			mt = c.exprType(md.Initializer, c.Binder.RootScope())
		}
		members[c.Atoms.Intern(md.Name)] = mt
		memberTypes = append(memberTypes, mt)
	}
	memberUnion := c.Store.Union(memberTypes)
	enumID := c.Store.MakeEnum(uint32(sym), memberUnion)
	c.enumInfo[sym] = &enumInfo{members: members, memberUnion: memberUnion}
	c.symbolType[sym] = enumID
}

func (c *Checker) symbolTypeOf(sym binder.SymbolId, typeArgs ...types.TypeId) types.TypeId {
	if ci, ok := c.classInfo[sym]; ok {
		return ci.instance
	}
	// An enum symbol's type is the types.Enum TypeId set in symbolType by
	// declareEnumDecl, not enumInfo's bare member union directly, so that a
	// `let c: Color` declared type still carries the Enum wrapper
	// isAssignable needs to apply the numeric-enum leniency rule.
	if ref, ok := c.symbolDef[sym]; ok {
		base := c.Store.MakeLazy(ref.defID)
		return c.Store.MakeApplication(base, typeArgs)
	}
	if t, ok := c.symbolType[sym]; ok {
		return t
	}
	if c.computing[sym] {
		c.Reporter.Reportf(diag.CircularInheritance, diag.CategoryError, c.file, 0, 0, c.Atoms.Lookup(c.Binder.Symbol(sym).Name))
		return types.ErrorType
	}
	return types.Any
}
