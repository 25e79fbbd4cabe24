package binder

import (
	"testing"

	"github.com/tscorelang/tscheck/internal/atom"
	"github.com/tscorelang/tscheck/internal/cnode"
)

func TestResolveIdentifierFindsEnclosingScope(t *testing.T) {
	atoms := atom.NewTable()
	s := NewState(atoms, "a.ts")

	x := atoms.Intern("x")
	sym := s.NewSymbol(Symbol{Name: x, Flags: FlagValue})
	s.Declare(s.RootScope(), x, sym)

	inner := s.NewScope(ScopeBlock, s.RootScope(), cnode.NoNode)
	use := cnode.NodeIndex(7)
	s.BindNode(use, inner)

	got, ok := s.ResolveIdentifier(use, x)
	if !ok || got != sym {
		t.Fatalf("ResolveIdentifier(x) = %v, %v; want %v, true", got, ok, sym)
	}
}

func TestResolveIdentifierMissReturnsFalse(t *testing.T) {
	atoms := atom.NewTable()
	s := NewState(atoms, "a.ts")
	got, ok := s.ResolveIdentifier(cnode.NodeIndex(3), atoms.Intern("nope"))
	if ok {
		t.Fatalf("expected miss, got symbol %v", got)
	}
}

func TestInnerScopeShadowsOuter(t *testing.T) {
	atoms := atom.NewTable()
	s := NewState(atoms, "a.ts")
	x := atoms.Intern("x")

	outer := s.NewSymbol(Symbol{Name: x, Flags: FlagValue})
	s.Declare(s.RootScope(), x, outer)

	block := s.NewScope(ScopeBlock, s.RootScope(), cnode.NoNode)
	inner := s.NewSymbol(Symbol{Name: x, Flags: FlagValue, Parent: NoSymbol})
	s.Declare(block, x, inner)

	use := cnode.NodeIndex(9)
	s.BindNode(use, block)
	got, ok := s.ResolveIdentifier(use, x)
	if !ok || got != inner {
		t.Fatalf("inner scope should shadow outer: got %v want %v", got, inner)
	}
}

func TestFileLocalFallback(t *testing.T) {
	atoms := atom.NewTable()
	s := NewState(atoms, "a.ts")
	x := atoms.Intern("topLevel")
	sym := s.NewSymbol(Symbol{Name: x, Flags: FlagValue})
	s.Declare(s.RootScope(), x, sym)

	block := s.NewScope(ScopeBlock, s.RootScope(), cnode.NoNode)
	deeper := s.NewScope(ScopeBlock, block, cnode.NoNode)
	use := cnode.NodeIndex(11)
	s.BindNode(use, deeper)

	got, ok := s.ResolveIdentifier(use, x)
	if !ok || got != sym {
		t.Fatalf("expected to walk up to root scope binding, got %v, %v", got, ok)
	}
}

func TestLibFallbackSearchedLast(t *testing.T) {
	atoms := atom.NewTable()
	lib := NewState(atoms, "lib.es5.d.ts")
	arrayName := atoms.Intern("Array")
	libSym := lib.NewSymbol(Symbol{Name: arrayName, Flags: FlagType})
	lib.Declare(lib.RootScope(), arrayName, libSym)

	s := NewState(atoms, "a.ts")
	s.Libs = append(s.Libs, lib)

	use := cnode.NodeIndex(5)
	got, ok := s.ResolveIdentifier(use, arrayName)
	if !ok || got != libSym {
		t.Fatalf("expected lib fallback to find Array, got %v, %v", got, ok)
	}
}

func TestLocalDeclarationShadowsLib(t *testing.T) {
	atoms := atom.NewTable()
	lib := NewState(atoms, "lib.es5.d.ts")
	name := atoms.Intern("Array")
	libSym := lib.NewSymbol(Symbol{Name: name, Flags: FlagType})
	lib.Declare(lib.RootScope(), name, libSym)

	s := NewState(atoms, "a.ts")
	s.Libs = append(s.Libs, lib)
	localSym := s.NewSymbol(Symbol{Name: name, Flags: FlagClass})
	s.Declare(s.RootScope(), name, localSym)

	got, ok := s.ResolveIdentifier(cnode.NodeIndex(2), name)
	if !ok || got != localSym {
		t.Fatalf("local declaration should shadow lib, got %v want %v", got, localSym)
	}
}

func TestResolvePrivateIdentifierClassScopeOnly(t *testing.T) {
	atoms := atom.NewTable()
	s := NewState(atoms, "a.ts")
	name := atoms.Intern("#field")

	classSym := s.NewSymbol(Symbol{Name: atoms.Intern("C"), Flags: FlagClass, Members: ExportTable{}})
	fieldSym := s.NewSymbol(Symbol{Name: name, Flags: FlagValue})
	s.Symbol(classSym).Members[name] = fieldSym

	classScope := s.NewScope(ScopeClass, s.RootScope(), cnode.NoNode)
	s.Scope(classScope).ContainerSymbol = classSym
	methodScope := s.NewScope(ScopeFunction, classScope, cnode.NoNode)

	got, ok := s.ResolvePrivateIdentifier(methodScope, name)
	if !ok || got != fieldSym {
		t.Fatalf("expected private field resolution, got %v, %v", got, ok)
	}

	outsideGot, outsideOk := s.ResolvePrivateIdentifier(s.RootScope(), name)
	if outsideOk {
		t.Fatalf("private identifier resolved outside class body: %v", outsideGot)
	}
}

func TestResolveAliasFollowsImportChain(t *testing.T) {
	atoms := atom.NewTable()
	u := NewUniverse()

	base := NewState(atoms, "base.ts")
	name := atoms.Intern("Widget")
	real := base.NewSymbol(Symbol{Name: name, Flags: FlagClass})
	base.ModuleExports["base.ts"] = ExportTable{name: real}
	u.Add(base)

	mid := NewState(atoms, "mid.ts")
	aliasName := atoms.Intern("Widget2")
	aliasSym := mid.NewSymbol(Symbol{Name: aliasName, Flags: FlagAlias, ImportModule: "base.ts", ImportName: "Widget"})
	mid.ModuleExports["mid.ts"] = ExportTable{aliasName: aliasSym}
	u.Add(mid)

	file, id, ok := u.ResolveAlias("mid.ts", aliasName)
	if !ok {
		t.Fatalf("expected alias chain to resolve")
	}
	if file != base || id != real {
		t.Fatalf("resolved to %v/%v, want base.ts/%v", file.OwnModule, id, real)
	}
}

func TestResolveAliasDetectsCycle(t *testing.T) {
	atoms := atom.NewTable()
	u := NewUniverse()

	a := NewState(atoms, "a.ts")
	x := atoms.Intern("X")
	aSym := a.NewSymbol(Symbol{Name: x, Flags: FlagAlias, ImportModule: "b.ts", ImportName: "X"})
	a.ModuleExports["a.ts"] = ExportTable{x: aSym}
	u.Add(a)

	b := NewState(atoms, "b.ts")
	bSym := b.NewSymbol(Symbol{Name: x, Flags: FlagAlias, ImportModule: "a.ts", ImportName: "X"})
	b.ModuleExports["b.ts"] = ExportTable{x: bSym}
	u.Add(b)

	_, _, ok := u.ResolveAlias("a.ts", x)
	if ok {
		t.Fatalf("expected cycle detection to fail resolution")
	}
}

func TestResolveAliasWildcardReexport(t *testing.T) {
	atoms := atom.NewTable()
	u := NewUniverse()

	base := NewState(atoms, "base.ts")
	name := atoms.Intern("Thing")
	real := base.NewSymbol(Symbol{Name: name, Flags: FlagValue})
	base.ModuleExports["base.ts"] = ExportTable{name: real}
	u.Add(base)

	barrel := NewState(atoms, "barrel.ts")
	barrel.WildcardReexports["barrel.ts"] = []string{"base.ts"}
	u.Add(barrel)

	file, id, ok := u.ResolveAlias("barrel.ts", name)
	if !ok || file != base || id != real {
		t.Fatalf("wildcard reexport did not resolve: file=%v id=%v ok=%v", file, id, ok)
	}
}
