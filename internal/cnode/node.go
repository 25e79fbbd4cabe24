// Package cnode defines the input contract the checker core consumes: a
// NodeArena of stable-index AST nodes produced by an external parser (spec
// §1, §6). Nothing in this package parses source text; it only describes
// the shape a parser must hand the checker, the way the teacher's
// cmd/typecheck/demo_ast.go hand-builds an *ast.File to feed a checker
// without running its own lexer.
package cnode

import "fmt"

// NodeIndex is a stable handle into an Arena. Indices are never reused or
// renumbered once assigned.
type NodeIndex int32

// NoNode is the absent-node sentinel, used for optional children.
const NoNode NodeIndex = -1

// Kind tags the payload carried by a Node.
type Kind uint16

const (
	KindInvalid Kind = iota

	// Expressions
	KindIdentifier
	KindPrivateIdentifier
	KindNumericLiteral
	KindStringLiteral
	KindBooleanLiteral
	KindNullLiteral
	KindUndefinedLiteral
	KindBigIntLiteral
	KindArrayLiteral
	KindObjectLiteral
	KindPropertyAssignment
	KindBinaryExpr
	KindUnaryExpr
	KindTypeOfExpr
	KindConditionalExpr // a ? b : c
	KindCallExpr
	KindNewExpr
	KindPropertyAccess
	KindElementAccess
	KindParenExpr
	KindFunctionExpr
	KindArrowFunction
	KindSpreadElement
	KindTemplateExpr
	KindAssignmentExpr
	KindInExpr

	// Declarations
	KindVarDecl
	KindParameter
	KindFunctionDecl
	KindClassDecl
	KindPropertyDecl
	KindMethodDecl
	KindInterfaceDecl
	KindTypeAliasDecl
	KindEnumDecl
	KindEnumMember
	KindImportDecl
	KindImportSpecifier
	KindExportDecl
	KindExportSpecifier
	KindModuleDecl

	// Statements
	KindSourceFile
	KindBlock
	KindIfStmt
	KindReturnStmt
	KindExpressionStmt

	// Type nodes
	KindTypeReference
	KindUnionType
	KindIntersectionType
	KindArrayType
	KindTupleType
	KindTupleElement
	KindFunctionType
	KindObjectType
	KindPropertySignature
	KindIndexSignature
	KindConditionalType
	KindMappedType
	KindIndexedAccessType
	KindKeyOfType
	KindTemplateLiteralType
	KindInferType
	KindReadonlyTypeOperator
	KindTypeParameter
	KindTypeQuery
	KindThisType
	KindLiteralType
)

// Flags are boolean node properties that don't warrant their own Kind.
type Flags uint32

const (
	FlagNone        Flags = 0
	FlagConst       Flags = 1 << iota // `const` binding
	FlagReadonly                      // `readonly` modifier
	FlagOptional                      // `?` modifier on param/property
	FlagRest                          // `...` rest parameter/element
	FlagStatic                        // `static` class member
	FlagPrivateName                   // `#name` class member
	FlagAbstract                      // `abstract` class/member
	FlagDistributive                  // conditional type's check is a naked type parameter
	FlagAsync
	FlagGenerator
	FlagDeclare
)

// Has reports whether f contains all bits of want.
func (f Flags) Has(want Flags) bool { return f&want == want }

// Node is one entry in an Arena. Data holds a *KindPayload struct matching
// Kind; use the Get* accessors rather than asserting directly.
type Node struct {
	Kind  Kind
	Pos   int
	End   int
	Flags Flags
	Data  any
}

// Arena is an append-only store of Nodes addressed by NodeIndex, the
// checker's view of "the AST" (spec §6).
type Arena struct {
	nodes []Node
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: []Node{{Kind: KindInvalid}}} // index 0 reserved
}

// Add appends a node and returns its stable index.
func (a *Arena) Add(n Node) NodeIndex {
	a.nodes = append(a.nodes, n)
	return NodeIndex(len(a.nodes) - 1)
}

// Get returns the node at idx. Panics on out-of-range idx, mirroring the
// teacher's typed-accessor panics on payload-kind mismatch: an invalid
// NodeIndex is a bug in the caller, not recoverable input.
func (a *Arena) Get(idx NodeIndex) *Node {
	if idx == NoNode {
		panic("cnode: Get(NoNode)")
	}
	return &a.nodes[idx]
}

// Kind returns the kind of the node at idx, or KindInvalid for NoNode.
func (a *Arena) Kind(idx NodeIndex) Kind {
	if idx == NoNode {
		return KindInvalid
	}
	return a.nodes[idx].Kind
}

// Len returns the number of nodes in the arena, including the reserved slot.
func (a *Arena) Len() int { return len(a.nodes) }

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", k)
}

var kindNames = map[Kind]string{
	KindIdentifier:          "Identifier",
	KindPrivateIdentifier:   "PrivateIdentifier",
	KindNumericLiteral:      "NumericLiteral",
	KindStringLiteral:       "StringLiteral",
	KindBooleanLiteral:      "BooleanLiteral",
	KindNullLiteral:         "NullLiteral",
	KindUndefinedLiteral:    "UndefinedLiteral",
	KindBinaryExpr:          "BinaryExpr",
	KindUnaryExpr:           "UnaryExpr",
	KindTypeOfExpr:          "TypeOfExpr",
	KindConditionalExpr:     "ConditionalExpr",
	KindCallExpr:            "CallExpr",
	KindNewExpr:             "NewExpr",
	KindPropertyAccess:      "PropertyAccess",
	KindElementAccess:       "ElementAccess",
	KindFunctionExpr:        "FunctionExpr",
	KindArrowFunction:       "ArrowFunction",
	KindVarDecl:             "VarDecl",
	KindFunctionDecl:        "FunctionDecl",
	KindClassDecl:           "ClassDecl",
	KindPropertyDecl:        "PropertyDecl",
	KindMethodDecl:          "MethodDecl",
	KindInterfaceDecl:       "InterfaceDecl",
	KindTypeAliasDecl:       "TypeAliasDecl",
	KindEnumDecl:            "EnumDecl",
	KindEnumMember:          "EnumMember",
	KindImportDecl:          "ImportDecl",
	KindModuleDecl:          "ModuleDecl",
	KindSourceFile:          "SourceFile",
	KindBlock:               "Block",
	KindIfStmt:              "IfStmt",
	KindTypeReference:       "TypeReference",
	KindUnionType:           "UnionType",
	KindIntersectionType:    "IntersectionType",
	KindArrayType:           "ArrayType",
	KindTupleType:           "TupleType",
	KindFunctionType:        "FunctionType",
	KindObjectType:          "ObjectType",
	KindConditionalType:     "ConditionalType",
	KindMappedType:          "MappedType",
	KindIndexedAccessType:   "IndexedAccessType",
	KindKeyOfType:           "KeyOfType",
	KindTemplateLiteralType: "TemplateLiteralType",
	KindInferType:           "InferType",
	KindTypeParameter:       "TypeParameter",
	KindTypeQuery:           "TypeQuery",
	KindThisType:            "ThisType",
	KindLiteralType:         "LiteralType",
}
