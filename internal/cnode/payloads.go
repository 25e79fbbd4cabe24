package cnode

// Payload structs carried in Node.Data, one per Kind that needs structured
// fields beyond Pos/End/Flags. Kinds not listed here (e.g. KindNullLiteral)
// carry no payload.

type IdentifierData struct {
	Text string
}

type NumericLiteralData struct {
	Value float64
}

type StringLiteralData struct {
	Value string
}

type BooleanLiteralData struct {
	Value bool
}

type BigIntLiteralData struct {
	Value string // decimal digits, sign-less
}

type ArrayLiteralData struct {
	Elements []NodeIndex // may contain KindSpreadElement entries
}

type PropertyAssignmentData struct {
	Name      string
	Value     NodeIndex
	Computed  bool
	Shorthand bool
	Spread    bool // `...expr` entry; Name is unused, Value is the spread expression
}

type ObjectLiteralData struct {
	Properties []NodeIndex // of KindPropertyAssignment
}

type SpreadElementData struct {
	Expr NodeIndex
}

type TemplateExprSpan struct {
	Text string
	Expr NodeIndex // NoNode for a text-only span
}

type TemplateExprData struct {
	Spans []TemplateExprSpan
}

type AssignmentExprData struct {
	Op     string // "=", "+=", ...
	Target NodeIndex
	Value  NodeIndex
}

type ParenExprData struct {
	Inner NodeIndex
}

type BinaryExprData struct {
	Op    string // "+","===","!==","==","!=","instanceof","in","&&","||","??"
	Left  NodeIndex
	Right NodeIndex
}

type UnaryExprData struct {
	Op      string // "!","-","+","typeof","void"
	Operand NodeIndex
}

type TypeOfExprData struct {
	Operand NodeIndex
}

type ConditionalExprData struct {
	Cond NodeIndex
	Then NodeIndex
	Else NodeIndex
}

type CallExprData struct {
	Callee    NodeIndex
	Args      []NodeIndex
	TypeArgs  []NodeIndex
	IsOptional bool // `?.()`
}

type NewExprData struct {
	Callee   NodeIndex
	Args     []NodeIndex
	TypeArgs []NodeIndex
}

type PropertyAccessData struct {
	Object   NodeIndex
	Name     string
	IsPrivate bool
	Optional  bool // `?.`
}

type ElementAccessData struct {
	Object NodeIndex
	Index  NodeIndex
}

type ParamData struct {
	Name      string
	Type      NodeIndex // NoNode if untyped
	Default   NodeIndex
	Optional  bool
	Rest      bool
}

type FunctionLikeData struct {
	Name       string // empty for anonymous
	TypeParams []NodeIndex
	Params     []NodeIndex
	ReturnType NodeIndex // NoNode if inferred
	Body       NodeIndex // Block or expression (arrow concise body)
	ThisParam  NodeIndex
}

type VarDeclData struct {
	Name        string
	Type        NodeIndex
	Init        NodeIndex
	IsLet       bool
	IsConst     bool
	BindingKind string // "array" | "object" | "" for simple identifier patterns
	Elements    []NodeIndex // destructuring elements when BindingKind != ""
}

type ClassMemberCommon struct {
	Name      string
	IsPrivate bool
}

type PropertyDeclData struct {
	Name      string
	IsPrivate bool
	Type      NodeIndex
	Init      NodeIndex
}

type MethodDeclData struct {
	Name      string
	IsPrivate bool
	Fn        NodeIndex // FunctionExpr-shaped node
}

type ClassDeclData struct {
	Name       string
	TypeParams []NodeIndex
	Extends    NodeIndex // TypeReference or NoNode
	Implements []NodeIndex
	Members    []NodeIndex
}

type InterfaceDeclData struct {
	Name       string
	TypeParams []NodeIndex
	Extends    []NodeIndex
	Members    []NodeIndex // PropertySignature / IndexSignature / method signatures
}

type TypeAliasDeclData struct {
	Name       string
	TypeParams []NodeIndex
	Type       NodeIndex
}

type EnumDeclData struct {
	Name    string
	IsConst bool
	Members []NodeIndex
}

type EnumMemberData struct {
	Name        string
	Initializer NodeIndex // NoNode if implicit
}

type ImportSpecifierData struct {
	Imported string
	Local    string
}

type ImportDeclData struct {
	ModuleSpecifier string
	Specifiers      []NodeIndex // ImportSpecifier, empty = namespace/side-effect import
	IsNamespace     bool
	NamespaceLocal  string
}

type ExportDeclData struct {
	ModuleSpecifier string      // re-export source, "" for local export
	Specifiers      []NodeIndex // ExportSpecifier
	IsWildcard      bool        // `export * from '...'`
	WildcardAs      string      // `export * as ns from '...'`, "" if none
	Decl            NodeIndex   // `export const/function/...`, NoNode otherwise
}

type ExportSpecifierData struct {
	Local    string
	Exported string
}

type ModuleDeclData struct {
	Name string // namespace/module name
	Body []NodeIndex
}

type BlockData struct {
	Statements []NodeIndex
}

type IfStmtData struct {
	Cond NodeIndex
	Then NodeIndex
	Else NodeIndex // NoNode if absent
}

type ReturnStmtData struct {
	Expr NodeIndex // NoNode for bare `return`
}

type ExpressionStmtData struct {
	Expr NodeIndex
}

type SourceFileData struct {
	FileName   string
	Statements []NodeIndex
}

// Type nodes

type TypeReferenceData struct {
	Name     string
	TypeArgs []NodeIndex
}

type UnionTypeData struct{ Members []NodeIndex }
type IntersectionTypeData struct{ Members []NodeIndex }
type ArrayTypeData struct{ Element NodeIndex }

type TupleElementData struct {
	Type     NodeIndex
	Label    string
	Optional bool
	Rest     bool
}

type TupleTypeData struct{ Elements []NodeIndex } // of KindTupleElement

type FunctionTypeData struct {
	TypeParams []NodeIndex
	Params     []NodeIndex
	ReturnType NodeIndex
}

type PropertySignatureData struct {
	Name     string
	Type     NodeIndex
	Optional bool
	Readonly bool
}

type IndexSignatureData struct {
	KeyType   NodeIndex // string or number TypeReference
	ValueType NodeIndex
	Readonly  bool
}

type ObjectTypeData struct{ Members []NodeIndex } // PropertySignature / IndexSignature

type ConditionalTypeData struct {
	Check   NodeIndex
	Extends NodeIndex
	True    NodeIndex
	False   NodeIndex
}

// Modifier is add/remove/none for a mapped type's readonly/optional flags.
type Modifier uint8

const (
	ModifierNone Modifier = iota
	ModifierAdd
	ModifierRemove
)

type MappedTypeData struct {
	Param          string // `K`
	Constraint     NodeIndex
	NameType       NodeIndex // `as N`, NoNode if absent
	Template       NodeIndex
	ReadonlyMod    Modifier
	OptionalMod    Modifier
}

type IndexedAccessTypeData struct {
	Object NodeIndex
	Index  NodeIndex
}

type KeyOfTypeData struct{ Inner NodeIndex }

type TemplateSpanData struct {
	Text string
	Type NodeIndex // NoNode for a trailing/leading text-only span
}

type TemplateLiteralTypeData struct{ Spans []TemplateSpanData }

type InferTypeData struct{ Name string }

type ReadonlyTypeOperatorData struct{ Inner NodeIndex }

type TypeParameterData struct {
	Name       string
	Constraint NodeIndex
	Default    NodeIndex
}

type TypeQueryData struct{ Name string }

type LiteralTypeData struct {
	Kind  string // "string" | "number" | "boolean" | "bigint"
	SVal  string
	NVal  float64
	BVal  bool
}
