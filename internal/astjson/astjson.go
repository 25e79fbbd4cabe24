// Package astjson decodes the JSON wire format an external parser hands the
// checker core into a cnode.Arena (spec §1 "lexer and parser ... produces an
// AST with stable node indices", treated as an external collaborator). It is
// the checker's one concrete boundary adapter: cmd/tscheck and
// internal/harness's conformance runner both load fixtures through it rather
// than hand-building *cnode.Node literals the way internal/checker's tests
// do, the same division of labor the teacher draws between its lexer/parser
// packages and cmd/typecheck/demo_ast.go's hand-built fixtures.
package astjson

import (
	"encoding/json"
	"fmt"

	"github.com/tscorelang/tscheck/internal/cnode"
)

// File is the top-level decoded unit: a source file's AST root plus the raw
// text of its leading comment block, which internal/harness.ParseDirectives
// scans for `// @key: value` directives (spec §6). A real parser retains
// leading trivia; this field is where it hands that trivia to the checker's
// tooling without the checker itself ever tokenizing source text.
type File struct {
	FileName   string
	Root       cnode.NodeIndex
	Directives string
}

// wireNode is the generic JSON shape of one AST node. Every payload field
// used by any cnode Kind appears here once; decodeNode below picks the ones
// relevant to the node's own Kind. Unused fields for a given Kind are simply
// left as their zero value.
type wireNode struct {
	Kind  string   `json:"kind"`
	Pos   int      `json:"pos"`
	End   int      `json:"end"`
	Flags []string `json:"flags"`

	Text string `json:"text"`

	// RawValue holds a literal node's value; its JSON shape (number, string,
	// bool) depends on Kind, so it is decoded on demand rather than split
	// across several same-tagged struct fields.
	RawValue json.RawMessage `json:"value"`

	Name string `json:"name"`

	Elements   []json.RawMessage `json:"elements"`
	Properties []json.RawMessage `json:"properties"`

	PropName  string          `json:"propName"`
	PropValue json.RawMessage `json:"propValue"`
	Computed  bool            `json:"computed"`
	Shorthand bool            `json:"shorthand"`
	Spread    bool            `json:"spread"`

	Op    string          `json:"op"`
	Left  json.RawMessage `json:"left"`
	Right json.RawMessage `json:"right"`

	Operand json.RawMessage `json:"operand"`

	Cond json.RawMessage `json:"cond"`
	Then json.RawMessage `json:"then"`
	Else json.RawMessage `json:"else"`

	Callee     json.RawMessage   `json:"callee"`
	Args       []json.RawMessage `json:"args"`
	TypeArgs   []json.RawMessage `json:"typeArgs"`
	IsOptional bool              `json:"isOptional"`

	Object    json.RawMessage `json:"object"`
	Index     json.RawMessage `json:"index"`
	IsPrivate bool            `json:"isPrivate"`
	Optional  bool            `json:"optional"`

	Inner json.RawMessage `json:"inner"`

	Spans []json.RawMessage `json:"spans"`

	Target json.RawMessage `json:"target"`
	Value2 json.RawMessage `json:"exprValue"` // AssignmentExpr's Value (distinct from literal Value)

	Type       json.RawMessage   `json:"type"`
	Default    json.RawMessage   `json:"default"`
	Rest       bool              `json:"rest"`
	TypeParams []json.RawMessage `json:"typeParams"`
	Params     []json.RawMessage `json:"params"`
	ReturnType json.RawMessage   `json:"returnType"`
	Body       json.RawMessage   `json:"body"`
	ThisParam  json.RawMessage   `json:"thisParam"`

	Init        json.RawMessage   `json:"init"`
	IsLet       bool              `json:"isLet"`
	IsConst     bool              `json:"isConst"`
	BindingKind string            `json:"bindingKind"`
	BindElems   []json.RawMessage `json:"bindingElements"`

	Fn         json.RawMessage   `json:"fn"`
	Extends    json.RawMessage   `json:"extends"`
	Check      json.RawMessage   `json:"check"`
	True       json.RawMessage   `json:"true"`
	False      json.RawMessage   `json:"false"`
	Implements []json.RawMessage `json:"implements"`
	Members    []json.RawMessage `json:"members"`

	Expr json.RawMessage `json:"expr"`

	Label string `json:"label"`

	ModuleSpecifier string            `json:"moduleSpecifier"`
	Specifiers      []json.RawMessage `json:"specifiers"`
	IsNamespace     bool              `json:"isNamespace"`
	NamespaceLocal  string            `json:"namespaceLocal"`
	IsWildcard      bool              `json:"isWildcard"`
	WildcardAs      string            `json:"wildcardAs"`
	Decl            json.RawMessage   `json:"decl"`
	Local           string            `json:"local"`
	Imported        string            `json:"imported"`
	Exported        string            `json:"exported"`

	Statements []json.RawMessage `json:"statements"`
	FileName   string            `json:"fileName"`

	Param       string          `json:"param"`
	Constraint  json.RawMessage `json:"constraint"`
	NameType    json.RawMessage `json:"nameType"`
	Template    json.RawMessage `json:"template"`
	ReadonlyMod string          `json:"readonlyMod"`
	OptionalMod string          `json:"optionalMod"`
	Readonly    bool            `json:"readonly"`

	KeyType   json.RawMessage `json:"keyType"`
	ValueType json.RawMessage `json:"valueType"`

	LiteralKind string  `json:"literalKind"`
	SVal        string  `json:"sval"`
	NVal        float64 `json:"nval"`
	BVal        bool    `json:"bval"`
}

var flagBits = map[string]cnode.Flags{
	"Const":       cnode.FlagConst,
	"Readonly":    cnode.FlagReadonly,
	"Optional":    cnode.FlagOptional,
	"Rest":        cnode.FlagRest,
	"Static":      cnode.FlagStatic,
	"PrivateName": cnode.FlagPrivateName,
	"Abstract":    cnode.FlagAbstract,
	"Distributive": cnode.FlagDistributive,
	"Async":       cnode.FlagAsync,
	"Generator":   cnode.FlagGenerator,
	"Declare":     cnode.FlagDeclare,
}

func decodeFlags(names []string) cnode.Flags {
	var f cnode.Flags
	for _, n := range names {
		f |= flagBits[n]
	}
	return f
}

// Decode parses data (one source file's JSON AST, as produced by an
// external parser) into arena and returns its File, including the raw
// leading-comment text the harness directive grammar scans.
func Decode(data []byte, arena *cnode.Arena) (File, error) {
	var top struct {
		FileName   string          `json:"fileName"`
		Directives string          `json:"directives"`
		Root       json.RawMessage `json:"root"`
	}
	if err := json.Unmarshal(data, &top); err != nil {
		return File{}, fmt.Errorf("astjson: decoding file: %w", err)
	}
	root, err := decodeNode(top.Root, arena)
	if err != nil {
		return File{}, fmt.Errorf("astjson: decoding %s: %w", top.FileName, err)
	}
	return File{FileName: top.FileName, Root: root, Directives: top.Directives}, nil
}

func decodeOpt(raw json.RawMessage, arena *cnode.Arena) (cnode.NodeIndex, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return cnode.NoNode, nil
	}
	return decodeNode(raw, arena)
}

func decodeList(raws []json.RawMessage, arena *cnode.Arena) ([]cnode.NodeIndex, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]cnode.NodeIndex, 0, len(raws))
	for _, r := range raws {
		idx, err := decodeNode(r, arena)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

// decodeNode decodes one JSON node object (and, recursively, its children)
// into arena and returns its new stable index. Children are always decoded
// before their parent is Added, so NodeIndex values embedded in a payload
// are always valid by the time the parent node exists.
func decodeNode(raw json.RawMessage, arena *cnode.Arena) (cnode.NodeIndex, error) {
	var w wireNode
	if err := json.Unmarshal(raw, &w); err != nil {
		return cnode.NoNode, fmt.Errorf("decoding node: %w", err)
	}

	n := cnode.Node{Pos: w.Pos, End: w.End, Flags: decodeFlags(w.Flags)}

	switch w.Kind {
	case "Identifier":
		n.Kind = cnode.KindIdentifier
		n.Data = &cnode.IdentifierData{Text: w.Text}
	case "PrivateIdentifier":
		n.Kind = cnode.KindPrivateIdentifier
		n.Data = &cnode.IdentifierData{Text: w.Text}
	case "NumericLiteral":
		n.Kind = cnode.KindNumericLiteral
		var v float64
		if err := unmarshalIfPresent(w.RawValue, &v); err != nil {
			return cnode.NoNode, fmt.Errorf("NumericLiteral value: %w", err)
		}
		n.Data = &cnode.NumericLiteralData{Value: v}
	case "StringLiteral":
		n.Kind = cnode.KindStringLiteral
		var v string
		if err := unmarshalIfPresent(w.RawValue, &v); err != nil {
			return cnode.NoNode, fmt.Errorf("StringLiteral value: %w", err)
		}
		n.Data = &cnode.StringLiteralData{Value: v}
	case "BooleanLiteral":
		n.Kind = cnode.KindBooleanLiteral
		var v bool
		if err := unmarshalIfPresent(w.RawValue, &v); err != nil {
			return cnode.NoNode, fmt.Errorf("BooleanLiteral value: %w", err)
		}
		n.Data = &cnode.BooleanLiteralData{Value: v}
	case "NullLiteral":
		n.Kind = cnode.KindNullLiteral
	case "UndefinedLiteral":
		n.Kind = cnode.KindUndefinedLiteral
	case "BigIntLiteral":
		n.Kind = cnode.KindBigIntLiteral
		var v string
		if err := unmarshalIfPresent(w.RawValue, &v); err != nil {
			return cnode.NoNode, fmt.Errorf("BigIntLiteral value: %w", err)
		}
		n.Data = &cnode.BigIntLiteralData{Value: v}
	case "ArrayLiteral":
		n.Kind = cnode.KindArrayLiteral
		elems, err := decodeList(w.Elements, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ArrayLiteralData{Elements: elems}
	case "PropertyAssignment":
		n.Kind = cnode.KindPropertyAssignment
		val, err := decodeOpt(w.PropValue, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.PropertyAssignmentData{Name: w.PropName, Value: val, Computed: w.Computed, Shorthand: w.Shorthand, Spread: w.Spread}
	case "ObjectLiteral":
		n.Kind = cnode.KindObjectLiteral
		props, err := decodeList(w.Properties, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ObjectLiteralData{Properties: props}
	case "BinaryExpr":
		n.Kind = cnode.KindBinaryExpr
		l, err := decodeNode(w.Left, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		r, err := decodeNode(w.Right, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.BinaryExprData{Op: w.Op, Left: l, Right: r}
	case "UnaryExpr":
		n.Kind = cnode.KindUnaryExpr
		operand, err := decodeNode(w.Operand, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.UnaryExprData{Op: w.Op, Operand: operand}
	case "TypeOfExpr":
		n.Kind = cnode.KindTypeOfExpr
		operand, err := decodeNode(w.Operand, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TypeOfExprData{Operand: operand}
	case "ConditionalExpr":
		n.Kind = cnode.KindConditionalExpr
		cond, err := decodeNode(w.Cond, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		then, err := decodeNode(w.Then, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		els, err := decodeNode(w.Else, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ConditionalExprData{Cond: cond, Then: then, Else: els}
	case "CallExpr":
		n.Kind = cnode.KindCallExpr
		callee, err := decodeNode(w.Callee, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		args, err := decodeList(w.Args, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		typeArgs, err := decodeList(w.TypeArgs, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.CallExprData{Callee: callee, Args: args, TypeArgs: typeArgs, IsOptional: w.IsOptional}
	case "NewExpr":
		n.Kind = cnode.KindNewExpr
		callee, err := decodeNode(w.Callee, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		args, err := decodeList(w.Args, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		typeArgs, err := decodeList(w.TypeArgs, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.NewExprData{Callee: callee, Args: args, TypeArgs: typeArgs}
	case "PropertyAccess":
		n.Kind = cnode.KindPropertyAccess
		obj, err := decodeNode(w.Object, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.PropertyAccessData{Object: obj, Name: w.Name, IsPrivate: w.IsPrivate, Optional: w.Optional}
	case "ElementAccess":
		n.Kind = cnode.KindElementAccess
		obj, err := decodeNode(w.Object, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		index, err := decodeNode(w.Index, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ElementAccessData{Object: obj, Index: index}
	case "ParenExpr":
		n.Kind = cnode.KindParenExpr
		inner, err := decodeNode(w.Inner, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ParenExprData{Inner: inner}
	case "FunctionExpr", "ArrowFunction":
		if w.Kind == "FunctionExpr" {
			n.Kind = cnode.KindFunctionExpr
		} else {
			n.Kind = cnode.KindArrowFunction
		}
		fn, err := decodeFunctionLike(w, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &fn
	case "SpreadElement":
		n.Kind = cnode.KindSpreadElement
		e, err := decodeNode(w.Expr, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.SpreadElementData{Expr: e}
	case "TemplateExpr":
		n.Kind = cnode.KindTemplateExpr
		spans, err := decodeTemplateExprSpans(w.Spans, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TemplateExprData{Spans: spans}
	case "AssignmentExpr":
		n.Kind = cnode.KindAssignmentExpr
		target, err := decodeNode(w.Target, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		val, err := decodeNode(w.Value2, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.AssignmentExprData{Op: w.Op, Target: target, Value: val}
	case "InExpr":
		n.Kind = cnode.KindInExpr
		l, err := decodeNode(w.Left, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		r, err := decodeNode(w.Right, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.BinaryExprData{Op: "in", Left: l, Right: r}

	case "VarDecl":
		n.Kind = cnode.KindVarDecl
		typ, err := decodeOpt(w.Type, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		init, err := decodeOpt(w.Init, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		elems, err := decodeList(w.BindElems, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.VarDeclData{Name: w.Name, Type: typ, Init: init, IsLet: w.IsLet, IsConst: w.IsConst, BindingKind: w.BindingKind, Elements: elems}
	case "Parameter":
		n.Kind = cnode.KindParameter
		p, err := decodeParam(w, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &p
	case "FunctionDecl":
		n.Kind = cnode.KindFunctionDecl
		fn, err := decodeFunctionLike(w, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &fn
	case "ClassDecl":
		n.Kind = cnode.KindClassDecl
		extends, err := decodeOpt(w.Extends, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		typeParams, err := decodeList(w.TypeParams, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		implements, err := decodeList(w.Implements, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		members, err := decodeList(w.Members, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ClassDeclData{Name: w.Name, TypeParams: typeParams, Extends: extends, Implements: implements, Members: members}
	case "PropertyDecl":
		n.Kind = cnode.KindPropertyDecl
		typ, err := decodeOpt(w.Type, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		init, err := decodeOpt(w.Init, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.PropertyDeclData{Name: w.Name, IsPrivate: w.IsPrivate, Type: typ, Init: init}
	case "MethodDecl":
		n.Kind = cnode.KindMethodDecl
		fn, err := decodeOpt(w.Fn, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.MethodDeclData{Name: w.Name, IsPrivate: w.IsPrivate, Fn: fn}
	case "InterfaceDecl":
		n.Kind = cnode.KindInterfaceDecl
		typeParams, err := decodeList(w.TypeParams, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		extends, err := decodeList(w.Implements, arena) // interfaces reuse "implements" JSON key for extends list
		if err != nil {
			return cnode.NoNode, err
		}
		members, err := decodeList(w.Members, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.InterfaceDeclData{Name: w.Name, TypeParams: typeParams, Extends: extends, Members: members}
	case "TypeAliasDecl":
		n.Kind = cnode.KindTypeAliasDecl
		typeParams, err := decodeList(w.TypeParams, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		typ, err := decodeNode(w.Type, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TypeAliasDeclData{Name: w.Name, TypeParams: typeParams, Type: typ}
	case "EnumDecl":
		n.Kind = cnode.KindEnumDecl
		members, err := decodeList(w.Members, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.EnumDeclData{Name: w.Name, IsConst: w.IsConst, Members: members}
	case "EnumMember":
		n.Kind = cnode.KindEnumMember
		init, err := decodeOpt(w.Init, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.EnumMemberData{Name: w.Name, Initializer: init}
	case "ImportSpecifier":
		n.Kind = cnode.KindImportSpecifier
		n.Data = &cnode.ImportSpecifierData{Imported: w.Imported, Local: w.Local}
	case "ImportDecl":
		n.Kind = cnode.KindImportDecl
		specs, err := decodeList(w.Specifiers, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ImportDeclData{ModuleSpecifier: w.ModuleSpecifier, Specifiers: specs, IsNamespace: w.IsNamespace, NamespaceLocal: w.NamespaceLocal}
	case "ExportSpecifier":
		n.Kind = cnode.KindExportSpecifier
		n.Data = &cnode.ExportSpecifierData{Local: w.Local, Exported: w.Exported}
	case "ExportDecl":
		n.Kind = cnode.KindExportDecl
		specs, err := decodeList(w.Specifiers, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		decl, err := decodeOpt(w.Decl, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ExportDeclData{ModuleSpecifier: w.ModuleSpecifier, Specifiers: specs, IsWildcard: w.IsWildcard, WildcardAs: w.WildcardAs, Decl: decl}
	case "ModuleDecl":
		n.Kind = cnode.KindModuleDecl
		body, err := decodeList(w.Statements, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ModuleDeclData{Name: w.Name, Body: body}

	case "SourceFile":
		n.Kind = cnode.KindSourceFile
		stmts, err := decodeList(w.Statements, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.SourceFileData{FileName: w.FileName, Statements: stmts}
	case "Block":
		n.Kind = cnode.KindBlock
		stmts, err := decodeList(w.Statements, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.BlockData{Statements: stmts}
	case "IfStmt":
		n.Kind = cnode.KindIfStmt
		cond, err := decodeNode(w.Cond, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		then, err := decodeNode(w.Then, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		els, err := decodeOpt(w.Else, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.IfStmtData{Cond: cond, Then: then, Else: els}
	case "ReturnStmt":
		n.Kind = cnode.KindReturnStmt
		e, err := decodeOpt(w.Expr, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ReturnStmtData{Expr: e}
	case "ExpressionStmt":
		n.Kind = cnode.KindExpressionStmt
		e, err := decodeNode(w.Expr, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ExpressionStmtData{Expr: e}

	case "TypeReference":
		n.Kind = cnode.KindTypeReference
		typeArgs, err := decodeList(w.TypeArgs, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TypeReferenceData{Name: w.Name, TypeArgs: typeArgs}
	case "UnionType":
		n.Kind = cnode.KindUnionType
		members, err := decodeList(w.Members, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.UnionTypeData{Members: members}
	case "IntersectionType":
		n.Kind = cnode.KindIntersectionType
		members, err := decodeList(w.Members, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.IntersectionTypeData{Members: members}
	case "ArrayType":
		n.Kind = cnode.KindArrayType
		elem, err := decodeNode(w.Inner, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ArrayTypeData{Element: elem}
	case "TupleElement":
		n.Kind = cnode.KindTupleElement
		typ, err := decodeNode(w.Type, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TupleElementData{Type: typ, Label: w.Label, Optional: w.Optional, Rest: w.Rest}
	case "TupleType":
		n.Kind = cnode.KindTupleType
		elems, err := decodeList(w.Elements, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TupleTypeData{Elements: elems}
	case "FunctionType":
		n.Kind = cnode.KindFunctionType
		typeParams, err := decodeList(w.TypeParams, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		params, err := decodeList(w.Params, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		ret, err := decodeNode(w.ReturnType, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.FunctionTypeData{TypeParams: typeParams, Params: params, ReturnType: ret}
	case "PropertySignature":
		n.Kind = cnode.KindPropertySignature
		typ, err := decodeNode(w.Type, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.PropertySignatureData{Name: w.Name, Type: typ, Optional: w.Optional, Readonly: w.Readonly}
	case "IndexSignature":
		n.Kind = cnode.KindIndexSignature
		keyType, err := decodeNode(w.KeyType, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		valType, err := decodeNode(w.ValueType, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.IndexSignatureData{KeyType: keyType, ValueType: valType, Readonly: w.Readonly}
	case "ObjectType":
		n.Kind = cnode.KindObjectType
		members, err := decodeList(w.Members, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ObjectTypeData{Members: members}
	case "ConditionalType":
		n.Kind = cnode.KindConditionalType
		check, err := decodeNode(w.Check, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		ext, err := decodeNode(w.Extends, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		tru, err := decodeNode(w.True, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		fal, err := decodeNode(w.False, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ConditionalTypeData{Check: check, Extends: ext, True: tru, False: fal}
	case "MappedType":
		n.Kind = cnode.KindMappedType
		constraint, err := decodeNode(w.Constraint, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		nameType, err := decodeOpt(w.NameType, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		template, err := decodeNode(w.Template, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.MappedTypeData{
			Param:       w.Param,
			Constraint:  constraint,
			NameType:    nameType,
			Template:    template,
			ReadonlyMod: decodeModifier(w.ReadonlyMod),
			OptionalMod: decodeModifier(w.OptionalMod),
		}
	case "IndexedAccessType":
		n.Kind = cnode.KindIndexedAccessType
		obj, err := decodeNode(w.Object, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		idx, err := decodeNode(w.Index, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.IndexedAccessTypeData{Object: obj, Index: idx}
	case "KeyOfType":
		n.Kind = cnode.KindKeyOfType
		inner, err := decodeNode(w.Inner, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.KeyOfTypeData{Inner: inner}
	case "TemplateLiteralType":
		n.Kind = cnode.KindTemplateLiteralType
		spans, err := decodeTemplateTypeSpans(w.Spans, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TemplateLiteralTypeData{Spans: spans}
	case "InferType":
		n.Kind = cnode.KindInferType
		n.Data = &cnode.InferTypeData{Name: w.Name}
	case "ReadonlyTypeOperator":
		n.Kind = cnode.KindReadonlyTypeOperator
		inner, err := decodeNode(w.Inner, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.ReadonlyTypeOperatorData{Inner: inner}
	case "TypeParameter":
		n.Kind = cnode.KindTypeParameter
		constraint, err := decodeOpt(w.Constraint, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		def, err := decodeOpt(w.Default, arena)
		if err != nil {
			return cnode.NoNode, err
		}
		n.Data = &cnode.TypeParameterData{Name: w.Name, Constraint: constraint, Default: def}
	case "TypeQuery":
		n.Kind = cnode.KindTypeQuery
		n.Data = &cnode.TypeQueryData{Name: w.Name}
	case "ThisType":
		n.Kind = cnode.KindThisType
	case "LiteralType":
		n.Kind = cnode.KindLiteralType
		n.Data = &cnode.LiteralTypeData{Kind: w.LiteralKind, SVal: w.SVal, NVal: w.NVal, BVal: w.BVal}

	default:
		return cnode.NoNode, fmt.Errorf("astjson: unrecognized node kind %q", w.Kind)
	}

	return arena.Add(n), nil
}

// unmarshalIfPresent decodes raw into dst unless raw is empty/null, in which
// case dst is left at its zero value.
func unmarshalIfPresent(raw json.RawMessage, dst any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func decodeModifier(s string) cnode.Modifier {
	switch s {
	case "add":
		return cnode.ModifierAdd
	case "remove":
		return cnode.ModifierRemove
	default:
		return cnode.ModifierNone
	}
}

func decodeParam(w wireNode, arena *cnode.Arena) (cnode.ParamData, error) {
	typ, err := decodeOpt(w.Type, arena)
	if err != nil {
		return cnode.ParamData{}, err
	}
	def, err := decodeOpt(w.Default, arena)
	if err != nil {
		return cnode.ParamData{}, err
	}
	return cnode.ParamData{Name: w.Name, Type: typ, Default: def, Optional: w.Optional, Rest: w.Rest}, nil
}

func decodeFunctionLike(w wireNode, arena *cnode.Arena) (cnode.FunctionLikeData, error) {
	typeParams, err := decodeList(w.TypeParams, arena)
	if err != nil {
		return cnode.FunctionLikeData{}, err
	}
	params, err := decodeList(w.Params, arena)
	if err != nil {
		return cnode.FunctionLikeData{}, err
	}
	ret, err := decodeOpt(w.ReturnType, arena)
	if err != nil {
		return cnode.FunctionLikeData{}, err
	}
	body, err := decodeOpt(w.Body, arena)
	if err != nil {
		return cnode.FunctionLikeData{}, err
	}
	thisParam, err := decodeOpt(w.ThisParam, arena)
	if err != nil {
		return cnode.FunctionLikeData{}, err
	}
	return cnode.FunctionLikeData{Name: w.Name, TypeParams: typeParams, Params: params, ReturnType: ret, Body: body, ThisParam: thisParam}, nil
}

func decodeTemplateExprSpans(raws []json.RawMessage, arena *cnode.Arena) ([]cnode.TemplateExprSpan, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]cnode.TemplateExprSpan, 0, len(raws))
	for _, r := range raws {
		var s struct {
			Text string          `json:"text"`
			Expr json.RawMessage `json:"expr"`
		}
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, fmt.Errorf("decoding template span: %w", err)
		}
		expr, err := decodeOpt(s.Expr, arena)
		if err != nil {
			return nil, err
		}
		out = append(out, cnode.TemplateExprSpan{Text: s.Text, Expr: expr})
	}
	return out, nil
}

func decodeTemplateTypeSpans(raws []json.RawMessage, arena *cnode.Arena) ([]cnode.TemplateSpanData, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]cnode.TemplateSpanData, 0, len(raws))
	for _, r := range raws {
		var s struct {
			Text string          `json:"text"`
			Type json.RawMessage `json:"type"`
		}
		if err := json.Unmarshal(r, &s); err != nil {
			return nil, fmt.Errorf("decoding template type span: %w", err)
		}
		typ, err := decodeOpt(s.Type, arena)
		if err != nil {
			return nil, err
		}
		out = append(out, cnode.TemplateSpanData{Text: s.Text, Type: typ})
	}
	return out, nil
}
