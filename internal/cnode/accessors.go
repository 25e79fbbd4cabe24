package cnode

import "fmt"

func payload[T any](a *Arena, idx NodeIndex, kind Kind) *T {
	n := a.Get(idx)
	if n.Kind != kind {
		panic(fmt.Sprintf("cnode: node %d is %s, not %s", idx, n.Kind, kind))
	}
	p, ok := n.Data.(*T)
	if !ok {
		panic(fmt.Sprintf("cnode: node %d of kind %s has no %T payload", idx, n.Kind, *new(T)))
	}
	return p
}

func (a *Arena) GetIdentifier(idx NodeIndex) *IdentifierData { return payload[IdentifierData](a, idx, KindIdentifier) }
func (a *Arena) GetNumericLiteral(idx NodeIndex) *NumericLiteralData {
	return payload[NumericLiteralData](a, idx, KindNumericLiteral)
}
func (a *Arena) GetStringLiteral(idx NodeIndex) *StringLiteralData {
	return payload[StringLiteralData](a, idx, KindStringLiteral)
}
func (a *Arena) GetBooleanLiteral(idx NodeIndex) *BooleanLiteralData {
	return payload[BooleanLiteralData](a, idx, KindBooleanLiteral)
}
func (a *Arena) GetBinaryExpr(idx NodeIndex) *BinaryExprData { return payload[BinaryExprData](a, idx, KindBinaryExpr) }
func (a *Arena) GetUnaryExpr(idx NodeIndex) *UnaryExprData   { return payload[UnaryExprData](a, idx, KindUnaryExpr) }
func (a *Arena) GetTypeOfExpr(idx NodeIndex) *TypeOfExprData { return payload[TypeOfExprData](a, idx, KindTypeOfExpr) }
func (a *Arena) GetConditionalExpr(idx NodeIndex) *ConditionalExprData {
	return payload[ConditionalExprData](a, idx, KindConditionalExpr)
}
func (a *Arena) GetCallExpr(idx NodeIndex) *CallExprData { return payload[CallExprData](a, idx, KindCallExpr) }
func (a *Arena) GetNewExpr(idx NodeIndex) *NewExprData   { return payload[NewExprData](a, idx, KindNewExpr) }
func (a *Arena) GetPropertyAccess(idx NodeIndex) *PropertyAccessData {
	return payload[PropertyAccessData](a, idx, KindPropertyAccess)
}
func (a *Arena) GetElementAccess(idx NodeIndex) *ElementAccessData {
	return payload[ElementAccessData](a, idx, KindElementAccess)
}
func (a *Arena) GetParam(idx NodeIndex) *ParamData { return payload[ParamData](a, idx, KindParameter) }
func (a *Arena) GetFunctionLike(idx NodeIndex) *FunctionLikeData {
	n := a.Get(idx)
	if n.Kind != KindFunctionExpr && n.Kind != KindArrowFunction && n.Kind != KindFunctionDecl {
		panic(fmt.Sprintf("cnode: node %d is %s, not a function-like node", idx, n.Kind))
	}
	return n.Data.(*FunctionLikeData)
}
func (a *Arena) GetVarDecl(idx NodeIndex) *VarDeclData { return payload[VarDeclData](a, idx, KindVarDecl) }
func (a *Arena) GetClass(idx NodeIndex) *ClassDeclData { return payload[ClassDeclData](a, idx, KindClassDecl) }
func (a *Arena) GetPropertyDecl(idx NodeIndex) *PropertyDeclData {
	return payload[PropertyDeclData](a, idx, KindPropertyDecl)
}
func (a *Arena) GetMethodDecl(idx NodeIndex) *MethodDeclData { return payload[MethodDeclData](a, idx, KindMethodDecl) }
func (a *Arena) GetInterface(idx NodeIndex) *InterfaceDeclData {
	return payload[InterfaceDeclData](a, idx, KindInterfaceDecl)
}
func (a *Arena) GetTypeAlias(idx NodeIndex) *TypeAliasDeclData {
	return payload[TypeAliasDeclData](a, idx, KindTypeAliasDecl)
}
func (a *Arena) GetEnum(idx NodeIndex) *EnumDeclData             { return payload[EnumDeclData](a, idx, KindEnumDecl) }
func (a *Arena) GetEnumMember(idx NodeIndex) *EnumMemberData     { return payload[EnumMemberData](a, idx, KindEnumMember) }
func (a *Arena) GetImport(idx NodeIndex) *ImportDeclData         { return payload[ImportDeclData](a, idx, KindImportDecl) }
func (a *Arena) GetImportSpecifier(idx NodeIndex) *ImportSpecifierData {
	return payload[ImportSpecifierData](a, idx, KindImportSpecifier)
}
func (a *Arena) GetExport(idx NodeIndex) *ExportDeclData { return payload[ExportDeclData](a, idx, KindExportDecl) }
func (a *Arena) GetExportSpecifier(idx NodeIndex) *ExportSpecifierData {
	return payload[ExportSpecifierData](a, idx, KindExportSpecifier)
}
func (a *Arena) GetModule(idx NodeIndex) *ModuleDeclData         { return payload[ModuleDeclData](a, idx, KindModuleDecl) }
func (a *Arena) GetBlock(idx NodeIndex) *BlockData               { return payload[BlockData](a, idx, KindBlock) }
func (a *Arena) GetIf(idx NodeIndex) *IfStmtData                 { return payload[IfStmtData](a, idx, KindIfStmt) }
func (a *Arena) GetReturn(idx NodeIndex) *ReturnStmtData         { return payload[ReturnStmtData](a, idx, KindReturnStmt) }
func (a *Arena) GetExpressionStmt(idx NodeIndex) *ExpressionStmtData {
	return payload[ExpressionStmtData](a, idx, KindExpressionStmt)
}
func (a *Arena) GetSourceFile(idx NodeIndex) *SourceFileData { return payload[SourceFileData](a, idx, KindSourceFile) }

func (a *Arena) GetArrayLiteral(idx NodeIndex) *ArrayLiteralData {
	return payload[ArrayLiteralData](a, idx, KindArrayLiteral)
}
func (a *Arena) GetObjectLiteral(idx NodeIndex) *ObjectLiteralData {
	return payload[ObjectLiteralData](a, idx, KindObjectLiteral)
}
func (a *Arena) GetPropertyAssignment(idx NodeIndex) *PropertyAssignmentData {
	return payload[PropertyAssignmentData](a, idx, KindPropertyAssignment)
}
func (a *Arena) GetSpreadElement(idx NodeIndex) *SpreadElementData {
	return payload[SpreadElementData](a, idx, KindSpreadElement)
}
func (a *Arena) GetTemplateExpr(idx NodeIndex) *TemplateExprData {
	return payload[TemplateExprData](a, idx, KindTemplateExpr)
}
func (a *Arena) GetAssignmentExpr(idx NodeIndex) *AssignmentExprData {
	return payload[AssignmentExprData](a, idx, KindAssignmentExpr)
}
func (a *Arena) GetParenExpr(idx NodeIndex) *ParenExprData { return payload[ParenExprData](a, idx, KindParenExpr) }

func (a *Arena) GetTypeReference(idx NodeIndex) *TypeReferenceData {
	return payload[TypeReferenceData](a, idx, KindTypeReference)
}
func (a *Arena) GetUnionType(idx NodeIndex) *UnionTypeData { return payload[UnionTypeData](a, idx, KindUnionType) }
func (a *Arena) GetIntersectionType(idx NodeIndex) *IntersectionTypeData {
	return payload[IntersectionTypeData](a, idx, KindIntersectionType)
}
func (a *Arena) GetArrayType(idx NodeIndex) *ArrayTypeData { return payload[ArrayTypeData](a, idx, KindArrayType) }
func (a *Arena) GetTupleType(idx NodeIndex) *TupleTypeData { return payload[TupleTypeData](a, idx, KindTupleType) }
func (a *Arena) GetTupleElement(idx NodeIndex) *TupleElementData {
	return payload[TupleElementData](a, idx, KindTupleElement)
}
func (a *Arena) GetFunctionType(idx NodeIndex) *FunctionTypeData {
	return payload[FunctionTypeData](a, idx, KindFunctionType)
}
func (a *Arena) GetObjectType(idx NodeIndex) *ObjectTypeData { return payload[ObjectTypeData](a, idx, KindObjectType) }
func (a *Arena) GetPropertySignature(idx NodeIndex) *PropertySignatureData {
	return payload[PropertySignatureData](a, idx, KindPropertySignature)
}
func (a *Arena) GetIndexSignature(idx NodeIndex) *IndexSignatureData {
	return payload[IndexSignatureData](a, idx, KindIndexSignature)
}
func (a *Arena) GetConditionalType(idx NodeIndex) *ConditionalTypeData {
	return payload[ConditionalTypeData](a, idx, KindConditionalType)
}
func (a *Arena) GetMappedType(idx NodeIndex) *MappedTypeData { return payload[MappedTypeData](a, idx, KindMappedType) }
func (a *Arena) GetIndexedAccessType(idx NodeIndex) *IndexedAccessTypeData {
	return payload[IndexedAccessTypeData](a, idx, KindIndexedAccessType)
}
func (a *Arena) GetKeyOfType(idx NodeIndex) *KeyOfTypeData { return payload[KeyOfTypeData](a, idx, KindKeyOfType) }
func (a *Arena) GetTemplateLiteralType(idx NodeIndex) *TemplateLiteralTypeData {
	return payload[TemplateLiteralTypeData](a, idx, KindTemplateLiteralType)
}
func (a *Arena) GetInferType(idx NodeIndex) *InferTypeData { return payload[InferTypeData](a, idx, KindInferType) }
func (a *Arena) GetReadonlyTypeOperator(idx NodeIndex) *ReadonlyTypeOperatorData {
	return payload[ReadonlyTypeOperatorData](a, idx, KindReadonlyTypeOperator)
}
func (a *Arena) GetTypeParameter(idx NodeIndex) *TypeParameterData {
	return payload[TypeParameterData](a, idx, KindTypeParameter)
}
func (a *Arena) GetTypeQuery(idx NodeIndex) *TypeQueryData { return payload[TypeQueryData](a, idx, KindTypeQuery) }
func (a *Arena) GetLiteralType(idx NodeIndex) *LiteralTypeData { return payload[LiteralTypeData](a, idx, KindLiteralType) }
