// Package ast defines the Abstract Syntax Tree node types Aura's parser
// produces: expressions (which double as statements — Aura has no
// statement/expression split, every construct yields a value) and type
// expressions (record/union/generic/reference/constant type syntax).
package ast

import "github.com/jweissman/aua-sub001/internal/compiler/lexer"

// Node is satisfied by every AST node: it can report the cursor position
// where it begins in source.
type Node interface {
	At() lexer.Cursor
}

// Expr is an expression node. Aura's grammar is expression-oriented: if,
// while, assignment, and sequences are all Exprs, not a separate
// statement kind.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is a type-position node: type references, record/union/generic
// type syntax, and constant (literal) types.
type TypeExpr interface {
	Node
	typeExprNode()
}

// Base is embedded by every concrete node to satisfy Node.At(). Exported
// so the parser package can set it directly in composite literals.
type Base struct {
	Cursor lexer.Cursor
}

// At implements Node.
func (b Base) At() lexer.Cursor { return b.Cursor }

// NewBase constructs the embeddable Base carrying a node's cursor.
func NewBase(at lexer.Cursor) Base { return Base{Cursor: at} }

// IntLit is an integer literal, e.g. "42".
type IntLit struct {
	Base
	Value string
}

// FloatLit is a floating point literal, e.g. "3.14".
type FloatLit struct {
	Base
	Value string
}

// BoolLit is "true" or "false".
type BoolLit struct {
	Base
	Value bool
}

// NihilLit is the "nihil" literal.
type NihilLit struct {
	Base
}

// StrLit is a raw 'simple' string literal with no interpolation.
type StrLit struct {
	Base
	Value string
}

// Identifier references a bound name.
type Identifier struct {
	Base
	Name string
}

// GenLit is a """generative""" literal whose body had no interpolation:
// its Text is sent to the LLM verbatim as a prompt.
type GenLit struct {
	Base
	Text string
}

// StrPart is one literal chunk inside a StructuredStr/StructuredGenLit's
// Parts list.
type StrPart struct {
	Base
	Value string
}

// StructuredStr is an interpolated "..." string: a sequence of StrPart
// literal chunks interleaved with embedded expressions.
type StructuredStr struct {
	Base
	Parts []Expr
}

// StructuredGenLit is an interpolated """...""" generative literal: like
// StructuredStr, but the concatenated result is sent to the LLM as a
// prompt rather than returned directly.
type StructuredGenLit struct {
	Base
	Parts []Expr
}

// Negate is unary minus or "not".
type Negate struct {
	Base
	Op      string // "-" or "not"
	Operand Expr
}

// BinOp is a binary operation. Member access ("expr.id") is represented
// as BinOp{Op: "dot", Rhs: StrLit{id}} rather than a dedicated node.
type BinOp struct {
	Base
	Op  string
	Lhs Expr
	Rhs Expr
}

// Cast is "value as Type".
type Cast struct {
	Base
	Value Expr
	Type  TypeExpr
}

// Assign is "name = expr".
type Assign struct {
	Base
	Name  string
	Value Expr
}

// If is "if cond then then (elif cond then ...)* (else ...)? end".
// Elif branches are desugared into nested If nodes in Else.
type If struct {
	Base
	Cond Expr
	Then Expr
	Else Expr // nil when no else/elif branch
}

// While is "while cond ... end".
type While struct {
	Base
	Cond Expr
	Body Expr
}

// FunDecl is "fun name(params) body end".
type FunDecl struct {
	Base
	Name   string
	Params []string
	Body   Expr
}

// Call is a parens-less or parenthesized command call: "name arg1 arg2"
// or "name(arg1, arg2)".
type Call struct {
	Base
	Name string
	Args []Expr
}

// Seq is a sequence of expressions executed in order; its value is the
// last expression's value.
type Seq struct {
	Base
	Stmts []Expr
}

// Field is a named member: used both inside ObjectLiteral
// (Value holds an Expr) and inside RecordType (TypeValue holds a
// TypeExpr). Exactly one of Value/TypeValue is set.
type Field struct {
	Base
	Name      string
	Value     Expr
	TypeValue TypeExpr
	Optional  bool
}

// ObjectLiteral is "{ f1: v1, f2: v2 }" evaluated as a value.
type ObjectLiteral struct {
	Base
	Fields []*Field
}

// ArrayLiteral is "[e1, e2, e3]".
type ArrayLiteral struct {
	Base
	Elems []Expr
}

// TypeDeclaration is "type Name = typeexpr".
type TypeDeclaration struct {
	Base
	Name string
	Def  TypeExpr
}

// TypeReference is a bare type name in type position, e.g. "Int" or
// "Point".
type TypeReference struct {
	Base
	Name string
}

// TypeConstant is a literal value used as a type (a union member like
// "active"), e.g. in `'active' | 'inactive'`.
type TypeConstant struct {
	Base
	Literal Expr
}

// UnionType is "A | B | C".
type UnionType struct {
	Base
	Members []TypeExpr
}

// RecordType is "{ f1: T1, f2: T2 }" in type position.
type RecordType struct {
	Base
	Fields []*Field
}

// GenericType is "Name<T1, T2>", e.g. List<Int>.
type GenericType struct {
	Base
	BaseName string
	Params   []TypeExpr
}

// TypeAnnotation pairs an expression (typically a parameter name wrapped
// in an Identifier) with a declared type, e.g. function parameter
// annotations.
type TypeAnnotation struct {
	Base
	Expr Expr
	Type TypeExpr
}

func (IntLit) exprNode()           {}
func (FloatLit) exprNode()         {}
func (BoolLit) exprNode()          {}
func (NihilLit) exprNode()         {}
func (StrLit) exprNode()           {}
func (Identifier) exprNode()       {}
func (GenLit) exprNode()           {}
func (StrPart) exprNode()          {}
func (StructuredStr) exprNode()    {}
func (StructuredGenLit) exprNode() {}
func (Negate) exprNode()           {}
func (BinOp) exprNode()            {}
func (Cast) exprNode()             {}
func (Assign) exprNode()           {}
func (If) exprNode()               {}
func (While) exprNode()            {}
func (FunDecl) exprNode()          {}
func (Call) exprNode()             {}
func (Seq) exprNode()              {}
func (ObjectLiteral) exprNode()    {}
func (ArrayLiteral) exprNode()     {}
func (TypeDeclaration) exprNode()  {}
func (TypeAnnotation) exprNode()   {}

func (TypeReference) typeExprNode() {}
func (TypeConstant) typeExprNode()  {}
func (UnionType) typeExprNode()     {}
func (RecordType) typeExprNode()    {}
func (GenericType) typeExprNode()   {}
